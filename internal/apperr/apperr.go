// Package apperr defines the error taxonomy shared by every component of
// the Magicstomp auto-match pipeline, and the mapping from that taxonomy to
// process exit codes and stderr JSON records (see spec.md §7).
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Kind identifies a category of failure across the pipeline. Components
// return sentinel errors of these kinds (wrapped with context via %w) so
// that callers can classify failures with errors.Is/errors.As without
// string matching.
type Kind string

const (
	// Codec
	KindChecksumMismatch Kind = "ChecksumMismatch"
	KindBadHeader        Kind = "BadHeader"
	KindTruncatedBlock   Kind = "TruncatedBlock"
	KindShortMessage     Kind = "ShortMessage"
	KindUnknownCommand   Kind = "UnknownCommand"

	// PatchModel
	KindNoSuchParameter Kind = "NoSuchParameter"
	KindOutOfRange      Kind = "OutOfRange"

	// DeviceLink
	KindPortOpen       Kind = "PortOpen"
	KindRequestTimeout Kind = "RequestTimeout"
	KindBusy           Kind = "Busy"

	// AudioEngine
	KindConfigureFailed Kind = "ConfigureFailed"
	KindAudioTimeout    Kind = "AudioTimeout"
	KindStreamGlitch    Kind = "StreamGlitch"
	KindSilentInput     Kind = "SilentInput"
	KindClipping        Kind = "Clipping"

	// Conductor
	KindInvalidTransition Kind = "InvalidTransition"
	KindCancelled         Kind = "Cancelled"
)

// fatal reports whether a Kind always aborts the operation that raised it.
// StreamGlitch and Clipping are warnings: the caller still receives data.
var fatal = map[Kind]bool{
	KindChecksumMismatch:  true,
	KindBadHeader:         true,
	KindTruncatedBlock:    true,
	KindShortMessage:      true,
	KindUnknownCommand:    true,
	KindNoSuchParameter:   true,
	KindOutOfRange:        true,
	KindPortOpen:          true,
	KindRequestTimeout:    true,
	KindBusy:              true,
	KindConfigureFailed:   true,
	KindAudioTimeout:      true,
	KindStreamGlitch:      false,
	KindSilentInput:       false,
	KindClipping:          false,
	KindInvalidTransition: true,
	KindCancelled:         false,
}

// IsFatal reports whether errors of this Kind should abort the enclosing
// operation (as opposed to being recorded and continued past).
func (k Kind) IsFatal() bool {
	return fatal[k]
}

// Classified is an error annotated with a Kind, so the CLI layer can map it
// to an exit code and a structured stderr record without parsing messages.
type Classified struct {
	Kind Kind
	Op   string // component/operation that raised it, e.g. "codec.DecodePatch"
	Err  error
}

func (c *Classified) Error() string {
	if c.Op != "" {
		return fmt.Sprintf("%s: %s: %v", c.Op, c.Kind, c.Err)
	}
	return fmt.Sprintf("%s: %v", c.Kind, c.Err)
}

func (c *Classified) Unwrap() error { return c.Err }

// New wraps err with the given Kind and operation name.
func New(kind Kind, op string, err error) *Classified {
	return &Classified{Kind: kind, Op: op, Err: err}
}

// Newf builds a Classified from a formatted message.
func Newf(kind Kind, op, format string, args ...any) *Classified {
	return &Classified{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind from err if it (or something it wraps) is a
// *Classified, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var c *Classified
	if errors.As(err, &c) {
		return c.Kind, true
	}
	return "", false
}

// exitCodes maps a Kind to the process exit code mandated by spec.md §6/§9.
var exitCodes = map[Kind]int{
	KindSilentInput:       2,
	KindConfigureFailed:   3,
	KindPortOpen:          3,
	KindNoSuchParameter:   4,
	KindOutOfRange:        4,
	KindRequestTimeout:    5,
	KindBusy:              5,
	KindAudioTimeout:      5,
	KindStreamGlitch:      5,
	KindInvalidTransition: 6,
}

// ExitCode returns the process exit code for err, or 1 (generic CLI usage
// failure) if err is not a Classified error, or 0 if err is nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if kind, ok := KindOf(err); ok {
		if code, ok := exitCodes[kind]; ok {
			return code
		}
	}
	return 1
}

// Record is the structured stderr record emitted for fatal errors, per
// spec.md §7 ("a structured record written to stderr as JSON").
type Record struct {
	Time string `json:"time"`
	Kind string `json:"kind"`
	Op   string `json:"op"`
	Msg  string `json:"msg"`
}

// Report writes a single-line JSON record for a fatal error to stderr. It
// never returns an error itself: reporting must not introduce a second
// failure mode on top of the one being reported.
func Report(err error) {
	if err == nil {
		return
	}
	rec := Record{Time: time.Now().UTC().Format(time.RFC3339Nano), Msg: err.Error()}
	if c, ok := asClassified(err); ok {
		rec.Kind = string(c.Kind)
		rec.Op = c.Op
	}
	enc := json.NewEncoder(os.Stderr)
	_ = enc.Encode(rec)
}

func asClassified(err error) (*Classified, bool) {
	var c *Classified
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}
