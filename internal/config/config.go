// Package config loads command-line flags and the persisted calibration
// profile for a magicstomp session, in the teacher's own idiom: flat
// pflag.*P declarations (cmd/direwolf/main.go) plus a YAML file for
// anything worth remembering between runs.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/audioengine"
)

// midiPortEnvVar overrides --midi-port when set, letting CI/headless
// setups pin a port without editing invocation scripts.
const midiPortEnvVar = "MAGICSTOMP_MIDI_PORT"

// Flags holds every flag cmd/magicstomp accepts, across all verbs.
type Flags struct {
	MIDIPort         string
	Via              string
	SampleRate       float64
	Channels         int
	ProfilePath      string
	PatchFile        string
	TargetAudioFile  string
	DIAudioFile      string
	ReportDir        string
	MaxIterations    int
	MinImprovement   float64
	LogLevel         string
	Help             bool
}

// Parse parses args (typically os.Args[1:]) into Flags.
func Parse(args []string) (Flags, error) {
	fs := pflag.NewFlagSet("magicstomp", pflag.ContinueOnError)

	midiPort := fs.StringP("midi-port", "m", "", "MIDI output port name or path (overridden by "+midiPortEnvVar+" if set).")
	via := fs.StringP("via", "V", "auto", "Device enumeration backend: portaudio, udev, or auto.")
	sampleRate := fs.Float64P("sample-rate", "r", 44100, "Audio sample rate, Hz.")
	channels := fs.IntP("channels", "n", 1, "Number of audio channels, 1 or 2.")
	profilePath := fs.StringP("profile", "p", defaultProfilePath(), "Path to the calibration profile YAML file.")
	patchFile := fs.StringP("patch-file", "f", "", "Path to a .syx patch dump file.")
	targetAudioFile := fs.StringP("target-audio", "t", "", "Path to the target reference audio clip.")
	diAudioFile := fs.StringP("di-audio", "d", "", "Path to the DI (dry, re-amping) signal to play through the device under test.")
	reportDir := fs.StringP("report-dir", "o", ".", "Directory to write the session report JSON into.")
	maxIterations := fs.IntP("max-iterations", "i", 20, "Maximum coordinate-search iterations.")
	minImprovement := fs.Float64P("min-improvement", "e", 1e-6, "Minimum per-iteration loss improvement before stopping.")
	logLevel := fs.StringP("log-level", "l", "info", "Log level: debug, info, warn, error.")
	help := fs.BoolP("help", "h", false, "Display help text.")

	if err := fs.Parse(args); err != nil {
		return Flags{}, apperr.Newf(apperr.KindConfigureFailed, "config.Parse", "parse flags: %v", err)
	}

	resolvedPort := *midiPort
	if env := os.Getenv(midiPortEnvVar); env != "" {
		resolvedPort = env
	}

	return Flags{
		MIDIPort:        resolvedPort,
		Via:             *via,
		SampleRate:      *sampleRate,
		Channels:        *channels,
		ProfilePath:     *profilePath,
		PatchFile:       *patchFile,
		TargetAudioFile: *targetAudioFile,
		DIAudioFile:     *diAudioFile,
		ReportDir:       *reportDir,
		MaxIterations:   *maxIterations,
		MinImprovement:  *minImprovement,
		LogLevel:        *logLevel,
		Help:            *help,
	}, nil
}

func defaultProfilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "magicstomp-profile.yaml"
	}
	return dir + "/magicstomp/profile.yaml"
}

// Profile is the on-disk form of a device's calibration, keyed by a
// human-chosen interface name so a user can keep several (e.g. "studio
// interface" vs "laptop headphone out").
type Profile struct {
	Interfaces map[string]audioengine.CalibrationProfile `yaml:"interfaces"`
}

// LoadProfile reads a Profile from path; a missing file yields an empty
// Profile rather than an error, since calibration just hasn't happened
// yet.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Profile{Interfaces: map[string]audioengine.CalibrationProfile{}}, nil
	}
	if err != nil {
		return Profile{}, apperr.Newf(apperr.KindConfigureFailed, "config.LoadProfile", "read %s: %v", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, apperr.Newf(apperr.KindConfigureFailed, "config.LoadProfile", "parse %s: %v", path, err)
	}
	if p.Interfaces == nil {
		p.Interfaces = map[string]audioengine.CalibrationProfile{}
	}
	return p, nil
}

// SaveProfile writes p to path as YAML, creating parent directories as
// needed.
func SaveProfile(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return apperr.Newf(apperr.KindConfigureFailed, "config.SaveProfile", "marshal: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.Newf(apperr.KindConfigureFailed, "config.SaveProfile", "create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return apperr.Newf(apperr.KindConfigureFailed, "config.SaveProfile", "write %s: %v", path, err)
	}
	return nil
}
