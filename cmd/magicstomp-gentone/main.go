// Command magicstomp-gentone plays a sine test tone through
// the configured audio device, for verifying signal path and levels
// before running a full tone-match session. Adapted from the teacher's
// cmd/gen_tone, a quick standalone tone-generation smoke test, replacing
// its direct ALSA/OSS cgo calls with the audioengine.Engine the rest of
// this module shares.
package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/pflag"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/audioengine"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := pflag.NewFlagSet("magicstomp-gentone", pflag.ContinueOnError)
	freq := fs.Float64P("freq", "f", 440, "Tone frequency, Hz.")
	seconds := fs.Float64P("seconds", "s", 2, "Tone duration, seconds.")
	sampleRate := fs.Float64P("sample-rate", "r", 44100, "Sample rate, Hz.")
	channels := fs.IntP("channels", "n", 1, "Number of channels.")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if err := portaudio.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "portaudio init: %v\n", err)
		return 1
	}
	defer portaudio.Terminate()

	tone := generateSineTone(*sampleRate, *freq, *seconds)
	interleaved := make([]float32, len(tone)**channels)
	for i, v := range tone {
		for c := 0; c < *channels; c++ {
			interleaved[i**channels+c] = v
		}
	}

	engine := audioengine.New(*sampleRate, *channels)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*seconds*2)*time.Second+5*time.Second)
	defer cancel()

	if _, err := engine.PlayRecord(ctx, interleaved, 200*time.Millisecond); err != nil {
		if kind, ok := apperr.KindOf(err); ok {
			fmt.Fprintf(os.Stderr, "playback/record failed (%s): %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "playback/record failed: %v\n", err)
		}
		return apperr.ExitCode(err)
	}
	fmt.Println("tone played and captured without clipping or silence")
	return 0
}

func generateSineTone(sampleRate, freqHz, seconds float64) []float32 {
	n := int(sampleRate * seconds)
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freqHz*float64(i)/sampleRate))
	}
	return out
}
