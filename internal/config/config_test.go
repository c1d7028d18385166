package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wboxxx/magicstomp-autotune/internal/audioengine"
)

func TestParse_DefaultsAndOverrides(t *testing.T) {
	flags, err := Parse([]string{"--sample-rate", "48000", "--channels", "2", "--via", "udev"})
	require.NoError(t, err)
	assert.Equal(t, 48000.0, flags.SampleRate)
	assert.Equal(t, 2, flags.Channels)
	assert.Equal(t, "udev", flags.Via)
	assert.Equal(t, 20, flags.MaxIterations)
}

func TestParse_EnvOverridesMIDIPortFlag(t *testing.T) {
	t.Setenv(midiPortEnvVar, "/dev/snd/midiC1D0")
	flags, err := Parse([]string{"--midi-port", "/dev/snd/midiC0D0"})
	require.NoError(t, err)
	assert.Equal(t, "/dev/snd/midiC1D0", flags.MIDIPort)
}

func TestLoadProfile_MissingFileReturnsEmpty(t *testing.T) {
	profile, err := LoadProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Empty(t, profile.Interfaces)
}

func TestSaveLoadProfile_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	want := Profile{Interfaces: map[string]audioengine.CalibrationProfile{
		"studio interface": {LatencySamples: 512, GainCompensation: 1.3, SampleRate: 48000},
	}}
	require.NoError(t, SaveProfile(path, want))

	got, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, statErr := os.Stat(path)
	require.NoError(t, statErr)
}
