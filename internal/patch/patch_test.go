package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/codec"
)

func TestFromBytes_UnknownEffectTypeIsUnsupported(t *testing.T) {
	var common [codec.PatchCommonLength]byte
	common[0] = 0xFF // not registered
	p := FromBytes(common, nil)
	assert.True(t, p.IsUnsupported())

	_, err := p.Get("anything")
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNoSuchParameter, kind)
}

func TestNewDefault_RoundTripsAllParameters(t *testing.T) {
	for _, code := range RegisteredCodes() {
		et := Lookup(code)
		p, err := NewDefault(code)
		require.NoError(t, err)
		require.False(t, p.IsUnsupported())

		for _, param := range et.Parameters {
			got, err := p.Get(param.Key)
			require.NoError(t, err)
			// decode(encode(default)) must be within one quantization step.
			assert.LessOrEqual(t, absFloat(got-param.Default), param.Step+1e-9,
				"effect %s param %s: got %v want ~%v", et.Name, param.Key, got, param.Default)
		}
	}
}

func TestSet_ClampsOutOfRangeAndStaysOnGrid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		codes := RegisteredCodes()
		code := codes[rapid.IntRange(0, len(codes)-1).Draw(t, "codeIdx")]
		et := Lookup(code)
		param := et.Parameters[rapid.IntRange(0, len(et.Parameters)-1).Draw(t, "paramIdx")]

		p, err := NewDefault(code)
		require.NoError(t, err)

		span := param.Max - param.Min
		value := param.Min + span*rapid.Float64Range(-1, 2).Draw(t, "frac")

		stored, err := p.Set(param.Key, value)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, stored, param.Min-1e-9)
		assert.LessOrEqual(t, stored, param.Max+1e-9)

		if param.Step > 0 {
			steps := (stored - param.Min) / param.Step
			assert.InDelta(t, steps, roundFloat(steps), 1e-6, "value must land on the step grid")
		}
	})
}

func TestSet_UnknownKeyFails(t *testing.T) {
	p, err := NewDefault(EffectMonoDelay)
	require.NoError(t, err)
	_, err = p.Set("not_a_real_key", 1.0)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindNoSuchParameter, kind)
}

func TestRename_PadsAndExtractsName(t *testing.T) {
	p, err := NewDefault(EffectMonoDelay)
	require.NoError(t, err)
	p.Rename("Lead Tone")
	assert.Equal(t, "Lead Tone", p.Name())
}

func TestDiff_FindsChangedBytesOnly(t *testing.T) {
	p, err := NewDefault(EffectMonoDelay)
	require.NoError(t, err)
	q := p.Clone()

	_, err = q.Set("delay_feedback", 0.9)
	require.NoError(t, err)

	diffs := p.Diff(q)
	require.NotEmpty(t, diffs)
	for _, d := range diffs {
		assert.NotEqual(t, d.Old, d.New)
	}
}

func TestCompoundEffect_NamespacedKeys(t *testing.T) {
	p, err := NewDefault(EffectDistortionMultiFlange)
	require.NoError(t, err)

	for _, key := range []string{"distortion.gain", "gate.threshold", "compressor.ratio", "modulator.rate_hz", "delay.time_ms", "reverb.mix"} {
		_, err := p.Get(key)
		require.NoError(t, err, "expected namespaced key %s to resolve", key)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func roundFloat(v float64) float64 {
	if v < 0 {
		return float64(int64(v - 0.5))
	}
	return float64(int64(v + 0.5))
}
