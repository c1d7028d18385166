package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
)

func TestTweak_ChecksumScenario(t *testing.T) {
	// Concrete scenario from spec.md §8.1: tweak(offset=9, value=64).
	// The body bytes sum to 0 mod 128, so checksum is 0x00 (spec.md §8.1's
	// own 0x48 literal doesn't satisfy its §8 mod-128 invariant).
	msg, err := Tweak(9, 64)
	require.NoError(t, err)
	want := []byte{0xF0, 0x43, 0x7D, 0x40, 0x55, 0x42, 0x20, 0x00, 0x09, 0x40, 0x00, 0xF7}
	assert.Equal(t, want, msg)
}

func TestTweak_PatchBoundaryScenario(t *testing.T) {
	// spec.md §8.2: tweak(offset=32, value=0) maps to section=1, offset 0.
	msg, err := Tweak(32, 0)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), msg[7], "section")
	assert.Equal(t, byte(0x00), msg[8], "section_offset")
}

func TestTweak_RoundTripsThroughDecodeTweak(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		offset := rapid.IntRange(0, PatchTotalLength-1).Draw(t, "offset")
		value := byte(rapid.IntRange(0, 127).Draw(t, "value"))

		msg, err := Tweak(offset, value)
		require.NoError(t, err)

		gotOffset, gotValue, err := DecodeTweak(msg)
		require.NoError(t, err)
		assert.Equal(t, offset, gotOffset)
		assert.Equal(t, value, gotValue)
	})
}

func TestTweak_ChecksumInvariant(t *testing.T) {
	// spec.md §8: for all offset/value, sum of bytes after F0 through the
	// checksum byte (exclusive of F7) is 0 mod 128.
	rapid.Check(t, func(t *rapid.T) {
		offset := rapid.IntRange(0, PatchTotalLength-1).Draw(t, "offset")
		value := byte(rapid.IntRange(0, 127).Draw(t, "value"))

		msg, err := Tweak(offset, value)
		require.NoError(t, err)

		body := msg[1 : len(msg)-1] // after F0, through chk, excluding F7
		var sum int
		for _, b := range body {
			sum += int(b)
		}
		assert.Zero(t, sum%128)
	})
}

func TestDecodeTweak_RejectsBadChecksum(t *testing.T) {
	msg, err := Tweak(9, 64)
	require.NoError(t, err)
	msg[len(msg)-2] ^= 0xFF
	_, _, err = DecodeTweak(msg)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindChecksumMismatch, kind)
}

func TestDecodeTweak_RejectsBadHeader(t *testing.T) {
	msg, err := Tweak(9, 64)
	require.NoError(t, err)
	msg[2] ^= 0xFF
	_, _, err = DecodeTweak(msg)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindBadHeader, kind)
}

func TestEncodeDecodePatch_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var common [PatchCommonLength]byte
		commonVals := rapid.SliceOfN(rapid.IntRange(0, 127), PatchCommonLength, PatchCommonLength).Draw(t, "common")
		for i, v := range commonVals {
			common[i] = byte(v)
		}
		effectLen := rapid.IntRange(0, PatchEffectMaxLength).Draw(t, "effectLen")
		effectVals := rapid.SliceOfN(rapid.IntRange(0, 127), effectLen, effectLen).Draw(t, "effect")
		effect := make([]byte, effectLen)
		for i, v := range effectVals {
			effect[i] = byte(v)
		}

		blocks, err := EncodePatch(common, effect)
		require.NoError(t, err)

		gotCommon, gotEffect, err := DecodePatch(blocks)
		require.NoError(t, err)
		assert.Equal(t, common, gotCommon)

		wantEffect := make([]byte, PatchEffectMaxLength)
		copy(wantEffect, effect)
		assert.Equal(t, wantEffect, gotEffect)
	})
}

func TestDecodePatch_RejectsChecksumMismatch(t *testing.T) {
	var common [PatchCommonLength]byte
	blocks, err := EncodePatch(common, nil)
	require.NoError(t, err)
	blocks[0][len(blocks[0])-2] ^= 0xFF

	_, _, err = DecodePatch(blocks)
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindChecksumMismatch, kind)
}

func TestDecodePatch_RejectsTruncatedBlock(t *testing.T) {
	_, _, err := DecodePatch([][]byte{{0xF0, 0x43}})
	require.Error(t, err)
	kind, ok := apperr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindTruncatedBlock, kind)
}

func TestExtractName(t *testing.T) {
	var common [PatchCommonLength]byte
	copy(common[16:28], "MyPatch\x00\x00\x00\x00\x00")
	name, err := ExtractName(common[:])
	require.NoError(t, err)
	assert.Equal(t, "MyPatch", name)
}

func TestExtractName_EmptyFallsBackToDefault(t *testing.T) {
	var common [PatchCommonLength]byte
	name, err := ExtractName(common[:])
	require.NoError(t, err)
	assert.Equal(t, "Magicstomp Patch", name)
}

func TestEncodeName_RoundTripsThroughExtractName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		name := rapid.StringMatching(`[A-Za-z0-9 ]{0,12}`).Draw(t, "name")
		encoded := EncodeName(name)

		var common [PatchCommonLength]byte
		copy(common[16:28], encoded[:])

		got, err := ExtractName(common[:])
		require.NoError(t, err)

		trimmed := name
		for len(trimmed) > 0 && trimmed[len(trimmed)-1] == ' ' {
			trimmed = trimmed[:len(trimmed)-1]
		}
		if trimmed == "" {
			trimmed = "Magicstomp Patch"
		}
		assert.Equal(t, trimmed, got)
	})
}
