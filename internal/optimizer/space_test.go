package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpace_SetClampsToBounds(t *testing.T) {
	space := NewSpace(map[string]Bounds{
		"gain": {Min: 0, Max: 1, Step: 0.1, Current: 0.5},
	})
	assert.True(t, space.Set("gain", 5))
	assert.Equal(t, 1.0, space.Get("gain"))

	assert.True(t, space.Set("gain", -5))
	assert.Equal(t, 0.0, space.Get("gain"))
}

func TestSpace_SetUnknownParameterReturnsFalse(t *testing.T) {
	space := NewSpace(map[string]Bounds{"gain": {Min: 0, Max: 1, Step: 0.1, Current: 0.5}})
	assert.False(t, space.Set("nope", 1))
}

func TestSpace_CloneIsIndependent(t *testing.T) {
	space := NewSpace(map[string]Bounds{"gain": {Min: 0, Max: 1, Step: 0.1, Current: 0.5}})
	clone := space.Clone()
	clone.Set("gain", 0.9)
	assert.Equal(t, 0.5, space.Get("gain"))
	assert.Equal(t, 0.9, clone.Get("gain"))
}

func TestSpace_NamesAreSorted(t *testing.T) {
	space := NewSpace(map[string]Bounds{
		"zeta": {Min: 0, Max: 1},
		"alpha": {Min: 0, Max: 1},
	})
	assert.Equal(t, []string{"alpha", "zeta"}, space.Names())
}
