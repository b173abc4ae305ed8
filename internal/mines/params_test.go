package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPreset(t *testing.T) {
	p, ok := LookupPreset("Expert")
	require.True(t, ok)
	assert.Equal(t, GameParams{Height: 16, Width: 30, MineCount: 99}, p.GameParams)

	_, ok = LookupPreset("nightmare")
	assert.False(t, ok)
}

func TestPresetsAreValid(t *testing.T) {
	for _, p := range Presets {
		assert.NoError(t, p.Validate(), p.Name)
	}
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams("height=4&width=5&mine_count=3&extra=1")
	require.NoError(t, err)
	assert.Equal(t, GameParams{Height: 4, Width: 5, MineCount: 3}, p)
	assert.Equal(t, "4x5/3", p.String())

	_, err = ParseParams("height=4&width=5")
	assert.Error(t, err)

	_, err = ParseParams("height=2&width=2&mine_count=5")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = ParseParams("height=x&width=2&mine_count=1")
	assert.Error(t, err)

	_, err = ParseParams("height=4294967296&width=4294967296&mine_count=0")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = ParseParams("height=100000&width=100000&mine_count=1")
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestResolvePreset(t *testing.T) {
	p, err := ResolvePreset("beginner")
	require.NoError(t, err)
	assert.Equal(t, Beginner, p)

	p, err = ResolvePreset("height=3&width=3&mine_count=1")
	require.NoError(t, err)
	assert.Equal(t, CustomPreset, p.Name)
	assert.Equal(t, 1, p.MineCount)

	_, err = ResolvePreset("impossible")
	assert.Error(t, err)
}
