package spintax_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dripsend/pkg/spintax"
)

func TestHash_ReferenceValues(t *testing.T) {
	t.Parallel()

	// Fixed points of the 32-bit DJB2 variant; these must never change or
	// previously generated content stops being reproducible.
	tests := []struct {
		in   string
		want int64
	}{
		{"", 5381},
		{"a", 177670},
		{"abc", 193485963},
		{"hello", 261238937}, // accumulates through a 32-bit wraparound
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, spintax.Hash(tt.in), "hash(%q)", tt.in)
	}
}

func TestHashUnits_ReferenceValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		units []uint16
		want  int64
	}{
		{"empty", nil, 5381},
		{"lone high surrogate", []uint16{0xD83C}, 232929},
		{"full surrogate pair", []uint16{0xD83C, 0xDF89}, 7743882},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, spintax.HashUnits(tt.units), tt.name)
	}

	// Hash is the unit-level hash applied to the whole string.
	assert.Equal(t, spintax.HashUnits([]uint16{0xD83C, 0xDF89}), spintax.Hash("\U0001F389"))
}

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"user@example.com_0_example.com_5381",
		"Hey {{firstName}}, {quick|short} question",
		"ünïcödé and 🎉 emoji",
	}
	for _, in := range inputs {
		first := spintax.Hash(in)
		require.GreaterOrEqual(t, first, int64(0))
		require.Equal(t, first, spintax.Hash(in))
	}
}
