package spintax_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dripsend/pkg/spintax"
)

func TestExpand_SimpleAlternation(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 200; seed++ {
		out := spintax.Expand("{a|b}", spintax.WithSeed(seed))
		require.Contains(t, []string{"a", "b"}, out)
	}
}

func TestExpand_Deterministic(t *testing.T) {
	t.Parallel()

	tmpl := "{Hi|Hello|Hey} {{name}}, {quick|short} question about {#1-9} things"
	for seed := int64(1); seed <= 50; seed++ {
		first := spintax.Expand(tmpl, spintax.WithSeed(seed))
		require.Equal(t, first, spintax.Expand(tmpl, spintax.WithSeed(seed)))
	}
}

func TestExpand_NestedAlternation(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 100; seed++ {
		out := spintax.Expand("{{a|b}|c}", spintax.WithSeed(seed))
		require.Contains(t, []string{"a", "b", "c"}, out, "seed %d", seed)
	}
}

func TestExpand_WeightedFrequency(t *testing.T) {
	t.Parallel()

	// Consecutive small seeds produce correlated first draws in a Lehmer
	// generator, so spread the seeds through the content hash first.
	const runs = 4000
	hits := 0
	for i := range runs {
		seed := spintax.Hash("seed-" + strconv.Itoa(i))
		out := spintax.Expand("{a*3|b*1}", spintax.WithSeed(seed))
		require.Contains(t, []string{"a", "b"}, out)
		if out == "a" {
			hits++
		}
	}
	// Weight 3:1 should land near 75%.
	freq := float64(hits) / runs
	assert.InDelta(t, 0.75, freq, 0.05)
}

func TestExpand_WeightedDefaultWeight(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 100; seed++ {
		out := spintax.Expand("{a*2|b}", spintax.WithSeed(seed))
		require.Contains(t, []string{"a", "b"}, out)
	}
}

func TestExpand_Conditional(t *testing.T) {
	t.Parallel()

	// The branch either resolves to one of the options or disappears.
	for range 100 {
		out := spintax.Expand("x{?promo:a|b}y", spintax.WithSeed(7))
		require.Contains(t, []string{"xy", "xay", "xby"}, out)
	}

	// Without pipe-separated options the group always resolves to empty.
	require.Equal(t, "xy", spintax.Expand("x{?promo:only}y", spintax.WithSeed(7)))
}

func TestExpand_SeededConditionals(t *testing.T) {
	t.Parallel()

	tmpl := "x{?promo:a|b}y {left|right}"
	for seed := int64(1); seed <= 50; seed++ {
		first := spintax.Expand(tmpl, spintax.WithSeed(seed), spintax.WithSeededConditionals())
		require.Equal(t, first, spintax.Expand(tmpl, spintax.WithSeed(seed), spintax.WithSeededConditionals()))
	}
}

func TestExpand_NumericRange(t *testing.T) {
	t.Parallel()

	require.Equal(t, "5", spintax.Expand("{#5-5}", spintax.WithSeed(1)))

	for seed := int64(1); seed <= 200; seed++ {
		out := spintax.Expand("{#2-4}", spintax.WithSeed(seed))
		n, err := strconv.Atoi(out)
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 2)
		require.LessOrEqual(t, n, 4)
	}
}

func TestExpand_CaseModifiers(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Hello there", spintax.Expand("{^hello THERE}", spintax.WithSeed(1)))
	require.Equal(t, "URGENT", spintax.Expand("{!urgent}", spintax.WithSeed(1)))

	for seed := int64(1); seed <= 50; seed++ {
		out := spintax.Expand("{^alpha|beta}", spintax.WithSeed(seed))
		require.Contains(t, []string{"Alpha", "Beta"}, out)

		out = spintax.Expand("{!yes|no}", spintax.WithSeed(seed))
		require.Contains(t, []string{"YES", "NO"}, out)
	}
}

func TestExpand_PlainTextUntouched(t *testing.T) {
	t.Parallel()

	tests := []string{
		"",
		"no directives here",
		"unmatched {brace",
		"{single}", // no pipe, no marker: not a directive
	}
	for _, in := range tests {
		assert.Equal(t, in, spintax.Expand(in, spintax.WithSeed(3)))
	}
}

func TestExpand_OptionTrimming(t *testing.T) {
	t.Parallel()

	for seed := int64(1); seed <= 50; seed++ {
		out := spintax.Expand("{ a | b |}", spintax.WithSeed(seed))
		require.Contains(t, []string{"a", "b"}, out)
	}
}

func TestExpand_MixedFamilies(t *testing.T) {
	t.Parallel()

	out := spintax.Expand(
		"{Hi|Hello} {{name}}, {#3-3} {^tips|tricks} inside",
		spintax.WithSeed(11),
	)
	require.NotContains(t, out, "{#")
	require.NotContains(t, out, "{^")
	require.Contains(t, out, "{{name}}") // placeholder tokens survive expansion
	require.Contains(t, out, "3")
	require.True(t, strings.HasPrefix(out, "Hi") || strings.HasPrefix(out, "Hello"))
}
