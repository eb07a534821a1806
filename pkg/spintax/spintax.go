package spintax

import (
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// maxAlternationPasses bounds the inside-out resolution of nested
// alternation groups.
const maxAlternationPasses = 50

var (
	reAlternation = regexp.MustCompile(`\{([^{}]*\|[^{}]*)\}`)
	reWeighted    = regexp.MustCompile(`\{([^{}]*\*[0-9]+[^{}]*)\}`)
	reConditional = regexp.MustCompile(`\{\?([^:{}]+):([^{}]+)\}`)
	reRange       = regexp.MustCompile(`\{#(\d+)-(\d+)\}`)
	reTitle       = regexp.MustCompile(`\{\^([^{}]+)\}`)
	reUpper       = regexp.MustCompile(`\{!([^{}]+)\}`)
)

// Source yields values in [0, 1) that drive option selection.
// *Rand implements it; so does the process-wide generator used when no
// seed is supplied.
type Source interface {
	Float64() float64
}

type processSource struct{}

func (processSource) Float64() float64 { return rand.Float64() }

type expander struct {
	rng         Source
	seededCoins bool
}

// Option configures expansion.
type Option func(*expander)

// WithSeed makes expansion deterministic for a given seed.
func WithSeed(seed int64) Option {
	return func(e *expander) { e.rng = NewRand(seed) }
}

// WithSource supplies a custom selection source. Mostly useful in tests.
func WithSource(src Source) Option {
	return func(e *expander) { e.rng = src }
}

// WithSeededConditionals drives conditional visibility from the seeded
// selection source instead of the process-wide generator, making templates
// that use {?cond:...} directives fully deterministic.
//
// Off by default: conditional visibility historically comes from an
// unseeded coin flip, and that non-determinism is observable behavior.
func WithSeededConditionals() Option {
	return func(e *expander) { e.seededCoins = true }
}

// Expand resolves all spintax directives in text to literal content.
// Directive families are resolved in a fixed order, each consuming only the
// bracket groups the previous families left behind:
//
//  1. simple alternation {a|b|c}, innermost groups first
//  2. weighted alternation {a*3|b|c*2}
//  3. conditionals {?cond:a|b}
//  4. numeric ranges {#min-max}
//  5. case modifiers {^...} and {!...}
//
// Cross-family nesting beyond one level may leave directives unresolved;
// callers should not rely on a universal fixed point.
func Expand(text string, opts ...Option) string {
	if text == "" {
		return text
	}
	e := &expander{rng: processSource{}}
	for _, opt := range opts {
		opt(e)
	}
	out := e.alternation(text)
	out = e.weighted(out)
	out = e.conditional(out)
	out = e.numericRange(out)
	out = e.titleCase(out)
	return e.upperCase(out)
}

// pick selects one option uniformly via the expander's source.
func (e *expander) pick(options []string) string {
	return options[int(e.rng.Float64()*float64(len(options)))]
}

// flip decides conditional visibility.
func (e *expander) flip() bool {
	if e.seededCoins {
		return e.rng.Float64() > 0.5
	}
	return rand.Float64() > 0.5
}

// splitOptions splits pipe-separated alternatives, trimming whitespace and
// dropping empty entries.
func splitOptions(content string) []string {
	parts := strings.Split(content, "|")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (e *expander) alternation(text string) string {
	result := text
	for range maxAlternationPasses {
		changed := false
		result = reAlternation.ReplaceAllStringFunc(result, func(match string) string {
			content := match[1 : len(match)-1]
			// Leave groups that belong to later families untouched.
			switch content[0] {
			case '?', '#', '^', '!':
				return match
			}
			if strings.Contains(content, "*") {
				return match
			}
			choices := splitOptions(content)
			if len(choices) == 0 {
				return match
			}
			changed = true
			return e.pick(choices)
		})
		if !changed {
			break
		}
	}
	return result
}

func (e *expander) weighted(text string) string {
	return reWeighted.ReplaceAllStringFunc(text, func(match string) string {
		content := match[1 : len(match)-1]
		// Each option contributes weight copies to the selection pool, so a
		// uniform draw over the pool honors the weights.
		var pool []string
		for _, part := range strings.Split(content, "|") {
			part = strings.TrimSpace(part)
			opt, weightStr, hasWeight := strings.Cut(part, "*")
			weight := 1
			if hasWeight {
				if w, err := strconv.Atoi(strings.TrimSpace(weightStr)); err == nil && w > 0 {
					weight = w
				}
			}
			opt = strings.TrimSpace(opt)
			for range weight {
				pool = append(pool, opt)
			}
		}
		if len(pool) == 0 {
			return match
		}
		return e.pick(pool)
	})
}

func (e *expander) conditional(text string) string {
	return reConditional.ReplaceAllStringFunc(text, func(match string) string {
		// The condition string is not evaluated against any predicate;
		// visibility is a coin flip.
		_, options, _ := strings.Cut(match[2:len(match)-1], ":")
		if e.flip() && strings.Contains(options, "|") {
			if choices := splitOptions(options); len(choices) > 0 {
				return e.pick(choices)
			}
		}
		return ""
	})
}

func (e *expander) numericRange(text string) string {
	return reRange.ReplaceAllStringFunc(text, func(match string) string {
		m := reRange.FindStringSubmatch(match)
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if hi < lo {
			lo, hi = hi, lo
		}
		return strconv.Itoa(lo + int(e.rng.Float64()*float64(hi-lo+1)))
	})
}

func (e *expander) titleCase(text string) string {
	return reTitle.ReplaceAllStringFunc(text, func(match string) string {
		content := match[2 : len(match)-1]
		if strings.Contains(content, "|") {
			choices := splitOptions(content)
			if len(choices) == 0 {
				return ""
			}
			content = e.pick(choices)
		}
		return toTitle(content)
	})
}

func (e *expander) upperCase(text string) string {
	return reUpper.ReplaceAllStringFunc(text, func(match string) string {
		content := match[2 : len(match)-1]
		if strings.Contains(content, "|") {
			choices := splitOptions(content)
			if len(choices) == 0 {
				return ""
			}
			content = e.pick(choices)
		}
		return strings.ToUpper(content)
	})
}

// toTitle upper-cases the first rune and lower-cases the rest. This is
// whole-string title casing, not per-word.
func toTitle(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
}
