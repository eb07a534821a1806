// Package spintax expands a bracketed mini-language for generating text
// variants from a single template.
//
// The grammar supports five directive families:
//
//	{a|b|c}        simple alternation, nested groups resolve inside out
//	{a*3|b|c*2}    weighted alternation (default weight 1)
//	{?cond:a|b}    conditional content, shown on a 50/50 coin flip
//	{#1-5}         uniform integer from an inclusive range
//	{^a|b} {!a|b}  title-case and upper-case modifiers
//
// Expansion is driven by a seeded Lehmer generator, so the same template
// and seed always produce the same output:
//
//	out := spintax.Expand("{Hi|Hello} there", spintax.WithSeed(42))
//
// The one documented exception is the conditional family: visibility of a
// {?cond:...} group comes from an unseeded coin flip, independent of the
// supplied seed. WithSeededConditionals opts into a strict mode that draws
// the coin from the seeded generator as well.
//
// The package also exposes the DJB2-style Hash used to derive expansion
// seeds from template content and recipient identity.
package spintax
