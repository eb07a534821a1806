// Package personalize turns a campaign template into the final message
// text for one recipient: deterministic spintax expansion seeded from the
// recipient identity, followed by literal placeholder substitution.
package personalize
