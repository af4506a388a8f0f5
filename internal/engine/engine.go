// Package engine holds the pure reconciliation and access core: role
// derivation, period authorization, day/week report assembly and the
// share-text serializer. Every function is a synchronous, re-entrant
// computation over explicit snapshots; nothing in this package reads
// ambient state, talks to the store, or mutates its inputs.
package engine

import "strings"

// normalize folds identity strings for matching: surrounding whitespace
// is irrelevant and comparison is case-insensitive.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
