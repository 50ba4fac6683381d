// Package catalog persists the set of known tags used to seed autocomplete
// suggestions. Tags are created on first successful upload and never deleted.
package catalog

import "context"

// Store is the tag catalog: a set of tag names supporting existence checks
// and idempotent inserts. Concurrent uploads may race on the same new tag,
// so Add must be insert-if-absent and duplicate attempts must be harmless.
type Store interface {
	// Has reports whether the tag is already in the catalog.
	Has(ctx context.Context, tag string) (bool, error)
	// Add inserts the tag if absent. Adding an existing tag is a no-op.
	Add(ctx context.Context, tag string) error
	// All returns every tag in the catalog in insertion order.
	All(ctx context.Context) ([]string, error)
	Close() error
}
