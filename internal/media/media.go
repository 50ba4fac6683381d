// Package media abstracts the remote host that stores the meme images. The
// host is an opaque object store with two primitives: upload an image with
// tags, and search assets by tag.
package media

import (
	"context"
	"time"
)

// Asset is one stored image as reported by the media host. Assets are never
// mutated after creation.
type Asset struct {
	PublicID  string    `json:"public_id"`
	SecureURL string    `json:"secure_url"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// Query selects assets carrying at least one of AnyTags (logical OR, a
// recall-over-precision choice for meme discovery), newest first, capped at
// MaxResults.
type Query struct {
	AnyTags    []string
	MaxResults int
}

// Store is the media host client surface.
type Store interface {
	// Upload stores one image with its tags and returns the canonical asset.
	Upload(ctx context.Context, data []byte, filename string, tags []string) (*Asset, error)
	// Search returns matching assets, newest first.
	Search(ctx context.Context, q Query) ([]Asset, error)
}
