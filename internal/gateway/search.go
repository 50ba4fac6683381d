package gateway

import (
	"context"

	"github.com/nomnom-app/nomnom/internal/media"
)

// MaxSearchResults caps how many assets a single search returns.
const MaxSearchResults = 20

// Search finds media assets carrying at least one of the requested tags.
type Search struct {
	Media media.Store
}

// NewSearch returns a search gateway over the given media store.
func NewSearch(store media.Store) *Search {
	return &Search{Media: store}
}

// Find returns up to MaxSearchResults assets matching any of the tags,
// newest first. An empty tag set is rejected before any network call.
func (g *Search) Find(ctx context.Context, tagList []string) ([]media.Asset, error) {
	if len(tagList) == 0 {
		return nil, &ValidationError{Kind: KindEmptySelection, Message: "No tags were selected"}
	}

	assets, err := g.Media.Search(ctx, media.Query{
		AnyTags:    tagList,
		MaxResults: MaxSearchResults,
	})
	if err != nil {
		return nil, &RemoteError{Op: "search media store", Err: err}
	}
	return assets, nil
}
