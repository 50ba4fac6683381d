package gateway

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nomnom-app/nomnom/internal/catalog"
	"github.com/nomnom-app/nomnom/internal/media"
	"github.com/nomnom-app/nomnom/internal/tags"
)

// MaxFileSize is the upload size cap in bytes (5 MiB).
const MaxFileSize = 5 * 1024 * 1024

// extensionsByType is the upload allow-list: JPEG, PNG, and GIF only, and
// the file extension has to agree with the declared MIME type.
var extensionsByType = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
}

// Upload validates one image+tags pair, forwards it to the media host, and
// records any newly seen tags in the catalog.
type Upload struct {
	Media   media.Store
	Catalog catalog.Store

	bookkeeping sync.WaitGroup
}

// NewUpload returns an upload gateway over the given stores.
func NewUpload(store media.Store, cat catalog.Store) *Upload {
	return &Upload{Media: store, Catalog: cat}
}

// Result is the canonical record of a stored image.
type Result struct {
	PublicID string
	URL      string
	Tags     []string
}

// Upload runs the validation chain (MIME type, extension, size — in order,
// stopping at the first failure), pushes the image to the media host, and
// returns the canonical asset. New tags are written to the catalog in the
// background; a catalog failure is logged, never surfaced, since the asset
// itself is already safely stored.
func (g *Upload) Upload(ctx context.Context, data []byte, filename, mimeType, tagsText string) (*Result, error) {
	allowed, ok := extensionsByType[mimeType]
	if !ok {
		return nil, &ValidationError{
			Kind:    KindInvalidType,
			Message: "Invalid file type. Only JPG, PNG, and GIF are allowed.",
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	extOK := false
	for _, a := range allowed {
		if ext == a {
			extOK = true
			break
		}
	}
	if !extOK {
		return nil, &ValidationError{
			Kind:    KindInvalidExtension,
			Message: "Invalid file extension. Only .jpg, .png, and .gif are allowed.",
		}
	}

	if len(data) > MaxFileSize {
		return nil, &ValidationError{
			Kind:    KindTooLarge,
			Message: "File size exceeds 5MB limit.",
		}
	}

	// Duplicates within one call are passed through; the media host
	// deduplicates on its side.
	tagList := tags.ParseList(tagsText)

	asset, err := g.Media.Upload(ctx, data, filename, tagList)
	if err != nil {
		return nil, &RemoteError{Op: "upload to media store", Err: err}
	}

	g.bookkeeping.Add(1)
	go func() {
		defer g.bookkeeping.Done()
		g.recordTags(context.WithoutCancel(ctx), tagList)
	}()

	return &Result{
		PublicID: asset.PublicID,
		URL:      asset.SecureURL,
		Tags:     asset.Tags,
	}, nil
}

// Wait blocks until pending background catalog writes settle. Called on
// shutdown and by tests.
func (g *Upload) Wait() {
	g.bookkeeping.Wait()
}

func (g *Upload) recordTags(ctx context.Context, tagList []string) {
	for _, tag := range tagList {
		exists, err := g.Catalog.Has(ctx, tag)
		if err != nil {
			slog.Error("Unable to check tag in catalog", "tag", tag, "err", err)
			continue
		}
		if exists {
			continue
		}
		if err := g.Catalog.Add(ctx, tag); err != nil {
			slog.Error("Unable to store tag in catalog", "tag", tag, "err", err)
		}
	}
}
