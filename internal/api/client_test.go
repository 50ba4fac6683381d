package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/nomnom-app/nomnom/internal/catalog"
	"github.com/nomnom-app/nomnom/internal/handlers"
	"github.com/nomnom-app/nomnom/internal/media"
)

// newTestServer runs the real handler stack over in-memory stores, so the
// client is exercised against the same surface the server exposes.
func newTestServer(t *testing.T) (*Client, *media.MemoryStore, *catalog.MemoryStore) {
	t.Helper()

	store := media.NewMemory()
	cat := catalog.NewMemory()
	h := handlers.New(store, cat)

	mux := http.NewServeMux()
	mux.HandleFunc("/tags", h.HandleTags)
	mux.HandleFunc("/find", h.HandleFind)
	mux.HandleFunc("/upload", h.HandleUpload)

	srv := httptest.NewServer(handlers.Logging(mux))
	t.Cleanup(srv.Close)
	t.Cleanup(h.Flush)

	return New(srv.URL), store, cat
}

func TestClientRoundTrip(t *testing.T) {
	client, store, _ := newTestServer(t)
	ctx := context.Background()

	url, err := client.Upload(ctx, []byte("jpeg-bytes"), "dunk.jpg", "image/jpeg", "kobe, bryant")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if url == "" {
		t.Error("Expected asset URL from upload")
	}
	if store.Len() != 1 {
		t.Errorf("Expected 1 stored asset, got %d", store.Len())
	}

	assets, err := client.Find(ctx, []string{"kobe"})
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(assets) != 1 || assets[0].SecureURL != url {
		t.Errorf("Expected uploaded asset back, got %v", assets)
	}
}

func TestClientTags(t *testing.T) {
	client, _, cat := newTestServer(t)
	ctx := context.Background()

	for _, tag := range []string{"trump", "biden"} {
		if err := cat.Add(ctx, tag); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	tagList, err := client.Tags(ctx)
	if err != nil {
		t.Fatalf("Tags failed: %v", err)
	}
	if !reflect.DeepEqual(tagList, []string{"trump", "biden"}) {
		t.Errorf("Expected [trump biden], got %v", tagList)
	}
}

func TestClientSurfacesServerErrorBody(t *testing.T) {
	client, _, _ := newTestServer(t)

	_, err := client.Upload(context.Background(), []byte("x"), "doc.pdf", "application/pdf", "")
	if err == nil {
		t.Fatal("Expected validation error from server")
	}
	if !strings.Contains(err.Error(), "Invalid file type") {
		t.Errorf("Expected server error message surfaced, got %q", err.Error())
	}

	_, err = client.Find(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "No tags were selected") {
		t.Errorf("Expected empty-selection message, got %v", err)
	}
}
