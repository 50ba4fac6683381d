// Package batch implements the client-side upload pipeline: queued upload
// items ingested from file picks, clipboard pastes, or drag-and-drop, each
// tracked through its own lifecycle while a batch run uploads them
// concurrently.
package batch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Status is the lifecycle state of one queued image.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploading Status = "uploading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Item is one queued image. Items are addressed by a generated id rather
// than list position, so removals never re-key surviving items. The source
// bytes and filename are fixed at ingestion; everything else is guarded by
// the item's own lock since batch runs settle items from their goroutines.
type Item struct {
	id       string
	filename string
	mimeType string
	data     []byte

	mu       sync.Mutex
	preview  string
	tagText  string
	status   Status
	selected bool
	url      string
	err      error
}

func newItem(data []byte, filename, mimeType, preview string) *Item {
	return &Item{
		id:       uuid.NewString(),
		filename: filename,
		mimeType: mimeType,
		data:     data,
		preview:  preview,
		status:   StatusPending,
	}
}

func (it *Item) ID() string       { return it.id }
func (it *Item) Filename() string { return it.filename }
func (it *Item) MIMEType() string { return it.mimeType }
func (it *Item) Size() int        { return len(it.data) }

// Preview is the transient display reference produced at ingestion.
func (it *Item) Preview() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.preview
}

func (it *Item) Status() Status {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.status
}

func (it *Item) TagText() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.tagText
}

func (it *Item) Selected() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.selected
}

// URL is the stored asset location once the item has succeeded.
func (it *Item) URL() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.url
}

// Err is the failure from the most recent attempt, nil unless Failed.
func (it *Item) Err() error {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.err
}

// start moves the item to Uploading and hands back the tag text the request
// should carry. Only Pending and Failed items may start.
func (it *Item) start() (string, error) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if err := it.transitionLocked(StatusUploading); err != nil {
		return "", err
	}
	it.err = nil
	return it.tagText, nil
}

// settle resolves an in-flight item to Succeeded or Failed.
func (it *Item) settle(url string, err error) Status {
	it.mu.Lock()
	defer it.mu.Unlock()
	if err != nil {
		_ = it.transitionLocked(StatusFailed)
		it.err = err
	} else {
		_ = it.transitionLocked(StatusSucceeded)
		it.url = url
	}
	return it.status
}

// setTagText replaces the tag text. Edits are rejected while an upload is
// in flight or after one has succeeded, so they cannot race the request.
func (it *Item) setTagText(text string) error {
	it.mu.Lock()
	defer it.mu.Unlock()
	if it.status != StatusPending && it.status != StatusFailed {
		return fmt.Errorf("tags are locked while item is %s", it.status)
	}
	it.tagText = text
	return nil
}

func (it *Item) toggleSelect() {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.selected = !it.selected
}

// removable reports whether the item may be deleted: marked for removal and
// not mid-upload.
func (it *Item) removable() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.selected && it.status != StatusUploading
}

func (it *Item) uploading() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.status == StatusUploading
}

func (it *Item) skipInBatch() bool {
	it.mu.Lock()
	defer it.mu.Unlock()
	return it.status == StatusSucceeded || it.status == StatusUploading
}

func (it *Item) takePreview() string {
	it.mu.Lock()
	defer it.mu.Unlock()
	p := it.preview
	it.preview = ""
	return p
}

// transitionLocked enforces the item lifecycle: Pending or Failed may start
// Uploading, Uploading settles to Succeeded or Failed, and Succeeded is
// terminal. Callers hold it.mu.
func (it *Item) transitionLocked(to Status) error {
	ok := false
	switch to {
	case StatusUploading:
		ok = it.status == StatusPending || it.status == StatusFailed
	case StatusSucceeded, StatusFailed:
		ok = it.status == StatusUploading
	}
	if !ok {
		return fmt.Errorf("invalid transition %s -> %s for item %s", it.status, to, it.id)
	}
	it.status = to
	return nil
}
