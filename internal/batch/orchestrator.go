package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sync"

	"github.com/nomnom-app/nomnom/internal/tags"
)

// ErrEmptyBatch is returned when a run is requested with nothing queued.
var ErrEmptyBatch = errors.New("Please select at least one image")

// Uploader pushes one image with its tag text to the server, returning the
// stored asset URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, mimeType, tagsText string) (string, error)
}

// Orchestrator owns the queued upload items, fans out concurrent upload
// attempts, and aggregates the per-item outcomes. The lock guards the queue
// itself; per-item state is guarded by each Item.
type Orchestrator struct {
	mu       sync.Mutex
	uploader Uploader
	items    []*Item

	previewDir string
}

// New returns an empty orchestrator uploading through u. Preview files are
// written under dir; an empty dir uses the system temp directory.
func New(u Uploader, dir string) *Orchestrator {
	return &Orchestrator{uploader: u, previewDir: dir}
}

// IngestFile queues an image picked from disk.
func (o *Orchestrator) IngestFile(path string) (*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	name := filepath.Base(path)
	return o.ingest(data, name, mime.TypeByExtension(filepath.Ext(name)))
}

// pasteExtensions maps pasteable image types to the filename extension the
// synthesized item gets. Anything else keeps a neutral extension and is
// rejected server-side.
var pasteExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// IngestPaste queues image data pasted from the clipboard. The item gets a
// synthesized filename matching the declared MIME type.
func (o *Orchestrator) IngestPaste(data []byte, mimeType string) (*Item, error) {
	ext, ok := pasteExtensions[mimeType]
	if !ok {
		ext = ".bin"
	}
	return o.ingest(data, "pasted"+ext, mimeType)
}

// IngestDrop queues every dropped file. A file that cannot be read fails
// the whole drop; files queued before the failure stay queued.
func (o *Orchestrator) IngestDrop(paths []string) ([]*Item, error) {
	var out []*Item
	for _, path := range paths {
		item, err := o.IngestFile(path)
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// ingest is the single path all three sources normalize to: materialize a
// preview handle and append a Pending item.
func (o *Orchestrator) ingest(data []byte, filename, mimeType string) (*Item, error) {
	preview, err := o.writePreview(data, filename)
	if err != nil {
		return nil, err
	}

	item := newItem(data, filename, mimeType, preview)

	o.mu.Lock()
	o.items = append(o.items, item)
	o.mu.Unlock()

	return item, nil
}

func (o *Orchestrator) writePreview(data []byte, filename string) (string, error) {
	f, err := os.CreateTemp(o.previewDir, "preview-*"+filepath.Ext(filename))
	if err != nil {
		return "", fmt.Errorf("failed to create preview file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return "", fmt.Errorf("failed to write preview file: %w", err)
	}
	return f.Name(), nil
}

// Items returns a snapshot of the queue in ingestion order.
func (o *Orchestrator) Items() []*Item {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Item, len(o.items))
	copy(out, o.items)
	return out
}

// Item looks up a queued item by id.
func (o *Orchestrator) Item(id string) (*Item, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.findLocked(id)
}

func (o *Orchestrator) findLocked(id string) (*Item, bool) {
	for _, it := range o.items {
		if it.id == id {
			return it, true
		}
	}
	return nil, false
}

// SetTagText replaces the item's tag text, stripping every character that
// is not alphanumeric, a space, or a comma. Edits to items that are
// Uploading or Succeeded are rejected.
func (o *Orchestrator) SetTagText(id, text string) error {
	item, ok := o.Item(id)
	if !ok {
		return fmt.Errorf("no item with id %s", id)
	}
	return item.setTagText(tags.SanitizeInput(text))
}

// ToggleSelect flips the item's removal mark. Marking is always allowed,
// even mid-upload; only the deletion itself is blocked then.
func (o *Orchestrator) ToggleSelect(id string) error {
	item, ok := o.Item(id)
	if !ok {
		return fmt.Errorf("no item with id %s", id)
	}
	item.toggleSelect()
	return nil
}

// RemoveSelected deletes every item marked for removal and returns the
// removed items. Items currently Uploading are kept (still marked) so the
// deletion cannot race an in-flight request; a later call removes them once
// they settle.
func (o *Orchestrator) RemoveSelected() []*Item {
	o.mu.Lock()
	defer o.mu.Unlock()

	var removed []*Item
	kept := o.items[:0]
	for _, it := range o.items {
		if it.removable() {
			removed = append(removed, it)
			o.dropPreview(it)
			continue
		}
		kept = append(kept, it)
	}
	o.items = kept
	return removed
}

// Reset drops the whole queue. Items still Uploading are kept, as with
// RemoveSelected.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()

	kept := o.items[:0]
	for _, it := range o.items {
		if it.uploading() {
			kept = append(kept, it)
			continue
		}
		o.dropPreview(it)
	}
	o.items = kept
}

func (o *Orchestrator) dropPreview(it *Item) {
	preview := it.takePreview()
	if preview == "" {
		return
	}
	if err := os.Remove(preview); err != nil && !os.IsNotExist(err) {
		slog.Warn("Unable to remove preview file", "path", preview, "err", err)
	}
}

// Outcome is the settled result of one item in a batch run.
type Outcome struct {
	ID     string
	Status Status
	Err    error
}

// Report aggregates one batch run.
type Report struct {
	Outcomes  []Outcome
	Succeeded int
}

// AllFailed reports whether the run attempted at least one upload and none
// succeeded.
func (r *Report) AllFailed() bool {
	return len(r.Outcomes) > 0 && r.Succeeded == 0
}

// RunBatch uploads every queued item that has not already Succeeded, all
// concurrently, and waits for the full set to settle. Each item resolves to
// Succeeded or Failed on its own response; one failure never aborts its
// siblings. An empty queue is rejected before any network call.
func (o *Orchestrator) RunBatch(ctx context.Context) (*Report, error) {
	snapshot := o.Items()
	if len(snapshot) == 0 {
		return nil, ErrEmptyBatch
	}

	var eligible []*Item
	var tagTexts []string
	for _, it := range snapshot {
		if it.skipInBatch() {
			continue
		}
		tagText, err := it.start()
		if err != nil {
			return nil, err
		}
		eligible = append(eligible, it)
		tagTexts = append(tagTexts, tagText)
	}

	results := make([]Outcome, len(eligible))
	var wg sync.WaitGroup
	for i, it := range eligible {
		wg.Add(1)
		go func(i int, it *Item, tagText string) {
			defer wg.Done()
			url, err := o.uploader.Upload(ctx, it.data, it.filename, it.mimeType, tagText)
			status := it.settle(url, err)
			results[i] = Outcome{ID: it.id, Status: status, Err: err}
		}(i, it, tagTexts[i])
	}
	wg.Wait()

	report := &Report{Outcomes: results}
	for _, out := range results {
		if out.Status == StatusSucceeded {
			report.Succeeded++
		}
	}
	return report, nil
}
