package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// stubUploader fails any item whose filename appears in fail, and records
// the tag text each upload was sent with.
type stubUploader struct {
	mu      sync.Mutex
	fail    map[string]bool
	calls   map[string]int
	tagText map[string]string
	block   chan struct{}
}

func newStubUploader() *stubUploader {
	return &stubUploader{
		fail:    map[string]bool{},
		calls:   map[string]int{},
		tagText: map[string]string{},
	}
}

func (s *stubUploader) Upload(_ context.Context, _ []byte, filename, _, tagsText string) (string, error) {
	s.mu.Lock()
	s.calls[filename]++
	s.tagText[filename] = tagsText
	fail := s.fail[filename]
	block := s.block
	s.mu.Unlock()

	if block != nil {
		<-block
	}
	if fail {
		return "", errors.New("connection reset")
	}
	return "https://media.invalid/" + filename, nil
}

func writeTempImage(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("image-bytes"), 0o644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}
	return path
}

func TestIngestSourcesNormalize(t *testing.T) {
	up := newStubUploader()
	o := New(up, t.TempDir())

	picked, err := o.IngestFile(writeTempImage(t, "picked.jpg"))
	if err != nil {
		t.Fatalf("IngestFile failed: %v", err)
	}

	pasted, err := o.IngestPaste([]byte("png-bytes"), "image/png")
	if err != nil {
		t.Fatalf("IngestPaste failed: %v", err)
	}

	dropped, err := o.IngestDrop([]string{
		writeTempImage(t, "one.gif"),
		writeTempImage(t, "two.png"),
	})
	if err != nil {
		t.Fatalf("IngestDrop failed: %v", err)
	}
	if len(dropped) != 2 {
		t.Fatalf("Expected 2 dropped items, got %d", len(dropped))
	}

	items := o.Items()
	if len(items) != 4 {
		t.Fatalf("Expected 4 queued items, got %d", len(items))
	}
	for _, it := range items {
		if it.Status() != StatusPending {
			t.Errorf("Item %s: expected pending, got %s", it.Filename(), it.Status())
		}
		if it.Preview() == "" {
			t.Errorf("Item %s: expected a preview handle", it.Filename())
		}
		if _, err := os.Stat(it.Preview()); err != nil {
			t.Errorf("Item %s: preview not readable: %v", it.Filename(), err)
		}
		if it.ID() == "" {
			t.Errorf("Item %s: expected a stable id", it.Filename())
		}
	}

	if picked.MIMEType() != "image/jpeg" {
		t.Errorf("Expected image/jpeg for .jpg pick, got %s", picked.MIMEType())
	}
	if pasted.MIMEType() != "image/png" {
		t.Errorf("Expected declared paste type kept, got %s", pasted.MIMEType())
	}
}

func TestRunBatchEmpty(t *testing.T) {
	up := newStubUploader()
	o := New(up, t.TempDir())

	if _, err := o.RunBatch(context.Background()); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("Expected ErrEmptyBatch, got %v", err)
	}
	if len(up.calls) != 0 {
		t.Errorf("Expected no uploads for empty batch, got %v", up.calls)
	}
}

func TestRunBatchPartialFailure(t *testing.T) {
	up := newStubUploader()
	up.fail["two.png"] = true
	o := New(up, t.TempDir())

	for _, name := range []string{"one.jpg", "two.png", "three.gif"} {
		if _, err := o.IngestFile(writeTempImage(t, name)); err != nil {
			t.Fatalf("IngestFile failed: %v", err)
		}
	}

	report, err := o.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if report.Succeeded != 2 {
		t.Errorf("Expected 2 successes, got %d", report.Succeeded)
	}
	if report.AllFailed() {
		t.Error("Expected partial failure, not aggregate failure")
	}

	for _, it := range o.Items() {
		switch it.Filename() {
		case "two.png":
			if it.Status() != StatusFailed {
				t.Errorf("Expected two.png Failed, got %s", it.Status())
			}
			if it.Err() == nil {
				t.Error("Expected failure recorded on two.png")
			}
		default:
			if it.Status() != StatusSucceeded {
				t.Errorf("Expected %s Succeeded, got %s", it.Filename(), it.Status())
			}
			if it.URL() == "" {
				t.Errorf("Expected asset URL on %s", it.Filename())
			}
		}
	}

	// Re-run retries only the failed item.
	up.fail["two.png"] = false
	report, err = o.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("Second RunBatch failed: %v", err)
	}
	if len(report.Outcomes) != 1 || report.Succeeded != 1 {
		t.Errorf("Expected exactly the failed item retried, got %+v", report)
	}
	if up.calls["one.jpg"] != 1 || up.calls["three.gif"] != 1 {
		t.Errorf("Succeeded items re-uploaded: %v", up.calls)
	}
	if up.calls["two.png"] != 2 {
		t.Errorf("Expected two.png attempted twice, got %d", up.calls["two.png"])
	}
}

func TestRunBatchAllFailed(t *testing.T) {
	up := newStubUploader()
	up.fail["one.jpg"] = true
	o := New(up, t.TempDir())

	if _, err := o.IngestFile(writeTempImage(t, "one.jpg")); err != nil {
		t.Fatalf("IngestFile failed: %v", err)
	}

	report, err := o.RunBatch(context.Background())
	if err != nil {
		t.Fatalf("RunBatch failed: %v", err)
	}
	if !report.AllFailed() {
		t.Errorf("Expected aggregate failure, got %+v", report)
	}
}

func TestRunBatchFiresConcurrently(t *testing.T) {
	up := newStubUploader()
	up.block = make(chan struct{})
	o := New(up, t.TempDir())

	const n = 3
	for _, name := range []string{"a.jpg", "b.jpg", "c.jpg"} {
		if _, err := o.IngestFile(writeTempImage(t, name)); err != nil {
			t.Fatalf("IngestFile failed: %v", err)
		}
	}

	done := make(chan *Report)
	go func() {
		report, _ := o.RunBatch(context.Background())
		done <- report
	}()

	// Every upload must be in flight at once; a sequential orchestrator
	// would never get here because the first upload blocks the rest.
	for {
		up.mu.Lock()
		inFlight := len(up.calls)
		up.mu.Unlock()
		if inFlight == n {
			break
		}
		time.Sleep(time.Millisecond)
	}
	close(up.block)

	report := <-done
	if report.Succeeded != n {
		t.Errorf("Expected %d successes, got %d", n, report.Succeeded)
	}
}

func TestTagTextLifecycle(t *testing.T) {
	up := newStubUploader()
	up.block = make(chan struct{})
	o := New(up, t.TempDir())

	item, err := o.IngestFile(writeTempImage(t, "meme.png"))
	if err != nil {
		t.Fatalf("IngestFile failed: %v", err)
	}

	// Keystroke sanitization: everything but alphanumerics, spaces, and
	// commas is stripped.
	if err := o.SetTagText(item.ID(), "kobe!, <bryant>#24"); err != nil {
		t.Fatalf("SetTagText failed: %v", err)
	}
	if got := item.TagText(); got != "kobe, bryant24" {
		t.Errorf("Expected sanitized tag text, got %q", got)
	}

	done := make(chan struct{})
	go func() {
		o.RunBatch(context.Background())
		close(done)
	}()

	for item.Status() != StatusUploading {
		time.Sleep(time.Millisecond)
	}

	if err := o.SetTagText(item.ID(), "late edit"); err == nil {
		t.Error("Expected tag edit rejected while uploading")
	}

	close(up.block)
	<-done

	if err := o.SetTagText(item.ID(), "after"); err == nil {
		t.Error("Expected tag edit rejected after success")
	}
	if got := up.tagText["meme.png"]; got != "kobe, bryant24" {
		t.Errorf("Expected upload sent pre-flight tag text, got %q", got)
	}
}

func TestRemoveSelectedBlocksUploading(t *testing.T) {
	up := newStubUploader()
	up.block = make(chan struct{})
	o := New(up, t.TempDir())

	a, _ := o.IngestFile(writeTempImage(t, "a.jpg"))
	b, _ := o.IngestFile(writeTempImage(t, "b.jpg"))

	done := make(chan struct{})
	go func() {
		o.RunBatch(context.Background())
		close(done)
	}()
	for a.Status() != StatusUploading || b.Status() != StatusUploading {
		time.Sleep(time.Millisecond)
	}

	// Marking is allowed mid-upload, deletion is not.
	if err := o.ToggleSelect(a.ID()); err != nil {
		t.Fatalf("ToggleSelect failed: %v", err)
	}
	if removed := o.RemoveSelected(); len(removed) != 0 {
		t.Errorf("Expected no removal while uploading, got %d", len(removed))
	}
	if len(o.Items()) != 2 {
		t.Errorf("Expected both items kept, got %d", len(o.Items()))
	}

	close(up.block)
	<-done

	preview := a.Preview()
	removed := o.RemoveSelected()
	if len(removed) != 1 || removed[0].ID() != a.ID() {
		t.Fatalf("Expected a removed after settling, got %v", removed)
	}
	if _, err := os.Stat(preview); !os.IsNotExist(err) {
		t.Errorf("Expected preview file cleaned up, got %v", err)
	}

	items := o.Items()
	if len(items) != 1 || items[0].ID() != b.ID() {
		t.Errorf("Expected only b left, got %d items", len(items))
	}
}

func TestItemTransitions(t *testing.T) {
	it := newItem([]byte("x"), "x.png", "image/png", "")

	if _, err := it.start(); err != nil {
		t.Fatalf("pending -> uploading failed: %v", err)
	}
	if _, err := it.start(); err == nil {
		t.Error("Expected starting an uploading item rejected")
	}

	if got := it.settle("", errors.New("boom")); got != StatusFailed {
		t.Errorf("Expected failed after error, got %s", got)
	}
	if it.Err() == nil {
		t.Error("Expected failure recorded")
	}

	// Failed items may retry; success clears the recorded failure.
	if _, err := it.start(); err != nil {
		t.Fatalf("failed -> uploading (retry) failed: %v", err)
	}
	if got := it.settle("https://media.invalid/x.png", nil); got != StatusSucceeded {
		t.Errorf("Expected succeeded, got %s", got)
	}
	if it.Err() != nil {
		t.Errorf("Expected failure cleared on retry, got %v", it.Err())
	}

	// Succeeded is terminal.
	if _, err := it.start(); err == nil {
		t.Error("Expected succeeded item never re-uploaded")
	}
	if !strings.Contains(it.ID(), "-") {
		t.Errorf("Expected uuid item id, got %q", it.ID())
	}
}
