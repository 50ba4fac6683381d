package media

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory media host, used in tests and when no remote
// host is configured. Assets live for the process lifetime only.
type MemoryStore struct {
	mu     sync.RWMutex
	assets []Asset
	seq    int
}

// NewMemory returns an empty in-memory media store.
func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Upload(_ context.Context, data []byte, filename string, tags []string) (*Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Deduplicate tags the way the hosted service does.
	seen := map[string]struct{}{}
	var unique []string
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		unique = append(unique, tag)
	}

	s.seq++
	id := uuid.NewString()
	asset := Asset{
		PublicID:  id,
		SecureURL: fmt.Sprintf("https://media.invalid/%s/%s", id, filename),
		Tags:      unique,
		// Nanosecond offsets keep creation order stable when uploads land
		// within the same wall-clock tick.
		CreatedAt: time.Now().Add(time.Duration(s.seq) * time.Nanosecond),
	}
	s.assets = append(s.assets, asset)
	return &asset, nil
}

func (s *MemoryStore) Search(_ context.Context, q Query) ([]Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Asset
	for _, asset := range s.assets {
		if matchesAny(asset.Tags, q.AnyTags) {
			out = append(out, asset)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if q.MaxResults > 0 && len(out) > q.MaxResults {
		out = out[:q.MaxResults]
	}
	return out, nil
}

// Len returns the number of stored assets.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.assets)
}

func matchesAny(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
