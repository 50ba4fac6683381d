package tags

import (
	"reflect"
	"testing"
)

func TestToggleRoundTrip(t *testing.T) {
	s := NewSelection("biden", "kobe", "trump")
	before := s.Chosen()

	s.Toggle("kobe")
	if s.Contains("kobe") {
		t.Error("Expected kobe removed after toggle")
	}
	if got := s.Chosen(); !reflect.DeepEqual(got, []Tag{"biden", "trump"}) {
		t.Errorf("Expected remaining order preserved, got %v", got)
	}

	s.Toggle("kobe")
	// A re-added tag goes to the end, so round-tripping the last tag is the
	// identity; verify the set matches regardless of position.
	if !s.Contains("kobe") || s.Len() != len(before) {
		t.Errorf("Expected kobe restored, got %v", s.Chosen())
	}

	s2 := NewSelection("biden", "kobe")
	s2.Toggle("trump")
	s2.Toggle("trump")
	if got := s2.Chosen(); !reflect.DeepEqual(got, []Tag{"biden", "kobe"}) {
		t.Errorf("Expected double toggle to restore original sequence, got %v", got)
	}
}

func TestToggleAppendsAtEnd(t *testing.T) {
	s := NewSelection()
	s.Toggle("kobe")
	s.Toggle("biden")
	s.Toggle("trump")

	if got := s.Chosen(); !reflect.DeepEqual(got, []Tag{"kobe", "biden", "trump"}) {
		t.Errorf("Expected insertion order preserved, got %v", got)
	}
}

func TestVisibleListPinsSelection(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name   string
		chosen []Tag
		query  string
	}{
		{name: "empty query", chosen: []Tag{"kobe", "trump"}, query: ""},
		{name: "matching query", chosen: []Tag{"kobe"}, query: "bit"},
		{name: "query matching a chosen tag", chosen: []Tag{"kobe"}, query: "kobe"},
		{name: "no selection", chosen: nil, query: "coin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSelection(tt.chosen...)
			got := s.VisibleList(m, tt.query, testCatalog)

			// Chosen tags lead the list, in selection order.
			for i, want := range tt.chosen {
				if got[i] != want {
					t.Fatalf("Expected %q pinned at position %d, got %v", want, i, got)
				}
			}

			// Each tag appears exactly once.
			seen := map[Tag]int{}
			for _, tag := range got {
				seen[tag]++
			}
			for tag, n := range seen {
				if n != 1 {
					t.Errorf("Tag %q appears %d times in visible list %v", tag, n, got)
				}
			}

			// No chosen tag reappears after the pinned block.
			for _, tag := range got[len(tt.chosen):] {
				if s.Contains(tag) {
					t.Errorf("Chosen tag %q duplicated in suggestions: %v", tag, got)
				}
			}
		})
	}
}
