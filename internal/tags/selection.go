package tags

// Selection is the ordered set of tags the user has chosen. Insertion order
// is display order. The zero value is an empty selection.
type Selection struct {
	chosen []Tag
}

// NewSelection returns a Selection seeded with the given tags, in order.
func NewSelection(chosen ...Tag) *Selection {
	s := &Selection{}
	for _, t := range chosen {
		s.Toggle(t)
	}
	return s
}

// Toggle adds the tag to the end of the selection, or removes it if already
// chosen. The relative order of the remaining tags is preserved, so toggling
// a tag twice restores the original sequence.
func (s *Selection) Toggle(tag Tag) {
	for i, t := range s.chosen {
		if t == tag {
			s.chosen = append(s.chosen[:i], s.chosen[i+1:]...)
			return
		}
	}
	s.chosen = append(s.chosen, tag)
}

// Contains reports whether the tag is currently chosen.
func (s *Selection) Contains(tag Tag) bool {
	for _, t := range s.chosen {
		if t == tag {
			return true
		}
	}
	return false
}

// Chosen returns a copy of the chosen tags in selection order.
func (s *Selection) Chosen() []Tag {
	out := make([]Tag, len(s.chosen))
	copy(out, s.chosen)
	return out
}

// Len returns the number of chosen tags.
func (s *Selection) Len() int {
	return len(s.chosen)
}

// VisibleList merges the selection with fuzzy matches for display: chosen
// tags come first in selection order, followed by matcher output with
// anything already chosen filtered out. Chosen tags therefore appear exactly
// once, always pinned ahead of plain suggestions.
func (s *Selection) VisibleList(m *Matcher, query string, catalog []Tag) []Tag {
	out := s.Chosen()
	for _, t := range m.Match(query, catalog) {
		if s.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
