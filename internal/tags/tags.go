// Package tags implements the tag vocabulary used to index memes: input
// sanitization, comma-separated tag parsing, fuzzy matching against the
// catalog, and the selection model backing tag autocomplete.
package tags

import "strings"

// Tag is a normalized search keyword attached to a media asset. Tags are
// compared case-sensitively; the catalog is a set of Tag.
type Tag = string

// SanitizeInput strips every character that is not alphanumeric, a space, or
// a comma. It is applied per keystroke so invalid characters are dropped
// rather than the whole input rejected.
func SanitizeInput(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == ',':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseList splits comma-separated tag text into an ordered list of tags.
// Segments are trimmed and empty segments dropped. Duplicates are kept; the
// media store is responsible for deduplicating them.
func ParseList(text string) []Tag {
	var out []Tag
	for _, seg := range strings.Split(text, ",") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		out = append(out, seg)
	}
	return out
}
