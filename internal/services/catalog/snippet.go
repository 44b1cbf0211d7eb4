package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Snippet is the editable part of a catalog entry. Title, Description and
// Tags are exposed for editing; every other field the server sent is kept
// as raw JSON and written back untouched.
type Snippet struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string

	raw map[string]json.RawMessage
}

// Empty reports whether the snippet carries no data at all.
func (s Snippet) Empty() bool {
	return s.Title == "" && s.Description == "" && len(s.Tags) == 0 && s.CategoryID == "" && len(s.raw) == 0
}

// Field returns a server field that is not modelled explicitly.
func (s Snippet) Field(name string) (json.RawMessage, bool) {
	v, ok := s.raw[name]
	return v, ok
}

func (s *Snippet) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Snippet{}
		return nil
	}
	raw := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode snippet: %w", err)
	}
	out := Snippet{raw: raw}
	fields := []struct {
		key string
		dst any
	}{
		{"title", &out.Title},
		{"description", &out.Description},
		{"tags", &out.Tags},
		{"categoryId", &out.CategoryID},
	}
	for _, f := range fields {
		value, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, f.dst); err != nil {
			return fmt.Errorf("decode snippet %s: %w", f.key, err)
		}
	}
	*s = out
	return nil
}

func (s Snippet) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.raw)+4)
	for key, value := range s.raw {
		out[key] = value
	}
	out["title"] = s.Title
	out["description"] = s.Description
	if s.Tags != nil {
		out["tags"] = s.Tags
	} else if _, ok := s.raw["tags"]; ok {
		out["tags"] = []string{}
	}
	if s.CategoryID != "" {
		out["categoryId"] = s.CategoryID
	}
	return json.Marshal(out)
}

// clone returns a copy whose raw map and tag slice are independent of s.
func (s Snippet) clone() Snippet {
	c := s
	c.raw = maps.Clone(s.raw)
	if s.Tags != nil {
		c.Tags = append([]string(nil), s.Tags...)
	}
	return c
}
