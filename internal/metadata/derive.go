package metadata

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"vidpub/internal/services"
)

// ErrInvalidEpisodeEncoding reports a title whose first two characters are not hex digits.
var ErrInvalidEpisodeEncoding = errors.New("invalid episode encoding")

// Title returns explicit when set, otherwise the file's base name without extension.
func Title(explicit, filename string) string {
	if explicit != "" {
		return explicit
	}
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// EpisodeNumber returns explicit when set, otherwise the first two characters
// of title read as a base-16 number.
func EpisodeNumber(explicit *uint8, title string) (uint8, error) {
	if explicit != nil {
		return *explicit, nil
	}
	prefix := title
	if runes := []rune(title); len(runes) > 2 {
		prefix = string(runes[:2])
	}
	value, err := strconv.ParseUint(prefix, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("%w: %w: first two characters of title %q should be a hex number", services.ErrValidation, ErrInvalidEpisodeEncoding, title)
	}
	return uint8(value), nil
}

// OptionalEpisode wraps EpisodeNumber for callers that treat a missing episode
// as "n/a" instead of a failure.
func OptionalEpisode(explicit *uint8, title string) (*uint8, error) {
	ep, err := EpisodeNumber(explicit, title)
	if err != nil {
		return nil, err
	}
	return &ep, nil
}

// Tags splits a comma separated keyword list. Segments are kept verbatim:
// no trimming, no de-duplication, empty segments stay empty strings.
func Tags(keywords string) []string {
	return strings.Split(keywords, ",")
}

// EpisodeLabel renders an episode number the way titles carry it (upper-case hex).
func EpisodeLabel(ep *uint8) string {
	if ep == nil {
		return "n/a"
	}
	return fmt.Sprintf("%X", *ep)
}

// SplitDisplayTitle reverses Submission.DisplayTitle: "2A. intro" yields
// episode 0x2A and "intro". Titles without a hex label come back unchanged
// with a nil episode.
func SplitDisplayTitle(display string) (*uint8, string) {
	label, rest, ok := strings.Cut(display, ". ")
	if !ok || len(label) == 0 || len(label) > 2 {
		return nil, display
	}
	value, err := strconv.ParseUint(label, 16, 8)
	if err != nil {
		return nil, display
	}
	ep := uint8(value)
	return &ep, rest
}
