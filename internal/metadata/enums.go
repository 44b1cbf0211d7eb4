package metadata

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"vidpub/internal/services"
)

// Privacy is the visibility of a published entry.
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyPrivate  Privacy = "private"
	PrivacyUnlisted Privacy = "unlisted"
)

// ParsePrivacy accepts the lower-case privacy names.
func ParsePrivacy(value string) (Privacy, error) {
	switch p := Privacy(strings.ToLower(strings.TrimSpace(value))); p {
	case PrivacyPublic, PrivacyPrivate, PrivacyUnlisted:
		return p, nil
	default:
		return "", fmt.Errorf("%w: privacy %q must be public, private or unlisted", services.ErrParse, value)
	}
}

func (p Privacy) String() string { return string(p) }

// Category is a catalog category with a numeric identifier.
type Category int

const (
	CategoryPeople  Category = 22
	CategoryComedy  Category = 23
	CategoryScience Category = 28
)

var categoryNames = map[Category]string{
	CategoryPeople:  "people",
	CategoryComedy:  "comedy",
	CategoryScience: "science",
}

// ParseCategory accepts a category name or its numeric identifier.
func ParseCategory(value string) (Category, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	for cat, name := range categoryNames {
		if name == trimmed {
			return cat, nil
		}
	}
	if n, err := strconv.Atoi(trimmed); err == nil {
		if _, ok := categoryNames[Category(n)]; ok {
			return Category(n), nil
		}
	}
	return 0, fmt.Errorf("%w: category %q must be one of science, people, comedy", services.ErrParse, value)
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return strconv.Itoa(int(c))
}

// ID is the identifier the catalog expects in the categoryId field.
func (c Category) ID() string { return strconv.Itoa(int(c)) }

// MergeMode selects how new description text combines with the existing one.
type MergeMode string

const (
	MergeAppend  MergeMode = "append"
	MergeReplace MergeMode = "replace"
	MergePrepend MergeMode = "prepend"
)

// ParseMergeMode accepts append, replace or prepend.
func ParseMergeMode(value string) (MergeMode, error) {
	switch m := MergeMode(strings.ToLower(strings.TrimSpace(value))); m {
	case MergeAppend, MergeReplace, MergePrepend:
		return m, nil
	default:
		return "", fmt.Errorf("%w: description change mode %q must be append, replace or prepend", services.ErrParse, value)
	}
}

// MergeDescription applies mode to the existing description. Append and
// Prepend trim trailing whitespace from the existing text first.
func MergeDescription(existing, text string, mode MergeMode) (string, error) {
	switch mode {
	case MergeAppend:
		return strings.TrimRightFunc(existing, unicode.IsSpace) + text, nil
	case MergeReplace:
		return text, nil
	case MergePrepend:
		return text + strings.TrimRightFunc(existing, unicode.IsSpace), nil
	default:
		return "", fmt.Errorf("%w: unknown description change mode %q", services.ErrValidation, mode)
	}
}
