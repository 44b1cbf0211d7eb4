package metadata

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Submission is the full metadata record sent when creating a catalog entry.
type Submission struct {
	Title       string
	Description string
	Tags        []string
	Episode     *uint8
	Category    Category
	Privacy     Privacy
	PublishAt   time.Time
}

// DisplayTitle is the title as published: the hex episode label followed by
// the title when the episode is known.
func (s Submission) DisplayTitle() string {
	if s.Episode == nil {
		return s.Title
	}
	return fmt.Sprintf("%X. %s", *s.Episode, s.Title)
}

// Report is the dry-run view of a submission.
type Report struct {
	Title        string   `json:"title"`
	DisplayTitle string   `json:"display_title"`
	PublishAt    string   `json:"publish_at"`
	Episode      string   `json:"episode"`
	Category     string   `json:"category"`
	Privacy      string   `json:"privacy"`
	Tags         []string `json:"tags"`
	Description  string   `json:"description"`
	// PublishError explains why PublishAt is empty.
	PublishError string `json:"publish_error,omitempty"`
}

// NewReport builds the dry-run report. publishAt is the already formatted
// timestamp, or empty when resolution failed.
func NewReport(s Submission, publishAt string, publishErr error) Report {
	label := cases.Title(language.English)
	r := Report{
		Title:        s.Title,
		DisplayTitle: s.DisplayTitle(),
		PublishAt:    publishAt,
		Episode:      "n/a",
		Category:     label.String(s.Category.String()),
		Privacy:      label.String(s.Privacy.String()),
		Tags:         append([]string(nil), s.Tags...),
		Description:  s.Description,
	}
	if s.Episode != nil {
		r.Episode = fmt.Sprintf("%d (0x%X)", *s.Episode, *s.Episode)
	}
	if publishErr != nil {
		r.PublishError = publishErr.Error()
	}
	return r
}

// Lines renders the report as label/value pairs in display order.
func (r Report) Lines() [][2]string {
	publish := r.PublishAt
	if publish == "" {
		publish = "unresolved: " + r.PublishError
	}
	quoted := make([]string, len(r.Tags))
	for i, tag := range r.Tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return [][2]string{
		{"Title", r.DisplayTitle},
		{"Publish at", publish},
		{"Episode", r.Episode},
		{"Category", r.Category},
		{"Privacy", r.Privacy},
		{"Tags", "[" + strings.Join(quoted, ", ") + "]"},
		{"Description", r.Description},
	}
}
