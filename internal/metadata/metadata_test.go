package metadata_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"vidpub/internal/metadata"
	"vidpub/internal/services"
)

func TestTitle(t *testing.T) {
	t.Parallel()

	if got := metadata.Title("Explicit", "/videos/2A-intro.mkv"); got != "Explicit" {
		t.Fatalf("explicit title should win, got %q", got)
	}
	if got := metadata.Title("", "/videos/2A-intro.final.mkv"); got != "2A-intro.final" {
		t.Fatalf("expected stem, got %q", got)
	}
	if got := metadata.Title("", "noext"); got != "noext" {
		t.Fatalf("expected name without extension unchanged, got %q", got)
	}
}

func TestEpisodeNumber(t *testing.T) {
	t.Parallel()

	ep, err := metadata.EpisodeNumber(nil, "2A-intro")
	if err != nil || ep != 0x2A {
		t.Fatalf("expected 0x2A, got %d err=%v", ep, err)
	}

	explicit := uint8(7)
	ep, err = metadata.EpisodeNumber(&explicit, "ZZ-intro")
	if err != nil || ep != 7 {
		t.Fatalf("explicit episode should win, got %d err=%v", ep, err)
	}

	_, err = metadata.EpisodeNumber(nil, "ZZ-intro")
	if !errors.Is(err, metadata.ErrInvalidEpisodeEncoding) {
		t.Fatalf("expected invalid encoding, got %v", err)
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker, got %v", err)
	}

	for _, title := range []string{"", "-1 intro", "0x"} {
		if _, err := metadata.EpisodeNumber(nil, title); err == nil {
			t.Fatalf("expected error for %q", title)
		}
	}
	if ep, err := metadata.EpisodeNumber(nil, "ff"); err != nil || ep != 255 {
		t.Fatalf("expected lower-case hex to parse, got %d err=%v", ep, err)
	}
}

func TestTags(t *testing.T) {
	t.Parallel()

	got := metadata.Tags("rust, tutorial,,rust")
	want := []string{"rust", " tutorial", "", "rust"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
	if got := metadata.Tags(""); !reflect.DeepEqual(got, []string{""}) {
		t.Fatalf("empty keywords should yield one empty tag, got %#v", got)
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	if p, err := metadata.ParsePrivacy("Unlisted"); err != nil || p != metadata.PrivacyUnlisted {
		t.Fatalf("privacy: %v %v", p, err)
	}
	if _, err := metadata.ParsePrivacy("secret"); !errors.Is(err, services.ErrParse) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if c, err := metadata.ParseCategory("science"); err != nil || c.ID() != "28" {
		t.Fatalf("category: %v %v", c, err)
	}
	if c, err := metadata.ParseCategory("22"); err != nil || c != metadata.CategoryPeople {
		t.Fatalf("numeric category: %v %v", c, err)
	}
	if _, err := metadata.ParseCategory("sports"); err == nil {
		t.Fatal("expected unknown category error")
	}
	if _, err := metadata.ParseMergeMode("merge"); err == nil {
		t.Fatal("expected unknown merge mode error")
	}
}

func TestMergeDescription(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mode metadata.MergeMode
		want string
	}{
		{metadata.MergeAppend, "oldnew"},
		{metadata.MergePrepend, "newold"},
		{metadata.MergeReplace, "new"},
	}
	for _, tc := range cases {
		got, err := metadata.MergeDescription("old \n", "new", tc.mode)
		if err != nil {
			t.Fatalf("%s: %v", tc.mode, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q want %q", tc.mode, got, tc.want)
		}
	}
	if _, err := metadata.MergeDescription("a", "b", metadata.MergeMode("sideways")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestSubmissionReport(t *testing.T) {
	t.Parallel()

	ep := uint8(0x2A)
	sub := metadata.Submission{
		Title:       "2A-intro",
		Description: "desc",
		Tags:        []string{"a", "b"},
		Episode:     &ep,
		Category:    metadata.CategoryScience,
		Privacy:     metadata.PrivacyPrivate,
		PublishAt:   time.Date(2021, 9, 3, 8, 0, 0, 0, time.UTC),
	}
	if got := sub.DisplayTitle(); got != "2A. 2A-intro" {
		t.Fatalf("unexpected display title %q", got)
	}
	report := metadata.NewReport(sub, "2021-09-03T08:00:00Z", nil)
	if report.Episode != "42 (0x2A)" || report.Category != "Science" || report.Privacy != "Private" {
		t.Fatalf("unexpected report %#v", report)
	}

	sub.Episode = nil
	report = metadata.NewReport(sub, "", errors.New("missing episode"))
	if report.Episode != "n/a" || report.DisplayTitle != "2A-intro" {
		t.Fatalf("unexpected report without episode %#v", report)
	}
	lines := report.Lines()
	if lines[1][1] != "unresolved: missing episode" {
		t.Fatalf("unexpected publish line %q", lines[1][1])
	}
}

func TestSplitDisplayTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		display string
		episode int
		rest    string
	}{
		{"2A. intro", 0x2A, "intro"},
		{"5. short episode", 5, "short episode"},
		{"FF. last. one", 0xFF, "last. one"},
		{"intro", -1, "intro"},
		{"ZZ. nope", -1, "ZZ. nope"},
		{"123. too long", -1, "123. too long"},
	}
	for _, tc := range tests {
		ep, rest := metadata.SplitDisplayTitle(tc.display)
		if tc.episode < 0 {
			if ep != nil {
				t.Errorf("%q: expected no episode, got %d", tc.display, *ep)
			}
		} else if ep == nil || int(*ep) != tc.episode {
			t.Errorf("%q: expected episode %d, got %v", tc.display, tc.episode, ep)
		}
		if rest != tc.rest {
			t.Errorf("%q: rest = %q, want %q", tc.display, rest, tc.rest)
		}
	}

	ep := uint8(0x2A)
	sub := metadata.Submission{Title: "round trip", Episode: &ep}
	back, title := metadata.SplitDisplayTitle(sub.DisplayTitle())
	if back == nil || *back != ep || title != "round trip" {
		t.Fatalf("DisplayTitle round trip failed: %v %q", back, title)
	}
}
