package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"vidpub/internal/services"
)

const (
	// FontSize is the caption size in pixels.
	FontSize = 192
	// MaxLineWidth is the widest caption line accepted, in pixels.
	MaxLineWidth = 1600
	// FirstLineOffset is the distance from the canvas top to the first line's top.
	FirstLineOffset = 660
)

// TextColor is the caption fill.
var TextColor = color.RGBA{R: 227, G: 228, B: 229, A: 255}

var (
	ErrCaptionTooWide = fmt.Errorf("%w: caption line too wide", services.ErrValidation)
	ErrCaptionTooTall = fmt.Errorf("%w: caption too tall for canvas", services.ErrValidation)
)

// LayoutError reports a caption line that does not fit the canvas.
type LayoutError struct {
	Line  int
	Text  string
	Value int
	Limit int
	Err   error
}

func (e *LayoutError) Error() string {
	if errors.Is(e.Err, ErrCaptionTooWide) {
		return fmt.Sprintf("caption line %d %q is %dpx wide, limit %dpx", e.Line, e.Text, e.Value, e.Limit)
	}
	return fmt.Sprintf("caption line %d %q ends at %dpx, canvas height %dpx", e.Line, e.Text, e.Value, e.Limit)
}

func (e *LayoutError) Unwrap() error { return e.Err }

// placedLine is a caption line with its ink origin resolved.
type placedLine struct {
	text string
	dot  fixed.Point26_6
}

// newFace loads the embedded bold face at size pixels.
func newFace(size float64) (font.Face, error) {
	parsed, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse caption font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("build caption face: %w", err)
	}
	return face, nil
}

// layout validates caption against bounds and returns where each line is drawn.
// Lines are split on '\n', centered by their ink width and stacked by the
// face's ascent plus descent with no extra leading.
func layout(face font.Face, bounds image.Rectangle, caption string) ([]placedLine, error) {
	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	canvasWidth := bounds.Dx()

	lines := strings.Split(caption, "\n")
	placed := make([]placedLine, 0, len(lines))
	y := FirstLineOffset
	for i, text := range lines {
		ink, _ := font.BoundString(face, text)
		width := (ink.Max.X - ink.Min.X).Ceil()
		if width > MaxLineWidth {
			return nil, &LayoutError{Line: i + 1, Text: text, Value: width, Limit: MaxLineWidth, Err: ErrCaptionTooWide}
		}
		if y+lineHeight > bounds.Dy() {
			return nil, &LayoutError{Line: i + 1, Text: text, Value: y + lineHeight, Limit: bounds.Dy(), Err: ErrCaptionTooTall}
		}
		left := (canvasWidth - width) / 2
		placed = append(placed, placedLine{
			text: text,
			dot: fixed.Point26_6{
				X: fixed.I(bounds.Min.X+left) - ink.Min.X,
				Y: fixed.I(bounds.Min.Y+y) + metrics.Ascent,
			},
		})
		y += lineHeight
	}
	return placed, nil
}
