package thumbnail

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"vidpub/internal/services"
)

var backgroundColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func newCompositor(t *testing.T) *Compositor {
	t.Helper()
	c, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestComposeDrawsCaptionThenOverlay(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)

	background := solid(1920, 1400, backgroundColor)
	overlay := image.NewRGBA(image.Rect(0, 0, 100, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			overlay.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	out, err := c.Compose(background, overlay, "Hello\nGo")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if out.Bounds() != background.Bounds() {
		t.Fatalf("unexpected bounds %v", out.Bounds())
	}
	if got := out.RGBAAt(10, 10); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("overlay not drawn at origin: %v", got)
	}
	if got := out.RGBAAt(200, 200); got != backgroundColor {
		t.Fatalf("background changed outside caption: %v", got)
	}
	if background.RGBAAt(10, 10) != backgroundColor {
		t.Fatal("background image was modified")
	}

	metrics := c.face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()
	countInk := func(top, bottom int) int {
		n := 0
		for y := top; y < bottom; y++ {
			for x := 0; x < 1920; x++ {
				if out.RGBAAt(x, y) == TextColor {
					n++
				}
			}
		}
		return n
	}
	if countInk(FirstLineOffset, FirstLineOffset+lineHeight) == 0 {
		t.Fatal("expected first caption line in the text color")
	}
	if countInk(FirstLineOffset+lineHeight, FirstLineOffset+2*lineHeight) == 0 {
		t.Fatal("expected second caption line stacked below the first")
	}
	for y := 0; y < FirstLineOffset; y++ {
		for x := 200; x < 1920; x++ {
			if out.RGBAAt(x, y) != backgroundColor {
				t.Fatalf("unexpected ink above first line at (%d,%d)", x, y)
			}
		}
	}
}

func TestComposeCentersLine(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)

	out, err := c.Compose(solid(1920, 1080, backgroundColor), nil, "IIII")
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	minX, maxX := 1920, -1
	for y := FirstLineOffset; y < 1080; y++ {
		for x := 0; x < 1920; x++ {
			if out.RGBAAt(x, y) != backgroundColor {
				minX = min(minX, x)
				maxX = max(maxX, x)
			}
		}
	}
	if maxX < 0 {
		t.Fatal("no caption ink found")
	}
	left, right := minX, 1919-maxX
	if diff := left - right; diff < -3 || diff > 3 {
		t.Fatalf("caption not centered: left margin %d right margin %d", left, right)
	}
}

func TestComposeRejectsWideLine(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)

	_, err := c.Compose(solid(1920, 1080, backgroundColor), nil, "short\nWWWWWWWWWWWWWWWWWWWW")
	var layoutErr *LayoutError
	if !errors.As(err, &layoutErr) {
		t.Fatalf("expected LayoutError, got %v", err)
	}
	if layoutErr.Line != 2 || layoutErr.Value <= MaxLineWidth {
		t.Fatalf("unexpected layout error detail: %+v", layoutErr)
	}
	if !errors.Is(err, ErrCaptionTooWide) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected too-wide validation error, got %v", err)
	}
}

func TestComposeRejectsTallCaption(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)

	_, err := c.Compose(solid(1920, 1080, backgroundColor), nil, "A\nB\nC")
	if !errors.Is(err, ErrCaptionTooTall) {
		t.Fatalf("expected too-tall error, got %v", err)
	}
}

func TestRenderWritesPNGWithAlpha(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)
	dir := t.TempDir()

	background := solid(1920, 1080, backgroundColor)
	background.Set(1919, 1079, color.RGBA{})
	bgPath := filepath.Join(dir, "clip.png")
	writePNG(t, bgPath, background)
	overlayPath := filepath.Join(dir, "logos.png")
	writePNG(t, overlayPath, solid(10, 10, color.RGBA{B: 255, A: 255}))

	output := filepath.Join(dir, "thumb.png")
	path, skipped, err := c.Render(Spec{Background: bgPath, Overlay: overlayPath, Caption: "Intro", Output: output})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if skipped || path != output {
		t.Fatalf("unexpected result path=%q skipped=%v", path, skipped)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if _, _, _, a := img.At(1919, 1079).RGBA(); a != 0 {
		t.Fatalf("transparent background pixel lost alpha: %d", a)
	}
	if r, g, b, _ := img.At(5, 5).RGBA(); r != 0 || g != 0 || b != 0xffff {
		t.Fatalf("overlay pixel not preserved: %d %d %d", r, g, b)
	}
}

func TestRenderSkipsExistingOutput(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)
	dir := t.TempDir()

	output := filepath.Join(dir, "thumb.jpg")
	if err := os.WriteFile(output, []byte("existing"), 0o644); err != nil {
		t.Fatalf("seed output: %v", err)
	}

	path, skipped, err := c.Render(Spec{Background: filepath.Join(dir, "missing.png"), Caption: "x", Output: output})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !skipped || path != output {
		t.Fatalf("expected skip of existing output, got path=%q skipped=%v", path, skipped)
	}
	data, _ := os.ReadFile(output)
	if string(data) != "existing" {
		t.Fatalf("existing output modified: %q", data)
	}
}

func TestRenderWritesNothingWhenCaptionDoesNotFit(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)
	dir := t.TempDir()

	bgPath := filepath.Join(dir, "clip.png")
	writePNG(t, bgPath, solid(1920, 1080, backgroundColor))
	output := filepath.Join(dir, "thumb.jpg")

	_, _, err := c.Render(Spec{Background: bgPath, Caption: "WWWWWWWWWWWWWWWWWWWWWWWW", Output: output})
	if !errors.Is(err, ErrCaptionTooWide) {
		t.Fatalf("expected too-wide error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist, stat err: %v", statErr)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("expected only the background in dir, found %d entries", len(entries))
	}
}

func TestRenderRejectsUnknownExtension(t *testing.T) {
	t.Parallel()
	c := newCompositor(t)
	dir := t.TempDir()

	bgPath := filepath.Join(dir, "clip.png")
	writePNG(t, bgPath, solid(1920, 1080, backgroundColor))
	output := filepath.Join(dir, "thumb.tiff")

	if _, _, err := c.Render(Spec{Background: bgPath, Caption: "x", Output: output}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, statErr := os.Stat(output); !os.IsNotExist(statErr) {
		t.Fatalf("output should not exist, stat err: %v", statErr)
	}
}

func TestEncoderForFallsBackToBackgroundFormat(t *testing.T) {
	t.Parallel()
	if _, err := encoderFor("/tmp/thumb", "jpeg"); err != nil {
		t.Fatalf("extension-less output should use background format: %v", err)
	}
	if _, err := encoderFor("/tmp/thumb.JPG", "png"); err != nil {
		t.Fatalf("upper-case extension should be accepted: %v", err)
	}
}
