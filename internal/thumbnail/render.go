package thumbnail

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"vidpub/internal/fileutil"
	"vidpub/internal/services"
)

const jpegQuality = 92

// Spec names the inputs and output of one thumbnail.
type Spec struct {
	Background string
	Overlay    string
	Caption    string
	Output     string
}

// Render composes spec into spec.Output. When the output already exists it
// is reused untouched and skipped is true. Nothing is written unless the
// caption fits.
func (c *Compositor) Render(spec Spec) (path string, skipped bool, err error) {
	exists, err := fileutil.Exists(spec.Output)
	if err != nil {
		return "", false, fmt.Errorf("stat thumbnail output: %w", err)
	}
	if exists {
		return spec.Output, true, nil
	}

	background, format, err := loadImage(spec.Background)
	if err != nil {
		return "", false, fmt.Errorf("load background: %w", err)
	}
	var overlay image.Image
	if spec.Overlay != "" {
		if overlay, _, err = loadImage(spec.Overlay); err != nil {
			return "", false, fmt.Errorf("load overlay: %w", err)
		}
	}

	composed, err := c.Compose(background, overlay, spec.Caption)
	if err != nil {
		return "", false, err
	}

	encode, err := encoderFor(spec.Output, format)
	if err != nil {
		return "", false, err
	}
	if err := fileutil.WriteAtomic(spec.Output, 0o644, func(w io.Writer) error {
		return encode(w, composed)
	}); err != nil {
		return "", false, fmt.Errorf("write thumbnail: %w", err)
	}
	return spec.Output, false, nil
}

func loadImage(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()
	img, format, err := image.Decode(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: decode %s: %w", services.ErrParse, path, err)
	}
	return img, format, nil
}

type encodeFunc func(io.Writer, image.Image) error

// encoderFor picks the encoder from the output extension, falling back to
// the background's own format. Formats without an encoder fall back to PNG.
func encoderFor(output, backgroundFormat string) (encodeFunc, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), ".")
	switch format {
	case "png", "jpg", "jpeg", "bmp":
	case "":
		format = backgroundFormat
	default:
		return nil, services.Wrap(services.ErrValidation, "thumbnail", "encode", fmt.Sprintf("unsupported output extension %q", filepath.Ext(output)), nil)
	}
	switch format {
	case "jpg", "jpeg":
		return func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
		}, nil
	case "bmp":
		return bmp.Encode, nil
	default:
		return png.Encode, nil
	}
}
