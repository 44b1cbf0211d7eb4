package thumbnail

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Compositor renders captions with one font face. It is not safe for
// concurrent use.
type Compositor struct {
	face font.Face
}

// New loads the caption face.
func New() (*Compositor, error) {
	face, err := newFace(FontSize)
	if err != nil {
		return nil, err
	}
	return &Compositor{face: face}, nil
}

// Close releases the font face.
func (c *Compositor) Close() error {
	if c == nil || c.face == nil {
		return nil
	}
	return c.face.Close()
}

// Compose draws caption onto a copy of background and blends overlay at the
// origin on top. background is not modified.
func (c *Compositor) Compose(background, overlay image.Image, caption string) (*image.RGBA, error) {
	bounds := background.Bounds()
	lines, err := layout(c.face, bounds, caption)
	if err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, background, bounds.Min, draw.Src)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(TextColor),
		Face: c.face,
	}
	for _, line := range lines {
		drawer.Dot = line.dot
		drawer.DrawString(line.text)
	}

	if overlay != nil {
		ob := overlay.Bounds()
		target := image.Rectangle{Min: bounds.Min, Max: bounds.Min.Add(ob.Size())}
		draw.Draw(canvas, target, overlay, ob.Min, draw.Over)
	}
	return canvas, nil
}
