// Package thumbnail composes thumbnail artwork: caption lines rendered in a
// bold face, centered horizontally and stacked from a fixed offset, then an
// overlay image alpha-blended at the origin on top of the text.
//
// Captions are never wrapped. A line wider than MaxLineWidth, or a caption
// that runs off the bottom of the canvas, is a *LayoutError reported before
// any output file is touched. Render never overwrites an existing output.
package thumbnail
