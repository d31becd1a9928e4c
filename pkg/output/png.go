package output

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// PNGWriter buffers scanlines into an image and encodes it on Close
type PNGWriter struct {
	w   io.Writer
	img *image.RGBA
	y   int
}

// NewPNGWriter creates a PNG writer
func NewPNGWriter(w io.Writer) *PNGWriter {
	return &PNGWriter{w: w}
}

// WriteHeader allocates the image
func (p *PNGWriter) WriteHeader(width, height int) error {
	p.img = image.NewRGBA(image.Rect(0, 0, width, height))
	p.y = 0
	return nil
}

// WriteRow sets the next image row, top first
func (p *PNGWriter) WriteRow(row []renderer.PixelStats) error {
	if p.img == nil {
		return errors.New("png: row written before header")
	}
	if p.y >= p.img.Rect.Dy() {
		return errors.New("png: too many rows")
	}
	for x, ps := range row {
		r, g, b := ToRGB(ps)
		p.img.SetRGBA(x, p.y, color.RGBA{R: r, G: g, B: b, A: 255})
	}
	p.y++
	return nil
}

// Image returns the image built so far
func (p *PNGWriter) Image() *image.RGBA {
	return p.img
}

// Close encodes the image
func (p *PNGWriter) Close() error {
	if p.img == nil {
		return errors.New("png: nothing to encode")
	}
	return png.Encode(p.w, p.img)
}
