// Package output encodes rendered frames. Writers receive raw per-pixel sums
// and do the averaging, clamping and channel scaling themselves.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Writer is a renderer.Sink that must be closed to flush the encoded image
type Writer interface {
	renderer.Sink
	Close() error
}

// ToRGB averages the pixel's samples and maps each channel to 0..255
func ToRGB(ps renderer.PixelStats) (r, g, b uint8) {
	c := ps.GetColor().Clamp(0.0, 0.999)
	return uint8(256 * c.X), uint8(256 * c.Y), uint8(256 * c.Z)
}

// NewWriter returns a writer for the named format (ppm or png)
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch strings.ToLower(format) {
	case "", "ppm":
		return NewPPMWriter(w), nil
	case "png":
		return NewPNGWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}

// ContentType returns the MIME type for a format accepted by NewWriter
func ContentType(format string) string {
	if strings.EqualFold(format, "png") {
		return "image/png"
	}
	return "image/x-portable-pixmap"
}
