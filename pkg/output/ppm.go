package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// PPMWriter writes a plain-text P3 image, one "R G B" line per pixel
type PPMWriter struct {
	w *bufio.Writer
}

// NewPPMWriter creates a PPM writer
func NewPPMWriter(w io.Writer) *PPMWriter {
	return &PPMWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the P3 header followed by an empty line
func (p *PPMWriter) WriteHeader(width, height int) error {
	_, err := fmt.Fprintf(p.w, "P3\n%d %d\n255\n\n", width, height)
	return err
}

// WriteRow writes one scanline
func (p *PPMWriter) WriteRow(row []renderer.PixelStats) error {
	for _, ps := range row {
		r, g, b := ToRGB(ps)
		if _, err := fmt.Fprintf(p.w, "%d %d %d\n", r, g, b); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered output
func (p *PPMWriter) Close() error {
	return p.w.Flush()
}
