package renderer

import (
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/math"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width           int           // Image width
	Height          int           // Image height
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	SamplesPerPixel int           // Samples taken for every pixel
	Workers         int           // Goroutines used, 1 for a sequential scan
	Duration        time.Duration // Wall time spent rendering
}

// PixelStats accumulates the samples of a single pixel. ColorAccum is the raw
// sum, not the average.
type PixelStats struct {
	ColorAccum  math.Color // RGB sum of all samples
	SampleCount int        // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color math.Color) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() math.Color {
	if ps.SampleCount == 0 {
		return math.Color{}
	}
	return ps.ColorAccum.Divide(float64(ps.SampleCount))
}

// Frame holds the accumulated pixels of a render. Rows are indexed with
// j = 0 at the bottom of the image, matching the viewport v axis.
type Frame struct {
	Width  int
	Height int
	rows   [][]PixelStats
}

// NewFrame allocates an empty frame
func NewFrame(width, height int) *Frame {
	rows := make([][]PixelStats, height)
	for j := range rows {
		rows[j] = make([]PixelStats, width)
	}
	return &Frame{Width: width, Height: height, rows: rows}
}

// Row returns row j, counted from the bottom
func (f *Frame) Row(j int) []PixelStats {
	return f.rows[j]
}

// Pixel returns pixel (i, j) with i counted from the left and j from the bottom
func (f *Frame) Pixel(i, j int) PixelStats {
	return f.rows[j][i]
}

func (f *Frame) setRow(j int, row []PixelStats) {
	f.rows[j] = row
}
