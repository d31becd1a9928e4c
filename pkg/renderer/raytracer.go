package renderer

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	stdmath "math"
	"math/rand"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/math"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrInvalidSampling is returned for settings that would divide by zero
// while sampling
var ErrInvalidSampling = errors.New("invalid sampling configuration")

// DefaultSeed is used when Config.Seed is zero
const DefaultSeed int64 = 42

// Config contains rendering configuration
type Config struct {
	SamplesPerPixel int   // Rays per pixel; 0 uses the scene's recommendation
	Workers         int   // Parallel scanline workers; <= 1 renders sequentially
	Seed            int64 // Base seed for per-scanline random streams
}

// Sink receives finished scanlines from top to bottom
type Sink interface {
	WriteHeader(width, height int) error
	WriteRow(row []PixelStats) error
}

// Progress receives advisory scanline notifications
type Progress interface {
	ScanlinesRemaining(remaining int)
	Done()
}

type nopProgress struct{}

func (nopProgress) ScanlinesRemaining(int) {}
func (nopProgress) Done()                  {}

// Raytracer handles the rendering process
type Raytracer struct {
	scene    *scene.Scene
	width    int
	height   int
	config   Config
	progress Progress
}

// NewRaytracer creates a raytracer for the scene's image size
func NewRaytracer(s *scene.Scene, config Config) (*Raytracer, error) {
	if s == nil || s.Camera == nil {
		return nil, fmt.Errorf("%w: scene has no camera", ErrInvalidSampling)
	}
	if config.SamplesPerPixel == 0 {
		config.SamplesPerPixel = s.SamplingConfig.SamplesPerPixel
	}
	if config.Seed == 0 {
		config.Seed = DefaultSeed
	}

	width, height := s.SamplingConfig.Width, s.SamplingConfig.Height
	switch {
	case config.SamplesPerPixel <= 0:
		return nil, fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidSampling, config.SamplesPerPixel)
	case width < 2 || height < 2:
		// u and v divide by width-1 and height-1
		return nil, fmt.Errorf("%w: image must be at least 2x2, got %dx%d", ErrInvalidSampling, width, height)
	}

	return &Raytracer{
		scene:    s,
		width:    width,
		height:   height,
		config:   config,
		progress: nopProgress{},
	}, nil
}

// SetProgress installs a progress collaborator
func (rt *Raytracer) SetProgress(p Progress) {
	if p == nil {
		p = nopProgress{}
	}
	rt.progress = p
}

// Config returns the effective configuration
func (rt *Raytracer) Config() Config {
	return rt.config
}

// Size returns the image dimensions
func (rt *Raytracer) Size() (width, height int) {
	return rt.width, rt.height
}

// RayColor returns the color seen along a ray: the surface normal mapped to
// RGB on a hit, the background gradient otherwise
func RayColor(r math.Ray, world geometry.Shape, background scene.Background) math.Color {
	if hit, isHit := world.Hit(r, 0, stdmath.Inf(1)); isHit {
		return hit.Normal.Add(math.NewVec3(1, 1, 1)).Multiply(0.5)
	}
	return backgroundGradient(r, background)
}

// backgroundGradient returns a gradient color based on ray direction
func backgroundGradient(r math.Ray, background scene.Background) math.Color {
	unitDirection := r.Direction.Unit()

	// Map y from [-1,1] to [0,1]
	t := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-t)*bottom + t*top
	return background.Bottom.Multiply(1.0 - t).Add(background.Top.Multiply(t))
}

// RenderPixel samples pixel (i, j) with uniform jitter and returns the raw sum.
// j counts from the bottom of the image.
func (rt *Raytracer) RenderPixel(i, j int, random *rand.Rand) PixelStats {
	var ps PixelStats
	camera := rt.scene.Camera

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		u := (float64(i) + random.Float64()) / float64(rt.width-1)
		v := (float64(j) + random.Float64()) / float64(rt.height-1)

		ray := camera.GetRay(u, v)
		ps.AddSample(RayColor(ray, rt.scene, rt.scene.Background))
	}

	return ps
}

// RenderRow renders scanline j from left to right
func (rt *Raytracer) RenderRow(j int, random *rand.Rand) []PixelStats {
	row := make([]PixelStats, rt.width)
	for i := range row {
		row[i] = rt.RenderPixel(i, j, random)
	}
	return row
}

// RowRandom returns the random stream for scanline j. Streams depend only on
// the seed and the row, so parallel and sequential renders agree.
func (rt *Raytracer) RowRandom(j int) *rand.Rand {
	return rand.New(rand.NewSource(rowSeed(rt.config.Seed, j)))
}

func rowSeed(seed int64, row int) int64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(seed))
	binary.LittleEndian.PutUint64(buf[8:], uint64(row))
	return int64(xxhash.Sum64(buf[:]))
}

// Render renders the whole image and streams it to sink top row first.
// With more than one worker the frame is rendered in parallel and written
// once complete.
func (rt *Raytracer) Render(ctx context.Context, sink Sink) (RenderStats, error) {
	startTime := time.Now()
	stats := RenderStats{
		Width:           rt.width,
		Height:          rt.height,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         max(1, rt.config.Workers),
	}

	if err := sink.WriteHeader(rt.width, rt.height); err != nil {
		return stats, fmt.Errorf("write header: %w", err)
	}

	if rt.config.Workers > 1 {
		frame, err := NewWorkerPool(rt, rt.config.Workers).RenderFrame(ctx)
		if err != nil {
			return stats, err
		}
		for j := rt.height - 1; j >= 0; j-- {
			if err := sink.WriteRow(frame.Row(j)); err != nil {
				return stats, fmt.Errorf("write row %d: %w", j, err)
			}
		}
	} else {
		for j := rt.height - 1; j >= 0; j-- {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			rt.progress.ScanlinesRemaining(j)
			if err := sink.WriteRow(rt.RenderRow(j, rt.RowRandom(j))); err != nil {
				return stats, fmt.Errorf("write row %d: %w", j, err)
			}
		}
	}
	rt.progress.Done()

	stats.TotalPixels = rt.width * rt.height
	stats.TotalSamples = stats.TotalPixels * rt.config.SamplesPerPixel
	stats.Duration = time.Since(startTime)
	return stats, nil
}

// RenderFrame renders the whole image into memory
func (rt *Raytracer) RenderFrame(ctx context.Context) (*Frame, error) {
	return NewWorkerPool(rt, max(1, rt.config.Workers)).RenderFrame(ctx)
}
