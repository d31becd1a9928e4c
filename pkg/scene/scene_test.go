package scene

import (
	stdmath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/math"
)

// countingShape records how it was queried and reports a fixed hit
type countingShape struct {
	t     float64
	calls int
	tMaxs []float64
}

func (c *countingShape) Hit(ray math.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	c.calls++
	c.tMaxs = append(c.tMaxs, tMax)
	if c.t <= tMin || c.t >= tMax {
		return nil, false
	}
	return &geometry.HitRecord{T: c.t, Point: ray.At(c.t)}, true
}

func TestScene_NearestHitRegardlessOfOrder(t *testing.T) {
	near := geometry.NewSphere(math.NewVec3(0, 0, -2), 0.5)
	far := geometry.NewSphere(math.NewVec3(0, 0, -2.6), 0.5)
	ray := math.NewRay(math.NewVec3(0, 0, 0), math.NewVec3(0, 0, -1))

	orders := map[string][]geometry.Shape{
		"near first": {near, far},
		"far first":  {far, near},
	}

	for name, shapes := range orders {
		t.Run(name, func(t *testing.T) {
			s := New(geometry.DefaultCameraConfig(), SamplingConfig{})
			for _, shape := range shapes {
				s.Add(shape)
			}

			hit, isHit := s.Hit(ray, 0, stdmath.Inf(1))
			require.True(t, isHit)
			assert.InDelta(t, 1.5, hit.T, 1e-9)
			assert.True(t, hit.FrontFace)
		})
	}
}

func TestScene_NarrowsIntervalAndKeepsFirstOnTie(t *testing.T) {
	first := &countingShape{t: 2}
	second := &countingShape{t: 2}
	third := &countingShape{t: 5}

	s := New(geometry.DefaultCameraConfig(), SamplingConfig{})
	s.Add(first)
	s.Add(second)
	s.Add(third)

	hit, isHit := s.Hit(math.NewRay(math.Vec3{}, math.NewVec3(1, 0, 0)), 0, 10)
	require.True(t, isHit)
	assert.Equal(t, 2.0, hit.T)
	assert.Equal(t, math.NewVec3(2, 0, 0), hit.Point)

	assert.Equal(t, []float64{10}, first.tMaxs)
	assert.Equal(t, []float64{2}, second.tMaxs, "second shape sees narrowed tMax")
	assert.Equal(t, []float64{2}, third.tMaxs)
}

func TestScene_MissWhenEmptyOrNothingHit(t *testing.T) {
	s := New(geometry.DefaultCameraConfig(), SamplingConfig{})
	ray := math.NewRay(math.Vec3{}, math.NewVec3(0, 0, -1))

	hit, isHit := s.Hit(ray, 0, stdmath.Inf(1))
	assert.False(t, isHit)
	assert.Nil(t, hit)

	s.Add(geometry.NewSphere(math.NewVec3(0, 5, -1), 0.5))
	_, isHit = s.Hit(ray, 0, stdmath.Inf(1))
	assert.False(t, isHit)
}

func TestScene_AddAndClear(t *testing.T) {
	s := New(geometry.DefaultCameraConfig(), SamplingConfig{})
	sphere := geometry.NewSphere(math.NewVec3(0, 0, -1), 0.5)

	s.Add(sphere)
	s.Add(sphere) // identical entries are independent
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Shapes(), 2)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, isHit := s.Hit(math.NewRay(math.Vec3{}, math.NewVec3(0, 0, -1)), 0, 100)
	assert.False(t, isHit)
}

func TestNewDefaultScene(t *testing.T) {
	s := NewDefaultScene()

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 384, s.SamplingConfig.Width)
	assert.Equal(t, 216, s.SamplingConfig.Height)
	assert.Equal(t, 100, s.SamplingConfig.SamplesPerPixel)
	assert.Equal(t, DefaultBackground(), s.Background)
	require.NotNil(t, s.Camera)
}

func TestLoadYAML(t *testing.T) {
	input := `
image:
  width: 200
  samples_per_pixel: 8
camera:
  origin: [0, 1, 0]
  aspect_ratio: 2.0
background:
  bottom: [1, 1, 1]
  top: [0.2, 0.3, 0.9]
spheres:
  - center: [0, 0, -1]
    radius: 0.5
  - center: [1, 0, -2]
    radius: 0.25
  - center: [-1, 0, -2]
    radius: 0.25
`
	cfg, err := LoadYAML(strings.NewReader(input))
	require.NoError(t, err)

	s, err := cfg.Build()
	require.NoError(t, err)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 200, s.SamplingConfig.Width)
	assert.Equal(t, 100, s.SamplingConfig.Height)
	assert.Equal(t, 8, s.SamplingConfig.SamplesPerPixel)
	assert.Equal(t, math.NewVec3(0, 1, 0), s.CameraConfig.Origin)
	assert.Equal(t, 2.0, s.CameraConfig.ViewportHeight, "omitted camera fields keep defaults")
	assert.Equal(t, 1.0, s.CameraConfig.FocalLength)
	assert.Equal(t, math.NewVec3(0.2, 0.3, 0.9), s.Background.Top)
}

func TestLoadYAML_EmptyDocumentIsDefaultScene(t *testing.T) {
	cfg, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	s, err := cfg.Build()
	require.NoError(t, err)
	def := NewDefaultScene()
	assert.Equal(t, def.SamplingConfig, s.SamplingConfig)
	assert.Equal(t, def.CameraConfig, s.CameraConfig)
	assert.Equal(t, def.Len(), s.Len())
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown field", "imagez:\n  width: 10\n"},
		{"wrong vector length", "spheres:\n  - center: [0, 0]\n    radius: 1\n"},
		{"not yaml", "image: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero width", func(c *Config) { c.Image.Width = 0 }},
		{"width of one", func(c *Config) { c.Image.Width = 1 }},
		{"zero samples", func(c *Config) { c.Image.SamplesPerPixel = 0 }},
		{"height below two", func(c *Config) { c.Image.Width = 3 }},
		{"zero aspect", func(c *Config) { c.Camera.AspectRatio = 0 }},
		{"negative focal length", func(c *Config) { c.Camera.FocalLength = -1 }},
		{"zero radius", func(c *Config) { c.Spheres[0].Radius = 0 }},
		{"negative radius", func(c *Config) { c.Spheres[1].Radius = -3 }},
		{"nan center", func(c *Config) { c.Spheres[0].Center[1] = stdmath.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)

			s, err := cfg.Build()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Nil(t, s)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("image:\n  width: 64\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Image.Width)
	assert.Len(t, cfg.Spheres, 2)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
