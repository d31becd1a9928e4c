package scene

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/math"
)

// ErrInvalidConfig is returned when a scene description would render
// degenerate or non-finite output
var ErrInvalidConfig = errors.New("invalid scene configuration")

// Config describes a scene in YAML. Omitted blocks keep the values of the
// default scene; a present spheres list replaces the default spheres.
type Config struct {
	Image      ImageConfig       `yaml:"image"`
	Camera     CameraSpec        `yaml:"camera"`
	Background *BackgroundConfig `yaml:"background,omitempty"`
	Spheres    []SphereConfig    `yaml:"spheres"`
}

type ImageConfig struct {
	Width           int `yaml:"width"`
	SamplesPerPixel int `yaml:"samples_per_pixel"`
}

type CameraSpec struct {
	Origin         *Vec3Config `yaml:"origin,omitempty"`
	AspectRatio    float64     `yaml:"aspect_ratio"`
	ViewportHeight float64     `yaml:"viewport_height"`
	FocalLength    float64     `yaml:"focal_length"`
}

type BackgroundConfig struct {
	Bottom Vec3Config `yaml:"bottom"`
	Top    Vec3Config `yaml:"top"`
}

type SphereConfig struct {
	Center Vec3Config `yaml:"center"`
	Radius float64    `yaml:"radius"`
}

// Vec3Config is written as a three element sequence, e.g. [0, -100.5, -1]
type Vec3Config [3]float64

func (v Vec3Config) Vec3() math.Vec3 {
	return math.NewVec3(v[0], v[1], v[2])
}

// DefaultConfig returns the config equivalent of NewDefaultScene
func DefaultConfig() *Config {
	cam := geometry.DefaultCameraConfig()
	return &Config{
		Image: ImageConfig{Width: 384, SamplesPerPixel: 100},
		Camera: CameraSpec{
			AspectRatio:    cam.AspectRatio,
			ViewportHeight: cam.ViewportHeight,
			FocalLength:    cam.FocalLength,
		},
		Spheres: []SphereConfig{
			{Center: Vec3Config{0, 0, -1}, Radius: 0.5},
			{Center: Vec3Config{0, -100.5, -1}, Radius: 100},
		},
	}
}

// LoadYAML loads a scene config from a YAML reader
func LoadYAML(r io.Reader) (*Config, error) {
	c := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode scene yaml: %w", err)
	}
	return c, nil
}

// LoadFile loads a scene config from a YAML file
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scene file: %w", err)
	}
	defer f.Close()

	c, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// CameraConfig converts the camera block
func (c *Config) CameraConfig() geometry.CameraConfig {
	cam := geometry.CameraConfig{
		AspectRatio:    c.Camera.AspectRatio,
		ViewportHeight: c.Camera.ViewportHeight,
		FocalLength:    c.Camera.FocalLength,
	}
	if c.Camera.Origin != nil {
		cam.Origin = c.Camera.Origin.Vec3()
	}
	return cam
}

// Validate reports the first setting that would make rendering degenerate
func (c *Config) Validate() error {
	if c.Image.Width <= 0 {
		return fmt.Errorf("%w: image width must be positive, got %d", ErrInvalidConfig, c.Image.Width)
	}
	if c.Image.SamplesPerPixel <= 0 {
		return fmt.Errorf("%w: samples per pixel must be positive, got %d", ErrInvalidConfig, c.Image.SamplesPerPixel)
	}

	cam := c.CameraConfig()
	if err := cam.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	// u and v are divided by width-1 and height-1
	if c.Image.Width < 2 {
		return fmt.Errorf("%w: image width must be at least 2, got %d", ErrInvalidConfig, c.Image.Width)
	}
	if h := ImageHeight(c.Image.Width, cam.AspectRatio); h < 2 {
		return fmt.Errorf("%w: image height must be at least 2, got %d (width %d, aspect %v)",
			ErrInvalidConfig, h, c.Image.Width, cam.AspectRatio)
	}

	for i, s := range c.Spheres {
		if !(s.Radius > 0) {
			return fmt.Errorf("%w: sphere %d: radius must be positive, got %v", ErrInvalidConfig, i, s.Radius)
		}
		if !s.Center.Vec3().IsFinite() {
			return fmt.Errorf("%w: sphere %d: center must be finite", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Build validates the config and constructs the scene
func (c *Config) Build() (*Scene, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cam := c.CameraConfig()
	s := New(cam, SamplingConfig{
		Width:           c.Image.Width,
		Height:          ImageHeight(c.Image.Width, cam.AspectRatio),
		SamplesPerPixel: c.Image.SamplesPerPixel,
	})

	if c.Background != nil {
		s.Background = Background{
			Bottom: c.Background.Bottom.Vec3(),
			Top:    c.Background.Top.Vec3(),
		}
	}

	for _, sc := range c.Spheres {
		s.Add(geometry.NewSphere(sc.Center.Vec3(), sc.Radius))
	}
	return s, nil
}
