package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/math"
)

var _ geometry.Shape = (*Scene)(nil)

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *geometry.Camera
	CameraConfig   geometry.CameraConfig
	SamplingConfig SamplingConfig
	Background     Background

	shapes []geometry.Shape // Objects in the scene, in insertion order
}

// SamplingConfig contains the image and sampling parameters a scene is meant
// to be rendered with
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
}

// Background is the vertical sky gradient returned for rays that miss
type Background struct {
	Bottom math.Color // Color for rays pointing straight down
	Top    math.Color // Color for rays pointing straight up
}

// DefaultBackground returns the white to sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Bottom: math.NewVec3(1.0, 1.0, 1.0),
		Top:    math.NewVec3(0.5, 0.7, 1.0),
	}
}

// New creates an empty scene for the given camera and sampling settings
func New(cameraConfig geometry.CameraConfig, samplingConfig SamplingConfig) *Scene {
	return &Scene{
		Camera:         geometry.NewCamera(cameraConfig),
		CameraConfig:   cameraConfig,
		SamplingConfig: samplingConfig,
		Background:     DefaultBackground(),
		shapes:         make([]geometry.Shape, 0),
	}
}

// Add appends a shape to the scene
func (s *Scene) Add(shape geometry.Shape) {
	s.shapes = append(s.shapes, shape)
}

// Clear removes all shapes
func (s *Scene) Clear() {
	clear(s.shapes)
	s.shapes = s.shapes[:0]
}

// Len returns the number of shapes in the scene
func (s *Scene) Len() int {
	return len(s.shapes)
}

// Shapes returns the shapes in insertion order. The slice must not be modified.
func (s *Scene) Shapes() []geometry.Shape {
	return s.shapes
}

// Hit returns the nearest intersection among all shapes. Each successful hit
// narrows tMax, so a later shape only wins with a strictly smaller t.
func (s *Scene) Hit(ray math.Ray, tMin, tMax float64) (*geometry.HitRecord, bool) {
	var closestHit *geometry.HitRecord
	closestSoFar := tMax

	for _, shape := range s.shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
