package geometry

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/math"
)

// ErrInvalidCamera is returned when a camera configuration cannot produce
// finite rays
var ErrInvalidCamera = errors.New("invalid camera configuration")

// CameraConfig contains the pinhole camera parameters
type CameraConfig struct {
	Origin         math.Point3 // Eye position
	AspectRatio    float64     // Image width / height
	ViewportHeight float64     // Viewport height in world units
	FocalLength    float64     // Distance from eye to viewport plane
}

// DefaultCameraConfig returns the reference camera: eye at the origin looking
// down -z through a 16:9 viewport two units high, one unit away.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:         math.NewVec3(0, 0, 0),
		AspectRatio:    16.0 / 9.0,
		ViewportHeight: 2.0,
		FocalLength:    1.0,
	}
}

// Validate checks that all extents are positive
func (c CameraConfig) Validate() error {
	switch {
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio must be positive, got %v", ErrInvalidCamera, c.AspectRatio)
	case !(c.ViewportHeight > 0):
		return fmt.Errorf("%w: viewport height must be positive, got %v", ErrInvalidCamera, c.ViewportHeight)
	case !(c.FocalLength > 0):
		return fmt.Errorf("%w: focal length must be positive, got %v", ErrInvalidCamera, c.FocalLength)
	case !c.Origin.IsFinite():
		return fmt.Errorf("%w: origin must be finite, got %v", ErrInvalidCamera, c.Origin)
	}
	return nil
}

// Camera generates rays for rendering
type Camera struct {
	origin          math.Point3
	lowerLeftCorner math.Point3
	horizontal      math.Vec3
	vertical        math.Vec3
}

// NewCamera creates an axis-aligned pinhole camera looking down -z
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.AspectRatio * config.ViewportHeight

	origin := config.Origin
	horizontal := math.NewVec3(viewportWidth, 0, 0)
	vertical := math.NewVec3(0, config.ViewportHeight, 0)
	lowerLeftCorner := origin.Subtract(horizontal.Divide(2)).
		Subtract(vertical.Divide(2)).
		Subtract(math.NewVec3(0, 0, config.FocalLength))

	return &Camera{
		origin:          origin,
		horizontal:      horizontal,
		vertical:        vertical,
		lowerLeftCorner: lowerLeftCorner,
	}
}

// GetRay generates a ray for viewport coordinates (u, v) where 0 <= u,v <= 1
// and (0, 0) is the lower left corner
func (c *Camera) GetRay(u, v float64) math.Ray {
	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(u)).
		Add(c.vertical.Multiply(v)).
		Subtract(c.origin)

	return math.NewRay(c.origin, direction)
}

// Origin returns the eye position
func (c *Camera) Origin() math.Point3 {
	return c.origin
}
