package geometry

import (
	stdmath "math"

	"github.com/df07/go-sphere-raytracer/pkg/math"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center math.Point3
	Radius float64
}

// NewSphere creates a new sphere. A non-positive radius makes a degenerate
// sphere that is never hit.
func NewSphere(center math.Point3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
	}
}

// Hit tests if a ray intersects with the sphere.
// A tangent ray (zero discriminant) counts as a miss.
func (s *Sphere) Hit(ray math.Ray, tMin, tMax float64) (*HitRecord, bool) {
	if s.Radius <= 0 {
		return nil, false
	}

	// Vector from sphere center to ray origin
	oc := ray.Origin.Subtract(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.LengthSquared()
	halfB := oc.Dot(ray.Direction)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := stdmath.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (-halfB - sqrtD) / a
	if root <= tMin || root >= tMax {
		root = (-halfB + sqrtD) / a
		if root <= tMin || root >= tMax {
			return nil, false
		}
	}

	hitRecord := &HitRecord{
		T:     root,
		Point: ray.At(root),
	}

	// Outward normal points from center to hit point
	outwardNormal := hitRecord.Point.Subtract(s.Center).Divide(s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)

	return hitRecord, true
}
