package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/math"
)

// NewDefaultScene creates the reference scene: a small sphere in front of the
// camera resting on a very large sphere that stands in for the ground
func NewDefaultScene() *Scene {
	cameraConfig := geometry.DefaultCameraConfig()

	width := 384
	samplingConfig := SamplingConfig{
		Width:           width,
		Height:          ImageHeight(width, cameraConfig.AspectRatio), // 216
		SamplesPerPixel: 100,
	}

	s := New(cameraConfig, samplingConfig)
	s.Add(geometry.NewSphere(math.NewVec3(0, 0, -1), 0.5))
	s.Add(geometry.NewSphere(math.NewVec3(0, -100.5, -1), 100))

	return s
}

// ImageHeight derives the image height from a width and aspect ratio,
// truncating toward zero
func ImageHeight(width int, aspectRatio float64) int {
	return int(float64(width) / aspectRatio)
}
