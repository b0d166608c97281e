package engine

import (
	"math"

	"github.com/vovakirdan/fruit-mukbang/internal/config"
	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// Mapper converts normalized sensor coordinates (origin top-left, [0,1])
// into render space (origin at the screen center, Y up) for a perspective
// camera looking at the origin.
type Mapper struct {
	fov        float64 // degrees
	distance   float64
	aspect     float64
	depthScale float64
}

// NewMapper creates a mapper from the camera configuration.
func NewMapper(cam config.CameraConfig) *Mapper {
	return &Mapper{
		fov:        cam.FOV,
		distance:   cam.Distance,
		aspect:     cam.Aspect,
		depthScale: cam.DepthScale,
	}
}

// SetAspect updates the camera aspect after a viewport resize.
// Non-positive values are ignored.
func (m *Mapper) SetAspect(aspect float64) {
	if aspect > 0 {
		m.aspect = aspect
	}
}

// Aspect returns the current camera aspect.
func (m *Mapper) Aspect() float64 {
	return m.aspect
}

// Visible returns the visible width and height of the origin plane.
func (m *Mapper) Visible() (width, height float64) {
	height = 2 * math.Tan(m.fov*math.Pi/360) * m.distance
	return height * m.aspect, height
}

// Map converts a normalized position to render space.
func (m *Mapper) Map(x, y, z float64) core.Vec3 {
	w, h := m.Visible()
	return core.Vec3{
		(x - 0.5) * w,
		-(y - 0.5) * h,
		-z * m.depthScale,
	}
}

// unmap is the inverse of Map on the origin plane for a visible area of
// w by h.
func unmap(p core.Vec3, w, h float64) (x, y float64) {
	if w <= 0 || h <= 0 {
		return 0.5, 0.5
	}
	return p[0]/w + 0.5, -p[1]/h + 0.5
}
