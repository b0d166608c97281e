// Package assets loads optional pre-built fruit models from 3MF files and
// falls back to procedural geometry when a model is missing or unreadable.
package assets

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hpinc/go3mf"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/kernel"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// ErrNoMesh is returned when a 3MF file contains no mesh object.
var ErrNoMesh = errors.New("assets: model has no mesh objects")

// Provider resolves the geometry model for a fruit kind. Each call returns
// freshly allocated buffers owned by the caller.
type Provider interface {
	Model(kind scene.Kind) (scene.Model, error)
}

// loadedPart is a decoded mesh normalised to the kind's nominal size.
type loadedPart struct {
	name     string
	mesh     *kernel.Mesh
	offset   core.Vec3
	material scene.Material
	solid    kernel.Solid // carvable solid of the body part, nil for the rest
}

// Library serves models from <dir>/<kind>.3mf, loading each file once.
type Library struct {
	dir     string
	builder *scene.Builder
	logger  *log.Logger

	mu     sync.Mutex
	loaded map[scene.Kind][]loadedPart
	tried  map[scene.Kind]bool
}

// Compile-time interface check.
var _ Provider = (*Library)(nil)

// NewLibrary creates a library. An empty dir disables file loading.
func NewLibrary(dir string, builder *scene.Builder, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Library{
		dir:     dir,
		builder: builder,
		logger:  logger,
		loaded:  make(map[scene.Kind][]loadedPart),
		tried:   make(map[scene.Kind]bool),
	}
}

// Path returns the file a kind is loaded from.
func (l *Library) Path(kind scene.Kind) string {
	return filepath.Join(l.dir, kind.String()+".3mf")
}

// Model returns the pre-built model for kind, or the procedural fallback.
func (l *Library) Model(kind scene.Kind) (scene.Model, error) {
	parts := l.parts(kind)
	if len(parts) == 0 {
		return l.builder.Build(kind)
	}

	body := parts[0].solid
	if body == nil {
		var err error
		if body, err = l.builder.BodySolid(kind); err != nil {
			return nil, fmt.Errorf("assets: %s body: %w", kind, err)
		}
	}

	members := make([]*scene.Part, 0, len(parts))
	for i, p := range parts {
		var solid kernel.Solid
		if i == 0 {
			solid = body
		}
		members = append(members, &scene.Part{
			Name:     p.name,
			Geometry: l.builder.Tracker().Alloc(solid, p.mesh.Clone()),
			Offset:   p.offset,
			Material: p.material,
		})
	}
	if len(members) == 1 {
		return &scene.SimpleMesh{Body: members[0]}, nil
	}
	return &scene.CompositeGroup{Members: members, Body: 0}, nil
}

// Loaded reports whether a pre-built model is available for kind.
func (l *Library) Loaded(kind scene.Kind) bool {
	return len(l.parts(kind)) > 0
}

func (l *Library) parts(kind scene.Kind) []loadedPart {
	if l.dir == "" {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.tried[kind] {
		l.tried[kind] = true
		path := l.Path(kind)
		parts, err := load(path, kind)
		if err != nil {
			l.logger.Warn("model unavailable, using procedural fallback", "kind", kind, "path", path, "err", err)
		} else {
			l.logger.Info("model loaded", "kind", kind, "path", path, "parts", len(parts))
			if parts[0].solid, err = l.builder.Kernel().FromMesh(parts[0].mesh); err != nil {
				l.logger.Warn("model is not a closed solid, carving the procedural body", "kind", kind, "path", path, "err", err)
			}
			l.loaded[kind] = parts
		}
	}
	return l.loaded[kind]
}

// load decodes a 3MF file into parts normalised to the nominal size of kind.
// Objects without a material get the kind's default material.
func load(path string, kind scene.Kind) ([]loadedPart, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}

	r, err := go3mf.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("assets: failed to open %s: %w", path, err)
	}
	defer r.Close()

	var model go3mf.Model
	if err := r.Decode(&model); err != nil {
		return nil, fmt.Errorf("assets: failed to decode %s: %w", path, err)
	}

	var parts []loadedPart
	for _, obj := range model.Resources.Objects {
		if obj.Mesh == nil || len(obj.Mesh.Triangles.Triangle) == 0 {
			continue
		}
		mesh := convertMesh(obj.Mesh)
		if mesh.IsEmpty() {
			continue
		}
		name := obj.Name
		if name == "" {
			name = fmt.Sprintf("object-%d", obj.ID)
		}
		parts = append(parts, loadedPart{
			name:     name,
			mesh:     mesh,
			material: objectMaterial(&model, obj, kind),
		})
	}
	if len(parts) == 0 {
		return nil, ErrNoMesh
	}

	normalise(parts, nominalExtent(kind))
	return parts, nil
}

// convertMesh flattens a 3MF mesh into per-triangle vertices with face normals.
func convertMesh(m *go3mf.Mesh) *kernel.Mesh {
	verts := m.Vertices.Vertex
	out := &kernel.Mesh{}
	n := uint32(0)
	for _, tri := range m.Triangles.Triangle {
		if int(tri.V1) >= len(verts) || int(tri.V2) >= len(verts) || int(tri.V3) >= len(verts) {
			continue
		}
		a, b, c := verts[tri.V1], verts[tri.V2], verts[tri.V3]
		normal := faceNormal(a, b, c)
		for _, p := range [3]go3mf.Point3D{a, b, c} {
			out.Vertices = append(out.Vertices, p[0], p[1], p[2])
			out.Normals = append(out.Normals, normal[0], normal[1], normal[2])
			out.Indices = append(out.Indices, n)
			n++
		}
	}
	return out
}

func faceNormal(a, b, c go3mf.Point3D) [3]float32 {
	u := core.Vec3{float64(b[0] - a[0]), float64(b[1] - a[1]), float64(b[2] - a[2])}
	v := core.Vec3{float64(c[0] - a[0]), float64(c[1] - a[1]), float64(c[2] - a[2])}
	cross := u.Cross(v)
	if cross.Len() == 0 {
		return [3]float32{0, 0, 1}
	}
	cross = cross.Normalize()
	return [3]float32{float32(cross[0]), float32(cross[1]), float32(cross[2])}
}

// objectMaterial resolves the base material referenced by an object.
func objectMaterial(model *go3mf.Model, obj *go3mf.Object, kind scene.Kind) scene.Material {
	if obj.PID == 0 {
		return scene.DefaultMaterial(kind)
	}
	for _, asset := range model.Resources.Assets {
		bm, ok := asset.(*go3mf.BaseMaterials)
		if !ok || bm.ID != obj.PID {
			continue
		}
		if int(obj.PIndex) < len(bm.Materials) {
			base := bm.Materials[obj.PIndex]
			return scene.Material{Name: base.Name, Color: nearestColor(base.Color)}
		}
	}
	return scene.DefaultMaterial(kind)
}

// nominalExtent is the longest edge the procedural body of kind spans.
func nominalExtent(kind scene.Kind) float64 {
	if kind == scene.KindBanana {
		return scene.BananaLength
	}
	return 2 * scene.AppleRadius
}

// normalise centers the first part on the origin and scales every part so
// the first part's longest extent equals extent. Other parts keep their
// placement relative to the first through their offsets.
func normalise(parts []loadedPart, extent float64) {
	min, max := parts[0].mesh.Bounds()
	size := max.Sub(min)
	longest := math.Max(size[0], math.Max(size[1], size[2]))
	if longest == 0 {
		return
	}
	scale := extent / longest
	center := min.Add(max).Mul(0.5)

	for i := range parts {
		pmin, pmax := parts[i].mesh.Bounds()
		pcenter := pmin.Add(pmax).Mul(0.5)
		v := parts[i].mesh.Vertices
		for j := 0; j+2 < len(v); j += 3 {
			v[j] = float32((float64(v[j]) - pcenter[0]) * scale)
			v[j+1] = float32((float64(v[j+1]) - pcenter[1]) * scale)
			v[j+2] = float32((float64(v[j+2]) - pcenter[2]) * scale)
		}
		parts[i].offset = pcenter.Sub(center).Mul(scale)
	}
}

// nearestColor maps an RGBA material color to the closest palette color.
func nearestColor(c color.RGBA) core.Color {
	palette := []struct {
		r, g, b float64
		color   core.Color
	}{
		{220, 40, 40, core.ColorBrightRed},
		{140, 20, 20, core.ColorRed},
		{40, 200, 40, core.ColorBrightGreen},
		{20, 120, 20, core.ColorGreen},
		{240, 220, 60, core.ColorBrightYellow},
		{240, 150, 30, core.ColorOrange},
		{120, 70, 20, core.ColorBrown},
		{240, 240, 240, core.ColorWhite},
		{128, 128, 128, core.ColorGray},
	}
	best := core.ColorDefault
	bestDist := math.Inf(1)
	for _, p := range palette {
		dr := float64(c.R) - p.r
		dg := float64(c.G) - p.g
		db := float64(c.B) - p.b
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			bestDist = d
			best = p.color
		}
	}
	return best
}
