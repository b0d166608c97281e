// Package scene holds the fruit geometry model: fruit kinds, owned geometry
// buffers with release tracking, the SimpleMesh/CompositeGroup model
// representation and the procedural fallback builders.
package scene

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
)

// Kind identifies a fruit type.
type Kind int

const (
	KindApple Kind = iota
	KindBanana
)

// Kinds returns every fruit kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindApple, KindBanana}
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindApple:
		return "apple"
	case KindBanana:
		return "banana"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind resolves a wire name ("apple", "banana") to a Kind.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "apple", "fruit":
		return KindApple, nil
	case "banana":
		return KindBanana, nil
	default:
		return 0, fmt.Errorf("scene: unknown fruit kind %q", s)
	}
}

// Color returns the display tint of the kind's body.
func (k Kind) Color() core.Color {
	switch k {
	case KindApple:
		return core.ColorBrightRed
	case KindBanana:
		return core.ColorBrightYellow
	default:
		return core.ColorWhite
	}
}

// Material is the surface description attached to a model part.
type Material struct {
	Name  string
	Color core.Color
}

// IsZero reports whether no material was assigned.
func (m Material) IsZero() bool {
	return m.Name == "" && m.Color == core.ColorDefault
}

// DefaultMaterial is substituted when a model part arrives without one.
func DefaultMaterial(k Kind) Material {
	return Material{Name: k.String() + "-default", Color: k.Color()}
}
