package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/fruit-mukbang/internal/core"
	"github.com/vovakirdan/fruit-mukbang/internal/engine"
	"github.com/vovakirdan/fruit-mukbang/internal/scene"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:      lipgloss.NewStyle(),
	core.ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorBrown:        lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
	core.ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorMagenta:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	core.ColorDarkGray:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// Glyph ramps indexed by bite count. The last entry is used once the ramp
// runs out.
var fruitGlyphs = map[scene.Kind][]rune{
	scene.KindApple:  {'@', '@', 'O', 'O', 'o', 'o', '.'},
	scene.KindBanana: {'#', '#', '=', '=', '~', '-', '.'},
}

// Indicator glyphs.
const (
	glyphHand      = '+'
	glyphPinch     = 'X'
	glyphMouthOpen = 'O'
	glyphMouthShut = '='
	glyphStem      = '|'
	glyphLeaf      = '%'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			startColor := cell.Color

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// projector places render-space points on a character grid covering the
// camera's visible plane.
type projector struct {
	cols, rows int
	snap       engine.Snapshot
}

func newProjector(s *core.Screen, snap engine.Snapshot) projector {
	return projector{cols: s.Width(), rows: s.Height(), snap: snap}
}

// cell returns the column and row of p.
func (p projector) cell(v core.Vec3) (col, row int) {
	nx, ny := p.snap.Unmap(v)
	return int(math.Floor(nx * float64(p.cols))), int(math.Floor(ny * float64(p.rows)))
}

// span converts render-space half extents to character half extents.
func (p projector) span(hx, hy float64) (rx, ry float64) {
	if p.snap.VisibleW <= 0 || p.snap.VisibleH <= 0 {
		return 0, 0
	}
	return hx / p.snap.VisibleW * float64(p.cols), hy / p.snap.VisibleH * float64(p.rows)
}

// DrawSnapshot paints one frame: particles first, then fruit, then the hand
// and mouth indicators on top.
func DrawSnapshot(s *core.Screen, snap engine.Snapshot) {
	s.Clear()
	p := newProjector(s, snap)

	for _, pt := range snap.Particles {
		col, row := p.cell(pt.Position)
		r, c := particleGlyph(pt)
		s.SetColored(col, row, r, c)
	}
	for _, e := range snap.Entities {
		drawEntity(s, p, e)
	}
	if m := snap.Mouth; m != nil {
		col, row := p.cell(m.World)
		if m.Open {
			s.SetColored(col, row, glyphMouthOpen, core.ColorMagenta)
		} else {
			s.SetColored(col, row, glyphMouthShut, core.ColorMagenta)
		}
	}
	if h := snap.Hand; h != nil {
		col, row := p.cell(h.World)
		if h.Pinching {
			s.SetColored(col, row, glyphPinch, core.ColorBrightGreen)
		} else {
			s.SetColored(col, row, glyphHand, core.ColorCyan)
		}
	}
}

// FruitGlyph returns the body glyph of a fruit after bites.
func FruitGlyph(kind scene.Kind, bites int) rune {
	ramp, ok := fruitGlyphs[kind]
	if !ok {
		return '?'
	}
	if bites < 0 {
		bites = 0
	}
	if bites >= len(ramp) {
		bites = len(ramp) - 1
	}
	return ramp[bites]
}

// fruitExtents returns the body half extents in render units before scale.
func fruitExtents(kind scene.Kind) (hx, hy float64) {
	if kind == scene.KindBanana {
		return scene.BananaLength/2 + scene.BananaRadius, scene.BananaRadius
	}
	return scene.AppleRadius, scene.AppleRadius
}

// shrink is the fraction of the body still drawn after bites.
func shrink(bites, maxBites int) float64 {
	if maxBites <= 0 {
		return 1
	}
	return 1 - 0.5*float64(bites)/float64(maxBites)
}

func drawEntity(s *core.Screen, p projector, e engine.EntityView) {
	if e.Scale <= 0 {
		return
	}
	color := e.Kind.Color()
	if len(e.Parts) > 0 {
		color = e.Parts[0].Color
	}

	hx, hy := fruitExtents(e.Kind)
	k := e.Scale * shrink(e.BiteCount, e.MaxBites)
	rx, ry := p.span(hx*k, hy*k)
	cx, cy := p.cell(e.Position)
	glyph := FruitGlyph(e.Kind, e.BiteCount)

	if rx < 0.5 || ry < 0.5 {
		s.SetColored(cx, cy, glyph, color)
	} else {
		for dy := -int(math.Ceil(ry)); dy <= int(math.Ceil(ry)); dy++ {
			for dx := -int(math.Ceil(rx)); dx <= int(math.Ceil(rx)); dx++ {
				fx, fy := float64(dx)/rx, float64(dy)/ry
				if fx*fx+fy*fy <= 1 {
					s.SetColored(cx+dx, cy+dy, glyph, color)
				}
			}
		}
	}

	for _, part := range e.Parts[min(1, len(e.Parts)):] {
		col, row := p.cell(e.Position.Add(part.Offset.Mul(e.Scale)))
		switch part.Name {
		case "stem":
			s.SetColored(col, row, glyphStem, part.Color)
		case "leaf":
			s.SetColored(col+1, row, glyphLeaf, part.Color)
		}
	}

	if e.Grabbed {
		s.SetColored(cx-int(math.Ceil(rx))-1, cy, '[', core.ColorWhite)
		s.SetColored(cx+int(math.Ceil(rx))+1, cy, ']', core.ColorWhite)
	}
}

// particleGlyph fades a particle through lighter glyphs as it dies.
func particleGlyph(pt engine.ParticleView) (rune, core.Color) {
	c := pt.Color
	if pt.Opacity < 0.5 {
		c = c.Dim()
	}
	switch {
	case pt.Opacity > 0.66:
		if pt.Kind == engine.ParticleBite {
			return 'o', c
		}
		return '*', c
	case pt.Opacity > 0.33:
		return '+', c
	default:
		return '.', c
	}
}
