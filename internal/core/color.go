package core

// Color is a foreground color for a screen cell.
// Values map onto ANSI 256-color codes in the platform layer.
type Color uint8

// Palette used by fruit, particles and the HUD.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorOrange
	ColorBrown
	ColorCyan
	ColorMagenta
	ColorWhite
	ColorGray
	ColorDarkGray
)

// Dim returns a darker variant of c, used for fading particles.
func (c Color) Dim() Color {
	switch c {
	case ColorBrightRed:
		return ColorRed
	case ColorBrightGreen:
		return ColorGreen
	case ColorBrightYellow:
		return ColorYellow
	case ColorWhite:
		return ColorGray
	case ColorDefault:
		return ColorDefault
	default:
		return ColorDarkGray
	}
}

// Cell is one character position of a Screen.
type Cell struct {
	Rune  rune
	Color Color
}
