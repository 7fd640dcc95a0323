package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for battle elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// agentPalette colors agents by roster position.
var agentPalette = []Color{ColorBrightCyan, ColorOrange, ColorBrightMagenta, ColorBrightGreen}

// AgentColor returns the display color for the agent at roster index i.
func AgentColor(i int) Color {
	if i < 0 {
		return ColorDefault
	}
	return agentPalette[i%len(agentPalette)]
}

// HealthColor picks a color for a hit point bar at the given fill ratio.
func HealthColor(ratio float64) Color {
	switch {
	case ratio > 0.6:
		return ColorGreen
	case ratio > 0.3:
		return ColorYellow
	default:
		return ColorRed
	}
}
