package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vovakirdan/battlesim/internal/core"
)

// ansiColors maps screen colors to terminal color codes.
var ansiColors = map[core.Color]string{
	core.ColorRed:           "1",
	core.ColorGreen:         "2",
	core.ColorYellow:        "3",
	core.ColorBlue:          "4",
	core.ColorMagenta:       "5",
	core.ColorCyan:          "6",
	core.ColorWhite:         "7",
	core.ColorBrightRed:     "9",
	core.ColorBrightGreen:   "10",
	core.ColorBrightYellow:  "11",
	core.ColorBrightBlue:    "12",
	core.ColorBrightMagenta: "13",
	core.ColorBrightCyan:    "14",
	core.ColorBrightWhite:   "15",
	core.ColorOrange:        "208",
	core.ColorGray:          "245",
}

// Palette turns screen cells into styled text for one terminal.
// SSH sessions get their own palette so colors follow the client's
// terminal profile instead of the server's.
type Palette struct {
	styles map[core.Color]lipgloss.Style
	plain  lipgloss.Style
	help   lipgloss.Style
}

// NewPalette builds styles with r, or the default renderer when r is nil.
func NewPalette(r *lipgloss.Renderer) *Palette {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	p := &Palette{
		styles: make(map[core.Color]lipgloss.Style, len(ansiColors)),
		plain:  r.NewStyle(),
		help:   r.NewStyle().Foreground(lipgloss.Color("241")),
	}
	for c, code := range ansiColors {
		p.styles[c] = r.NewStyle().Foreground(lipgloss.Color(code))
	}
	return p
}

func (p *Palette) style(c core.Color) lipgloss.Style {
	if st, ok := p.styles[c]; ok {
		return st
	}
	return p.plain
}

// Render draws the screen row by row. Each run of same-colored cells
// becomes a single styled segment.
func (p *Palette) Render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}

		run.Reset()
		color := s.GetCell(0, y).Color
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != color {
				sb.WriteString(p.style(color).Render(run.String()))
				run.Reset()
				color = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		if run.Len() > 0 {
			sb.WriteString(p.style(color).Render(run.String()))
		}
	}
	return sb.String()
}

// Help styles the key help line.
func (p *Palette) Help(text string) string {
	return p.help.Render(text)
}
