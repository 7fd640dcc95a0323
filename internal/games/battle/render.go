package battle

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/battlesim/internal/combat"
	"github.com/vovakirdan/battlesim/internal/core"
)

// Visual characters for rendering.
const (
	FallenChar = 'x'
	LinkChar   = '·'
	BarFull    = '█'
	BarEmpty   = '░'
)

const (
	minLogRows = 3
	maxLogRows = 8
	barWidth   = 20
)

// frame maps world coordinates onto the arena area of the screen.
// It is fixed at Reset so the view does not rescale while agents move.
type frame struct {
	center core.Vec2
	extent core.Vec2 // half-width and half-height in world units
}

func newFrame(agents []combat.AgentView, reach float64) frame {
	if len(agents) == 0 {
		return frame{extent: core.V(1, 1)}
	}

	lo, hi := agents[0].Pos, agents[0].Pos
	for _, a := range agents[1:] {
		lo = core.V(min(lo.X, a.Pos.X), min(lo.Y, a.Pos.Y))
		hi = core.V(max(hi.X, a.Pos.X), max(hi.Y, a.Pos.Y))
	}

	pad := max(reach/4, 1)
	return frame{
		center: lo.Add(hi).Scale(0.5),
		extent: hi.Sub(lo).Scale(0.5).Add(core.V(pad, pad)),
	}
}

// project converts a world position into a cell inside area.
// Terminal cells are about twice as tall as wide, so one scale is used for
// both axes with the vertical axis halved. Positions outside are clamped.
func (f frame) project(p core.Vec2, area core.Rect) (int, int) {
	halfW := float64(area.W-1) / 2
	halfH := float64(area.H-1) / 2

	scale := math.Inf(1)
	if f.extent.X > 0 {
		scale = halfW / f.extent.X
	}
	if f.extent.Y > 0 {
		scale = min(scale, 2*halfH/f.extent.Y)
	}
	if math.IsInf(scale, 0) {
		scale = 1
	}

	d := p.Sub(f.center)
	x := area.X + int(math.Round(halfW+d.X*scale))
	y := area.Y + int(math.Round(halfH+d.Y*scale/2))
	return core.Clamp(x, area.X, area.Right()-1), core.Clamp(y, area.Y, area.Bottom()-1)
}

// Render draws the battle: header, agent status, arena and event log.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	bounds := dst.Bounds()
	dst.DrawBox(bounds, core.ColorGray)
	drawCenteredColored(dst, 0, fmt.Sprintf(" %s: %s ", Header, g.Title()), core.ColorBrightWhite)

	inner := bounds.Inset(1)
	if inner.W < 1 || inner.H < 1 {
		return
	}

	if g.err != nil {
		drawCenteredColored(dst, bounds.H/2, truncate(g.err.Error(), inner.W), core.ColorRed)
		return
	}
	if g.battle == nil {
		return
	}

	views := g.rosterViews()

	// Status rows
	y := inner.Y
	for i, v := range views {
		if y >= inner.Bottom() {
			break
		}
		g.drawStatus(dst, inner.X, y, inner.W, i, v)
		y++
	}
	topSep := y
	dst.DrawHLine(inner.X, topSep, inner.W, '─', core.ColorGray)

	// Log pane
	logRows := core.Clamp(inner.H/3, minLogRows, maxLogRows)
	bottomSep := inner.Bottom() - logRows - 1
	if bottomSep > topSep+1 {
		dst.DrawHLine(inner.X, bottomSep, inner.W, '─', core.ColorGray)
		g.drawLog(dst, core.NewRect(inner.X, bottomSep+1, inner.W, logRows))
	} else {
		bottomSep = inner.Bottom()
	}

	// Arena
	arena := core.NewRect(inner.X, topSep+1, inner.W, bottomSep-topSep-1)
	if arena.W > 0 && arena.H > 0 {
		g.drawArena(dst, arena, views)
	}

	drawCenteredColored(dst, bounds.Bottom()-1, g.footer(), core.ColorGray)

	if g.battle.Concluded() {
		drawMessage(dst, strings.ToUpper(g.battle.Result().String()), "Press R to restart, Q to quit")
	}
}

// rosterViews returns every agent in scenario order, fallen ones included.
func (g *Game) rosterViews() []combat.AgentView {
	byName := make(map[string]combat.AgentView, len(g.scenario.Agents))
	for _, v := range g.battle.Agents() {
		byName[v.Name] = v
	}
	for _, v := range g.battle.Fallen() {
		byName[v.Name] = v
	}

	views := make([]combat.AgentView, 0, len(byName))
	for _, ac := range g.scenario.Agents {
		if v, ok := byName[ac.Name]; ok {
			views = append(views, v)
		}
	}
	return views
}

func (g *Game) drawStatus(dst *core.Screen, x, y, width, idx int, v combat.AgentView) {
	name := fmt.Sprintf("%-10s", truncate(v.Name, 10))
	dst.DrawTextColored(x, y, name, core.AgentColor(idx))
	x += len([]rune(name)) + 1

	ratio := 0.0
	if v.MaxHP > 0 {
		ratio = core.ClampF(float64(v.HP)/float64(v.MaxHP), 0, 1)
	}
	bw := core.Clamp(width/4, 5, barWidth)
	filled := int(math.Round(ratio * float64(bw)))
	dst.DrawHLine(x, y, filled, BarFull, core.HealthColor(ratio))
	dst.DrawHLine(x+filled, y, bw-filled, BarEmpty, core.ColorGray)
	x += bw + 1

	info := fmt.Sprintf("%3d/%-3d AC %-2d", v.HP, v.MaxHP, v.AC)
	if v.Alive {
		info += "  next: " + combat.OrdinalFor(v.AttackIndex).String()
	} else {
		info += "  down"
	}
	dst.DrawText(x, y, info)
}

func (g *Game) drawArena(dst *core.Screen, area core.Rect, views []combat.AgentView) {
	var alive []combat.AgentView
	for _, v := range views {
		if v.Alive {
			alive = append(alive, v)
		}
	}

	// Link the combatants; the link turns yellow once they are within reach.
	if len(alive) == 2 {
		linkColor := core.ColorGray
		if alive[0].Pos.Dist(alive[1].Pos) < g.battle.Params().Reach {
			linkColor = core.ColorYellow
		}
		x0, y0 := g.frame.project(alive[0].Pos, area)
		x1, y1 := g.frame.project(alive[1].Pos, area)
		steps := max(abs(x1-x0), abs(y1-y0))
		for s := 1; s < steps; s++ {
			t := float64(s) / float64(steps)
			x := x0 + int(math.Round(t*float64(x1-x0)))
			y := y0 + int(math.Round(t*float64(y1-y0)))
			dst.SetColored(x, y, LinkChar, linkColor)
		}
	}

	for i, v := range views {
		x, y := g.frame.project(v.Pos, area)
		if !v.Alive {
			dst.SetColored(x, y, FallenChar, core.ColorGray)
			continue
		}

		color := core.AgentColor(i)
		if g.struck[v.Name] {
			color = core.ColorBrightRed
		}
		glyph := []rune(strings.ToUpper(v.Name))[0]
		dst.SetColored(x, y, glyph, color)

		// Label above the glyph when there is room.
		if y > area.Y {
			label := truncate(v.Name, area.W)
			lx := core.Clamp(x-len([]rune(label))/2, area.X, max(area.X, area.Right()-len([]rune(label))))
			dst.DrawTextColored(lx, y-1, label, color)
		}
	}
}

func (g *Game) drawLog(dst *core.Screen, pane core.Rect) {
	for i, e := range g.log.Last(pane.H) {
		dst.DrawTextColored(pane.X, pane.Y+i, truncate(e.String(), pane.W), eventColor(e))
	}
}

func (g *Game) footer() string {
	parts := []string{fmt.Sprintf("round %d", g.battle.Tick())}
	if g.paused {
		parts = append(parts, "PAUSED", "space: step", "p: resume")
	} else {
		parts = append(parts, "p: pause")
	}
	parts = append(parts, "q: quit")
	return " " + strings.Join(parts, " | ") + " "
}

func eventColor(e combat.Event) core.Color {
	switch e.(type) {
	case combat.HitEvent:
		return core.ColorYellow
	case combat.MissEvent:
		return core.ColorGray
	case combat.DeathEvent:
		return core.ColorBrightRed
	case combat.ConcludedEvent:
		return core.ColorBrightWhite
	default:
		return core.ColorDefault
	}
}

// drawMessage draws a message box in the center of the screen.
func drawMessage(dst *core.Screen, title, subtitle string) {
	boxW := min(max(len([]rune(title)), len([]rune(subtitle)))+4, dst.Width())
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ')
	dst.DrawBox(box, core.ColorBrightWhite)
	drawCenteredColored(dst, box.Y+1, truncate(title, boxW-2), core.ColorBrightWhite)
	drawCenteredColored(dst, box.Y+3, truncate(subtitle, boxW-2), core.ColorDefault)
}

func drawCenteredColored(dst *core.Screen, y int, text string, c core.Color) {
	x := (dst.Width() - len([]rune(text))) / 2
	dst.DrawTextColored(max(x, 0), y, text, c)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
