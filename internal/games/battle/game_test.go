package battle

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/battlesim/internal/combat"
	"github.com/vovakirdan/battlesim/internal/config"
	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/registry"
)

func builtin(t *testing.T, id string) config.Scenario {
	t.Helper()
	s, err := config.Parse(config.GetDefaultYAML(id))
	if err != nil {
		t.Fatalf("Parse(%s) error: %v", id, err)
	}
	return s
}

func newGame(t *testing.T, id string, seed int64) *Game {
	t.Helper()
	g := New(builtin(t, id), nil)
	cfg := core.DefaultConfig()
	cfg.Seed = seed
	g.Reset(cfg)
	if g.Err() != nil {
		t.Fatalf("Reset() error: %v", g.Err())
	}
	return g
}

func runToEnd(g *Game, limit int) core.GameState {
	frame := core.NewInputFrame()
	for i := 0; i < limit && !g.State().GameOver; i++ {
		g.Step(frame)
	}
	return g.State()
}

func TestBuiltinsRegistered(t *testing.T) {
	for _, id := range []string{"duel", "skirmish", "standoff"} {
		if !registry.Exists(id) {
			t.Errorf("registry.Exists(%q) = false, expected true", id)
		}
	}

	g, err := registry.Create("duel")
	if err != nil {
		t.Fatalf("registry.Create(duel) error: %v", err)
	}
	if g.Title() != "Fighter vs Rogue" {
		t.Errorf("Title() = %q, expected %q", g.Title(), "Fighter vs Rogue")
	}
}

func TestGameRunsToVictory(t *testing.T) {
	g := newGame(t, "duel", 7)

	st := runToEnd(g, 10000)
	if !st.GameOver {
		t.Fatal("duel did not conclude")
	}
	if st.Reason != "victory" {
		t.Errorf("Reason = %q, expected victory", st.Reason)
	}
	if st.Winner != "Fighter" && st.Winner != "Rogue" {
		t.Errorf("Winner = %q", st.Winner)
	}
	if st.Tick != g.Result().Ticks {
		t.Errorf("Tick = %d, Result().Ticks = %d", st.Tick, g.Result().Ticks)
	}
}

func TestGameStandoffHitsRoundLimit(t *testing.T) {
	g := newGame(t, "standoff", 1)

	st := runToEnd(g, 1000)
	if st.Reason != "round_limit" || st.Winner != "" {
		t.Errorf("State() = %+v, expected round_limit without winner", st)
	}
	if st.Tick != 200 {
		t.Errorf("Tick = %d, expected 200", st.Tick)
	}
}

func TestGamePauseAndSingleStep(t *testing.T) {
	g := newGame(t, "duel", 1)
	empty := core.NewInputFrame()

	pause := core.NewInputFrame()
	pause.Set(core.ActionPause)
	step := core.NewInputFrame()
	step.Set(core.ActionStep)

	g.Step(pause)
	if st := g.State(); !st.Paused || st.Tick != 0 {
		t.Fatalf("after pause: %+v, expected paused at tick 0", st)
	}

	g.Step(empty)
	if g.State().Tick != 0 {
		t.Error("paused battle should not advance")
	}

	g.Step(step)
	if st := g.State(); st.Tick != 1 || !st.Paused {
		t.Errorf("after single step: %+v, expected paused at tick 1", st)
	}

	g.Step(pause)
	if st := g.State(); st.Paused || st.Tick != 2 {
		t.Errorf("after resume: %+v, expected running at tick 2", st)
	}
}

func TestGameDeterministic(t *testing.T) {
	a := newGame(t, "skirmish", 42)
	b := newGame(t, "skirmish", 42)

	sa, sb := runToEnd(a, 1000), runToEnd(b, 1000)
	if sa != sb {
		t.Errorf("same seed gave %+v and %+v", sa, sb)
	}

	screenA, screenB := core.NewScreen(80, 24), core.NewScreen(80, 24)
	a.Render(screenA)
	b.Render(screenB)
	if screenA.String() != screenB.String() {
		t.Error("same seed rendered differently")
	}
}

func TestGameResetStartsOver(t *testing.T) {
	g := newGame(t, "duel", 3)
	runToEnd(g, 10000)

	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 10, Seed: 4})
	if st := g.State(); st.GameOver || st.Tick != 0 {
		t.Errorf("after Reset: %+v, expected fresh battle", st)
	}
	if len(g.log.Events()) != 0 {
		t.Error("Reset should clear the log pane")
	}
}

func TestGameForwardsToExtraSink(t *testing.T) {
	rec := combat.NewRecorder(0)
	g := New(builtin(t, "duel"), rec)
	g.Reset(core.RuntimeConfig{Seed: 5})
	g.Step(core.NewInputFrame())

	var moves int
	for _, e := range rec.Events() {
		if _, ok := e.(combat.MoveEvent); ok {
			moves++
		}
	}
	if moves != 6 {
		t.Errorf("extra sink saw %d moves in the first round, expected 6", moves)
	}
}

func TestPaneSinkSkipsMovement(t *testing.T) {
	rec := combat.NewRecorder(0)
	p := paneSink{rec}

	p.Emit(combat.MoveEvent{Agent: "Rogue"})
	p.Emit(combat.RoundEndEvent{Tick: 1})
	p.Emit(combat.DeathEvent{Agent: "Rogue"})

	if got := len(rec.Events()); got != 1 {
		t.Errorf("pane kept %d events, expected 1", got)
	}
}

func TestRenderShowsBattle(t *testing.T) {
	g := newGame(t, "duel", 1)
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	for _, want := range []string{Header, "Fighter vs Rogue", "Fighter", "Rogue", "AC 10", "AC 14", "round 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q", want)
		}
	}
}

func TestRenderConcluded(t *testing.T) {
	g := newGame(t, "duel", 9)
	runToEnd(g, 10000)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	out := screen.String()
	if !strings.Contains(out, "WINS AFTER") {
		t.Error("Render() should announce the winner")
	}
	if !strings.Contains(out, "down") {
		t.Error("Render() should mark the fallen agent")
	}
	if !strings.Contains(out, "falls") {
		t.Error("log pane should show the death")
	}
}

func TestRenderTinyScreen(t *testing.T) {
	g := newGame(t, "duel", 1)
	for _, size := range [][2]int{{0, 0}, {1, 1}, {10, 3}, {20, 6}} {
		g.Render(core.NewScreen(size[0], size[1]))
	}
}

func TestFrameProject(t *testing.T) {
	g := newGame(t, "duel", 1)
	area := core.NewRect(1, 3, 60, 11)

	agents := g.battle.Agents()
	fx, fy := g.frame.project(agents[0].Pos, area)
	rx, ry := g.frame.project(agents[1].Pos, area)

	if fx >= rx {
		t.Errorf("Fighter at x=%d should be left of Rogue at x=%d", fx, rx)
	}
	if fy != ry {
		t.Errorf("agents on y=0 projected to rows %d and %d", fy, ry)
	}
	for _, p := range [][2]int{{fx, fy}, {rx, ry}} {
		if !area.Contains(p[0], p[1]) {
			t.Errorf("projected point %v outside arena %+v", p, area)
		}
	}
}

func TestFrameProjectClampsOutside(t *testing.T) {
	f := frame{extent: core.V(10, 10)}
	area := core.NewRect(0, 0, 20, 10)

	x, y := f.project(core.V(1e6, -1e6), area)
	if x != area.Right()-1 || y != area.Y {
		t.Errorf("project() = (%d, %d), expected clamped to (%d, %d)", x, y, area.Right()-1, area.Y)
	}
}

func TestOpenResolvesScenarioFiles(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, ".battlesim", "scenarios")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := strings.NewReplacer("id: duel", "id: myduel", "name: Fighter vs Rogue", "name: My Duel").
		Replace(string(config.GetDefaultYAML("duel")))
	if err := os.WriteFile(filepath.Join(dir, "myduel.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		id       string
		expected string
	}{
		{"duel", "Fighter vs Rogue"},
		{"myduel", "My Duel"},
	}
	for _, tc := range tests {
		game, err := Open(tc.id, "")
		if err != nil {
			t.Errorf("Open(%q) error: %v", tc.id, err)
			continue
		}
		if game.ID() != tc.id {
			t.Errorf("Open(%q).ID() = %q", tc.id, game.ID())
		}
		if game.Title() != tc.expected {
			t.Errorf("Open(%q).Title() = %q, expected %q", tc.id, game.Title(), tc.expected)
		}
	}

	if _, err := Open("nothing-here", ""); !errors.Is(err, config.ErrUnknownScenario) {
		t.Errorf("Open(nothing-here) error = %v, expected ErrUnknownScenario", err)
	}
}
