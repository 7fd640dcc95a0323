// Package battle adapts the combat engine to the platform Game interface so
// that a scenario can be watched tick by tick in a terminal.
package battle

import (
	"fmt"

	"github.com/vovakirdan/battlesim/internal/combat"
	"github.com/vovakirdan/battlesim/internal/config"
	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/dice"
	"github.com/vovakirdan/battlesim/internal/registry"
)

// Header is shown at the top of every battle view.
const Header = "Pathfinder 2e Battle Sim"

// logLimit bounds the events kept for the log pane.
const logLimit = 64

// Game runs one scenario as a viewable battle.
type Game struct {
	scenario config.Scenario
	runtime  core.RuntimeConfig
	extra    combat.EventSink

	battle *combat.Battle
	log    *combat.Recorder
	frame  frame
	struck map[string]bool // agents hit during the last step
	paused bool
	err    error
}

// New creates a battle view for the scenario.
// Events are also forwarded to sink when it is not nil.
func New(s config.Scenario, sink combat.EventSink) *Game {
	return &Game{
		scenario: s,
		extra:    sink,
		log:      combat.NewRecorder(logLimit),
	}
}

// ID returns the scenario identifier.
func (g *Game) ID() string {
	return g.scenario.ID
}

// Title returns the scenario display name.
func (g *Game) Title() string {
	return g.scenario.Title()
}

// Reset starts a fresh battle seeded from the runtime config.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	g.paused = false
	g.struck = nil
	g.log.Reset()

	sink := combat.MultiSink{paneSink{g.log}, g.extra}
	g.battle, g.err = g.scenario.NewBattle(dice.NewSource(runtime.Seed), sink)
	if g.err != nil {
		return
	}
	g.frame = newFrame(g.battle.Agents(), g.battle.Params().Reach)
}

// Step advances the battle by one round unless the view is paused.
// While paused, ActionStep advances exactly one round.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.battle == nil || g.battle.Concluded() {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
		if g.paused {
			return core.StepResult{State: g.State()}
		}
	}

	if g.paused && !in.Has(core.ActionStep) {
		return core.StepResult{State: g.State()}
	}

	res := g.battle.Step()
	g.struck = struckAgents(res.Events)

	return core.StepResult{State: g.State()}
}

// State returns the current battle state.
func (g *Game) State() core.GameState {
	if g.battle == nil {
		return core.GameState{GameOver: true}
	}

	st := core.GameState{
		Tick:     g.battle.Tick(),
		GameOver: g.battle.Concluded(),
		Paused:   g.paused,
	}
	if st.GameOver {
		res := g.battle.Result()
		st.Winner = res.Winner
		st.Reason = res.Reason.String()
	}
	return st
}

// Result returns the battle outcome. Reason is EndNone while it runs.
func (g *Game) Result() combat.Result {
	if g.battle == nil {
		return combat.Result{}
	}
	return g.battle.Result()
}

// Scenario returns the scenario being played.
func (g *Game) Scenario() config.Scenario {
	return g.scenario
}

// Err returns the error from the last Reset, if any.
func (g *Game) Err() error {
	return g.err
}

// paneSink records the events worth showing in the log pane.
type paneSink struct {
	rec *combat.Recorder
}

func (p paneSink) Emit(e combat.Event) {
	switch e.(type) {
	case combat.MoveEvent, combat.RoundEndEvent:
		return
	}
	p.rec.Emit(e)
}

func struckAgents(events []combat.Event) map[string]bool {
	var out map[string]bool
	for _, e := range events {
		if hit, ok := e.(combat.HitEvent); ok {
			if out == nil {
				out = make(map[string]bool)
			}
			out[hit.Defender] = true
		}
	}
	return out
}

var _ registry.Game = (*Game)(nil)

// Register the built-in scenarios. Factories load through the config search
// path so user overrides in ~/.battlesim/scenarios take effect.
func init() {
	for _, id := range config.BuiltinIDs() {
		s, err := config.Parse(config.GetDefaultYAML(id))
		if err != nil {
			panic(fmt.Sprintf("battle: built-in scenario %q: %v", id, err))
		}
		registry.Register(id, s.Title(), func() (registry.Game, error) {
			loaded, err := config.Load(id, "")
			if err != nil {
				return nil, err
			}
			return New(loaded, nil), nil
		})
	}
}

// Open resolves a scenario the way every command does: registered
// built-ins first, then scenario files found by config.Load. A customPath
// always wins.
func Open(id, customPath string) (registry.Game, error) {
	if customPath == "" && registry.Exists(id) {
		return registry.Create(id)
	}

	s, err := config.Load(id, customPath)
	if err != nil {
		return nil, err
	}
	return New(s, nil), nil
}
