package combat

import (
	"fmt"
	"math"

	"github.com/vovakirdan/battlesim/internal/dice"
)

// Default simulation parameters.
const (
	DefaultReach          = 100.0
	DefaultStep           = 1.0
	DefaultActionsPerTurn = 3
)

// Params holds the simulation constants of a battle.
type Params struct {
	Reach          float64 // attacks happen when closer than this
	Step           float64 // distance covered by one move
	ActionsPerTurn int     // move-or-attack sub-actions in a turn-block
	MaxRounds      int     // 0 means no limit
}

// DefaultParams returns the classic cadence: reach 100, one unit per move,
// three actions per turn-block and no round limit.
func DefaultParams() Params {
	return Params{
		Reach:          DefaultReach,
		Step:           DefaultStep,
		ActionsPerTurn: DefaultActionsPerTurn,
	}
}

// Validate checks that the parameters describe a runnable simulation.
func (p Params) Validate() error {
	switch {
	case !(p.Reach > 0) || math.IsInf(p.Reach, 0):
		return fmt.Errorf("%w: reach must be positive, got %v", ErrInvalidConfig, p.Reach)
	case !(p.Step > 0) || math.IsInf(p.Step, 0):
		return fmt.Errorf("%w: step must be positive, got %v", ErrInvalidConfig, p.Step)
	case p.ActionsPerTurn < 1:
		return fmt.Errorf("%w: actions per turn must be at least 1, got %d", ErrInvalidConfig, p.ActionsPerTurn)
	case p.MaxRounds < 0:
		return fmt.Errorf("%w: max rounds must not be negative, got %d", ErrInvalidConfig, p.MaxRounds)
	}
	return nil
}

// EndReason tells why a battle concluded.
type EndReason int

const (
	EndNone       EndReason = iota // still running
	EndVictory                     // exactly one agent remains
	EndDraw                        // nobody remains
	EndRoundLimit                  // MaxRounds elapsed with both agents standing
)

// String returns the storage name of the reason.
func (r EndReason) String() string {
	switch r {
	case EndVictory:
		return "victory"
	case EndDraw:
		return "draw"
	case EndRoundLimit:
		return "round_limit"
	default:
		return "none"
	}
}

// ParseEndReason is the inverse of EndReason.String.
func ParseEndReason(s string) EndReason {
	switch s {
	case "victory":
		return EndVictory
	case "draw":
		return EndDraw
	case "round_limit":
		return EndRoundLimit
	default:
		return EndNone
	}
}

// Result summarizes a concluded battle.
type Result struct {
	Winner    string // empty unless Reason is EndVictory
	Reason    EndReason
	Ticks     int
	Survivors []AgentView
}

// String returns a one-line summary.
func (r Result) String() string {
	switch r.Reason {
	case EndVictory:
		return fmt.Sprintf("%s wins after %d rounds", r.Winner, r.Ticks)
	case EndDraw:
		return fmt.Sprintf("draw after %d rounds", r.Ticks)
	case EndRoundLimit:
		return fmt.Sprintf("no winner after %d rounds", r.Ticks)
	default:
		return "battle in progress"
	}
}

// StepResult reports what one call to Step did.
type StepResult struct {
	Tick      int
	Events    []Event
	Concluded bool
}

// Battle is a two-agent simulation advanced one round per Step.
//
// Agents live in an index-addressed roster owned by the battle; an attack
// mutates the attacker and defender through two distinct indexes, and only
// the death check removes entries.
type Battle struct {
	params Params
	src    dice.Source
	sink   EventSink

	roster []Agent
	fallen []AgentView

	tick      int
	concluded bool
	result    Result
	pending   []Event
}

// NewBattle validates the setup and places the agents in roster order.
// A nil sink discards events.
func NewBattle(params Params, src dice.Source, sink EventSink, agents ...Agent) (*Battle, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no random source", ErrInvalidConfig)
	}
	if len(agents) != 2 {
		return nil, fmt.Errorf("%w: a battle needs exactly two agents, got %d", ErrInvalidConfig, len(agents))
	}

	seen := make(map[string]bool, len(agents))
	for i := range agents {
		if err := agents[i].validate(); err != nil {
			return nil, err
		}
		if seen[agents[i].Name] {
			return nil, fmt.Errorf("%w: duplicate agent name %q", ErrInvalidConfig, agents[i].Name)
		}
		seen[agents[i].Name] = true
	}

	if sink == nil {
		sink = Discard
	}

	roster := make([]Agent, len(agents))
	copy(roster, agents)

	return &Battle{
		params: params,
		src:    src,
		sink:   sink,
		roster: roster,
	}, nil
}

// Step advances the battle by one tick, which is one full round.
//
// Each agent in roster order performs its turn-block, followed by the death
// check. When both turn-blocks complete the survivors start a fresh round.
// Once the battle has concluded Step does nothing.
func (b *Battle) Step() StepResult {
	if b.concluded {
		return StepResult{Tick: b.tick, Concluded: true}
	}

	b.tick++
	b.pending = nil

	for i := 0; i < len(b.roster); i++ {
		b.turnBlock(i)
		i -= b.removeDead(i)
		if len(b.roster) < 2 {
			b.conclude()
			break
		}
	}

	if !b.concluded {
		for i := range b.roster {
			b.roster[i].ResetRound()
		}
		b.emit(RoundEndEvent{Tick: b.tick})

		if b.params.MaxRounds > 0 && b.tick >= b.params.MaxRounds {
			b.conclude()
		}
	}

	events := b.pending
	b.pending = nil
	return StepResult{Tick: b.tick, Events: events, Concluded: b.concluded}
}

// Run steps until the battle concludes or maxTicks more ticks elapse.
// A maxTicks <= 0 runs without bound, which only terminates when the
// agents can hurt each other or MaxRounds is set.
func (b *Battle) Run(maxTicks int) Result {
	for n := 0; !b.concluded && (maxTicks <= 0 || n < maxTicks); n++ {
		b.Step()
	}
	return b.Result()
}

// turnBlock runs the fixed number of sub-actions for the agent at index i.
func (b *Battle) turnBlock(i int) {
	for n := 0; n < b.params.ActionsPerTurn; n++ {
		actor := &b.roster[i]
		target := &b.roster[b.opponent(i)]

		if InRange(actor, target, b.params.Reach) {
			b.emitOutcome(Attack(actor, target, b.src), target.HP)
			continue
		}

		from := actor.Pos
		MoveTowards(actor, target.Pos, b.params.Step)
		b.emit(MoveEvent{Tick: b.tick, Agent: actor.Name, From: from, To: actor.Pos})
	}
}

// opponent returns the index of the agent that i fights.
func (b *Battle) opponent(i int) int {
	return (i + 1) % len(b.roster)
}

// removeDead drops every agent at or below zero hit points, walking the
// roster backwards so indexes stay valid. It returns how many removed
// agents sat at or before index i.
func (b *Battle) removeDead(i int) int {
	shift := 0
	for j := len(b.roster) - 1; j >= 0; j-- {
		if b.roster[j].Alive() {
			continue
		}
		dead := b.roster[j]
		b.fallen = append(b.fallen, dead.View())
		b.roster = append(b.roster[:j], b.roster[j+1:]...)
		if j <= i {
			shift++
		}
		b.emit(DeathEvent{Tick: b.tick, Agent: dead.Name, HP: dead.HP})
	}
	return shift
}

func (b *Battle) conclude() {
	res := Result{Ticks: b.tick, Survivors: b.Agents()}
	switch len(b.roster) {
	case 0:
		res.Reason = EndDraw
	case 1:
		res.Reason = EndVictory
		res.Winner = b.roster[0].Name
	default:
		res.Reason = EndRoundLimit
	}

	b.concluded = true
	b.result = res
	b.emit(ConcludedEvent{Result: res})
}

func (b *Battle) emitOutcome(out Outcome, defenderHP int) {
	if out.Hit {
		b.emit(HitEvent{
			Tick:       b.tick,
			Attacker:   out.Attacker,
			Defender:   out.Defender,
			Ordinal:    out.Ordinal,
			Roll:       out.Roll,
			Total:      out.Total,
			AC:         out.AC,
			Damage:     out.Damage,
			DefenderHP: defenderHP,
		})
		return
	}
	b.emit(MissEvent{
		Tick:     b.tick,
		Attacker: out.Attacker,
		Defender: out.Defender,
		Ordinal:  out.Ordinal,
		Roll:     out.Roll,
		Total:    out.Total,
		AC:       out.AC,
	})
}

func (b *Battle) emit(e Event) {
	b.pending = append(b.pending, e)
	b.sink.Emit(e)
}

// Tick returns the number of ticks advanced so far.
func (b *Battle) Tick() int {
	return b.tick
}

// Concluded reports whether the battle is over.
func (b *Battle) Concluded() bool {
	return b.concluded
}

// Result returns the outcome. Reason is EndNone while the battle runs.
func (b *Battle) Result() Result {
	return b.result
}

// Params returns the simulation parameters.
func (b *Battle) Params() Params {
	return b.params
}

// Agents returns snapshots of the agents still in the roster, in order.
func (b *Battle) Agents() []AgentView {
	views := make([]AgentView, len(b.roster))
	for i := range b.roster {
		views[i] = b.roster[i].View()
	}
	return views
}

// Fallen returns snapshots of removed agents in the order they fell.
func (b *Battle) Fallen() []AgentView {
	out := make([]AgentView, len(b.fallen))
	copy(out, b.fallen)
	return out
}
