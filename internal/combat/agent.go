package combat

import (
	"fmt"

	"github.com/vovakirdan/battlesim/internal/core"
)

// Agent is a mutable combat participant.
type Agent struct {
	Name        string
	Pos         core.Vec2
	Stats       Stats
	HP          int // may go negative; <= 0 is dead
	MaxHP       int
	AttackIndex int // next attack slot within the current round
}

// NewAgent creates an agent at full health.
func NewAgent(name string, pos core.Vec2, stats Stats, hp int) Agent {
	return Agent{
		Name:  name,
		Pos:   pos,
		Stats: stats,
		HP:    hp,
		MaxHP: hp,
	}
}

// Alive reports whether the agent still has hit points.
func (a *Agent) Alive() bool {
	return a.HP > 0
}

// ResetRound starts a new round of attacks.
func (a *Agent) ResetRound() {
	a.AttackIndex = 0
}

// View returns a read-only snapshot of the agent.
func (a *Agent) View() AgentView {
	return AgentView{
		Name:        a.Name,
		Pos:         a.Pos,
		HP:          a.HP,
		MaxHP:       a.MaxHP,
		AC:          a.Stats.AC,
		AttackIndex: a.AttackIndex,
		Alive:       a.Alive(),
	}
}

func (a *Agent) validate() error {
	switch {
	case a.Name == "":
		return fmt.Errorf("%w: agent has no name", ErrInvalidConfig)
	case a.HP <= 0:
		return fmt.Errorf("%w: agent %q starts with %d hp", ErrInvalidConfig, a.Name, a.HP)
	case !a.Pos.IsFinite():
		return fmt.Errorf("%w: agent %q has position %v", ErrInvalidConfig, a.Name, a.Pos)
	}
	if err := a.Stats.Validate(); err != nil {
		return fmt.Errorf("agent %q: %w", a.Name, err)
	}
	return nil
}

// AgentView is what the outside world may see of an agent.
type AgentView struct {
	Name        string
	Pos         core.Vec2
	HP          int
	MaxHP       int
	AC          int
	AttackIndex int
	Alive       bool
}
