// Package config provides YAML-based scenario loading and runtime settings
// for the battle simulator.
package config

import (
	"fmt"

	"github.com/vovakirdan/battlesim/internal/combat"
	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/dice"
)

// Scenario describes one battle: simulation parameters and both agents.
type Scenario struct {
	ID          string        `yaml:"id"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Simulation  Simulation    `yaml:"simulation"`
	Agents      []AgentConfig `yaml:"agents"`
}

// Simulation defines the cadence of a battle. Zero values fall back to
// the engine defaults.
type Simulation struct {
	Reach          float64 `yaml:"reach"`
	Step           float64 `yaml:"step"`
	ActionsPerTurn int     `yaml:"actions_per_turn"`
	MaxRounds      int     `yaml:"max_rounds"` // 0 = no limit
}

// AgentConfig defines one combatant.
type AgentConfig struct {
	Name     string   `yaml:"name"`
	Position Position `yaml:"position"`
	HP       int      `yaml:"hp"`
	AC       int      `yaml:"ac"`
	Attacks  []int    `yaml:"attacks"` // exactly three modifiers
	Damage   string   `yaml:"damage"`  // e.g. "1d6+1"
}

// Position is a point on the battle plane.
type Position struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Title returns the display name, falling back to the ID.
func (s Scenario) Title() string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

// Params converts the simulation block into engine parameters.
func (s Simulation) Params() combat.Params {
	p := combat.DefaultParams()
	if s.Reach != 0 {
		p.Reach = s.Reach
	}
	if s.Step != 0 {
		p.Step = s.Step
	}
	if s.ActionsPerTurn != 0 {
		p.ActionsPerTurn = s.ActionsPerTurn
	}
	p.MaxRounds = s.MaxRounds
	return p
}

// Agent converts the config into a combat agent.
func (a AgentConfig) Agent() (combat.Agent, error) {
	if len(a.Attacks) != combat.SlotCount {
		return combat.Agent{}, fmt.Errorf("%w: agent %q needs %d attack modifiers, got %d",
			combat.ErrInvalidConfig, a.Name, combat.SlotCount, len(a.Attacks))
	}

	damage, err := dice.ParseDamage(a.Damage)
	if err != nil {
		return combat.Agent{}, fmt.Errorf("%w: agent %q: %v", combat.ErrInvalidConfig, a.Name, err)
	}

	stats := combat.NewStats(a.AC, damage, a.Attacks[0], a.Attacks[1], a.Attacks[2])
	return combat.NewAgent(a.Name, core.V(a.Position.X, a.Position.Y), stats, a.HP), nil
}

// Build converts the scenario into engine parameters and agents.
func (s Scenario) Build() (combat.Params, []combat.Agent, error) {
	agents := make([]combat.Agent, 0, len(s.Agents))
	for _, ac := range s.Agents {
		agent, err := ac.Agent()
		if err != nil {
			return combat.Params{}, nil, err
		}
		agents = append(agents, agent)
	}
	return s.Simulation.Params(), agents, nil
}

// NewBattle builds a ready-to-run battle for the scenario.
func (s Scenario) NewBattle(src dice.Source, sink combat.EventSink) (*combat.Battle, error) {
	params, agents, err := s.Build()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
	}
	battle, err := combat.NewBattle(params, src, sink, agents...)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.ID, err)
	}
	return battle, nil
}

// Validate checks that the scenario can produce a battle.
func (s Scenario) Validate() error {
	_, err := s.NewBattle(dice.NewSource(0), combat.Discard)
	return err
}
