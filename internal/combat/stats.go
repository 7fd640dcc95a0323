// Package combat implements the two-agent battle engine: attack resolution
// against armor class, movement on the plane and the round loop that drives
// both agents until one side falls.
//
// The engine holds no globals. Randomness comes from an injected dice.Source
// and every observable effect is reported to an EventSink.
package combat

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/battlesim/internal/dice"
)

// ErrInvalidConfig is returned when agents or battle parameters cannot be
// simulated.
var ErrInvalidConfig = errors.New("combat: invalid configuration")

// SlotCount is the number of attacks in a round.
const SlotCount = 3

// Ordinal names an attack slot within a round.
type Ordinal int

const (
	First Ordinal = iota
	Second
	Third
)

// String returns the ordinal as a word.
func (o Ordinal) String() string {
	switch o {
	case First:
		return "first"
	case Second:
		return "second"
	case Third:
		return "third"
	default:
		return "unknown"
	}
}

// OrdinalFor maps an attack index to its slot, saturating at Third.
func OrdinalFor(index int) Ordinal {
	switch {
	case index <= 0:
		return First
	case index == 1:
		return Second
	default:
		return Third
	}
}

// AttackSlot is one attack of a round with its flat attack modifier.
// Later slots usually carry larger penalties but nothing enforces that.
type AttackSlot struct {
	Modifier int
}

// Stats is the read-only combat profile of an agent.
type Stats struct {
	Attacks [SlotCount]AttackSlot
	Damage  dice.Damage // shared by all three attacks
	AC      int
}

// NewStats builds a profile from three attack modifiers.
func NewStats(ac int, damage dice.Damage, first, second, third int) Stats {
	return Stats{
		Attacks: [SlotCount]AttackSlot{{first}, {second}, {third}},
		Damage:  damage,
		AC:      ac,
	}
}

// Slot returns the attack slot for an attack index.
// Indexes past the last slot resolve to the last slot.
func (s Stats) Slot(index int) AttackSlot {
	return s.Attacks[OrdinalFor(index)]
}

// Validate checks the damage formula.
func (s Stats) Validate() error {
	if err := s.Damage.Validate(); err != nil {
		return fmt.Errorf("%w: damage %s: %v", ErrInvalidConfig, s.Damage, err)
	}
	return nil
}
