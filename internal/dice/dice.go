// Package dice models the die, bonus and damage formulas used by the combat
// engine. Every roll draws from an injected Source so results are
// reproducible under a fixed seed.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	// ErrInvalidDie is returned for a face count outside the supported set
	// or a negative roll count.
	ErrInvalidDie = errors.New("dice: invalid die")

	// ErrInvalidFormula is returned when a damage formula cannot be parsed.
	ErrInvalidFormula = errors.New("dice: invalid formula")
)

// Source is the randomness provider for rolls.
// *rand.Rand satisfies it.
type Source interface {
	// Intn returns a random int in [0, n). n is always > 0.
	Intn(n int) int
}

// NewSource returns a seeded pseudo-random Source.
func NewSource(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Roller is anything that produces a value from a Source.
type Roller interface {
	Roll(src Source) int
}

// Faces is the number of faces on a die.
type Faces int

// Supported die types.
const (
	Four   Faces = 4
	Six    Faces = 6
	Eight  Faces = 8
	Ten    Faces = 10
	Twelve Faces = 12
	Twenty Faces = 20
)

// Valid reports whether f is one of the supported die types.
func (f Faces) Valid() bool {
	switch f {
	case Four, Six, Eight, Ten, Twelve, Twenty:
		return true
	}
	return false
}

// Die is Count dice of the same face count.
type Die struct {
	Faces Faces
	Count int
}

// D4 returns n four-sided dice.
func D4(n int) Die { return Die{Faces: Four, Count: n} }

// D6 returns n six-sided dice.
func D6(n int) Die { return Die{Faces: Six, Count: n} }

// D8 returns n eight-sided dice.
func D8(n int) Die { return Die{Faces: Eight, Count: n} }

// D10 returns n ten-sided dice.
func D10(n int) Die { return Die{Faces: Ten, Count: n} }

// D12 returns n twelve-sided dice.
func D12(n int) Die { return Die{Faces: Twelve, Count: n} }

// D20 returns n twenty-sided dice.
func D20(n int) Die { return Die{Faces: Twenty, Count: n} }

// Roll sums Count independent draws over [1, Faces].
// A zero count rolls 0.
func (d Die) Roll(src Source) int {
	total := 0
	for i := 0; i < d.Count; i++ {
		total += src.Intn(int(d.Faces)) + 1
	}
	return total
}

// Validate checks the face count and roll count.
func (d Die) Validate() error {
	if !d.Faces.Valid() {
		return fmt.Errorf("%w: unsupported face count %d", ErrInvalidDie, d.Faces)
	}
	if d.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidDie, d.Count)
	}
	return nil
}

// String returns the die in NdF notation.
func (d Die) String() string {
	return fmt.Sprintf("%dd%d", d.Count, d.Faces)
}

// Bonus is a flat modifier. It rolls its own value.
type Bonus int

// Roll returns the bonus unchanged.
func (b Bonus) Roll(Source) int {
	return int(b)
}

// Damage pairs a die with a flat bonus.
type Damage struct {
	Die   Die
	Bonus Bonus
}

// Roll returns the die roll plus the bonus. The total may be negative.
func (d Damage) Roll(src Source) int {
	return d.Die.Roll(src) + d.Bonus.Roll(src)
}

// Validate checks the die of the formula.
func (d Damage) Validate() error {
	return d.Die.Validate()
}

// String returns the formula in NdF+B notation, e.g. "1d6+1".
func (d Damage) String() string {
	switch {
	case d.Bonus > 0:
		return fmt.Sprintf("%s+%d", d.Die, d.Bonus)
	case d.Bonus < 0:
		return fmt.Sprintf("%s%d", d.Die, d.Bonus)
	default:
		return d.Die.String()
	}
}

// AttackRoll is the formula for an attack: a single d20 plus the modifier.
func AttackRoll(modifier int) Damage {
	return Damage{Die: D20(1), Bonus: Bonus(modifier)}
}

// Ensure the formula types implement Roller
var (
	_ Roller = Die{}
	_ Roller = Bonus(0)
	_ Roller = Damage{}
)
