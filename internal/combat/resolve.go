package combat

import (
	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/dice"
)

// Outcome describes one resolved attack.
type Outcome struct {
	Attacker string
	Defender string
	Ordinal  Ordinal
	Roll     int // natural d20
	Total    int // roll plus slot modifier
	AC       int
	Hit      bool
	Damage   int // zero on a miss
}

// Attack resolves the attacker's next attack against the defender.
//
// The attack total is 1d20 plus the modifier of the current slot; a total at
// or above the defender's AC hits and the attacker's damage formula is
// subtracted from the defender's hit points without clamping. The attack
// index advances by one whether or not the attack hits.
func Attack(attacker, defender *Agent, src dice.Source) Outcome {
	slot := attacker.Stats.Slot(attacker.AttackIndex)
	out := Outcome{
		Attacker: attacker.Name,
		Defender: defender.Name,
		Ordinal:  OrdinalFor(attacker.AttackIndex),
		AC:       defender.Stats.AC,
	}

	out.Total = dice.AttackRoll(slot.Modifier).Roll(src)
	out.Roll = out.Total - slot.Modifier

	if out.Total >= defender.Stats.AC {
		out.Hit = true
		out.Damage = attacker.Stats.Damage.Roll(src)
		defender.HP -= out.Damage
	}

	attacker.AttackIndex++
	return out
}

// MoveTowards moves the mover exactly step units toward target.
// When the mover already stands on the target it stays put.
func MoveTowards(mover *Agent, target core.Vec2, step float64) {
	dir := target.Sub(mover.Pos)
	if dir.Len() == 0 {
		return
	}
	mover.Pos = mover.Pos.Add(dir.Normalize().Scale(step))
}

// InRange reports whether two agents are closer than reach.
func InRange(a, b *Agent, reach float64) bool {
	return a.Pos.Dist(b.Pos) < reach
}
