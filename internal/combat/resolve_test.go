package combat

import (
	"math"
	"testing"

	"github.com/vovakirdan/battlesim/internal/core"
	"github.com/vovakirdan/battlesim/internal/dice"
)

// scripted is a dice.Source returning queued values in order, cycling when
// exhausted. Each value is reduced modulo n.
type scripted struct {
	values []int
	draws  int
}

func (s *scripted) Intn(n int) int {
	v := s.values[s.draws%len(s.values)]
	s.draws++
	return v % n
}

// natural returns the scripted value that makes a d20 show face.
func natural(face int) int { return face - 1 }

func fighter() Agent {
	return NewAgent("Fighter", core.V(0, 0), NewStats(10, dice.MustParseDamage("1d6+1"), 0, -5, -10), 50)
}

func rogue() Agent {
	return NewAgent("Rogue", core.V(50, 0), NewStats(14, dice.MustParseDamage("1d4+1"), 0, -4, -8), 30)
}

func TestAttackHit(t *testing.T) {
	a, d := fighter(), rogue()
	// d20 shows 15, d6 shows 3
	src := &scripted{values: []int{natural(15), 2}}

	out := Attack(&a, &d, src)

	if !out.Hit {
		t.Fatalf("Attack() missed with total %d vs AC %d", out.Total, out.AC)
	}
	if out.Roll != 15 || out.Total != 15 {
		t.Errorf("Roll/Total = %d/%d, expected 15/15", out.Roll, out.Total)
	}
	if out.Damage != 4 {
		t.Errorf("Damage = %d, expected 4", out.Damage)
	}
	if d.HP != 26 {
		t.Errorf("defender HP = %d, expected 26", d.HP)
	}
	if a.AttackIndex != 1 {
		t.Errorf("AttackIndex = %d, expected 1", a.AttackIndex)
	}
	if out.Ordinal != First || out.Attacker != "Fighter" || out.Defender != "Rogue" {
		t.Errorf("unexpected outcome identity: %+v", out)
	}
}

func TestAttackMiss(t *testing.T) {
	a, d := fighter(), rogue()
	src := &scripted{values: []int{natural(13)}}

	out := Attack(&a, &d, src)

	if out.Hit {
		t.Fatalf("Attack() hit with total %d vs AC %d", out.Total, out.AC)
	}
	if out.Damage != 0 {
		t.Errorf("Damage = %d, expected 0 on a miss", out.Damage)
	}
	if d.HP != 30 {
		t.Errorf("defender HP = %d, expected unchanged 30", d.HP)
	}
	if a.AttackIndex != 1 {
		t.Errorf("AttackIndex = %d, expected 1 after a miss", a.AttackIndex)
	}
	if src.draws != 1 {
		t.Errorf("miss drew %d values, expected only the attack roll", src.draws)
	}
}

func TestAttackHitsOnEqualAC(t *testing.T) {
	a, d := rogue(), fighter()
	src := &scripted{values: []int{natural(10), 0}}

	out := Attack(&a, &d, src)
	if !out.Hit {
		t.Errorf("total %d equal to AC %d should hit", out.Total, out.AC)
	}
}

func TestAttackAppliesSlotModifier(t *testing.T) {
	tests := []struct {
		index    int
		ordinal  Ordinal
		expected int
	}{
		{0, First, 20},
		{1, Second, 15},
		{2, Third, 10},
		{3, Third, 10},
		{7, Third, 10},
	}

	for _, tc := range tests {
		a, d := fighter(), rogue()
		a.AttackIndex = tc.index
		src := &scripted{values: []int{natural(20), 0}}

		out := Attack(&a, &d, src)
		if out.Total != tc.expected {
			t.Errorf("index %d: Total = %d, expected %d", tc.index, out.Total, tc.expected)
		}
		if out.Ordinal != tc.ordinal {
			t.Errorf("index %d: Ordinal = %v, expected %v", tc.index, out.Ordinal, tc.ordinal)
		}
		if a.AttackIndex != tc.index+1 {
			t.Errorf("index %d: AttackIndex = %d, expected %d", tc.index, a.AttackIndex, tc.index+1)
		}
	}
}

func TestAttackAlwaysAdvancesIndex(t *testing.T) {
	src := dice.NewSource(3)
	a, d := fighter(), rogue()

	for i := 1; i <= 200; i++ {
		before := a.AttackIndex
		Attack(&a, &d, src)
		if a.AttackIndex != before+1 {
			t.Fatalf("attack %d: AttackIndex went %d -> %d", i, before, a.AttackIndex)
		}
	}
}

func TestAttackSaturatesUntilReset(t *testing.T) {
	a, d := fighter(), rogue()
	d.HP = 1000
	// Natural 12 every time: totals 12, 7, 2, then 2 again while saturated.
	// All of them miss AC 14, so only d20s are drawn.
	src := &scripted{values: []int{natural(12)}}

	expected := []int{12, 7, 2, 2}
	for i, want := range expected {
		out := Attack(&a, &d, src)
		if out.Total != want {
			t.Errorf("attack %d: Total = %d, expected %d", i, out.Total, want)
		}
	}

	a.ResetRound()
	if out := Attack(&a, &d, src); out.Total != 12 || out.Ordinal != First {
		t.Errorf("after reset: Total = %d, Ordinal = %v, expected 12 first", out.Total, out.Ordinal)
	}
}

func TestResetRoundIdempotent(t *testing.T) {
	a := fighter()
	a.ResetRound()
	if a.AttackIndex != 0 {
		t.Fatalf("AttackIndex = %d, expected 0", a.AttackIndex)
	}
	a.ResetRound()
	if a.AttackIndex != 0 {
		t.Errorf("second reset changed AttackIndex to %d", a.AttackIndex)
	}
}

func TestAttackNegativeDamageHeals(t *testing.T) {
	a, d := fighter(), rogue()
	a.Stats.Damage = dice.Damage{Die: dice.D4(1), Bonus: -10}
	src := &scripted{values: []int{natural(20), 0}}

	out := Attack(&a, &d, src)
	if out.Damage != -9 {
		t.Fatalf("Damage = %d, expected -9", out.Damage)
	}
	if d.HP != 39 {
		t.Errorf("defender HP = %d, expected 39", d.HP)
	}
}

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name   string
		from   core.Vec2
		target core.Vec2
	}{
		{"horizontal", core.V(0, 0), core.V(10, 0)},
		{"vertical", core.V(0, 0), core.V(0, -25)},
		{"diagonal", core.V(0, 0), core.V(30, 40)},
		{"offset", core.V(-7.5, 3), core.V(12, -9)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := fighter()
			a.Pos = tc.from
			before := a.Pos.Dist(tc.target)

			MoveTowards(&a, tc.target, 1)

			after := a.Pos.Dist(tc.target)
			if math.Abs((before-after)-1) > 1e-9 {
				t.Errorf("distance went %f -> %f, expected a decrease of exactly 1", before, after)
			}
			if moved := tc.from.Dist(a.Pos); math.Abs(moved-1) > 1e-9 {
				t.Errorf("moved %f units, expected 1", moved)
			}
		})
	}
}

func TestMoveTowardsZeroDistance(t *testing.T) {
	a := fighter()
	a.Pos = core.V(5, 5)

	MoveTowards(&a, core.V(5, 5), 1)

	if !a.Pos.IsFinite() {
		t.Fatalf("position became %v", a.Pos)
	}
	if a.Pos != core.V(5, 5) {
		t.Errorf("Pos = %v, expected no movement", a.Pos)
	}
}

func TestMoveTowardsCustomStep(t *testing.T) {
	a := fighter()
	MoveTowards(&a, core.V(100, 0), 2.5)
	if a.Pos != core.V(2.5, 0) {
		t.Errorf("Pos = %v, expected (2.5, 0)", a.Pos)
	}
}

func TestInRange(t *testing.T) {
	tests := []struct {
		name     string
		a, b     core.Vec2
		expected bool
	}{
		{"same spot", core.V(0, 0), core.V(0, 0), true},
		{"close", core.V(0, 0), core.V(99.9, 0), true},
		{"exactly at reach", core.V(0, 0), core.V(100, 0), false},
		{"far", core.V(0, 0), core.V(60, 80.1), false},
		{"diagonal inside", core.V(0, 0), core.V(60, 79.9), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, b := fighter(), rogue()
			a.Pos, b.Pos = tc.a, tc.b

			if got := InRange(&a, &b, DefaultReach); got != tc.expected {
				t.Errorf("InRange() = %v, expected %v", got, tc.expected)
			}
			// Also test symmetry
			if got := InRange(&b, &a, DefaultReach); got != tc.expected {
				t.Errorf("InRange() (reversed) = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestStatsSlotSaturates(t *testing.T) {
	s := NewStats(10, dice.MustParseDamage("1d6"), 1, 2, 3)

	for i, want := range []int{1, 2, 3, 3, 3} {
		if got := s.Slot(i).Modifier; got != want {
			t.Errorf("Slot(%d) = %d, expected %d", i, got, want)
		}
	}
}
