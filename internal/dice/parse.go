package dice

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDamage parses a formula such as "1d6+1", "2d8-2", "3d4" or "d20".
// Case and whitespace are ignored. The die must be a supported type.
func ParseDamage(formula string) (Damage, error) {
	s := strings.ToLower(strings.Join(strings.Fields(formula), ""))
	if s == "" {
		return Damage{}, fmt.Errorf("%w: empty formula", ErrInvalidFormula)
	}

	countPart, rest, ok := strings.Cut(s, "d")
	if !ok {
		return Damage{}, fmt.Errorf("%w: %q has no die", ErrInvalidFormula, formula)
	}

	count := 1
	if countPart != "" {
		n, err := strconv.Atoi(countPart)
		if err != nil || n < 0 {
			return Damage{}, fmt.Errorf("%w: bad count in %q", ErrInvalidFormula, formula)
		}
		count = n
	}

	// Split faces from the trailing bonus at the first sign.
	facesPart, bonusPart := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		facesPart, bonusPart = rest[:i], rest[i:]
	}

	faces, err := strconv.Atoi(facesPart)
	if err != nil {
		return Damage{}, fmt.Errorf("%w: bad faces in %q", ErrInvalidFormula, formula)
	}

	bonus := 0
	if bonusPart != "" {
		bonus, err = strconv.Atoi(bonusPart)
		if err != nil {
			return Damage{}, fmt.Errorf("%w: bad bonus in %q", ErrInvalidFormula, formula)
		}
	}

	dmg := Damage{Die: Die{Faces: Faces(faces), Count: count}, Bonus: Bonus(bonus)}
	if err := dmg.Validate(); err != nil {
		return Damage{}, err
	}
	return dmg, nil
}

// MustParseDamage is like ParseDamage but panics on error.
// Intended for literals in tests and built-in tables.
func MustParseDamage(formula string) Damage {
	d, err := ParseDamage(formula)
	if err != nil {
		panic(err)
	}
	return d
}
