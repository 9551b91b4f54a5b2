package particle

import (
	"fmt"
	"strings"
)

// Type tags a particle with one of a fixed set of kinds. The ordinal
// doubles as a dense index into the interaction table, so values must
// stay contiguous starting at zero.
type Type int

const (
	Amber Type = iota
	Blue
	Cyan
	Emerald
	Fuchsia
	Green
	Indigo
	Lime
	Orange
	Pink
	Purple
	Red
	Rose
	Sky
	Teal
	Violet
	Yellow

	// TypeCount is the number of distinct particle types.
	TypeCount = 17
)

var typeNames = [TypeCount]string{
	"Amber", "Blue", "Cyan", "Emerald", "Fuchsia", "Green", "Indigo",
	"Lime", "Orange", "Pink", "Purple", "Red", "Rose", "Sky", "Teal",
	"Violet", "Yellow",
}

// AllTypes returns every particle type in ordinal order.
func AllTypes() [TypeCount]Type {
	var all [TypeCount]Type
	for i := range all {
		all[i] = Type(i)
	}
	return all
}

func (t Type) String() string {
	if t < 0 || t >= TypeCount {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

// Valid reports whether t is one of the defined types.
func (t Type) Valid() bool {
	return t >= 0 && t < TypeCount
}

// ParseType resolves a case-insensitive type label.
func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if strings.EqualFold(s, name) {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown particle type %q (expected one of %s)", s, strings.Join(typeNames[:], ", "))
}
