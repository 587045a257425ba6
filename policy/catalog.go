package policy

import "dilemma/game"

// Named pairs a policy with the name the sweep driver reports it under.
type Named struct {
	Name   string
	Policy game.Policy
}

// Catalog returns the standard lineup bound to the given characterset, in the
// order results are reported.
func Catalog(cs game.Charset) []Named {
	return []Named{
		{Name: "AllC", Policy: NewAllC(cs)},
		{Name: "AllD", Policy: NewAllD(cs)},
		{Name: "TitForTat", Policy: NewTitForTat(cs)},
		{Name: "InverseTitForTat", Policy: NewInverseTitForTat(cs)},
		{Name: "SuspiciousTitForTat", Policy: NewSuspiciousTitForTat(cs)},
		{Name: "NiceAllD", Policy: NewNiceAllD(cs)},
		{Name: "SuspiciousAllC", Policy: NewSuspiciousAllC(cs)},
		{Name: "Grim", Policy: NewGrim(cs)},
		{Name: "WSLS", Policy: NewWSLS(cs)},
		{Name: "TitForTwoTats", Policy: NewTitForNTats(cs, 2)},
	}
}
