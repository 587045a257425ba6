// Package policy ships the standard catalog of deterministic repeated-game
// policies. Each policy is a stateless decider over the (own, opponent)
// history pair; the engines own the histories and pass fresh snapshots in
// every round.
package policy

import (
	"fmt"

	"dilemma/game"
)

type base struct {
	cs game.Charset
}

func (b base) Charset() game.Charset {
	return b.cs
}

// validate enforces the policy protocol: both histories use only characterset
// symbols and have equal length.
func (b base) validate(own, opponent game.History) error {
	if len(own) != len(opponent) {
		return fmt.Errorf("%w: own %d, opponent %d", game.ErrHistoryLength, len(own), len(opponent))
	}
	for _, h := range [2]game.History{own, opponent} {
		for _, m := range h {
			if !b.cs.Valid(m) {
				return fmt.Errorf("%w: %q", game.ErrInvalidAction, m)
			}
		}
	}
	return nil
}

// AllC cooperates unconditionally.
type AllC struct{ base }

func NewAllC(cs game.Charset) AllC {
	return AllC{base{cs}}
}

func (p AllC) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	return p.cs.Cooperate, nil
}

// AllD defects unconditionally.
type AllD struct{ base }

func NewAllD(cs game.Charset) AllD {
	return AllD{base{cs}}
}

func (p AllD) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	return p.cs.Defect, nil
}

// TitForTat cooperates in the first round and copies the opponent's last move
// thereafter.
type TitForTat struct{ base }

func NewTitForTat(cs game.Charset) TitForTat {
	return TitForTat{base{cs}}
}

func (p TitForTat) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) == 0 {
		return p.cs.Cooperate, nil
	}
	return opponent.Last(), nil
}

// InverseTitForTat cooperates in the first round and plays the opposite of
// the opponent's last move thereafter.
type InverseTitForTat struct{ base }

func NewInverseTitForTat(cs game.Charset) InverseTitForTat {
	return InverseTitForTat{base{cs}}
}

func (p InverseTitForTat) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) == 0 {
		return p.cs.Cooperate, nil
	}
	return p.cs.Flip(opponent.Last()), nil
}

// SuspiciousTitForTat defects in the first round and copies the opponent's
// last move thereafter.
type SuspiciousTitForTat struct{ base }

func NewSuspiciousTitForTat(cs game.Charset) SuspiciousTitForTat {
	return SuspiciousTitForTat{base{cs}}
}

func (p SuspiciousTitForTat) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) == 0 {
		return p.cs.Defect, nil
	}
	return opponent.Last(), nil
}

// NiceAllD cooperates in the first round and defects in every later round.
type NiceAllD struct{ base }

func NewNiceAllD(cs game.Charset) NiceAllD {
	return NiceAllD{base{cs}}
}

func (p NiceAllD) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) == 0 {
		return p.cs.Cooperate, nil
	}
	return p.cs.Defect, nil
}

// SuspiciousAllC defects in the first round and cooperates in every later
// round.
type SuspiciousAllC struct{ base }

func NewSuspiciousAllC(cs game.Charset) SuspiciousAllC {
	return SuspiciousAllC{base{cs}}
}

func (p SuspiciousAllC) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) == 0 {
		return p.cs.Defect, nil
	}
	return p.cs.Cooperate, nil
}

// Grim cooperates until the opponent's first defection, then defects forever.
type Grim struct{ base }

func NewGrim(cs game.Charset) Grim {
	return Grim{base{cs}}
}

func (p Grim) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if opponent.Contains(p.cs.Defect) {
		return p.cs.Defect, nil
	}
	return p.cs.Cooperate, nil
}

// WSLS plays win-stay-lose-shift: repeat the previous move after the opponent
// cooperated, switch after the opponent defected. Cooperates in the first
// round.
type WSLS struct{ base }

func NewWSLS(cs game.Charset) WSLS {
	return WSLS{base{cs}}
}

func (p WSLS) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) == 0 {
		return p.cs.Cooperate, nil
	}
	if opponent.Last() == p.cs.Cooperate {
		return own.Last(), nil
	}
	return p.cs.Flip(own.Last()), nil
}

// TitForNTats cooperates while fewer than N rounds have been played, then
// cooperates only if the opponent cooperated at least once in the last N
// rounds.
type TitForNTats struct {
	base
	n int
}

func NewTitForNTats(cs game.Charset, n int) TitForNTats {
	if n < 1 {
		n = 1
	}
	return TitForNTats{base: base{cs}, n: n}
}

func (p TitForNTats) Decide(own, opponent game.History) (game.Move, error) {
	if err := p.validate(own, opponent); err != nil {
		return 0, err
	}
	if len(own) < p.n {
		return p.cs.Cooperate, nil
	}
	if opponent[len(opponent)-p.n:].Contains(p.cs.Cooperate) {
		return p.cs.Cooperate, nil
	}
	return p.cs.Defect, nil
}
