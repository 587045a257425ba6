package game

// Move is one of the two admissible action symbols for a match.
type Move byte

// History is the ordered sequence of moves one player has made. Engines treat
// a History as an immutable snapshot: Extend copies instead of appending in
// place, so the same History can back many enumeration-tree nodes.
type History []Move

// Extend returns a new History with m appended, leaving the receiver intact.
func (h History) Extend(m Move) History {
	next := make(History, len(h)+1)
	copy(next, h)
	next[len(h)] = m
	return next
}

// Last returns the most recent move. Callers must check for an empty history.
func (h History) Last() Move {
	return h[len(h)-1]
}

// Contains reports whether m appears anywhere in the history.
func (h History) Contains(m Move) bool {
	for _, v := range h {
		if v == m {
			return true
		}
	}
	return false
}

// Charset is the (cooperate, defect) symbol pair a match is played with.
type Charset struct {
	Cooperate Move
	Defect    Move
}

// DefaultCharset returns the conventional C/D symbols.
func DefaultCharset() Charset {
	return Charset{Cooperate: 'C', Defect: 'D'}
}

// Valid reports whether m belongs to the characterset.
func (c Charset) Valid(m Move) bool {
	return m == c.Cooperate || m == c.Defect
}

// Flip returns the other symbol of the pair. A mistake in a round is modelled
// as a post-hoc Flip of the move a policy already chose.
func (c Charset) Flip(m Move) Move {
	if m == c.Cooperate {
		return c.Defect
	}
	return c.Cooperate
}
