package game

// Policy decides one player's next move from the two match histories so far.
//
// Decide must be pure: the same history pair always yields the same move.
// Implementations return ErrInvalidAction when either history carries a symbol
// outside their characterset and ErrHistoryLength when the histories disagree
// in length. Engines own the histories and extend them between rounds, so a
// Policy carries no mutable state and needs no reset.
type Policy interface {
	Decide(own, opponent History) (Move, error)
	Charset() Charset
}
