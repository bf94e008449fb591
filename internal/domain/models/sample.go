package models

// Sample is a single (sequence, close time) observation obtained from a
// ledger node. CloseTime is in seconds since the Ripple epoch
// (2000-01-01T00:00:00Z). A Sample is never mutated after it comes back
// from the oracle; narrowing the search produces new Samples.
type Sample struct {
	Sequence  int64
	CloseTime int64
}

// Bracket is the pair of Samples currently believed to bound the target
// close time. Invariant maintained by the locator: Low.Sequence < High.Sequence.
type Bracket struct {
	Low  Sample
	High Sample
}

// Width returns the sequence distance between the two bounds.
func (b Bracket) Width() int64 {
	return b.High.Sequence - b.Low.Sequence
}

// Adjacent reports whether the bounds are consecutive ledgers, i.e. the
// bracket cannot narrow any further.
func (b Bracket) Adjacent() bool {
	return b.Width() == 1
}
