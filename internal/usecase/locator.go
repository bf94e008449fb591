package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"LedgerSeek/internal/domain/models"
	drepo "LedgerSeek/internal/domain/repository"
)

// ErrDegenerateBracket is returned when both bounds of the bracket carry the
// same close time, which would make the interpolation slope undefined. A
// healthy node never produces this; fail fast instead of looping.
var ErrDegenerateBracket = errors.New("bracket bounds have equal close times")

// DefaultSeedWidth is how many ledgers below the latest validated one the
// initial lower bound is placed. A heuristic, not a guarantee: the search
// extrapolates past the seed bracket when the target lies outside it.
const DefaultSeedWidth = 10

// boundChoice says which end of the bracket the next fetched sample replaces.
type boundChoice int

const (
	updateLow boundChoice = iota
	updateHigh
)

// Result is the outcome of one search.
type Result struct {
	Sample     models.Sample
	ExactMatch bool
	// Iterations counts close-time fetches after the initial
	// latest-validated lookup.
	Iterations int
}

// Locator finds the ledger whose close time most closely matches a target
// timestamp, using interpolation search over the (sequence, close time)
// relationship. Close times advance roughly a few seconds per ledger, so a
// linear model between the two known bounds converges much faster than
// bisection.
type Locator struct {
	oracle    drepo.TimeOracle
	reporter  drepo.Reporter
	seedWidth int64
}

// NewLocator creates a Locator. seedWidth <= 0 falls back to DefaultSeedWidth.
func NewLocator(oracle drepo.TimeOracle, reporter drepo.Reporter, seedWidth int64) *Locator {
	if seedWidth <= 0 {
		seedWidth = DefaultSeedWidth
	}
	return &Locator{oracle: oracle, reporter: reporter, seedWidth: seedWidth}
}

// Locate converges on the ledger matching target (seconds, same epoch as the
// oracle's close times). On an exact close-time hit it returns that sample
// immediately; otherwise it narrows the bracket to two consecutive ledgers
// and returns the bound the interpolation settles on. Any oracle failure
// aborts the search; there is no fallback without a sample.
func (l *Locator) Locate(ctx context.Context, target int64) (Result, error) {
	s0, err := l.oracle.FetchLatestValidated(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch latest validated: %w", err)
	}
	l.report(s0)
	if s0.CloseTime == target {
		return Result{Sample: s0, ExactMatch: true}, nil
	}

	// Seed: latest validated is the upper bound, the lower bound sits
	// seedWidth ledgers below it and is fetched on the first pass through
	// the loop.
	br := models.Bracket{High: s0}
	guess := s0.Sequence - l.seedWidth
	choice := updateLow
	iterations := 0

	for {
		ct, err := l.oracle.FetchCloseTime(ctx, guess)
		if err != nil {
			return Result{}, fmt.Errorf("fetch close time for ledger %d: %w", guess, err)
		}
		iterations++
		s := models.Sample{Sequence: guess, CloseTime: ct}
		l.report(s)
		if choice == updateLow {
			br.Low = s
		} else {
			br.High = s
		}

		if ct == target {
			return Result{Sample: s, ExactMatch: true, Iterations: iterations}, nil
		}
		if br.High.CloseTime == br.Low.CloseTime {
			return Result{}, fmt.Errorf("bracket [%d, %d]: %w",
				br.Low.Sequence, br.High.Sequence, ErrDegenerateBracket)
		}

		// Linear model: sequence as a function of close time.
		m := float64(br.Width()) / float64(br.High.CloseTime-br.Low.CloseTime)
		b := float64(br.Low.Sequence) - m*float64(br.Low.CloseTime)
		guess = int64(math.Round(m*float64(target) + b))

		switch {
		case guess < br.Low.Sequence:
			// Extrapolating below the bracket: the old upper bound says
			// nothing about this region anymore, so the bracket shifts down.
			br.High = br.Low
			choice = updateLow
		case guess > br.High.Sequence:
			br.Low = br.High
			choice = updateHigh
		case guess == br.Low.Sequence:
			if br.Adjacent() {
				return Result{Sample: br.Low, Iterations: iterations}, nil
			}
			// Interpolation stalled at the lower bound; force progress by
			// pulling the upper bound next to it.
			guess = br.Low.Sequence + 1
			choice = updateHigh
		case guess == br.High.Sequence:
			if br.Adjacent() {
				return Result{Sample: br.High, Iterations: iterations}, nil
			}
			guess = br.High.Sequence - 1
			choice = updateLow
		default:
			// Strictly inside: replace whichever bound is farther from the
			// guess, keeping the bracket as tight as possible.
			if guess-br.Low.Sequence <= br.High.Sequence-guess {
				choice = updateHigh
			} else {
				choice = updateLow
			}
		}
	}
}

func (l *Locator) report(s models.Sample) {
	if l.reporter != nil {
		l.reporter.Report(s)
	}
}
