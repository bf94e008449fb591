package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"LedgerSeek/internal/domain/models"
)

var errLedgerNotFound = errors.New("ledger not found")

// fakeOracle serves close times from an in-memory schedule.
type fakeOracle struct {
	first, latest int64
	closeAt       func(seq int64) int64
	fetchCalls    int
	latestCalls   int
	fetched       []int64
}

func (o *fakeOracle) FetchCloseTime(_ context.Context, seq int64) (int64, error) {
	o.fetchCalls++
	o.fetched = append(o.fetched, seq)
	if seq < o.first || seq > o.latest {
		return 0, fmt.Errorf("ledger %d: %w", seq, errLedgerNotFound)
	}
	return o.closeAt(seq), nil
}

func (o *fakeOracle) FetchLatestValidated(_ context.Context) (models.Sample, error) {
	o.latestCalls++
	return models.Sample{Sequence: o.latest, CloseTime: o.closeAt(o.latest)}, nil
}

// linearOracle has ledgers [first, latest] closing every 5 seconds starting
// at closeTime 1000 for the first ledger of the base sequence 100.
func linearOracle(first, latest int64) *fakeOracle {
	return &fakeOracle{
		first:  first,
		latest: latest,
		closeAt: func(seq int64) int64 {
			return 1000 + 5*(seq-100)
		},
	}
}

type recordingReporter struct {
	samples []models.Sample
}

func (r *recordingReporter) Report(s models.Sample) {
	r.samples = append(r.samples, s)
}

func TestLocateExactMatch(t *testing.T) {
	o := linearOracle(100, 110)
	loc := NewLocator(o, nil, 0)

	res, err := loc.Locate(context.Background(), 1025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 105 {
		t.Fatalf("expected sequence 105, got %d", res.Sample.Sequence)
	}
	if res.Sample.CloseTime != 1025 {
		t.Fatalf("expected close time 1025, got %d", res.Sample.CloseTime)
	}
	if !res.ExactMatch {
		t.Fatalf("expected exact match")
	}
}

func TestLocateBetweenCloseTimes(t *testing.T) {
	// 1027 falls between ledger 105 (1025) and 106 (1030); the search must
	// settle on the nearer ledger 105 without an exact hit.
	o := linearOracle(100, 110)
	loc := NewLocator(o, nil, 0)

	res, err := loc.Locate(context.Background(), 1027)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 105 {
		t.Fatalf("expected sequence 105, got %d", res.Sample.Sequence)
	}
	if res.ExactMatch {
		t.Fatalf("did not expect an exact match")
	}
}

func TestLocateLatestIsTarget(t *testing.T) {
	o := &fakeOracle{
		first:   100,
		latest:  200,
		closeAt: func(seq int64) int64 { return 5000 - 5*(200-seq) },
	}
	loc := NewLocator(o, nil, 0)

	res, err := loc.Locate(context.Background(), 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 200 || res.Sample.CloseTime != 5000 {
		t.Fatalf("expected (200, 5000), got (%d, %d)", res.Sample.Sequence, res.Sample.CloseTime)
	}
	if o.fetchCalls != 0 {
		t.Fatalf("expected no close-time fetches, got %d", o.fetchCalls)
	}
	if o.latestCalls != 1 {
		t.Fatalf("expected one latest-validated fetch, got %d", o.latestCalls)
	}
}

func TestLocateExtrapolatesDown(t *testing.T) {
	// Target lies below the seed bracket [100, 110]; the search has to shift
	// the bracket downward before it can converge.
	o := linearOracle(90, 110)
	loc := NewLocator(o, nil, 0)

	res, err := loc.Locate(context.Background(), 990)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 98 || !res.ExactMatch {
		t.Fatalf("expected exact match at 98, got %d (exact=%v)", res.Sample.Sequence, res.ExactMatch)
	}
	below := false
	for _, seq := range o.fetched {
		if seq < 100 {
			below = true
		}
	}
	if !below {
		t.Fatalf("expected at least one fetch below the seed bracket, got %v", o.fetched)
	}
}

func TestLocateExtrapolatesDownNoExact(t *testing.T) {
	// 992 falls between ledger 98 (990) and 99 (995).
	o := linearOracle(90, 110)
	loc := NewLocator(o, nil, 0)

	res, err := loc.Locate(context.Background(), 992)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 98 {
		t.Fatalf("expected sequence 98, got %d", res.Sample.Sequence)
	}
	if res.ExactMatch {
		t.Fatalf("did not expect an exact match")
	}
}

func TestLocateIrregularSpacing(t *testing.T) {
	// Close-time gaps vary between 4 and 6 seconds; the linear model is only
	// approximate but must still find the exact ledger.
	gaps := []int64{4, 5, 6, 5, 4, 6, 5, 4, 5, 6, 4, 5, 6, 5, 4, 6, 5, 4, 5, 6}
	times := make(map[int64]int64)
	ct := int64(10000)
	for i, g := range gaps {
		times[200+int64(i)] = ct
		ct += g
	}
	times[200+int64(len(gaps))] = ct
	o := &fakeOracle{
		first:   200,
		latest:  200 + int64(len(gaps)),
		closeAt: func(seq int64) int64 { return times[seq] },
	}
	loc := NewLocator(o, nil, 0)

	res, err := loc.Locate(context.Background(), times[207])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 207 {
		t.Fatalf("expected sequence 207, got %d", res.Sample.Sequence)
	}
	if !res.ExactMatch {
		t.Fatalf("expected exact match")
	}
}

func TestLocateIdempotent(t *testing.T) {
	target := int64(1027)
	run := func() Result {
		o := linearOracle(100, 110)
		loc := NewLocator(o, nil, 0)
		res, err := loc.Locate(context.Background(), target)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return res
	}
	a, b := run(), run()
	if a.Sample != b.Sample || a.Iterations != b.Iterations {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

func TestLocateOracleFailure(t *testing.T) {
	// The extrapolated guess lands below the earliest ledger the node knows;
	// the search aborts rather than retrying.
	o := linearOracle(100, 110)
	loc := NewLocator(o, nil, 0)

	_, err := loc.Locate(context.Background(), 900)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, errLedgerNotFound) {
		t.Fatalf("expected wrapped oracle error, got %v", err)
	}
}

func TestLocateDegenerateBracket(t *testing.T) {
	o := &fakeOracle{
		first:   100,
		latest:  110,
		closeAt: func(int64) int64 { return 1000 },
	}
	loc := NewLocator(o, nil, 0)

	_, err := loc.Locate(context.Background(), 999)
	if !errors.Is(err, ErrDegenerateBracket) {
		t.Fatalf("expected ErrDegenerateBracket, got %v", err)
	}
}

func TestLocateReportsEveryAdvance(t *testing.T) {
	o := linearOracle(100, 110)
	rep := &recordingReporter{}
	loc := NewLocator(o, rep, 0)

	res, err := loc.Locate(context.Background(), 1025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One record for the latest-validated seed plus one per fetch.
	if len(rep.samples) != res.Iterations+1 {
		t.Fatalf("expected %d reports, got %d", res.Iterations+1, len(rep.samples))
	}
	if rep.samples[0].Sequence != 110 {
		t.Fatalf("expected first report to be the latest validated ledger, got %d", rep.samples[0].Sequence)
	}
}

func TestLocateSeedWidth(t *testing.T) {
	o := linearOracle(100, 110)
	loc := NewLocator(o, nil, 3)

	if _, err := loc.Locate(context.Background(), 1045); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.fetched) == 0 || o.fetched[0] != 107 {
		t.Fatalf("expected first fetch at 107, got %v", o.fetched)
	}
}
