package repository

import (
	"context"
	"time"

	"LedgerSeek/internal/domain/models"
)

// TimeOracle answers "what is the close time of ledger N" and "what is the
// latest validated ledger". Implementations own transport timeouts; callers
// do not retry.
type TimeOracle interface {
	FetchCloseTime(ctx context.Context, sequence int64) (int64, error)
	FetchLatestValidated(ctx context.Context) (models.Sample, error)
}

// Reporter receives every sample that advances a search. Purely
// observational; it carries no control meaning for the search itself.
type Reporter interface {
	Report(s models.Sample)
}

// HistoryStore records completed lookups for operator inspection. It is
// never consulted to answer a search.
type HistoryStore interface {
	Record(ctx context.Context, l *models.Lookup) error
	Recent(ctx context.Context, limit int) ([]*models.Lookup, error)
	Health(ctx context.Context) error
	Close() error
}

type Metrics interface {
	RecordOracleCall(method string)
	RecordError(kind string)
	RecordSearch(iterations int, d time.Duration)
	RecordLocated(sequence int64)
}
