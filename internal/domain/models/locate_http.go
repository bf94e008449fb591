package models

// Requests and responses for the locate HTTP endpoints. Defined in domain for
// consistency and reuse.

type LocateRequest struct {
	Time string `query:"time" json:"time" validate:"required"`
}

type HistoryRequest struct {
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=1000"`
}

// LocateResponse is the outcome of one search: the ledger whose close time
// matches (or immediately precedes) the requested time.
type LocateResponse struct {
	Sequence   int64  `json:"sequence"`
	CloseTime  int64  `json:"close_time"`
	ClosedAt   string `json:"closed_at"`
	ExactMatch bool   `json:"exact_match"`
	Iterations int    `json:"iterations"`
	DurationMS int64  `json:"duration_ms"`
}

// Lookup is one completed search as recorded by the history store.
type Lookup struct {
	Target      int64  `json:"target"`
	Sequence    int64  `json:"sequence"`
	CloseTime   int64  `json:"close_time"`
	Iterations  int    `json:"iterations"`
	DurationMS  int64  `json:"duration_ms"`
	RequestedAt string `json:"requested_at"`
}
