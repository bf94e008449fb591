package xrpl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"LedgerSeek/internal/domain/models"
	drepo "LedgerSeek/internal/domain/repository"
	xhttp "LedgerSeek/pkg/http"
)

// ledgerIndexValidated asks the node for the most recently validated ledger
// instead of a specific sequence.
const ledgerIndexValidated = "validated"

// rpcRequest is the JSON-RPC envelope rippled's HTTP endpoint expects:
// a method name and a single-element params array.
type rpcRequest struct {
	Method string        `json:"method"`
	Params []interface{} `json:"params"`
}

type ledgerParams struct {
	LedgerIndex interface{} `json:"ledger_index"` // sequence number or "validated"
}

// ledgerHeader is the subset of the ledger header the search needs.
// rippled encodes ledger_index as a string inside the header but as a number
// at the result level, so json.Number covers both.
type ledgerHeader struct {
	CloseTime      int64       `json:"close_time"`
	CloseTimeHuman string      `json:"close_time_human"`
	LedgerIndex    json.Number `json:"ledger_index"`
}

type rpcReply struct {
	Result struct {
		Status       string        `json:"status"`
		Error        string        `json:"error,omitempty"`
		ErrorMessage string        `json:"error_message,omitempty"`
		LedgerIndex  int64         `json:"ledger_index"`
		Validated    bool          `json:"validated"`
		Ledger       *ledgerHeader `json:"ledger"`
	} `json:"result"`
}

// Client implements a TimeOracle backed by a rippled JSON-RPC HTTP endpoint,
// such as the s2.ripple.com full-history cluster. That cluster is a
// best-effort public service with no particular reliability guarantee.
type Client struct {
	endpoint string
	http     *xhttp.Client
	metrics  drepo.Metrics
}

// NewHTTP creates a new HTTP-transport TimeOracle.
func NewHTTP(endpoint string, timeout time.Duration, userAgent string, m drepo.Metrics) drepo.TimeOracle {
	if userAgent == "" {
		userAgent = "ledgerseek"
	}
	return &Client{
		endpoint: endpoint,
		http: xhttp.NewClient(
			xhttp.WithTimeout(timeout),
			xhttp.WithUserAgent(userAgent),
		),
		metrics: m,
	}
}

// FetchCloseTime returns the close time of the ledger with the given
// sequence, in seconds since the Ripple epoch.
func (c *Client) FetchCloseTime(ctx context.Context, sequence int64) (int64, error) {
	header, err := c.fetchHeader(ctx, sequence)
	if err != nil {
		return 0, err
	}
	return header.CloseTime, nil
}

// FetchLatestValidated returns the sequence and close time of the most
// recently validated ledger.
func (c *Client) FetchLatestValidated(ctx context.Context) (models.Sample, error) {
	reply, err := c.query(ctx, ledgerIndexValidated)
	if err != nil {
		return models.Sample{}, err
	}
	seq := reply.Result.LedgerIndex
	if seq == 0 {
		// Older nodes only carry the index inside the header, as a string.
		seq, err = reply.Result.Ledger.LedgerIndex.Int64()
		if err != nil {
			return models.Sample{}, fmt.Errorf("parse ledger_index: %w", err)
		}
	}
	return models.Sample{Sequence: seq, CloseTime: reply.Result.Ledger.CloseTime}, nil
}

func (c *Client) fetchHeader(ctx context.Context, sequence int64) (*ledgerHeader, error) {
	reply, err := c.query(ctx, sequence)
	if err != nil {
		return nil, err
	}
	return reply.Result.Ledger, nil
}

func (c *Client) query(ctx context.Context, ledgerIndex interface{}) (*rpcReply, error) {
	if c.metrics != nil {
		c.metrics.RecordOracleCall("ledger")
	}

	req := rpcRequest{
		Method: "ledger",
		Params: []interface{}{ledgerParams{LedgerIndex: ledgerIndex}},
	}

	var reply rpcReply
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    c.endpoint,
		Body:   req,
	}, &reply)
	if err != nil {
		c.recordError("transport")
		return nil, fmt.Errorf("xrpl query ledger_index=%v: %w", ledgerIndex, err)
	}

	if reply.Result.Status != "success" {
		c.recordError("rpc")
		msg := reply.Result.ErrorMessage
		if msg == "" {
			msg = reply.Result.Error
		}
		return nil, fmt.Errorf("xrpl query ledger_index=%v: %s", ledgerIndex, msg)
	}
	if reply.Result.Ledger == nil {
		c.recordError("rpc")
		return nil, fmt.Errorf("xrpl query ledger_index=%v: no ledger in reply", ledgerIndex)
	}

	return &reply, nil
}

func (c *Client) recordError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}
