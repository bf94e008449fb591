package xrpl

import (
	"context"
	"fmt"
	"time"

	"LedgerSeek/internal/domain/models"
	drepo "LedgerSeek/internal/domain/repository"

	"github.com/gorilla/websocket"
)

// wsCommand is the envelope rippled's WebSocket API expects; unlike the HTTP
// endpoint, parameters are flattened into the command object.
type wsCommand struct {
	ID          int         `json:"id"`
	Command     string      `json:"command"`
	LedgerIndex interface{} `json:"ledger_index"`
}

type wsReply struct {
	ID     int    `json:"id"`
	Status string `json:"status"`
	Type   string `json:"type"`
	Error  string `json:"error,omitempty"`
	Result struct {
		LedgerIndex int64         `json:"ledger_index"`
		Validated   bool          `json:"validated"`
		Ledger      *ledgerHeader `json:"ledger"`
	} `json:"result"`
}

// WSClient implements a TimeOracle over rippled's WebSocket API. The search
// is fully synchronous, so one connection with strict request/reply pairing
// is enough; no concurrent use is supported.
type WSClient struct {
	url     string
	timeout time.Duration
	metrics drepo.Metrics

	conn   *websocket.Conn
	nextID int
}

// NewWS creates a new WebSocket-transport TimeOracle. The connection is
// dialed lazily on the first query.
func NewWS(url string, timeout time.Duration, m drepo.Metrics) *WSClient {
	return &WSClient{url: url, timeout: timeout, metrics: m}
}

// Connect establishes the WebSocket connection.
func (c *WSClient) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("xrpl ws connect: %w", err)
	}
	c.conn = conn
	return nil
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *WSClient) FetchCloseTime(ctx context.Context, sequence int64) (int64, error) {
	reply, err := c.query(ctx, sequence)
	if err != nil {
		return 0, err
	}
	return reply.Result.Ledger.CloseTime, nil
}

func (c *WSClient) FetchLatestValidated(ctx context.Context) (models.Sample, error) {
	reply, err := c.query(ctx, ledgerIndexValidated)
	if err != nil {
		return models.Sample{}, err
	}
	seq := reply.Result.LedgerIndex
	if seq == 0 {
		seq, err = reply.Result.Ledger.LedgerIndex.Int64()
		if err != nil {
			return models.Sample{}, fmt.Errorf("parse ledger_index: %w", err)
		}
	}
	return models.Sample{Sequence: seq, CloseTime: reply.Result.Ledger.CloseTime}, nil
}

func (c *WSClient) query(ctx context.Context, ledgerIndex interface{}) (*wsReply, error) {
	if c.conn == nil {
		if err := c.Connect(ctx); err != nil {
			c.recordError("transport")
			return nil, err
		}
	}
	if c.metrics != nil {
		c.metrics.RecordOracleCall("ledger")
	}

	c.nextID++
	cmd := wsCommand{ID: c.nextID, Command: "ledger", LedgerIndex: ledgerIndex}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = c.conn.SetWriteDeadline(deadline)
	if err := c.conn.WriteJSON(cmd); err != nil {
		c.recordError("transport")
		return nil, fmt.Errorf("xrpl ws write ledger_index=%v: %w", ledgerIndex, err)
	}

	_ = c.conn.SetReadDeadline(deadline)
	var reply wsReply
	if err := c.conn.ReadJSON(&reply); err != nil {
		c.recordError("transport")
		return nil, fmt.Errorf("xrpl ws read ledger_index=%v: %w", ledgerIndex, err)
	}

	if reply.Status != "success" {
		c.recordError("rpc")
		return nil, fmt.Errorf("xrpl ws query ledger_index=%v: %s", ledgerIndex, reply.Error)
	}
	if reply.Result.Ledger == nil {
		c.recordError("rpc")
		return nil, fmt.Errorf("xrpl ws query ledger_index=%v: no ledger in reply", ledgerIndex)
	}

	return &reply, nil
}

func (c *WSClient) recordError(kind string) {
	if c.metrics != nil {
		c.metrics.RecordError(kind)
	}
}
