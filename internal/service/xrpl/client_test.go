package xrpl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"LedgerSeek/internal/usecase"

	"github.com/gorilla/websocket"
)

// rippledStub emulates the JSON-RPC ledger method of a rippled node holding
// ledgers [first, latest] with close times from closeAt.
func rippledStub(t *testing.T, first, latest int64, closeAt func(int64) int64) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			Params []struct {
				LedgerIndex interface{} `json:"ledger_index"`
			} `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.Method != "ledger" || len(req.Params) != 1 {
			t.Errorf("unexpected request: %+v", req)
			return
		}
		writeLedgerResult(w, req.Params[0].LedgerIndex, first, latest, closeAt)
	}
}

func writeLedgerResult(w http.ResponseWriter, ledgerIndex interface{}, first, latest int64, closeAt func(int64) int64) {
	var seq int64
	switch v := ledgerIndex.(type) {
	case string:
		seq = latest
	case float64:
		seq = int64(v)
	default:
		seq = -1
	}
	if seq < first || seq > latest {
		fmt.Fprint(w, `{"result":{"status":"error","error":"lgrNotFound","error_message":"ledgerNotFound"}}`)
		return
	}
	resp := map[string]interface{}{
		"result": map[string]interface{}{
			"status":       "success",
			"ledger_index": seq,
			"validated":    true,
			"ledger": map[string]interface{}{
				"close_time":       closeAt(seq),
				"close_time_human": "2020-Jan-01 00:00:00",
				"ledger_index":     fmt.Sprintf("%d", seq),
			},
		},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

func linearCloseAt(seq int64) int64 { return 1000 + 5*(seq-100) }

func TestFetchLatestValidated(t *testing.T) {
	srv := httptest.NewServer(rippledStub(t, 100, 110, linearCloseAt))
	defer srv.Close()

	oracle := NewHTTP(srv.URL, 5*time.Second, "", nil)
	s, err := oracle.FetchLatestValidated(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Sequence != 110 || s.CloseTime != 1050 {
		t.Fatalf("expected (110, 1050), got (%d, %d)", s.Sequence, s.CloseTime)
	}
}

func TestFetchCloseTime(t *testing.T) {
	srv := httptest.NewServer(rippledStub(t, 100, 110, linearCloseAt))
	defer srv.Close()

	oracle := NewHTTP(srv.URL, 5*time.Second, "", nil)
	ct, err := oracle.FetchCloseTime(context.Background(), 105)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct != 1025 {
		t.Fatalf("expected 1025, got %d", ct)
	}
}

func TestFetchCloseTimeNotFound(t *testing.T) {
	srv := httptest.NewServer(rippledStub(t, 100, 110, linearCloseAt))
	defer srv.Close()

	oracle := NewHTTP(srv.URL, 5*time.Second, "", nil)
	_, err := oracle.FetchCloseTime(context.Background(), 99)
	if err == nil {
		t.Fatalf("expected error for unknown ledger")
	}
	if !strings.Contains(err.Error(), "ledgerNotFound") {
		t.Fatalf("expected node error message, got %v", err)
	}
}

func TestFetchCloseTimeHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	oracle := NewHTTP(srv.URL, 5*time.Second, "", nil)
	if _, err := oracle.FetchCloseTime(context.Background(), 105); err == nil {
		t.Fatalf("expected error for HTTP failure")
	}
}

func TestLocateAgainstStubNode(t *testing.T) {
	srv := httptest.NewServer(rippledStub(t, 100, 110, linearCloseAt))
	defer srv.Close()

	oracle := NewHTTP(srv.URL, 5*time.Second, "", nil)
	loc := usecase.NewLocator(oracle, nil, 0)

	res, err := loc.Locate(context.Background(), 1025)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Sample.Sequence != 105 || !res.ExactMatch {
		t.Fatalf("expected exact match at 105, got %+v", res)
	}
}

func TestWSFetchCloseTime(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			var cmd struct {
				ID          int         `json:"id"`
				Command     string      `json:"command"`
				LedgerIndex interface{} `json:"ledger_index"`
			}
			if err := conn.ReadJSON(&cmd); err != nil {
				return
			}
			var seq int64
			switch v := cmd.LedgerIndex.(type) {
			case string:
				seq = 110
			case float64:
				seq = int64(v)
			}
			resp := map[string]interface{}{
				"id":     cmd.ID,
				"status": "success",
				"type":   "response",
				"result": map[string]interface{}{
					"ledger_index": seq,
					"validated":    true,
					"ledger": map[string]interface{}{
						"close_time":   linearCloseAt(seq),
						"ledger_index": fmt.Sprintf("%d", seq),
					},
				},
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	oracle := NewWS(url, 5*time.Second, nil)
	defer oracle.Close()

	s, err := oracle.FetchLatestValidated(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Sequence != 110 || s.CloseTime != 1050 {
		t.Fatalf("expected (110, 1050), got (%d, %d)", s.Sequence, s.CloseTime)
	}

	ct, err := oracle.FetchCloseTime(context.Background(), 103)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct != 1015 {
		t.Fatalf("expected 1015, got %d", ct)
	}
}
