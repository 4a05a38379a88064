package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

func fptr(v float64) *float64 { return &v }

func TestAlertDelivers(t *testing.T) {
	var received alertPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
	}))
	defer srv.Close()

	log := logger.NewWriter(io.Discard)
	w := NewWebhook(srv.URL, httputil.New(log).DisableRetry(), log)

	w.Alert(context.Background(), watchlist.Snapshot{
		Item:       contracts.WatchItem{Code: "7203", EntryPrice: 2000},
		Price:      fptr(1790),
		PnLPercent: fptr(-10.5),
		Status:     watchlist.StatusStopLoss,
		Label:      watchlist.StatusStopLoss.Label(),
	})

	if received.Code != "7203" {
		t.Errorf("payload code = %q, want 7203", received.Code)
	}
	if received.Status != "stop_loss" {
		t.Errorf("payload status = %q, want stop_loss", received.Status)
	}
	if received.PnLPercent == nil || *received.PnLPercent != -10.5 {
		t.Errorf("payload pnl = %v, want -10.5", received.PnLPercent)
	}
}

func TestAlertDisabledWithoutURL(t *testing.T) {
	log := logger.NewWriter(io.Discard)
	w := NewWebhook("", httputil.New(log), log)

	if w.Enabled() {
		t.Error("Expected webhook to be disabled without URL")
	}

	// Must be a no-op, not a panic or an error
	w.Alert(context.Background(), watchlist.Snapshot{})
}

func TestAlertSwallowsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	log := logger.NewWriter(io.Discard)
	w := NewWebhook(srv.URL, httputil.New(log).DisableRetry(), log)

	// Best effort: no error surfaces
	w.Alert(context.Background(), watchlist.Snapshot{
		Item: contracts.WatchItem{Code: "7203", EntryPrice: 2000},
	})
}
