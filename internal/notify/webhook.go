package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/tkohno/guardian/internal/watchlist"
	"github.com/tkohno/guardian/pkg/httputil"
	"github.com/tkohno/guardian/pkg/logger"
)

// Webhook delivers watch alerts to a configured URL as a single best-effort
// JSON POST. Delivery failures are logged and swallowed; an alert is never
// worth failing a refresh over.
type Webhook struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	url        string
}

// NewWebhook creates a webhook notifier. An empty URL disables delivery.
func NewWebhook(url string, httpClient *httputil.Client, log *logger.Logger) *Webhook {
	return &Webhook{
		httpClient: httpClient,
		logger:     log,
		url:        url,
	}
}

// Enabled reports whether a delivery URL is configured.
func (w *Webhook) Enabled() bool {
	return w.url != ""
}

// alertPayload is the webhook body
type alertPayload struct {
	Code       string   `json:"code"`
	Status     string   `json:"status"`
	Label      string   `json:"label"`
	Price      *float64 `json:"price"`
	PnLPercent *float64 `json:"pnl_percent"`
	SentAt     string   `json:"sent_at"`
}

// Alert posts one snapshot. One attempt, fire and forget.
func (w *Webhook) Alert(ctx context.Context, snapshot watchlist.Snapshot) {
	if !w.Enabled() {
		return
	}

	payload := alertPayload{
		Code:       snapshot.Item.Code,
		Status:     string(snapshot.Status),
		Label:      snapshot.Label,
		Price:      snapshot.Price,
		PnLPercent: snapshot.PnLPercent,
		SentAt:     time.Now().Format(time.RFC3339),
	}

	resp, err := w.httpClient.PostJSON(ctx, w.url, payload)
	if err != nil {
		w.logger.WithError(err).WithField("code", snapshot.Item.Code).Warn("Webhook delivery failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		w.logger.WithFields(map[string]interface{}{
			"code":        snapshot.Item.Code,
			"status_code": resp.StatusCode,
		}).Warn("Webhook rejected")
		return
	}

	w.logger.WithFields(map[string]interface{}{
		"code":   snapshot.Item.Code,
		"status": snapshot.Status,
	}).Info("Alert delivered")
}
