package watchlist

import (
	"context"

	"github.com/tkohno/guardian/internal/contracts"
	"github.com/tkohno/guardian/pkg/logger"
)

// Status is the tiered alert level of a watched position.
type Status string

const (
	StatusStopLoss   Status = "stop_loss"
	StatusCaution    Status = "caution"
	StatusTakeProfit Status = "take_profit"
	StatusRising     Status = "rising"
	StatusWatching   Status = "watching"
	StatusUnknown    Status = "unknown" // price lookup failed
)

// Label returns the display label shown on the dashboard.
func (s Status) Label() string {
	switch s {
	case StatusStopLoss:
		return "⛔ 損切り (-10%)"
	case StatusCaution:
		return "⚠️ 警戒 (-3%〜)"
	case StatusTakeProfit:
		return "🎉 利確 (+20%)"
	case StatusRising:
		return "📈 上昇 (+5%〜)"
	case StatusWatching:
		return "🟢 監視中"
	default:
		return "取得エラー"
	}
}

// Alerting reports whether the status should trigger a notification.
// Plain rises and normal watching stay quiet.
func (s Status) Alerting() bool {
	return s == StatusStopLoss || s == StatusCaution || s == StatusTakeProfit
}

// Thresholds are the P/L percentages separating the tiers.
type Thresholds struct {
	StopLoss   float64 // at or below: stop-loss
	Caution    float64 // at or below: caution
	TakeProfit float64 // at or above: take-profit
	Rising     float64 // at or above: rising
}

// DefaultThresholds returns the default tier boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StopLoss:   -10.0,
		Caution:    -3.0,
		TakeProfit: 20.0,
		Rising:     5.0,
	}
}

// Classify maps a P/L percentage to its tier. Losses win over gains,
// matching the order the dashboard evaluates them in.
func (t Thresholds) Classify(pct float64) Status {
	switch {
	case pct <= t.StopLoss:
		return StatusStopLoss
	case pct <= t.Caution:
		return StatusCaution
	case pct >= t.TakeProfit:
		return StatusTakeProfit
	case pct >= t.Rising:
		return StatusRising
	default:
		return StatusWatching
	}
}

// Snapshot is the current state of one watched position.
type Snapshot struct {
	Item       contracts.WatchItem `json:"item"`
	Price      *float64            `json:"price"`       // nil when the lookup failed
	PnLPercent *float64            `json:"pnl_percent"` // nil when the lookup failed
	Status     Status              `json:"status"`
	Label      string              `json:"label"`
}

// Monitor refreshes watched positions against current prices.
type Monitor struct {
	store      *Store
	prices     contracts.PriceLookup
	thresholds Thresholds
	logger     *logger.Logger
}

// NewMonitor creates a new monitor.
func NewMonitor(store *Store, prices contracts.PriceLookup, thresholds Thresholds, log *logger.Logger) *Monitor {
	return &Monitor{
		store:      store,
		prices:     prices,
		thresholds: thresholds,
		logger:     log,
	}
}

// Refresh looks up every watched position once, sequentially, and returns
// one snapshot per item in list order. A failed lookup yields an unknown
// snapshot, never drops the item.
func (m *Monitor) Refresh(ctx context.Context) ([]Snapshot, error) {
	items, err := m.store.Load()
	if err != nil {
		return nil, err
	}

	snapshots := make([]Snapshot, 0, len(items))
	for _, item := range items {
		select {
		case <-ctx.Done():
			return snapshots, ctx.Err()
		default:
		}

		snapshots = append(snapshots, m.snapshot(ctx, item))
	}

	m.logger.WithField("count", len(snapshots)).Debug("Watch list refreshed")
	return snapshots, nil
}

func (m *Monitor) snapshot(ctx context.Context, item contracts.WatchItem) Snapshot {
	price, _, err := m.prices.Current(ctx, item.Code)
	if err != nil || price == nil {
		return Snapshot{
			Item:   item,
			Status: StatusUnknown,
			Label:  StatusUnknown.Label(),
		}
	}

	pct := (*price - item.EntryPrice) / item.EntryPrice * 100
	status := m.thresholds.Classify(pct)

	return Snapshot{
		Item:       item,
		Price:      price,
		PnLPercent: &pct,
		Status:     status,
		Label:      status.Label(),
	}
}
