package contracts

import "time"

// Disclosure is one periodic financial filing for a company.
// Amounts are in yen as reported; fields missing or non-numeric upstream are
// parsed to 0 by the store (the deriver's denominator guards keep a missing
// field from producing a spurious ratio).
type Disclosure struct {
	Code            string    `json:"code"`
	DisclosedDate   time.Time `json:"disclosed_date"`
	OperatingProfit float64   `json:"operating_profit"`
	NetSales        float64   `json:"net_sales"`
	NetIncome       float64   `json:"net_income"`   // attributable to owners of parent
	TotalAssets     float64   `json:"total_assets"`
	NetAssets       float64   `json:"net_assets"`
}

// DerivedMetrics is the per-company metric set computed from two successive
// disclosures. ROE and EquityRatio are nil when their denominator is not
// positive: unknown, never 0 and never a sentinel.
type DerivedMetrics struct {
	Growth      float64  `json:"growth"`       // 営業利益成長率 (%)
	Margin      float64  `json:"margin"`       // 営業利益率 (%)
	ROE         *float64 `json:"roe"`          // 自己資本利益率 (%), nil when unknown
	EquityRatio *float64 `json:"equity_ratio"` // 自己資本比率 (%), nil when unknown
}

// ScreeningResult is one qualifying company from a screening pass.
// Held in memory for the duration of one report only.
type ScreeningResult struct {
	Code       string         `json:"code"`
	Rank       Rank           `json:"rank"`
	Metrics    DerivedMetrics `json:"metrics"`
	Price      *float64       `json:"price"` // nil when the price lookup failed
	PER        *float64       `json:"per"`   // nil when the price lookup failed
	Commentary string         `json:"commentary"`
}

// WatchItem is one watch-list position: a company code and the entry price.
// Owned by the watchlist package; the screening core never reads it.
type WatchItem struct {
	Code       string  `json:"code"`
	EntryPrice float64 `json:"entry"`
}
