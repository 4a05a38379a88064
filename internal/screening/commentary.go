package screening

import (
	"fmt"
	"strings"

	"github.com/tkohno/guardian/internal/contracts"
)

// CommentaryConfig defines the thresholds behind each optional fragment.
type CommentaryConfig struct {
	ValuationMaxPER  float64 // 割安: PER below this
	EfficiencyMinROE float64 // 高効率: ROE at or above this
	SafetyMinEquity  float64 // 財務健全: equity ratio at or above this
}

// DefaultCommentaryConfig returns the default thresholds.
func DefaultCommentaryConfig() CommentaryConfig {
	return CommentaryConfig{
		ValuationMaxPER:  15.0,
		EfficiencyMinROE: 8.0,
		SafetyMinEquity:  50.0,
	}
}

// Commentator renders the deterministic explanation string for a ranked
// company. Same inputs always produce the same output; there is no hidden
// state, which keeps the text golden-testable.
type Commentator struct {
	config CommentaryConfig
}

// NewCommentator creates a new commentator.
func NewCommentator(config CommentaryConfig) *Commentator {
	return &Commentator{config: config}
}

// Render builds the commentary from the rank, the derived metrics and the
// externally obtained PER. Each fragment's threshold is independent of the
// others. Unknown inputs (nil PER, ROE or equity ratio) suppress their
// fragment entirely instead of rendering a placeholder.
func (c *Commentator) Render(rank contracts.Rank, m contracts.DerivedMetrics, per *float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%sランク評価: 成長率%.1f%% 利益率%.1f%%", rank, m.Growth, m.Margin)

	if per != nil && *per < c.config.ValuationMaxPER {
		b.WriteString(" | 💎割安")
	}
	if m.ROE != nil && *m.ROE >= c.config.EfficiencyMinROE {
		b.WriteString(" | 👑高効率")
	}
	if m.EquityRatio != nil && *m.EquityRatio >= c.config.SafetyMinEquity {
		b.WriteString(" | 🛡財務健全")
	}

	return b.String()
}
