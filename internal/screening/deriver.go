package screening

import (
	"math"

	"github.com/tkohno/guardian/internal/contracts"
)

// GrowthBase selects the denominator policy for the operating-profit growth
// rate. The two policies disagree when the prior period was a loss: strict
// treats a loss-to-profit swing as not evaluable, nonzero rates it against
// the absolute loss.
type GrowthBase string

const (
	// GrowthBaseStrictPositive requires a strictly positive prior operating
	// profit. The conservative default.
	GrowthBaseStrictPositive GrowthBase = "strict-positive"

	// GrowthBaseNonZero only requires a non-zero prior operating profit and
	// divides by its absolute value.
	GrowthBaseNonZero GrowthBase = "nonzero"
)

// DeriverConfig configures metric derivation.
type DeriverConfig struct {
	GrowthBase GrowthBase
}

// DefaultDeriverConfig returns the default configuration.
func DefaultDeriverConfig() DeriverConfig {
	return DeriverConfig{
		GrowthBase: GrowthBaseStrictPositive,
	}
}

// Deriver converts a pair of successive disclosures into the derived-metric
// set: growth, margin, ROE, equity ratio.
type Deriver struct {
	config DeriverConfig
}

// NewDeriver creates a new deriver.
func NewDeriver(config DeriverConfig) *Deriver {
	if config.GrowthBase == "" {
		config.GrowthBase = GrowthBaseStrictPositive
	}
	return &Deriver{config: config}
}

// Derive computes DerivedMetrics from the prior and current disclosure.
// Returns contracts.ErrNotEvaluable when the growth or margin guard fails;
// the company then drops out of the pass entirely. ROE and equity ratio are
// left nil when their denominators are not positive, which only suppresses
// their commentary, not the company.
func (d *Deriver) Derive(prior, current contracts.Disclosure) (contracts.DerivedMetrics, error) {
	var m contracts.DerivedMetrics

	switch d.config.GrowthBase {
	case GrowthBaseNonZero:
		if prior.OperatingProfit == 0 {
			return m, contracts.ErrNotEvaluable
		}
		m.Growth = (current.OperatingProfit - prior.OperatingProfit) / math.Abs(prior.OperatingProfit) * 100
	default:
		if prior.OperatingProfit <= 0 {
			return m, contracts.ErrNotEvaluable
		}
		m.Growth = (current.OperatingProfit - prior.OperatingProfit) / prior.OperatingProfit * 100
	}

	if current.NetSales <= 0 {
		return contracts.DerivedMetrics{}, contracts.ErrNotEvaluable
	}
	m.Margin = current.OperatingProfit / current.NetSales * 100

	if current.NetAssets > 0 {
		roe := current.NetIncome / current.NetAssets * 100
		m.ROE = &roe
	}

	if current.TotalAssets > 0 {
		ratio := current.NetAssets / current.TotalAssets * 100
		m.EquityRatio = &ratio
	}

	return m, nil
}
