package screening

import "github.com/tkohno/guardian/internal/contracts"

// ClassifierConfig defines the rank thresholds. All lower bounds inclusive.
type ClassifierConfig struct {
	SMinGrowth float64 // S requires growth >= SMinGrowth AND margin >= SMinMargin
	SMinMargin float64
	AMinGrowth float64 // A requires growth >= AMinGrowth
}

// DefaultClassifierConfig returns the default thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		SMinGrowth: 20.0,
		SMinMargin: 10.0,
		AMinGrowth: 10.0,
	}
}

// Classifier assigns a rank tier from derived metrics. Price-independent.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a new classifier.
func NewClassifier(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// Classify maps (growth, margin) to a rank.
func (c *Classifier) Classify(m contracts.DerivedMetrics) contracts.Rank {
	if m.Growth >= c.config.SMinGrowth && m.Margin >= c.config.SMinMargin {
		return contracts.RankS
	}
	if m.Growth >= c.config.AMinGrowth {
		return contracts.RankA
	}
	return contracts.RankB
}
