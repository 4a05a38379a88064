package contracts

// Rank is the discrete tier assigned from growth and margin thresholds.
type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
)

// Qualifies reports whether the rank makes a company part of the screening
// report. B-ranked companies are computed but discarded before any price
// lookup is spent on them.
func (r Rank) Qualifies() bool {
	return r == RankS || r == RankA
}
