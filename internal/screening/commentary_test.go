package screening

import (
	"strings"
	"testing"

	"github.com/tkohno/guardian/internal/contracts"
)

func fptr(v float64) *float64 { return &v }

func TestRenderGolden(t *testing.T) {
	tests := []struct {
		name    string
		rank    contracts.Rank
		metrics contracts.DerivedMetrics
		per     *float64
		want    string
	}{
		{
			name: "all fragments",
			rank: contracts.RankS,
			metrics: contracts.DerivedMetrics{
				Growth:      30.0,
				Margin:      13.0,
				ROE:         fptr(12.5),
				EquityRatio: fptr(62.0),
			},
			per:  fptr(11.2),
			want: "Sランク評価: 成長率30.0% 利益率13.0% | 💎割安 | 👑高効率 | 🛡財務健全",
		},
		{
			name: "base only",
			rank: contracts.RankA,
			metrics: contracts.DerivedMetrics{
				Growth: 12.34,
				Margin: 5.67,
			},
			per:  nil,
			want: "Aランク評価: 成長率12.3% 利益率5.7%",
		},
		{
			name: "valuation only",
			rank: contracts.RankA,
			metrics: contracts.DerivedMetrics{
				Growth: 15.0,
				Margin: 8.0,
				ROE:    fptr(3.0),  // below efficiency threshold
			},
			per:  fptr(9.8),
			want: "Aランク評価: 成長率15.0% 利益率8.0% | 💎割安",
		},
		{
			name: "efficiency and safety, expensive stock",
			rank: contracts.RankS,
			metrics: contracts.DerivedMetrics{
				Growth:      22.0,
				Margin:      11.0,
				ROE:         fptr(8.0),  // boundary inclusive
				EquityRatio: fptr(50.0), // boundary inclusive
			},
			per:  fptr(40.0),
			want: "Sランク評価: 成長率22.0% 利益率11.0% | 👑高効率 | 🛡財務健全",
		},
	}

	c := NewCommentator(DefaultCommentaryConfig())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Render(tt.rank, tt.metrics, tt.per)
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Unknown ROE or equity ratio must suppress the fragment entirely,
// never render a placeholder.
func TestRenderSuppressesUnknownInputs(t *testing.T) {
	c := NewCommentator(DefaultCommentaryConfig())

	m := contracts.DerivedMetrics{Growth: 25.0, Margin: 12.0}
	got := c.Render(contracts.RankS, m, nil)

	for _, fragment := range []string{"割安", "高効率", "財務健全"} {
		if strings.Contains(got, fragment) {
			t.Errorf("Render() = %q, should not contain %q for unknown inputs", got, fragment)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	c := NewCommentator(DefaultCommentaryConfig())

	m := contracts.DerivedMetrics{
		Growth:      21.0,
		Margin:      10.5,
		ROE:         fptr(9.0),
		EquityRatio: fptr(55.0),
	}

	first := c.Render(contracts.RankS, m, fptr(12.0))
	for i := 0; i < 10; i++ {
		if got := c.Render(contracts.RankS, m, fptr(12.0)); got != first {
			t.Fatalf("Render() not deterministic: %q vs %q", got, first)
		}
	}
}
