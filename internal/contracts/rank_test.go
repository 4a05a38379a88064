package contracts

import "testing"

func TestRankQualifies(t *testing.T) {
	tests := []struct {
		rank Rank
		want bool
	}{
		{RankS, true},
		{RankA, true},
		{RankB, false},
		{Rank(""), false},
	}

	for _, tt := range tests {
		if got := tt.rank.Qualifies(); got != tt.want {
			t.Errorf("Rank(%q).Qualifies() = %v, want %v", tt.rank, got, tt.want)
		}
	}
}
