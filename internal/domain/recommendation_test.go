package domain

import "testing"

func TestRelevancePercent(t *testing.T) {
	score := func(v float64) *float64 { return &v }

	cases := []struct {
		score *float64
		want  string
	}{
		{score(0.876), "88%"},
		{score(0.0), "0%"},
		{score(1.0), "100%"},
		{score(0.004), "0%"},
		{score(1.2), "100%"},
		{score(-0.3), "0%"},
		{nil, ""},
	}

	for _, c := range cases {
		rec := StructuredRecommendation{Title: "x", RelevanceScore: c.score}
		if got := rec.RelevancePercent(); got != c.want {
			t.Errorf("RelevancePercent(%v) = %q, want %q", c.score, got, c.want)
		}
	}
}
