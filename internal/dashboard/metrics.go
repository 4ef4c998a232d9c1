package dashboard

import (
	"cmp"
	"slices"

	"github.com/sells-group/leadscope/internal/model"
)

// DefaultTopHubs is how many headquarters Summarize ranks when not told.
const DefaultTopHubs = 5

// HubCount is the number of qualified leads at one headquarters.
type HubCount struct {
	HQ    string `json:"hq"`
	Count int    `json:"count"`
}

// Metrics are the KPI figures shown above the lead table.
type Metrics struct {
	TotalFound int        `json:"total_found"`
	Qualified  int        `json:"qualified"`
	AvgScore   float64    `json:"avg_score"`
	Remote     int        `json:"remote"`
	HQBased    int        `json:"hq_based"`
	TopHubs    []HubCount `json:"top_hubs"`
}

// Summarize computes metrics for the qualified leads out of total found.
// TopHubs ranks company_hq by frequency, ties by name, keeping at most topN
// (DefaultTopHubs when topN <= 0).
func Summarize(total int, qualified []model.Lead, topN int) Metrics {
	if topN <= 0 {
		topN = DefaultTopHubs
	}

	m := Metrics{
		TotalFound: total,
		Qualified:  len(qualified),
		TopHubs:    []HubCount{},
	}
	if len(qualified) == 0 {
		return m
	}

	var sum int
	counts := make(map[string]int)
	for _, l := range qualified {
		sum += l.Score
		if l.IsRemote {
			m.Remote++
		}
		counts[l.CompanyHQ]++
	}
	m.AvgScore = float64(sum) / float64(len(qualified))
	m.HQBased = m.Qualified - m.Remote

	for hq, n := range counts {
		m.TopHubs = append(m.TopHubs, HubCount{HQ: hq, Count: n})
	}
	slices.SortFunc(m.TopHubs, func(a, b HubCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.HQ, b.HQ)
	})
	if len(m.TopHubs) > topN {
		m.TopHubs = m.TopHubs[:topN]
	}
	return m
}
