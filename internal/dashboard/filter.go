// Package dashboard filters and summarizes scored leads and serves them as
// an HTML dashboard and JSON, GeoJSON, CSV and XLSX endpoints.
package dashboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/sells-group/leadscope/internal/model"
)

// Filter selects the qualified leads.
type Filter struct {
	// Location matches location or location_details, ignoring case. Empty
	// matches everything.
	Location string `json:"location"`
	MinScore int    `json:"min_score"`
}

// Apply returns the leads that pass f, highest score first. Ties keep their
// input order and the input slice is not modified.
func Apply(leads []model.Lead, f Filter) []model.Lead {
	needle := strings.ToLower(strings.TrimSpace(f.Location))

	out := make([]model.Lead, 0, len(leads))
	for _, l := range leads {
		if l.Score < f.MinScore {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(l.Location), needle) &&
			!strings.Contains(strings.ToLower(l.LocationDetails), needle) {
			continue
		}
		out = append(out, l)
	}

	slices.SortStableFunc(out, func(a, b model.Lead) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}
