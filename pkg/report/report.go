// Package report computes workplace popularity rankings from fully
// materialized listing collections.
package report

import (
	"sort"

	"github.com/talentmarket/shiftpulse/pkg/listing"
)

// WorkplaceStatusActive is the single status value denoting an active
// workplace. Every other status is inactive and excluded from reporting.
const WorkplaceStatusActive = 0

// WorkplaceCount is one row of the ranking output.
type WorkplaceCount struct {
	Name       string `json:"name"`
	ShiftCount int    `json:"shiftCount"`
}

// TopWorkplaces ranks active workplaces by shift count, descending, and
// truncates to the first n entries. Ties keep the relative order of the
// filtered input. Pure: no I/O, no error conditions; empty inputs yield an
// empty or short result.
func TopWorkplaces(workplaces []listing.Workplace, shifts []listing.Shift, n int) []WorkplaceCount {
	counts := make(map[int64]int, len(workplaces))
	for _, s := range shifts {
		if s.WorkplaceID == 0 {
			continue
		}
		counts[s.WorkplaceID]++
	}

	ranked := make([]WorkplaceCount, 0, len(workplaces))
	for _, w := range workplaces {
		if w.Status != WorkplaceStatusActive {
			continue
		}
		ranked = append(ranked, WorkplaceCount{
			Name:       w.Name,
			ShiftCount: counts[w.ID],
		})
	}

	// Stable keeps filter order for equal counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ShiftCount > ranked[j].ShiftCount
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
