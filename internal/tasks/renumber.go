package tasks

import "sort"

// idShift moves one surviving task from identifier From to To.
type idShift struct {
	From int64
	To   int64
}

// planRenumber returns the shifts that close the gap left by deleted. Shifts
// are ordered by ascending From so every target is vacated before it is
// reused.
func planRenumber(remaining []int64, deleted int64) []idShift {
	later := make([]int64, 0, len(remaining))
	for _, id := range remaining {
		if id > deleted {
			later = append(later, id)
		}
	}
	sort.Slice(later, func(i, j int) bool { return later[i] < later[j] })

	plan := make([]idShift, 0, len(later))
	for _, id := range later {
		plan = append(plan, idShift{From: id, To: id - 1})
	}
	return plan
}
