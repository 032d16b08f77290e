package dto

import "time"

// RebuildSummaryRequest asks for a range of summaries to be recomputed.
// From and To are dates in YYYY-MM-DD form; To defaults to From.
type RebuildSummaryRequest struct {
	Granularity string `json:"granularity" binding:"required,oneof=daily monthly"`
	From        string `json:"from" binding:"required,datetime=2006-01-02"`
	To          string `json:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Range parses From and To.
func (r RebuildSummaryRequest) Range() (time.Time, time.Time, error) {
	from, err := time.Parse(time.DateOnly, r.From)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if r.To == "" {
		return from, from, nil
	}
	to, err := time.Parse(time.DateOnly, r.To)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}

// RebuildSummaryResponse reports how many periods were rebuilt.
type RebuildSummaryResponse struct {
	Rebuilt int      `json:"rebuilt"`
	Errors  []string `json:"errors,omitempty"`
}
