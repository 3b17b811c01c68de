package service

import (
	"sort"
	"strings"
	"time"

	"incentive-service/internal/incentive/model"
)

type TimeframeMode string

const (
	TimeframeAll  TimeframeMode = "all"
	TimeframeDay  TimeframeMode = "day"
	TimeframeWeek TimeframeMode = "week"
)

func ParseTimeframeMode(s string) (TimeframeMode, bool) {
	switch TimeframeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", TimeframeAll:
		return TimeframeAll, true
	case TimeframeDay:
		return TimeframeDay, true
	case TimeframeWeek:
		return TimeframeWeek, true
	}
	return "", false
}

// ApplyTimeframe restricts each breakdown to the selected window and
// recomputes the filtered total and distinct-customer count. Entries without
// an ISO date are excluded from day/week views but included in all.
// The window [anchor, anchor+6] is inclusive on both ends, computed in UTC
// calendar arithmetic so daylight shifts cannot drift the boundary.
func ApplyTimeframe(metrics []model.SalespersonMetric, mode TimeframeMode, anchor string) []model.TimeframeView {
	var from, to time.Time
	anchorT, err := time.Parse("2006-01-02", anchor)
	haveWindow := err == nil
	if haveWindow {
		from = anchorT.UTC()
		to = from
		if mode == TimeframeWeek {
			to = from.AddDate(0, 0, 6)
		}
	}

	keep := func(e model.BreakdownEntry) bool {
		if mode == TimeframeAll {
			return true
		}
		if !haveWindow {
			return false
		}
		t, known := e.Date.Time()
		if !known {
			return false
		}
		return !t.Before(from) && !t.After(to)
	}

	out := make([]model.TimeframeView, 0, len(metrics))
	for _, m := range metrics {
		view := model.TimeframeView{Name: m.Name, Departments: m.Departments}
		customers := map[string]struct{}{}
		for _, e := range m.Breakdown {
			if !keep(e) {
				continue
			}
			view.Breakdown = append(view.Breakdown, e)
			view.TotalIncentive += e.Amount
			customers[NormalizeKey(e.CustomerID)] = struct{}{}
		}
		view.DistinctCustomers = len(customers)
		out = append(out, view)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalIncentive != out[j].TotalIncentive {
			return out[i].TotalIncentive > out[j].TotalIncentive
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
