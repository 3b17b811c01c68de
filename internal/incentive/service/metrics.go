package service

import (
	"sort"
	"strings"

	"incentive-service/internal/incentive/model"
)

type metricAccum struct {
	name        string
	departments *model.DeptSet // lifetime handled set, timeframe-independent
	breakdown   []model.BreakdownEntry
	total       int
}

// buildMetrics rolls per-visit attributions into per-salesperson summaries.
// Salespeople who appeared on any row but earned nothing still get a metric
// with a zero total so they remain visible in listings.
func buildMetrics(visits map[string]*model.Visit, seen map[string]string) []model.SalespersonMetric {
	accum := map[string]*metricAccum{}
	get := func(key, name string) *metricAccum {
		m, ok := accum[key]
		if !ok {
			m = &metricAccum{name: name, departments: model.NewDeptSet()}
			accum[key] = m
		}
		return m
	}

	for _, v := range visits {
		entries := breakdownEntries(v)
		for key, sp := range v.Salespeople {
			m := get(key, sp.Name)
			sp.Departments.UnionInto(m.departments)
			if e, ok := entries[key]; ok {
				m.breakdown = append(m.breakdown, e)
				m.total += e.Amount
			}
		}
	}
	for key, name := range seen {
		get(key, name)
	}

	out := make([]model.SalespersonMetric, 0, len(accum))
	for _, m := range accum {
		sortBreakdown(m.breakdown)
		out = append(out, model.SalespersonMetric{
			Name:           m.name,
			Departments:    m.departments.Labels(),
			Breakdown:      m.breakdown,
			TotalIncentive: m.total,
		})
	}
	sortMetrics(out)
	return out
}

// date descending, ties by amount descending; unknown dates sort last
func sortBreakdown(entries []model.BreakdownEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Date.ISO != b.Date.ISO {
			return a.Date.ISO > b.Date.ISO
		}
		return a.Amount > b.Amount
	})
}

// total descending, ties by name ascending case-insensitive
func sortMetrics(metrics []model.SalespersonMetric) {
	sort.SliceStable(metrics, func(i, j int) bool {
		if metrics[i].TotalIncentive != metrics[j].TotalIncentive {
			return metrics[i].TotalIncentive > metrics[j].TotalIncentive
		}
		return strings.ToLower(metrics[i].Name) < strings.ToLower(metrics[j].Name)
	})
}
