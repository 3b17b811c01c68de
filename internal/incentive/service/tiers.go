package service

import (
	"incentive-service/internal/incentive/model"
)

// TierAmount maps a visit's distinct-department count to the cash incentive.
// Step function, no interpolation.
func TierAmount(departments int) int {
	switch {
	case departments >= 5:
		return 80
	case departments == 4:
		return 60
	case departments == 3:
		return 40
	case departments == 2:
		return 20
	default:
		return 0
	}
}

// breakdownEntries produces one full-amount entry per linked salesperson.
// The amount is deliberately not divided among co-handling salespeople: each
// is credited for the same customer outcome. Zero-amount visits and visits
// with no linked salespeople produce nothing.
func breakdownEntries(v *model.Visit) map[string]model.BreakdownEntry {
	union := visitUnion(v)
	amount := TierAmount(union.Count())
	if amount == 0 || len(v.Salespeople) == 0 {
		return nil
	}
	visited := union.Labels()
	out := make(map[string]model.BreakdownEntry, len(v.Salespeople))
	for key, sp := range v.Salespeople {
		out[key] = model.BreakdownEntry{
			CustomerID:         v.CustomerID,
			CustomerName:       v.CustomerName,
			Amount:             amount,
			TotalDepartments:   union.Count(),
			DepartmentsVisited: visited,
			HandledDepartments: sp.Departments.Labels(),
			Date:               v.Date,
		}
	}
	return out
}
