package service

import (
	"sort"

	"incentive-service/internal/incentive/model"
)

// visitKey joins the normalized customer identity with the date grouping
// token. Same key in storage makes repeated ingestion idempotent there.
func visitKey(customerKey, dateKey string) string {
	return customerKey + "__" + dateKey
}

// aggregateVisits folds row facts into visits keyed (customer, calendar day).
func aggregateVisits(facts []model.RowFact) map[string]*model.Visit {
	visits := map[string]*model.Visit{}
	for _, f := range facts {
		key := visitKey(f.CustomerKey, f.Date.Key)
		v, ok := visits[key]
		if !ok {
			v = &model.Visit{
				CustomerID:  f.CustomerID,
				CustomerKey: f.CustomerKey,
				Date:        f.Date,
				Departments: model.NewDeptSet(),
				Salespeople: map[string]*model.VisitSalesperson{},
				Vouchers:    map[string]struct{}{},
			}
			visits[key] = v
		}
		if v.CustomerName == "" && f.CustomerName != "" {
			v.CustomerName = f.CustomerName
		}
		v.Departments.Add(f.Department, f.DeptCanonical)
		if f.SalespersonKey != "" {
			sp, ok := v.Salespeople[f.SalespersonKey]
			if !ok {
				sp = &model.VisitSalesperson{Name: f.Salesperson, Departments: model.NewDeptSet()}
				v.Salespeople[f.SalespersonKey] = sp
			}
			sp.Departments.Add(f.Department, f.DeptCanonical)
		}
		if f.Voucher != "" {
			v.Vouchers[f.Voucher] = struct{}{}
		}
	}
	return visits
}

// visitUnion is the set that feeds the incentive tier: departments recorded
// directly against customer rows unioned with every handling salesperson's
// departments. Never either side alone.
func visitUnion(v *model.Visit) *model.DeptSet {
	union := model.NewDeptSet()
	v.Departments.UnionInto(union)
	for _, sp := range v.Salespeople {
		sp.Departments.UnionInto(union)
	}
	return union
}

// visitRecords flattens visits for the persistence collaborator, in a
// deterministic order (date, then customer).
func visitRecords(visits map[string]*model.Visit) []model.VisitRecord {
	out := make([]model.VisitRecord, 0, len(visits))
	for _, v := range visits {
		union := visitUnion(v)
		sps := make([]string, 0, len(v.Salespeople))
		for _, sp := range v.Salespeople {
			sps = append(sps, sp.Name)
		}
		sort.Strings(sps)
		vouchers := make([]string, 0, len(v.Vouchers))
		for vo := range v.Vouchers {
			vouchers = append(vouchers, vo)
		}
		sort.Strings(vouchers)
		out = append(out, model.VisitRecord{
			CustomerKey:     v.CustomerKey,
			CustomerID:      v.CustomerID,
			CustomerName:    v.CustomerName,
			DateKey:         v.Date.Key,
			DateISO:         v.Date.ISO,
			Departments:     union.Labels(),
			DepartmentCount: union.Count(),
			Salespeople:     sps,
			Vouchers:        vouchers,
			Incentive:       TierAmount(union.Count()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DateKey != out[j].DateKey {
			return out[i].DateKey < out[j].DateKey
		}
		return out[i].CustomerKey < out[j].CustomerKey
	})
	return out
}
