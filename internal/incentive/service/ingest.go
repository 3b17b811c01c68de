package service

import (
	"sort"

	"incentive-service/internal/incentive/catalog"
	"incentive-service/internal/incentive/model"
)

// ingestState carries everything a row walk accumulates besides the facts.
type ingestState struct {
	// every salesperson seen on any non-filtered row, keyed by normalized
	// name, value = first casing seen; feeds the zero-incentive fallback
	salespeople map[string]string
	unmatched   map[string]string // normalized label -> original label
}

// ingestRows walks the data rows below the header and emits one RowFact per
// row that produced a canonical department. Cell-level anomalies degrade to
// sentinels and never abort the walk.
func ingestRows(rows [][]any, hm *HeaderMap, cat *catalog.Catalog, diag *model.Diagnostics) ([]model.RowFact, *ingestState) {
	st := &ingestState{
		salespeople: map[string]string{},
		unmatched:   map[string]string{},
	}
	var facts []model.RowFact

	cell := func(row []any, f Field) any {
		i, ok := hm.Col(f)
		if !ok || i >= len(row) {
			return nil
		}
		return row[i]
	}

	for r := hm.Row + 1; r < len(rows); r++ {
		row := rows[r]
		if rowBlank(row) {
			diag.RowsSkippedBlank++
			continue
		}
		diag.RowsProcessed++

		// present-but-not-a-sale rows (returns, replacements) are excluded;
		// no sales-type column or a blank cell default-includes
		if _, ok := hm.Col(FieldSalesType); ok {
			typ := NormalizeKey(cell(row, FieldSalesType))
			if typ != "" && typ != "sale" && typ != "sales" {
				diag.RowsSkippedSalesType++
				continue
			}
		}

		date := ParseDate(cell(row, FieldDate))

		salesperson := Stringify(cell(row, FieldSalesperson))
		spKey := NormalizeKey(salesperson)
		if spKey != "" {
			if _, seen := st.salespeople[spKey]; !seen {
				st.salespeople[spKey] = salesperson
			}
		}

		customerID := Stringify(cell(row, FieldCustomer))
		custKey := NormalizeKey(customerID)
		if custKey == "" {
			diag.RowsNoCustomer++
			continue
		}

		rawDept := Stringify(cell(row, FieldDepartment))
		counter := Stringify(cell(row, FieldCounter))
		label := cat.FormatWithCounter(rawDept, counter)
		if label == "" {
			// not counted toward department coverage; the visit is unaffected
			diag.RowsNoDepartment++
			if k := NormalizeKey(rawDept); k != "" {
				if _, seen := st.unmatched[k]; !seen {
					st.unmatched[k] = rawDept
				}
			}
			continue
		}
		canonical, _ := cat.Canonicalize(rawDept)

		facts = append(facts, model.RowFact{
			Salesperson:    salesperson,
			SalespersonKey: spKey,
			Department:     label,
			DeptCanonical:  canonical,
			CustomerID:     customerID,
			CustomerKey:    custKey,
			CustomerName:   Stringify(cell(row, FieldAccountName)),
			Voucher:        Stringify(cell(row, FieldVoucher)),
			Counter:        counter,
			Date:           date,
		})
	}

	diag.UnmatchedDepartments = st.unmatchedList(cat)
	return facts, st
}

func (st *ingestState) unmatchedList(cat *catalog.Catalog) []model.UnmatchedDepartment {
	if len(st.unmatched) == 0 {
		return nil
	}
	keys := make([]string, 0, len(st.unmatched))
	for k := range st.unmatched {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]model.UnmatchedDepartment, 0, len(keys))
	for _, k := range keys {
		label := st.unmatched[k]
		out = append(out, model.UnmatchedDepartment{Label: label, Suggestion: cat.Suggest(label)})
	}
	return out
}
