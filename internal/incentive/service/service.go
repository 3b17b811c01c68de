// Package service is the ingestion/aggregation/incentive engine: it locates
// the table inside an unpredictable sheet layout, resolves columns by fuzzy
// name matching, normalizes heterogeneous cells, canonicalizes departments,
// groups rows into per-customer per-day visits, and computes tiered payouts
// with multi-salesperson attribution.
package service

import (
	"sort"

	"incentive-service/internal/incentive/catalog"
	"incentive-service/internal/incentive/model"
)

type Options struct {
	HeaderRow int // 1-based expected header position; fallback is automatic
	Aliases   Aliases
}

// Parse runs one full pass over a sheet matrix. One invocation owns all of
// its state; concurrent parses share nothing.
func Parse(rows [][]any, cat *catalog.Catalog, opt Options) (*model.Result, error) {
	aliases := opt.Aliases
	if aliases == nil {
		aliases = DefaultAliases()
	}

	hm, err := ResolveHeader(rows, opt.HeaderRow, aliases)
	if err != nil {
		return nil, err
	}
	if firstNonBlankRow(rows[hm.Row+1:]) < 0 {
		return nil, &model.StructuralError{Reason: "no data rows below the header row"}
	}

	diag := model.Diagnostics{
		HeaderRow: hm.Row + 1,
		Columns:   map[string]int{},
	}
	for f, i := range hm.Columns {
		diag.Columns[string(f)] = i
	}

	facts, st := ingestRows(rows, hm, cat, &diag)
	if len(facts) == 0 {
		return nil, &model.NoDataError{
			RowsProcessed:        diag.RowsProcessed,
			RowsSkipped:          diag.RowsSkippedBlank + diag.RowsSkippedSalesType + diag.RowsNoCustomer + diag.RowsNoDepartment,
			UnmatchedDepartments: diag.UnmatchedDepartments,
		}
	}

	visits := aggregateVisits(facts)
	metrics := buildMetrics(visits, st.salespeople)
	dates, labels := dateIndex(visits)

	return &model.Result{
		Metrics:      metrics,
		Visits:       visitRecords(visits),
		Interactions: facts,
		Dates:        dates,
		DateLabels:   labels,
		Diagnostics:  diag,
	}, nil
}

// dateIndex collects the sorted distinct ISO dates observed and their display
// labels.
func dateIndex(visits map[string]*model.Visit) ([]string, map[string]string) {
	labels := map[string]string{}
	for _, v := range visits {
		if v.Date.ISO != "" {
			labels[v.Date.ISO] = v.Date.Display
		}
	}
	dates := make([]string, 0, len(labels))
	for iso := range labels {
		dates = append(dates, iso)
	}
	sort.Strings(dates)
	return dates, labels
}
