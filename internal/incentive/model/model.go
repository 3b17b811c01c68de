package model

import (
	"sort"
	"time"
)

// UnknownDateKey groups rows whose date cell could not be interpreted at all.
// Such rows still aggregate with each other for the same customer.
const UnknownDateKey = "unknown-date"

// DateInfo is the stable grouping token for one transaction date.
// Key is the ISO calendar date when parseable, otherwise a normalized text
// fallback, otherwise UnknownDateKey.
type DateInfo struct {
	Key     string `json:"key"`
	ISO     string `json:"iso,omitempty"` // YYYY-MM-DD, empty when unknown
	Display string `json:"display,omitempty"`
}

func (d DateInfo) Known() bool { return d.ISO != "" }

// Time returns the UTC midnight instant for a known date.
func (d DateInfo) Time() (time.Time, bool) {
	if d.ISO == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", d.ISO)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// RowFact is one ingested data row. Ephemeral: consumed by the visit
// aggregator and echoed in Result.Interactions for downstream persistence.
type RowFact struct {
	Salesperson    string   `json:"salesperson"`
	SalespersonKey string   `json:"-"`
	Department     string   `json:"department"` // display label, possibly counter-qualified
	DeptCanonical  string   `json:"-"`
	CustomerID     string   `json:"customerId"`
	CustomerKey    string   `json:"-"`
	CustomerName   string   `json:"customerName,omitempty"`
	Voucher        string   `json:"voucher,omitempty"`
	Counter        string   `json:"counter,omitempty"`
	Date           DateInfo `json:"date"`
}

// DeptSet tracks counter-qualified display labels together with the canonical
// names behind them. Tier counting uses the canonical set; listings use the
// label set.
type DeptSet struct {
	labels map[string]struct{}
	canon  map[string]struct{}
}

func NewDeptSet() *DeptSet {
	return &DeptSet{labels: map[string]struct{}{}, canon: map[string]struct{}{}}
}

func (s *DeptSet) Add(label, canonical string) {
	if label == "" || canonical == "" {
		return
	}
	s.labels[label] = struct{}{}
	s.canon[canonical] = struct{}{}
}

// Count is the number of distinct canonical departments, counter-stripped.
func (s *DeptSet) Count() int { return len(s.canon) }

func (s *DeptSet) Labels() []string { return sortedKeys(s.labels) }

func (s *DeptSet) Canonical() []string { return sortedKeys(s.canon) }

func (s *DeptSet) UnionInto(dst *DeptSet) {
	for l := range s.labels {
		dst.labels[l] = struct{}{}
	}
	for c := range s.canon {
		dst.canon[c] = struct{}{}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// VisitSalesperson is one salesperson's handling record within a visit.
type VisitSalesperson struct {
	Name        string
	Departments *DeptSet
}

// Visit is all transactions for one customer on one calendar day.
// Created lazily on the first row for its key, mutated by every matching row,
// and lives only for the duration of one parse pass.
type Visit struct {
	CustomerID   string
	CustomerKey  string
	CustomerName string
	Date         DateInfo
	Departments  *DeptSet // departments recorded directly against customer rows
	Salespeople  map[string]*VisitSalesperson
	Vouchers     map[string]struct{}
}

// VisitRecord is the flat visit-level aggregate handed to the persistence
// collaborator, keyed (CustomerKey, DateKey).
type VisitRecord struct {
	CustomerKey     string   `json:"customerKey"`
	CustomerID      string   `json:"customerId"`
	CustomerName    string   `json:"customerName,omitempty"`
	DateKey         string   `json:"dateKey"`
	DateISO         string   `json:"dateIso,omitempty"`
	Departments     []string `json:"departments"`
	DepartmentCount int      `json:"departmentCount"`
	Salespeople     []string `json:"salespeople"`
	Vouchers        []string `json:"vouchers,omitempty"`
	Incentive       int      `json:"incentive"`
}

// BreakdownEntry is one salesperson's credited incentive line for one visit.
// Immutable once created.
type BreakdownEntry struct {
	CustomerID         string   `json:"customerId"`
	CustomerName       string   `json:"customerName,omitempty"`
	Amount             int      `json:"amount"`
	TotalDepartments   int      `json:"totalDepartments"`
	DepartmentsVisited []string `json:"departmentsVisited"`
	HandledDepartments []string `json:"handledDepartments"`
	Date               DateInfo `json:"date"`
}

// SalespersonMetric is the per-salesperson rollup for one parse pass.
// Departments is the lifetime handled set, unfiltered by timeframe.
type SalespersonMetric struct {
	Name           string           `json:"name"`
	Departments    []string         `json:"departments"`
	Breakdown      []BreakdownEntry `json:"breakdown"`
	TotalIncentive int              `json:"totalIncentive"`
}

// TimeframeView is one salesperson's slice of the report for an active
// timeframe: filtered breakdown with recomputed totals.
type TimeframeView struct {
	Name              string           `json:"name"`
	Departments       []string         `json:"departments"`
	TotalIncentive    int              `json:"totalIncentive"`
	DistinctCustomers int              `json:"distinctCustomers"`
	Breakdown         []BreakdownEntry `json:"breakdown"`
}

// UnmatchedDepartment is a department label that resolved to nothing in the
// catalog, with the closest canonical name when one is plausible.
type UnmatchedDepartment struct {
	Label      string `json:"label"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Diagnostics replaces ad hoc debug logging: the caller decides what to do
// with it.
type Diagnostics struct {
	HeaderRow            int                   `json:"headerRow"` // 1-based, as located
	Columns              map[string]int        `json:"columns"`   // logical field -> 0-based index
	RowsProcessed        int                   `json:"rowsProcessed"`
	RowsSkippedBlank     int                   `json:"rowsSkippedBlank"`
	RowsSkippedSalesType int                   `json:"rowsSkippedSalesType"`
	RowsNoCustomer       int                   `json:"rowsNoCustomer"`
	RowsNoDepartment     int                   `json:"rowsNoDepartment"`
	UnmatchedDepartments []UnmatchedDepartment `json:"unmatchedDepartments,omitempty"`
}

// Result is everything one parse pass produces.
type Result struct {
	Metrics      []SalespersonMetric `json:"metrics"`
	Visits       []VisitRecord       `json:"visits"`
	Interactions []RowFact           `json:"interactions"`
	Dates        []string            `json:"dates"`
	DateLabels   map[string]string   `json:"dateLabels"`
	Diagnostics  Diagnostics         `json:"diagnostics"`
}
