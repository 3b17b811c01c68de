package service

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"incentive-service/internal/incentive/model"
)

// Field is a logical column the engine cares about.
type Field string

const (
	FieldSalesperson Field = "salesperson"
	FieldDepartment  Field = "department"
	FieldCustomer    Field = "customer"
	FieldDate        Field = "date"
	FieldVoucher     Field = "voucher"
	FieldCounter     Field = "counter"
	FieldAccountName Field = "accountName"
	FieldSalesType   Field = "salesType"
)

var requiredFields = []Field{FieldSalesperson, FieldDepartment, FieldCustomer}

var optionalFields = []Field{FieldDate, FieldVoucher, FieldCounter, FieldAccountName, FieldSalesType}

// Aliases maps each logical field to its ordered candidate header names.
type Aliases map[Field][]string

// DefaultAliases covers the header variants seen across the source POS
// exports. New variants belong in a columns file, not here.
func DefaultAliases() Aliases {
	return Aliases{
		FieldSalesperson: {"salesman name", "sales person", "salesperson", "salesman", "staff name", "employee name"},
		FieldDepartment:  {"item group", "department", "dept", "product group", "category"},
		FieldCustomer:    {"mobile no", "mobile number", "customer id", "phone", "contact no", "customer no"},
		FieldDate:        {"date", "bill date", "voucher date", "invoice date"},
		FieldVoucher:     {"voucher no", "bill no", "invoice no", "receipt no"},
		FieldCounter:     {"counter", "location", "branch"},
		FieldAccountName: {"account name", "customer name", "party name"},
		FieldSalesType:   {"sales type", "transaction type", "voucher type", "txn type"},
	}
}

// LoadAliases merges a YAML columns file (field -> list of header names) over
// the defaults.
func LoadAliases(path string) (Aliases, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string][]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("columns %s: %w", path, err)
	}
	out := DefaultAliases()
	for f, list := range raw {
		out[Field(f)] = list
	}
	return out, nil
}

// HeaderMap is the outcome of header resolution.
type HeaderMap struct {
	Row     int           // 0-based index of the located header row
	Columns map[Field]int // 0-based column index per resolved field
	Headers []string      // literal non-empty header labels, for error reporting
}

func (h *HeaderMap) Col(f Field) (int, bool) {
	i, ok := h.Columns[f]
	return i, ok
}

// ResolveHeader locates the header row (configured 1-based position first,
// falling back to the first row with any non-empty cell) and maps each
// logical field to a column. Missing required fields fail fast.
func ResolveHeader(rows [][]any, headerRow int, aliases Aliases) (*HeaderMap, error) {
	if len(rows) == 0 {
		return nil, &model.StructuralError{Reason: "workbook has no rows"}
	}
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) || rowBlank(rows[idx]) {
		idx = firstNonBlankRow(rows)
		if idx < 0 {
			return nil, &model.StructuralError{Reason: "every row in the sheet is empty"}
		}
	}

	cells := make([]string, len(rows[idx]))
	var literal []string
	for i, c := range rows[idx] {
		cells[i] = NormalizeKey(c)
		if s := Stringify(c); s != "" {
			literal = append(literal, s)
		}
	}

	hm := &HeaderMap{Row: idx, Columns: map[Field]int{}, Headers: literal}
	var missing []string
	for _, f := range requiredFields {
		if i := matchColumn(cells, aliases[f]); i >= 0 {
			hm.Columns[f] = i
		} else {
			missing = append(missing, string(f))
		}
	}
	if len(missing) > 0 {
		return nil, &model.MissingColumnsError{Missing: missing, Headers: literal}
	}
	for _, f := range optionalFields {
		if i := matchColumn(cells, aliases[f]); i >= 0 {
			hm.Columns[f] = i
		}
	}
	return hm, nil
}

// matchColumn tries each alias in order: an exact scan, then a
// contains-in-either-direction scan. Leftmost match wins.
func matchColumn(cells []string, aliases []string) int {
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		for i, h := range cells {
			if h == a {
				return i
			}
		}
		for i, h := range cells {
			if h != "" && (strings.Contains(h, a) || strings.Contains(a, h)) {
				return i
			}
		}
	}
	return -1
}

func rowBlank(row []any) bool {
	for _, c := range row {
		if Stringify(c) != "" {
			return false
		}
	}
	return true
}

func firstNonBlankRow(rows [][]any) int {
	for i, row := range rows {
		if !rowBlank(row) {
			return i
		}
	}
	return -1
}
