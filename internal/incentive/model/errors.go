package model

import (
	"fmt"
	"strings"
)

// StructuralError: the workbook has no usable table at all. Ingestion aborts
// before any row processing.
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string {
	return "structural: " + e.Reason
}

// MissingColumnsError lists the required logical fields that could not be
// resolved, and echoes the literal headers that were found so the user can
// diagnose a renamed column without re-uploading blindly.
type MissingColumnsError struct {
	Missing []string
	Headers []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("required columns not found: %s (headers seen: %s)",
		strings.Join(e.Missing, ", "), strings.Join(e.Headers, " | "))
}

// NoDataError: the table was structurally fine but no row produced an
// incentive-eligible visit. Distinguishable from StructuralError so the user
// fixes their taxonomy, not their file.
type NoDataError struct {
	RowsProcessed        int
	RowsSkipped          int
	UnmatchedDepartments []UnmatchedDepartment
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no incentive-eligible rows: %d processed, %d skipped, %d unmatched department labels",
		e.RowsProcessed, e.RowsSkipped, len(e.UnmatchedDepartments))
}
