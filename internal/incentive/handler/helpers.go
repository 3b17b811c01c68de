package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"incentive-service/internal/incentive/model"
)

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// writeEngineError maps the engine's error taxonomy onto HTTP statuses.
// Structural and missing-column failures mean "fix your file" (400);
// no-data means the file parsed but nothing qualified (422).
func writeEngineError(w http.ResponseWriter, err error) {
	var structural *model.StructuralError
	if errors.As(err, &structural) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "structural",
			"reason": structural.Reason,
		})
		return
	}
	var missing *model.MissingColumnsError
	if errors.As(err, &missing) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "missing_columns",
			"missing": missing.Missing,
			"headers": missing.Headers,
		})
		return
	}
	var noData *model.NoDataError
	if errors.As(err, &noData) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":                "no_data",
			"rowsProcessed":        noData.RowsProcessed,
			"rowsSkipped":          noData.RowsSkipped,
			"unmatchedDepartments": noData.UnmatchedDepartments,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal"})
}
