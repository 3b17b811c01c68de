package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAny picks a parser by extension and returns the first sheet as a raw
// cell matrix. Header location and column resolution happen in the engine,
// so readers stay dumb: every cell comes back as text.
func ReadAny(r io.Reader, filename string) ([][]any, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return readXLSX(r)
	case ".xls":
		return readXLS(r)
	case ".csv":
		return readCSV(r)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filename)
	}
}

func toMatrix(rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, rec := range rows {
		cells := make([]any, len(rec))
		for j, v := range rec {
			cells[j] = normalizeCell(v)
		}
		out[i] = cells
	}
	return out
}

// normalizeCell strips the BOM and control garbage some exports carry.
func normalizeCell(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
