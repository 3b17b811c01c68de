package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"incentive-service/internal/incentive/model"
	"incentive-service/internal/utils"
)

// Spreadsheet serial day 0. Serial 1 is 1900-01-01; the off-by-two absorbs
// the fictitious 1900-02-29.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serials outside this range are not dates (phone numbers, voucher codes).
const maxDateSerial = 200000

var rxNumericText = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Stringify converts any raw cell into its canonical text form. Never errors.
func Stringify(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return ""
		}
		return strconv.FormatFloat(f, 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.UTC().Format("2006-01-02 15:04:05")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// NormalizeKey is Stringify followed by identity normalization. Every
// identity comparison in the engine (salesperson, customer, department,
// date fallback) goes through this.
func NormalizeKey(cell any) string {
	return utils.NormKey(Stringify(cell))
}

// Layouts tried against free-text date cells, day-first forms before
// month-first since the source exports are day-first.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2-1-2006",
	"2/1/2006",
	"2.1.2006",
	"2-Jan-2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-1-2 15:04:05",
	"2-1-2006 15:04:05",
	"2-1-2006 15:04",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	time.RFC3339,
}

// ParseDate maps any cell to a DateInfo. It never fails: unparseable text
// falls back to a normalized-text grouping key, blank input to the unknown
// sentinel, so the aggregator never drops a row over a bad date cell.
func ParseDate(cell any) model.DateInfo {
	switch v := cell.(type) {
	case time.Time:
		return dateInfoFromTime(v)
	case float64:
		if d, ok := dateFromSerial(v); ok {
			return d
		}
	case int:
		if d, ok := dateFromSerial(float64(v)); ok {
			return d
		}
	case int64:
		if d, ok := dateFromSerial(float64(v)); ok {
			return d
		}
	}

	text := Stringify(cell)
	if text == "" {
		return model.DateInfo{Key: model.UnknownDateKey}
	}
	// serials arrive as bare numeric text; anything with separators or
	// month names must go through the layouts, not digit-stripping
	if rxNumericText.MatchString(text) {
		if f, ok := utils.ParseFloat(text); ok {
			if d, ok := dateFromSerial(f); ok {
				return d
			}
		}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return dateInfoFromTime(t)
		}
	}
	return model.DateInfo{Key: utils.NormKey(text), Display: text}
}

func dateInfoFromTime(t time.Time) model.DateInfo {
	t = t.UTC()
	iso := t.Format("2006-01-02")
	return model.DateInfo{Key: iso, ISO: iso, Display: t.Format("02 Jan 2006")}
}

func dateFromSerial(serial float64) (model.DateInfo, bool) {
	if serial <= 0 || serial > maxDateSerial {
		return model.DateInfo{}, false
	}
	t := serialEpoch.AddDate(0, 0, int(math.Floor(serial)))
	return dateInfoFromTime(t), true
}
