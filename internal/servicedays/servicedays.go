// Package servicedays parses the free-form comma-separated weekday text
// stored on routes ("Monday, Wednesday, friday") and answers day-membership
// queries against it.
//
// The raw field comes from spreadsheet uploads and hand edits, so input is
// treated as hostile: nil, empty, wrong type, or garbage tokens. Parsing is
// total — it never panics and reports failure through the Result struct.
package servicedays

import (
	"fmt"
	"strings"
	"time"
)

// weekdayNames is indexed by time.Weekday (Sunday == 0). Matching against
// stored text must be locale-independent, so the names are fixed English.
var weekdayNames = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

const defaultDisplayLength = 50

// Result is the outcome of parsing a raw service-day value.
type Result struct {
	Days  []string
	Valid bool
	Err   string
}

// Parse converts a raw service-day value into a list of day tokens.
//
// nil and empty strings are invalid. A string is split on commas, tokens
// trimmed, empties dropped; the result is valid when at least one token
// remains. A slice is filtered to its non-empty string elements and is always
// valid, even when nothing survives the filter — slices only arrive from
// already-parsed upload rows, which are trusted to be well-formed lists.
// Token content is NOT checked here; see IsWeekdayList for that.
func Parse(raw any) Result {
	switch v := raw.(type) {
	case nil:
		return Result{Days: []string{}, Valid: false, Err: "service days value is missing"}
	case string:
		if strings.TrimSpace(v) == "" {
			return Result{Days: []string{}, Valid: false, Err: "service days text is empty"}
		}
		days := splitDays(v)
		return Result{Days: days, Valid: len(days) > 0}
	case *string:
		if v == nil {
			return Result{Days: []string{}, Valid: false, Err: "service days value is missing"}
		}
		return Parse(*v)
	case []string:
		days := make([]string, 0, len(v))
		for _, d := range v {
			if strings.TrimSpace(d) != "" {
				days = append(days, d)
			}
		}
		return Result{Days: days, Valid: true}
	case []any:
		days := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok && strings.TrimSpace(s) != "" {
				days = append(days, s)
			}
		}
		return Result{Days: days, Valid: true}
	default:
		return Result{Days: []string{}, Valid: false, Err: fmt.Sprintf("service days has unsupported type %T", raw)}
	}
}

func splitDays(text string) []string {
	parts := strings.Split(text, ",")
	days := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			days = append(days, t)
		}
	}
	return days
}

// HasDay reports whether target is one of the parsed days, case-insensitively.
// Invalid input or an empty target is simply false, never an error.
func HasDay(raw any, target string) bool {
	if target == "" {
		return false
	}
	res := Parse(raw)
	if !res.Valid {
		return false
	}
	for _, d := range res.Days {
		if strings.EqualFold(d, target) {
			return true
		}
	}
	return false
}

// IsWeekdayList reports whether every parsed token is one of the seven
// canonical weekday names. This is the strict semantic check: "Mon, Funday"
// parses fine but fails here.
func IsWeekdayList(raw any) bool {
	res := Parse(raw)
	if !res.Valid || len(res.Days) == 0 {
		return false
	}
	for _, d := range res.Days {
		if !isWeekdayName(d) {
			return false
		}
	}
	return true
}

func isWeekdayName(s string) bool {
	for _, w := range weekdayNames {
		if strings.EqualFold(s, w) {
			return true
		}
	}
	return false
}

// FormatForDisplay renders the days for UI labels. Invalid input renders as
// "No service days". maxLen <= 0 selects the default of 50 runes; longer
// output is truncated with an ellipsis.
func FormatForDisplay(raw any, maxLen int) string {
	res := Parse(raw)
	if !res.Valid || len(res.Days) == 0 {
		return "No service days"
	}
	if maxLen <= 0 {
		maxLen = defaultDisplayLength
	}
	joined := strings.Join(res.Days, ", ")
	runes := []rune(joined)
	if len(runes) <= maxLen {
		return joined
	}
	return string(runes[:maxLen]) + "..."
}

// Today returns the fixed English weekday name for the given time.
func Today(now time.Time) string {
	return weekdayNames[now.Weekday()]
}
