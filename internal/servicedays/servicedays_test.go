package servicedays

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       any
		wantDays  []string
		wantValid bool
	}{
		{"nil", nil, []string{}, false},
		{"empty string", "", []string{}, false},
		{"whitespace only", "   ", []string{}, false},
		{"single day", "Monday", []string{"Monday"}, true},
		{"comma list", "Monday, Wednesday, Friday", []string{"Monday", "Wednesday", "Friday"}, true},
		{"double comma", "Monday,,Tuesday", []string{"Monday", "Tuesday"}, true},
		{"trailing comma", "Monday,Tuesday,", []string{"Monday", "Tuesday"}, true},
		{"untrimmed tokens", "  monday ,TUESDAY ", []string{"monday", "TUESDAY"}, true},
		{"only commas", ",,,", []string{}, false},
		{"garbage tokens kept", "Weekday1, Monday", []string{"Weekday1", "Monday"}, true},
		{"string slice", []string{"Monday", "", "Friday"}, []string{"Monday", "Friday"}, true},
		{"empty slice is valid", []string{}, []string{}, true},
		{"any slice filters non-strings", []any{"Monday", 7, nil, "Friday"}, []string{"Monday", "Friday"}, true},
		{"unsupported type", 42, []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.raw)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Equal(t, tt.wantDays, res.Days)
			if !tt.wantValid {
				assert.NotEmpty(t, res.Err, "invalid parse should carry an error message")
			}
			for _, d := range res.Days {
				assert.NotEmpty(t, d, "parsed days must never contain empty strings")
			}
		})
	}
}

func TestParseNilStringPointer(t *testing.T) {
	var p *string
	res := Parse(p)
	require.False(t, res.Valid)
	assert.Empty(t, res.Days)

	s := "Monday,Thursday"
	res = Parse(&s)
	require.True(t, res.Valid)
	assert.Equal(t, []string{"Monday", "Thursday"}, res.Days)
}

func TestHasDay(t *testing.T) {
	tests := []struct {
		name   string
		raw    any
		target string
		want   bool
	}{
		{"case-insensitive match", "monday, Tuesday", "MONDAY", true},
		{"lowercase target", "Monday", "monday", true},
		{"no match", "Monday, Tuesday", "Friday", false},
		{"empty target", "Monday", "", false},
		{"invalid raw", nil, "Monday", false},
		{"empty raw", "", "Monday", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasDay(tt.raw, tt.target))
		})
	}
}

func TestIsWeekdayList(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want bool
	}{
		{"all canonical", "Monday, Tuesday, Friday", true},
		{"mixed case canonical", "monday, FRIDAY", true},
		{"garbage token", "Monday, Weekday1", false},
		{"abbreviation is not canonical", "Mon, Tue", false},
		{"empty", "", false},
		{"nil", nil, false},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWeekdayList(tt.raw))
		})
	}
}

func TestFormatForDisplay(t *testing.T) {
	assert.Equal(t, "No service days", FormatForDisplay(nil, 0))
	assert.Equal(t, "No service days", FormatForDisplay("", 0))
	assert.Equal(t, "Monday, Tuesday", FormatForDisplay("Monday,Tuesday", 0))

	long := "Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday"
	out := FormatForDisplay(long, 0)
	require.True(t, len(out) <= 53, "default cap is 50 runes plus ellipsis")
	assert.Contains(t, out, "...")

	assert.Equal(t, "Monday, Tu...", FormatForDisplay("Monday, Tuesday", 10))
}

func TestToday(t *testing.T) {
	// 2024-01-01 was a Monday.
	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "Monday", Today(monday))
	assert.Equal(t, "Sunday", Today(monday.AddDate(0, 0, 6)))
}
