package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"slash and ampersand", "Mon/Wed & Fri", []string{"Monday", "Wednesday", "Friday"}},
		{"reordered", "Fri/Mon", []string{"Monday", "Friday"}},
		{"full names with and", "Tuesday and Thursday", []string{"Tuesday", "Thursday"}},
		{"comma list", "Sat, Sun", []string{"Saturday", "Sunday"}},
		{"thur abbreviation", "Thur", []string{"Thursday"}},
		{"duplicates collapse", "Mon / Monday / mon", []string{"Monday"}},
		{"single", "Wednesday", []string{"Wednesday"}},
		{"capital And does not split", "Mon And Wed", []string{"Monday"}},
		{"unrecognised", "TBC", []string{}},
		{"missing marker", "#N/A", []string{}},
		{"empty", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Days(tt.input))
		})
	}
}

func TestDayOrder_UnknownLast(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, dayOrder("Monday"))
	assert.Equal(t, 6, dayOrder("Sunday"))
	assert.Equal(t, 99, dayOrder("Someday"))
}

func TestTimeRange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantStart *string
		wantEnd   *string
	}{
		{"dotted", "9.00-10.30", strPtr("09:00"), strPtr("10:30")},
		{"colon with spaces", "15:30 - 16:20", strPtr("15:30"), strPtr("16:20")},
		{"en dash", "3:30–4:30", strPtr("03:30"), strPtr("04:30")},
		{"em dash", "14:30—15:15", strPtr("14:30"), strPtr("15:15")},
		{"embedded text", "After school 15.10 - 16.00 (Fri)", strPtr("15:10"), strPtr("16:00")},
		{"no-break spaces", "15:30\u00a0-\u00a016:30", strPtr("15:30"), strPtr("16:30")},
		{"no range", "Lunchtime", nil, nil},
		{"single time", "15:30", nil, nil},
		{"empty", "", nil, nil},
		{"missing marker", "#N/A", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TimeRange(tt.input)
			assert.Equal(t, tt.wantStart, got.Start)
			assert.Equal(t, tt.wantEnd, got.End)
			assert.Equal(t, tt.input, got.Raw, "raw must keep the original text")
		})
	}
}
