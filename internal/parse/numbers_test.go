package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFee(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		wantFee  int
		wantFree bool
	}{
		{"empty", "", 0, true},
		{"missing marker", "#N/A", 0, true},
		{"thousands separator", "1,500", 1500, false},
		{"zero", "0", 0, true},
		{"non numeric", "abc", 0, true},
		{"decimal truncates", "2500.75", 2500, false},
		{"below one truncates to free", "0.5", 0, true},
		{"padded", "  6,750 ", 6750, false},
		{"inner spaces", "12 000", 12000, false},
		{"currency text", "1500 THB", 0, true},
		{"no-break thousands", "12\u00a0000", 12000, false},
		{"beyond int32", "3000000000", 3000000000, false},
		{"negative", "-100", 0, true},
		{"not a number", "NaN", 0, true},
		{"infinite", "inf", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fee, free := Fee(tt.input)
			assert.Equal(t, tt.wantFee, fee)
			assert.Equal(t, tt.wantFree, free)
		})
	}
}

func TestCapacity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantMin *int
		wantMax *int
	}{
		{"hyphen", "8-16", intPtr(8), intPtr(16)},
		{"spaced", " 10 - 20 ", intPtr(10), intPtr(20)},
		{"en dash", "6–12", intPtr(6), intPtr(12)},
		{"embedded", "Capacity 5-15", intPtr(5), intPtr(15)},
		{"no-break spaces", "10\u00a0-\u00a020", intPtr(10), intPtr(20)},
		{"single number", "12", nil, nil},
		{"text", "TBC", nil, nil},
		{"missing marker", "#N/A", nil, nil},
		{"empty", "", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Capacity(tt.input)
			assert.Equal(t, tt.wantMin, got.Min)
			assert.Equal(t, tt.wantMax, got.Max)
			assert.Equal(t, got.Min == nil, got.Max == nil, "bounds must be set together")
		})
	}
}
