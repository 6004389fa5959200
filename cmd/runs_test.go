//go:build !integration

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eca-cli/internal/model"
)

func sampleRuns() []model.Run {
	now := time.Date(2026, 1, 12, 10, 30, 0, 0, time.UTC)
	return []model.Run{
		{
			ID:        "abc12345-6789-0000-0000-000000000000",
			Input:     "eca.csv",
			Meta:      model.Meta{Term: "Term 2"},
			Stats:     model.Stats{Rows: 120, Duplicates: 4, Unique: 96, Free: 60, Paid: 36},
			CreatedAt: now,
		},
		{
			ID:        "def12345-6789-0000-0000-000000000000",
			Input:     "https://docs.google.com/spreadsheets/d/very-long-sheet-id/export?format=csv",
			Meta:      model.Meta{Term: "Term 3"},
			Stats:     model.Stats{Rows: 100, Duplicates: 0, Unique: 80, Free: 50, Paid: 30},
			CreatedAt: now.Add(-24 * time.Hour),
		},
	}
}

func TestFormatRunsList(t *testing.T) {
	var buf bytes.Buffer
	formatRunsList(&buf, sampleRuns())

	output := buf.String()
	for _, want := range []string{"ID", "TERM", "UNIQUE", "abc12345", "Term 2", "eca.csv", "96", "2026-01-12 10:30", "def12345"} {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "very-long-sheet-id/export", "long inputs are shortened")
	assert.Contains(t, output, "...")
}

func TestRunsStats(t *testing.T) {
	s := computeRunStats(sampleRuns())

	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 2, s.Terms)
	assert.Equal(t, 220, s.Rows)
	assert.Equal(t, 4, s.Duplicates)
	assert.Equal(t, 176, s.Unique)
	assert.Equal(t, 110, s.Free)
	assert.Equal(t, 66, s.Paid)
	assert.InDelta(t, 88.0, s.AvgUnique, 0.01)
	assert.Equal(t, sampleRuns()[0].CreatedAt, s.Latest)
}

func TestRunsStats_Empty(t *testing.T) {
	s := computeRunStats(nil)
	assert.Equal(t, 0, s.Total)
	assert.Zero(t, s.AvgUnique)

	var buf bytes.Buffer
	formatRunStats(&buf, s)
	assert.Contains(t, buf.String(), "Total runs:")
	assert.NotContains(t, buf.String(), "Latest:")
}

func TestFormatRunStats(t *testing.T) {
	var buf bytes.Buffer
	formatRunStats(&buf, computeRunStats(sampleRuns()))

	output := buf.String()
	assert.Contains(t, output, "Total runs:")
	assert.Contains(t, output, "Avg activities:")
	assert.Contains(t, output, "88.0")
}

func TestTruncateID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc12345-6789", "abc12345"},
		{"short", "short"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, truncateID(tt.in))
	}
}

func TestWriteDocument(t *testing.T) {
	run := sampleRuns()[0]

	var js bytes.Buffer
	require.NoError(t, writeDocument(&js, run, "json"))
	assert.True(t, strings.HasPrefix(js.String(), "{\n  \"id\""))

	var ym bytes.Buffer
	require.NoError(t, writeDocument(&ym, run, "yaml"))
	assert.Contains(t, ym.String(), "id: abc12345-6789-0000-0000-000000000000")
	assert.Contains(t, ym.String(), "term: Term 2")

	require.Error(t, writeDocument(&bytes.Buffer{}, run, "xml"))
}
