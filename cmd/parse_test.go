//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eca-cli/internal/config"
	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/pipeline"
	"github.com/sells-group/eca-cli/internal/planner"
	"github.com/sells-group/eca-cli/internal/publish"
)

const sampleCSV = `ECA ID,Section,Programme,Fee,Teacher,Day,Location,Time,Capacity
,Primary Clubs,,,,,,,
P1,,Chess Year 1 to 6,,Ms Lee,Mon,Library,15:30-16:30,8-16
P2,,Art Studio Year 2 to 4,"3,000",Mr Tan,Tue,Art Room,15:30-16:30,10-12
P3,,Football U9,0,Coach Bo,Wed/Fri,Field,15.10-16.10,
,Secondary Academies,,,,,,,
S1,,Robotics Year 7 to 9,"6,750",Dr Kim,Thu,#N/A,16:30-17:30,6-10
P1,,Chess Year 1 to 6 (repeat),,Ms Lee,Mon,Library,15:30-16:30,8-16
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	input := filepath.Join(dir, "eca.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0o644))

	return &config.Config{
		Source:  config.SourceConfig{Path: input, Encoding: "utf-8"},
		Meta:    config.MetaConfig{Source: "Headstart", Term: "Term 2"},
		Output:  config.OutputConfig{Path: filepath.Join(dir, "out", "eca_data.json"), Indent: "  "},
		Store:   config.StoreConfig{Driver: "sqlite", DatabaseURL: filepath.Join(dir, "eca.db")},
		Planner: planner.DefaultRates(),
		Retry:   config.RetryConfig{Attempts: 1},
	}
}

func TestParseExport(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = testConfig(t)

	run, res, err := parseExport(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, cfg.Source.Path, run.Input)
	assert.Equal(t, "Term 2", run.Meta.Term)
	assert.Equal(t, 4, run.Meta.TotalActivities)
	assert.Equal(t, 2, run.Meta.FreeActivities)
	assert.Equal(t, 1, res.Stats.Duplicates)
	require.Len(t, run.Activities, 4)
	assert.Equal(t, "Chess Year 1 to 6", run.Activities[0].Name)
	assert.Equal(t, 5, res.Decisions[pipeline.DecisionEmit])
}

func TestParseExport_MissingInput(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = testConfig(t)
	cfg.Source.Path = filepath.Join(t.TempDir(), "missing.csv")

	_, _, err := parseExport(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse: read")
}

func TestPublishRun_File(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = testConfig(t)

	run, _, err := parseExport(context.Background())
	require.NoError(t, err)

	pubs, err := buildPublishers(context.Background())
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "file:"+cfg.Output.Path, pubs[0].Name())

	require.NoError(t, publishRun(context.Background(), run, pubs))

	data, err := os.ReadFile(cfg.Output.Path)
	require.NoError(t, err)
	var p model.Payload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, run.Meta, p.Meta)
	assert.Len(t, p.Activities, 4)
	assert.Equal(t, model.CategoryLabels, p.Categories)
}

func TestPublishRun_NoTargets(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = testConfig(t)

	assert.NoError(t, publishRun(context.Background(), &model.Run{}, nil))
}

func TestBuildPublishers_S3RequiresBucket(t *testing.T) {
	oldCfg := cfg
	oldS3 := parseS3
	defer func() { cfg, parseS3 = oldCfg, oldS3 }()
	cfg = testConfig(t)
	parseS3 = true

	_, err := buildPublishers(context.Background())
	require.Error(t, err)
}

func TestBuildPublishers_Stdout(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = testConfig(t)
	cfg.Output.Path = publish.Stdout

	pubs, err := buildPublishers(context.Background())
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "stdout", pubs[0].Name())
}

func TestDecisionCounts(t *testing.T) {
	got := decisionCounts(map[pipeline.Decision]int{
		pipeline.DecisionEmit:  5,
		pipeline.DecisionShort: 1,
	})
	assert.Equal(t, map[string]int{"emit": 5, "short": 1}, got)
}

func TestFormatRunSummary(t *testing.T) {
	oldCfg := cfg
	defer func() { cfg = oldCfg }()
	cfg = testConfig(t)

	run, res, err := parseExport(context.Background())
	require.NoError(t, err)

	var buf strings.Builder
	formatRunSummary(&buf, run, res)
	out := buf.String()
	assert.Contains(t, out, run.ID)
	assert.Contains(t, out, "Duplicates:")
	assert.Contains(t, out, "free 2, paid 2")
	assert.Contains(t, out, "clubs:")
}
