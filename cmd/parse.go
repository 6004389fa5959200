package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eca-cli/internal/fetcher"
	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/observability"
	"github.com/sells-group/eca-cli/internal/pipeline"
	"github.com/sells-group/eca-cli/internal/publish"
	"github.com/sells-group/eca-cli/internal/resilience"
)

var (
	parseInput    string
	parseURL      string
	parseFormat   string
	parseSheet    string
	parseOutput   string
	parseSource   string
	parseTerm     string
	parseStore    bool
	parseS3       bool
	parseDynamoDB bool
	parseDryRun   bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse an ECA export into activity JSON",
	Long: `Reads an ECA export, interprets every row, de-duplicates activities by ID
and writes the payload.

Examples:
  # Local CSV to the default output file
  eca-cli parse --input eca.csv

  # Published Google Sheet, stored and uploaded
  eca-cli parse --url "https://docs.google.com/spreadsheets/d/ID/export?format=csv" --store --s3

  # XLSX sheet by name, summary only
  eca-cli parse --input eca.xlsx --sheet ECA --dry-run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		applyParseFlags(cmd)
		if err := cfg.Validate("parse"); err != nil {
			return err
		}
		ctx := cmd.Context()

		run, res, err := parseExport(ctx)
		if err != nil {
			return err
		}
		formatRunSummary(os.Stderr, run, res)

		if parseDryRun {
			return nil
		}

		if parseStore {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close() //nolint:errcheck
				if err := st.SaveRun(ctx, run); err != nil {
					return eris.Wrap(err, "parse: save run")
				}
				zap.L().Info("run saved", zap.String("run_id", run.ID), zap.String("driver", cfg.Store.Driver))
			}
		}

		pubs, err := buildPublishers(ctx)
		if err != nil {
			return err
		}
		if err := publishRun(ctx, run, pubs); err != nil {
			return err
		}

		observability.RecordRun(run.Stats, decisionCounts(res.Decisions), run.CreatedAt)
		return nil
	},
}

// applyParseFlags overlays explicitly set flags onto the loaded config.
func applyParseFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("input") {
		cfg.Source.Path = parseInput
	}
	if f.Changed("url") {
		cfg.Source.URL = parseURL
	}
	if f.Changed("format") {
		cfg.Source.Format = parseFormat
	}
	if f.Changed("sheet") {
		cfg.Source.Sheet = parseSheet
	}
	if f.Changed("output") {
		cfg.Output.Path = parseOutput
	}
	if f.Changed("source") {
		cfg.Meta.Source = parseSource
	}
	if f.Changed("term") {
		cfg.Meta.Term = parseTerm
	}
	if !parseStore {
		cfg.Store.Driver = "none"
	}
}

// parseExport reads the configured export and runs the batch pipeline.
func parseExport(ctx context.Context) (*model.Run, pipeline.Result, error) {
	src := fetcher.Source{
		Path:     cfg.Source.Path,
		URL:      cfg.Source.URL,
		Format:   cfg.Source.Format,
		Sheet:    cfg.Source.Sheet,
		Encoding: cfg.Source.Encoding,
		SkipRows: cfg.Source.SkipRows,
	}

	start := time.Now()
	rows, err := fetcher.ReadRows(ctx, src)
	if err != nil {
		return nil, pipeline.Result{}, eris.Wrapf(err, "parse: read %s", src.Label())
	}

	res := pipeline.Run(rows)
	payload := pipeline.BuildPayload(model.Meta{Source: cfg.Meta.Source, Term: cfg.Meta.Term}, res)

	run := &model.Run{
		ID:         uuid.New().String(),
		Input:      src.Label(),
		Meta:       payload.Meta,
		Stats:      res.Stats,
		CreatedAt:  time.Now().UTC(),
		Activities: payload.Activities,
	}

	zap.L().Info("export parsed",
		zap.String("input", run.Input),
		zap.String("format", src.DetectFormat()),
		zap.Int("rows", res.Stats.Rows),
		zap.Int("parsed", res.Stats.Parsed),
		zap.Int("duplicates", res.Stats.Duplicates),
		zap.Int("unique", res.Stats.Unique),
		zap.Int("free", res.Stats.Free),
		zap.Int("paid", res.Stats.Paid),
		zap.Duration("elapsed", time.Since(start)),
	)
	return run, res, nil
}

// buildPublishers returns the output targets enabled by flags and config.
func buildPublishers(ctx context.Context) ([]publish.Publisher, error) {
	var pubs []publish.Publisher
	if cfg.Output.Path != "" {
		pubs = append(pubs, publish.NewJSONFile(cfg.Output.Path, cfg.Output.Indent))
	}
	if parseS3 {
		p, err := publish.NewS3FromConfig(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	if parseDynamoDB {
		p, err := publish.NewDynamoDBFromConfig(ctx, cfg.DynamoDB.Table, cfg.DynamoDB.Region)
		if err != nil {
			return nil, err
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

func publishRun(ctx context.Context, run *model.Run, pubs []publish.Publisher) error {
	if len(pubs) == 0 {
		return nil
	}
	retry := resilience.FromRetryConfig(cfg.Retry.Attempts, cfg.Retry.Backoff, cfg.Retry.MaxBackoff)
	return publish.PublishAll(ctx, retry, run.ID, run.Payload(), pubs...)
}

func decisionCounts(d map[pipeline.Decision]int) map[string]int {
	out := make(map[string]int, len(d))
	for k, v := range d {
		out[k.String()] = v
	}
	return out
}

// formatRunSummary writes the run's counts to w.
func formatRunSummary(out io.Writer, run *model.Run, res pipeline.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Run:\t%s\n", run.ID)
	_, _ = fmt.Fprintf(w, "Input:\t%s\n", run.Input)
	_, _ = fmt.Fprintf(w, "Rows:\t%d\n", res.Stats.Rows)
	for _, d := range []pipeline.Decision{pipeline.DecisionShort, pipeline.DecisionHeader, pipeline.DecisionSection, pipeline.DecisionSkip, pipeline.DecisionEmit} {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", d, res.Decisions[d])
	}
	_, _ = fmt.Fprintf(w, "Parsed:\t%d\n", res.Stats.Parsed)
	_, _ = fmt.Fprintf(w, "Duplicates:\t%d\n", res.Stats.Duplicates)
	_, _ = fmt.Fprintf(w, "Unique:\t%d (free %d, paid %d)\n", res.Stats.Unique, res.Stats.Free, res.Stats.Paid)
	for _, c := range res.Stats.Categories {
		_, _ = fmt.Fprintf(w, "  %s:\t%d\n", c.Code, c.Count)
	}
	_ = w.Flush()
}

func init() {
	parseCmd.Flags().StringVar(&parseInput, "input", "", "path to the export file (default from config)")
	parseCmd.Flags().StringVar(&parseURL, "url", "", "URL of a published CSV or XLSX export")
	parseCmd.Flags().StringVar(&parseFormat, "format", "", "input format: csv or xlsx (default: detect)")
	parseCmd.Flags().StringVar(&parseSheet, "sheet", "", "xlsx sheet name or zero-based index")
	parseCmd.Flags().StringVar(&parseOutput, "output", "", "output JSON path, - for stdout (default from config)")
	parseCmd.Flags().StringVar(&parseSource, "source", "", "source label written into meta")
	parseCmd.Flags().StringVar(&parseTerm, "term", "", "term label written into meta")
	parseCmd.Flags().BoolVar(&parseStore, "store", false, "save the run to the configured store")
	parseCmd.Flags().BoolVar(&parseS3, "s3", false, "upload the payload to S3")
	parseCmd.Flags().BoolVar(&parseDynamoDB, "dynamodb", false, "write activities to DynamoDB")
	parseCmd.Flags().BoolVar(&parseDryRun, "dry-run", false, "parse and print the summary only")
	rootCmd.AddCommand(parseCmd)
}
