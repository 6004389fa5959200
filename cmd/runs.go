package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect stored parse runs",
	Long:  "Commands for listing, viewing, and summarizing stored parse runs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return cfg.Validate("runs")
	},
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List parse runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		term, _ := cmd.Flags().GetString("term")
		input, _ := cmd.Flags().GetString("input")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{Term: term, Input: input, Limit: limit})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		var run *model.Run
		if args[0] == "latest" {
			run, err = st.LatestRun(ctx)
		} else {
			run, err = st.GetRun(ctx, args[0])
		}
		if err != nil {
			return eris.Wrap(err, "runs show")
		}
		if run == nil {
			return eris.Errorf("runs show: run %s not found", args[0])
		}

		format, _ := cmd.Flags().GetString("format")
		asPayload, _ := cmd.Flags().GetBool("payload")
		var doc any = run
		if asPayload {
			doc = run.Payload()
		}
		return writeDocument(os.Stdout, doc, format)
	},
}

// -- runs stats --

var runsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate run statistics",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		since, _ := cmd.Flags().GetDuration("since")
		filter := store.RunFilter{Limit: 10000}
		if since > 0 {
			filter.CreatedAfter = time.Now().Add(-since)
		}

		runs, err := st.ListRuns(ctx, filter)
		if err != nil {
			return eris.Wrap(err, "runs stats")
		}

		formatRunStats(os.Stdout, computeRunStats(runs))
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("term", "", "filter by term label")
	runsListCmd.Flags().String("input", "", "filter by input path or URL")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsShowCmd.Flags().String("format", "json", "output format: json or yaml")
	runsShowCmd.Flags().Bool("payload", false, "print the published payload instead of the run record")

	runsStatsCmd.Flags().Duration("since", 7*24*time.Hour, "time window for stats (e.g. 24h, 168h)")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsStatsCmd)
	rootCmd.AddCommand(runsCmd)
}

// writeDocument encodes v as indented JSON or YAML.
func writeDocument(out io.Writer, v any, format string) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return eris.Wrap(err, "encode yaml")
		}
		return enc.Close()
	}
	return eris.Errorf("unsupported format: %s", format)
}

// runStats holds aggregate statistics computed from a set of runs.
type runStats struct {
	Total      int
	Terms      int
	Rows       int
	Duplicates int
	Unique     int
	Free       int
	Paid       int
	AvgUnique  float64
	Latest     time.Time
}

// computeRunStats computes aggregate statistics from a list of runs.
func computeRunStats(runs []model.Run) runStats {
	var s runStats
	s.Total = len(runs)

	terms := make(map[string]struct{})
	for _, r := range runs {
		terms[r.Meta.Term] = struct{}{}
		s.Rows += r.Stats.Rows
		s.Duplicates += r.Stats.Duplicates
		s.Unique += r.Stats.Unique
		s.Free += r.Stats.Free
		s.Paid += r.Stats.Paid
		if r.CreatedAt.After(s.Latest) {
			s.Latest = r.CreatedAt
		}
	}
	s.Terms = len(terms)

	if s.Total > 0 {
		s.AvgUnique = float64(s.Unique) / float64(s.Total)
	}
	return s
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTERM\tINPUT\tUNIQUE\tFREE\tPAID\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-----\t------\t----\t----\t-------")

	for _, r := range runs {
		input := r.Input
		if len(input) > 30 {
			input = "..." + input[len(input)-27:]
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			truncateID(r.ID),
			r.Meta.Term,
			input,
			r.Stats.Unique,
			r.Stats.Free,
			r.Stats.Paid,
			r.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatRunStats writes aggregate stats to w.
func formatRunStats(out io.Writer, s runStats) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Total runs:\t%d\n", s.Total)
	_, _ = fmt.Fprintf(w, "Terms:\t%d\n", s.Terms)
	_, _ = fmt.Fprintf(w, "Rows read:\t%d\n", s.Rows)
	_, _ = fmt.Fprintf(w, "Duplicates:\t%d\n", s.Duplicates)
	_, _ = fmt.Fprintf(w, "Activities:\t%d\n", s.Unique)
	_, _ = fmt.Fprintf(w, "  Free:\t%d\n", s.Free)
	_, _ = fmt.Fprintf(w, "  Paid:\t%d\n", s.Paid)
	if s.Total > 0 {
		_, _ = fmt.Fprintf(w, "Avg activities:\t%.1f\n", s.AvgUnique)
		_, _ = fmt.Fprintf(w, "Latest:\t%s\n", s.Latest.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
