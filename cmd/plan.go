package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/eca-cli/internal/planner"
	"github.com/sells-group/eca-cli/internal/store"
)

var (
	planPayload string
	planYear    string
	planGender  string
	planSelect  []string
	planEAL     bool
	planFormat  string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Price a child's activity selection and check it for clashes",
	Long: `Evaluates a selection of activity IDs for one child: free slots used,
extra and fixed fees, EAL charges, time clashes, EAL-blocked sessions and
year or gender mismatches.

Examples:
  eca-cli plan --payload eca_data.json --year 3 --select P12,P40,P77
  eca-cli plan --year 7 --eal --select S3,S9 --format yaml`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("plan"); err != nil {
			return err
		}
		ctx := cmd.Context()

		if planPayload != "" {
			cfg.Server.PayloadPath = planPayload
		}

		var st store.Store
		if cfg.Server.PayloadPath == "" {
			var err error
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close() //nolint:errcheck
			}
		}

		cat, err := loadCatalog(ctx, st)
		if err != nil {
			return err
		}
		if cat == nil {
			return eris.New("plan: no parsed run available; run parse --store or pass --payload")
		}

		req, err := planRequest()
		if err != nil {
			return err
		}
		p := planner.NewCalculator(cfg.Planner).Evaluate(cat.Index(), req)

		if planFormat == "table" {
			formatPlan(os.Stdout, p)
			return nil
		}
		return writeDocument(os.Stdout, p, planFormat)
	},
}

// planRequest builds the request from flags.
func planRequest() (planner.Request, error) {
	gender := planner.Gender(strings.ToLower(planGender))
	switch gender {
	case planner.GenderAny, planner.GenderBoy, planner.GenderGirl:
	default:
		return planner.Request{}, eris.Errorf("plan: invalid gender %q", planGender)
	}

	ids := make([]string, 0, len(planSelect))
	for _, id := range planSelect {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return planner.Request{
		Child:    planner.Child{Year: planYear, Gender: gender, HasEAL: planEAL},
		Selected: ids,
	}, nil
}

// formatPlan writes a plan summary to w.
func formatPlan(out io.Writer, p planner.Plan) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Year:\t%s\n", planner.YearLabel(p.Child.Year))
	_, _ = fmt.Fprintf(w, "Selected:\t%s\n", strings.Join(p.Selected, ", "))
	_, _ = fmt.Fprintf(w, "Free slots used:\t%d\n", p.Cost.FreeUsed)
	_, _ = fmt.Fprintf(w, "Extra free:\t%d\n", p.Cost.ExtraCount)
	_, _ = fmt.Fprintf(w, "Fixed cost:\t%d\n", p.Cost.FixedCost)
	_, _ = fmt.Fprintf(w, "Extra cost:\t%d\n", p.Cost.ExtraCost)
	_, _ = fmt.Fprintf(w, "EAL cost:\t%d\n", p.Cost.EALCost)
	_, _ = fmt.Fprintf(w, "Total:\t%d\n", p.Cost.TotalCost)
	for _, line := range []struct {
		label string
		ids   []string
	}{
		{"Conflicts", p.Conflicts},
		{"EAL blocked", p.EALBlocked},
		{"Gender mismatch", p.Mismatched},
		{"Wrong year", p.WrongYear},
		{"Unknown", p.Unknown},
	} {
		if len(line.ids) > 0 {
			_, _ = fmt.Fprintf(w, "%s:\t%s\n", line.label, strings.Join(line.ids, ", "))
		}
	}
	_ = w.Flush()
}

func init() {
	planCmd.Flags().StringVar(&planPayload, "payload", "", "published JSON payload to plan against (default: latest stored run)")
	planCmd.Flags().StringVar(&planYear, "year", "", "child's year group (-1 preschool, 0-ey early years, 0 reception, 1-13)")
	planCmd.Flags().StringVar(&planGender, "gender", "", "child's gender: boy or girl")
	planCmd.Flags().StringSliceVar(&planSelect, "select", nil, "comma-separated activity IDs")
	planCmd.Flags().BoolVar(&planEAL, "eal", false, "child attends EAL sessions")
	planCmd.Flags().StringVar(&planFormat, "format", "table", "output format: table, json or yaml")
	rootCmd.AddCommand(planCmd)
}
