package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/eca-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "eca-cli",
	Short: "Extracurricular activity export parser",
	Long:  `eca-cli turns a school's extracurricular activity (ECA) timetable export
into a normalized activity catalog.

  parse   read a CSV or XLSX export (local file or published Google Sheet),
          classify every activity and publish eca_data.json, S3 and DynamoDB
  runs    list and inspect parse runs kept in SQLite or Postgres
  serve   expose the latest catalog and the plan calculator over HTTP
  plan    price a child's selection and flag clashes and EAL conflicts

Settings come from ./config.yaml and ECA_* environment variables
(for example ECA_STORE_DRIVER=postgres, ECA_META_TERM="Term 2").`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
