package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"universal-harvester/analyzers/report"
	"universal-harvester/core/internal/config"
	"universal-harvester/core/internal/store"
	"universal-harvester/harvesters"
)

func NewReportCmd() *cobra.Command {
	var dbPath string
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print per-source harvest statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			filter := store.Filter{}
			if since > 0 {
				filter.Since = time.Now().UTC().Add(-since)
			}
			records, err := st.Query(context.Background(), filter)
			if err != nil {
				return err
			}

			rep := report.Build(records, harvesters.AllSources())
			for _, s := range rep.Sources {
				last := "never"
				if s.LastSuccess != nil {
					last = s.LastSuccess.Format(time.RFC3339)
				}
				fmt.Printf("%-12s attempts=%d ok=%d failed=%d rate=%.2f last_success=%s\n",
					s.Source, s.Attempts, s.Successes, s.Failures, s.FailureRate, last)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Harvest store path (default: HARVESTER_DB_PATH)")
	cmd.Flags().DurationVar(&since, "since", 0, "Only consider records newer than this age (0 = all)")
	return cmd
}
