package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"universal-harvester/core/internal/config"
	"universal-harvester/core/internal/store"
	"universal-harvester/harvesters"
)

func NewStatusCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the latest stored record per source",
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

			ctx := context.Background()
			for _, src := range harvesters.AllSources() {
				rec, err := st.Latest(ctx, src)
				if err != nil {
					return err
				}
				if rec == nil {
					fmt.Printf("%-12s never harvested\n", src)
					continue
				}
				if rec.Status == harvesters.StatusSuccess {
					fmt.Printf("%-12s ok      %s\n", src, rec.HarvestedAt.Format(time.RFC3339))
				} else {
					fmt.Printf("%-12s failed  %s (%s)\n", src, rec.HarvestedAt.Format(time.RFC3339), rec.Diagnostic)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Harvest store path (default: HARVESTER_DB_PATH)")
	return cmd
}
