package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"universal-harvester/core/internal/config"
	"universal-harvester/core/internal/export"
	"universal-harvester/core/internal/store"
	"universal-harvester/harvesters"
)

func NewExportCmd() *cobra.Command {
	var dbPath string
	var outDir string
	var source string
	var since time.Duration

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored records as JSON for downstream adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			filter := store.Filter{}
			if source != "" {
				src, err := harvesters.ParseSource(source)
				if err != nil {
					return err
				}
				filter.Source = src
			}
			if since > 0 {
				filter.Since = time.Now().UTC().Add(-since)
			}

			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			records, err := st.Query(context.Background(), filter)
			if err != nil {
				return err
			}

			m, err := export.WriteRecords(outDir, records)
			if err != nil {
				return err
			}
			fmt.Printf("exported %d records across %d files to %s\n", len(records), len(m.Files), outDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "Harvest store path (default: HARVESTER_DB_PATH)")
	cmd.Flags().StringVar(&outDir, "out", "./export", "Export output directory")
	cmd.Flags().StringVar(&source, "source", "", "Only export one source")
	cmd.Flags().DurationVar(&since, "since", 0, "Only export records newer than this age (0 = all)")
	return cmd
}
