package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"universal-harvester/core/internal/coordinator"
	"universal-harvester/harvesters"
)

func NewHarvestCmd() *cobra.Command {
	var harvestType string
	var dbPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "harvest",
		Short: "Run one harvester or all of them and store the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildDeps(dbPath, timeout)
			if err != nil {
				return err
			}
			defer rt.close()

			batch, err := rt.coord.Run(context.Background(), harvestType)
			if err != nil {
				return err
			}

			for _, rec := range batch.Records {
				if rec.Status == harvesters.StatusSuccess {
					fmt.Printf("%-12s ok      %s\n", rec.Source, rec.HarvestedAt.Format(time.RFC3339))
				} else {
					fmt.Printf("%-12s failed  %s\n", rec.Source, rec.Diagnostic)
				}
			}
			fmt.Printf("batch=%s status=%s ok=%d failed=%d\n",
				batch.ID, batch.Status, batch.Successes(), len(batch.Records)-batch.Successes())

			// Partial success still exits zero; only an entirely failed
			// batch is an error.
			if batch.Status == coordinator.BatchFailed {
				return fmt.Errorf("all %d sources failed", len(batch.Records))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&harvestType, "type", coordinator.SelectorAll, "Source to harvest (trend|audio|screenplay|creator|distribution|sound|all)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Harvest store path (default: HARVESTER_DB_PATH)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-harvester timeout (default: HARVEST_TIMEOUT)")
	return cmd
}
