package cli

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"universal-harvester/core/internal/coordinator"
	"universal-harvester/core/internal/events"
	"universal-harvester/core/internal/serverapp"
	"universal-harvester/harvesters"
)

func NewServeCmd() *cobra.Command {
	var port int
	var dbPath string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the harvest HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := buildDeps(dbPath, timeout)
			if err != nil {
				return err
			}
			defer rt.close()

			if port == 0 {
				port = rt.cfg.Port
			}

			rt.bus.Subscribe(events.BatchCompleted, func(name string, payload any) {
				batch, ok := payload.(coordinator.Batch)
				if !ok {
					return
				}
				rt.log.Info("batch completed",
					zap.String("batch_id", batch.ID),
					zap.String("status", string(batch.Status)))
			})
			rt.bus.Subscribe(events.RecordHarvested, func(name string, payload any) {
				rec, ok := payload.(harvesters.Record)
				if !ok {
					return
				}
				rt.log.Debug("record harvested",
					zap.String("source", string(rec.Source)),
					zap.String("status", string(rec.Status)))
			})

			srv := serverapp.New(rt.coord, rt.store, rt.reg.Sources(), rt.log)
			httpSrv := &http.Server{
				Addr:              fmt.Sprintf(":%d", port),
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			fmt.Printf("harvester listening http://0.0.0.0:%d (db=%s)\n", port, rt.cfg.DBPath)
			return httpSrv.ListenAndServe()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (default: HARVESTER_PORT)")
	cmd.Flags().StringVar(&dbPath, "db", "", "Harvest store path (default: HARVESTER_DB_PATH)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Per-harvester timeout (default: HARVEST_TIMEOUT)")
	return cmd
}
