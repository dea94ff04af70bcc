package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"universal-harvester/core/internal/version"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "harvester",
		Short:         "Universal Harvester for the music-video production pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewHarvestCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	cmd.SetVersionTemplate(fmt.Sprintf("%s (%s/%s)\n", version.Version, runtime.GOOS, runtime.GOARCH))
	cmd.Version = version.Version

	return cmd
}
