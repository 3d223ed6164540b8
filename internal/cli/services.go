package cli

import (
	"context"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/workmate-dev/workmate/pkg/chat/service"
)

const probeTimeout = 5 * time.Second

// NewServicesCmd creates the services listing command
func NewServicesCmd(opts *Options) *cobra.Command {
	probe := false

	cmd := &cobra.Command{
		Use:   "services",
		Short: "List the configured services",
		Long: `List the configured services with their endpoints.

With --probe, each service exposing a health endpoint is checked.

Examples:
  workmate services
  workmate services --probe`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := opts.bootstrap()
			if err != nil {
				return err
			}
			defer rt.cleanup()
			return runServices(cmd, rt, probe)
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Probe each service's health endpoint")
	return cmd
}

func runServices(cmd *cobra.Command, rt *runtime, probe bool) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	header := table.Row{"ID", "NAME", "ENDPOINT", "SENDS EMAIL"}
	if probe {
		header = append(header, "STATUS")
	}
	t.AppendHeader(header)

	for _, svc := range rt.registry.List() {
		row := table.Row{svc.ID(), svc.Name(), svc.Endpoint(), yesNo(svc.RequiresIdentity())}
		if probe {
			row = append(row, probeStatus(cmd.Context(), svc))
		}
		t.AppendRow(row)
	}

	t.Render()
	return nil
}

func probeStatus(ctx context.Context, svc service.Service) string {
	hc, ok := svc.(service.HealthChecker)
	if !ok {
		return "no probe"
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := hc.CheckHealth(ctx); err != nil {
		return "unhealthy"
	}
	return "healthy"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
