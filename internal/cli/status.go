package cli

import (
	"github.com/spf13/cobra"
)

func NewStatusCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check which summary service endpoints are reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := deps.Services.Config
			deps.Out.Info("Service: " + cfg.Remote.BaseURL)
			deps.Out.Endpoints(deps.Services.Submitter.CheckEndpoints(cmd.Context()))
			return nil
		},
	}
}
