package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the contest service is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Health(cmd.Context()); err != nil {
				return fmt.Errorf("%s is unreachable: %w", a.client.BaseURL(), err)
			}

			a.out.Print(HealthResult{Status: "ok", Server: a.client.BaseURL()})
			return nil
		},
	}
}
