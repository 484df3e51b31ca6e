package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
)

var rolesCmd = &cobra.Command{
	Use:   "roles",
	Short: "Show the roles of the connected account",
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			panel.NewRoleManager(a.env, sc, a.manager).Show()
		})
	},
}

var grantCmd = &cobra.Command{
	Use:   "grant <manufacturer|retailer|service-center> <address>",
	Short: "Grant a role to an address (administrator only)",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			p := panel.NewRoleManager(a.env, sc, a.manager)
			if p.Grant(ctx, args[0], args[1]) == nil {
				p.Show()
			}
		})
	},
}

func init() {
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(grantCmd)
}
