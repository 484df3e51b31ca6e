package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
)

var (
	registerForm panel.RegisterForm
	sellForm     panel.SellForm
	FindQuery    string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new product (manufacturer only)",
	Long: `Mints a product NFT to its initial owner. Fields not given as flags are
asked interactively. The warranty duration is in days.`,
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			p := panel.NewRegisterProduct(a.env, sc)
			p.Register(ctx, p.Prompt(registerForm))
		})
	},
}

var availableCmd = &cobra.Command{
	Use:   "available",
	Short: "List the unsold products you hold (retailer only)",
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			p := panel.NewSellProduct(a.env, sc)
			defer p.Close()
			if p.LoadAvailable(ctx) != nil {
				return
			}
			if FindQuery != "" {
				p.ShowMatches(FindQuery)
				return
			}
			p.ShowAvailable()
		})
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell",
	Short: "Sell a product to a customer, activating its warranty (retailer only)",
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			p := panel.NewSellProduct(a.env, sc)
			defer p.Close()
			if sellForm.Serial == "" {
				p.LoadAvailable(ctx)
			}
			p.Sell(ctx, p.Prompt(sellForm))
		})
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerForm.InitialOwner, "owner", "", "Initial owner address")
	registerCmd.Flags().StringVar(&registerForm.Serial, "serial", "", "Serial number")
	registerCmd.Flags().StringVar(&registerForm.Model, "model", "", "Model")
	registerCmd.Flags().StringVar(&registerForm.WarrantyDays, "warranty-days", "", "Warranty duration in days")
	registerCmd.Flags().StringVar(&registerForm.ClaimLimit, "claim-limit", "", "Maximum number of warranty claims")

	availableCmd.Flags().StringVar(&FindQuery, "find", "", "Search the available products by serial or model")

	sellCmd.Flags().StringVar(&sellForm.Serial, "serial", "", "Serial number of the product to sell")
	sellCmd.Flags().StringVar(&sellForm.Model, "model", "", "Model of the product to sell")
	sellCmd.Flags().StringVar(&sellForm.To, "to", "", "Customer address")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(availableCmd)
	rootCmd.AddCommand(sellCmd)
}
