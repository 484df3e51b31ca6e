package cmd

import (
	"context"

	"github.com/spf13/cobra"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
)

var ProductID string

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the products your account owns",
	Long: `Lists every product the connected account owns. With --id, looks up one
product by token id and shows all of its details, as long as you own it.`,
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			list := panel.NewProductList(a.env, sc)
			if ProductID == "" {
				if list.Load(ctx) == nil {
					list.Show()
				}
				return
			}
			if list.Search(ctx, ProductID) != nil {
				return
			}
			id, _ := pcommon.ParsePositive("product ID", ProductID)
			list.ShowDetails(id)
		})
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer <product id> <to address>",
	Short: "Transfer a product you own to another address",
	Long: `Transfers the product to the given address. When the receiver is a
customer, the contract activates the product's warranty.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			panel.NewTransferProduct(a.env, sc).Transfer(ctx, args[0], args[1])
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <product id>",
	Short: "Show every on-chain event of a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			panel.NewProductHistory(a.env, sc).Show(ctx, args[0])
		})
	},
}

func init() {
	productsCmd.Flags().StringVar(&ProductID, "id", "", "Token id of one product to look up")
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(transferCmd)
	rootCmd.AddCommand(historyCmd)
}
