package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
)

var (
	claimForm panel.ClaimForm
	ClaimID   string
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Submit a warranty claim for a product you own",
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			c := panel.NewWarrantyClaim(a.env, sc)
			c.Submit(ctx, c.Prompt(claimForm))
		})
	},
}

var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "List warranty claims (service center only)",
	Run: func(cmd *cobra.Command, args []string) {
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			p := panel.NewServiceCenter(a.env, sc)
			var err error
			if ClaimID != "" {
				err = p.Lookup(ctx, ClaimID)
			} else {
				err = p.LoadAll(ctx)
			}
			if err == nil {
				p.Show()
			}
		})
	},
}

func parseDecision(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve", "approved", "yes", "y":
		return true, nil
	case "reject", "rejected", "no", "n":
		return false, nil
	}
	return false, fmt.Errorf("decision must be approve or reject, got %q", s)
}

var processCmd = &cobra.Command{
	Use:   "process <claim id> approve|reject",
	Short: "Approve or reject a pending warranty claim (service center only)",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(2)(cmd, args); err != nil {
			return err
		}
		if _, err := parseDecision(args[1]); err != nil {
			return err
		}
		_, err := pcommon.ParsePositive("claim ID", args[0])
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		approved, _ := parseDecision(args[1])
		id, _ := pcommon.ParsePositive("claim ID", args[0])
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			panel.NewServiceCenter(a.env, sc).Process(ctx, id, approved)
		})
	},
}

var serviceCmd = &cobra.Command{
	Use:   "service <claim id> <notes>",
	Short: "Record the service done for an approved claim (service center only)",
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(2)(cmd, args); err != nil {
			return err
		}
		_, err := pcommon.ParsePositive("claim ID", args[0])
		return err
	},
	Run: func(cmd *cobra.Command, args []string) {
		id, _ := pcommon.ParsePositive("claim ID", args[0])
		notes := strings.Join(args[1:], " ")
		oneShot(cmd.Context(), func(ctx context.Context, a *app, sc session.Context) {
			panel.NewServiceCenter(a.env, sc).RecordService(ctx, id, notes)
		})
	},
}

func init() {
	claimCmd.Flags().StringVar(&claimForm.Serial, "serial", "", "Serial number")
	claimCmd.Flags().StringVar(&claimForm.Model, "model", "", "Model")
	claimCmd.Flags().StringVar(&claimForm.Description, "description", "", "Issue description")

	claimsCmd.Flags().StringVar(&ClaimID, "id", "", "Show one claim by id")

	rootCmd.AddCommand(claimCmd)
	rootCmd.AddCommand(claimsCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(serviceCmd)
}
