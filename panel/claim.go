package panel

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/tranvictor/provenance/session"
)

const actionSubmitClaim = "submit warranty claim"

type ClaimForm struct {
	Serial      string
	Model       string
	Description string
}

// WarrantyClaim lets the owner of a product report an issue.
type WarrantyClaim struct {
	base
}

func NewWarrantyClaim(env Env, sc session.Context) *WarrantyClaim {
	return &WarrantyClaim{base: newBase(env, sc, "claim")}
}

func (w *WarrantyClaim) Prompt(f ClaimForm) ClaimForm {
	u := w.ui()
	u.Section("Warranty Claim")
	f.Serial = prompt(u, "Serial number", f.Serial)
	f.Model = prompt(u, "Model", f.Model)
	f.Description = prompt(u, "Issue description", f.Description)
	return f
}

// Submit sends a claim. Repeated submissions are left for the contract
// to accept or refuse.
func (w *WarrantyClaim) Submit(ctx context.Context, f ClaimForm) error {
	return w.run(actionSubmitClaim, func() error {
		if err := w.requireSession(); err != nil {
			return err
		}
		if err := required(f.Serial, "Please enter serial number"); err != nil {
			return err
		}
		if err := required(f.Model, "Please enter model"); err != nil {
			return err
		}
		if err := required(f.Description, "Please enter issue description"); err != nil {
			return err
		}
		p, err := w.ownedBySerial(ctx, strings.TrimSpace(f.Serial), "This product does not belong to you, cannot submit warranty claim")
		if err != nil {
			return err
		}
		if err := checkModel(p, f.Model); err != nil {
			return err
		}
		w.logger.Info("submitting claim", zap.Stringer("tokenId", p.TokenID))
		err = w.submit(ctx, func() (Pending, error) {
			return w.contract.SubmitWarrantyClaim(ctx, p.TokenID, f.Description)
		})
		if err != nil {
			return err
		}
		w.ui().Success("Warranty claim submitted successfully!")
		return nil
	})
}
