package panel

import (
	"context"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
)

const actionRegisterProduct = "register product"

// RegisterForm is what a manufacturer types in. Durations are in days.
type RegisterForm struct {
	InitialOwner string
	Serial       string
	Model        string
	WarrantyDays string
	ClaimLimit   string
}

type RegisterProduct struct {
	base
}

func NewRegisterProduct(env Env, sc session.Context) *RegisterProduct {
	return &RegisterProduct{base: newBase(env, sc, "register")}
}

// Prompt asks for every field f leaves empty.
func (r *RegisterProduct) Prompt(f RegisterForm) RegisterForm {
	u := r.ui()
	u.Section("Register Product")
	f.InitialOwner = prompt(u, "Initial owner address", f.InitialOwner)
	f.Serial = prompt(u, "Serial number", f.Serial)
	f.Model = prompt(u, "Model", f.Model)
	f.WarrantyDays = prompt(u, "Warranty duration (days)", f.WarrantyDays)
	f.ClaimLimit = prompt(u, "Warranty claim limit", f.ClaimLimit)
	return f
}

func (r *RegisterProduct) Register(ctx context.Context, f RegisterForm) error {
	return r.run(actionRegisterProduct, func() error {
		if err := r.requireRole(contract.RoleManufacturer); err != nil {
			return err
		}
		owner, err := pcommon.ParseAddress(f.InitialOwner)
		if err != nil {
			return err
		}
		if err := required(f.Serial, "Please enter serial number"); err != nil {
			return err
		}
		if err := required(f.Model, "Please enter model"); err != nil {
			return err
		}
		days, err := pcommon.ParsePositive("warranty duration", f.WarrantyDays)
		if err != nil {
			return err
		}
		limit, err := pcommon.ParsePositive("claim limit", f.ClaimLimit)
		if err != nil {
			return err
		}
		seconds := pcommon.DaysToSeconds(days)
		r.logger.Info("registering product",
			zap.String("serial", f.Serial),
			zap.String("model", f.Model),
			zap.String("owner", owner.Hex()),
			zap.Stringer("warrantySeconds", seconds))
		err = r.submit(ctx, func() (Pending, error) {
			return r.contract.RegisterProduct(ctx, owner, f.Serial, f.Model, seconds, limit)
		})
		if err != nil {
			return err
		}
		r.ui().Success("Product registered successfully!")
		return nil
	})
}
