package panel

import (
	"context"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/session"
)

// TransferProduct moves one of the owner's products to another address.
type TransferProduct struct {
	base
}

func NewTransferProduct(env Env, sc session.Context) *TransferProduct {
	return &TransferProduct{base: newBase(env, sc, "transfer")}
}

func (t *TransferProduct) Prompt(idText, to string) (string, string) {
	u := t.ui()
	u.Section("Transfer Product")
	return prompt(u, "Product ID", idText), prompt(u, "Recipient address", to)
}

// Transfer validates the recipient before touching the chain. Whether
// the warranty starts is up to the contract.
func (t *TransferProduct) Transfer(ctx context.Context, idText, to string) error {
	return t.run(actionTransferProduct, func() error {
		if err := t.requireSession(); err != nil {
			return err
		}
		recipient, err := pcommon.ParseAddress(to)
		if err != nil {
			return err
		}
		id, err := pcommon.ParsePositive("product ID", idText)
		if err != nil {
			return err
		}
		t.logger.Info("transferring product", zap.Stringer("tokenId", id), zap.String("to", recipient.Hex()))
		err = t.submit(ctx, func() (Pending, error) {
			return t.contract.SafeTransferFrom(ctx, t.account(), recipient, id)
		})
		if err != nil {
			return err
		}
		t.ui().Success("Product transferred successfully! If transferred to a customer, warranty will be automatically activated.")
		return nil
	})
}
