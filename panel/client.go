package panel

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/util/account"
)

// clientContract lets *contract.Client serve as a Contract; only the
// writes need adapting, their pending type is concrete.
type clientContract struct {
	*contract.Client
}

// ClientBinder binds c to each session signer.
func ClientBinder(c *contract.Client) Binder {
	return func(signer account.Signer) Contract {
		return clientContract{c.WithSigner(signer)}
	}
}

func (c clientContract) RegisterProduct(ctx context.Context, owner common.Address, serial, model string, warrantySeconds, claimLimit *big.Int) (Pending, error) {
	return pending(c.Client.RegisterProduct(ctx, owner, serial, model, warrantySeconds, claimLimit))
}

func (c clientContract) SubmitWarrantyClaim(ctx context.Context, tokenID *big.Int, description string) (Pending, error) {
	return pending(c.Client.SubmitWarrantyClaim(ctx, tokenID, description))
}

func (c clientContract) ProcessWarrantyClaim(ctx context.Context, claimID *big.Int, approved bool) (Pending, error) {
	return pending(c.Client.ProcessWarrantyClaim(ctx, claimID, approved))
}

func (c clientContract) RecordService(ctx context.Context, claimID *big.Int, notes string) (Pending, error) {
	return pending(c.Client.RecordService(ctx, claimID, notes))
}

func (c clientContract) SafeTransferFrom(ctx context.Context, from, to common.Address, tokenID *big.Int) (Pending, error) {
	return pending(c.Client.SafeTransferFrom(ctx, from, to, tokenID))
}

func (c clientContract) GrantRole(ctx context.Context, role common.Hash, acc common.Address) (Pending, error) {
	return pending(c.Client.GrantRole(ctx, role, acc))
}

// pending keeps a nil *PendingTx from turning into a non-nil interface.
func pending(tx *contract.PendingTx, err error) (Pending, error) {
	if err != nil {
		return nil, err
	}
	return tx, nil
}
