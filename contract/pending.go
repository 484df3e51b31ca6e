package contract

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	pcommon "github.com/tranvictor/provenance/common"
)

// PendingTx is a broadcast transaction that is not known to be mined yet.
type PendingTx struct {
	Tx     *types.Transaction
	Method string

	from   common.Address
	client *Client
}

func (p *PendingTx) Hash() common.Hash {
	return p.Tx.Hash()
}

// Wait blocks until the transaction is mined. A failed receipt is turned
// into a *RevertError; the reason is recovered by replaying the call at
// the block it was mined in.
func (p *PendingTx) Wait(ctx context.Context) (*types.Receipt, error) {
	receipt, err := p.client.transactor.WaitMined(ctx, p.Tx)
	if err != nil {
		return nil, pcommon.Failure(err)
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return receipt, nil
	}
	return receipt, &RevertError{
		TxHash: p.Tx.Hash(),
		Reason: p.replayReason(ctx, receipt),
	}
}

func (p *PendingTx) replayReason(ctx context.Context, receipt *types.Receipt) string {
	_, err := p.client.backend.CallContract(ctx, ethereum.CallMsg{
		From:  p.from,
		To:    p.Tx.To(),
		Gas:   p.Tx.Gas(),
		Value: p.Tx.Value(),
		Data:  p.Tx.Data(),
	}, receipt.BlockNumber)
	return Reason(err)
}
