package broadcaster

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/util/logger"
	"github.com/tranvictor/provenance/util/reader"
)

// Broadcaster takes a signed tx and tries to broadcast it to all
// nodes it manages at once. The tx counts as broadcast when at least
// one node accepted it.
type Broadcaster struct {
	nodes []reader.EthereumNode
}

func NewBroadcaster(nodes ...reader.EthereumNode) *Broadcaster {
	return &Broadcaster{nodes: nodes}
}

func (b *Broadcaster) Nodes() []reader.EthereumNode {
	return b.nodes
}

func (b *Broadcaster) BroadcastTx(ctx context.Context, tx *types.Transaction) (common.Hash, error) {
	if len(b.nodes) == 0 {
		return tx.Hash(), reader.ErrNoNodes
	}
	parallelTasks := []func() error{}
	for i := range b.nodes {
		n := b.nodes[i]
		parallelTasks = append(parallelTasks, func() error {
			if err := n.SendTransaction(ctx, tx); err != nil {
				logger.L().Debug("node rejected tx",
					zap.String("node", n.NodeName()),
					zap.String("tx", tx.Hash().Hex()),
					zap.Error(err))
				return fmt.Errorf("%s: %w", n.NodeName(), err)
			}
			return nil
		})
	}
	numErrs, err := pcommon.Parallel(parallelTasks...)
	if numErrs == len(b.nodes) {
		return tx.Hash(), fmt.Errorf("couldn't broadcast tx to any node: %w", err)
	}
	return tx.Hash(), nil
}
