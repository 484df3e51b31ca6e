package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/provenance/util/logger"
)

// ErrTxLost is returned when no node has heard of the tx for longer
// than the monitor's lost timeout.
var ErrTxLost = errors.New("transaction is not known to any node")

type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

type TxMonitor struct {
	reader   ReceiptReader
	interval time.Duration
	lostTime time.Duration
}

func NewGenericTxMonitor(r ReceiptReader) *TxMonitor {
	return &TxMonitor{
		reader:   r,
		interval: 5 * time.Second,
		lostTime: 3 * time.Minute,
	}
}

// WithTiming overrides the polling interval and the lost timeout.
func (self *TxMonitor) WithTiming(interval, lost time.Duration) *TxMonitor {
	return &TxMonitor{self.reader, interval, lost}
}

// WaitMined polls until the tx has a receipt and returns it whatever
// its status. It gives up with ErrTxLost if the tx was never seen on
// any node within the lost timeout, or with ctx's error.
func (self *TxMonitor) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	hash := tx.Hash()
	ticker := time.NewTicker(self.interval)
	defer ticker.Stop()
	startTime := time.Now()
	isOnNode := false
	for {
		receipt, err := self.reader.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			logger.L().Debug("receipt lookup failed", zap.String("tx", hash.Hex()), zap.Error(err))
		}
		if !isOnNode {
			if _, _, err := self.reader.TransactionByHash(ctx, hash); err == nil {
				isOnNode = true
			} else if time.Since(startTime) > self.lostTime {
				return nil, fmt.Errorf("%s: %w", hash.Hex(), ErrTxLost)
			}
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
