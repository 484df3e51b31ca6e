package transactor

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/tranvictor/provenance/util/account"
	"github.com/tranvictor/provenance/util/logger"
)

// Node is the part of a chain reader needed to build a tx.
type Node interface {
	ChainID(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

type Broadcaster interface {
	BroadcastTx(ctx context.Context, tx *types.Transaction) (common.Hash, error)
}

type Monitor interface {
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Settings are the user overrides for gas. Zero values mean "ask the
// node".
type Settings struct {
	GasLimit      uint64
	ExtraGasLimit uint64
	GasPrice      float64 // gwei
	ExtraGasPrice float64 // gwei
	TipGas        float64 // gwei
	ForceLegacy   bool
}

// Transactor builds, signs and broadcasts contract calls. A call that
// fails gas estimation is never sent.
type Transactor struct {
	node        Node
	broadcaster Broadcaster
	monitor     Monitor
	settings    Settings

	mu      sync.Mutex
	chainID *big.Int
}

func NewTransactor(node Node, b Broadcaster, m Monitor, s Settings) *Transactor {
	return &Transactor{
		node:        node,
		broadcaster: b,
		monitor:     m,
		settings:    s,
	}
}

func (t *Transactor) ChainID(ctx context.Context) (*big.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.chainID != nil {
		return t.chainID, nil
	}
	id, err := t.node.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("couldn't get chain id: %w", err)
	}
	t.chainID = id
	return id, nil
}

// BuildTx returns the unsigned tx from -> to carrying data.
func (t *Transactor) BuildTx(ctx context.Context, from, to common.Address, data []byte) (*types.Transaction, error) {
	gasLimit := t.settings.GasLimit
	if gasLimit == 0 {
		var err error
		gasLimit, err = t.node.EstimateGas(ctx, ethereum.CallMsg{
			From: from,
			To:   &to,
			Data: data,
		})
		if err != nil {
			return nil, fmt.Errorf("couldn't estimate gas, the tx is meant to revert or network error: %w", err)
		}
	}
	gasLimit += t.settings.ExtraGasLimit

	nonce, err := t.node.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("couldn't get nonce of %s: %w", from.Hex(), err)
	}

	chainID, err := t.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	var baseFee *big.Int
	if !t.settings.ForceLegacy {
		header, err := t.node.HeaderByNumber(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("couldn't get latest header: %w", err)
		}
		baseFee = header.BaseFee
	}

	if baseFee == nil {
		gasPrice := GweiToWei(t.settings.GasPrice)
		if gasPrice.Sign() == 0 {
			if gasPrice, err = t.node.SuggestGasPrice(ctx); err != nil {
				return nil, fmt.Errorf("couldn't get gas price: %w", err)
			}
		}
		gasPrice.Add(gasPrice, GweiToWei(t.settings.ExtraGasPrice))
		return types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			To:       &to,
			Gas:      gasLimit,
			GasPrice: gasPrice,
			Data:     data,
		}), nil
	}

	tip := GweiToWei(t.settings.TipGas)
	if tip.Sign() == 0 {
		if tip, err = t.node.SuggestGasTipCap(ctx); err != nil {
			return nil, fmt.Errorf("couldn't get tip cap: %w", err)
		}
	}
	feeCap := GweiToWei(t.settings.GasPrice)
	if feeCap.Sign() == 0 {
		feeCap = new(big.Int).Add(new(big.Int).Mul(baseFee, big.NewInt(2)), tip)
	}
	feeCap.Add(feeCap, GweiToWei(t.settings.ExtraGasPrice))
	if feeCap.Cmp(tip) < 0 {
		tip = new(big.Int).Set(feeCap)
	}
	return types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		To:        &to,
		Gas:       gasLimit,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Data:      data,
	}), nil
}

// Transact builds a tx calling to with data, signs it with signer and
// broadcasts it. The signed tx is returned once at least one node has
// accepted it.
func (t *Transactor) Transact(ctx context.Context, signer account.Signer, to common.Address, data []byte) (*types.Transaction, error) {
	tx, err := t.BuildTx(ctx, signer.Address(), to, data)
	if err != nil {
		return nil, err
	}
	chainID, err := t.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	signed, err := signer.SignTx(tx, chainID)
	if err != nil {
		return nil, err
	}
	if _, err := t.broadcaster.BroadcastTx(ctx, signed); err != nil {
		return nil, err
	}
	logger.L().Info("tx broadcasted",
		zap.String("tx", signed.Hash().Hex()),
		zap.String("from", signer.Address().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", signed.Nonce()),
		zap.Uint64("gas", signed.Gas()))
	return signed, nil
}

func (t *Transactor) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := t.monitor.WaitMined(ctx, tx)
	if err != nil {
		return nil, err
	}
	logger.L().Info("tx mined",
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("status", receipt.Status),
		zap.Uint64("gasUsed", receipt.GasUsed))
	return receipt, nil
}

// GweiToWei converts a gwei amount to wei, truncating below 1 wei.
func GweiToWei(gwei float64) *big.Int {
	if gwei <= 0 {
		return new(big.Int)
	}
	f := new(big.Float).Mul(big.NewFloat(gwei), big.NewFloat(1e9))
	wei, _ := f.Int(nil)
	return wei
}
