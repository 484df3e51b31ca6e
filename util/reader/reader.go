package reader

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var ErrNoNodes = errors.New("no nodes configured")

// EthReader asks every node it knows the same question and returns the
// first successful answer.
type EthReader struct {
	nodes []EthereumNode
}

// NewEthReaderGeneric builds a reader from a name => url map.
func NewEthReaderGeneric(nodes map[string]string) *EthReader {
	names := make([]string, 0, len(nodes))
	for name := range nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	ns := []EthereumNode{}
	for _, name := range names {
		ns = append(ns, NewOneNodeReader(name, nodes[name]))
	}
	return NewEthReaderWithNodes(ns...)
}

func NewEthReaderWithNodes(nodes ...EthereumNode) *EthReader {
	return &EthReader{nodes: nodes}
}

func (er *EthReader) Nodes() []EthereumNode {
	return er.nodes
}

func wrapError(e error, name string) error {
	if e == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", name, e)
}

type nodeResult[T any] struct {
	Value T
	Error error
}

// firstSuccess runs fn against all nodes concurrently. When every node
// fails the errors are joined so callers can still inspect them with
// errors.Is / errors.As.
func firstSuccess[T any](ctx context.Context, nodes []EthereumNode, fn func(context.Context, EthereumNode) (T, error)) (T, error) {
	var zero T
	if len(nodes) == 0 {
		return zero, ErrNoNodes
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	resCh := make(chan nodeResult[T], len(nodes))
	for i := range nodes {
		n := nodes[i]
		go func() {
			v, err := fn(ctx, n)
			resCh <- nodeResult[T]{
				Value: v,
				Error: wrapError(err, n.NodeName()),
			}
		}()
	}
	errs := []error{}
	for i := 0; i < len(nodes); i++ {
		result := <-resCh
		if result.Error == nil {
			return result.Value, nil
		}
		errs = append(errs, result.Error)
	}
	if len(errs) == 1 {
		return zero, errs[0]
	}
	return zero, fmt.Errorf("couldn't read from any nodes: %w", errors.Join(errs...))
}

func (er *EthReader) ChainID(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.ChainID(ctx)
	})
}

func (er *EthReader) CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock *big.Int) ([]byte, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) ([]byte, error) {
		return n.CallContract(ctx, msg, atBlock)
	})
}

func (er *EthReader) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) ([]types.Log, error) {
		return n.FilterLogs(ctx, q)
	})
}

func (er *EthReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.EstimateGas(ctx, msg)
	})
}

func (er *EthReader) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (uint64, error) {
		return n.PendingNonceAt(ctx, account)
	})
}

func (er *EthReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestGasPrice(ctx)
	})
}

func (er *EthReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*big.Int, error) {
		return n.SuggestGasTipCap(ctx)
	})
}

func (er *EthReader) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*types.Header, error) {
		return n.HeaderByNumber(ctx, number)
	})
}

func (er *EthReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (*types.Receipt, error) {
		return n.TransactionReceipt(ctx, hash)
	})
}

type txLookup struct {
	tx        *types.Transaction
	isPending bool
}

func (er *EthReader) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	res, err := firstSuccess(ctx, er.nodes, func(ctx context.Context, n EthereumNode) (txLookup, error) {
		tx, pending, err := n.TransactionByHash(ctx, hash)
		return txLookup{tx, pending}, err
	})
	return res.tx, res.isPending, err
}

// CurrentBlock returns the latest block number.
func (er *EthReader) CurrentBlock(ctx context.Context) (uint64, error) {
	header, err := er.HeaderByNumber(ctx, nil)
	if err != nil {
		return 0, err
	}
	return header.Number.Uint64(), nil
}
