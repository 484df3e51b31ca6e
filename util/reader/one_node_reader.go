package reader

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
)

// TIMEOUT bounds every point read. Log scans are not bounded.
const TIMEOUT time.Duration = 4 * time.Second

type OneNodeReader struct {
	nodeName  string
	nodeURL   string
	client    *rpc.Client
	ethClient *ethclient.Client
	mu        sync.Mutex
}

func NewOneNodeReader(name, url string) *OneNodeReader {
	return &OneNodeReader{
		nodeName: name,
		nodeURL:  url,
	}
}

func (onr *OneNodeReader) NodeName() string {
	return onr.nodeName
}

func (onr *OneNodeReader) NodeURL() string {
	return onr.nodeURL
}

func (onr *OneNodeReader) EthClient(ctx context.Context) (*ethclient.Client, error) {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.ethClient != nil {
		return onr.ethClient, nil
	}
	client, err := rpc.DialContext(ctx, onr.nodeURL)
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to %s: %w", onr.nodeName, err)
	}
	onr.client = client
	onr.ethClient = ethclient.NewClient(client)
	return onr.ethClient, nil
}

// Close drops the connection; the next call dials again.
func (onr *OneNodeReader) Close() {
	onr.mu.Lock()
	defer onr.mu.Unlock()
	if onr.client != nil {
		onr.client.Close()
	}
	onr.client = nil
	onr.ethClient = nil
}

func (onr *OneNodeReader) ChainID(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.ChainID(timeout)
}

func (onr *OneNodeReader) CallContract(ctx context.Context, msg ethereum.CallMsg, atBlock *big.Int) ([]byte, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.CallContract(timeout, msg, atBlock)
}

func (onr *OneNodeReader) FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	return ethcli.FilterLogs(ctx, q)
}

func (onr *OneNodeReader) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.EstimateGas(timeout, msg)
}

func (onr *OneNodeReader) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return 0, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.PendingNonceAt(timeout, account)
}

func (onr *OneNodeReader) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.SuggestGasPrice(timeout)
}

func (onr *OneNodeReader) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.SuggestGasTipCap(timeout)
}

func (onr *OneNodeReader) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.HeaderByNumber(timeout, number)
}

func (onr *OneNodeReader) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.TransactionReceipt(timeout, hash)
}

func (onr *OneNodeReader) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return nil, false, err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.TransactionByHash(timeout, hash)
}

func (onr *OneNodeReader) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	ethcli, err := onr.EthClient(ctx)
	if err != nil {
		return err
	}
	timeout, cancel := context.WithTimeout(ctx, TIMEOUT)
	defer cancel()
	return ethcli.SendTransaction(timeout, tx)
}
