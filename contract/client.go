package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/util/account"
)

// Backend is the read side of a node: eth_call and eth_getLogs.
// *reader.EthReader satisfies it.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
}

// Transactor signs and broadcasts transactions and waits for them to be
// mined. *transactor.Transactor satisfies it.
type Transactor interface {
	Transact(ctx context.Context, signer account.Signer, to common.Address, data []byte) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Client is bound to one deployment of the warranty contract and one
// signer. Constructing it does no network I/O.
type Client struct {
	address    common.Address
	fromBlock  uint64
	backend    Backend
	transactor Transactor
	signer     account.Signer
}

func New(address common.Address, backend Backend, transactor Transactor, signer account.Signer) *Client {
	return &Client{
		address:    address,
		backend:    backend,
		transactor: transactor,
		signer:     signer,
	}
}

// WithFromBlock returns a copy of c whose log scans start at block,
// normally the deployment block of the contract.
func (c *Client) WithFromBlock(block uint64) *Client {
	cp := *c
	cp.fromBlock = block
	return &cp
}

// WithSigner returns a copy of c that reads from and signs with signer.
func (c *Client) WithSigner(signer account.Signer) *Client {
	cp := *c
	cp.signer = signer
	return &cp
}

func (c *Client) Address() common.Address {
	return c.address
}

// From is the account reads are issued from and writes are signed by.
func (c *Client) From() common.Address {
	if c.signer == nil {
		return common.Address{}
	}
	return c.signer.Address()
}

func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]byte, error) {
	data, err := ABI().Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", method, err)
	}
	out, err := c.backend.CallContract(ctx, ethereum.CallMsg{
		From: c.From(),
		To:   &c.address,
		Data: data,
	}, nil)
	if err != nil {
		return nil, pcommon.Failure(fmt.Errorf("%s: %w", method, err))
	}
	return out, nil
}

func (c *Client) send(ctx context.Context, method string, args ...interface{}) (*PendingTx, error) {
	if c.signer == nil {
		return nil, fmt.Errorf("%s needs a connected account: %w", method, pcommon.ErrWalletUnavailable)
	}
	data, err := ABI().Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("couldn't pack %s: %w", method, err)
	}
	tx, err := c.transactor.Transact(ctx, c.signer, c.address, data)
	if err != nil {
		return nil, pcommon.Failure(fmt.Errorf("%s: %w", method, err))
	}
	return &PendingTx{
		Tx:     tx,
		Method: method,
		from:   c.signer.Address(),
		client: c,
	}, nil
}

func (c *Client) ProductDetails(ctx context.Context, tokenID *big.Int) (Product, error) {
	out, err := c.call(ctx, "getProductDetails", tokenID)
	if err != nil {
		return Product{}, err
	}
	return decodeProduct(tokenID, out)
}

func (c *Client) IsWarrantyActive(ctx context.Context, tokenID *big.Int) (bool, error) {
	out, err := c.call(ctx, "isWarrantyActive", tokenID)
	if err != nil {
		return false, err
	}
	return decodeBool("isWarrantyActive", out)
}

func (c *Client) OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error) {
	out, err := c.call(ctx, "ownerOf", tokenID)
	if err != nil {
		return common.Address{}, err
	}
	return decodeAddress("ownerOf", out)
}

func (c *Client) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	out, err := c.call(ctx, "balanceOf", owner)
	if err != nil {
		return nil, err
	}
	return decodeBig("balanceOf", out)
}

func (c *Client) TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error) {
	out, err := c.call(ctx, "tokenOfOwnerByIndex", owner, index)
	if err != nil {
		return nil, err
	}
	return decodeBig("tokenOfOwnerByIndex", out)
}

// TokenIDForSerialHash returns 0 for unknown serials.
func (c *Client) TokenIDForSerialHash(ctx context.Context, serialHash common.Hash) (*big.Int, error) {
	out, err := c.call(ctx, "tokenIdForSerialHash", serialHash)
	if err != nil {
		return nil, err
	}
	return decodeBig("tokenIdForSerialHash", out)
}

func (c *Client) WarrantyClaim(ctx context.Context, claimID *big.Int) (WarrantyClaim, error) {
	out, err := c.call(ctx, "getWarrantyClaim", claimID)
	if err != nil {
		return WarrantyClaim{}, err
	}
	return decodeClaim(claimID, out)
}

// RoleDigest returns the bytes32 identifier of role. The admin digest is a
// constant and needs no call.
func (c *Client) RoleDigest(ctx context.Context, role Role) (common.Hash, error) {
	if role == RoleAdmin {
		return DefaultAdminRole, nil
	}
	method := role.method()
	if method == "" {
		return common.Hash{}, pcommon.Validation("Invalid role type")
	}
	out, err := c.call(ctx, method)
	if err != nil {
		return common.Hash{}, err
	}
	return decodeHash(method, out)
}

func (c *Client) HasRole(ctx context.Context, role common.Hash, acc common.Address) (bool, error) {
	out, err := c.call(ctx, "hasRole", role, acc)
	if err != nil {
		return false, err
	}
	return decodeBool("hasRole", out)
}

func (c *Client) RegisterProduct(
	ctx context.Context,
	initialOwner common.Address,
	serial, model string,
	warrantySeconds, claimLimit *big.Int,
) (*PendingTx, error) {
	return c.send(ctx, "registerProduct", initialOwner, serial, model, warrantySeconds, claimLimit)
}

func (c *Client) SubmitWarrantyClaim(ctx context.Context, tokenID *big.Int, description string) (*PendingTx, error) {
	return c.send(ctx, "submitWarrantyClaim", tokenID, description)
}

func (c *Client) ProcessWarrantyClaim(ctx context.Context, claimID *big.Int, approved bool) (*PendingTx, error) {
	return c.send(ctx, "processWarrantyClaim", claimID, approved)
}

func (c *Client) RecordService(ctx context.Context, claimID *big.Int, notes string) (*PendingTx, error) {
	return c.send(ctx, "recordService", claimID, notes)
}

func (c *Client) SafeTransferFrom(ctx context.Context, from, to common.Address, tokenID *big.Int) (*PendingTx, error) {
	return c.send(ctx, "safeTransferFrom", from, to, tokenID)
}

func (c *Client) GrantRole(ctx context.Context, role common.Hash, acc common.Address) (*PendingTx, error) {
	return c.send(ctx, "grantRole", role, acc)
}
