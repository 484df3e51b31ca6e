package panel

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/session"
)

var retailerCtx = connected(retailer, session.RoleSet{Retailer: true})

// applyTransfers makes safeTransferFrom move the token and activate its
// warranty, like the contract does for a sale.
func applyTransfers(chain *fakeChain) {
	chain.onSend = func(tx sentTx) {
		if tx.Method != "safeTransferFrom" {
			return
		}
		id := tx.Args[2].(*big.Int).String()
		p := chain.products[id]
		p.WarrantyStart = big.NewInt(1700000000)
		chain.products[id] = p
		chain.owners[id] = tx.Args[1].(common.Address)
	}
}

func TestSellModelMatchIgnoresCase(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-0001", "X1", retailer, 0)
	applyTransfers(chain)
	env, u := newTestEnv(chain)

	sell := NewSellProduct(env, retailerCtx)
	defer sell.Close()
	require.NoError(t, sell.LoadAvailable(context.Background()))
	require.Len(t, sell.Available(), 1)

	err := sell.Sell(context.Background(), SellForm{Serial: "SN-0001", Model: " x1 ", To: customer.Hex()})
	require.NoError(t, err)
	assert.Equal(t, []string{"safeTransferFrom"}, chain.sentMethods())
	tx := chain.sent[0]
	assert.Equal(t, retailer, tx.Args[0])
	assert.Equal(t, customer, tx.Args[1])
	assert.Equal(t, []string{"Product transferred successfully! Warranty has been automatically activated."}, u.SuccessMessages())
	// the available list is refreshed after the sale
	assert.Empty(t, sell.Available())
}

func TestSellModelMismatchSendsNothing(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-0001", "X1", retailer, 0)
	env, u := newTestEnv(chain)

	sell := NewSellProduct(env, retailerCtx)
	err := sell.Sell(context.Background(), SellForm{Serial: "SN-0001", Model: "X2", To: customer.Hex()})
	assert.ErrorIs(t, err, pcommon.ErrValidation)
	assert.Equal(t, []string{"Model mismatch. Product model is: X1"}, u.ErrorMessages())
	assert.Empty(t, chain.sent)
}

func TestSellPreconditions(t *testing.T) {
	cases := []struct {
		name string
		form SellForm
		msg  string
	}{
		{"no serial", SellForm{Model: "X1", To: customer.Hex()}, "Please enter serial number"},
		{"no model", SellForm{Serial: "SN-1", To: customer.Hex()}, "Please enter model"},
		{"no address", SellForm{Serial: "SN-1", Model: "X1"}, "Please enter customer address"},
		{"bad address", SellForm{Serial: "SN-1", Model: "X1", To: "1234567890123456789012345678901234567890"}, "Please enter a valid Ethereum address"},
		{"unknown serial", SellForm{Serial: "SN-404", Model: "X1", To: customer.Hex()}, pcommon.ErrProductNotFound.Error()},
		{"not owner", SellForm{Serial: "SN-2", Model: "X1", To: customer.Hex()}, "This product does not belong to you, cannot sell"},
		{"already sold", SellForm{Serial: "SN-3", Model: "X1", To: customer.Hex()}, "This product's warranty is activated, cannot sell again"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := newFakeChain()
			chain.addProduct(1, "SN-1", "X1", retailer, 0)
			chain.addProduct(2, "SN-2", "X1", stranger, 0)
			chain.addProduct(3, "SN-3", "X1", retailer, 1700000000)
			env, u := newTestEnv(chain)

			err := NewSellProduct(env, retailerCtx).Sell(context.Background(), tc.form)
			require.Error(t, err)
			assert.Equal(t, []string{tc.msg}, u.ErrorMessages())
			assert.Empty(t, chain.sent)
		})
	}
}

func TestSellRequiresRetailer(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-1", "X1", customer, 0)
	env, _ := newTestEnv(chain)

	err := NewSellProduct(env, connected(customer, session.RoleSet{})).Sell(context.Background(),
		SellForm{Serial: "SN-1", Model: "X1", To: stranger.Hex()})
	assert.ErrorIs(t, err, pcommon.ErrPermissionDenied)
	assert.Empty(t, chain.sent)
}

func TestSellRevertIsReported(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-1", "X1", retailer, 0)
	chain.waitErr = pcommon.Failure(errNode)
	env, u := newTestEnv(chain)

	err := NewSellProduct(env, retailerCtx).Sell(context.Background(), SellForm{Serial: "SN-1", Model: "X1", To: customer.Hex()})
	assert.ErrorIs(t, err, pcommon.ErrNetworkOrContract)
	require.Len(t, u.ErrorMessages(), 1)
	assert.Contains(t, u.ErrorMessages()[0], "Failed to transfer product: ")
	assert.Empty(t, u.SuccessMessages())
}

func TestLoadAvailableKeepsOwnedUnsold(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-1", "X1", retailer, 0)
	chain.addProduct(2, "SN-2", "X1", stranger, 0)
	chain.addProduct(3, "SN-3", "X1", retailer, 1700000000)
	chain.addProduct(4, "SN-4", "Z9", retailer, 0)
	env, u := newTestEnv(chain)

	sell := NewSellProduct(env, retailerCtx)
	defer sell.Close()
	require.NoError(t, sell.LoadAvailable(context.Background()))
	assert.Equal(t, []int64{1, 4}, tokenIDs(sell.Available()))

	sell.ShowAvailable()
	assert.Len(t, u.TableRows(), 2)
}

func TestFindAndPromptQuickFill(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-0001", "Widget", retailer, 0)
	chain.addProduct(2, "SN-0002", "Gadget", retailer, 0)
	env, u := newTestEnv(chain, "gadget", "1", customer.Hex())

	sell := NewSellProduct(env, retailerCtx)
	defer sell.Close()
	require.NoError(t, sell.LoadAvailable(context.Background()))

	found, err := sell.Find("widget")
	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "SN-0001", found[0].SerialNumber)

	form := sell.Prompt(SellForm{})
	assert.Equal(t, SellForm{Serial: "SN-0002", Model: "Gadget", To: customer.Hex()}, form)
	assert.Zero(t, u.Remaining())
}

func TestShowMatches(t *testing.T) {
	chain := newFakeChain()
	chain.addProduct(1, "SN-0001", "Widget", retailer, 0)
	chain.addProduct(2, "SN-0002", "Gadget", retailer, 0)
	env, u := newTestEnv(chain)

	sell := NewSellProduct(env, retailerCtx)
	defer sell.Close()
	require.NoError(t, sell.LoadAvailable(context.Background()))

	require.NoError(t, sell.ShowMatches("widget"))
	require.NotEmpty(t, u.TableRows())
	assert.Contains(t, u.TableRows()[0], "SN-0001")

	require.NoError(t, sell.ShowMatches("qqqqqqqq"))
	assert.Contains(t, u.InfoMessages(), `No available product matches "qqqqqqqq"`)
}
