package panel

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/session"
)

var manufacturerCtx = connected(maker, session.RoleSet{Manufacturer: true})

func TestRegisterConvertsDaysToSeconds(t *testing.T) {
	chain := newFakeChain()
	env, u := newTestEnv(chain)

	err := NewRegisterProduct(env, manufacturerCtx).Register(context.Background(), RegisterForm{
		InitialOwner: retailer.Hex(),
		Serial:       "SN-0001",
		Model:        "X1",
		WarrantyDays: "365",
		ClaimLimit:   "3",
	})
	require.NoError(t, err)
	require.Len(t, chain.sent, 1)
	tx := chain.sent[0]
	assert.Equal(t, "registerProduct", tx.Method)
	assert.Equal(t, retailer, tx.Args[0])
	assert.Equal(t, "SN-0001", tx.Args[1])
	assert.Equal(t, "X1", tx.Args[2])
	assert.Equal(t, 0, big.NewInt(31536000).Cmp(tx.Args[3].(*big.Int)))
	assert.Equal(t, 0, big.NewInt(3).Cmp(tx.Args[4].(*big.Int)))
	assert.Equal(t, []string{"Product registered successfully!"}, u.SuccessMessages())
	assert.Len(t, u.CriticalMessages(), 1)
}

func TestRegisterValidatesBeforeSending(t *testing.T) {
	cases := []struct {
		name string
		form RegisterForm
		msg  string
	}{
		{"bad owner", RegisterForm{InitialOwner: "0x1234", Serial: "S", Model: "M", WarrantyDays: "1", ClaimLimit: "1"}, "Please enter a valid Ethereum address"},
		{"no serial", RegisterForm{InitialOwner: retailer.Hex(), Model: "M", WarrantyDays: "1", ClaimLimit: "1"}, "Please enter serial number"},
		{"no model", RegisterForm{InitialOwner: retailer.Hex(), Serial: "S", WarrantyDays: "1", ClaimLimit: "1"}, "Please enter model"},
		{"bad days", RegisterForm{InitialOwner: retailer.Hex(), Serial: "S", Model: "M", WarrantyDays: "-4", ClaimLimit: "1"}, "Warranty duration must be a positive integer"},
		{"no limit", RegisterForm{InitialOwner: retailer.Hex(), Serial: "S", Model: "M", WarrantyDays: "1"}, "Please enter claim limit"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := newFakeChain()
			env, u := newTestEnv(chain)
			err := NewRegisterProduct(env, manufacturerCtx).Register(context.Background(), tc.form)
			assert.ErrorIs(t, err, pcommon.ErrValidation)
			assert.Equal(t, []string{tc.msg}, u.ErrorMessages())
			assert.Empty(t, chain.sent)
		})
	}
}

func TestRegisterRequiresManufacturer(t *testing.T) {
	chain := newFakeChain()
	env, _ := newTestEnv(chain)

	err := NewRegisterProduct(env, connected(retailer, session.RoleSet{Retailer: true})).Register(context.Background(), RegisterForm{
		InitialOwner: retailer.Hex(), Serial: "S", Model: "M", WarrantyDays: "1", ClaimLimit: "1",
	})
	assert.ErrorIs(t, err, pcommon.ErrPermissionDenied)
	assert.Empty(t, chain.sent)
}

func TestRegisterPromptFillsMissingFields(t *testing.T) {
	chain := newFakeChain()
	env, u := newTestEnv(chain, "SN-9", "X9", "30", "2")

	panel := NewRegisterProduct(env, manufacturerCtx)
	form := panel.Prompt(RegisterForm{InitialOwner: retailer.Hex()})
	assert.Equal(t, RegisterForm{
		InitialOwner: retailer.Hex(),
		Serial:       "SN-9",
		Model:        "X9",
		WarrantyDays: "30",
		ClaimLimit:   "2",
	}, form)
	assert.Zero(t, u.Remaining())
}
