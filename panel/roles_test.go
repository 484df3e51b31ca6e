package panel

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
)

type countingRefresher struct {
	calls int
	next  session.Context
}

func (r *countingRefresher) RefreshRoles(ctx context.Context) session.Context {
	r.calls++
	return r.next
}

var adminCtx = connected(maker, session.RoleSet{Admin: true})

func TestGrantRole(t *testing.T) {
	chain := newFakeChain()
	env, u := newTestEnv(chain)
	refresher := &countingRefresher{next: connected(maker, session.RoleSet{Admin: true, Retailer: true})}

	rm := NewRoleManager(env, adminCtx, refresher)
	require.NoError(t, rm.Grant(context.Background(), "service center", retailer.Hex()))
	require.Equal(t, []string{"grantRole"}, chain.sentMethods())
	digest, _ := chain.RoleDigest(context.Background(), contract.RoleServiceCenter)
	assert.Equal(t, digest, chain.sent[0].Args[0].(common.Hash))
	assert.Equal(t, retailer, chain.sent[0].Args[1])
	assert.Equal(t, []string{"Role granted successfully!"}, u.SuccessMessages())
	assert.Equal(t, 1, refresher.calls)
	assert.True(t, rm.Context().Roles.Retailer)
}

func TestGrantRoleRefusals(t *testing.T) {
	cases := []struct {
		name    string
		sc      session.Context
		role    string
		address string
		kind    error
		msg     string
	}{
		{"not admin", connected(maker, session.RoleSet{Manufacturer: true}), "RETAILER", retailer.Hex(), pcommon.ErrPermissionDenied, "Insufficient Permissions: Administrator role required"},
		{"missing address", adminCtx, "RETAILER", "", pcommon.ErrValidation, "Please fill in complete role and address information"},
		{"admin role", adminCtx, "ADMIN", retailer.Hex(), pcommon.ErrValidation, "Invalid role type"},
		{"unknown role", adminCtx, "OWNER", retailer.Hex(), pcommon.ErrValidation, "Invalid role type"},
		{"bad address", adminCtx, "retailer", "0xabc", pcommon.ErrValidation, "Please enter a valid Ethereum address"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := newFakeChain()
			env, u := newTestEnv(chain)
			refresher := &countingRefresher{}

			err := NewRoleManager(env, tc.sc, refresher).Grant(context.Background(), tc.role, tc.address)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, []string{tc.msg}, u.ErrorMessages())
			assert.Empty(t, chain.sent)
			assert.Zero(t, refresher.calls)
		})
	}
}

func TestShowRoles(t *testing.T) {
	chain := newFakeChain()
	env, u := newTestEnv(chain)

	NewRoleManager(env, connected(maker, session.RoleSet{Admin: true, ServiceCenter: true}), nil).Show()
	assert.Contains(t, u.Entries(), entry("KeyValue", "Administrator: Yes"))
	assert.Contains(t, u.Entries(), entry("KeyValue", "Manufacturer: No"))
	assert.Contains(t, u.Entries(), entry("KeyValue", "Retailer: No"))
	assert.Contains(t, u.Entries(), entry("KeyValue", "Service Center: Yes"))
}

func TestRolePromptChoosesRole(t *testing.T) {
	chain := newFakeChain()
	env, _ := newTestEnv(chain, "2", retailer.Hex())

	role, addr := NewRoleManager(env, adminCtx, nil).Prompt("", "")
	assert.Equal(t, "RETAILER", role)
	assert.Equal(t, retailer.Hex(), addr)
}
