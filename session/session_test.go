package session

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
	"github.com/tranvictor/provenance/wallet"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000A11CE")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000B0B")
)

type staticSigner struct{ addr common.Address }

func (s staticSigner) Address() common.Address { return s.addr }
func (s staticSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return tx, nil
}

type fakeWallet struct {
	mu       sync.Mutex
	accounts []common.Address
	pending  []common.Address
	reject   bool
	feed     event.Feed
}

func (w *fakeWallet) RequestAccounts(ctx context.Context, u ui.UI) ([]common.Address, error) {
	if w.reject {
		return nil, pcommon.ErrUserRejected
	}
	w.mu.Lock()
	w.accounts = w.pending
	w.mu.Unlock()
	return w.Accounts(), nil
}

func (w *fakeWallet) Accounts() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]common.Address(nil), w.accounts...)
}

func (w *fakeWallet) Signer(addr common.Address) (account.Signer, error) {
	for _, a := range w.Accounts() {
		if a == addr {
			return staticSigner{addr}, nil
		}
	}
	return nil, pcommon.ErrWalletUnavailable
}

func (w *fakeWallet) Select(addr common.Address) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, a := range w.accounts {
		if a == addr {
			w.accounts[0], w.accounts[i] = w.accounts[i], w.accounts[0]
			return nil
		}
	}
	return pcommon.ErrPermissionDenied
}

func (w *fakeWallet) Disconnect() {
	w.mu.Lock()
	w.accounts = nil
	w.mu.Unlock()
	w.feed.Send(wallet.AccountsChanged{})
}

func (w *fakeWallet) SubscribeAccounts(ch chan<- wallet.AccountsChanged) event.Subscription {
	return w.feed.Subscribe(ch)
}

func (w *fakeWallet) switchTo(addrs ...common.Address) {
	w.mu.Lock()
	w.accounts = addrs
	w.mu.Unlock()
	w.feed.Send(wallet.AccountsChanged{Accounts: addrs})
}

type fakeRoles struct {
	mu      sync.Mutex
	members map[common.Address][]contract.Role
	failOn  contract.Role
	fail    bool
	calls   int
}

func digest(role contract.Role) common.Hash {
	if role == contract.RoleAdmin {
		return common.Hash{}
	}
	return crypto.Keccak256Hash([]byte(role.String() + "_ROLE"))
}

func (r *fakeRoles) RoleDigest(ctx context.Context, role contract.Role) (common.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail && role == r.failOn {
		return common.Hash{}, errors.New("execution reverted")
	}
	return digest(role), nil
}

func (r *fakeRoles) HasRole(ctx context.Context, role common.Hash, acc common.Address) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members[acc] {
		if digest(m) == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoles) grant(acc common.Address, role contract.Role) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members[acc] = append(r.members[acc], role)
}

func newTestManager(w *fakeWallet, r *fakeRoles) *Manager {
	return NewManager(w, func(account.Signer) RoleReader { return r }, nil)
}

func TestResolveRoles(t *testing.T) {
	r := &fakeRoles{members: map[common.Address][]contract.Role{
		alice: {contract.RoleAdmin, contract.RoleRetailer},
	}}
	roles, err := ResolveRoles(context.Background(), r, alice)
	require.NoError(t, err)
	assert.Equal(t, RoleSet{Admin: true, Retailer: true}, roles)
	assert.True(t, roles.Has(contract.RoleRetailer))
	assert.False(t, roles.Has(contract.RoleServiceCenter))
}

func TestResolveRolesFailureIsAllFalse(t *testing.T) {
	r := &fakeRoles{
		members: map[common.Address][]contract.Role{alice: {contract.RoleAdmin, contract.RoleManufacturer}},
		fail:    true,
		failOn:  contract.RoleServiceCenter,
	}
	roles, err := ResolveRoles(context.Background(), r, alice)
	assert.Error(t, err)
	assert.Equal(t, RoleSet{}, roles)
}

func TestConnectAndDisconnect(t *testing.T) {
	w := &fakeWallet{pending: []common.Address{alice}}
	r := &fakeRoles{members: map[common.Address][]contract.Role{alice: {contract.RoleManufacturer}}}
	m := newTestManager(w, r)

	var seen []Context
	m.OnChange(func(c Context) { seen = append(seen, c) })

	c, err := m.Connect(context.Background(), ui.NewRecordingUI())
	require.NoError(t, err)
	assert.Equal(t, alice, c.Session.Account)
	assert.True(t, c.Session.Connected())
	assert.True(t, c.Roles.Manufacturer)

	m.Disconnect()
	cur := m.Current()
	assert.False(t, cur.Session.Connected())
	assert.Equal(t, common.Address{}, cur.Session.Account)
	assert.Nil(t, cur.Session.Signer)
	assert.Equal(t, RoleSet{}, cur.Roles)
	require.Len(t, seen, 2)
	assert.Equal(t, Context{}, seen[1])
}

func TestConnectRejected(t *testing.T) {
	m := newTestManager(&fakeWallet{reject: true}, &fakeRoles{})
	_, err := m.Connect(context.Background(), ui.NewRecordingUI())
	assert.ErrorIs(t, err, pcommon.ErrUserRejected)
	assert.False(t, m.Current().Session.Connected())
}

func TestRestore(t *testing.T) {
	r := &fakeRoles{members: map[common.Address][]contract.Role{}}
	m := newTestManager(&fakeWallet{}, r)
	c, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, c.Session.Connected())
	assert.Zero(t, r.calls)

	m = newTestManager(&fakeWallet{accounts: []common.Address{bob, alice}}, r)
	c, err = m.Restore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, bob, c.Session.Account)
}

func TestWatchFollowsWallet(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}}
	r := &fakeRoles{members: map[common.Address][]contract.Role{bob: {contract.RoleServiceCenter}}}
	m := newTestManager(w, r)
	_, err := m.Restore(context.Background())
	require.NoError(t, err)

	changes := make(chan Context, 4)
	m.OnChange(func(c Context) { changes <- c })
	stop := m.Watch(context.Background())
	defer stop()

	w.switchTo(bob, alice)
	select {
	case c := <-changes:
		assert.Equal(t, bob, c.Session.Account)
		assert.True(t, c.Roles.ServiceCenter)
	case <-time.After(time.Second):
		t.Fatal("account switch not applied")
	}

	w.switchTo()
	select {
	case c := <-changes:
		assert.Equal(t, Context{}, c)
	case <-time.After(time.Second):
		t.Fatal("disconnect not applied")
	}

	stop()
	stop()
}

func TestRefreshRolesAfterGrant(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice}}
	r := &fakeRoles{members: map[common.Address][]contract.Role{alice: {contract.RoleAdmin}}}
	m := newTestManager(w, r)
	c, err := m.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, c.Roles.Retailer)

	r.grant(alice, contract.RoleRetailer)
	c = m.RefreshRoles(context.Background())
	assert.True(t, c.Roles.Retailer)
	assert.True(t, m.Current().Roles.Admin)
}

func TestSwitch(t *testing.T) {
	w := &fakeWallet{accounts: []common.Address{alice, bob}}
	m := newTestManager(w, &fakeRoles{members: map[common.Address][]contract.Role{}})
	_, err := m.Restore(context.Background())
	require.NoError(t, err)

	c, err := m.Switch(context.Background(), bob)
	require.NoError(t, err)
	assert.Equal(t, bob, c.Session.Account)

	_, err = m.Switch(context.Background(), common.HexToAddress("0x1"))
	assert.ErrorIs(t, err, pcommon.ErrPermissionDenied)
	assert.Equal(t, bob, m.Current().Session.Account)
}

func TestObserversAddedDuringNotificationWaitForNextChange(t *testing.T) {
	w := &fakeWallet{pending: []common.Address{alice}}
	m := newTestManager(w, &fakeRoles{members: map[common.Address][]contract.Role{}})

	var first, late int
	m.OnChange(func(Context) {
		first++
		if first == 1 {
			m.OnChange(func(Context) { late++ })
		}
	})

	_, err := m.Connect(context.Background(), ui.NewRecordingUI())
	require.NoError(t, err)
	assert.Equal(t, 1, first)
	assert.Zero(t, late)

	m.Disconnect()
	assert.Equal(t, 2, first)
	assert.Equal(t, 1, late)
}
