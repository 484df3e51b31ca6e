// Package session tracks which account the user is connected with and
// what that account is allowed to do.
package session

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
	"github.com/tranvictor/provenance/wallet"
)

// Session is the connected account and its signer. Both are set or
// both are empty.
type Session struct {
	Account common.Address
	Signer  account.Signer
}

func (s Session) Connected() bool {
	return s.Signer != nil
}

// Context is the immutable view every panel works with.
type Context struct {
	Session Session
	Roles   RoleSet
}

// Binder returns a role reader that issues its calls as signer.
type Binder func(signer account.Signer) RoleReader

// Derive builds the Context for account. Role lookup failures leave the
// roles empty; they never fail the session.
func Derive(ctx context.Context, r RoleReader, acc common.Address, signer account.Signer) Context {
	if signer == nil || acc == (common.Address{}) {
		return Context{}
	}
	roles, _ := ResolveRoles(ctx, r, acc)
	return Context{
		Session: Session{Account: acc, Signer: signer},
		Roles:   roles,
	}
}

type Manager struct {
	wallet wallet.Wallet
	bind   Binder
	logger *zap.Logger

	applyMu   sync.Mutex
	mu        sync.Mutex
	current   Context
	observers []func(Context)
}

func NewManager(w wallet.Wallet, bind Binder, l *zap.Logger) *Manager {
	if l == nil {
		l = zap.NewNop()
	}
	return &Manager{wallet: w, bind: bind, logger: l.Named("session")}
}

func (m *Manager) Current() Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// OnChange registers fn to be called after every session change. fn may
// run on the watcher goroutine.
func (m *Manager) OnChange(fn func(Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

func (m *Manager) set(c Context) {
	m.mu.Lock()
	m.current = c
	observers := make([]func(Context), len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()
	for _, fn := range observers {
		fn(c)
	}
}

// apply moves the session to the first of accounts, or clears it when
// there are none.
func (m *Manager) apply(ctx context.Context, accounts []common.Address) (Context, error) {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()

	if len(accounts) == 0 {
		if m.Current().Session.Connected() {
			m.logger.Info("session cleared")
		}
		m.set(Context{})
		return Context{}, nil
	}
	acc := accounts[0]
	if cur := m.Current(); cur.Session.Connected() && cur.Session.Account == acc {
		return cur, nil
	}
	signer, err := m.wallet.Signer(acc)
	if err != nil {
		m.logger.Warn("couldn't get signer", zap.String("account", acc.Hex()), zap.Error(err))
		m.set(Context{})
		return Context{}, err
	}
	c := Derive(ctx, m.bind(signer), acc, signer)
	m.logger.Info("session established",
		zap.String("account", acc.Hex()),
		zap.Bool("admin", c.Roles.Admin),
		zap.Bool("manufacturer", c.Roles.Manufacturer),
		zap.Bool("retailer", c.Roles.Retailer),
		zap.Bool("serviceCenter", c.Roles.ServiceCenter))
	m.set(c)
	return c, nil
}

// Connect prompts the wallet for an account.
func (m *Manager) Connect(ctx context.Context, u ui.UI) (Context, error) {
	accounts, err := m.wallet.RequestAccounts(ctx, u)
	if err != nil {
		return m.Current(), err
	}
	return m.apply(ctx, accounts)
}

// Restore picks up an account the wallet already authorized, without
// prompting. No authorized account is not an error.
func (m *Manager) Restore(ctx context.Context) (Context, error) {
	accounts := m.wallet.Accounts()
	if len(accounts) == 0 {
		return Context{}, nil
	}
	return m.apply(ctx, accounts)
}

// Accounts are the accounts the wallet has authorized, active first.
func (m *Manager) Accounts() []common.Address {
	return m.wallet.Accounts()
}

// Switch makes another authorized account the active one.
func (m *Manager) Switch(ctx context.Context, acc common.Address) (Context, error) {
	if err := m.wallet.Select(acc); err != nil {
		return m.Current(), err
	}
	return m.apply(ctx, m.wallet.Accounts())
}

func (m *Manager) Disconnect() {
	m.wallet.Disconnect()
	m.apply(context.Background(), nil)
}

// RefreshRoles re-reads the roles of the current account.
func (m *Manager) RefreshRoles(ctx context.Context) Context {
	m.applyMu.Lock()
	defer m.applyMu.Unlock()
	cur := m.Current()
	if !cur.Session.Connected() {
		return cur
	}
	c := Derive(ctx, m.bind(cur.Session.Signer), cur.Session.Account, cur.Session.Signer)
	m.set(c)
	return c
}

// Watch follows the wallet's account changes until stop is called or
// ctx is done.
func (m *Manager) Watch(ctx context.Context) (stop func()) {
	ch := make(chan wallet.AccountsChanged, 8)
	sub := m.wallet.SubscribeAccounts(ch)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev := <-ch:
				if _, err := m.apply(ctx, ev.Accounts); err != nil {
					m.logger.Warn("account change not applied", zap.Error(err))
				}
			case <-sub.Err():
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			sub.Unsubscribe()
			<-done
		})
	}
}
