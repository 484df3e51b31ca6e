// Package shell is the interactive front of provenance: connect a
// wallet, then move between the panels the active account may use.
package shell

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/panel"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/ui"
)

const lockMark = " 🔒"

type Shell struct {
	manager *session.Manager
	env     panel.Env
	logger  *zap.Logger

	// shown is the session the user last saw. Changes the shell did not
	// make itself are announced before the next menu.
	mu      sync.Mutex
	shown   session.Context
	changed bool
}

func New(m *session.Manager, env panel.Env) *Shell {
	l := env.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Shell{manager: m, env: env, logger: l.Named("shell")}
}

func (s *Shell) ui() ui.UI {
	return s.env.UI
}

func (s *Shell) observe(session.Context) {
	s.mu.Lock()
	s.changed = true
	s.mu.Unlock()
}

// accept records c as seen by the user, so it is not announced.
func (s *Shell) accept(c session.Context) {
	s.mu.Lock()
	s.shown = c
	s.changed = false
	s.mu.Unlock()
}

// announce tells the user about session changes coming from the wallet
// and returns the session to render.
func (s *Shell) announce() session.Context {
	cur := s.manager.Current()
	s.mu.Lock()
	prev, changed := s.shown, s.changed
	s.shown, s.changed = cur, false
	s.mu.Unlock()
	if !changed {
		return cur
	}
	u := s.ui()
	switch {
	case prev.Session.Connected() && !cur.Session.Connected():
		u.Warn("Wallet disconnected")
	case cur.Session.Connected() && prev.Session.Account != cur.Session.Account:
		u.Warn("Account changed to %s", cur.Session.Account.Hex())
	case cur.Session.Connected() && prev.Roles != cur.Roles:
		u.Info("Roles updated")
	}
	return cur
}

// Run drives the shell until the user quits or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	s.manager.OnChange(s.observe)
	if _, err := s.manager.Restore(ctx); err != nil {
		s.logger.Warn("couldn't restore session", zap.Error(err))
	}
	s.accept(s.manager.Current())
	stop := s.manager.Watch(ctx)
	defer stop()

	for ctx.Err() == nil {
		cur := s.announce()
		var quit bool
		if cur.Session.Connected() {
			quit = s.menu(ctx, cur)
		} else {
			quit = s.connector(ctx)
		}
		if quit {
			s.ui().Info("Bye")
			return nil
		}
	}
	return ctx.Err()
}

func (s *Shell) connector(ctx context.Context) (quit bool) {
	u := s.ui()
	u.Section("Product Provenance & Warranty")
	u.Info("Connect your wallet to get started")
	switch u.Choose("What do you want to do?", []string{"Connect Wallet", "Quit"}) {
	case 0:
		s.connect(ctx)
		return false
	default:
		return true
	}
}

// connect prompts the wallet and reports the outcome.
func (s *Shell) connect(ctx context.Context) {
	u := s.ui()
	c, err := s.manager.Connect(ctx, u)
	s.accept(s.manager.Current())
	switch {
	case err == nil:
		u.Success("Connected %s", c.Session.Account.Hex())
	case errors.Is(err, pcommon.ErrUserRejected):
		u.Warn("Connection request was rejected")
	case errors.Is(err, pcommon.ErrWalletUnavailable):
		u.Error("No wallet found. Import a key with `provenance wallet import` or set PROVENANCE_PRIVATE_KEY")
	default:
		u.Error("Failed to connect wallet: %s", err)
	}
	if err != nil {
		s.logger.Info("connect failed", zap.Error(err))
	}
}

type entry struct {
	title string
	// role is required to open the entry; nil means anybody.
	role *contract.Role
	open func(ctx context.Context, sc session.Context)
}

func requires(r contract.Role) *contract.Role {
	return &r
}

func (s *Shell) entries() []entry {
	return []entry{
		{title: "My Products", open: s.products},
		{title: "Register Product", role: requires(contract.RoleManufacturer), open: s.register},
		{title: "Warranty Claim", open: s.claim},
		{title: "Service Center", role: requires(contract.RoleServiceCenter), open: s.serviceCenter},
		{title: "Sell Product", role: requires(contract.RoleRetailer), open: s.sell},
		{title: "Role Management", open: s.roles},
		{title: "Product History", open: s.history},
	}
}

func roleBadges(r session.RoleSet) string {
	var names []string
	for _, role := range []contract.Role{contract.RoleAdmin, contract.RoleManufacturer, contract.RoleRetailer, contract.RoleServiceCenter} {
		if r.Has(role) {
			names = append(names, role.Title())
		}
	}
	if len(names) == 0 {
		return "Customer"
	}
	return strings.Join(names, ", ")
}

func (s *Shell) menu(ctx context.Context, sc session.Context) (quit bool) {
	u := s.ui()
	u.Section("Product Provenance & Warranty")
	u.KeyValue([][2]string{
		{"Account", pcommon.FormatAddress(sc.Session.Account.Hex())},
		{"Roles", roleBadges(sc.Roles)},
	})

	entries := s.entries()
	options := make([]string, 0, len(entries)+3)
	for _, e := range entries {
		title := e.title
		if e.role != nil && !sc.Roles.Has(*e.role) {
			title += lockMark
		}
		options = append(options, title)
	}
	options = append(options, "Switch Account", "Disconnect", "Quit")

	idx := u.Choose("Choose a panel", options)
	switch {
	case idx < 0 || idx == len(entries)+2:
		return true
	case idx == len(entries):
		s.switchAccount(ctx)
	case idx == len(entries)+1:
		s.manager.Disconnect()
		s.accept(s.manager.Current())
		u.Success("Wallet disconnected")
	default:
		e := entries[idx]
		if e.role != nil && !sc.Roles.Has(*e.role) {
			u.Warn("Insufficient Permissions")
			u.Info("%s requires the %s role", e.title, e.role.Title())
			return false
		}
		e.open(ctx, sc)
	}
	return false
}

func (s *Shell) switchAccount(ctx context.Context) {
	u := s.ui()
	accounts := s.manager.Accounts()
	options := make([]string, 0, len(accounts)+2)
	for _, a := range accounts {
		options = append(options, a.Hex())
	}
	options = append(options, "Connect another account", "Back")
	idx := u.Choose("Switch to", options)
	switch {
	case idx < 0 || idx == len(accounts)+1:
		return
	case idx == len(accounts):
		s.connect(ctx)
	default:
		c, err := s.manager.Switch(ctx, accounts[idx])
		s.accept(s.manager.Current())
		if err != nil {
			u.Error("Failed to switch account: %s", err)
			return
		}
		u.Success("Switched to %s", c.Session.Account.Hex())
	}
}

// Establish returns the restored session, prompting the wallet when no
// account is authorized yet. It is how one-shot commands get a session.
func (s *Shell) Establish(ctx context.Context) (session.Context, bool) {
	if _, err := s.manager.Restore(ctx); err != nil {
		s.logger.Warn("couldn't restore session", zap.Error(err))
	}
	if !s.manager.Current().Session.Connected() {
		s.connect(ctx)
	}
	cur := s.manager.Current()
	s.accept(cur)
	return cur, cur.Session.Connected()
}
