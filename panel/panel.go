// Package panel holds one type per workflow of the warranty contract.
// Panels work on an immutable session.Context; when the session changes
// the shell builds new panels.
package panel

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
)

// Pending is a broadcast write.
type Pending interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*types.Receipt, error)
}

type ProductReader interface {
	ProductDetails(ctx context.Context, tokenID *big.Int) (contract.Product, error)
	IsWarrantyActive(ctx context.Context, tokenID *big.Int) (bool, error)
	OwnerOf(ctx context.Context, tokenID *big.Int) (common.Address, error)
	BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error)
	TokenOfOwnerByIndex(ctx context.Context, owner common.Address, index *big.Int) (*big.Int, error)
	TokenIDForSerialHash(ctx context.Context, serialHash common.Hash) (*big.Int, error)
}

type ClaimReader interface {
	WarrantyClaim(ctx context.Context, claimID *big.Int) (contract.WarrantyClaim, error)
}

type RoleReader interface {
	RoleDigest(ctx context.Context, role contract.Role) (common.Hash, error)
}

type EventScanner interface {
	TransfersTo(ctx context.Context, to common.Address) ([]contract.TransferEvent, error)
	TransfersOf(ctx context.Context, tokenID *big.Int) ([]contract.TransferEvent, error)
	ProductRegistrations(ctx context.Context, tokenID *big.Int) ([]contract.ProductRegisteredEvent, error)
	WarrantyActivations(ctx context.Context, tokenID *big.Int) ([]contract.WarrantyActivatedEvent, error)
	ClaimSubmissions(ctx context.Context, tokenID *big.Int) ([]contract.ClaimSubmittedEvent, error)
	ClaimProcessings(ctx context.Context, tokenID *big.Int) ([]contract.ClaimProcessedEvent, error)
	ServiceRecords(ctx context.Context, tokenID *big.Int) ([]contract.ServiceRecordedEvent, error)
}

type Writer interface {
	RegisterProduct(ctx context.Context, owner common.Address, serial, model string, warrantySeconds, claimLimit *big.Int) (Pending, error)
	SubmitWarrantyClaim(ctx context.Context, tokenID *big.Int, description string) (Pending, error)
	ProcessWarrantyClaim(ctx context.Context, claimID *big.Int, approved bool) (Pending, error)
	RecordService(ctx context.Context, claimID *big.Int, notes string) (Pending, error)
	SafeTransferFrom(ctx context.Context, from, to common.Address, tokenID *big.Int) (Pending, error)
	GrantRole(ctx context.Context, role common.Hash, acc common.Address) (Pending, error)
}

// Contract is everything the panels need from the warranty contract.
type Contract interface {
	ProductReader
	ClaimReader
	RoleReader
	EventScanner
	Writer
}

// Binder returns a Contract that reads from and signs with signer.
type Binder func(signer account.Signer) Contract

// Env is what every panel shares for the lifetime of the process.
type Env struct {
	UI     ui.UI
	Bind   Binder
	Logger *zap.Logger
	Guard  *Guard
	Now    func() time.Time
}

func NewEnv(u ui.UI, bind Binder, l *zap.Logger) Env {
	if l == nil {
		l = zap.NewNop()
	}
	return Env{
		UI:     u,
		Bind:   bind,
		Logger: l,
		Guard:  NewGuard(),
		Now:    time.Now,
	}
}

// Guard keeps one action from running twice at the same time. It
// outlives panels so a rebuilt panel cannot restart an action in flight.
type Guard struct {
	mu      sync.Mutex
	running map[string]bool
}

func NewGuard() *Guard {
	return &Guard{running: map[string]bool{}}
}

// Do runs fn unless action is already running, in which case it returns
// ErrBusy without calling fn.
func (g *Guard) Do(action string, fn func() error) error {
	g.mu.Lock()
	if g.running[action] {
		g.mu.Unlock()
		return pcommon.ErrBusy
	}
	g.running[action] = true
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.running, action)
		g.mu.Unlock()
	}()
	return fn()
}

// Running reports whether action is in flight.
func (g *Guard) Running(action string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running[action]
}

// base is embedded by every panel.
type base struct {
	env      Env
	sc       session.Context
	contract Contract
	logger   *zap.Logger
}

func newBase(env Env, sc session.Context, name string) base {
	if env.Guard == nil {
		env.Guard = NewGuard()
	}
	if env.Now == nil {
		env.Now = time.Now
	}
	if env.Logger == nil {
		env.Logger = zap.NewNop()
	}
	return base{
		env:      env,
		sc:       sc,
		contract: env.Bind(sc.Session.Signer),
		logger:   env.Logger.Named(name),
	}
}

func (b *base) ui() ui.UI {
	return b.env.UI
}

func (b *base) account() common.Address {
	return b.sc.Session.Account
}

// Context is the session the panel was built for.
func (b *base) Context() session.Context {
	return b.sc
}

func (b *base) requireSession() error {
	if !b.sc.Session.Connected() {
		return pcommon.ErrWalletUnavailable
	}
	return nil
}

func (b *base) requireRole(role contract.Role) error {
	if err := b.requireSession(); err != nil {
		return err
	}
	if !b.sc.Roles.Has(role) {
		return pcommon.Denied("Insufficient Permissions: %s role required", role.Title())
	}
	return nil
}

// run guards action, then reports any failure once.
func (b *base) run(action string, fn func() error) error {
	err := b.env.Guard.Do(action, fn)
	return b.report(action, err)
}

// report shows err to the user and logs it. Messages written for the
// user are shown as they are; anything else becomes
// "Failed to <action>: <reason>".
func (b *base) report(action string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, pcommon.ErrBusy):
		b.ui().Warn("Please wait, already trying to %s", action)
		b.logger.Debug("action busy", zap.String("action", action))
	case pcommon.IsUserFacing(err) || errors.Is(err, pcommon.ErrProductNotFound):
		b.ui().Error("%s", err.Error())
		b.logger.Info("action refused", zap.String("action", action), zap.Error(err))
	case errors.Is(err, pcommon.ErrWalletUnavailable):
		b.ui().Error("Please connect your wallet first")
		b.logger.Info("action without session", zap.String("action", action))
	default:
		reason := contract.Reason(err)
		if reason == "" {
			reason = err.Error()
		}
		b.ui().Error("Failed to %s: %s", action, reason)
		b.logger.Error("action failed", zap.String("action", action), zap.Error(err))
	}
	return err
}

// submit sends a write and waits for it to be mined.
func (b *base) submit(ctx context.Context, send func() (Pending, error)) error {
	tx, err := send()
	if err != nil {
		return err
	}
	b.ui().Critical("Tx: %s", tx.Hash().Hex())
	stop := b.ui().Spinner("Waiting for the transaction to be mined...")
	receipt, err := tx.Wait(ctx)
	stop()
	if err != nil {
		return err
	}
	b.logger.Info("transaction mined",
		zap.String("tx", tx.Hash().Hex()),
		zap.Uint64("gasUsed", receipt.GasUsed))
	return nil
}

// fetch reads a product together with its live warranty flag.
func (b *base) fetch(ctx context.Context, tokenID *big.Int) (contract.Product, error) {
	p, err := b.contract.ProductDetails(ctx, tokenID)
	if err != nil {
		return contract.Product{}, err
	}
	active, err := b.contract.IsWarrantyActive(ctx, tokenID)
	if err != nil {
		return contract.Product{}, err
	}
	p.IsWarrantyActive = active
	return p, nil
}

// ownedBySerial resolves serial to a token the session account owns.
// notOwned is the message shown when somebody else owns it.
func (b *base) ownedBySerial(ctx context.Context, serial, notOwned string) (contract.Product, error) {
	tokenID, err := b.contract.TokenIDForSerialHash(ctx, pcommon.SerialHash(serial))
	if err != nil {
		b.logger.Debug("serial lookup failed", zap.String("serial", serial), zap.Error(err))
		return contract.Product{}, pcommon.ErrProductNotFound
	}
	if pcommon.IsZero(tokenID) {
		return contract.Product{}, pcommon.ErrProductNotFound
	}
	p, err := b.contract.ProductDetails(ctx, tokenID)
	if err != nil {
		return contract.Product{}, err
	}
	owner, err := b.contract.OwnerOf(ctx, tokenID)
	if err != nil {
		return contract.Product{}, err
	}
	if owner != b.account() {
		return contract.Product{}, pcommon.Denied("%s", notOwned)
	}
	return p, nil
}

func checkModel(p contract.Product, model string) error {
	if !strings.EqualFold(strings.TrimSpace(model), p.Model) {
		return pcommon.Validation("Model mismatch. Product model is: %s", p.Model)
	}
	return nil
}

func required(value, message string) error {
	if strings.TrimSpace(value) == "" {
		return pcommon.Validation("%s", message)
	}
	return nil
}

// prompt asks for label unless current already holds a value.
func prompt(u ui.UI, label, current string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	u.Info("%s:", label)
	return strings.TrimSpace(u.Ask(nil))
}
