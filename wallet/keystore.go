package wallet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/event"
	"github.com/google/uuid"
	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
)

// KeystoreWallet authorizes accounts by unlocking them in a go-ethereum
// keystore directory. Authorizations live as long as the process.
type KeystoreWallet struct {
	dir     string
	hint    string
	scryptN int
	scryptP int
	ks      *keystore.KeyStore
	logger  *zap.Logger

	mu         sync.Mutex
	authorized []common.Address

	feed    event.Feed
	ksSub   event.Subscription
	ksEvent chan accounts.WalletEvent
	quit    chan struct{}
	done    chan struct{}
}

type KeystoreOptions struct {
	// Hint picks the account to connect by fuzzy matching its address or
	// key file name. Empty means ask.
	Hint string
	// ScryptN and ScryptP are used when importing keys. Zero means the
	// standard keystore parameters.
	ScryptN int
	ScryptP int
	Logger  *zap.Logger
}

func NewKeystoreWallet(dir string, opts KeystoreOptions) *KeystoreWallet {
	if opts.ScryptN == 0 {
		opts.ScryptN, opts.ScryptP = keystore.StandardScryptN, keystore.StandardScryptP
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	w := &KeystoreWallet{
		dir:     dir,
		hint:    opts.Hint,
		scryptN: opts.ScryptN,
		scryptP: opts.ScryptP,
		ks:      keystore.NewKeyStore(dir, opts.ScryptN, opts.ScryptP),
		logger:  opts.Logger.Named("wallet"),
		ksEvent: make(chan accounts.WalletEvent, 16),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	w.ksSub = w.ks.Subscribe(w.ksEvent)
	go w.loop()
	return w
}

func (w *KeystoreWallet) loop() {
	defer close(w.done)
	for {
		select {
		case ev := <-w.ksEvent:
			if ev.Kind != accounts.WalletDropped {
				continue
			}
			for _, acc := range ev.Wallet.Accounts() {
				w.drop(acc.Address)
			}
		case <-w.ksSub.Err():
			return
		case <-w.quit:
			return
		}
	}
}

// drop forgets addr after its key file disappeared.
func (w *KeystoreWallet) drop(addr common.Address) {
	w.mu.Lock()
	var found bool
	w.authorized, found = without(w.authorized, addr)
	snapshot := w.snapshot()
	w.mu.Unlock()
	if found {
		w.logger.Warn("authorized key file dropped", zap.String("account", addr.Hex()))
		w.feed.Send(AccountsChanged{snapshot})
	}
}

// Close stops watching the keystore directory.
func (w *KeystoreWallet) Close() {
	w.ksSub.Unsubscribe()
	close(w.quit)
	<-w.done
}

func (w *KeystoreWallet) Dir() string {
	return w.dir
}

// List returns every account in the keystore, authorized or not.
func (w *KeystoreWallet) List() []accounts.Account {
	return w.ks.Accounts()
}

func (w *KeystoreWallet) snapshot() []common.Address {
	return append([]common.Address(nil), w.authorized...)
}

func (w *KeystoreWallet) Accounts() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshot()
}

func (w *KeystoreWallet) authorize(addr common.Address) []common.Address {
	w.mu.Lock()
	w.authorized = first(w.authorized, addr)
	snapshot := w.snapshot()
	w.mu.Unlock()
	w.logger.Info("account authorized", zap.String("account", addr.Hex()))
	w.feed.Send(AccountsChanged{snapshot})
	return snapshot
}

// Preauthorize unlocks every keystore account that opens with
// passphrase, without prompting, and returns how many did.
func (w *KeystoreWallet) Preauthorize(passphrase string) int {
	if passphrase == "" {
		return 0
	}
	n := 0
	for _, acc := range w.ks.Accounts() {
		if err := w.ks.Unlock(acc, passphrase); err != nil {
			w.logger.Debug("preauthorize skipped", zap.String("account", acc.Address.Hex()), zap.Error(err))
			continue
		}
		w.mu.Lock()
		if !contains(w.authorized, acc.Address) {
			w.authorized = append(w.authorized, acc.Address)
		}
		w.mu.Unlock()
		n++
	}
	if n > 0 {
		w.feed.Send(AccountsChanged{w.Accounts()})
	}
	return n
}

func (w *KeystoreWallet) pick(u ui.UI, accs []accounts.Account) (accounts.Account, error) {
	if w.hint != "" {
		acc, found := matchAccount(accs, w.hint)
		if !found {
			return accounts.Account{}, fmt.Errorf("no keystore account matches %q: %w", w.hint, pcommon.ErrWalletUnavailable)
		}
		return acc, nil
	}
	if len(accs) == 1 {
		return accs[0], nil
	}
	options := make([]string, len(accs))
	for i, acc := range accs {
		options[i] = acc.Address.Hex()
	}
	idx := u.Choose("Which account do you want to connect?", options)
	if idx < 0 {
		return accounts.Account{}, pcommon.ErrUserRejected
	}
	return accs[idx], nil
}

func (w *KeystoreWallet) RequestAccounts(ctx context.Context, u ui.UI) ([]common.Address, error) {
	if _, err := os.Stat(w.dir); err != nil {
		return nil, fmt.Errorf("keystore %s: %w", w.dir, pcommon.ErrWalletUnavailable)
	}
	accs := w.ks.Accounts()
	if len(accs) == 0 {
		return nil, fmt.Errorf("no keys in %s: %w", w.dir, pcommon.ErrWalletUnavailable)
	}
	acc, err := w.pick(u, accs)
	if err != nil {
		return nil, err
	}
	if !u.Confirm(fmt.Sprintf("Connect %s?", acc.Address.Hex()), true) {
		return nil, pcommon.ErrUserRejected
	}
	passphrase, ok := u.AskSecret(fmt.Sprintf("Passphrase for %s", pcommon.FormatAddress(acc.Address.Hex())))
	if !ok {
		return nil, pcommon.ErrUserRejected
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := w.ks.Unlock(acc, passphrase); err != nil {
		return nil, fmt.Errorf("couldn't unlock %s: %w", acc.Address.Hex(), err)
	}
	return w.authorize(acc.Address), nil
}

func (w *KeystoreWallet) Signer(addr common.Address) (account.Signer, error) {
	if !contains(w.Accounts(), addr) {
		return nil, fmt.Errorf("%s is not connected: %w", addr.Hex(), pcommon.ErrWalletUnavailable)
	}
	acc, err := w.ks.Find(accounts.Account{Address: addr})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr.Hex(), pcommon.ErrWalletUnavailable)
	}
	return account.NewKeystoreSigner(w.ks, acc), nil
}

func (w *KeystoreWallet) Select(addr common.Address) error {
	if !contains(w.Accounts(), addr) {
		return pcommon.Denied("%s is not connected", addr.Hex())
	}
	w.authorize(addr)
	return nil
}

func (w *KeystoreWallet) Disconnect() {
	w.mu.Lock()
	addrs := w.authorized
	w.authorized = nil
	w.mu.Unlock()
	for _, addr := range addrs {
		if err := w.ks.Lock(addr); err != nil {
			w.logger.Debug("lock failed", zap.String("account", addr.Hex()), zap.Error(err))
		}
	}
	w.logger.Info("wallet disconnected", zap.Int("accounts", len(addrs)))
	w.feed.Send(AccountsChanged{})
}

func (w *KeystoreWallet) SubscribeAccounts(ch chan<- AccountsChanged) event.Subscription {
	return w.feed.Subscribe(ch)
}

// ImportKey encrypts hexKey with passphrase into the keystore directory
// and returns the account's address.
func (w *KeystoreWallet) ImportKey(hexKey, passphrase string) (common.Address, error) {
	if passphrase == "" {
		return common.Address{}, pcommon.Validation("Please enter a passphrase")
	}
	_, priv, err := account.PrivateKeyFromHex(hexKey)
	if err != nil {
		return common.Address{}, pcommon.Validation("Please enter a valid private key")
	}
	id, err := uuid.NewRandom()
	if err != nil {
		return common.Address{}, err
	}
	key := &keystore.Key{
		Id:         id,
		Address:    crypto.PubkeyToAddress(priv.PublicKey),
		PrivateKey: priv,
	}
	keyJSON, err := keystore.EncryptKey(key, passphrase, w.scryptN, w.scryptP)
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't encrypt key: %w", err)
	}
	if err := os.MkdirAll(w.dir, 0o700); err != nil {
		return common.Address{}, err
	}
	acc, err := w.ks.Import(keyJSON, passphrase, passphrase)
	if errors.Is(err, keystore.ErrAccountAlreadyExists) {
		return key.Address, pcommon.Validation("%s is already in the keystore", key.Address.Hex())
	}
	if err != nil {
		return common.Address{}, fmt.Errorf("couldn't import key: %w", err)
	}
	w.logger.Info("key imported", zap.String("account", acc.Address.Hex()), zap.String("file", acc.URL.Path))
	return acc.Address, nil
}
