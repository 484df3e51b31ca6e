package wallet

import (
	"context"
	"crypto/ecdsa"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
)

// KeyWallet holds a single raw private key, meant for local dev chains.
// Its account is authorized from the start and after every
// RequestAccounts.
type KeyWallet struct {
	signer *account.KeySigner

	mu        sync.Mutex
	connected bool
	feed      event.Feed
}

func NewKeyWallet(key *ecdsa.PrivateKey) *KeyWallet {
	return &KeyWallet{signer: account.NewKeySigner(key), connected: true}
}

// NewKeyWalletFromHex accepts the key with or without 0x.
func NewKeyWalletFromHex(hexKey string) (*KeyWallet, error) {
	_, key, err := account.PrivateKeyFromHex(hexKey)
	if err != nil {
		return nil, err
	}
	return NewKeyWallet(key), nil
}

func (w *KeyWallet) Address() common.Address {
	return w.signer.Address()
}

func (w *KeyWallet) setConnected(v bool) {
	w.mu.Lock()
	changed := w.connected != v
	w.connected = v
	w.mu.Unlock()
	if changed {
		w.feed.Send(AccountsChanged{w.Accounts()})
	}
}

func (w *KeyWallet) RequestAccounts(ctx context.Context, u ui.UI) ([]common.Address, error) {
	w.setConnected(true)
	return w.Accounts(), nil
}

func (w *KeyWallet) Accounts() []common.Address {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.connected {
		return nil
	}
	return []common.Address{w.signer.Address()}
}

func (w *KeyWallet) Signer(addr common.Address) (account.Signer, error) {
	if !contains(w.Accounts(), addr) {
		return nil, pcommon.ErrWalletUnavailable
	}
	return w.signer, nil
}

func (w *KeyWallet) Select(addr common.Address) error {
	if !contains(w.Accounts(), addr) {
		return pcommon.Denied("%s is not connected", addr.Hex())
	}
	return nil
}

func (w *KeyWallet) Disconnect() {
	w.setConnected(false)
}

func (w *KeyWallet) SubscribeAccounts(ch chan<- AccountsChanged) event.Subscription {
	return w.feed.Subscribe(ch)
}
