// Package wallet is the boundary between provenance and whatever holds
// the user's keys. It mirrors what a browser wallet extension offers a
// dApp: a prompted connect, a silent query of already authorized
// accounts, a signer per account and a feed of account changes.
package wallet

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/event"

	"github.com/tranvictor/provenance/ui"
	"github.com/tranvictor/provenance/util/account"
)

// AccountsChanged carries the authorized accounts after a change, the
// active one first. An empty list means the wallet disconnected.
type AccountsChanged struct {
	Accounts []common.Address
}

type Wallet interface {
	// RequestAccounts asks the user to authorize an account. It fails
	// with common.ErrWalletUnavailable when there is nothing to connect
	// to and common.ErrUserRejected when the user declines.
	RequestAccounts(ctx context.Context, u ui.UI) ([]common.Address, error)
	// Accounts returns the authorized accounts without prompting.
	Accounts() []common.Address
	Signer(addr common.Address) (account.Signer, error)
	// Select makes an authorized account the active one.
	Select(addr common.Address) error
	Disconnect()
	SubscribeAccounts(ch chan<- AccountsChanged) event.Subscription
}

func first(addrs []common.Address, addr common.Address) []common.Address {
	result := []common.Address{addr}
	for _, a := range addrs {
		if a != addr {
			result = append(result, a)
		}
	}
	return result
}

func without(addrs []common.Address, addr common.Address) ([]common.Address, bool) {
	result := make([]common.Address, 0, len(addrs))
	found := false
	for _, a := range addrs {
		if a == addr {
			found = true
			continue
		}
		result = append(result, a)
	}
	return result, found
}

func contains(addrs []common.Address, addr common.Address) bool {
	for _, a := range addrs {
		if a == addr {
			return true
		}
	}
	return false
}
