package account

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// KeystoreSigner signs with an account that must already be unlocked in
// its keystore. Locking the account makes every later SignTx fail.
type KeystoreSigner struct {
	ks      *keystore.KeyStore
	account accounts.Account
}

func NewKeystoreSigner(ks *keystore.KeyStore, acc accounts.Account) *KeystoreSigner {
	return &KeystoreSigner{ks, acc}
}

func (self *KeystoreSigner) Address() common.Address {
	return self.account.Address
}

func (self *KeystoreSigner) SignTx(tx *types.Transaction, chainId *big.Int) (*types.Transaction, error) {
	signed, err := self.ks.SignTx(self.account, tx, chainId)
	if err != nil {
		return nil, fmt.Errorf("couldn't sign the tx with %s: %w", self.account.Address.Hex(), err)
	}
	return signed, nil
}
