package wallet

import (
	"fmt"
	"path/filepath"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/sahilm/fuzzy"
)

type accountSource []accounts.Account

func (self accountSource) Len() int {
	return len(self)
}

func (self accountSource) String(i int) string {
	return fmt.Sprintf("%s_%s", self[i].Address.Hex(), filepath.Base(self[i].URL.Path))
}

// matchAccount returns the keystore account matching hint best.
func matchAccount(accs []accounts.Account, hint string) (accounts.Account, bool) {
	matches := fuzzy.FindFrom(hint, accountSource(accs))
	if len(matches) == 0 {
		return accounts.Account{}, false
	}
	return accs[matches[0].Index], true
}
