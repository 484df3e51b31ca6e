package common

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var ZeroAddress = common.Address{}

func HexToAddress(hex string) common.Address {
	return common.HexToAddress(hex)
}

// IsValidAddress accepts 0x prefixed, 40 hex digit addresses. Checksums
// are not enforced.
func IsValidAddress(input string) bool {
	if !strings.HasPrefix(input, "0x") || len(input) != 42 {
		return false
	}
	return common.IsHexAddress(input)
}

// ParseAddress validates input and returns the address it encodes.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return common.Address{}, Validation("Please enter an address")
	}
	if !IsValidAddress(input) {
		return common.Address{}, Validation("Please enter a valid Ethereum address")
	}
	return common.HexToAddress(input), nil
}

func AddressToTopic(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}

func BigToTopic(n *big.Int) common.Hash {
	return common.BigToHash(n)
}
