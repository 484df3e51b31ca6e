package common

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SerialHash maps a serial number to the bytes32 key the contract indexes
// products by: keccak256 over the UTF-8 bytes of the serial. The empty
// serial maps to the zero digest.
func SerialHash(serial string) common.Hash {
	if serial == "" {
		return common.Hash{}
	}
	return crypto.Keccak256Hash([]byte(serial))
}
