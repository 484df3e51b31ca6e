package contract

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	pcommon "github.com/tranvictor/provenance/common"
)

var ErrReverted = fmt.Errorf("transaction reverted: %w", pcommon.ErrNetworkOrContract)

// RevertError is returned by PendingTx.Wait when the transaction was mined
// with a failed status.
type RevertError struct {
	TxHash common.Hash
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("transaction %s reverted", e.TxHash.Hex())
	}
	return fmt.Sprintf("transaction %s reverted: %s", e.TxHash.Hex(), e.Reason)
}

func (e *RevertError) Unwrap() error {
	return ErrReverted
}

// Reason extracts the contract supplied revert reason from err, either
// from a RevertError or from the revert data a node attaches to a failed
// eth_call / eth_estimateGas. It returns "" when there is none.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var re *RevertError
	if errors.As(err, &re) {
		return re.Reason
	}
	var de rpc.DataError
	if errors.As(err, &de) {
		if reason := reasonFromData(de.ErrorData()); reason != "" {
			return reason
		}
	}
	return ""
}

func reasonFromData(data interface{}) string {
	var raw []byte
	switch v := data.(type) {
	case string:
		b, err := hexutil.Decode(v)
		if err != nil {
			return ""
		}
		raw = b
	case []byte:
		raw = v
	default:
		return ""
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return ""
	}
	return reason
}
