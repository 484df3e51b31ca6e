package contract

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Each contract return shape has exactly one decoder below. They unpack
// with the fixed ABI and assert the Go types go-ethereum produces for it,
// so a node answering with a different shape is a decode error rather
// than a silently zeroed field.

type productTuple struct {
	SerialNumber         string
	Model                string
	Manufacturer         common.Address
	ManufactureTimestamp *big.Int
	WarrantyDuration     *big.Int
	WarrantyClaimLimit   *big.Int
	WarrantyStart        *big.Int
	WarrantyExpiration   *big.Int
	WarrantyClaimCount   *big.Int
}

type claimTuple struct {
	TokenId          *big.Int
	Customer         common.Address
	IssueDescription string
	SubmittedAt      *big.Int
	Processed        bool
	Approved         bool
	ServiceNotes     string
	ProcessedAt      *big.Int
}

func decodeError(method string, err error) error {
	return fmt.Errorf("couldn't decode %s result: %w", method, err)
}

func unpackOne(method string, data []byte) (interface{}, error) {
	out, err := ABI().Unpack(method, data)
	if err != nil {
		return nil, decodeError(method, err)
	}
	if len(out) != 1 {
		return nil, decodeError(method, fmt.Errorf("expected 1 value, got %d", len(out)))
	}
	return out[0], nil
}

func decodeBig(method string, data []byte) (*big.Int, error) {
	v, err := unpackOne(method, data)
	if err != nil {
		return nil, err
	}
	n, ok := v.(*big.Int)
	if !ok {
		return nil, decodeError(method, fmt.Errorf("unexpected type %T", v))
	}
	return n, nil
}

func decodeBool(method string, data []byte) (bool, error) {
	v, err := unpackOne(method, data)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, decodeError(method, fmt.Errorf("unexpected type %T", v))
	}
	return b, nil
}

func decodeAddress(method string, data []byte) (common.Address, error) {
	v, err := unpackOne(method, data)
	if err != nil {
		return common.Address{}, err
	}
	a, ok := v.(common.Address)
	if !ok {
		return common.Address{}, decodeError(method, fmt.Errorf("unexpected type %T", v))
	}
	return a, nil
}

func decodeHash(method string, data []byte) (common.Hash, error) {
	v, err := unpackOne(method, data)
	if err != nil {
		return common.Hash{}, err
	}
	b, ok := v.([32]byte)
	if !ok {
		return common.Hash{}, decodeError(method, fmt.Errorf("unexpected type %T", v))
	}
	return common.Hash(b), nil
}

func decodeProduct(tokenID *big.Int, data []byte) (Product, error) {
	var out struct{ Details productTuple }
	if err := ABI().UnpackIntoInterface(&out, "getProductDetails", data); err != nil {
		return Product{}, decodeError("getProductDetails", err)
	}
	d := out.Details
	return Product{
		TokenID:              tokenID,
		SerialNumber:         d.SerialNumber,
		Model:                d.Model,
		Manufacturer:         d.Manufacturer,
		ManufactureTimestamp: d.ManufactureTimestamp,
		WarrantyDuration:     d.WarrantyDuration,
		WarrantyClaimLimit:   d.WarrantyClaimLimit,
		WarrantyStart:        d.WarrantyStart,
		WarrantyExpiration:   d.WarrantyExpiration,
		WarrantyClaimCount:   d.WarrantyClaimCount,
	}, nil
}

func decodeClaim(claimID *big.Int, data []byte) (WarrantyClaim, error) {
	var out struct{ Claim claimTuple }
	if err := ABI().UnpackIntoInterface(&out, "getWarrantyClaim", data); err != nil {
		return WarrantyClaim{}, decodeError("getWarrantyClaim", err)
	}
	c := out.Claim
	return WarrantyClaim{
		ClaimID:          claimID,
		TokenID:          c.TokenId,
		Customer:         c.Customer,
		IssueDescription: c.IssueDescription,
		SubmittedAt:      c.SubmittedAt,
		Processed:        c.Processed,
		Approved:         c.Approved,
		ServiceNotes:     c.ServiceNotes,
		ProcessedAt:      c.ProcessedAt,
	}, nil
}
