package session

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/util/logger"
)

type RoleReader interface {
	RoleDigest(ctx context.Context, role contract.Role) (common.Hash, error)
	HasRole(ctx context.Context, role common.Hash, account common.Address) (bool, error)
}

// RoleSet is what the active account may do. The zero value grants
// nothing.
type RoleSet struct {
	Admin         bool
	Manufacturer  bool
	Retailer      bool
	ServiceCenter bool
}

func (r RoleSet) Has(role contract.Role) bool {
	switch role {
	case contract.RoleAdmin:
		return r.Admin
	case contract.RoleManufacturer:
		return r.Manufacturer
	case contract.RoleRetailer:
		return r.Retailer
	case contract.RoleServiceCenter:
		return r.ServiceCenter
	}
	return false
}

func (r *RoleSet) set(role contract.Role, v bool) {
	switch role {
	case contract.RoleAdmin:
		r.Admin = v
	case contract.RoleManufacturer:
		r.Manufacturer = v
	case contract.RoleRetailer:
		r.Retailer = v
	case contract.RoleServiceCenter:
		r.ServiceCenter = v
	}
}

var allRoles = []contract.Role{
	contract.RoleAdmin,
	contract.RoleManufacturer,
	contract.RoleRetailer,
	contract.RoleServiceCenter,
}

// ResolveRoles checks every role of account. If any read fails the
// result is the empty RoleSet together with that error; a partial
// answer is never returned.
func ResolveRoles(ctx context.Context, r RoleReader, account common.Address) (RoleSet, error) {
	var roles RoleSet
	for _, role := range allRoles {
		digest, err := r.RoleDigest(ctx, role)
		if err == nil {
			var has bool
			has, err = r.HasRole(ctx, digest, account)
			roles.set(role, has)
		}
		if err != nil {
			logger.L().Warn("couldn't check roles",
				zap.String("account", account.Hex()),
				zap.Stringer("role", role),
				zap.Error(err))
			return RoleSet{}, err
		}
	}
	return roles, nil
}
