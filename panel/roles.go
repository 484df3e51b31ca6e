package panel

import (
	"context"
	"strings"

	"go.uber.org/zap"

	pcommon "github.com/tranvictor/provenance/common"
	"github.com/tranvictor/provenance/contract"
	"github.com/tranvictor/provenance/session"
	"github.com/tranvictor/provenance/ui"
)

const actionGrantRole = "grant role"

// RoleRefresher re-reads the roles of the active account.
// *session.Manager satisfies it.
type RoleRefresher interface {
	RefreshRoles(ctx context.Context) session.Context
}

type RoleManager struct {
	base
	refresher RoleRefresher
}

func NewRoleManager(env Env, sc session.Context, refresher RoleRefresher) *RoleManager {
	return &RoleManager{base: newBase(env, sc, "roles"), refresher: refresher}
}

func yesNo(u ui.UI, v bool) string {
	if v {
		return u.Style(ui.Good("Yes"))
	}
	return u.Style(ui.Bad("No"))
}

// Show prints the role flags of the active account.
func (r *RoleManager) Show() {
	u := r.ui()
	u.Section("Role Management")
	u.KeyValue([][2]string{
		{"Account", r.account().Hex()},
		{contract.RoleAdmin.Title(), yesNo(u, r.sc.Roles.Admin)},
		{contract.RoleManufacturer.Title(), yesNo(u, r.sc.Roles.Manufacturer)},
		{contract.RoleRetailer.Title(), yesNo(u, r.sc.Roles.Retailer)},
		{contract.RoleServiceCenter.Title(), yesNo(u, r.sc.Roles.ServiceCenter)},
	})
}

// Prompt asks an admin which role to grant to whom.
func (r *RoleManager) Prompt(roleName, address string) (string, string) {
	u := r.ui()
	if strings.TrimSpace(roleName) == "" {
		options := make([]string, 0, len(contract.GrantableRoles))
		for _, role := range contract.GrantableRoles {
			options = append(options, role.Title())
		}
		if idx := u.Choose("Role to grant", options); idx >= 0 && idx < len(options) {
			roleName = contract.GrantableRoles[idx].String()
		}
	}
	return roleName, prompt(u, "Account address", address)
}

// Grant hands role roleName to address and then refreshes the session's
// own roles, since the admin may have granted to itself.
func (r *RoleManager) Grant(ctx context.Context, roleName, address string) error {
	return r.run(actionGrantRole, func() error {
		if err := r.requireRole(contract.RoleAdmin); err != nil {
			return err
		}
		if strings.TrimSpace(roleName) == "" || strings.TrimSpace(address) == "" {
			return pcommon.Validation("Please fill in complete role and address information")
		}
		role, ok := contract.ParseGrantableRole(roleName)
		if !ok {
			return pcommon.Validation("Invalid role type")
		}
		acc, err := pcommon.ParseAddress(address)
		if err != nil {
			return err
		}
		digest, err := r.contract.RoleDigest(ctx, role)
		if err != nil {
			return err
		}
		r.logger.Info("granting role", zap.Stringer("role", role), zap.String("account", acc.Hex()))
		err = r.submit(ctx, func() (Pending, error) {
			return r.contract.GrantRole(ctx, digest, acc)
		})
		if err != nil {
			return err
		}
		r.ui().Success("Role granted successfully!")
		if r.refresher != nil {
			r.sc = r.refresher.RefreshRoles(ctx)
		}
		return nil
	})
}
