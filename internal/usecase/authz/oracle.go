// Package authz implements the permission oracle: role strings in,
// capability decisions out.
package authz

import (
	"context"

	"fio-market/internal/domain/market"
)

// Oracle answers whether any of the caller's roles grants a capability.
type Oracle interface {
	HasPermission(ctx context.Context, roles []string, capability string) bool
}

// Built-in roles. Grants are data, not code; adjust via NewRoleOracle for
// deployments with a different role scheme.
const (
	RoleAdmin   = "admin"
	RoleMember  = "member"
	RolePartner = "partner"
)

type RoleOracle struct {
	grants map[string]map[string]bool
}

func NewRoleOracle() *RoleOracle {
	return &RoleOracle{
		grants: map[string]map[string]bool{
			RoleAdmin: {
				market.CapabilityViewInternal: true,
				market.CapabilityViewPartner:  true,
			},
			RoleMember: {
				market.CapabilityViewInternal: true,
			},
			RolePartner: {
				market.CapabilityViewPartner: true,
			},
		},
	}
}

func NewRoleOracleWithGrants(grants map[string]map[string]bool) *RoleOracle {
	return &RoleOracle{grants: grants}
}

func (o *RoleOracle) HasPermission(_ context.Context, roles []string, capability string) bool {
	for _, role := range roles {
		if o.grants[role][capability] {
			return true
		}
	}
	return false
}
