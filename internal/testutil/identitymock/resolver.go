package identitymock

import (
	"context"

	"approval-engine/internal/domain/identity"
)

var _ identity.Resolver = (*Resolver)(nil)

// Resolver is a function-backed mock for identity.Resolver. The zero value
// resolves every role to no users.
type Resolver struct {
	ResolveRoleFn func(ctx context.Context, tenantID, role string) ([]string, error)
}

func (m *Resolver) ResolveRole(ctx context.Context, tenantID, role string) ([]string, error) {
	if m.ResolveRoleFn != nil {
		return m.ResolveRoleFn(ctx, tenantID, role)
	}
	return nil, nil
}

// Static returns a resolver backed by a fixed role -> users table.
func Static(table map[string][]string) *Resolver {
	return &Resolver{
		ResolveRoleFn: func(_ context.Context, _, role string) ([]string, error) {
			return table[role], nil
		},
	}
}
