package identity

import "context"

// Resolver maps a role code to user ids. It is an external collaborator;
// authn/authz and directory lookups live outside this engine.
type Resolver interface {
	ResolveRole(ctx context.Context, tenantID, role string) ([]string, error)
}
