package main

import (
	"context"
	"fmt"
)

// noDirectory satisfies identity.Resolver for deployments without a
// directory service: role-based approver specs fail loudly instead of
// resolving to nobody.
type noDirectory struct{}

func (noDirectory) ResolveRole(_ context.Context, _, role string) ([]string, error) {
	return nil, fmt.Errorf("no identity directory configured; cannot resolve role %q", role)
}
