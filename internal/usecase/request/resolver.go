package request

import (
	"context"
	"fmt"

	"approval-engine/internal/domain/identity"
	domainPolicy "approval-engine/internal/domain/policy"
	domainRequest "approval-engine/internal/domain/request"
)

// AssignmentSpec is one resolved approver slot, ready to persist.
type AssignmentSpec struct {
	SequenceOrder int
	ApproverID    string
	ApproverRole  string
}

// Resolver turns a policy's approver config into the initial assignment set.
// Pure apart from role lookups: the caller persists the result.
type Resolver struct {
	identity identity.Resolver
}

func NewResolver(ids identity.Resolver) *Resolver { return &Resolver{identity: ids} }

// Resolve validates the policy and expands each approver spec, in order, into
// one AssignmentSpec with sequence_order = index. A role that resolves to
// zero or multiple users is a configuration error surfaced to the caller,
// never silently dropped. sequence_order does not gate actionability: every
// slot is independently actionable regardless of approval mode.
func (rv *Resolver) Resolve(ctx context.Context, pol *domainPolicy.ApprovalType) ([]AssignmentSpec, error) {
	if !pol.IsActive {
		return nil, domainPolicy.ErrInactive
	}
	approvers := pol.ApproverConfig.Approvers
	if len(approvers) == 0 {
		// zero assignments would make the aggregate undefined; refuse the
		// request instead of defaulting
		return nil, domainRequest.ErrEmptyApprovers
	}

	specs := make([]AssignmentSpec, 0, len(approvers))
	for i, a := range approvers {
		switch {
		case a.ByUser():
			specs = append(specs, AssignmentSpec{SequenceOrder: i, ApproverID: a.UserID})
		case a.ByRole():
			users, err := rv.identity.ResolveRole(ctx, pol.TenantID, a.Role)
			if err != nil {
				return nil, fmt.Errorf("resolve role %q: %w", a.Role, err)
			}
			if len(users) != 1 {
				return nil, fmt.Errorf("role %q matched %d users: %w", a.Role, len(users), domainRequest.ErrAmbiguousRole)
			}
			specs = append(specs, AssignmentSpec{SequenceOrder: i, ApproverID: users[0], ApproverRole: a.Role})
		default:
			return nil, fmt.Errorf("approver %d has neither user nor role: %w", i, domainRequest.ErrAmbiguousRole)
		}
	}
	return specs, nil
}
