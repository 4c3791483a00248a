package policy

import "context"

type Repository interface {
	// Create a new approval type (DB uniqueness enforces one code per tenant)
	Create(ctx context.Context, t *ApprovalType) error

	Save(ctx context.Context, t *ApprovalType) error

	// Get by internal numeric id (FK from approval_requests)
	GetByID(ctx context.Context, id uint64) (*ApprovalType, error)

	// Get by public policy_id
	GetByPolicyID(ctx context.Context, policyID string) (*ApprovalType, error)

	GetByCode(ctx context.Context, tenantID, code string) (*ApprovalType, error)

	List(ctx context.Context, tenantID string) ([]ApprovalType, error)
}
