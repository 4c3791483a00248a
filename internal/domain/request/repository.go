package request

import "context"

type Repository interface {
	Create(ctx context.Context, r *ApprovalRequest) error
	Save(ctx context.Context, r *ApprovalRequest) error

	// Get by internal numeric id
	GetByID(ctx context.Context, id uint64) (*ApprovalRequest, error)

	// Get by public request_id
	GetByRequestID(ctx context.Context, requestID string) (*ApprovalRequest, error)

	// Same lookup, but locks the row for the duration of the surrounding
	// transaction (per-request serialization point)
	GetByRequestIDForUpdate(ctx context.Context, requestID string) (*ApprovalRequest, error)

	// Open (pending/in_progress) requests for a tenant, oldest first
	ListOpen(ctx context.Context, tenantID string) ([]ApprovalRequest, error)

	// How many requests reference an approval type (open or closed)
	CountByApprovalTypeID(ctx context.Context, approvalTypeID uint64) (int64, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, a *Assignment) error
	CreateBatch(ctx context.Context, as []*Assignment) error
	Save(ctx context.Context, a *Assignment) error

	// Full assignment set for a request, sequence_order then id ascending
	ListByRequestID(ctx context.Context, requestNumericID uint64) ([]Assignment, error)

	// The approver's own pending/notified assignment on a request, if any
	GetActionableForApprover(ctx context.Context, requestNumericID uint64, approverID string) (*Assignment, error)

	// All pending/notified assignments for an approver across a tenant
	ListActionableForApprover(ctx context.Context, tenantID, approverID string) ([]Assignment, error)
}

// HistoryRepository is insert-only: no update or delete exists, which is what
// keeps the audit log trustworthy.
type HistoryRepository interface {
	Append(ctx context.Context, e *HistoryEntry) error
	ListByRequestID(ctx context.Context, requestNumericID uint64) ([]HistoryEntry, error)
}
