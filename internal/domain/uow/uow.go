package uow

import (
	"context"

	"approval-engine/internal/domain/policy"
	"approval-engine/internal/domain/request"
)

type Repos struct {
	Policies    policy.Repository
	Requests    request.Repository
	Assignments request.AssignmentRepository
	History     request.HistoryRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the request row first, then pass it in. Every
	// mutating operation on a request goes through here so concurrent calls
	// on the same request serialize; different requests proceed in parallel.
	WithinRequestTx(ctx context.Context, requestID string, fn func(r Repos, req *request.ApprovalRequest) error) error
}
