package requestmock

import (
	"context"

	domain "approval-engine/internal/domain/request"

	"gorm.io/gorm"
)

var (
	_ domain.Repository           = (*Repo)(nil)
	_ domain.AssignmentRepository = (*AssignmentRepo)(nil)
	_ domain.HistoryRepository    = (*HistoryRepo)(nil)
)

// Repo is a function-backed mock that satisfies request.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, r *domain.ApprovalRequest) error
	SaveFn                    func(ctx context.Context, r *domain.ApprovalRequest) error
	GetByIDFn                 func(ctx context.Context, id uint64) (*domain.ApprovalRequest, error)
	GetByRequestIDFn          func(ctx context.Context, requestID string) (*domain.ApprovalRequest, error)
	GetByRequestIDForUpdateFn func(ctx context.Context, requestID string) (*domain.ApprovalRequest, error)
	ListOpenFn                func(ctx context.Context, tenantID string) ([]domain.ApprovalRequest, error)
	CountByApprovalTypeIDFn   func(ctx context.Context, approvalTypeID uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, r *domain.ApprovalRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, r)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, r *domain.ApprovalRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, r)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.ApprovalRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByRequestID(ctx context.Context, requestID string) (*domain.ApprovalRequest, error) {
	if m.GetByRequestIDFn != nil {
		return m.GetByRequestIDFn(ctx, requestID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.ApprovalRequest, error) {
	if m.GetByRequestIDForUpdateFn != nil {
		return m.GetByRequestIDForUpdateFn(ctx, requestID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListOpen(ctx context.Context, tenantID string) ([]domain.ApprovalRequest, error) {
	if m.ListOpenFn != nil {
		return m.ListOpenFn(ctx, tenantID)
	}
	return nil, nil
}

func (m *Repo) CountByApprovalTypeID(ctx context.Context, approvalTypeID uint64) (int64, error) {
	if m.CountByApprovalTypeIDFn != nil {
		return m.CountByApprovalTypeIDFn(ctx, approvalTypeID)
	}
	return 0, nil
}

// AssignmentRepo is a function-backed mock for request.AssignmentRepository.
type AssignmentRepo struct {
	CreateFn                    func(ctx context.Context, a *domain.Assignment) error
	CreateBatchFn               func(ctx context.Context, as []*domain.Assignment) error
	SaveFn                      func(ctx context.Context, a *domain.Assignment) error
	ListByRequestIDFn           func(ctx context.Context, requestNumericID uint64) ([]domain.Assignment, error)
	GetActionableForApproverFn  func(ctx context.Context, requestNumericID uint64, approverID string) (*domain.Assignment, error)
	ListActionableForApproverFn func(ctx context.Context, tenantID, approverID string) ([]domain.Assignment, error)
}

func (m *AssignmentRepo) Create(ctx context.Context, a *domain.Assignment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *AssignmentRepo) CreateBatch(ctx context.Context, as []*domain.Assignment) error {
	if m.CreateBatchFn != nil {
		return m.CreateBatchFn(ctx, as)
	}
	return nil
}

func (m *AssignmentRepo) Save(ctx context.Context, a *domain.Assignment) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *AssignmentRepo) ListByRequestID(ctx context.Context, requestNumericID uint64) ([]domain.Assignment, error) {
	if m.ListByRequestIDFn != nil {
		return m.ListByRequestIDFn(ctx, requestNumericID)
	}
	return nil, nil
}

func (m *AssignmentRepo) GetActionableForApprover(ctx context.Context, requestNumericID uint64, approverID string) (*domain.Assignment, error) {
	if m.GetActionableForApproverFn != nil {
		return m.GetActionableForApproverFn(ctx, requestNumericID, approverID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *AssignmentRepo) ListActionableForApprover(ctx context.Context, tenantID, approverID string) ([]domain.Assignment, error) {
	if m.ListActionableForApproverFn != nil {
		return m.ListActionableForApproverFn(ctx, tenantID, approverID)
	}
	return nil, nil
}

// HistoryRepo is a function-backed mock for request.HistoryRepository.
type HistoryRepo struct {
	AppendFn          func(ctx context.Context, e *domain.HistoryEntry) error
	ListByRequestIDFn func(ctx context.Context, requestNumericID uint64) ([]domain.HistoryEntry, error)
}

func (m *HistoryRepo) Append(ctx context.Context, e *domain.HistoryEntry) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, e)
	}
	return nil
}

func (m *HistoryRepo) ListByRequestID(ctx context.Context, requestNumericID uint64) ([]domain.HistoryEntry, error) {
	if m.ListByRequestIDFn != nil {
		return m.ListByRequestIDFn(ctx, requestNumericID)
	}
	return nil, nil
}
