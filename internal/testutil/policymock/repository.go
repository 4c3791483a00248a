package policymock

import (
	"context"

	domain "approval-engine/internal/domain/policy"

	"gorm.io/gorm"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies policy.Repository.
// Fill in the function fields a test needs; unfilled getters report not-found.
type Repo struct {
	CreateFn        func(ctx context.Context, t *domain.ApprovalType) error
	SaveFn          func(ctx context.Context, t *domain.ApprovalType) error
	GetByIDFn       func(ctx context.Context, id uint64) (*domain.ApprovalType, error)
	GetByPolicyIDFn func(ctx context.Context, policyID string) (*domain.ApprovalType, error)
	GetByCodeFn     func(ctx context.Context, tenantID, code string) (*domain.ApprovalType, error)
	ListFn          func(ctx context.Context, tenantID string) ([]domain.ApprovalType, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.ApprovalType) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, t *domain.ApprovalType) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.ApprovalType, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByPolicyID(ctx context.Context, policyID string) (*domain.ApprovalType, error) {
	if m.GetByPolicyIDFn != nil {
		return m.GetByPolicyIDFn(ctx, policyID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByCode(ctx context.Context, tenantID, code string) (*domain.ApprovalType, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, tenantID, code)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context, tenantID string) ([]domain.ApprovalType, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, tenantID)
	}
	return nil, nil
}
