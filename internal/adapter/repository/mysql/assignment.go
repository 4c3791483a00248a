package mysql

import (
	"context"

	requestDomain "approval-engine/internal/domain/request"

	"gorm.io/gorm"
)

var actionableStatuses = []requestDomain.AssignmentStatus{
	requestDomain.AssignmentPending,
	requestDomain.AssignmentNotified,
}

type AssignmentRepository struct{ db *gorm.DB }

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *requestDomain.Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) CreateBatch(ctx context.Context, as []*requestDomain.Assignment) error {
	if len(as) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(as).Error
}

func (r *AssignmentRepository) Save(ctx context.Context, a *requestDomain.Assignment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AssignmentRepository) ListByRequestID(ctx context.Context, requestNumericID uint64) ([]requestDomain.Assignment, error) {
	var out []requestDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("approval_request_id = ?", requestNumericID).
		Order("sequence_order ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *AssignmentRepository) GetActionableForApprover(ctx context.Context, requestNumericID uint64, approverID string) (*requestDomain.Assignment, error) {
	var out requestDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("approval_request_id = ? AND approver_id = ? AND status IN ?",
			requestNumericID, approverID, actionableStatuses).
		Order("sequence_order ASC, id ASC").
		First(&out)
	return &out, res.Error
}

func (r *AssignmentRepository) ListActionableForApprover(ctx context.Context, tenantID, approverID string) ([]requestDomain.Assignment, error) {
	var out []requestDomain.Assignment
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND approver_id = ? AND status IN ?",
			tenantID, approverID, actionableStatuses).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
