package mysql

import (
	"context"

	policyDomain "approval-engine/internal/domain/policy"

	"gorm.io/gorm"
)

type PolicyRepository struct{ db *gorm.DB }

func NewPolicyRepository(db *gorm.DB) *PolicyRepository { return &PolicyRepository{db: db} }

func (r *PolicyRepository) Create(ctx context.Context, t *policyDomain.ApprovalType) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PolicyRepository) Save(ctx context.Context, t *policyDomain.ApprovalType) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *PolicyRepository) GetByID(ctx context.Context, id uint64) (*policyDomain.ApprovalType, error) {
	var out policyDomain.ApprovalType
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *PolicyRepository) GetByPolicyID(ctx context.Context, policyID string) (*policyDomain.ApprovalType, error) {
	var out policyDomain.ApprovalType
	res := r.db.WithContext(ctx).Where("policy_id = ?", policyID).First(&out)
	return &out, res.Error
}

func (r *PolicyRepository) GetByCode(ctx context.Context, tenantID, code string) (*policyDomain.ApprovalType, error) {
	var out policyDomain.ApprovalType
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		First(&out)
	return &out, res.Error
}

func (r *PolicyRepository) List(ctx context.Context, tenantID string) ([]policyDomain.ApprovalType, error) {
	var out []policyDomain.ApprovalType
	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("code ASC").
		Find(&out)
	return out, res.Error
}
