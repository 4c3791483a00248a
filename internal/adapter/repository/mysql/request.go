package mysql

import (
	"context"

	requestDomain "approval-engine/internal/domain/request"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func (r *RequestRepository) Create(ctx context.Context, req *requestDomain.ApprovalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *RequestRepository) Save(ctx context.Context, req *requestDomain.ApprovalRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *RequestRepository) GetByID(ctx context.Context, id uint64) (*requestDomain.ApprovalRequest, error) {
	var out requestDomain.ApprovalRequest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*requestDomain.ApprovalRequest, error) {
	var out requestDomain.ApprovalRequest
	res := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

// GetByRequestIDForUpdate locks the request row for the surrounding
// transaction. sqlite has no FOR UPDATE; there the whole database serializes
// writers, so the clause is only added on mysql.
func (r *RequestRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*requestDomain.ApprovalRequest, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "mysql" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out requestDomain.ApprovalRequest
	res := q.Where("request_id = ?", requestID).First(&out)
	return &out, res.Error
}

func (r *RequestRepository) ListOpen(ctx context.Context, tenantID string) ([]requestDomain.ApprovalRequest, error) {
	var out []requestDomain.ApprovalRequest
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]requestDomain.Status{requestDomain.StatusPending, requestDomain.StatusInProgress}).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *RequestRepository) CountByApprovalTypeID(ctx context.Context, approvalTypeID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).
		Model(&requestDomain.ApprovalRequest{}).
		Where("approval_type_id = ?", approvalTypeID).
		Count(&n)
	return n, res.Error
}
