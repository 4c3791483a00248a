package mysql

import (
	"context"

	requestDomain "approval-engine/internal/domain/request"

	"gorm.io/gorm"
)

// HistoryRepository is deliberately insert-only; the audit log has no update
// or delete path.
type HistoryRepository struct{ db *gorm.DB }

func NewHistoryRepository(db *gorm.DB) *HistoryRepository { return &HistoryRepository{db: db} }

func (r *HistoryRepository) Append(ctx context.Context, e *requestDomain.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *HistoryRepository) ListByRequestID(ctx context.Context, requestNumericID uint64) ([]requestDomain.HistoryEntry, error) {
	var out []requestDomain.HistoryEntry
	res := r.db.WithContext(ctx).
		Where("approval_request_id = ?", requestNumericID).
		Order("action_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
