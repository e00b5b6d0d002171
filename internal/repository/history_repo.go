package repository

import (
	"context"

	"leadhub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BuyerHistoryRepository is the append-only audit log for buyer mutations.
// There are deliberately no update or delete operations — entries are
// write-once, read-many.
type BuyerHistoryRepository interface {
	AppendTx(tx *gorm.DB, h *model.BuyerHistory) error
	// RecentByBuyer returns at most limit entries for one buyer, newest first.
	RecentByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]model.BuyerHistory, error)
}

type buyerHistoryRepo struct{ db *gorm.DB }

func NewBuyerHistoryRepository(db *gorm.DB) BuyerHistoryRepository {
	return &buyerHistoryRepo{db: db}
}

func (r *buyerHistoryRepo) AppendTx(tx *gorm.DB, h *model.BuyerHistory) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(h).Error
}

func (r *buyerHistoryRepo) RecentByBuyer(ctx context.Context, buyerID uuid.UUID, limit int) ([]model.BuyerHistory, error) {
	if limit < 1 {
		limit = 5
	}
	var rows []model.BuyerHistory
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("changed_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
