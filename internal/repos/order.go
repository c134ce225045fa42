package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/types"
)

type OrderRepo interface {
	// ListRecentByUser returns the user's most recent orders, newest first.
	ListRecentByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.Order, error)
}

type orderRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewOrderRepo(db *gorm.DB, baseLog *logger.Logger) OrderRepo {
	return &orderRepo{db: db, log: baseLog.With("repo", "OrderRepo")}
}

func (r *orderRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID string, limit int) ([]*types.Order, error) {
	q := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("order_date DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Order
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
