package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/types"
)

type TicketSummaryRepo interface {
	GetByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*types.TicketSummary, error)
	// Upsert replaces the summary for a ticket; last write wins, no versioning.
	Upsert(ctx context.Context, tx *gorm.DB, summary *types.TicketSummary) error
}

type ticketSummaryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTicketSummaryRepo(db *gorm.DB, baseLog *logger.Logger) TicketSummaryRepo {
	return &ticketSummaryRepo{db: db, log: baseLog.With("repo", "TicketSummaryRepo")}
}

func (r *ticketSummaryRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ticketSummaryRepo) GetByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*types.TicketSummary, error) {
	var s types.TicketSummary
	if err := r.conn(tx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ticketSummaryRepo) Upsert(ctx context.Context, tx *gorm.DB, summary *types.TicketSummary) error {
	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ticket_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"summary", "key_points", "customer_tone", "sentiment_score",
				"suggested_response", "suggested_actions", "context_summary", "updated_at",
			}),
		}).
		Create(summary).Error
}
