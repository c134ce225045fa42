package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/types"
)

type ChatMessageRepo interface {
	Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) error
	// ListByTicket returns messages ascending by timestamp (insertion order on
	// ties); this is the sole source of truth for conversation replay.
	ListByTicket(ctx context.Context, tx *gorm.DB, ticketID string, limit int) ([]*types.ChatMessage, error)
	// ListRecentByTicket returns the newest n messages, re-ordered ascending so
	// the window reads like a transcript.
	ListRecentByTicket(ctx context.Context, tx *gorm.DB, ticketID string, n int) ([]*types.ChatMessage, error)
	CountByTicket(ctx context.Context, tx *gorm.DB, ticketID string) (int64, error)
	DeleteByTicket(ctx context.Context, tx *gorm.DB, ticketID string) error
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *chatMessageRepo) Create(ctx context.Context, tx *gorm.DB, message *types.ChatMessage) error {
	return r.conn(tx).WithContext(ctx).Create(message).Error
}

func (r *chatMessageRepo) ListByTicket(ctx context.Context, tx *gorm.DB, ticketID string, limit int) ([]*types.ChatMessage, error) {
	q := r.conn(tx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("timestamp ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.ChatMessage
	if err := q.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *chatMessageRepo) ListRecentByTicket(ctx context.Context, tx *gorm.DB, ticketID string, n int) ([]*types.ChatMessage, error) {
	var newest []*types.ChatMessage
	q := r.conn(tx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Order("timestamp DESC, id DESC")
	if n > 0 {
		q = q.Limit(n)
	}
	if err := q.Find(&newest).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
		newest[i], newest[j] = newest[j], newest[i]
	}
	return newest, nil
}

func (r *chatMessageRepo) CountByTicket(ctx context.Context, tx *gorm.DB, ticketID string) (int64, error) {
	var count int64
	if err := r.conn(tx).WithContext(ctx).
		Model(&types.ChatMessage{}).
		Where("ticket_id = ?", ticketID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *chatMessageRepo) DeleteByTicket(ctx context.Context, tx *gorm.DB, ticketID string) error {
	return r.conn(tx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		Delete(&types.ChatMessage{}).Error
}
