package repos

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/types"
)

// ErrNotFound is the store-level miss; services map it to an API NOT_FOUND.
var ErrNotFound = errors.New("record not found")

type TicketFilter struct {
	Status          string
	Priority        string
	AssignedAgentID string
}

type TicketRepo interface {
	Create(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) error
	GetByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*types.Ticket, error)
	GetByTicketIDAndUser(ctx context.Context, tx *gorm.DB, ticketID, userID string) (*types.Ticket, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Ticket, error)
	List(ctx context.Context, tx *gorm.DB, filter TicketFilter, limit int) ([]*types.Ticket, error)
	// UpdateByTicketID applies a partial patch; it is last-write-wins by design,
	// there is no optimistic concurrency guard on status.
	UpdateByTicketID(ctx context.Context, tx *gorm.DB, ticketID string, changes map[string]interface{}) error
}

type ticketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTicketRepo(db *gorm.DB, baseLog *logger.Logger) TicketRepo {
	return &ticketRepo{db: db, log: baseLog.With("repo", "TicketRepo")}
}

func (r *ticketRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ticketRepo) Create(ctx context.Context, tx *gorm.DB, ticket *types.Ticket) error {
	return r.conn(tx).WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepo) GetByTicketID(ctx context.Context, tx *gorm.DB, ticketID string) (*types.Ticket, error) {
	var t types.Ticket
	if err := r.conn(tx).WithContext(ctx).
		Where("ticket_id = ?", ticketID).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) GetByTicketIDAndUser(ctx context.Context, tx *gorm.DB, ticketID, userID string) (*types.Ticket, error) {
	var t types.Ticket
	if err := r.conn(tx).WithContext(ctx).
		Where("ticket_id = ? AND user_id = ?", ticketID, userID).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID string) ([]*types.Ticket, error) {
	var results []*types.Ticket
	if err := r.conn(tx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ticketRepo) List(ctx context.Context, tx *gorm.DB, filter TicketFilter, limit int) ([]*types.Ticket, error) {
	q := r.conn(tx).WithContext(ctx).Model(&types.Ticket{})
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		q = q.Where("priority = ?", filter.Priority)
	}
	if filter.AssignedAgentID != "" {
		q = q.Where("assigned_agent_id = ?", filter.AssignedAgentID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var results []*types.Ticket
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ticketRepo) UpdateByTicketID(ctx context.Context, tx *gorm.DB, ticketID string, changes map[string]interface{}) error {
	res := r.conn(tx).WithContext(ctx).
		Model(&types.Ticket{}).
		Where("ticket_id = ?", ticketID).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
