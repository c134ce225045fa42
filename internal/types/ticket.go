package types

import (
	"time"

	"gorm.io/datatypes"
)

type TicketStatus string

const (
	TicketStatusOpen         TicketStatus = "open"
	TicketStatusAssigned     TicketStatus = "assigned"
	TicketStatusInProgress   TicketStatus = "in_progress"
	TicketStatusPendingAgent TicketStatus = "pending_agent"
	TicketStatusResolved     TicketStatus = "resolved"
	TicketStatusClosed       TicketStatus = "closed"
)

type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// Ownership says who is driving the conversation for a ticket. It is derived
// from status by OwnershipOf, which is the single interpretation both the REST
// and realtime entry points use.
type Ownership string

const (
	OwnershipBot    Ownership = "bot"
	OwnershipHuman  Ownership = "human"
	OwnershipClosed Ownership = "closed"
)

type Ticket struct {
	ID                uint64            `gorm:"primaryKey" json:"-"`
	TicketID          string            `gorm:"type:varchar(64);uniqueIndex;not null;column:ticket_id" json:"ticketId"`
	UserID            string            `gorm:"type:varchar(64);index;not null;column:user_id" json:"userId"`
	CustomerEmail     string            `gorm:"column:customer_email" json:"customerEmail,omitempty"`
	CustomerName      string            `gorm:"column:customer_name" json:"customerName,omitempty"`
	Subject           string            `gorm:"type:varchar(255);not null" json:"subject"`
	Status            TicketStatus      `gorm:"type:varchar(32);index;not null" json:"status"`
	Priority          TicketPriority    `gorm:"type:varchar(32);index;not null" json:"priority"`
	AssignedAgentID   string            `gorm:"type:varchar(64);index;column:assigned_agent_id" json:"assignedAgentId,omitempty"`
	AssignedAgentName string            `gorm:"column:assigned_agent_name" json:"assignedAgentName,omitempty"`
	AssignedAt        *time.Time        `json:"assignedAt,omitempty"`
	ResolvedAt        *time.Time        `json:"resolvedAt,omitempty"`
	Metadata          datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Ticket) TableName() string {
	return "tickets"
}

// OwnershipOf maps ticket status onto conversation ownership. Any agent-facing
// status means a human owns the room and automated replies stop.
func OwnershipOf(status TicketStatus) Ownership {
	switch status {
	case TicketStatusOpen:
		return OwnershipBot
	case TicketStatusResolved, TicketStatusClosed:
		return OwnershipClosed
	default:
		return OwnershipHuman
	}
}
