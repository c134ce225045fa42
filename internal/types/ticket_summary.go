package types

import (
	"time"

	"gorm.io/datatypes"
)

// TicketSummary is a derived artifact, recomputed on demand with upsert
// semantics. Staleness is accepted; there is no invalidation.
type TicketSummary struct {
	ID                uint64                      `gorm:"primaryKey" json:"-"`
	TicketID          string                      `gorm:"type:varchar(64);uniqueIndex;not null;column:ticket_id" json:"ticketId"`
	Summary           string                      `gorm:"type:text" json:"summary"`
	KeyPoints         datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"keyPoints"`
	CustomerTone      string                      `gorm:"type:varchar(32)" json:"customerTone"`
	SentimentScore    float64                     `json:"sentimentScore"`
	SuggestedResponse string                      `gorm:"type:text" json:"suggestedResponse"`
	SuggestedActions  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"suggestedActions"`
	ContextSummary    datatypes.JSONMap           `gorm:"type:jsonb" json:"contextSummary"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (TicketSummary) TableName() string {
	return "ticket_summaries"
}
