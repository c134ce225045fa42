package types

import (
	"time"

	"gorm.io/datatypes"
)

type OrderItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// Order is read-only context for summarization and the ticket detail bundle;
// nothing in this service writes orders.
type Order struct {
	ID          uint64                         `gorm:"primaryKey" json:"-"`
	OrderID     string                         `gorm:"type:varchar(64);uniqueIndex;not null;column:order_id" json:"orderId"`
	UserID      string                         `gorm:"type:varchar(64);index;not null;column:user_id" json:"userId"`
	TicketID    string                         `gorm:"type:varchar(64);index;column:ticket_id" json:"ticketId,omitempty"`
	Items       datatypes.JSONSlice[OrderItem] `gorm:"type:jsonb" json:"items"`
	TotalAmount float64                        `gorm:"column:total_amount" json:"totalAmount"`
	Currency    string                         `gorm:"type:varchar(8)" json:"currency"`
	Status      string                         `gorm:"type:varchar(32)" json:"status"`
	OrderDate   time.Time                      `gorm:"index;not null;column:order_date" json:"orderDate"`

	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}
