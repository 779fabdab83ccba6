package model

import (
	"time"

	"github.com/google/uuid"
)

// Order lifecycle. An order is created CREATED, then flipped to COMPLETED or
// FAILED once stock processing finishes — never left ambiguous.
const (
	OrderStatusCreated   = "CREATED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusFailed    = "FAILED"
)

const (
	OrderTypeSale     = "SALE"
	OrderTypePurchase = "PURCHASE"
)

// Order is the transaction envelope for a multi-item stock mutation.
type Order struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Type      string    `gorm:"not null"`
	Status    string    `gorm:"not null;default:'CREATED'"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity  int       `gorm:"not null"`
}
