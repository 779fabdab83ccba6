package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement actions. The sum of QuantityChange per variant reconstructs the
// live quantity, which makes the log the reconciliation source of truth.
const (
	ActionSale       = "SALE"
	ActionInward     = "INWARD"
	ActionReturn     = "RETURN"
	ActionAdjustment = "ADJUSTMENT"
)

// StockMovement is one immutable audit-log entry per quantity change.
// Rows are append-only; they are never updated or deleted.
type StockMovement struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Action         string    `gorm:"not null"`
	QuantityChange int       `gorm:"not null"` // signed: positive = inward, negative = outward
	Reason         string
	ActorID        *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

func (StockMovement) TableName() string { return "stock_movements" }
