package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Return item conditions. Only resellable units re-enter sellable stock;
// defective units are logged with a zero quantity change for the audit trail.
const (
	ConditionResellable = "RESELLABLE"
	ConditionDefective  = "DEFECTIVE"
)

// Return records a customer return against a sale. The refund total is the
// sum of caller-supplied per-item amounts, never recomputed from sale price.
type Return struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SaleID      uuid.UUID `gorm:"type:uuid;not null;index"`
	TotalRefund decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Reason      string
	ProcessedBy *uuid.UUID `gorm:"type:uuid"`
	CreatedAt   time.Time

	Sale  *Sale        `gorm:"foreignKey:SaleID"`
	Items []ReturnItem `gorm:"foreignKey:ReturnID"`
}

type ReturnItem struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReturnID     uuid.UUID `gorm:"type:uuid;not null;index"`
	VariantID    uuid.UUID `gorm:"type:uuid;not null"`
	Quantity     int       `gorm:"not null"`
	Condition    string    `gorm:"not null"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}
