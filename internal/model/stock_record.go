package model

import (
	"time"

	"github.com/google/uuid"
)

// StockRecord holds the live on-hand quantity for one variant. There is at
// most one row per variant; it is created lazily on the first inward movement
// and never deleted. Quantity is never negative at any committed state.
type StockRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VariantID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Quantity  int       `gorm:"not null;default:0"`
	UpdatedAt time.Time

	Variant *Variant `gorm:"foreignKey:VariantID"`
}

func (StockRecord) TableName() string { return "stock_records" }
