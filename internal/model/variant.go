package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Variant is the unit of stock tracking: one sellable configuration of a
// product (size/color), addressable by canonical ID or by SKU / barcode.
type Variant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	SKU          string    `gorm:"uniqueIndex;not null"`
	Barcode      string    `gorm:"index"`
	Size         string
	Color        string
	CostPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	MRP          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
