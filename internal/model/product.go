package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product groups sellable variants and carries the pricing attributes shared
// by all of them (tax rate, brand, category).
type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"index;not null"`
	Brand       string
	Category    string
	Description *string
	// TaxRate is the GST percentage applied on top of the selling price.
	TaxRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Variants []Variant `gorm:"foreignKey:ProductID"`
}
