package dto

import "github.com/shopspring/decimal"

type AdjustStockRequest struct {
	VariantKey string `json:"variantKey" validate:"required"`
	// Quantity is signed: positive adds stock, negative removes it.
	Quantity int    `json:"quantity" validate:"required"`
	Reason   string `json:"reason" validate:"required"`
}

type StockItemResponse struct {
	VariantID    string          `json:"variantId"`
	SKU          string          `json:"sku"`
	ProductName  string          `json:"productName"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Quantity     int             `json:"quantity"`
	UpdatedAt    string          `json:"updatedAt"`
}

type MovementResponse struct {
	ID             string  `json:"id"`
	VariantID      string  `json:"variantId"`
	SKU            string  `json:"sku"`
	Action         string  `json:"action"`
	QuantityChange int     `json:"quantityChange"`
	Reason         string  `json:"reason"`
	ActorID        *string `json:"actorId"`
	CreatedAt      string  `json:"createdAt"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}
