package dto

import "github.com/shopspring/decimal"

type ReturnItemRequest struct {
	VariantKey string `json:"variantKey" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	// Condition decides whether the unit re-enters sellable stock.
	Condition    string          `json:"condition" validate:"required,oneof=RESELLABLE DEFECTIVE"`
	RefundAmount decimal.Decimal `json:"refundAmount" validate:"min=0"`
}

type CreateReturnRequest struct {
	SaleID string              `json:"saleId" validate:"required,uuid"`
	Reason string              `json:"reason"`
	Items  []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ReturnResponse struct {
	ID          string          `json:"id"`
	SaleID      string          `json:"saleId"`
	TotalRefund decimal.Decimal `json:"totalRefund"`
	Reason      string          `json:"reason"`
	CreatedAt   string          `json:"createdAt"`
}

type ReturnListItem struct {
	ID            string          `json:"id"`
	SaleID        string          `json:"saleId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	TotalRefund   decimal.Decimal `json:"totalRefund"`
	Reason        string          `json:"reason"`
	CreatedAt     string          `json:"createdAt"`
}
