package dto

import "github.com/shopspring/decimal"

type SaleItemRequest struct {
	VariantKey string `json:"variantKey" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type CreateSaleRequest struct {
	Items        []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMode  string            `json:"paymentMode" validate:"omitempty,oneof=CASH CARD UPI"`
	CustomerName string            `json:"customerName"`
}

type SaleItemResponse struct {
	VariantID string          `json:"variantId"`
	SKU       string          `json:"sku"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoiceNumber"`
	TotalAmount   decimal.Decimal    `json:"totalAmount"`
	TaxAmount     decimal.Decimal    `json:"taxAmount"`
	PaymentMode   string             `json:"paymentMode"`
	Items         []SaleItemResponse `json:"items"`
	CreatedAt     string             `json:"createdAt"`
}

type SaleListItem struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	PaymentMode   string          `json:"paymentMode"`
	CreatedAt     string          `json:"createdAt"`
}
