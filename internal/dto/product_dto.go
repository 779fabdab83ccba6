package dto

import "github.com/shopspring/decimal"

type CreateVariantRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Barcode      string          `json:"barcode"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	CostPrice    decimal.Decimal `json:"costPrice" validate:"min=0"`
	MRP          decimal.Decimal `json:"mrp" validate:"min=0"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"required,gt=0"`
}

type CreateProductRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Brand       string                 `json:"brand"`
	Category    string                 `json:"category"`
	Description *string                `json:"description"`
	TaxRate     decimal.Decimal        `json:"taxRate" validate:"min=0,max=100"`
	Variants    []CreateVariantRequest `json:"variants" validate:"omitempty,dive"`
}

type VariantResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode"`
	Size         string          `json:"size"`
	Color        string          `json:"color"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

type ProductResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Brand    string            `json:"brand"`
	Category string            `json:"category"`
	TaxRate  decimal.Decimal   `json:"taxRate"`
	Variants []VariantResponse `json:"variants"`
}
