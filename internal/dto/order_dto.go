package dto

type OrderItemRequest struct {
	// VariantKey accepts a canonical UUID, a SKU, or a barcode; the handler
	// layer resolves it before the core runs.
	VariantKey string `json:"variantKey" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	Type  string             `json:"type" validate:"required,oneof=SALE PURCHASE"`
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderItemResponse struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type OrderResponse struct {
	ID        string              `json:"id"`
	Type      string              `json:"type"`
	Status    string              `json:"status"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt string              `json:"createdAt"`
}
