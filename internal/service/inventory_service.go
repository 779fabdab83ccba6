package service

import (
	"context"

	"retailpos/internal/dto"
	"retailpos/internal/repository"

	"github.com/google/uuid"
)

type InventoryService interface {
	ListStock(ctx context.Context) ([]dto.StockItemResponse, error)
	ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error)
	// AdjustStock applies a signed manual correction through the order
	// processor so it runs under the same lock and transaction discipline
	// as every other mutation.
	AdjustStock(ctx context.Context, actor *uuid.UUID, req dto.AdjustStockRequest) (newQty int, err error)
}

type inventoryService struct {
	stocks    repository.StockRepository
	movements repository.MovementRepository
	variants  repository.VariantRepository
	orders    OrderService
}

func NewInventoryService(
	stocks repository.StockRepository,
	movements repository.MovementRepository,
	variants repository.VariantRepository,
	orders OrderService,
) InventoryService {
	return &inventoryService{stocks: stocks, movements: movements, variants: variants, orders: orders}
}

func (s *inventoryService) ListStock(ctx context.Context) ([]dto.StockItemResponse, error) {
	records, err := s.stocks.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockItemResponse, 0, len(records))
	for _, rec := range records {
		item := dto.StockItemResponse{
			VariantID: rec.VariantID.String(),
			Quantity:  rec.Quantity,
			UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if rec.Variant != nil {
			item.SKU = rec.Variant.SKU
			item.Size = rec.Variant.Size
			item.Color = rec.Variant.Color
			item.SellingPrice = rec.Variant.SellingPrice
			if rec.Variant.Product != nil {
				item.ProductName = rec.Variant.Product.Name
			}
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	movements, total, err := s.movements.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		sku := ""
		if m.Variant != nil {
			sku = m.Variant.SKU
		}
		var actor *string
		if m.ActorID != nil {
			id := m.ActorID.String()
			actor = &id
		}
		items = append(items, dto.MovementResponse{
			ID:             m.ID.String(),
			VariantID:      m.VariantID.String(),
			SKU:            sku,
			Action:         m.Action,
			QuantityChange: m.QuantityChange,
			Reason:         m.Reason,
			ActorID:        actor,
			CreatedAt:      m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.MovementListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *inventoryService) AdjustStock(ctx context.Context, actor *uuid.UUID, req dto.AdjustStockRequest) (int, error) {
	variant, err := resolveVariant(ctx, s.variants, req.VariantKey)
	if err != nil {
		return 0, err
	}
	reason := req.Reason
	if reason == "" {
		reason = "Manual Adjustment"
	}
	items := []StockItem{{VariantID: variant.ID, Quantity: req.Quantity}}
	if err := s.orders.ProcessStockChange(ctx, reason, KindAdjustment, items, actor); err != nil {
		return 0, err
	}
	return s.stocks.GetQuantity(ctx, variant.ID)
}
