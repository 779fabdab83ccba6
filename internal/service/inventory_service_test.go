package service_test

import (
	"context"
	"testing"

	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryFixture() (*orderFixture, service.InventoryService) {
	f := newOrderFixture()
	svc := service.NewInventoryService(f.stocks, f.movements, f.variants, f.svc)
	return f, svc
}

func TestAdjustStockPositive(t *testing.T) {
	f, svc := newInventoryFixture()
	v := seedVariant(f.variants, "SKU-ADJ", "", "100", "0")
	f.stocks.seed(v.ID, 10)

	newQty, err := svc.AdjustStock(context.Background(), nil, dto.AdjustStockRequest{
		VariantKey: "SKU-ADJ",
		Quantity:   4,
		Reason:     "Stock count correction",
	})
	require.NoError(t, err)
	assert.Equal(t, 14, newQty)

	movements := f.movements.byVariant(v.ID)
	require.Len(t, movements, 1)
	assert.Equal(t, model.ActionAdjustment, movements[0].Action)
	assert.Equal(t, 4, movements[0].QuantityChange)
	assert.Equal(t, "Stock count correction", movements[0].Reason)
}

func TestAdjustStockNegativeCannotUnderflow(t *testing.T) {
	f, svc := newInventoryFixture()
	v := seedVariant(f.variants, "SKU-ADJ2", "", "100", "0")
	f.stocks.seed(v.ID, 3)

	_, err := svc.AdjustStock(context.Background(), nil, dto.AdjustStockRequest{
		VariantKey: v.ID.String(),
		Quantity:   -5,
		Reason:     "Shrinkage",
	})
	var outOfStock *service.InsufficientStockError
	require.ErrorAs(t, err, &outOfStock)

	qty, _ := f.stocks.GetQuantity(context.Background(), v.ID)
	assert.Equal(t, 3, qty)
}

func TestListMovementsFiltersByAction(t *testing.T) {
	f, svc := newInventoryFixture()
	v := seedVariant(f.variants, "SKU-MOV", "", "100", "0")
	f.stocks.seed(v.ID, 10)

	require.NoError(t, f.svc.ProcessStockChange(context.Background(), "ORD-A", service.KindSale,
		[]service.StockItem{{VariantID: v.ID, Quantity: 2}}, nil))
	require.NoError(t, f.svc.ProcessStockChange(context.Background(), "ORD-B", service.KindPurchase,
		[]service.StockItem{{VariantID: v.ID, Quantity: 5}}, nil))

	resp, err := svc.ListMovements(context.Background(), repository.MovementFilter{
		VariantID: &v.ID,
		Action:    model.ActionSale,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, resp.Total)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, -2, resp.Data[0].QuantityChange)
}

func TestListStock(t *testing.T) {
	f, svc := newInventoryFixture()
	v := seedVariant(f.variants, "SKU-LIST", "", "100", "0")
	f.stocks.seed(v.ID, 7)

	items, err := svc.ListStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, v.ID.String(), items[0].VariantID)
	assert.Equal(t, 7, items[0].Quantity)
}
