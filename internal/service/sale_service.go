package service

import (
	"context"
	"fmt"
	"time"

	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/notifier"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleService interface {
	CreateSale(ctx context.Context, actor *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSaleByInvoice(ctx context.Context, invoiceNumber string) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, limit int) ([]dto.SaleListItem, error)
}

type saleService struct {
	repo     repository.SaleRepository
	variants repository.VariantRepository
	ledger   StockLedger
	notify   notifier.Notifier
	tx       TxRunner
}

func NewSaleService(
	repo repository.SaleRepository,
	variants repository.VariantRepository,
	ledger StockLedger,
	notify notifier.Notifier,
	tx TxRunner,
) SaleService {
	return &saleService{repo: repo, variants: variants, ledger: ledger, notify: notify, tx: tx}
}

var oneHundred = decimal.NewFromInt(100)

// CreateSale runs pricing and stock deduction as one ACID transaction:
//  1. Resolve each item's key to a canonical variant (pre-flight, outside TX)
//  2. BEGIN TX: per item, re-read the selling price and tax rate, row-lock
//     the stock record, verify availability, accumulate totals
//  3. Insert sale header + items, deduct stock, append SALE movements
//  4. COMMIT — on any item failure the whole sale rolls back and no partial
//     sale record exists
//  5. Broadcast the committed quantities, best-effort
//
// Pricing deliberately does not delegate to the generic order processor:
// the price must be read at sale time, inside the same transaction that
// deducts the stock.
func (s *saleService) CreateSale(ctx context.Context, actor *uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	type resolvedItem struct {
		variantID uuid.UUID
		quantity  int
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	for _, it := range req.Items {
		variant, err := resolveVariant(ctx, s.variants, it.VariantKey)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, resolvedItem{variantID: variant.ID, quantity: it.Quantity})
	}

	paymentMode := req.PaymentMode
	if paymentMode == "" {
		paymentMode = "CASH"
	}
	invoiceNumber := fmt.Sprintf("INV-%d", time.Now().UnixMilli())

	sale := &model.Sale{
		InvoiceNumber: invoiceNumber,
		ActorID:       actor,
		CustomerName:  req.CustomerName,
		PaymentMode:   paymentMode,
	}
	itemsResp := make([]dto.SaleItemResponse, 0, len(resolved))

	txErr := s.tx(ctx, func(tx *gorm.DB) error {
		totalAmount := decimal.Zero
		totalTax := decimal.Zero

		type pricedItem struct {
			variantID uuid.UUID
			sku       string
			quantity  int
			unitPrice decimal.Decimal
			tax       decimal.Decimal
			subtotal  decimal.Decimal
		}
		priced := make([]pricedItem, 0, len(resolved))

		for _, it := range resolved {
			// Always fetch the fresh price and tax rate inside the TX.
			variant, err := s.variants.FindWithProductTx(tx, it.variantID)
			if err != nil {
				return &VariantNotFoundError{Key: it.variantID.String()}
			}

			current, found, err := s.ledger.QuantityForUpdate(tx, it.variantID)
			if err != nil {
				return &StorageError{Op: "read stock", Err: err}
			}
			if !found || current < it.quantity {
				return &InsufficientStockError{SKU: variant.SKU, Available: current, Requested: it.quantity}
			}

			qty := decimal.NewFromInt(int64(it.quantity))
			unitPrice := variant.SellingPrice
			subtotal := unitPrice.Mul(qty)
			taxRate := decimal.Zero
			if variant.Product != nil {
				taxRate = variant.Product.TaxRate
			}
			tax := subtotal.Mul(taxRate).Div(oneHundred)

			totalAmount = totalAmount.Add(subtotal).Add(tax)
			totalTax = totalTax.Add(tax)
			priced = append(priced, pricedItem{
				variantID: it.variantID,
				sku:       variant.SKU,
				quantity:  it.quantity,
				unitPrice: unitPrice,
				tax:       tax,
				subtotal:  subtotal,
			})
		}

		sale.TotalAmount = totalAmount
		sale.TaxAmount = totalTax
		for _, p := range priced {
			sale.Items = append(sale.Items, model.SaleItem{
				VariantID: p.variantID,
				Quantity:  p.quantity,
				UnitPrice: p.unitPrice,
				TaxAmount: p.tax,
				Subtotal:  p.subtotal,
			})
		}
		if err := s.repo.CreateTx(tx, sale); err != nil {
			return &StorageError{Op: "create sale", Err: err}
		}

		for _, p := range priced {
			if _, err := s.ledger.ApplyDelta(tx, DeltaParams{
				VariantID: p.variantID,
				Delta:     -p.quantity,
				Action:    model.ActionSale,
				Reason:    fmt.Sprintf("Sale: %s", invoiceNumber),
				Actor:     actor,
				SKU:       p.sku,
			}); err != nil {
				return err
			}
			itemsResp = append(itemsResp, dto.SaleItemResponse{
				VariantID: p.variantID.String(),
				SKU:       p.sku,
				Quantity:  p.quantity,
				UnitPrice: p.unitPrice,
				TaxAmount: p.tax,
				Subtotal:  p.subtotal,
			})
		}
		return nil
	})
	if txErr != nil {
		if isDomainError(txErr) {
			return nil, txErr
		}
		return nil, &StorageError{Op: "sale transaction", Err: txErr}
	}

	for _, it := range resolved {
		qty, err := s.ledger.CommittedQuantity(ctx, it.variantID)
		if err != nil {
			continue
		}
		s.notify.Publish(ctx, notifier.StockUpdate{
			VariantID: it.variantID,
			Quantity:  qty,
			Kind:      KindSale,
		})
	}

	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		InvoiceNumber: invoiceNumber,
		TotalAmount:   sale.TotalAmount,
		TaxAmount:     sale.TaxAmount,
		PaymentMode:   paymentMode,
		Items:         itemsResp,
		CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *saleService) GetSaleByInvoice(ctx context.Context, invoiceNumber string) (*dto.SaleResponse, error) {
	sale, err := s.repo.FindByInvoice(ctx, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("invoice %s not found", invoiceNumber)
	}
	items := make([]dto.SaleItemResponse, 0, len(sale.Items))
	for _, it := range sale.Items {
		sku := ""
		if it.Variant != nil {
			sku = it.Variant.SKU
		}
		items = append(items, dto.SaleItemResponse{
			VariantID: it.VariantID.String(),
			SKU:       sku,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			TaxAmount: it.TaxAmount,
			Subtotal:  it.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:            sale.ID.String(),
		InvoiceNumber: sale.InvoiceNumber,
		TotalAmount:   sale.TotalAmount,
		TaxAmount:     sale.TaxAmount,
		PaymentMode:   sale.PaymentMode,
		Items:         items,
		CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *saleService) ListSales(ctx context.Context, limit int) ([]dto.SaleListItem, error) {
	sales, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SaleListItem, 0, len(sales))
	for _, sale := range sales {
		items = append(items, dto.SaleListItem{
			ID:            sale.ID.String(),
			InvoiceNumber: sale.InvoiceNumber,
			TotalAmount:   sale.TotalAmount,
			TaxAmount:     sale.TaxAmount,
			PaymentMode:   sale.PaymentMode,
			CreatedAt:     sale.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return items, nil
}
