package service

import (
	"context"
	"fmt"

	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/notifier"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReturnService interface {
	CreateReturn(ctx context.Context, actor *uuid.UUID, req dto.CreateReturnRequest) (*dto.ReturnResponse, error)
	ListReturns(ctx context.Context) ([]dto.ReturnListItem, error)
}

type returnService struct {
	repo     repository.ReturnRepository
	sales    repository.SaleRepository
	variants repository.VariantRepository
	ledger   StockLedger
	notify   notifier.Notifier
	tx       TxRunner
}

func NewReturnService(
	repo repository.ReturnRepository,
	sales repository.SaleRepository,
	variants repository.VariantRepository,
	ledger StockLedger,
	notify notifier.Notifier,
	tx TxRunner,
) ReturnService {
	return &returnService{repo: repo, sales: sales, variants: variants, ledger: ledger, notify: notify, tx: tx}
}

// CreateReturn records a customer return in one transaction. Every returned
// line gets a RETURN movement; only RESELLABLE units increment stock.
// DEFECTIVE/scrapped units are logged with a zero quantity change, which
// preserves the audit trail without restoring sellable stock. The refund
// total is the sum of the operator-supplied per-item amounts.
func (s *returnService) CreateReturn(ctx context.Context, actor *uuid.UUID, req dto.CreateReturnRequest) (*dto.ReturnResponse, error) {
	saleID, err := uuid.Parse(req.SaleID)
	if err != nil {
		return nil, fmt.Errorf("invalid sale id: %w", err)
	}
	if _, err := s.sales.FindByID(ctx, saleID); err != nil {
		return nil, fmt.Errorf("sale %s not found", req.SaleID)
	}

	type resolvedItem struct {
		variantID    uuid.UUID
		sku          string
		quantity     int
		condition    string
		refundAmount decimal.Decimal
	}
	resolved := make([]resolvedItem, 0, len(req.Items))
	totalRefund := decimal.Zero
	for _, it := range req.Items {
		variant, err := resolveVariant(ctx, s.variants, it.VariantKey)
		if err != nil {
			return nil, err
		}
		totalRefund = totalRefund.Add(it.RefundAmount)
		resolved = append(resolved, resolvedItem{
			variantID:    variant.ID,
			sku:          variant.SKU,
			quantity:     it.Quantity,
			condition:    it.Condition,
			refundAmount: it.RefundAmount,
		})
	}

	reason := req.Reason
	if reason == "" {
		reason = "Customer Return"
	}
	ret := &model.Return{
		SaleID:      saleID,
		TotalRefund: totalRefund,
		Reason:      reason,
		ProcessedBy: actor,
	}
	for _, r := range resolved {
		ret.Items = append(ret.Items, model.ReturnItem{
			VariantID:    r.variantID,
			Quantity:     r.quantity,
			Condition:    r.condition,
			RefundAmount: r.refundAmount,
		})
	}

	txErr := s.tx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, ret); err != nil {
			return &StorageError{Op: "create return", Err: err}
		}
		for _, r := range resolved {
			if r.condition == model.ConditionResellable {
				if _, err := s.ledger.ApplyDelta(tx, DeltaParams{
					VariantID: r.variantID,
					Delta:     r.quantity,
					Action:    model.ActionReturn,
					Reason:    "Customer Return (Resellable)",
					Actor:     actor,
					SKU:       r.sku,
				}); err != nil {
					return err
				}
				continue
			}
			// Defective: audit entry only, stock stays untouched.
			if err := s.ledger.RecordMovement(tx, &model.StockMovement{
				VariantID:      r.variantID,
				Action:         model.ActionReturn,
				QuantityChange: 0,
				Reason:         "Customer Return (Defective - Scrapped)",
				ActorID:        actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if isDomainError(txErr) {
			return nil, txErr
		}
		return nil, &StorageError{Op: "return transaction", Err: txErr}
	}

	for _, r := range resolved {
		if r.condition != model.ConditionResellable {
			continue
		}
		qty, err := s.ledger.CommittedQuantity(ctx, r.variantID)
		if err != nil {
			continue
		}
		s.notify.Publish(ctx, notifier.StockUpdate{
			VariantID: r.variantID,
			Quantity:  qty,
			Kind:      KindReturn,
		})
	}

	return &dto.ReturnResponse{
		ID:          ret.ID.String(),
		SaleID:      saleID.String(),
		TotalRefund: totalRefund,
		Reason:      reason,
		CreatedAt:   ret.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *returnService) ListReturns(ctx context.Context) ([]dto.ReturnListItem, error) {
	returns, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReturnListItem, 0, len(returns))
	for _, r := range returns {
		invoice := ""
		if r.Sale != nil {
			invoice = r.Sale.InvoiceNumber
		}
		items = append(items, dto.ReturnListItem{
			ID:            r.ID.String(),
			SaleID:        r.SaleID.String(),
			InvoiceNumber: invoice,
			TotalRefund:   r.TotalRefund,
			Reason:        r.Reason,
			CreatedAt:     r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return items, nil
}
