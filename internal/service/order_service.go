package service

import (
	"context"
	"fmt"
	"strings"

	"retailpos/internal/dto"
	"retailpos/internal/lock"
	"retailpos/internal/model"
	"retailpos/internal/notifier"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Stock change kinds accepted by the order processor.
const (
	KindSale       = "SALE"
	KindPurchase   = "PURCHASE"
	KindReturn     = "RETURN"
	KindAdjustment = "ADJUSTMENT"
)

const lockKeyPrefix = "lock:variant:"

// StockItem is one (variant, quantity) pair of a stock change. Quantity is a
// magnitude for SALE/PURCHASE/RETURN and a signed delta for ADJUSTMENT.
type StockItem struct {
	VariantID uuid.UUID
	Quantity  int
}

// OrderService orchestrates multi-item stock mutations as atomic units and
// owns the order envelope around them.
type OrderService interface {
	// ProcessStockChange is the single entry point for ledger mutation: it
	// acquires advisory locks for all involved variants, runs the mutation in
	// one transaction, publishes change events on success, and releases the
	// locks on every exit path.
	ProcessStockChange(ctx context.Context, referenceID, kind string, items []StockItem, actor *uuid.UUID) error

	CreateOrder(ctx context.Context, actor *uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error)
}

type orderService struct {
	repo     repository.OrderRepository
	variants repository.VariantRepository
	ledger   StockLedger
	locks    *lock.Coordinator
	notify   notifier.Notifier
	tx       TxRunner
}

func NewOrderService(
	repo repository.OrderRepository,
	variants repository.VariantRepository,
	ledger StockLedger,
	locks *lock.Coordinator,
	notify notifier.Notifier,
	tx TxRunner,
) OrderService {
	return &orderService{
		repo:     repo,
		variants: variants,
		ledger:   ledger,
		locks:    locks,
		notify:   notify,
		tx:       tx,
	}
}

func lockKey(variantID uuid.UUID) string { return lockKeyPrefix + variantID.String() }

func variantFromLockKey(key string) string { return strings.TrimPrefix(key, lockKeyPrefix) }

// deltaFor maps a change kind to the signed ledger delta.
func deltaFor(kind string, quantity int) int {
	switch kind {
	case KindSale:
		return -quantity
	default:
		// PURCHASE and RETURN are inward magnitudes; ADJUSTMENT quantities
		// arrive already signed.
		return quantity
	}
}

// actionFor maps a change kind to the movement log label.
func actionFor(kind string) string {
	if kind == KindPurchase {
		return model.ActionInward
	}
	return kind
}

func (s *orderService) ProcessStockChange(ctx context.Context, referenceID, kind string, items []StockItem, actor *uuid.UUID) error {
	if len(items) == 0 {
		return ErrEmptyOperation
	}
	switch kind {
	case KindSale, KindPurchase, KindReturn, KindAdjustment:
	default:
		return fmt.Errorf("unknown stock change kind %q", kind)
	}

	// Lock keys are sorted and de-duplicated inside AcquireAll so that
	// concurrent multi-item operations cannot deadlock against each other.
	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, lockKey(it.VariantID))
	}
	held, contended, ok := s.locks.AcquireAll(ctx, keys)
	if !ok {
		return &LockTimeoutError{VariantKey: variantFromLockKey(contended)}
	}

	released := false
	release := func() {
		if !released {
			released = true
			s.locks.ReleaseAll(ctx, held)
		}
	}
	defer release()

	reason := fmt.Sprintf("Order %s", referenceID)
	if kind == KindAdjustment {
		reason = referenceID
	}

	txErr := s.tx(ctx, func(tx *gorm.DB) error {
		for _, it := range items {
			_, found, err := s.ledger.QuantityForUpdate(tx, it.VariantID)
			if err != nil {
				return &StorageError{Op: "read stock", Err: err}
			}
			// A sale against untracked stock is always invalid; a purchase
			// implicitly starts the record at zero.
			if kind == KindSale && !found {
				return &VariantNotFoundError{Key: it.VariantID.String()}
			}

			if _, err := s.ledger.ApplyDelta(tx, DeltaParams{
				VariantID: it.VariantID,
				Delta:     deltaFor(kind, it.Quantity),
				Action:    actionFor(kind),
				Reason:    reason,
				Actor:     actor,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		if isDomainError(txErr) {
			return txErr
		}
		return &StorageError{Op: "stock change transaction", Err: txErr}
	}

	// The mutation is committed; drop the locks before any notification I/O
	// so no lock is held across the publish path.
	release()

	// One event per affected variant, even when a batch lists it twice.
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.VariantID]; dup {
			continue
		}
		seen[it.VariantID] = struct{}{}
		qty, err := s.ledger.CommittedQuantity(ctx, it.VariantID)
		if err != nil {
			log.Warn().Str("variant", it.VariantID.String()).Err(err).
				Msg("post-commit quantity read failed, skipping notification")
			continue
		}
		s.notify.Publish(ctx, notifier.StockUpdate{
			VariantID: it.VariantID,
			Quantity:  qty,
			Kind:      kind,
		})
	}
	return nil
}

// CreateOrder persists the order envelope, resolves human-facing item keys to
// canonical variant IDs, and runs the stock mutation. The header always ends
// COMPLETED or FAILED — never ambiguous.
func (s *orderService) CreateOrder(ctx context.Context, actor *uuid.UUID, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	items := make([]StockItem, 0, len(req.Items))
	for _, it := range req.Items {
		variant, err := resolveVariant(ctx, s.variants, it.VariantKey)
		if err != nil {
			return nil, err
		}
		items = append(items, StockItem{VariantID: variant.ID, Quantity: it.Quantity})
	}

	order := &model.Order{Type: req.Type, Status: model.OrderStatusCreated}
	for _, it := range items {
		order.Items = append(order.Items, model.OrderItem{VariantID: it.VariantID, Quantity: it.Quantity})
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, &StorageError{Op: "create order", Err: err}
	}

	if err := s.ProcessStockChange(ctx, order.ID.String(), req.Type, items, actor); err != nil {
		if updErr := s.repo.UpdateStatus(ctx, order.ID, model.OrderStatusFailed); updErr != nil {
			log.Error().Str("order", order.ID.String()).Err(updErr).
				Msg("failed to mark order FAILED")
		}
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, model.OrderStatusCompleted); err != nil {
		return nil, &StorageError{Op: "complete order", Err: err}
	}
	order.Status = model.OrderStatusCompleted
	return orderToResponse(order), nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*dto.OrderResponse, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("order %s not found", id)
	}
	return orderToResponse(order), nil
}

func orderToResponse(o *model.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			VariantID: it.VariantID.String(),
			Quantity:  it.Quantity,
		})
	}
	return &dto.OrderResponse{
		ID:        o.ID.String(),
		Type:      o.Type,
		Status:    o.Status,
		Items:     items,
		CreatedAt: o.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
