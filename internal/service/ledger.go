package service

import (
	"context"

	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DeltaParams describes one quantity mutation. Delta is signed: negative for
// outbound (sales), positive for inward (purchases, resellable returns).
// SKU is carried only for error messages and may be empty.
type DeltaParams struct {
	VariantID uuid.UUID
	Delta     int
	Action    string
	Reason    string
	Actor     *uuid.UUID
	SKU       string
}

// StockLedger is the sole writer of stock record quantities. Every mutating
// method takes the live transaction; a logical operation spanning several
// variants executes all its ledger calls inside exactly one transaction, so
// partial application is never committed.
type StockLedger interface {
	// QuantityForUpdate reads the current quantity with a row-exclusive hold
	// that lasts until the transaction ends. Absent rows read as (0, false).
	QuantityForUpdate(tx *gorm.DB, variantID uuid.UUID) (qty int, found bool, err error)

	// ApplyDelta computes current + delta, rejects negative results with
	// InsufficientStockError, lazily creates the stock record on inward
	// movement, and appends the movement row — all in the caller's tx.
	ApplyDelta(tx *gorm.DB, p DeltaParams) (newQty int, err error)

	// RecordMovement appends an audit entry without touching quantity.
	// Used for zero-change events such as defective returns.
	RecordMovement(tx *gorm.DB, m *model.StockMovement) error

	// CommittedQuantity is the unlocked post-commit read used when emitting
	// change notifications.
	CommittedQuantity(ctx context.Context, variantID uuid.UUID) (int, error)
}

type stockLedger struct {
	stocks    repository.StockRepository
	movements repository.MovementRepository
}

func NewStockLedger(stocks repository.StockRepository, movements repository.MovementRepository) StockLedger {
	return &stockLedger{stocks: stocks, movements: movements}
}

func (l *stockLedger) QuantityForUpdate(tx *gorm.DB, variantID uuid.UUID) (int, bool, error) {
	return l.stocks.GetForUpdateTx(tx, variantID)
}

func (l *stockLedger) ApplyDelta(tx *gorm.DB, p DeltaParams) (int, error) {
	// The row is already held by the caller's read-for-update; this re-read
	// observes the same locked state.
	current, found, err := l.stocks.GetForUpdateTx(tx, p.VariantID)
	if err != nil {
		return 0, &StorageError{Op: "read stock", Err: err}
	}

	newQty := current + p.Delta
	if p.Delta < 0 && newQty < 0 {
		sku := p.SKU
		if sku == "" {
			sku = p.VariantID.String()
		}
		return 0, &InsufficientStockError{SKU: sku, Available: current, Requested: -p.Delta}
	}

	if found {
		if err := l.stocks.UpdateQuantityTx(tx, p.VariantID, newQty); err != nil {
			return 0, &StorageError{Op: "update stock", Err: err}
		}
	} else {
		rec := &model.StockRecord{VariantID: p.VariantID, Quantity: newQty}
		if err := l.stocks.CreateTx(tx, rec); err != nil {
			return 0, &StorageError{Op: "create stock record", Err: err}
		}
	}

	mov := &model.StockMovement{
		VariantID:      p.VariantID,
		Action:         p.Action,
		QuantityChange: p.Delta,
		Reason:         p.Reason,
		ActorID:        p.Actor,
	}
	if err := l.movements.CreateTx(tx, mov); err != nil {
		return 0, &StorageError{Op: "record movement", Err: err}
	}
	return newQty, nil
}

func (l *stockLedger) RecordMovement(tx *gorm.DB, m *model.StockMovement) error {
	if err := l.movements.CreateTx(tx, m); err != nil {
		return &StorageError{Op: "record movement", Err: err}
	}
	return nil
}

func (l *stockLedger) CommittedQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	return l.stocks.GetQuantity(ctx, variantID)
}
