package repository

import (
	"context"
	"errors"

	"retailpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockRepository is the sole accessor of stock_records. Mutating methods are
// Tx-scoped on purpose: quantity writes only happen inside a transaction
// opened by the order processor or the sale/return flows.
type StockRepository interface {
	// GetForUpdateTx reads a variant's quantity with SELECT ... FOR UPDATE,
	// blocking other transactions on the same row until this one ends.
	// found=false (qty 0) means no stock record exists yet.
	GetForUpdateTx(tx *gorm.DB, variantID uuid.UUID) (qty int, found bool, err error)
	CreateTx(tx *gorm.DB, rec *model.StockRecord) error
	UpdateQuantityTx(tx *gorm.DB, variantID uuid.UUID, qty int) error

	// Unlocked snapshot reads for display — never used for mutation decisions.
	GetQuantity(ctx context.Context, variantID uuid.UUID) (int, error)
	List(ctx context.Context) ([]model.StockRecord, error)
}

type stockRepo struct{ db *gorm.DB }

func NewStockRepository(db *gorm.DB) StockRepository { return &stockRepo{db: db} }

func (r *stockRepo) GetForUpdateTx(tx *gorm.DB, variantID uuid.UUID) (int, bool, error) {
	var rec model.StockRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("variant_id = ?", variantID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.Quantity, true, nil
}

func (r *stockRepo) CreateTx(tx *gorm.DB, rec *model.StockRecord) error {
	return tx.Create(rec).Error
}

func (r *stockRepo) UpdateQuantityTx(tx *gorm.DB, variantID uuid.UUID, qty int) error {
	return tx.Model(&model.StockRecord{}).Where("variant_id = ?", variantID).
		Updates(map[string]interface{}{"quantity": qty, "updated_at": gorm.Expr("NOW()")}).Error
}

func (r *stockRepo) GetQuantity(ctx context.Context, variantID uuid.UUID) (int, error) {
	var rec model.StockRecord
	err := r.db.WithContext(ctx).Where("variant_id = ?", variantID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	return rec.Quantity, err
}

func (r *stockRepo) List(ctx context.Context) ([]model.StockRecord, error) {
	var records []model.StockRecord
	err := r.db.WithContext(ctx).
		Preload("Variant").Preload("Variant.Product").
		Find(&records).Error
	return records, err
}
