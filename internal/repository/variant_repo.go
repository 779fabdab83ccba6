package repository

import (
	"context"

	"retailpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VariantRepository defines the data access contract for product variants.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type VariantRepository interface {
	Create(ctx context.Context, v *model.Variant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error)
	FindBySKU(ctx context.Context, sku string) (*model.Variant, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error)
	// FindWithProductTx loads a variant and its product (for tax rate) inside
	// an active transaction — callers must pass the tx instance.
	FindWithProductTx(tx *gorm.DB, id uuid.UUID) (*model.Variant, error)
	List(ctx context.Context) ([]model.Variant, error)
}

type variantRepo struct{ db *gorm.DB }

func NewVariantRepository(db *gorm.DB) VariantRepository { return &variantRepo{db: db} }

func (r *variantRepo) Create(ctx context.Context, v *model.Variant) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *variantRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *variantRepo) FindBySKU(ctx context.Context, sku string) (*model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&v).Error
	return &v, err
}

func (r *variantRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error) {
	var v model.Variant
	err := r.db.WithContext(ctx).Where("barcode = ?", barcode).First(&v).Error
	return &v, err
}

func (r *variantRepo) FindWithProductTx(tx *gorm.DB, id uuid.UUID) (*model.Variant, error) {
	var v model.Variant
	err := tx.Preload("Product").First(&v, "id = ?", id).Error
	return &v, err
}

func (r *variantRepo) List(ctx context.Context) ([]model.Variant, error) {
	var variants []model.Variant
	err := r.db.WithContext(ctx).Preload("Product").Order("sku ASC").Find(&variants).Error
	return variants, err
}
