package repository

import (
	"context"

	"retailpos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	// CreateTx persists the sale header and its items inside the caller's
	// transaction — sales are all-or-nothing with their stock deduction.
	CreateTx(tx *gorm.DB, s *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	FindByInvoice(ctx context.Context, invoiceNumber string) (*model.Sale, error)
	List(ctx context.Context, limit int) ([]model.Sale, error)
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) CreateTx(tx *gorm.DB, s *model.Sale) error {
	return tx.Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Preload("Items").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *saleRepo) FindByInvoice(ctx context.Context, invoiceNumber string) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Items.Variant").Preload("Items.Variant.Product").
		Where("invoice_number = ?", invoiceNumber).First(&s).Error
	return &s, err
}

func (r *saleRepo) List(ctx context.Context, limit int) ([]model.Sale, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	var sales []model.Sale
	err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&sales).Error
	return sales, err
}
