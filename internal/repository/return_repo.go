package repository

import (
	"context"

	"retailpos/internal/model"

	"gorm.io/gorm"
)

type ReturnRepository interface {
	CreateTx(tx *gorm.DB, ret *model.Return) error
	List(ctx context.Context) ([]model.Return, error)
}

type returnRepo struct{ db *gorm.DB }

func NewReturnRepository(db *gorm.DB) ReturnRepository { return &returnRepo{db: db} }

func (r *returnRepo) CreateTx(tx *gorm.DB, ret *model.Return) error {
	return tx.Create(ret).Error
}

func (r *returnRepo) List(ctx context.Context) ([]model.Return, error) {
	var returns []model.Return
	err := r.db.WithContext(ctx).Preload("Sale").Preload("Items").
		Order("created_at DESC").Find(&returns).Error
	return returns, err
}
