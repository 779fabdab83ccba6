package service

import (
	"context"

	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
)

// resolveVariant turns a human-facing key into a canonical variant. The key
// is tried as a UUID first, then as a SKU, then as a barcode — the order a
// POS terminal produces them in.
func resolveVariant(ctx context.Context, repo repository.VariantRepository, key string) (*model.Variant, error) {
	if id, err := uuid.Parse(key); err == nil {
		if v, err := repo.FindByID(ctx, id); err == nil {
			return v, nil
		}
		return nil, &VariantNotFoundError{Key: key}
	}
	if v, err := repo.FindBySKU(ctx, key); err == nil {
		return v, nil
	}
	if v, err := repo.FindByBarcode(ctx, key); err == nil {
		return v, nil
	}
	return nil, &VariantNotFoundError{Key: key}
}
