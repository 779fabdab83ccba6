package service

import (
	"context"

	"retailpos/internal/dto"
	"retailpos/internal/model"
	"retailpos/internal/repository"

	"github.com/google/uuid"
)

// ProductService is the thin catalog surface the flows need. Full catalog
// management lives outside the stock core.
type ProductService interface {
	Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context) ([]dto.ProductResponse, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p := &model.Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Category:    req.Category,
		Description: req.Description,
		TaxRate:     req.TaxRate,
	}
	for _, v := range req.Variants {
		p.Variants = append(p.Variants, model.Variant{
			SKU:          v.SKU,
			Barcode:      v.Barcode,
			Size:         v.Size,
			Color:        v.Color,
			CostPrice:    v.CostPrice,
			MRP:          v.MRP,
			SellingPrice: v.SellingPrice,
		})
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context) ([]dto.ProductResponse, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, *productToResponse(&products[i]))
	}
	return out, nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	variants := make([]dto.VariantResponse, 0, len(p.Variants))
	for _, v := range p.Variants {
		variants = append(variants, dto.VariantResponse{
			ID:           v.ID.String(),
			SKU:          v.SKU,
			Barcode:      v.Barcode,
			Size:         v.Size,
			Color:        v.Color,
			SellingPrice: v.SellingPrice,
		})
	}
	return &dto.ProductResponse{
		ID:       p.ID.String(),
		Name:     p.Name,
		Brand:    p.Brand,
		Category: p.Category,
		TaxRate:  p.TaxRate,
		Variants: variants,
	}
}
