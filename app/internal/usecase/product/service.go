package product

import (
	"context"
	"strings"

	dom "example.com/storefront/app/internal/domain/product"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *dom.Product) (*dom.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" || p.Price <= 0 || p.Stock < 0 {
		return nil, dom.ErrInvalidProduct
	}
	return s.repo.Create(ctx, p)
}

// UpdateInput carries the fields an admin sent. Nil fields keep their
// stored value.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int64
	CategoryID  *int64
	IsActive    *bool
}

// Update merges the sent fields of in into the stored product.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*dom.Product, error) {
	existed, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dom.ErrInvalidProduct
		}
		existed.Name = name
	}
	if in.Description != nil {
		existed.Description = *in.Description
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, dom.ErrInvalidProduct
		}
		existed.Price = *in.Price
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, dom.ErrInvalidProduct
		}
		existed.Stock = *in.Stock
	}
	if in.CategoryID != nil {
		existed.CategoryID = *in.CategoryID
	}
	if in.IsActive != nil {
		existed.IsActive = *in.IsActive
	}

	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Product, error) {
	return s.repo.List(ctx, filter)
}
