package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domproduct "example.com/storefront/app/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	nextID   int64
	products map[int64]*domproduct.Product
}

func NewProductRepository(seed ...*domproduct.Product) *ProductRepository {
	r := &ProductRepository{
		nextID:   1,
		products: make(map[int64]*domproduct.Product),
	}
	for _, p := range seed {
		cloned := *p
		r.products[p.ID] = &cloned
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p.ID = r.nextID
	r.nextID++
	cloned := *p
	r.products[p.ID] = &cloned
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	r.products[p.ID] = &cloned
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return domproduct.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domproduct.ErrProductNotFound
	}
	cloned := *p
	return &cloned, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(filter.Search)
	result := make([]*domproduct.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.OnlyActive && !p.IsActive {
			continue
		}
		if filter.CategoryID != nil && p.CategoryID != *filter.CategoryID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		cloned := *p
		result = append(result, &cloned)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domproduct.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			cloned := *p
			result = append(result, &cloned)
		}
	}
	return result, nil
}

var _ domproduct.Repository = (*ProductRepository)(nil)
