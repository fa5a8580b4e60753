package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.ProductCatalog = Catalog{}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type productForm struct {
	Name     string  `validate:"required"`
	Category string  `validate:"required"`
	Price    float64 `validate:"gte=0"`
	Stock    int     `validate:"gte=0"`
	Image    string  `validate:"omitempty,uri"`
}

// A Catalog fronts the remote product collaborator.
type Catalog struct {
	api port.CatalogAPI
}

func NewCatalog(api port.CatalogAPI) Catalog {
	return Catalog{api}
}

// ListProducts returns the 1-based page of the catalog. A zero size selects
// [DefaultPageSize].
func (c Catalog) ListProducts(
	ctx context.Context, page, size int,
) (domain.ProductPage, error) {
	const op = "Catalog.ListProducts"

	if size == 0 {
		size = DefaultPageSize
	}
	if page < 1 || size < 1 || size > MaxPageSize {
		return domain.ProductPage{}, opErr(domain.ErrInvalidPage, op)
	}

	v, err := c.api.ListProducts(ctx, page, size)
	if err != nil {
		return domain.ProductPage{}, opErr(err, op)
	}
	return v, nil
}

func (c Catalog) SearchProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "Catalog.SearchProducts"

	vs, err := c.api.SearchProducts(ctx, q)
	if err != nil {
		return nil, opErr(err, op)
	}
	return vs, nil
}

func (c Catalog) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	const op = "Catalog.GetProduct"

	if id <= 0 {
		return domain.Product{}, opErr(domain.ErrInvalidProduct, op)
	}

	v, err := c.api.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, opErr(err, op)
	}
	return v, nil
}

func (c Catalog) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Catalog.CreateProduct"

	if err := validateProductForm(p); err != nil {
		return domain.Product{}, opErr(err, op)
	}

	v, err := c.api.CreateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, opErr(err, op)
	}
	return v, nil
}

func (c Catalog) UpdateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	const op = "Catalog.UpdateProduct"

	if p.ID <= 0 {
		return domain.Product{}, opErr(domain.ErrInvalidProduct, op)
	}
	if err := validateProductForm(p); err != nil {
		return domain.Product{}, opErr(err, op)
	}

	v, err := c.api.UpdateProduct(ctx, p)
	if err != nil {
		return domain.Product{}, opErr(err, op)
	}
	return v, nil
}

func (c Catalog) DeleteProduct(ctx context.Context, id int) error {
	const op = "Catalog.DeleteProduct"

	if id <= 0 {
		return opErr(domain.ErrInvalidProduct, op)
	}

	if err := c.api.DeleteProduct(ctx, id); err != nil {
		return opErr(err, op)
	}
	return nil
}

func validateProductForm(p domain.Product) error {
	f := productForm{
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Stock:    p.Stock,
		Image:    p.Image,
	}
	if err := validate.Struct(f); err != nil {
		return invalid(domain.ErrInvalidProduct, err)
	}
	return nil
}
