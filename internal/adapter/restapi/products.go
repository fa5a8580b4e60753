package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.CatalogAPI = (*Client)(nil)

// ListProducts fetches a 1-based page. The remote API numbers pages from 0.
func (c *Client) ListProducts(
	ctx context.Context, page, size int,
) (domain.ProductPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page-1))
	q.Set("size", strconv.Itoa(size))

	env, err := call[productPageDTO](ctx, c, http.MethodGet, "products", q, nil)
	if err != nil {
		return domain.ProductPage{}, err
	}

	return domain.ProductPage{
		Content:    productsToDomain(env.Data.Content),
		TotalPages: env.Data.TotalPages,
		Number:     env.Data.Number + 1,
	}, nil
}

// SearchProducts accepts both a plain list and a page as the response data.
func (c *Client) SearchProducts(
	ctx context.Context, query domain.ProductQuery,
) ([]domain.Product, error) {
	const op = "Client.SearchProducts"

	q := url.Values{}
	if query.Name != "" {
		q.Set("name", query.Name)
	}
	if query.Category != "" {
		q.Set("category", query.Category)
	}

	env, err := call[json.RawMessage](ctx, c, http.MethodGet, "products/search", q, nil)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return []domain.Product{}, nil
	}

	var list []productDTO
	if err := json.Unmarshal(env.Data, &list); err == nil {
		return productsToDomain(list), nil
	}

	var page productPageDTO
	if err := json.Unmarshal(env.Data, &page); err != nil {
		return nil, fmt.Errorf("%s: %w: invalid JSON: %w", op, domain.ErrUpstream, err)
	}
	return productsToDomain(page.Content), nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (domain.Product, error) {
	env, err := call[productDTO](ctx, c, http.MethodGet, productPath(id), nil, nil)
	if err != nil {
		return domain.Product{}, err
	}
	return env.Data.toDomain(), nil
}

func (c *Client) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	in := productFromDomain(p)
	in.ID = 0
	env, err := call[productDTO](ctx, c, http.MethodPost, "products", nil, in)
	if err != nil {
		return domain.Product{}, err
	}
	return env.Data.toDomain(), nil
}

func (c *Client) UpdateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	in := productFromDomain(p)
	env, err := call[productDTO](ctx, c, http.MethodPut, productPath(p.ID), nil, in)
	if err != nil {
		return domain.Product{}, err
	}
	return env.Data.toDomain(), nil
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, productPath(id), nil, nil)
	return err
}

func productPath(id int) string {
	return "products/" + strconv.Itoa(id)
}
