package restapi

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

// envelope is the response wrapper of the remote API.
//
// A missing success field counts as success.
type envelope[T any] struct {
	Success *bool    `json:"success"`
	Message string   `json:"message"`
	Data    T        `json:"data"`
	User    *userDTO `json:"user"`
}

func (e envelope[T]) ok() bool {
	return e.Success == nil || *e.Success
}

// flexID is a user id sent either as a JSON string or a number.
// Any other value decodes to the empty id.
type flexID string

func (id *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		*id = flexID(n)
		return nil
	}
	*id = ""
	return nil
}

type (
	loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	registerRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	loginData struct {
		Token    string      `json:"token"`
		ID       flexID `json:"id"`
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Role     string      `json:"role"`
	}

	registerData struct {
		Token string   `json:"token"`
		User  *userDTO `json:"user"`
	}

	userDTO struct {
		ID       flexID `json:"id"`
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Role     string      `json:"role"`
	}
)

func (u *userDTO) toDomain() *domain.User {
	if u == nil {
		return nil
	}
	return &domain.User{
		ID:       string(u.ID),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

type (
	productDTO struct {
		ID          int     `json:"id,omitempty"`
		Name        string  `json:"name"`
		Category    string  `json:"category"`
		Description string  `json:"description,omitempty"`
		Price       float64 `json:"price"`
		Stock       int     `json:"stock"`
		Image       string  `json:"image,omitempty"`
		IsActive    bool    `json:"isActive"`
		CreatedAt   string  `json:"createdAt,omitempty"`
	}

	productPageDTO struct {
		Content    []productDTO `json:"content"`
		TotalPages int          `json:"totalPages"`
		Number     int          `json:"number"`
	}
)

func (p productDTO) toDomain() domain.Product {
	v := domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		IsActive:    p.IsActive,
	}
	if t, err := time.Parse(time.RFC3339, p.CreatedAt); err == nil {
		v.CreatedAt = t
	}
	return v
}

func productFromDomain(p domain.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		IsActive:    p.IsActive,
	}
}

func productsToDomain(ps []productDTO) []domain.Product {
	vs := make([]domain.Product, len(ps))
	for i, p := range ps {
		vs[i] = p.toDomain()
	}
	return vs
}
