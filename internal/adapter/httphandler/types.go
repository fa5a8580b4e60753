package httphandler

import (
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
)

type (
	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	RegisterRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	User struct {
		ID       string `json:"id,omitempty"`
		Username string `json:"username,omitempty"`
		Email    string `json:"email,omitempty"`
		Role     string `json:"role,omitempty"`
	}

	Session struct {
		Authenticated bool  `json:"authenticated"`
		User          *User `json:"user,omitempty"`
	}

	Redirect struct {
		RedirectTo string `json:"redirect_to"`
	}
)

type (
	CartItem struct {
		ID       int     `json:"id"`
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Image    string  `json:"image,omitempty"`
		Quantity int     `json:"quantity"`
		Liked    bool    `json:"liked"`
		Rating   int     `json:"rating"`
	}

	Cart struct {
		Items []CartItem `json:"items"`
		Total float64    `json:"total"`
	}

	QuantityRequest struct {
		Delta *int `json:"delta"`
	}

	RatingRequest struct {
		Value *int `json:"value"`
	}

	Checkout struct {
		OrderID   string     `json:"order_id"`
		Email     string     `json:"email,omitempty"`
		Items     []CartItem `json:"items"`
		Total     float64    `json:"total"`
		CreatedAt time.Time  `json:"created_at"`
	}
)

type (
	Product struct {
		ID          int        `json:"id"`
		Name        string     `json:"name"`
		Category    string     `json:"category"`
		Description string     `json:"description,omitempty"`
		Price       float64    `json:"price"`
		Stock       int        `json:"stock"`
		Image       string     `json:"image,omitempty"`
		IsActive    bool       `json:"is_active"`
		CreatedAt   *time.Time `json:"created_at,omitempty"`
	}

	ProductPage struct {
		Content    []Product `json:"content"`
		TotalPages int       `json:"total_pages"`
		Number     int       `json:"number"`
	}
)

func sessionFromDomain(s domain.Session) Session {
	v := Session{Authenticated: s.Authenticated}
	if u := s.User; u != nil {
		v.User = &User{
			ID:       u.ID,
			Username: u.Username,
			Email:    u.Email,
			Role:     u.Role,
		}
	}
	return v
}

func cartItemsFromDomain(items []domain.CartItem) []CartItem {
	vs := make([]CartItem, len(items))
	for i, v := range items {
		vs[i] = CartItem{
			ID:       v.ID,
			Name:     v.Name,
			Price:    v.Price,
			Image:    v.Image,
			Quantity: v.Quantity,
			Liked:    v.Liked,
			Rating:   v.Rating,
		}
	}
	return vs
}

func checkoutFromDomain(c domain.Checkout) Checkout {
	return Checkout{
		OrderID:   c.OrderID.String(),
		Email:     c.Email,
		Items:     cartItemsFromDomain(c.Items),
		Total:     c.Total,
		CreatedAt: c.CreatedAt,
	}
}

func (p Product) toDomain() domain.Product {
	return domain.Product{
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

func productFromDomain(p domain.Product) Product {
	v := Product{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Image:       p.Image,
		IsActive:    p.IsActive,
	}
	if !p.CreatedAt.IsZero() {
		t := p.CreatedAt
		v.CreatedAt = &t
	}
	return v
}

func productsFromDomain(ps []domain.Product) []Product {
	vs := make([]Product, len(ps))
	for i, p := range ps {
		vs[i] = productFromDomain(p)
	}
	return vs
}
