package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

type closer interface {
	Close()
}

// Durable client storage keys.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyCart         = "cart"
	KeyRole         = "role"
	KeyEmail        = "email"
	KeyUser         = "user"
)

// A KVStorage is the durable client storage.
//
// Set replaces the whole value stored under key.
type KVStorage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type CartStore interface {
	Items() []domain.CartItem
	AddItem(context.Context, domain.Product) ([]domain.CartItem, error)
	RemoveItem(ctx context.Context, id int) ([]domain.CartItem, error)
	ChangeQuantity(ctx context.Context, id, delta int) ([]domain.CartItem, error)
	ToggleLike(ctx context.Context, id int) ([]domain.CartItem, error)
	SetRating(ctx context.Context, id, value int) ([]domain.CartItem, error)
	ComputeTotal() float64
	Checkout(context.Context) (domain.Checkout, error)
}

type SessionManager interface {
	Current() domain.Session
	IsAuthenticated() bool
	Login(context.Context, domain.LoginForm) (domain.Session, error)
	Register(context.Context, domain.RegisterForm) (domain.Session, error)
	Logout(context.Context) (redirectTo string, err error)
}

type ProductCatalog interface {
	ListProducts(ctx context.Context, page, size int) (domain.ProductPage, error)
	SearchProducts(context.Context, domain.ProductQuery) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (domain.Product, error)
	CreateProduct(context.Context, domain.Product) (domain.Product, error)
	UpdateProduct(context.Context, domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
}

// AuthAPI is the remote authentication collaborator.
type AuthAPI interface {
	Login(context.Context, domain.LoginForm) (domain.Credentials, error)
	Register(context.Context, domain.RegisterForm) (domain.Credentials, error)
}

// CatalogAPI is the remote product collaborator.
type CatalogAPI interface {
	ProductCatalog
}

type CheckoutNotifier interface {
	NotifyCheckout(context.Context, domain.Checkout) error
}

type FeedbackEmitter interface {
	EmitFeedback(context.Context, domain.Feedback) error
}

type CheckoutProducer interface {
	CheckoutNotifier
	closer
}

type FeedbackStream interface {
	FeedbackEmitter
	closer
}

type RouteGuard interface {
	Decide() domain.Decision
}

type AuthChecker interface {
	IsAuthenticated() bool
}
