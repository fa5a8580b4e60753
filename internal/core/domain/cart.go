package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinQuantity = 1
	MinRating   = 0
	MaxRating   = 5
)

type CartItem struct {
	ID       int
	Name     string
	Price    float64
	Image    string
	Quantity int
	Liked    bool
	Rating   int
}

// NewCartItem returns a line entry for p with default attributes.
func NewCartItem(p Product) CartItem {
	return CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: MinQuantity,
	}
}

func ClampQuantity(q int) int {
	return max(MinQuantity, q)
}

// AddQuantity returns q+delta saturated to the int range and clamped to
// [MinQuantity].
func AddQuantity(q, delta int) int {
	switch {
	case delta > 0 && q > math.MaxInt-delta:
		return math.MaxInt
	case delta < 0 && q < math.MinInt-delta:
		return MinQuantity
	}
	return ClampQuantity(q + delta)
}

// CartTotal sums price times quantity over items.
func CartTotal(items []CartItem) float64 {
	sum := decimal.Zero
	for _, v := range items {
		line := decimal.NewFromFloat(v.Price).Mul(decimal.NewFromInt(int64(v.Quantity)))
		sum = sum.Add(line)
	}
	return sum.InexactFloat64()
}

func ClampRating(r int) int {
	return min(MaxRating, max(MinRating, r))
}

type Checkout struct {
	OrderID   uuid.UUID
	Email     string
	Items     []CartItem
	Total     float64
	CreatedAt time.Time
}

type Feedback struct {
	ProductID int
	Liked     bool
	Rating    int
}
