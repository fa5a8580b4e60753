package service

import (
	"encoding/json"

	"github.com/niksmo/storefront/internal/core/domain"
)

// cartItemRecord is the stored shape of a cart entry.
//
// Pointer fields mark the attributes an entry must carry to be loaded.
type cartItemRecord struct {
	ID       *int     `json:"id" validate:"required,gt=0"`
	Name     *string  `json:"name" validate:"required,min=1"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Image    string   `json:"image,omitempty"`
	Quantity int      `json:"quantity"`
	Liked    bool     `json:"liked"`
	Rating   int      `json:"rating"`
}

type productInput struct {
	ID    int     `validate:"gt=0"`
	Name  string  `validate:"required"`
	Price float64 `validate:"gte=0"`
	Image string  `validate:"omitempty,uri"`
}

func validateProduct(p domain.Product) error {
	in := productInput{ID: p.ID, Name: p.Name, Price: p.Price, Image: p.Image}
	if err := validate.Struct(in); err != nil {
		return invalid(domain.ErrInvalidProduct, err)
	}
	return nil
}

func encodeCart(items []domain.CartItem) (string, error) {
	rs := make([]cartItemRecord, len(items))
	for i, v := range items {
		rs[i] = cartItemRecord{
			ID:       &v.ID,
			Name:     &v.Name,
			Price:    &v.Price,
			Image:    v.Image,
			Quantity: v.Quantity,
			Liked:    v.Liked,
			Rating:   v.Rating,
		}
	}
	b, err := json.Marshal(rs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeCart parses a stored cart document.
//
// Entries that fail validation are skipped and reported by the dropped count.
// A document that is not a JSON array is an error.
func decodeCart(data string) (items []domain.CartItem, dropped int, err error) {
	var rs []cartItemRecord
	if err := json.Unmarshal([]byte(data), &rs); err != nil {
		return nil, 0, err
	}

	items = make([]domain.CartItem, 0, len(rs))
	for _, r := range rs {
		if err := validate.Struct(r); err != nil {
			dropped++
			continue
		}
		items = append(items, domain.CartItem{
			ID:       *r.ID,
			Name:     *r.Name,
			Price:    *r.Price,
			Image:    r.Image,
			Quantity: domain.ClampQuantity(r.Quantity),
			Liked:    r.Liked,
			Rating:   domain.ClampRating(r.Rating),
		})
	}
	return items, dropped, nil
}
