package domain

import "time"

type (
	Product struct {
		ID          int
		Name        string
		Category    string
		Description string
		Price       float64
		Stock       int
		Image       string
		IsActive    bool
		CreatedAt   time.Time
	}

	// A ProductPage is one page of the remote catalog.
	//
	// Number is 1-based.
	ProductPage struct {
		Content    []Product
		TotalPages int
		Number     int
	}

	ProductQuery struct {
		Name     string
		Category string
	}
)
