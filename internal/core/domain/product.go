package domain

import "time"

// Product is a sellable catalog item. CategoryName is filled from a join on reads.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	Price        float64   `json:"price" db:"price"`
	CategoryID   *int64    `json:"category_id" db:"category_id"`
	CategoryName *string   `json:"category_name" db:"category_name"`
	ImageURL     *string   `json:"image_url" db:"image_url"`
	Stock        int       `json:"stock" db:"stock"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProductUpdate is a partial update of a product row.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	CategoryID  *int64
	ImageURL    *string
	Stock       *int
}

func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.CategoryID == nil && u.ImageURL == nil && u.Stock == nil
}

// ProductFilter narrows a product listing. Zero values mean no filter.
type ProductFilter struct {
	CategoryID int64
	Search     string
}
