package domain

import "time"

// Category groups products in the catalog.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryUpdate is a partial update of a category row.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

func (u CategoryUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil
}
