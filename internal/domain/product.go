package domain

import "time"

// Product represents a product listed by a seller.
// Prices are integers in the smallest currency unit.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	SellerID    int64     `json:"seller_id" db:"seller_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	PriceOrigin int64     `json:"price_origin" db:"price_origin"`
	PriceSell   int64     `json:"price_sell" db:"price_sell"`
	ProductID   string    `json:"product_id" db:"product_id"` // external billing product
	PriceID     string    `json:"price_id" db:"price_id"`     // external billing price
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
