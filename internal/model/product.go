package model

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductCategory string

const (
	ProductCategorySupplements ProductCategory = "supplements"
	ProductCategoryOils        ProductCategory = "oils"
	ProductCategoryEquipment   ProductCategory = "equipment"
)

// Product is a catalog item. Price and OriginalPrice are whole rupees;
// OriginalPrice is zero when the product is not discounted.
type Product struct {
	Base
	Name          string          `db:"name" json:"name"`
	Category      ProductCategory `db:"category" json:"category"`
	Price         int             `db:"price" json:"price"`
	OriginalPrice int             `db:"original_price" json:"original_price,omitempty"`
	Rating        float64         `db:"rating" json:"rating"`
	Reviews       int             `db:"reviews" json:"reviews"`
	Description   string          `db:"description" json:"description"`
	Benefits      pq.StringArray  `db:"benefits" json:"benefits"`
}

type ProductFilters struct {
	Category   ProductCategory
	SearchTerm string
}

type CartItem struct {
	CartID    uuid.UUID `db:"cart_id" json:"cart_id"`
	ProductID uuid.UUID `db:"product_id" json:"product_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
}

// CartLine is a cart item joined with its product for display and totals.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal int     `json:"subtotal"`
}

type Cart struct {
	ID    uuid.UUID  `json:"id"`
	Lines []CartLine `json:"lines"`
	Total int        `json:"total"`
}

type UpdateCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"min=0"`
}
