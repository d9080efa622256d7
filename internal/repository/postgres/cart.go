package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
)

func (r *cartRepository) SetItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		query := `DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`
		if _, err := r.db.ExecContext(ctx, query, cartID, productID); err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = $3, updated_at = $4
	`
	if _, err := r.db.ExecContext(ctx, query, cartID, productID, quantity, time.Now()); err != nil {
		return fmt.Errorf("failed to set cart item: %w", err)
	}
	return nil
}

type cartLineRow struct {
	ProductID     uuid.UUID      `db:"product_id"`
	Name          string         `db:"name"`
	Category      string         `db:"category"`
	Price         int            `db:"price"`
	OriginalPrice int            `db:"original_price"`
	Rating        float64        `db:"rating"`
	Reviews       int            `db:"reviews"`
	Description   string         `db:"description"`
	Benefits      pq.StringArray `db:"benefits"`
	Quantity      int            `db:"quantity"`
}

func (r *cartRepository) Lines(ctx context.Context, cartID uuid.UUID) ([]*model.CartLine, error) {
	query := `
		SELECT p.id AS product_id, p.name, p.category, p.price,
			   p.original_price, p.rating, p.reviews, p.description,
			   p.benefits, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.cart_id = $1
		ORDER BY p.name ASC
	`
	var rows []cartLineRow
	if err := r.db.SelectContext(ctx, &rows, query, cartID); err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}

	lines := make([]*model.CartLine, 0, len(rows))
	for _, row := range rows {
		product := model.Product{
			Name:          row.Name,
			Category:      model.ProductCategory(row.Category),
			Price:         row.Price,
			OriginalPrice: row.OriginalPrice,
			Rating:        row.Rating,
			Reviews:       row.Reviews,
			Description:   row.Description,
			Benefits:      row.Benefits,
		}
		product.ID = row.ProductID
		lines = append(lines, &model.CartLine{
			Product:  product,
			Quantity: row.Quantity,
			Subtotal: row.Price * row.Quantity,
		})
	}
	return lines, nil
}
