package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

func (r *productRepository) Get(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, name, category, price, original_price, rating, reviews,
			   description, benefits, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	var product model.Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("product", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filters *model.ProductFilters) ([]*model.Product, error) {
	query := `
		SELECT id, name, category, price, original_price, rating, reviews,
			   description, benefits, created_at, updated_at
		FROM products
		WHERE 1 = 1
	`
	args := []interface{}{}
	argCount := 1

	if filters.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argCount)
		args = append(args, filters.Category)
		argCount++
	}

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	query += " ORDER BY name ASC"

	var products []*model.Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
