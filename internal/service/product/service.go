package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/repository"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
)

type Service struct {
	products repository.ProductRepository
	carts    repository.CartRepository
}

func NewService(products repository.ProductRepository, carts repository.CartRepository) *Service {
	return &Service{products: products, carts: carts}
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filters *model.ProductFilters) ([]*model.Product, error) {
	if filters.Category != "" {
		switch filters.Category {
		case model.ProductCategorySupplements, model.ProductCategoryOils, model.ProductCategoryEquipment:
		default:
			return nil, apperrors.BadRequest(fmt.Sprintf("unknown category %q", filters.Category), nil)
		}
	}
	return s.products.List(ctx, filters)
}

// SetCartItem upserts a line; quantity zero removes it. The full cart is
// returned so the client can render totals without a second round trip.
func (s *Service) SetCartItem(ctx context.Context, cartID uuid.UUID, req *model.UpdateCartItemRequest) (*model.Cart, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid product id", err)
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		return nil, err
	}

	if err := s.carts.SetItem(ctx, cartID, productID, req.Quantity); err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	return s.GetCart(ctx, cartID)
}

func (s *Service) GetCart(ctx context.Context, cartID uuid.UUID) (*model.Cart, error) {
	lines, err := s.carts.Lines(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := &model.Cart{ID: cartID, Lines: make([]model.CartLine, 0, len(lines))}
	for _, line := range lines {
		cart.Lines = append(cart.Lines, *line)
		cart.Total += line.Subtotal
	}
	return cart, nil
}
