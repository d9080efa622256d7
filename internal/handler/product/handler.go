package product

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/product"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

type Handler struct {
	service *product.Service
}

func NewHandler(service *product.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListProducts(c *gin.Context) {
	filters := &model.ProductFilters{
		Category:   model.ProductCategory(c.Query("category")),
		SearchTerm: c.Query("search"),
	}

	products, err := h.service.ListProducts(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid product ID", err))
		return
	}

	p, err := h.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

// CreateCart mints a cart id. Carts are rows in cart_items only; an empty
// cart needs no storage.
func (h *Handler) CreateCart(c *gin.Context) {
	httputil.RespondWithCreated(c, gin.H{"cart_id": uuid.New()})
}

func (h *Handler) GetCart(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid cart ID", err))
		return
	}

	cart, err := h.service.GetCart(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cart)
}

func (h *Handler) SetCartItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid cart ID", err))
		return
	}

	var req model.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	cart, err := h.service.SetCartItem(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, cart)
}
