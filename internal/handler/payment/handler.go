package payment

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/booking"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/payment"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

type Handler struct {
	provider   payment.Provider
	bookingSvc *booking.Service
}

func NewHandler(provider payment.Provider, bookingSvc *booking.Service) *Handler {
	return &Handler{provider: provider, bookingSvc: bookingSvc}
}

// CreateOrder registers a standalone processor order. The booking flow
// creates its own order; this endpoint serves the store checkout.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	order, err := h.provider.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, order)
}

// VerifyPayment confirms a reservation from the checkout callback.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req model.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.bookingSvc.VerifyPayment(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, result)
}
