package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/auth"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, resp)
}
