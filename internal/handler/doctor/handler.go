package doctor

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/appointment"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/doctor"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

type Handler struct {
	service        *doctor.Service
	appointmentSvc *appointment.Service
}

func NewHandler(service *doctor.Service, appointmentSvc *appointment.Service) *Handler {
	return &Handler{service: service, appointmentSvc: appointmentSvc}
}

func (h *Handler) ListDoctors(c *gin.Context) {
	doctors, err := h.service.ListAvailable(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doctors)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	doc, err := h.service.GetDoctor(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}

// GetSlots lists open slot labels for a doctor on the ?date=YYYY-MM-DD day.
func (h *Handler) GetSlots(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	date, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("date must be YYYY-MM-DD", err))
		return
	}

	slots, err := h.appointmentSvc.AvailableSlots(c.Request.Context(), id, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"date": c.Query("date"), "slots": slots})
}

func (h *Handler) UpdateAvailability(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
		return
	}

	var req model.UpdateDoctorAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	if req.IsAvailable == nil {
		httputil.RespondWithError(c, apperrors.BadRequest("is_available is required", nil))
		return
	}

	doc, err := h.service.UpdateAvailability(c.Request.Context(), id, *req.IsAvailable)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, doc)
}
