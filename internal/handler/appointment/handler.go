package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/appointment"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/booking"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/httputil"
)

type Handler struct {
	service    *appointment.Service
	bookingSvc *booking.Service
}

func NewHandler(service *appointment.Service, bookingSvc *booking.Service) *Handler {
	return &Handler{service: service, bookingSvc: bookingSvc}
}

// CreateBooking reserves a slot and returns the checkout order alongside the
// pending_payment appointment.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	result, err := h.bookingSvc.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, result)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{
		Email: c.Query("email"),
	}

	if id := c.Query("doctor_id"); id != "" {
		doctorID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		filters.DoctorID = doctorID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
		if !filters.Status.Valid() {
			httputil.RespondWithError(c, apperrors.BadRequest("unknown status", nil))
			return
		}
	}
	if date := c.Query("start_date"); date != "" {
		start, err := time.Parse("2006-01-02", date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("start_date must be YYYY-MM-DD", err))
			return
		}
		filters.StartDate = start
	}
	if date := c.Query("end_date"); date != "" {
		end, err := time.Parse("2006-01-02", date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("end_date must be YYYY-MM-DD", err))
			return
		}
		filters.EndDate = end
	}

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

// PaymentFailure releases a reservation after a dismissed or failed
// checkout. It is idempotent.
func (h *Handler) PaymentFailure(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	if err := h.bookingSvc.PaymentFailure(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"released": true})
}
