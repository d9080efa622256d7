package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
)

var slots = []string{"09:00 AM", "10:00 AM", "02:00 PM"}

func bindBooking(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterCustom(slots))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req model.CreateBookingRequest
	return c.ShouldBindJSON(&req)
}

func bookingJSON(date, slot string) string {
	return `{
		"doctor_id": "a2f6e4d8-1111-4222-8333-444455556666",
		"patient_name": "Asha Verma",
		"patient_email": "asha@example.com",
		"date": "` + date + `",
		"slot": "` + slot + `"
	}`
}

func TestBookingValidation(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	past := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	assert.NoError(t, bindBooking(t, bookingJSON(future, "10:00 AM")))
	assert.NoError(t, bindBooking(t, bookingJSON(today, "09:00 AM")), "same-day booking is allowed")

	assert.Error(t, bindBooking(t, bookingJSON(past, "10:00 AM")), "past dates are rejected")
	assert.Error(t, bindBooking(t, bookingJSON(future, "10:15 AM")), "off-grid slots are rejected")
	assert.Error(t, bindBooking(t, bookingJSON(future, "")), "slot is required")
	assert.Error(t, bindBooking(t, bookingJSON("15-09-2026", "10:00 AM")), "date must be ISO formatted")
}
