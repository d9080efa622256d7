package appointment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appointmentservice "github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/appointment"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/validator"
)

// The handler is built with nil services, so any request that reaches past
// binding would panic. A clean 400 proves invalid input never touches the
// booking pipeline.
func newBindingRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validator.RegisterCustom(appointmentservice.Slots))

	h := NewHandler(nil, nil)
	r := gin.New()
	r.POST("/bookings", h.CreateBooking)
	return r
}

func postBooking(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingRejectsInvalidBodies(t *testing.T) {
	r := newBindingRouter(t)
	future := time.Now().AddDate(0, 0, 7).Format("2006-01-02")

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"doctor_id":`},
		{"missing patient email", `{
			"doctor_id": "a2f6e4d8-1111-4222-8333-444455556666",
			"patient_name": "Asha Verma",
			"date": "` + future + `",
			"slot": "10:00 AM"
		}`},
		{"off-grid slot", `{
			"doctor_id": "a2f6e4d8-1111-4222-8333-444455556666",
			"patient_name": "Asha Verma",
			"patient_email": "asha@example.com",
			"date": "` + future + `",
			"slot": "10:15 AM"
		}`},
		{"past date", `{
			"doctor_id": "a2f6e4d8-1111-4222-8333-444455556666",
			"patient_name": "Asha Verma",
			"patient_email": "asha@example.com",
			"date": "2020-01-01",
			"slot": "10:00 AM"
		}`},
		{"non-uuid doctor", `{
			"doctor_id": "dr-gupta",
			"patient_name": "Asha Verma",
			"patient_email": "asha@example.com",
			"date": "` + future + `",
			"slot": "10:00 AM"
		}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postBooking(t, r, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"status":"error"`)
		})
	}
}
