package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/service/event"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("booking_test")

type fakeAppointmentRepo struct {
	byID        map[uuid.UUID]*model.Appointment
	reserved    bool
	createCalls int
	deleteCalls int
	failCreate  bool
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	f.createCalls++
	if f.failCreate {
		return errors.New("create failed")
	}
	cp := *apt
	f.byID[apt.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.byID[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	cp := *apt
	return &cp, nil
}

func (f *fakeAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	if _, ok := f.byID[apt.ID]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	cp := *apt
	f.byID[apt.ID] = &cp
	return nil
}

func (f *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	f.deleteCalls++
	if _, ok := f.byID[id]; !ok {
		return apperrors.NotFound("appointment", nil)
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithDoctor, error) {
	return nil, nil
}

func (f *fakeAppointmentRepo) HasPendingReservation(ctx context.Context, doctorID uuid.UUID, date time.Time, slot string) (bool, error) {
	return f.reserved, nil
}

func (f *fakeAppointmentRepo) DeleteStaleReservations(ctx context.Context, olderThan time.Time) (int64, error) {
	return 0, nil
}

type fakeDoctorRepo struct {
	doctor *model.Doctor
}

func (f *fakeDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if f.doctor == nil || f.doctor.ID != id {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return f.doctor, nil
}

func (f *fakeDoctorRepo) ListAvailable(ctx context.Context) ([]*model.Doctor, error) {
	return []*model.Doctor{f.doctor}, nil
}

func (f *fakeDoctorRepo) UpdateAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return nil
}

type fakeProvider struct {
	orders      []*model.CreateOrderRequest
	failOrder   bool
	validSig    string
	verifyCalls int
}

func (f *fakeProvider) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.PaymentOrder, error) {
	f.orders = append(f.orders, req)
	if f.failOrder {
		return nil, apperrors.Unavailable("payment processor unavailable", nil)
	}
	return &model.PaymentOrder{
		OrderID:  "order_test_123",
		Amount:   int64(req.Amount) * 100,
		Currency: "INR",
		KeyID:    "rzp_test_key",
	}, nil
}

func (f *fakeProvider) VerifySignature(orderID, paymentID, signature string) bool {
	f.verifyCalls++
	return signature == f.validSig
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(ctx context.Context, e *model.OutboxEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, errMsg *string) error {
	return nil
}

type fakeNotifier struct {
	confirmations int
}

func (f *fakeNotifier) BookingConfirmed(ctx context.Context, apt *model.Appointment, doctorName string) {
	f.confirmations++
}

type harness struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	doctors  *fakeDoctorRepo
	provider *fakeProvider
	outbox   *fakeOutboxRepo
	notifier *fakeNotifier
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := logger.NewLogger(nil)
	repo := newFakeAppointmentRepo()
	doctors := &fakeDoctorRepo{doctor: &model.Doctor{
		Base:            model.Base{ID: uuid.New()},
		Name:            "Dr. Meera Sharma",
		Specialty:       "Panchakarma",
		ConsultationFee: 799,
		IsAvailable:     true,
	}}
	provider := &fakeProvider{validSig: "good-signature"}
	outbox := &fakeOutboxRepo{}
	notifier := &fakeNotifier{}

	svc := NewService(repo, doctors, provider,
		event.NewService(outbox, log), notifier, testMetrics, log)
	return &harness{svc: svc, repo: repo, doctors: doctors, provider: provider, outbox: outbox, notifier: notifier}
}

func validRequest(h *harness) *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		DoctorID:     h.doctors.doctor.ID.String(),
		PatientName:  "Asha Verma",
		PatientEmail: "asha@example.com",
		Date:         time.Now().AddDate(0, 0, 3).Format("2006-01-02"),
		Slot:         "10:00 AM",
		Reason:       "digestive issues",
	}
}

func TestCreateBookingReservesAndCreatesOrder(t *testing.T) {
	h := newHarness(t)

	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusPendingPayment, result.Appointment.Status)
	require.NotNil(t, result.Appointment.PaymentOrderID)
	assert.Equal(t, "order_test_123", *result.Appointment.PaymentOrderID)

	// fee of 799 rupees goes over the wire as 79900 paise
	assert.Equal(t, int64(79900), result.Order.Amount)
	assert.Equal(t, "INR", result.Order.Currency)
	assert.Equal(t, "rzp_test_key", result.Order.KeyID)

	require.Len(t, h.provider.orders, 1)
	assert.Equal(t, 799, h.provider.orders[0].Amount)
	assert.Equal(t, "appt_"+result.Appointment.ID.String(), h.provider.orders[0].Receipt)
	assert.Equal(t, "10:00 AM", h.provider.orders[0].Notes["slot"])

	require.Len(t, h.outbox.events, 1)
	assert.Equal(t, model.EventAppointmentCreated, h.outbox.events[0].EventType)
}

func TestCreateBookingCompensatesWhenOrderFails(t *testing.T) {
	h := newHarness(t)
	h.provider.failOrder = true

	_, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.Error(t, err)

	assert.Equal(t, 1, h.repo.createCalls)
	assert.Equal(t, 1, h.repo.deleteCalls)
	assert.Empty(t, h.repo.byID, "reservation must not survive a failed order")
	assert.Empty(t, h.outbox.events)
}

func TestCreateBookingRejectsHeldSlot(t *testing.T) {
	h := newHarness(t)
	h.repo.reserved = true

	_, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Zero(t, h.repo.createCalls)
	assert.Empty(t, h.provider.orders, "no order may be created for a held slot")
}

func TestCreateBookingRejectsUnavailableDoctor(t *testing.T) {
	h := newHarness(t)
	h.doctors.doctor.IsAvailable = false

	_, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.Error(t, err)
	assert.Empty(t, h.provider.orders)
}

func TestVerifyPaymentConfirms(t *testing.T) {
	h := newHarness(t)
	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	resp, err := h.svc.VerifyPayment(context.Background(), &model.VerifyPaymentRequest{
		RazorpayOrderID:   "order_test_123",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "good-signature",
		AppointmentID:     result.Appointment.ID.String(),
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Equal(t, model.AppointmentStatusConfirmed, resp.Appointment.Status)
	require.NotNil(t, resp.Appointment.PaymentID)
	assert.Equal(t, "pay_123", *resp.Appointment.PaymentID)
	require.NotNil(t, resp.Appointment.ConfirmedBy)
	assert.Equal(t, "payment", *resp.Appointment.ConfirmedBy)
	assert.Equal(t, 1, h.notifier.confirmations)
}

func TestVerifyPaymentIsIdempotent(t *testing.T) {
	h := newHarness(t)
	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	req := &model.VerifyPaymentRequest{
		RazorpayOrderID:   "order_test_123",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "good-signature",
		AppointmentID:     result.Appointment.ID.String(),
	}

	_, err = h.svc.VerifyPayment(context.Background(), req)
	require.NoError(t, err)

	// replay with the same payment id succeeds without re-verifying
	verifyCalls := h.provider.verifyCalls
	resp, err := h.svc.VerifyPayment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, verifyCalls, h.provider.verifyCalls)
}

func TestVerifyPaymentBadSignatureReleasesSlot(t *testing.T) {
	h := newHarness(t)
	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	resp, err := h.svc.VerifyPayment(context.Background(), &model.VerifyPaymentRequest{
		RazorpayOrderID:   "order_test_123",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "forged",
		AppointmentID:     result.Appointment.ID.String(),
	})
	require.NoError(t, err)

	assert.False(t, resp.Success)
	assert.Empty(t, h.repo.byID, "failed verification must release the slot")
	assert.Zero(t, h.notifier.confirmations)
}

func TestVerifyPaymentRejectsForeignOrder(t *testing.T) {
	h := newHarness(t)
	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	_, err = h.svc.VerifyPayment(context.Background(), &model.VerifyPaymentRequest{
		RazorpayOrderID:   "order_someone_elses",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "good-signature",
		AppointmentID:     result.Appointment.ID.String(),
	})
	require.Error(t, err)
	assert.Zero(t, h.provider.verifyCalls)
}

func TestPaymentFailureDeletesOnce(t *testing.T) {
	h := newHarness(t)
	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	require.NoError(t, h.svc.PaymentFailure(context.Background(), result.Appointment.ID))
	deletes := h.repo.deleteCalls
	assert.Equal(t, 1, deletes)

	// second dismissal is a no-op, not an error
	require.NoError(t, h.svc.PaymentFailure(context.Background(), result.Appointment.ID))
	assert.Equal(t, deletes, h.repo.deleteCalls)
}

func TestPaymentFailureIgnoresConfirmed(t *testing.T) {
	h := newHarness(t)
	result, err := h.svc.CreateBooking(context.Background(), validRequest(h))
	require.NoError(t, err)

	_, err = h.svc.VerifyPayment(context.Background(), &model.VerifyPaymentRequest{
		RazorpayOrderID:   "order_test_123",
		RazorpayPaymentID: "pay_123",
		RazorpaySignature: "good-signature",
		AppointmentID:     result.Appointment.ID.String(),
	})
	require.NoError(t, err)

	require.NoError(t, h.svc.PaymentFailure(context.Background(), result.Appointment.ID))
	apt, err := h.repo.Get(context.Background(), result.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, apt.Status)
}
