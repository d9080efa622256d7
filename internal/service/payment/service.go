package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/model"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/circuitbreaker"
	apperrors "github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/errors"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
)

const defaultCurrency = "INR"

// toPaise converts a whole-rupee amount to the minor units the processor
// expects.
func toPaise(rupees int) int64 {
	return int64(rupees) * 100
}

// Provider abstracts the payment processor so booking orchestration can be
// tested without network calls.
type Provider interface {
	CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type Service struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
	breaker   *circuitbreaker.CircuitBreaker
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewService(cfg config.RazorpayConfig, m *metrics.Metrics, log *logger.Logger) *Service {
	return &Service{
		client:    razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
			Name:        "razorpay",
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		}),
		metrics: m,
		logger:  log,
	}
}

// CreateOrder registers an order with the processor. Amounts arrive in whole
// rupees and go over the wire in paise.
func (s *Service) CreateOrder(ctx context.Context, req *model.CreateOrderRequest) (*model.PaymentOrder, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	body := map[string]interface{}{
		"amount":   toPaise(req.Amount),
		"currency": currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		notes := make(map[string]interface{}, len(req.Notes))
		for k, v := range req.Notes {
			notes[k] = v
		}
		body["notes"] = notes
	}

	var order map[string]interface{}
	start := time.Now()
	err := s.breaker.Execute(func() error {
		var cerr error
		order, cerr = s.client.Order.Create(body, nil)
		return cerr
	})
	s.metrics.PaymentLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.PaymentOrders.WithLabelValues("error").Inc()
		s.logger.Error(err, "failed to create payment order", "receipt", req.Receipt)
		return nil, apperrors.Unavailable("payment processor unavailable", err)
	}
	s.metrics.PaymentOrders.WithLabelValues("success").Inc()

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return nil, apperrors.Internal(fmt.Errorf("processor returned order without id"))
	}

	return &model.PaymentOrder{
		OrderID:  orderID,
		Amount:   toPaise(req.Amount),
		Currency: currency,
		KeyID:    s.keyID,
	}, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "<order_id>|<payment_id>" keyed with the secret, hex encoded.
func (s *Service) VerifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	ok := hmac.Equal([]byte(expected), []byte(signature))
	if ok {
		s.metrics.PaymentVerifications.WithLabelValues("valid").Inc()
	} else {
		s.metrics.PaymentVerifications.WithLabelValues("invalid").Inc()
	}
	return ok
}
