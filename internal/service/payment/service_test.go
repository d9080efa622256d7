package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rahul-kr-rai/ayushgyan-health-hub/internal/config"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/logger"
	"github.com/rahul-kr-rai/ayushgyan-health-hub/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("payment_test")

func newTestService() *Service {
	return NewService(config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "test-secret",
	}, testMetrics, logger.NewLogger(nil))
}

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	svc := newTestService()

	orderID := "order_abc123"
	paymentID := "pay_xyz789"
	valid := sign("test-secret", orderID, paymentID)

	assert.True(t, svc.VerifySignature(orderID, paymentID, valid))
	assert.False(t, svc.VerifySignature(orderID, paymentID, "forged"))
	assert.False(t, svc.VerifySignature(orderID, "pay_other", valid),
		"signature is bound to the payment id")
	assert.False(t, svc.VerifySignature("order_other", paymentID, valid),
		"signature is bound to the order id")
	assert.False(t, svc.VerifySignature(orderID, paymentID, ""))
}

func TestToPaise(t *testing.T) {
	assert.Equal(t, int64(50000), toPaise(500))
	assert.Equal(t, int64(79900), toPaise(799))
	assert.Equal(t, int64(0), toPaise(0))
}

func TestVerifySignatureWrongSecret(t *testing.T) {
	svc := newTestService()
	foreign := sign("other-secret", "order_abc", "pay_abc")
	assert.False(t, svc.VerifySignature("order_abc", "pay_abc", foreign))
}
