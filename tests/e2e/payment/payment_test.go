//go:build e2e

package payment_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"tablebook/internal/domain/user"
	reqdto "tablebook/internal/handler/dto/request"
	"tablebook/internal/handler/dto/response"
	"tablebook/internal/pkg/signature"
	"tablebook/internal/usecase/commands"
	"tablebook/tests/common/authtest"
	"tablebook/tests/common/dbtest"
	"tablebook/tests/common/httptest"
	"tablebook/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	orderURL    = "/api/payments/order"
	verifyURL   = "/api/payments/verify"
	paymentsURL = "/api/payments"
	webhookURL  = "/webhooks/payment"
	bookingsURL = "/api/bookings"
	usersMeURL  = "/api/users/me"

	webhookSignatureHeader = "X-Gateway-Signature"
)

type PaymentSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *PaymentSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *PaymentSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestPaymentSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(PaymentSuite))
}

type seededBooking struct {
	UserID    uuid.UUID
	BranchID  uuid.UUID
	BookingID uuid.UUID
	Token     string
}

// seedPendingBooking inserts a pending 5000-cent dinner booking the given
// number of days ahead and returns the owner's credentials alongside it.
func (s *PaymentSuite) seedPendingBooking(t *testing.T, daysAhead int) seededBooking {
	t.Helper()

	userID := dbtest.CreateTestUser(t, s.DB, "payer@example.com", string(user.RoleUser))
	branchID := dbtest.CreateTestBranch(t, s.DB, "Harbor View")
	tableID := dbtest.CreateTestTable(t, s.DB, branchID, 1, 4, "standard")
	date := time.Now().UTC().AddDate(0, 0, daysAhead)
	bookingID := dbtest.CreateTestBooking(t, s.DB, userID, branchID, tableID, date, 18*60, 20*60, "pending", 5000)

	return seededBooking{
		UserID:    userID,
		BranchID:  branchID,
		BookingID: bookingID,
		Token:     s.jwt.GenerateToken(t, userID, user.RoleUser),
	}
}

func (s *PaymentSuite) createOrder(t *testing.T, bookingID uuid.UUID, token string) response.PaymentResponse {
	t.Helper()

	reqBody := reqdto.CreateOrderRequest{BookingID: bookingID, Method: "card"}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var p response.PaymentResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &p))
	return p
}

// verifyRequest signs the order/payment pair the way the checkout page would.
func (s *PaymentSuite) verifyRequest(orderID, paymentID string) reqdto.VerifyPaymentRequest {
	return reqdto.VerifyPaymentRequest{
		GatewayOrderID:   orderID,
		GatewayPaymentID: paymentID,
		Signature:        signature.Sign(s.Config.Gateway.VerifySecret, []byte(orderID+"|"+paymentID)),
	}
}

// settle walks a seeded booking through order, capture, and verify.
func (s *PaymentSuite) settle(t *testing.T, seeded seededBooking) response.PaymentResponse {
	t.Helper()

	order := s.createOrder(t, seeded.BookingID, seeded.Token)
	payID, err := s.Gateway.Capture(order.GatewayOrderID, time.Now().UTC())
	require.NoError(t, err)

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, s.verifyRequest(order.GatewayOrderID, payID), seeded.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var settled response.PaymentResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &settled))
	require.Equal(t, "completed", settled.Status)
	return settled
}

func webhookBody(t *testing.T, event string, payload map[string]any) []byte {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"event": event, "payment": payload})
	require.NoError(t, err)
	return raw
}

func (s *PaymentSuite) webhookHeaders(rawBody []byte) map[string]string {
	return map[string]string{
		webhookSignatureHeader: signature.Sign(s.Config.Gateway.WebhookSecret, rawBody),
	}
}

func (s *PaymentSuite) getPayment(t *testing.T, id uuid.UUID, token string) response.PaymentResponse {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, paymentsURL+"/"+id.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var p response.PaymentResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &p))
	return p
}

func (s *PaymentSuite) bookingStatus(t *testing.T, id uuid.UUID, token string) string {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"/"+id.String(), nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var b response.BookingResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &b))
	return b.Status
}

func (s *PaymentSuite) loyaltyPoints(t *testing.T, token string) int64 {
	t.Helper()

	w := httptest.PerformRequest(t, s.Router, http.MethodGet, usersMeURL, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var u response.UserResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &u))
	return u.LoyaltyPoints
}

// =============================================================================
// TestCreateOrder - Gateway order creation tests
// =============================================================================

func (s *PaymentSuite) TestCreateOrder() {
	s.Run("Normal case: order opens a pending payment for the booking total", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		actual := s.createOrder(t, seeded.BookingID, seeded.Token)

		require.NotEmpty(t, actual.GatewayOrderID, "Gateway order ID should be assigned")
		expected := &response.PaymentResponse{
			BookingID:   seeded.BookingID,
			UserID:      seeded.UserID,
			AmountCents: 5000,
			Currency:    "INR",
			Method:      "card",
			Status:      "pending",
		}
		opts := []cmp.Option{
			cmpopts.IgnoreFields(response.PaymentResponse{}, "ID", "Reference", "GatewayOrderID", "CreatedAt", "UpdatedAt"),
		}
		if diff := cmp.Diff(expected, &actual, opts...); diff != "" {
			t.Errorf("Payment response mismatch (-want +got):\n%s", diff)
		}
	})

	s.Run("Normal case: explicit amount opens a deposit-sized order", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		deposit := int64(2000)
		reqBody := reqdto.CreateOrderRequest{BookingID: seeded.BookingID, Method: "upi", AmountCents: &deposit}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var created response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Equal(t, int64(2000), created.AmountCents)
		require.Equal(t, "upi", created.Method)
	})

	s.Run("Error case: a second order while one is active", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		s.createOrder(t, seeded.BookingID, seeded.Token)

		reqBody := reqdto.CreateOrderRequest{BookingID: seeded.BookingID, Method: "card"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusConflict, w.Code, "Active payment must block a second order")
	})

	s.Run("Error case: confirmed booking is no longer payable", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "payer@example.com", string(user.RoleUser))
		branchID := dbtest.CreateTestBranch(t, s.DB, "Harbor View")
		tableID := dbtest.CreateTestTable(t, s.DB, branchID, 1, 4, "standard")
		bookingID := dbtest.CreateTestBooking(t, s.DB, userID, branchID, tableID,
			time.Now().UTC().AddDate(0, 0, 2), 18*60, 20*60, "confirmed", 5000)
		token := s.jwt.GenerateToken(t, userID, user.RoleUser)

		reqBody := reqdto.CreateOrderRequest{BookingID: bookingID, Method: "card"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Error case: gateway failure surfaces as 502 and leaves no record", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		s.Gateway.FailNextCreateOrder(&commands.GatewayError{Code: "SERVER_ERROR", Message: "gateway down", Retryable: true})

		reqBody := reqdto.CreateOrderRequest{BookingID: seeded.BookingID, Method: "card"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusBadGateway, w.Code, w.Body.String())

		// Nothing was written locally, so the retry starts clean.
		retry := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusCreated, retry.Code, "Retry after gateway failure should succeed")
	})

	s.Run("Error case: strangers cannot open orders on other bookings", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		strangerID := dbtest.CreateTestUser(t, s.DB, "stranger@example.com", string(user.RoleUser))

		reqBody := reqdto.CreateOrderRequest{BookingID: seeded.BookingID, Method: "card"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody,
			s.jwt.GenerateToken(t, strangerID, user.RoleUser))
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	s.Run("Error case: unsupported payment method", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		reqBody := reqdto.CreateOrderRequest{BookingID: seeded.BookingID, Method: "cash"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("Error case: unknown booking returns 404", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "payer@example.com", string(user.RoleUser))
		reqBody := reqdto.CreateOrderRequest{BookingID: uuid.New(), Method: "card"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody,
			s.jwt.GenerateToken(t, userID, user.RoleUser))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Auth test - Unauthorized when not logged in", func() {
		t := s.T()

		reqBody := reqdto.CreateOrderRequest{BookingID: uuid.New(), Method: "card"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, orderURL, reqBody, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "Should reject unauthorized access")
	})
}

// =============================================================================
// TestVerifyPayment - Checkout callback settlement tests
// =============================================================================

func (s *PaymentSuite) TestVerifyPayment() {
	s.Run("Normal case: signed verify settles payment, confirms booking, credits loyalty", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)
		payID, err := s.Gateway.Capture(order.GatewayOrderID, time.Now().UTC())
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL,
			s.verifyRequest(order.GatewayOrderID, payID), seeded.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var settled response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &settled))
		require.Equal(t, "completed", settled.Status)
		require.NotNil(t, settled.GatewayPaymentID)
		require.Equal(t, payID, *settled.GatewayPaymentID)
		require.NotNil(t, settled.CapturedAt, "Capture timestamp should be recorded")

		require.Equal(t, "confirmed", s.bookingStatus(t, seeded.BookingID, seeded.Token),
			"Settled payment should confirm the booking")
		require.Equal(t, int64(50), s.loyaltyPoints(t, seeded.Token), "One point per 100 cents paid")

		keys := s.Bus.RoutingKeys()
		require.Contains(t, keys, "payment.captured")
		require.Contains(t, keys, "booking.confirmed."+seeded.BranchID.String())
	})

	s.Run("Normal case: verify replay returns the settled payment unchanged", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)
		payID, err := s.Gateway.Capture(order.GatewayOrderID, time.Now().UTC())
		require.NoError(t, err)

		reqBody := s.verifyRequest(order.GatewayOrderID, payID)
		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusOK, w1.Code, w1.Body.String())

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusOK, w2.Code, "Replays are answered from local state")

		require.Equal(t, int64(50), s.loyaltyPoints(t, seeded.Token), "Loyalty must be credited exactly once")
	})

	s.Run("Error case: tampered signature is rejected and nothing settles", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)
		payID, err := s.Gateway.Capture(order.GatewayOrderID, time.Now().UTC())
		require.NoError(t, err)

		reqBody := s.verifyRequest(order.GatewayOrderID, payID)
		reqBody.Signature = signature.Sign(s.Config.Gateway.VerifySecret, []byte("someone|else"))
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL, reqBody, seeded.Token)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		require.Equal(t, "pending", s.getPayment(t, order.ID, seeded.Token).Status,
			"Rejected verify must not settle the payment")
	})

	s.Run("Error case: gateway amount mismatch fails the integrity check", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)
		payID, err := s.Gateway.CaptureWithAmount(order.GatewayOrderID, 4000, time.Now().UTC())
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL,
			s.verifyRequest(order.GatewayOrderID, payID), seeded.Token)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Error case: payment id the gateway does not know", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL,
			s.verifyRequest(order.GatewayOrderID, "pay_never_issued"), seeded.Token)
		require.Equal(t, http.StatusBadGateway, w.Code)
	})

	s.Run("Error case: order without a local payment returns 404", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "payer@example.com", string(user.RoleUser))
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, verifyURL,
			s.verifyRequest("order_never_created", "pay_never_issued"),
			s.jwt.GenerateToken(t, userID, user.RoleUser))
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestPaymentWebhook - Server-to-server notification tests
// =============================================================================

func (s *PaymentSuite) TestPaymentWebhook() {
	s.Run("Normal case: captured webhook settles without a checkout callback", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		fee := int64(118)
		raw := webhookBody(t, "payment.captured", map[string]any{
			"id":           "pay_hook_0001",
			"order_id":     order.GatewayOrderID,
			"amount_cents": 5000,
			"currency":     "INR",
			"fee_cents":    fee,
			"captured_at":  time.Now().UTC(),
		})
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, s.webhookHeaders(raw))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var ack map[string]string
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &ack))
		require.Equal(t, "ok", ack["status"])

		settled := s.getPayment(t, order.ID, seeded.Token)
		require.Equal(t, "completed", settled.Status)
		require.NotNil(t, settled.GatewayFeeCents)
		require.Equal(t, fee, *settled.GatewayFeeCents)

		require.Equal(t, "confirmed", s.bookingStatus(t, seeded.BookingID, seeded.Token))
		require.Equal(t, int64(50), s.loyaltyPoints(t, seeded.Token))
	})

	s.Run("Normal case: duplicate delivery is idempotent", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		raw := webhookBody(t, "payment.captured", map[string]any{
			"id":           "pay_hook_0001",
			"order_id":     order.GatewayOrderID,
			"amount_cents": 5000,
			"currency":     "INR",
			"captured_at":  time.Now().UTC(),
		})
		headers := s.webhookHeaders(raw)

		w1 := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, headers)
		require.Equal(t, http.StatusOK, w1.Code, w1.Body.String())
		w2 := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, headers)
		require.Equal(t, http.StatusOK, w2.Code, "Redelivery must be acknowledged")

		require.Equal(t, int64(50), s.loyaltyPoints(t, seeded.Token), "Loyalty must be credited exactly once")
	})

	s.Run("Normal case: failure notice frees the booking for another attempt", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		raw := webhookBody(t, "payment.failed", map[string]any{
			"id":           "pay_hook_0001",
			"order_id":     order.GatewayOrderID,
			"amount_cents": 5000,
			"currency":     "INR",
			"error_reason": "card declined",
		})
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, s.webhookHeaders(raw))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		failed := s.getPayment(t, order.ID, seeded.Token)
		require.Equal(t, "failed", failed.Status)
		require.NotNil(t, failed.FailureReason)
		require.Equal(t, "card declined", *failed.FailureReason)

		// The failed attempt no longer blocks the booking.
		retry := s.createOrder(t, seeded.BookingID, seeded.Token)
		require.Equal(t, "pending", retry.Status)
		require.NotEqual(t, order.ID, retry.ID)
	})

	s.Run("Normal case: failure notice after settlement is ignored", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		settled := s.settle(t, seeded)

		raw := webhookBody(t, "payment.failed", map[string]any{
			"id":           *settled.GatewayPaymentID,
			"order_id":     settled.GatewayOrderID,
			"amount_cents": 5000,
			"currency":     "INR",
			"error_reason": "late failure",
		})
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, s.webhookHeaders(raw))
		require.Equal(t, http.StatusOK, w.Code, "Losing race is acknowledged, not retried")

		require.Equal(t, "completed", s.getPayment(t, settled.ID, seeded.Token).Status,
			"Settled payment must stay settled")
	})

	s.Run("Normal case: refund notices and unknown events are acknowledged", func() {
		t := s.T()

		refundNote := webhookBody(t, "refund.created", map[string]any{
			"id": "pay_hook_0001", "order_id": "order_anything",
		})
		w1 := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, refundNote, s.webhookHeaders(refundNote))
		require.Equal(t, http.StatusOK, w1.Code)

		novel := webhookBody(t, "payout.settled", map[string]any{"id": "pay_hook_0002"})
		w2 := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, novel, s.webhookHeaders(novel))
		require.Equal(t, http.StatusOK, w2.Code, "Unknown event types must not break deliveries")
	})

	s.Run("Error case: signature from the wrong secret is rejected", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		raw := webhookBody(t, "payment.captured", map[string]any{
			"id":           "pay_hook_0001",
			"order_id":     order.GatewayOrderID,
			"amount_cents": 5000,
			"currency":     "INR",
		})
		headers := map[string]string{
			webhookSignatureHeader: signature.Sign(s.Config.Gateway.VerifySecret, raw),
		}
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, headers)
		require.Equal(t, http.StatusUnauthorized, w.Code)

		require.Equal(t, "pending", s.getPayment(t, order.ID, seeded.Token).Status)
	})

	s.Run("Error case: notification for an unknown order", func() {
		t := s.T()

		raw := webhookBody(t, "payment.captured", map[string]any{
			"id":           "pay_hook_0001",
			"order_id":     "order_never_created",
			"amount_cents": 5000,
			"currency":     "INR",
		})
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, s.webhookHeaders(raw))
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	s.Run("Error case: amount mismatch against the local record", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		raw := webhookBody(t, "payment.captured", map[string]any{
			"id":           "pay_hook_0001",
			"order_id":     order.GatewayOrderID,
			"amount_cents": 4999,
			"currency":     "INR",
		})
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, s.webhookHeaders(raw))
		require.Equal(t, http.StatusConflict, w.Code)

		require.Equal(t, "pending", s.getPayment(t, order.ID, seeded.Token).Status)
	})

	s.Run("Error case: malformed body with a valid signature", func() {
		t := s.T()

		raw := []byte(`{"event": "payment.captured", "payment":`)
		w := httptest.PerformRawRequest(t, s.Router, http.MethodPost, webhookURL, raw, s.webhookHeaders(raw))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =============================================================================
// TestRefundPayment - Refund API tests
// =============================================================================

func (s *PaymentSuite) TestRefundPayment() {
	s.Run("Normal case: full refund reverses the settlement", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.jwt.GenerateToken(t, adminID, user.RoleAdmin)
		seeded := s.seedPendingBooking(t, 3)
		settled := s.settle(t, seeded)

		reqBody := reqdto.RefundPaymentRequest{Reason: "guest request"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			paymentsURL+"/"+settled.ID.String()+"/refund", reqBody, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var refunded response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &refunded))
		require.Equal(t, "refunded", refunded.Status)
		require.NotNil(t, refunded.Refund)
		require.Equal(t, int64(5000), refunded.Refund.AmountCents, "Omitted amount means full refund")
		require.Equal(t, "guest request", refunded.Refund.Reason)
		require.Equal(t, "processed", refunded.Refund.Status)
		require.NotNil(t, refunded.Refund.GatewayRefundID)

		require.Equal(t, "cancelled", s.bookingStatus(t, seeded.BookingID, adminToken),
			"Full refund cancels the booking")
		require.Contains(t, s.Bus.RoutingKeys(), "payment.refunded")
	})

	s.Run("Normal case: partial refund keeps the booking alive", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.jwt.GenerateToken(t, adminID, user.RoleAdmin)
		seeded := s.seedPendingBooking(t, 3)
		settled := s.settle(t, seeded)

		amount := int64(2000)
		reqBody := reqdto.RefundPaymentRequest{AmountCents: &amount, Reason: "cold starter comped"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			paymentsURL+"/"+settled.ID.String()+"/refund", reqBody, adminToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var refunded response.PaymentResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &refunded))
		require.Equal(t, "refunded", refunded.Status)
		require.NotNil(t, refunded.Refund)
		require.Equal(t, int64(2000), refunded.Refund.AmountCents)

		require.Equal(t, "confirmed", s.bookingStatus(t, seeded.BookingID, adminToken),
			"Partial refund must not cancel the booking")
	})

	s.Run("Error case: refund above the captured amount", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.jwt.GenerateToken(t, adminID, user.RoleAdmin)
		seeded := s.seedPendingBooking(t, 3)
		settled := s.settle(t, seeded)

		amount := int64(6000)
		reqBody := reqdto.RefundPaymentRequest{AmountCents: &amount, Reason: "fat fingers"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			paymentsURL+"/"+settled.ID.String()+"/refund", reqBody, adminToken)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	s.Run("Error case: pending payment is not refundable", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.jwt.GenerateToken(t, adminID, user.RoleAdmin)
		seeded := s.seedPendingBooking(t, 3)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		reqBody := reqdto.RefundPaymentRequest{Reason: "never captured"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			paymentsURL+"/"+order.ID.String()+"/refund", reqBody, adminToken)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	s.Run("Error case: second refund of the same payment", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		adminToken := s.jwt.GenerateToken(t, adminID, user.RoleAdmin)
		seeded := s.seedPendingBooking(t, 3)
		settled := s.settle(t, seeded)

		reqBody := reqdto.RefundPaymentRequest{Reason: "guest request"}
		url := paymentsURL + "/" + settled.ID.String() + "/refund"
		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, reqBody, adminToken)
		require.Equal(t, http.StatusOK, w1.Code, w1.Body.String())

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, reqBody, adminToken)
		require.Equal(t, http.StatusConflict, w2.Code, "Refunds are terminal")
	})

	s.Run("Error case: guests cannot issue refunds", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 3)
		settled := s.settle(t, seeded)

		reqBody := reqdto.RefundPaymentRequest{Reason: "please"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			paymentsURL+"/"+settled.ID.String()+"/refund", reqBody, seeded.Token)
		require.Equal(t, http.StatusForbidden, w.Code, "Refunds are admin-only")
	})

	s.Run("Error case: unknown payment returns 404", func() {
		t := s.T()

		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		reqBody := reqdto.RefundPaymentRequest{Reason: "ghost"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			paymentsURL+"/"+uuid.New().String()+"/refund", reqBody,
			s.jwt.GenerateToken(t, adminID, user.RoleAdmin))
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

// =============================================================================
// TestCancelPaidBooking - Cancellation-driven refund tests
// =============================================================================

func (s *PaymentSuite) TestCancelPaidBooking() {
	s.Run("Normal case: cancelling inside the free window refunds in full", func() {
		t := s.T()

		// Three days out is comfortably past the 24h free-cancel cutoff.
		seeded := s.seedPendingBooking(t, 3)
		settled := s.settle(t, seeded)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			bookingsURL+"/"+seeded.BookingID.String()+"/cancel",
			reqdto.CancelBookingRequest{Reason: "trip cancelled"}, seeded.Token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var result response.CancelBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &result))
		require.Equal(t, int64(5000), result.RefundAmountCents)
		require.True(t, result.RefundTriggered, "Refund should ride on the cancellation")

		refunded := s.getPayment(t, settled.ID, seeded.Token)
		require.Equal(t, "refunded", refunded.Status)
		require.NotNil(t, refunded.Refund)
		require.Equal(t, int64(5000), refunded.Refund.AmountCents)

		require.Equal(t, "cancelled", s.bookingStatus(t, seeded.BookingID, seeded.Token))

		keys := s.Bus.RoutingKeys()
		require.Contains(t, keys, "booking.cancelled."+seeded.BranchID.String())
		require.Contains(t, keys, "payment.refunded")
	})
}

// =============================================================================
// TestGetPayment - Payment detail API tests
// =============================================================================

func (s *PaymentSuite) TestGetPayment() {
	s.Run("Normal case: owner and admin can read, strangers cannot", func() {
		t := s.T()

		seeded := s.seedPendingBooking(t, 2)
		order := s.createOrder(t, seeded.BookingID, seeded.Token)

		strangerID := dbtest.CreateTestUser(t, s.DB, "stranger@example.com", string(user.RoleUser))
		adminID := dbtest.CreateTestUser(t, s.DB, "admin@example.com", string(user.RoleAdmin))
		url := paymentsURL + "/" + order.ID.String()

		wOwner := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, seeded.Token)
		require.Equal(t, http.StatusOK, wOwner.Code)

		wStranger := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil,
			s.jwt.GenerateToken(t, strangerID, user.RoleUser))
		require.Equal(t, http.StatusForbidden, wStranger.Code)

		wAdmin := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil,
			s.jwt.GenerateToken(t, adminID, user.RoleAdmin))
		require.Equal(t, http.StatusOK, wAdmin.Code)
	})

	s.Run("Error case: malformed and unknown IDs", func() {
		t := s.T()

		userID := dbtest.CreateTestUser(t, s.DB, "payer@example.com", string(user.RoleUser))
		token := s.jwt.GenerateToken(t, userID, user.RoleUser)

		wBad := httptest.PerformRequest(t, s.Router, http.MethodGet, paymentsURL+"/not-a-uuid", nil, token)
		require.Equal(t, http.StatusBadRequest, wBad.Code)

		wMissing := httptest.PerformRequest(t, s.Router, http.MethodGet, paymentsURL+"/"+uuid.New().String(), nil, token)
		require.Equal(t, http.StatusNotFound, wMissing.Code)
	})
}
