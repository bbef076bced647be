//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"tablebook/internal/handler/api"
	"tablebook/internal/usecase/commands"
	"tablebook/tests/common/httptest"
	commandsmock "tablebook/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WebhookHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	handler      *api.WebhookHandler
}

func (s *WebhookHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewWebhookHandler(s.mockCommands)

	// Gateway notifications authenticate via signature, not bearer tokens
	s.router.POST("/webhooks/payment", s.handler.HandlePaymentWebhook)
}

func (s *WebhookHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWebhookHandlerSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlerTestSuite))
}

// ================================================================================
// TestHandlePaymentWebhook
// ================================================================================

func (s *WebhookHandlerTestSuite) TestHandlePaymentWebhook() {
	url := "/webhooks/payment"

	rawBody := []byte(`{"event":"payment.captured","payment":{"id":"pay_test_0001","order_id":"order_test_0001","amount_cents":4500,"currency":"INR"}}`)
	signedHeaders := map[string]string{"X-Gateway-Signature": "aabbccdd"}

	s.Run("Normal case: acknowledges with 200 and forwards the exact raw bytes", func() {
		s.mockCommands.EXPECT().ProcessWebhook(gomock.Any(), rawBody, "aabbccdd").
			Return(nil).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, rawBody, signedHeaders)

		var response struct {
			Status string `json:"status"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ok", response.Status)
	})

	s.Run("Normal case: missing header reaches the usecase as an empty signature", func() {
		s.mockCommands.EXPECT().ProcessWebhook(gomock.Any(), rawBody, "").
			Return(commands.ErrInvalidSignature).Times(1)

		rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, rawBody, nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid signature")
	})

	s.Run("Error case: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "forged signature", commandsError: commands.ErrInvalidSignature, expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid signature"},
			{name: "unknown gateway order", commandsError: commands.ErrPaymentNotFoundWrite, expectedStatus: http.StatusNotFound, expectedMsg: "Payment not found"},
			{name: "amount mismatch", commandsError: commands.ErrPaymentIntegrity, expectedStatus: http.StatusConflict, expectedMsg: "does not match gateway record"},
			{name: "malformed envelope", commandsError: commands.ErrDomainValidation, expectedStatus: http.StatusBadRequest, expectedMsg: "Invalid webhook payload"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ProcessWebhook(gomock.Any(), rawBody, "aabbccdd").
					Return(tc.commandsError).Times(1)

				rec := httptest.PerformRawRequest(s.T(), s.router, http.MethodPost, url, rawBody, signedHeaders)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
