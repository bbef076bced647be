//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"tablebook/internal/domain/user"
	"tablebook/internal/handler/api"
	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"
	"tablebook/tests/common/builder"
	"tablebook/tests/common/httptest"
	"tablebook/tests/common/testutil"
	commandsmock "tablebook/tests/mock/commands"
	queriesmock "tablebook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	handler      *api.PaymentHandler
	userID       uuid.UUID
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("user_role", user.RoleUser)
		c.Next()
	}

	s.router.POST("/payments/order", authMiddleware, s.handler.CreateOrder)
	s.router.POST("/payments/verify", authMiddleware, s.handler.Verify)
	s.router.POST("/payments/:id/refund", authMiddleware, s.handler.Refund)
	s.router.GET("/payments/:id", authMiddleware, s.handler.Get)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

// ================================================================================
// TestCreateOrder
// ================================================================================

func (s *PaymentHandlerTestSuite) TestCreateOrder() {
	url := "/payments/order"

	pb := builder.NewPaymentBuilder().WithUserID(s.userID)
	reqBody := pb.BuildCreateOrderRequestDTO()
	returnView := pb.BuildView()

	s.Run("Normal case: returns 201 Created with the pending payment", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(),
			commands.CreateOrderRequest{BookingID: pb.BookingID, Method: "card"},
			s.userID, user.RoleUser.String()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal("pending", response.Status)
		s.Equal(returnView.GatewayOrderID, response.GatewayOrderID)
	})

	s.Run("Normal case: method is trimmed and lowercased before the usecase", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(),
			commands.CreateOrderRequest{BookingID: pb.BookingID, Method: "upi"},
			s.userID, user.RoleUser.String()).
			Return(returnView, nil).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("method", "  UPI "))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("Normal case: explicit amount flows through for deposits", func() {
		deposit := int64(2000)
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(),
			commands.CreateOrderRequest{BookingID: pb.BookingID, AmountCents: &deposit, Method: "card"},
			s.userID, user.RoleUser.String()).
			Return(returnView, nil).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("amount_cents", 2000))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("Error case: 400 Bad Request on validation errors", func() {
		validationCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: booking_id", mutate: testutil.Field("booking_id", nil)},
			{name: "missing field: method", mutate: testutil.Field("method", nil)},
			{name: "malformed booking_id", mutate: testutil.Field("booking_id", "not-a-uuid")},
		}

		for _, tc := range validationCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("Error case: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("Error case: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "booking not found", commandsError: commands.ErrBookingNotFoundWrite, expectedStatus: http.StatusNotFound, expectedMsg: "Booking not found"},
			{name: "not the owner", commandsError: commands.ErrBookingNotOwned, expectedStatus: http.StatusForbidden, expectedMsg: "Access denied"},
			{name: "booking not payable", commandsError: commands.ErrBookingNotPayable, expectedStatus: http.StatusConflict, expectedMsg: "not payable"},
			{name: "active payment exists", commandsError: commands.ErrPaymentExists, expectedStatus: http.StatusConflict, expectedMsg: "active payment"},
			{name: "payment in flight", commandsError: commands.ErrPaymentInProgress, expectedStatus: http.StatusConflict, expectedMsg: "being processed"},
			{name: "unsupported method", commandsError: commands.ErrDomainValidation, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Domain validation failed"},
			{name: "gateway rejection", commandsError: &commands.GatewayError{Code: "SERVER_ERROR", Message: "temporarily down", Retryable: true}, expectedStatus: http.StatusBadGateway, expectedMsg: "gateway rejected"},
			{name: "gateway unreachable", commandsError: commands.ErrGatewayUnavailable, expectedStatus: http.StatusBadGateway, expectedMsg: "gateway unavailable"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Create order failed"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), s.userID, user.RoleUser.String()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestVerify
// ================================================================================

func (s *PaymentHandlerTestSuite) TestVerify() {
	url := "/payments/verify"

	pb := builder.NewPaymentBuilder().WithUserID(s.userID).AsCompleted()
	reqBody := pb.BuildVerifyRequestDTO()
	returnView := pb.BuildView()

	s.Run("Normal case: returns 200 OK with the settled payment", func() {
		s.mockCommands.EXPECT().Verify(gomock.Any(), commands.VerifyPaymentRequest{
			GatewayOrderID:   pb.GatewayOrderID,
			GatewayPaymentID: *pb.GatewayPaymentID,
			Signature:        pb.Signature,
		}).Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("completed", response.Status)
		s.NotNil(response.GatewayPaymentID)
		s.NotNil(response.CapturedAt)
	})

	s.Run("Error case: 400 Bad Request on validation errors", func() {
		validationCases := []struct {
			name   string
			mutate func(m map[string]any)
		}{
			{name: "missing field: gateway_order_id", mutate: testutil.Field("gateway_order_id", nil)},
			{name: "missing field: gateway_payment_id", mutate: testutil.Field("gateway_payment_id", nil)},
			{name: "missing field: signature", mutate: testutil.Field("signature", nil)},
		}

		for _, tc := range validationCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
			})
		}
	})

	s.Run("Error case: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "tampered signature", commandsError: commands.ErrInvalidSignature, expectedStatus: http.StatusUnauthorized, expectedMsg: "Invalid signature"},
			{name: "unknown order", commandsError: commands.ErrPaymentNotFoundWrite, expectedStatus: http.StatusNotFound, expectedMsg: "Payment not found"},
			{name: "not captured at gateway", commandsError: commands.ErrPaymentNotCaptured, expectedStatus: http.StatusConflict, expectedMsg: "not captured"},
			{name: "amount mismatch", commandsError: commands.ErrPaymentIntegrity, expectedStatus: http.StatusConflict, expectedMsg: "does not match gateway record"},
			{name: "gateway rejection", commandsError: &commands.GatewayError{Code: "BAD_REQUEST_ERROR", Message: "payment not found", Retryable: false}, expectedStatus: http.StatusBadGateway, expectedMsg: "gateway rejected"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Payment verification failed"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Verify(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestRefund
// ================================================================================

func (s *PaymentHandlerTestSuite) TestRefund() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String() + "/refund"

	reqBody := reqdto.RefundPaymentRequest{Reason: "guest request"}
	returnView := builder.NewPaymentBuilder().WithUserID(s.userID).AsRefunded().BuildView()

	s.Run("Normal case: full refund returns 200 OK with refund details", func() {
		s.mockCommands.EXPECT().Refund(gomock.Any(), paymentID,
			commands.RefundPaymentRequest{Reason: "guest request"}).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("refunded", response.Status)
		s.Require().NotNil(response.Refund)
		s.Equal(returnView.AmountCents, response.Refund.AmountCents)
	})

	s.Run("Normal case: partial amount and reason are forwarded verbatim", func() {
		partial := int64(2000)
		s.mockCommands.EXPECT().Refund(gomock.Any(), paymentID,
			commands.RefundPaymentRequest{AmountCents: &partial, Reason: "too noisy"}).
			Return(returnView, nil).Times(1)

		requestMap := testutil.DtoMap(s.T(), reqBody,
			testutil.Field("amount_cents", 2000),
			testutil.Field("reason", "  too noisy  "))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("Error case: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/payments/invalid-uuid/refund", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid payment ID")
	})

	s.Run("Error case: 400 Bad Request without a reason", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("reason", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("Error case: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "payment not found", commandsError: commands.ErrPaymentNotFoundWrite, expectedStatus: http.StatusNotFound, expectedMsg: "Payment not found"},
			{name: "payment not completed", commandsError: commands.ErrPaymentStateConflict, expectedStatus: http.StatusConflict, expectedMsg: "state does not allow"},
			{name: "amount exceeds remainder", commandsError: commands.ErrDomainValidation, expectedStatus: http.StatusUnprocessableEntity, expectedMsg: "Domain validation failed"},
			{name: "gateway rejection", commandsError: &commands.GatewayError{Code: "SERVER_ERROR", Message: "refund failed upstream", Retryable: true}, expectedStatus: http.StatusBadGateway, expectedMsg: "gateway rejected"},
			{name: "internal server error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Refund failed"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Refund(gomock.Any(), paymentID, gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *PaymentHandlerTestSuite) TestGet() {
	paymentID := uuid.New()
	url := "/payments/" + paymentID.String()

	pb := builder.NewPaymentBuilder().WithUserID(s.userID)
	pb.ID = paymentID
	returnView := pb.BuildView()

	s.Run("Normal case: returns 200 OK with PaymentResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, user.RoleUser.String(), paymentID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(paymentID, response.ID)
		s.Equal(returnView.Reference, response.Reference)
		s.Equal(returnView.AmountCents, response.AmountCents)
	})

	s.Run("Error case: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/payments/invalid-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid payment ID")
	})

	s.Run("Error case: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "payment not found", queriesError: queries.ErrPaymentNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "Payment not found"},
			{name: "access denied", queriesError: queries.ErrPaymentAccess, expectedStatus: http.StatusForbidden, expectedMsg: "Access denied"},
			{name: "internal server error", queriesError: errors.New("database error"), expectedStatus: http.StatusInternalServerError, expectedMsg: "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, user.RoleUser.String(), paymentID).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
