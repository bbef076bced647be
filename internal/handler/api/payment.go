package api

import (
	"errors"
	"net/http"

	reqdto "tablebook/internal/handler/dto/request"
	resdto "tablebook/internal/handler/dto/response"
	"tablebook/internal/handler/httperr"
	"tablebook/internal/handler/middleware"
	"tablebook/internal/usecase/commands"
	"tablebook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	cmds commands.PaymentCommands
	q    queries.PaymentQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, q queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, q: q}
}

// @Summary Create payment order
// @Description Create a gateway order for a pending booking
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOrderRequest true "Order request"
// @Success 201 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingAuthContext, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	var req reqdto.CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.CreateOrder(c.Request.Context(), req.ToCommand(), actorID, string(role))
	if err != nil {
		h.abortPaymentError(c, err, "Create order failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromPaymentView(view))
}

// @Summary Verify payment
// @Description Verify a client-relayed capture callback and settle the payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.VerifyPaymentRequest true "Verify request"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/verify [post]
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req reqdto.VerifyPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.Verify(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.abortPaymentError(c, err, "Payment verification failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Refund payment
// @Description Refund a completed payment (admin only)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Param request body reqdto.RefundPaymentRequest true "Refund request"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/{id}/refund [post]
func (h *PaymentHandler) Refund(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format", nil)
		return
	}

	var req reqdto.RefundPaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	view, err := h.cmds.Refund(c.Request.Context(), id, req.ToCommand())
	if err != nil {
		h.abortPaymentError(c, err, "Refund failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary Get payment
// @Description Get payment by ID (owner or admin)
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/{id} [get]
func (h *PaymentHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid payment ID format", nil)
		return
	}
	actorID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errMissingAuthContext, "Unauthorized", nil)
		return
	}
	role, _ := middleware.GetUserRole(c)

	view, err := h.q.GetByID(c.Request.Context(), actorID, string(role), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrPaymentNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
		case errors.Is(err, queries.ErrPaymentAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}
	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// abortPaymentError maps payment command errors onto HTTP statuses. Gateway
// rejections surface as 502 with the provider code in the detail payload.
func (h *PaymentHandler) abortPaymentError(c *gin.Context, err error, fallbackMsg string) {
	var gwErr *commands.GatewayError

	switch {
	case errors.Is(err, commands.ErrBookingNotFoundWrite):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
	case errors.Is(err, commands.ErrPaymentNotFoundWrite):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
	case errors.Is(err, commands.ErrBookingNotOwned):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Access denied", nil)
	case errors.Is(err, commands.ErrInvalidSignature):
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid signature", nil)
	case errors.Is(err, commands.ErrBookingNotPayable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking is not payable", nil)
	case errors.Is(err, commands.ErrPaymentExists):
		httperr.AbortWithError(c, http.StatusConflict, err, "Booking already has an active payment", nil)
	case errors.Is(err, commands.ErrPaymentInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Another payment for this booking is being processed", nil)
	case errors.Is(err, commands.ErrPaymentStateConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment state does not allow this operation", nil)
	case errors.Is(err, commands.ErrPaymentNotCaptured):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment not captured at gateway", nil)
	case errors.Is(err, commands.ErrPaymentIntegrity):
		httperr.AbortWithError(c, http.StatusConflict, err, "Payment does not match gateway record", nil)
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Domain validation failed", nil)
	case errors.As(err, &gwErr):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway rejected the request", gin.H{
			"gateway_code": gwErr.Code,
		})
	case errors.Is(err, commands.ErrGatewayUnavailable):
		httperr.AbortWithError(c, http.StatusBadGateway, err, "Payment gateway unavailable", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, fallbackMsg, nil)
	}
}
