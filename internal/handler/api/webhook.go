package api

import (
	"errors"
	"net/http"

	"tablebook/internal/handler/httperr"
	"tablebook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// webhookSignatureHeader carries the HMAC the gateway computed over the raw
// request body.
const webhookSignatureHeader = "X-Gateway-Signature"

type WebhookHandler struct {
	cmds commands.PaymentCommands
}

func NewWebhookHandler(cmds commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{cmds: cmds}
}

// @Summary Payment gateway webhook
// @Description Receive server-to-server payment notifications from the gateway
// @Tags webhooks
// @Accept json
// @Produce json
// @Param X-Gateway-Signature header string true "HMAC signature of the raw body"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /webhooks/payment [post]
func (h *WebhookHandler) HandlePaymentWebhook(c *gin.Context) {
	// Signature verification needs the exact bytes the gateway signed, so
	// the body is read raw instead of bound.
	rawBody, err := c.GetRawData()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Failed to read request body", nil)
		return
	}

	if err := h.cmds.ProcessWebhook(c.Request.Context(), rawBody, c.GetHeader(webhookSignatureHeader)); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidSignature):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid signature", nil)
		case errors.Is(err, commands.ErrPaymentNotFoundWrite):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Payment not found", nil)
		case errors.Is(err, commands.ErrPaymentIntegrity):
			httperr.AbortWithError(c, http.StatusConflict, err, "Payment does not match gateway record", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid webhook payload", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
