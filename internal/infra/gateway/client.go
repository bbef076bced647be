package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tablebook/internal/pkg/config"
	"tablebook/internal/pkg/errs"
	"tablebook/internal/usecase/commands"
)

const maxResponseBytes = 1 << 20

// Client talks to the payment provider's REST API. It maps transport
// failures and 5xx responses to retryable errors and 4xx responses to
// non-retryable ones; it never retries on its own.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		authHeader: "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.Key+":")),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type orderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type paymentResponse struct {
	ID          string  `json:"id"`
	OrderID     string  `json:"order_id"`
	Status      string  `json:"status"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	Method      string  `json:"method"`
	Fee         *int64  `json:"fee,omitempty"`
	CapturedAt  *int64  `json:"captured_at,omitempty"`
	ErrorReason *string `json:"error_reason,omitempty"`
}

type refundRequest struct {
	Amount int64             `json:"amount"`
	Notes  map[string]string `json:"notes,omitempty"`
}

type refundResponse struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

func (c *Client) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (*commands.GatewayOrder, error) {
	body := orderRequest{Amount: amountCents, Currency: currency, Receipt: receipt}

	var resp orderResponse
	if err := c.do(ctx, http.MethodPost, "/v1/orders", body, &resp); err != nil {
		return nil, err
	}

	return &commands.GatewayOrder{
		ID:          resp.ID,
		AmountCents: resp.Amount,
		Currency:    resp.Currency,
		Status:      resp.Status,
	}, nil
}

func (c *Client) FetchPayment(ctx context.Context, gatewayPaymentID string) (*commands.GatewayPayment, error) {
	var resp paymentResponse
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+url.PathEscape(gatewayPaymentID), nil, &resp); err != nil {
		return nil, err
	}

	out := &commands.GatewayPayment{
		ID:          resp.ID,
		OrderID:     resp.OrderID,
		Status:      resp.Status,
		AmountCents: resp.Amount,
		Currency:    resp.Currency,
		Method:      resp.Method,
		FeeCents:    resp.Fee,
		ErrorReason: resp.ErrorReason,
	}
	if resp.CapturedAt != nil {
		t := time.Unix(*resp.CapturedAt, 0).UTC()
		out.CapturedAt = &t
	}

	return out, nil
}

func (c *Client) CreateRefund(ctx context.Context, gatewayPaymentID string, amountCents int64, notes map[string]string) (*commands.GatewayRefund, error) {
	body := refundRequest{Amount: amountCents, Notes: notes}

	var resp refundResponse
	if err := c.do(ctx, http.MethodPost, "/v1/payments/"+url.PathEscape(gatewayPaymentID)+"/refund", body, &resp); err != nil {
		return nil, err
	}

	return &commands.GatewayRefund{
		ID:          resp.ID,
		PaymentID:   resp.PaymentID,
		AmountCents: resp.Amount,
		Status:      resp.Status,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errs.Wrap(err, "failed to encode gateway request")
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return errs.Wrap(err, "failed to build gateway request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errs.Mark(errs.Wrap(err, "gateway request failed"), commands.ErrGatewayUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return errs.Mark(errs.Wrap(err, "failed to read gateway response"), commands.ErrGatewayUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorFromResponse(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return errs.Wrap(err, "failed to decode gateway response")
	}

	return nil
}

func errorFromResponse(status int, body []byte) *commands.GatewayError {
	var parsed struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}

	gwErr := &commands.GatewayError{
		Message:   http.StatusText(status),
		Retryable: status >= 500,
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Description != "" {
		gwErr.Code = parsed.Error.Code
		gwErr.Message = parsed.Error.Description
	}

	return gwErr
}
