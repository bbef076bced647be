//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tablebook/internal/usecase/commands"
)

// memoryLocker is an in-process stand-in for the Redis lease. The lease
// only narrows races to a friendly error, so a process-local map is
// equivalent for a single-process test run.
type memoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newMemoryLocker() *memoryLocker {
	return &memoryLocker{held: make(map[string]struct{})}
}

func (l *memoryLocker) TryAcquire(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[key]; ok {
		return nil, false, nil
	}
	l.held[key] = struct{}{}

	release := func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
	}
	return release, true, nil
}

type publishedEvent struct {
	RoutingKey string
	Payload    any
}

// recordingBus collects published events instead of talking to a broker.
type recordingBus struct {
	mu     sync.Mutex
	events []publishedEvent
}

func newRecordingBus() *recordingBus {
	return &recordingBus{}
}

func (b *recordingBus) Publish(_ context.Context, routingKey string, payload any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, publishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

func (b *recordingBus) RoutingKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, len(b.events))
	for i, e := range b.events {
		keys[i] = e.RoutingKey
	}
	return keys
}

func (b *recordingBus) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = nil
}

// FakeGateway plays the payment provider. Orders are issued on demand;
// tests mark them captured (the customer checkout the engine never sees)
// before driving verify or webhook flows against the API.
type FakeGateway struct {
	mu         sync.Mutex
	orders     map[string]*commands.GatewayOrder
	payments   map[string]*commands.GatewayPayment
	orderSeq   int
	paymentSeq int
	refundSeq  int

	nextCreateOrderErr error
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		orders:   make(map[string]*commands.GatewayOrder),
		payments: make(map[string]*commands.GatewayPayment),
	}
}

// FailNextCreateOrder arms a one-shot failure for the next CreateOrder call.
func (g *FakeGateway) FailNextCreateOrder(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextCreateOrderErr = err
}

func (g *FakeGateway) CreateOrder(_ context.Context, amountCents int64, currency, _ string) (*commands.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.nextCreateOrderErr != nil {
		err := g.nextCreateOrderErr
		g.nextCreateOrderErr = nil
		return nil, err
	}

	g.orderSeq++
	order := &commands.GatewayOrder{
		ID:          fmt.Sprintf("order_e2e_%04d", g.orderSeq),
		AmountCents: amountCents,
		Currency:    currency,
		Status:      "created",
	}
	g.orders[order.ID] = order
	return order, nil
}

func (g *FakeGateway) FetchPayment(_ context.Context, gatewayPaymentID string) (*commands.GatewayPayment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.payments[gatewayPaymentID]
	if !ok {
		return nil, &commands.GatewayError{Code: "BAD_REQUEST_ERROR", Message: "payment not found", Retryable: false}
	}
	cp := *p
	return &cp, nil
}

func (g *FakeGateway) CreateRefund(_ context.Context, gatewayPaymentID string, amountCents int64, _ map[string]string) (*commands.GatewayRefund, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.payments[gatewayPaymentID]; !ok {
		return nil, &commands.GatewayError{Code: "BAD_REQUEST_ERROR", Message: "payment not found", Retryable: false}
	}

	g.refundSeq++
	return &commands.GatewayRefund{
		ID:          fmt.Sprintf("rfnd_e2e_%04d", g.refundSeq),
		PaymentID:   gatewayPaymentID,
		AmountCents: amountCents,
		Status:      "processed",
	}, nil
}

// Capture registers a captured payment against an order, as if the
// customer had completed checkout. Returns the gateway payment ID that
// verify and webhook requests reference.
func (g *FakeGateway) Capture(orderID string, capturedAt time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	order, ok := g.orders[orderID]
	if !ok {
		return "", fmt.Errorf("unknown order %q", orderID)
	}

	g.paymentSeq++
	id := fmt.Sprintf("pay_e2e_%04d", g.paymentSeq)
	at := capturedAt
	g.payments[id] = &commands.GatewayPayment{
		ID:          id,
		OrderID:     order.ID,
		Status:      commands.GatewayPaymentCaptured,
		AmountCents: order.AmountCents,
		Currency:    order.Currency,
		Method:      "card",
		CapturedAt:  &at,
	}
	order.Status = "paid"
	return id, nil
}

// CaptureWithAmount registers a captured payment whose amount disagrees
// with the order, for integrity-check tests.
func (g *FakeGateway) CaptureWithAmount(orderID string, amountCents int64, capturedAt time.Time) (string, error) {
	id, err := g.Capture(orderID, capturedAt)
	if err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payments[id].AmountCents = amountCents
	return id, nil
}
