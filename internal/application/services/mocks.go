package services

import (
	"context"
	"sync"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/domain"
)

// MockRecordStore
type MockRecordStore struct {
	mu sync.Mutex

	ProbeGiftFn         func(ctx context.Context, column, value string) (*domain.GiftRecord, error)
	ProbeGiftByEmailsFn func(ctx context.Context, column string, emails []string) (*domain.GiftRecord, error)
	FindBusinessFn      func(ctx context.Context, id string) (*domain.Business, error)

	ProbedColumns []string
}

func NewMockRecordStore() *MockRecordStore {
	return &MockRecordStore{}
}

func (m *MockRecordStore) ProbeGift(ctx context.Context, column, value string) (*domain.GiftRecord, error) {
	m.mu.Lock()
	m.ProbedColumns = append(m.ProbedColumns, column)
	m.mu.Unlock()
	if m.ProbeGiftFn != nil {
		return m.ProbeGiftFn(ctx, column, value)
	}
	return nil, nil
}

func (m *MockRecordStore) ProbeGiftByEmails(ctx context.Context, column string, emails []string) (*domain.GiftRecord, error) {
	m.mu.Lock()
	m.ProbedColumns = append(m.ProbedColumns, column)
	m.mu.Unlock()
	if m.ProbeGiftByEmailsFn != nil {
		return m.ProbeGiftByEmailsFn(ctx, column, emails)
	}
	return nil, nil
}

func (m *MockRecordStore) FindBusiness(ctx context.Context, id string) (*domain.Business, error) {
	if m.FindBusinessFn != nil {
		return m.FindBusinessFn(ctx, id)
	}
	return nil, nil
}

// MockPaymentClient
type MockPaymentClient struct {
	RetrieveSessionFn func(ctx context.Context, sessionID string) (*application.PaymentSession, error)

	Calls int
}

func NewMockPaymentClient() *MockPaymentClient {
	return &MockPaymentClient{}
}

func (m *MockPaymentClient) RetrieveSession(ctx context.Context, sessionID string) (*application.PaymentSession, error) {
	m.Calls++
	if m.RetrieveSessionFn != nil {
		return m.RetrieveSessionFn(ctx, sessionID)
	}
	return nil, nil
}

// MockDispatcher records every notification it is asked to send.
type MockDispatcher struct {
	mu sync.Mutex

	SendGiftIssuedFn func(ctx context.Context, n application.GiftNotification) (string, error)

	Sent []application.GiftNotification
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{}
}

func (m *MockDispatcher) SendGiftIssued(ctx context.Context, n application.GiftNotification) (string, error) {
	m.mu.Lock()
	m.Sent = append(m.Sent, n)
	m.mu.Unlock()
	if m.SendGiftIssuedFn != nil {
		return m.SendGiftIssuedFn(ctx, n)
	}
	return "email_mock", nil
}

// MockResolver
type MockResolver struct {
	ResolveFn func(ctx context.Context, sessionID string) (*domain.GiftRecord, error)
}

func (m *MockResolver) Resolve(ctx context.Context, sessionID string) (*domain.GiftRecord, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(ctx, sessionID)
	}
	return nil, nil
}
