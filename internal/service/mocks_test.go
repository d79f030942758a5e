package service

import (
	"context"
	"time"

	"github.com/antifraud-service/internal/domain/blacklist"
	"github.com/antifraud-service/internal/domain/transaction"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository for testing
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Save(ctx context.Context, tx *transaction.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindByCardInWindow(ctx context.Context, cardNumber string, from, to time.Time) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, cardNumber, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx *transaction.Transaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListAll(ctx context.Context) ([]*transaction.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByCard(ctx context.Context, cardNumber string) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

// MockSuspiciousIPRepository for testing
type MockSuspiciousIPRepository struct {
	mock.Mock
}

func (m *MockSuspiciousIPRepository) Add(ctx context.Context, ip string) (*blacklist.SuspiciousIP, error) {
	args := m.Called(ctx, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blacklist.SuspiciousIP), args.Error(1)
}

func (m *MockSuspiciousIPRepository) Remove(ctx context.Context, ip string) error {
	args := m.Called(ctx, ip)
	return args.Error(0)
}

func (m *MockSuspiciousIPRepository) List(ctx context.Context) ([]*blacklist.SuspiciousIP, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blacklist.SuspiciousIP), args.Error(1)
}

func (m *MockSuspiciousIPRepository) Exists(ctx context.Context, ip string) (bool, error) {
	args := m.Called(ctx, ip)
	return args.Bool(0), args.Error(1)
}

// MockStolenCardRepository for testing
type MockStolenCardRepository struct {
	mock.Mock
}

func (m *MockStolenCardRepository) Add(ctx context.Context, cardNumber string) (*blacklist.StolenCard, error) {
	args := m.Called(ctx, cardNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blacklist.StolenCard), args.Error(1)
}

func (m *MockStolenCardRepository) Remove(ctx context.Context, cardNumber string) error {
	args := m.Called(ctx, cardNumber)
	return args.Error(0)
}

func (m *MockStolenCardRepository) List(ctx context.Context) ([]*blacklist.StolenCard, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blacklist.StolenCard), args.Error(1)
}

func (m *MockStolenCardRepository) Exists(ctx context.Context, cardNumber string) (bool, error) {
	args := m.Called(ctx, cardNumber)
	return args.Bool(0), args.Error(1)
}

// MockMessagePublisher for testing
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
