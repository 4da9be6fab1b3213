package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-url-shortener/types"
)

// MockStorage is a mock Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, shortCode, originalURL string, ttl time.Duration, createdAt time.Time) error {
	args := m.Called(ctx, shortCode, originalURL, ttl, createdAt)
	return args.Error(0)
}

func (m *MockStorage) Get(ctx context.Context, shortCode string) (string, error) {
	args := m.Called(ctx, shortCode)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Stats(ctx context.Context, shortCode string) (types.URLStats, error) {
	args := m.Called(ctx, shortCode)
	return args.Get(0).(types.URLStats), args.Error(1)
}

func (m *MockStorage) Exists(ctx context.Context, shortCode string) bool {
	args := m.Called(ctx, shortCode)
	return args.Bool(0)
}

func (m *MockStorage) Delete(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

func (m *MockStorage) HealthCheck(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}
