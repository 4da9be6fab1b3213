package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-url-shortener/types"
)

// MockURLService is a mock URLService interface
type MockURLService struct {
	mock.Mock
}

func (m *MockURLService) CreateShortURL(ctx context.Context, originalURL, customCode string, ttl time.Duration) (types.URLData, error) {
	args := m.Called(ctx, originalURL, customCode, ttl)
	return args.Get(0).(types.URLData), args.Error(1)
}

func (m *MockURLService) ResolveURL(ctx context.Context, shortCode string) (string, error) {
	args := m.Called(ctx, shortCode)
	return args.String(0), args.Error(1)
}

func (m *MockURLService) GetStats(ctx context.Context, shortCode string) (types.URLStats, error) {
	args := m.Called(ctx, shortCode)
	return args.Get(0).(types.URLStats), args.Error(1)
}

func (m *MockURLService) DeleteURL(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}
