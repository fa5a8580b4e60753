package service_test

import (
	"context"
	"errors"
	"maps"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

var errStorage = errors.New("storage failure")

// fakeStorage is an in-memory KVStorage that can be told to fail.
type fakeStorage struct {
	mu      sync.Mutex
	values  map[string]string
	failGet bool
	failSet bool
	nSet    int
}

func newFakeStorage(values map[string]string) *fakeStorage {
	s := &fakeStorage{values: map[string]string{}}
	maps.Copy(s.values, values)
	return s
}

func (s *fakeStorage) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", false, errStorage
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *fakeStorage) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet {
		return errStorage
	}
	s.nSet++
	s.values[key] = value
	return nil
}

func (s *fakeStorage) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func (s *fakeStorage) value(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *fakeStorage) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nSet
}

type MockCheckoutNotifier struct {
	mock.Mock
}

func (m *MockCheckoutNotifier) NotifyCheckout(
	ctx context.Context, v domain.Checkout,
) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type MockFeedbackEmitter struct {
	mock.Mock
}

func (m *MockFeedbackEmitter) EmitFeedback(
	ctx context.Context, v domain.Feedback,
) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(
	ctx context.Context, form domain.LoginForm,
) (domain.Credentials, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(domain.Credentials), args.Error(1)
}

func (m *MockAuthAPI) Register(
	ctx context.Context, form domain.RegisterForm,
) (domain.Credentials, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(domain.Credentials), args.Error(1)
}

type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) ListProducts(
	ctx context.Context, page, size int,
) (domain.ProductPage, error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).(domain.ProductPage), args.Error(1)
}

func (m *MockCatalogAPI) SearchProducts(
	ctx context.Context, q domain.ProductQuery,
) ([]domain.Product, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) GetProduct(
	ctx context.Context, id int,
) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) CreateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) UpdateProduct(
	ctx context.Context, p domain.Product,
) (domain.Product, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockCatalogAPI) DeleteProduct(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
