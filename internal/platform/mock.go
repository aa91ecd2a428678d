package platform

import (
	"context"

	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/stretchr/testify/mock"
)

// MockPlatform is a testify mock of Platform.
//
// Example usage:
//
//	p := new(MockPlatform)
//	p.On("Supported").Return(true)
//	p.On("RequestPermission", mock.Anything).Return(permission.Granted, nil)
//	p.AssertNumberOfCalls(t, "RequestPermission", 1)
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlatform) Supported() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPlatform) Permission(ctx context.Context) (permission.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(permission.State), args.Error(1)
}

func (m *MockPlatform) RequestPermission(ctx context.Context) (permission.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(permission.State), args.Error(1)
}

func (m *MockPlatform) Register(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockPlatform) Subscribe(ctx context.Context) (*Subscription, error) {
	args := m.Called(ctx)
	sub, _ := args.Get(0).(*Subscription)
	return sub, args.Error(1)
}

func (m *MockPlatform) Subscription(ctx context.Context) (*Subscription, error) {
	args := m.Called(ctx)
	sub, _ := args.Get(0).(*Subscription)
	return sub, args.Error(1)
}

func (m *MockPlatform) Unsubscribe(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlatform) Show(ctx context.Context, title string, opts Options) error {
	args := m.Called(ctx, title, opts)
	return args.Error(0)
}

func (m *MockPlatform) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
