package tmux

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client for testing.
//
// Example usage:
//
//	mockClient := new(MockClient)
//	mockClient.On("HasSession", mock.Anything).Return(true, nil)
//	mockClient.On("DisplayMessage", mock.Anything, "hello", 2*time.Second).Return(nil)
type MockClient struct {
	mock.Mock
}

// HasSession returns a mocked boolean indicating if tmux server is running.
func (m *MockClient) HasSession(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// DisplayMessage returns a mocked error for displaying msg.
func (m *MockClient) DisplayMessage(ctx context.Context, msg string, d time.Duration) error {
	args := m.Called(ctx, msg, d)
	return args.Error(0)
}

// Run returns mocked stdout, stderr, and error for a tmux command.
// Configure the return value using:
//
//	mock.On("Run", mock.Anything, []string{"-V"}).Return("tmux 3.4", "", nil)
func (m *MockClient) Run(ctx context.Context, args ...string) (string, string, error) {
	callArgs := m.Called(ctx, args)
	return callArgs.String(0), callArgs.String(1), callArgs.Error(2)
}
