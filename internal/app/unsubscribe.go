package app

import (
	"context"

	"github.com/cristianoliveira/pushbell/internal/colors"
)

// UnsubscribeClient defines dependencies for the unsubscribe command.
type UnsubscribeClient interface {
	Unsubscribe(ctx context.Context) (bool, error)
}

// UnsubscribeUseCase coordinates unsubscribe behavior.
type UnsubscribeUseCase struct {
	client UnsubscribeClient
}

// NewUnsubscribeUseCase creates an unsubscribe use-case.
func NewUnsubscribeUseCase(client UnsubscribeClient) *UnsubscribeUseCase {
	if client == nil {
		panic("NewUnsubscribeUseCase: client dependency cannot be nil")
	}
	return &UnsubscribeUseCase{client: client}
}

// Execute drops the registration and reports whether one existed.
func (u *UnsubscribeUseCase) Execute(ctx context.Context) (bool, error) {
	removed, err := u.client.Unsubscribe(ctx)
	if err != nil {
		return false, err
	}
	if removed {
		colors.Success("unsubscribed")
	} else {
		colors.Info("no subscription to remove")
	}
	return removed, nil
}
