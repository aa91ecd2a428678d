package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// SubscribeClient defines dependencies for the subscribe command.
type SubscribeClient interface {
	Subscribe(ctx context.Context) (*platform.Subscription, error)
}

// SubscribeUseCase coordinates the permission-then-subscribe flow.
type SubscribeUseCase struct {
	client SubscribeClient
}

// NewSubscribeUseCase creates a subscribe use-case.
func NewSubscribeUseCase(client SubscribeClient) *SubscribeUseCase {
	if client == nil {
		panic("NewSubscribeUseCase: client dependency cannot be nil")
	}
	return &SubscribeUseCase{client: client}
}

// Execute subscribes and prints the new registration. It returns nil without
// a subscription when permission is declined.
func (u *SubscribeUseCase) Execute(ctx context.Context, w io.Writer) (*platform.Subscription, error) {
	sub, err := u.client.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		colors.Warning("permission not granted; no subscription created")
		return nil, nil
	}
	fmt.Fprintf(w, "subscribed: %s\n", sub.ID)
	fmt.Fprintf(w, "endpoint: %s\n", sub.Endpoint)
	return sub, nil
}
