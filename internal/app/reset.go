package app

import (
	"context"
	"fmt"

	"github.com/cristianoliveira/pushbell/internal/colors"
)

// ResetClient defines dependencies for the reset command.
type ResetClient interface {
	Scope() string
	Reset(ctx context.Context) error
}

// ResetUseCase coordinates reset behavior.
type ResetUseCase struct {
	client ResetClient
}

// NewResetUseCase creates a reset use-case.
func NewResetUseCase(client ResetClient) *ResetUseCase {
	if client == nil {
		panic("NewResetUseCase: client dependency cannot be nil")
	}
	return &ResetUseCase{client: client}
}

// Execute returns the scope to the undecided state. Without confirmation it
// does nothing and reports so.
func (u *ResetUseCase) Execute(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return fmt.Errorf("reset: refusing to reset scope %q without --yes", u.client.Scope())
	}
	if err := u.client.Reset(ctx); err != nil {
		return err
	}
	colors.Success(fmt.Sprintf("scope %s reset: permission is default and registrations are gone", u.client.Scope()))
	return nil
}
