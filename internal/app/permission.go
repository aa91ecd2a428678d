package app

import (
	"context"
	"fmt"
	"io"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/permission"
)

// PermissionClient defines dependencies for the permission command.
type PermissionClient interface {
	IsSupported() bool
	AskPermission(ctx context.Context) (bool, error)
	Permission() permission.State
}

// PermissionUseCase coordinates permission requests.
type PermissionUseCase struct {
	client PermissionClient
}

// NewPermissionUseCase creates a permission use-case.
func NewPermissionUseCase(client PermissionClient) *PermissionUseCase {
	if client == nil {
		panic("NewPermissionUseCase: client dependency cannot be nil")
	}
	return &PermissionUseCase{client: client}
}

// Execute requests permission and prints the resulting state. A denial is
// reported, not returned as an error; an interrupted request is.
func (u *PermissionUseCase) Execute(ctx context.Context, w io.Writer) (bool, error) {
	if !u.client.IsSupported() {
		colors.Warning("notifications are not supported by this backend")
	}
	granted, err := u.client.AskPermission(ctx)
	if err != nil {
		return false, err
	}
	if _, err := fmt.Fprintf(w, "permission: %s\n", u.client.Permission()); err != nil {
		return granted, err
	}
	return granted, nil
}
