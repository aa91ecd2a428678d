package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// SendClient defines dependencies for the send command.
type SendClient interface {
	SendNotification(ctx context.Context, title string, opts platform.Options) error
}

// SendInput represents send command inputs after flag parsing.
type SendInput struct {
	Args    []string
	Body    string
	Icon    string
	Tag     string
	Badge   string
	Urgency string
	Silent  bool
	// Data holds key=value pairs.
	Data []string
}

// SendUseCase coordinates send behavior.
type SendUseCase struct {
	client SendClient
}

// NewSendUseCase creates a send use-case.
func NewSendUseCase(client SendClient) *SendUseCase {
	if client == nil {
		panic("NewSendUseCase: client dependency cannot be nil")
	}
	return &SendUseCase{client: client}
}

// BuildOptions validates input and turns it into a title and options.
func BuildOptions(input SendInput) (string, platform.Options, error) {
	title := strings.TrimSpace(strings.Join(input.Args, " "))
	urgency, err := platform.ParseUrgency(input.Urgency)
	if err != nil {
		return "", platform.Options{}, err
	}
	opts := platform.Options{
		Body:    input.Body,
		Icon:    input.Icon,
		Tag:     input.Tag,
		Badge:   input.Badge,
		Urgency: urgency,
		Silent:  input.Silent,
	}
	for _, kv := range input.Data {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return "", platform.Options{}, fmt.Errorf("invalid data %q: want key=value", kv)
		}
		if opts.Data == nil {
			opts.Data = make(map[string]string)
		}
		opts.Data[strings.TrimSpace(k)] = v
	}
	return title, opts, nil
}

// Execute sends one notification.
func (u *SendUseCase) Execute(ctx context.Context, input SendInput) error {
	title, opts, err := BuildOptions(input)
	if err != nil {
		return err
	}
	if err := u.client.SendNotification(ctx, title, opts); err != nil {
		return err
	}
	colors.Success("notification sent")
	return nil
}
