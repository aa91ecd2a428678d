// Package app is the pushbell application context. It builds the platform
// from configuration and owns the single notification service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cristianoliveira/pushbell/internal/config"
	"github.com/cristianoliveira/pushbell/internal/hooks"
	"github.com/cristianoliveira/pushbell/internal/logging"
	"github.com/cristianoliveira/pushbell/internal/notification"
	"github.com/cristianoliveira/pushbell/internal/platform"
	"github.com/cristianoliveira/pushbell/internal/platform/console"
	"github.com/cristianoliveira/pushbell/internal/platform/desktop"
	"github.com/cristianoliveira/pushbell/internal/platform/tmuxdisplay"
	"github.com/cristianoliveira/pushbell/internal/prompt"
	"github.com/cristianoliveira/pushbell/internal/storage/sqlite"
	"github.com/cristianoliveira/pushbell/internal/tmux"
)

// RegistryFile is the registry database name inside the state directory.
const RegistryFile = "registry.db"

// Config selects and tunes the platform parts.
type Config struct {
	Platform    string
	Scope       string
	Prompt      string
	StateDir    string
	DefaultIcon string
	TmuxDisplay time.Duration
	Hooks       hooks.Config
}

// ConfigFromGlobal reads the App configuration from the loaded configuration.
func ConfigFromGlobal() Config {
	return Config{
		Platform:    config.Get("platform", "desktop"),
		Scope:       config.Get("scope", "pushbell"),
		Prompt:      config.Get("prompt", "interactive"),
		StateDir:    config.Get("state_dir", ""),
		DefaultIcon: config.Get("default_icon", ""),
		TmuxDisplay: time.Duration(config.GetInt("tmux_display_ms", 4000)) * time.Millisecond,
		Hooks:       hooks.FromGlobalConfig(),
	}
}

// Option configures an App.
type Option func(*App)

// WithLogger sets the structured logger shared by every part.
func WithLogger(l logging.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.log = l
		}
	}
}

// WithIO sets the terminal streams used by the console backend and the
// interactive prompt.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in, a.out = in, out
	}
}

// WithBackend replaces the configured backend.
func WithBackend(b platform.Backend) Option {
	return func(a *App) { a.backend = b }
}

// WithPrompter replaces the configured prompter.
func WithPrompter(p platform.Prompter) Option {
	return func(a *App) { a.prompter = p }
}

// WithRegistry replaces the configured registry. The App does not close it.
func WithRegistry(r platform.Registry) Option {
	return func(a *App) { a.registry = r }
}

// App owns the platform and lazily creates the notification service.
type App struct {
	cfg      Config
	log      logging.Logger
	in       io.Reader
	out      io.Writer
	backend  platform.Backend
	prompter platform.Prompter
	registry platform.Registry
	closer   io.Closer
	host     *platform.Host

	once sync.Once
	svc  *notification.Service
}

// New builds an App for cfg.
func New(cfg Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, log: logging.Nop(), in: os.Stdin, out: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg.Scope == "" {
		return nil, errors.New("app: scope cannot be empty")
	}
	a.log = a.log.With("scope", a.cfg.Scope)

	if a.backend == nil {
		b, err := a.newBackend()
		if err != nil {
			return nil, err
		}
		a.backend = b
	}
	if a.prompter == nil {
		p, err := a.newPrompter()
		if err != nil {
			return nil, err
		}
		a.prompter = p
	}
	if a.registry == nil {
		if err := a.openRegistry(); err != nil {
			return nil, err
		}
	}

	a.host = platform.NewHost(a.cfg.Scope, a.backend, a.registry, a.prompter,
		platform.WithLogger(a.log.With("component", "platform", "backend", a.backend.Name())))
	return a, nil
}

func (a *App) newBackend() (platform.Backend, error) {
	switch a.cfg.Platform {
	case desktop.Name, "":
		return desktop.New(desktop.WithDefaultIcon(a.cfg.DefaultIcon)), nil
	case tmuxdisplay.Name:
		client := tmux.NewDefaultClient(tmux.WithLogger(a.log.With("component", "tmux")))
		return tmuxdisplay.New(client, a.cfg.TmuxDisplay), nil
	case console.Name:
		return console.New(a.out), nil
	default:
		return nil, fmt.Errorf("app: unknown platform %q: must be one of desktop, tmux, console", a.cfg.Platform)
	}
}

func (a *App) newPrompter() (platform.Prompter, error) {
	switch a.cfg.Prompt {
	case "interactive", "":
		return prompt.New(prompt.TerminalRunner{In: a.in, Out: a.out}), nil
	case "grant":
		return platform.StaticPrompter(true), nil
	case "deny":
		return platform.StaticPrompter(false), nil
	default:
		return nil, fmt.Errorf("app: unknown prompt %q: must be one of interactive, grant, deny", a.cfg.Prompt)
	}
}

func (a *App) openRegistry() error {
	if a.cfg.StateDir == "" {
		a.log.Warn("no state directory; permission and registrations are kept in memory")
		a.registry = platform.NewMemoryRegistry()
		return nil
	}
	reg, err := sqlite.NewRegistry(filepath.Join(a.cfg.StateDir, RegistryFile))
	if err != nil {
		return fmt.Errorf("app: open registry: %w", err)
	}
	a.registry = reg
	a.closer = reg
	return nil
}

// Scope returns the application scope.
func (a *App) Scope() string {
	return a.cfg.Scope
}

// Backend returns the backend name.
func (a *App) Backend() string {
	return a.backend.Name()
}

// Platform returns the assembled platform.
func (a *App) Platform() platform.Platform {
	return a.host
}

// Notifications returns the notification service, creating it on first call.
// Every call returns the same instance.
func (a *App) Notifications() *notification.Service {
	a.once.Do(func() {
		a.svc = notification.New(a.host,
			notification.WithLogger(a.log),
			notification.WithHooks(hooks.NewRunner(a.cfg.Hooks, a.log)),
		)
	})
	return a.svc
}

// Controller returns a controller over the shared service. Each call reads
// support and permission afresh and starts a background Init.
func (a *App) Controller(ctx context.Context) *notification.Controller {
	return notification.NewController(ctx, a.Notifications(), a.log)
}

// Close releases the registry.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
