// Package hooks runs user scripts at points of the notification lifecycle.
//
// Scripts live in <hooks_dir>/<point>/ and run in name order. Each receives
// the lifecycle details as PUSHBELL_* environment variables.
package hooks

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/config"
	"github.com/cristianoliveira/pushbell/internal/logging"
)

// Hook points.
const (
	PermissionChanged = "permission-changed"
	PostSubscribe     = "post-subscribe"
	PostUnsubscribe   = "post-unsubscribe"
	PreSend           = "pre-send"
	PostSend          = "post-send"
)

// Failure modes.
const (
	FailureIgnore = "ignore"
	FailureWarn   = "warn"
	FailureAbort  = "abort"
)

// Executor is what the notification service needs from the hooks subsystem.
type Executor interface {
	Run(ctx context.Context, point string, env map[string]string) error
}

// Config holds the hooks configuration.
type Config struct {
	Enabled     bool
	Dir         string
	FailureMode string
}

// FromGlobalConfig reads the hooks settings from the loaded configuration.
func FromGlobalConfig() Config {
	return Config{
		Enabled:     config.GetBool("hooks_enabled", true),
		Dir:         config.Get("hooks_dir", ""),
		FailureMode: config.Get("hooks_failure_mode", FailureWarn),
	}
}

// Runner executes hook scripts synchronously.
type Runner struct {
	cfg Config
	log logging.Logger
	now func() time.Time
}

// NewRunner returns a Runner for cfg. A nil logger disables logging.
func NewRunner(cfg Config, log logging.Logger) *Runner {
	if log == nil {
		log = logging.Nop()
	}
	if cfg.FailureMode == "" {
		cfg.FailureMode = FailureWarn
	}
	return &Runner{cfg: cfg, log: log.With("component", "hooks"), now: time.Now}
}

// Scripts lists the executable scripts for point in run order.
func (r *Runner) Scripts(point string) ([]string, error) {
	if !r.cfg.Enabled || r.cfg.Dir == "" {
		return nil, nil
	}
	dir := filepath.Join(r.cfg.Dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("hooks: read %s: %w", dir, err)
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scripts)
	return scripts, nil
}

// Run executes every script of point with env added to the process
// environment. In abort mode the first failure stops the run and is returned;
// warn prints a warning and continues; ignore only logs.
func (r *Runner) Run(ctx context.Context, point string, env map[string]string) error {
	scripts, err := r.Scripts(point)
	if err != nil {
		return err
	}
	if len(scripts) == 0 {
		return nil
	}

	base := os.Environ()
	base = append(base,
		"PUSHBELL_HOOK_POINT="+point,
		"PUSHBELL_HOOK_TIMESTAMP="+r.now().Format(time.RFC3339),
		"PUSHBELL_HOOKS_FAILURE_MODE="+r.cfg.FailureMode,
	)
	if exe, err := os.Executable(); err == nil {
		base = append(base, "PUSHBELL_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		base = append(base, k+"="+env[k])
	}

	for _, script := range scripts {
		if err := r.runScript(ctx, point, script, base); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runScript(ctx context.Context, point, script string, env []string) error {
	name := filepath.Base(script)
	start := time.Now()
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = env
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	duration := time.Since(start).Seconds()
	if err == nil {
		r.log.Debug("hook completed", "point", point, "script", name, "duration_seconds", duration)
		return nil
	}

	r.log.Warn("hook failed", "point", point, "script", name, "error", err, "output", out.String())
	switch r.cfg.FailureMode {
	case FailureAbort:
		return fmt.Errorf("hook %s/%s failed: %w", point, name, err)
	case FailureIgnore:
		return nil
	default:
		colors.Warning(fmt.Sprintf("hook %s/%s failed: %v", point, name, err))
		return nil
	}
}

// Nop is an Executor that does nothing.
type Nop struct{}

// Run implements Executor.
func (Nop) Run(context.Context, string, map[string]string) error { return nil }
