package hooks

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/config"
)

func writeScript(t *testing.T, dir, point, name, body string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts need a POSIX shell")
	}
	pointDir := filepath.Join(dir, point)
	require.NoError(t, os.MkdirAll(pointDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pointDir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755))
}

func newRunner(dir, mode string) *Runner {
	return NewRunner(Config{Enabled: true, Dir: dir, FailureMode: mode}, nil)
}

func TestRunWithoutHooksDir(t *testing.T) {
	r := newRunner(filepath.Join(t.TempDir(), "missing"), FailureAbort)
	require.NoError(t, r.Run(context.Background(), PostSend, nil))
}

func TestRunDisabled(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PostSend, "01-fail", "exit 1")
	r := NewRunner(Config{Enabled: false, Dir: dir, FailureMode: FailureAbort}, nil)
	require.NoError(t, r.Run(context.Background(), PostSend, nil))
}

func TestScriptsOrderAndExecutableOnly(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, PreSend, "20-second", "true")
	writeScript(t, dir, PreSend, "10-first", "true")
	require.NoError(t, os.WriteFile(filepath.Join(dir, PreSend, "README"), []byte("notes"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, PreSend, "lib"), 0o755))

	scripts, err := newRunner(dir, FailureWarn).Scripts(PreSend)
	require.NoError(t, err)
	require.Len(t, scripts, 2)
	assert.Equal(t, "10-first", filepath.Base(scripts[0]))
	assert.Equal(t, "20-second", filepath.Base(scripts[1]))
}

func TestRunPassesEnvironment(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "env")
	writeScript(t, dir, PostSubscribe, "dump",
		`echo "$PUSHBELL_HOOK_POINT|$PUSHBELL_SCOPE|$PUSHBELL_HOOKS_FAILURE_MODE" > `+out)

	err := newRunner(dir, FailureWarn).Run(context.Background(), PostSubscribe, map[string]string{"PUSHBELL_SCOPE": "builds"})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "post-subscribe|builds|warn", strings.TrimSpace(string(data)))
}

func TestFailureModes(t *testing.T) {
	var stderr bytes.Buffer
	colors.SetOutput(&bytes.Buffer{}, &stderr)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })

	dir := t.TempDir()
	marker := filepath.Join(t.TempDir(), "ran")
	writeScript(t, dir, PreSend, "01-fail", "exit 3")
	writeScript(t, dir, PreSend, "02-after", "touch "+marker)

	err := newRunner(dir, FailureAbort).Run(context.Background(), PreSend, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-send/01-fail")
	assert.NoFileExists(t, marker)

	require.NoError(t, newRunner(dir, FailureIgnore).Run(context.Background(), PreSend, nil))
	assert.FileExists(t, marker)
	assert.Empty(t, stderr.String())

	require.NoError(t, os.Remove(marker))
	require.NoError(t, newRunner(dir, FailureWarn).Run(context.Background(), PreSend, nil))
	assert.FileExists(t, marker)
	assert.Contains(t, stderr.String(), "01-fail")
}

func TestFromGlobalConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PUSHBELL_CONFIG_PATH", filepath.Join(dir, "none.toml"))
	t.Setenv("PUSHBELL_HOOKS_DIR", filepath.Join(dir, "hooks"))
	t.Setenv("PUSHBELL_HOOKS_FAILURE_MODE", "abort")
	config.Load()

	cfg := FromGlobalConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, filepath.Join(dir, "hooks"), cfg.Dir)
	assert.Equal(t, FailureAbort, cfg.FailureMode)
}

func TestNopExecutor(t *testing.T) {
	var e Executor = Nop{}
	require.NoError(t, e.Run(context.Background(), PostSend, nil))
	var _ Executor = newRunner("", "")
}
