package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/pushbell/internal/colors"
	"github.com/cristianoliveira/pushbell/internal/notification"
	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

// fakeClient implements every use-case client.
type fakeClient struct {
	supported  bool
	granted    bool
	askErr     error
	state      permission.State
	sub        *platform.Subscription
	stored     *platform.Subscription
	storedErr  error
	subErr     error
	removed    bool
	unsubErr   error
	sendErr    error
	resetErr   error
	sentTitle  string
	sentOpts   platform.Options
	resetCalls int
}

func (f *fakeClient) Scope() string   { return "builds" }
func (f *fakeClient) Backend() string { return "console" }
func (f *fakeClient) IsSupported() bool {
	return f.supported
}
func (f *fakeClient) Snapshot() notification.Snapshot {
	return notification.Snapshot{Supported: f.supported, Permission: f.state, Phase: permission.PhaseOf(f.state), Subscription: f.sub}
}
func (f *fakeClient) StoredSubscription(context.Context) (*platform.Subscription, error) {
	return f.stored, f.storedErr
}
func (f *fakeClient) AskPermission(context.Context) (bool, error) {
	if f.askErr != nil {
		return false, f.askErr
	}
	if f.granted {
		f.state = permission.Granted
	} else {
		f.state = permission.Denied
	}
	return f.granted, nil
}
func (f *fakeClient) Permission() permission.State { return f.state }
func (f *fakeClient) Subscribe(context.Context) (*platform.Subscription, error) {
	return f.sub, f.subErr
}
func (f *fakeClient) Unsubscribe(context.Context) (bool, error) { return f.removed, f.unsubErr }
func (f *fakeClient) SendNotification(_ context.Context, title string, opts platform.Options) error {
	f.sentTitle, f.sentOpts = title, opts
	return f.sendErr
}
func (f *fakeClient) Reset(context.Context) error {
	f.resetCalls++
	return f.resetErr
}

func captureColors(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	colors.SetOutput(&out, &errOut)
	t.Cleanup(func() { colors.SetOutput(nil, nil) })
	return &out, &errOut
}

func TestUseCaseConstructorsPanicOnNil(t *testing.T) {
	assert.PanicsWithValue(t, "NewStatusUseCase: client dependency cannot be nil", func() { NewStatusUseCase(nil) })
	assert.Panics(t, func() { NewPermissionUseCase(nil) })
	assert.Panics(t, func() { NewSubscribeUseCase(nil) })
	assert.Panics(t, func() { NewUnsubscribeUseCase(nil) })
	assert.Panics(t, func() { NewSendUseCase(nil) })
	assert.Panics(t, func() { NewResetUseCase(nil) })
}

func TestStatusText(t *testing.T) {
	client := &fakeClient{supported: true, state: permission.Granted, stored: &platform.Subscription{
		ID: "abc", Endpoint: "console://builds/abc", Auth: "secret",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}}
	var buf bytes.Buffer
	require.NoError(t, NewStatusUseCase(client).Execute(context.Background(), &buf, false))

	out := buf.String()
	assert.Contains(t, out, "scope:")
	assert.Contains(t, out, "builds")
	assert.Regexp(t, `supported:\s+yes`, out)
	assert.Regexp(t, `permission:\s+granted`, out)
	assert.Regexp(t, `registration:\s+abc`, out)
	assert.Contains(t, out, "2026-03-01 10:00:00 UTC")
	assert.NotContains(t, out, "secret")
}

func TestStatusTextWithoutRegistration(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewStatusUseCase(&fakeClient{supported: true}).Execute(context.Background(), &buf, false))

	out := buf.String()
	assert.Regexp(t, `phase:\s+unrequested`, out)
	assert.Regexp(t, `registration:\s+none`, out)
	assert.NotContains(t, out, "endpoint:")
}

func TestStatusTableKeepsEveryRow(t *testing.T) {
	out := statusTable([][]string{{"a:", "1"}, {"bb:", "2"}, {"c:", "3"}})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^a:\s+1`, lines[0])
	assert.Regexp(t, `^c:\s+3`, lines[2])
	assert.Equal(t, strings.Index(lines[0], "1"), strings.Index(lines[1], "2"), "values are aligned")
}

func TestStatusJSON(t *testing.T) {
	client := &fakeClient{supported: false, state: permission.Default}
	var buf bytes.Buffer
	require.NoError(t, NewStatusUseCase(client).Execute(context.Background(), &buf, true))

	var report StatusReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, "builds", report.Scope)
	assert.False(t, report.Supported)
	assert.Equal(t, "default", report.Permission)
	assert.Equal(t, "unrequested", report.Phase)
	assert.Nil(t, report.Registration)
}

func TestStatusError(t *testing.T) {
	boom := errors.New("db locked")
	err := NewStatusUseCase(&fakeClient{storedErr: boom}).Execute(context.Background(), &bytes.Buffer{}, false)
	require.ErrorIs(t, err, boom)
}

func TestPermissionUseCase(t *testing.T) {
	_, errOut := captureColors(t)
	var buf bytes.Buffer
	granted, err := NewPermissionUseCase(&fakeClient{supported: true, granted: true}).Execute(context.Background(), &buf)
	require.NoError(t, err)
	assert.True(t, granted)
	assert.Equal(t, "permission: granted\n", buf.String())
	assert.Empty(t, errOut.String())

	buf.Reset()
	granted, err = NewPermissionUseCase(&fakeClient{supported: false}).Execute(context.Background(), &buf)
	require.NoError(t, err)
	assert.False(t, granted)
	assert.Equal(t, "permission: denied\n", buf.String())
	assert.Contains(t, errOut.String(), "not supported")
}

func TestPermissionUseCaseInterrupted(t *testing.T) {
	captureColors(t)
	var buf bytes.Buffer
	client := &fakeClient{supported: true, askErr: platform.ErrPromptAborted}
	granted, err := NewPermissionUseCase(client).Execute(context.Background(), &buf)
	require.ErrorIs(t, err, platform.ErrPromptAborted)
	assert.False(t, granted)
	assert.Empty(t, buf.String())
}

func TestSubscribeUseCase(t *testing.T) {
	_, errOut := captureColors(t)
	var buf bytes.Buffer

	sub, err := NewSubscribeUseCase(&fakeClient{sub: &platform.Subscription{ID: "abc", Endpoint: "console://builds/abc"}}).Execute(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", sub.ID)
	assert.Equal(t, "subscribed: abc\nendpoint: console://builds/abc\n", buf.String())

	buf.Reset()
	sub, err = NewSubscribeUseCase(&fakeClient{}).Execute(context.Background(), &buf)
	require.NoError(t, err)
	assert.Nil(t, sub)
	assert.Empty(t, buf.String())
	assert.Contains(t, errOut.String(), "permission not granted")

	boom := errors.New("disk full")
	_, err = NewSubscribeUseCase(&fakeClient{subErr: boom}).Execute(context.Background(), &buf)
	require.ErrorIs(t, err, boom)
}

func TestUnsubscribeUseCase(t *testing.T) {
	out, _ := captureColors(t)
	removed, err := NewUnsubscribeUseCase(&fakeClient{removed: true}).Execute(context.Background())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Contains(t, out.String(), "unsubscribed")

	removed, err = NewUnsubscribeUseCase(&fakeClient{}).Execute(context.Background())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Contains(t, out.String(), "no subscription")
}

func TestResetUseCase(t *testing.T) {
	captureColors(t)
	client := &fakeClient{}
	err := NewResetUseCase(client).Execute(context.Background(), false)
	require.Error(t, err)
	assert.Zero(t, client.resetCalls)

	require.NoError(t, NewResetUseCase(client).Execute(context.Background(), true))
	assert.Equal(t, 1, client.resetCalls)

	boom := errors.New("locked")
	require.ErrorIs(t, NewResetUseCase(&fakeClient{resetErr: boom}).Execute(context.Background(), true), boom)
}

func TestBuildOptions(t *testing.T) {
	title, opts, err := BuildOptions(SendInput{
		Args:    []string{"Build", "finished"},
		Body:    "all green",
		Tag:     "ci",
		Urgency: "critical",
		Silent:  true,
		Data:    []string{"sha=abc", "url=https://x/y?a=b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Build finished", title)
	assert.Equal(t, platform.UrgencyCritical, opts.Urgency)
	assert.True(t, opts.Silent)
	assert.Equal(t, map[string]string{"sha": "abc", "url": "https://x/y?a=b"}, opts.Data)

	_, opts, err = BuildOptions(SendInput{Args: []string{"x"}})
	require.NoError(t, err)
	assert.Equal(t, platform.UrgencyNormal, opts.Urgency)
	assert.Nil(t, opts.Data)

	_, _, err = BuildOptions(SendInput{Args: []string{"x"}, Urgency: "loud"})
	require.Error(t, err)
	_, _, err = BuildOptions(SendInput{Args: []string{"x"}, Data: []string{"novalue"}})
	require.Error(t, err)
}

func TestSendUseCase(t *testing.T) {
	out, _ := captureColors(t)
	client := &fakeClient{}
	require.NoError(t, NewSendUseCase(client).Execute(context.Background(), SendInput{Args: []string{"hi"}, Body: "there"}))
	assert.Equal(t, "hi", client.sentTitle)
	assert.Equal(t, "there", client.sentOpts.Body)
	assert.Contains(t, out.String(), "notification sent")

	require.ErrorIs(t,
		NewSendUseCase(&fakeClient{sendErr: notification.ErrEmptyTitle}).Execute(context.Background(), SendInput{}),
		notification.ErrEmptyTitle)
}

func TestSessionSatisfiesClients(t *testing.T) {
	var s *Session
	var _ StatusClient = s
	var _ PermissionClient = s
	var _ SubscribeClient = s
	var _ UnsubscribeClient = s
	var _ SendClient = s
	var _ ResetClient = s
}
