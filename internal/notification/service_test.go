package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cristianoliveira/pushbell/internal/permission"
	"github.com/cristianoliveira/pushbell/internal/platform"
)

type hookCall struct {
	point string
	env   map[string]string
}

// recordingHooks captures hook runs and can fail a chosen point.
type recordingHooks struct {
	mu     sync.Mutex
	calls  []hookCall
	failOn string
}

func (h *recordingHooks) Run(_ context.Context, point string, env map[string]string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, hookCall{point: point, env: env})
	if point == h.failOn {
		return errors.New("hook exited 1")
	}
	return nil
}

func (h *recordingHooks) points() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, c := range h.calls {
		out = append(out, c.point)
	}
	return out
}

func testSubscription(id string) *platform.Subscription {
	return &platform.Subscription{
		ID:        id,
		Scope:     "pushbell",
		Backend:   "console",
		Endpoint:  "console://pushbell/" + id,
		Auth:      "c2VjcmV0",
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewPanicsWithoutPlatform(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}

func TestNewHasNoSideEffects(t *testing.T) {
	p := new(platform.MockPlatform)
	svc := New(p)
	assert.NotNil(t, svc)
	assert.Nil(t, svc.Subscription())
	assert.False(t, svc.Initialized())
	p.AssertExpectations(t)
	assert.Empty(t, p.Calls)
}

func TestInitRegistersOnce(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Register", mock.Anything).Return(nil).Once()

	svc := New(p)
	require.NoError(t, svc.Init(context.Background()))
	require.NoError(t, svc.Init(context.Background()))

	assert.True(t, svc.Initialized())
	p.AssertNumberOfCalls(t, "Register", 1)
}

func TestInitConcurrentRegistersOnce(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Register", mock.Anything).Return(nil)

	svc := New(p)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Init(context.Background()))
		}()
	}
	wg.Wait()
	p.AssertNumberOfCalls(t, "Register", 1)
}

func TestInitUnsupportedIsSilent(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(false)

	svc := New(p)
	require.NoError(t, svc.Init(context.Background()))
	assert.False(t, svc.Initialized())
	p.AssertNotCalled(t, "Register", mock.Anything)
}

func TestInitFailureRetries(t *testing.T) {
	boom := errors.New("registry locked")
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Register", mock.Anything).Return(boom).Once()
	p.On("Register", mock.Anything).Return(nil).Once()

	svc := New(p)
	require.ErrorIs(t, svc.Init(context.Background()), boom)
	assert.False(t, svc.Initialized())
	require.NoError(t, svc.Init(context.Background()))
	require.NoError(t, svc.Init(context.Background()))
	p.AssertNumberOfCalls(t, "Register", 2)
}

func TestRequestPermission(t *testing.T) {
	tests := []struct {
		name      string
		before    permission.State
		result    permission.State
		err       error
		want      bool
		wantHooks []string
	}{
		{name: "granted", before: permission.Default, result: permission.Granted, want: true, wantHooks: []string{"permission-changed"}},
		{name: "declined", before: permission.Default, result: permission.Denied, want: false, wantHooks: []string{"permission-changed"}},
		{name: "already granted", before: permission.Granted, result: permission.Granted, want: true},
		{name: "still default", before: permission.Default, result: permission.Default, want: false},
		{name: "platform error", before: permission.Default, result: permission.Default, err: errors.New("no tty"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(platform.MockPlatform)
			p.On("Permission", mock.Anything).Return(tt.before, nil)
			p.On("RequestPermission", mock.Anything).Return(tt.result, tt.err)
			h := &recordingHooks{}

			svc := New(p, WithHooks(h))
			assert.Equal(t, tt.want, svc.RequestPermission(context.Background()))
			assert.Equal(t, tt.wantHooks, h.points())
		})
	}
}

func TestAskPermissionReportsInterruptions(t *testing.T) {
	aborted := fmt.Errorf("platform: permission prompt: %w", platform.ErrPromptAborted)
	tests := []struct {
		name    string
		err     error
		cancel  bool
		wantErr error
	}{
		{name: "prompt aborted", err: aborted, wantErr: platform.ErrPromptAborted},
		{name: "context canceled", err: context.Canceled, cancel: true, wantErr: context.Canceled},
		{name: "platform failure", err: errors.New("no tty")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				cancel()
			}
			p := new(platform.MockPlatform)
			p.On("Permission", mock.Anything).Return(permission.Default, nil)
			p.On("RequestPermission", mock.Anything).Return(permission.Default, tt.err)
			h := &recordingHooks{}

			granted, err := New(p, WithHooks(h)).AskPermission(ctx)
			assert.False(t, granted)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, h.points())
		})
	}
}

func TestRequestPermissionHookEnv(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Permission", mock.Anything).Return(permission.Default, nil)
	p.On("RequestPermission", mock.Anything).Return(permission.Granted, nil)
	h := &recordingHooks{failOn: "permission-changed"}

	svc := New(p, WithHooks(h))
	assert.True(t, svc.RequestPermission(context.Background()), "hook failure does not change the answer")
	require.Len(t, h.calls, 1)
	assert.Equal(t, "granted", h.calls[0].env["PUSHBELL_PERMISSION"])
	assert.Equal(t, "default", h.calls[0].env["PUSHBELL_PREVIOUS_PERMISSION"])
}

func TestSubscribeRequiresGranted(t *testing.T) {
	for _, state := range []permission.State{permission.Default, permission.Denied} {
		p := new(platform.MockPlatform)
		p.On("Supported").Return(true)
		p.On("Permission", mock.Anything).Return(state, nil)

		svc := New(p)
		sub, err := svc.Subscribe(context.Background())
		require.ErrorIs(t, err, platform.ErrPermissionNotGranted)
		assert.Nil(t, sub)
		p.AssertNotCalled(t, "RequestPermission", mock.Anything)
		p.AssertNotCalled(t, "Subscribe", mock.Anything)
	}
}

func TestSubscribeUnsupported(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(false)

	sub, err := New(p).Subscribe(context.Background())
	require.ErrorIs(t, err, platform.ErrUnsupported)
	assert.Nil(t, sub)
}

func TestSubscribeReplacesHeldHandle(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Subscribe", mock.Anything).Return(testSubscription("one"), nil).Once()
	p.On("Subscribe", mock.Anything).Return(testSubscription("two"), nil).Once()
	h := &recordingHooks{}

	svc := New(p, WithHooks(h))
	first, err := svc.Subscribe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "one", first.ID)

	second, err := svc.Subscribe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "two", second.ID)
	assert.Equal(t, "two", svc.Subscription().ID)

	assert.Equal(t, []string{"post-subscribe", "post-subscribe"}, h.points())
	assert.Equal(t, "console://pushbell/two", h.calls[1].env["PUSHBELL_ENDPOINT"])
	_, hasAuth := h.calls[1].env["PUSHBELL_AUTH"]
	assert.False(t, hasAuth)
}

func TestSubscribeFailureKeepsHeldHandle(t *testing.T) {
	boom := errors.New("disk full")
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Subscribe", mock.Anything).Return(testSubscription("one"), nil).Once()
	p.On("Subscribe", mock.Anything).Return(nil, boom).Once()

	svc := New(p)
	_, err := svc.Subscribe(context.Background())
	require.NoError(t, err)

	sub, err := svc.Subscribe(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, sub)
	assert.Equal(t, "one", svc.Subscription().ID)
}

func TestSubscriptionReturnsCopy(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Subscribe", mock.Anything).Return(testSubscription("one"), nil)

	svc := New(p)
	sub, err := svc.Subscribe(context.Background())
	require.NoError(t, err)
	sub.ID = "mutated"
	svc.Subscription().Endpoint = "mutated"

	held := svc.Subscription()
	assert.Equal(t, "one", held.ID)
	assert.Equal(t, "console://pushbell/one", held.Endpoint)
}

func TestUnsubscribe(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Subscribe", mock.Anything).Return(testSubscription("one"), nil)
	p.On("Unsubscribe", mock.Anything).Return(true, nil).Once()
	p.On("Unsubscribe", mock.Anything).Return(false, nil).Once()
	h := &recordingHooks{}

	svc := New(p, WithHooks(h))
	_, err := svc.Subscribe(context.Background())
	require.NoError(t, err)

	removed, err := svc.Unsubscribe(context.Background())
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Nil(t, svc.Subscription())

	removed, err = svc.Unsubscribe(context.Background())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, []string{"post-subscribe", "post-unsubscribe"}, h.points())
}

func TestUnsubscribeError(t *testing.T) {
	boom := errors.New("locked")
	p := new(platform.MockPlatform)
	p.On("Unsubscribe", mock.Anything).Return(false, boom)

	removed, err := New(p).Unsubscribe(context.Background())
	require.ErrorIs(t, err, boom)
	assert.False(t, removed)
}

func TestStoredSubscriptionIsNotAdopted(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Subscription", mock.Anything).Return(testSubscription("stored"), nil)

	svc := New(p)
	stored, err := svc.StoredSubscription(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "stored", stored.ID)
	assert.Nil(t, svc.Subscription())
}

func TestSendNotification(t *testing.T) {
	opts := platform.Options{Body: "done", Tag: "ci", Urgency: platform.UrgencyLow}
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Show", mock.Anything, "Build", opts).Return(nil)
	h := &recordingHooks{}

	svc := New(p, WithHooks(h))
	require.NoError(t, svc.SendNotification(context.Background(), "Build", opts))

	assert.Equal(t, []string{"pre-send", "post-send"}, h.points())
	assert.Equal(t, "Build", h.calls[0].env["PUSHBELL_TITLE"])
	assert.Equal(t, "low", h.calls[0].env["PUSHBELL_URGENCY"])
	assert.Nil(t, svc.Subscription())
	p.AssertExpectations(t)
}

func TestSendNotificationErrors(t *testing.T) {
	boom := errors.New("daemon gone")
	tests := []struct {
		name      string
		title     string
		supported bool
		state     permission.State
		showErr   error
		failOn    string
		wantErr   error
	}{
		{name: "empty title", title: "  ", supported: true, state: permission.Granted, wantErr: ErrEmptyTitle},
		{name: "unsupported", title: "x", supported: false, wantErr: platform.ErrUnsupported},
		{name: "not granted", title: "x", supported: true, state: permission.Denied, wantErr: platform.ErrPermissionNotGranted},
		{name: "display failure", title: "x", supported: true, state: permission.Granted, showErr: boom, wantErr: boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := new(platform.MockPlatform)
			p.On("Supported").Return(tt.supported)
			p.On("Permission", mock.Anything).Return(tt.state, nil)
			p.On("Show", mock.Anything, mock.Anything, mock.Anything).Return(tt.showErr)

			err := New(p).SendNotification(context.Background(), tt.title, platform.Options{})
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSendNotificationPreSendHookAborts(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	h := &recordingHooks{failOn: "pre-send"}

	err := New(p, WithHooks(h)).SendNotification(context.Background(), "x", platform.Options{})
	require.Error(t, err)
	p.AssertNotCalled(t, "Show", mock.Anything, mock.Anything, mock.Anything)
}

func TestSendNotificationPostSendHookFailureIsLogged(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Show", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	h := &recordingHooks{failOn: "post-send"}

	require.NoError(t, New(p, WithHooks(h)).SendNotification(context.Background(), "x", platform.Options{}))
}

func TestReset(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Granted, nil)
	p.On("Subscribe", mock.Anything).Return(testSubscription("one"), nil)
	p.On("Reset", mock.Anything).Return(nil)

	svc := New(p)
	_, err := svc.Subscribe(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.Reset(context.Background()))
	assert.Nil(t, svc.Subscription())
}

func TestAccessors(t *testing.T) {
	p := new(platform.MockPlatform)
	p.On("Name").Return("console")
	p.On("Supported").Return(true)
	p.On("Permission", mock.Anything).Return(permission.Denied, nil)

	svc := New(p)
	assert.Equal(t, "console", svc.Backend())
	assert.True(t, svc.Supported())
	state, err := svc.Permission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, permission.Denied, state)
}
