package main

import (
	"context"
	"sync"

	"github.com/cristianoliveira/pushbell/internal/app"
	"github.com/cristianoliveira/pushbell/internal/logging"
)

// sessionClient is everything the commands need from an app session.
type sessionClient interface {
	app.StatusClient
	app.PermissionClient
	app.SubscribeClient
	app.UnsubscribeClient
	app.SendClient
	app.ResetClient
}

// clientProvider hands commands a session once configuration is loaded.
type clientProvider interface {
	Client(ctx context.Context) (sessionClient, error)
}

// lazyApp builds the App on first use, after the root command has loaded
// configuration and started logging.
type lazyApp struct {
	mu      sync.Mutex
	app     *app.App
	session *app.Session
}

// Client implements clientProvider.
func (l *lazyApp) Client(ctx context.Context) (sessionClient, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.session != nil {
		return l.session, nil
	}
	a, err := app.New(app.ConfigFromGlobal(), app.WithLogger(logging.GetGlobal()))
	if err != nil {
		return nil, err
	}
	l.app = a
	l.session = a.Session(ctx)
	return l.session, nil
}

// Close releases the App if it was built.
func (l *lazyApp) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.app == nil {
		return nil
	}
	<-l.session.Initialized()
	err := l.app.Close()
	l.app, l.session = nil, nil
	return err
}

var sessions = &lazyApp{}
