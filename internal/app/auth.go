package app

import (
	"context"
	"errors"
	"strings"

	"github.com/touchpos/touchpos/pkg/posapi"
)

// ErrNoSession is returned by Restore when there is no usable snapshot.
var ErrNoSession = errors.New("no saved session")

// Restore loads the saved session and checks it against the server. Any
// failure of that check discards the snapshot and is returned as is, so
// callers can tell a dead network from a rejected session.
func (a *App) Restore(ctx context.Context) (*posapi.User, error) {
	if !a.session.Load() {
		return nil, ErrNoSession
	}
	me, err := a.client.Me(ctx, a.session)
	if err != nil {
		a.log.Info("app: saved session not restored: %v", err)
		a.session.End()
		return nil, err
	}
	return me, nil
}

// Login validates the input, logs in and makes sure the server actually
// issued a session cookie.
func (a *App) Login(ctx context.Context, username, password string) (posapi.Result, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return posapi.Result{Message: MsgMissingCredentials}, nil
	}
	res, err := a.client.Login(ctx, a.session, username, password)
	if err != nil || !res.Success {
		return res, err
	}
	if !a.session.LoggedIn() {
		a.log.Warning("app: login for %q succeeded without a session cookie", username)
		return posapi.Result{Message: MsgNoSessionCookie}, nil
	}
	return posapi.Result{Success: true, Message: MsgLoginOK}, nil
}

// Logout ends the session locally whatever the server says.
func (a *App) Logout(ctx context.Context) bool {
	return a.client.Logout(ctx, a.session)
}

// Me returns the logged-in user.
func (a *App) Me(ctx context.Context) (*posapi.User, error) {
	return a.client.Me(ctx, a.session)
}
