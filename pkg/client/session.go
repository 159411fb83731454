package client

import (
	"context"

	"github.com/rs/zerolog"
)

// State is the initialization phase of a Session.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

// Snapshot is an immutable view of the session at one point in time. Guards
// and views consume snapshots, never the live session, so a decision made on
// one snapshot cannot be invalidated mid-flight.
type Snapshot struct {
	State State
	User  *User
	Token string
}

// Authenticated reports whether the snapshot carries a resolved identity.
func (s Snapshot) Authenticated() bool {
	return s.State == StateReady && s.User != nil && s.Token != ""
}

// Session owns the authentication state of the front-end: the current token,
// the resolved user, and the persisted copy of the token. It is the single
// writer of identity; everything else reads snapshots.
type Session struct {
	client *Client
	tokens TokenStore
	log    zerolog.Logger

	state State
	user  *User
	token string
}

func NewSession(client *Client, tokens TokenStore, log zerolog.Logger) *Session {
	return &Session{
		client: client,
		tokens: tokens,
		log:    log,
		state:  StateUninitialized,
	}
}

// Snapshot returns the current state as a value.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{State: s.state, User: s.user, Token: s.token}
}

// Bootstrap restores identity from the persisted token, exactly once at
// startup. A present token is verified against the server; any failure, from
// a dead network to a revoked token, discards it and lands in the anonymous
// ready state. Bootstrap never returns an error and is not retried.
func (s *Session) Bootstrap(ctx context.Context) {
	s.state = StateLoading

	token, err := s.tokens.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("token store unreadable, starting anonymous")
		s.becomeAnonymous()
		return
	}
	if token == "" {
		s.becomeAnonymous()
		return
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.log.Info().Err(err).Msg("persisted token rejected, discarding")
		if err := s.tokens.Clear(); err != nil {
			s.log.Warn().Err(err).Msg("token store clear failed")
		}
		s.becomeAnonymous()
		return
	}

	s.state = StateReady
	s.user = user
	s.token = token
}

// Login installs a verified identity and persists its token. The token is
// exchanged for a user profile before anything is committed, so a login that
// cannot resolve its own user never becomes current.
func (s *Session) Login(ctx context.Context, username, password string) error {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.client.ClearToken()
		return err
	}

	s.state = StateReady
	s.user = user
	s.token = token
	if err := s.tokens.Save(token); err != nil {
		s.log.Warn().Err(err).Msg("token persistence failed, session will not survive restart")
	}
	return nil
}

// Logout revokes the session server-side on a best-effort basis, then
// unconditionally clears local identity. The user is logged out locally even
// when the server is unreachable.
func (s *Session) Logout(ctx context.Context) {
	if s.token != "" {
		if err := s.client.Logout(ctx); err != nil {
			s.log.Info().Err(err).Msg("server logout failed, clearing locally")
		}
	}
	if err := s.tokens.Clear(); err != nil {
		s.log.Warn().Err(err).Msg("token store clear failed")
	}
	s.becomeAnonymous()
}

func (s *Session) becomeAnonymous() {
	s.client.ClearToken()
	s.state = StateReady
	s.user = nil
	s.token = ""
}
