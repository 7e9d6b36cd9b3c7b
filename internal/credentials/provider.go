// Package credentials obtains authorized sessions for the Gmail API.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
)

var (
	ErrNoToken               = errors.New("no stored token")
	ErrAuthorizationRequired = errors.New("authorization required, run 'mail-blast auth'")
)

// Session is an authorized provider session. Transports only use its token source.
type Session struct {
	TokenSource oauth2.TokenSource
}

// Provider hands out authorized sessions.
type Provider interface {
	// Session returns a usable session, refreshing or authorizing as needed.
	Session(ctx context.Context) (*Session, error)
	// Reauthorize discards the current access token and returns a new session.
	Reauthorize(ctx context.Context) (*Session, error)
}

// TokenStore persists tokens between runs.
type TokenStore interface {
	Load() (*oauth2.Token, error)
	Save(tok *oauth2.Token) error
}

// Authorizer runs an interactive consent flow.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// ConfigFromFile reads Google client secrets for the gmail.send scope.
func ConfigFromFile(path string) (*oauth2.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading client secrets: %w", err)
	}
	cfg, err := google.ConfigFromJSON(data, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secrets %s: %w", path, err)
	}
	return cfg, nil
}

// OAuth is a Provider backed by a token store and an optional authorizer.
type OAuth struct {
	config     *oauth2.Config
	store      TokenStore
	authorizer Authorizer
}

// NewOAuth creates a provider. With a nil authorizer, a missing or
// unrefreshable token is reported as ErrAuthorizationRequired.
func NewOAuth(cfg *oauth2.Config, store TokenStore, authorizer Authorizer) *OAuth {
	return &OAuth{config: cfg, store: store, authorizer: authorizer}
}

func (o *OAuth) Session(ctx context.Context) (*Session, error) {
	tok, err := o.store.Load()
	if errors.Is(err, ErrNoToken) {
		return o.authorize(ctx)
	}
	if err != nil {
		return nil, err
	}
	if tok.Valid() {
		return o.session(ctx, tok), nil
	}
	if tok.RefreshToken != "" {
		fresh, err := o.refresh(ctx, tok)
		if err == nil {
			return o.session(ctx, fresh), nil
		}
		if o.authorizer == nil {
			return nil, err
		}
	}
	return o.authorize(ctx)
}

func (o *OAuth) Reauthorize(ctx context.Context) (*Session, error) {
	tok, err := o.store.Load()
	if err != nil && !errors.Is(err, ErrNoToken) {
		return nil, err
	}
	if tok != nil && tok.RefreshToken != "" {
		if fresh, err := o.refresh(ctx, tok); err == nil {
			return o.session(ctx, fresh), nil
		}
	}
	return o.authorize(ctx)
}

func (o *OAuth) refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	fresh, err := o.config.TokenSource(ctx, &oauth2.Token{RefreshToken: tok.RefreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	if err := o.store.Save(fresh); err != nil {
		return nil, fmt.Errorf("saving refreshed token: %w", err)
	}
	return fresh, nil
}

func (o *OAuth) authorize(ctx context.Context) (*Session, error) {
	if o.authorizer == nil {
		return nil, ErrAuthorizationRequired
	}
	tok, err := o.authorizer.Authorize(ctx, o.config)
	if err != nil {
		return nil, fmt.Errorf("authorizing: %w", err)
	}
	if err := o.store.Save(tok); err != nil {
		return nil, fmt.Errorf("saving token: %w", err)
	}
	return o.session(ctx, tok), nil
}

// session outlives ctx's cancellation so later refreshes still work.
func (o *OAuth) session(ctx context.Context, tok *oauth2.Token) *Session {
	base := o.config.TokenSource(context.WithoutCancel(ctx), tok)
	return &Session{TokenSource: &persistingSource{base: base, store: o.store, last: tok.AccessToken}}
}

// persistingSource saves every token the underlying source refreshes.
type persistingSource struct {
	mu    sync.Mutex
	base  oauth2.TokenSource
	store TokenStore
	last  string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		if err := p.store.Save(tok); err != nil {
			return nil, fmt.Errorf("saving refreshed token: %w", err)
		}
		p.last = tok.AccessToken
	}
	return tok, nil
}
