package gforms

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/forms/v1"
)

// CredentialSource yields the token source used to call the forms
// provider.
type CredentialSource interface {
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}

// FileCredentialSource reads an installed-app client secret and a
// previously persisted token. It never runs the interactive consent flow;
// obtaining the first token is a deployment step. Refreshed tokens are
// written back so restarts keep a valid token.
type FileCredentialSource struct {
	CredentialsPath string
	TokenPath       string

	mu   sync.Mutex // serializes refresh and token-file writes
	last string     // access token last persisted
}

func (s *FileCredentialSource) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	secrets, err := os.ReadFile(s.CredentialsPath)
	if err != nil {
		return nil, newError(ErrAuth, "", fmt.Errorf("read client secrets: %w", err))
	}
	cfg, err := google.ConfigFromJSON(secrets, forms.FormsBodyScope)
	if err != nil {
		return nil, newError(ErrAuth, "", fmt.Errorf("parse client secrets: %w", err))
	}

	raw, err := os.ReadFile(s.TokenPath)
	if err != nil {
		return nil, newError(ErrAuth, "", fmt.Errorf("read token: %w", err))
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(raw, tok); err != nil {
		return nil, newError(ErrAuth, "", fmt.Errorf("parse token: %w", err))
	}

	s.last = tok.AccessToken
	return &persistingSource{src: cfg.TokenSource(ctx, tok), owner: s}, nil
}

// persistingSource wraps the refreshing oauth2 source. The owner's mutex
// keeps concurrent sessions from racing the same refresh.
type persistingSource struct {
	src   oauth2.TokenSource
	owner *FileCredentialSource
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	p.owner.mu.Lock()
	defer p.owner.mu.Unlock()

	tok, err := p.src.Token()
	if err != nil {
		return nil, newError(ErrAuth, "", err)
	}
	if tok.AccessToken != p.owner.last {
		p.owner.last = tok.AccessToken
		if raw, err := json.Marshal(tok); err == nil {
			_ = os.WriteFile(p.owner.TokenPath, raw, 0o600)
		}
	}
	return tok, nil
}
