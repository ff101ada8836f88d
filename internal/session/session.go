// package session owns the Google OAuth2 session lifecycle: load a persisted
// token, run the installed-app authorization flow when there is none, and
// persist refreshed tokens on teardown.
//
// Both entry commands (dedupe and import) acquire their API client through
// the same Session, so there is exactly one place that knows how
// authentication works.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"

	"ytsweep/internal/server"
	"ytsweep/internal/shared"
)

// authTimeout bounds how long we wait for the user to finish the browser
// authorization.
const authTimeout = 2 * time.Minute

// Session wraps an OAuth2 token and its configuration with an explicit
// lifecycle: Load (or LoadOrAuthenticate) to initialize, Save to persist.
type Session struct {
	oauth     *oauth2.Config
	token     *oauth2.Token
	tokenPath string
	addr      string
	logger    *log.Logger
}

// New validates the configured credentials and builds an unauthenticated
// session. Missing credentials abort with remediation instructions; there is
// nothing useful to do without them.
func New(config *shared.Config, logger *log.Logger) (*Session, error) {
	creds := config.Credentials.Google
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf(
			"%w: set credentials.google.client_id and client_secret in config.toml "+
				"(create an OAuth 2.0 client for the YouTube Data API v3 at https://console.cloud.google.com/)",
			shared.ErrMissingCredentials)
	}

	tokenPath := creds.TokenPath
	if tokenPath == "" {
		tokenPath = "token.json"
	}

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &Session{
		oauth: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  fmt.Sprintf("http://%s/callback", addr),
			Scopes:       []string{youtube.YoutubeForceSslScope},
			Endpoint:     google.Endpoint,
		},
		tokenPath: tokenPath,
		addr:      addr,
		logger:    logger,
	}, nil
}

// Load reads a previously persisted token from disk.
func (s *Session) Load() error {
	data, err := os.ReadFile(s.tokenPath)
	if err != nil {
		return fmt.Errorf("%w: no stored token at %s", shared.ErrNotAuthenticated, s.tokenPath)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("%w: corrupt token file %s: %v", shared.ErrInvalidCredentials, s.tokenPath, err)
	}

	s.token = &token
	return nil
}

// Authenticated reports whether the session holds a usable token: either
// still valid or refreshable.
func (s *Session) Authenticated() bool {
	return s.token != nil && (s.token.Valid() || s.token.RefreshToken != "")
}

// Token returns the current token, or nil when unauthenticated.
func (s *Session) Token() *oauth2.Token {
	return s.token
}

// LoadOrAuthenticate initializes the session from the persisted token when
// one exists, falling back to the interactive authorization flow.
func (s *Session) LoadOrAuthenticate(ctx context.Context, out io.Writer) error {
	if err := s.Load(); err == nil && s.Authenticated() {
		return nil
	}
	return s.Authenticate(ctx, out)
}

// Authenticate runs the installed-app OAuth2 flow: start a local callback
// server, open the browser at the consent page, wait for the redirect, and
// persist the granted token.
func (s *Session) Authenticate(ctx context.Context, out io.Writer) error {
	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	handler := server.NewOAuthHandler(s.oauth, state)
	router := server.NewBasicRouter()
	router.Handler(handler)

	httpServer := &http.Server{Addr: s.addr, Handler: router}
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Infof("starting OAuth callback server at %v", s.addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	time.Sleep(100 * time.Millisecond)

	// AccessTypeOffline asks Google for a refresh token so future runs skip
	// the browser entirely.
	authURL := s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)

	fmt.Fprint(out, "→ Opening browser for Google authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		s.logger.Warnf("failed to open browser automatically %v", err)
		fmt.Fprintf(out, "⚠ Could not open browser automatically.\nPlease open this URL in your browser:\n%s\n\n", authURL)
	}

	fmt.Fprint(out, "→ Waiting for authorization (2 minute timeout)...\n")

	timeout := time.NewTimer(authTimeout)
	defer timeout.Stop()

	var result server.OAuthResult
	select {
	case result = <-handler.Result():
	case err := <-serverErrors:
		return fmt.Errorf("%w: callback server error: %v", shared.ErrAuthFailed, err)
	case <-timeout.C:
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	case <-ctx.Done():
		return ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("error shutting down callback server", "error", err)
	}

	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}
	if result.Token == nil {
		return fmt.Errorf("%w: no token received", shared.ErrAuthFailed)
	}

	s.token = result.Token
	return s.Save()
}

// Save persists the current token as JSON at the configured path.
func (s *Session) Save() error {
	if s.token == nil {
		return shared.ErrNotAuthenticated
	}

	if dir := filepath.Dir(s.tokenPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(s.tokenPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// Client returns an HTTP client that refreshes the access token as needed and
// persists each refreshed token, so the next run reuses it.
func (s *Session) Client(ctx context.Context) (*http.Client, error) {
	if s.token == nil {
		return nil, shared.ErrNotAuthenticated
	}

	src := &persistingSource{
		session: s,
		src:     s.oauth.TokenSource(ctx, s.token),
	}
	return oauth2.NewClient(ctx, src), nil
}

// persistingSource wraps a TokenSource and saves refreshed tokens back to
// disk.
type persistingSource struct {
	session *Session
	src     oauth2.TokenSource
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	token, err := p.src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if token.AccessToken != p.session.token.AccessToken {
		p.session.token = token
		if err := p.session.Save(); err != nil {
			p.session.logger.Warn("failed to persist refreshed token", "error", err)
		}
	}

	return token, nil
}
