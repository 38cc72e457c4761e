package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// AuthResult holds what the game logic needs from a successful credential
// exchange. The session token is kept for the presentation layer; the core
// itself only consumes UserID.
type AuthResult struct {
	UserID  string
	Email   string
	IDToken string
}

// AuthError carries the identity provider's error message verbatim so it can
// be shown to the user unchanged.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// IdentityClient talks to the Google Identity Toolkit REST API for
// email/password signup and login.
type IdentityClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewIdentityClient creates a new identity provider client.
func NewIdentityClient(baseURL, apiKey string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type credentialPayload struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type credentialResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	IDToken string `json:"idToken"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn exchanges email/password for a stable user identifier.
func (c *IdentityClient) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.exchange(ctx, "accounts:signInWithPassword", email, password)
}

// SignUp creates a new account and returns its identifier.
func (c *IdentityClient) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.exchange(ctx, "accounts:signUp", email, password)
}

func (c *IdentityClient) exchange(ctx context.Context, action, email, password string) (*AuthResult, error) {
	url := fmt.Sprintf("%s/%s?key=%s", c.baseURL, action, c.apiKey)

	payload, err := json.Marshal(credentialPayload{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var provErr providerError
		if err := json.Unmarshal(body, &provErr); err == nil && provErr.Error.Message != "" {
			log.Debug().
				Str("action", action).
				Str("message", provErr.Error.Message).
				Msg("Identity provider rejected request")
			return nil, &AuthError{Message: provErr.Error.Message}
		}
		return nil, fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var cred credentialResponse
	if err := json.Unmarshal(body, &cred); err != nil {
		return nil, fmt.Errorf("failed to unmarshal identity response: %w", err)
	}

	return &AuthResult{
		UserID:  cred.LocalID,
		Email:   cred.Email,
		IDToken: cred.IDToken,
	}, nil
}
