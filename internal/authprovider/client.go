package authprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to the hosted auth service that owns accounts, passwords and
// sessions. It is constructed once per process and injected; no module-level
// singleton is built from environment variables.
type Client struct {
	baseURL        string
	anonKey        string
	serviceRoleKey string
	httpClient     *http.Client
	logger         *slog.Logger
}

type Config struct {
	BaseURL        string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// SignupMetadata is the free-form metadata attached to the account at signup
// time. The provider stores it verbatim and echoes it in the user object and
// in the creation webhook.
type SignupMetadata struct {
	FirstName        *string `json:"first_name,omitempty"`
	LastName         *string `json:"last_name,omitempty"`
	OrganisationName string  `json:"organisation_name"`
}

type SignUpRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     SignupMetadata `json:"data"`
}

type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata SignupMetadata `json:"user_metadata"`
}

type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// SignUpResult carries the created user and, when the provider issued one
// immediately, the fresh session. Session is nil when the provider requires
// email confirmation before issuing tokens.
type SignUpResult struct {
	User    *User
	Session *Session
}

// SignUp creates an account with the anon (user-scoped) credential.
func (c *Client) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signup request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/signup", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create signup request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", c.anonKey)
	httpReq.Header.Set("Authorization", "Bearer "+c.anonKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("signup request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Msg              string `json:"msg"`
			ErrorDescription string `json:"error_description"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		message := apiErr.Msg
		if message == "" {
			message = apiErr.ErrorDescription
		}
		c.logger.Error("auth provider rejected signup",
			"status_code", resp.StatusCode,
			"message", message)
		return nil, fmt.Errorf("auth provider returned status %d: %s", resp.StatusCode, message)
	}

	// The provider returns either a bare user (email confirmation mode) or a
	// session envelope wrapping the user.
	var raw struct {
		AccessToken  string         `json:"access_token"`
		TokenType    string         `json:"token_type"`
		RefreshToken string         `json:"refresh_token"`
		ExpiresIn    int64          `json:"expires_in"`
		User         *User          `json:"user"`
		ID           string         `json:"id"`
		Email        string         `json:"email"`
		UserMetadata SignupMetadata `json:"user_metadata"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %w", err)
	}

	result := &SignUpResult{}
	if raw.AccessToken != "" {
		result.Session = &Session{
			AccessToken:  raw.AccessToken,
			TokenType:    raw.TokenType,
			RefreshToken: raw.RefreshToken,
			ExpiresIn:    raw.ExpiresIn,
		}
		result.User = raw.User
	} else {
		result.User = &User{
			ID:           raw.ID,
			Email:        raw.Email,
			UserMetadata: raw.UserMetadata,
		}
	}

	if result.User == nil || result.User.ID == "" {
		return nil, fmt.Errorf("auth provider returned no user")
	}

	c.logger.Info("auth provider signup accepted",
		"user_id", result.User.ID,
		"session_issued", result.Session != nil)

	return result, nil
}
