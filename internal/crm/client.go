package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"market-access-platform/internal/identity"
)

// Client talks to the external CRM backend. The gateway never implements CRM
// business logic itself; everything goes through this REST contract.
//
// A 401 from the backend is the external signal that the session is invalid.

const (
	loginPath   = "/api/auth/login"
	refreshPath = "/api/auth/switch-company"
	logoutPath  = "/api/auth/logout"

	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
)

// APIError is a typed failure carrying the backend's human-readable message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("crm: %s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("crm: request failed (status %d)", e.StatusCode)
}

// ErrUnauthorized is returned on backend 401; callers must treat the session
// as expired.
var ErrUnauthorized = errors.New("crm: unauthorized")

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("crm: base URL is required")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type loginResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Token     string             `json:"token"`
		UserID    string             `json:"userId"`
		FullName  string             `json:"fullName"`
		Email     string             `json:"email"`
		Companies []identity.Company `json:"companies"`
	} `json:"data"`
}

// Login performs the credential exchange. On success it returns the identity
// and the bearer token; on rejection it returns an *APIError with the server's
// message and no identity.
func (c *Client) Login(ctx context.Context, usernameOrEmail, password string) (identity.Identity, string, error) {
	var out loginResponse
	status, err := c.post(ctx, loginPath, "", loginRequest{UsernameOrEmail: usernameOrEmail, Password: password}, &out)
	if err != nil {
		return identity.Identity{}, "", err
	}
	if status != http.StatusOK || !out.Status {
		return identity.Identity{}, "", &APIError{StatusCode: status, Message: out.Message}
	}
	if out.Data.Token == "" {
		return identity.Identity{}, "", &APIError{StatusCode: status, Message: "login response missing token"}
	}
	ident := identity.Identity{
		UserID:    out.Data.UserID,
		FullName:  out.Data.FullName,
		Email:     out.Data.Email,
		Companies: out.Data.Companies,
	}
	return ident, out.Data.Token, nil
}

type refreshRequest struct {
	CompanyID string `json:"companyId"`
}

type refreshResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		RefreshToken string `json:"refreshToken"`
	} `json:"data"`
}

// RefreshForCompany requests a token scoped to companyID. Satisfies
// session.TokenRefresher.
func (c *Client) RefreshForCompany(ctx context.Context, token, companyID string) (string, error) {
	var out refreshResponse
	status, err := c.post(ctx, refreshPath, token, refreshRequest{CompanyID: companyID}, &out)
	if err != nil {
		return "", err
	}
	if status == http.StatusUnauthorized {
		return "", ErrUnauthorized
	}
	if status != http.StatusOK || !out.Status {
		return "", &APIError{StatusCode: status, Message: out.Message}
	}
	if out.Data.RefreshToken == "" {
		return "", &APIError{StatusCode: status, Message: "refresh response missing token"}
	}
	return out.Data.RefreshToken, nil
}

// Logout tells the backend to invalidate the token. Best-effort: callers clear
// the local session regardless of the response shape.
func (c *Client) Logout(ctx context.Context, token string) error {
	status, err := c.post(ctx, logoutPath, token, struct{}{}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return &APIError{StatusCode: status}
	}
	return nil
}

func (c *Client) post(ctx context.Context, path, token string, body, out any) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("crm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("crm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(authorizationHeader, bearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("crm: %w", err)
	}
	defer resp.Body.Close()

	if out != nil {
		// Decode failures on error statuses are tolerated; the status code
		// already tells the caller what happened.
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && resp.StatusCode == http.StatusOK {
			return resp.StatusCode, fmt.Errorf("crm: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
