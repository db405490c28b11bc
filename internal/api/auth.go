package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/marquee/internal/domain"
)

var _ domain.AuthRepository = (*Client)(nil)

// Login exchanges credentials for a bearer token
func (c *Client) Login(ctx context.Context, identifier, secret string) (*domain.AuthResult, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body: map[string]string{
			"email":    identifier,
			"password": secret,
		},
	})
	if err != nil {
		return nil, err
	}
	return parseAuth(body)
}

// Register creates an account and returns its bearer token
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	body, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body: map[string]string{
			"username":  req.Username,
			"email":     req.Email,
			"password":  req.Password,
			"full_name": req.FullName,
		},
	})
	if err != nil {
		return nil, err
	}
	return parseAuth(body)
}

func parseAuth(body []byte) (*domain.AuthResult, error) {
	var resp AuthResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	token := firstNonEmpty(string(resp.Token), string(resp.AccessToken))
	if token == "" {
		return nil, fmt.Errorf("auth response carried no token: %w", domain.ErrUnexpectedStatus)
	}
	return &domain.AuthResult{
		Token: token,
		User:  MapUser(resp.User),
	}, nil
}

// Me validates token against the identity endpoint
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	body, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "/api/auth/me",
		token:  token,
	})
	if err != nil {
		return nil, err
	}

	var resp MeResponse
	if err := decode(body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		// Some deployments return the profile unwrapped
		var dto UserDTO
		if err := decode(body, &dto); err != nil {
			return nil, err
		}
		resp.User = &dto
	}
	return MapUser(resp.User), nil
}

// Logout invalidates token server-side
func (c *Client) Logout(ctx context.Context, token string) error {
	_, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		token:  token,
	})
	return err
}
