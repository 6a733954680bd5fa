package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/taskflow/taskflow-api/internal/dto"
	"github.com/taskflow/taskflow-api/internal/schema"
)

// Login signs in with email and password and keeps the returned identity.
func (c *Client) Login(ctx context.Context, input schema.LoginInput) (dto.UserDTO, error) {
	if err := schema.Validate(input); err != nil {
		return dto.UserDTO{}, err
	}

	var resp dto.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", false, input, &resp); err != nil {
		return dto.UserDTO{}, err
	}
	c.setIdentity(resp.Token, &resp.User)
	return resp.User, nil
}

// Register creates an account and signs in as it.
func (c *Client) Register(ctx context.Context, input schema.RegisterInput) (dto.UserDTO, error) {
	if err := schema.Validate(input); err != nil {
		return dto.UserDTO{}, err
	}

	var resp dto.RegisteredUserDTO
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", false, input, &resp); err != nil {
		return dto.UserDTO{}, err
	}
	c.setIdentity(resp.Token, &resp.UserDTO)
	return resp.UserDTO, nil
}

// ConsumeToken adopts a token handed over by the OAuth redirect and loads its user.
func (c *Client) ConsumeToken(ctx context.Context, token string) (dto.UserDTO, error) {
	c.setIdentity(token, nil)
	return c.Me(ctx)
}

// Me fetches the signed-in user.
func (c *Client) Me(ctx context.Context) (dto.UserDTO, error) {
	var user dto.UserDTO
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", true, nil, &user); err != nil {
		return dto.UserDTO{}, err
	}

	c.mu.Lock()
	c.user = &user
	c.mu.Unlock()
	return user, nil
}

// Logout revokes the token on the server. The local identity is cleared either way.
func (c *Client) Logout(ctx context.Context) error {
	if c.Token() == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", true, nil, nil)
	c.clearIdentity()
	if errors.Is(err, ErrUnauthenticated) {
		return nil
	}
	return err
}
