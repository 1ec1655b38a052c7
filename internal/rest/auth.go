package rest

import (
	"context"
	"net/http"

	"dirav/internal/api"
)

type userDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type sessionDTO struct {
	AccessToken string  `json:"access_token"`
	User        userDTO `json:"user"`
}

func (d sessionDTO) toSession() api.Session {
	return api.Session{
		Token:     d.AccessToken,
		UserID:    d.User.ID,
		Email:     d.User.Email,
		FirstName: d.User.FirstName,
		LastName:  d.User.LastName,
	}
}

// Register implements api.Authenticator. The returned session's token is
// stored on the client.
func (c *Client) Register(ctx context.Context, p api.Profile) (api.Session, error) {
	body := map[string]string{
		"email":      p.Email,
		"password":   p.Password,
		"first_name": p.FirstName,
		"last_name":  p.LastName,
	}
	var dto sessionDTO
	if err := c.do(ctx, http.MethodPost, "/auth/register", body, &dto); err != nil {
		return api.Session{}, err
	}
	c.setToken(dto.AccessToken)
	return dto.toSession(), nil
}

// Login implements api.Authenticator. The returned session's token is
// stored on the client and attached to subsequent requests.
func (c *Client) Login(ctx context.Context, cr api.Credentials) (api.Session, error) {
	body := map[string]string{
		"email":    cr.Email,
		"password": cr.Password,
	}
	var dto sessionDTO
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &dto); err != nil {
		return api.Session{}, err
	}
	c.setToken(dto.AccessToken)
	return dto.toSession(), nil
}
