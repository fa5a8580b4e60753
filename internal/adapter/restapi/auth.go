package restapi

import (
	"context"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.AuthAPI = (*Client)(nil)

func (c *Client) Login(
	ctx context.Context, form domain.LoginForm,
) (domain.Credentials, error) {
	req := loginRequest{Username: form.Username, Password: form.Password}
	env, err := call[loginData](ctx, c, http.MethodPost, "auth/login", nil, req)
	if err != nil {
		return domain.Credentials{}, err
	}

	d := env.Data
	return domain.Credentials{
		Token: d.Token,
		User: &domain.User{
			ID:       string(d.ID),
			Username: d.Username,
			Email:    d.Email,
			Role:     d.Role,
		},
	}, nil
}

func (c *Client) Register(
	ctx context.Context, form domain.RegisterForm,
) (domain.Credentials, error) {
	req := registerRequest{
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
	}
	env, err := call[registerData](ctx, c, http.MethodPost, "auth/register", nil, req)
	if err != nil {
		return domain.Credentials{}, err
	}

	user := env.Data.User
	if user == nil {
		user = env.User
	}
	return domain.Credentials{
		Token: env.Data.Token,
		User:  user.toDomain(),
	}, nil
}
