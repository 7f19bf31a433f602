package services_test

import (
	"context"
	"testing"

	"clinic/models"
	"clinic/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := services.NewUserService(db)

	user, err := svc.Register(ctx, services.CreateUserRequest{
		Name:     "Recepção",
		Email:    " Recepcao@Clinica.com.br ",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "recepcao@clinica.com.br", user.Email)
	assert.Equal(t, models.RoleReceptionist, user.Role)
	assert.NotEqual(t, "secret123", user.Password)

	tests := []struct {
		name    string
		req     services.LoginRequest
		wantErr error
	}{
		{
			name: "valid credentials",
			req:  services.LoginRequest{Email: "RECEPCAO@clinica.com.br", Password: "secret123"},
		},
		{
			name: "email with surrounding spaces",
			req:  services.LoginRequest{Email: "  Recepcao@Clinica.com.br ", Password: "secret123"},
		},
		{
			name:    "wrong password",
			req:     services.LoginRequest{Email: "recepcao@clinica.com.br", Password: "wrong"},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:    "unknown email",
			req:     services.LoginRequest{Email: "nobody@clinica.com.br", Password: "secret123"},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:    "invalid email",
			req:     services.LoginRequest{Email: "not-an-email", Password: "secret123"},
			wantErr: services.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Authenticate(ctx, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Register(ctx, services.CreateUserRequest{
			Name:     "Outro",
			Email:    "recepcao@clinica.com.br",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, services.ErrConflict)
	})

	t.Run("blank name", func(t *testing.T) {
		_, err := svc.Register(ctx, services.CreateUserRequest{
			Name:     "   ",
			Email:    "blank@clinica.com.br",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, services.ErrValidation)
	})

	t.Run("short password", func(t *testing.T) {
		_, err := svc.Register(ctx, services.CreateUserRequest{
			Name:     "Outro",
			Email:    "outro@clinica.com.br",
			Password: "123",
		})
		assert.ErrorIs(t, err, services.ErrValidation)
	})
}
