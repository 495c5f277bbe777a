package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func newAuth() *AuthUseCase {
	uc := NewAuthUseCase(memory.NewUserRepository(memory.NewStore()), JWTConfig{Secret: "s", ExpMinutes: 10, Issuer: "test"})
	uc.cost = bcrypt.MinCost
	return uc
}

func TestRegisterYLogin(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()

	u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Username: "ana", Email: "ana@example.com", Password: "secreta123", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)

	out, err := uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "secreta123"})
	require.NoError(t, err)
	claims, err := jwt.Parse("s", out.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.True(t, claims.IsAdmin)
}

func TestRegister_UsuarioDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Username: "ana", Email: "a@x.com", Password: "secreta123"})
	require.NoError(t, err)
	_, err = uc.RegisterUser(ctx, dto.CreateUserRequest{Username: "ana", Email: "b@x.com", Password: "secreta123"})
	assert.ErrorIs(t, err, domain.ErrConstraint)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	ctx := context.Background()
	uc := newAuth()
	_, err := uc.RegisterUser(ctx, dto.CreateUserRequest{Username: "ana", Email: "a@x.com", Password: "secreta123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Username: "ana", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Username: "nadie", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
