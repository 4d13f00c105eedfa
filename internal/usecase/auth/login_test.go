package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeFinder struct {
	users map[string]*User
}

func (f *fakeFinder) FindByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestLogin_Success_ManagerCarriesWarehouse(t *testing.T) {
	wh := int64(3)
	finder := &fakeFinder{users: map[string]*User{
		"manager@test.local": {
			ID:           "u-1",
			Email:        "manager@test.local",
			PasswordHash: mustHash(t, "secret"),
			Role:         "MANAGER",
			WarehouseID:  &wh,
			IsActive:     true,
		},
	}}
	uc := NewLoginUsecase(finder, "test-secret", 15)

	res, err := uc.Execute(context.Background(), "manager@test.local", "secret")
	require.NoError(t, err)
	require.Equal(t, "MANAGER", res.Role)
	require.Equal(t, 15*60, res.ExpiresIn)
	require.NotNil(t, res.WarehouseID)
	require.Equal(t, wh, *res.WarehouseID)

	token, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	require.Equal(t, "u-1", claims["sub"])
	require.Equal(t, "MANAGER", claims["role"])
	require.Equal(t, float64(3), claims["warehouseId"])
}

func TestLogin_WrongPassword(t *testing.T) {
	finder := &fakeFinder{users: map[string]*User{
		"admin@test.local": {
			ID:           "u-2",
			Email:        "admin@test.local",
			PasswordHash: mustHash(t, "secret"),
			Role:         "ADMIN",
			IsActive:     true,
		},
	}}
	uc := NewLoginUsecase(finder, "test-secret", 15)

	_, err := uc.Execute(context.Background(), "admin@test.local", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailHidesExistence(t *testing.T) {
	uc := NewLoginUsecase(&fakeFinder{users: map[string]*User{}}, "test-secret", 15)

	_, err := uc.Execute(context.Background(), "nobody@test.local", "secret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	finder := &fakeFinder{users: map[string]*User{
		"old@test.local": {
			ID:           "u-3",
			Email:        "old@test.local",
			PasswordHash: mustHash(t, "secret"),
			Role:         "ADMIN",
			IsActive:     false,
		},
	}}
	uc := NewLoginUsecase(finder, "test-secret", 15)

	_, err := uc.Execute(context.Background(), "old@test.local", "secret")
	require.ErrorIs(t, err, ErrInactiveUser)
}
