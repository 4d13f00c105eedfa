package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user inactive")
)

type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// User is a dashboard account. Managers carry the warehouse they are pinned
// to; admins have none.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Role         string
	WarehouseID  *int64
	IsActive     bool
}

type LoginResult struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
	Role        string `json:"role"`
	WarehouseID *int64 `json:"warehouseId,omitempty"`
}

type LoginUsecase struct {
	finder    UserFinder
	jwtSecret []byte
	expMin    int
}

func NewLoginUsecase(finder UserFinder, jwtSecret string, expiresMinutes int) *LoginUsecase {
	if expiresMinutes <= 0 {
		expiresMinutes = 60
	}
	return &LoginUsecase{
		finder:    finder,
		jwtSecret: []byte(jwtSecret),
		expMin:    expiresMinutes,
	}
}

func (u *LoginUsecase) Execute(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := u.finder.FindByEmail(ctx, email)
	if err != nil {
		// Hide whether email exists
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	exp := now.Add(time.Duration(u.expMin) * time.Minute)

	claims := jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if user.WarehouseID != nil {
		claims["warehouseId"] = *user.WarehouseID
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(u.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: signed,
		ExpiresIn:   u.expMin * 60,
		Role:        user.Role,
		WarehouseID: user.WarehouseID,
	}, nil
}
