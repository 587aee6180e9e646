package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Kariqs/silkstitch-api/apperrors"
	"github.com/Kariqs/silkstitch-api/logger"
	"github.com/Kariqs/silkstitch-api/models"
	"github.com/Kariqs/silkstitch-api/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10
	tokenTTL   = 24 * time.Hour

	msgInvalidCredentials = "invalid email or password"
)

type AuthService struct {
	users  repository.UserRepository
	secret []byte
	now    func() time.Time
}

func NewAuthService(users repository.UserRepository, secret string) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), now: time.Now}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Login checks the credentials and returns a signed token.
func (s *AuthService) Login(ctx context.Context, input models.LoginData) (string, error) {
	if err := Validate(input); err != nil {
		return "", err
	}

	user, err := s.users.FindByEmail(ctx, input.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", apperrors.New(http.StatusUnauthorized, msgInvalidCredentials, nil)
	}
	if err != nil {
		logger.Error(ctx, "failed to look up user", err)
		return "", apperrors.Internal(apperrors.MsgInternal, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		logger.Warn(ctx, "login rejected", zap.String("email", user.Email))
		return "", apperrors.New(http.StatusUnauthorized, msgInvalidCredentials, nil)
	}

	token, err := s.generateJWT(user)
	if err != nil {
		logger.Error(ctx, "failed to sign token", err)
		return "", apperrors.Internal("failed to generate token", err)
	}
	return token, nil
}

func (s *AuthService) generateJWT(user *models.User) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"role":    user.Role,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenTTL).Unix(),
	})
	return token.SignedString(s.secret)
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(strings.TrimSpace(raw), func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// EnsureAdmin creates the bootstrap admin when no admin exists yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	exists, err := s.users.AdminExists(ctx)
	if err != nil || exists {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.User{Email: email, Name: "Administrator", Password: hash, Role: models.RoleAdmin}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	logger.Info(ctx, "bootstrap admin created", zap.String("email", admin.Email))
	return true, nil
}
