package service

import (
	"context"
	"errors"
	"fmt"

	"mocktest-engine/internal/config"
	"mocktest-engine/internal/dto"
	"mocktest-engine/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	ErrInvalidJWTToken = errors.New("invalid jwt token")
	ErrAuthDisabled    = errors.New("token verification is not configured")
)

// AuthService verifies bearer tokens issued by the portal. It never issues tokens.
type AuthService interface {
	// Enabled reports whether a verification secret is configured.
	Enabled() bool
	ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authServiceImpl struct {
	secret []byte
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cfg config.AuthConfig) AuthService {
	return &authServiceImpl{secret: []byte(cfg.JWTSecret)}
}

func (s *authServiceImpl) Enabled() bool {
	return len(s.secret) > 0
}

// ValidateToken parses an HMAC-signed token and returns its claims.
func (s *authServiceImpl) ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if !s.Enabled() {
		return nil, ErrAuthDisabled
	}
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		snippet := tokenString[:min(len(tokenString), 20)] + "..."
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidJWTToken
	}
	if claims.UserID == "" || claims.Role == "" {
		return nil, fmt.Errorf("%w: user_id and role claims are required", ErrInvalidJWTToken)
	}
	return claims, nil
}
