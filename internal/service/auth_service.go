package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/result-processing-api/internal/models"
	appErrors "github.com/noah-isme/result-processing-api/pkg/errors"
)

// AuthConfig configures access token validation. Tokens are issued by the
// identity service; this API only verifies them.
type AuthConfig struct {
	AccessTokenSecret string
	Issuer            string
}

// AuthService turns bearer tokens into claims.
type AuthService struct {
	config AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(config AuthConfig) *AuthService {
	return &AuthService{config: config}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.config.Issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.UserID == "" || !knownRole(claims.Role) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token is missing user or role")
	}
	if claims.Role == models.RoleHOD && strings.TrimSpace(claims.Department) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "HOD token is missing department")
	}
	return claims, nil
}

func knownRole(role models.UserRole) bool {
	switch role {
	case models.RoleAdmin, models.RoleHOD, models.RoleLecturer, models.RoleStudent:
		return true
	}
	return false
}
