package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Sahitha-chunduri/projectflow/internal/constants"
	"github.com/Sahitha-chunduri/projectflow/internal/models"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// Claims is the JWT payload carried by both token kinds. Kind prevents a
// refresh token from being accepted where an access token is required.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Kind   string `json:"kind"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies the short-lived access tokens and the
// longer-lived refresh tokens. The two kinds are signed with separate secrets.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService creates a new TokenService.
func NewTokenService(accessSecret, refreshSecret string) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     constants.AccessTokenTTL,
		refreshTTL:    constants.RefreshTokenTTL,
	}
}

// RefreshTTL returns the refresh token lifetime, used for the cookie max-age.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// GenerateAccessToken signs a short-lived bearer token for the user.
func (s *TokenService) GenerateAccessToken(user *models.User) (string, error) {
	return s.generate(user, tokenKindAccess, s.accessSecret, s.accessTTL)
}

// GenerateRefreshToken signs a refresh token for the user.
func (s *TokenService) GenerateRefreshToken(user *models.User) (string, error) {
	return s.generate(user, tokenKindRefresh, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) generate(user *models.User, kind string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID.Hex(),
		Role:   string(user.Role),
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken verifies an access token and returns its claims.
// Expired tokens are reported distinctly from malformed ones.
func (s *TokenService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, tokenKindAccess, s.accessSecret)
}

// ValidateRefreshToken verifies a refresh token and returns its claims.
func (s *TokenService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validate(tokenString, tokenKindRefresh, s.refreshSecret)
}

func (s *TokenService) validate(tokenString, kind string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid || claims.Kind != kind {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
