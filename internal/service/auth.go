package service

import (
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mergington/activities-service/internal/domain"
)

// Claims represents JWT claims for staff tokens
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthService handles staff authentication and JWT operations.
// There is no user table: staff credentials come from configuration.
type AuthService struct {
	staffUsername string
	staffPassword string
	jwtSecret     string
	jwtExpiry     time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(staffUsername, staffPassword, jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		staffUsername: staffUsername,
		staffPassword: staffPassword,
		jwtSecret:     jwtSecret,
		jwtExpiry:     jwtExpiry,
	}
}

// Login validates staff credentials and generates a JWT token
func (s *AuthService) Login(username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.staffUsername)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.staffPassword)) == 1
	if !usernameOK || !passwordOK {
		return "", domain.ErrUnauthorized
	}

	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return claims, nil
}
