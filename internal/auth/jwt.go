package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/propertybazaar/server/internal/model"
)

const sessionTokenExpiry = 7 * 24 * time.Hour

// SessionClaims carries the verified identity
type SessionClaims struct {
	Name     string        `json:"name"`
	Username string        `json:"username,omitempty"`
	Type     model.Channel `json:"type"`
	jwt.RegisteredClaims
}

// Identity rebuilds the identity the token was issued for
func (c *SessionClaims) Identity() model.Identity {
	return model.Identity{Name: c.Name, Username: c.Username, Contact: c.Subject, Type: c.Type}
}

// JWTService handles JWT token operations
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// SignSessionToken creates an HS256 token for a verified identity; the contact is the subject.
func (s *JWTService) SignSessionToken(id model.Identity) (string, error) {
	now := s.now()
	claims := &SessionClaims{
		Name:     id.Name,
		Username: id.Username,
		Type:     id.Type,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.Contact,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTokenExpiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken verifies and parses a session token
func (s *JWTService) VerifyToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
