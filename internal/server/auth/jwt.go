// Package auth issues and validates the dashboard's session tokens. A token
// is an HS256-signed JWT carrying the user id, display name and role; the
// embedded role is what the HTTP layer and the lifecycle controller enforce
// admin gating against.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dishubaceh/damprah/internal/common"
	"github.com/dishubaceh/damprah/internal/server/models"
)

// Claims extends the registered JWT claims with the session identity.
type Claims struct {
	jwt.RegisteredClaims
	UserID string      `json:"uid"`
	Name   string      `json:"name"`
	Role   models.Role `json:"role"`
}

// Session is the explicit, decoded session passed into components that need
// the caller's identity. It is created at login and dies with the token.
type Session struct {
	UserID    string
	Name      string
	Role      models.Role
	ExpiresAt time.Time
}

// IsAdmin reports whether the session may perform mutating operations.
func (s *Session) IsAdmin() bool { return s.Role == models.RoleAdmin }

// GenerateToken signs a session token for user with the given validity.
func GenerateToken(user *models.User, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// SessionFromToken validates tokenString and returns the decoded session.
// Expired tokens map to common.ErrTokenExpired, anything else invalid to
// common.ErrInvalidToken.
func SessionFromToken(tokenString string, secretKey []byte) (*Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	session := &Session{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
