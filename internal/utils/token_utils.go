package utils

import (
	"errors"
	"time"

	"github.com/SscSPs/kudi_commerce/internal/core/domain"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the claims this service reads from access tokens issued by the
// identity service.
type AccessClaims struct {
	Email       string   `json:"email,omitempty"`
	FullName    string   `json:"name,omitempty"`
	PhoneNumber string   `json:"phone_number,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// Actor converts the claims into the domain caller.
func (c AccessClaims) Actor() domain.Actor {
	return domain.Actor{
		UserID:      c.Subject,
		Email:       c.Email,
		FullName:    c.FullName,
		PhoneNumber: c.PhoneNumber,
		Roles:       c.Roles,
	}
}

// GenerateAccessToken signs an HS256 token for actor.
func GenerateAccessToken(actor domain.Actor, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		Email:       actor.Email,
		FullName:    actor.FullName,
		PhoneNumber: actor.PhoneNumber,
		Roles:       actor.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   actor.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateAccessToken parses a JWT token string, validates its signature and standard claims.
func ParseAndValidateAccessToken(tokenString string, secretKey string) (*AccessClaims, error) {
	claims := &AccessClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
