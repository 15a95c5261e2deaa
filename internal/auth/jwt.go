package auth

import (
	"fmt"
	"time"

	"github.com/Mimieamichy/handy-dashboard/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	UserID   uuid.UUID `json:"uid"`
	FullName string    `json:"name"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies the HS256 bearer tokens that attribute sales
// and purchases to the signed-in cashier.
type Tokens struct {
	secret []byte
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret)}
}

func (t *Tokens) Issue(cashier domain.Cashier) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   cashier.ID,
		FullName: cashier.FullName,
		Role:     cashier.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cashier.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
