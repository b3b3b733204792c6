// Package auth issues and verifies access tokens and password hashes.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("token secret is empty")
)

// Claims is the verified content of an access token.
type Claims struct {
	UserID primitive.ObjectID
	Role   string
}

type tokenClaims struct {
	ID   string `json:"id"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs HS256 access tokens with a shared secret.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue returns a signed token for userID that expires after the issuer TTL.
func (t *TokenIssuer) Issue(userID primitive.ObjectID, role string) (string, error) {
	now := t.now()
	claims := tokenClaims{
		ID:   userID.Hex(),
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry of raw. Every failure is
// reported as ErrInvalidToken wrapping the cause.
func (t *TokenIssuer) Verify(raw string) (Claims, error) {
	var claims tokenClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, err.Error())
	}
	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return Claims{}, errors.Wrap(ErrInvalidToken, "id claim")
	}
	return Claims{UserID: userID, Role: claims.Role}, nil
}
