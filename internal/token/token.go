package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalid = errors.New("invalid token")
	ErrExpired = errors.New("expired token")
)

// Identity is the set of user fields embedded into a session token.
// Regenerated on every login; the token is the only server-side session state.
type Identity struct {
	UserID       string
	Name         string
	Username     string
	ProfileImage string
}

type Claims struct {
	UserID       string `json:"userId"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	ProfileImage string `json:"profileImage,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secret []byte
	ttl    time.Duration
}

func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

func (s *Service) Issue(id Identity) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:       id.UserID,
		Name:         id.Name,
		Username:     id.Username,
		ProfileImage: id.ProfileImage,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "servicepro-api",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})
	return t.SignedString(s.secret)
}

// Verify decodes and validates a token string. Expired tokens fail with
// ErrExpired, everything else (bad signature, wrong alg, garbage) with
// ErrInvalid.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpired
		}
		return nil, ErrInvalid
	}
	if !t.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}
