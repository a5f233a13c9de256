package stubsrv

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/jrsteele09/go-crm-console/users"
)

// TokenManager issues and validates the HS256 session tokens the stub
// hands out on login and signup.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims is the JWT payload.
type Claims struct {
	Role users.RoleType `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Generate signs a token for the user.
func (tm *TokenManager) Generate(user *users.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	if err != nil {
		return "", errors.Wrap(err, "[TokenManager.Generate] sign token")
	}
	return signed, nil
}

// Parse validates a token and returns the subject user ID.
func (tm *TokenManager) Parse(tokenStr string) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", errors.New("invalid token claims")
	}
	return claims.Subject, nil
}
