package checkout

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenCarrier signs a SelectionState into a compact token so steps can
// hand the state to each other tamper-evidently. Query parameters remain
// the canonical entry path; the token is the durable, shareable form.
type TokenCarrier struct {
	secret string
	iss    string
	ttl    time.Duration
}

func NewTokenCarrier(secret string, ttl time.Duration) *TokenCarrier {
	return &TokenCarrier{secret: secret, iss: "Triversa", ttl: ttl}
}

func (c *TokenCarrier) Sign(s SelectionState) (string, error) {
	claims := jwt.MapClaims{
		"service":   s.ServiceID,
		"package":   s.PackageID,
		"recipient": s.RecipientNumber,
		"exp":       time.Now().Add(c.ttl).Unix(),
		"iat":       time.Now().Unix(),
		"nbf":       time.Now().Unix(),
		"iss":       c.iss,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.secret))
}

func (c *TokenCarrier) Parse(tokenString string) (SelectionState, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(c.secret), nil
	}, jwt.WithExpirationRequired(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithIssuer(c.iss))
	if err != nil {
		return SelectionState{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return SelectionState{}, fmt.Errorf("unexpected claims type")
	}

	str := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	return SelectionState{
		ServiceID:       str("service"),
		RecipientNumber: str("recipient"),
		PackageID:       str("package"),
	}, nil
}
