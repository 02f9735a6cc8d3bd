package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/packfinderz-simulator/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ServiceTokenClaims represents the typed JWT backend services present when
// calling the simulator.
type ServiceTokenClaims struct {
	ClientID string   `json:"client_id"`
	Scopes   []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// HasScope reports whether the token carries the named scope. Tokens without
// any scopes are treated as full access.
func (c *ServiceTokenClaims) HasScope(scope string) bool {
	if len(c.Scopes) == 0 {
		return true
	}
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// MintServiceToken issues a signed JWT for a calling service.
func MintServiceToken(cfg config.AuthConfig, now time.Time, clientID string, scopes []string, ttl time.Duration) (string, error) {
	if cfg.ServiceTokenSecret == "" {
		return "", fmt.Errorf("service token secret is required")
	}
	if cfg.ServiceTokenIssuer == "" {
		return "", fmt.Errorf("service token issuer is required")
	}
	if strings.TrimSpace(clientID) == "" {
		return "", fmt.Errorf("client id is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}

	claims := ServiceTokenClaims{
		ClientID: clientID,
		Scopes:   scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.ServiceTokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.ServiceTokenSecret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseServiceToken validates the JWT string and returns typed claims.
func ParseServiceToken(cfg config.AuthConfig, tokenString string) (*ServiceTokenClaims, error) {
	if cfg.ServiceTokenSecret == "" {
		return nil, fmt.Errorf("service token secret is required")
	}

	claims := &ServiceTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.ServiceTokenSecret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.ServiceTokenIssuer),
	)
	if err != nil {
		return nil, err
	}

	return claims, nil
}
