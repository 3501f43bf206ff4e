package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Realm is the authentication domain a token belongs to. Each realm signs
// with its own key and every verification also checks the realm claim, so a
// token minted for one realm is rejected by the other verifier even if the
// keys were ever misconfigured to match.
type Realm string

const (
	RealmUser  Realm = "user"
	RealmAdmin Realm = "admin"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Claims carried by a bearer token. NivelAcesso is set only for admin-realm
// tokens.
type Claims struct {
	jwt.RegisteredClaims
	Realm       Realm  `json:"realm"`
	PrincipalID int64  `json:"pid"`
	Email       string `json:"email"`
	NivelAcesso string `json:"nivel_acesso,omitempty"`
}

// TokenAuthority issues and verifies realm-scoped bearer tokens.
type TokenAuthority struct {
	keys map[Realm][]byte
	ttls map[Realm]time.Duration
}

func NewTokenAuthority(userSecret, adminSecret string, userTTL, adminTTL time.Duration) *TokenAuthority {
	return &TokenAuthority{
		keys: map[Realm][]byte{
			RealmUser:  []byte(userSecret),
			RealmAdmin: []byte(adminSecret),
		},
		ttls: map[Realm]time.Duration{
			RealmUser:  userTTL,
			RealmAdmin: adminTTL,
		},
	}
}

// Issue signs a token for the given realm and principal.
func (a *TokenAuthority) Issue(realm Realm, principalID int64, email, nivelAcesso string) (string, error) {
	key, ok := a.keys[realm]
	if !ok {
		return "", fmt.Errorf("unknown realm %q", realm)
	}
	now := time.Now().UTC()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", principalID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttls[realm])),
		},
		Realm:       realm,
		PrincipalID: principalID,
		Email:       email,
		NivelAcesso: nivelAcesso,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// Verify validates signature, expiry and the realm discriminant.
func (a *TokenAuthority) Verify(realm Realm, tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	key, ok := a.keys[realm]
	if !ok {
		return nil, fmt.Errorf("unknown realm %q", realm)
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Realm != realm {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
