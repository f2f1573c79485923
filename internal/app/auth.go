package app

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dkeye/Pointing/internal/domain"
)

// Claims is the verified identity a token carries: which connection it
// was minted for and which room it grants access to.
type Claims struct {
	Identity domain.Identity
	Room     domain.RoomID
}

// sessionClaims is the internal claims type used for JWT parsing.
type sessionClaims struct {
	jwt.RegisteredClaims
	Identity string `json:"identity"`
	Room     string `json:"room"`
}

// TokenAuthority issues and verifies the session credentials handed out
// on create/join. Verification is stateless: signature, expiry and the
// algorithm allow-list against a shared HS256 secret, nothing else.
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenAuthority(secret string, ttl time.Duration, now func() time.Time) *TokenAuthority {
	if now == nil {
		now = time.Now
	}
	return &TokenAuthority{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token binding identity to room for the configured TTL.
func (a *TokenAuthority) Issue(identity domain.Identity, room domain.RoomID) (string, error) {
	issued := a.now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(a.ttl)),
		},
		Identity: string(identity),
		Room:     string(room),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

// Verify checks a bearer token and returns its claims. Any failure maps
// to ErrAuthentication: the result is final for the event, never retried.
func (a *TokenAuthority) Verify(token string) (Claims, error) {
	var parsed sessionClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(a.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Claims{}, domain.ErrAuthentication
	}
	if parsed.Identity == "" || parsed.Room == "" {
		return Claims{}, domain.ErrAuthentication
	}
	return Claims{
		Identity: domain.Identity(parsed.Identity),
		Room:     domain.RoomID(parsed.Room),
	}, nil
}
