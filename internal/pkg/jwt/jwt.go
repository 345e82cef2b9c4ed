package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token kinds carried in the "type" claim. The codec itself never checks the
// kind; callers decide which kinds they accept.
const (
	KindAccess        = "ACCESS"
	KindRefresh       = "REFRESH"
	KindResetPassword = "RESET_PASSWORD"
)

var (
	ErrMalformed    = errors.New("token is malformed")
	ErrExpired      = errors.New("token has expired")
	ErrBadSignature = errors.New("token signature is invalid")
)

// Claims carried by every token the codec issues. Timestamps are
// second-resolution epoch integers.
type Claims struct {
	Subject   uint   `json:"sub"`
	Kind      string `json:"type"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
	TokenID   string `json:"jti,omitempty"`
}

func (c *Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c *Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c *Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c *Claims) GetIssuer() (string, error)              { return "", nil }
func (c *Claims) GetSubject() (string, error)             { return "", nil }
func (c *Claims) GetAudience() (jwt.ClaimStrings, error)  { return nil, nil }

// Codec signs and verifies tokens with a single process-wide HS256 secret.
// The secret is injected at construction, never read from ambient state.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec creates a codec signing with the given secret.
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret), now: time.Now}
}

// WithClock overrides the codec's time source. Tests use it to pin expiry.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

// Issue signs a token for subject with the given kind and lifetime, and
// returns the token string together with its expiry instant. Refresh tokens
// additionally carry a unique jti so two tokens minted within the same
// second still differ.
func (c *Codec) Issue(subject uint, kind string, ttl time.Duration) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(ttl)

	claims := &Claims{
		Subject:   subject,
		Kind:      kind,
		IssuedAt:  now.Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	if kind == KindRefresh {
		claims.TokenID = uuid.New().String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, time.Unix(expiresAt.Unix(), 0), nil
}

// Parse verifies signature and expiry and returns the claims. It fails with
// exactly one of ErrMalformed, ErrBadSignature or ErrExpired. A token that is
// both tampered and expired reports ErrBadSignature. Expiry is inclusive:
// exp <= now counts as expired.
func (c *Codec) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, c.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrBadSignature
		}
		return nil, ErrMalformed
	}

	if claims.ExpiresAt <= c.now().Unix() {
		return nil, ErrExpired
	}
	return claims, nil
}

func (c *Codec) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrBadSignature
	}
	return c.secret, nil
}
