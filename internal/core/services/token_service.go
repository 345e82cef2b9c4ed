package services

import (
	"context"
	"errors"
	"time"

	"condocore/internal/adapters/persistence/models"
	"condocore/internal/adapters/persistence/repositories"
	"condocore/internal/config"
	"condocore/internal/core/domain"
	"condocore/internal/pkg/jwt"
	"condocore/internal/pkg/password"

	"gorm.io/gorm"
)

// TokenOut is an issued token together with its expiry.
type TokenOut struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthPair is a freshly issued access/refresh pair.
type AuthPair struct {
	Access  TokenOut `json:"access"`
	Refresh TokenOut `json:"refresh"`
}

// TokenService issues, rotates and revokes session tokens. Access and reset
// tokens are stateless; refresh tokens are backed by the revocation ledger.
type TokenService struct {
	codec  *jwt.Codec
	ledger repositories.RefreshTokenRepository

	accessTTL  time.Duration
	refreshTTL time.Duration
	resetTTL   time.Duration
}

// NewTokenService creates a new token service.
func NewTokenService(codec *jwt.Codec, ledger repositories.RefreshTokenRepository, cfg *config.Config) *TokenService {
	return &TokenService{
		codec:      codec,
		ledger:     ledger,
		accessTTL:  time.Duration(cfg.JWT.AccessTokenMins) * time.Minute,
		refreshTTL: time.Duration(cfg.JWT.RefreshTokenDays) * 24 * time.Hour,
		resetTTL:   time.Duration(cfg.JWT.ResetTokenMins) * time.Minute,
	}
}

// IssueAuthPair mints an access/refresh pair for subject. The refresh token
// is recorded in the ledger before the pair is returned; the access token is
// never persisted.
func (s *TokenService) IssueAuthPair(ctx context.Context, subject uint) (*AuthPair, error) {
	access, accessExp, err := s.codec.Issue(subject, jwt.KindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, refreshExp, err := s.codec.Issue(subject, jwt.KindRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	record := &models.RefreshToken{
		UserID:    subject,
		TokenHash: password.HashToken(refresh),
		ExpiresAt: refreshExp,
	}
	if err := s.ledger.Create(ctx, record); err != nil {
		return nil, domain.NewAuthError(domain.KindUnavailable, err.Error())
	}

	return &AuthPair{
		Access:  TokenOut{Token: access, ExpiresAt: accessExp},
		Refresh: TokenOut{Token: refresh, ExpiresAt: refreshExp},
	}, nil
}

// IssueAccessOnly mints a fresh access token without touching the ledger.
// This is plain renewal, not rotation; the middleware fallback uses it so an
// expiring access token does not shorten the refresh session.
func (s *TokenService) IssueAccessOnly(subject uint) (*TokenOut, error) {
	access, expiresAt, err := s.codec.Issue(subject, jwt.KindAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	return &TokenOut{Token: access, ExpiresAt: expiresAt}, nil
}

// IssueResetToken mints a short-lived password-reset token. It is not
// recorded in the ledger, so it stays replayable until it expires; the
// password-change handler contains that by revoking every session afterward.
func (s *TokenService) IssueResetToken(subject uint) (*TokenOut, error) {
	token, expiresAt, err := s.codec.Issue(subject, jwt.KindResetPassword, s.resetTTL)
	if err != nil {
		return nil, err
	}
	return &TokenOut{Token: token, ExpiresAt: expiresAt}, nil
}

// VerifyRefresh parses a refresh token, enforces its kind, and checks
// liveness against the ledger. It does not rotate.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.codec.Parse(token)
	if err != nil {
		return nil, mapCodecErr(err)
	}
	if claims.Kind != jwt.KindRefresh {
		return nil, domain.ErrWrongKind
	}

	live, err := s.ledger.IsLive(ctx, password.HashToken(token), claims.Subject)
	if err != nil {
		return nil, domain.NewAuthError(domain.KindUnavailable, err.Error())
	}
	if !live {
		return nil, domain.ErrRevoked
	}
	return claims, nil
}

// Refresh performs full rotation: the old token is revoked and a brand-new
// pair issued. The conditional revoke is the linearization point; of two
// concurrent calls with the same token, exactly one succeeds.
func (s *TokenService) Refresh(ctx context.Context, oldToken string) (*AuthPair, error) {
	claims, err := s.VerifyRefresh(ctx, oldToken)
	if err != nil {
		return nil, err
	}

	err = s.ledger.Revoke(ctx, password.HashToken(oldToken), claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// A concurrent refresh rotated this token first.
			return nil, domain.ErrRevoked
		}
		return nil, domain.NewAuthError(domain.KindUnavailable, err.Error())
	}

	return s.IssueAuthPair(ctx, claims.Subject)
}

// RevokeSession revokes a single refresh token.
func (s *TokenService) RevokeSession(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.Parse(refreshToken)
	if err != nil {
		return mapCodecErr(err)
	}
	if claims.Kind != jwt.KindRefresh {
		return domain.ErrWrongKind
	}

	err = s.ledger.Revoke(ctx, password.HashToken(refreshToken), claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRevoked
		}
		return domain.NewAuthError(domain.KindUnavailable, err.Error())
	}
	return nil
}

// RevokeAllSessions revokes every live refresh token for subject. The ledger
// guarantees the revocation is visible before this returns.
func (s *TokenService) RevokeAllSessions(ctx context.Context, subject uint) (int64, error) {
	count, err := s.ledger.RevokeAll(ctx, subject)
	if err != nil {
		return 0, domain.NewAuthError(domain.KindUnavailable, err.Error())
	}
	return count, nil
}

// RefreshTTL exposes the refresh lifetime for cookie max-age.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// mapCodecErr translates codec sentinels into the closed auth error set.
func mapCodecErr(err error) error {
	switch {
	case errors.Is(err, jwt.ErrExpired):
		return domain.ErrExpired
	case errors.Is(err, jwt.ErrBadSignature):
		return domain.ErrBadSignature
	default:
		return domain.ErrMalformed
	}
}
