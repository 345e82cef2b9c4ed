package services

import (
	"context"
	"errors"
	"log"

	"condocore/internal/adapters/persistence/models"
	"condocore/internal/adapters/persistence/repositories"
	"condocore/internal/core/domain"
	"condocore/internal/pkg/jwt"
	"condocore/internal/pkg/password"

	"gorm.io/gorm"
)

// Auth errors surfaced to the login/reset handlers.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrNoCredentials      = errors.New("no credentials presented")
)

// Principal is the authenticated caller as seen by the authorization layer.
type Principal struct {
	ID   uint
	Role string
}

// AuthResult is the outcome of a successful authentication. NewAccess is set
// only when the expired-access fallback minted a replacement token.
type AuthResult struct {
	Principal Principal
	NewAccess *TokenOut
}

// AuthService authenticates requests and owns the login / logout /
// password-reset flows around the token service.
type AuthService struct {
	users  repositories.UserRepository
	tokens *TokenService
	codec  *jwt.Codec
}

// NewAuthService creates a new auth service.
func NewAuthService(users repositories.UserRepository, tokens *TokenService, codec *jwt.Codec) *AuthService {
	return &AuthService{users: users, tokens: tokens, codec: codec}
}

// Authenticate runs the request authentication state machine: try the access
// token, and only when it is valid-but-expired fall back to the refresh
// token, minting a replacement access token without rotation. Any other
// access-token failure rejects outright; a forged token must never be healed
// by a refresh cookie.
func (s *AuthService) Authenticate(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	if accessToken == "" && refreshToken == "" {
		return nil, ErrNoCredentials
	}

	if accessToken != "" {
		claims, err := s.codec.Parse(accessToken)
		switch {
		case err == nil:
			if claims.Kind != jwt.KindAccess {
				return nil, domain.ErrWrongKind
			}
			principal, err := s.resolvePrincipal(ctx, claims.Subject)
			if err != nil {
				return nil, err
			}
			return &AuthResult{Principal: *principal}, nil

		case errors.Is(err, jwt.ErrExpired):
			if refreshToken == "" {
				return nil, domain.ErrExpired
			}
			// fall through to the refresh path below

		default:
			return nil, mapCodecErr(err)
		}
	}

	claims, err := s.tokens.VerifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	principal, err := s.resolvePrincipal(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	access, err := s.tokens.IssueAccessOnly(claims.Subject)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Principal: *principal, NewAccess: access}, nil
}

// resolvePrincipal looks up (id, role) in the user directory. Deactivated
// accounts authenticate as nobody.
func (s *AuthService) resolvePrincipal(ctx context.Context, id uint) (*Principal, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPrincipalNotFound
		}
		return nil, domain.NewAuthError(domain.KindUnavailable, err.Error())
	}
	if !user.IsActive {
		return nil, domain.ErrPrincipalNotFound
	}
	return &Principal{ID: user.ID, Role: user.Role}, nil
}

// LoginInput are the credentials presented to Login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is a successful login: the user plus a fresh auth pair.
type LoginResult struct {
	User *models.UserResponse `json:"user"`
	Pair *AuthPair            `json:"-"`
}

// Login verifies credentials and issues an auth pair.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !password.Verify(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssueAuthPair(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("user logged in: %d", user.ID)
	return &LoginResult{User: user.ToResponse(), Pair: pair}, nil
}

// Logout revokes the presented refresh token. Revoking an already-dead
// token is not an error from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	err := s.tokens.RevokeSession(ctx, refreshToken)
	if err != nil && !errors.Is(err, domain.ErrRevoked) {
		return err
	}
	return nil
}

// LogoutAll revokes every session of userID.
func (s *AuthService) LogoutAll(ctx context.Context, userID uint) error {
	count, err := s.tokens.RevokeAllSessions(ctx, userID)
	if err != nil {
		return err
	}
	log.Printf("revoked %d sessions for user %d", count, userID)
	return nil
}

// UserByID returns the public profile of a user.
func (s *AuthService) UserByID(ctx context.Context, id uint) (*models.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}

// ForgotPassword issues a reset token for the account behind email. Token
// delivery is the caller's concern.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*TokenOut, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.tokens.IssueResetToken(user.ID)
}

// ResetPassword verifies a reset token, stores the new password hash, and
// revokes every refresh session of the subject. The reset token itself is
// stateless and stays technically replayable until expiry; the revocation
// sweep is the containment for that.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.codec.Parse(token)
	if err != nil {
		return mapCodecErr(err)
	}
	if claims.Kind != jwt.KindResetPassword {
		return domain.ErrWrongKind
	}

	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrPrincipalNotFound
		}
		return domain.NewAuthError(domain.KindUnavailable, err.Error())
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return domain.NewAuthError(domain.KindUnavailable, err.Error())
	}

	if _, err := s.tokens.RevokeAllSessions(ctx, user.ID); err != nil {
		return err
	}

	log.Printf("password reset for user %d", user.ID)
	return nil
}
