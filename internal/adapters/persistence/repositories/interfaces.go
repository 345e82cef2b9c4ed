package repositories

import (
	"context"

	"condocore/internal/adapters/persistence/models"
)

// UserRepository defines the user directory interface consumed by the auth
// core and the admin endpoints.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	Count(ctx context.Context) (int64, error)
}

// RefreshTokenRepository is the revocation ledger: the durable record of
// refresh-token liveness.
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	// IsLive reports whether a non-revoked, non-expired record exists for
	// (tokenHash, userID).
	IsLive(ctx context.Context, tokenHash string, userID uint) (bool, error)
	// Revoke flips the record dead. It returns gorm.ErrRecordNotFound when no
	// live record matched, which rotation treats as "a concurrent refresh
	// won".
	Revoke(ctx context.Context, tokenHash string, userID uint) error
	// RevokeAll revokes every live record for userID and returns how many
	// rows it touched. The update is visible before the call returns.
	RevokeAll(ctx context.Context, userID uint) (int64, error)
	// DeleteExpired removes rows whose expiry has long passed. Retention
	// only; the auth core never calls it.
	DeleteExpired(ctx context.Context) (int64, error)
}
