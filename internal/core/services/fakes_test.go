package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"condocore/internal/adapters/persistence/models"
	"condocore/internal/config"
	"condocore/internal/pkg/jwt"

	"gorm.io/gorm"
)

var errLedgerDown = errors.New("connection refused")

// fakeLedger is an in-memory RefreshTokenRepository. The mutex gives it the
// same single-winner semantics as the conditional UPDATE in MySQL.
type fakeLedger struct {
	mu      sync.Mutex
	records map[string]*models.RefreshToken
	nextID  uint
	failing bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{records: make(map[string]*models.RefreshToken)}
}

func (f *fakeLedger) Create(_ context.Context, token *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errLedgerDown
	}
	f.nextID++
	token.ID = f.nextID
	cp := *token
	f.records[token.TokenHash] = &cp
	return nil
}

func (f *fakeLedger) IsLive(_ context.Context, tokenHash string, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return false, errLedgerDown
	}
	rec, ok := f.records[tokenHash]
	if !ok || rec.UserID != userID {
		return false, nil
	}
	return !rec.Revoked && rec.ExpiresAt.After(time.Now()), nil
}

func (f *fakeLedger) Revoke(_ context.Context, tokenHash string, userID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return errLedgerDown
	}
	rec, ok := f.records[tokenHash]
	if !ok || rec.UserID != userID || rec.Revoked {
		return gorm.ErrRecordNotFound
	}
	rec.Revoked = true
	return nil
}

func (f *fakeLedger) RevokeAll(_ context.Context, userID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return 0, errLedgerDown
	}
	var count int64
	for _, rec := range f.records {
		if rec.UserID == userID && !rec.Revoked {
			rec.Revoked = true
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) DeleteExpired(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for hash, rec := range f.records {
		if rec.ExpiresAt.Before(time.Now()) {
			delete(f.records, hash)
			count++
		}
	}
	return count, nil
}

func (f *fakeLedger) size() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	mu     sync.Mutex
	users  map[uint]*models.User
	nextID uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: make(map[uint]*models.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	user.ID = f.nextID
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUsers) Update(_ context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUsers) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.User
	for id := uint(1); id <= f.nextID; id++ {
		if user, ok := f.users[id]; ok {
			cp := *user
			out = append(out, &cp)
		}
	}
	total := int64(len(out))
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

func (f *fakeUsers) Count(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.users)), nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
			ResetTokenMins:   30,
		},
		Cookie: config.CookieConfig{SameSite: "lax"},
	}
}

func newTestTokenService(ledger *fakeLedger) (*TokenService, *jwt.Codec) {
	codec := jwt.NewCodec("test-secret")
	return NewTokenService(codec, ledger, testConfig()), codec
}
