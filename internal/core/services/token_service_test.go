package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"condocore/internal/core/domain"
	"condocore/internal/pkg/jwt"
	"condocore/internal/pkg/password"

	"github.com/stretchr/testify/require"
)

func TestIssueAuthPairPersistsRefreshOnly(t *testing.T) {
	ledger := newFakeLedger()
	tokens, codec := newTestTokenService(ledger)

	pair, err := tokens.IssueAuthPair(context.Background(), 42)
	require.NoError(t, err)
	require.Equal(t, 1, ledger.size())

	live, err := ledger.IsLive(context.Background(), password.HashToken(pair.Refresh.Token), 42)
	require.NoError(t, err)
	require.True(t, live)

	// the access token never touches the ledger
	live, err = ledger.IsLive(context.Background(), password.HashToken(pair.Access.Token), 42)
	require.NoError(t, err)
	require.False(t, live)

	accessClaims, err := codec.Parse(pair.Access.Token)
	require.NoError(t, err)
	require.Equal(t, jwt.KindAccess, accessClaims.Kind)
	require.Equal(t, uint(42), accessClaims.Subject)

	refreshClaims, err := codec.Parse(pair.Refresh.Token)
	require.NoError(t, err)
	require.Equal(t, jwt.KindRefresh, refreshClaims.Kind)
	require.True(t, pair.Refresh.ExpiresAt.After(pair.Access.ExpiresAt))
}

func TestRefreshRotatesAndInvalidatesPredecessor(t *testing.T) {
	ledger := newFakeLedger()
	tokens, _ := newTestTokenService(ledger)
	ctx := context.Background()

	first, err := tokens.IssueAuthPair(ctx, 7)
	require.NoError(t, err)

	second, err := tokens.Refresh(ctx, first.Refresh.Token)
	require.NoError(t, err)
	require.NotEqual(t, first.Refresh.Token, second.Refresh.Token)

	// the rotated-away token is permanently unusable
	_, err = tokens.Refresh(ctx, first.Refresh.Token)
	require.ErrorIs(t, err, domain.ErrRevoked)

	// the replacement works
	_, err = tokens.Refresh(ctx, second.Refresh.Token)
	require.NoError(t, err)
}

func TestConcurrentRefreshSingleWinner(t *testing.T) {
	ledger := newFakeLedger()
	tokens, _ := newTestTokenService(ledger)
	ctx := context.Background()

	pair, err := tokens.IssueAuthPair(ctx, 7)
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	results := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tokens.Refresh(ctx, pair.Refresh.Token)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		if err == nil {
			wins++
		} else {
			require.ErrorIs(t, err, domain.ErrRevoked)
			losses++
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, callers-1, losses)
}

func TestRefreshRejectsNonRefreshKinds(t *testing.T) {
	ledger := newFakeLedger()
	tokens, _ := newTestTokenService(ledger)
	ctx := context.Background()

	access, err := tokens.IssueAccessOnly(7)
	require.NoError(t, err)
	_, err = tokens.Refresh(ctx, access.Token)
	require.ErrorIs(t, err, domain.ErrWrongKind)

	reset, err := tokens.IssueResetToken(7)
	require.NoError(t, err)
	_, err = tokens.Refresh(ctx, reset.Token)
	require.ErrorIs(t, err, domain.ErrWrongKind)

	_, err = tokens.Refresh(ctx, "garbage")
	require.ErrorIs(t, err, domain.ErrMalformed)
}

func TestRefreshRejectsUnrecordedToken(t *testing.T) {
	ledger := newFakeLedger()
	tokens, codec := newTestTokenService(ledger)

	// correctly signed refresh token that was never recorded
	stray, _, err := codec.Issue(7, jwt.KindRefresh, time.Hour)
	require.NoError(t, err)

	_, err = tokens.Refresh(context.Background(), stray)
	require.ErrorIs(t, err, domain.ErrRevoked)
}

func TestIssueAccessOnlyTouchesNoState(t *testing.T) {
	ledger := newFakeLedger()
	tokens, codec := newTestTokenService(ledger)

	out, err := tokens.IssueAccessOnly(3)
	require.NoError(t, err)
	require.Equal(t, 0, ledger.size())

	claims, err := codec.Parse(out.Token)
	require.NoError(t, err)
	require.Equal(t, jwt.KindAccess, claims.Kind)
}

func TestResetTokenIsStateless(t *testing.T) {
	ledger := newFakeLedger()
	tokens, codec := newTestTokenService(ledger)

	out, err := tokens.IssueResetToken(3)
	require.NoError(t, err)
	require.Equal(t, 0, ledger.size())

	claims, err := codec.Parse(out.Token)
	require.NoError(t, err)
	require.Equal(t, jwt.KindResetPassword, claims.Kind)

	// parse succeeds repeatedly; only expiry ends its life
	_, err = codec.Parse(out.Token)
	require.NoError(t, err)
}

func TestRevokeAllSessionsIsTotal(t *testing.T) {
	ledger := newFakeLedger()
	tokens, _ := newTestTokenService(ledger)
	ctx := context.Background()

	first, err := tokens.IssueAuthPair(ctx, 5)
	require.NoError(t, err)
	second, err := tokens.IssueAuthPair(ctx, 5)
	require.NoError(t, err)
	other, err := tokens.IssueAuthPair(ctx, 6)
	require.NoError(t, err)

	count, err := tokens.RevokeAllSessions(ctx, 5)
	require.NoError(t, err)
	require.EqualValues(t, 2, count)

	_, err = tokens.VerifyRefresh(ctx, first.Refresh.Token)
	require.ErrorIs(t, err, domain.ErrRevoked)
	_, err = tokens.VerifyRefresh(ctx, second.Refresh.Token)
	require.ErrorIs(t, err, domain.ErrRevoked)

	// other subjects are untouched
	_, err = tokens.VerifyRefresh(ctx, other.Refresh.Token)
	require.NoError(t, err)
}

func TestRevokeSession(t *testing.T) {
	ledger := newFakeLedger()
	tokens, _ := newTestTokenService(ledger)
	ctx := context.Background()

	pair, err := tokens.IssueAuthPair(ctx, 5)
	require.NoError(t, err)

	require.NoError(t, tokens.RevokeSession(ctx, pair.Refresh.Token))
	require.ErrorIs(t, tokens.RevokeSession(ctx, pair.Refresh.Token), domain.ErrRevoked)
	require.ErrorIs(t, tokens.RevokeSession(ctx, pair.Access.Token), domain.ErrWrongKind)
}

func TestLedgerFailureSurfacesAsUnavailable(t *testing.T) {
	ledger := newFakeLedger()
	tokens, _ := newTestTokenService(ledger)
	ctx := context.Background()

	pair, err := tokens.IssueAuthPair(ctx, 9)
	require.NoError(t, err)

	ledger.failing = true

	_, err = tokens.IssueAuthPair(ctx, 9)
	require.ErrorIs(t, err, domain.ErrUnavailable)

	_, err = tokens.Refresh(ctx, pair.Refresh.Token)
	require.ErrorIs(t, err, domain.ErrUnavailable)

	_, err = tokens.RevokeAllSessions(ctx, 9)
	require.ErrorIs(t, err, domain.ErrUnavailable)
}
