package redemption

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

func newTestService(t *testing.T) (*Service, ledger.Store) {
	t.Helper()
	store := ledger.NewInMemory()
	svc := NewService(store, "intermediate", "platform", nil)
	return svc, store
}

func seedUnusedCode(store ledger.Store, code string, amount int64) {
	ledger.SeedCode(store, ledger.Code{
		Code:      code,
		Amount:    amount,
		OwnerID:   "owner-1",
		Status:    ledger.CodeStatusUnused,
		CreatedAt: time.Now().UTC(),
	})
}

func TestRedeemSettlesCode(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ledger.SeedWallet(store, "intermediate", 1_000)
	ledger.SeedWallet(store, "platform", 0)
	seedUnusedCode(store, "U01ABC", 300)

	res, err := svc.Redeem(ctx, "U01ABC")
	require.NoError(t, err)
	require.Equal(t, int64(300), res.Amount)

	from, err := store.GetWallet(ctx, "intermediate")
	require.NoError(t, err)
	require.Equal(t, int64(700), from.Balance)

	to, err := store.GetWallet(ctx, "platform")
	require.NoError(t, err)
	require.Equal(t, int64(300), to.Balance)

	code, err := store.GetCode(ctx, "U01ABC")
	require.NoError(t, err)
	require.Equal(t, ledger.CodeStatusUsed, code.Status)
}

func TestRedeemSecondAttemptFails(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ledger.SeedWallet(store, "intermediate", 1_000)
	ledger.SeedWallet(store, "platform", 0)
	seedUnusedCode(store, "U01ABC", 300)

	_, err := svc.Redeem(ctx, "U01ABC")
	require.NoError(t, err)

	_, err = svc.Redeem(ctx, "U01ABC")
	require.ErrorIs(t, err, ledger.ErrCodeAlreadyUsed)

	from, _ := store.GetWallet(ctx, "intermediate")
	to, _ := store.GetWallet(ctx, "platform")
	require.Equal(t, int64(700), from.Balance)
	require.Equal(t, int64(300), to.Balance)
}

func TestRedeemInsufficientFundsLeavesCodeUnused(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ledger.SeedWallet(store, "intermediate", 50)
	ledger.SeedWallet(store, "platform", 0)
	seedUnusedCode(store, "U01ABC", 300)

	_, err := svc.Redeem(ctx, "U01ABC")
	require.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	code, err := store.GetCode(ctx, "U01ABC")
	require.NoError(t, err)
	require.Equal(t, ledger.CodeStatusUnused, code.Status)

	from, _ := store.GetWallet(ctx, "intermediate")
	require.Equal(t, int64(50), from.Balance)

	entries, err := store.WalletTransactions(ctx, "intermediate")
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRedeemUnknownCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Redeem(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ledger.ErrCodeNotFound)
}

func TestRedeemBlankCode(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Redeem(context.Background(), "   ")
	require.Error(t, err)
	require.False(t, errors.Is(err, ledger.ErrCodeNotFound))
}

func TestRedeemConcurrentAttemptsExactlyOneWins(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ledger.SeedWallet(store, "intermediate", 10_000)
	ledger.SeedWallet(store, "platform", 0)
	seedUnusedCode(store, "U01ABC", 300)

	const attempts = 20
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(ctx, "U01ABC")
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ledger.ErrCodeAlreadyUsed):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	require.Equal(t, 1, wins)
	require.Equal(t, attempts-1, conflicts)

	to, _ := store.GetWallet(ctx, "platform")
	require.Equal(t, int64(300), to.Balance)
}

func TestRedeemManyCodesConservesValue(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	ledger.SeedWallet(store, "intermediate", 100_000)
	ledger.SeedWallet(store, "platform", 0)

	const codes = 25
	for i := 0; i < codes; i++ {
		seedUnusedCode(store, fmt.Sprintf("CODE%02d", i), 100)
	}

	var wg sync.WaitGroup
	for i := 0; i < codes; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := svc.Redeem(ctx, fmt.Sprintf("CODE%02d", i)); err != nil {
				t.Errorf("redeem %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	from, _ := store.GetWallet(ctx, "intermediate")
	to, _ := store.GetWallet(ctx, "platform")
	require.Equal(t, int64(100_000-codes*100), from.Balance)
	require.Equal(t, int64(codes*100), to.Balance)

	entries, err := store.WalletTransactions(ctx, "platform")
	require.NoError(t, err)
	require.Len(t, entries, codes)
	var sum int64
	for _, e := range entries {
		sum += e.Amount
	}
	require.Equal(t, to.Balance, sum)
}
