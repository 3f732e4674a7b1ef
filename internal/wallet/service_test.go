package wallet

import (
	"context"
	"testing"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

func TestProvisionAndBalance(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store)
	ctx := context.Background()

	if err := svc.Provision(ctx, "intermediate", "platform"); err != nil {
		t.Fatalf("provision: %v", err)
	}

	balance, err := svc.Balance(ctx, "intermediate")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Amount != 0 {
		t.Fatalf("expected fresh wallet balance 0, got %d", balance.Amount)
	}

	// re-provisioning an existing wallet must not reset its balance
	ledger.SeedWallet(store, "intermediate", 2_500)
	if err := svc.Provision(ctx, "intermediate"); err != nil {
		t.Fatalf("re-provision: %v", err)
	}
	balance, err = svc.Balance(ctx, "intermediate")
	if err != nil {
		t.Fatalf("balance after re-provision: %v", err)
	}
	if balance.Amount != 2_500 {
		t.Fatalf("expected balance 2500, got %d", balance.Amount)
	}
}

func TestBalanceUnknownWallet(t *testing.T) {
	svc := NewService(ledger.NewInMemory())

	if _, err := svc.Balance(context.Background(), "ghost"); err != ledger.ErrWalletNotFound {
		t.Fatalf("expected wallet not found, got %v", err)
	}
}
