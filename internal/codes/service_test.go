package codes

import (
	"context"
	"strings"
	"testing"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

func TestCreateIssuesUnusedCode(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store)
	ctx := context.Background()

	code, err := svc.Create(ctx, "3f2c9a01-aaaa-bbbb-cccc-0123456789ab", 500)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if code.Status != ledger.CodeStatusUnused {
		t.Fatalf("expected unused status, got %s", code.Status)
	}
	if code.Amount != 500 {
		t.Fatalf("expected amount 500, got %d", code.Amount)
	}
	if len(code.Code) != 6 || !strings.HasPrefix(code.Code, "U") {
		t.Fatalf("unexpected code format: %q", code.Code)
	}
	if code.Code[1:3] != "AB" {
		t.Fatalf("expected owner fragment AB, got %q", code.Code[1:3])
	}

	stored, err := store.GetCode(ctx, code.Code)
	if err != nil {
		t.Fatalf("get stored code: %v", err)
	}
	if stored.OwnerID != code.OwnerID {
		t.Fatalf("owner mismatch: %s", stored.OwnerID)
	}
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(ledger.NewInMemory())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "", 100); err == nil {
		t.Fatal("expected error for missing owner")
	}
	if _, err := svc.Create(ctx, "owner", 0); err == nil {
		t.Fatal("expected error for zero amount")
	}
	if _, err := svc.Create(ctx, "owner", -5); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestCreateRetriesOnCollision(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store)
	ctx := context.Background()

	attempts := 0
	svc.generate = func(string) (string, error) {
		attempts++
		if attempts < 3 {
			return "UXXAAA", nil
		}
		return "UXXBBB", nil
	}

	ledger.SeedCode(store, ledger.Code{Code: "UXXAAA", Amount: 1, OwnerID: "o", Status: ledger.CodeStatusUnused})

	code, err := svc.Create(ctx, "owner", 100)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if code.Code != "UXXBBB" {
		t.Fatalf("expected regenerated code, got %s", code.Code)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 generation attempts, got %d", attempts)
	}
}

func TestCreateExhaustsRetries(t *testing.T) {
	store := ledger.NewInMemory()
	svc := NewService(store)
	ctx := context.Background()

	svc.generate = func(string) (string, error) { return "USAME1", nil }
	ledger.SeedCode(store, ledger.Code{Code: "USAME1", Amount: 1, OwnerID: "o", Status: ledger.CodeStatusUnused})

	if _, err := svc.Create(ctx, "owner", 100); err != ledger.ErrCodeCollision {
		t.Fatalf("expected terminal collision error, got %v", err)
	}
}

func TestOwnerFragmentPadding(t *testing.T) {
	cases := map[string]string{
		"":        "00",
		"a":       "0A",
		"7":       "07",
		"user-42": "42",
		"x9z":     "9Z",
	}
	for in, want := range cases {
		if got := ownerFragment(in); got != want {
			t.Fatalf("ownerFragment(%q) = %q, want %q", in, got, want)
		}
	}
}
