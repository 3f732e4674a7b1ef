package identity

import (
	"context"
	"testing"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Email: "Alice@Example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "alice@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected same user, got %s", authed.ID)
	}

	if _, err := svc.Authenticate(ctx, Credentials{Email: "alice@example.com", Password: "wrong"}); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "ghost@example.com", Password: "hunter22"}); err != ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "not-an-email", Password: "hunter22"}); err == nil {
		t.Fatal("expected error for invalid email")
	}
	if _, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "short"}); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "hunter22"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "hunter22"}); err != ErrEmailTaken {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestSetPaymentPIN(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.Register(ctx, Credentials{Email: "a@b.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.SetPaymentPIN(ctx, user.ID, "12a4"); err == nil {
		t.Fatal("expected error for non-numeric pin")
	}
	if err := svc.SetPaymentPIN(ctx, user.ID, "123"); err == nil {
		t.Fatal("expected error for short pin")
	}
	if err := svc.SetPaymentPIN(ctx, user.ID, "1234"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	stored, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(stored.PINHash) == 0 {
		t.Fatal("expected pin hash to be stored")
	}
}
