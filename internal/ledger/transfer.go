package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Transfer moves amount from one wallet to another inside the caller's atomic
// unit. It locks both wallet rows, checks the source balance, applies the two
// balance updates and appends one debit and one credit transaction row tagged
// with refCode. The caller's unit commits or rolls back all six effects
// together; Transfer itself never commits.
//
// Wallet rows are always locked in lexicographic name order, regardless of
// transfer direction, so two concurrent transfers over the same pair cannot
// circular-wait.
func Transfer(ctx context.Context, tx Tx, fromName, toName string, amount int64, refCode string) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if fromName == toName {
		return fmt.Errorf("source and destination wallets must differ")
	}
	if refCode == "" {
		return fmt.Errorf("reference code is required")
	}

	first, second := fromName, toName
	if second < first {
		first, second = second, first
	}

	locked := make(map[string]Wallet, 2)
	for _, name := range []string{first, second} {
		w, err := tx.WalletForUpdate(ctx, name)
		if err != nil {
			return err
		}
		locked[name] = w
	}

	if locked[fromName].Balance < amount {
		return ErrInsufficientFunds
	}

	if err := tx.AddToBalance(ctx, fromName, -amount); err != nil {
		return err
	}
	if err := tx.AddToBalance(ctx, toName, amount); err != nil {
		return err
	}

	now := time.Now().UTC()
	debit := Transaction{
		ID:        uuid.NewString(),
		WalletID:  locked[fromName].ID,
		Amount:    -amount,
		Type:      EntryDebit,
		Code:      refCode,
		CreatedAt: now,
	}
	credit := Transaction{
		ID:        uuid.NewString(),
		WalletID:  locked[toName].ID,
		Amount:    amount,
		Type:      EntryCredit,
		Code:      refCode,
		CreatedAt: now,
	}

	if err := tx.InsertTransaction(ctx, debit); err != nil {
		return err
	}
	return tx.InsertTransaction(ctx, credit)
}
