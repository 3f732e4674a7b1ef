package ledger

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrWalletNotFound indicates a referenced wallet does not exist.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrInsufficientFunds occurs when the source wallet lacks available balance
	// to cover a requested transfer.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrCodeNotFound indicates the redemption code does not exist.
	ErrCodeNotFound = errors.New("code not found")

	// ErrCodeAlreadyUsed indicates the code reached its terminal status before
	// this attempt; redeeming it again can never succeed.
	ErrCodeAlreadyUsed = errors.New("code already used")

	// ErrCodeCollision indicates a generated code string is already taken.
	ErrCodeCollision = errors.New("code collision")

	// ErrStoreTransient marks retryable backend failures such as deadlock
	// victim selection or a dropped connection. State never partially commits.
	ErrStoreTransient = errors.New("transient store failure")
)

const (
	// CodeStatusUnused is the initial status of every issued code.
	CodeStatusUnused = "unused"
	// CodeStatusUsed is terminal; no transition leaves it.
	CodeStatusUsed = "used"
)

const (
	// EntryDebit marks a transaction row that removes value from a wallet.
	EntryDebit = "debit"
	// EntryCredit marks a transaction row that adds value to a wallet.
	EntryCredit = "credit"
)

// Wallet is a named balance-holding account. Balances are integer minor
// currency units and are never negative after a committed operation.
type Wallet struct {
	ID      string
	Name    string
	Balance int64
}

// Transaction is an immutable signed entry against one wallet. Debit rows
// carry a negative amount, credit rows a positive one, so the sum of a
// wallet's entries reconstructs its balance.
type Transaction struct {
	ID        string
	WalletID  string
	Amount    int64
	Type      string
	Code      string
	CreatedAt time.Time
}

// Code is a single-use claim to move a fixed amount of value upon redemption.
type Code struct {
	Code      string
	Amount    int64
	OwnerID   string
	Status    string
	CreatedAt time.Time
}

// Tx exposes the row operations available inside one atomic unit. The
// ForUpdate reads take exclusive row locks that are held until the unit
// commits or rolls back.
type Tx interface {
	WalletForUpdate(ctx context.Context, name string) (Wallet, error)
	AddToBalance(ctx context.Context, name string, delta int64) error
	InsertTransaction(ctx context.Context, entry Transaction) error
	CodeForUpdate(ctx context.Context, code string) (Code, error)
	MarkCodeUsed(ctx context.Context, code string) error
	InsertCode(ctx context.Context, code Code) error
}

// Store is the transactional contract implemented by ledger backends
// (e.g. Postgres). WithinTx runs fn inside one atomic unit: if fn returns an
// error the unit rolls back in full and the error is returned unchanged,
// otherwise the unit commits.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error

	EnsureWallet(ctx context.Context, name string) error
	GetWallet(ctx context.Context, name string) (Wallet, error)
	GetCode(ctx context.Context, code string) (Code, error)
	WalletTransactions(ctx context.Context, name string) ([]Transaction, error)
}
