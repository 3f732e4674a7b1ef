package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

// PostgresStore implements Store on PostgreSQL. Row locks come from
// SELECT ... FOR UPDATE and every WithinTx call maps to exactly one database
// transaction.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore builds a Postgres-backed ledger store.
func NewPostgresStore(db *pgxpool.Pool, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// WithinTx runs fn inside a single database transaction. Any error from fn
// triggers a rollback; rollback failures are logged but never replace the
// original error.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return mapStoreError(err)
	}

	if err := fn(&postgresTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Error("ledger rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return mapStoreError(err)
	}
	return nil
}

// EnsureWallet guarantees a wallet row exists for the provided name.
func (s *PostgresStore) EnsureWallet(ctx context.Context, name string) error {
	_, err := s.db.Exec(ctx, `INSERT INTO wallets (id, name, balance) VALUES ($1, $2, 0)
        ON CONFLICT (name) DO NOTHING`, uuid.New(), name)
	return mapStoreError(err)
}

// GetWallet fetches a wallet by name without locking it.
func (s *PostgresStore) GetWallet(ctx context.Context, name string) (Wallet, error) {
	row := s.db.QueryRow(ctx, `SELECT id, name, balance FROM wallets WHERE name = $1`, name)
	return scanWallet(row)
}

// GetCode fetches a code row without locking it.
func (s *PostgresStore) GetCode(ctx context.Context, code string) (Code, error) {
	row := s.db.QueryRow(ctx, `SELECT code, amount, owner_id, status, created_at
        FROM codes WHERE code = $1`, code)
	return scanCode(row)
}

// WalletTransactions returns the append-only transaction history for a
// wallet, oldest first.
func (s *PostgresStore) WalletTransactions(ctx context.Context, name string) ([]Transaction, error) {
	w, err := s.GetWallet(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, `SELECT id, wallet_id, amount, type, code, created_at
        FROM transactions WHERE wallet_id = $1 ORDER BY created_at, id`, w.ID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var entries []Transaction
	for rows.Next() {
		var (
			entry     Transaction
			id        uuid.UUID
			walletID  uuid.UUID
			createdAt time.Time
		)
		if err := rows.Scan(&id, &walletID, &entry.Amount, &entry.Type, &entry.Code, &createdAt); err != nil {
			return nil, mapStoreError(err)
		}
		entry.ID = id.String()
		entry.WalletID = walletID.String()
		entry.CreatedAt = createdAt.UTC()
		entries = append(entries, entry)
	}
	return entries, mapStoreError(rows.Err())
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) WalletForUpdate(ctx context.Context, name string) (Wallet, error) {
	row := t.tx.QueryRow(ctx, `SELECT id, name, balance FROM wallets WHERE name = $1 FOR UPDATE`, name)
	return scanWallet(row)
}

func (t *postgresTx) AddToBalance(ctx context.Context, name string, delta int64) error {
	cmd, err := t.tx.Exec(ctx, `UPDATE wallets SET balance = balance + $1 WHERE name = $2`, delta, name)
	if err != nil {
		return mapStoreError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrWalletNotFound
	}
	return nil
}

func (t *postgresTx) InsertTransaction(ctx context.Context, entry Transaction) error {
	entryID, err := uuid.Parse(entry.ID)
	if err != nil {
		return fmt.Errorf("transaction id: %w", err)
	}
	walletID, err := uuid.Parse(entry.WalletID)
	if err != nil {
		return fmt.Errorf("transaction wallet id: %w", err)
	}
	_, err = t.tx.Exec(ctx, `INSERT INTO transactions (id, wallet_id, amount, type, code, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		entryID, walletID, entry.Amount, entry.Type, entry.Code, entry.CreatedAt.UTC())
	return mapStoreError(err)
}

func (t *postgresTx) CodeForUpdate(ctx context.Context, code string) (Code, error) {
	row := t.tx.QueryRow(ctx, `SELECT code, amount, owner_id, status, created_at
        FROM codes WHERE code = $1 FOR UPDATE`, code)
	return scanCode(row)
}

func (t *postgresTx) MarkCodeUsed(ctx context.Context, code string) error {
	cmd, err := t.tx.Exec(ctx, `UPDATE codes SET status = $1 WHERE code = $2`, CodeStatusUsed, code)
	if err != nil {
		return mapStoreError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrCodeNotFound
	}
	return nil
}

func (t *postgresTx) InsertCode(ctx context.Context, code Code) error {
	ownerID, err := uuid.Parse(code.OwnerID)
	if err != nil {
		return fmt.Errorf("code owner id: %w", err)
	}
	_, err = t.tx.Exec(ctx, `INSERT INTO codes (code, amount, owner_id, status, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		code.Code, code.Amount, ownerID, code.Status, code.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrCodeCollision
		}
		return mapStoreError(err)
	}
	return nil
}

func scanWallet(row pgx.Row) (Wallet, error) {
	var (
		w  Wallet
		id uuid.UUID
	)
	if err := row.Scan(&id, &w.Name, &w.Balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Wallet{}, ErrWalletNotFound
		}
		return Wallet{}, mapStoreError(err)
	}
	w.ID = id.String()
	return w, nil
}

func scanCode(row pgx.Row) (Code, error) {
	var (
		c         Code
		ownerID   uuid.UUID
		createdAt time.Time
	)
	if err := row.Scan(&c.Code, &c.Amount, &ownerID, &c.Status, &createdAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Code{}, ErrCodeNotFound
		}
		return Code{}, mapStoreError(err)
	}
	c.OwnerID = ownerID.String()
	c.CreatedAt = createdAt.UTC()
	return c, nil
}

// mapStoreError converts retryable backend failures into ErrStoreTransient so
// callers can distinguish them from business errors. Deadlock victims and
// serialization failures roll back cleanly on the server side.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", ErrStoreTransient, pgErr.Code)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreTransient, err)
	}
	return err
}
