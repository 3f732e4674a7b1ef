package wallet

import (
	"context"
	"time"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

// Service exposes read and provisioning operations over the named platform
// wallets. Balances are only ever mutated through ledger transfers.
type Service struct {
	store ledger.Store
}

// NewService builds a wallet service instance.
func NewService(store ledger.Store) *Service {
	return &Service{store: store}
}

// Balance encapsulates available funds for a wallet.
type Balance struct {
	Wallet string
	Amount int64
	AsOf   time.Time
}

// Provision guarantees each named wallet exists with a zero starting balance.
// Called once at startup for the fixed intermediate and platform wallets.
func (s *Service) Provision(ctx context.Context, names ...string) error {
	for _, name := range names {
		if err := s.store.EnsureWallet(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

// Balance returns the current balance for the named wallet.
func (s *Service) Balance(ctx context.Context, name string) (Balance, error) {
	w, err := s.store.GetWallet(ctx, name)
	if err != nil {
		return Balance{}, err
	}
	return Balance{Wallet: w.Name, Amount: w.Balance, AsOf: time.Now().UTC()}, nil
}

// Transactions returns the wallet's append-only audit trail, oldest first.
func (s *Service) Transactions(ctx context.Context, name string) ([]ledger.Transaction, error) {
	return s.store.WalletTransactions(ctx, name)
}
