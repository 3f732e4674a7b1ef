package ledger

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu           sync.Mutex
	wallets      map[string]Wallet
	transactions []Transaction
	codes        map[string]Code
}

// NewInMemory creates a concurrency-safe in-memory store useful for unit
// tests. Atomic units are serialized under one mutex and the pre-unit state
// is restored whenever the unit's function returns an error, so rollback
// semantics match the Postgres backend.
func NewInMemory() Store {
	return &memoryStore{
		wallets: make(map[string]Wallet),
		codes:   make(map[string]Code),
	}
}

func (s *memoryStore) WithinTx(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	walletSnapshot := make(map[string]Wallet, len(s.wallets))
	for name, w := range s.wallets {
		walletSnapshot[name] = w
	}
	codeSnapshot := make(map[string]Code, len(s.codes))
	for k, c := range s.codes {
		codeSnapshot[k] = c
	}
	txCount := len(s.transactions)

	if err := fn(&memoryTx{store: s}); err != nil {
		s.wallets = walletSnapshot
		s.codes = codeSnapshot
		s.transactions = s.transactions[:txCount]
		return err
	}
	return nil
}

func (s *memoryStore) EnsureWallet(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[name]; !exists {
		s.wallets[name] = Wallet{ID: name, Name: name}
	}
	return nil
}

func (s *memoryStore) GetWallet(_ context.Context, name string) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[name]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

func (s *memoryStore) GetCode(_ context.Context, code string) (Code, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[code]
	if !ok {
		return Code{}, ErrCodeNotFound
	}
	return c, nil
}

func (s *memoryStore) WalletTransactions(_ context.Context, name string) ([]Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[name]
	if !ok {
		return nil, ErrWalletNotFound
	}
	var entries []Transaction
	for _, entry := range s.transactions {
		if entry.WalletID == w.ID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

// memoryTx mutates the store directly; WithinTx owns the lock and the
// snapshot used to undo these mutations on failure.
type memoryTx struct {
	store *memoryStore
}

func (t *memoryTx) WalletForUpdate(_ context.Context, name string) (Wallet, error) {
	w, ok := t.store.wallets[name]
	if !ok {
		return Wallet{}, ErrWalletNotFound
	}
	return w, nil
}

func (t *memoryTx) AddToBalance(_ context.Context, name string, delta int64) error {
	w, ok := t.store.wallets[name]
	if !ok {
		return ErrWalletNotFound
	}
	w.Balance += delta
	t.store.wallets[name] = w
	return nil
}

func (t *memoryTx) InsertTransaction(_ context.Context, entry Transaction) error {
	t.store.transactions = append(t.store.transactions, entry)
	return nil
}

func (t *memoryTx) CodeForUpdate(_ context.Context, code string) (Code, error) {
	c, ok := t.store.codes[code]
	if !ok {
		return Code{}, ErrCodeNotFound
	}
	return c, nil
}

func (t *memoryTx) MarkCodeUsed(_ context.Context, code string) error {
	c, ok := t.store.codes[code]
	if !ok {
		return ErrCodeNotFound
	}
	c.Status = CodeStatusUsed
	t.store.codes[code] = c
	return nil
}

func (t *memoryTx) InsertCode(_ context.Context, code Code) error {
	if _, exists := t.store.codes[code.Code]; exists {
		return ErrCodeCollision
	}
	t.store.codes[code.Code] = code
	return nil
}
