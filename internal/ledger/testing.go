package ledger

// SeedWallet is a test helper that creates a wallet with the given balance
// when using the in-memory store.
func SeedWallet(s Store, name string, balance int64) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.wallets[name] = Wallet{ID: name, Name: name, Balance: balance}
	}
}

// SeedCode is a test helper that inserts a code row when using the in-memory
// store.
func SeedCode(s Store, code Code) {
	if mem, ok := s.(*memoryStore); ok {
		mem.mu.Lock()
		defer mem.mu.Unlock()
		mem.codes[code.Code] = code
	}
}
