package codes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
)

// maxGenerateAttempts bounds the retry loop on code collisions. With a 32^3
// random tail per owner the loop effectively never exhausts, but when it does
// the caller gets a distinguishable error instead of a raw constraint
// violation.
const maxGenerateAttempts = 5

// Service issues single-use redemption codes.
type Service struct {
	store    ledger.Store
	generate func(ownerID string) (string, error)
}

// NewService builds a code issuer backed by the ledger store.
func NewService(store ledger.Store) *Service {
	return &Service{store: store, generate: shortCode}
}

// Create persists a new unused code worth amount, owned by ownerID. On a
// collision with an existing code string it regenerates and retries up to
// maxGenerateAttempts times before surfacing ErrCodeCollision.
func (s *Service) Create(ctx context.Context, ownerID string, amount int64) (ledger.Code, error) {
	if ownerID == "" {
		return ledger.Code{}, fmt.Errorf("owner is required")
	}
	if amount <= 0 {
		return ledger.Code{}, fmt.Errorf("amount must be positive")
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		str, err := s.generate(ownerID)
		if err != nil {
			return ledger.Code{}, err
		}

		code := ledger.Code{
			Code:      str,
			Amount:    amount,
			OwnerID:   ownerID,
			Status:    ledger.CodeStatusUnused,
			CreatedAt: time.Now().UTC(),
		}

		err = s.store.WithinTx(ctx, func(tx ledger.Tx) error {
			return tx.InsertCode(ctx, code)
		})
		if errors.Is(err, ledger.ErrCodeCollision) {
			continue
		}
		if err != nil {
			return ledger.Code{}, err
		}
		return code, nil
	}

	return ledger.Code{}, ledger.ErrCodeCollision
}

// Get returns a code row by its string.
func (s *Service) Get(ctx context.Context, code string) (ledger.Code, error) {
	return s.store.GetCode(ctx, code)
}
