package redemption

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tembo-pay/tembo_pay/internal/ledger"
	"github.com/tembo-pay/tembo_pay/internal/notification"
)

// Service converts unused codes into settled wallet transfers exactly once.
// Every redemption runs as a single atomic unit: the code row is locked
// exclusively, the value moves from the intermediate wallet to the platform
// wallet, and the code flips to used, or none of it happens.
type Service struct {
	store        ledger.Store
	sourceWallet string
	platform     string
	notifier     notification.Notifier
}

// NewService constructs a redemption service bound to the configured source
// and platform wallets.
func NewService(store ledger.Store, sourceWallet, platformWallet string, notifier notification.Notifier) *Service {
	return &Service{store: store, sourceWallet: sourceWallet, platform: platformWallet, notifier: notifier}
}

// Result describes a completed redemption.
type Result struct {
	Code       string
	Amount     int64
	RedeemedAt time.Time
}

// Redeem settles the code. A concurrent attempt on the same code blocks on
// the code's row lock until this unit resolves, then observes status used and
// fails with ErrCodeAlreadyUsed; no code is ever redeemed twice.
func (s *Service) Redeem(ctx context.Context, codeStr string) (Result, error) {
	codeStr = strings.TrimSpace(codeStr)
	if codeStr == "" {
		return Result{}, fmt.Errorf("code is required")
	}

	var (
		res     Result
		ownerID string
	)
	err := s.store.WithinTx(ctx, func(tx ledger.Tx) error {
		code, err := tx.CodeForUpdate(ctx, codeStr)
		if err != nil {
			return err
		}
		if code.Status != ledger.CodeStatusUnused {
			return ledger.ErrCodeAlreadyUsed
		}

		if err := ledger.Transfer(ctx, tx, s.sourceWallet, s.platform, code.Amount, code.Code); err != nil {
			return err
		}
		if err := tx.MarkCodeUsed(ctx, code.Code); err != nil {
			return err
		}

		ownerID = code.OwnerID
		res = Result{Code: code.Code, Amount: code.Amount, RedeemedAt: time.Now().UTC()}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindCodeRedeemed,
			Destination: ownerID,
			Body:        fmt.Sprintf("Code %s redeemed for %d", res.Code, res.Amount),
		})
	}

	return res, nil
}
