package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/OrderOfTheOverflow/globalsiteselector/internal/data"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/domain/federation"
	"github.com/OrderOfTheOverflow/globalsiteselector/internal/ports"
)

// placeholderPasswordBytes is the entropy of the random password stored for
// auto-provisioned accounts. Federated logins never use it; the account
// exists only so session and ownership bookkeeping works.
const placeholderPasswordBytes = 32

// ProvisionService creates local accounts for federated identities on
// first login.
type ProvisionService struct {
	accounts ports.AccountStore
}

// NewProvisionService constructs a new ProvisionService.
func NewProvisionService(accounts ports.AccountStore) *ProvisionService {
	return &ProvisionService{accounts: accounts}
}

// EnsureProvisioned makes sure an account exists for uid. Existing accounts
// are left untouched. A concurrent create that loses the race against
// another slave worker is success-equivalent: the account store's
// uniqueness constraint resolves it.
func (s *ProvisionService) EnsureProvisioned(ctx context.Context, uid, provider string) error {
	if uid == "" {
		return errors.New("uid is required")
	}

	exists, err := s.accounts.Exists(ctx, uid)
	if err != nil {
		return fmt.Errorf("check account %q: %w", uid, err)
	}
	if exists {
		return nil
	}

	placeholder, err := randomSecret(placeholderPasswordBytes)
	if err != nil {
		return fmt.Errorf("generate placeholder password: %w", err)
	}

	account := federation.Account{
		UID:           uid,
		ProvisionedBy: provider,
	}
	if createErr := s.accounts.Create(ctx, account, placeholder); createErr != nil {
		if errors.Is(createErr, data.ErrAccountExists) {
			// Lost a provisioning race; the account is there, which is
			// all this call guarantees.
			return nil
		}
		return fmt.Errorf("provision account %q: %w", uid, createErr)
	}
	return nil
}
