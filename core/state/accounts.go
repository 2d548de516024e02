package state

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"mcashchain/core/types"
)

// GetAccount returns the account stored under addr, or nil when it does not
// exist.
func (m *Manager) GetAccount(addr common.Address) (*types.Account, error) {
	rec := new(accountRecord)
	ok, err := m.Get(CollectionAccounts, addr.Bytes(), rec)
	if err != nil || !ok {
		return nil, err
	}
	return rec.toAccount(), nil
}

// PutAccount persists the account under its own address.
func (m *Manager) PutAccount(account *types.Account) error {
	if account == nil {
		return fmt.Errorf("state: nil account")
	}
	if account.Address == (common.Address{}) {
		return fmt.Errorf("state: account address must not be empty")
	}
	return m.Put(CollectionAccounts, account.Address.Bytes(), newAccountRecord(account))
}

// HasAccount reports whether addr has an account.
func (m *Manager) HasAccount(addr common.Address) (bool, error) {
	return m.Has(CollectionAccounts, addr.Bytes())
}

// ForEachAccount visits every account in address order.
func (m *Manager) ForEachAccount(fn func(*types.Account) error) error {
	return m.Iterate(CollectionAccounts, func(_, value []byte) error {
		rec := new(accountRecord)
		if err := rlp.DecodeBytes(value, rec); err != nil {
			return fmt.Errorf("state: decode account: %w", err)
		}
		return fn(rec.toAccount())
	})
}

func accountIDKey(id string) []byte {
	return []byte(strings.ToLower(id))
}

// AccountIDOwner resolves an account id (case-insensitive) to its owner.
func (m *Manager) AccountIDOwner(id string) (common.Address, bool, error) {
	var owner common.Address
	ok, err := m.Get(CollectionAccountIDs, accountIDKey(id), &owner)
	return owner, ok, err
}

// PutAccountID indexes an account id for its owner.
func (m *Manager) PutAccountID(id string, owner common.Address) error {
	return m.Put(CollectionAccountIDs, accountIDKey(id), owner)
}
