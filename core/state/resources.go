package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

// GetDelegatedResource returns the from -> to delegation link, or nil.
func (m *Manager) GetDelegatedResource(from, to common.Address) (*types.DelegatedResource, error) {
	rec := new(delegatedRecord)
	ok, err := m.Get(CollectionDelegatedResources, delegatedKey(from.Bytes(), to.Bytes()), rec)
	if err != nil || !ok {
		return nil, err
	}
	return rec.toDelegated(), nil
}

// PutDelegatedResource persists the link. Empty links are removed.
func (m *Manager) PutDelegatedResource(d *types.DelegatedResource) error {
	if d == nil {
		return fmt.Errorf("state: nil delegated resource")
	}
	key := delegatedKey(d.From.Bytes(), d.To.Bytes())
	if d.Empty() {
		return m.Delete(CollectionDelegatedResources, key)
	}
	return m.Put(CollectionDelegatedResources, key, newDelegatedRecord(d))
}

// GetDelegatedIndex returns the counterparty index of addr. A missing index
// is returned empty.
func (m *Manager) GetDelegatedIndex(addr common.Address) (*types.DelegatedResourceAccountIndex, error) {
	rec := new(indexRecord)
	ok, err := m.Get(CollectionDelegatedIndex, addr.Bytes(), rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.DelegatedResourceAccountIndex{Account: addr}, nil
	}
	return &types.DelegatedResourceAccountIndex{
		Account:      rec.Account,
		FromAccounts: rec.FromAccounts,
		ToAccounts:   rec.ToAccounts,
	}, nil
}

// PutDelegatedIndex persists the index; an index without counterparties is
// removed.
func (m *Manager) PutDelegatedIndex(idx *types.DelegatedResourceAccountIndex) error {
	if idx == nil {
		return fmt.Errorf("state: nil delegated index")
	}
	if len(idx.FromAccounts) == 0 && len(idx.ToAccounts) == 0 {
		return m.Delete(CollectionDelegatedIndex, idx.Account.Bytes())
	}
	return m.Put(CollectionDelegatedIndex, idx.Account.Bytes(), &indexRecord{
		Account:      idx.Account,
		FromAccounts: sortedAddresses(idx.FromAccounts),
		ToAccounts:   sortedAddresses(idx.ToAccounts),
	})
}
