package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"mcashchain/core/types"
)

// GetWitness returns the witness registered at addr, or nil.
func (m *Manager) GetWitness(addr common.Address) (*types.Witness, error) {
	rec := new(witnessRecord)
	ok, err := m.Get(CollectionWitnesses, addr.Bytes(), rec)
	if err != nil || !ok {
		return nil, err
	}
	return rec.toWitness(), nil
}

// PutWitness persists the witness.
func (m *Manager) PutWitness(w *types.Witness) error {
	if w == nil {
		return fmt.Errorf("state: nil witness")
	}
	return m.Put(CollectionWitnesses, w.Address.Bytes(), newWitnessRecord(w))
}

// ForEachWitness visits every witness in address order.
func (m *Manager) ForEachWitness(fn func(*types.Witness) error) error {
	return m.Iterate(CollectionWitnesses, func(_, value []byte) error {
		rec := new(witnessRecord)
		if err := rlp.DecodeBytes(value, rec); err != nil {
			return fmt.Errorf("state: decode witness: %w", err)
		}
		return fn(rec.toWitness())
	})
}

// GetStakeAccount returns the vesting snapshot of addr, or nil.
func (m *Manager) GetStakeAccount(addr common.Address) (*types.StakeAccount, error) {
	rec := new(stakeRecord)
	ok, err := m.Get(CollectionStakeAccounts, addr.Bytes(), rec)
	if err != nil || !ok {
		return nil, err
	}
	return &types.StakeAccount{
		Address:      rec.Address,
		Amount:       int64(rec.Amount),
		StakeTime:    int64(rec.StakeTime),
		Epoch:        int64(rec.Epoch),
		TotalRewards: int64(rec.TotalRewards),
	}, nil
}

// PutStakeAccount persists the snapshot; a zero amount removes it.
func (m *Manager) PutStakeAccount(s *types.StakeAccount) error {
	if s == nil {
		return fmt.Errorf("state: nil stake account")
	}
	if s.Amount == 0 {
		return m.Delete(CollectionStakeAccounts, s.Address.Bytes())
	}
	return m.Put(CollectionStakeAccounts, s.Address.Bytes(), &stakeRecord{
		Address:      s.Address,
		Amount:       uint64(s.Amount),
		StakeTime:    uint64(s.StakeTime),
		Epoch:        uint64(s.Epoch),
		TotalRewards: uint64(s.TotalRewards),
	})
}

// ForEachStakeAccount visits every vesting snapshot in address order.
func (m *Manager) ForEachStakeAccount(fn func(*types.StakeAccount) error) error {
	return m.Iterate(CollectionStakeAccounts, func(_, value []byte) error {
		rec := new(stakeRecord)
		if err := rlp.DecodeBytes(value, rec); err != nil {
			return fmt.Errorf("state: decode stake account: %w", err)
		}
		return fn(&types.StakeAccount{
			Address:      rec.Address,
			Amount:       int64(rec.Amount),
			StakeTime:    int64(rec.StakeTime),
			Epoch:        int64(rec.Epoch),
			TotalRewards: int64(rec.TotalRewards),
		})
	})
}
