package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"mcashchain/core/types"
)

// GetProposal returns the proposal with the given id, or nil when unknown.
func (m *Manager) GetProposal(id int64) (*types.Proposal, error) {
	rec := new(proposalRecord)
	ok, err := m.Get(CollectionProposals, idKey(id), rec)
	if err != nil || !ok {
		return nil, err
	}
	return rec.toProposal(), nil
}

// PutProposal persists the proposal.
func (m *Manager) PutProposal(p *types.Proposal) error {
	if p == nil {
		return fmt.Errorf("state: nil proposal")
	}
	return m.Put(CollectionProposals, idKey(p.ID), newProposalRecord(p))
}

// ForEachProposal visits every proposal in id order.
func (m *Manager) ForEachProposal(fn func(*types.Proposal) error) error {
	return m.Iterate(CollectionProposals, func(key, value []byte) error {
		rec := new(proposalRecord)
		if err := rlp.DecodeBytes(value, rec); err != nil {
			return fmt.Errorf("state: decode proposal %d: %w", decodeIDKey(key), err)
		}
		return fn(rec.toProposal())
	})
}
