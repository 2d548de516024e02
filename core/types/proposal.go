package types

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalState enumerates the lifecycle of a parameter proposal.
type ProposalState uint8

const (
	ProposalPending ProposalState = iota
	ProposalDisapproved
	ProposalApproved
	ProposalCanceled
)

func (s ProposalState) String() string {
	switch s {
	case ProposalPending:
		return "PENDING"
	case ProposalDisapproved:
		return "DISAPPROVED"
	case ProposalApproved:
		return "APPROVED"
	case ProposalCanceled:
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}

// Proposal is a committee request to change chain parameters.
type Proposal struct {
	ID             int64            `json:"id"`
	Proposer       common.Address   `json:"proposer"`
	Parameters     map[int64]int64  `json:"parameters"`
	CreateTime     int64            `json:"createTime"`
	ExpirationTime int64            `json:"expirationTime"`
	State          ProposalState    `json:"state"`
	Approvals      []common.Address `json:"approvals"`
}

// Expired reports whether the proposal can no longer be acted upon at now.
func (p *Proposal) Expired(now int64) bool {
	return now > p.ExpirationTime
}

// ParameterIDs returns the proposed parameter ids in ascending order.
func (p *Proposal) ParameterIDs() []int64 {
	ids := make([]int64, 0, len(p.Parameters))
	for id := range p.Parameters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasApproval reports whether addr already approved the proposal.
func (p *Proposal) HasApproval(addr common.Address) bool {
	return containsAddress(p.Approvals, addr)
}

// AddApproval records addr's approval.
func (p *Proposal) AddApproval(addr common.Address) {
	if !p.HasApproval(addr) {
		p.Approvals = append(p.Approvals, addr)
	}
}

// RemoveApproval withdraws addr's approval.
func (p *Proposal) RemoveApproval(addr common.Address) {
	p.Approvals = removeAddress(p.Approvals, addr)
}
