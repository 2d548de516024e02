package events

import (
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	TypeProposalCreated  = "gov.proposal_created"
	TypeProposalApproval = "gov.proposal_approval"
	TypeProposalCanceled = "gov.proposal_canceled"
)

// ProposalCreated records a new parameter proposal.
type ProposalCreated struct {
	ID             int64
	Proposer       common.Address
	Parameters     map[int64]int64
	ExpirationTime int64
}

func (ProposalCreated) EventType() string { return TypeProposalCreated }

func (e ProposalCreated) Event() *types.Event {
	ids := make([]int64, 0, len(e.Parameters))
	for id := range e.Parameters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	pairs := make([]string, 0, len(ids))
	for _, id := range ids {
		pairs = append(pairs, intToString(id)+"="+intToString(e.Parameters[id]))
	}
	return &types.Event{
		Type: TypeProposalCreated,
		Attributes: map[string]string{
			"id":             intToString(e.ID),
			"proposer":       formatAddress(e.Proposer),
			"parameters":     strings.Join(pairs, ","),
			"expirationTime": intToString(e.ExpirationTime),
		},
	}
}

// ProposalApproval records a committee member adding or removing approval.
type ProposalApproval struct {
	ID       int64
	Approver common.Address
	Approve  bool
}

func (ProposalApproval) EventType() string { return TypeProposalApproval }

func (e ProposalApproval) Event() *types.Event {
	approve := "false"
	if e.Approve {
		approve = "true"
	}
	return &types.Event{
		Type: TypeProposalApproval,
		Attributes: map[string]string{
			"id":       intToString(e.ID),
			"approver": formatAddress(e.Approver),
			"approve":  approve,
		},
	}
}

// ProposalCanceled records deletion by the proposer.
type ProposalCanceled struct {
	ID       int64
	Proposer common.Address
}

func (ProposalCanceled) EventType() string { return TypeProposalCanceled }

func (e ProposalCanceled) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalCanceled,
		Attributes: map[string]string{
			"id":       intToString(e.ID),
			"proposer": formatAddress(e.Proposer),
		},
	}
}
