// Package governance implements committee proposals that change chain
// parameters. Approval counting and enactment run at maintenance boundaries
// outside operation execution.
package governance

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var errStateNotConfigured = errors.New("governance: state not configured")

type proposalState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetProposal(id int64) (*types.Proposal, error)
	PutProposal(p *types.Proposal) error
}

// Engine builds proposal contracts.
type Engine struct {
	state   proposalState
	emitter events.Emitter
}

// NewEngine constructs a governance engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state proposalState) { e.state = state }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets the emitter to a no-op implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(evt)
}

// Create admits a parameter change proposal from a committee member.
func (e *Engine) Create(env *nativecommon.Env, owner []byte, p *types.ProposalCreatePayload) nativecommon.Contract {
	return &createContract{engine: e, env: env, owner: owner, payload: p}
}

// Approve adds or withdraws a committee member's approval.
func (e *Engine) Approve(env *nativecommon.Env, owner []byte, p *types.ProposalApprovePayload) nativecommon.Contract {
	return &approveContract{engine: e, env: env, owner: owner, payload: p}
}

// Delete cancels a pending proposal on behalf of its proposer.
func (e *Engine) Delete(env *nativecommon.Env, owner []byte, p *types.ProposalDeletePayload) nativecommon.Contract {
	return &deleteContract{engine: e, env: env, owner: owner, payload: p}
}

// ExpirationTime returns the first maintenance boundary at least cycles
// maintenance intervals after now.
func ExpirationTime(params *types.ChainParams, now int64) (int64, error) {
	interval := params.MaintenanceTimeInterval
	if interval <= 0 {
		return 0, coreerrors.ErrLongOverflow
	}
	span, err := nativecommon.MulExact(params.ProposalExpireCycles, interval)
	if err != nil {
		return 0, err
	}
	horizon, err := nativecommon.AddExact(now, span)
	if err != nil {
		return 0, err
	}
	current, err := nativecommon.SubExact(params.NextMaintenanceTime, interval)
	if err != nil {
		return 0, err
	}
	elapsed, err := nativecommon.SubExact(horizon, current)
	if err != nil {
		return 0, err
	}
	rounds := elapsed / interval
	if elapsed < 0 && elapsed%interval != 0 {
		rounds--
	}
	offset, err := nativecommon.MulExact(rounds+1, interval)
	if err != nil {
		return 0, err
	}
	return nativecommon.AddExact(current, offset)
}

// loadCommittee resolves the owner and checks committee membership.
func loadCommittee(state proposalState, raw []byte) (*types.Account, error) {
	account, err := nativecommon.LoadOwner(state, raw, "Invalid address")
	if err != nil {
		return nil, err
	}
	if !account.IsCommittee {
		return nil, coreerrors.Validationf("Account[%x] is not a committee member", account.Address.Bytes())
	}
	return account, nil
}

// loadPending loads a proposal that can still be acted upon at now.
func loadPending(state proposalState, id, now int64) (*types.Proposal, error) {
	if id <= 0 {
		return nil, coreerrors.Validationf("Proposal[%d] not exists", id)
	}
	p, err := state.GetProposal(id)
	if err != nil {
		return nil, coreerrors.Execution(err)
	}
	if p == nil {
		return nil, coreerrors.Validationf("Proposal[%d] not exists", id)
	}
	if p.State == types.ProposalCanceled {
		return nil, coreerrors.Validationf("Proposal[%d] canceled", id)
	}
	if p.Expired(now) {
		return nil, coreerrors.Validationf("Proposal[%d] expired", id)
	}
	if p.State != types.ProposalPending {
		return nil, coreerrors.Validationf("Proposal[%d] is not pending", id)
	}
	return p, nil
}
