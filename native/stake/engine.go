// Package stake implements the currency-denominated staking track that backs
// witness voting power, and the per-epoch controller that snapshots vesting
// stake and accrues rewards.
package stake

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var errStateNotConfigured = errors.New("stake: state not configured")

type stakeState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetWitness(addr common.Address) (*types.Witness, error)
	PutWitness(w *types.Witness) error
}

// Engine builds stake, unstake and reward withdrawal contracts.
type Engine struct {
	state   stakeState
	emitter events.Emitter
}

// NewEngine constructs a stake engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state stakeState) { e.state = state }

// SetEmitter configures the event emitter. Nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) emit(evt events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(evt)
	}
}

// Stake moves liquid balance into normal stake.
func (e *Engine) Stake(env *nativecommon.Env, owner []byte, p *types.StakePayload) nativecommon.Contract {
	return &stakeContract{engine: e, env: env, owner: owner, payload: p}
}

// Unstake returns the full normal stake once it has vested.
func (e *Engine) Unstake(env *nativecommon.Env, owner []byte, _ *types.UnstakePayload) nativecommon.Contract {
	return &unstakeContract{engine: e, env: env, owner: owner}
}

// WithdrawReward moves accrued reward allowance into liquid balance.
func (e *Engine) WithdrawReward(env *nativecommon.Env, owner []byte, _ *types.WithdrawRewardPayload) nativecommon.Contract {
	return &withdrawContract{engine: e, env: env, owner: owner}
}

// VotePower converts total stake into whole votes.
func VotePower(account *types.Account) int64 {
	if account == nil {
		return 0
	}
	return account.TotalStake() / types.Precision
}
