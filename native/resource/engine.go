// Package resource implements freezing native currency for bandwidth and
// energy, either for the owner or delegated to another account.
package resource

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var errStateNotConfigured = errors.New("resource: state not configured")

type resourceState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetDelegatedResource(from, to common.Address) (*types.DelegatedResource, error)
	PutDelegatedResource(d *types.DelegatedResource) error
	GetDelegatedIndex(addr common.Address) (*types.DelegatedResourceAccountIndex, error)
	PutDelegatedIndex(idx *types.DelegatedResourceAccountIndex) error
}

// Engine builds freeze and unfreeze contracts.
type Engine struct {
	state   resourceState
	emitter events.Emitter
}

// NewEngine constructs a resource engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state resourceState) { e.state = state }

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

// FreezeBalance locks liquid balance for a resource.
func (e *Engine) FreezeBalance(env *nativecommon.Env, owner []byte, p *types.FreezeBalancePayload) nativecommon.Contract {
	return &freezeContract{engine: e, env: env, owner: owner, payload: p}
}

// UnfreezeBalance releases an expired freeze.
func (e *Engine) UnfreezeBalance(env *nativecommon.Env, owner []byte, p *types.UnfreezeBalancePayload) nativecommon.Contract {
	return &unfreezeContract{engine: e, env: env, owner: owner, payload: p}
}

// weightOf converts a frozen holding into resource weight.
func weightOf(amount, divisor int64) int64 {
	if divisor <= 0 || amount <= 0 {
		return 0
	}
	return amount / divisor
}

// adjustWeight moves the network weight of r by the change in weight of a
// single holding going from before to after. Tracking weight per holding keeps
// the running total equal to the sum of every holding's weight.
func adjustWeight(params *types.ChainParams, r types.ResourceCode, before, after int64) error {
	divisor := params.ResourceWeightDivisor
	delta, err := nativecommon.SubExact(weightOf(after, divisor), weightOf(before, divisor))
	if err != nil {
		return err
	}
	total, err := nativecommon.AddExact(params.Weight(r), delta)
	if err != nil {
		return err
	}
	if total < 0 {
		total = 0
	}
	params.SetWeight(r, total)
	return nil
}

func selfFrozen(acc *types.Account, r types.ResourceCode) *types.Frozen {
	if r == types.ResourceEnergy {
		return &acc.FrozenForEnergy
	}
	return &acc.FrozenForBandwidth
}

func delegatedOut(acc *types.Account, r types.ResourceCode) *int64 {
	if r == types.ResourceEnergy {
		return &acc.DelegatedFrozenForEnergy
	}
	return &acc.DelegatedFrozenForBandwidth
}

func acquired(acc *types.Account, r types.ResourceCode) *int64 {
	if r == types.ResourceEnergy {
		return &acc.AcquiredDelegatedFrozenForEnergy
	}
	return &acc.AcquiredDelegatedFrozenForBandwidth
}
