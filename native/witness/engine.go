// Package witness manages witness registration and stake-weighted voting.
package witness

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var errStateNotConfigured = errors.New("witness: state not configured")

type witnessState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetWitness(addr common.Address) (*types.Witness, error)
	PutWitness(w *types.Witness) error
}

// Engine builds witness lifecycle and vote contracts.
type Engine struct {
	state   witnessState
	emitter events.Emitter
}

// NewEngine constructs a witness engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state witnessState) { e.state = state }

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

// Create registers a witness controlled by owner.
func (e *Engine) Create(env *nativecommon.Env, owner []byte, p *types.WitnessCreatePayload) nativecommon.Contract {
	return &createContract{engine: e, env: env, owner: owner, payload: p}
}

// Update changes the url of a witness controlled by owner.
func (e *Engine) Update(env *nativecommon.Env, owner []byte, p *types.WitnessUpdatePayload) nativecommon.Contract {
	return &updateContract{engine: e, env: env, owner: owner, payload: p}
}

// Resign retires a witness and returns its stake to the owner's normal stake.
func (e *Engine) Resign(env *nativecommon.Env, owner []byte, p *types.WitnessResignPayload) nativecommon.Contract {
	return &resignContract{engine: e, env: env, owner: owner, payload: p}
}

// Vote moves the owner's voting power to a witness.
func (e *Engine) Vote(env *nativecommon.Env, owner []byte, p *types.VoteWitnessPayload) nativecommon.Contract {
	return &voteContract{engine: e, env: env, owner: owner, payload: p}
}

// loadControlled resolves a witness address and checks owner controls it.
func loadControlled(state witnessState, owner *types.Account, raw []byte) (*types.Witness, error) {
	addr := owner.Address
	if len(raw) > 0 {
		parsed, ok := nativecommon.ParseAddress(raw)
		if !ok {
			return nil, errInvalidWitness
		}
		addr = parsed
	}
	w, err := state.GetWitness(addr)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, errWitnessMissing
	}
	if w.Owner != owner.Address {
		return nil, errNotController
	}
	return w, nil
}
