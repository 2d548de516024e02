package bank

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var errStateNotConfigured = errors.New("bank: state not configured")

type bankState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetAssetIssue(id int64) (*types.AssetIssue, error)
	AssetIDByName(name string) (int64, bool, error)
	AccountIDOwner(id string) (common.Address, bool, error)
	PutAccountID(id string, owner common.Address) error
}

// Engine builds the contracts that move value between accounts and maintain
// account metadata.
type Engine struct {
	state   bankState
	emitter events.Emitter
}

// NewEngine constructs a bank engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state bankState) { e.state = state }

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

// Transfer moves native currency to another account, creating the receiver
// when it does not exist yet.
func (e *Engine) Transfer(env *nativecommon.Env, owner []byte, p *types.TransferPayload) nativecommon.Contract {
	return &transferContract{engine: e, env: env, owner: owner, payload: p}
}

// TransferAsset moves an issued asset to another account.
func (e *Engine) TransferAsset(env *nativecommon.Env, owner []byte, p *types.TransferAssetPayload) nativecommon.Contract {
	return &transferAssetContract{engine: e, env: env, owner: owner, payload: p}
}

// AccountCreate lets an existing account pay to materialise a new one.
func (e *Engine) AccountCreate(env *nativecommon.Env, owner []byte, p *types.AccountCreatePayload) nativecommon.Contract {
	return &accountCreateContract{engine: e, env: env, owner: owner, payload: p}
}

// AccountUpdate sets the display name.
func (e *Engine) AccountUpdate(env *nativecommon.Env, owner []byte, p *types.AccountUpdatePayload) nativecommon.Contract {
	return &accountUpdateContract{engine: e, env: env, owner: owner, payload: p}
}

// SetAccountID assigns the unique account id.
func (e *Engine) SetAccountID(env *nativecommon.Env, owner []byte, p *types.SetAccountIDPayload) nativecommon.Contract {
	return &setAccountIDContract{engine: e, env: env, owner: owner, payload: p}
}
