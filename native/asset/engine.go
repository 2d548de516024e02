// Package asset implements token issuance, crowdsale participation, frozen
// supply release and issuer metadata updates.
package asset

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

// NativeName is reserved for the chain currency and cannot be issued.
const NativeName = "mcash"

var errStateNotConfigured = errors.New("asset: state not configured")

type assetState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetAssetIssue(id int64) (*types.AssetIssue, error)
	PutAssetIssue(asset *types.AssetIssue) error
	AssetIDByName(name string) (int64, bool, error)
}

// Engine builds asset contracts.
type Engine struct {
	state   assetState
	emitter events.Emitter
}

// NewEngine constructs an asset engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state assetState) { e.state = state }

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

// Issue creates a new token owned by owner.
func (e *Engine) Issue(env *nativecommon.Env, owner []byte, p *types.AssetIssuePayload) nativecommon.Contract {
	return &issueContract{engine: e, env: env, owner: owner, payload: p}
}

// Participate buys issued tokens from their issuer at the asset's ratio.
func (e *Engine) Participate(env *nativecommon.Env, owner []byte, p *types.ParticipateAssetIssuePayload) nativecommon.Contract {
	return &participateContract{engine: e, env: env, owner: owner, payload: p}
}

// Unfreeze releases every expired frozen supply tranche to the issuer.
func (e *Engine) Unfreeze(env *nativecommon.Env, owner []byte, _ *types.UnfreezeAssetPayload) nativecommon.Contract {
	return &unfreezeContract{engine: e, env: env, owner: owner}
}

// Update changes the issuer-editable metadata of the owner's asset.
func (e *Engine) Update(env *nativecommon.Env, owner []byte, p *types.UpdateAssetPayload) nativecommon.Contract {
	return &updateContract{engine: e, env: env, owner: owner, payload: p}
}

func reservedName(name string) bool {
	return strings.EqualFold(name, NativeName)
}

func validNetLimit(params *types.ChainParams, limit int64) bool {
	return limit >= 0 && limit < params.OneDayNetLimit
}
