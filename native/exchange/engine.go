// Package exchange implements creator-owned two-token liquidity pools priced
// by the constant-product rule.
package exchange

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

var errStateNotConfigured = errors.New("exchange: state not configured")

type exchangeState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	GetAssetIssue(id int64) (*types.AssetIssue, error)
	GetExchange(id int64) (*types.Exchange, error)
	PutExchange(ex *types.Exchange) error
}

// Engine builds exchange contracts.
type Engine struct {
	state   exchangeState
	emitter events.Emitter
}

// NewEngine constructs an exchange engine with a no-op emitter.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the ledger store.
func (e *Engine) SetState(state exchangeState) { e.state = state }

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

// Create opens a new pool funded by the creator.
func (e *Engine) Create(env *nativecommon.Env, owner []byte, p *types.ExchangeCreatePayload) nativecommon.Contract {
	return &createContract{engine: e, env: env, owner: owner, payload: p}
}

// Inject adds proportional liquidity to a pool owned by owner.
func (e *Engine) Inject(env *nativecommon.Env, owner []byte, p *types.ExchangeInjectPayload) nativecommon.Contract {
	return &injectContract{engine: e, env: env, owner: owner, payload: p}
}

// Withdraw removes proportional liquidity from a pool owned by owner.
func (e *Engine) Withdraw(env *nativecommon.Env, owner []byte, p *types.ExchangeWithdrawPayload) nativecommon.Contract {
	return &withdrawContract{engine: e, env: env, owner: owner, payload: p}
}

// Trade sells Quant of TokenID into the pool for the other side.
func (e *Engine) Trade(env *nativecommon.Env, owner []byte, p *types.ExchangeTransactionPayload) nativecommon.Contract {
	return &tradeContract{engine: e, env: env, owner: owner, payload: p}
}

// tokenBalance returns the holding of tokenID, where id 0 is the native balance.
func tokenBalance(account *types.Account, tokenID int64) int64 {
	if tokenID == types.NativeTokenID {
		return account.Balance
	}
	return account.AssetBalance(tokenID)
}

func setTokenBalance(account *types.Account, tokenID, amount int64) {
	if tokenID == types.NativeTokenID {
		account.Balance = amount
		return
	}
	account.SetAssetBalance(tokenID, amount)
}

func addToken(account *types.Account, tokenID, delta int64) error {
	next, err := nativecommon.AddExact(tokenBalance(account, tokenID), delta)
	if err != nil {
		return err
	}
	if next < 0 {
		return coreerrors.Executionf("token %d balance would go negative", tokenID)
	}
	setTokenBalance(account, tokenID, next)
	return nil
}

func insufficientMsg(tokenID int64) string {
	if tokenID == types.NativeTokenID {
		return "balance is not enough"
	}
	return "token balance is not enough"
}

// loadOwned loads the pool and checks it is open, owned by account and
// trades tokenID.
func loadOwned(state exchangeState, account *types.Account, id, tokenID int64) (*types.Exchange, error) {
	ex, err := loadOpen(state, id, tokenID)
	if err != nil {
		return nil, err
	}
	if ex.Creator != account.Address {
		return nil, coreerrors.Validationf("account[%x] is not creator", account.Address.Bytes())
	}
	return ex, nil
}

func loadOpen(state exchangeState, id, tokenID int64) (*types.Exchange, error) {
	ex, err := state.GetExchange(id)
	if err != nil {
		return nil, coreerrors.Execution(err)
	}
	if ex == nil {
		return nil, coreerrors.Validationf("Exchange[%d] not exists", id)
	}
	if !ex.HasToken(tokenID) {
		return nil, coreerrors.Validation("token is not in exchange")
	}
	if ex.Closed() {
		return nil, coreerrors.Validation("Token balance in exchange is equal with 0,the exchange has been closed")
	}
	return ex, nil
}
