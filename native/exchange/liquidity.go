package exchange

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type injectContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ExchangeInjectPayload

	account *types.Account
	ex      *types.Exchange
	another int64
}

func (c *injectContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	p := c.payload
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	ex, err := loadOwned(state, account, p.ExchangeID, p.TokenID)
	if err != nil {
		return err
	}
	if p.Quant <= 0 {
		return coreerrors.Validation("injected token quant must greater than zero")
	}
	this, other, otherID := ex.Reserves(p.TokenID)
	another, err := Proportional(this, other, p.Quant)
	if err != nil {
		return coreerrors.Overflow()
	}
	if another <= 0 {
		return coreerrors.Validation("the calculated token quant  must be greater than 0")
	}
	limit := c.env.Params.ExchangeBalanceLimit
	nextThis, err := nativecommon.AddExact(this, p.Quant)
	if err != nil {
		return coreerrors.Overflow()
	}
	nextOther, err := nativecommon.AddExact(other, another)
	if err != nil {
		return coreerrors.Overflow()
	}
	if nextThis > limit || nextOther > limit {
		return coreerrors.Validationf("token balance must less than %d", limit)
	}
	if tokenBalance(account, p.TokenID) < p.Quant {
		return coreerrors.Validation(insufficientMsg(p.TokenID))
	}
	if tokenBalance(account, otherID) < another {
		return coreerrors.Validation(insufficientMsg(otherID))
	}
	c.account, c.ex, c.another = account, ex, another
	return nil
}

func (c *injectContract) Execute(res *types.Result) error {
	state := c.engine.state
	p := c.payload
	this, other, otherID := c.ex.Reserves(p.TokenID)

	if err := addToken(c.account, p.TokenID, -p.Quant); err != nil {
		return coreerrors.Execution(err)
	}
	if err := addToken(c.account, otherID, -c.another); err != nil {
		return coreerrors.Execution(err)
	}
	nextThis, err := nativecommon.AddExact(this, p.Quant)
	if err != nil {
		return coreerrors.Execution(err)
	}
	nextOther, err := nativecommon.AddExact(other, c.another)
	if err != nil {
		return coreerrors.Execution(err)
	}
	c.ex.SetReserves(p.TokenID, nextThis, nextOther)

	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutExchange(c.ex); err != nil {
		return coreerrors.Execution(err)
	}
	res.ExchangeInjectAnotherAmount = c.another
	c.engine.emit(events.ExchangeLiquidity{
		Kind:         events.TypeExchangeInjected,
		ExchangeID:   c.ex.ID,
		Creator:      c.account.Address,
		TokenID:      p.TokenID,
		Amount:       p.Quant,
		OtherTokenID: otherID,
		OtherAmount:  c.another,
	})
	return nil
}

type withdrawContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ExchangeWithdrawPayload

	account *types.Account
	ex      *types.Exchange
	another int64
}

func (c *withdrawContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	p := c.payload
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	ex, err := loadOwned(state, account, p.ExchangeID, p.TokenID)
	if err != nil {
		return err
	}
	if p.Quant <= 0 {
		return coreerrors.Validation("withdraw token quant must greater than zero")
	}
	this, other, otherID := ex.Reserves(p.TokenID)
	if p.Quant > this {
		return coreerrors.Validation("exchange balance is not enough")
	}
	another, err := Proportional(this, other, p.Quant)
	if err != nil {
		return coreerrors.Overflow()
	}
	if p.Quant < this && !precise(this, other, p.Quant) {
		return coreerrors.Validation("Not precise enough")
	}
	if another <= 0 {
		return coreerrors.Validation("withdraw another token quant must greater than zero")
	}
	if _, err := nativecommon.AddExact(tokenBalance(account, p.TokenID), p.Quant); err != nil {
		return coreerrors.Overflow()
	}
	if _, err := nativecommon.AddExact(tokenBalance(account, otherID), another); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.ex, c.another = account, ex, another
	return nil
}

// Withdrawing the whole of one side drains the other exactly and closes the
// pool.
func (c *withdrawContract) Execute(res *types.Result) error {
	state := c.engine.state
	p := c.payload
	this, other, otherID := c.ex.Reserves(p.TokenID)

	if err := addToken(c.account, p.TokenID, p.Quant); err != nil {
		return coreerrors.Execution(err)
	}
	if err := addToken(c.account, otherID, c.another); err != nil {
		return coreerrors.Execution(err)
	}
	c.ex.SetReserves(p.TokenID, this-p.Quant, other-c.another)

	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutExchange(c.ex); err != nil {
		return coreerrors.Execution(err)
	}
	res.ExchangeWithdrawAnotherAmount = c.another
	c.engine.emit(events.ExchangeLiquidity{
		Kind:         events.TypeExchangeWithdrawn,
		ExchangeID:   c.ex.ID,
		Creator:      c.account.Address,
		TokenID:      p.TokenID,
		Amount:       p.Quant,
		OtherTokenID: otherID,
		OtherAmount:  c.another,
	})
	return nil
}
