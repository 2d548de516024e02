package exchange

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type tradeContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ExchangeTransactionPayload

	account  *types.Account
	ex       *types.Exchange
	received int64
}

func (c *tradeContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	p := c.payload
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	ex, err := loadOpen(state, p.ExchangeID, p.TokenID)
	if err != nil {
		return err
	}
	if p.Quant <= 0 {
		return coreerrors.Validation("token quant must greater than zero")
	}
	if p.Expected <= 0 {
		return coreerrors.Validation("token expected must greater than zero")
	}
	if tokenBalance(account, p.TokenID) < p.Quant {
		return coreerrors.Validation(insufficientMsg(p.TokenID))
	}
	this, other, otherID := ex.Reserves(p.TokenID)
	limit := c.env.Params.ExchangeBalanceLimit
	nextThis, err := nativecommon.AddExact(this, p.Quant)
	if err != nil {
		return coreerrors.Overflow()
	}
	if nextThis > limit {
		return coreerrors.Validationf("token balance must less than %d", limit)
	}
	received, err := Quote(this, other, p.Quant)
	if err != nil {
		return coreerrors.Overflow()
	}
	if received <= 0 {
		return coreerrors.Validation("token quant is not enough to buy")
	}
	if received < p.Expected {
		return coreerrors.Validation("token required must greater than expected")
	}
	if _, err := nativecommon.AddExact(tokenBalance(account, otherID), received); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.ex, c.received = account, ex, received
	return nil
}

func (c *tradeContract) Execute(res *types.Result) error {
	state := c.engine.state
	p := c.payload
	this, other, otherID := c.ex.Reserves(p.TokenID)

	if err := addToken(c.account, p.TokenID, -p.Quant); err != nil {
		return coreerrors.Execution(err)
	}
	if err := addToken(c.account, otherID, c.received); err != nil {
		return coreerrors.Execution(err)
	}
	c.ex.SetReserves(p.TokenID, this+p.Quant, other-c.received)

	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutExchange(c.ex); err != nil {
		return coreerrors.Execution(err)
	}
	res.ExchangeReceivedAmount = c.received
	c.engine.emit(events.ExchangeTraded{
		ExchangeID:  c.ex.ID,
		Trader:      c.account.Address,
		SoldTokenID: p.TokenID,
		Sold:        p.Quant,
		BoughtToken: otherID,
		Bought:      c.received,
	})
	return nil
}
