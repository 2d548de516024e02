package exchange

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type createContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ExchangeCreatePayload

	account *types.Account
	fee     int64
}

func (c *createContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	params := c.env.Params
	p := c.payload
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	fee := params.ExchangeCreateFee
	if account.Balance < fee {
		return coreerrors.Validation("No enough balance for exchange create fee!")
	}
	if p.FirstTokenID == p.SecondTokenID {
		return coreerrors.Validation("cannot exchange same tokens")
	}
	if p.FirstTokenBalance <= 0 || p.SecondTokenBalance <= 0 {
		return coreerrors.Validation("token balance must greater than zero")
	}
	limit := params.ExchangeBalanceLimit
	if p.FirstTokenBalance > limit || p.SecondTokenBalance > limit {
		return coreerrors.Validationf("token balance must less than %d", limit)
	}
	for _, id := range []int64{p.FirstTokenID, p.SecondTokenID} {
		if id == types.NativeTokenID {
			continue
		}
		if id < 0 {
			return coreerrors.Validationf("token id[%d] does not exist", id)
		}
		asset, err := state.GetAssetIssue(id)
		if err != nil {
			return coreerrors.Execution(err)
		}
		if asset == nil {
			return coreerrors.Validationf("token id[%d] does not exist", id)
		}
	}

	nativeNeeded := fee
	sides := []struct {
		id, amount int64
		label      string
	}{
		{p.FirstTokenID, p.FirstTokenBalance, "first"},
		{p.SecondTokenID, p.SecondTokenBalance, "second"},
	}
	for _, side := range sides {
		if side.id == types.NativeTokenID {
			if nativeNeeded, err = nativecommon.AddExact(nativeNeeded, side.amount); err != nil {
				return coreerrors.Overflow()
			}
			continue
		}
		if account.AssetBalance(side.id) < side.amount {
			return coreerrors.Validationf("%s token balance is not enough", side.label)
		}
	}
	if account.Balance < nativeNeeded {
		return coreerrors.Validation("balance is not enough")
	}
	if _, err := nativecommon.AddExact(params.LatestExchangeNum, 1); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.fee = account, fee
	return nil
}

func (c *createContract) Execute(res *types.Result) error {
	state := c.engine.state
	params := c.env.Params
	p := c.payload

	var err error
	if c.account.Balance, err = nativecommon.SubExact(c.account.Balance, c.fee); err != nil {
		return coreerrors.Execution(err)
	}
	if err := addToken(c.account, p.FirstTokenID, -p.FirstTokenBalance); err != nil {
		return coreerrors.Execution(err)
	}
	if err := addToken(c.account, p.SecondTokenID, -p.SecondTokenBalance); err != nil {
		return coreerrors.Execution(err)
	}

	id := params.LatestExchangeNum + 1
	params.LatestExchangeNum = id
	ex := &types.Exchange{
		ID:                 id,
		Creator:            c.account.Address,
		CreateTime:         c.env.Now,
		FirstTokenID:       p.FirstTokenID,
		FirstTokenBalance:  p.FirstTokenBalance,
		SecondTokenID:      p.SecondTokenID,
		SecondTokenBalance: p.SecondTokenBalance,
	}
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutExchange(ex); err != nil {
		return coreerrors.Execution(err)
	}
	if err := nativecommon.BurnFee(state, c.env, c.fee, res); err != nil {
		return err
	}
	res.ExchangeID = id
	if c.fee > 0 {
		c.engine.emit(events.FeeBurned{Payer: c.account.Address, Amount: c.fee})
	}
	c.engine.emit(events.ExchangeLiquidity{
		Kind:         events.TypeExchangeCreated,
		ExchangeID:   id,
		Creator:      c.account.Address,
		TokenID:      p.FirstTokenID,
		Amount:       p.FirstTokenBalance,
		OtherTokenID: p.SecondTokenID,
		OtherAmount:  p.SecondTokenBalance,
	})
	return nil
}
