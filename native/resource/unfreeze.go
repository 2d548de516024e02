package resource

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type unfreezeContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.UnfreezeBalancePayload

	account  *types.Account
	receiver *types.Account
	link     *types.DelegatedResource
	amount   int64
}

func (c *unfreezeContract) delegated() bool {
	return len(c.payload.Receiver) > 0 && c.env.Params.AllowDelegateResource == 1
}

func (c *unfreezeContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	r := c.payload.Resource
	if !r.Valid() {
		return coreerrors.Validation("ResourceCode error,valid ResourceCode[BANDWIDTH、ENERGY]")
	}
	now := c.env.Now

	if !c.delegated() {
		frozen := selfFrozen(account, r)
		if frozen.Amount <= 0 {
			return coreerrors.Validationf("no frozenBalance(%s)", r)
		}
		if frozen.ExpireTime > now {
			return coreerrors.Validation("It's not time to unfreeze.")
		}
		if _, err := nativecommon.AddExact(account.Balance, frozen.Amount); err != nil {
			return coreerrors.Overflow()
		}
		c.account, c.amount = account, frozen.Amount
		return nil
	}

	receiverAddr, ok := nativecommon.ParseAddress(c.payload.Receiver)
	if !ok {
		return coreerrors.Validation("Invalid receiverAddress")
	}
	if receiverAddr == account.Address {
		return coreerrors.Validation("receiverAddress must not be the same as ownerAddress")
	}
	link, err := state.GetDelegatedResource(account.Address, receiverAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if link == nil {
		return coreerrors.Validation("delegated Resource does not exist")
	}
	amount, expire := link.Frozen(r)
	if amount <= 0 {
		return coreerrors.Validationf("no delegatedFrozenBalance(%s)", r)
	}
	if expire > now {
		return coreerrors.Validation("It's not time to unfreeze.")
	}
	if _, err := nativecommon.AddExact(account.Balance, amount); err != nil {
		return coreerrors.Overflow()
	}
	receiver, err := state.GetAccount(receiverAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	c.account, c.receiver, c.link, c.amount = account, receiver, link, amount
	return nil
}

func (c *unfreezeContract) Execute(res *types.Result) error {
	state := c.engine.state
	params := c.env.Params
	r := c.payload.Resource
	amount := c.amount

	var err error
	if c.account.Balance, err = nativecommon.AddExact(c.account.Balance, amount); err != nil {
		return coreerrors.Execution(err)
	}

	receiver := c.account.Address
	if c.link == nil {
		*selfFrozen(c.account, r) = types.Frozen{}
		if err := adjustWeight(params, r, amount, 0); err != nil {
			return coreerrors.Execution(err)
		}
	} else {
		receiver = c.link.To
		c.link.SetFrozen(r, 0, 0)
		out := delegatedOut(c.account, r)
		*out -= amount
		if *out < 0 {
			*out = 0
		}
		if c.receiver != nil {
			in := acquired(c.receiver, r)
			*in -= amount
			if *in < 0 {
				*in = 0
			}
			if err := state.PutAccount(c.receiver); err != nil {
				return coreerrors.Execution(err)
			}
		}
		if err := adjustWeight(params, r, amount, 0); err != nil {
			return coreerrors.Execution(err)
		}
		if err := state.PutDelegatedResource(c.link); err != nil {
			return coreerrors.Execution(err)
		}
		if c.link.Empty() {
			if err := c.unlinkIndexes(); err != nil {
				return err
			}
		}
	}
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}

	res.UnfreezeAmount = amount
	c.engine.emit(events.BalanceUnfrozen{
		Owner:    c.account.Address,
		Receiver: receiver,
		Resource: r,
		Amount:   amount,
	})
	return nil
}

func (c *unfreezeContract) unlinkIndexes() error {
	state := c.engine.state
	from, to := c.link.From, c.link.To
	fromIdx, err := state.GetDelegatedIndex(from)
	if err != nil {
		return coreerrors.Execution(err)
	}
	fromIdx.RemoveTo(to)
	if err := state.PutDelegatedIndex(fromIdx); err != nil {
		return coreerrors.Execution(err)
	}
	toIdx, err := state.GetDelegatedIndex(to)
	if err != nil {
		return coreerrors.Execution(err)
	}
	toIdx.RemoveFrom(from)
	if err := state.PutDelegatedIndex(toIdx); err != nil {
		return coreerrors.Execution(err)
	}
	return nil
}
