package resource

import (
	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type freezeContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.FreezeBalancePayload

	account  *types.Account
	receiver *types.Account
	link     *types.DelegatedResource
}

func (c *freezeContract) delegated() bool {
	return len(c.payload.Receiver) > 0 && c.env.Params.AllowDelegateResource == 1
}

func (c *freezeContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	params := c.env.Params
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	amount := c.payload.Amount
	if amount <= 0 {
		return coreerrors.Validation("frozenBalance must be positive")
	}
	if amount < params.MinFreezeAmount {
		return coreerrors.Validation("frozenBalance must be more than 1MCASH")
	}
	if amount > account.Balance {
		return coreerrors.Validation("frozenBalance must be less than accountBalance")
	}
	duration := c.payload.Duration
	if duration < params.MinFrozenTime || duration > params.MaxFrozenTime {
		return coreerrors.Validationf("frozenDuration must be less than %d days and more than %d days",
			params.MaxFrozenTime, params.MinFrozenTime)
	}
	r := c.payload.Resource
	if !r.Valid() {
		return coreerrors.Validation("ResourceCode error,valid ResourceCode[BANDWIDTH、ENERGY]")
	}
	if _, err := expireTime(c.env.Now, duration); err != nil {
		return coreerrors.Overflow()
	}

	if !c.delegated() {
		if _, err := nativecommon.AddExact(selfFrozen(account, r).Amount, amount); err != nil {
			return coreerrors.Overflow()
		}
		c.account = account
		return nil
	}

	receiverAddr, ok := nativecommon.ParseAddress(c.payload.Receiver)
	if !ok {
		return coreerrors.Validation("Invalid receiverAddress")
	}
	if receiverAddr == account.Address {
		return coreerrors.Validation("receiverAddress must not be the same as ownerAddress")
	}
	receiver, err := state.GetAccount(receiverAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if receiver == nil {
		return coreerrors.Validationf("Account[%x] does not exist", receiverAddr.Bytes())
	}
	link, err := state.GetDelegatedResource(account.Address, receiverAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if link == nil {
		link = &types.DelegatedResource{From: account.Address, To: receiverAddr}
	}
	linked, _ := link.Frozen(r)
	for _, current := range []int64{linked, *delegatedOut(account, r), *acquired(receiver, r)} {
		if _, err := nativecommon.AddExact(current, amount); err != nil {
			return coreerrors.Overflow()
		}
	}
	c.account, c.receiver, c.link = account, receiver, link
	return nil
}

func (c *freezeContract) Execute(res *types.Result) error {
	state := c.engine.state
	params := c.env.Params
	amount := c.payload.Amount
	r := c.payload.Resource
	expire, err := expireTime(c.env.Now, c.payload.Duration)
	if err != nil {
		return coreerrors.Execution(err)
	}

	if c.account.Balance, err = nativecommon.SubExact(c.account.Balance, amount); err != nil {
		return coreerrors.Execution(err)
	}

	receiver := c.account.Address
	if c.receiver == nil {
		frozen := selfFrozen(c.account, r)
		before := frozen.Amount
		if frozen.Amount, err = nativecommon.AddExact(frozen.Amount, amount); err != nil {
			return coreerrors.Execution(err)
		}
		frozen.ExpireTime = expire
		if err := adjustWeight(params, r, before, frozen.Amount); err != nil {
			return coreerrors.Execution(err)
		}
	} else {
		receiver = c.receiver.Address
		before, _ := c.link.Frozen(r)
		after, err := nativecommon.AddExact(before, amount)
		if err != nil {
			return coreerrors.Execution(err)
		}
		c.link.SetFrozen(r, after, expire)
		out := delegatedOut(c.account, r)
		if *out, err = nativecommon.AddExact(*out, amount); err != nil {
			return coreerrors.Execution(err)
		}
		in := acquired(c.receiver, r)
		if *in, err = nativecommon.AddExact(*in, amount); err != nil {
			return coreerrors.Execution(err)
		}
		if err := adjustWeight(params, r, before, after); err != nil {
			return coreerrors.Execution(err)
		}
		if err := state.PutDelegatedResource(c.link); err != nil {
			return coreerrors.Execution(err)
		}
		if err := c.linkIndexes(c.account.Address, c.receiver.Address); err != nil {
			return err
		}
		if err := state.PutAccount(c.receiver); err != nil {
			return coreerrors.Execution(err)
		}
	}
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}

	c.engine.emit(events.BalanceFrozen{
		Owner:      c.account.Address,
		Receiver:   receiver,
		Resource:   r,
		Amount:     amount,
		ExpireTime: expire,
	})
	return nil
}

func (c *freezeContract) linkIndexes(from, to common.Address) error {
	state := c.engine.state
	fromIdx, err := state.GetDelegatedIndex(from)
	if err != nil {
		return coreerrors.Execution(err)
	}
	fromIdx.AddTo(to)
	if err := state.PutDelegatedIndex(fromIdx); err != nil {
		return coreerrors.Execution(err)
	}
	toIdx, err := state.GetDelegatedIndex(to)
	if err != nil {
		return coreerrors.Execution(err)
	}
	toIdx.AddFrom(from)
	if err := state.PutDelegatedIndex(toIdx); err != nil {
		return coreerrors.Execution(err)
	}
	return nil
}

// expireTime is the moment a freeze of days made at now unlocks.
func expireTime(now, days int64) (int64, error) {
	span, err := nativecommon.MulExact(days, types.MillisPerDay)
	if err != nil {
		return 0, err
	}
	return nativecommon.AddExact(now, span)
}
