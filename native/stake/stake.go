package stake

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type stakeContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.StakePayload

	account *types.Account
}

func (c *stakeContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	amount := c.payload.Amount
	if amount <= 0 {
		return coreerrors.Validation("Stake amount must be positive")
	}
	min := c.env.Params.MinStakeAmount
	if amount < min {
		return coreerrors.Validationf("Stake amount must be more than or equal %d MCASH", min/types.Precision)
	}
	if amount > account.Balance {
		return coreerrors.Validation("Stake amount must be less than accountBalance")
	}
	if _, err := nativecommon.AddExact(account.NormalStake, amount); err != nil {
		return coreerrors.Overflow()
	}
	c.account = account
	return nil
}

func (c *stakeContract) Execute(*types.Result) error {
	amount := c.payload.Amount
	var err error
	if c.account.Balance, err = nativecommon.SubExact(c.account.Balance, amount); err != nil {
		return coreerrors.Execution(err)
	}
	if c.account.NormalStake, err = nativecommon.AddExact(c.account.NormalStake, amount); err != nil {
		return coreerrors.Execution(err)
	}
	c.account.StakeTime = c.env.Now
	if err := c.engine.state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.Staked{Account: c.account.Address, Amount: amount, Total: c.account.NormalStake})
	return nil
}

type unstakeContract struct {
	engine *Engine
	env    *nativecommon.Env
	owner  []byte

	account *types.Account
	witness *types.Witness
}

func (c *unstakeContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	if account.NormalStake <= 0 {
		return coreerrors.Validation("Account has no stake")
	}
	unlock, err := nativecommon.AddExact(account.StakeTime, c.env.Params.StakeVestingPeriod)
	if err != nil {
		return coreerrors.Overflow()
	}
	if c.env.Now < unlock {
		return coreerrors.Validation("It's not time to unstake.")
	}
	if _, err := nativecommon.AddExact(account.Balance, account.NormalStake); err != nil {
		return coreerrors.Overflow()
	}
	if account.Vote != nil {
		witness, err := state.GetWitness(account.Vote.Witness)
		if err != nil {
			return coreerrors.Execution(err)
		}
		c.witness = witness
	}
	c.account = account
	return nil
}

func (c *unstakeContract) Execute(res *types.Result) error {
	state := c.engine.state
	amount := c.account.NormalStake
	var err error
	if c.account.Balance, err = nativecommon.AddExact(c.account.Balance, amount); err != nil {
		return coreerrors.Execution(err)
	}
	c.account.NormalStake = 0
	c.account.StakeTime = 0

	// A vote may not exceed the stake left behind. Witness stake keeps
	// backing the vote, so only the released share is withdrawn.
	if vote := c.account.Vote; vote != nil {
		kept := VotePower(c.account)
		if kept > vote.Count {
			kept = vote.Count
		}
		if c.witness != nil && kept < vote.Count {
			c.witness.VoteCount -= vote.Count - kept
			if c.witness.VoteCount < 0 {
				c.witness.VoteCount = 0
			}
			if err := state.PutWitness(c.witness); err != nil {
				return coreerrors.Execution(err)
			}
		}
		if kept == 0 {
			c.account.Vote = nil
		} else {
			vote.Count = kept
		}
	}
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	res.UnfreezeAmount = amount
	c.engine.emit(events.Unstaked{Account: c.account.Address, Amount: amount})
	return nil
}

type withdrawContract struct {
	engine *Engine
	env    *nativecommon.Env
	owner  []byte

	account *types.Account
}

func (c *withdrawContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	frozenDays := c.env.Params.WitnessAllowanceFrozenTime
	window, err := nativecommon.MulExact(frozenDays, types.MillisPerDay)
	if err != nil {
		return coreerrors.Overflow()
	}
	if account.LatestWithdrawTime > 0 && c.env.Now-account.LatestWithdrawTime < window {
		return coreerrors.Validationf("The last withdraw time is %d,less than %d days",
			account.LatestWithdrawTime, frozenDays)
	}
	if account.Allowance <= 0 {
		return coreerrors.Validation("Account does not have any allowance")
	}
	if _, err := nativecommon.AddExact(account.Balance, account.Allowance); err != nil {
		return coreerrors.Overflow()
	}
	c.account = account
	return nil
}

func (c *withdrawContract) Execute(res *types.Result) error {
	amount := c.account.Allowance
	var err error
	if c.account.Balance, err = nativecommon.AddExact(c.account.Balance, amount); err != nil {
		return coreerrors.Execution(err)
	}
	c.account.Allowance = 0
	c.account.LatestWithdrawTime = c.env.Now
	if err := c.engine.state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	res.WithdrawAmount = amount
	c.engine.emit(events.RewardWithdrawn{Account: c.account.Address, Amount: amount})
	return nil
}
