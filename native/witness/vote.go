package witness

import (
	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
	"mcashchain/native/stake"
)

type voteContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.VoteWitnessPayload

	account  *types.Account
	target   *types.Witness
	previous *types.Witness
}

func (c *voteContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	addr, ok := nativecommon.ParseAddress(c.payload.Witness)
	if !ok {
		return errInvalidWitness
	}
	count := c.payload.Count
	if count <= 0 {
		return coreerrors.Validation("vote count must be greater than 0")
	}
	target, err := state.GetWitness(addr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if target == nil {
		return coreerrors.Validationf("Witness[%x] does not exist", addr.Bytes())
	}
	if target.Status == types.WitnessResigned {
		return coreerrors.Validationf("Witness[%x] has resigned", addr.Bytes())
	}
	power := stake.VotePower(account)
	if count > power {
		return coreerrors.Validationf("The total number of votes[%d] is greater than the stakePower[%d]", count, power)
	}

	var previous *types.Witness
	base := target.VoteCount
	if account.Vote != nil {
		if account.Vote.Witness == addr {
			base -= account.Vote.Count
			if base < 0 {
				base = 0
			}
		} else {
			previous, err = state.GetWitness(account.Vote.Witness)
			if err != nil {
				return coreerrors.Execution(err)
			}
		}
	}
	if _, err := nativecommon.AddExact(base, count); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.target, c.previous = account, target, previous
	return nil
}

func (c *voteContract) Execute(*types.Result) error {
	state := c.engine.state
	count := c.payload.Count
	var prevAddr common.Address

	if old := c.account.Vote; old != nil {
		prevAddr = old.Witness
		switch {
		case old.Witness == c.target.Address:
			c.target.VoteCount -= old.Count
			if c.target.VoteCount < 0 {
				c.target.VoteCount = 0
			}
		case c.previous != nil:
			c.previous.VoteCount -= old.Count
			if c.previous.VoteCount < 0 {
				c.previous.VoteCount = 0
			}
			if err := state.PutWitness(c.previous); err != nil {
				return coreerrors.Execution(err)
			}
		}
	}
	var err error
	if c.target.VoteCount, err = nativecommon.AddExact(c.target.VoteCount, count); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutWitness(c.target); err != nil {
		return coreerrors.Execution(err)
	}
	c.account.Vote = &types.Vote{Witness: c.target.Address, Count: count}
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.VoteCast{
		Voter:    c.account.Address,
		Witness:  c.target.Address,
		Previous: prevAddr,
		Count:    count,
	})
	return nil
}
