package governance

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
	"mcashchain/native/params"
)

type createContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ProposalCreatePayload

	account    *types.Account
	expiration int64
}

func (c *createContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := loadCommittee(state, c.owner)
	if err != nil {
		return err
	}
	if len(c.payload.Parameters) == 0 {
		return coreerrors.Validation("This proposal has no parameter.")
	}
	proposal := types.Proposal{Parameters: c.payload.Parameters}
	for _, id := range proposal.ParameterIDs() {
		if err := params.Validate(id, c.payload.Parameters[id]); err != nil {
			return err
		}
	}
	expiration, err := ExpirationTime(c.env.Params, c.env.Now)
	if err != nil {
		return coreerrors.Overflow()
	}
	if _, err := nativecommon.AddExact(c.env.Params.LatestProposalNum, 1); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.expiration = account, expiration
	return nil
}

func (c *createContract) Execute(res *types.Result) error {
	cp := c.env.Params
	id := cp.LatestProposalNum + 1
	cp.LatestProposalNum = id

	values := make(map[int64]int64, len(c.payload.Parameters))
	for k, v := range c.payload.Parameters {
		values[k] = v
	}
	proposal := &types.Proposal{
		ID:             id,
		Proposer:       c.account.Address,
		Parameters:     values,
		CreateTime:     c.env.Now,
		ExpirationTime: c.expiration,
		State:          types.ProposalPending,
	}
	if err := c.engine.state.PutProposal(proposal); err != nil {
		return coreerrors.Execution(err)
	}
	res.ProposalID = id
	c.engine.emit(events.ProposalCreated{
		ID:             id,
		Proposer:       proposal.Proposer,
		Parameters:     values,
		ExpirationTime: proposal.ExpirationTime,
	})
	return nil
}

type approveContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ProposalApprovePayload

	account  *types.Account
	proposal *types.Proposal
}

func (c *approveContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := loadCommittee(state, c.owner)
	if err != nil {
		return err
	}
	proposal, err := loadPending(state, c.payload.ProposalID, c.env.Now)
	if err != nil {
		return err
	}
	has := proposal.HasApproval(account.Address)
	if c.payload.Approve && has {
		return coreerrors.Validationf("Account[%x] has approved proposal[%d] before",
			account.Address.Bytes(), proposal.ID)
	}
	if !c.payload.Approve && !has {
		return coreerrors.Validationf("Account[%x] has not approved proposal[%d] before",
			account.Address.Bytes(), proposal.ID)
	}
	c.account, c.proposal = account, proposal
	return nil
}

func (c *approveContract) Execute(*types.Result) error {
	if c.payload.Approve {
		c.proposal.AddApproval(c.account.Address)
	} else {
		c.proposal.RemoveApproval(c.account.Address)
	}
	if err := c.engine.state.PutProposal(c.proposal); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.ProposalApproval{
		ID:       c.proposal.ID,
		Approver: c.account.Address,
		Approve:  c.payload.Approve,
	})
	return nil
}

type deleteContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ProposalDeletePayload

	proposal *types.Proposal
}

func (c *deleteContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid address")
	if err != nil {
		return err
	}
	id := c.payload.ProposalID
	proposal, err := state.GetProposal(id)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if proposal == nil {
		return coreerrors.Validationf("Proposal[%d] not exists", id)
	}
	if proposal.Proposer != account.Address {
		return coreerrors.Validationf("Proposal[%d] is not proposed by %x", id, account.Address.Bytes())
	}
	if _, err := loadPending(state, id, c.env.Now); err != nil {
		return err
	}
	c.proposal = proposal
	return nil
}

func (c *deleteContract) Execute(*types.Result) error {
	c.proposal.State = types.ProposalCanceled
	if err := c.engine.state.PutProposal(c.proposal); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.ProposalCanceled{ID: c.proposal.ID, Proposer: c.proposal.Proposer})
	return nil
}
