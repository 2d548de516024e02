package bank

import (
	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type accountCreateContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.AccountCreatePayload

	creator *types.Account
	target  common.Address
	fee     int64
}

func (c *accountCreateContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	creator, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	fee := c.env.Params.CreateAccountFee
	if creator.Balance < fee {
		return coreerrors.Validation("Validate CreateAccountActuator error, insufficient fee.")
	}
	target, ok := nativecommon.ParseAddress(c.payload.Account)
	if !ok {
		return coreerrors.Validation("Invalid account address")
	}
	if !c.payload.Type.Valid() {
		return coreerrors.Validation("Invalid account type")
	}
	existing, err := state.GetAccount(target)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if existing != nil {
		return coreerrors.Validation("Account has existed")
	}
	c.creator, c.target, c.fee = creator, target, fee
	return nil
}

func (c *accountCreateContract) Execute(res *types.Result) error {
	state := c.engine.state
	var err error
	if c.creator.Balance, err = nativecommon.SubExact(c.creator.Balance, c.fee); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccount(c.creator); err != nil {
		return coreerrors.Execution(err)
	}
	created := types.NewAccount(c.target, c.payload.Type, c.env.Now)
	if err := state.PutAccount(created); err != nil {
		return coreerrors.Execution(err)
	}
	if err := nativecommon.BurnFee(state, c.env, c.fee, res); err != nil {
		return err
	}
	if c.fee > 0 {
		c.engine.emit(events.FeeBurned{Payer: c.creator.Address, Amount: c.fee})
	}
	c.engine.emit(events.AccountCreated{Address: c.target, Creator: c.creator.Address})
	return nil
}

type accountUpdateContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.AccountUpdatePayload

	account *types.Account
}

func (c *accountUpdateContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	if _, ok := nativecommon.ParseAddress(c.owner); !ok {
		return coreerrors.Validation("Invalid ownerAddress")
	}
	if !nativecommon.ValidAccountName(c.payload.Name) {
		return coreerrors.Validation("Invalid accountName")
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	if account.Name != "" && c.env.Params.AllowUpdateAccountName == 0 {
		return coreerrors.Validation("This account name already exist")
	}
	c.account = account
	return nil
}

func (c *accountUpdateContract) Execute(*types.Result) error {
	c.account.Name = c.payload.Name
	if err := c.engine.state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	return nil
}

type setAccountIDContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.SetAccountIDPayload

	account *types.Account
}

func (c *setAccountIDContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	if !nativecommon.ValidAccountID(c.payload.AccountID) {
		return coreerrors.Validation("Invalid accountId")
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	if account.AccountID != "" {
		return coreerrors.Validation("This account id already set")
	}
	_, taken, err := state.AccountIDOwner(c.payload.AccountID)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if taken {
		return coreerrors.Validation("This id has existed")
	}
	c.account = account
	return nil
}

func (c *setAccountIDContract) Execute(*types.Result) error {
	state := c.engine.state
	c.account.AccountID = c.payload.AccountID
	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccountID(c.payload.AccountID, c.account.Address); err != nil {
		return coreerrors.Execution(err)
	}
	return nil
}
