package bank

import (
	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type transferContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.TransferPayload

	from   *types.Account
	to     *types.Account
	toAddr common.Address
	fee    int64
}

func (c *transferContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	ownerAddr, ok := nativecommon.ParseAddress(c.owner)
	if !ok {
		return coreerrors.Validation("Invalid ownerAddress")
	}
	toAddr, ok := nativecommon.ParseAddress(c.payload.To)
	if !ok {
		return coreerrors.Validation("Invalid toAddress!")
	}
	if toAddr == ownerAddr {
		return coreerrors.Validation("Cannot transfer mcash to yourself.")
	}
	from, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	amount := c.payload.Amount
	if amount <= 0 {
		return coreerrors.Validation("Amount must greater than 0.")
	}

	to, err := state.GetAccount(toAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	var fee int64
	if to == nil {
		fee = c.env.Params.CreateNewAccountFee
	}
	required, err := nativecommon.AddExact(amount, fee)
	if err != nil {
		return coreerrors.Overflow()
	}
	if from.Balance < required {
		return coreerrors.Validation("Validate TransferContract error, balance is not sufficient.")
	}
	if to != nil {
		if _, err := nativecommon.AddExact(to.Balance, amount); err != nil {
			return coreerrors.Overflow()
		}
	}

	c.from, c.to, c.toAddr, c.fee = from, to, toAddr, fee
	return nil
}

func (c *transferContract) Execute(res *types.Result) error {
	state := c.engine.state
	amount := c.payload.Amount
	created := false
	if c.to == nil {
		c.to = types.NewAccount(c.toAddr, types.AccountTypeNormal, c.env.Now)
		created = true
	}

	debit, err := nativecommon.AddExact(amount, c.fee)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if c.from.Balance, err = nativecommon.SubExact(c.from.Balance, debit); err != nil {
		return coreerrors.Execution(err)
	}
	if c.to.Balance, err = nativecommon.AddExact(c.to.Balance, amount); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccount(c.from); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccount(c.to); err != nil {
		return coreerrors.Execution(err)
	}
	if err := nativecommon.BurnFee(state, c.env, c.fee, res); err != nil {
		return err
	}

	if created {
		c.engine.emit(events.AccountCreated{Address: c.toAddr, Creator: c.from.Address})
	}
	if c.fee > 0 {
		c.engine.emit(events.FeeBurned{Payer: c.from.Address, Amount: c.fee})
	}
	c.engine.emit(events.Transfer{AssetID: types.NativeTokenID, From: c.from.Address, To: c.toAddr, Amount: amount})
	return nil
}

type transferAssetContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.TransferAssetPayload

	from   *types.Account
	to     *types.Account
	toAddr common.Address
	asset  *types.AssetIssue
	fee    int64
}

func (c *transferAssetContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	ownerAddr, ok := nativecommon.ParseAddress(c.owner)
	if !ok {
		return coreerrors.Validation("Invalid ownerAddress")
	}
	toAddr, ok := nativecommon.ParseAddress(c.payload.To)
	if !ok {
		return coreerrors.Validation("Invalid toAddress")
	}
	amount := c.payload.Amount
	if amount <= 0 {
		return coreerrors.Validation("Amount must greater than 0.")
	}
	if toAddr == ownerAddr {
		return coreerrors.Validation("Cannot transfer asset to yourself.")
	}
	from, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	asset, err := nativecommon.ResolveAsset(state, c.env.Params, c.payload.AssetKey)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if asset == nil {
		return coreerrors.Validation("No asset !")
	}
	held := from.AssetBalance(asset.ID)
	if held <= 0 {
		return coreerrors.Validation("assetBalance must greater than 0.")
	}
	if amount > held {
		return coreerrors.Validation("assetBalance is not sufficient.")
	}

	to, err := state.GetAccount(toAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	var fee int64
	if to != nil {
		if _, err := nativecommon.AddExact(to.AssetBalance(asset.ID), amount); err != nil {
			return coreerrors.Overflow()
		}
	} else {
		fee = c.env.Params.CreateNewAccountFee
		if from.Balance < fee {
			return coreerrors.Validation("Validate TransferAssetContract error, insufficient fee.")
		}
	}

	c.from, c.to, c.toAddr, c.asset, c.fee = from, to, toAddr, asset, fee
	return nil
}

func (c *transferAssetContract) Execute(res *types.Result) error {
	state := c.engine.state
	amount := c.payload.Amount
	id := c.asset.ID
	created := false
	if c.to == nil {
		c.to = types.NewAccount(c.toAddr, types.AccountTypeNormal, c.env.Now)
		created = true
	}

	remaining, err := nativecommon.SubExact(c.from.AssetBalance(id), amount)
	if err != nil || remaining < 0 {
		return coreerrors.Executionf("asset %d balance underflow", id)
	}
	received, err := nativecommon.AddExact(c.to.AssetBalance(id), amount)
	if err != nil {
		return coreerrors.Execution(err)
	}
	c.from.SetAssetBalance(id, remaining)
	c.to.SetAssetBalance(id, received)
	if c.from.Balance, err = nativecommon.SubExact(c.from.Balance, c.fee); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccount(c.from); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccount(c.to); err != nil {
		return coreerrors.Execution(err)
	}
	if err := nativecommon.BurnFee(state, c.env, c.fee, res); err != nil {
		return err
	}

	if created {
		c.engine.emit(events.AccountCreated{Address: c.toAddr, Creator: c.from.Address})
	}
	if c.fee > 0 {
		c.engine.emit(events.FeeBurned{Payer: c.from.Address, Amount: c.fee})
	}
	c.engine.emit(events.Transfer{AssetID: id, From: c.from.Address, To: c.toAddr, Amount: amount})
	return nil
}
