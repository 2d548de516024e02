package asset

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type unfreezeContract struct {
	engine *Engine
	env    *nativecommon.Env
	owner  []byte

	account *types.Account
}

func (c *unfreezeContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	if len(account.FrozenSupply) == 0 {
		return coreerrors.Validation("no frozen supply balance")
	}
	if account.IssuedAssetID == 0 {
		return coreerrors.Validation("this account did not issue any asset")
	}
	var expired int64
	for _, tranche := range account.FrozenSupply {
		if tranche.ExpireTime <= c.env.Now {
			if expired, err = nativecommon.AddExact(expired, tranche.Amount); err != nil {
				return coreerrors.Overflow()
			}
		}
	}
	if expired == 0 {
		return coreerrors.Validation("It's not time to unfreeze asset supply")
	}
	if _, err := nativecommon.AddExact(account.AssetBalance(account.IssuedAssetID), expired); err != nil {
		return coreerrors.Overflow()
	}
	c.account = account
	return nil
}

func (c *unfreezeContract) Execute(res *types.Result) error {
	id := c.account.IssuedAssetID
	var released int64
	kept := c.account.FrozenSupply[:0]
	for _, tranche := range c.account.FrozenSupply {
		if tranche.ExpireTime <= c.env.Now {
			released += tranche.Amount
			continue
		}
		kept = append(kept, tranche)
	}
	if len(kept) == 0 {
		kept = nil
	}
	c.account.FrozenSupply = kept
	balance, err := nativecommon.AddExact(c.account.AssetBalance(id), released)
	if err != nil {
		return coreerrors.Execution(err)
	}
	c.account.SetAssetBalance(id, balance)
	if err := c.engine.state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	res.UnfreezeAmount = released
	c.engine.emit(events.AssetUnfrozen{ID: id, Owner: c.account.Address, Amount: released})
	return nil
}

type updateContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.UpdateAssetPayload

	account *types.Account
	asset   *types.AssetIssue
}

func (c *updateContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	params := c.env.Params
	p := c.payload
	account, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	if account.IssuedAssetID == 0 {
		return coreerrors.Validation("Account has not issued any asset")
	}
	asset, err := state.GetAssetIssue(account.IssuedAssetID)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if asset == nil {
		return coreerrors.Validation("Asset does not exist")
	}
	if !nativecommon.ValidURL(p.URL) {
		return coreerrors.Validation("Invalid url")
	}
	if !nativecommon.ValidDescription(p.Description) {
		return coreerrors.Validation("Invalid description")
	}
	if !validNetLimit(params, p.NewLimit) {
		return coreerrors.Validation("Invalid FreeAssetNetLimit")
	}
	if !validNetLimit(params, p.NewPublicLimit) {
		return coreerrors.Validation("Invalid PublicFreeAssetNetLimit")
	}
	c.account, c.asset = account, asset
	return nil
}

func (c *updateContract) Execute(*types.Result) error {
	p := c.payload
	c.asset.URL = p.URL
	c.asset.Description = p.Description
	c.asset.FreeAssetNetLimit = p.NewLimit
	c.asset.PublicFreeAssetNetLimit = p.NewPublicLimit
	if err := c.engine.state.PutAssetIssue(c.asset); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.AssetUpdated{ID: c.asset.ID, Owner: c.account.Address})
	return nil
}
