package asset

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type participateContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.ParticipateAssetIssuePayload

	buyer    *types.Account
	issuer   *types.Account
	asset    *types.AssetIssue
	received int64
}

func (c *participateContract) Validate() error {
	state := c.engine.state
	if state == nil {
		return coreerrors.Execution(errStateNotConfigured)
	}
	p := c.payload
	buyer, err := nativecommon.LoadOwner(state, c.owner, "Invalid ownerAddress")
	if err != nil {
		return err
	}
	issuerAddr, ok := nativecommon.ParseAddress(p.To)
	if !ok {
		return coreerrors.Validation("Invalid toAddress")
	}
	if p.Amount <= 0 {
		return coreerrors.Validation("Amount must greater than 0!")
	}
	if issuerAddr == buyer.Address {
		return coreerrors.Validation("Cannot participate asset Issue yourself !")
	}
	if buyer.Balance < p.Amount {
		return coreerrors.Validation("No enough balance !")
	}
	asset, err := nativecommon.ResolveAsset(state, c.env.Params, p.AssetKey)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if asset == nil {
		return coreerrors.Validation("No asset !")
	}
	if asset.Owner != issuerAddr {
		return coreerrors.Validationf("The asset is not issued by %x", issuerAddr.Bytes())
	}
	if !asset.OnSale(c.env.Now) {
		return coreerrors.Validation("No longer valid period!")
	}
	scaled, err := nativecommon.MulExact(p.Amount, asset.Num)
	if err != nil {
		return coreerrors.Overflow()
	}
	received := scaled / asset.MCashNum
	if received <= 0 {
		return coreerrors.Validation("Can not process the exchange!")
	}
	issuer, err := state.GetAccount(issuerAddr)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if issuer == nil {
		return coreerrors.Validation("To account does not exist!")
	}
	if issuer.AssetBalance(asset.ID) < received {
		return coreerrors.Validation("Asset balance is not enough !")
	}
	if _, err := nativecommon.AddExact(issuer.Balance, p.Amount); err != nil {
		return coreerrors.Overflow()
	}
	if _, err := nativecommon.AddExact(buyer.AssetBalance(asset.ID), received); err != nil {
		return coreerrors.Overflow()
	}
	c.buyer, c.issuer, c.asset, c.received = buyer, issuer, asset, received
	return nil
}

func (c *participateContract) Execute(*types.Result) error {
	state := c.engine.state
	paid := c.payload.Amount
	id := c.asset.ID

	var err error
	if c.buyer.Balance, err = nativecommon.SubExact(c.buyer.Balance, paid); err != nil {
		return coreerrors.Execution(err)
	}
	bought, err := nativecommon.AddExact(c.buyer.AssetBalance(id), c.received)
	if err != nil {
		return coreerrors.Execution(err)
	}
	c.buyer.SetAssetBalance(id, bought)

	if c.issuer.Balance, err = nativecommon.AddExact(c.issuer.Balance, paid); err != nil {
		return coreerrors.Execution(err)
	}
	remaining, err := nativecommon.SubExact(c.issuer.AssetBalance(id), c.received)
	if err != nil {
		return coreerrors.Execution(err)
	}
	c.issuer.SetAssetBalance(id, remaining)

	if err := state.PutAccount(c.buyer); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAccount(c.issuer); err != nil {
		return coreerrors.Execution(err)
	}
	c.engine.emit(events.AssetParticipated{
		ID:       id,
		Buyer:    c.buyer.Address,
		Issuer:   c.issuer.Address,
		Paid:     paid,
		Received: c.received,
	})
	return nil
}
