package asset

import (
	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

// MaxPrecision bounds the decimal places of an issued token.
const MaxPrecision = 8

type issueContract struct {
	engine  *Engine
	env     *nativecommon.Env
	owner   []byte
	payload *types.AssetIssuePayload

	account *types.Account
	frozen  int64
}

func (c *issueContract) Validate() error {
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
	if !nativecommon.ValidAssetName(p.Name) {
		return coreerrors.Validation("Invalid assetName")
	}
	if reservedName(p.Name) {
		return coreerrors.Validation("assetName can't be mcash")
	}
	if p.Precision < 0 || p.Precision > MaxPrecision {
		return coreerrors.Validation("precision cannot exceed 8")
	}
	if p.Abbr != "" && !nativecommon.ValidAbbr(p.Abbr) {
		return coreerrors.Validation("Invalid abbreviationName")
	}
	if !nativecommon.ValidURL(p.URL) {
		return coreerrors.Validation("Invalid url")
	}
	if !nativecommon.ValidDescription(p.Description) {
		return coreerrors.Validation("Invalid description")
	}
	if p.StartTime == 0 {
		return coreerrors.Validation("Start time should be not empty")
	}
	if p.EndTime == 0 {
		return coreerrors.Validation("End time should be not empty")
	}
	if p.EndTime <= p.StartTime {
		return coreerrors.Validation("End time should be greater than start time")
	}
	if p.StartTime < c.env.Now {
		return coreerrors.Validation("Start time should be greater than HeadBlockTime")
	}
	if params.LegacyAssetNames() {
		if _, taken, err := state.AssetIDByName(p.Name); err != nil {
			return coreerrors.Execution(err)
		} else if taken {
			return coreerrors.Validation("Token exists")
		}
	}
	if p.TotalSupply <= 0 {
		return coreerrors.Validation("TotalSupply must greater than 0!")
	}
	if p.MCashNum <= 0 {
		return coreerrors.Validation("MCashNum must greater than 0!")
	}
	if p.Num <= 0 {
		return coreerrors.Validation("Num must greater than 0!")
	}
	if !validNetLimit(params, p.FreeAssetNetLimit) {
		return coreerrors.Validation("Invalid FreeAssetNetLimit")
	}
	if !validNetLimit(params, p.PublicFreeAssetNetLimit) {
		return coreerrors.Validation("Invalid PublicFreeAssetNetLimit")
	}

	if int64(len(p.FrozenSupply)) > params.MaxFrozenSupplyNumber {
		return coreerrors.Validation("Frozen supply list length is too long")
	}
	remain := p.TotalSupply
	for _, tranche := range p.FrozenSupply {
		if tranche.Amount <= 0 {
			return coreerrors.Validation("Frozen supply must be greater than 0!")
		}
		if tranche.Amount > remain {
			return coreerrors.Validation("Frozen supply cannot exceed total supply")
		}
		if tranche.Days < params.MinFrozenSupplyTime || tranche.Days > params.MaxFrozenSupplyTime {
			return coreerrors.Validationf("frozenDuration must be less than %d days and more than %d days",
				params.MaxFrozenSupplyTime, params.MinFrozenSupplyTime)
		}
		if _, err := trancheExpiry(p.StartTime, tranche.Days); err != nil {
			return coreerrors.Overflow()
		}
		remain -= tranche.Amount
	}

	if account.IssuedAssetID != 0 {
		return coreerrors.Validation("An account can only issue one asset")
	}
	if account.Balance < params.AssetIssueFee {
		return coreerrors.Validation("No enough balance for fee!")
	}
	if _, err := nativecommon.AddExact(params.LatestTokenID, 1); err != nil {
		return coreerrors.Overflow()
	}
	c.account, c.frozen = account, p.TotalSupply-remain
	return nil
}

func trancheExpiry(start, days int64) (int64, error) {
	span, err := nativecommon.MulExact(days, types.MillisPerDay)
	if err != nil {
		return 0, err
	}
	return nativecommon.AddExact(start, span)
}

func (c *issueContract) Execute(res *types.Result) error {
	state := c.engine.state
	params := c.env.Params
	p := c.payload
	fee := params.AssetIssueFee

	id := params.LatestTokenID + 1
	params.LatestTokenID = id

	asset := &types.AssetIssue{
		ID:                      id,
		Owner:                   c.account.Address,
		Name:                    p.Name,
		Abbr:                    p.Abbr,
		TotalSupply:             p.TotalSupply,
		MCashNum:                p.MCashNum,
		Num:                     p.Num,
		Precision:               p.Precision,
		StartTime:               p.StartTime,
		EndTime:                 p.EndTime,
		Description:             p.Description,
		URL:                     p.URL,
		FreeAssetNetLimit:       p.FreeAssetNetLimit,
		PublicFreeAssetNetLimit: p.PublicFreeAssetNetLimit,
		FrozenSupply:            append([]types.FrozenSupply(nil), p.FrozenSupply...),
	}

	var err error
	if c.account.Balance, err = nativecommon.SubExact(c.account.Balance, fee); err != nil {
		return coreerrors.Execution(err)
	}
	for _, tranche := range p.FrozenSupply {
		expire, err := trancheExpiry(p.StartTime, tranche.Days)
		if err != nil {
			return coreerrors.Execution(err)
		}
		c.account.FrozenSupply = append(c.account.FrozenSupply, types.FrozenSupplyBalance{
			Amount:     tranche.Amount,
			ExpireTime: expire,
		})
	}
	c.account.SetAssetBalance(id, p.TotalSupply-c.frozen)
	c.account.IssuedAssetID = id
	c.account.Type = types.AccountTypeAssetIssue

	if err := state.PutAccount(c.account); err != nil {
		return coreerrors.Execution(err)
	}
	if err := state.PutAssetIssue(asset); err != nil {
		return coreerrors.Execution(err)
	}
	if err := nativecommon.BurnFee(state, c.env, fee, res); err != nil {
		return err
	}
	res.AssetIssueID = id
	if fee > 0 {
		c.engine.emit(events.FeeBurned{Payer: c.account.Address, Amount: fee})
	}
	c.engine.emit(events.AssetIssued{
		ID:          id,
		Owner:       c.account.Address,
		Name:        p.Name,
		TotalSupply: p.TotalSupply,
	})
	return nil
}
