package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

type paramsRecord struct {
	Values    []uint64
	Blackhole common.Address
}

// paramFields fixes the on-disk order of the numeric chain parameters. New
// fields must be appended.
func paramFields(p *types.ChainParams) []*int64 {
	return []*int64{
		&p.MaintenanceTimeInterval,
		&p.NextMaintenanceTime,
		&p.AccountUpgradeCost,
		&p.CreateAccountFee,
		&p.CreateNewAccountFee,
		&p.AssetIssueFee,
		&p.ExchangeCreateFee,
		&p.ExchangeBalanceLimit,
		&p.MinFrozenTime,
		&p.MaxFrozenTime,
		&p.MinFrozenSupplyTime,
		&p.MaxFrozenSupplyTime,
		&p.MaxFrozenSupplyNumber,
		&p.OneDayNetLimit,
		&p.ResourceWeightDivisor,
		&p.MinFreezeAmount,
		&p.MinStakeAmount,
		&p.StakeVestingPeriod,
		&p.WitnessStakeAmount,
		&p.WitnessAllowanceFrozenTime,
		&p.StakeEpochLength,
		&p.StakeRewardPerEpoch,
		&p.ProposalExpireCycles,
		&p.AllowSameTokenName,
		&p.AllowDelegateResource,
		&p.AllowUpdateAccountName,
		&p.TotalNetWeight,
		&p.TotalEnergyWeight,
		&p.TotalNetLimit,
		&p.TotalEnergyLimit,
		&p.LatestTokenID,
		&p.LatestExchangeNum,
		&p.LatestProposalNum,
		&p.LastStakeEpoch,
		&p.LatestBlockHeaderNumber,
		&p.LatestBlockHeaderTimestamp,
	}
}

// ChainParams loads the stored chain parameters. The boolean is false before
// genesis has been written.
func (m *Manager) ChainParams() (*types.ChainParams, bool, error) {
	rec := new(paramsRecord)
	ok, err := m.Get(CollectionParams, chainParamsKey, rec)
	if err != nil || !ok {
		return nil, false, err
	}
	params := new(types.ChainParams)
	fields := paramFields(params)
	if len(rec.Values) > len(fields) {
		return nil, false, fmt.Errorf("state: chain params carry %d values, want at most %d", len(rec.Values), len(fields))
	}
	for i, v := range rec.Values {
		*fields[i] = int64(v)
	}
	params.Blackhole = rec.Blackhole
	return params, true, nil
}

// PutChainParams persists the chain parameters.
func (m *Manager) PutChainParams(params *types.ChainParams) error {
	if params == nil {
		return fmt.Errorf("state: nil chain params")
	}
	cp := *params
	fields := paramFields(&cp)
	rec := &paramsRecord{Values: make([]uint64, len(fields)), Blackhole: cp.Blackhole}
	for i, f := range fields {
		rec.Values[i] = uint64(*f)
	}
	return m.Put(CollectionParams, chainParamsKey, rec)
}
