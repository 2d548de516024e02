package params

import (
	"fmt"
	"sort"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/types"
)

// LongValue is the upper bound of every fee and amount parameter.
const LongValue int64 = 100_000_000_000_000_000

// Parameter ids accepted by governance proposals.
const (
	MaintenanceTimeInterval int64 = iota
	AccountUpgradeCost
	CreateAccountFee
	CreateNewAccountFee
	AssetIssueFee
	ExchangeCreateFee
	ExchangeBalanceLimit
	MinFrozenTime
	MaxFrozenTime
	MaxFrozenSupplyNumber
	MinStakeAmount
	StakeVestingPeriod
	WitnessStakeAmount
	StakeRewardPerEpoch
	TotalEnergyLimit
	ProposalExpireCycles
	AllowUpdateAccountName
	AllowSameTokenName
	AllowDelegateResource
)

// Param describes one governable chain parameter.
type Param struct {
	ID   int64
	Name string
	Min  int64
	Max  int64
	// OnlyOne marks feature switches that can only be turned on.
	OnlyOne bool

	field func(p *types.ChainParams) *int64
}

// Get returns the current value of the parameter.
func (p Param) Get(cp *types.ChainParams) int64 {
	return *p.field(cp)
}

var registry = map[int64]Param{
	MaintenanceTimeInterval: {Name: "MAINTENANCE_TIME_INTERVAL", Min: 3 * 27 * 1000, Max: 24 * 3600 * 1000,
		field: func(p *types.ChainParams) *int64 { return &p.MaintenanceTimeInterval }},
	AccountUpgradeCost: {Name: "ACCOUNT_UPGRADE_COST", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.AccountUpgradeCost }},
	CreateAccountFee: {Name: "CREATE_ACCOUNT_FEE", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.CreateAccountFee }},
	CreateNewAccountFee: {Name: "CREATE_NEW_ACCOUNT_FEE", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.CreateNewAccountFee }},
	AssetIssueFee: {Name: "ASSET_ISSUE_FEE", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.AssetIssueFee }},
	ExchangeCreateFee: {Name: "EXCHANGE_CREATE_FEE", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.ExchangeCreateFee }},
	ExchangeBalanceLimit: {Name: "EXCHANGE_BALANCE_LIMIT", Min: 1, Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.ExchangeBalanceLimit }},
	MinFrozenTime: {Name: "MIN_FROZEN_TIME", Min: 1, Max: 365,
		field: func(p *types.ChainParams) *int64 { return &p.MinFrozenTime }},
	MaxFrozenTime: {Name: "MAX_FROZEN_TIME", Min: 1, Max: 3652,
		field: func(p *types.ChainParams) *int64 { return &p.MaxFrozenTime }},
	MaxFrozenSupplyNumber: {Name: "MAX_FROZEN_SUPPLY_NUMBER", Min: 1, Max: 100,
		field: func(p *types.ChainParams) *int64 { return &p.MaxFrozenSupplyNumber }},
	MinStakeAmount: {Name: "MIN_STAKE_AMOUNT", Min: 1, Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.MinStakeAmount }},
	StakeVestingPeriod: {Name: "STAKE_VESTING_PERIOD", Max: 365 * types.MillisPerDay,
		field: func(p *types.ChainParams) *int64 { return &p.StakeVestingPeriod }},
	WitnessStakeAmount: {Name: "WITNESS_STAKE_AMOUNT", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.WitnessStakeAmount }},
	StakeRewardPerEpoch: {Name: "STAKE_REWARD_PER_EPOCH", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.StakeRewardPerEpoch }},
	TotalEnergyLimit: {Name: "TOTAL_ENERGY_LIMIT", Max: LongValue,
		field: func(p *types.ChainParams) *int64 { return &p.TotalEnergyLimit }},
	ProposalExpireCycles: {Name: "PROPOSAL_EXPIRE_CYCLES", Min: 1, Max: 1000,
		field: func(p *types.ChainParams) *int64 { return &p.ProposalExpireCycles }},
	AllowUpdateAccountName: {Name: "ALLOW_UPDATE_ACCOUNT_NAME", OnlyOne: true,
		field: func(p *types.ChainParams) *int64 { return &p.AllowUpdateAccountName }},
	AllowSameTokenName: {Name: "ALLOW_SAME_TOKEN_NAME", OnlyOne: true,
		field: func(p *types.ChainParams) *int64 { return &p.AllowSameTokenName }},
	AllowDelegateResource: {Name: "ALLOW_DELEGATE_RESOURCE", OnlyOne: true,
		field: func(p *types.ChainParams) *int64 { return &p.AllowDelegateResource }},
}

func init() {
	for id, p := range registry {
		p.ID = id
		registry[id] = p
	}
}

// Lookup returns the parameter registered under id.
func Lookup(id int64) (Param, bool) {
	p, ok := registry[id]
	return p, ok
}

// LookupName returns the parameter registered under its canonical name.
func LookupName(name string) (Param, bool) {
	for _, p := range registry {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// All returns every registered parameter ordered by id.
func All() []Param {
	out := make([]Param, 0, len(registry))
	for _, p := range registry {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Validate checks a proposed value against the parameter's allowed range.
func Validate(id, value int64) error {
	p, ok := registry[id]
	if !ok {
		return coreerrors.Validationf("Bad chain parameter id [%d]", id)
	}
	if p.OnlyOne {
		if value != 1 {
			return coreerrors.Validationf("This value[%s] is only allowed to be 1", p.Name)
		}
		return nil
	}
	if value < p.Min || value > p.Max {
		return coreerrors.Validationf("Bad chain parameter value, valid range is [%d,%d]", p.Min, p.Max)
	}
	return nil
}

// Apply writes every proposed value into cp in id order. The values are
// expected to have passed Validate.
func Apply(cp *types.ChainParams, values map[int64]int64) error {
	ids := make([]int64, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		p, ok := registry[id]
		if !ok {
			return fmt.Errorf("params: unknown parameter %d", id)
		}
		*p.field(cp) = values[id]
	}
	return nil
}
