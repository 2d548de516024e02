package types

import "github.com/ethereum/go-ethereum/common"

const (
	// Precision is the number of base units in one MCASH.
	Precision int64 = 100_000_000
	// MillisPerDay converts day durations into block-time units.
	MillisPerDay int64 = 86_400_000
)

// DefaultBlackhole is the well-known sink that burned fees are credited to.
var DefaultBlackhole = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

// ChainParams holds every dynamic chain parameter together with the global
// counters and running totals mutated by operations. It is a plain value so a
// copy taken before execution restores it exactly.
type ChainParams struct {
	MaintenanceTimeInterval int64 `json:"maintenanceTimeInterval"`
	NextMaintenanceTime     int64 `json:"nextMaintenanceTime"`

	AccountUpgradeCost  int64 `json:"accountUpgradeCost"`
	CreateAccountFee    int64 `json:"createAccountFee"`
	CreateNewAccountFee int64 `json:"createNewAccountFee"`
	AssetIssueFee       int64 `json:"assetIssueFee"`
	ExchangeCreateFee   int64 `json:"exchangeCreateFee"`

	ExchangeBalanceLimit int64 `json:"exchangeBalanceLimit"`

	MinFrozenTime         int64 `json:"minFrozenTime"`
	MaxFrozenTime         int64 `json:"maxFrozenTime"`
	MinFrozenSupplyTime   int64 `json:"minFrozenSupplyTime"`
	MaxFrozenSupplyTime   int64 `json:"maxFrozenSupplyTime"`
	MaxFrozenSupplyNumber int64 `json:"maxFrozenSupplyNumber"`
	OneDayNetLimit        int64 `json:"oneDayNetLimit"`

	ResourceWeightDivisor int64 `json:"resourceWeightDivisor"`
	MinFreezeAmount       int64 `json:"minFreezeAmount"`

	MinStakeAmount             int64 `json:"minStakeAmount"`
	StakeVestingPeriod         int64 `json:"stakeVestingPeriod"`
	WitnessStakeAmount         int64 `json:"witnessStakeAmount"`
	WitnessAllowanceFrozenTime int64 `json:"witnessAllowanceFrozenTime"`
	StakeEpochLength           int64 `json:"stakeEpochLength"`
	StakeRewardPerEpoch        int64 `json:"stakeRewardPerEpoch"`

	ProposalExpireCycles int64 `json:"proposalExpireCycles"`

	AllowSameTokenName     int64 `json:"allowSameTokenName"`
	AllowDelegateResource  int64 `json:"allowDelegateResource"`
	AllowUpdateAccountName int64 `json:"allowUpdateAccountName"`

	TotalNetWeight    int64 `json:"totalNetWeight"`
	TotalEnergyWeight int64 `json:"totalEnergyWeight"`
	TotalNetLimit     int64 `json:"totalNetLimit"`
	TotalEnergyLimit  int64 `json:"totalEnergyLimit"`

	LatestTokenID     int64 `json:"latestTokenId"`
	LatestExchangeNum int64 `json:"latestExchangeNum"`
	LatestProposalNum int64 `json:"latestProposalNum"`
	LastStakeEpoch    int64 `json:"lastStakeEpoch"`

	LatestBlockHeaderNumber    int64 `json:"latestBlockHeaderNumber"`
	LatestBlockHeaderTimestamp int64 `json:"latestBlockHeaderTimestamp"`

	Blackhole common.Address `json:"blackhole"`
}

// DefaultChainParams returns the genesis parameter set.
func DefaultChainParams(genesisTime int64) ChainParams {
	const interval = 21_600_000
	return ChainParams{
		MaintenanceTimeInterval: interval,
		NextMaintenanceTime:     genesisTime + interval,

		AccountUpgradeCost:  9_999 * Precision,
		CreateAccountFee:    Precision,
		CreateNewAccountFee: Precision / 10,
		AssetIssueFee:       1_024 * Precision,
		ExchangeCreateFee:   1_024 * Precision,

		ExchangeBalanceLimit: 1_000_000_000_000_000,

		MinFrozenTime:         3,
		MaxFrozenTime:         30,
		MinFrozenSupplyTime:   1,
		MaxFrozenSupplyTime:   3_652,
		MaxFrozenSupplyNumber: 10,
		OneDayNetLimit:        57_600_000_000,

		ResourceWeightDivisor: Precision,
		MinFreezeAmount:       Precision,

		MinStakeAmount:             5_000 * Precision,
		StakeVestingPeriod:         3 * MillisPerDay,
		WitnessStakeAmount:         1_000_000 * Precision,
		WitnessAllowanceFrozenTime: 1,
		StakeEpochLength:           interval,
		StakeRewardPerEpoch:        1_000 * Precision,

		ProposalExpireCycles: 12,

		AllowSameTokenName:     1,
		AllowDelegateResource:  1,
		AllowUpdateAccountName: 0,

		TotalNetLimit:    43_200_000_000,
		TotalEnergyLimit: 50_000_000_000_000,

		LatestTokenID: 1_000_000,

		Blackhole: DefaultBlackhole,
	}
}

// AdvanceMaintenance moves NextMaintenanceTime past now in whole intervals.
// It reports whether a maintenance boundary was crossed.
func (p *ChainParams) AdvanceMaintenance(now int64) bool {
	if p.MaintenanceTimeInterval <= 0 || now < p.NextMaintenanceTime {
		return false
	}
	elapsed := (now-p.NextMaintenanceTime)/p.MaintenanceTimeInterval + 1
	p.NextMaintenanceTime += elapsed * p.MaintenanceTimeInterval
	return true
}

// LegacyAssetNames reports whether assets are still addressed by name.
func (p *ChainParams) LegacyAssetNames() bool {
	return p.AllowSameTokenName == 0
}

// Weight returns the running resource weight for r.
func (p *ChainParams) Weight(r ResourceCode) int64 {
	if r == ResourceEnergy {
		return p.TotalEnergyWeight
	}
	return p.TotalNetWeight
}

// SetWeight overwrites the running resource weight for r.
func (p *ChainParams) SetWeight(r ResourceCode, w int64) {
	if r == ResourceEnergy {
		p.TotalEnergyWeight = w
		return
	}
	p.TotalNetWeight = w
}
