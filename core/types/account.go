package types

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// AccountType distinguishes plain accounts from issuers and contracts.
type AccountType uint8

const (
	AccountTypeNormal AccountType = iota
	AccountTypeAssetIssue
	AccountTypeContract
)

// Valid reports whether the type is one of the known account kinds.
func (t AccountType) Valid() bool {
	return t <= AccountTypeContract
}

// Frozen is a balance locked until ExpireTime (unix millis).
type Frozen struct {
	Amount     int64 `json:"amount"`
	ExpireTime int64 `json:"expireTime"`
}

// FrozenSupplyBalance is one tranche of an issuer's locked token supply.
type FrozenSupplyBalance struct {
	Amount     int64 `json:"amount"`
	ExpireTime int64 `json:"expireTime"`
}

// Vote records the single witness an account backs and the weight it assigned.
type Vote struct {
	Witness common.Address `json:"witness"`
	Count   int64          `json:"count"`
}

// Account is the ledger view of an address. Every amount is non-negative and
// denominated in base units; asset balances are keyed by numeric asset id.
type Account struct {
	Address   common.Address  `json:"address"`
	Name      string          `json:"name"`
	AccountID string          `json:"accountId"`
	Type      AccountType     `json:"type"`
	Balance   int64           `json:"balance"`
	Assets    map[int64]int64 `json:"assets"`

	FrozenForBandwidth Frozen `json:"frozenForBandwidth"`
	FrozenForEnergy    Frozen `json:"frozenForEnergy"`

	DelegatedFrozenForBandwidth         int64 `json:"delegatedFrozenForBandwidth"`
	DelegatedFrozenForEnergy            int64 `json:"delegatedFrozenForEnergy"`
	AcquiredDelegatedFrozenForBandwidth int64 `json:"acquiredDelegatedFrozenForBandwidth"`
	AcquiredDelegatedFrozenForEnergy    int64 `json:"acquiredDelegatedFrozenForEnergy"`

	NormalStake  int64 `json:"normalStake"`
	StakeTime    int64 `json:"stakeTime"`
	WitnessStake int64 `json:"witnessStake"`
	Vote         *Vote `json:"vote,omitempty"`

	// Witness is the witness address this account controls, zero when none.
	Witness     common.Address `json:"witness"`
	IsCommittee bool           `json:"isCommittee"`

	IssuedAssetID int64                 `json:"issuedAssetId"`
	FrozenSupply  []FrozenSupplyBalance `json:"frozenSupply,omitempty"`

	Allowance          int64 `json:"allowance"`
	LatestWithdrawTime int64 `json:"latestWithdrawTime"`
	CreateTime         int64 `json:"createTime"`
}

// NewAccount returns an empty account of the given type.
func NewAccount(addr common.Address, typ AccountType, createTime int64) *Account {
	return &Account{
		Address:    addr,
		Type:       typ,
		Assets:     make(map[int64]int64),
		CreateTime: createTime,
	}
}

// TotalStake is the stake that backs voting power.
func (a *Account) TotalStake() int64 {
	return a.NormalStake + a.WitnessStake
}

// HasWitness reports whether the account currently controls a witness.
func (a *Account) HasWitness() bool {
	return a.Witness != (common.Address{})
}

// AssetBalance returns the held amount of the asset, zero when absent.
func (a *Account) AssetBalance(id int64) int64 {
	if a.Assets == nil {
		return 0
	}
	return a.Assets[id]
}

// SetAssetBalance stores the amount, dropping the entry when it reaches zero.
func (a *Account) SetAssetBalance(id, amount int64) {
	if a.Assets == nil {
		a.Assets = make(map[int64]int64)
	}
	if amount == 0 {
		delete(a.Assets, id)
		return
	}
	a.Assets[id] = amount
}

// AssetIDs returns the held asset ids in ascending order.
func (a *Account) AssetIDs() []int64 {
	ids := make([]int64, 0, len(a.Assets))
	for id := range a.Assets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// FrozenSupplyTotal sums every locked tranche of issued supply.
func (a *Account) FrozenSupplyTotal() int64 {
	var total int64
	for _, f := range a.FrozenSupply {
		total += f.Amount
	}
	return total
}

// Clone returns a deep copy.
func (a *Account) Clone() *Account {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Assets = make(map[int64]int64, len(a.Assets))
	for k, v := range a.Assets {
		clone.Assets[k] = v
	}
	if a.Vote != nil {
		vote := *a.Vote
		clone.Vote = &vote
	}
	if a.FrozenSupply != nil {
		clone.FrozenSupply = append([]FrozenSupplyBalance(nil), a.FrozenSupply...)
	}
	return &clone
}
