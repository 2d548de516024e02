package state

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

// RLP has no signed integers or maps. Records store every int64 as its uint64
// bit pattern and every map as a slice sorted by key, which keeps encodings
// canonical.

type balanceRecord struct {
	ID     uint64
	Amount uint64
}

type frozenRecord struct {
	Amount     uint64
	ExpireTime uint64
}

type accountRecord struct {
	Address   common.Address
	Name      string
	AccountID string
	Type      uint64
	Balance   uint64
	Assets    []balanceRecord

	FrozenForBandwidth frozenRecord
	FrozenForEnergy    frozenRecord

	DelegatedFrozenForBandwidth         uint64
	DelegatedFrozenForEnergy            uint64
	AcquiredDelegatedFrozenForBandwidth uint64
	AcquiredDelegatedFrozenForEnergy    uint64

	NormalStake  uint64
	StakeTime    uint64
	WitnessStake uint64
	HasVote      bool
	VoteWitness  common.Address
	VoteCount    uint64

	Witness     common.Address
	IsCommittee bool

	IssuedAssetID uint64
	FrozenSupply  []frozenRecord

	Allowance          uint64
	LatestWithdrawTime uint64
	CreateTime         uint64
}

func newAccountRecord(a *types.Account) *accountRecord {
	rec := &accountRecord{
		Address:   a.Address,
		Name:      a.Name,
		AccountID: a.AccountID,
		Type:      uint64(a.Type),
		Balance:   uint64(a.Balance),

		FrozenForBandwidth: frozenRecord{uint64(a.FrozenForBandwidth.Amount), uint64(a.FrozenForBandwidth.ExpireTime)},
		FrozenForEnergy:    frozenRecord{uint64(a.FrozenForEnergy.Amount), uint64(a.FrozenForEnergy.ExpireTime)},

		DelegatedFrozenForBandwidth:         uint64(a.DelegatedFrozenForBandwidth),
		DelegatedFrozenForEnergy:            uint64(a.DelegatedFrozenForEnergy),
		AcquiredDelegatedFrozenForBandwidth: uint64(a.AcquiredDelegatedFrozenForBandwidth),
		AcquiredDelegatedFrozenForEnergy:    uint64(a.AcquiredDelegatedFrozenForEnergy),

		NormalStake:  uint64(a.NormalStake),
		StakeTime:    uint64(a.StakeTime),
		WitnessStake: uint64(a.WitnessStake),

		Witness:     a.Witness,
		IsCommittee: a.IsCommittee,

		IssuedAssetID: uint64(a.IssuedAssetID),

		Allowance:          uint64(a.Allowance),
		LatestWithdrawTime: uint64(a.LatestWithdrawTime),
		CreateTime:         uint64(a.CreateTime),
	}
	for _, id := range a.AssetIDs() {
		rec.Assets = append(rec.Assets, balanceRecord{ID: uint64(id), Amount: uint64(a.Assets[id])})
	}
	if a.Vote != nil {
		rec.HasVote = true
		rec.VoteWitness = a.Vote.Witness
		rec.VoteCount = uint64(a.Vote.Count)
	}
	for _, f := range a.FrozenSupply {
		rec.FrozenSupply = append(rec.FrozenSupply, frozenRecord{uint64(f.Amount), uint64(f.ExpireTime)})
	}
	return rec
}

func (rec *accountRecord) toAccount() *types.Account {
	a := &types.Account{
		Address:   rec.Address,
		Name:      rec.Name,
		AccountID: rec.AccountID,
		Type:      types.AccountType(rec.Type),
		Balance:   int64(rec.Balance),
		Assets:    make(map[int64]int64, len(rec.Assets)),

		FrozenForBandwidth: types.Frozen{Amount: int64(rec.FrozenForBandwidth.Amount), ExpireTime: int64(rec.FrozenForBandwidth.ExpireTime)},
		FrozenForEnergy:    types.Frozen{Amount: int64(rec.FrozenForEnergy.Amount), ExpireTime: int64(rec.FrozenForEnergy.ExpireTime)},

		DelegatedFrozenForBandwidth:         int64(rec.DelegatedFrozenForBandwidth),
		DelegatedFrozenForEnergy:            int64(rec.DelegatedFrozenForEnergy),
		AcquiredDelegatedFrozenForBandwidth: int64(rec.AcquiredDelegatedFrozenForBandwidth),
		AcquiredDelegatedFrozenForEnergy:    int64(rec.AcquiredDelegatedFrozenForEnergy),

		NormalStake:  int64(rec.NormalStake),
		StakeTime:    int64(rec.StakeTime),
		WitnessStake: int64(rec.WitnessStake),

		Witness:     rec.Witness,
		IsCommittee: rec.IsCommittee,

		IssuedAssetID: int64(rec.IssuedAssetID),

		Allowance:          int64(rec.Allowance),
		LatestWithdrawTime: int64(rec.LatestWithdrawTime),
		CreateTime:         int64(rec.CreateTime),
	}
	for _, b := range rec.Assets {
		a.Assets[int64(b.ID)] = int64(b.Amount)
	}
	if rec.HasVote {
		a.Vote = &types.Vote{Witness: rec.VoteWitness, Count: int64(rec.VoteCount)}
	}
	for _, f := range rec.FrozenSupply {
		a.FrozenSupply = append(a.FrozenSupply, types.FrozenSupplyBalance{Amount: int64(f.Amount), ExpireTime: int64(f.ExpireTime)})
	}
	return a
}

type frozenSupplyRecord struct {
	Amount uint64
	Days   uint64
}

type assetRecord struct {
	ID                      uint64
	Owner                   common.Address
	Name                    string
	Abbr                    string
	TotalSupply             uint64
	MCashNum                uint64
	Num                     uint64
	Precision               uint64
	StartTime               uint64
	EndTime                 uint64
	Description             string
	URL                     string
	FreeAssetNetLimit       uint64
	PublicFreeAssetNetLimit uint64
	PublicFreeAssetNetUsage uint64
	PublicLatestFreeNetTime uint64
	FrozenSupply            []frozenSupplyRecord
}

func newAssetRecord(a *types.AssetIssue) *assetRecord {
	rec := &assetRecord{
		ID:                      uint64(a.ID),
		Owner:                   a.Owner,
		Name:                    a.Name,
		Abbr:                    a.Abbr,
		TotalSupply:             uint64(a.TotalSupply),
		MCashNum:                uint64(a.MCashNum),
		Num:                     uint64(a.Num),
		Precision:               uint64(a.Precision),
		StartTime:               uint64(a.StartTime),
		EndTime:                 uint64(a.EndTime),
		Description:             a.Description,
		URL:                     a.URL,
		FreeAssetNetLimit:       uint64(a.FreeAssetNetLimit),
		PublicFreeAssetNetLimit: uint64(a.PublicFreeAssetNetLimit),
		PublicFreeAssetNetUsage: uint64(a.PublicFreeAssetNetUsage),
		PublicLatestFreeNetTime: uint64(a.PublicLatestFreeNetTime),
	}
	for _, f := range a.FrozenSupply {
		rec.FrozenSupply = append(rec.FrozenSupply, frozenSupplyRecord{uint64(f.Amount), uint64(f.Days)})
	}
	return rec
}

func (rec *assetRecord) toAsset() *types.AssetIssue {
	a := &types.AssetIssue{
		ID:                      int64(rec.ID),
		Owner:                   rec.Owner,
		Name:                    rec.Name,
		Abbr:                    rec.Abbr,
		TotalSupply:             int64(rec.TotalSupply),
		MCashNum:                int64(rec.MCashNum),
		Num:                     int64(rec.Num),
		Precision:               int32(rec.Precision),
		StartTime:               int64(rec.StartTime),
		EndTime:                 int64(rec.EndTime),
		Description:             rec.Description,
		URL:                     rec.URL,
		FreeAssetNetLimit:       int64(rec.FreeAssetNetLimit),
		PublicFreeAssetNetLimit: int64(rec.PublicFreeAssetNetLimit),
		PublicFreeAssetNetUsage: int64(rec.PublicFreeAssetNetUsage),
		PublicLatestFreeNetTime: int64(rec.PublicLatestFreeNetTime),
	}
	for _, f := range rec.FrozenSupply {
		a.FrozenSupply = append(a.FrozenSupply, types.FrozenSupply{Amount: int64(f.Amount), Days: int64(f.Days)})
	}
	return a
}

type exchangeRecord struct {
	ID                 uint64
	Creator            common.Address
	CreateTime         uint64
	FirstTokenID       uint64
	FirstTokenBalance  uint64
	SecondTokenID      uint64
	SecondTokenBalance uint64
}

func newExchangeRecord(e *types.Exchange) *exchangeRecord {
	return &exchangeRecord{
		ID:                 uint64(e.ID),
		Creator:            e.Creator,
		CreateTime:         uint64(e.CreateTime),
		FirstTokenID:       uint64(e.FirstTokenID),
		FirstTokenBalance:  uint64(e.FirstTokenBalance),
		SecondTokenID:      uint64(e.SecondTokenID),
		SecondTokenBalance: uint64(e.SecondTokenBalance),
	}
}

func (rec *exchangeRecord) toExchange() *types.Exchange {
	return &types.Exchange{
		ID:                 int64(rec.ID),
		Creator:            rec.Creator,
		CreateTime:         int64(rec.CreateTime),
		FirstTokenID:       int64(rec.FirstTokenID),
		FirstTokenBalance:  int64(rec.FirstTokenBalance),
		SecondTokenID:      int64(rec.SecondTokenID),
		SecondTokenBalance: int64(rec.SecondTokenBalance),
	}
}

type delegatedRecord struct {
	From                   common.Address
	To                     common.Address
	FrozenForBandwidth     uint64
	ExpireTimeForBandwidth uint64
	FrozenForEnergy        uint64
	ExpireTimeForEnergy    uint64
}

func newDelegatedRecord(d *types.DelegatedResource) *delegatedRecord {
	return &delegatedRecord{
		From:                   d.From,
		To:                     d.To,
		FrozenForBandwidth:     uint64(d.FrozenForBandwidth),
		ExpireTimeForBandwidth: uint64(d.ExpireTimeForBandwidth),
		FrozenForEnergy:        uint64(d.FrozenForEnergy),
		ExpireTimeForEnergy:    uint64(d.ExpireTimeForEnergy),
	}
}

func (rec *delegatedRecord) toDelegated() *types.DelegatedResource {
	return &types.DelegatedResource{
		From:                   rec.From,
		To:                     rec.To,
		FrozenForBandwidth:     int64(rec.FrozenForBandwidth),
		ExpireTimeForBandwidth: int64(rec.ExpireTimeForBandwidth),
		FrozenForEnergy:        int64(rec.FrozenForEnergy),
		ExpireTimeForEnergy:    int64(rec.ExpireTimeForEnergy),
	}
}

type parameterRecord struct {
	ID    uint64
	Value uint64
}

type proposalRecord struct {
	ID             uint64
	Proposer       common.Address
	Parameters     []parameterRecord
	CreateTime     uint64
	ExpirationTime uint64
	State          uint64
	Approvals      []common.Address
}

func newProposalRecord(p *types.Proposal) *proposalRecord {
	rec := &proposalRecord{
		ID:             uint64(p.ID),
		Proposer:       p.Proposer,
		CreateTime:     uint64(p.CreateTime),
		ExpirationTime: uint64(p.ExpirationTime),
		State:          uint64(p.State),
		Approvals:      append([]common.Address(nil), p.Approvals...),
	}
	for _, id := range p.ParameterIDs() {
		rec.Parameters = append(rec.Parameters, parameterRecord{ID: uint64(id), Value: uint64(p.Parameters[id])})
	}
	return rec
}

func (rec *proposalRecord) toProposal() *types.Proposal {
	p := &types.Proposal{
		ID:             int64(rec.ID),
		Proposer:       rec.Proposer,
		Parameters:     make(map[int64]int64, len(rec.Parameters)),
		CreateTime:     int64(rec.CreateTime),
		ExpirationTime: int64(rec.ExpirationTime),
		State:          types.ProposalState(rec.State),
		Approvals:      rec.Approvals,
	}
	for _, param := range rec.Parameters {
		p.Parameters[int64(param.ID)] = int64(param.Value)
	}
	return p
}

type witnessRecord struct {
	Address    common.Address
	Owner      common.Address
	VoteCount  uint64
	URL        string
	Status     uint64
	CreateTime uint64
}

func newWitnessRecord(w *types.Witness) *witnessRecord {
	return &witnessRecord{
		Address:    w.Address,
		Owner:      w.Owner,
		VoteCount:  uint64(w.VoteCount),
		URL:        w.URL,
		Status:     uint64(w.Status),
		CreateTime: uint64(w.CreateTime),
	}
}

func (rec *witnessRecord) toWitness() *types.Witness {
	return &types.Witness{
		Address:    rec.Address,
		Owner:      rec.Owner,
		VoteCount:  int64(rec.VoteCount),
		URL:        rec.URL,
		Status:     types.WitnessStatus(rec.Status),
		CreateTime: int64(rec.CreateTime),
	}
}

type stakeRecord struct {
	Address      common.Address
	Amount       uint64
	StakeTime    uint64
	Epoch        uint64
	TotalRewards uint64
}

type indexRecord struct {
	Account      common.Address
	FromAccounts []common.Address
	ToAccounts   []common.Address
}

func sortedAddresses(in []common.Address) []common.Address {
	out := append([]common.Address(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}
