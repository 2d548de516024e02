package genesis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/state"
	"mcashchain/core/types"
	"mcashchain/crypto"
	"mcashchain/native/params"
	"mcashchain/storage"
)

// Result describes the committed genesis state.
type Result struct {
	Header *types.BlockHeader
	Params *types.ChainParams
	Digest common.Hash
}

// BuildGenesisFromSpec writes the initial ledger into db in one batch. It
// refuses to run over a database that already holds chain parameters.
func BuildGenesisFromSpec(spec *GenesisSpec, db storage.Database) (*Result, error) {
	if spec == nil {
		return nil, fmt.Errorf("genesis spec must not be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("database must not be nil")
	}
	if spec.GenesisTimestamp().IsZero() {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
	}
	manager := state.NewManager(db)
	if _, ok, err := manager.ChainParams(); err != nil {
		return nil, fmt.Errorf("load chain params: %w", err)
	} else if ok {
		return nil, fmt.Errorf("genesis already applied")
	}

	now := spec.GenesisTimestamp().UnixMilli()
	cp := types.DefaultChainParams(now)
	if err := applyOverrides(&cp, spec.Params, now); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Blackhole) != "" {
		cp.Blackhole, _ = crypto.ParseAddress(spec.Blackhole)
	}
	cp.LatestBlockHeaderTimestamp = now

	accounts := make(map[common.Address]*types.Account)
	load := func(addr common.Address) *types.Account {
		if acc, ok := accounts[addr]; ok {
			return acc
		}
		acc := types.NewAccount(addr, types.AccountTypeNormal, now)
		accounts[addr] = acc
		return acc
	}

	// 1) Allocations
	for _, raw := range sortedKeys(spec.Alloc) {
		addr, _ := crypto.ParseAddress(raw)
		load(addr).Balance = spec.Alloc[raw]
	}
	load(cp.Blackhole)

	// 2) Committee
	for _, raw := range spec.Committee {
		addr, _ := crypto.ParseAddress(raw)
		load(addr).IsCommittee = true
	}

	// 3) Witnesses
	for _, w := range spec.Witnesses {
		addr, _ := crypto.ParseAddress(w.Address)
		owner := load(addr)
		owner.Witness = addr
		if err := manager.PutWitness(&types.Witness{
			Address:    addr,
			Owner:      addr,
			URL:        w.URL,
			VoteCount:  w.VoteCount,
			Status:     types.WitnessActive,
			CreateTime: now,
		}); err != nil {
			return nil, fmt.Errorf("witness %q: %w", w.Address, err)
		}
	}

	// 4) Assets, ids assigned in declaration order
	for _, a := range spec.Assets {
		owner, _ := crypto.ParseAddress(a.Owner)
		cp.LatestTokenID++
		asset := &types.AssetIssue{
			ID:          cp.LatestTokenID,
			Owner:       owner,
			Name:        a.Name,
			Abbr:        a.Abbr,
			TotalSupply: a.TotalSupply,
			MCashNum:    a.MCashNum,
			Num:         a.Num,
			Precision:   a.Precision,
			StartTime:   a.StartTime,
			EndTime:     a.EndTime,
			Description: a.Description,
			URL:         a.URL,
		}
		if err := manager.PutAssetIssue(asset); err != nil {
			return nil, fmt.Errorf("asset %q: %w", a.Name, err)
		}
		acc := load(owner)
		acc.IssuedAssetID = asset.ID
		acc.Type = types.AccountTypeAssetIssue
		acc.SetAssetBalance(asset.ID, a.TotalSupply)
	}

	// 5) Accounts in address order
	addrs := make([]common.Address, 0, len(accounts))
	for addr := range accounts {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i].Cmp(addrs[j]) < 0 })
	for _, addr := range addrs {
		if err := manager.PutAccount(accounts[addr]); err != nil {
			return nil, fmt.Errorf("persist account %s: %w", addr.Hex(), err)
		}
	}

	if err := params.NewStore(manager).Save(&cp); err != nil {
		return nil, err
	}
	digest, err := manager.Commit()
	if err != nil {
		return nil, fmt.Errorf("commit genesis: %w", err)
	}
	return &Result{
		Header: &types.BlockHeader{Height: 0, Timestamp: now},
		Params: &cp,
		Digest: digest,
	}, nil
}

func applyOverrides(cp *types.ChainParams, overrides map[string]int64, genesisTime int64) error {
	if len(overrides) == 0 {
		return nil
	}
	values := make(map[int64]int64, len(overrides))
	for name, value := range overrides {
		p, ok := params.LookupName(name)
		if !ok {
			return fmt.Errorf("params[%q]: unknown parameter", name)
		}
		values[p.ID] = value
	}
	if err := params.Apply(cp, values); err != nil {
		return err
	}
	if _, ok := overrides["MAINTENANCE_TIME_INTERVAL"]; ok {
		cp.NextMaintenanceTime = genesisTime + cp.MaintenanceTimeInterval
	}
	return nil
}
