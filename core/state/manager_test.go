package state

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"mcashchain/core/types"
	"mcashchain/storage"
)

func newTestManager(t *testing.T) (*Manager, *storage.MemDB) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return NewManager(db), db
}

func TestSnapshotRevert(t *testing.T) {
	mgr, _ := newTestManager(t)
	addr := common.HexToAddress("0x01")

	acc := types.NewAccount(addr, types.AccountTypeNormal, 1)
	acc.Balance = 100
	require.NoError(t, mgr.PutAccount(acc))

	snap := mgr.Snapshot()
	acc.Balance = 40
	require.NoError(t, mgr.PutAccount(acc))
	require.NoError(t, mgr.Delete(CollectionAccounts, addr.Bytes()))

	missing, err := mgr.GetAccount(addr)
	require.NoError(t, err)
	require.Nil(t, missing)

	mgr.RevertToSnapshot(snap)
	restored, err := mgr.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, int64(100), restored.Balance)

	mgr.RevertToSnapshot(0)
	ok, err := mgr.HasAccount(addr)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCommitFlushesAndDigests(t *testing.T) {
	build := func() (common.Hash, *storage.MemDB) {
		mgr, db := newTestManager(t)
		for i := 1; i <= 3; i++ {
			acc := types.NewAccount(common.BigToAddress(big.NewInt(int64(i))), types.AccountTypeNormal, 0)
			acc.Balance = int64(i) * 10
			require.NoError(t, mgr.PutAccount(acc))
		}
		digest, err := mgr.Commit()
		require.NoError(t, err)
		return digest, db
	}
	first, db := build()
	second, _ := build()
	require.Equal(t, first, second)
	require.NotEqual(t, common.Hash{}, first)
	require.Equal(t, 3, db.Len())

	mgr := NewManager(db)
	acc, err := mgr.GetAccount(common.BigToAddress(big.NewInt(2)))
	require.NoError(t, err)
	require.Equal(t, int64(20), acc.Balance)
}

func TestCommitDigestIgnoresWriteOrder(t *testing.T) {
	accounts := make([]*types.Account, 0, 4)
	for i := 1; i <= 4; i++ {
		acc := types.NewAccount(common.BigToAddress(big.NewInt(int64(i))), types.AccountTypeNormal, 0)
		acc.Balance = int64(i)
		accounts = append(accounts, acc)
	}

	forward, _ := newTestManager(t)
	for _, acc := range accounts {
		require.NoError(t, forward.PutAccount(acc))
	}
	backward, _ := newTestManager(t)
	for i := len(accounts) - 1; i >= 0; i-- {
		require.NoError(t, backward.PutAccount(accounts[i]))
	}

	a, err := forward.Commit()
	require.NoError(t, err)
	b, err := backward.Commit()
	require.NoError(t, err)
	require.Equal(t, a, b)

	empty, err := forward.Commit()
	require.NoError(t, err)
	require.Equal(t, gethtypes.EmptyRootHash, empty)
}

func TestIterateMergesOverlay(t *testing.T) {
	mgr, db := newTestManager(t)
	for id := int64(1); id <= 3; id++ {
		require.NoError(t, mgr.PutExchange(&types.Exchange{ID: id, FirstTokenBalance: id}))
	}
	_, err := mgr.Commit()
	require.NoError(t, err)
	require.Equal(t, 3, db.Len())

	require.NoError(t, mgr.Delete(CollectionExchanges, idKey(2)))
	require.NoError(t, mgr.PutExchange(&types.Exchange{ID: 4, FirstTokenBalance: 4}))
	require.NoError(t, mgr.PutExchange(&types.Exchange{ID: 1, FirstTokenBalance: 7}))

	var seen []int64
	var balances []int64
	require.NoError(t, mgr.ForEachExchange(func(ex *types.Exchange) error {
		seen = append(seen, ex.ID)
		balances = append(balances, ex.FirstTokenBalance)
		return nil
	}))
	require.Equal(t, []int64{1, 3, 4}, seen)
	require.Equal(t, []int64{7, 3, 4}, balances)
}

func TestAccountRecordKeepsCollections(t *testing.T) {
	mgr, _ := newTestManager(t)
	addr := common.HexToAddress("0xabc")
	witness := common.HexToAddress("0xdef")

	acc := types.NewAccount(addr, types.AccountTypeAssetIssue, 5)
	acc.SetAssetBalance(1_000_002, 9)
	acc.SetAssetBalance(1_000_001, 3)
	acc.Vote = &types.Vote{Witness: witness, Count: 12}
	acc.FrozenSupply = []types.FrozenSupplyBalance{{Amount: 4, ExpireTime: 99}}
	acc.IsCommittee = true
	require.NoError(t, mgr.PutAccount(acc))

	got, err := mgr.GetAccount(addr)
	require.NoError(t, err)
	require.Equal(t, acc, got)
}

func TestChainParamsRoundTrip(t *testing.T) {
	mgr, _ := newTestManager(t)
	_, ok, err := mgr.ChainParams()
	require.NoError(t, err)
	require.False(t, ok)

	params := types.DefaultChainParams(1_000)
	params.LatestProposalNum = 7
	params.TotalEnergyWeight = 33
	require.NoError(t, mgr.PutChainParams(&params))

	got, ok, err := mgr.ChainParams()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, params, *got)
}

func TestLegacyAssetNameIndex(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.PutAssetIssue(&types.AssetIssue{ID: 1_000_001, Name: "gold"}))
	require.NoError(t, mgr.PutAssetIssue(&types.AssetIssue{ID: 1_000_002, Name: "gold"}))

	id, ok, err := mgr.AssetIDByName("gold")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1_000_001), id)
}

func TestDelegatedIndexRemovedWhenEmpty(t *testing.T) {
	mgr, _ := newTestManager(t)
	a := common.HexToAddress("0x1")
	b := common.HexToAddress("0x2")

	idx, err := mgr.GetDelegatedIndex(a)
	require.NoError(t, err)
	idx.AddTo(b)
	require.NoError(t, mgr.PutDelegatedIndex(idx))

	ok, err := mgr.Has(CollectionDelegatedIndex, a.Bytes())
	require.NoError(t, err)
	require.True(t, ok)

	idx.RemoveTo(b)
	require.NoError(t, mgr.PutDelegatedIndex(idx))
	ok, err = mgr.Has(CollectionDelegatedIndex, a.Bytes())
	require.NoError(t, err)
	require.False(t, ok)
}
