package core

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"mcashchain/core/state"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
	"mcashchain/storage"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func newTestProcessor(t *testing.T) (*StateProcessor, *state.Manager) {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	mgr := state.NewManager(db)
	cp := types.DefaultChainParams(0)
	require.NoError(t, mgr.PutChainParams(&cp))
	for _, addr := range []common.Address{alice, bob} {
		acc := types.NewAccount(addr, types.AccountTypeNormal, 0)
		acc.Balance = 10 * types.Precision
		require.NoError(t, mgr.PutAccount(acc))
	}
	_, err := mgr.Commit()
	require.NoError(t, err)
	return NewStateProcessor(mgr, slog.New(slog.NewTextHandler(io.Discard, nil))), mgr
}

func transfer(from, to common.Address, amount int64) *types.Operation {
	return &types.Operation{Owner: from.Bytes(), Payload: &types.TransferPayload{To: to.Bytes(), Amount: amount}}
}

func block(height uint64, ts int64, ops ...*types.Operation) *types.Block {
	return types.NewBlock(&types.BlockHeader{Height: height, Timestamp: ts}, ops)
}

func balanceOf(t *testing.T, mgr *state.Manager, addr common.Address) int64 {
	t.Helper()
	acc, err := mgr.GetAccount(addr)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc.Balance
}

func TestApplyBlockReportsEveryOperation(t *testing.T) {
	sp, mgr := newTestProcessor(t)
	out, err := sp.ApplyBlock(context.Background(), block(1, 1_000,
		transfer(alice, bob, types.Precision),
		transfer(alice, bob, 100*types.Precision),
		transfer(alice, alice, 1),
		&types.Operation{Owner: alice.Bytes()},
	))
	require.NoError(t, err)
	require.Len(t, out.Results, 4)
	require.Equal(t, types.CodeSuccess, out.Results[0].Code)
	require.Equal(t, types.CodeValidationFailed, out.Results[1].Code)
	require.Equal(t, "Validate TransferContract error, balance is not sufficient.", out.Results[1].Message)
	require.Equal(t, types.CodeValidationFailed, out.Results[2].Code)
	require.Equal(t, types.CodeUnsupported, out.Results[3].Code)

	require.Equal(t, 9*types.Precision, balanceOf(t, mgr, alice))
	require.Equal(t, 11*types.Precision, balanceOf(t, mgr, bob))
	require.NotEmpty(t, out.Events)
}

func TestFailedOperationsLeaveNoTrace(t *testing.T) {
	withFailures, _ := newTestProcessor(t)
	clean, _ := newTestProcessor(t)

	a, err := withFailures.ApplyBlock(context.Background(), block(1, 1_000,
		transfer(alice, bob, 100*types.Precision),
		&types.Operation{Owner: alice.Bytes(), Payload: &types.StakePayload{Amount: types.Precision}},
		transfer(bob, alice, types.Precision),
	))
	require.NoError(t, err)
	b, err := clean.ApplyBlock(context.Background(), block(1, 1_000,
		transfer(bob, alice, types.Precision),
	))
	require.NoError(t, err)

	require.Equal(t, b.Digest, a.Digest)
	require.Equal(t, b.Events, a.Events)
}

func TestApplyBlockIsDeterministic(t *testing.T) {
	ops := func() []*types.Operation {
		return []*types.Operation{
			transfer(alice, bob, 3),
			transfer(bob, common.HexToAddress("0x0c"), types.Precision),
			{Owner: alice.Bytes(), Payload: &types.FreezeBalancePayload{Amount: types.Precision, Duration: 3}},
		}
	}
	first, _ := newTestProcessor(t)
	second, _ := newTestProcessor(t)
	a, err := first.ApplyBlock(context.Background(), block(1, 5_000, ops()...))
	require.NoError(t, err)
	b, err := second.ApplyBlock(context.Background(), block(1, 5_000, ops()...))
	require.NoError(t, err)
	require.Equal(t, a.Digest, b.Digest)
	require.NotEqual(t, common.Hash{}, a.Digest)
}

func TestApplyBlockPersistsParams(t *testing.T) {
	sp, _ := newTestProcessor(t)
	_, err := sp.ApplyBlock(context.Background(), block(7, 1_000,
		&types.Operation{Owner: alice.Bytes(), Payload: &types.FreezeBalancePayload{Amount: 2 * types.Precision, Duration: 3}},
	))
	require.NoError(t, err)

	cp, err := sp.Params()
	require.NoError(t, err)
	require.Equal(t, int64(2), cp.TotalNetWeight)
	require.Equal(t, int64(7), cp.LatestBlockHeaderNumber)
	require.Equal(t, int64(1_000), cp.LatestBlockHeaderTimestamp)
}

func TestApplyBlockAdvancesMaintenanceAndStakeEpoch(t *testing.T) {
	sp, _ := newTestProcessor(t)
	before, err := sp.Params()
	require.NoError(t, err)
	interval := before.MaintenanceTimeInterval

	_, err = sp.ApplyBlock(context.Background(), block(1, 2*interval+5))
	require.NoError(t, err)
	cp, err := sp.Params()
	require.NoError(t, err)
	require.Equal(t, 3*interval, cp.NextMaintenanceTime)
	require.Equal(t, (2*interval+5)/cp.StakeEpochLength, cp.LastStakeEpoch)
}

func TestApplyBlockRejectsTimestampRegression(t *testing.T) {
	sp, mgr := newTestProcessor(t)
	_, err := sp.ApplyBlock(context.Background(), block(1, 5_000))
	require.NoError(t, err)

	_, err = sp.ApplyBlock(context.Background(), block(2, 4_000, transfer(alice, bob, 1)))
	require.Error(t, err)
	require.Equal(t, 10*types.Precision, balanceOf(t, mgr, alice))
}

func TestApplyBlockRejectsReplayedHeight(t *testing.T) {
	sp, mgr := newTestProcessor(t)
	replay := block(1, 5_000, transfer(alice, bob, 1))
	_, err := sp.ApplyBlock(context.Background(), replay)
	require.NoError(t, err)

	_, err = sp.ApplyBlock(context.Background(), replay)
	require.ErrorContains(t, err, "is not above head")
	require.Equal(t, 10*types.Precision-1, balanceOf(t, mgr, alice))
}

func TestApplyBlockHonoursCancellation(t *testing.T) {
	sp, _ := newTestProcessor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sp.ApplyBlock(ctx, block(1, 1_000))
	require.ErrorIs(t, err, context.Canceled)
}

func TestApplyOperationRevertsParamsOnRejection(t *testing.T) {
	sp, mgr := newTestProcessor(t)
	cp, err := sp.Params()
	require.NoError(t, err)
	env := &nativecommon.Env{Params: cp, Now: 1_000}

	res := sp.ApplyOperation(env, &types.Operation{Owner: alice.Bytes(), Payload: &types.FreezeBalancePayload{
		Amount: 20 * types.Precision, Duration: 3,
	}})
	require.Equal(t, types.CodeValidationFailed, res.Code)
	require.Zero(t, env.Params.TotalNetWeight)
	require.Equal(t, 10*types.Precision, balanceOf(t, mgr, alice))
}
