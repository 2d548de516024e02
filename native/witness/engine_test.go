package witness

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/events"
	"mcashchain/core/state"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
	"mcashchain/storage"
)

var (
	operator = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	voter    = common.HexToAddress("0x00000000000000000000000000000000000000c2")
	rival    = common.HexToAddress("0x00000000000000000000000000000000000000c3")
)

type fixture struct {
	mgr    *state.Manager
	env    *nativecommon.Env
	engine *Engine
	rec    *events.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	mgr := state.NewManager(db)
	params := types.DefaultChainParams(0)
	params.AccountUpgradeCost = 10 * types.Precision
	params.WitnessStakeAmount = 1_000 * types.Precision
	rec := &events.Recorder{}
	engine := NewEngine()
	engine.SetState(mgr)
	engine.SetEmitter(rec)
	for _, addr := range []common.Address{operator, voter, rival} {
		acc := types.NewAccount(addr, types.AccountTypeNormal, 0)
		acc.Balance = 100 * types.Precision
		acc.NormalStake = 2_000 * types.Precision
		require.NoError(t, mgr.PutAccount(acc))
	}
	return &fixture{mgr: mgr, env: &nativecommon.Env{Params: &params, Now: 5_000}, engine: engine, rec: rec}
}

func (f *fixture) account(t *testing.T, addr common.Address) *types.Account {
	t.Helper()
	acc, err := f.mgr.GetAccount(addr)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

func (f *fixture) witness(t *testing.T, addr common.Address) *types.Witness {
	t.Helper()
	w, err := f.mgr.GetWitness(addr)
	require.NoError(t, err)
	require.NotNil(t, w)
	return w
}

func run(t *testing.T, c nativecommon.Contract) *types.Result {
	t.Helper()
	require.NoError(t, c.Validate())
	res := &types.Result{}
	require.NoError(t, c.Execute(res))
	return res
}

func requireValidation(t *testing.T, c nativecommon.Contract, msg string) {
	t.Helper()
	err := c.Validate()
	require.Error(t, err)
	require.True(t, coreerrors.IsValidation(err), "unexpected error kind: %v", err)
	require.Equal(t, msg, err.Error())
}

func TestCreateWitnessCarvesStake(t *testing.T) {
	f := newFixture(t)
	res := run(t, f.engine.Create(f.env, operator.Bytes(), &types.WitnessCreatePayload{URL: "https://witness.example"}))
	require.Equal(t, f.env.Params.AccountUpgradeCost, res.Fee)

	acc := f.account(t, operator)
	require.Equal(t, 90*types.Precision, acc.Balance)
	require.Equal(t, 1_000*types.Precision, acc.NormalStake)
	require.Equal(t, 1_000*types.Precision, acc.WitnessStake)
	require.Equal(t, 2_000*types.Precision, acc.TotalStake())
	require.Equal(t, operator, acc.Witness)

	w := f.witness(t, operator)
	require.Equal(t, operator, w.Owner)
	require.Equal(t, types.WitnessActive, w.Status)

	requireValidation(t, f.engine.Create(f.env, operator.Bytes(), &types.WitnessCreatePayload{
		Witness: rival.Bytes(), URL: "https://second.example",
	}), "Account[00000000000000000000000000000000000000c1] already controls witness[00000000000000000000000000000000000000c1]")
}

func TestCreateWitnessValidation(t *testing.T) {
	f := newFixture(t)
	requireValidation(t, f.engine.Create(f.env, operator.Bytes(), &types.WitnessCreatePayload{URL: ""}), "Invalid url")

	acc := f.account(t, voter)
	acc.NormalStake = 10
	require.NoError(t, f.mgr.PutAccount(acc))
	requireValidation(t, f.engine.Create(f.env, voter.Bytes(), &types.WitnessCreatePayload{URL: "u"}),
		"Witness stake must be at least 1000 MCASH")

	acc.Balance = 0
	require.NoError(t, f.mgr.PutAccount(acc))
	requireValidation(t, f.engine.Create(f.env, voter.Bytes(), &types.WitnessCreatePayload{URL: "u"}),
		"balance < AccountUpgradeCost")
}

func TestUpdateAndResign(t *testing.T) {
	f := newFixture(t)
	run(t, f.engine.Create(f.env, operator.Bytes(), &types.WitnessCreatePayload{URL: "a"}))
	run(t, f.engine.Update(f.env, operator.Bytes(), &types.WitnessUpdatePayload{Witness: operator.Bytes(), URL: "b"}))
	require.Equal(t, "b", f.witness(t, operator).URL)

	requireValidation(t, f.engine.Update(f.env, voter.Bytes(), &types.WitnessUpdatePayload{Witness: operator.Bytes(), URL: "c"}),
		"Account does not control this witness")

	run(t, f.engine.Vote(f.env, voter.Bytes(), &types.VoteWitnessPayload{Witness: operator.Bytes(), Count: 100}))
	run(t, f.engine.Resign(f.env, operator.Bytes(), &types.WitnessResignPayload{Witness: operator.Bytes()}))

	acc := f.account(t, operator)
	require.Zero(t, acc.WitnessStake)
	require.Equal(t, 2_000*types.Precision, acc.NormalStake)
	require.False(t, acc.HasWitness())

	w := f.witness(t, operator)
	require.Equal(t, types.WitnessResigned, w.Status)
	require.Equal(t, int64(100), w.VoteCount)

	requireValidation(t, f.engine.Vote(f.env, rival.Bytes(), &types.VoteWitnessPayload{Witness: operator.Bytes(), Count: 1}),
		"Witness[00000000000000000000000000000000000000c1] has resigned")
	requireValidation(t, f.engine.Resign(f.env, operator.Bytes(), &types.WitnessResignPayload{Witness: operator.Bytes()}),
		"Witness has resigned")
}

func TestVoteReplacesPreviousVote(t *testing.T) {
	f := newFixture(t)
	run(t, f.engine.Create(f.env, operator.Bytes(), &types.WitnessCreatePayload{URL: "a"}))
	run(t, f.engine.Create(f.env, rival.Bytes(), &types.WitnessCreatePayload{URL: "b"}))

	requireValidation(t, f.engine.Vote(f.env, voter.Bytes(), &types.VoteWitnessPayload{Witness: operator.Bytes(), Count: 2_001}),
		"The total number of votes[2001] is greater than the stakePower[2000]")
	requireValidation(t, f.engine.Vote(f.env, voter.Bytes(), &types.VoteWitnessPayload{Witness: operator.Bytes(), Count: 0}),
		"vote count must be greater than 0")

	run(t, f.engine.Vote(f.env, voter.Bytes(), &types.VoteWitnessPayload{Witness: operator.Bytes(), Count: 2_000}))
	require.Equal(t, int64(2_000), f.witness(t, operator).VoteCount)

	run(t, f.engine.Vote(f.env, voter.Bytes(), &types.VoteWitnessPayload{Witness: operator.Bytes(), Count: 500}))
	require.Equal(t, int64(500), f.witness(t, operator).VoteCount)

	run(t, f.engine.Vote(f.env, voter.Bytes(), &types.VoteWitnessPayload{Witness: rival.Bytes(), Count: 700}))
	require.Zero(t, f.witness(t, operator).VoteCount)
	require.Equal(t, int64(700), f.witness(t, rival).VoteCount)

	vote := f.account(t, voter).Vote
	require.NotNil(t, vote)
	require.Equal(t, rival, vote.Witness)
	require.Equal(t, int64(700), vote.Count)
}
