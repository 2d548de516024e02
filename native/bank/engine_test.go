package bank

import (
	"math"
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
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
	carol = common.HexToAddress("0x00000000000000000000000000000000000ca201")
)

func newTestManager(t *testing.T) *state.Manager {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	return state.NewManager(db)
}

func newTestEnv() *nativecommon.Env {
	params := types.DefaultChainParams(0)
	return &nativecommon.Env{Params: &params, Now: 1_000}
}

func fund(t *testing.T, mgr *state.Manager, addr common.Address, balance int64) *types.Account {
	t.Helper()
	acc := types.NewAccount(addr, types.AccountTypeNormal, 0)
	acc.Balance = balance
	require.NoError(t, mgr.PutAccount(acc))
	return acc
}

func balance(t *testing.T, mgr *state.Manager, addr common.Address) int64 {
	t.Helper()
	acc, err := mgr.GetAccount(addr)
	require.NoError(t, err)
	if acc == nil {
		return 0
	}
	return acc.Balance
}

func apply(t *testing.T, c nativecommon.Contract) *types.Result {
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

func newEngine(mgr *state.Manager) (*Engine, *events.Recorder) {
	rec := &events.Recorder{}
	engine := NewEngine()
	engine.SetState(mgr)
	engine.SetEmitter(rec)
	return engine, rec
}

func TestTransferToNewAccountChargesCreationFee(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, rec := newEngine(mgr)
	fund(t, mgr, alice, 10*types.Precision)

	res := apply(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: bob.Bytes(), Amount: types.Precision}))

	fee := env.Params.CreateNewAccountFee
	require.Equal(t, fee, res.Fee)
	require.Equal(t, 9*types.Precision-fee, balance(t, mgr, alice))
	require.Equal(t, types.Precision, balance(t, mgr, bob))
	require.Equal(t, fee, balance(t, mgr, env.Params.Blackhole))
	require.Equal(t, 3, rec.Len())
}

func TestTransferConservesValue(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, _ := newEngine(mgr)
	fund(t, mgr, alice, 500)
	fund(t, mgr, bob, 7)

	before := balance(t, mgr, alice) + balance(t, mgr, bob) + balance(t, mgr, env.Params.Blackhole)
	res := apply(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: bob.Bytes(), Amount: 123}))
	after := balance(t, mgr, alice) + balance(t, mgr, bob) + balance(t, mgr, env.Params.Blackhole)

	require.Zero(t, res.Fee)
	require.Equal(t, before, after)
	require.Equal(t, int64(130), balance(t, mgr, bob))
}

func TestTransferValidationMessages(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, _ := newEngine(mgr)
	fund(t, mgr, alice, 100)
	full := fund(t, mgr, bob, math.MaxInt64)

	requireValidation(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: alice.Bytes(), Amount: 1}),
		"Cannot transfer mcash to yourself.")
	requireValidation(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: bob.Bytes(), Amount: 0}),
		"Amount must greater than 0.")
	requireValidation(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: carol.Bytes(), Amount: 100}),
		"Validate TransferContract error, balance is not sufficient.")
	requireValidation(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: full.Address.Bytes(), Amount: 1}),
		"long overflow")
	requireValidation(t, engine.Transfer(env, []byte{1, 2, 3}, &types.TransferPayload{To: bob.Bytes(), Amount: 1}),
		"Invalid ownerAddress")
	requireValidation(t, engine.Transfer(env, carol.Bytes(), &types.TransferPayload{To: bob.Bytes(), Amount: 1}),
		"Account does not exist")
	requireValidation(t, engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: make([]byte, 20), Amount: 1}),
		"Invalid toAddress!")
	requireValidation(t, engine.Transfer(env, make([]byte, 20), &types.TransferPayload{To: bob.Bytes(), Amount: 1}),
		"Invalid ownerAddress")
}

func TestValidationIsRepeatableAndSideEffectFree(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, rec := newEngine(mgr)
	fund(t, mgr, alice, 10)

	c := engine.Transfer(env, alice.Bytes(), &types.TransferPayload{To: bob.Bytes(), Amount: 11})
	first := c.Validate()
	second := c.Validate()
	require.Equal(t, first, second)
	require.Equal(t, int64(10), balance(t, mgr, alice))
	ok, err := mgr.HasAccount(bob)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, rec.Len())
}

func TestTransferAsset(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, _ := newEngine(mgr)

	require.NoError(t, mgr.PutAssetIssue(&types.AssetIssue{ID: 1_000_001, Name: "gold", Owner: alice}))
	owner := fund(t, mgr, alice, types.Precision)
	owner.SetAssetBalance(1_000_001, 50)
	require.NoError(t, mgr.PutAccount(owner))
	fund(t, mgr, bob, 0)

	payload := &types.TransferAssetPayload{AssetKey: "1000001", To: bob.Bytes(), Amount: 20}
	apply(t, engine.TransferAsset(env, alice.Bytes(), payload))

	got, err := mgr.GetAccount(bob)
	require.NoError(t, err)
	require.Equal(t, int64(20), got.AssetBalance(1_000_001))
	got, err = mgr.GetAccount(alice)
	require.NoError(t, err)
	require.Equal(t, int64(30), got.AssetBalance(1_000_001))

	requireValidation(t, engine.TransferAsset(env, alice.Bytes(), &types.TransferAssetPayload{AssetKey: "1000001", To: bob.Bytes(), Amount: 31}),
		"assetBalance is not sufficient.")
	requireValidation(t, engine.TransferAsset(env, alice.Bytes(), &types.TransferAssetPayload{AssetKey: "42", To: bob.Bytes(), Amount: 1}),
		"No asset !")
	requireValidation(t, engine.TransferAsset(env, alice.Bytes(), &types.TransferAssetPayload{AssetKey: "1000001", To: alice.Bytes(), Amount: 1}),
		"Cannot transfer asset to yourself.")
}

func TestTransferAssetByLegacyName(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	env.Params.AllowSameTokenName = 0
	engine, _ := newEngine(mgr)

	require.NoError(t, mgr.PutAssetIssue(&types.AssetIssue{ID: 1_000_001, Name: "gold", Owner: alice}))
	owner := fund(t, mgr, alice, types.Precision)
	owner.SetAssetBalance(1_000_001, 5)
	require.NoError(t, mgr.PutAccount(owner))

	res := apply(t, engine.TransferAsset(env, alice.Bytes(), &types.TransferAssetPayload{AssetKey: "gold", To: carol.Bytes(), Amount: 5}))
	require.Equal(t, env.Params.CreateNewAccountFee, res.Fee)

	got, err := mgr.GetAccount(carol)
	require.NoError(t, err)
	require.Equal(t, int64(5), got.AssetBalance(1_000_001))
	owner, err = mgr.GetAccount(alice)
	require.NoError(t, err)
	require.Empty(t, owner.Assets)
}

func TestAccountCreate(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, _ := newEngine(mgr)
	fund(t, mgr, alice, 2*types.Precision)
	fund(t, mgr, bob, 0)

	res := apply(t, engine.AccountCreate(env, alice.Bytes(), &types.AccountCreatePayload{Account: carol.Bytes()}))
	require.Equal(t, env.Params.CreateAccountFee, res.Fee)
	require.Equal(t, types.Precision, balance(t, mgr, alice))

	requireValidation(t, engine.AccountCreate(env, alice.Bytes(), &types.AccountCreatePayload{Account: carol.Bytes()}),
		"Account has existed")
	requireValidation(t, engine.AccountCreate(env, bob.Bytes(), &types.AccountCreatePayload{Account: common.HexToAddress("0x99").Bytes()}),
		"Validate CreateAccountActuator error, insufficient fee.")
	requireValidation(t, engine.AccountCreate(env, alice.Bytes(), &types.AccountCreatePayload{Account: make([]byte, 20)}),
		"Invalid account address")
}

func TestAccountUpdateOnce(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, _ := newEngine(mgr)
	fund(t, mgr, alice, 0)

	apply(t, engine.AccountUpdate(env, alice.Bytes(), &types.AccountUpdatePayload{Name: "alice"}))
	requireValidation(t, engine.AccountUpdate(env, alice.Bytes(), &types.AccountUpdatePayload{Name: "alicia"}),
		"This account name already exist")

	env.Params.AllowUpdateAccountName = 1
	apply(t, engine.AccountUpdate(env, alice.Bytes(), &types.AccountUpdatePayload{Name: "alicia"}))
	acc, err := mgr.GetAccount(alice)
	require.NoError(t, err)
	require.Equal(t, "alicia", acc.Name)
}

func TestSetAccountIDUniqueness(t *testing.T) {
	mgr := newTestManager(t)
	env := newTestEnv()
	engine, _ := newEngine(mgr)
	fund(t, mgr, alice, 0)
	fund(t, mgr, bob, 0)

	requireValidation(t, engine.SetAccountID(env, alice.Bytes(), &types.SetAccountIDPayload{AccountID: "short"}),
		"Invalid accountId")
	apply(t, engine.SetAccountID(env, alice.Bytes(), &types.SetAccountIDPayload{AccountID: "AliceWallet"}))
	requireValidation(t, engine.SetAccountID(env, alice.Bytes(), &types.SetAccountIDPayload{AccountID: "another-id"}),
		"This account id already set")
	requireValidation(t, engine.SetAccountID(env, bob.Bytes(), &types.SetAccountIDPayload{AccountID: "alicewallet"}),
		"This id has existed")
}
