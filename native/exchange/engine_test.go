package exchange

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/state"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
	"mcashchain/storage"
)

const token int64 = 1_000_001

var (
	maker  = common.HexToAddress("0x00000000000000000000000000000000000002a1")
	trader = common.HexToAddress("0x00000000000000000000000000000000000002b2")
)

type fixture struct {
	mgr    *state.Manager
	env    *nativecommon.Env
	engine *Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	mgr := state.NewManager(db)
	params := types.DefaultChainParams(0)
	params.ExchangeCreateFee = 10 * types.Precision
	engine := NewEngine()
	engine.SetState(mgr)
	require.NoError(t, mgr.PutAssetIssue(&types.AssetIssue{ID: token, Name: "gold", Owner: maker}))
	for _, addr := range []common.Address{maker, trader} {
		acc := types.NewAccount(addr, types.AccountTypeNormal, 0)
		acc.Balance = 1_000 * types.Precision
		acc.SetAssetBalance(token, 1_000_000)
		require.NoError(t, mgr.PutAccount(acc))
	}
	return &fixture{mgr: mgr, env: &nativecommon.Env{Params: &params, Now: 1_000}, engine: engine}
}

func (f *fixture) account(t *testing.T, addr common.Address) *types.Account {
	t.Helper()
	acc, err := f.mgr.GetAccount(addr)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

func (f *fixture) exchange(t *testing.T, id int64) *types.Exchange {
	t.Helper()
	ex, err := f.mgr.GetExchange(id)
	require.NoError(t, err)
	require.NotNil(t, ex)
	return ex
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

// createPool opens a native/token pool holding 100 MCASH against 10,000 tokens.
func createPool(t *testing.T, f *fixture) int64 {
	t.Helper()
	res := run(t, f.engine.Create(f.env, maker.Bytes(), &types.ExchangeCreatePayload{
		FirstTokenID: types.NativeTokenID, FirstTokenBalance: 100 * types.Precision,
		SecondTokenID: token, SecondTokenBalance: 10_000,
	}))
	return res.ExchangeID
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	create := func(p *types.ExchangeCreatePayload) nativecommon.Contract {
		return f.engine.Create(f.env, maker.Bytes(), p)
	}
	requireValidation(t, create(&types.ExchangeCreatePayload{FirstTokenID: token, FirstTokenBalance: 1, SecondTokenID: token, SecondTokenBalance: 1}),
		"cannot exchange same tokens")
	requireValidation(t, create(&types.ExchangeCreatePayload{FirstTokenID: 0, FirstTokenBalance: 0, SecondTokenID: token, SecondTokenBalance: 1}),
		"token balance must greater than zero")
	requireValidation(t, create(&types.ExchangeCreatePayload{FirstTokenID: 0, FirstTokenBalance: 1, SecondTokenID: 42, SecondTokenBalance: 1}),
		"token id[42] does not exist")
	requireValidation(t, create(&types.ExchangeCreatePayload{FirstTokenID: 0, FirstTokenBalance: 995 * types.Precision, SecondTokenID: token, SecondTokenBalance: 1}),
		"balance is not enough")
	requireValidation(t, create(&types.ExchangeCreatePayload{FirstTokenID: 0, FirstTokenBalance: 1, SecondTokenID: token, SecondTokenBalance: 1_000_001}),
		"second token balance is not enough")

	id := createPool(t, f)
	require.Equal(t, int64(1), id)
	require.Equal(t, int64(1), f.env.Params.LatestExchangeNum)

	acc := f.account(t, maker)
	require.Equal(t, 1_000*types.Precision-100*types.Precision-f.env.Params.ExchangeCreateFee, acc.Balance)
	require.Equal(t, int64(990_000), acc.AssetBalance(token))
	require.Equal(t, f.env.Params.ExchangeCreateFee, f.account(t, f.env.Params.Blackhole).Balance)

	require.Equal(t, int64(2), createPool(t, f))
}

func TestTradeFollowsConstantProduct(t *testing.T) {
	f := newFixture(t)
	id := createPool(t, f)
	before := f.exchange(t, id)
	r1, r2 := before.SecondTokenBalance, before.FirstTokenBalance

	delta := int64(2_500)
	want := r2 * delta / (r1 + delta)
	res := run(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: id, TokenID: token, Quant: delta, Expected: 1,
	}))
	require.Equal(t, want, res.ExchangeReceivedAmount)

	after := f.exchange(t, id)
	require.Equal(t, r1+delta, after.SecondTokenBalance)
	require.Equal(t, r2-want, after.FirstTokenBalance)
	productBefore := new(big.Int).Mul(big.NewInt(r1), big.NewInt(r2))
	productAfter := new(big.Int).Mul(big.NewInt(after.SecondTokenBalance), big.NewInt(after.FirstTokenBalance))
	require.True(t, productBefore.Cmp(productAfter) <= 0)

	acc := f.account(t, trader)
	require.Equal(t, 1_000*types.Precision+want, acc.Balance)
	require.Equal(t, int64(1_000_000)-delta, acc.AssetBalance(token))

	requireValidation(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: id, TokenID: token, Quant: 10, Expected: types.Precision,
	}), "token required must greater than expected")
	requireValidation(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: id, TokenID: 7, Quant: 10, Expected: 1,
	}), "token is not in exchange")
	requireValidation(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: 9, TokenID: token, Quant: 10, Expected: 1,
	}), "Exchange[9] not exists")
}

func TestInjectAndWithdraw(t *testing.T) {
	f := newFixture(t)
	id := createPool(t, f)

	requireValidation(t, f.engine.Inject(f.env, trader.Bytes(), &types.ExchangeInjectPayload{
		ExchangeID: id, TokenID: token, Quant: 100,
	}), "account[00000000000000000000000000000000000002b2] is not creator")

	res := run(t, f.engine.Inject(f.env, maker.Bytes(), &types.ExchangeInjectPayload{
		ExchangeID: id, TokenID: token, Quant: 1_000,
	}))
	require.Equal(t, 10*types.Precision, res.ExchangeInjectAnotherAmount)
	ex := f.exchange(t, id)
	require.Equal(t, 110*types.Precision, ex.FirstTokenBalance)
	require.Equal(t, int64(11_000), ex.SecondTokenBalance)

	requireValidation(t, f.engine.Withdraw(f.env, maker.Bytes(), &types.ExchangeWithdrawPayload{
		ExchangeID: id, TokenID: types.NativeTokenID, Quant: 1,
	}), "Not precise enough")
	requireValidation(t, f.engine.Withdraw(f.env, maker.Bytes(), &types.ExchangeWithdrawPayload{
		ExchangeID: id, TokenID: token, Quant: 11_001,
	}), "exchange balance is not enough")

	res = run(t, f.engine.Withdraw(f.env, maker.Bytes(), &types.ExchangeWithdrawPayload{
		ExchangeID: id, TokenID: token, Quant: 1_100,
	}))
	require.Equal(t, 11*types.Precision, res.ExchangeWithdrawAnotherAmount)

	run(t, f.engine.Withdraw(f.env, maker.Bytes(), &types.ExchangeWithdrawPayload{
		ExchangeID: id, TokenID: token, Quant: 9_900,
	}))
	ex = f.exchange(t, id)
	require.True(t, ex.Closed())
	require.Zero(t, ex.FirstTokenBalance)

	requireValidation(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: id, TokenID: token, Quant: 10, Expected: 1,
	}), "Token balance in exchange is equal with 0,the exchange has been closed")
}

func TestPrecise(t *testing.T) {
	require.True(t, precise(100, 1_000, 1))
	require.False(t, precise(1_000, 1, 1))
	require.True(t, precise(30_000, 10_001, 3))
	require.False(t, precise(30_000, 10_002, 3))
}

func TestBalanceLimit(t *testing.T) {
	f := newFixture(t)
	f.env.Params.ExchangeBalanceLimit = 5_000
	requireValidation(t, f.engine.Create(f.env, maker.Bytes(), &types.ExchangeCreatePayload{
		FirstTokenID: types.NativeTokenID, FirstTokenBalance: 1_000,
		SecondTokenID: token, SecondTokenBalance: 10_000,
	}), "token balance must less than 5000")

	f.env.Params.ExchangeBalanceLimit = types.DefaultChainParams(0).ExchangeBalanceLimit
	id := createPool(t, f)

	// The native side already sits far above this ceiling, so only the
	// token side is meaningful for trades.
	f.env.Params.ExchangeBalanceLimit = 12_000
	requireValidation(t, f.engine.Inject(f.env, maker.Bytes(), &types.ExchangeInjectPayload{
		ExchangeID: id, TokenID: token, Quant: 3_000,
	}), "token balance must less than 12000")
	requireValidation(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: id, TokenID: token, Quant: 2_500, Expected: 1,
	}), "token balance must less than 12000")

	run(t, f.engine.Trade(f.env, trader.Bytes(), &types.ExchangeTransactionPayload{
		ExchangeID: id, TokenID: token, Quant: 2_000, Expected: 1,
	}))
	require.Equal(t, int64(12_000), f.exchange(t, id).SecondTokenBalance)
}
