package common

import (
	"github.com/ethereum/go-ethereum/common"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/types"
)

// Contract is the two-phase handler built for one operation. Validate must
// not mutate state. Execute is only called after a successful Validate and
// either fully applies the operation or reports an error; the caller reverts
// any partial writes on error.
type Contract interface {
	Validate() error
	Execute(res *types.Result) error
}

// Env is the execution context shared by every operation of a block.
type Env struct {
	// Params is the live chain parameter record. Contracts mutate counters
	// and running totals in place.
	Params *types.ChainParams
	// Now is the block head time in unix milliseconds.
	Now    int64
	Height uint64
}

// AccountStore is the slice of the ledger every engine needs.
type AccountStore interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
}

// LoadOwner validates the raw owner address and loads its account.
func LoadOwner(store AccountStore, raw []byte, invalidMsg string) (*types.Account, error) {
	addr, ok := ParseAddress(raw)
	if !ok {
		return nil, coreerrors.Validation(invalidMsg)
	}
	account, err := store.GetAccount(addr)
	if err != nil {
		return nil, coreerrors.Execution(err)
	}
	if account == nil {
		return nil, coreerrors.Validation("Account does not exist")
	}
	return account, nil
}

// MustAccount loads an account during execution, where absence is an
// invariant breach.
func MustAccount(store AccountStore, addr common.Address) (*types.Account, error) {
	account, err := store.GetAccount(addr)
	if err != nil {
		return nil, coreerrors.Execution(err)
	}
	if account == nil {
		return nil, coreerrors.Executionf("account %x vanished after validation", addr.Bytes())
	}
	return account, nil
}

// BurnFee credits fee to the blackhole account. The caller has already
// debited it from the payer.
func BurnFee(store AccountStore, env *Env, fee int64, res *types.Result) error {
	if fee <= 0 {
		return nil
	}
	hole, err := store.GetAccount(env.Params.Blackhole)
	if err != nil {
		return coreerrors.Execution(err)
	}
	if hole == nil {
		hole = types.NewAccount(env.Params.Blackhole, types.AccountTypeNormal, env.Now)
	}
	balance, err := AddExact(hole.Balance, fee)
	if err != nil {
		return coreerrors.Execution(err)
	}
	hole.Balance = balance
	if err := store.PutAccount(hole); err != nil {
		return coreerrors.Execution(err)
	}
	res.AddFee(fee)
	return nil
}
