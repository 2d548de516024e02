package stake

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/events"
	"mcashchain/core/types"
	nativecommon "mcashchain/native/common"
)

type controllerState interface {
	GetAccount(addr common.Address) (*types.Account, error)
	PutAccount(account *types.Account) error
	ForEachAccount(fn func(*types.Account) error) error
	ForEachStakeAccount(fn func(*types.StakeAccount) error) error
	PutStakeAccount(s *types.StakeAccount) error
}

// Controller runs once per block outside operation execution. It settles the
// reward of the last processed epoch against the snapshots taken then, and
// re-snapshots every account's normal stake for the new epoch. Calling it
// again within an epoch that was already processed is a no-op.
type Controller struct {
	state   controllerState
	emitter events.Emitter
}

// NewController constructs a controller over the ledger store.
func NewController(state controllerState) *Controller {
	return &Controller{state: state, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter. Nil resets it to a no-op.
func (c *Controller) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		c.emitter = events.NoopEmitter{}
		return
	}
	c.emitter = emitter
}

// Epoch returns the stake epoch that contains now.
func Epoch(params *types.ChainParams, now int64) int64 {
	if params.StakeEpochLength <= 0 || now < 0 {
		return 0
	}
	return now / params.StakeEpochLength
}

// Process advances the controller to the epoch containing env.Now. It
// reports whether any work was done.
func (c *Controller) Process(env *nativecommon.Env) (bool, error) {
	if c.state == nil {
		return false, errStateNotConfigured
	}
	params := env.Params
	epoch := Epoch(params, env.Now)
	if epoch <= params.LastStakeEpoch {
		return false, nil
	}

	// Snapshots are collected before any write so iteration never observes
	// its own updates.
	var snapshots []*types.StakeAccount
	var total int64
	err := c.state.ForEachStakeAccount(func(s *types.StakeAccount) error {
		snapshots = append(snapshots, s)
		var err error
		total, err = nativecommon.AddExact(total, s.Amount)
		return err
	})
	if err != nil {
		return false, err
	}
	prior := make(map[common.Address]*types.StakeAccount, len(snapshots))
	for _, s := range snapshots {
		prior[s.Address] = s
	}

	var distributed int64
	if total > 0 && params.StakeRewardPerEpoch > 0 {
		for _, s := range snapshots {
			reward, err := nativecommon.MulDiv(params.StakeRewardPerEpoch, s.Amount, total)
			if err != nil {
				return false, err
			}
			if reward == 0 {
				continue
			}
			account, err := c.state.GetAccount(s.Address)
			if err != nil {
				return false, err
			}
			if account == nil {
				continue
			}
			if account.Allowance, err = nativecommon.AddExact(account.Allowance, reward); err != nil {
				return false, err
			}
			if err := c.state.PutAccount(account); err != nil {
				return false, err
			}
			if s.TotalRewards, err = nativecommon.AddExact(s.TotalRewards, reward); err != nil {
				return false, err
			}
			distributed += reward
		}
	}

	var stakers []*types.Account
	err = c.state.ForEachAccount(func(a *types.Account) error {
		if a.NormalStake > 0 {
			stakers = append(stakers, a)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	var staked int64
	current := make(map[common.Address]struct{}, len(stakers))
	for _, a := range stakers {
		current[a.Address] = struct{}{}
		snap := &types.StakeAccount{
			Address:   a.Address,
			Amount:    a.NormalStake,
			StakeTime: a.StakeTime,
			Epoch:     epoch,
		}
		if old, ok := prior[a.Address]; ok {
			snap.TotalRewards = old.TotalRewards
		}
		if err := c.state.PutStakeAccount(snap); err != nil {
			return false, err
		}
		if staked, err = nativecommon.AddExact(staked, a.NormalStake); err != nil {
			return false, err
		}
	}
	for _, s := range snapshots {
		if _, ok := current[s.Address]; ok {
			continue
		}
		s.Amount = 0
		if err := c.state.PutStakeAccount(s); err != nil {
			return false, err
		}
	}

	params.LastStakeEpoch = epoch
	c.emitter.Emit(events.StakeEpochProcessed{
		Epoch:       epoch,
		Accounts:    len(stakers),
		TotalStake:  staked,
		Distributed: distributed,
	})
	return true, nil
}
