package events

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	TypeStaked              = "stake.staked"
	TypeUnstaked            = "stake.unstaked"
	TypeRewardWithdrawn     = "stake.reward_withdrawn"
	TypeStakeEpochProcessed = "stake.epoch_processed"
)

// Staked records an addition to an account's normal stake.
type Staked struct {
	Account common.Address
	Amount  int64
	Total   int64
}

func (Staked) EventType() string { return TypeStaked }

func (e Staked) Event() *types.Event {
	return &types.Event{
		Type: TypeStaked,
		Attributes: map[string]string{
			"account": formatAddress(e.Account),
			"amount":  intToString(e.Amount),
			"total":   intToString(e.Total),
		},
	}
}

// Unstaked records the release of an account's normal stake.
type Unstaked struct {
	Account common.Address
	Amount  int64
}

func (Unstaked) EventType() string { return TypeUnstaked }

func (e Unstaked) Event() *types.Event {
	return &types.Event{
		Type: TypeUnstaked,
		Attributes: map[string]string{
			"account": formatAddress(e.Account),
			"amount":  intToString(e.Amount),
		},
	}
}

// RewardWithdrawn records accrued allowance moved to liquid balance.
type RewardWithdrawn struct {
	Account common.Address
	Amount  int64
}

func (RewardWithdrawn) EventType() string { return TypeRewardWithdrawn }

func (e RewardWithdrawn) Event() *types.Event {
	return &types.Event{
		Type: TypeRewardWithdrawn,
		Attributes: map[string]string{
			"account": formatAddress(e.Account),
			"amount":  intToString(e.Amount),
		},
	}
}

// StakeEpochProcessed summarises one controller run.
type StakeEpochProcessed struct {
	Epoch       int64
	Accounts    int
	TotalStake  int64
	Distributed int64
}

func (StakeEpochProcessed) EventType() string { return TypeStakeEpochProcessed }

func (e StakeEpochProcessed) Event() *types.Event {
	return &types.Event{
		Type: TypeStakeEpochProcessed,
		Attributes: map[string]string{
			"epoch":       intToString(e.Epoch),
			"accounts":    intToString(int64(e.Accounts)),
			"totalStake":  intToString(e.TotalStake),
			"distributed": intToString(e.Distributed),
		},
	}
}
