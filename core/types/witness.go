package types

import "github.com/ethereum/go-ethereum/common"

// WitnessStatus tracks whether a witness still accepts votes.
type WitnessStatus uint8

const (
	WitnessActive WitnessStatus = iota
	WitnessResigned
)

func (s WitnessStatus) String() string {
	if s == WitnessResigned {
		return "RESIGNED"
	}
	return "ACTIVE"
}

// Witness is a block-producer candidate backed by its owner's witness stake.
type Witness struct {
	Address    common.Address `json:"address"`
	Owner      common.Address `json:"owner"`
	VoteCount  int64          `json:"voteCount"`
	URL        string         `json:"url"`
	Status     WitnessStatus  `json:"status"`
	CreateTime int64          `json:"createTime"`
}

// StakeAccount is the per-epoch vesting snapshot the stake controller derives
// from an account's normal stake.
type StakeAccount struct {
	Address      common.Address `json:"address"`
	Amount       int64          `json:"amount"`
	StakeTime    int64          `json:"stakeTime"`
	Epoch        int64          `json:"epoch"`
	TotalRewards int64          `json:"totalRewards"`
}
