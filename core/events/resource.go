package events

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	TypeBalanceFrozen   = "resource.frozen"
	TypeBalanceUnfrozen = "resource.unfrozen"
)

// BalanceFrozen records a freeze; Receiver equals Owner for self freezes.
type BalanceFrozen struct {
	Owner      common.Address
	Receiver   common.Address
	Resource   types.ResourceCode
	Amount     int64
	ExpireTime int64
}

func (BalanceFrozen) EventType() string { return TypeBalanceFrozen }

func (e BalanceFrozen) Event() *types.Event {
	return &types.Event{
		Type: TypeBalanceFrozen,
		Attributes: map[string]string{
			"owner":      formatAddress(e.Owner),
			"receiver":   formatAddress(e.Receiver),
			"resource":   e.Resource.String(),
			"amount":     intToString(e.Amount),
			"expireTime": intToString(e.ExpireTime),
		},
	}
}

// BalanceUnfrozen records the amount returned to Owner's liquid balance.
type BalanceUnfrozen struct {
	Owner    common.Address
	Receiver common.Address
	Resource types.ResourceCode
	Amount   int64
}

func (BalanceUnfrozen) EventType() string { return TypeBalanceUnfrozen }

func (e BalanceUnfrozen) Event() *types.Event {
	return &types.Event{
		Type: TypeBalanceUnfrozen,
		Attributes: map[string]string{
			"owner":    formatAddress(e.Owner),
			"receiver": formatAddress(e.Receiver),
			"resource": e.Resource.String(),
			"amount":   intToString(e.Amount),
		},
	}
}
