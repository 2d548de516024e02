package events

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	// TypeTransfer is emitted for native currency and asset movements between
	// accounts.
	TypeTransfer = "ledger.transfer"
	// TypeFeeBurned is emitted when an operation fee is sent to the blackhole.
	TypeFeeBurned = "ledger.fee_burned"
	// TypeAccountCreated is emitted when an operation materialises an account.
	TypeAccountCreated = "ledger.account_created"
)

// Transfer moves Amount of AssetID (0 for MCASH) from From to To.
type Transfer struct {
	AssetID int64
	From    common.Address
	To      common.Address
	Amount  int64
}

func (Transfer) EventType() string { return TypeTransfer }

func (e Transfer) Event() *types.Event {
	return &types.Event{
		Type: TypeTransfer,
		Attributes: map[string]string{
			"asset":  intToString(e.AssetID),
			"from":   formatAddress(e.From),
			"to":     formatAddress(e.To),
			"amount": intToString(e.Amount),
		},
	}
}

// FeeBurned records a fee debited from Payer.
type FeeBurned struct {
	Payer  common.Address
	Amount int64
}

func (FeeBurned) EventType() string { return TypeFeeBurned }

func (e FeeBurned) Event() *types.Event {
	return &types.Event{
		Type: TypeFeeBurned,
		Attributes: map[string]string{
			"payer":  formatAddress(e.Payer),
			"amount": intToString(e.Amount),
		},
	}
}

// AccountCreated records a newly materialised account.
type AccountCreated struct {
	Address common.Address
	Creator common.Address
}

func (AccountCreated) EventType() string { return TypeAccountCreated }

func (e AccountCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeAccountCreated,
		Attributes: map[string]string{
			"address": formatAddress(e.Address),
			"creator": formatAddress(e.Creator),
		},
	}
}
