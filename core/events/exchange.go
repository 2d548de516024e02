package events

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	TypeExchangeCreated   = "exchange.created"
	TypeExchangeInjected  = "exchange.injected"
	TypeExchangeWithdrawn = "exchange.withdrawn"
	TypeExchangeTraded    = "exchange.traded"
)

// ExchangeLiquidity covers pool creation, injection and withdrawal. Amounts
// are oriented by TokenID.
type ExchangeLiquidity struct {
	Kind         string
	ExchangeID   int64
	Creator      common.Address
	TokenID      int64
	Amount       int64
	OtherTokenID int64
	OtherAmount  int64
}

func (e ExchangeLiquidity) EventType() string { return e.Kind }

func (e ExchangeLiquidity) Event() *types.Event {
	return &types.Event{
		Type: e.Kind,
		Attributes: map[string]string{
			"exchangeId":   intToString(e.ExchangeID),
			"creator":      formatAddress(e.Creator),
			"tokenId":      intToString(e.TokenID),
			"amount":       intToString(e.Amount),
			"otherTokenId": intToString(e.OtherTokenID),
			"otherAmount":  intToString(e.OtherAmount),
		},
	}
}

// ExchangeTraded records a swap against a pool.
type ExchangeTraded struct {
	ExchangeID  int64
	Trader      common.Address
	SoldTokenID int64
	Sold        int64
	BoughtToken int64
	Bought      int64
}

func (ExchangeTraded) EventType() string { return TypeExchangeTraded }

func (e ExchangeTraded) Event() *types.Event {
	return &types.Event{
		Type: TypeExchangeTraded,
		Attributes: map[string]string{
			"exchangeId":    intToString(e.ExchangeID),
			"trader":        formatAddress(e.Trader),
			"soldTokenId":   intToString(e.SoldTokenID),
			"sold":          intToString(e.Sold),
			"boughtTokenId": intToString(e.BoughtToken),
			"bought":        intToString(e.Bought),
		},
	}
}
