package events

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	TypeAssetIssued       = "asset.issued"
	TypeAssetParticipated = "asset.participated"
	TypeAssetUnfrozen     = "asset.unfrozen"
	TypeAssetUpdated      = "asset.updated"
)

// AssetIssued records a new token.
type AssetIssued struct {
	ID          int64
	Owner       common.Address
	Name        string
	TotalSupply int64
}

func (AssetIssued) EventType() string { return TypeAssetIssued }

func (e AssetIssued) Event() *types.Event {
	return &types.Event{
		Type: TypeAssetIssued,
		Attributes: map[string]string{
			"id":          intToString(e.ID),
			"owner":       formatAddress(e.Owner),
			"name":        e.Name,
			"totalSupply": intToString(e.TotalSupply),
		},
	}
}

// AssetParticipated records a crowdsale purchase.
type AssetParticipated struct {
	ID       int64
	Buyer    common.Address
	Issuer   common.Address
	Paid     int64
	Received int64
}

func (AssetParticipated) EventType() string { return TypeAssetParticipated }

func (e AssetParticipated) Event() *types.Event {
	return &types.Event{
		Type: TypeAssetParticipated,
		Attributes: map[string]string{
			"id":       intToString(e.ID),
			"buyer":    formatAddress(e.Buyer),
			"issuer":   formatAddress(e.Issuer),
			"paid":     intToString(e.Paid),
			"received": intToString(e.Received),
		},
	}
}

// AssetUnfrozen records expired supply tranches returned to the issuer.
type AssetUnfrozen struct {
	ID     int64
	Owner  common.Address
	Amount int64
}

func (AssetUnfrozen) EventType() string { return TypeAssetUnfrozen }

func (e AssetUnfrozen) Event() *types.Event {
	return &types.Event{
		Type: TypeAssetUnfrozen,
		Attributes: map[string]string{
			"id":     intToString(e.ID),
			"owner":  formatAddress(e.Owner),
			"amount": intToString(e.Amount),
		},
	}
}

// AssetUpdated records metadata changes by the issuer.
type AssetUpdated struct {
	ID    int64
	Owner common.Address
}

func (AssetUpdated) EventType() string { return TypeAssetUpdated }

func (e AssetUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeAssetUpdated,
		Attributes: map[string]string{
			"id":    intToString(e.ID),
			"owner": formatAddress(e.Owner),
		},
	}
}
