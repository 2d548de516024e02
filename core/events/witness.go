package events

import (
	"github.com/ethereum/go-ethereum/common"

	"mcashchain/core/types"
)

const (
	TypeWitnessCreated  = "witness.created"
	TypeWitnessUpdated  = "witness.updated"
	TypeWitnessResigned = "witness.resigned"
	TypeVoteCast        = "witness.vote"
)

// WitnessChanged covers creation, url updates and resignation.
type WitnessChanged struct {
	Kind    string
	Witness common.Address
	Owner   common.Address
	URL     string
}

func (e WitnessChanged) EventType() string { return e.Kind }

func (e WitnessChanged) Event() *types.Event {
	attrs := map[string]string{
		"witness": formatAddress(e.Witness),
		"owner":   formatAddress(e.Owner),
	}
	if e.URL != "" {
		attrs["url"] = e.URL
	}
	return &types.Event{Type: e.Kind, Attributes: attrs}
}

// VoteCast records a voter moving its weight to Witness.
type VoteCast struct {
	Voter    common.Address
	Witness  common.Address
	Previous common.Address
	Count    int64
}

func (VoteCast) EventType() string { return TypeVoteCast }

func (e VoteCast) Event() *types.Event {
	attrs := map[string]string{
		"voter":   formatAddress(e.Voter),
		"witness": formatAddress(e.Witness),
		"count":   intToString(e.Count),
	}
	if e.Previous != (common.Address{}) {
		attrs["previous"] = formatAddress(e.Previous)
	}
	return &types.Event{Type: TypeVoteCast, Attributes: attrs}
}
