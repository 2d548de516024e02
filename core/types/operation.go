package types

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// OpType identifies the kind of an operation.
type OpType uint8

const (
	OpTransfer OpType = iota + 1
	OpTransferAsset
	OpAccountCreate
	OpAccountUpdate
	OpSetAccountID
	OpFreezeBalance
	OpUnfreezeBalance
	OpStake
	OpUnstake
	OpWithdrawReward
	OpWitnessCreate
	OpWitnessUpdate
	OpWitnessResign
	OpVoteWitness
	OpAssetIssue
	OpParticipateAssetIssue
	OpUnfreezeAsset
	OpUpdateAsset
	OpExchangeCreate
	OpExchangeInject
	OpExchangeWithdraw
	OpExchangeTransaction
	OpProposalCreate
	OpProposalApprove
	OpProposalDelete
)

var opNames = map[OpType]string{
	OpTransfer:              "Transfer",
	OpTransferAsset:         "TransferAsset",
	OpAccountCreate:         "AccountCreate",
	OpAccountUpdate:         "AccountUpdate",
	OpSetAccountID:          "SetAccountID",
	OpFreezeBalance:         "FreezeBalance",
	OpUnfreezeBalance:       "UnfreezeBalance",
	OpStake:                 "Stake",
	OpUnstake:               "Unstake",
	OpWithdrawReward:        "WithdrawReward",
	OpWitnessCreate:         "WitnessCreate",
	OpWitnessUpdate:         "WitnessUpdate",
	OpWitnessResign:         "WitnessResign",
	OpVoteWitness:           "VoteWitness",
	OpAssetIssue:            "AssetIssue",
	OpParticipateAssetIssue: "ParticipateAssetIssue",
	OpUnfreezeAsset:         "UnfreezeAsset",
	OpUpdateAsset:           "UpdateAsset",
	OpExchangeCreate:        "ExchangeCreate",
	OpExchangeInject:        "ExchangeInject",
	OpExchangeWithdraw:      "ExchangeWithdraw",
	OpExchangeTransaction:   "ExchangeTransaction",
	OpProposalCreate:        "ProposalCreate",
	OpProposalApprove:       "ProposalApprove",
	OpProposalDelete:        "ProposalDelete",
}

func (t OpType) String() string {
	if name, ok := opNames[t]; ok {
		return name
	}
	return fmt.Sprintf("OpType(%d)", uint8(t))
}

// ParseOpType resolves an operation name.
func ParseOpType(name string) (OpType, error) {
	for t, n := range opNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown operation type %q", name)
}

// Payload is the closed set of operation bodies. Only types declared in this
// package implement it.
type Payload interface {
	OpType() OpType
	isPayload()
}

// Operation is one signature-verified intent: the caller plus its payload.
type Operation struct {
	Owner   hexutil.Bytes
	Payload Payload
}

type TransferPayload struct {
	To     hexutil.Bytes `json:"to"`
	Amount int64         `json:"amount"`
}

type TransferAssetPayload struct {
	// AssetKey is the numeric asset id, or the asset name while legacy
	// name addressing is active.
	AssetKey string        `json:"asset"`
	To       hexutil.Bytes `json:"to"`
	Amount   int64         `json:"amount"`
}

type AccountCreatePayload struct {
	Account hexutil.Bytes `json:"account"`
	Type    AccountType   `json:"type"`
}

type AccountUpdatePayload struct {
	Name string `json:"name"`
}

type SetAccountIDPayload struct {
	AccountID string `json:"accountId"`
}

// FreezeBalancePayload freezes for the owner, or for Receiver when set.
type FreezeBalancePayload struct {
	Amount   int64         `json:"amount"`
	Duration int64         `json:"duration"`
	Resource ResourceCode  `json:"resource"`
	Receiver hexutil.Bytes `json:"receiver,omitempty"`
}

type UnfreezeBalancePayload struct {
	Resource ResourceCode  `json:"resource"`
	Receiver hexutil.Bytes `json:"receiver,omitempty"`
}

type StakePayload struct {
	Amount int64 `json:"amount"`
}

type UnstakePayload struct{}

type WithdrawRewardPayload struct{}

type WitnessCreatePayload struct {
	Witness hexutil.Bytes `json:"witness"`
	URL     string        `json:"url"`
}

type WitnessUpdatePayload struct {
	Witness hexutil.Bytes `json:"witness"`
	URL     string        `json:"url"`
}

type WitnessResignPayload struct {
	Witness hexutil.Bytes `json:"witness"`
}

type VoteWitnessPayload struct {
	Witness hexutil.Bytes `json:"witness"`
	Count   int64         `json:"count"`
}

type AssetIssuePayload struct {
	Name                    string         `json:"name"`
	Abbr                    string         `json:"abbr"`
	TotalSupply             int64          `json:"totalSupply"`
	MCashNum                int64          `json:"mcashNum"`
	Num                     int64          `json:"num"`
	Precision               int32          `json:"precision"`
	StartTime               int64          `json:"startTime"`
	EndTime                 int64          `json:"endTime"`
	Description             string         `json:"description"`
	URL                     string         `json:"url"`
	FreeAssetNetLimit       int64          `json:"freeAssetNetLimit"`
	PublicFreeAssetNetLimit int64          `json:"publicFreeAssetNetLimit"`
	FrozenSupply            []FrozenSupply `json:"frozenSupply,omitempty"`
}

type ParticipateAssetIssuePayload struct {
	To       hexutil.Bytes `json:"to"`
	AssetKey string        `json:"asset"`
	Amount   int64         `json:"amount"`
}

type UnfreezeAssetPayload struct{}

type UpdateAssetPayload struct {
	Description    string `json:"description"`
	URL            string `json:"url"`
	NewLimit       int64  `json:"newLimit"`
	NewPublicLimit int64  `json:"newPublicLimit"`
}

type ExchangeCreatePayload struct {
	FirstTokenID       int64 `json:"firstTokenId"`
	FirstTokenBalance  int64 `json:"firstTokenBalance"`
	SecondTokenID      int64 `json:"secondTokenId"`
	SecondTokenBalance int64 `json:"secondTokenBalance"`
}

type ExchangeInjectPayload struct {
	ExchangeID int64 `json:"exchangeId"`
	TokenID    int64 `json:"tokenId"`
	Quant      int64 `json:"quant"`
}

type ExchangeWithdrawPayload struct {
	ExchangeID int64 `json:"exchangeId"`
	TokenID    int64 `json:"tokenId"`
	Quant      int64 `json:"quant"`
}

type ExchangeTransactionPayload struct {
	ExchangeID int64 `json:"exchangeId"`
	TokenID    int64 `json:"tokenId"`
	Quant      int64 `json:"quant"`
	Expected   int64 `json:"expected"`
}

type ProposalCreatePayload struct {
	Parameters map[int64]int64 `json:"parameters"`
}

type ProposalApprovePayload struct {
	ProposalID int64 `json:"proposalId"`
	Approve    bool  `json:"approve"`
}

type ProposalDeletePayload struct {
	ProposalID int64 `json:"proposalId"`
}

func (*TransferPayload) OpType() OpType              { return OpTransfer }
func (*TransferAssetPayload) OpType() OpType         { return OpTransferAsset }
func (*AccountCreatePayload) OpType() OpType         { return OpAccountCreate }
func (*AccountUpdatePayload) OpType() OpType         { return OpAccountUpdate }
func (*SetAccountIDPayload) OpType() OpType          { return OpSetAccountID }
func (*FreezeBalancePayload) OpType() OpType         { return OpFreezeBalance }
func (*UnfreezeBalancePayload) OpType() OpType       { return OpUnfreezeBalance }
func (*StakePayload) OpType() OpType                 { return OpStake }
func (*UnstakePayload) OpType() OpType               { return OpUnstake }
func (*WithdrawRewardPayload) OpType() OpType        { return OpWithdrawReward }
func (*WitnessCreatePayload) OpType() OpType         { return OpWitnessCreate }
func (*WitnessUpdatePayload) OpType() OpType         { return OpWitnessUpdate }
func (*WitnessResignPayload) OpType() OpType         { return OpWitnessResign }
func (*VoteWitnessPayload) OpType() OpType           { return OpVoteWitness }
func (*AssetIssuePayload) OpType() OpType            { return OpAssetIssue }
func (*ParticipateAssetIssuePayload) OpType() OpType { return OpParticipateAssetIssue }
func (*UnfreezeAssetPayload) OpType() OpType         { return OpUnfreezeAsset }
func (*UpdateAssetPayload) OpType() OpType           { return OpUpdateAsset }
func (*ExchangeCreatePayload) OpType() OpType        { return OpExchangeCreate }
func (*ExchangeInjectPayload) OpType() OpType        { return OpExchangeInject }
func (*ExchangeWithdrawPayload) OpType() OpType      { return OpExchangeWithdraw }
func (*ExchangeTransactionPayload) OpType() OpType   { return OpExchangeTransaction }
func (*ProposalCreatePayload) OpType() OpType        { return OpProposalCreate }
func (*ProposalApprovePayload) OpType() OpType       { return OpProposalApprove }
func (*ProposalDeletePayload) OpType() OpType        { return OpProposalDelete }

func (*TransferPayload) isPayload()              {}
func (*TransferAssetPayload) isPayload()         {}
func (*AccountCreatePayload) isPayload()         {}
func (*AccountUpdatePayload) isPayload()         {}
func (*SetAccountIDPayload) isPayload()          {}
func (*FreezeBalancePayload) isPayload()         {}
func (*UnfreezeBalancePayload) isPayload()       {}
func (*StakePayload) isPayload()                 {}
func (*UnstakePayload) isPayload()               {}
func (*WithdrawRewardPayload) isPayload()        {}
func (*WitnessCreatePayload) isPayload()         {}
func (*WitnessUpdatePayload) isPayload()         {}
func (*WitnessResignPayload) isPayload()         {}
func (*VoteWitnessPayload) isPayload()           {}
func (*AssetIssuePayload) isPayload()            {}
func (*ParticipateAssetIssuePayload) isPayload() {}
func (*UnfreezeAssetPayload) isPayload()         {}
func (*UpdateAssetPayload) isPayload()           {}
func (*ExchangeCreatePayload) isPayload()        {}
func (*ExchangeInjectPayload) isPayload()        {}
func (*ExchangeWithdrawPayload) isPayload()      {}
func (*ExchangeTransactionPayload) isPayload()   {}
func (*ProposalCreatePayload) isPayload()        {}
func (*ProposalApprovePayload) isPayload()       {}
func (*ProposalDeletePayload) isPayload()        {}

// NewPayload returns an empty payload for t.
func NewPayload(t OpType) (Payload, error) {
	switch t {
	case OpTransfer:
		return new(TransferPayload), nil
	case OpTransferAsset:
		return new(TransferAssetPayload), nil
	case OpAccountCreate:
		return new(AccountCreatePayload), nil
	case OpAccountUpdate:
		return new(AccountUpdatePayload), nil
	case OpSetAccountID:
		return new(SetAccountIDPayload), nil
	case OpFreezeBalance:
		return new(FreezeBalancePayload), nil
	case OpUnfreezeBalance:
		return new(UnfreezeBalancePayload), nil
	case OpStake:
		return new(StakePayload), nil
	case OpUnstake:
		return new(UnstakePayload), nil
	case OpWithdrawReward:
		return new(WithdrawRewardPayload), nil
	case OpWitnessCreate:
		return new(WitnessCreatePayload), nil
	case OpWitnessUpdate:
		return new(WitnessUpdatePayload), nil
	case OpWitnessResign:
		return new(WitnessResignPayload), nil
	case OpVoteWitness:
		return new(VoteWitnessPayload), nil
	case OpAssetIssue:
		return new(AssetIssuePayload), nil
	case OpParticipateAssetIssue:
		return new(ParticipateAssetIssuePayload), nil
	case OpUnfreezeAsset:
		return new(UnfreezeAssetPayload), nil
	case OpUpdateAsset:
		return new(UpdateAssetPayload), nil
	case OpExchangeCreate:
		return new(ExchangeCreatePayload), nil
	case OpExchangeInject:
		return new(ExchangeInjectPayload), nil
	case OpExchangeWithdraw:
		return new(ExchangeWithdrawPayload), nil
	case OpExchangeTransaction:
		return new(ExchangeTransactionPayload), nil
	case OpProposalCreate:
		return new(ProposalCreatePayload), nil
	case OpProposalApprove:
		return new(ProposalApprovePayload), nil
	case OpProposalDelete:
		return new(ProposalDeletePayload), nil
	}
	return nil, fmt.Errorf("unknown operation type %d", uint8(t))
}

type operationJSON struct {
	Type    string          `json:"type"`
	Owner   hexutil.Bytes   `json:"owner"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// MarshalJSON encodes the operation as {type, owner, payload}.
func (op *Operation) MarshalJSON() ([]byte, error) {
	if op.Payload == nil {
		return nil, fmt.Errorf("operation: missing payload")
	}
	body, err := json.Marshal(op.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(operationJSON{
		Type:    op.Payload.OpType().String(),
		Owner:   op.Owner,
		Payload: body,
	})
}

// UnmarshalJSON decodes the {type, owner, payload} envelope.
func (op *Operation) UnmarshalJSON(data []byte) error {
	var env operationJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	t, err := ParseOpType(env.Type)
	if err != nil {
		return err
	}
	payload, err := NewPayload(t)
	if err != nil {
		return err
	}
	if len(env.Payload) > 0 {
		if err := json.Unmarshal(env.Payload, payload); err != nil {
			return fmt.Errorf("operation %s: %w", t, err)
		}
	}
	op.Owner = env.Owner
	op.Payload = payload
	return nil
}

// Type returns the payload's operation type, zero when unset.
func (op *Operation) Type() OpType {
	if op == nil || op.Payload == nil {
		return 0
	}
	return op.Payload.OpType()
}
