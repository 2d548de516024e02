package types

// Code is the outcome class of an applied operation.
type Code uint8

const (
	CodeSuccess Code = iota
	CodeValidationFailed
	CodeExecutionFailed
	CodeUnsupported
)

func (c Code) String() string {
	switch c {
	case CodeSuccess:
		return "SUCCESS"
	case CodeValidationFailed:
		return "VALIDATION_FAILED"
	case CodeExecutionFailed:
		return "EXECUTION_FAILED"
	case CodeUnsupported:
		return "UNSUPPORTED"
	default:
		return "UNKNOWN"
	}
}

// Result is the receipt of a single operation. Only the output fields that
// belong to the operation kind are populated.
type Result struct {
	Code    Code   `json:"code"`
	Message string `json:"message,omitempty"`
	Fee     int64  `json:"fee,omitempty"`

	AssetIssueID int64 `json:"assetIssueId,omitempty"`
	ExchangeID   int64 `json:"exchangeId,omitempty"`
	ProposalID   int64 `json:"proposalId,omitempty"`

	ExchangeReceivedAmount        int64 `json:"exchangeReceivedAmount,omitempty"`
	ExchangeInjectAnotherAmount   int64 `json:"exchangeInjectAnotherAmount,omitempty"`
	ExchangeWithdrawAnotherAmount int64 `json:"exchangeWithdrawAnotherAmount,omitempty"`

	UnfreezeAmount int64 `json:"unfreezeAmount,omitempty"`
	WithdrawAmount int64 `json:"withdrawAmount,omitempty"`
}

// Succeeded reports whether the operation was applied.
func (r *Result) Succeeded() bool {
	return r != nil && r.Code == CodeSuccess
}

// AddFee accumulates a burned fee on the receipt.
func (r *Result) AddFee(fee int64) {
	if r != nil {
		r.Fee += fee
	}
}
