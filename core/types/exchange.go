package types

import "github.com/ethereum/go-ethereum/common"

// NativeTokenID identifies the native currency in the exchange token space.
const NativeTokenID int64 = 0

// Exchange is a two-sided liquidity pool owned by its creator. Both balances
// are zero (closed) or both positive.
type Exchange struct {
	ID                 int64          `json:"id"`
	Creator            common.Address `json:"creator"`
	CreateTime         int64          `json:"createTime"`
	FirstTokenID       int64          `json:"firstTokenId"`
	FirstTokenBalance  int64          `json:"firstTokenBalance"`
	SecondTokenID      int64          `json:"secondTokenId"`
	SecondTokenBalance int64          `json:"secondTokenBalance"`
}

// Closed reports whether either reserve has been drained.
func (e *Exchange) Closed() bool {
	return e.FirstTokenBalance == 0 || e.SecondTokenBalance == 0
}

// HasToken reports whether tokenID is one side of the pair.
func (e *Exchange) HasToken(tokenID int64) bool {
	return tokenID == e.FirstTokenID || tokenID == e.SecondTokenID
}

// Reserves returns (reserve of tokenID, reserve of the other side, other id).
func (e *Exchange) Reserves(tokenID int64) (this, other, otherID int64) {
	if tokenID == e.FirstTokenID {
		return e.FirstTokenBalance, e.SecondTokenBalance, e.SecondTokenID
	}
	return e.SecondTokenBalance, e.FirstTokenBalance, e.FirstTokenID
}

// SetReserves stores the new reserves oriented by tokenID.
func (e *Exchange) SetReserves(tokenID, this, other int64) {
	if tokenID == e.FirstTokenID {
		e.FirstTokenBalance, e.SecondTokenBalance = this, other
		return
	}
	e.SecondTokenBalance, e.FirstTokenBalance = this, other
}
