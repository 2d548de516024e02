package exchange

import (
	"github.com/holiman/uint256"

	nativecommon "mcashchain/native/common"
)

// precisionDenominator bounds the truncation a withdrawal may discard to
// 1/10000 of the counter amount.
const precisionDenominator = 10_000

// Quote returns the output of selling delta into reserves (in, out):
// floor(out*delta/(in+delta)).
func Quote(in, out, delta int64) (int64, error) {
	sum, err := nativecommon.AddExact(in, delta)
	if err != nil {
		return 0, err
	}
	return nativecommon.MulDiv(out, delta, sum)
}

// Proportional returns floor(other*quant/this), the counter amount that keeps
// the pool ratio when quant of the first side moves.
func Proportional(this, other, quant int64) (int64, error) {
	return nativecommon.MulDiv(other, quant, this)
}

// precise reports whether floor(other*quant/this) is positive and drops at
// most 1/10000 of itself to truncation.
func precise(this, other, quant int64) bool {
	if this <= 0 || other < 0 || quant < 0 {
		return false
	}
	var q, r uint256.Int
	prod := new(uint256.Int).Mul(uint256.NewInt(uint64(other)), uint256.NewInt(uint64(quant)))
	q.DivMod(prod, uint256.NewInt(uint64(this)), &r)
	if q.IsZero() {
		return false
	}
	lhs := new(uint256.Int).Mul(&r, uint256.NewInt(precisionDenominator))
	rhs := new(uint256.Int).Mul(uint256.NewInt(uint64(this)), &q)
	return !lhs.Gt(rhs)
}
