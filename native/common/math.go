package common

import (
	"math"

	"github.com/holiman/uint256"

	coreerrors "mcashchain/core/errors"
)

// AddExact returns a+b or ErrLongOverflow when the sum leaves the int64 range.
func AddExact(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, coreerrors.ErrLongOverflow
	}
	return a + b, nil
}

// SubExact returns a-b or ErrLongOverflow.
func SubExact(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, coreerrors.ErrLongOverflow
	}
	return a - b, nil
}

// MulExact returns a*b or ErrLongOverflow.
func MulExact(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, coreerrors.ErrLongOverflow
	}
	return r, nil
}

// MulDiv returns floor(a*b/c) for non-negative operands. The product is
// computed in 256 bits so only the quotient has to fit an int64.
func MulDiv(a, b, c int64) (int64, error) {
	if a < 0 || b < 0 || c <= 0 {
		return 0, coreerrors.ErrLongOverflow
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(uint64(a)), uint256.NewInt(uint64(b)))
	q := prod.Div(prod, uint256.NewInt(uint64(c)))
	if !q.IsUint64() || q.Uint64() > math.MaxInt64 {
		return 0, coreerrors.ErrLongOverflow
	}
	return int64(q.Uint64()), nil
}
