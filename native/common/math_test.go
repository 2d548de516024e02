package common

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	coreerrors "mcashchain/core/errors"
)

func TestExactArithmetic(t *testing.T) {
	sum, err := AddExact(math.MaxInt64-1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), sum)

	_, err = AddExact(math.MaxInt64, 1)
	require.True(t, errors.Is(err, coreerrors.ErrLongOverflow))

	_, err = SubExact(math.MinInt64, 1)
	require.True(t, errors.Is(err, coreerrors.ErrLongOverflow))

	diff, err := SubExact(5, 7)
	require.NoError(t, err)
	require.Equal(t, int64(-2), diff)

	_, err = MulExact(math.MaxInt64/2+1, 2)
	require.True(t, errors.Is(err, coreerrors.ErrLongOverflow))

	_, err = MulExact(-1, math.MinInt64)
	require.True(t, errors.Is(err, coreerrors.ErrLongOverflow))

	prod, err := MulExact(-3, 4)
	require.NoError(t, err)
	require.Equal(t, int64(-12), prod)
}

func TestMulDiv(t *testing.T) {
	cases := []struct {
		a, b, c int64
		want    int64
		wantErr bool
	}{
		{a: 10, b: 3, c: 4, want: 7},
		{a: math.MaxInt64, b: math.MaxInt64, c: math.MaxInt64, want: math.MaxInt64},
		{a: math.MaxInt64, b: 2, c: 1, wantErr: true},
		{a: 1, b: 1, c: 0, wantErr: true},
		{a: -1, b: 1, c: 1, wantErr: true},
	}
	for _, tc := range cases {
		got, err := MulDiv(tc.a, tc.b, tc.c)
		if tc.wantErr {
			require.ErrorIs(t, err, coreerrors.ErrLongOverflow)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}
