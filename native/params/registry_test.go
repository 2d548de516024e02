package params

import (
	"testing"

	"github.com/stretchr/testify/require"

	coreerrors "mcashchain/core/errors"
	"mcashchain/core/state"
	"mcashchain/core/types"
	"mcashchain/storage"
)

func TestRegistryIsDense(t *testing.T) {
	all := All()
	require.Len(t, all, 19)
	for i, p := range all {
		require.Equal(t, int64(i), p.ID)
		require.NotEmpty(t, p.Name)
	}
}

func TestValidateMessages(t *testing.T) {
	err := Validate(99, 1)
	require.True(t, coreerrors.IsValidation(err))
	require.Equal(t, "Bad chain parameter id [99]", err.Error())

	err = Validate(AllowSameTokenName, 2)
	require.Equal(t, "This value[ALLOW_SAME_TOKEN_NAME] is only allowed to be 1", err.Error())
	require.NoError(t, Validate(AllowSameTokenName, 1))

	err = Validate(MaintenanceTimeInterval, 1)
	require.Equal(t, "Bad chain parameter value, valid range is [81000,86400000]", err.Error())
	require.NoError(t, Validate(MaintenanceTimeInterval, 81_000))
}

func TestApply(t *testing.T) {
	cp := types.DefaultChainParams(0)
	require.NoError(t, Apply(&cp, map[int64]int64{
		ExchangeCreateFee:  5,
		AllowSameTokenName: 1,
	}))
	require.Equal(t, int64(5), cp.ExchangeCreateFee)
	p, ok := Lookup(ExchangeCreateFee)
	require.True(t, ok)
	require.Equal(t, int64(5), p.Get(&cp))

	require.Error(t, Apply(&cp, map[int64]int64{42: 1}))
}

func TestStoreLoadSave(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	store := NewStore(state.NewManager(db))

	_, err := store.Load()
	require.Error(t, err)

	cp := types.DefaultChainParams(10)
	require.NoError(t, store.Save(&cp))
	loaded, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, cp, *loaded)
}
