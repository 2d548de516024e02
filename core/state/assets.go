package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"mcashchain/core/types"
)

// GetAssetIssue returns the asset with the given id, or nil when unknown.
func (m *Manager) GetAssetIssue(id int64) (*types.AssetIssue, error) {
	rec := new(assetRecord)
	ok, err := m.Get(CollectionAssets, idKey(id), rec)
	if err != nil || !ok {
		return nil, err
	}
	return rec.toAsset(), nil
}

// PutAssetIssue persists the asset and refreshes its legacy name index.
func (m *Manager) PutAssetIssue(asset *types.AssetIssue) error {
	if asset == nil {
		return fmt.Errorf("state: nil asset")
	}
	if asset.ID <= 0 {
		return fmt.Errorf("state: asset id must be positive")
	}
	if err := m.Put(CollectionAssets, idKey(asset.ID), newAssetRecord(asset)); err != nil {
		return err
	}
	if asset.Name == "" {
		return nil
	}
	if _, ok, err := m.AssetIDByName(asset.Name); err != nil {
		return err
	} else if ok {
		// The first asset to claim a name keeps the legacy index entry.
		return nil
	}
	return m.Put(CollectionAssetNames, []byte(asset.Name), uint64(asset.ID))
}

// AssetIDByName translates a legacy asset name into its numeric id.
func (m *Manager) AssetIDByName(name string) (int64, bool, error) {
	var id uint64
	ok, err := m.Get(CollectionAssetNames, []byte(name), &id)
	if err != nil || !ok {
		return 0, false, err
	}
	return int64(id), true, nil
}

// ForEachAssetIssue visits every asset in id order.
func (m *Manager) ForEachAssetIssue(fn func(*types.AssetIssue) error) error {
	return m.Iterate(CollectionAssets, func(_, value []byte) error {
		rec := new(assetRecord)
		if err := rlp.DecodeBytes(value, rec); err != nil {
			return fmt.Errorf("state: decode asset: %w", err)
		}
		return fn(rec.toAsset())
	})
}
