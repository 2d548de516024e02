package common

import (
	"strconv"

	"mcashchain/core/types"
)

// AssetReader resolves asset records.
type AssetReader interface {
	GetAssetIssue(id int64) (*types.AssetIssue, error)
	AssetIDByName(name string) (int64, bool, error)
}

// ResolveAsset looks up the asset a payload refers to. While legacy name
// addressing is active the key is an asset name, otherwise a decimal id. A
// nil asset with a nil error means the key names no asset.
func ResolveAsset(r AssetReader, params *types.ChainParams, key string) (*types.AssetIssue, error) {
	if key == "" {
		return nil, nil
	}
	var id int64
	if params.LegacyAssetNames() {
		resolved, ok, err := r.AssetIDByName(key)
		if err != nil || !ok {
			return nil, err
		}
		id = resolved
	} else {
		parsed, err := strconv.ParseInt(key, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, nil
		}
		id = parsed
	}
	return r.GetAssetIssue(id)
}
