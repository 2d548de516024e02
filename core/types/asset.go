package types

import "github.com/ethereum/go-ethereum/common"

// FrozenSupply declares a tranche of issued supply locked for Days days
// starting from the asset's start time.
type FrozenSupply struct {
	Amount int64 `json:"amount"`
	Days   int64 `json:"days"`
}

// AssetIssue describes a token created by an issuing account. The conversion
// ratio is MCashNum base units of native currency for Num token units.
type AssetIssue struct {
	ID                      int64          `json:"id"`
	Owner                   common.Address `json:"owner"`
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
	PublicFreeAssetNetUsage int64          `json:"publicFreeAssetNetUsage"`
	PublicLatestFreeNetTime int64          `json:"publicLatestFreeNetTime"`
	FrozenSupply            []FrozenSupply `json:"frozenSupply,omitempty"`
}

// OnSale reports whether now lies inside the [start, end) participation window.
func (a *AssetIssue) OnSale(now int64) bool {
	return now >= a.StartTime && now < a.EndTime
}
