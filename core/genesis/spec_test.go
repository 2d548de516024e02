package genesis

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"mcashchain/core/state"
	"mcashchain/core/types"
	"mcashchain/crypto"
	"mcashchain/storage"
)

var (
	founder = common.HexToAddress("0x0000000000000000000000000000000000000f01")
	member  = common.HexToAddress("0x0000000000000000000000000000000000000f02")
)

func bech(addr common.Address) string { return crypto.FromCommon(addr).String() }

func writeSpec(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func yamlSpec() string {
	return fmt.Sprintf(`genesisTime: "2024-01-01T00:00:00Z"
alloc:
  %[1]s: 5000000000000
  %[2]s: 100000000
committee:
  - %[1]s
  - %[2]s
witnesses:
  - address: %[1]s
    url: https://witness.example
    voteCount: 10
assets:
  - owner: %[2]s
    name: gold
    abbr: GLD
    totalSupply: 1000000
    mcashNum: 1
    num: 10
    startTime: 1704067200000
    endTime: 1735689600000
    url: https://gold.example
params:
  CREATE_ACCOUNT_FEE: 42
  MAINTENANCE_TIME_INTERVAL: 3600000
`, bech(founder), bech(member))
}

func TestLoadYAMLAndBuildGenesis(t *testing.T) {
	spec, err := LoadGenesisSpec(writeSpec(t, "genesis.yaml", yamlSpec()))
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), spec.GenesisTimestamp())

	db := storage.NewMemDB()
	defer db.Close()
	res, err := BuildGenesisFromSpec(spec, db)
	require.NoError(t, err)
	require.Equal(t, uint64(0), res.Header.Height)
	require.NotEqual(t, common.Hash{}, res.Digest)

	mgr := state.NewManager(db)
	cp, ok, err := mgr.ChainParams()
	require.NoError(t, err)
	require.True(t, ok)
	genesisMs := spec.GenesisTimestamp().UnixMilli()
	require.Equal(t, int64(42), cp.CreateAccountFee)
	require.Equal(t, genesisMs+3_600_000, cp.NextMaintenanceTime)
	require.Equal(t, int64(1_000_001), cp.LatestTokenID)

	acc, err := mgr.GetAccount(founder)
	require.NoError(t, err)
	require.Equal(t, int64(5_000_000_000_000), acc.Balance)
	require.True(t, acc.IsCommittee)
	require.Equal(t, founder, acc.Witness)

	w, err := mgr.GetWitness(founder)
	require.NoError(t, err)
	require.Equal(t, int64(10), w.VoteCount)
	require.Equal(t, types.WitnessActive, w.Status)

	issuer, err := mgr.GetAccount(member)
	require.NoError(t, err)
	require.Equal(t, int64(1_000_001), issuer.IssuedAssetID)
	require.Equal(t, int64(1_000_000), issuer.AssetBalance(1_000_001))
	id, ok, err := mgr.AssetIDByName("gold")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1_000_001), id)

	blackhole, err := mgr.GetAccount(cp.Blackhole)
	require.NoError(t, err)
	require.NotNil(t, blackhole)

	_, err = BuildGenesisFromSpec(spec, db)
	require.ErrorContains(t, err, "already applied")
}

func TestGenesisIsDeterministic(t *testing.T) {
	path := writeSpec(t, "genesis.yml", yamlSpec())
	digests := make([]common.Hash, 2)
	for i := range digests {
		spec, err := LoadGenesisSpec(path)
		require.NoError(t, err)
		db := storage.NewMemDB()
		res, err := BuildGenesisFromSpec(spec, db)
		require.NoError(t, err)
		digests[i] = res.Digest
		db.Close()
	}
	require.Equal(t, digests[0], digests[1])
}

func TestLoadJSONSpec(t *testing.T) {
	body := fmt.Sprintf(`{"genesisTime":"2024-06-01T00:00:00Z","alloc":{"%s":7}}`, founder.Hex())
	spec, err := LoadGenesisSpec(writeSpec(t, "genesis.json", body))
	require.NoError(t, err)
	require.Equal(t, int64(7), spec.Alloc[founder.Hex()])
}

func TestLoadRejectsInvalidSpecs(t *testing.T) {
	cases := map[string]string{
		"unknown field":   "genesisTime: \"2024-01-01T00:00:00Z\"\nchainId: 4\n",
		"missing time":    "alloc: {}\n",
		"bad address":     "genesisTime: \"2024-01-01T00:00:00Z\"\nalloc:\n  xyz1qqqq: 1\n",
		"unknown param":   "genesisTime: \"2024-01-01T00:00:00Z\"\nparams:\n  NOT_A_PARAM: 1\n",
		"param range":     "genesisTime: \"2024-01-01T00:00:00Z\"\nparams:\n  MIN_FROZEN_TIME: 0\n",
		"switch value":    "genesisTime: \"2024-01-01T00:00:00Z\"\nparams:\n  ALLOW_SAME_TOKEN_NAME: 2\n",
		"negative alloc":  fmt.Sprintf("genesisTime: \"2024-01-01T00:00:00Z\"\nalloc:\n  %s: -1\n", bech(founder)),
		"reserved asset":  fmt.Sprintf("genesisTime: \"2024-01-01T00:00:00Z\"\nassets:\n  - {owner: %s, name: MCASH, totalSupply: 1, mcashNum: 1, num: 1, startTime: 1, endTime: 2, url: u}\n", bech(founder)),
		"duplicate owner": fmt.Sprintf("genesisTime: \"2024-01-01T00:00:00Z\"\nassets:\n  - {owner: %[1]s, name: a, totalSupply: 1, mcashNum: 1, num: 1, startTime: 1, endTime: 2, url: u}\n  - {owner: %[1]s, name: b, totalSupply: 1, mcashNum: 1, num: 1, startTime: 1, endTime: 2, url: u}\n", bech(founder)),
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadGenesisSpec(writeSpec(t, "genesis.yaml", body))
			require.Error(t, err)
		})
	}
}
