package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"mcashchain/core/types"
	"mcashchain/crypto"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

const genesisMillis int64 = 1_704_067_200_000

func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := `DataDir = "data"
GenesisFile = "genesis.yaml"
KeystoreDir = "keys"

[log]
Level = "error"
`
	genesis := fmt.Sprintf(`genesisTime: "2024-01-01T00:00:00Z"
alloc:
  %s: 5000000000
`, crypto.FromCommon(alice).String())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "genesis.yaml"), []byte(genesis), 0o644))
	return dir
}

func run(t *testing.T, dir string, args ...string) []byte {
	t.Helper()
	out, err := runErr(dir, args...)
	require.NoError(t, err)
	return out
}

func runErr(dir string, args ...string) ([]byte, error) {
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := cmd.Execute()
	return stdout.Bytes(), err
}

func writeBlock(t *testing.T, dir, name string, height uint64, ts int64, ops string) string {
	t.Helper()
	body := fmt.Sprintf(`{"header":{"height":%d,"timestamp":%d},"operations":%s}`, height, ts, ops)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestInitApplyAndQuery(t *testing.T) {
	dir := setupWorkspace(t)

	var initOut map[string]interface{}
	require.NoError(t, json.Unmarshal(run(t, dir, "init"), &initOut))
	require.NotEmpty(t, initOut["digest"])

	_, err := runErr(dir, "init")
	require.ErrorContains(t, err, "genesis already applied")

	ops := fmt.Sprintf(`[
		{"type":"Transfer","owner":"%[1]s","payload":{"to":"%[2]s","amount":1000000}},
		{"type":"Transfer","owner":"%[1]s","payload":{"to":"%[1]s","amount":1}}
	]`, alice.Hex(), bob.Hex())
	block := writeBlock(t, dir, "block1.json", 1, genesisMillis+3_000, ops)

	var applied blockOutput
	require.NoError(t, json.Unmarshal(run(t, dir, "apply", block), &applied))
	require.Equal(t, uint64(1), applied.Height)
	require.Len(t, applied.Results, 2)
	require.Equal(t, types.CodeSuccess, applied.Results[0].Code)
	require.Equal(t, types.CodeValidationFailed, applied.Results[1].Code)
	require.Equal(t, "Cannot transfer mcash to yourself.", applied.Results[1].Message)
	require.NotEmpty(t, applied.Events)

	var account accountOutput
	require.NoError(t, json.Unmarshal(run(t, dir, "account", crypto.FromCommon(bob).String()), &account))
	require.Equal(t, int64(1_000_000), account.Account.Balance)
	require.Nil(t, account.Witness)

	var paramsOut struct {
		LatestBlockHeaderNumber int64         `json:"latestBlockHeaderNumber"`
		Parameters              []paramOutput `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(run(t, dir, "params"), &paramsOut))
	require.Equal(t, int64(1), paramsOut.LatestBlockHeaderNumber)
	require.NotEmpty(t, paramsOut.Parameters)
	require.Equal(t, "MAINTENANCE_TIME_INTERVAL", paramsOut.Parameters[0].Name)

	var receiptsOut struct {
		Receipts []struct {
			Index int
			Code  string
		} `json:"receipts"`
	}
	require.NoError(t, json.Unmarshal(run(t, dir, "receipts", "1"), &receiptsOut))
	require.Len(t, receiptsOut.Receipts, 2)
	require.Equal(t, "SUCCESS", receiptsOut.Receipts[0].Code)
	require.Equal(t, "VALIDATION_FAILED", receiptsOut.Receipts[1].Code)

	stale := writeBlock(t, dir, "stale.json", 2, genesisMillis, "[]")
	_, err = runErr(dir, "apply", stale)
	require.ErrorContains(t, err, "precedes head")
}

func TestApplyRejectsMalformedBlock(t *testing.T) {
	dir := setupWorkspace(t)
	run(t, dir, "init")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"header":{"height":1},"operations":[{"type":"Teleport"}]}`), 0o644))
	_, err := runErr(dir, "apply", bad)
	require.ErrorContains(t, err, "unknown operation type")

	headless := filepath.Join(dir, "headless.json")
	require.NoError(t, os.WriteFile(headless, []byte(`{"operations":[]}`), 0o644))
	_, err = runErr(dir, "apply", headless)
	require.ErrorContains(t, err, "has no header")
}

func TestKeyNewAndShow(t *testing.T) {
	if testing.Short() {
		t.Skip("scrypt keystore encryption is slow")
	}
	dir := setupWorkspace(t)
	t.Setenv(operatorPassEnv, "correct horse battery staple")

	var created map[string]string
	require.NoError(t, json.Unmarshal(run(t, dir, "key", "new"), &created))
	require.FileExists(t, created["keystore"])
	require.Equal(t, filepath.Join(dir, "keys"), filepath.Dir(created["keystore"]))

	var shown map[string]string
	require.NoError(t, json.Unmarshal(run(t, dir, "key", "show", created["keystore"]), &shown))
	require.Equal(t, created["address"], shown["address"])

	t.Setenv(operatorPassEnv, "wrong")
	_, err := runErr(dir, "key", "show", created["keystore"])
	require.ErrorContains(t, err, "unlock keystore")
}
