package genesis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"mcashchain/crypto"
	nativecommon "mcashchain/native/common"
	"mcashchain/native/params"
)

// GenesisSpec is the initial ledger declared by operators. Addresses accept
// either the mcash bech32 form or 0x hex.
type GenesisSpec struct {
	GenesisTime string           `json:"genesisTime" yaml:"genesisTime"`
	Blackhole   string           `json:"blackhole,omitempty" yaml:"blackhole,omitempty"`
	Alloc       map[string]int64 `json:"alloc" yaml:"alloc"`
	Committee   []string         `json:"committee,omitempty" yaml:"committee,omitempty"`
	Witnesses   []WitnessSpec    `json:"witnesses,omitempty" yaml:"witnesses,omitempty"`
	Assets      []AssetSpec      `json:"assets,omitempty" yaml:"assets,omitempty"`
	// Params overrides default chain parameters by canonical name.
	Params map[string]int64 `json:"params,omitempty" yaml:"params,omitempty"`

	genesisTimestamp time.Time
}

type WitnessSpec struct {
	Address   string `json:"address" yaml:"address"`
	URL       string `json:"url" yaml:"url"`
	VoteCount int64  `json:"voteCount,omitempty" yaml:"voteCount,omitempty"`
}

type AssetSpec struct {
	Owner       string `json:"owner" yaml:"owner"`
	Name        string `json:"name" yaml:"name"`
	Abbr        string `json:"abbr,omitempty" yaml:"abbr,omitempty"`
	TotalSupply int64  `json:"totalSupply" yaml:"totalSupply"`
	MCashNum    int64  `json:"mcashNum" yaml:"mcashNum"`
	Num         int64  `json:"num" yaml:"num"`
	Precision   int32  `json:"precision,omitempty" yaml:"precision,omitempty"`
	// StartTime and EndTime are unix milliseconds.
	StartTime   int64  `json:"startTime" yaml:"startTime"`
	EndTime     int64  `json:"endTime" yaml:"endTime"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	URL         string `json:"url" yaml:"url"`
}

// LoadGenesisSpec reads a genesis file. Files ending in .yaml or .yml are
// decoded as YAML, everything else as JSON. Unknown fields are rejected.
func LoadGenesisSpec(path string) (*GenesisSpec, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("genesis spec path must be provided")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read genesis spec %q: %w", path, err)
	}
	var spec GenesisSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		err = dec.Decode(&spec)
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		err = dec.Decode(&spec)
	}
	if err != nil {
		return nil, fmt.Errorf("decode genesis spec %q: %w", path, err)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid genesis spec %q: %w", path, err)
	}
	return &spec, nil
}

// GenesisTimestamp is the parsed genesis time. It is zero until Validate
// succeeds.
func (s *GenesisSpec) GenesisTimestamp() time.Time { return s.genesisTimestamp }

// Validate checks the spec for structural errors and caches the parsed
// genesis time.
func (s *GenesisSpec) Validate() error {
	ts, err := parseGenesisTime(s.GenesisTime)
	if err != nil {
		return err
	}
	s.genesisTimestamp = ts

	if strings.TrimSpace(s.Blackhole) != "" {
		if _, err := crypto.ParseAddress(s.Blackhole); err != nil {
			return fmt.Errorf("blackhole: %w", err)
		}
	}

	for _, addr := range sortedKeys(s.Alloc) {
		if _, err := crypto.ParseAddress(addr); err != nil {
			return fmt.Errorf("alloc[%q]: %w", addr, err)
		}
		if s.Alloc[addr] < 0 {
			return fmt.Errorf("alloc[%q]: balance must not be negative", addr)
		}
	}

	seen := make(map[common.Address]struct{}, len(s.Committee))
	for i, member := range s.Committee {
		addr, err := crypto.ParseAddress(member)
		if err != nil {
			return fmt.Errorf("committee[%d]: %w", i, err)
		}
		if _, dup := seen[addr]; dup {
			return fmt.Errorf("committee[%d]: duplicate member %q", i, member)
		}
		seen[addr] = struct{}{}
	}

	witnesses := make(map[common.Address]struct{}, len(s.Witnesses))
	for i, w := range s.Witnesses {
		addr, err := crypto.ParseAddress(w.Address)
		if err != nil {
			return fmt.Errorf("witness[%d]: %w", i, err)
		}
		if _, dup := witnesses[addr]; dup {
			return fmt.Errorf("witness[%d]: duplicate address %q", i, w.Address)
		}
		witnesses[addr] = struct{}{}
		if !nativecommon.ValidURL(w.URL) {
			return fmt.Errorf("witness[%d]: invalid url", i)
		}
		if w.VoteCount < 0 {
			return fmt.Errorf("witness[%d]: vote count must not be negative", i)
		}
	}

	names := make(map[string]struct{}, len(s.Assets))
	issuers := make(map[common.Address]struct{}, len(s.Assets))
	for i := range s.Assets {
		if err := s.Assets[i].validate(); err != nil {
			return fmt.Errorf("asset[%d]: %w", i, err)
		}
		if _, dup := names[s.Assets[i].Name]; dup {
			return fmt.Errorf("asset[%d]: duplicate name %q", i, s.Assets[i].Name)
		}
		names[s.Assets[i].Name] = struct{}{}
		owner, _ := crypto.ParseAddress(s.Assets[i].Owner)
		if _, dup := issuers[owner]; dup {
			return fmt.Errorf("asset[%d]: owner already issues an asset", i)
		}
		issuers[owner] = struct{}{}
	}

	for _, name := range sortedKeys(s.Params) {
		p, ok := params.LookupName(name)
		if !ok {
			return fmt.Errorf("params[%q]: unknown parameter", name)
		}
		value := s.Params[name]
		if p.OnlyOne {
			if value != 0 && value != 1 {
				return fmt.Errorf("params[%q]: switch must be 0 or 1", name)
			}
			continue
		}
		if err := params.Validate(p.ID, value); err != nil {
			return fmt.Errorf("params[%q]: %w", name, err)
		}
	}
	return nil
}

func (a *AssetSpec) validate() error {
	if _, err := crypto.ParseAddress(a.Owner); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	if !nativecommon.ValidAssetName(a.Name) || strings.EqualFold(a.Name, "mcash") {
		return fmt.Errorf("invalid name %q", a.Name)
	}
	if a.Abbr != "" && !nativecommon.ValidAbbr(a.Abbr) {
		return fmt.Errorf("invalid abbr %q", a.Abbr)
	}
	if !nativecommon.ValidURL(a.URL) {
		return fmt.Errorf("invalid url")
	}
	if !nativecommon.ValidDescription(a.Description) {
		return fmt.Errorf("invalid description")
	}
	if a.TotalSupply <= 0 || a.MCashNum <= 0 || a.Num <= 0 {
		return fmt.Errorf("totalSupply, mcashNum and num must be positive")
	}
	if a.Precision < 0 || a.Precision > 8 {
		return fmt.Errorf("precision must lie in [0,8]")
	}
	if a.EndTime <= a.StartTime {
		return fmt.Errorf("end time must be after start time")
	}
	return nil
}

func parseGenesisTime(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("genesisTime must be provided")
	}
	ts, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid genesisTime %q: %w", raw, err)
	}
	return ts.UTC(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
