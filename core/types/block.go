package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// BlockHeader carries the execution context shared by every operation in a
// block.
type BlockHeader struct {
	Height    uint64         `json:"height"`
	Timestamp int64          `json:"timestamp"`
	Witness   common.Address `json:"witness"`
}

// Block is an ordered list of operations applied against one ledger snapshot.
type Block struct {
	Header     *BlockHeader `json:"header"`
	Operations []*Operation `json:"operations"`
}

// NewBlock creates a block from a header and a set of operations.
func NewBlock(header *BlockHeader, ops []*Operation) *Block {
	return &Block{
		Header:     header,
		Operations: ops,
	}
}

// Hash returns the keccak256 hash of the JSON encoded header.
func (h *BlockHeader) Hash() (common.Hash, error) {
	b, err := json.Marshal(h)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(b), nil
}
