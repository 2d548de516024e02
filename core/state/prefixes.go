package state

import "encoding/binary"

// Collection names a typed entity family. Every record key is the collection
// prefix followed by the entity key.
type Collection string

const (
	CollectionAccounts           Collection = "account"
	CollectionAccountIDs         Collection = "account-id"
	CollectionAssets             Collection = "asset"
	CollectionAssetNames         Collection = "asset-name"
	CollectionExchanges          Collection = "exchange"
	CollectionDelegatedResources Collection = "delegated"
	CollectionDelegatedIndex     Collection = "delegated-index"
	CollectionProposals          Collection = "proposal"
	CollectionWitnesses          Collection = "witness"
	CollectionStakeAccounts      Collection = "stake"
	CollectionParams             Collection = "params"
)

func (c Collection) prefix() []byte {
	return []byte(string(c) + "/")
}

func (c Collection) key(k []byte) []byte {
	p := c.prefix()
	buf := make([]byte, len(p)+len(k))
	copy(buf, p)
	copy(buf[len(p):], k)
	return buf
}

var chainParamsKey = []byte("chain")

// idKey encodes a sequential id as 8 big-endian bytes so ids iterate in order.
func idKey(id int64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return buf[:]
}

func decodeIDKey(k []byte) int64 {
	if len(k) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(k))
}

func delegatedKey(from, to []byte) []byte {
	buf := make([]byte, len(from)+len(to))
	copy(buf, from)
	copy(buf[len(from):], to)
	return buf
}
