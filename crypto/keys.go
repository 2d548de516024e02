package crypto

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MCashPrefix is the human-readable part of ledger addresses.
const MCashPrefix = "mcash"

// Address is a 20-byte ledger address rendered as bech32.
type Address struct {
	hrp   string
	bytes common.Address
}

// NewAddress wraps raw address bytes under the given prefix.
func NewAddress(hrp string, b []byte) (Address, error) {
	if len(b) != common.AddressLength {
		return Address{}, fmt.Errorf("crypto: address must be %d bytes, got %d", common.AddressLength, len(b))
	}
	return Address{hrp: hrp, bytes: common.BytesToAddress(b)}, nil
}

// MustNewAddress is NewAddress for callers holding a fixed-size address.
func MustNewAddress(hrp string, b []byte) Address {
	addr, err := NewAddress(hrp, b)
	if err != nil {
		panic(err)
	}
	return addr
}

// FromCommon renders a ledger address with the mcash prefix.
func FromCommon(addr common.Address) Address {
	return Address{hrp: MCashPrefix, bytes: addr}
}

func (a Address) String() string {
	conv, err := bech32.ConvertBits(a.bytes.Bytes(), 8, 5, true)
	if err != nil {
		panic(err)
	}
	encoded, err := bech32.Encode(a.hrp, conv)
	if err != nil {
		panic(err)
	}
	return encoded
}

// Common returns the raw address.
func (a Address) Common() common.Address {
	return a.bytes
}

// Prefix returns the human-readable prefix associated with the address.
func (a Address) Prefix() string {
	return a.hrp
}

// DecodeAddress parses a bech32 address.
func DecodeAddress(addrStr string) (Address, error) {
	hrp, decoded, err := bech32.Decode(addrStr)
	if err != nil {
		return Address{}, fmt.Errorf("invalid bech32 string: %w", err)
	}
	conv, err := bech32.ConvertBits(decoded, 5, 8, false)
	if err != nil {
		return Address{}, fmt.Errorf("error converting bits: %w", err)
	}
	return NewAddress(hrp, conv)
}

// ParseAddress accepts either an mcash bech32 address or 0x-prefixed hex.
func ParseAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		if !common.IsHexAddress(s) {
			return common.Address{}, fmt.Errorf("crypto: invalid hex address %q", s)
		}
		return common.HexToAddress(s), nil
	}
	addr, err := DecodeAddress(s)
	if err != nil {
		return common.Address{}, err
	}
	if addr.hrp != MCashPrefix {
		return common.Address{}, fmt.Errorf("crypto: unexpected address prefix %q", addr.hrp)
	}
	return addr.bytes, nil
}

// --- Key Management ---

type PrivateKey struct {
	*ecdsa.PrivateKey
}

type PublicKey struct {
	*ecdsa.PublicKey
}

func GeneratePrivateKey() (*PrivateKey, error) {
	key, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}

// Bytes returns the byte representation of the private key.
func (k *PrivateKey) Bytes() []byte {
	return crypto.FromECDSA(k.PrivateKey)
}

func (k *PrivateKey) PubKey() *PublicKey {
	return &PublicKey{&k.PrivateKey.PublicKey}
}

// Address derives the ledger address owned by the key.
func (k *PublicKey) Address() Address {
	return FromCommon(crypto.PubkeyToAddress(*k.PublicKey))
}

func PrivateKeyFromBytes(b []byte) (*PrivateKey, error) {
	key, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key}, nil
}
