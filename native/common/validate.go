package common

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	AddressLength      = common.AddressLength
	MaxAssetNameLength = 32
	MaxURLLength       = 256
	MaxDescription     = 200
	MaxAccountName     = 200
	MinAccountIDLength = 8
	MaxAccountIDLength = 32
	MaxAbbrLength      = 5
)

// ParseAddress converts raw payload bytes into an address. Anything but
// exactly AddressLength bytes is rejected, as is the zero address, which the
// state layer refuses to store.
func ParseAddress(raw []byte) (common.Address, bool) {
	if len(raw) != AddressLength {
		return common.Address{}, false
	}
	addr := common.BytesToAddress(raw)
	if addr == (common.Address{}) {
		return common.Address{}, false
	}
	return addr, true
}

// visible reports whether every byte is printable, non-space ASCII.
func visible(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

func validBytes(s string, max int, allowEmpty bool) bool {
	if len(s) == 0 {
		return allowEmpty
	}
	return len(s) <= max
}

// ValidAssetName accepts 1 to 32 bytes of printable ASCII without spaces.
func ValidAssetName(name string) bool {
	return validBytes(name, MaxAssetNameLength, false) && visible(name)
}

// ValidAbbr accepts 1 to 5 bytes of printable ASCII without spaces.
func ValidAbbr(abbr string) bool {
	return validBytes(abbr, MaxAbbrLength, false) && visible(abbr)
}

// ValidURL accepts 1 to 256 bytes.
func ValidURL(url string) bool {
	return validBytes(url, MaxURLLength, false)
}

// ValidDescription accepts up to 200 bytes.
func ValidDescription(desc string) bool {
	return validBytes(desc, MaxDescription, true)
}

// ValidAccountName accepts 1 to 200 bytes.
func ValidAccountName(name string) bool {
	return validBytes(name, MaxAccountName, false)
}

// ValidAccountID accepts 8 to 32 bytes of printable ASCII without spaces.
func ValidAccountID(id string) bool {
	if len(id) < MinAccountIDLength || len(id) > MaxAccountIDLength {
		return false
	}
	return visible(id)
}
