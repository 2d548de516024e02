package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// ResourceCode selects which allowance a frozen balance buys.
type ResourceCode uint8

const (
	ResourceBandwidth ResourceCode = iota
	ResourceEnergy
)

func (r ResourceCode) String() string {
	switch r {
	case ResourceBandwidth:
		return "BANDWIDTH"
	case ResourceEnergy:
		return "ENERGY"
	default:
		return fmt.Sprintf("ResourceCode(%d)", uint8(r))
	}
}

// Valid reports whether r names a supported resource.
func (r ResourceCode) Valid() bool {
	return r == ResourceBandwidth || r == ResourceEnergy
}

// DelegatedResource is the directional freeze link From -> To.
type DelegatedResource struct {
	From                   common.Address `json:"from"`
	To                     common.Address `json:"to"`
	FrozenForBandwidth     int64          `json:"frozenForBandwidth"`
	ExpireTimeForBandwidth int64          `json:"expireTimeForBandwidth"`
	FrozenForEnergy        int64          `json:"frozenForEnergy"`
	ExpireTimeForEnergy    int64          `json:"expireTimeForEnergy"`
}

// Frozen returns the amount and expiry for the resource.
func (d *DelegatedResource) Frozen(r ResourceCode) (amount, expire int64) {
	if r == ResourceEnergy {
		return d.FrozenForEnergy, d.ExpireTimeForEnergy
	}
	return d.FrozenForBandwidth, d.ExpireTimeForBandwidth
}

// SetFrozen overwrites the amount and expiry for the resource.
func (d *DelegatedResource) SetFrozen(r ResourceCode, amount, expire int64) {
	if r == ResourceEnergy {
		d.FrozenForEnergy, d.ExpireTimeForEnergy = amount, expire
		return
	}
	d.FrozenForBandwidth, d.ExpireTimeForBandwidth = amount, expire
}

// Empty reports whether nothing remains delegated on the link.
func (d *DelegatedResource) Empty() bool {
	return d.FrozenForBandwidth == 0 && d.FrozenForEnergy == 0
}

// DelegatedResourceAccountIndex lists the counterparties of an account:
// accounts that delegated to it (From) and accounts it delegates to (To).
type DelegatedResourceAccountIndex struct {
	Account      common.Address   `json:"account"`
	FromAccounts []common.Address `json:"fromAccounts"`
	ToAccounts   []common.Address `json:"toAccounts"`
}

func containsAddress(list []common.Address, addr common.Address) bool {
	for _, a := range list {
		if bytes.Equal(a[:], addr[:]) {
			return true
		}
	}
	return false
}

func removeAddress(list []common.Address, addr common.Address) []common.Address {
	out := list[:0]
	for _, a := range list {
		if a != addr {
			out = append(out, a)
		}
	}
	return out
}

// AddTo records addr as a delegation receiver, ignoring duplicates.
func (i *DelegatedResourceAccountIndex) AddTo(addr common.Address) {
	if !containsAddress(i.ToAccounts, addr) {
		i.ToAccounts = append(i.ToAccounts, addr)
	}
}

// AddFrom records addr as a delegation source, ignoring duplicates.
func (i *DelegatedResourceAccountIndex) AddFrom(addr common.Address) {
	if !containsAddress(i.FromAccounts, addr) {
		i.FromAccounts = append(i.FromAccounts, addr)
	}
}

// RemoveTo drops addr from the receiver list.
func (i *DelegatedResourceAccountIndex) RemoveTo(addr common.Address) {
	i.ToAccounts = removeAddress(i.ToAccounts, addr)
}

// RemoveFrom drops addr from the source list.
func (i *DelegatedResourceAccountIndex) RemoveFrom(addr common.Address) {
	i.FromAccounts = removeAddress(i.FromAccounts, addr)
}
