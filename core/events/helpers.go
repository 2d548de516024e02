package events

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"mcashchain/crypto"
)

func formatAddress(addr common.Address) string {
	return crypto.FromCommon(addr).String()
}

func intToString(v int64) string {
	return strconv.FormatInt(v, 10)
}
