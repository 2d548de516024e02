package events

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestRecorderTruncateAndDrain(t *testing.T) {
	rec := &Recorder{}
	rec.Emit(Transfer{From: common.HexToAddress("0x1"), To: common.HexToAddress("0x2"), Amount: 5})
	mark := rec.Len()
	rec.Emit(FeeBurned{Payer: common.HexToAddress("0x1"), Amount: 1})
	rec.Truncate(mark)

	out := rec.Drain()
	require.Len(t, out, 1)
	require.Equal(t, TypeTransfer, out[0].Type)
	require.Equal(t, "5", out[0].Attributes["amount"])
	require.Contains(t, out[0].Attributes["from"], "mcash1")
	require.Zero(t, rec.Len())
}

func TestProposalCreatedOrdersParameters(t *testing.T) {
	evt := ProposalCreated{ID: 3, Parameters: map[int64]int64{9: 1, 2: 50}}.Event()
	require.Equal(t, "2=50,9=1", evt.Attributes["parameters"])
}
