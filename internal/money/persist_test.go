package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
)

func TestPersistRestore(t *testing.T) {
	t.Parallel()

	inv, _ := newTestInventory(t,
		map[currency.Nominal]uint{25: 3, 10: 7},
		map[currency.Nominal]uint{500: 1},
	)
	require.NoError(t, inv.RecordAccepted(25, cash.KindCoin))
	b, err := inv.MarshalBinary()
	require.NoError(t, err)

	// fresh empty station with the same currency configuration
	inv2, _ := newTestInventory(t,
		map[currency.Nominal]uint{25: 0, 10: 0},
		map[currency.Nominal]uint{500: 0},
	)
	require.NoError(t, inv2.UnmarshalBinary(b))
	assert.Equal(t, uint(4), inv2.CountOf(25, cash.KindCoin))
	assert.Equal(t, uint(7), inv2.CountOf(10, cash.KindCoin))
	assert.Equal(t, uint(1), inv2.CountOf(500, cash.KindBanknote))
	assert.Equal(t, inv.StorageCount(cash.KindCoin), inv2.StorageCount(cash.KindCoin))
}

func TestPersistUnknownNominalSkipped(t *testing.T) {
	t.Parallel()

	inv, _ := newTestInventory(t,
		map[currency.Nominal]uint{25: 2},
		map[currency.Nominal]uint{},
	)
	// currency configuration changed since the snapshot was taken
	snapshot := []byte("kiosk-inventory 1\nc 25 2\nc 3 9\nsc 0 0\nsb 0 0\n")
	require.NoError(t, inv.UnmarshalBinary(snapshot))
	assert.Equal(t, uint(2), inv.CountOf(25, cash.KindCoin))
	assert.Equal(t, uint(0), inv.CountOf(3, cash.KindCoin))
}

func TestPersistBadHeader(t *testing.T) {
	t.Parallel()

	inv, _ := newTestInventory(t, map[currency.Nominal]uint{25: 1}, map[currency.Nominal]uint{})
	require.Error(t, inv.UnmarshalBinary([]byte("garbage\n")))
}
