package state

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/log2"
)

const testConfig = `
currency {
  coins = [5, 10, 25]
  banknotes = [500, 1000]
  dispenser_capacity = 10
  storage_capacity = 20
}
station "alpha" {}
station "beta" {}
`

func TestGlobalStations(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, testConfig)
	ss := g.Stations()
	require.Len(t, ss, 2)
	assert.Equal(t, "alpha", ss[0].Name)
	assert.Equal(t, "beta", ss[1].Name)

	s, err := g.Station("beta")
	require.NoError(t, err)
	assert.True(t, s.Enabled(), "stations come up enabled")

	_, err = g.Station("gamma")
	assert.True(t, errors.IsNotFound(err))
}

func TestStationEnabledToggle(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, testConfig)
	s, err := g.Station("alpha")
	require.NoError(t, err)

	assert.False(t, s.SetEnabled(true), "already enabled")
	assert.True(t, s.SetEnabled(false))
	assert.False(t, s.SetEnabled(false), "already disabled")
	assert.True(t, s.SetEnabled(true))
}

func TestStationAssistance(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, testConfig)
	s, err := g.Station("alpha")
	require.NoError(t, err)

	assert.False(t, s.NeedsAssistance())
	assert.True(t, s.RequestAssistance())
	assert.False(t, s.RequestAssistance(), "second request while pending")
	assert.True(t, s.NeedsAssistance())
	assert.True(t, s.AcknowledgeAssistance())
	assert.False(t, s.AcknowledgeAssistance())
}

func TestStationOrderTotalFeedsFunds(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, testConfig)
	s, err := g.Station("alpha")
	require.NoError(t, err)

	s.SetOrderTotal(700)
	assert.Equal(t, currency.Amount(700), s.Funds.AmountOwed())
	require.NoError(t, s.Funds.RecordPayment(500))
	assert.Equal(t, currency.Amount(200), s.Funds.AmountOwed())
}

func TestPersistAcrossRestart(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	cfg, err := ParseConfig(log, testConfig)
	require.NoError(t, err)
	cfg.Persist.Root = t.TempDir()

	ctx1, g := NewContext(log)
	g.MustInit(ctx1, cfg)
	s, err := g.Station("alpha")
	require.NoError(t, err)
	require.NoError(t, s.Funds.AcceptPollItem(cash.PollItem{Status: cash.StatusCredit, Kind: cash.KindCoin, Nominal: 25}))
	require.NoError(t, g.StoreAll())

	// simulated restart, same persist root
	ctx2, g2 := NewContext(log)
	cfg2, err := ParseConfig(log, testConfig)
	require.NoError(t, err)
	cfg2.Persist.Root = cfg.Persist.Root
	g2.MustInit(ctx2, cfg2)
	s2, err := g2.Station("alpha")
	require.NoError(t, err)
	assert.Equal(t, uint(1), s2.Funds.Inventory().CountOf(25, cash.KindCoin))

	// beta was untouched, stays empty
	b2, err := g2.Station("beta")
	require.NoError(t, err)
	assert.Equal(t, uint(0), b2.Funds.Inventory().CountOf(25, cash.KindCoin))
}

func TestStationStatePayload(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, testConfig)
	s, err := g.Station("alpha")
	require.NoError(t, err)
	s.SetOrderTotal(100)
	require.NoError(t, s.Funds.AcceptPollItem(cash.PollItem{Status: cash.StatusCredit, Kind: cash.KindCoin, Nominal: 25}))

	st := g.StationState(s)
	assert.Equal(t, "alpha", st.Name)
	assert.True(t, st.Enabled)
	assert.False(t, st.Blocked)
	assert.Equal(t, uint32(25), st.TotalPaid)
	assert.Equal(t, uint32(1), st.Coins[25])
}
