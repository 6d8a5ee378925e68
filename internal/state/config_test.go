package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/log2"
)

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(log2.NewTest(t, log2.LDebug), `
currency { coins = [1, 5, 10, 25] }
`)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Money.Scale)
	assert.Equal(t, uint(50), cfg.Currency.DispenserCapacity)
	assert.Equal(t, uint(1000), cfg.Currency.StorageCapacity)
	assert.Equal(t, uint(500), cfg.Printer.PaperCapacity)
	require.Len(t, cfg.Stations, 1)
	assert.Equal(t, "station-1", cfg.Stations[0].Name)
}

func TestConfigScale(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(log2.NewTest(t, log2.LDebug), `
money { scale = 100 }
currency {
  coins = [1, 2]
  banknotes = [5, 10]
}
`)
	require.NoError(t, err)
	assert.Equal(t, []currency.Nominal{100, 200}, cfg.CoinNominals())
	assert.Equal(t, []currency.Nominal{500, 1000}, cfg.BanknoteNominals())
	assert.Equal(t, currency.Amount(700), cfg.ScaleI(7))
}

func TestConfigStations(t *testing.T) {
	t.Parallel()

	cfg, err := ParseConfig(log2.NewTest(t, log2.LDebug), `
currency { coins = [25] }
station "one" {}
station "two" {}
`)
	require.NoError(t, err)
	require.Len(t, cfg.Stations, 2)
	assert.Equal(t, "one", cfg.Stations[0].Name)
	assert.Equal(t, "two", cfg.Stations[1].Name)
}

func TestConfigErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		source string
	}{
		{"empty-currency", `money { scale = 1 }`},
		{"negative-scale", `money { scale = -1 }
currency { coins = [25] }`},
		{"duplicate-station", `currency { coins = [25] }
station "one" {}
station "one" {}`},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseConfig(log2.NewTest(t, log2.LDebug), c.source)
			assert.Error(t, err)
		})
	}
}
