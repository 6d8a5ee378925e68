package cash

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	alive "github.com/temoto/alive/v2"
	"github.com/temoto/kiosk/currency"
)

func TestDispenser(t *testing.T) {
	t.Parallel()

	d := NewDispenser(KindCoin, 25, 3)
	assert.Equal(t, uint(0), d.Size())
	require.NoError(t, d.LoadOne())
	require.NoError(t, d.LoadOne())
	require.NoError(t, d.LoadOne())
	err := d.LoadOne()
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == ErrOverload)
	assert.Equal(t, uint(3), d.Size())

	require.NoError(t, d.Emit())
	assert.Equal(t, uint(2), d.Size())

	assert.Equal(t, uint(2), d.Unload())
	assert.Equal(t, uint(0), d.Size())
	err = d.Emit()
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == ErrEmpty)

	assert.Equal(t, uint(3), d.Refill())
	assert.Equal(t, d.Capacity(), d.Size())
	assert.Equal(t, uint(0), d.Refill(), "refill at capacity is no-op")

	d.SetDisabled(true)
	err = d.Emit()
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == ErrDisabled)
	assert.Equal(t, uint(3), d.Size(), "disabled emit must not change stock")
}

func TestStorage(t *testing.T) {
	t.Parallel()

	s := NewStorage(KindBanknote, 2)
	require.NoError(t, s.Load(500))
	require.NoError(t, s.Load(1000))
	err := s.Load(500)
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == ErrOverload)
	assert.Equal(t, uint(2), s.Count(), "overloaded unit keeps prior contents")
	assert.Equal(t, currency.Amount(1500), s.Value())

	count, value := s.Unload()
	assert.Equal(t, uint(2), count)
	assert.Equal(t, currency.Amount(1500), value)
	assert.Equal(t, uint(0), s.Count())
}

func TestValidatorEvents(t *testing.T) {
	t.Parallel()

	v := NewValidator(KindCoin, []currency.Nominal{5, 10, 25})
	a := alive.NewAlive()
	items := make(chan PollItem, 4)
	require.True(t, a.Add(1))
	go v.Run(a, func(pi PollItem) bool {
		items <- pi
		return true
	})

	require.NoError(t, v.Insert(25))
	pi := <-items
	assert.Equal(t, StatusCredit, pi.Status)
	assert.Equal(t, currency.Nominal(25), pi.Nominal)
	assert.Equal(t, KindCoin, pi.Kind)

	require.NoError(t, v.Insert(3))
	pi = <-items
	assert.Equal(t, StatusRejected, pi.Status)

	v.SetDisabled(true)
	err := v.Insert(25)
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == ErrDisabled)

	a.Stop()
	a.Wait()
}

func TestVault(t *testing.T) {
	t.Parallel()

	vault := NewVault()
	vault.Receive(KindCoin, 2, 35)
	vault.Receive(KindCoin, 1, 25)
	count, value := vault.Stored(KindCoin)
	assert.Equal(t, uint(3), count)
	assert.Equal(t, currency.Amount(60), value)
	count, value = vault.Stored(KindBanknote)
	assert.Equal(t, uint(0), count)
	assert.Equal(t, currency.Amount(0), value)
}
