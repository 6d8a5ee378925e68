package printer

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefill(t *testing.T) {
	t.Parallel()

	p := New(100, 20)
	added, err := p.Refill(ConsumablePaper)
	require.NoError(t, err)
	assert.Equal(t, uint(100), added)
	assert.Equal(t, uint(100), p.Level(ConsumablePaper))

	_, err = p.Refill(ConsumablePaper)
	require.Error(t, err)
	assert.True(t, errors.Cause(err) == ErrOverloaded)
	assert.Equal(t, uint(100), p.Level(ConsumablePaper))

	require.NoError(t, p.Spend(ConsumablePaper, 30))
	added, err = p.Refill(ConsumablePaper)
	require.NoError(t, err)
	assert.Equal(t, uint(30), added)
}

func TestSpendEmpty(t *testing.T) {
	t.Parallel()

	p := New(10, 10)
	require.Error(t, p.Spend(ConsumableInk, 1))
	_, err := p.Refill(ConsumableInk)
	require.NoError(t, err)
	require.NoError(t, p.Spend(ConsumableInk, 10))
	require.Error(t, p.Spend(ConsumableInk, 1))
}
