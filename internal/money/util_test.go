package money

import (
	"testing"

	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/log2"
)

const testDispenserCapacity = 10

func testKindSet(kind cash.Kind, stock map[currency.Nominal]uint, storageCapacity uint) KindSet {
	set := KindSet{
		Dispensers: make(map[currency.Nominal]*cash.Dispenser, len(stock)),
		Storage:    cash.NewStorage(kind, storageCapacity),
	}
	for n, count := range stock {
		d := cash.NewDispenser(kind, n, testDispenserCapacity)
		for i := uint(0); i < count; i++ {
			if err := d.LoadOne(); err != nil {
				panic(err)
			}
		}
		set.Dispensers[n] = d
	}
	return set
}

func newTestInventory(t testing.TB, coins, notes map[currency.Nominal]uint) (*Inventory, *cash.Vault) {
	vault := cash.NewVault()
	inv := NewInventory(
		log2.NewTest(t, log2.LDebug),
		testKindSet(cash.KindCoin, coins, 20),
		testKindSet(cash.KindBanknote, notes, 20),
		vault,
	)
	return inv, vault
}

type recordingListener struct {
	name   string
	events []Event
	onEach func(Event)
}

func (rl *recordingListener) FundsEvent(e Event) {
	rl.events = append(rl.events, e)
	if rl.onEach != nil {
		rl.onEach(e)
	}
}

func (rl *recordingListener) kinds() []EventKind {
	ks := make([]EventKind, 0, len(rl.events))
	for _, e := range rl.events {
		ks = append(ks, e.Kind)
	}
	return ks
}
