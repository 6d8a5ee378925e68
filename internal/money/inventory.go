package money

import (
	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/log2"
)

var (
	ErrInsufficientInventory = errors.New("dispense with zero stock")
	ErrKindInvalid           = errors.New("unknown cash kind")
)

// KindSet is one kind's hardware: recycler dispensers per nominal plus
// the overflow storage unit.
type KindSet struct {
	Dispensers map[currency.Nominal]*cash.Dispenser
	Storage    *cash.Storage
}

type kindState struct {
	kind      cash.Kind
	available currency.NominalGroup
	hw        KindSet
}

func newKindState(kind cash.Kind, hw KindSet) *kindState {
	ks := &kindState{kind: kind, hw: hw}
	nominals := make([]currency.Nominal, 0, len(hw.Dispensers))
	for n := range hw.Dispensers {
		nominals = append(nominals, n)
	}
	ks.available.SetValid(nominals)
	for n, d := range hw.Dispensers {
		if d.Size() > 0 {
			ks.available.MustAdd(n, d.Size())
		}
	}
	return ks
}

// Inventory tracks dispensable cash per kind for one station. Hardware
// accept/dispense events and attendant refill/empty all funnel through
// here so counts and physical stock stay in step.
type Inventory struct {
	Log    *log2.Log
	coin   *kindState
	note   *kindState
	vault  *cash.Vault
	notify func(Event)
}

func NewInventory(log *log2.Log, coins, banknotes KindSet, vault *cash.Vault) *Inventory {
	return &Inventory{
		Log:   log,
		coin:  newKindState(cash.KindCoin, coins),
		note:  newKindState(cash.KindBanknote, banknotes),
		vault: vault,
	}
}

// SetNotify wires high/low stock events into the station bus.
func (inv *Inventory) SetNotify(f func(Event)) { inv.notify = f }

func (inv *Inventory) kindState(kind cash.Kind) (*kindState, error) {
	switch kind {
	case cash.KindCoin:
		return inv.coin, nil
	case cash.KindBanknote:
		return inv.note, nil
	}
	return nil, errors.Annotatef(ErrKindInvalid, "kind=%d", kind)
}

func (inv *Inventory) event(kind EventKind) {
	if inv.notify != nil {
		inv.notify(Event{Kind: kind})
	}
}

// RecordAccepted routes one validated instrument into the recycler stock.
// A full recycler diverts to the storage unit; a full storage unit is an
// overload reported to the caller, the instrument is not discarded.
func (inv *Inventory) RecordAccepted(n currency.Nominal, kind cash.Kind) error {
	ks, err := inv.kindState(kind)
	if err != nil {
		return err
	}
	d, ok := ks.hw.Dispensers[n]
	if !ok {
		return errors.Annotatef(currency.ErrNominalInvalid, "accepted kind=%s nominal=%s", kind, currency.Amount(n).Format100I())
	}
	if err = d.LoadOne(); err == nil {
		ks.available.MustAdd(n, 1)
		return nil
	}
	if errors.Cause(err) != cash.ErrOverload {
		return errors.Annotatef(err, "accept kind=%s", kind)
	}
	if err = ks.hw.Storage.Load(n); err != nil {
		inv.highEvent(kind)
		return errors.Annotatef(err, "accept kind=%s", kind)
	}
	inv.Log.Debugf("inventory accept overflow to storage kind=%s nominal=%s", kind, currency.Amount(n).Format100I())
	if nearFull(ks.hw.Storage) {
		inv.highEvent(kind)
	}
	return nil
}

// RecordDispensed decrements stock after a dispenser emitted one unit.
// Zero stock here is a bug upstream: the change dispenser checks counts
// before asking hardware to emit.
func (inv *Inventory) RecordDispensed(n currency.Nominal, kind cash.Kind) error {
	ks, err := inv.kindState(kind)
	if err != nil {
		return err
	}
	if err = ks.available.Take(n, 1); err != nil {
		return errors.Annotatef(ErrInsufficientInventory, "dispensed kind=%s nominal=%s", kind, currency.Amount(n).Format100I())
	}
	if ks.available.InventoryGet(n) == 0 {
		inv.lowEvent(kind)
	}
	return nil
}

// Removed reports what an EmptyAll handed to the vault.
type Removed struct {
	Count uint
	Value currency.Amount
}

// EmptyAll unloads every dispenser and the storage unit of the kind into
// the vault and zeroes the dispensable counts.
func (inv *Inventory) EmptyAll(kind cash.Kind) (Removed, error) {
	ks, err := inv.kindState(kind)
	if err != nil {
		return Removed{}, err
	}
	total := Removed{}
	for n, d := range ks.hw.Dispensers {
		removed := d.Unload()
		total.Count += removed
		total.Value += currency.Amount(n) * currency.Amount(removed)
	}
	count, value := ks.hw.Storage.Unload()
	total.Count += count
	total.Value += value
	ks.available.Clear()
	if inv.vault != nil {
		inv.vault.Receive(kind, total.Count, total.Value)
	}
	inv.Log.Infof("inventory empty kind=%s count=%d value=%s", kind, total.Count, total.Value.Format100I())
	return total, nil
}

// RefillToCapacity tops every dispenser of the kind up from external
// supply. Dispensers already at capacity are untouched.
func (inv *Inventory) RefillToCapacity(kind cash.Kind) (uint, error) {
	ks, err := inv.kindState(kind)
	if err != nil {
		return 0, err
	}
	totalAdded := uint(0)
	for n, d := range ks.hw.Dispensers {
		added := d.Refill()
		if added > 0 {
			ks.available.MustAdd(n, added)
			totalAdded += added
		}
	}
	inv.Log.Infof("inventory refill kind=%s added=%d", kind, totalAdded)
	return totalAdded, nil
}

func (inv *Inventory) CountOf(n currency.Nominal, kind cash.Kind) uint {
	ks, err := inv.kindState(kind)
	if err != nil {
		return 0
	}
	return ks.available.InventoryGet(n)
}

// Dispensable returns a copy of the kind's stock counts.
func (inv *Inventory) Dispensable(kind cash.Kind) *currency.NominalGroup {
	ks, err := inv.kindState(kind)
	if err != nil {
		return &currency.NominalGroup{}
	}
	return ks.available.Copy()
}

func (inv *Inventory) StorageCount(kind cash.Kind) uint {
	ks, err := inv.kindState(kind)
	if err != nil {
		return 0
	}
	return ks.hw.Storage.Count()
}

func (inv *Inventory) highEvent(kind cash.Kind) {
	if kind == cash.KindCoin {
		inv.event(EventHighCoins)
	} else {
		inv.event(EventHighBanknotes)
	}
}

func (inv *Inventory) lowEvent(kind cash.Kind) {
	if kind == cash.KindCoin {
		inv.event(EventLowCoins)
	} else {
		inv.event(EventLowBanknotes)
	}
}

// nearFull is the 90% mark real storage units signal at.
func nearFull(s *cash.Storage) bool {
	return s.Count()*10 >= s.Capacity()*9
}
