// Package cash models the station's cash-handling devices: per-nominal
// dispensers, accept storage units and validators. Devices are simulated
// but keep the failure surface of the real ones: disabled, empty, overload.
package cash

import (
	"fmt"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
)

type Kind uint8

const (
	KindInvalid Kind = iota
	KindCoin
	KindBanknote
)

func (k Kind) String() string {
	switch k {
	case KindCoin:
		return "coin"
	case KindBanknote:
		return "banknote"
	}
	return "invalid"
}

var (
	ErrDisabled = errors.New("device disabled")
	ErrEmpty    = errors.New("no cash available")
	ErrOverload = errors.New("cash overload")
)

// Dispenser holds stock of one nominal and emits one unit at a time.
type Dispenser struct {
	kind     Kind
	nominal  currency.Nominal
	count    uint
	capacity uint
	disabled bool
}

func NewDispenser(kind Kind, nominal currency.Nominal, capacity uint) *Dispenser {
	if nominal == 0 || capacity == 0 {
		panic(fmt.Sprintf("code error NewDispenser kind=%s nominal=%d capacity=%d", kind, nominal, capacity))
	}
	return &Dispenser{kind: kind, nominal: nominal, capacity: capacity}
}

func (d *Dispenser) Kind() Kind                { return d.kind }
func (d *Dispenser) Nominal() currency.Nominal { return d.nominal }
func (d *Dispenser) Size() uint                { return d.count }
func (d *Dispenser) Capacity() uint            { return d.capacity }
func (d *Dispenser) Disabled() bool            { return d.disabled }
func (d *Dispenser) SetDisabled(v bool)        { d.disabled = v }

func (d *Dispenser) String() string {
	return fmt.Sprintf("dispenser(%s:%s %d/%d)", d.kind, currency.Amount(d.nominal).Format100I(), d.count, d.capacity)
}

// Emit dispenses one unit.
func (d *Dispenser) Emit() error {
	if d.disabled {
		return errors.Annotate(ErrDisabled, d.String())
	}
	if d.count == 0 {
		return errors.Annotate(ErrEmpty, d.String())
	}
	d.count--
	return nil
}

// LoadOne accepts one unit into the recycler stock.
func (d *Dispenser) LoadOne() error {
	if d.disabled {
		return errors.Annotate(ErrDisabled, d.String())
	}
	if d.count >= d.capacity {
		return errors.Annotate(ErrOverload, d.String())
	}
	d.count++
	return nil
}

// Refill tops stock up to capacity from external supply, returns units added.
func (d *Dispenser) Refill() uint {
	added := d.capacity - d.count
	d.count = d.capacity
	return added
}

// Restore sets stock from a persisted counter, clamped to capacity.
func (d *Dispenser) Restore(count uint) {
	if count > d.capacity {
		count = d.capacity
	}
	d.count = count
}

// Unload removes all stock, returns units removed.
func (d *Dispenser) Unload() uint {
	removed := d.count
	d.count = 0
	return removed
}

// Storage accumulates cash received from customers.
type Storage struct {
	kind     Kind
	count    uint
	value    currency.Amount
	capacity uint
}

func NewStorage(kind Kind, capacity uint) *Storage {
	if capacity == 0 {
		panic(fmt.Sprintf("code error NewStorage kind=%s capacity=0", kind))
	}
	return &Storage{kind: kind, capacity: capacity}
}

func (s *Storage) Kind() Kind             { return s.kind }
func (s *Storage) Count() uint            { return s.count }
func (s *Storage) Value() currency.Amount { return s.value }
func (s *Storage) Capacity() uint         { return s.capacity }

func (s *Storage) String() string {
	return fmt.Sprintf("storage(%s %d/%d)", s.kind, s.count, s.capacity)
}

// Load stores one unit. The unit is not discarded on overload,
// the caller keeps it and must report to the attendant.
func (s *Storage) Load(n currency.Nominal) error {
	if s.count >= s.capacity {
		return errors.Annotate(ErrOverload, s.String())
	}
	s.count++
	s.value += currency.Amount(n)
	return nil
}

// Restore sets contents from persisted counters.
func (s *Storage) Restore(count uint, value currency.Amount) {
	if count > s.capacity {
		count = s.capacity
	}
	s.count, s.value = count, value
}

// Unload empties the unit, returns removed count and value.
func (s *Storage) Unload() (uint, currency.Amount) {
	count, value := s.count, s.value
	s.count, s.value = 0, 0
	return count, value
}

// Vault is the external sink receiving cash removed by attendant
// empty operations.
type Vault struct {
	counts map[Kind]uint
	values map[Kind]currency.Amount
}

func NewVault() *Vault {
	return &Vault{
		counts: make(map[Kind]uint, 2),
		values: make(map[Kind]currency.Amount, 2),
	}
}

func (v *Vault) Receive(kind Kind, count uint, value currency.Amount) {
	v.counts[kind] += count
	v.values[kind] += value
}

func (v *Vault) Stored(kind Kind) (uint, currency.Amount) {
	return v.counts[kind], v.values[kind]
}
