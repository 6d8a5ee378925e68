// Package printer models the receipt printer's consumables.
// The core only refills paper and ink, printing itself stays with
// the display layer.
package printer

import (
	"fmt"

	"github.com/juju/errors"
)

var ErrOverloaded = errors.New("consumable already full")

type Consumable uint8

const (
	ConsumableInvalid Consumable = iota
	ConsumablePaper
	ConsumableInk
)

func (c Consumable) String() string {
	switch c {
	case ConsumablePaper:
		return "paper"
	case ConsumableInk:
		return "ink"
	}
	return "invalid"
}

type Printer struct {
	paper         uint
	ink           uint
	paperCapacity uint
	inkCapacity   uint
}

func New(paperCapacity, inkCapacity uint) *Printer {
	if paperCapacity == 0 || inkCapacity == 0 {
		panic(fmt.Sprintf("code error printer.New paper=%d ink=%d", paperCapacity, inkCapacity))
	}
	return &Printer{paperCapacity: paperCapacity, inkCapacity: inkCapacity}
}

func (p *Printer) Level(c Consumable) uint {
	switch c {
	case ConsumablePaper:
		return p.paper
	case ConsumableInk:
		return p.ink
	}
	return 0
}

func (p *Printer) Capacity(c Consumable) uint {
	switch c {
	case ConsumablePaper:
		return p.paperCapacity
	case ConsumableInk:
		return p.inkCapacity
	}
	return 0
}

// Refill tops the consumable up to capacity. The device signals overload
// when it is already full, same as loading a full paper tray.
func (p *Printer) Refill(c Consumable) (uint, error) {
	var level *uint
	var capacity uint
	switch c {
	case ConsumablePaper:
		level, capacity = &p.paper, p.paperCapacity
	case ConsumableInk:
		level, capacity = &p.ink, p.inkCapacity
	default:
		return 0, errors.Errorf("printer.Refill invalid consumable=%d", c)
	}
	if *level >= capacity {
		return 0, errors.Annotatef(ErrOverloaded, "printer %s=%d capacity=%d", c, *level, capacity)
	}
	added := capacity - *level
	*level = capacity
	return added, nil
}

// Spend consumes units, used by the simulated print path in tests.
func (p *Printer) Spend(c Consumable, units uint) error {
	var level *uint
	switch c {
	case ConsumablePaper:
		level = &p.paper
	case ConsumableInk:
		level = &p.ink
	default:
		return errors.Errorf("printer.Spend invalid consumable=%d", c)
	}
	if *level < units {
		return errors.Errorf("printer %s empty", c)
	}
	*level -= units
	return nil
}
