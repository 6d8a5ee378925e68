// Package attendant is the staff-side control surface: enable/disable
// stations, empty and refill cash hardware, clear blocks, answer
// assistance requests. Every operation addresses a station by name and
// reports whether it changed anything, repeating an operation that is
// already satisfied is not an error.
package attendant

import (
	"github.com/juju/errors"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/hardware/printer"
	"github.com/temoto/kiosk/internal/money"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/log2"
)

type Controller struct {
	Log *log2.Log
	g   *state.Global
}

func NewController(g *state.Global) *Controller {
	return &Controller{Log: g.Log, g: g}
}

// Enable opens the station for customers. Validators come back up with it.
func (c *Controller) Enable(stationName string) (bool, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return false, err
	}
	changed := s.SetEnabled(true)
	if changed {
		s.Hardware.CoinValidator.SetDisabled(false)
		s.Hardware.BanknoteValidator.SetDisabled(false)
		c.Log.Infof("attendant enable station=%s", stationName)
	}
	return changed, nil
}

// Disable closes the station to customers. Money already in the ledger
// is untouched, validators stop accepting.
func (c *Controller) Disable(stationName string) (bool, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return false, err
	}
	changed := s.SetEnabled(false)
	if changed {
		s.Hardware.CoinValidator.SetDisabled(true)
		s.Hardware.BanknoteValidator.SetDisabled(true)
		c.Log.Infof("attendant disable station=%s", stationName)
	}
	return changed, nil
}

// Unblock clears a funds block left by a failed change dispense.
func (c *Controller) Unblock(stationName string) (bool, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return false, err
	}
	changed, err := s.Funds.Unblock()
	if err != nil {
		return changed, errors.Annotatef(err, "station=%s", stationName)
	}
	if changed {
		c.Log.Infof("attendant unblock station=%s", stationName)
	}
	return changed, nil
}

func (c *Controller) EmptyCoins(stationName string) (money.Removed, error) {
	return c.empty(stationName, cash.KindCoin)
}
func (c *Controller) EmptyBanknotes(stationName string) (money.Removed, error) {
	return c.empty(stationName, cash.KindBanknote)
}

func (c *Controller) empty(stationName string, kind cash.Kind) (money.Removed, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return money.Removed{}, err
	}
	removed, err := s.Funds.Inventory().EmptyAll(kind)
	if err != nil {
		return removed, errors.Annotatef(err, "station=%s", stationName)
	}
	if err = s.Persist.Store(); err != nil {
		c.g.Error(err)
	}
	return removed, nil
}

func (c *Controller) RefillCoins(stationName string) (uint, error) {
	return c.refill(stationName, cash.KindCoin)
}
func (c *Controller) RefillBanknotes(stationName string) (uint, error) {
	return c.refill(stationName, cash.KindBanknote)
}

func (c *Controller) refill(stationName string, kind cash.Kind) (uint, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return 0, err
	}
	added, err := s.Funds.Inventory().RefillToCapacity(kind)
	if err != nil {
		return added, errors.Annotatef(err, "station=%s", stationName)
	}
	if err = s.Persist.Store(); err != nil {
		c.g.Error(err)
	}
	return added, nil
}

// RefillPaper tops up printer paper. Refilling a full printer fails
// with printer.ErrOverloaded, hardware cannot take the excess.
func (c *Controller) RefillPaper(stationName string) (uint, error) {
	return c.refillConsumable(stationName, printer.ConsumablePaper)
}
func (c *Controller) RefillInk(stationName string) (uint, error) {
	return c.refillConsumable(stationName, printer.ConsumableInk)
}

func (c *Controller) refillConsumable(stationName string, con printer.Consumable) (uint, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return 0, err
	}
	added, err := s.Hardware.Printer.Refill(con)
	if err != nil {
		return added, errors.Annotatef(err, "station=%s", stationName)
	}
	c.Log.Infof("attendant refill station=%s consumable=%s added=%d", stationName, con, added)
	return added, nil
}

// PendingAssistance lists stations with a raised assistance flag,
// sorted by name.
func (c *Controller) PendingAssistance() []string {
	names := make([]string, 0, 4)
	for _, s := range c.g.Stations() {
		if s.NeedsAssistance() {
			names = append(names, s.Name)
		}
	}
	return names
}

// Acknowledge clears a station's assistance flag.
func (c *Controller) Acknowledge(stationName string) (bool, error) {
	s, err := c.g.Station(stationName)
	if err != nil {
		return false, err
	}
	return s.AcknowledgeAssistance(), nil
}
