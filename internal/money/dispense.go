package money

import (
	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
)

var ErrIncompleteChange = errors.New("exact change not dispensable")

// DispenseResult reports what physically left the machine. On failure
// Dispensed < Requested and the emitted units stay emitted, cash cannot
// be rolled back.
type DispenseResult struct {
	Requested currency.Amount
	Dispensed currency.Amount
	Items     currency.NominalGroup
}

// DispenseChange emits denominations summing exactly to amount.
//
// Best-effort greedy: banknotes are tried before coins on every step,
// within a kind the largest nominal not above the remainder wins. Greedy
// under scarce inventory is not complete — exhausting large nominals can
// dead-end even when another combination would reach the target — so the
// result is verified against the requested total and anything short is a
// failure, never an inexact dispense.
func (inv *Inventory) DispenseChange(amount currency.Amount) (DispenseResult, error) {
	result := DispenseResult{Requested: amount}
	result.Items.SetValid(nil)
	remaining := amount

	for remaining > 0 {
		n, kind, ok := inv.pickOne(remaining)
		if !ok {
			break
		}
		ks, _ := inv.kindState(kind)
		if err := ks.hw.Dispensers[n].Emit(); err != nil {
			// hardware refused what counts promised: stop, keep committed units
			inv.Log.Errorf("dispense emit kind=%s nominal=%s err=%v", kind, currency.Amount(n).Format100I(), err)
			return result, errors.Annotatef(err, "dispense remaining=%s", remaining.Format100I())
		}
		if err := inv.RecordDispensed(n, kind); err != nil {
			return result, errors.Annotatef(err, "dispense remaining=%s", remaining.Format100I())
		}
		remaining -= currency.Amount(n)
		result.Dispensed += currency.Amount(n)
		result.Items.AddFrom(single(n))
	}

	if remaining != 0 {
		return result, errors.Annotatef(ErrIncompleteChange,
			"requested=%s dispensed=%s", amount.Format100I(), result.Dispensed.Format100I())
	}
	inv.Log.Infof("dispensed change=%s items=%s", amount.Format100I(), result.Items.String())
	return result, nil
}

// pickOne scans banknotes then coins, largest nominal first, for stock
// that fits the remainder.
func (inv *Inventory) pickOne(remaining currency.Amount) (currency.Nominal, cash.Kind, bool) {
	for _, ks := range []*kindState{inv.note, inv.coin} {
		for _, n := range ks.available.Nominals() {
			if currency.Amount(n) <= remaining && ks.available.InventoryGet(n) > 0 {
				return n, ks.kind, true
			}
		}
	}
	return 0, cash.KindInvalid, false
}

func single(n currency.Nominal) *currency.NominalGroup {
	ng := &currency.NominalGroup{}
	ng.SetValid([]currency.Nominal{n})
	ng.MustAdd(n, 1)
	return ng
}
