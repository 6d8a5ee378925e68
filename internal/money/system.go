// Package money is the station's payment core: the transaction ledger,
// the dispensable-cash inventory and the change dispenser, with an event
// bus decoupling all of it from presentation.
//
// Overview:
//   - hardware validation events add credit to the ledger and stock to
//     the inventory
//   - EvaluateCompletion settles the transaction, returning overpayment
//     through the change dispenser
//   - every state change is broadcast to registered listeners
//
// The host serializes all calls per station, package money adds no
// locking of its own.
package money

import (
	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/card"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/log2"
)

var ErrStationBlocked = errors.New("station blocked, attendant required")

// OrderTotaler is the cart collaborator. The ledger only reads the
// current order total, cart bookkeeping lives elsewhere.
type OrderTotaler interface {
	OrderTotal() currency.Amount
}

// OrderTotalFunc adapts a closure to OrderTotaler.
type OrderTotalFunc func() currency.Amount

func (f OrderTotalFunc) OrderTotal() currency.Amount { return f() }

type FundsSystem struct {
	Log       *log2.Log
	bus       Bus
	inv       *Inventory
	order     OrderTotaler
	totalPaid currency.Amount
	blocked   bool
}

func NewFundsSystem(log *log2.Log, inv *Inventory, order OrderTotaler) *FundsSystem {
	if inv == nil || order == nil {
		panic("code error NewFundsSystem nil collaborator")
	}
	fs := &FundsSystem{Log: log, inv: inv, order: order}
	inv.SetNotify(fs.bus.Broadcast)
	return fs
}

func (fs *FundsSystem) Inventory() *Inventory { return fs.inv }

// Register subscribes a listener to ledger events. Registrations belong
// to the station and survive transaction resets.
func (fs *FundsSystem) Register(l Listener)   { fs.bus.Register(l) }
func (fs *FundsSystem) Deregister(l Listener) { fs.bus.Deregister(l) }

func (fs *FundsSystem) TotalPaid() currency.Amount { return fs.totalPaid }
func (fs *FundsSystem) Blocked() bool              { return fs.blocked }

// AmountOwed is orderTotal-totalPaid floored at zero.
func (fs *FundsSystem) AmountOwed() currency.Amount {
	total := fs.order.OrderTotal()
	if fs.totalPaid >= total {
		return 0
	}
	return total - fs.totalPaid
}

// Overpaid is the amount owed back to the customer.
func (fs *FundsSystem) Overpaid() currency.Amount {
	total := fs.order.OrderTotal()
	if fs.totalPaid <= total {
		return 0
	}
	return fs.totalPaid - total
}

// RecordPayment credits the transaction. A blocked station accepts no
// further money.
func (fs *FundsSystem) RecordPayment(amount currency.Amount) error {
	if fs.blocked {
		return errors.Annotatef(ErrStationBlocked, "payment=%s", amount.Format100I())
	}
	fs.totalPaid += amount
	fs.Log.Debugf("money payment=%s totalPaid=%s", amount.Format100I(), fs.totalPaid.Format100I())
	fs.bus.Broadcast(Event{Kind: EventFundsAdded, Amount: amount})
	return nil
}

// RecordWithdrawal debits reclaimed credit, floored at zero.
func (fs *FundsSystem) RecordWithdrawal(amount currency.Amount) {
	if amount > fs.totalPaid {
		amount = fs.totalPaid
	}
	fs.totalPaid -= amount
	fs.Log.Debugf("money withdrawal=%s totalPaid=%s", amount.Format100I(), fs.totalPaid.Format100I())
	fs.bus.Broadcast(Event{Kind: EventFundsRemoved, Amount: amount})
}

// RejectInvalidFunds forwards a validator/reader decline. Credit is
// untouched.
func (fs *FundsSystem) RejectInvalidFunds(kind PaymentKind) {
	fs.Log.Debugf("money invalid funds kind=%s", kind)
	fs.bus.Broadcast(Event{Kind: EventFundsInvalid, Payment: kind})
}

// EvaluateCompletion settles the transaction once enough is paid.
// Overpayment goes out through the change dispenser; when exact change
// cannot be made the station blocks durably and waits for an attendant.
// Partial change already emitted stays emitted.
func (fs *FundsSystem) EvaluateCompletion() (bool, error) {
	if fs.blocked {
		return false, errors.Annotate(ErrStationBlocked, "evaluate")
	}
	if owed := fs.AmountOwed(); owed > 0 {
		fs.Log.Debugf("money evaluate owed=%s", owed.Format100I())
		return false, nil
	}
	change := fs.Overpaid()
	if change > 0 {
		result, err := fs.inv.DispenseChange(change)
		if err != nil {
			fs.blocked = true
			fs.Log.Errorf("money change failed requested=%s dispensed=%s err=%v",
				change.Format100I(), result.Dispensed.Format100I(), err)
			fs.bus.Broadcast(Event{Kind: EventStationBlocked, Amount: change - result.Dispensed, Err: err})
			return false, errors.Annotate(err, "evaluate")
		}
	}
	fs.Log.Infof("money paid in full change=%s", change.Format100I())
	fs.bus.Broadcast(Event{Kind: EventFundsPaidInFull, Amount: change})
	return true, nil
}

// Unblock is the attendant action clearing the durable blocked state,
// typically after refilling change stock.
func (fs *FundsSystem) Unblock() (bool, error) {
	if !fs.blocked {
		return false, nil
	}
	fs.blocked = false
	fs.Log.Infof("money unblocked by attendant")
	return true, nil
}

// ResetTransaction zeroes the paid total at transaction end or cancel.
// Listener registrations and a blocked state both survive the reset.
func (fs *FundsSystem) ResetTransaction() {
	fs.totalPaid = 0
}

// AcceptPollItem is the validator glue: credit events add money and
// stock, rejects broadcast invalid funds.
func (fs *FundsSystem) AcceptPollItem(pi cash.PollItem) error {
	switch pi.Status {
	case cash.StatusCredit:
		if err := fs.inv.RecordAccepted(pi.Nominal, pi.Kind); err != nil {
			return errors.Annotate(err, "accept")
		}
		return fs.RecordPayment(currency.Amount(pi.Nominal))
	case cash.StatusRejected:
		fs.RejectInvalidFunds(paymentKindOf(pi.Kind))
		return nil
	case cash.StatusDisabled, cash.StatusError:
		fs.Log.Errorf("money validator item=%s", pi.String())
		return pi.Error
	}
	return errors.Errorf("money unexpected poll item=%s", pi.String())
}

// AcceptCardResult routes card authorization into the same ledger flow
// as cash.
func (fs *FundsSystem) AcceptCardResult(res card.Result) error {
	if !res.Approved {
		fs.RejectInvalidFunds(PaymentCard)
		return nil
	}
	return fs.RecordPayment(res.Amount)
}
