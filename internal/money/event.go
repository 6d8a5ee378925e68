package money

import (
	"fmt"
	"time"

	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
)

type EventKind uint8

const (
	EventInvalid EventKind = iota
	EventFundsAdded
	EventFundsRemoved
	EventFundsInvalid
	EventFundsPaidInFull
	EventStationBlocked
	EventHighCoins
	EventLowCoins
	EventHighBanknotes
	EventLowBanknotes
)

func (ek EventKind) String() string {
	switch ek {
	case EventFundsAdded:
		return "FundsAdded"
	case EventFundsRemoved:
		return "FundsRemoved"
	case EventFundsInvalid:
		return "FundsInvalid"
	case EventFundsPaidInFull:
		return "FundsPaidInFull"
	case EventStationBlocked:
		return "StationBlocked"
	case EventHighCoins:
		return "HighCoins"
	case EventLowCoins:
		return "LowCoins"
	case EventHighBanknotes:
		return "HighBanknotes"
	case EventLowBanknotes:
		return "LowBanknotes"
	}
	return "Invalid"
}

type PaymentKind uint8

const (
	PaymentInvalid PaymentKind = iota
	PaymentCoin
	PaymentBanknote
	PaymentCard
)

func (pk PaymentKind) String() string {
	switch pk {
	case PaymentCoin:
		return "coin"
	case PaymentBanknote:
		return "banknote"
	case PaymentCard:
		return "card"
	}
	return "invalid"
}

func paymentKindOf(k cash.Kind) PaymentKind {
	switch k {
	case cash.KindCoin:
		return PaymentCoin
	case cash.KindBanknote:
		return PaymentBanknote
	}
	return PaymentInvalid
}

type Event struct {
	Created time.Time
	Err     error
	Amount  currency.Amount
	Kind    EventKind
	Payment PaymentKind
}

func (e *Event) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e *Event) String() string {
	return fmt.Sprintf("money.Event(kind=%s payment=%s amount=%s err='%s')",
		e.Kind.String(), e.Payment.String(), e.Amount.Format100I(), e.Error())
}

// Listener receives ledger events. Implementations must be comparable,
// registration is keyed by identity.
type Listener interface {
	FundsEvent(Event)
}

// Bus fans ledger events out to the display and attendant layers.
// Not safe for concurrent use, the station serializes all inputs.
type Bus struct {
	subs []Listener
}

// Register subscribes l. Re-registering is a no-op, order of first
// registration is the delivery order.
func (b *Bus) Register(l Listener) {
	if l == nil {
		return
	}
	for _, cur := range b.subs {
		if cur == l {
			return
		}
	}
	b.subs = append(b.subs, l)
}

// Deregister unsubscribes l, no-op when not registered.
func (b *Bus) Deregister(l Listener) {
	for i, cur := range b.subs {
		if cur == l {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Broadcast delivers e to every listener registered at call time.
// The snapshot keeps a handler free to deregister itself or others
// without breaking the current delivery round.
func (b *Bus) Broadcast(e Event) {
	if e.Created.IsZero() {
		e.Created = time.Now()
	}
	snapshot := make([]Listener, len(b.subs))
	copy(snapshot, b.subs)
	for _, l := range snapshot {
		l.FundsEvent(e)
	}
}
