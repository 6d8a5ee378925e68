package state

import (
	"sync/atomic"

	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/card"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/hardware/printer"
	"github.com/temoto/kiosk/internal/money"
)

// Station is one self-checkout lane: its cash hardware, funds ledger
// and persistence. The customer session serializes all money flow, the
// atomic flags are the only cross-goroutine surface.
type Station struct { //nolint:maligned
	Name     string
	Funds    *money.FundsSystem
	Persist  Persist
	Hardware struct {
		CoinValidator     *cash.Validator
		BanknoteValidator *cash.Validator
		CardReader        *card.Reader
		Printer           *printer.Printer
	}

	enabled     uint32
	orderTotal  uint32
	needsAssist uint32
}

func (s *Station) Enabled() bool { return atomic.LoadUint32(&s.enabled) == 1 }

// SetEnabled reports whether the state actually changed, repeated
// enable/disable is a no-op.
func (s *Station) SetEnabled(v bool) bool {
	nv := uint32(0)
	if v {
		nv = 1
	}
	return atomic.SwapUint32(&s.enabled, nv) != nv
}

func (s *Station) OrderTotal() currency.Amount {
	return currency.Amount(atomic.LoadUint32(&s.orderTotal))
}
func (s *Station) SetOrderTotal(a currency.Amount) {
	atomic.StoreUint32(&s.orderTotal, uint32(a))
}

// RequestAssistance raises the attendant flag, reports whether it was
// newly raised.
func (s *Station) RequestAssistance() bool {
	return atomic.SwapUint32(&s.needsAssist, 1) != 1
}

func (s *Station) NeedsAssistance() bool { return atomic.LoadUint32(&s.needsAssist) == 1 }

// AcknowledgeAssistance clears the flag, reports whether it was set.
func (s *Station) AcknowledgeAssistance() bool {
	return atomic.SwapUint32(&s.needsAssist, 0) != 0
}
