// Package card simulates the card reader. Authorization either approves
// the full amount or declines, there is no partial capture.
package card

import (
	"time"

	"github.com/temoto/kiosk/currency"
)

type Result struct {
	Time     time.Time
	Amount   currency.Amount
	Approved bool
}

type Reader struct {
	declineAll bool
}

func NewReader() *Reader { return &Reader{} }

// SetDeclineAll makes every following authorization fail, simulating
// an issuer outage or a bad card.
func (r *Reader) SetDeclineAll(v bool) { r.declineAll = v }

func (r *Reader) Authorize(amount currency.Amount) Result {
	return Result{
		Time:     time.Now(),
		Amount:   amount,
		Approved: !r.declineAll && amount > 0,
	}
}
