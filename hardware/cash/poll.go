package cash

import (
	"fmt"
	"time"

	"github.com/temoto/kiosk/currency"
)

type PollItemStatus byte

const (
	statusZero PollItemStatus = iota
	StatusCredit
	StatusRejected
	StatusDisabled
	StatusError
)

func (s PollItemStatus) String() string {
	switch s {
	case StatusCredit:
		return "Credit"
	case StatusRejected:
		return "Rejected"
	case StatusDisabled:
		return "Disabled"
	case StatusError:
		return "Error"
	}
	return "zero"
}

// PollItem is one hardware validation event.
type PollItem struct {
	Time    time.Time
	Status  PollItemStatus
	Kind    Kind
	Nominal currency.Nominal
	Error   error
}

func (pi *PollItem) String() string {
	return fmt.Sprintf("status=%s kind=%s nominal=%s err=%v",
		pi.Status.String(), pi.Kind.String(),
		currency.Amount(pi.Nominal).Format100I(), pi.Error)
}
