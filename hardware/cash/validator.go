package cash

import (
	"fmt"
	"time"

	"github.com/juju/errors"
	alive "github.com/temoto/alive/v2"
	"github.com/temoto/kiosk/currency"
)

// Validator simulates a coin or banknote validator. Physical inserts
// arrive via Insert(), validation events leave through Run().
type Validator struct {
	kind     Kind
	valid    map[currency.Nominal]struct{}
	disabled bool
	events   chan PollItem
}

func NewValidator(kind Kind, valid []currency.Nominal) *Validator {
	v := &Validator{
		kind:   kind,
		valid:  make(map[currency.Nominal]struct{}, len(valid)),
		events: make(chan PollItem, 16),
	}
	for _, n := range valid {
		v.valid[n] = struct{}{}
	}
	return v
}

func (v *Validator) Kind() Kind         { return v.kind }
func (v *Validator) Disabled() bool     { return v.disabled }
func (v *Validator) SetDisabled(d bool) { v.disabled = d }

func (v *Validator) String() string { return fmt.Sprintf("validator(%s)", v.kind) }

// Insert simulates a customer presenting one physical coin/banknote.
// Unknown nominal produces a Rejected event, the instrument bounces back.
func (v *Validator) Insert(n currency.Nominal) error {
	if v.disabled {
		return errors.Annotate(ErrDisabled, v.String())
	}
	item := PollItem{Time: time.Now(), Kind: v.kind, Nominal: n}
	if _, ok := v.valid[n]; ok {
		item.Status = StatusCredit
	} else {
		item.Status = StatusRejected
	}
	v.events <- item
	return nil
}

// Events exposes the poll stream for hosts that merge several devices
// into one service goroutine.
func (v *Validator) Events() <-chan PollItem { return v.events }

// Run delivers validation events to fun until a.Stop() or fun returns false.
// Mirrors the device poll loop of real validators.
func (v *Validator) Run(a *alive.Alive, fun func(PollItem) bool) {
	defer a.Done()
	stopch := a.StopChan()
	for {
		select {
		case item := <-v.events:
			if !fun(item) {
				return
			}
		case <-stopch:
			return
		}
	}
}
