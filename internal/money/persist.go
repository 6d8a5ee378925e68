package money

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
)

const persistHeader = "kiosk-inventory 1"

// MarshalBinary emits a line-per-counter text form. Text survives manual
// inspection and editing on a bricked station better than any binary
// encoding would.
func (inv *Inventory) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, 256))
	fmt.Fprintln(buf, persistHeader)
	for _, ks := range []*kindState{inv.coin, inv.note} {
		tag := "c"
		if ks.kind == cash.KindBanknote {
			tag = "b"
		}
		for _, n := range ks.available.Nominals() {
			fmt.Fprintf(buf, "%s %d %d\n", tag, uint32(n), ks.available.InventoryGet(n))
		}
		count := ks.hw.Storage.Count()
		value := ks.hw.Storage.Value()
		fmt.Fprintf(buf, "s%s %d %d\n", tag, count, uint32(value))
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary restores counters written by MarshalBinary. Counters
// for nominals absent from the current currency configuration are
// logged and skipped.
func (inv *Inventory) UnmarshalBinary(b []byte) error {
	sc := bufio.NewScanner(bytes.NewReader(b))
	if !sc.Scan() || sc.Text() != persistHeader {
		return errors.Errorf("inventory persist bad header")
	}

	for _, ks := range []*kindState{inv.coin, inv.note} {
		for _, d := range ks.hw.Dispensers {
			d.Unload()
		}
		ks.hw.Storage.Restore(0, 0)
		ks.available.Clear()
	}

	lineNo := 1
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return errors.Errorf("inventory persist line=%d malformed: %s", lineNo, line)
		}
		a, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return errors.Annotatef(err, "inventory persist line=%d", lineNo)
		}
		b2, err := strconv.ParseUint(fields[2], 10, 32)
		if err != nil {
			return errors.Annotatef(err, "inventory persist line=%d", lineNo)
		}

		switch fields[0] {
		case "c", "b":
			ks := inv.coin
			if fields[0] == "b" {
				ks = inv.note
			}
			n := currency.Nominal(a)
			d, ok := ks.hw.Dispensers[n]
			if !ok {
				inv.Log.Errorf("inventory persist skip unknown kind=%s nominal=%d", ks.kind, a)
				continue
			}
			d.Restore(uint(b2))
			if d.Size() > 0 {
				ks.available.MustAdd(n, d.Size())
			}

		case "sc", "sb":
			ks := inv.coin
			if fields[0] == "sb" {
				ks = inv.note
			}
			ks.hw.Storage.Restore(uint(a), currency.Amount(b2))

		default:
			return errors.Errorf("inventory persist line=%d unknown tag=%s", lineNo, fields[0])
		}
	}
	return errors.Annotate(sc.Err(), "inventory persist")
}
