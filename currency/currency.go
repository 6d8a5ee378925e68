package currency

import (
	"fmt"
	"sort"
	"strings"

	"github.com/juju/errors"
)

// Amount is integer counting lowest currency unit, e.g. $1.20 = 120
type Amount uint32

func (a Amount) Format100I() string { return fmt.Sprint(float32(a) / 100) }

// Nominal is value of one coin or banknote
type Nominal Amount

var (
	ErrNominalInvalid = errors.New("Nominal is not valid for this group")
	ErrNominalCount   = errors.New("Not enough nominals for this amount")
)

// NominalGroup tracks money comprised of multiple nominals, like coins or banknotes.
// coin25 : 3
// coin100: 1
// total  : 175
type NominalGroup struct {
	values map[Nominal]uint
}

func (ng *NominalGroup) SetValid(valid []Nominal) {
	ng.values = make(map[Nominal]uint, len(valid))
	for _, n := range valid {
		if n != 0 {
			ng.values[n] = 0
		}
	}
}

func (ng *NominalGroup) Copy() *NominalGroup {
	ng2 := &NominalGroup{
		values: make(map[Nominal]uint, len(ng.values)),
	}
	for k, v := range ng.values {
		ng2.values[k] = v
	}
	return ng2
}

func (ng *NominalGroup) Add(n Nominal, count uint) error {
	if _, ok := ng.values[n]; !ok {
		return errors.Annotatef(ErrNominalInvalid, "Add(n=%s, c=%d)", Amount(n).Format100I(), count)
	}
	ng.values[n] += count
	return nil
}

func (ng *NominalGroup) MustAdd(n Nominal, count uint) {
	if err := ng.Add(n, count); err != nil {
		panic(err)
	}
}

// Take removes count units of nominal, failing without modification
// when fewer are stored.
func (ng *NominalGroup) Take(n Nominal, count uint) error {
	stored, ok := ng.values[n]
	if !ok {
		return errors.Annotatef(ErrNominalInvalid, "Take(n=%s, c=%d)", Amount(n).Format100I(), count)
	}
	if stored < count {
		return errors.Annotatef(ErrNominalCount, "Take(n=%s, c=%d) stored=%d", Amount(n).Format100I(), count, stored)
	}
	ng.values[n] = stored - count
	return nil
}

func (ng *NominalGroup) AddFrom(source *NominalGroup) {
	if ng.values == nil {
		ng.values = make(map[Nominal]uint, len(source.values))
	}
	for k, v := range source.values {
		ng.values[k] += v
	}
}

func (ng *NominalGroup) Clear() {
	for n := range ng.values {
		ng.values[n] = 0
	}
}

func (ng *NominalGroup) Get(n Nominal) (uint, error) {
	stored, ok := ng.values[n]
	if !ok {
		return 0, ErrNominalInvalid
	}
	return stored, nil
}

func (ng *NominalGroup) InventoryGet(n Nominal) uint { return ng.values[n] }

// Iter visits nominals in descending value order, deterministic for tests.
func (ng *NominalGroup) Iter(f func(nominal Nominal, count uint) error) error {
	for _, n := range ng.Nominals() {
		if err := f(n, ng.values[n]); err != nil {
			return err
		}
	}
	return nil
}

// Nominals returns the valid set sorted by value descending.
func (ng *NominalGroup) Nominals() []Nominal {
	order := make([]Nominal, 0, len(ng.values))
	for n := range ng.values {
		order = append(order, n)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] > order[j] })
	return order
}

func (ng *NominalGroup) Total() Amount {
	sum := Amount(0)
	for nominal, count := range ng.values {
		sum += Amount(nominal) * Amount(count)
	}
	return sum
}

func (ng *NominalGroup) Count() uint {
	total := uint(0)
	for _, count := range ng.values {
		total += count
	}
	return total
}

// Contains reports whether some subset of stored nominals sums exactly to a.
// Dynamic programming over reachable sums bounded by stored counts.
func (ng *NominalGroup) Contains(a Amount) bool {
	if a == 0 {
		return true
	}
	if ng.Total() < a {
		return false
	}
	reach := make([]bool, a+1)
	reach[0] = true
	for n, count := range ng.values {
		if n == 0 || count == 0 {
			continue
		}
		// bounded-knapsack fill, high to low to spend each unit once
		for c := uint(0); c < count; c++ {
			changed := false
			for sum := int64(a) - int64(n); sum >= 0; sum-- {
				if reach[sum] && !reach[sum+int64(n)] {
					reach[sum+int64(n)] = true
					changed = true
				}
			}
			if reach[a] {
				return true
			}
			if !changed {
				break
			}
		}
	}
	return reach[a]
}

// Withdraw moves amount from ng into to, one nominal unit per step,
// always preferring the largest nominal that fits the remainder.
// On ErrNominalCount the units moved so far stay moved, mirroring
// physical dispense where emitted cash cannot be rolled back.
func (ng *NominalGroup) Withdraw(to *NominalGroup, amount Amount) error {
	order := ng.Nominals()
	for amount > 0 {
		n, err := ng.expendOne(order, amount)
		if err != nil {
			return err
		}
		amount -= Amount(n)
		if to != nil {
			if to.values == nil {
				to.values = make(map[Nominal]uint, len(order))
			}
			to.values[n]++
		}
	}
	return nil
}

// expendOne takes one unit of the largest stored nominal not above max.
func (ng *NominalGroup) expendOne(order []Nominal, max Amount) (Nominal, error) {
	if max == 0 {
		return 0, nil
	}
	for _, n := range order {
		if Amount(n) <= max && ng.values[n] > 0 {
			ng.values[n]--
			return n, nil
		}
	}
	return 0, ErrNominalCount
}

func (ng *NominalGroup) String() string {
	parts := make([]string, 0, len(ng.values)+1)
	sum := Amount(0)
	for nominal, count := range ng.values {
		if count > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", Amount(nominal).Format100I(), count))
			sum += Amount(nominal) * Amount(count)
		}
	}
	sort.Strings(parts)
	parts = append(parts, fmt.Sprintf("total:%s", sum.Format100I()))
	return strings.Join(parts, ",")
}

func (ng *NominalGroup) ToMapUint32(m map[uint32]uint32) {
	for nominal, count := range ng.values {
		if count > 0 {
			m[uint32(nominal)] = uint32(count)
		}
	}
}
