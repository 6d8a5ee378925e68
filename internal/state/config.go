package state

import (
	"os"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/tele"
	"github.com/temoto/kiosk/log2"
)

type Config struct { //nolint:maligned
	Money struct {
		// Scale multiplies config integers into currency.Amount units.
		Scale int `hcl:"scale"`
	} `hcl:"money"`

	Currency struct {
		// nominals in lowest currency units, e.g. 25 = $0.25
		Coins             []uint32 `hcl:"coins"`
		Banknotes         []uint32 `hcl:"banknotes"`
		DispenserCapacity uint     `hcl:"dispenser_capacity"`
		StorageCapacity   uint     `hcl:"storage_capacity"`
	} `hcl:"currency"`

	Printer struct {
		PaperCapacity uint `hcl:"paper_capacity"`
		InkCapacity   uint `hcl:"ink_capacity"`
	} `hcl:"printer"`

	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`

	Tele tele.Config `hcl:"tele"`

	Stations []StationConfig `hcl:"station"`

	_copy_guard sync.Mutex //nolint:unused
}

type StationConfig struct {
	Name string `hcl:"name,key"`
}

// configDecode mirrors Config with signed integers because the HCL v1
// decoder cannot decode into unsigned kinds.
type configDecode struct {
	Money struct {
		Scale int `hcl:"scale"`
	} `hcl:"money"`

	Currency struct {
		Coins             []int `hcl:"coins"`
		Banknotes         []int `hcl:"banknotes"`
		DispenserCapacity int   `hcl:"dispenser_capacity"`
		StorageCapacity   int   `hcl:"storage_capacity"`
	} `hcl:"currency"`

	Printer struct {
		PaperCapacity int `hcl:"paper_capacity"`
		InkCapacity   int `hcl:"ink_capacity"`
	} `hcl:"printer"`

	Persist struct {
		Root string `hcl:"root"`
	} `hcl:"persist"`

	Tele tele.Config `hcl:"tele"`

	Stations []StationConfig `hcl:"station"`
}

func (d *configDecode) apply(c *Config) {
	c.Money.Scale = d.Money.Scale
	c.Currency.Coins = make([]uint32, 0, len(d.Currency.Coins))
	for _, u := range d.Currency.Coins {
		c.Currency.Coins = append(c.Currency.Coins, uint32(u))
	}
	c.Currency.Banknotes = make([]uint32, 0, len(d.Currency.Banknotes))
	for _, u := range d.Currency.Banknotes {
		c.Currency.Banknotes = append(c.Currency.Banknotes, uint32(u))
	}
	c.Currency.DispenserCapacity = uint(d.Currency.DispenserCapacity)
	c.Currency.StorageCapacity = uint(d.Currency.StorageCapacity)
	c.Printer.PaperCapacity = uint(d.Printer.PaperCapacity)
	c.Printer.InkCapacity = uint(d.Printer.InkCapacity)
	c.Persist = d.Persist
	c.Tele = d.Tele
	c.Stations = d.Stations
}

func (c *Config) ScaleI(i int) currency.Amount {
	return currency.Amount(i) * currency.Amount(c.Money.Scale)
}
func (c *Config) ScaleU(u uint32) currency.Amount {
	return currency.Amount(u) * currency.Amount(c.Money.Scale)
}

func (c *Config) CoinNominals() []currency.Nominal     { return nominals(c.Currency.Coins, c.Money.Scale) }
func (c *Config) BanknoteNominals() []currency.Nominal { return nominals(c.Currency.Banknotes, c.Money.Scale) }

func nominals(us []uint32, scale int) []currency.Nominal {
	ns := make([]currency.Nominal, 0, len(us))
	for _, u := range us {
		ns = append(ns, currency.Nominal(u)*currency.Nominal(scale))
	}
	return ns
}

func (c *Config) normalize() error {
	errs := make([]error, 0, 4)
	if c.Money.Scale == 0 {
		c.Money.Scale = 1
	}
	if c.Money.Scale < 0 {
		errs = append(errs, errors.Errorf("config money.scale=%d invalid", c.Money.Scale))
	}
	if len(c.Currency.Coins) == 0 && len(c.Currency.Banknotes) == 0 {
		errs = append(errs, errors.Errorf("config currency requires coins and/or banknotes"))
	}
	if c.Currency.DispenserCapacity == 0 {
		c.Currency.DispenserCapacity = 50
	}
	if c.Currency.StorageCapacity == 0 {
		c.Currency.StorageCapacity = 1000
	}
	if c.Printer.PaperCapacity == 0 {
		c.Printer.PaperCapacity = 500
	}
	if c.Printer.InkCapacity == 0 {
		c.Printer.InkCapacity = 100
	}
	if len(c.Stations) == 0 {
		c.Stations = []StationConfig{{Name: "station-1"}}
	}
	seen := make(map[string]struct{}, len(c.Stations))
	for _, sc := range c.Stations {
		if sc.Name == "" {
			errs = append(errs, errors.Errorf("config station with empty name"))
			continue
		}
		if _, ok := seen[sc.Name]; ok {
			errs = append(errs, errors.Errorf("config duplicate station=%s", sc.Name))
		}
		seen[sc.Name] = struct{}{}
	}
	return helpers.FoldErrors(errs)
}

// ReadConfig folds one or more HCL files, later files override.
func ReadConfig(log *log2.Log, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}
	c := &Config{}
	d := &configDecode{}
	errs := make([]error, 0, 8)
	for _, name := range names {
		log.Debugf("config reading path=%s", name)
		bs, err := os.ReadFile(name)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "config source=%s", name))
			continue
		}
		if err = hcl.Unmarshal(bs, d); err != nil {
			errs = append(errs, errors.Annotatef(err, "config unmarshal source=%s", name))
		}
	}
	if len(errs) == 0 {
		d.apply(c)
		if err := c.normalize(); err != nil {
			errs = append(errs, err)
		}
	}
	return c, helpers.FoldErrors(errs)
}

// ParseConfig is ReadConfig for in-memory sources, used by tests.
func ParseConfig(log *log2.Log, source string) (*Config, error) {
	c := &Config{}
	d := &configDecode{}
	if err := hcl.Unmarshal([]byte(source), d); err != nil {
		return nil, errors.Annotate(err, "config unmarshal")
	}
	d.apply(c)
	return c, c.normalize()
}

func MustReadConfig(log *log2.Log, names ...string) *Config {
	c, err := ReadConfig(log, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
