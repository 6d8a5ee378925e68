package state

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/atomic_clock"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/card"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/hardware/printer"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/money"
	"github.com/temoto/kiosk/internal/tele"
	"github.com/temoto/kiosk/log2"
)

type Global struct {
	Alive     *alive.Alive
	BootClock atomic_clock.Clock
	Config    *Config
	Log       *log2.Log
	Tele      *tele.Tele
	Vault     *cash.Vault

	lk       sync.Mutex
	stations map[string]*Station
}

const ContextKey = "run/state-global"

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error NewContext() log=nil")
	}
	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
		Tele:  &tele.Tele{},
		Vault: cash.NewVault(),
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, log2.ContextKey, log)
	ctx = context.WithValue(ctx, ContextKey, g)
	return ctx, g
}

// If Init fails, consider Global is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg
	g.BootClock.SetNowIfZero()

	if g.Config.Persist.Root == "" {
		g.Config.Persist.Root = "./tmp-kiosk-db"
		g.Log.Errorf("config: persist.root=empty changed=%s", g.Config.Persist.Root)
	}
	g.Log.Debugf("config: persist.root=%s", g.Config.Persist.Root)

	// Tele is the remote error reporting mechanism, init before anything else.
	if err := g.Tele.Init(ctx, g.Log, g.Config.Tele); err != nil {
		return errors.Annotate(err, "tele init")
	}

	errs := make([]error, 0)
	g.stations = make(map[string]*Station, len(g.Config.Stations))
	for _, sc := range g.Config.Stations {
		s, err := g.newStation(sc)
		if err != nil {
			errs = append(errs, errors.Annotatef(err, "station=%s", sc.Name))
			continue
		}
		g.stations[s.Name] = s
	}
	return helpers.FoldErrors(errs)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	if err := g.Init(ctx, cfg); err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) newStation(sc StationConfig) (*Station, error) {
	cfg := g.Config
	s := &Station{Name: sc.Name}

	coins := money.KindSet{
		Dispensers: make(map[currency.Nominal]*cash.Dispenser, len(cfg.Currency.Coins)),
		Storage:    cash.NewStorage(cash.KindCoin, cfg.Currency.StorageCapacity),
	}
	for _, n := range cfg.CoinNominals() {
		coins.Dispensers[n] = cash.NewDispenser(cash.KindCoin, n, cfg.Currency.DispenserCapacity)
	}
	notes := money.KindSet{
		Dispensers: make(map[currency.Nominal]*cash.Dispenser, len(cfg.Currency.Banknotes)),
		Storage:    cash.NewStorage(cash.KindBanknote, cfg.Currency.StorageCapacity),
	}
	for _, n := range cfg.BanknoteNominals() {
		notes.Dispensers[n] = cash.NewDispenser(cash.KindBanknote, n, cfg.Currency.DispenserCapacity)
	}

	inv := money.NewInventory(g.Log, coins, notes, g.Vault)
	s.Funds = money.NewFundsSystem(g.Log, inv, money.OrderTotalFunc(s.OrderTotal))
	s.Funds.Register(&teleListener{g: g, station: s})

	s.Hardware.CoinValidator = cash.NewValidator(cash.KindCoin, cfg.CoinNominals())
	s.Hardware.BanknoteValidator = cash.NewValidator(cash.KindBanknote, cfg.BanknoteNominals())
	s.Hardware.CardReader = card.NewReader()
	s.Hardware.Printer = printer.New(cfg.Printer.PaperCapacity, cfg.Printer.InkCapacity)

	err := s.Persist.Init("inventory-"+s.Name, inv, cfg.Persist.Root, g.Log)
	if err == nil {
		err = s.Persist.Load()
	}
	if err != nil {
		g.Error(err)
		return nil, err
	}
	s.SetEnabled(true)
	return s, nil
}

func (g *Global) Station(name string) (*Station, error) {
	g.lk.Lock()
	defer g.lk.Unlock()
	if s, ok := g.stations[name]; ok {
		return s, nil
	}
	return nil, errors.NotFoundf("station=%s", name)
}

// Stations returns all stations sorted by name.
func (g *Global) Stations() []*Station {
	g.lk.Lock()
	defer g.lk.Unlock()
	ss := make([]*Station, 0, len(g.stations))
	for _, s := range g.stations {
		ss = append(ss, s)
	}
	sort.Slice(ss, func(i, j int) bool { return ss[i].Name < ss[j].Name })
	return ss
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
		g.Tele.Error(err)
	}
}

// StationState builds the tele payload for one station.
func (g *Global) StationState(s *Station) tele.StationState {
	coins := make(map[uint32]uint32, 8)
	notes := make(map[uint32]uint32, 8)
	s.Funds.Inventory().Dispensable(cash.KindCoin).ToMapUint32(coins)
	s.Funds.Inventory().Dispensable(cash.KindBanknote).ToMapUint32(notes)
	return tele.StationState{
		Name:      s.Name,
		Enabled:   s.Enabled(),
		Blocked:   s.Funds.Blocked(),
		UptimeSec: uint32(atomic_clock.Since(&g.BootClock) / time.Second),
		TotalPaid: uint32(s.Funds.TotalPaid()),
		Coins:     coins,
		Banknotes: notes,
	}
}

// StoreAll persists every station's inventory counters.
func (g *Global) StoreAll() error {
	errs := make([]error, 0)
	for _, s := range g.Stations() {
		if err := s.Persist.Store(); err != nil {
			errs = append(errs, err)
		}
	}
	return helpers.FoldErrors(errs)
}

func (g *Global) Stop() {
	g.Alive.Stop()
	g.Alive.Wait()
	if err := g.StoreAll(); err != nil {
		g.Log.Errorf(errors.ErrorStack(err))
	}
	g.Tele.Close()
}

// teleListener mirrors one station's ledger events to telemetry.
type teleListener struct {
	g       *Global
	station *Station
}

func (tl *teleListener) FundsEvent(e money.Event) {
	tl.g.Tele.Event(tl.station.Name, e)
	if e.Kind == money.EventStationBlocked {
		tl.g.Tele.State(tl.g.StationState(tl.station))
	}
}
