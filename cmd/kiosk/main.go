// Command kiosk runs the self-checkout station controller: cash intake,
// change dispensing, attendant hooks and telemetry for every configured
// station.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/helpers"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/log2"
)

var log = log2.NewStderr(log2.LDebug)

const defaultStateInterval = 5 * time.Minute

func main() {
	flagConfig := flag.String("config", "kiosk.hcl", "")
	flag.Parse()

	if sdnotify("start") {
		// under systemd, journal adds timestamps
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	log.Debugf("hello")

	ctx, g := state.NewContext(log)
	g.MustInit(ctx, state.MustReadConfig(log, *flagConfig))

	for _, s := range g.Stations() {
		if !g.Alive.Add(1) {
			break
		}
		go stationLoop(g, s)
	}
	if g.Alive.Add(1) {
		go stateWorker(g)
	}

	sdnotify(daemon.SdNotifyReady)
	log.Infof("init complete stations=%d", len(g.Stations()))

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-signalCh:
		log.Infof("signal=%v", sig)
	case <-g.Alive.StopChan():
	}
	g.Stop()
	log.Infof("goodbye")
}

// stationLoop is the single goroutine serializing one station's money
// flow: both validators, ledger updates and change dispensing.
func stationLoop(g *state.Global, s *state.Station) {
	defer g.Alive.Done()
	stopch := g.Alive.StopChan()
	coinch := s.Hardware.CoinValidator.Events()
	notech := s.Hardware.BanknoteValidator.Events()
	for {
		select {
		case item := <-coinch:
			onPollItem(g, s, item)
		case item := <-notech:
			onPollItem(g, s, item)
		case <-stopch:
			return
		}
	}
}

func onPollItem(g *state.Global, s *state.Station, item cash.PollItem) {
	if err := s.Funds.AcceptPollItem(item); err != nil {
		g.Error(err, "station=%s", s.Name)
		return
	}
	done, err := s.Funds.EvaluateCompletion()
	if err != nil {
		g.Error(err, "station=%s", s.Name)
	}
	if done {
		log.Infof("station=%s paid in full total=%s", s.Name, s.Funds.TotalPaid().Format100I())
		s.Funds.ResetTransaction()
		s.SetOrderTotal(0)
	}
	if err := s.Persist.Store(); err != nil {
		g.Error(err, "station=%s", s.Name)
	}
}

// stateWorker pushes retained station snapshots to telemetry.
func stateWorker(g *state.Global) {
	defer g.Alive.Done()
	interval := helpers.IntSecondDefault(g.Config.Tele.StateIntervalSec, defaultStateInterval)
	tmr := time.NewTicker(interval)
	defer tmr.Stop()
	stopch := g.Alive.StopChan()
	for {
		select {
		case <-tmr.C:
			for _, s := range g.Stations() {
				g.Tele.State(g.StationState(s))
			}
		case <-stopch:
			return
		}
	}
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
