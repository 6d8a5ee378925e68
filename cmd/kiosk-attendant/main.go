// Command kiosk-attendant is an interactive console over the attendant
// operations: station enable/disable, cash empty/refill, unblock,
// consumable refills. It also simulates customer actions (order, coin,
// note, card) to exercise a station end to end.
package main

import (
	"flag"
	"os"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/juju/errors"
	"github.com/temoto/kiosk/currency"
	"github.com/temoto/kiosk/hardware/cash"
	"github.com/temoto/kiosk/helpers/cli"
	"github.com/temoto/kiosk/internal/attendant"
	"github.com/temoto/kiosk/internal/state"
	"github.com/temoto/kiosk/log2"
)

const usage = `syntax: command [station] [arg]
(attendant)
- stations              list stations and status
- enable NAME           open station for customers
- disable NAME          close station
- unblock NAME          clear funds block
- empty-coins NAME      unload coin dispensers and storage to vault
- empty-notes NAME      unload banknote dispensers and storage to vault
- refill-coins NAME     top coin dispensers up to capacity
- refill-notes NAME     top banknote dispensers up to capacity
- refill-paper NAME     top up printer paper
- refill-ink NAME       top up printer ink
- assist                list stations waiting for assistance
- ack NAME              acknowledge assistance request

(customer simulation)
- order NAME AMOUNT     set order total in lowest currency units
- coin NAME NOMINAL     insert a coin
- note NAME NOMINAL     insert a banknote
- card NAME             pay the remaining total by card
`

var log = log2.NewStderr(log2.LDebug)

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	flagConfig := cmdline.String("config", "kiosk.hcl", "")
	cmdline.Parse(os.Args[1:]) //nolint:errcheck

	log.SetFlags(log2.LInteractiveFlags)

	ctx, g := state.NewContext(log)
	g.MustInit(ctx, state.MustReadConfig(log, *flagConfig))
	ctrl := attendant.NewController(g)

	cli.MainLoop("kiosk-attendant", newExecutor(g, ctrl), newCompleter())
	g.Stop()
}

func newCompleter() func(d prompt.Document) []prompt.Suggest {
	suggests := []prompt.Suggest{
		{Text: "stations", Description: "list stations and status"},
		{Text: "enable", Description: "open station for customers"},
		{Text: "disable", Description: "close station"},
		{Text: "unblock", Description: "clear funds block"},
		{Text: "empty-coins", Description: "unload coins to vault"},
		{Text: "empty-notes", Description: "unload banknotes to vault"},
		{Text: "refill-coins", Description: "top up coin dispensers"},
		{Text: "refill-notes", Description: "top up banknote dispensers"},
		{Text: "refill-paper", Description: "top up printer paper"},
		{Text: "refill-ink", Description: "top up printer ink"},
		{Text: "assist", Description: "list assistance requests"},
		{Text: "ack", Description: "acknowledge assistance request"},
		{Text: "order", Description: "set order total"},
		{Text: "coin", Description: "insert a coin"},
		{Text: "note", Description: "insert a banknote"},
		{Text: "card", Description: "pay remaining total by card"},
		{Text: "help", Description: "show command reference"},
	}
	return func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterFuzzy(suggests, d.GetWordBeforeCursor(), true)
	}
}

func newExecutor(g *state.Global, ctrl *attendant.Controller) func(string) {
	return func(line string) {
		words := strings.Fields(line)
		if len(words) == 0 {
			return
		}
		if err := execute(g, ctrl, words); err != nil {
			log.Errorf(errors.ErrorStack(err))
		}
	}
}

func execute(g *state.Global, ctrl *attendant.Controller, words []string) error {
	cmd := words[0]
	switch cmd {
	case "help":
		log.Infof(usage)
		return nil

	case "stations":
		for _, s := range g.Stations() {
			log.Infof("%s enabled=%t blocked=%t paid=%s owed=%s assist=%t",
				s.Name, s.Enabled(), s.Funds.Blocked(),
				s.Funds.TotalPaid().Format100I(), s.Funds.AmountOwed().Format100I(),
				s.NeedsAssistance())
		}
		return nil

	case "assist":
		for _, name := range ctrl.PendingAssistance() {
			log.Infof("assistance wanted: %s", name)
		}
		return nil
	}

	if len(words) < 2 {
		return errors.Errorf("command %s requires a station name, try help", cmd)
	}
	name := words[1]

	switch cmd {
	case "enable":
		return report(ctrl.Enable(name))
	case "disable":
		return report(ctrl.Disable(name))
	case "unblock":
		return report(ctrl.Unblock(name))
	case "ack":
		return report(ctrl.Acknowledge(name))

	case "empty-coins":
		removed, err := ctrl.EmptyCoins(name)
		logRemoved(removed.Count, removed.Value, err)
		return err
	case "empty-notes":
		removed, err := ctrl.EmptyBanknotes(name)
		logRemoved(removed.Count, removed.Value, err)
		return err

	case "refill-coins":
		return logAdded(ctrl.RefillCoins(name))
	case "refill-notes":
		return logAdded(ctrl.RefillBanknotes(name))
	case "refill-paper":
		return logAdded(ctrl.RefillPaper(name))
	case "refill-ink":
		return logAdded(ctrl.RefillInk(name))

	case "order":
		amount, err := argAmount(words)
		if err != nil {
			return err
		}
		s, err := g.Station(name)
		if err != nil {
			return err
		}
		s.SetOrderTotal(amount)
		log.Infof("%s order total=%s", name, amount.Format100I())
		return nil

	case "coin":
		return insert(g, name, cash.KindCoin, words)
	case "note":
		return insert(g, name, cash.KindBanknote, words)

	case "card":
		s, err := g.Station(name)
		if err != nil {
			return err
		}
		owed := s.Funds.AmountOwed()
		if err = s.Funds.AcceptCardResult(s.Hardware.CardReader.Authorize(owed)); err != nil {
			return err
		}
		return settle(g, s)
	}
	return errors.Errorf("invalid command '%s', try help", cmd)
}

func insert(g *state.Global, name string, kind cash.Kind, words []string) error {
	amount, err := argAmount(words)
	if err != nil {
		return err
	}
	s, err := g.Station(name)
	if err != nil {
		return err
	}
	if !s.Enabled() {
		return errors.Errorf("station=%s disabled", name)
	}
	v := s.Hardware.CoinValidator
	if kind == cash.KindBanknote {
		v = s.Hardware.BanknoteValidator
	}
	if err = v.Insert(currency.Nominal(amount)); err != nil {
		return err
	}
	item := <-v.Events()
	log.Infof("%s %s", name, item.String())
	if err = s.Funds.AcceptPollItem(item); err != nil {
		return err
	}
	return settle(g, s)
}

func settle(g *state.Global, s *state.Station) error {
	done, err := s.Funds.EvaluateCompletion()
	if err != nil {
		return err
	}
	if done {
		log.Infof("%s paid in full total=%s", s.Name, s.Funds.TotalPaid().Format100I())
		s.Funds.ResetTransaction()
		s.SetOrderTotal(0)
	} else {
		log.Infof("%s owed=%s", s.Name, s.Funds.AmountOwed().Format100I())
	}
	return s.Persist.Store()
}

func argAmount(words []string) (currency.Amount, error) {
	if len(words) < 3 {
		return 0, errors.Errorf("command %s requires an amount", words[0])
	}
	u, err := strconv.ParseUint(words[2], 10, 32)
	if err != nil {
		return 0, errors.Annotatef(err, "amount=%s", words[2])
	}
	return currency.Amount(u), nil
}

func report(changed bool, err error) error {
	if err != nil {
		return err
	}
	if changed {
		log.Infof("done")
	} else {
		log.Infof("already in requested state")
	}
	return nil
}

func logRemoved(count uint, value currency.Amount, err error) {
	if err == nil {
		log.Infof("removed count=%d value=%s", count, value.Format100I())
	}
}

func logAdded(added uint, err error) error {
	if err != nil {
		return err
	}
	log.Infof("added=%d", added)
	return nil
}
