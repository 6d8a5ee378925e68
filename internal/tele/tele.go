package tele

import (
	"context"
	"encoding/json"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/kiosk/internal/money"
	"github.com/temoto/kiosk/log2"
)

const defaultNetworkTimeout = 30 * time.Second

// Tele contract:
// - Init() fails only on invalid config, network issues are ignored
// - State/Event/Error never block on the network, delivery is best effort
// - State messages are retained, observers always see the latest
// - Close() disconnects the transport
type Tele struct {
	enabled   bool
	log       *log2.Log
	transport Transporter
	stat      Stat
}

func (t *Tele) Init(ctx context.Context, log *log2.Log, teleConfig Config) error {
	t.enabled = teleConfig.Enable
	t.log = log.Clone(log2.LInfo)
	if teleConfig.LogDebug {
		t.log.SetLevel(log2.LDebug)
	}
	if !t.enabled {
		return nil
	}

	// test code sets .transport
	if t.transport == nil { // production path
		t.transport = &transportMqtt{}
	}
	if err := t.transport.Init(ctx, t.log, teleConfig); err != nil {
		return errors.Annotate(err, "tele transport")
	}
	return nil
}

func (t *Tele) Close() {
	if !t.enabled {
		return
	}
	t.transport.Close()
}

func (t *Tele) State(s StationState) {
	if !t.enabled {
		return
	}
	payload, err := json.Marshal(s)
	if err != nil {
		t.log.Errorf("CRITICAL tele state marshal s=%#v err=%v", s, err)
		return
	}
	sent := t.transport.SendState(s.Name, payload)
	t.stat.Lock()
	if sent {
		t.stat.StatesSent++
		t.stat.LastStateAt.SetNow()
	}
	t.stat.Unlock()
}

func (t *Tele) Event(stationName string, e money.Event) {
	if !t.enabled {
		return
	}
	se := StationEvent{
		Station: stationName,
		Kind:    e.Kind.String(),
		Amount:  uint32(e.Amount),
		Payment: e.Payment.String(),
	}
	if e.Err != nil {
		se.Error = e.Err.Error()
	}
	payload, err := json.Marshal(se)
	if err != nil {
		t.log.Errorf("CRITICAL tele event marshal e=%#v err=%v", se, err)
		return
	}
	sent := t.transport.SendEvent(stationName, payload)
	t.stat.Lock()
	if sent {
		t.stat.EventsSent++
	} else {
		t.stat.EventsLost++
	}
	t.stat.Unlock()
}

func (t *Tele) Error(err error) {
	if err == nil || !t.enabled {
		return
	}
	payload, jerr := json.Marshal(StationEvent{Kind: "error", Error: err.Error()})
	if jerr != nil {
		t.log.Errorf("CRITICAL tele error marshal err=%v jerr=%v", err, jerr)
		return
	}
	t.transport.SendEvent("", payload)
}

func (t *Tele) StatClone() Stat {
	t.stat.Lock()
	defer t.stat.Unlock()
	return Stat{
		StatesSent: t.stat.StatesSent,
		EventsSent: t.stat.EventsSent,
		EventsLost: t.stat.EventsLost,
	}
}
