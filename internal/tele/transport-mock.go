package tele

import (
	"context"

	"github.com/temoto/kiosk/log2"
)

type transportMock struct {
	log    *log2.Log
	states []string
	events []string
	refuse bool
}

func (tm *transportMock) Init(ctx context.Context, log *log2.Log, teleConfig Config) error {
	tm.log = log
	return nil
}
func (tm *transportMock) Close() {}

func (tm *transportMock) SendState(stationName string, payload []byte) bool {
	tm.log.Debugf("mock sendstate station=%s payload=%s", stationName, payload)
	if tm.refuse {
		return false
	}
	tm.states = append(tm.states, stationName+":"+string(payload))
	return true
}

func (tm *transportMock) SendEvent(stationName string, payload []byte) bool {
	tm.log.Debugf("mock sendevent station=%s payload=%s", stationName, payload)
	if tm.refuse {
		return false
	}
	tm.events = append(tm.events, stationName+":"+string(payload))
	return true
}
