package tele

import (
	"context"

	"github.com/temoto/kiosk/log2"
)

type Transporter interface {
	Init(ctx context.Context, log *log2.Log, teleConfig Config) error
	SendState(stationName string, payload []byte) bool
	SendEvent(stationName string, payload []byte) bool
	Close()
}
