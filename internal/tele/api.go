package tele

import (
	"sync"

	"github.com/temoto/atomic_clock"
)

// StationState is the retained per-station status message.
type StationState struct {
	Name      string            `json:"name"`
	Enabled   bool              `json:"enabled"`
	Blocked   bool              `json:"blocked"`
	UptimeSec uint32            `json:"uptime_sec"`
	TotalPaid uint32            `json:"total_paid"`
	Coins     map[uint32]uint32 `json:"coins,omitempty"`
	Banknotes map[uint32]uint32 `json:"banknotes,omitempty"`
}

// StationEvent mirrors money.Event for the wire.
type StationEvent struct {
	Station string `json:"station"`
	Kind    string `json:"kind"`
	Amount  uint32 `json:"amount"`
	Payment string `json:"payment,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Low priority counters, updated at any time, reported with state.
type Stat struct { //nolint:maligned
	sync.Mutex
	StatesSent  uint32
	EventsSent  uint32
	EventsLost  uint32
	LastStateAt atomic_clock.Clock
}

func (s *Stat) Locked_Reset() {
	s.StatesSent = 0
	s.EventsSent = 0
	s.EventsLost = 0
}
