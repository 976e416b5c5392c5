package system

import (
	"time"

	"github.com/thornvale/server/internal/core/event"
	coresys "github.com/thornvale/server/internal/core/system"
)

// EventDispatchSystem swaps the bus buffers and delivers the previous
// pulse's events before game logic runs.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.Swap()
}
