package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// PulsePerMinute converts reset-timer minutes into pulses.
const PulsePerMinute = 240

// ResetSystem advances every area instance's reset timer once per
// minute. Empty instances tick twice as fast; empty per-player
// instances are destroyed at their reset point.
type ResetSystem struct {
	deps  *handler.Deps
	pulse int
}

func NewResetSystem(deps *handler.Deps) *ResetSystem {
	return &ResetSystem{deps: deps}
}

func (s *ResetSystem) Phase() coresys.Phase { return coresys.PhaseReset }

func (s *ResetSystem) Update(_ time.Duration) {
	s.pulse++
	if s.pulse%PulsePerMinute != 0 {
		return
	}
	w := s.deps.World
	instances := append([]*world.AreaInstance(nil), w.Instances...)
	for _, inst := range instances {
		w.ResetTick(inst)
	}
}
