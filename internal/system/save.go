package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// SaveSystem autosaves every playing character on a slow cadence. Each
// save is a small file write under the pulse budget.
type SaveSystem struct {
	deps     *handler.Deps
	pulse    int
	interval int
}

func NewSaveSystem(deps *handler.Deps) *SaveSystem {
	mins := deps.Config.Game.AutosaveMins
	if mins < 1 {
		mins = 5
	}
	return &SaveSystem{deps: deps, interval: mins * PulsePerMinute}
}

func (s *SaveSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SaveSystem) Update(_ time.Duration) {
	s.pulse++
	if s.pulse%s.interval != 0 {
		return
	}
	w := s.deps.World
	for _, desc := range w.Descriptors {
		if desc.State != world.ConPlaying || desc.Char == nil {
			continue
		}
		if err := s.deps.Players.Save(desc.Char); err != nil {
			w.Bug("autosave: %s: %v", desc.Char.Name, err)
		}
	}
}
