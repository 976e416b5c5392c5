package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// CleanupSystem closes sockets that died during the pulse and runs one
// bounded collection step of the script VM at scheduler quiescence.
type CleanupSystem struct {
	deps *handler.Deps
}

func NewCleanupSystem(deps *handler.Deps) *CleanupSystem {
	return &CleanupSystem{deps: deps}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	w := s.deps.World
	descriptors := append([]*world.Descriptor(nil), w.Descriptors...)
	for _, desc := range descriptors {
		if desc.Sess.IsClosed() || desc.State == world.ConBreakConnect {
			w.CloseDescriptor(desc)
		}
	}
	s.deps.Scripting.GCProtectClear()
	s.deps.Scripting.CollectGarbageNonGrowing()
}
