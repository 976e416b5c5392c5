package system

import (
	"fmt"
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// OutputSystem drains descriptor output buffers at the end of the
// pulse, so players see the effect of their command on the same turn.
// A descriptor whose output exceeds its ceiling is dropped.
type OutputSystem struct {
	deps *handler.Deps
}

func NewOutputSystem(deps *handler.Deps) *OutputSystem {
	return &OutputSystem{deps: deps}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	w := s.deps.World
	descriptors := append([]*world.Descriptor(nil), w.Descriptors...)
	for _, desc := range descriptors {
		if desc.Closed() {
			continue
		}
		if !desc.HasOutput() {
			continue
		}
		if desc.State == world.ConPlaying && desc.Char != nil {
			desc.Write(prompt(desc.Char))
		}
		if !desc.Flush() {
			w.Bug("output overflow: dropping %s", desc.Host)
			w.CloseDescriptor(desc)
		}
	}
}

func prompt(ch *world.Mobile) string {
	if ch.Pc != nil && ch.Pc.Prompt != "" {
		return "\n\r" + ch.Pc.Prompt + " "
	}
	return fmt.Sprintf("\n\r<%dhp %dm %dmv> ", ch.Hit, ch.Mana, ch.Move)
}
