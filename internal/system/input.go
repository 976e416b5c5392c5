// Package system holds the pulse-driven systems registered with the
// core runner: input, violence, mobile AI, the slow tick, area resets,
// autosave, output and cleanup.
package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/handler"
	gonet "github.com/thornvale/server/internal/net"
	"github.com/thornvale/server/internal/world"
)

// InputSystem accepts new sessions and dispatches one pending command
// per descriptor per pulse, honoring command lag.
type InputSystem struct {
	deps   *handler.Deps
	server *gonet.Server
}

func NewInputSystem(deps *handler.Deps, server *gonet.Server) *InputSystem {
	return &InputSystem{deps: deps, server: server}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	w := s.deps.World

	// Integrate new connections in accept order.
	for {
		select {
		case sess := <-s.server.NewSessions():
			desc := &world.Descriptor{
				Sess:  sess,
				State: world.ConGetName,
				Host:  sess.Host,
				Ansi:  true,
			}
			w.AddDescriptor(desc)
			s.deps.Greet(desc)
		default:
			goto read
		}
	}

read:
	// First pass: move one complete line per descriptor into incomm,
	// coalescing ! into a replay of the last command.
	descriptors := append([]*world.Descriptor(nil), w.Descriptors...)
	for _, desc := range descriptors {
		if desc.Incomm != "" {
			continue
		}
		select {
		case line := <-desc.Sess.InQueue:
			if line == "!" {
				line = desc.Inlast
			}
			desc.Incomm = line
		default:
		}
	}

	// Second pass: dispatch unless the descriptor is waiting out lag.
	for _, desc := range descriptors {
		if desc.Closed() {
			continue
		}
		if desc.Wait > 0 {
			desc.Wait--
			continue
		}
		if desc.Incomm == "" {
			continue
		}
		line := desc.Incomm
		desc.Incomm = ""
		desc.Inlast = line

		if ch := desc.Char; ch != nil {
			ch.Timer = 0
			if ch.Pc != nil {
				ch.Pc.WasVoided = false
			}
		}
		if desc.State == world.ConPlaying {
			ch := desc.Char
			if ch == nil {
				continue
			}
			s.deps.Interpret(ch, line)
			// Lag from the command delays only the next command.
			if ch.Wait > 0 {
				desc.Wait = ch.Wait
				ch.Wait = 0
			}
		} else {
			s.deps.Nanny(desc, line)
		}
	}
}
