package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// ViolenceSystem runs one combat round for every engaged pair, four
// times a second. Fight-time mobprog triggers fire before the blows.
type ViolenceSystem struct {
	deps *handler.Deps
}

func NewViolenceSystem(deps *handler.Deps) *ViolenceSystem {
	return &ViolenceSystem{deps: deps}
}

func (s *ViolenceSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *ViolenceSystem) Update(_ time.Duration) {
	w := s.deps.World
	fighters := append([]*world.Mobile(nil), w.CharList...)
	for _, ch := range fighters {
		victim := ch.Fighting
		if victim == nil || ch.Room == nil {
			continue
		}
		if ch.Position < data.PosFighting || victim.Room != ch.Room {
			w.StopFighting(ch, false)
			continue
		}

		if ch.IsNPC() && ch.Proto != nil {
			if ch.Proto.HasTrigger(data.TrigHpcnt) {
				s.deps.Progs.HpcntTrigger(ch, victim)
			}
			if ch.Fighting == victim && ch.Proto.HasTrigger(data.TrigFight) {
				s.deps.Progs.PercentTrigger(ch, victim, nil, nil, data.TrigFight)
			}
			if ch.Fighting == victim && ch.Proto.HasTrigger(data.TrigKill) {
				s.deps.Progs.PercentTrigger(ch, victim, nil, nil, data.TrigKill)
			}
			if ch.Fighting != victim || ch.Room != victim.Room {
				continue // a trigger broke off the fight
			}
		}
		handler.MultiHit(s.deps, ch, victim)

		// Bystanders with assist flags may pile in.
		if ch.IsNPC() && ch.Fighting != nil {
			s.checkAssist(ch)
		}
	}
}

func (s *ViolenceSystem) checkAssist(ch *world.Mobile) {
	w := s.deps.World
	if ch.Room == nil {
		return
	}
	for _, rch := range ch.Room.People {
		if !rch.IsNPC() || rch.Fighting != nil || rch.Position != data.PosStanding {
			continue
		}
		assist := rch.OffFlags&data.AssistAll != 0 ||
			(rch.OffFlags&data.AssistRace != 0 && rch.Race == ch.Race) ||
			(rch.OffFlags&data.AssistVnum != 0 && rch.Proto == ch.Proto) ||
			(rch.OffFlags&data.AssistAlign != 0 &&
				((rch.IsGood() && ch.IsGood()) || (rch.IsEvil() && ch.IsEvil())))
		if assist && w.NumberPercent() < 50 {
			handler.MultiHit(s.deps, rch, ch.Fighting)
			return
		}
	}
}
