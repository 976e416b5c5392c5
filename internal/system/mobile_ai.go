package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// PulseMobile is the AI cadence in pulses (one second at 250ms).
const PulseMobile = 4

// MobileAISystem drives per-NPC behavior: delayed mobprogs, random
// triggers, scavenging, wandering, and aggression.
type MobileAISystem struct {
	deps  *handler.Deps
	pulse int
}

func NewMobileAISystem(deps *handler.Deps) *MobileAISystem {
	return &MobileAISystem{deps: deps}
}

func (s *MobileAISystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MobileAISystem) Update(_ time.Duration) {
	s.pulse++
	if s.pulse%PulseMobile != 0 {
		return
	}
	w := s.deps.World
	mobs := append([]*world.Mobile(nil), w.CharList...)
	for _, ch := range mobs {
		if !ch.IsNPC() || ch.Room == nil || ch.Fighting != nil {
			continue
		}
		if ch.IsAffected(data.AffCharm) && ch.Master != nil {
			continue
		}
		if !ch.IsAwake() {
			continue
		}

		// Delayed program countdown.
		if ch.MprogDelay > 0 {
			ch.MprogDelay--
			if ch.MprogDelay <= 0 {
				if ch.Proto.HasTrigger(data.TrigDelay) {
					s.deps.Progs.DelayTrigger(ch)
				}
				continue
			}
		}

		// Random trigger, once per beat.
		if ch.Proto.HasTrigger(data.TrigRandom) {
			if s.deps.Progs.PercentTrigger(ch, nil, nil, nil, data.TrigRandom) {
				continue
			}
		}

		// Scavengers pick up the most valuable loose item.
		if ch.ActFlags&data.ActScavenger != 0 && len(ch.Room.Contents) > 0 &&
			w.NumberRange(0, 63) == 0 {
			var best *world.Object
			for _, obj := range ch.Room.Contents {
				if obj.WearFlags&data.WearableTake != 0 &&
					(best == nil || obj.Cost > best.Cost) && obj.Cost > 0 {
					best = obj
				}
			}
			if best != nil {
				w.ObjToMob(best, ch)
				w.Act("$n gets $p.", ch, best, nil, world.ToRoom)
			}
		}

		// Aggression against visible players.
		if ch.ActFlags&data.ActAggressive != 0 {
			if victim := s.pickVictim(ch); victim != nil {
				handler.MultiHit(s.deps, ch, victim)
				continue
			}
		}

		// Wanderers drift through open exits, staying off NO_MOB rooms
		// and inside their home area when flagged.
		if ch.ActFlags&data.ActSentinel == 0 && w.NumberRange(0, 7) == 0 {
			dir := w.NumberRange(0, data.DirMax-1)
			ex := ch.Room.Exits[dir]
			if ex == nil || ex.To == nil || ex.IsClosed() {
				continue
			}
			dest := ex.To
			if dest.Proto.Flags&data.RoomNoMob != 0 {
				continue
			}
			if ch.ActFlags&data.ActStayArea != 0 && dest.Area != ch.Room.Area {
				continue
			}
			if ch.ActFlags&data.ActOutdoors != 0 && dest.Proto.Flags&data.RoomIndoors != 0 {
				continue
			}
			if ch.ActFlags&data.ActIndoors != 0 && dest.Proto.Flags&data.RoomIndoors == 0 {
				continue
			}
			w.Act("$n leaves $T.", ch, nil, data.DirNames[dir], world.ToRoom)
			w.TransferMob(ch, dest)
			w.Act("$n has arrived.", ch, nil, nil, world.ToRoom)
			if ch.Proto.HasTrigger(data.TrigEntry) {
				s.deps.Progs.PercentTrigger(ch, nil, nil, nil, data.TrigEntry)
			}
		}
	}
}

func (s *MobileAISystem) pickVictim(ch *world.Mobile) *world.Mobile {
	for _, vch := range ch.Room.People {
		if vch.IsNPC() || !ch.CanSee(vch) || vch.IsImmortal() {
			continue
		}
		if ch.ActFlags&data.ActWimpy != 0 && vch.IsAwake() {
			continue
		}
		return vch
	}
	return nil
}
