package system

import (
	"time"

	coresys "github.com/thornvale/server/internal/core/system"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/handler"
	"github.com/thornvale/server/internal/world"
)

// PulseTick is the slow tick cadence in pulses: one game hour, thirty
// seconds of real time at a 250ms pulse.
const PulseTick = 120

// TickSystem is the slow heartbeat: regeneration, affect expiry, DoT
// damage, idle timers, object decay, weather and the game clock.
type TickSystem struct {
	deps  *handler.Deps
	pulse int
}

func NewTickSystem(deps *handler.Deps) *TickSystem {
	return &TickSystem{deps: deps}
}

func (s *TickSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *TickSystem) Update(_ time.Duration) {
	s.pulse++
	if s.pulse%PulseTick != 0 {
		return
	}
	s.weatherUpdate()
	s.charUpdate()
	s.objUpdate()
}

func (s *TickSystem) weatherUpdate() {
	w := s.deps.World
	msgs := w.AdvanceHour()
	if len(msgs) == 0 {
		return
	}
	for _, desc := range w.Descriptors {
		if desc.State != world.ConPlaying || desc.Char == nil {
			continue
		}
		ch := desc.Char
		if !ch.IsAwake() || ch.Room == nil ||
			ch.Room.Proto.Flags&data.RoomIndoors != 0 {
			continue
		}
		for _, msg := range msgs {
			ch.Send(msg)
		}
	}
}

func (s *TickSystem) charUpdate() {
	w := s.deps.World
	chars := append([]*world.Mobile(nil), w.CharList...)
	for _, ch := range chars {
		if ch.Room == nil {
			continue
		}

		// Regeneration scales with rest.
		if ch.Hit < ch.MaxHit {
			ch.Hit += regenAmount(ch)
			if ch.Hit > ch.MaxHit {
				ch.Hit = ch.MaxHit
			}
		}
		if ch.Mana < ch.MaxMana {
			ch.Mana += regenAmount(ch)
			if ch.Mana > ch.MaxMana {
				ch.Mana = ch.MaxMana
			}
		}
		if ch.Move < ch.MaxMove {
			ch.Move += regenAmount(ch)
			if ch.Move > ch.MaxMove {
				ch.Move = ch.MaxMove
			}
		}
		updatePos(ch)

		// Affect durations count down in ticks; -1 is permanent.
		for i := 0; i < len(ch.Affects); {
			af := ch.Affects[i]
			if af.Duration > 0 {
				af.Duration--
				i++
				continue
			}
			if af.Duration < 0 {
				i++
				continue
			}
			ch.Send("Your " + af.Skill + " wears off.\n\r")
			w.AffectRemove(ch, af)
		}

		// Damage-over-time conditions.
		if ch.IsAffected(data.AffPoison) && ch.Position > data.PosStunned {
			w.Act("$n shivers and suffers.", ch, nil, nil, world.ToRoom)
			ch.Send("You shiver and suffer.\n\r")
			handler.Damage(s.deps, ch, ch, ch.Level/2+1, "poison", false)
			continue
		}
		if ch.IsAffected(data.AffPlague) && ch.Position > data.PosStunned {
			w.Act("$n writhes in agony as plague sores erupt from $s skin.",
				ch, nil, nil, world.ToRoom)
			handler.Damage(s.deps, ch, ch, ch.Level+1, "disease", false)
			continue
		}

		// Idle players: void at one threshold, purge at the next.
		if !ch.IsNPC() {
			s.idleUpdate(ch)
		}
	}
}

func regenAmount(ch *world.Mobile) int {
	gain := 2 + ch.Level/4
	switch ch.Position {
	case data.PosSleeping:
		gain = gain * 3 / 2
	case data.PosResting, data.PosSitting:
		// full gain
	case data.PosFighting:
		gain /= 3
	default:
		gain /= 2
	}
	if ch.IsAffected(data.AffRegeneration) {
		gain *= 2
	}
	if ch.IsAffected(data.AffPoison) || ch.IsAffected(data.AffPlague) {
		gain /= 4
	}
	if gain < 1 {
		gain = 1
	}
	return gain
}

// updatePos lets the badly wounded crawl back to consciousness.
func updatePos(ch *world.Mobile) {
	if ch.Hit > 0 {
		if ch.Position == data.PosStunned {
			ch.Position = data.PosResting
		}
		return
	}
}

func (s *TickSystem) idleUpdate(ch *world.Mobile) {
	w := s.deps.World
	cfg := s.deps.Config.Game
	ch.Timer++
	if ch.Timer == cfg.IdleVoid && !ch.Pc.WasVoided {
		limbo := w.RoomFor(ch, world.VnumLimbo)
		if limbo != nil && ch.Room != nil && ch.Room != limbo {
			w.Act("$n disappears into the void.", ch, nil, nil, world.ToRoom)
			ch.Send("You disappear into the void.\n\r")
			ch.Pc.WasVoided = true
			if err := s.deps.Players.Save(ch); err != nil {
				w.Bug("idle void: save %s: %v", ch.Name, err)
			}
			w.TransferMob(ch, limbo)
		}
		return
	}
	if ch.Timer >= cfg.IdlePurge {
		if err := s.deps.Players.Save(ch); err != nil {
			w.Bug("idle purge: save %s: %v", ch.Name, err)
		}
		desc := ch.Desc
		w.ExtractMob(ch, true)
		if desc != nil {
			w.CloseDescriptor(desc)
		}
	}
}

func (s *TickSystem) objUpdate() {
	w := s.deps.World
	objs := append([]*world.Object(nil), w.ObjList...)
	for _, obj := range objs {
		if obj.Timer <= 0 {
			continue
		}
		obj.Timer--
		if obj.Timer > 0 {
			continue
		}
		var message string
		switch obj.ItemType {
		case data.ItemCorpseNPC, data.ItemCorpsePC:
			message = "$p decays into dust."
		case data.ItemFood:
			message = "$p decomposes."
		case data.ItemPotion:
			message = "$p has evaporated from disuse."
		default:
			message = "$p crumbles into dust."
		}
		if room := obj.Room(); room != nil && len(room.People) > 0 {
			w.Act(message, room.People[0], obj, nil, world.ToRoom)
			w.Act(message, room.People[0], obj, nil, world.ToChar)
		}
		// Decaying corpses spill their contents before going.
		if obj.ItemType == data.ItemCorpseNPC || obj.ItemType == data.ItemCorpsePC {
			if room := obj.Room(); room != nil {
				contents := append([]*world.Object(nil), obj.Contains...)
				for _, in := range contents {
					w.ObjToRoom(in, room)
				}
			}
		}
		w.ExtractObj(obj)
	}
}
