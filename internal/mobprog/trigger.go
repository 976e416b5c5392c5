package mobprog

import (
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

// Trigger handlers, called from the simulation when events fire.

// ActTrigger matches an act or speech phrase as a substring of the
// trigger phrase list. The first matching program runs.
func (e *Env) ActTrigger(argument string, mob, ch *world.Mobile, arg1, arg2 any, trig data.Bits) {
	if mob.Proto == nil {
		return
	}
	for _, prg := range mob.Proto.Progs {
		if prg.Type == trig && prg.Code != nil &&
			strings.Contains(strings.ToLower(argument), strings.ToLower(prg.Phrase)) {
			e.Flow(prg.Vnum, prg.Code.Code, mob, ch, arg1, arg2)
			break
		}
	}
}

// PercentTrigger fires the first program of the type whose percent
// phrase beats a random roll. Returns whether a program ran.
func (e *Env) PercentTrigger(mob, ch *world.Mobile, arg1, arg2 any, trig data.Bits) bool {
	if mob.Proto == nil {
		return false
	}
	for _, prg := range mob.Proto.Progs {
		if prg.Type == trig && prg.Code != nil &&
			e.World.NumberPercent() < atoi(prg.Phrase) {
			e.Flow(prg.Vnum, prg.Code.Code, mob, ch, arg1, arg2)
			return true
		}
	}
	return false
}

// BribeTrigger fires when given money meets a program's amount phrase.
func (e *Env) BribeTrigger(mob, ch *world.Mobile, amount int) {
	if mob.Proto == nil {
		return
	}
	for _, prg := range mob.Proto.Progs {
		if prg.Type == data.TrigBribe && prg.Code != nil && amount >= atoi(prg.Phrase) {
			e.Flow(prg.Vnum, prg.Code.Code, mob, ch, nil, nil)
			break
		}
	}
}

// ExitTrigger fires when ch tries to leave through dir. EXIT requires
// the watcher in its default position and able to see the mover; EXALL
// catches everyone. Returns true when a program intercepted the move.
func (e *Env) ExitTrigger(ch *world.Mobile, dir int) bool {
	if ch.Room == nil {
		return false
	}
	people := append([]*world.Mobile(nil), ch.Room.People...)
	for _, mob := range people {
		if !mob.IsNPC() || mob.Proto == nil {
			continue
		}
		if !mob.Proto.HasTrigger(data.TrigExit) && !mob.Proto.HasTrigger(data.TrigExall) {
			continue
		}
		for _, prg := range mob.Proto.Progs {
			if prg.Code == nil {
				continue
			}
			if prg.Type == data.TrigExit && dir == atoi(prg.Phrase) &&
				mob.Position == mob.Proto.DefaultPos && mob.CanSee(ch) {
				e.Flow(prg.Vnum, prg.Code.Code, mob, ch, nil, nil)
				return true
			}
			if prg.Type == data.TrigExall && dir == atoi(prg.Phrase) {
				e.Flow(prg.Vnum, prg.Code.Code, mob, ch, nil, nil)
				return true
			}
		}
	}
	return false
}

// GiveTrigger fires when an object is given: the phrase is a vnum or a
// keyword list (including "all").
func (e *Env) GiveTrigger(mob, ch *world.Mobile, obj *world.Object) {
	if mob.Proto == nil {
		return
	}
	for _, prg := range mob.Proto.Progs {
		if prg.Type != data.TrigGive || prg.Code == nil {
			continue
		}
		if world.IsNumber(prg.Phrase) {
			if obj.Proto.Vnum == data.VNUM(atoi(prg.Phrase)) {
				e.Flow(prg.Vnum, prg.Code.Code, mob, ch, obj, nil)
				return
			}
			continue
		}
		for _, word := range strings.Fields(prg.Phrase) {
			if strings.EqualFold(word, "all") || world.IsName(word, obj.Name) {
				e.Flow(prg.Vnum, prg.Code.Code, mob, ch, obj, nil)
				return
			}
		}
	}
}

// GreetTrigger fires NPC greetings after ch enters a room. GREET needs
// default position and sight; GRALL catches everyone.
func (e *Env) GreetTrigger(ch *world.Mobile) {
	if ch.Room == nil {
		return
	}
	people := append([]*world.Mobile(nil), ch.Room.People...)
	for _, mob := range people {
		if !mob.IsNPC() || mob.Proto == nil || mob == ch {
			continue
		}
		if mob.Proto.HasTrigger(data.TrigGreet) &&
			mob.Position == mob.Proto.DefaultPos && mob.CanSee(ch) {
			e.PercentTrigger(mob, ch, nil, nil, data.TrigGreet)
		} else if mob.Proto.HasTrigger(data.TrigGrall) {
			e.PercentTrigger(mob, ch, nil, nil, data.TrigGrall)
		}
	}
}

// HpcntTrigger fires the first program whose threshold exceeds the
// runner's hit point percentage.
func (e *Env) HpcntTrigger(mob, ch *world.Mobile) {
	if mob.Proto == nil {
		return
	}
	for _, prg := range mob.Proto.Progs {
		if prg.Type == data.TrigHpcnt && prg.Code != nil &&
			mob.HitPercent() < atoi(prg.Phrase) {
			e.Flow(prg.Vnum, prg.Code.Code, mob, ch, nil, nil)
			break
		}
	}
}

// DelayTrigger fires when a mob's delay timer expires, against the
// remembered target.
func (e *Env) DelayTrigger(mob *world.Mobile) {
	e.PercentTrigger(mob, mob.MprogTarget, nil, nil, data.TrigDelay)
}
