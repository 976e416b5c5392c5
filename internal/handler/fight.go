package handler

import (
	"fmt"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

func doKill(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Kill whom?\n\r")
		return
	}
	victim := w.GetMobRoom(ch, arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim == ch {
		ch.Send("You hit yourself.  Ouch!\n\r")
		return
	}
	if isSafe(d, ch, victim) {
		return
	}
	if ch.Position == data.PosFighting {
		ch.Send("You do the best you can!\n\r")
		return
	}
	ch.Wait += 4
	MultiHit(d, ch, victim)
}

func isSafe(d *Deps, ch, victim *world.Mobile) bool {
	w := d.World
	if victim.Room == nil || ch.Room == nil {
		return true
	}
	if victim.Room.Proto.Flags&data.RoomSafe != 0 {
		ch.Send("Not in this room.\n\r")
		return true
	}
	if !victim.IsNPC() && !ch.IsNPC() {
		ch.Send("You can only fight the forces of darkness here.\n\r")
		return true
	}
	if victim.IsNPC() && victim.ActFlags&data.ActPet != 0 {
		w.Act("But $N looks so cute and cuddly...", ch, nil, victim, world.ToChar)
		return true
	}
	return false
}

func setFighting(d *Deps, ch, victim *world.Mobile) {
	if ch.Fighting != nil {
		return
	}
	ch.Fighting = victim
	ch.Position = data.PosFighting
}

// MultiHit runs one full round of attacks from ch against victim.
func MultiHit(d *Deps, ch, victim *world.Mobile) {
	if ch.Room == nil || victim.Room != ch.Room || victim == ch {
		return
	}
	oneHit(d, ch, victim)
	if ch.Fighting != victim {
		return
	}
	if ch.IsAffected(data.AffHaste) || ch.OffFlags&data.OffFast != 0 {
		oneHit(d, ch, victim)
	}
	if ch.Fighting == victim && d.World.NumberPercent() < 40+ch.Level {
		oneHit(d, ch, victim)
	}
}

// oneHit resolves a single attack: THAC0-style to-hit against armor,
// then damage dice.
func oneHit(d *Deps, ch, victim *world.Mobile) {
	w := d.World
	if victim.Position == data.PosDead || victim.Room != ch.Room {
		return
	}
	setFighting(d, ch, victim)
	setFighting(d, victim, ch)

	thac0 := 20 - ch.Level/2 - ch.Hitroll
	victimAC := victim.Armor / 10
	if !victim.IsAwake() {
		victimAC += 4
	}
	roll := w.NumberRange(1, 20)
	if roll == 1 || (roll != 20 && roll < thac0+victimAC) {
		// Miss.
		damMessage(d, ch, victim, 0)
		return
	}

	dam := ch.DamDice.Roll(w.Rng)
	if dam <= 0 {
		dam = w.NumberRange(1, 4) + ch.Level/2
	}
	dam += ch.Damroll
	if !victim.IsAwake() {
		dam *= 2
	}
	if victim.IsAffected(data.AffSanctuary) {
		dam /= 2
	}
	Damage(d, ch, victim, dam, ch.DamType, true)
}

func damMessage(d *Deps, ch, victim *world.Mobile, dam int) {
	w := d.World
	var verb string
	switch {
	case dam == 0:
		verb = "miss"
	case dam <= 4:
		verb = "scratch"
	case dam <= 8:
		verb = "graze"
	case dam <= 12:
		verb = "hit"
	case dam <= 20:
		verb = "wound"
	case dam <= 30:
		verb = "maul"
	case dam <= 45:
		verb = "DISMEMBER"
	case dam <= 60:
		verb = "MASSACRE"
	default:
		verb = "*** DEMOLISH ***"
	}
	if dam == 0 {
		w.Act("Your "+verb+" misses $N.", ch, nil, victim, world.ToChar)
		w.Act("$n misses you.", ch, nil, victim, world.ToVict)
	} else {
		w.Act("You "+verb+" $N!", ch, nil, victim, world.ToChar)
		w.Act("$n "+verb+"s you!", ch, nil, victim, world.ToVict)
	}
}

// Damage applies points of harm, handles wimpy flight and death. On a
// kill it runs the death trigger, builds the corpse, runs the loot
// engine against the victim's resolved table, and extracts an NPC
// victim; a player victim respawns at the recall point.
func Damage(d *Deps, ch, victim *world.Mobile, dam int, damType string, visible bool) {
	w := d.World
	if victim.Position == data.PosDead || victim.Room == nil {
		return
	}
	if dam > 1200 && ch.GetTrust() < world.LevelImmortal {
		w.Bug("damage: %d points from %s", dam, ch.Name)
		dam = 1200
	}
	if victim != ch {
		setFighting(d, ch, victim)
		setFighting(d, victim, ch)
	}
	if visible && dam >= 0 {
		damMessage(d, ch, victim, dam)
	}

	victim.Hit -= dam
	if !victim.IsNPC() && victim.GetTrust() >= world.LevelImmortal && victim.Hit < 1 {
		victim.Hit = 1
	}

	switch {
	case victim.Hit > 0:
		// Wimpy NPCs and players flee at their threshold.
		if victim.IsNPC() && victim.ActFlags&data.ActWimpy != 0 &&
			victim.Hit < victim.MaxHit/5 && w.NumberPercent() < 25 {
			doFlee(d, victim, "")
		} else if !victim.IsNPC() && victim.Wimpy > 0 && victim.Hit < victim.Wimpy {
			doFlee(d, victim, "")
		}
		return
	case victim.IsNPC() || victim.Hit <= -11:
		killMob(d, ch, victim)
		return
	case victim.Hit <= -6:
		victim.Position = data.PosMortal
		w.Act("$n is mortally wounded, and will die soon, if not aided.",
			victim, nil, nil, world.ToRoom)
		victim.Send("You are mortally wounded, and will die soon, if not aided.\n\r")
		w.StopFighting(victim, true)
		return
	case victim.Hit <= -3:
		victim.Position = data.PosIncap
		w.Act("$n is incapacitated and will slowly die, if not aided.",
			victim, nil, nil, world.ToRoom)
		victim.Send("You are incapacitated and will slowly die, if not aided.\n\r")
		w.StopFighting(victim, true)
		return
	default:
		victim.Position = data.PosStunned
		w.Act("$n is stunned, but will probably recover.",
			victim, nil, nil, world.ToRoom)
		victim.Send("You are stunned, but will probably recover.\n\r")
		return
	}
}

func killMob(d *Deps, ch, victim *world.Mobile) {
	w := d.World
	victim.Position = data.PosDead

	w.Act("$n is DEAD!!", victim, nil, nil, world.ToRoom)
	victim.Send("You have been KILLED!!\n\r\n\r")

	// Death trigger runs before the corpse is made, while the victim
	// still stands in the room.
	if w.Hooks.MobDeath != nil {
		w.Hooks.MobDeath(victim, ch)
	}
	victim.Zombie = true

	roomVnum := data.VNUM(0)
	if victim.Room != nil {
		roomVnum = victim.Room.Vnum()
	}
	victimVnum := data.VNUM(0)
	if victim.IsNPC() && victim.Proto != nil {
		victimVnum = victim.Proto.Vnum
	}
	d.Bus.Emit(event.MobKilled{
		VictimVnum: int32(victimVnum),
		VictimName: victim.Name,
		KillerName: ch.Name,
		RoomVnum:   int32(roomVnum),
	})
	w.Wiznet(fmt.Sprintf("%s got toasted by %s at %d!",
		victim.Name, ch.Name, roomVnum), nil, nil, data.WizDeaths, 0, 0)

	makeCorpse(d, victim)

	if victim.IsNPC() {
		w.ExtractMob(victim, true)
		return
	}
	// Players respawn at the recall point, stripped of affects.
	w.StopFighting(victim, true)
	for len(victim.Affects) > 0 {
		w.AffectRemove(victim, victim.Affects[0])
	}
	victim.Hit = 1
	victim.Position = data.PosResting
	if dest := w.RoomFor(victim, data.VNUM(d.Config.Game.RecallVnum)); dest != nil {
		w.TransferMob(victim, dest)
	}
}

// makeCorpse builds the corpse, moves carried gear into it, and for
// NPCs rolls the loot table.
func makeCorpse(d *Deps, victim *world.Mobile) {
	w := d.World
	room := victim.Room
	if room == nil {
		return
	}
	protoVnum := world.VnumCorpsePC
	if victim.IsNPC() {
		protoVnum = world.VnumCorpseNPC
	}
	proto := w.Reg.Obj(protoVnum)
	if proto == nil {
		w.Bug("make_corpse: corpse prototype %d missing", protoVnum)
		return
	}
	corpse := w.CreateObj(proto)
	corpse.Timer = w.NumberRange(25, 40)
	name := victim.Name
	if victim.IsNPC() {
		name = victim.ShortDescr
	}
	corpse.ShortDescr = "the corpse of " + name
	corpse.Description = "The corpse of " + name + " is lying here."

	// Coins spill into the corpse.
	if victim.Gold > 0 || victim.Silver > 0 {
		if money := w.CreateMoney(victim.Gold, victim.Silver); money != nil {
			w.ObjToObj(money, corpse)
		}
		victim.Gold = 0
		victim.Silver = 0
	}

	carrying := append([]*world.Object(nil), victim.Carrying...)
	for _, obj := range carrying {
		if obj.ExtraFlags&data.ItemVisDeath != 0 {
			obj.ExtraFlags &^= data.ItemInvis
		}
		if obj.ExtraFlags&data.ItemRotDeath != 0 {
			obj.Timer = w.NumberRange(5, 10)
		}
		if obj.ExtraFlags&data.ItemInventory != 0 {
			w.ExtractObj(obj)
			continue
		}
		w.ObjToObj(obj, corpse)
	}

	// NPC loot tables fill the corpse on top of carried gear.
	if victim.IsNPC() && victim.Proto != nil && victim.Proto.LootTable != "" {
		drops := w.Reg.Loot.Generate(victim.Proto.LootTable, w.Rng, d.Log)
		for _, drop := range drops {
			if drop.Type == data.LootCP {
				if money := w.CreateMoney(0, drop.Qty); money != nil {
					w.ObjToObj(money, corpse)
				}
				continue
			}
			itemProto := w.Reg.Obj(drop.ItemVnum)
			if itemProto == nil {
				w.Bug("loot: unknown object %d", drop.ItemVnum)
				continue
			}
			for i := 0; i < drop.Qty; i++ {
				w.ObjToObj(w.CreateObj(itemProto), corpse)
			}
		}
	}

	w.ObjToRoom(corpse, room)
}

func doFlee(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	if ch.Fighting == nil {
		ch.Send("You aren't fighting anyone.\n\r")
		return
	}
	room := ch.Room
	if room == nil {
		return
	}
	for attempt := 0; attempt < 6; attempt++ {
		dir := w.Rng.Intn(data.DirMax)
		ex := room.Exits[dir]
		if ex == nil || ex.IsClosed() {
			continue
		}
		dest := ex.To
		if dest == nil {
			dest = w.RoomFor(ch, ex.Proto.ToVnum)
		}
		if dest == nil || (ch.IsNPC() && dest.Proto.Flags&data.RoomNoMob != 0) {
			continue
		}
		w.Act("$n has fled!", ch, nil, nil, world.ToRoom)
		w.StopFighting(ch, true)
		w.TransferMob(ch, dest)
		if !ch.IsNPC() {
			ch.Send("You flee from combat!\n\r")
			doLook(d, ch, "auto")
		}
		return
	}
	ch.Send("PANIC! You couldn't escape!\n\r")
}

func doSurrender(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	mob := ch.Fighting
	if mob == nil {
		ch.Send("But you're not fighting!\n\r")
		return
	}
	w.Act("You surrender to $N!", ch, nil, mob, world.ToChar)
	w.Act("$n surrenders to you!", ch, nil, mob, world.ToVict)
	w.Act("$n tries to surrender to $N!", ch, nil, mob, world.ToNotVict)
	w.StopFighting(ch, true)

	if !ch.IsNPC() && mob.IsNPC() && mob.Proto != nil &&
		(!mob.Proto.HasTrigger(data.TrigSurr) ||
			!d.Progs.PercentTrigger(mob, ch, nil, nil, data.TrigSurr)) {
		w.Act("$N seems to ignore your cowardly act!", ch, nil, mob, world.ToChar)
		MultiHit(d, mob, ch)
	}
}

func doRescue(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Rescue whom?\n\r")
		return
	}
	victim := w.GetMobRoom(ch, arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim == ch {
		ch.Send("What about fleeing instead?\n\r")
		return
	}
	if victim.Fighting == nil {
		ch.Send("That person is not fighting right now.\n\r")
		return
	}
	attacker := victim.Fighting
	ch.Wait += 12
	if w.NumberPercent() > 50+ch.Level-attacker.Level {
		ch.Send("You fail the rescue.\n\r")
		return
	}
	w.Act("You rescue $N!", ch, nil, victim, world.ToChar)
	w.Act("$n rescues you!", ch, nil, victim, world.ToVict)
	w.Act("$n rescues $N!", ch, nil, victim, world.ToNotVict)

	w.StopFighting(victim, false)
	w.StopFighting(attacker, false)
	setFighting(d, ch, attacker)
	setFighting(d, attacker, ch)
}
