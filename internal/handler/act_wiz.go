package handler

import (
	"fmt"
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

func doGoto(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Goto where?\n\r")
		return
	}
	location := w.FindLocation(ch, arg)
	if location == nil {
		ch.Send("No such location.\n\r")
		return
	}
	if location.IsPrivate() && ch.GetTrust() < world.LevelImplementor {
		ch.Send("That room is private right now.\n\r")
		return
	}
	if ch.Fighting != nil {
		w.StopFighting(ch, true)
	}
	w.Act("$n disappears in a swirling mist.", ch, nil, nil, world.ToRoom)
	w.TransferMob(ch, location)
	w.Act("$n appears in a swirling mist.", ch, nil, nil, world.ToRoom)
	doLook(d, ch, "auto")
}

func doAt(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, rest := world.OneArgument(argument)
	if arg == "" || rest == "" {
		ch.Send("At where what?\n\r")
		return
	}
	location := w.FindLocation(ch, arg)
	if location == nil {
		ch.Send("No such location.\n\r")
		return
	}
	original := ch.Room
	w.TransferMob(ch, location)
	d.Interpret(ch, rest)
	// The command may have moved or extracted the actor.
	for _, m := range w.CharList {
		if m == ch {
			if ch.Room == location && original != nil {
				w.TransferMob(ch, original)
			}
			break
		}
	}
}

func doTransfer(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, _ := world.OneArgument(rest)
	if arg1 == "" {
		ch.Send("Transfer whom (and where)?\n\r")
		return
	}
	location := ch.Room
	if arg2 != "" {
		location = w.FindLocation(ch, arg2)
		if location == nil {
			ch.Send("No such location.\n\r")
			return
		}
	}
	if arg1 == "all" {
		for _, desc := range w.Descriptors {
			if desc.State == world.ConPlaying && desc.Char != nil &&
				desc.Char != ch && desc.Char.Room != nil {
				transferOne(d, ch, desc.Char, location)
			}
		}
		ch.Send("Ok.\n\r")
		return
	}
	victim := w.GetMobWorld(ch, arg1)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	transferOne(d, ch, victim, location)
	ch.Send("Ok.\n\r")
}

func transferOne(d *Deps, ch, victim *world.Mobile, location *world.Room) {
	w := d.World
	if victim.Fighting != nil {
		w.StopFighting(victim, true)
	}
	w.Act("$n disappears in a mushroom cloud.", victim, nil, nil, world.ToRoom)
	w.TransferMob(victim, location)
	w.Act("$n arrives from a puff of smoke.", victim, nil, nil, world.ToRoom)
	if victim != ch {
		w.Act("$n has transferred you.", ch, nil, victim, world.ToVict)
	}
	doLook(d, victim, "auto")
}

func doLoad(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, _ := world.OneArgument(rest)
	if arg1 == "" || !world.IsNumber(arg2) {
		ch.Send("Syntax: load mob <vnum>  or  load obj <vnum>.\n\r")
		return
	}
	vnum := data.VNUM(atoiH(arg2))
	switch {
	case strings.HasPrefix("mob", arg1):
		proto := w.Reg.Mob(vnum)
		if proto == nil {
			ch.Send("No mob has that vnum.\n\r")
			return
		}
		victim := w.CreateMob(proto)
		w.MobToRoom(victim, ch.Room)
		w.Act("$n has created $N!", ch, nil, victim, world.ToRoom)
		w.Wiznet("$N loads "+victim.ShortDescr+".", ch, nil,
			data.WizLoad, data.WizSecure, ch.GetTrust())
		ch.Send("Ok.\n\r")
	case strings.HasPrefix("obj", arg1):
		proto := w.Reg.Obj(vnum)
		if proto == nil {
			ch.Send("No object has that vnum.\n\r")
			return
		}
		obj := w.CreateObj(proto)
		if obj.WearFlags&data.WearableTake != 0 {
			w.ObjToMob(obj, ch)
		} else {
			w.ObjToRoom(obj, ch.Room)
		}
		w.Act("$n has created $p!", ch, obj, nil, world.ToRoom)
		w.Wiznet("$N loads $p.", ch, obj, data.WizLoad, data.WizSecure, ch.GetTrust())
		ch.Send("Ok.\n\r")
	default:
		ch.Send("Syntax: load mob <vnum>  or  load obj <vnum>.\n\r")
	}
}

func doPurge(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		// Purge the room of NPCs and objects.
		people := append([]*world.Mobile(nil), ch.Room.People...)
		for _, victim := range people {
			if victim.IsNPC() && victim != ch && victim.ActFlags&data.ActNoPurge == 0 {
				w.ExtractMob(victim, true)
			}
		}
		contents := append([]*world.Object(nil), ch.Room.Contents...)
		for _, obj := range contents {
			if obj.ExtraFlags&data.ItemNoPurge == 0 {
				w.ExtractObj(obj)
			}
		}
		w.Act("$n purges the room!", ch, nil, nil, world.ToRoom)
		ch.Send("Ok.\n\r")
		return
	}
	victim := w.GetMobWorld(ch, arg)
	if victim == nil {
		if obj := w.GetObjHere(ch, arg); obj != nil {
			w.ExtractObj(obj)
			w.Act("$n purges $p.", ch, obj, nil, world.ToRoom)
			ch.Send("Ok.\n\r")
			return
		}
		ch.Send("They aren't here.\n\r")
		return
	}
	if !victim.IsNPC() {
		ch.Send("Not on PC's.\n\r")
		return
	}
	w.Act("$n purges $N.", ch, nil, victim, world.ToNotVict)
	w.ExtractMob(victim, true)
	ch.Send("Ok.\n\r")
}

func doForce(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, rest := world.OneArgument(argument)
	if arg == "" || rest == "" {
		ch.Send("Force whom to do what?\n\r")
		return
	}
	if arg == "all" {
		if ch.GetTrust() < world.LevelGod {
			ch.Send("Not at your level!\n\r")
			return
		}
		for _, desc := range w.Descriptors {
			if desc.State == world.ConPlaying && desc.Char != nil &&
				desc.Char != ch && desc.Char.GetTrust() < ch.GetTrust() {
				w.Act("$n forces you to '$t'.", ch, rest, desc.Char, world.ToVict)
				d.Interpret(desc.Char, rest)
			}
		}
		ch.Send("Ok.\n\r")
		return
	}
	victim := w.GetMobWorld(ch, arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim == ch {
		ch.Send("Aye aye, right away!\n\r")
		return
	}
	if !victim.IsNPC() && victim.GetTrust() >= ch.GetTrust() {
		ch.Send("Do it yourself!\n\r")
		return
	}
	w.Act("$n forces you to '$t'.", ch, rest, victim, world.ToVict)
	d.Interpret(victim, rest)
	ch.Send("Ok.\n\r")
}

func doSnoop(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Snoop whom?\n\r")
		return
	}
	if ch.Desc == nil {
		return
	}
	victim := w.FindPlayer(arg)
	if victim == nil || victim.Desc == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim.Desc == ch.Desc {
		// Cancel all snoops.
		for _, desc := range w.Descriptors {
			if desc.SnoopBy == ch.Desc {
				desc.SnoopBy = nil
			}
		}
		ch.Send("All snoops stopped.\n\r")
		return
	}
	if victim.Desc.SnoopBy != nil {
		ch.Send("Busy already.\n\r")
		return
	}
	if victim.GetTrust() >= ch.GetTrust() {
		ch.Send("You failed.\n\r")
		return
	}
	// Reject snoop loops at the command layer.
	for dd := ch.Desc; dd != nil; dd = dd.SnoopBy {
		if dd == victim.Desc {
			ch.Send("No snoop loops.\n\r")
			return
		}
	}
	victim.Desc.SnoopBy = ch.Desc
	w.Wiznet("$N starts snooping on "+victim.Name+".", ch, nil,
		data.WizSnoops, data.WizSecure, ch.GetTrust())
	ch.Send("Ok.\n\r")
}

func doStat(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Stat what?\n\r")
		return
	}
	if victim := w.GetMobWorld(ch, arg); victim != nil {
		vnum := data.VNUM(0)
		if victim.Proto != nil {
			vnum = victim.Proto.Vnum
		}
		roomVnum := data.VNUM(0)
		if victim.Room != nil {
			roomVnum = victim.Room.Vnum()
		}
		ch.Send(fmt.Sprintf(
			"Name: %s  Vnum: %d  Room: %d\n\rLevel: %d  Hit: %d/%d  Mana: %d/%d\n\r"+
				"Position: %s  Align: %d  Gold: %d  Silver: %d\n\r"+
				"Act: %s  Aff: %s\n\r",
			victim.Name, vnum, roomVnum,
			victim.Level, victim.Hit, victim.MaxHit, victim.Mana, victim.MaxMana,
			data.PositionNames[victim.Position], victim.Alignment,
			victim.Gold, victim.Silver,
			data.FormatBits(victim.ActFlags), data.FormatBits(victim.AffFlags)))
		for _, af := range victim.Affects {
			ch.Send(fmt.Sprintf("Affect: %s level %d for %d hours\n\r",
				af.Skill, af.Level, af.Duration))
		}
		return
	}
	if obj := w.GetObjWorld(ch, arg); obj != nil {
		ch.Send(fmt.Sprintf(
			"Name: %s  Vnum: %d  Type: %s\n\rShort: %s\n\r"+
				"Values: %d %d %d %d %d  Weight: %d  Cost: %d  Timer: %d\n\r",
			obj.Name, obj.Proto.Vnum, data.ItemTypeName(obj.ItemType),
			obj.ShortDescr,
			obj.Values[0], obj.Values[1], obj.Values[2], obj.Values[3], obj.Values[4],
			obj.Weight, obj.Cost, obj.Timer))
		return
	}
	ch.Send("Nothing by that name found anywhere.\n\r")
}

func doSet(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, rest2 := world.OneArgument(rest)
	arg3, _ := world.OneArgument(rest2)
	if arg1 == "" || arg2 == "" || arg3 == "" {
		ch.Send("Syntax: set <victim> <field> <value>\n\r")
		ch.Send("Fields: level hit mana move gold silver align trust\n\r")
		return
	}
	victim := w.GetMobWorld(ch, arg1)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if !world.IsNumber(arg3) {
		ch.Send("Value must be numeric.\n\r")
		return
	}
	value := atoiH(arg3)
	switch arg2 {
	case "level":
		if !victim.IsNPC() && (value < 1 || value > world.LevelHero) {
			ch.Send("Level range is 1 to 51 for players.\n\r")
			return
		}
		victim.Level = value
	case "hit":
		victim.Hit = value
		victim.MaxHit = value
	case "mana":
		victim.Mana = value
		victim.MaxMana = value
	case "move":
		victim.Move = value
		victim.MaxMove = value
	case "gold":
		victim.Gold = value
	case "silver":
		victim.Silver = value
	case "align":
		victim.Alignment = value
	case "trust":
		if value > ch.GetTrust() {
			ch.Send("You may not grant more trust than you hold.\n\r")
			return
		}
		victim.Trust = value
	default:
		ch.Send("No such field.\n\r")
		return
	}
	ch.Send("Ok.\n\r")
}

func doAdvance(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, _ := world.OneArgument(rest)
	if arg1 == "" || !world.IsNumber(arg2) {
		ch.Send("Syntax: advance <char> <level>.\n\r")
		return
	}
	victim := w.FindPlayer(arg1)
	if victim == nil {
		ch.Send("That player is not here.\n\r")
		return
	}
	level := atoiH(arg2)
	if level < 1 || level > world.LevelImplementor {
		ch.Send("Level must be 1 to 60.\n\r")
		return
	}
	if level > ch.GetTrust() {
		ch.Send("Limited to your trust level.\n\r")
		return
	}
	if level < victim.Level {
		ch.Send("Lowering a player's level!\n\r")
	} else {
		ch.Send("Raising a player's level!\n\r")
	}
	victim.Send("You feel the gods touch your destiny.\n\r")
	for victim.Level < level {
		victim.Level++
		victim.MaxHit += w.NumberRange(8, 14)
		victim.MaxMana += w.NumberRange(6, 12)
		victim.MaxMove += w.NumberRange(4, 8)
	}
	victim.Level = level
	victim.Hit = victim.MaxHit
	victim.Mana = victim.MaxMana
	victim.Move = victim.MaxMove
	w.Wiznet(fmt.Sprintf("$N advances %s to level %d.", victim.Name, level),
		ch, nil, data.WizLevels, 0, 0)
}

func doRestore(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" || arg == "room" {
		for _, victim := range ch.Room.People {
			restoreOne(d, ch, victim)
		}
		ch.Send("Room restored.\n\r")
		return
	}
	if arg == "all" && ch.GetTrust() >= world.LevelGod {
		for _, desc := range w.Descriptors {
			if desc.State == world.ConPlaying && desc.Char != nil {
				restoreOne(d, ch, desc.Char)
			}
		}
		ch.Send("All active players restored.\n\r")
		return
	}
	victim := w.GetMobWorld(ch, arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	restoreOne(d, ch, victim)
	ch.Send("Ok.\n\r")
}

func restoreOne(d *Deps, ch, victim *world.Mobile) {
	w := d.World
	victim.Hit = victim.MaxHit
	victim.Mana = victim.MaxMana
	victim.Move = victim.MaxMove
	if victim.Position < data.PosStanding && victim.Position > data.PosDead {
		victim.Position = data.PosStanding
	}
	w.Act("$n has restored you.", ch, nil, victim, world.ToVict)
	w.Wiznet("$N restores "+victim.Name+".", ch, nil, data.WizRestore, 0, ch.GetTrust())
}

func doFreeze(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	victim := w.FindPlayer(arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim.GetTrust() >= ch.GetTrust() {
		ch.Send("You failed.\n\r")
		return
	}
	if victim.ActFlags&data.PlrFreeze != 0 {
		victim.ActFlags &^= data.PlrFreeze
		victim.Send("You can play again.\n\r")
		ch.Send("FREEZE removed.\n\r")
		w.Wiznet("$N thaws "+victim.Name+".", ch, nil, data.WizPenalties, 0, 0)
	} else {
		victim.ActFlags |= data.PlrFreeze
		victim.Send("You can't do ANYthing!\n\r")
		ch.Send("FREEZE set.\n\r")
		w.Wiznet("$N puts "+victim.Name+" in the deep freeze.",
			ch, nil, data.WizPenalties, 0, 0)
	}
	if err := d.Players.Save(victim); err != nil {
		w.Bug("freeze: save %s: %v", victim.Name, err)
	}
}

func doDeny(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	victim := w.FindPlayer(arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim.GetTrust() >= ch.GetTrust() {
		ch.Send("You failed.\n\r")
		return
	}
	victim.ActFlags |= data.PlrDeny
	victim.Send("You are denied access!\n\r")
	w.Wiznet("$N denies access to "+victim.Name+".",
		ch, nil, data.WizPenalties, 0, 0)
	ch.Send("Ok.\n\r")
	if err := d.Players.Save(victim); err != nil {
		w.Bug("deny: save %s: %v", victim.Name, err)
	}
	doQuit(d, victim, "")
}

func doPardon(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	victim := d.World.FindPlayer(arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	victim.ActFlags &^= data.PlrDeny | data.PlrFreeze
	victim.Send("You have been pardoned.\n\r")
	ch.Send("Ok.\n\r")
}

func doEcho(d *Deps, ch *world.Mobile, argument string) {
	if argument == "" {
		ch.Send("Global echo what?\n\r")
		return
	}
	for _, desc := range d.World.Descriptors {
		if desc.State != world.ConPlaying || desc.Char == nil {
			continue
		}
		if desc.Char.GetTrust() >= ch.GetTrust() {
			desc.Char.Send("global> ")
		}
		desc.Char.Send(argument + "\n\r")
	}
}

func doPeace(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	for _, rch := range ch.Room.People {
		if rch.Fighting != nil {
			w.StopFighting(rch, true)
		}
		if rch.IsNPC() {
			rch.ActFlags &^= data.ActAggressive
		}
	}
	ch.Send("Ok.\n\r")
}

func doWizlock(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	w.Wizlock = !w.Wizlock
	if w.Wizlock {
		w.Wiznet("$N has wizlocked the game.", ch, nil, 0, 0, 0)
		ch.Send("Game wizlocked.\n\r")
	} else {
		w.Wiznet("$N removes wizlock.", ch, nil, 0, 0, 0)
		ch.Send("Game un-wizlocked.\n\r")
	}
}

func doNewlock(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	w.Newlock = !w.Newlock
	if w.Newlock {
		w.Wiznet("$N locks out new characters.", ch, nil, 0, 0, 0)
		ch.Send("New characters have been locked out.\n\r")
	} else {
		w.Wiznet("$N allows new characters back in.", ch, nil, 0, 0, 0)
		ch.Send("Newlock removed.\n\r")
	}
}

func doWiznet(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if ch.Pc == nil {
		return
	}
	if arg == "" {
		if ch.Pc.Wiznet&data.WizOn != 0 {
			ch.Pc.Wiznet &^= data.WizOn
			ch.Send("Signing off of Wiznet.\n\r")
		} else {
			ch.Pc.Wiznet |= data.WizOn
			ch.Send("Welcome to Wiznet!\n\r")
		}
		return
	}
	if arg == "show" || arg == "status" {
		var on []string
		for _, entry := range data.WiznetTable {
			if ch.Pc.Wiznet&entry.Flag != 0 {
				on = append(on, entry.Name)
			}
		}
		ch.Send("Wiznet flags: " + strings.Join(on, " ") + "\n\r")
		return
	}
	for _, entry := range data.WiznetTable {
		if strings.HasPrefix(entry.Name, arg) {
			if entry.Trust > ch.GetTrust() {
				ch.Send("No such option.\n\r")
				return
			}
			if ch.Pc.Wiznet&entry.Flag != 0 {
				ch.Pc.Wiznet &^= entry.Flag
				ch.Send("You will no longer see " + entry.Name + " on wiznet.\n\r")
			} else {
				ch.Pc.Wiznet |= entry.Flag
				ch.Send("You will now see " + entry.Name + " on wiznet.\n\r")
			}
			return
		}
	}
	ch.Send("No such option.\n\r")
}

func doReload(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	switch {
	case arg == "":
		ch.Send("Syntax: reload <type>\n\r")
		ch.Send("Available types:\n\r")
		ch.Send("  helps    - Reload all help files from disk\n\r")
		ch.Send("  room     - Reload current room from prototype\n\r")
	case strings.HasPrefix("helps", arg):
		ch.Send("Reloading help files...\n\r")
		scanned, err := d.Loader.RescanHelps(d.Config.Data.Dir, d.Config.Data.AreaList)
		if err != nil {
			ch.Send("ERROR: could not retrieve area list.\n\r")
			return
		}
		ch.Send(fmt.Sprintf("Help reload complete: scanned %d files, %d entries.\n\r",
			scanned, d.Reg.Helps.Count()))
	case strings.HasPrefix("room", arg):
		if ch.Room == nil {
			ch.Send("You are not in a room.\n\r")
			return
		}
		ch.Send(fmt.Sprintf("Reloading room [%d] %s...\n\r",
			ch.Room.Vnum(), ch.Room.Name()))
		w.ReloadRoom(ch.Room)
		ch.Send("Room reloaded successfully.\n\r")
	default:
		ch.Send("Unknown reload type.\n\r")
		ch.Send("Type 'reload' with no arguments for syntax.\n\r")
	}
}

func doAsave(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	saved := 0
	for _, area := range d.Reg.Areas {
		if arg != "" && !world.IsName(arg, area.Name) {
			continue
		}
		var err error
		if strings.HasSuffix(area.Filename, ".json") {
			err = d.Loader.SaveJSONArea(d.Config.Data.Dir, area)
		} else {
			err = d.Loader.SaveArea(d.Config.Data.Dir, area)
		}
		if err != nil {
			d.World.Bug("asave: %s: %v", area.Filename, err)
			ch.Send("Save failed for " + area.Filename + ".\n\r")
			continue
		}
		saved++
	}
	ch.Send(fmt.Sprintf("Saved %d area files.\n\r", saved))
}

func doReboot(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	w.Wiznet("$N reboots the world.", ch, nil, 0, 0, 0)
	broadcastAndStop(d, "Reboot by "+ch.Name+".")
}

func doShutdown(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	w.Wiznet("$N shuts the world down.", ch, nil, 0, 0, 0)
	broadcastAndStop(d, "Shutdown by "+ch.Name+".")
}

// broadcastAndStop saves every logged-in character, closes every
// descriptor, and asks the loop to exit.
func broadcastAndStop(d *Deps, message string) {
	w := d.World
	descriptors := append([]*world.Descriptor(nil), w.Descriptors...)
	for _, desc := range descriptors {
		if desc.Char != nil {
			desc.Char.Send(message + "\n\r")
			if desc.State == world.ConPlaying {
				if err := d.Players.Save(desc.Char); err != nil {
					w.Bug("shutdown: save %s: %v", desc.Char.Name, err)
				}
			}
		}
		w.CloseDescriptor(desc)
	}
	w.Down = true
	if d.Shutdown != nil {
		d.Shutdown()
	}
}

// doLua runs a script chunk through the embedded VM with the actor as
// self. Implementor-only and always logged.
func doLua(d *Deps, ch *world.Mobile, argument string) {
	if argument == "" {
		ch.Send("Syntax: lua <chunk>\n\r")
		return
	}
	if err := d.Scripting.Eval(argument, ch); err != nil {
		ch.Send("Script error: " + err.Error() + "\n\r")
		return
	}
	ch.Send("Ok.\n\r")
}

func doLogToggle(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "all" {
		w.LogAll = !w.LogAll
		if w.LogAll {
			ch.Send("Log ALL on.\n\r")
		} else {
			ch.Send("Log ALL off.\n\r")
		}
		return
	}
	victim := w.FindPlayer(arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	victim.ActFlags ^= data.PlrLog
	if victim.ActFlags&data.PlrLog != 0 {
		ch.Send("LOG set.\n\r")
	} else {
		ch.Send("LOG removed.\n\r")
	}
}
