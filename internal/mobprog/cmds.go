package mobprog

import (
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

// The mob command table: commands reserved to scripted NPCs, reached
// through "mob <command>" program lines.

type mobCmd struct {
	name string
	fn   func(e *Env, mob *world.Mobile, argument string)
}

var mobCmdTable []mobCmd

func init() {
	mobCmdTable = []mobCmd{
		{"asound", cmdAsound},
		{"assist", cmdAssist},
		{"at", cmdAt},
		{"call", cmdCall},
		{"cancel", cmdCancel},
		{"cast", cmdCast},
		{"damage", cmdDamage},
		{"delay", cmdDelay},
		{"echo", cmdEcho},
		{"echoaround", cmdEchoAround},
		{"echoat", cmdEchoAt},
		{"flee", cmdFlee},
		{"force", cmdForce},
		{"forget", cmdForget},
		{"gecho", cmdGecho},
		{"gforce", cmdGforce},
		{"goto", cmdGoto},
		{"gtransfer", cmdGtransfer},
		{"junk", cmdJunk},
		{"kill", cmdKill},
		{"mload", cmdMload},
		{"oload", cmdOload},
		{"otransfer", cmdOtransfer},
		{"purge", cmdPurge},
		{"quest", cmdQuest},
		{"remember", cmdRemember},
		{"remove", cmdRemove},
		{"transfer", cmdTransfer},
		{"vforce", cmdVforce},
		{"zecho", cmdZecho},
	}
}

// mobInterpret dispatches one "mob" line by prefix match.
func (e *Env) mobInterpret(mob *world.Mobile, argument string) {
	command, rest := splitWord(argument)
	command = strings.ToLower(command)
	if command == "" {
		return
	}
	for _, entry := range mobCmdTable {
		if strings.HasPrefix(entry.name, command) {
			entry.fn(e, mob, rest)
			return
		}
	}
	vnum := data.VNUM(0)
	if mob.Proto != nil {
		vnum = mob.Proto.Vnum
	}
	e.bug("invalid mob cmd from mob %d: %q", vnum, command)
}

// cmdAsound echoes into every adjacent room.
func cmdAsound(e *Env, mob *world.Mobile, argument string) {
	if argument == "" || mob.Room == nil {
		return
	}
	for _, ex := range mob.Room.Exits {
		if ex == nil || ex.To == nil || ex.To == mob.Room {
			continue
		}
		for _, to := range ex.To.People {
			if !to.IsNPC() {
				to.Send(world.Capitalize(argument) + "\n\r")
			}
		}
	}
}

// cmdAssist joins the fight of a named ally in the room.
func cmdAssist(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	ally := e.World.GetMobRoom(mob, arg)
	if ally == nil || ally == mob || ally.Fighting == nil || mob.Fighting != nil {
		return
	}
	if e.Kill != nil {
		e.Kill(mob, ally.Fighting)
	}
}

// cmdAt executes a command at another location.
func cmdAt(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if arg == "" || rest == "" {
		return
	}
	location := e.World.FindLocation(mob, arg)
	if location == nil {
		return
	}
	original := mob.Room
	e.World.TransferMob(mob, location)
	if e.Interpret != nil {
		e.Interpret(mob, rest)
	}
	// The command may have moved or killed the runner.
	if mob.Room == location && original != nil {
		e.World.TransferMob(mob, original)
	}
}

// cmdCall runs another program with optional victim and objects.
// Cycles are not detected; the call depth limit is the safeguard.
func cmdCall(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if !world.IsNumber(arg) {
		e.bug("mob call: bad vnum %q", arg)
		return
	}
	prog := e.World.Reg.Prog(data.VNUM(atoi(arg)))
	if prog == nil {
		e.bug("mob call: unknown prog %s", arg)
		return
	}
	var ch *world.Mobile
	var obj1, obj2 *world.Object
	arg, rest = splitWord(rest)
	if arg != "" {
		ch = e.World.GetMobRoom(mob, arg)
	}
	arg, rest = splitWord(rest)
	if arg != "" {
		obj1 = e.World.GetObjHere(mob, arg)
	}
	arg, _ = splitWord(rest)
	if arg != "" {
		obj2 = e.World.GetObjHere(mob, arg)
	}
	var a1, a2 any
	if obj1 != nil {
		a1 = obj1
	}
	if obj2 != nil {
		a2 = obj2
	}
	e.Flow(prog.Vnum, prog.Code, mob, ch, a1, a2)
}

// cmdCancel zeroes the delay timer.
func cmdCancel(e *Env, mob *world.Mobile, argument string) {
	mob.MprogDelay = 0
}

// cmdCast throws a spell through the magic layer.
func cmdCast(e *Env, mob *world.Mobile, argument string) {
	spell, rest := splitWord(argument)
	if spell == "" || e.Cast == nil {
		return
	}
	var victim *world.Mobile
	if arg, _ := splitWord(rest); arg != "" {
		victim = e.World.GetMobRoom(mob, arg)
	}
	e.Cast(mob, strings.Trim(spell, "'"), victim)
}

// cmdDamage hurts a victim (or everyone) without a combat round.
// A trailing "kill" makes the damage lethal.
func cmdDamage(e *Env, mob *world.Mobile, argument string) {
	target, rest := splitWord(argument)
	minArg, rest2 := splitWord(rest)
	maxArg, rest3 := splitWord(rest2)
	killWord, _ := splitWord(rest3)
	if target == "" || e.Damage == nil {
		return
	}
	lethal := strings.EqualFold(killWord, "kill") || strings.EqualFold(killWord, "lethal")
	amount := e.World.NumberRange(atoi(minArg), atoi(maxArg))
	if strings.EqualFold(target, "all") {
		if mob.Room == nil {
			return
		}
		victims := append([]*world.Mobile(nil), mob.Room.People...)
		for _, vch := range victims {
			if vch != mob {
				e.Damage(mob, vch, amount, lethal)
			}
		}
		return
	}
	if victim := e.World.GetMobRoom(mob, target); victim != nil {
		e.Damage(mob, victim, amount, lethal)
	}
}

// cmdDelay schedules the DELAY trigger.
func cmdDelay(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	mob.MprogDelay = atoi(arg)
}

// cmdEcho shows text to the room.
func cmdEcho(e *Env, mob *world.Mobile, argument string) {
	if mob.Room == nil {
		return
	}
	for _, to := range mob.Room.People {
		if !to.IsNPC() {
			to.Send(world.Capitalize(argument) + "\n\r")
		}
	}
}

// cmdEchoAround shows text to everyone except the victim.
func cmdEchoAround(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil || mob.Room == nil {
		return
	}
	for _, to := range mob.Room.People {
		if to != victim && !to.IsNPC() {
			to.Send(world.Capitalize(rest) + "\n\r")
		}
	}
}

// cmdEchoAt shows text to one victim.
func cmdEchoAt(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil {
		return
	}
	victim.Send(world.Capitalize(rest) + "\n\r")
}

// cmdFlee breaks off combat through a random open exit.
func cmdFlee(e *Env, mob *world.Mobile, argument string) {
	if mob.Fighting == nil || mob.Room == nil {
		return
	}
	for attempt := 0; attempt < 6; attempt++ {
		dir := e.World.Rng.Intn(data.DirMax)
		ex := mob.Room.Exits[dir]
		if ex == nil || ex.To == nil || ex.IsClosed() {
			continue
		}
		e.World.StopFighting(mob, true)
		e.World.TransferMob(mob, ex.To)
		return
	}
}

// cmdForce makes another character execute a command.
func cmdForce(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if arg == "" || rest == "" || e.Interpret == nil {
		return
	}
	if strings.EqualFold(arg, "all") {
		if mob.Room == nil {
			return
		}
		victims := append([]*world.Mobile(nil), mob.Room.People...)
		for _, vch := range victims {
			if vch != mob {
				e.Interpret(vch, rest)
			}
		}
		return
	}
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil || victim == mob {
		return
	}
	e.Interpret(victim, rest)
}

// cmdForget clears the remembered target.
func cmdForget(e *Env, mob *world.Mobile, argument string) {
	mob.MprogTarget = nil
}

// cmdGecho shows text to every player in the game.
func cmdGecho(e *Env, mob *world.Mobile, argument string) {
	for _, d := range e.World.Descriptors {
		if d.State == world.ConPlaying && d.Char != nil {
			d.Char.Send(world.Capitalize(argument) + "\n\r")
		}
	}
}

// cmdGforce forces a victim's whole group.
func cmdGforce(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if arg == "" || rest == "" || e.Interpret == nil {
		return
	}
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil || victim == mob || victim.Room == nil {
		return
	}
	members := append([]*world.Mobile(nil), victim.Room.People...)
	for _, vch := range members {
		if world.SameGroup(vch, victim) || vch == victim {
			e.Interpret(vch, rest)
		}
	}
}

// cmdGoto moves the runner.
func cmdGoto(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	location := e.World.FindLocation(mob, arg)
	if location == nil {
		return
	}
	e.World.StopFighting(mob, true)
	e.World.TransferMob(mob, location)
}

// cmdGtransfer transfers a victim's group.
func cmdGtransfer(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil || victim.Room == nil {
		return
	}
	members := append([]*world.Mobile(nil), victim.Room.People...)
	for _, vch := range members {
		if world.SameGroup(vch, victim) || vch == victim {
			cmdTransfer(e, mob, vch.Name+" "+rest)
		}
	}
}

// cmdJunk destroys carried objects without a message.
func cmdJunk(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	if arg == "" {
		return
	}
	if strings.EqualFold(arg, "all") || strings.HasPrefix(arg, "all.") {
		keyword := strings.TrimPrefix(arg, "all.")
		for i := len(mob.Carrying) - 1; i >= 0; i-- {
			obj := mob.Carrying[i]
			if keyword == "all" || keyword == "" || world.IsName(keyword, obj.Name) {
				e.World.ExtractObj(obj)
			}
		}
		return
	}
	if obj := e.World.GetObjCarry(mob, arg); obj != nil {
		e.World.ExtractObj(obj)
	} else if obj := e.World.GetObjWear(mob, arg); obj != nil {
		e.World.ExtractObj(obj)
	}
}

// cmdKill starts combat.
func cmdKill(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil || victim == mob || mob.Fighting == victim {
		return
	}
	if e.Kill != nil {
		e.Kill(mob, victim)
	}
}

// cmdMload loads a mobile into the runner's room.
func cmdMload(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	if !world.IsNumber(arg) || mob.Room == nil {
		return
	}
	proto := e.World.Reg.Mob(data.VNUM(atoi(arg)))
	if proto == nil {
		e.bug("mob mload: unknown vnum %s", arg)
		return
	}
	loaded := e.World.CreateMob(proto)
	e.World.MobToRoom(loaded, mob.Room)
}

// cmdOload loads an object to inventory, or to the room with a
// trailing "room".
func cmdOload(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if !world.IsNumber(arg) {
		return
	}
	proto := e.World.Reg.Obj(data.VNUM(atoi(arg)))
	if proto == nil {
		e.bug("mob oload: unknown vnum %s", arg)
		return
	}
	obj := e.World.CreateObj(proto)
	where, _ := splitWord(rest)
	if strings.EqualFold(where, "room") && mob.Room != nil {
		e.World.ObjToRoom(obj, mob.Room)
	} else {
		e.World.ObjToMob(obj, mob)
	}
}

// cmdOtransfer moves an object to a location.
func cmdOtransfer(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	obj := e.World.GetObjHere(mob, arg)
	if obj == nil {
		return
	}
	locArg, _ := splitWord(rest)
	location := e.World.FindLocation(mob, locArg)
	if location == nil {
		return
	}
	e.World.ObjToRoom(obj, location)
}

// cmdPurge destroys NPCs and objects in the room, never players and
// never the runner.
func cmdPurge(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	if mob.Room == nil {
		return
	}
	if arg == "" || strings.EqualFold(arg, "all") {
		victims := append([]*world.Mobile(nil), mob.Room.People...)
		for _, vch := range victims {
			if vch.IsNPC() && vch != mob && vch.ActFlags&data.ActNoPurge == 0 {
				e.World.ExtractMob(vch, true)
			}
		}
		contents := append([]*world.Object(nil), mob.Room.Contents...)
		for _, obj := range contents {
			if obj.ExtraFlags&data.ItemNoPurge == 0 {
				e.World.ExtractObj(obj)
			}
		}
		return
	}
	if victim := e.World.GetMobRoom(mob, arg); victim != nil {
		if victim.IsNPC() && victim != mob {
			e.World.ExtractMob(victim, true)
		}
		return
	}
	if obj := e.World.GetObjHere(mob, arg); obj != nil {
		e.World.ExtractObj(obj)
	}
}

// cmdQuest manipulates a player's quest state:
// mob quest <vnum> <grant|finish|clear> <victim>.
func cmdQuest(e *Env, mob *world.Mobile, argument string) {
	vnumArg, rest := splitWord(argument)
	action, rest2 := splitWord(rest)
	victimArg, _ := splitWord(rest2)
	victim := e.World.GetMobRoom(mob, victimArg)
	if victim == nil || victim.Pc == nil || !world.IsNumber(vnumArg) {
		return
	}
	if victim.Pc.Quests == nil {
		victim.Pc.Quests = make(map[data.VNUM]int)
	}
	vnum := data.VNUM(atoi(vnumArg))
	switch strings.ToLower(action) {
	case "grant":
		victim.Pc.Quests[vnum] = 1
	case "finish":
		victim.Pc.Quests[vnum] = 2
	case "clear":
		delete(victim.Pc.Quests, vnum)
	default:
		e.bug("mob quest: bad action %q", action)
	}
}

// cmdRemember stores the script target.
func cmdRemember(e *Env, mob *world.Mobile, argument string) {
	arg, _ := splitWord(argument)
	if victim := e.World.GetMobWorld(mob, arg); victim != nil {
		mob.MprogTarget = victim
	}
}

// cmdRemove strips objects of a vnum (or all) from a victim.
func cmdRemove(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	victim := e.World.GetMobRoom(mob, arg)
	if victim == nil {
		return
	}
	what, _ := splitWord(rest)
	all := strings.EqualFold(what, "all")
	if !all && !world.IsNumber(what) {
		e.bug("mob remove: bad argument %q", what)
		return
	}
	vnum := data.VNUM(atoi(what))
	for i := len(victim.Carrying) - 1; i >= 0; i-- {
		obj := victim.Carrying[i]
		if all || obj.Proto.Vnum == vnum {
			e.World.ExtractObj(obj)
		}
	}
}

// cmdTransfer moves a victim (or the whole room) to a location,
// defaulting to the runner's room.
func cmdTransfer(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if arg == "" {
		return
	}
	locArg, _ := splitWord(rest)
	location := mob.Room
	if locArg != "" {
		location = e.World.FindLocation(mob, locArg)
	}
	if location == nil {
		return
	}
	if strings.EqualFold(arg, "all") {
		if mob.Room == nil {
			return
		}
		victims := append([]*world.Mobile(nil), mob.Room.People...)
		for _, vch := range victims {
			if vch != mob && !vch.IsNPC() {
				e.World.TransferMob(vch, location)
			}
		}
		return
	}
	victim := e.World.GetMobWorld(mob, arg)
	if victim == nil {
		return
	}
	e.World.StopFighting(victim, true)
	e.World.TransferMob(victim, location)
}

// cmdVforce forces every mob of a vnum, everywhere.
func cmdVforce(e *Env, mob *world.Mobile, argument string) {
	arg, rest := splitWord(argument)
	if !world.IsNumber(arg) || rest == "" || e.Interpret == nil {
		return
	}
	vnum := data.VNUM(atoi(arg))
	victims := append([]*world.Mobile(nil), e.World.CharList...)
	for _, vch := range victims {
		if vch.IsNPC() && vch != mob && vch.Proto != nil && vch.Proto.Vnum == vnum &&
			vch.Fighting == nil {
			e.Interpret(vch, rest)
		}
	}
}

// cmdZecho shows text to every player in the runner's area instance.
func cmdZecho(e *Env, mob *world.Mobile, argument string) {
	if mob.Room == nil {
		return
	}
	inst := mob.Room.Area
	for _, room := range inst.Rooms {
		for _, to := range room.People {
			if !to.IsNPC() {
				to.Send(world.Capitalize(argument) + "\n\r")
			}
		}
	}
}
