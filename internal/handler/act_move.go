package handler

import (
	"strings"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

func doNorth(d *Deps, ch *world.Mobile, _ string) { moveChar(d, ch, data.DirNorth, false) }
func doEast(d *Deps, ch *world.Mobile, _ string)  { moveChar(d, ch, data.DirEast, false) }
func doSouth(d *Deps, ch *world.Mobile, _ string) { moveChar(d, ch, data.DirSouth, false) }
func doWest(d *Deps, ch *world.Mobile, _ string)  { moveChar(d, ch, data.DirWest, false) }
func doUp(d *Deps, ch *world.Mobile, _ string)    { moveChar(d, ch, data.DirUp, false) }
func doDown(d *Deps, ch *world.Mobile, _ string)  { moveChar(d, ch, data.DirDown, false) }

// moveChar walks a mobile through an exit, taking followers along.
func moveChar(d *Deps, ch *world.Mobile, dir int, isFollow bool) {
	w := d.World
	room := ch.Room
	if room == nil {
		return
	}

	// NPC watchers get first refusal.
	if !isFollow && d.Progs.ExitTrigger(ch, dir) {
		return
	}
	if ch.Room != room {
		return // an exit program moved the actor
	}

	ex := room.Exits[dir]
	if ex == nil {
		ch.Send("Alas, you cannot go that way.\n\r")
		return
	}
	dest := ex.To
	if dest == nil {
		dest = w.RoomFor(ch, ex.Proto.ToVnum)
	}
	if dest == nil {
		ch.Send("Alas, you cannot go that way.\n\r")
		return
	}
	if ex.IsClosed() && !ch.IsAffected(data.AffPassDoor) {
		keyword := ex.Keyword
		if keyword == "" {
			keyword = "door"
		}
		w.Act("The $d is closed.", ch, nil, keyword, world.ToChar)
		return
	}
	if dest.IsPrivate() {
		ch.Send("That room is private right now.\n\r")
		return
	}
	if !ch.IsNPC() {
		if dest.Proto.Flags&data.RoomImpOnly != 0 && ch.GetTrust() < world.LevelImplementor {
			ch.Send("Alas, you cannot go that way.\n\r")
			return
		}
		if dest.Proto.Flags&data.RoomGodsOnly != 0 && !ch.IsImmortal() {
			ch.Send("Alas, you cannot go that way.\n\r")
			return
		}
		if ch.Move < 1 {
			ch.Send("You are too exhausted.\n\r")
			return
		}
		ch.Move--
		ch.Wait += 1
	}
	if ch.IsNPC() && dest.Proto.Flags&data.RoomNoMob != 0 {
		return
	}

	if !ch.IsAffected(data.AffSneak) {
		w.Act("$n leaves $T.", ch, nil, data.DirNames[dir], world.ToRoom)
	}
	w.TransferMob(ch, dest)
	if !ch.IsAffected(data.AffSneak) {
		w.Act("$n has arrived.", ch, nil, nil, world.ToRoom)
	}
	doLook(d, ch, "auto")

	// Followers come along on the same pulse.
	followers := append([]*world.Mobile(nil), room.People...)
	for _, fch := range followers {
		if fch.Master == ch && fch.Position == data.PosStanding {
			w.Act("You follow $N.", fch, nil, ch, world.ToChar)
			moveChar(d, fch, dir, true)
		}
	}

	// Entry program for the mover, then greetings from the locals.
	if ch.IsNPC() && ch.Proto.HasTrigger(data.TrigEntry) {
		d.Progs.PercentTrigger(ch, nil, nil, nil, data.TrigEntry)
	}
	d.Progs.GreetTrigger(ch)
}

// findDoor resolves a door argument to a direction.
func findDoor(d *Deps, ch *world.Mobile, arg string) int {
	dir := data.DirLookup(arg)
	if dir < 0 {
		for i, ex := range ch.Room.Exits {
			if ex != nil && ex.IsDoor() && ex.Keyword != "" && world.IsName(arg, ex.Keyword) {
				return i
			}
		}
		d.World.Act("I see no $T here.", ch, nil, arg, world.ToChar)
		return -1
	}
	ex := ch.Room.Exits[dir]
	if ex == nil || !ex.IsDoor() {
		ch.Send("You can't do that.\n\r")
		return -1
	}
	return dir
}

func doOpen(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Open what?\n\r")
		return
	}
	w := d.World

	// Containers first.
	if obj := w.GetObjHere(ch, arg); obj != nil && obj.ItemType == data.ItemContainer {
		switch {
		case obj.Values[1]&data.ContClosed == 0:
			ch.Send("It's already open.\n\r")
		case obj.Values[1]&data.ContCloseable == 0:
			ch.Send("You can't do that.\n\r")
		case obj.Values[1]&data.ContLocked != 0:
			ch.Send("It's locked.\n\r")
		default:
			obj.Values[1] &^= data.ContClosed
			w.Act("You open $p.", ch, obj, nil, world.ToChar)
			w.Act("$n opens $p.", ch, obj, nil, world.ToRoom)
		}
		return
	}

	dir := findDoor(d, ch, arg)
	if dir < 0 {
		return
	}
	ex := ch.Room.Exits[dir]
	switch {
	case !ex.IsClosed():
		ch.Send("It's already open.\n\r")
		return
	case ex.IsLocked():
		ch.Send("It's locked.\n\r")
		return
	}
	ex.Flags &^= data.ExClosed
	w.Act("$n opens the $d.", ch, nil, doorKeyword(ex), world.ToRoom)
	ch.Send("Ok.\n\r")

	// Open the other side too.
	if back := reverseExit(d, ch.Room, dir); back != nil {
		back.Flags &^= data.ExClosed
	}
}

func doClose(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Close what?\n\r")
		return
	}
	w := d.World

	if obj := w.GetObjHere(ch, arg); obj != nil && obj.ItemType == data.ItemContainer {
		switch {
		case obj.Values[1]&data.ContClosed != 0:
			ch.Send("It's already closed.\n\r")
		case obj.Values[1]&data.ContCloseable == 0:
			ch.Send("You can't do that.\n\r")
		default:
			obj.Values[1] |= data.ContClosed
			w.Act("You close $p.", ch, obj, nil, world.ToChar)
			w.Act("$n closes $p.", ch, obj, nil, world.ToRoom)
		}
		return
	}

	dir := findDoor(d, ch, arg)
	if dir < 0 {
		return
	}
	ex := ch.Room.Exits[dir]
	if ex.IsClosed() {
		ch.Send("It's already closed.\n\r")
		return
	}
	ex.Flags |= data.ExClosed
	w.Act("$n closes the $d.", ch, nil, doorKeyword(ex), world.ToRoom)
	ch.Send("Ok.\n\r")
	if back := reverseExit(d, ch.Room, dir); back != nil {
		back.Flags |= data.ExClosed
	}
}

func hasKey(ch *world.Mobile, key data.VNUM) bool {
	for _, obj := range ch.Carrying {
		if obj.Proto.Vnum == key {
			return true
		}
	}
	return false
}

func doLock(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Lock what?\n\r")
		return
	}
	dir := findDoor(d, ch, arg)
	if dir < 0 {
		return
	}
	ex := ch.Room.Exits[dir]
	switch {
	case !ex.IsClosed():
		ch.Send("It's not closed.\n\r")
		return
	case ex.Proto.Key <= 0:
		ch.Send("It can't be locked.\n\r")
		return
	case !hasKey(ch, ex.Proto.Key):
		ch.Send("You lack the key.\n\r")
		return
	case ex.IsLocked():
		ch.Send("It's already locked.\n\r")
		return
	}
	ex.Flags |= data.ExLocked
	ch.Send("*Click*\n\r")
	d.World.Act("$n locks the $d.", ch, nil, doorKeyword(ex), world.ToRoom)
	if back := reverseExit(d, ch.Room, dir); back != nil {
		back.Flags |= data.ExLocked
	}
}

func doUnlock(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Unlock what?\n\r")
		return
	}
	dir := findDoor(d, ch, arg)
	if dir < 0 {
		return
	}
	ex := ch.Room.Exits[dir]
	switch {
	case !ex.IsClosed():
		ch.Send("It's not closed.\n\r")
		return
	case ex.Proto.Key <= 0:
		ch.Send("It can't be unlocked.\n\r")
		return
	case !hasKey(ch, ex.Proto.Key):
		ch.Send("You lack the key.\n\r")
		return
	case !ex.IsLocked():
		ch.Send("It's already unlocked.\n\r")
		return
	}
	ex.Flags &^= data.ExLocked
	ch.Send("*Click*\n\r")
	d.World.Act("$n unlocks the $d.", ch, nil, doorKeyword(ex), world.ToRoom)
	if back := reverseExit(d, ch.Room, dir); back != nil {
		back.Flags &^= data.ExLocked
	}
}

func doorKeyword(ex *world.Exit) string {
	if ex.Keyword != "" {
		return ex.Keyword
	}
	return "door"
}

// reverseExit returns the matching exit on the far side, if the far
// room links straight back.
func reverseExit(d *Deps, room *world.Room, dir int) *world.Exit {
	ex := room.Exits[dir]
	if ex == nil || ex.To == nil {
		return nil
	}
	back := ex.To.Exits[data.ReverseDir(dir)]
	if back == nil || back.To != room {
		return nil
	}
	return back
}

func doRecall(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	if ch.IsNPC() {
		return
	}
	if ch.Room != nil && ch.Room.Proto.Flags&data.RoomNoRecall != 0 {
		ch.Send("The gods have forsaken this place.\n\r")
		return
	}
	dest := w.RoomFor(ch, data.VNUM(d.Config.Game.RecallVnum))
	if dest == nil {
		w.Bug("recall: room %d missing", d.Config.Game.RecallVnum)
		return
	}
	if ch.Fighting != nil {
		if w.NumberPercent() < 50 {
			ch.Send("You failed!\n\r")
			return
		}
		w.StopFighting(ch, true)
	}
	w.Act("$n prays for transportation!", ch, nil, nil, world.ToRoom)
	w.TransferMob(ch, dest)
	w.Act("$n appears in the room.", ch, nil, nil, world.ToRoom)
	doLook(d, ch, "auto")
}

func doFollow(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	w := d.World
	if arg == "" {
		ch.Send("Follow whom?\n\r")
		return
	}
	victim := w.GetMobRoom(ch, arg)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim == ch {
		if ch.Master == nil {
			ch.Send("You already follow yourself.\n\r")
			return
		}
		w.Act("You stop following $N.", ch, nil, ch.Master, world.ToChar)
		w.StopFollower(ch)
		return
	}
	if ch.Master != nil {
		w.StopFollower(ch)
	}
	w.AddFollower(ch, victim)
	w.Act("You now follow $N.", ch, nil, victim, world.ToChar)
	w.Act("$n now follows you.", victim, nil, ch, world.ToVict)
}

// doScan looks through exits up to three rooms out.
func doScan(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	if ch.Room == nil {
		return
	}
	ch.Send("Looking around you see:\n\r")
	distances := []string{"right here", "nearby to the %s", "not far %s", "off in the distance %s"}
	for _, m := range ch.Room.People {
		if m != ch && ch.CanSee(m) {
			w.Act("$N, right here.", ch, nil, m, world.ToChar)
		}
	}
	for dir := 0; dir < data.DirMax; dir++ {
		room := ch.Room
		for depth := 1; depth <= 3; depth++ {
			ex := room.Exits[dir]
			if ex == nil || ex.To == nil || ex.IsClosed() {
				break
			}
			room = ex.To
			for _, m := range room.People {
				if !ch.CanSee(m) {
					continue
				}
				name := m.Name
				if m.IsNPC() {
					name = m.ShortDescr
				}
				ch.Send(world.Capitalize(name) + ", " +
					sprintfDir(distances[depth], dir) + ".\n\r")
			}
		}
	}
}

func sprintfDir(format string, dir int) string {
	return strings.ReplaceAll(format, "%s", data.DirNames[dir])
}

func doQuit(d *Deps, ch *world.Mobile, _ string) {
	if ch.IsNPC() {
		return
	}
	if ch.Position == data.PosFighting {
		ch.Send("No way! You are fighting.\n\r")
		return
	}
	w := d.World
	ch.Send("Alas, all good things must come to an end.\n\r")
	w.Act("$n has left the game.", ch, nil, nil, world.ToRoom)
	d.Log.Info("quit", zap.String("name", ch.Name))
	w.Wiznet("$N rejoins the land of the mortals.", ch, nil, data.WizLogins, 0, 0)
	d.Bus.Emit(event.PlayerQuit{Name: ch.Name})

	if err := d.Players.Save(ch); err != nil {
		w.Bug("quit: save %s: %v", ch.Name, err)
	}
	desc := ch.Desc
	w.ExtractMob(ch, true)
	if desc != nil {
		w.CloseDescriptor(desc)
	}
}

func doSave(d *Deps, ch *world.Mobile, _ string) {
	if ch.IsNPC() {
		return
	}
	if err := d.Players.Save(ch); err != nil {
		d.World.Bug("save %s: %v", ch.Name, err)
		ch.Send("Your save failed; the gods have been notified.\n\r")
		return
	}
	ch.Send("Saving. Remember that old adage... some things are best left private.\n\r")
}

func doStand(d *Deps, ch *world.Mobile, _ string) {
	switch ch.Position {
	case data.PosSleeping:
		ch.Send("You wake and stand up.\n\r")
		d.World.Act("$n wakes and stands up.", ch, nil, nil, world.ToRoom)
		ch.Position = data.PosStanding
	case data.PosResting, data.PosSitting:
		ch.Send("You stand up.\n\r")
		d.World.Act("$n stands up.", ch, nil, nil, world.ToRoom)
		ch.Position = data.PosStanding
		ch.On = nil
	case data.PosStanding:
		ch.Send("You are already standing.\n\r")
	case data.PosFighting:
		ch.Send("You are already fighting!\n\r")
	}
}

func doRest(d *Deps, ch *world.Mobile, _ string) {
	switch ch.Position {
	case data.PosFighting:
		ch.Send("You are already fighting!\n\r")
	case data.PosResting:
		ch.Send("You are already resting.\n\r")
	default:
		ch.Position = data.PosResting
		ch.Send("You rest.\n\r")
		d.World.Act("$n sits down and rests.", ch, nil, nil, world.ToRoom)
	}
}

func doSit(d *Deps, ch *world.Mobile, _ string) {
	switch ch.Position {
	case data.PosFighting:
		ch.Send("Maybe you should finish this fight first?\n\r")
	case data.PosSitting:
		ch.Send("You are already sitting down.\n\r")
	default:
		ch.Position = data.PosSitting
		ch.Send("You sit down.\n\r")
		d.World.Act("$n sits down on the ground.", ch, nil, nil, world.ToRoom)
	}
}

func doSleep(d *Deps, ch *world.Mobile, _ string) {
	switch ch.Position {
	case data.PosSleeping:
		ch.Send("You are already sleeping.\n\r")
	case data.PosFighting:
		ch.Send("You are already fighting!\n\r")
	default:
		ch.Position = data.PosSleeping
		ch.Send("You go to sleep.\n\r")
		d.World.Act("$n goes to sleep.", ch, nil, nil, world.ToRoom)
	}
}

func doWimpy(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	wimpy := ch.MaxHit / 5
	if arg != "" {
		if !world.IsNumber(arg) {
			ch.Send("Sorry, you must tell us a number.\n\r")
			return
		}
		wimpy = atoiH(arg)
	}
	if wimpy < 0 || wimpy > ch.MaxHit/2 {
		ch.Send("Such wimpiness is not allowed.\n\r")
		return
	}
	ch.Wimpy = wimpy
	ch.Send("Ok.\n\r")
}

func doTitle(d *Deps, ch *world.Mobile, argument string) {
	if ch.IsNPC() {
		return
	}
	if argument == "" {
		ch.Send("Change your title to what?\n\r")
		return
	}
	if len(argument) > 45 {
		argument = argument[:45]
	}
	ch.Pc.Title = " " + argument
	ch.Send("Ok.\n\r")
}
