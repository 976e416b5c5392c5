package handler

import (
	"strconv"
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

// CarryLimit caps the number of items a mobile can hold.
const CarryLimit = 100

func canTake(ch *world.Mobile, obj *world.Object) bool {
	if obj.WearFlags&data.WearableTake != 0 {
		return true
	}
	return ch.GetTrust() >= world.LevelImmortal
}

func getObj(d *Deps, ch *world.Mobile, obj *world.Object, container *world.Object) {
	w := d.World
	if !canTake(ch, obj) {
		ch.Send("You can't take that.\n\r")
		return
	}
	if ch.CarryCount() >= CarryLimit {
		w.Act("$p: you can't carry that many items.", ch, obj, nil, world.ToChar)
		return
	}
	if container != nil {
		w.Act("You get $p from $P.", ch, obj, container, world.ToChar)
		w.Act("$n gets $p from $P.", ch, obj, container, world.ToRoom)
	} else {
		w.Act("You get $p.", ch, obj, nil, world.ToChar)
		w.Act("$n gets $p.", ch, obj, nil, world.ToRoom)
	}
	w.ObjToMob(obj, ch)

	// Picking up money folds it into the purse.
	if obj.ItemType == data.ItemMoney {
		ch.Silver += obj.Values[0]
		ch.Gold += obj.Values[1]
		w.ExtractObj(obj)
	}
}

func doGet(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, _ := world.OneArgument(rest)
	if arg1 == "" {
		ch.Send("Get what?\n\r")
		return
	}
	if arg2 == "" || arg2 == "from" {
		if strings.HasPrefix(arg1, "all") {
			keyword := strings.TrimPrefix(strings.TrimPrefix(arg1, "all"), ".")
			found := false
			contents := append([]*world.Object(nil), ch.Room.Contents...)
			for _, obj := range contents {
				if (keyword == "" || world.IsName(keyword, obj.Name)) && ch.CanSeeObj(obj) {
					found = true
					getObj(d, ch, obj, nil)
				}
			}
			if !found {
				ch.Send("You see nothing here.\n\r")
			}
			return
		}
		obj := w.GetObjList(ch, arg1, ch.Room.Contents)
		if obj == nil {
			ch.Send("You see no " + arg1 + " here.\n\r")
			return
		}
		getObj(d, ch, obj, nil)
		return
	}

	// get <obj> <container>
	containerArg := arg2
	if containerArg == "from" {
		containerArg, _ = world.OneArgument(rest[len("from"):])
	}
	container := w.GetObjHere(ch, containerArg)
	if container == nil {
		ch.Send("You do not see that container here.\n\r")
		return
	}
	if container.ItemType != data.ItemContainer &&
		container.ItemType != data.ItemCorpseNPC && container.ItemType != data.ItemCorpsePC {
		ch.Send("That's not a container.\n\r")
		return
	}
	if container.IsClosed() {
		w.Act("The $p is closed.", ch, container, nil, world.ToChar)
		return
	}
	if strings.HasPrefix(arg1, "all") {
		keyword := strings.TrimPrefix(strings.TrimPrefix(arg1, "all"), ".")
		contents := append([]*world.Object(nil), container.Contains...)
		for _, obj := range contents {
			if (keyword == "" || world.IsName(keyword, obj.Name)) && ch.CanSeeObj(obj) {
				getObj(d, ch, obj, container)
			}
		}
		return
	}
	obj := w.GetObjList(ch, arg1, container.Contains)
	if obj == nil {
		w.Act("You see nothing like that in $p.", ch, container, nil, world.ToChar)
		return
	}
	getObj(d, ch, obj, container)
}

func doDrop(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Drop what?\n\r")
		return
	}
	if strings.HasPrefix(arg, "all") {
		keyword := strings.TrimPrefix(strings.TrimPrefix(arg, "all"), ".")
		found := false
		carrying := append([]*world.Object(nil), ch.Carrying...)
		for _, obj := range carrying {
			if obj.WearLoc != data.WearNone || !ch.CanSeeObj(obj) {
				continue
			}
			if keyword != "" && !world.IsName(keyword, obj.Name) {
				continue
			}
			if obj.ExtraFlags&data.ItemNoDrop != 0 {
				continue
			}
			found = true
			w.ObjToRoom(obj, ch.Room)
			w.Act("You drop $p.", ch, obj, nil, world.ToChar)
			w.Act("$n drops $p.", ch, obj, nil, world.ToRoom)
		}
		if !found {
			ch.Send("You are not carrying anything like that.\n\r")
		}
		return
	}
	obj := w.GetObjCarry(ch, arg)
	if obj == nil {
		ch.Send("You do not have that item.\n\r")
		return
	}
	if obj.ExtraFlags&data.ItemNoDrop != 0 {
		ch.Send("You can't let go of it.\n\r")
		return
	}
	w.ObjToRoom(obj, ch.Room)
	w.Act("You drop $p.", ch, obj, nil, world.ToChar)
	w.Act("$n drops $p.", ch, obj, nil, world.ToRoom)
}

func doPut(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, _ := world.OneArgument(rest)
	if arg2 == "in" {
		arg2, _ = world.OneArgument(rest[len("in"):])
	}
	if arg1 == "" || arg2 == "" {
		ch.Send("Put what in what?\n\r")
		return
	}
	container := w.GetObjHere(ch, arg2)
	if container == nil {
		ch.Send("You do not see that container here.\n\r")
		return
	}
	if container.ItemType != data.ItemContainer {
		ch.Send("That's not a container.\n\r")
		return
	}
	if container.IsClosed() {
		w.Act("The $p is closed.", ch, container, nil, world.ToChar)
		return
	}
	obj := w.GetObjCarry(ch, arg1)
	if obj == nil {
		ch.Send("You do not have that item.\n\r")
		return
	}
	if obj == container {
		ch.Send("You can't fold it into itself.\n\r")
		return
	}
	if obj.TotalWeight()+container.TotalWeight() > container.Values[0] &&
		container.Values[0] > 0 {
		ch.Send("It won't fit.\n\r")
		return
	}
	w.ObjToObj(obj, container)
	w.Act("You put $p in $P.", ch, obj, container, world.ToChar)
	w.Act("$n puts $p in $P.", ch, obj, container, world.ToRoom)
}

func doGive(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, rest2 := world.OneArgument(rest)
	if arg2 == "to" {
		arg2, _ = world.OneArgument(rest2)
	}
	if arg1 == "" || arg2 == "" {
		ch.Send("Give what to whom?\n\r")
		return
	}

	// give <amount> <silver|gold> <victim>
	if world.IsNumber(arg1) {
		doGiveMoney(d, ch, argument)
		return
	}

	obj := w.GetObjCarry(ch, arg1)
	if obj == nil {
		ch.Send("You do not have that item.\n\r")
		return
	}
	victim := w.GetMobRoom(ch, arg2)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim.IsNPC() && victim.CarryCount() >= CarryLimit {
		w.Act("$N has $S hands full.", ch, nil, victim, world.ToChar)
		return
	}
	w.ObjToMob(obj, victim)
	w.Act("You give $p to $N.", ch, obj, victim, world.ToChar)
	w.Act("$n gives you $p.", ch, obj, victim, world.ToVict)
	w.Act("$n gives $p to $N.", ch, obj, victim, world.ToNotVict)

	if victim.IsNPC() && victim.Proto != nil && victim.Proto.HasTrigger(data.TrigGive) {
		d.Progs.GiveTrigger(victim, ch, obj)
	}
}

func doGiveMoney(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg1, rest := world.OneArgument(argument)
	arg2, rest2 := world.OneArgument(rest)
	arg3, _ := world.OneArgument(rest2)
	if arg3 == "to" {
		arg3, _ = world.OneArgument(rest2[len("to"):])
	}
	amount := atoiH(arg1)
	if amount <= 0 || (arg2 != "silver" && arg2 != "gold") || arg3 == "" {
		ch.Send("Syntax: give <amount> <silver|gold> <victim>.\n\r")
		return
	}
	victim := w.GetMobRoom(ch, arg3)
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	silver := 0
	if arg2 == "silver" {
		if ch.Silver < amount {
			ch.Send("You haven't got that much silver.\n\r")
			return
		}
		ch.Silver -= amount
		victim.Silver += amount
		silver = amount
	} else {
		if ch.Gold < amount {
			ch.Send("You haven't got that much gold.\n\r")
			return
		}
		ch.Gold -= amount
		victim.Gold += amount
		silver = amount * 100
	}
	w.Act("You give $N some coins.", ch, nil, victim, world.ToChar)
	w.Act("$n gives you some coins.", ch, nil, victim, world.ToVict)
	w.Act("$n gives $N some coins.", ch, nil, victim, world.ToNotVict)

	if victim.IsNPC() && victim.Proto != nil && victim.Proto.HasTrigger(data.TrigBribe) {
		d.Progs.BribeTrigger(victim, ch, silver)
	}
}

// wearSlots maps a wear flag to its candidate equip slots.
var wearSlots = []struct {
	flag  data.Bits
	slots []int
}{
	{data.WearableFinger, []int{data.WearFingerL, data.WearFingerR}},
	{data.WearableNeck, []int{data.WearNeck1, data.WearNeck2}},
	{data.WearableBody, []int{data.WearBody}},
	{data.WearableHead, []int{data.WearHead}},
	{data.WearableLegs, []int{data.WearLegs}},
	{data.WearableFeet, []int{data.WearFeet}},
	{data.WearableHands, []int{data.WearHands}},
	{data.WearableArms, []int{data.WearArms}},
	{data.WearableShield, []int{data.WearShield}},
	{data.WearableAbout, []int{data.WearAbout}},
	{data.WearableWaist, []int{data.WearWaist}},
	{data.WearableWrist, []int{data.WearWristL, data.WearWristR}},
	{data.WearableWield, []int{data.WearWield}},
	{data.WearableHold, []int{data.WearHold}},
	{data.WearableFloat, []int{data.WearFloat}},
}

func wearObj(d *Deps, ch *world.Mobile, obj *world.Object, replace bool) {
	w := d.World
	if ch.Level < obj.Level {
		ch.Send("You must be level " +
			strconv.Itoa(obj.Level) + " to use this object.\n\r")
		return
	}
	if obj.ItemType == data.ItemLight {
		w.Act("You light $p and hold it.", ch, obj, nil, world.ToChar)
		w.Act("$n lights $p and holds it.", ch, obj, nil, world.ToRoom)
		if worn := ch.GetEq(data.WearLight); worn != nil {
			w.UnequipMob(ch, worn)
		}
		w.EquipMob(ch, obj, data.WearLight)
		return
	}
	for _, ws := range wearSlots {
		if obj.WearFlags&ws.flag == 0 {
			continue
		}
		for _, slot := range ws.slots {
			if ch.GetEq(slot) == nil {
				w.Act("You wear $p.", ch, obj, nil, world.ToChar)
				w.Act("$n wears $p.", ch, obj, nil, world.ToRoom)
				w.EquipMob(ch, obj, slot)
				return
			}
		}
		if !replace {
			return
		}
		// Replace the first candidate slot.
		slot := ws.slots[0]
		worn := ch.GetEq(slot)
		if worn != nil && worn.ExtraFlags&data.ItemNoRemove != 0 {
			w.Act("You can't remove $p.", ch, worn, nil, world.ToChar)
			return
		}
		if worn != nil {
			w.Act("You stop using $p.", ch, worn, nil, world.ToChar)
			w.UnequipMob(ch, worn)
		}
		w.Act("You wear $p.", ch, obj, nil, world.ToChar)
		w.Act("$n wears $p.", ch, obj, nil, world.ToRoom)
		w.EquipMob(ch, obj, slot)
		return
	}
	ch.Send("You can't wear, wield, or hold that.\n\r")
}

func doWear(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Wear, wield, or hold what?\n\r")
		return
	}
	if arg == "all" {
		carrying := append([]*world.Object(nil), ch.Carrying...)
		for _, obj := range carrying {
			if obj.WearLoc == data.WearNone && ch.CanSeeObj(obj) {
				wearObj(d, ch, obj, false)
			}
		}
		return
	}
	obj := d.World.GetObjCarry(ch, arg)
	if obj == nil {
		ch.Send("You do not have that item.\n\r")
		return
	}
	wearObj(d, ch, obj, true)
}

func doRemove(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Remove what?\n\r")
		return
	}
	obj := w.GetObjWear(ch, arg)
	if obj == nil {
		ch.Send("You do not have that item.\n\r")
		return
	}
	if obj.ExtraFlags&data.ItemNoRemove != 0 {
		w.Act("You can't remove $p.", ch, obj, nil, world.ToChar)
		return
	}
	w.UnequipMob(ch, obj)
	w.Act("You stop using $p.", ch, obj, nil, world.ToChar)
	w.Act("$n stops using $p.", ch, obj, nil, world.ToRoom)
}
