package world

import "github.com/thornvale/server/internal/data"

// Mutation primitives for the entity graph. All higher-level code
// routes through these so the invariants hold at every quiescence
// point. Every primitive is total: malformed calls log a bug and leave
// the graph valid.

// MobToRoom places a mobile in a room and updates both sides.
func (w *World) MobToRoom(m *Mobile, r *Room) {
	if m == nil || r == nil {
		w.Bug("mob_to_room: nil argument")
		return
	}
	if m.Room != nil {
		w.MobFromRoom(m)
	}
	m.Room = r
	r.People = append(r.People, m)
	if light := m.GetEq(data.WearLight); light != nil &&
		light.ItemType == data.ItemLight && light.Values[2] != 0 {
		r.Light++
	}
}

// MobFromRoom removes a mobile from its room.
func (w *World) MobFromRoom(m *Mobile) {
	if m == nil {
		w.Bug("mob_from_room: nil mobile")
		return
	}
	r := m.Room
	if r == nil {
		return
	}
	if light := m.GetEq(data.WearLight); light != nil &&
		light.ItemType == data.ItemLight && light.Values[2] != 0 && r.Light > 0 {
		r.Light--
	}
	for i, p := range r.People {
		if p == m {
			r.People = append(r.People[:i], r.People[i+1:]...)
			break
		}
	}
	m.Room = nil
	m.On = nil
}

// TransferMob is from-room plus to-room, preserving the furniture
// reference only if the furniture moved along.
func (w *World) TransferMob(m *Mobile, r *Room) {
	if m == nil || r == nil {
		w.Bug("transfer_mob: nil argument")
		return
	}
	furniture := m.On
	w.MobFromRoom(m)
	w.MobToRoom(m, r)
	if furniture != nil && furniture.InRoom == r {
		m.On = furniture
	}
}

// ObjToRoom places an object on a room floor.
func (w *World) ObjToRoom(o *Object, r *Room) {
	if o == nil || r == nil {
		w.Bug("obj_to_room: nil argument")
		return
	}
	w.objFromAnywhere(o)
	o.InRoom = r
	r.Contents = append(r.Contents, o)
}

// ObjToMob gives an object to a mobile's inventory.
func (w *World) ObjToMob(o *Object, m *Mobile) {
	if o == nil || m == nil {
		w.Bug("obj_to_mob: nil argument")
		return
	}
	w.objFromAnywhere(o)
	o.CarriedBy = m
	o.WearLoc = data.WearNone
	m.Carrying = append(m.Carrying, o)
}

// ObjToObj puts an object inside a container object.
func (w *World) ObjToObj(o, container *Object) {
	if o == nil || container == nil {
		w.Bug("obj_to_obj: nil argument")
		return
	}
	if o == container {
		w.Bug("obj_to_obj: object %d into itself", o.Proto.Vnum)
		return
	}
	w.objFromAnywhere(o)
	o.InObj = container
	container.Contains = append(container.Contains, o)
}

// objFromAnywhere detaches an object from whichever side lists it.
func (w *World) objFromAnywhere(o *Object) {
	switch {
	case o.InRoom != nil:
		w.ObjFromRoom(o)
	case o.CarriedBy != nil:
		w.ObjFromMob(o)
	case o.InObj != nil:
		w.ObjFromObj(o)
	}
}

// ObjFromRoom removes an object from a room floor.
func (w *World) ObjFromRoom(o *Object) {
	r := o.InRoom
	if r == nil {
		w.Bug("obj_from_room: object %d not in a room", o.Proto.Vnum)
		return
	}
	for _, m := range r.People {
		if m.On == o {
			m.On = nil
		}
	}
	for i, x := range r.Contents {
		if x == o {
			r.Contents = append(r.Contents[:i], r.Contents[i+1:]...)
			break
		}
	}
	o.InRoom = nil
}

// ObjFromMob removes an object from a mobile, unequipping first.
func (w *World) ObjFromMob(o *Object) {
	m := o.CarriedBy
	if m == nil {
		w.Bug("obj_from_mob: object %d not carried", o.Proto.Vnum)
		return
	}
	if o.WearLoc != data.WearNone {
		w.UnequipMob(m, o)
	}
	for i, x := range m.Carrying {
		if x == o {
			m.Carrying = append(m.Carrying[:i], m.Carrying[i+1:]...)
			break
		}
	}
	o.CarriedBy = nil
}

// ObjFromObj removes an object from its container.
func (w *World) ObjFromObj(o *Object) {
	container := o.InObj
	if container == nil {
		w.Bug("obj_from_obj: object %d not contained", o.Proto.Vnum)
		return
	}
	for i, x := range container.Contains {
		if x == o {
			container.Contains = append(container.Contains[:i], container.Contains[i+1:]...)
			break
		}
	}
	o.InObj = nil
}

// EquipMob wears an object in a slot, rolling its affects into the
// wearer's effective stats.
func (w *World) EquipMob(m *Mobile, o *Object, slot int) {
	if m == nil || o == nil || slot < 0 || slot >= data.MaxWear {
		w.Bug("equip_mob: bad arguments")
		return
	}
	if worn := m.GetEq(slot); worn != nil {
		w.Bug("equip_mob: slot %d already filled on %s", slot, m.Name)
		return
	}
	if o.CarriedBy != m {
		w.Bug("equip_mob: object %d not carried by wearer", o.Proto.Vnum)
		return
	}
	o.WearLoc = slot
	m.Armor -= applyAC(o, slot)
	for _, af := range o.Affects {
		w.AffectModify(m, af, true)
	}
	if o.ItemType == data.ItemLight && o.Values[2] != 0 && m.Room != nil {
		m.Room.Light++
	}
}

// UnequipMob removes a worn object, reversing its affects.
func (w *World) UnequipMob(m *Mobile, o *Object) {
	if m == nil || o == nil {
		w.Bug("unequip_mob: nil argument")
		return
	}
	if o.WearLoc == data.WearNone {
		w.Bug("unequip_mob: object %d not equipped", o.Proto.Vnum)
		return
	}
	slot := o.WearLoc
	o.WearLoc = data.WearNone
	m.Armor += applyAC(o, slot)
	for _, af := range o.Affects {
		w.AffectModify(m, af, false)
	}
	if o.ItemType == data.ItemLight && o.Values[2] != 0 &&
		m.Room != nil && m.Room.Light > 0 {
		m.Room.Light--
	}
}

// applyAC is the armor contribution of a worn piece. Body armor
// counts triple, head and legs double.
func applyAC(o *Object, slot int) int {
	if o.ItemType != data.ItemArmor {
		return 0
	}
	switch slot {
	case data.WearBody:
		return 3 * o.Values[0]
	case data.WearHead, data.WearLegs:
		return 2 * o.Values[0]
	default:
		return o.Values[0]
	}
}

// ExtractObj destroys an object. Contents of corpses go down with the
// parent; other containers dump their contents to the parent location.
func (w *World) ExtractObj(o *Object) {
	if o == nil || o.extracted {
		return // free-on-free is ignored
	}
	o.extracted = true

	destroyContents := o.ItemType == data.ItemCorpseNPC || o.ItemType == data.ItemCorpsePC
	for len(o.Contains) > 0 {
		in := o.Contains[len(o.Contains)-1]
		if destroyContents {
			w.ExtractObj(in)
			continue
		}
		switch {
		case o.InRoom != nil:
			w.ObjToRoom(in, o.InRoom)
		case o.CarriedBy != nil:
			w.ObjToMob(in, o.CarriedBy)
		case o.InObj != nil:
			w.ObjToObj(in, o.InObj)
		default:
			w.ObjFromObj(in)
			w.finishObj(in)
		}
	}

	w.objFromAnywhere(o)
	w.finishObj(o)
}

func (w *World) finishObj(o *Object) {
	o.extracted = true
	o.Affects = nil
	for i, x := range w.ObjList {
		if x == o {
			w.ObjList = append(w.ObjList[:i], w.ObjList[i+1:]...)
			break
		}
	}
	if o.Proto != nil {
		o.Proto.Count--
	}
}

// ExtractMob destroys a mobile: out of combat, out of follow chains,
// out of its room, and out of every weak reference that names it. For
// NPCs the prototype count drops; for players the session closes.
func (w *World) ExtractMob(m *Mobile, withCarry bool) {
	if m == nil || m.extracted {
		return // free-on-free is ignored
	}
	m.extracted = true

	w.StopFighting(m, true)
	if m.Master != nil {
		w.StopFollower(m)
	}
	w.DieFollower(m)

	for len(m.Carrying) > 0 {
		obj := m.Carrying[len(m.Carrying)-1]
		if withCarry {
			w.ExtractObj(obj)
		} else if m.Room != nil {
			w.ObjToRoom(obj, m.Room)
		} else {
			w.ExtractObj(obj)
		}
	}

	w.MobFromRoom(m)

	for _, other := range w.CharList {
		if other.Reply == m {
			other.Reply = nil
		}
		if other.MprogTarget == m {
			other.MprogTarget = nil
		}
		if other.Pet == m {
			other.Pet = nil
		}
	}

	m.Affects = nil

	if m.IsNPC() {
		if m.Proto != nil {
			m.Proto.Count--
		}
		w.removeChar(m)
		return
	}

	// Player: detach and close the session.
	w.removeChar(m)
	if m.Desc != nil {
		d := m.Desc
		d.Char = nil
		m.Desc = nil
		d.State = ConBreakConnect
	}
}

// StopFighting takes a mobile out of combat. With both, everyone
// fighting the mobile stops too.
func (w *World) StopFighting(m *Mobile, both bool) {
	for _, ch := range w.CharList {
		if ch == m || (both && ch.Fighting == m) {
			ch.Fighting = nil
			if ch.IsNPC() {
				ch.Position = ch.DefaultPosition()
			} else if ch.Position == data.PosFighting {
				ch.Position = data.PosStanding
			}
		}
	}
}

// StopFollower detaches a mobile from its master.
func (w *World) StopFollower(m *Mobile) {
	if m.Master == nil {
		w.Bug("stop_follower: %s has no master", m.Name)
		return
	}
	if m.Master.Pet == m {
		m.Master.Pet = nil
	}
	m.Master = nil
	m.Leader = nil
}

// DieFollower releases everyone following a dying mobile.
func (w *World) DieFollower(m *Mobile) {
	for _, ch := range w.CharList {
		if ch.Master == m {
			w.StopFollower(ch)
		}
		if ch.Leader == m {
			ch.Leader = nil
		}
	}
}

// AddFollower attaches follower to master.
func (w *World) AddFollower(follower, master *Mobile) {
	if follower.Master != nil {
		w.Bug("add_follower: %s already follows someone", follower.Name)
		return
	}
	follower.Master = master
	follower.Leader = nil
}
