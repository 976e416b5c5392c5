package world

import (
	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
)

// InstantiateAreas builds the singleton instance of every area at boot
// and resolves exits across them. Per-player areas wait for their first
// visitor.
func (w *World) InstantiateAreas() {
	for _, proto := range w.Reg.Areas {
		if proto.Instance != data.InstanceSingleton {
			continue
		}
		w.newInstance(proto, "")
	}
	for _, inst := range w.Instances {
		w.fixExits(inst)
	}
}

// newInstance materializes rooms and exits for one area instance.
func (w *World) newInstance(proto *data.AreaProto, owner string) *AreaInstance {
	inst := &AreaInstance{
		Proto:      proto,
		Owner:      owner,
		Rooms:      make(map[data.VNUM]*Room, len(proto.Rooms)),
		ResetTimer: resetMinutes(proto),
		Empty:      true,
	}
	for _, rp := range proto.Rooms {
		inst.Rooms[rp.Vnum] = &Room{Proto: rp, Area: inst}
	}
	w.Instances = append(w.Instances, inst)
	return inst
}

func resetMinutes(proto *data.AreaProto) int {
	if proto.Reset > 0 {
		return proto.Reset
	}
	return 15
}

// fixExits resolves the exits of every room in an instance. Exit fixup
// is deferred until all areas are loaded: during parse only the
// destination vnum is known.
func (w *World) fixExits(inst *AreaInstance) {
	for _, room := range inst.Rooms {
		for dir, ep := range room.Proto.Exits {
			if ep == nil {
				continue
			}
			ex := &Exit{
				Proto:   ep,
				Dir:     dir,
				Flags:   ep.Flags,
				Keyword: ep.Keyword,
			}
			room.Exits[dir] = ex
			w.linkExit(inst, room, ex)
		}
	}
}

// linkExit points an exit at its destination room instance. Links into
// per-player areas stay nil and resolve per traveler at movement time.
func (w *World) linkExit(inst *AreaInstance, room *Room, ex *Exit) {
	destProto := w.Reg.Room(ex.Proto.ToVnum)
	if destProto == nil {
		if ex.Proto.ToVnum > 0 {
			w.Bug("room %d: exit %s to unknown room %d",
				room.Vnum(), data.DirNames[ex.Dir], ex.Proto.ToVnum)
		}
		return
	}
	destArea := destProto.Area
	var dest *Room
	if destArea == inst.Proto {
		dest = inst.Rooms[destProto.Vnum]
	} else if destArea.Instance == data.InstanceSingleton {
		if target := w.InstanceOf(destArea, ""); target != nil {
			dest = target.Rooms[destProto.Vnum]
		}
	}
	// else: per-player destination, resolved per traveler.
	if dest != nil {
		ex.To = dest
		dest.Inbound = append(dest.Inbound, ex)
	}
}

// InstanceOf finds a live instance of an area prototype for an owner.
func (w *World) InstanceOf(proto *data.AreaProto, owner string) *AreaInstance {
	for _, inst := range w.Instances {
		if inst.Proto == proto && inst.Owner == owner && !inst.Dead {
			return inst
		}
	}
	return nil
}

// RoomFor resolves a room vnum for a particular mobile, creating a
// per-player instance on first entry by a player with none.
func (w *World) RoomFor(m *Mobile, vnum data.VNUM) *Room {
	proto := w.Reg.Room(vnum)
	if proto == nil {
		return nil
	}
	area := proto.Area
	if area.Instance == data.InstanceSingleton {
		if inst := w.InstanceOf(area, ""); inst != nil {
			return inst.Rooms[vnum]
		}
		return nil
	}

	owner := ""
	if m != nil {
		if !m.IsNPC() {
			owner = m.Name
		} else if m.Room != nil && m.Room.Area.Proto == area {
			owner = m.Room.Area.Owner
		}
	}
	if inst := w.InstanceOf(area, owner); inst != nil {
		return inst.Rooms[vnum]
	}
	if m == nil || m.IsNPC() {
		return nil
	}
	inst := w.newInstance(area, owner)
	w.fixExits(inst)
	w.ResetInstance(inst)
	return inst.Rooms[vnum]
}

// DestroyInstance tears a per-player instance down: occupants are
// extracted, inbound exits from other instances are nulled, rooms are
// released.
func (w *World) DestroyInstance(inst *AreaInstance) {
	if inst.Owner == "" {
		w.Bug("destroy_instance: refusing to destroy singleton %s", inst.Proto.Name)
		return
	}
	for _, room := range inst.Rooms {
		for len(room.People) > 0 {
			w.ExtractMob(room.People[len(room.People)-1], true)
		}
		for len(room.Contents) > 0 {
			w.ExtractObj(room.Contents[len(room.Contents)-1])
		}
		for _, in := range room.Inbound {
			in.To = nil
		}
		room.Inbound = nil
		for _, ex := range room.Exits {
			if ex != nil && ex.To != nil {
				removeInbound(ex.To, ex)
				ex.To = nil
			}
		}
	}
	inst.Dead = true
	for i, x := range w.Instances {
		if x == inst {
			w.Instances = append(w.Instances[:i], w.Instances[i+1:]...)
			break
		}
	}
	w.Bus.Emit(event.InstanceDestroyed{AreaName: inst.Proto.Name, Owner: inst.Owner})
}

func removeInbound(room *Room, ex *Exit) {
	for i, x := range room.Inbound {
		if x == ex {
			room.Inbound = append(room.Inbound[:i], room.Inbound[i+1:]...)
			return
		}
	}
}
