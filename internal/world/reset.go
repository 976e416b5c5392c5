package world

import (
	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
)

// ResetInstance replays an area instance's reset script, walking the
// room list once. M and O establish the "last mob" / "last container"
// context consumed by G, E and P. A missing prototype logs a bug and
// skips the command.
func (w *World) ResetInstance(inst *AreaInstance) {
	for _, rp := range inst.Proto.Rooms {
		room := inst.Rooms[rp.Vnum]
		if room == nil {
			continue
		}
		w.resetRoom(inst, room)
	}
	inst.ResetTimer = resetMinutes(inst.Proto)
	inst.Empty = inst.PlayerCount() == 0
	w.Bus.Emit(event.AreaReset{AreaName: inst.Proto.Name, Owner: inst.Owner})
}

func (w *World) resetRoom(inst *AreaInstance, room *Room) {
	var lastMob *Mobile
	var lastObj *Object

	for _, rs := range room.Proto.Resets {
		switch rs.Cmd {
		case 'M':
			lastMob = nil
			proto := w.Reg.Mob(data.VNUM(rs.Arg1))
			if proto == nil {
				w.Bug("reset M: unknown mob %d", rs.Arg1)
				continue
			}
			if w.countMobArea(inst, proto) >= rs.Arg2 {
				continue
			}
			if w.countMobRoom(room, proto) >= rs.Arg4 {
				continue
			}
			mob := w.CreateMob(proto)
			w.MobToRoom(mob, room)
			lastMob = mob

		case 'O':
			lastObj = nil
			proto := w.Reg.Obj(data.VNUM(rs.Arg1))
			if proto == nil {
				w.Bug("reset O: unknown object %d", rs.Arg1)
				continue
			}
			if rs.Arg2 > 0 && proto.Count >= rs.Arg2 {
				continue
			}
			if w.roomHasObj(room, proto) {
				continue
			}
			obj := w.CreateObj(proto)
			w.ObjToRoom(obj, room)
			lastObj = obj

		case 'P':
			proto := w.Reg.Obj(data.VNUM(rs.Arg1))
			if proto == nil {
				w.Bug("reset P: unknown object %d", rs.Arg1)
				continue
			}
			container := lastObj
			if container == nil || container.Proto.Vnum != data.VNUM(rs.Arg3) {
				container = w.findObjRoom(room, data.VNUM(rs.Arg3))
			}
			if container == nil {
				w.Bug("reset P: container %d not present", rs.Arg3)
				continue
			}
			if rs.Arg2 > 0 && proto.Count >= rs.Arg2 {
				continue
			}
			if countObjIn(container, proto) >= rs.Arg4 {
				continue
			}
			obj := w.CreateObj(proto)
			w.ObjToObj(obj, container)

		case 'G':
			if lastMob == nil {
				continue
			}
			proto := w.Reg.Obj(data.VNUM(rs.Arg1))
			if proto == nil {
				w.Bug("reset G: unknown object %d", rs.Arg1)
				continue
			}
			obj := w.CreateObj(proto)
			w.ObjToMob(obj, lastMob)

		case 'E':
			if lastMob == nil {
				continue
			}
			proto := w.Reg.Obj(data.VNUM(rs.Arg1))
			if proto == nil {
				w.Bug("reset E: unknown object %d", rs.Arg1)
				continue
			}
			if rs.Arg3 < 0 || rs.Arg3 >= data.MaxWear {
				w.Bug("reset E: bad wear location %d", rs.Arg3)
				continue
			}
			obj := w.CreateObj(proto)
			w.ObjToMob(obj, lastMob)
			if lastMob.GetEq(rs.Arg3) == nil {
				w.EquipMob(lastMob, obj, rs.Arg3)
			}

		case 'D':
			target := inst.Rooms[data.VNUM(rs.Arg2)]
			if target == nil {
				continue
			}
			dir := rs.Arg3
			if dir < 0 || dir >= data.DirMax || target.Exits[dir] == nil {
				w.Bug("reset D: room %d has no %s exit", rs.Arg2, dirNameSafe(dir))
				continue
			}
			ex := target.Exits[dir]
			switch rs.Arg4 {
			case 0:
				ex.Flags &^= data.ExClosed | data.ExLocked
			case 1:
				ex.Flags |= data.ExClosed
				ex.Flags &^= data.ExLocked
			case 2:
				ex.Flags |= data.ExClosed | data.ExLocked
			default:
				w.Bug("reset D: bad door state %d", rs.Arg4)
			}

		case 'R':
			target := inst.Rooms[data.VNUM(rs.Arg1)]
			if target == nil {
				continue
			}
			n := rs.Arg2
			if n > data.DirMax {
				n = data.DirMax
			}
			// Fisher-Yates over the first n exit slots. The scramble
			// may point exits at rooms outside the area; kept as the
			// historical behavior.
			for i := 0; i < n-1; i++ {
				j := i + w.Rng.Intn(n-i)
				target.Exits[i], target.Exits[j] = target.Exits[j], target.Exits[i]
			}
			for dir, ex := range target.Exits {
				if ex != nil {
					ex.Dir = dir
				}
			}

		default:
			w.Bug("reset: bad command %c", rs.Cmd)
		}
	}
}

func (w *World) countMobArea(inst *AreaInstance, proto *data.MobProto) int {
	n := 0
	for _, room := range inst.Rooms {
		n += w.countMobRoom(room, proto)
	}
	return n
}

func (w *World) countMobRoom(room *Room, proto *data.MobProto) int {
	n := 0
	for _, m := range room.People {
		if m.Proto == proto {
			n++
		}
	}
	return n
}

func (w *World) roomHasObj(room *Room, proto *data.ObjProto) bool {
	for _, o := range room.Contents {
		if o.Proto == proto {
			return true
		}
	}
	return false
}

func (w *World) findObjRoom(room *Room, vnum data.VNUM) *Object {
	for _, o := range room.Contents {
		if o.Proto.Vnum == vnum {
			return o
		}
	}
	return nil
}

func countObjIn(container *Object, proto *data.ObjProto) int {
	n := 0
	for _, o := range container.Contains {
		if o.Proto == proto {
			n++
		}
	}
	return n
}

func dirNameSafe(dir int) string {
	if dir >= 0 && dir < data.DirMax {
		return data.DirNames[dir]
	}
	return "?"
}

// ResetTick advances one area instance's reset timer by one real-time
// minute. An empty instance ticks twice as fast; an occupied one runs
// at the normal rate, so a zone is never repopulated out from under
// the players standing in it. A per-player instance with no players
// at reset time is destroyed instead of reset. Returns false when the
// instance was destroyed.
func (w *World) ResetTick(inst *AreaInstance) bool {
	step := 1
	if inst.PlayerCount() == 0 {
		step = 2
	}
	inst.ResetTimer -= step
	if inst.ResetTimer > 0 {
		return true
	}
	if inst.Owner != "" && inst.PlayerCount() == 0 {
		w.DestroyInstance(inst)
		return false
	}
	w.ResetInstance(inst)
	return true
}
