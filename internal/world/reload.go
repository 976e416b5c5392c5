package world

// ReloadRoom rebuilds a single room instance from its prototype without
// dropping live sessions: occupants are parked in scratch vectors, the
// room and its outbound exits are freed, a fresh room is built and the
// occupants restored. Inbound exits from other rooms are nulled first
// and repopulate through the rebuilt links.
func (w *World) ReloadRoom(room *Room) *Room {
	inst := room.Area

	// Null every inbound pointer into the dying room.
	for _, in := range room.Inbound {
		in.To = nil
	}
	room.Inbound = nil

	// Detach outbound exits from their destinations' inbound lists.
	for _, ex := range room.Exits {
		if ex != nil && ex.To != nil {
			removeInbound(ex.To, ex)
		}
	}

	// Park occupants.
	mobs := append([]*Mobile(nil), room.People...)
	for _, m := range mobs {
		w.MobFromRoom(m)
	}
	objs := append([]*Object(nil), room.Contents...)
	for _, o := range objs {
		w.ObjFromRoom(o)
	}

	// Rebuild from the prototype.
	fresh := &Room{Proto: room.Proto, Area: inst}
	inst.Rooms[room.Proto.Vnum] = fresh
	for dir, ep := range room.Proto.Exits {
		if ep == nil {
			continue
		}
		ex := &Exit{Proto: ep, Dir: dir, Flags: ep.Flags, Keyword: ep.Keyword}
		fresh.Exits[dir] = ex
		w.linkExit(inst, fresh, ex)
	}

	// Rewire inbound links: any exit elsewhere whose prototype points
	// at this vnum reattaches on its next resolution; relink the ones
	// inside loaded instances eagerly.
	for _, other := range w.Instances {
		for _, r := range other.Rooms {
			for _, ex := range r.Exits {
				if ex != nil && ex.To == nil && ex.Proto != nil &&
					ex.Proto.ToVnum == room.Proto.Vnum {
					w.linkExit(other, r, ex)
				}
			}
		}
	}

	// Restore occupants and re-look players.
	for _, m := range mobs {
		w.MobToRoom(m, fresh)
	}
	for _, o := range objs {
		w.ObjToRoom(o, fresh)
	}
	for _, m := range mobs {
		if !m.IsNPC() {
			m.Send("\n\rThe room shimmers and reloads around you!\n\r")
			if w.Hooks.Look != nil {
				w.Hooks.Look(m)
			}
		}
	}
	return fresh
}
