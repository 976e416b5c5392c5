package world

import "github.com/thornvale/server/internal/data"

// Exit is a live directed link between two room instances. To is nil
// when the destination belongs to a per-player area; movement resolves
// those per traveler.
type Exit struct {
	Proto   *data.ExitProto
	To      *Room
	Flags   data.Bits
	Keyword string
	Dir     int
}

// IsDoor and friends read the live door state.
func (e *Exit) IsDoor() bool   { return e.Flags&data.ExIsDoor != 0 }
func (e *Exit) IsClosed() bool { return e.Flags&data.ExClosed != 0 }
func (e *Exit) IsLocked() bool { return e.Flags&data.ExLocked != 0 }

// Room is a live instance of a room prototype.
type Room struct {
	Proto *data.RoomProto
	Area  *AreaInstance

	People   []*Mobile
	Contents []*Object
	Exits    [data.DirMax]*Exit
	Light    int

	// Inbound lists exits in other rooms whose To points here, so
	// teardown can null them.
	Inbound []*Exit
}

func (r *Room) Vnum() data.VNUM { return r.Proto.Vnum }
func (r *Room) Name() string    { return r.Proto.Name }

// IsDark applies the room darkness rules.
func (r *Room) IsDark() bool {
	if r.Light > 0 {
		return false
	}
	if r.Proto.Flags&data.RoomDark != 0 {
		return true
	}
	if r.Proto.Sector == data.SectInside || r.Proto.Sector == data.SectCity {
		return false
	}
	return false
}

// IsPrivate reports whether the room refuses additional visitors.
func (r *Room) IsPrivate() bool {
	count := len(r.People)
	if r.Proto.Flags&data.RoomPrivate != 0 && count >= 2 {
		return true
	}
	if r.Proto.Flags&data.RoomSolitary != 0 && count >= 1 {
		return true
	}
	return false
}

// PlayerCount counts player characters in the room.
func (r *Room) PlayerCount() int {
	n := 0
	for _, m := range r.People {
		if !m.IsNPC() {
			n++
		}
	}
	return n
}

// AreaInstance is one materialization of an area prototype: the
// singleton copy, or a per-player copy owned by a character name.
type AreaInstance struct {
	Proto *data.AreaProto
	Owner string // owning character for per-player areas, "" otherwise

	Rooms map[data.VNUM]*Room

	ResetTimer int  // minutes until next reset
	Empty      bool // no players since last reset
	Dead       bool // per-player instance torn down
}

// PlayerCount counts player characters across the instance.
func (a *AreaInstance) PlayerCount() int {
	n := 0
	for _, r := range a.Rooms {
		n += r.PlayerCount()
	}
	return n
}
