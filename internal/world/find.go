package world

import (
	"strconv"
	"strings"

	"github.com/thornvale/server/internal/data"
)

// OneArgument picks the first argument off a string, understanding
// quotes, and returns the remainder. The argument comes back lowered.
func OneArgument(argument string) (string, string) {
	argument = strings.TrimLeft(argument, " ")
	if argument == "" {
		return "", ""
	}
	end := byte(' ')
	if argument[0] == '\'' || argument[0] == '"' {
		end = argument[0]
		argument = argument[1:]
	}
	idx := strings.IndexByte(argument, end)
	if idx < 0 {
		return strings.ToLower(argument), ""
	}
	arg := strings.ToLower(argument[:idx])
	return arg, strings.TrimLeft(argument[idx+1:], " ")
}

// NumberArgument splits "14.sword" into 14 and "sword".
func NumberArgument(argument string) (int, string) {
	if idx := strings.IndexByte(argument, '.'); idx > 0 {
		if n, err := strconv.Atoi(argument[:idx]); err == nil {
			return n, argument[idx+1:]
		}
	}
	return 1, argument
}

// IsNumber reports whether the argument is completely numeric.
func IsNumber(arg string) bool {
	if arg == "" {
		return false
	}
	if arg[0] == '+' || arg[0] == '-' {
		arg = arg[1:]
	}
	if arg == "" {
		return false
	}
	for i := 0; i < len(arg); i++ {
		if arg[i] < '0' || arg[i] > '9' {
			return false
		}
	}
	return true
}

// IsName reports whether every word of arg prefixes some word of the
// keyword list.
func IsName(arg, keywords string) bool {
	if arg == "" {
		return false
	}
	kws := strings.Fields(strings.ToLower(keywords))
	for _, part := range strings.Fields(strings.ToLower(arg)) {
		ok := false
		for _, kw := range kws {
			if strings.HasPrefix(kw, part) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// Capitalize upper-cases the first letter, skipping color escapes.
func Capitalize(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '{' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] >= 'a' && s[i] <= 'z' {
			return s[:i] + strings.ToUpper(string(s[i])) + s[i+1:]
		}
		return s
	}
	return s
}

// GetMobRoom finds a visible mobile in the actor's room by name, with
// "3.guard" counting support and "self" handling.
func (w *World) GetMobRoom(ch *Mobile, argument string) *Mobile {
	if ch.Room == nil {
		return nil
	}
	number, arg := NumberArgument(argument)
	if arg == "self" || arg == "me" {
		return ch
	}
	count := 0
	for _, m := range ch.Room.People {
		if !ch.CanSee(m) || !IsName(arg, m.Name) {
			continue
		}
		count++
		if count == number {
			return m
		}
	}
	return nil
}

// GetMobWorld finds a visible mobile anywhere, room first.
func (w *World) GetMobWorld(ch *Mobile, argument string) *Mobile {
	if m := w.GetMobRoom(ch, argument); m != nil {
		return m
	}
	number, arg := NumberArgument(argument)
	count := 0
	for _, m := range w.CharList {
		if m.Room == nil || !ch.CanSee(m) || !IsName(arg, m.Name) {
			continue
		}
		count++
		if count == number {
			return m
		}
	}
	return nil
}

// GetObjList scans an object list for a visible name match.
func (w *World) GetObjList(ch *Mobile, argument string, list []*Object) *Object {
	number, arg := NumberArgument(argument)
	count := 0
	for _, o := range list {
		if !ch.CanSeeObj(o) || !IsName(arg, o.Name) {
			continue
		}
		count++
		if count == number {
			return o
		}
	}
	return nil
}

// GetObjCarry finds an object in inventory (not worn).
func (w *World) GetObjCarry(ch *Mobile, argument string) *Object {
	number, arg := NumberArgument(argument)
	count := 0
	for _, o := range ch.Carrying {
		if o.WearLoc != data.WearNone || !ch.CanSeeObj(o) || !IsName(arg, o.Name) {
			continue
		}
		count++
		if count == number {
			return o
		}
	}
	return nil
}

// GetObjWear finds a worn object.
func (w *World) GetObjWear(ch *Mobile, argument string) *Object {
	number, arg := NumberArgument(argument)
	count := 0
	for _, o := range ch.Carrying {
		if o.WearLoc == data.WearNone || !ch.CanSeeObj(o) || !IsName(arg, o.Name) {
			continue
		}
		count++
		if count == number {
			return o
		}
	}
	return nil
}

// GetObjHere finds an object in the room or on the actor.
func (w *World) GetObjHere(ch *Mobile, argument string) *Object {
	if ch.Room != nil {
		if o := w.GetObjList(ch, argument, ch.Room.Contents); o != nil {
			return o
		}
	}
	if o := w.GetObjCarry(ch, argument); o != nil {
		return o
	}
	return w.GetObjWear(ch, argument)
}

// FindLocation resolves a teleport destination: a room vnum or a
// mobile/player name.
func (w *World) FindLocation(ch *Mobile, arg string) *Room {
	if IsNumber(arg) {
		n, _ := strconv.Atoi(arg)
		return w.RoomFor(ch, data.VNUM(n))
	}
	if victim := w.GetMobWorld(ch, arg); victim != nil {
		return victim.Room
	}
	return nil
}

// ObjSearchCap bounds world-wide object scans to keep the pulse budget.
const ObjSearchCap = 200

// GetObjWorld finds an object anywhere, capped at ObjSearchCap
// inspected matches.
func (w *World) GetObjWorld(ch *Mobile, argument string) *Object {
	if o := w.GetObjHere(ch, argument); o != nil {
		return o
	}
	number, arg := NumberArgument(argument)
	count := 0
	inspected := 0
	for _, o := range w.ObjList {
		if inspected >= ObjSearchCap {
			break
		}
		if !IsName(arg, o.Name) {
			continue
		}
		inspected++
		if !ch.CanSeeObj(o) {
			continue
		}
		count++
		if count == number {
			return o
		}
	}
	return nil
}
