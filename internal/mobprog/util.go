package mobprog

import (
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

// Room census modes.
const (
	countAll = iota
	countPlayers
	countMobs
	countClones
	countGroup
)

// countPeopleRoom counts others in the runner's room per mode.
func countPeopleRoom(mob *world.Mobile, mode int) int {
	if mob.Room == nil {
		return 0
	}
	count := 0
	for _, vch := range mob.Room.People {
		if vch == mob || !mob.CanSee(vch) {
			continue
		}
		switch mode {
		case countAll:
			count++
		case countPlayers:
			if !vch.IsNPC() {
				count++
			}
		case countMobs:
			if vch.IsNPC() {
				count++
			}
		case countClones:
			if vch.IsNPC() && mob.IsNPC() && vch.Proto == mob.Proto {
				count++
			}
		case countGroup:
			if world.SameGroup(mob, vch) {
				count++
			}
		}
	}
	return count
}

// getOrder is the runner's position among same-vnum mobs in the room,
// so only the first of several clones acts on a shared trigger.
func getOrder(mob *world.Mobile) int {
	if !mob.IsNPC() || mob.Room == nil {
		return 0
	}
	i := 0
	for _, vch := range mob.Room.People {
		if vch == mob {
			return i
		}
		if vch.IsNPC() && vch.Proto == mob.Proto {
			i++
		}
	}
	return 0
}

// hasItem checks carried inventory by vnum (0 = any) and item type
// (-1 = any); worn-only when fWear.
func hasItem(ch *world.Mobile, vnum data.VNUM, itemType int, fWear bool) bool {
	for _, obj := range ch.Carrying {
		if (vnum == 0 || obj.Proto.Vnum == vnum) &&
			(itemType < 0 || obj.ItemType == itemType) &&
			(!fWear || obj.WearLoc != data.WearNone) {
			return true
		}
	}
	return false
}

func mobVnumInRoom(mob *world.Mobile, vnum data.VNUM) bool {
	if mob.Room == nil {
		return false
	}
	for _, vch := range mob.Room.People {
		if vch.IsNPC() && vch.Proto.Vnum == vnum {
			return true
		}
	}
	return false
}

func objVnumInRoom(mob *world.Mobile, vnum data.VNUM) bool {
	if mob.Room == nil {
		return false
	}
	for _, obj := range mob.Room.Contents {
		if obj.Proto.Vnum == vnum {
			return true
		}
	}
	return false
}

// randomPlayer picks a random visible PC in the room (the $r actor).
func randomPlayer(mob *world.Mobile, w *world.World) *world.Mobile {
	if mob.Room == nil {
		return nil
	}
	var victim *world.Mobile
	highest := 0
	for _, vch := range mob.Room.People {
		if vch == mob || vch.IsNPC() || !mob.CanSee(vch) {
			continue
		}
		if now := w.NumberPercent(); now > highest {
			victim = vch
			highest = now
		}
	}
	return victim
}

// Quest eligibility. A quest can be granted once, held while in
// progress, and finished when its state reaches complete.
func canQuest(ch *world.Mobile, vnum data.VNUM) bool {
	return ch.Pc != nil && ch.Pc.Quests[vnum] == 0
}

func hasQuest(ch *world.Mobile, vnum data.VNUM) bool {
	return ch.Pc != nil && ch.Pc.Quests[vnum] != 0
}

func canFinishQuest(ch *world.Mobile, vnum data.VNUM) bool {
	return ch.Pc != nil && ch.Pc.Quests[vnum] == 2
}

// expand substitutes $-codes into a program line before execution.
// Unresolvable actors become "someone"/"something".
func (e *Env) expand(format string, mob, ch *world.Mobile, arg1, arg2 any, rch **world.Mobile) string {
	const someone = "someone"
	const something = "something"
	const someones = "someone's"

	vch, _ := arg2.(*world.Mobile)
	obj1, _ := arg1.(*world.Object)
	obj2, _ := arg2.(*world.Object)

	firstName := func(m *world.Mobile) string {
		if m == nil || !mob.CanSee(m) {
			return someone
		}
		word, _ := world.OneArgument(m.Name)
		return word
	}
	fullName := func(m *world.Mobile) string {
		if m == nil || !mob.CanSee(m) {
			return someone
		}
		if m.IsNPC() {
			return m.ShortDescr
		}
		return m.Name
	}
	pronoun := func(m *world.Mobile, table []string, fallback string) string {
		if m == nil || !mob.CanSee(m) {
			return fallback
		}
		sex := m.Sex
		if sex < 0 || sex > data.SexFemale {
			sex = data.SexNeutral
		}
		return table[sex]
	}
	objKeyword := func(o *world.Object) string {
		if o == nil || !mob.CanSeeObj(o) {
			return something
		}
		word, _ := world.OneArgument(o.Name)
		return word
	}
	objShort := func(o *world.Object) string {
		if o == nil || !mob.CanSeeObj(o) {
			return something
		}
		return o.ShortDescr
	}
	random := func() *world.Mobile {
		if *rch == nil {
			*rch = randomPlayer(mob, e.World)
		}
		return *rch
	}

	var sb strings.Builder
	sb.Grow(len(format) + 16)
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '$' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(format) {
			break
		}
		switch format[i] {
		case 'i':
			word, _ := world.OneArgument(mob.Name)
			sb.WriteString(word)
		case 'I':
			sb.WriteString(mob.ShortDescr)
		case 'n':
			sb.WriteString(world.Capitalize(firstName(ch)))
		case 'N':
			sb.WriteString(fullName(ch))
		case 't':
			sb.WriteString(world.Capitalize(firstName(vch)))
		case 'T':
			sb.WriteString(fullName(vch))
		case 'r':
			sb.WriteString(world.Capitalize(firstName(random())))
		case 'R':
			sb.WriteString(fullName(random()))
		case 'q':
			sb.WriteString(world.Capitalize(firstName(mob.MprogTarget)))
		case 'Q':
			sb.WriteString(fullName(mob.MprogTarget))
		case 'j':
			sb.WriteString(data.SexSubj[clampSex(mob.Sex)])
		case 'e':
			sb.WriteString(pronoun(ch, data.SexSubj, someone))
		case 'E':
			sb.WriteString(pronoun(vch, data.SexSubj, someone))
		case 'J':
			sb.WriteString(pronoun(random(), data.SexSubj, someone))
		case 'X':
			sb.WriteString(pronoun(mob.MprogTarget, data.SexSubj, someone))
		case 'k':
			sb.WriteString(data.SexObj[clampSex(mob.Sex)])
		case 'm':
			sb.WriteString(pronoun(ch, data.SexObj, someone))
		case 'M':
			sb.WriteString(pronoun(vch, data.SexObj, someone))
		case 'K':
			sb.WriteString(pronoun(random(), data.SexObj, someone))
		case 'Y':
			sb.WriteString(pronoun(mob.MprogTarget, data.SexObj, someone))
		case 'l':
			sb.WriteString(data.SexPoss[clampSex(mob.Sex)])
		case 's':
			sb.WriteString(pronoun(ch, data.SexPoss, someones))
		case 'S':
			sb.WriteString(pronoun(vch, data.SexPoss, someones))
		case 'L':
			sb.WriteString(pronoun(random(), data.SexPoss, someones))
		case 'Z':
			sb.WriteString(pronoun(mob.MprogTarget, data.SexPoss, someones))
		case 'o':
			sb.WriteString(objKeyword(obj1))
		case 'O':
			sb.WriteString(objShort(obj1))
		case 'p':
			sb.WriteString(objKeyword(obj2))
		case 'P':
			sb.WriteString(objShort(obj2))
		default:
			e.bug("bad expansion code %q", string(format[i]))
			sb.WriteString(" <@@@> ")
		}
	}
	return sb.String()
}

func clampSex(sex int) int {
	if sex < 0 || sex > data.SexFemale {
		return data.SexNeutral
	}
	return sex
}
