package world

import (
	"strings"

	"github.com/thornvale/server/internal/data"
)

// Act targets.
const (
	ToRoom = iota
	ToNotVict
	ToVict
	ToChar
	ToAll
)

// Act renders a message through the substitution grammar and delivers
// it to the chosen audience. arg1 is an object or string, arg2 an
// object, mobile or string, depending on the codes used.
//
//	$n actor name      $N victim name     $t arg1 as string
//	$e/$E subject      $m/$M object       $T arg2 as string
//	$s/$S possessive   $p/$P object short $d door keyword
func (w *World) Act(format string, ch *Mobile, arg1, arg2 any, target int) {
	if format == "" || ch == nil || ch.Room == nil {
		return
	}

	vch, _ := arg2.(*Mobile)
	obj1, _ := arg1.(*Object)
	obj2, _ := arg2.(*Object)
	str1, _ := arg1.(string)
	str2, _ := arg2.(string)

	for _, to := range ch.Room.People {
		switch target {
		case ToChar:
			if to != ch {
				continue
			}
		case ToVict:
			if to != vch || to == ch {
				continue
			}
		case ToRoom:
			if to == ch {
				continue
			}
		case ToNotVict:
			if to == ch || to == vch {
				continue
			}
		case ToAll:
		}
		if to.Desc == nil && !to.IsNPC() {
			continue
		}
		if to.Position == data.PosDead {
			continue
		}

		out := expandAct(format, to, ch, vch, obj1, obj2, str1, str2)
		if to.IsNPC() {
			// NPCs "hear" acts through the ACT mobprog trigger; the
			// simulation layer forwards them via the hook below.
			if w.Hooks.ActTrigger != nil && to != ch {
				w.Hooks.ActTrigger(out, to, ch, arg1, arg2)
			}
			continue
		}
		to.Send(Capitalize(out) + "\n\r")
	}
}

func expandAct(format string, to, ch, vch *Mobile, obj1, obj2 *Object, str1, str2 string) string {
	var sb strings.Builder
	sb.Grow(len(format) + 16)

	name := func(m *Mobile) string {
		if m == nil {
			return "someone"
		}
		if !to.CanSee(m) {
			return "someone"
		}
		if m.IsNPC() {
			return m.ShortDescr
		}
		return m.Name
	}
	objName := func(o *Object) string {
		if o == nil {
			return "something"
		}
		if !to.CanSeeObj(o) {
			return "something"
		}
		return o.ShortDescr
	}
	pronoun := func(m *Mobile, table []string) string {
		if m == nil || !to.CanSee(m) {
			return table[data.SexNeutral]
		}
		sex := m.Sex
		if sex < 0 || sex > data.SexFemale {
			sex = data.SexNeutral
		}
		return table[sex]
	}

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
		case 'n':
			sb.WriteString(name(ch))
		case 'N':
			sb.WriteString(name(vch))
		case 'e':
			sb.WriteString(pronoun(ch, data.SexSubj))
		case 'E':
			sb.WriteString(pronoun(vch, data.SexSubj))
		case 'm':
			sb.WriteString(pronoun(ch, data.SexObj))
		case 'M':
			sb.WriteString(pronoun(vch, data.SexObj))
		case 's':
			sb.WriteString(pronoun(ch, data.SexPoss))
		case 'S':
			sb.WriteString(pronoun(vch, data.SexPoss))
		case 'p':
			sb.WriteString(objName(obj1))
		case 'P':
			sb.WriteString(objName(obj2))
		case 't':
			sb.WriteString(str1)
		case 'T':
			sb.WriteString(str2)
		case 'd':
			if str2 != "" {
				word, _ := OneArgument(str2)
				sb.WriteString(word)
			} else {
				sb.WriteString("door")
			}
		case '$':
			sb.WriteByte('$')
		default:
			sb.WriteString(" <@@@> ")
		}
	}
	return sb.String()
}
