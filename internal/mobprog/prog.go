// Package mobprog evaluates the scripted-NPC programs attached to mob
// prototypes: condition/action line programs driven by in-world
// triggers.
package mobprog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

// Nesting limits. Exceeding either aborts the program and logs a bug
// with the prototype vnum.
const (
	MaxNestedLevel = 12 // if/else/endif stack depth
	MaxCallLevel   = 5  // mob call re-entry depth
)

// Block states.
const (
	beginBlock = 0
	inBlock    = -1
	endBlock   = -2
)

// Env wires the interpreter to the rest of the simulation. Re-entry
// into the command layer goes through Interpret so position and trust
// checks apply uniformly.
type Env struct {
	World     *world.World
	Log       *zap.Logger
	Interpret func(m *world.Mobile, line string)
	Kill      func(attacker, victim *world.Mobile)
	Damage    func(attacker, victim *world.Mobile, amount int, lethal bool)
	Cast      func(caster *world.Mobile, spell string, target *world.Mobile)

	callLevel int
}

func (e *Env) bug(format string, args ...any) {
	e.Log.Warn("bug: mobprog: " + fmt.Sprintf(format, args...))
}

// Flow is the program driver: it parses the code lines and passes
// executable commands to the interpreter. Lines beginning with "mob"
// route through the mob command table.
func (e *Env) Flow(pvnum data.VNUM, source string, mob, ch *world.Mobile, arg1, arg2 any) {
	if mob == nil || mob.Proto == nil {
		return
	}
	mvnum := mob.Proto.Vnum

	e.callLevel++
	defer func() { e.callLevel-- }()
	if e.callLevel > MaxCallLevel {
		e.bug("max call level exceeded, mob %d prog %d", mvnum, pvnum)
		return
	}

	var rch *world.Mobile

	var state, cond [MaxNestedLevel]int
	for i := range state {
		state[i] = inBlock
		cond[i] = 1
	}
	level := 0

	for _, raw := range strings.Split(source, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == '*' {
			continue
		}
		control, rest := splitWord(line)

		switch strings.ToLower(control) {
		case "if":
			if state[level] == beginBlock {
				e.bug("misplaced if, mob %d prog %d", mvnum, pvnum)
				return
			}
			state[level] = beginBlock
			level++
			if level >= MaxNestedLevel {
				e.bug("max nested level exceeded, mob %d prog %d", mvnum, pvnum)
				return
			}
			if cond[level-1] == 0 {
				cond[level] = 0
				continue
			}
			ok, valid := e.eval(pvnum, rest, mob, ch, arg1, arg2, &rch)
			if !valid {
				e.bug("invalid if check, mob %d prog %d", mvnum, pvnum)
				return
			}
			cond[level] = b2i(ok)
			state[level] = endBlock

		case "or":
			if level == 0 || state[level-1] != beginBlock {
				e.bug("or without if, mob %d prog %d", mvnum, pvnum)
				return
			}
			if cond[level-1] == 0 {
				continue
			}
			ok, valid := e.eval(pvnum, rest, mob, ch, arg1, arg2, &rch)
			if !valid {
				e.bug("invalid or check, mob %d prog %d", mvnum, pvnum)
				return
			}
			if ok {
				cond[level] = 1
			}

		case "and":
			if level == 0 || state[level-1] != beginBlock {
				e.bug("and without if, mob %d prog %d", mvnum, pvnum)
				return
			}
			if cond[level-1] == 0 {
				continue
			}
			ok, valid := e.eval(pvnum, rest, mob, ch, arg1, arg2, &rch)
			if !valid {
				e.bug("invalid and check, mob %d prog %d", mvnum, pvnum)
				return
			}
			cond[level] = b2i(cond[level] == 1 && ok)

		case "endif":
			if level == 0 || state[level-1] != beginBlock {
				e.bug("endif without if, mob %d prog %d", mvnum, pvnum)
				return
			}
			cond[level] = 1
			state[level] = inBlock
			level--
			state[level] = endBlock

		case "else":
			if level == 0 || state[level-1] != beginBlock {
				e.bug("else without if, mob %d prog %d", mvnum, pvnum)
				return
			}
			if cond[level-1] == 0 {
				continue
			}
			state[level] = inBlock
			cond[level] = 1 - cond[level]

		case "break", "end":
			if cond[level] == 1 {
				return
			}

		default:
			if level == 0 || cond[level] == 1 {
				state[level] = inBlock
				expanded := e.expand(line, mob, ch, arg1, arg2, &rch)
				if strings.EqualFold(control, "mob") {
					_, mobLine := splitWord(expanded)
					e.mobInterpret(mob, mobLine)
				} else if e.Interpret != nil {
					e.Interpret(mob, expanded)
				}
			}
		}
		if mob.Zombie || mob.Room == nil {
			return // the program killed or moved its own runner
		}
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexAny(s, " \t")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx+1:])
}

// eval decides an if/or/and statement. Five syntactic forms:
//
//  1. keyword and value            if rand 30
//  2. keyword, comparison, value   if people > 2
//  3. keyword and actor            if isnpc $n
//  4. keyword, actor and value     if carries $n sword
//  5. keyword, actor, op, value    if level $n >= 10
//
// The second return is false on a syntax error.
func (e *Env) eval(pvnum data.VNUM, line string, mob, ch *world.Mobile,
	arg1, arg2 any, rch **world.Mobile) (bool, bool) {

	w := e.World
	check, rest := splitWord(line)
	check = strings.ToLower(check)
	if check == "" || mob == nil {
		return false, false
	}

	vch, _ := arg2.(*world.Mobile)
	obj1, _ := arg1.(*world.Object)
	obj2, _ := arg2.(*world.Object)

	// A mob with no target assumes the actor is the one.
	if mob.MprogTarget == nil {
		mob.MprogTarget = ch
	}

	arg, rest2 := splitWord(rest)

	// Form 1: keyword and value.
	switch check {
	case "rand":
		return atoi(arg) < w.NumberPercent(), true
	case "mobhere":
		if world.IsNumber(arg) {
			return mobVnumInRoom(mob, data.VNUM(atoi(arg))), true
		}
		return w.GetMobRoom(mob, arg) != nil, true
	case "objhere":
		if world.IsNumber(arg) {
			return objVnumInRoom(mob, data.VNUM(atoi(arg))), true
		}
		return w.GetObjHere(mob, arg) != nil, true
	case "mobexists":
		return w.GetMobWorld(mob, arg) != nil, true
	case "objexists":
		return w.GetObjWorld(mob, arg) != nil, true
	}

	// Form 2: keyword, comparison, value.
	lval := -1
	switch check {
	case "people":
		lval = countPeopleRoom(mob, countAll)
	case "players":
		lval = countPeopleRoom(mob, countPlayers)
	case "mobs":
		lval = countPeopleRoom(mob, countMobs)
	case "clones":
		lval = countPeopleRoom(mob, countClones)
	case "order":
		lval = getOrder(mob)
	case "hour":
		lval = w.Time.Hour
	}
	if lval >= 0 {
		op, rval, ok := parseOp(arg, rest2)
		if !ok {
			e.bug("syntax error in numeric check, prog %d: %q", pvnum, line)
			return false, false
		}
		return numEval(lval, op, rval), true
	}

	// Forms 3-5 name an actor through a $-code.
	if len(arg) < 2 || arg[0] != '$' {
		e.bug("syntax error, prog %d: %q", pvnum, line)
		return false, false
	}
	var lvalChar *world.Mobile
	var lvalObj *world.Object
	code := arg[1]
	switch code {
	case 'i':
		lvalChar = mob
	case 'n':
		lvalChar = ch
	case 't':
		lvalChar = vch
	case 'r':
		if *rch == nil {
			*rch = randomPlayer(mob, w)
		}
		lvalChar = *rch
	case 'o':
		lvalObj = obj1
	case 'p':
		lvalObj = obj2
	case 'q':
		lvalChar = mob.MprogTarget
	default:
		e.bug("bad $-code, prog %d: %q", pvnum, line)
		return false, false
	}
	if lvalChar == nil && lvalObj == nil {
		return false, true
	}

	// Form 3: keyword and actor.
	switch check {
	case "ispc":
		return lvalChar != nil && !lvalChar.IsNPC(), true
	case "isnpc":
		return lvalChar != nil && lvalChar.IsNPC(), true
	case "isgood":
		return lvalChar != nil && lvalChar.IsGood(), true
	case "isevil":
		return lvalChar != nil && lvalChar.IsEvil(), true
	case "isneutral":
		return lvalChar != nil && lvalChar.IsNeutral(), true
	case "isimmort":
		return lvalChar != nil && lvalChar.IsImmortal(), true
	case "ischarm":
		return lvalChar != nil && lvalChar.IsAffected(data.AffCharm), true
	case "isfollow":
		return lvalChar != nil && lvalChar.Master != nil &&
			lvalChar.Master.Room == lvalChar.Room, true
	case "isactive":
		return lvalChar != nil && lvalChar.Position > data.PosSleeping, true
	case "isdelay":
		return lvalChar != nil && lvalChar.MprogDelay > 0, true
	case "isvisible":
		if code == 'o' || code == 'p' {
			return lvalObj != nil && mob.CanSeeObj(lvalObj), true
		}
		return lvalChar != nil && mob.CanSee(lvalChar), true
	case "hastarget":
		return lvalChar != nil && lvalChar.MprogTarget != nil &&
			lvalChar.Room == lvalChar.MprogTarget.Room, true
	case "istarget":
		return lvalChar != nil && mob.MprogTarget == lvalChar, true
	case "exists":
		return lvalChar != nil || lvalObj != nil, true
	}

	// Form 4: keyword, actor and value.
	val, rest3 := splitWord(rest2)
	switch check {
	case "affected":
		return lvalChar != nil &&
			lvalChar.AffFlags&data.FlagLookup(val, data.AffectFlagTable) != 0, true
	case "act":
		return lvalChar != nil &&
			lvalChar.ActFlags&data.FlagLookup(val, data.ActFlagTable) != 0, true
	case "imm":
		return lvalChar != nil &&
			lvalChar.ImmFlags&data.FlagLookup(val, data.ImmFlagTable) != 0, true
	case "off":
		return lvalChar != nil &&
			lvalChar.OffFlags&data.FlagLookup(val, data.OffFlagTable) != 0, true
	case "carries":
		if world.IsNumber(val) {
			return lvalChar != nil && hasItem(lvalChar, data.VNUM(atoi(val)), -1, false), true
		}
		return lvalChar != nil && w.GetObjCarry(lvalChar, val) != nil, true
	case "wears":
		if world.IsNumber(val) {
			return lvalChar != nil && hasItem(lvalChar, data.VNUM(atoi(val)), -1, true), true
		}
		return lvalChar != nil && w.GetObjWear(lvalChar, val) != nil, true
	case "has":
		return lvalChar != nil && hasItem(lvalChar, 0, data.ItemTypeLookup(val), false), true
	case "uses":
		return lvalChar != nil && hasItem(lvalChar, 0, data.ItemTypeLookup(val), true), true
	case "name":
		if code == 'o' || code == 'p' {
			return lvalObj != nil && world.IsName(val, lvalObj.Name), true
		}
		return lvalChar != nil && world.IsName(val, lvalChar.Name), true
	case "pos":
		return lvalChar != nil && lvalChar.Position == data.PositionLookup(val), true
	case "clan":
		return lvalChar != nil && strings.EqualFold(lvalChar.Clan, val), true
	case "race":
		return lvalChar != nil && strings.EqualFold(lvalChar.Race, val), true
	case "class":
		return lvalChar != nil && strings.EqualFold(lvalChar.Class, val), true
	case "objtype":
		return lvalObj != nil && lvalObj.ItemType == data.ItemTypeLookup(val), true
	case "canquest":
		return lvalChar != nil && canQuest(lvalChar, data.VNUM(atoi(val))), true
	case "hasquest":
		return lvalChar != nil && hasQuest(lvalChar, data.VNUM(atoi(val))), true
	case "canfinishquest":
		return lvalChar != nil && canFinishQuest(lvalChar, data.VNUM(atoi(val))), true
	}

	// Form 5: keyword, actor, comparison and value.
	op, rval, ok := parseOp(val, rest3)
	if !ok {
		e.bug("syntax error in relational check, prog %d: %q", pvnum, line)
		return false, false
	}
	lval = 0
	switch check {
	case "vnum":
		if code == 'o' || code == 'p' {
			if lvalObj != nil {
				lval = int(lvalObj.Proto.Vnum)
			}
		} else if lvalChar != nil && lvalChar.IsNPC() {
			lval = int(lvalChar.Proto.Vnum)
		}
	case "hpcnt":
		if lvalChar != nil {
			lval = lvalChar.HitPercent()
		}
	case "room":
		if lvalChar != nil && lvalChar.Room != nil {
			lval = int(lvalChar.Room.Vnum())
		}
	case "sex":
		if lvalChar != nil {
			lval = lvalChar.Sex
		}
	case "level":
		if lvalChar != nil {
			lval = lvalChar.Level
		}
	case "align":
		if lvalChar != nil {
			lval = lvalChar.Alignment
		}
	case "money":
		if lvalChar != nil {
			lval = lvalChar.Gold + lvalChar.Silver*100
		}
	case "objval0", "objval1", "objval2", "objval3", "objval4":
		if lvalObj != nil {
			lval = lvalObj.Values[check[6]-'0']
		}
	case "grpsize":
		if lvalChar != nil {
			lval = countPeopleRoom(lvalChar, countGroup)
		}
	default:
		return false, false
	}
	return numEval(lval, op, rval), true
}

// Comparison operators.
const (
	evalEQ = iota
	evalGE
	evalLE
	evalGT
	evalLT
	evalNE
)

func parseOp(opWord, rest string) (int, int, bool) {
	var op int
	switch opWord {
	case "==":
		op = evalEQ
	case ">=":
		op = evalGE
	case "<=":
		op = evalLE
	case ">":
		op = evalGT
	case "<":
		op = evalLT
	case "!=":
		op = evalNE
	default:
		return 0, 0, false
	}
	val, _ := splitWord(rest)
	return op, atoi(val), true
}

func numEval(lval, op, rval int) bool {
	switch op {
	case evalEQ:
		return lval == rval
	case evalGE:
		return lval >= rval
	case evalLE:
		return lval <= rval
	case evalGT:
		return lval > rval
	case evalLT:
		return lval < rval
	case evalNE:
		return lval != rval
	}
	return false
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
