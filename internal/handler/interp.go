package handler

import (
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

// Command log policies.
const (
	LogNormal = iota
	LogAlways
	LogNever
)

// CmdInfo is one command table entry. The handler is either a native
// function or the name of a script function in the embedded VM.
type CmdInfo struct {
	Name     string
	MinPos   int
	MinTrust int
	Log      int
	Show     bool
	Do       func(d *Deps, ch *world.Mobile, argument string)
	LuaFn    string
}

// The table is sorted at boot into first-letter buckets so dispatch
// scans only commands sharing the verb's first letter, in table order
// within the bucket (frequent commands first).
var firstLetter [26]int

// BuildCommandTable orders the command table and indexes the buckets.
func BuildCommandTable() {
	var punct, letters []CmdInfo
	buckets := make(map[byte][]CmdInfo)
	for _, cmd := range cmdTable {
		c := cmd.Name[0]
		if c < 'a' || c > 'z' {
			punct = append(punct, cmd)
			continue
		}
		buckets[c] = append(buckets[c], cmd)
	}
	for c := byte('a'); c <= 'z'; c++ {
		letters = append(letters, buckets[c]...)
	}
	cmdTable = append(punct, letters...)
	for i := range firstLetter {
		firstLetter[i] = -1
	}
	for i, cmd := range cmdTable {
		c := cmd.Name[0]
		if c >= 'a' && c <= 'z' && firstLetter[c-'a'] == -1 {
			firstLetter[c-'a'] = i
		}
	}
}

// Interpret executes one command line for a mobile. It can be called
// recursively from at, force and from mobprogs.
func (d *Deps) Interpret(ch *world.Mobile, argument string) {
	argument = strings.TrimLeft(argument, " ")
	if argument == "" {
		return
	}

	// No hiding.
	ch.AffFlags &^= data.AffHide

	if !ch.IsNPC() && ch.ActFlags&data.PlrFreeze != 0 {
		ch.Send("You're totally frozen!\n\r")
		return
	}

	// Grab the command word. Punctuation is a one-character command
	// with no space needed: 'hello is say hello.
	logline := argument
	var command string
	c := argument[0]
	if !isAlnum(c) {
		command = string(argument[0:1])
		argument = strings.TrimLeft(argument[1:], " ")
	} else {
		command, argument = world.OneArgument(argument)
	}

	trust := ch.GetTrust()
	found := -1
	start := 0
	if command[0] >= 'a' && command[0] <= 'z' {
		start = firstLetter[command[0]-'a']
	}
	if start >= 0 {
		for i := start; i < len(cmdTable); i++ {
			entry := &cmdTable[i]
			if entry.Name[0] != command[0] && isAlnum(command[0]) {
				if entry.Name[0] > command[0] {
					break
				}
				continue
			}
			if strings.HasPrefix(entry.Name, command) && entry.MinTrust <= trust {
				found = i
				break
			}
		}
	}

	// Log and snoop.
	logPolicy := LogNormal
	if found >= 0 {
		logPolicy = cmdTable[found].Log
	}
	if logPolicy == LogNever {
		logline = ""
	}
	if (!ch.IsNPC() && ch.ActFlags&data.PlrLog != 0) || d.World.LogAll ||
		logPolicy == LogAlways {
		d.Log.Info("log", zap.String("name", ch.Name), zap.String("line", logline))
		d.World.Wiznet("$N used: "+logline, ch, nil, data.WizSecure, 0, ch.GetTrust())
	}
	if ch.Desc != nil && ch.Desc.SnoopBy != nil {
		ch.Desc.SnoopBy.Write("% " + logline + "\n\r")
	}

	if found < 0 {
		if !d.checkSocial(ch, command, argument) {
			ch.Send("Huh?\n\r")
		}
		return
	}
	entry := &cmdTable[found]

	if ch.Position < entry.MinPos {
		ch.Send(positionRefusal(ch.Position))
		return
	}

	switch {
	case entry.LuaFn != "":
		fn := d.Scripting.Global(entry.LuaFn)
		if fn == nil {
			d.World.Bug("command %s: missing script function %s", entry.Name, entry.LuaFn)
			ch.Send("Huh?\n\r")
			return
		}
		if err := d.Scripting.Invoke(fn, scriptingCtx(ch)); err != nil {
			d.Log.Warn("script command failed",
				zap.String("command", entry.Name), zap.Error(err))
		}
	case entry.Do != nil:
		entry.Do(d, ch, argument)
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func positionRefusal(pos int) string {
	switch pos {
	case data.PosDead:
		return "Lie still; you are DEAD.\n\r"
	case data.PosMortal, data.PosIncap:
		return "You are hurt far too bad for that.\n\r"
	case data.PosStunned:
		return "You are too stunned to do that.\n\r"
	case data.PosSleeping:
		return "In your dreams, or what?\n\r"
	case data.PosResting:
		return "Nah... You feel too relaxed...\n\r"
	case data.PosSitting:
		return "Better stand up first.\n\r"
	case data.PosFighting:
		return "No way!  You are still fighting!\n\r"
	}
	return "You can't do that right now.\n\r"
}

// checkSocial matches the verb against the socials table and plays the
// three-way act messages.
func (d *Deps) checkSocial(ch *world.Mobile, command, argument string) bool {
	social := d.Socials.Find(command)
	if social == nil {
		return false
	}

	switch ch.Position {
	case data.PosDead:
		ch.Send("Lie still; you are DEAD.\n\r")
		return true
	case data.PosIncap, data.PosMortal:
		ch.Send("You are hurt far too bad for that.\n\r")
		return true
	case data.PosStunned:
		ch.Send("You are too stunned to do that.\n\r")
		return true
	case data.PosSleeping:
		if social.Name != "snore" {
			ch.Send("In your dreams, or what?\n\r")
			return true
		}
	}

	w := d.World
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		w.Act(social.OthersNoArg, ch, nil, nil, world.ToRoom)
		w.Act(social.CharNoArg, ch, nil, nil, world.ToChar)
		return true
	}

	victim := w.GetMobRoom(ch, arg)
	switch {
	case victim == nil:
		ch.Send("They aren't here.\n\r")
	case victim == ch:
		w.Act(social.OthersAuto, ch, nil, nil, world.ToRoom)
		w.Act(social.CharAuto, ch, nil, nil, world.ToChar)
	default:
		w.Act(social.OthersFound, ch, nil, victim, world.ToNotVict)
		w.Act(social.CharFound, ch, nil, victim, world.ToChar)
		w.Act(social.VictFound, ch, nil, victim, world.ToVict)

		// Uncontrolled NPCs sometimes answer in kind, sometimes with a
		// slap.
		if !ch.IsNPC() && victim.IsNPC() && !victim.IsAffected(data.AffCharm) &&
			victim.IsAwake() && victim.Desc == nil {
			switch w.NumberRange(0, 15) {
			case 0, 1, 2, 3:
				w.Act("$n slaps $N.", victim, nil, ch, world.ToNotVict)
				w.Act("You slap $N.", victim, nil, ch, world.ToChar)
				w.Act("$n slaps you.", victim, nil, ch, world.ToVict)
			default:
				w.Act(social.OthersFound, victim, nil, ch, world.ToNotVict)
				w.Act(social.CharFound, victim, nil, ch, world.ToChar)
				w.Act(social.VictFound, victim, nil, ch, world.ToVict)
			}
		}
	}
	return true
}
