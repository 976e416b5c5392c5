package handler

import (
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

func doSay(d *Deps, ch *world.Mobile, argument string) {
	if argument == "" {
		ch.Send("Say what?\n\r")
		return
	}
	w := d.World
	w.Act("You say '{g$T{x'", ch, nil, argument, world.ToChar)
	w.Act("$n says '{g$T{x'", ch, nil, argument, world.ToRoom)

	// Speech triggers on listeners.
	if ch.Room != nil {
		listeners := append([]*world.Mobile(nil), ch.Room.People...)
		for _, mob := range listeners {
			if mob.IsNPC() && mob != ch && mob.Proto != nil &&
				mob.Proto.HasTrigger(data.TrigSpeech) {
				d.Progs.ActTrigger(argument, mob, ch, nil, nil, data.TrigSpeech)
			}
		}
	}
}

func doTell(d *Deps, ch *world.Mobile, argument string) {
	arg, rest := world.OneArgument(argument)
	if arg == "" || rest == "" {
		ch.Send("Tell whom what?\n\r")
		return
	}
	w := d.World
	victim := w.GetMobWorld(ch, arg)
	if victim == nil || (victim.IsNPC() && victim.Room != ch.Room) {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim.Desc == nil && !victim.IsNPC() {
		w.Act("$N seems to have misplaced $S link... try again later.",
			ch, nil, victim, world.ToChar)
		return
	}
	w.Act("You tell $N '{g$t{x'", ch, rest, victim, world.ToChar)
	w.Act("$n tells you '{g$t{x'", ch, rest, victim, world.ToVict)
	victim.Reply = ch

	if victim.IsNPC() && victim.Proto != nil && victim.Proto.HasTrigger(data.TrigSpeech) {
		d.Progs.ActTrigger(rest, victim, ch, nil, nil, data.TrigSpeech)
	}
}

func doReply(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	victim := ch.Reply
	if victim == nil {
		ch.Send("They aren't here.\n\r")
		return
	}
	if victim.Desc == nil && !victim.IsNPC() {
		w.Act("$N seems to have misplaced $S link... try again later.",
			ch, nil, victim, world.ToChar)
		return
	}
	w.Act("You tell $N '{g$t{x'", ch, argument, victim, world.ToChar)
	w.Act("$n tells you '{g$t{x'", ch, argument, victim, world.ToVict)
	victim.Reply = ch
}

func doShout(d *Deps, ch *world.Mobile, argument string) {
	if argument == "" {
		ch.Send("Shout what?\n\r")
		return
	}
	w := d.World
	w.Act("You shout '$T'", ch, nil, argument, world.ToChar)
	for _, desc := range w.Descriptors {
		if desc.State != world.ConPlaying || desc.Char == nil || desc.Char == ch {
			continue
		}
		w.Act("$n shouts '$t'", ch, argument, desc.Char, world.ToVict)
	}
	ch.Wait += 12
}

func doEmote(d *Deps, ch *world.Mobile, argument string) {
	if argument == "" {
		ch.Send("Emote what?\n\r")
		return
	}
	w := d.World
	w.Act("$n $T", ch, nil, argument, world.ToRoom)
	w.Act("$n $T", ch, nil, argument, world.ToChar)
}

// doSmote is emote with inline name targeting: the text must mention
// the actor's name, and victims named in the text see "you".
func doSmote(d *Deps, ch *world.Mobile, argument string) {
	if argument == "" {
		ch.Send("Emote what?\n\r")
		return
	}
	if !strings.Contains(argument, ch.Name) {
		ch.Send("You must include your name in an smote.\n\r")
		return
	}
	ch.Send(argument + "\n\r")
	if ch.Room == nil {
		return
	}
	for _, vch := range ch.Room.People {
		if vch == ch || vch.Desc == nil {
			continue
		}
		out := argument
		if strings.Contains(out, vch.Name) {
			out = strings.ReplaceAll(out, vch.Name, "you")
		}
		vch.Send(out + "\n\r")
	}
}
