package handler

import (
	"fmt"
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

func doLook(d *Deps, ch *world.Mobile, argument string) {
	w := d.World
	room := ch.Room
	if ch.Desc == nil || room == nil {
		return
	}
	if ch.Position < data.PosSleeping {
		ch.Send("You can't see anything but stars!\n\r")
		return
	}
	if ch.Position == data.PosSleeping {
		ch.Send("You can't see anything, you're sleeping!\n\r")
		return
	}
	if ch.IsAffected(data.AffBlind) {
		ch.Send("You can't see a thing!\n\r")
		return
	}
	if room.IsDark() && !ch.IsAffected(data.AffInfrared) &&
		!ch.IsAffected(data.AffDarkVision) &&
		(ch.IsNPC() || ch.ActFlags&data.PlrHolylight == 0) {
		ch.Send("It is pitch black ... \n\r")
		return
	}

	arg, rest := world.OneArgument(argument)
	auto := arg == "" || arg == "auto"

	if auto {
		ch.Send("{W" + room.Name() + "{x")
		if ch.IsImmortal() {
			ch.Send(fmt.Sprintf(" {D[Room %d]{x", room.Vnum()))
		}
		ch.Send("\n\r")
		if arg == "" {
			ch.Send("  " + room.Proto.Description)
		}
		showExits(d, ch, true)
		for _, obj := range room.Contents {
			if ch.CanSeeObj(obj) && obj.Description != "" {
				ch.Send("{g" + world.Capitalize(obj.Description) + "{x\n\r")
			}
		}
		for _, m := range room.People {
			if m == ch || !ch.CanSee(m) {
				continue
			}
			if m.IsNPC() && m.Position == m.Proto.StartPos && m.LongDescr != "" {
				ch.Send("{y" + m.LongDescr + "{x\n\r")
				continue
			}
			name := m.Name
			if m.IsNPC() {
				name = m.ShortDescr
			} else if m.Pc != nil {
				name += m.Pc.Title
			}
			ch.Send("{y" + world.Capitalize(name) + " is here.{x\n\r")
		}
		return
	}

	if arg == "in" {
		objArg, _ := world.OneArgument(rest)
		obj := w.GetObjHere(ch, objArg)
		switch {
		case obj == nil:
			ch.Send("You do not see that here.\n\r")
		case obj.ItemType != data.ItemContainer:
			ch.Send("That is not a container.\n\r")
		case obj.IsClosed():
			ch.Send("It is closed.\n\r")
		default:
			w.Act("$p holds:", ch, obj, nil, world.ToChar)
			showObjList(ch, obj.Contains)
		}
		return
	}

	// A mobile?
	if victim := w.GetMobRoom(ch, arg); victim != nil {
		showMobile(d, ch, victim)
		return
	}
	// An object?
	if obj := w.GetObjHere(ch, arg); obj != nil {
		for _, ed := range obj.Proto.Extras {
			if world.IsName(arg, ed.Keyword) {
				ch.Send(ed.Description)
				return
			}
		}
		ch.Send(obj.Description + "\n\r")
		return
	}
	// Room extra descriptions?
	for _, ed := range room.Proto.Extras {
		if world.IsName(arg, ed.Keyword) {
			ch.Send(ed.Description)
			return
		}
	}
	// A direction?
	if dir := data.DirLookup(arg); dir >= 0 {
		ex := room.Exits[dir]
		if ex == nil {
			ch.Send("Nothing special there.\n\r")
			return
		}
		if ex.Proto.Description != "" {
			ch.Send(ex.Proto.Description + "\n\r")
		} else {
			ch.Send("Nothing special there.\n\r")
		}
		if ex.IsDoor() {
			state := "open"
			if ex.IsClosed() {
				state = "closed"
			}
			w.Act("The $d is "+state+".", ch, nil, doorKeyword(ex), world.ToChar)
		}
		return
	}
	ch.Send("You do not see that here.\n\r")
}

func showMobile(d *Deps, ch *world.Mobile, victim *world.Mobile) {
	w := d.World
	if victim.Description != "" {
		ch.Send(victim.Description)
	} else {
		w.Act("You see nothing special about $N.", ch, nil, victim, world.ToChar)
	}
	// Condition line by hit percentage.
	percent := victim.HitPercent()
	var cond string
	switch {
	case percent >= 100:
		cond = "$N is in excellent condition."
	case percent >= 90:
		cond = "$N has a few scratches."
	case percent >= 75:
		cond = "$N has some small wounds and bruises."
	case percent >= 50:
		cond = "$N has quite a few wounds."
	case percent >= 30:
		cond = "$N has some big nasty wounds and scratches."
	case percent >= 15:
		cond = "$N looks pretty hurt."
	case percent >= 0:
		cond = "$N is in awful condition."
	default:
		cond = "$N is bleeding to death."
	}
	w.Act(cond, ch, nil, victim, world.ToChar)

	for slot := 0; slot < data.MaxWear; slot++ {
		obj := victim.GetEq(slot)
		if obj == nil || !ch.CanSeeObj(obj) {
			continue
		}
		ch.Send("<" + data.WearSlotNames[slot] + "> " + obj.ShortDescr + "\n\r")
	}
	if victim != ch {
		w.Act("$n looks at you.", ch, nil, victim, world.ToVict)
		w.Act("$n looks at $N.", ch, nil, victim, world.ToNotVict)
	}
}

func showObjList(ch *world.Mobile, list []*world.Object) {
	shown := false
	for _, obj := range list {
		if !ch.CanSeeObj(obj) {
			continue
		}
		ch.Send("  " + obj.ShortDescr + "\n\r")
		shown = true
	}
	if !shown {
		ch.Send("  Nothing.\n\r")
	}
}

func showExits(d *Deps, ch *world.Mobile, auto bool) {
	room := ch.Room
	var open []string
	for dir := 0; dir < data.DirMax; dir++ {
		ex := room.Exits[dir]
		if ex == nil || (ex.To == nil && ex.Proto.ToVnum <= 0) {
			continue
		}
		name := data.DirNames[dir]
		if ex.IsClosed() {
			name = "(" + name + ")"
		}
		open = append(open, name)
	}
	if auto {
		if len(open) == 0 {
			ch.Send("{D[Exits: none]{x\n\r")
		} else {
			ch.Send("{D[Exits: " + strings.Join(open, " ") + "]{x\n\r")
		}
		return
	}
	if len(open) == 0 {
		ch.Send("There are no obvious exits.\n\r")
		return
	}
	ch.Send("Obvious exits: " + strings.Join(open, " ") + "\n\r")
}

func doExits(d *Deps, ch *world.Mobile, _ string) {
	if ch.Room == nil {
		return
	}
	showExits(d, ch, false)
}

func doWho(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	count := 0
	var sb strings.Builder
	for _, desc := range w.Descriptors {
		if desc.State != world.ConPlaying || desc.Char == nil {
			continue
		}
		wch := desc.Char
		if !ch.CanSee(wch) {
			continue
		}
		count++
		rank := fmt.Sprintf("[%3d %s]", wch.Level, wch.Race)
		if wch.IsImmortal() {
			rank = "[ IMMORTAL ]"
		}
		title := ""
		if wch.Pc != nil {
			title = wch.Pc.Title
		}
		fmt.Fprintf(&sb, "%s %s%s\n\r", rank, wch.Name, title)
	}
	fmt.Fprintf(&sb, "\n\rPlayers found: %d\n\r", count)
	ch.Send(sb.String())
}

func doScore(d *Deps, ch *world.Mobile, _ string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are %s, level %d, %d years old.\n\r",
		ch.Name, ch.Level, 17+ch.Level/4)
	fmt.Fprintf(&sb, "You have %d/%d hit, %d/%d mana, %d/%d movement.\n\r",
		ch.Hit, ch.MaxHit, ch.Mana, ch.MaxMana, ch.Move, ch.MaxMove)
	fmt.Fprintf(&sb, "You have scored %d gold and %d silver coins.\n\r",
		ch.Gold, ch.Silver)
	fmt.Fprintf(&sb, "Armor: %d.  Hitroll: %d.  Damroll: %d.\n\r",
		ch.Armor, ch.Hitroll, ch.Damroll)
	fmt.Fprintf(&sb, "Alignment: %d.  You are carrying %d items.\n\r",
		ch.Alignment, ch.CarryCount())
	if ch.Wimpy > 0 {
		fmt.Fprintf(&sb, "Wimpy set to %d hit points.\n\r", ch.Wimpy)
	}
	ch.Send(sb.String())
	if len(ch.Affects) > 0 {
		ch.Send("You are affected by:\n\r")
		for _, af := range ch.Affects {
			line := "  " + af.Skill
			if af.Duration >= 0 {
				line += fmt.Sprintf(" for %d hours", af.Duration)
			}
			ch.Send(line + "\n\r")
		}
	}
}

func doHelp(d *Deps, ch *world.Mobile, argument string) {
	arg := argument
	if arg == "" {
		arg = "summary"
	}
	help := d.Reg.Helps.Find(arg, ch.GetTrust())
	if help == nil {
		ch.Send("No help on that word.\n\r")
		return
	}
	if help.Level >= 0 && !strings.EqualFold(help.Keyword, arg) {
		ch.Send("{W" + help.Keyword + "{x\n\r")
	}
	ch.Send(help.Text + "\n\r")
}

func doAreas(d *Deps, ch *world.Mobile, _ string) {
	var sb strings.Builder
	for _, area := range d.Reg.Areas {
		fmt.Fprintf(&sb, "%-30s %s\n\r", area.Name, area.Credits)
	}
	ch.Send(sb.String())
}

func doCommands(d *Deps, ch *world.Mobile, _ string) {
	col := 0
	var sb strings.Builder
	for _, cmd := range cmdTable {
		if cmd.MinTrust < world.LevelHero && cmd.MinTrust <= ch.GetTrust() && cmd.Show {
			fmt.Fprintf(&sb, "%-12s", cmd.Name)
			if col++; col%6 == 0 {
				sb.WriteString("\n\r")
			}
		}
	}
	if col%6 != 0 {
		sb.WriteString("\n\r")
	}
	ch.Send(sb.String())
}

func doWizhelp(d *Deps, ch *world.Mobile, _ string) {
	col := 0
	var sb strings.Builder
	for _, cmd := range cmdTable {
		if cmd.MinTrust >= world.LevelHero && cmd.MinTrust <= ch.GetTrust() && cmd.Show {
			fmt.Fprintf(&sb, "%-12s", cmd.Name)
			if col++; col%6 == 0 {
				sb.WriteString("\n\r")
			}
		}
	}
	if col%6 != 0 {
		sb.WriteString("\n\r")
	}
	ch.Send(sb.String())
}

func doInventory(d *Deps, ch *world.Mobile, _ string) {
	ch.Send("You are carrying:\n\r")
	var inv []*world.Object
	for _, obj := range ch.Carrying {
		if obj.WearLoc == data.WearNone {
			inv = append(inv, obj)
		}
	}
	showObjList(ch, inv)
}

func doEquipment(d *Deps, ch *world.Mobile, _ string) {
	ch.Send("You are using:\n\r")
	used := false
	for slot := 0; slot < data.MaxWear; slot++ {
		obj := ch.GetEq(slot)
		if obj == nil {
			continue
		}
		used = true
		ch.Send("<" + data.WearSlotNames[slot] + "> " + obj.ShortDescr + "\n\r")
	}
	if !used {
		ch.Send("  Nothing.\n\r")
	}
}

func doConsider(d *Deps, ch *world.Mobile, argument string) {
	arg, _ := world.OneArgument(argument)
	if arg == "" {
		ch.Send("Consider killing whom?\n\r")
		return
	}
	victim := d.World.GetMobRoom(ch, arg)
	if victim == nil {
		ch.Send("They're not here.\n\r")
		return
	}
	diff := victim.Level - ch.Level
	var msg string
	switch {
	case diff <= -10:
		msg = "You can kill $N naked and weaponless."
	case diff <= -5:
		msg = "$N is no match for you."
	case diff <= -2:
		msg = "$N looks like an easy kill."
	case diff <= 1:
		msg = "The perfect match!"
	case diff <= 4:
		msg = "$N says 'Do you feel lucky, punk?'."
	case diff <= 9:
		msg = "$N laughs at you mercilessly."
	default:
		msg = "Death will thank you for your gift."
	}
	d.World.Act(msg, ch, nil, victim, world.ToChar)
}

func doTime(d *Deps, ch *world.Mobile, _ string) {
	w := d.World
	hour := w.Time.Hour % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "am"
	if w.Time.Hour >= 12 {
		ampm = "pm"
	}
	ch.Send(fmt.Sprintf("It is %d o'clock %s, day %d of month %d, year %d.\n\r",
		hour, ampm, w.Time.Day+1, w.Time.Month+1, w.Time.Year))
}

func doWeather(d *Deps, ch *world.Mobile, _ string) {
	if ch.Room != nil && ch.Room.Proto.Flags&data.RoomIndoors != 0 {
		ch.Send("You can't see the weather indoors.\n\r")
		return
	}
	var sky string
	switch d.World.Sky {
	case world.SkyCloudless:
		sky = "The sky is cloudless"
	case world.SkyCloudy:
		sky = "The sky is cloudy"
	case world.SkyRaining:
		sky = "It is raining"
	default:
		sky = "Lightning flashes in the sky"
	}
	ch.Send(sky + ".\n\r")
}
