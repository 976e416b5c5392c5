package handler

import (
	"strings"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/persist"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxLoginFailures locks a host out of further password attempts.
const MaxLoginFailures = 5

var nameCaser = cases.Title(language.English)

type raceDef struct {
	Name  string
	Stats [world.MaxStats]int
}

var raceTable = []raceDef{
	{"human", [world.MaxStats]int{13, 13, 13, 13, 13}},
	{"elf", [world.MaxStats]int{12, 14, 14, 13, 11}},
	{"dwarf", [world.MaxStats]int{14, 12, 12, 13, 14}},
	{"giant", [world.MaxStats]int{16, 11, 11, 12, 14}},
}

type classDef struct {
	Name       string
	WeaponVnum data.VNUM // fallback when no weapon was picked
}

var classTable = []classDef{
	{"mage", 3702},
	{"cleric", 3703},
	{"thief", 3704},
	{"warrior", 3701},
}

var weaponChoices = map[string]data.VNUM{
	"sword":  3701,
	"staff":  3702,
	"mace":   3703,
	"dagger": 3704,
}

// Greet sends the login banner and first prompt to a new descriptor.
func (d *Deps) Greet(desc *world.Descriptor) {
	if d.Reg.Helps.Greeting != "" {
		desc.Write(d.Reg.Helps.Greeting)
	}
	desc.Write("By what name do you wish to be known? ")
}

// Nanny drives the login state machine across discrete prompts.
func (d *Deps) Nanny(desc *world.Descriptor, line string) {
	w := d.World
	line = strings.TrimSpace(line)

	switch desc.State {
	case world.ConGetName:
		d.nannyGetName(desc, line)

	case world.ConGetOldPassword:
		desc.Sess.EchoOn()
		desc.Write("\n\r")
		ch := desc.Char
		if bcrypt.CompareHashAndPassword([]byte(ch.Pc.PwdHash), []byte(line)) != nil {
			desc.BadPwd++
			w.LoginFailures[desc.Host]++
			if desc.BadPwd >= 3 {
				desc.Write("Wrong password.\n\r")
				d.Log.Warn("password lockout",
					zap.String("name", ch.Name), zap.String("host", desc.Host))
				desc.State = world.ConBreakConnect
				w.CloseDescriptor(desc)
				return
			}
			desc.Write("Wrong password.\n\rPassword: ")
			desc.Sess.EchoOff()
			return
		}
		desc.BadPwd = 0
		delete(w.LoginFailures, desc.Host)

		if checkDeny(d, desc, ch) {
			return
		}
		if w.Wizlock && !ch.IsImmortal() {
			desc.Write("The game is wizlocked.\n\r")
			w.CloseDescriptor(desc)
			return
		}
		if d.checkReconnect(desc) {
			return
		}
		d.Log.Info("login", zap.String("name", ch.Name), zap.String("host", desc.Host))
		w.Wiznet("$N has connected.", ch, nil, data.WizSites, 0, 52)
		d.showMotd(desc)

	case world.ConConfirmNewName:
		switch lower1(line) {
		case 'y':
			desc.Write("New character.\n\rGive me a password for " +
				desc.NewName + ": ")
			desc.Sess.EchoOff()
			desc.State = world.ConGetNewPassword
		case 'n':
			desc.Write("Ok, what IS it, then? ")
			desc.Char = nil
			desc.State = world.ConGetName
		default:
			desc.Write("Please type Yes or No? ")
		}

	case world.ConGetNewPassword:
		desc.Write("\n\r")
		if len(line) < 5 {
			desc.Write("Password must be at least five characters long.\n\rPassword: ")
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(line), bcrypt.DefaultCost)
		if err != nil {
			w.Bug("nanny: bcrypt: %v", err)
			w.CloseDescriptor(desc)
			return
		}
		desc.Char.Pc.PwdHash = string(hash)
		desc.Write("Please retype password: ")
		desc.State = world.ConConfirmNewPassword

	case world.ConConfirmNewPassword:
		desc.Write("\n\r")
		if bcrypt.CompareHashAndPassword([]byte(desc.Char.Pc.PwdHash), []byte(line)) != nil {
			desc.Write("Passwords don't match.\n\rRetype password: ")
			desc.State = world.ConGetNewPassword
			return
		}
		desc.Sess.EchoOn()
		var names []string
		for _, r := range raceTable {
			names = append(names, r.Name)
		}
		desc.Write("The following races are available:\n\r  " +
			strings.Join(names, " ") + "\n\rWhat is your race? ")
		desc.State = world.ConGetNewRace

	case world.ConGetNewRace:
		arg, _ := world.OneArgument(line)
		for _, r := range raceTable {
			if strings.HasPrefix(r.Name, arg) && arg != "" {
				desc.Char.Race = r.Name
				desc.Char.Stats = r.Stats
				desc.Write("What is your sex (M/F)? ")
				desc.State = world.ConGetNewSex
				return
			}
		}
		desc.Write("That is not a valid race.\n\rWhat is your race? ")

	case world.ConGetNewSex:
		switch lower1(line) {
		case 'm':
			desc.Char.Sex = data.SexMale
		case 'f':
			desc.Char.Sex = data.SexFemale
		default:
			desc.Write("That's not a sex.\n\rWhat IS your sex? ")
			return
		}
		var names []string
		for _, c := range classTable {
			names = append(names, c.Name)
		}
		desc.Write("Select a class:\n\r  " + strings.Join(names, " ") +
			"\n\rWhat is your class? ")
		desc.State = world.ConGetNewClass

	case world.ConGetNewClass:
		arg, _ := world.OneArgument(line)
		for _, c := range classTable {
			if strings.HasPrefix(c.Name, arg) && arg != "" {
				desc.Char.Class = c.Name
				desc.Write("You may be good, neutral, or evil.\n\rWhich alignment (G/N/E)? ")
				desc.State = world.ConGetAlignment
				return
			}
		}
		desc.Write("That's not a class.\n\rWhat IS your class? ")

	case world.ConGetAlignment:
		switch lower1(line) {
		case 'g':
			desc.Char.Alignment = 750
		case 'n':
			desc.Char.Alignment = 0
		case 'e':
			desc.Char.Alignment = -750
		default:
			desc.Write("That's not a valid alignment.\n\rWhich alignment? ")
			return
		}
		desc.Write("Do you wish to take the default skill group (Y/N)? ")
		desc.State = world.ConDefaultChoice

	case world.ConDefaultChoice:
		switch lower1(line) {
		case 'y':
			grantDefaultGroups(desc.Char)
			d.pickWeaponPrompt(desc)
		case 'n':
			desc.Write("Customization is handled by your guildmasters in game.\n\r")
			desc.State = world.ConGenGroups
			d.Nanny(desc, "done")
		default:
			desc.Write("Please answer (Y/N)? ")
		}

	case world.ConGenGroups:
		grantDefaultGroups(desc.Char)
		d.pickWeaponPrompt(desc)

	case world.ConPickWeapon:
		arg, _ := world.OneArgument(line)
		for name, vnum := range weaponChoices {
			if strings.HasPrefix(name, arg) && arg != "" {
				desc.Char.Pc.Learned[name] = 40
				desc.Weapon = vnum
				if desc.Char.IsImmortal() {
					d.showImotd(desc)
					return
				}
				d.showMotd(desc)
				return
			}
		}
		desc.Write("That's not a valid weapon.\n\rPick a weapon (sword dagger mace staff): ")

	case world.ConReadIMotd:
		d.showMotd(desc)

	case world.ConReadMotd:
		d.enterGame(desc)

	case world.ConBreakConnect:
		w.CloseDescriptor(desc)
	}
}

func lower1(line string) byte {
	if line == "" {
		return 0
	}
	c := line[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}

func validName(name string) bool {
	if len(name) < 2 || len(name) > 12 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	switch strings.ToLower(name) {
	case "all", "auto", "immortal", "self", "someone", "something", "the", "you", "new":
		return false
	}
	return true
}

func (d *Deps) nannyGetName(desc *world.Descriptor, line string) {
	w := d.World
	if line == "" {
		w.CloseDescriptor(desc)
		return
	}
	name := nameCaser.String(strings.ToLower(line))
	if !validName(name) {
		desc.Write("Illegal name, try another.\n\rName: ")
		return
	}
	if w.LoginFailures[desc.Host] >= MaxLoginFailures {
		desc.Write("Too many failed logins from your host. Try again later.\n\r")
		w.CloseDescriptor(desc)
		return
	}

	if d.Players.Exists(name) {
		ch, savedRoom, err := d.Players.Load(w, name)
		if err != nil {
			w.Bug("nanny: load %s: %v", name, err)
			desc.Write("Your record is damaged; the gods have been notified.\n\r")
			w.CloseDescriptor(desc)
			return
		}
		if d.lastRoomVnum == nil {
			d.lastRoomVnum = make(map[string]data.VNUM)
		}
		d.lastRoomVnum[strings.ToLower(name)] = savedRoom
		ch.Desc = desc
		desc.Char = ch
		desc.Write("Password: ")
		desc.Sess.EchoOff()
		desc.State = world.ConGetOldPassword
		return
	}

	if w.Newlock {
		desc.Write("The game is newlocked.\n\r")
		w.CloseDescriptor(desc)
		return
	}

	ch := &world.Mobile{
		ID:       w.NextID(),
		Name:     name,
		Pc:       persist.NewPcData(),
		Level:    1,
		Sex:      data.SexNeutral,
		Position: data.PosStanding,
		Hit:      20, MaxHit: 20,
		Mana: 100, MaxMana: 100,
		Move: 100, MaxMove: 100,
		Armor: 100,
	}
	ch.Desc = desc
	w.CharList = append(w.CharList, ch)
	desc.Char = ch
	desc.NewName = name
	desc.Write("Did I get that right, " + name + " (Y/N)? ")
	desc.State = world.ConConfirmNewName
}

func checkDeny(d *Deps, desc *world.Descriptor, ch *world.Mobile) bool {
	if ch.ActFlags&data.PlrDeny != 0 {
		d.Log.Warn("denied access", zap.String("name", ch.Name), zap.String("host", desc.Host))
		desc.Write("You are denied access.\n\r")
		d.World.CloseDescriptor(desc)
		return true
	}
	return false
}

// checkReconnect takes over an existing in-world character: the new
// descriptor becomes the character's descriptor, the old one closes
// with a notice.
func (d *Deps) checkReconnect(desc *world.Descriptor) bool {
	w := d.World
	fresh := desc.Char
	for _, old := range w.CharList {
		if old == fresh || old.IsNPC() || !strings.EqualFold(old.Name, fresh.Name) {
			continue
		}
		// Throw away the freshly loaded copy.
		desc.Char = nil
		w.ExtractMob(fresh, true)

		if old.Desc != nil {
			oldDesc := old.Desc
			oldDesc.Write("This character is in use from another connection. Goodbye.\n\r")
			old.Desc = nil
			oldDesc.Char = nil
			w.CloseDescriptor(oldDesc)
		}
		old.Desc = desc
		desc.Char = old
		old.Timer = 0
		desc.State = world.ConPlaying
		desc.Write("Reconnecting. Type replay to see missed tells.\n\r")
		w.Act("$n has reconnected.", old, nil, nil, world.ToRoom)
		d.Log.Info("reconnect", zap.String("name", old.Name), zap.String("host", desc.Host))
		w.Wiznet("$N groks the fullness of $S link.", old, nil, data.WizLinks, 0, 0)
		return true
	}
	return false
}

func grantDefaultGroups(ch *world.Mobile) {
	ch.Pc.Learned["recall"] = 50
	switch ch.Class {
	case "mage":
		ch.Pc.Learned["magic missile"] = 30
	case "cleric":
		ch.Pc.Learned["cure light"] = 30
	case "thief":
		ch.Pc.Learned["steal"] = 30
	case "warrior":
		ch.Pc.Learned["second attack"] = 30
	}
}

func (d *Deps) pickWeaponPrompt(desc *world.Descriptor) {
	desc.Write("\n\rPlease pick a weapon from the following choices:\n\r" +
		"  sword dagger mace staff\n\rYour choice? ")
	desc.State = world.ConPickWeapon
}

func (d *Deps) showImotd(desc *world.Descriptor) {
	if help := d.Reg.Helps.Find("imotd", world.LevelImplementor); help != nil {
		desc.Write(help.Text)
	}
	desc.Write("\n\rPress Return to continue: ")
	desc.State = world.ConReadIMotd
}

func (d *Deps) showMotd(desc *world.Descriptor) {
	if help := d.Reg.Helps.Find("motd", desc.Char.GetTrust()); help != nil {
		desc.Write(help.Text)
	}
	desc.Write("\n\rPress Return to continue: ")
	desc.State = world.ConReadMotd
}

// enterGame places the character into the world and completes login.
func (d *Deps) enterGame(desc *world.Descriptor) {
	w := d.World
	ch := desc.Char
	desc.State = world.ConPlaying

	isNew := ch.Level == 1 && len(ch.Carrying) == 0

	var room *world.Room
	if isNew {
		room = w.RoomFor(ch, data.VNUM(d.Config.Game.SchoolVnum))
		// Newbie kit: the chosen weapon, or the class default.
		weapon := desc.Weapon
		if weapon == 0 {
			for _, c := range classTable {
				if c.Name == ch.Class {
					weapon = c.WeaponVnum
				}
			}
		}
		if proto := w.Reg.Obj(weapon); proto != nil {
			obj := w.CreateObj(proto)
			w.ObjToMob(obj, ch)
			if ch.GetEq(data.WearWield) == nil {
				w.EquipMob(ch, obj, data.WearWield)
			}
		}
	} else if saved := d.savedRoom(ch); saved != nil {
		room = saved
	}
	if room == nil {
		room = w.RoomFor(ch, data.VNUM(d.Config.Game.RecallVnum))
	}
	if room == nil {
		w.Bug("enter_game: no start room for %s", ch.Name)
		w.CloseDescriptor(desc)
		return
	}

	w.MobToRoom(ch, room)
	ch.Send("\n\rWelcome to " + d.Config.Server.Name + ". May your visit here be... productive.\n\r")
	w.Act("$n has entered the game.", ch, nil, nil, world.ToRoom)
	d.Bus.Emit(event.PlayerLogin{Name: ch.Name, Host: desc.Host})
	w.Wiznet("$N has left real life behind.", ch, nil, data.WizLogins, 0, 0)
	doLook(d, ch, "auto")
	d.Progs.GreetTrigger(ch)
}

func (d *Deps) savedRoom(ch *world.Mobile) *world.Room {
	vnum := d.lastRoomVnum[strings.ToLower(ch.Name)]
	if vnum == 0 {
		return nil
	}
	return d.World.RoomFor(ch, vnum)
}
