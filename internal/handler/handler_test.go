package handler

import (
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thornvale/server/internal/config"
	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/mobprog"
	gonet "github.com/thornvale/server/internal/net"
	"github.com/thornvale/server/internal/persist"
	"github.com/thornvale/server/internal/scripting"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

const testSocials = `socials:
  - name: smile
    char_no_arg: You smile happily.
    others_no_arg: $n smiles happily.
    char_found: You smile at $M.
    others_found: $n beams a smile at $N.
    vict_found: $n smiles at you.
    char_auto: You smile at yourself.
    others_auto: $n smiles at $mself.
`

// testDeps wires a miniature world: square (3001) and temple (3054)
// joined north/south through a door, a sage NPC, and basic prototypes.
func testDeps(t *testing.T) *Deps {
	t.Helper()
	reg := data.NewRegistry()
	area := &data.AreaProto{Name: "testland", Filename: "testland.are",
		MinVnum: 3000, MaxVnum: 3999, Reset: 15}
	reg.Areas = append(reg.Areas, area)

	addRoom := func(vnum data.VNUM, name string) *data.RoomProto {
		rp := &data.RoomProto{Vnum: vnum, Area: area, Name: name,
			Description: "A plain test chamber.\n", Sector: data.SectCity}
		if err := reg.AddRoom(rp); err != nil {
			t.Fatal(err)
		}
		area.Rooms = append(area.Rooms, rp)
		return rp
	}
	square := addRoom(3001, "The Square")
	temple := addRoom(3054, "The Temple")
	square.Exits[data.DirNorth] = &data.ExitProto{
		Dir: data.DirNorth, OrigDir: data.DirNorth, ToVnum: 3054,
		Flags: data.ExIsDoor, Keyword: "gate",
	}
	temple.Exits[data.DirSouth] = &data.ExitProto{
		Dir: data.DirSouth, OrigDir: data.DirSouth, ToVnum: 3001,
		Flags: data.ExIsDoor, Keyword: "gate",
	}

	sage := &data.MobProto{
		Vnum: 3000, Area: area, Name: "sage", ShortDescr: "the sage",
		LongDescr: "A sage sits here in quiet contemplation.",
		Race:      "human", Level: 5, Sex: data.SexMale,
		ActFlags: data.ActIsNPC, StartPos: data.PosStanding,
		DefaultPos: data.PosStanding, DamType: "punch",
		HitDice:  data.Dice{Number: 1, Size: 1, Bonus: 60},
		ManaDice: data.Dice{Number: 1, Size: 1, Bonus: 60},
		DamDice:  data.Dice{Number: 1, Size: 2},
	}
	if err := reg.AddMob(sage); err != nil {
		t.Fatal(err)
	}
	area.Mobs = append(area.Mobs, sage)

	addObj := func(vnum data.VNUM, name string, itemType int, wear data.Bits) {
		op := &data.ObjProto{Vnum: vnum, Area: area, Name: name,
			ShortDescr: "a " + name, Description: "A " + name + " lies here.",
			ItemType: itemType, WearFlags: wear}
		if err := reg.AddObj(op); err != nil {
			t.Fatal(err)
		}
		area.Objs = append(area.Objs, op)
	}
	addObj(world.VnumMoney, "coins", data.ItemMoney, 0)
	addObj(world.VnumCorpseNPC, "corpse", data.ItemCorpseNPC, 0)
	addObj(world.VnumCorpsePC, "corpse", data.ItemCorpsePC, 0)
	addObj(3701, "sword training", data.ItemWeapon, data.WearableTake|data.WearableWield)
	addObj(3702, "staff training", data.ItemWeapon, data.WearableTake|data.WearableWield)
	addObj(3703, "mace training", data.ItemWeapon, data.WearableTake|data.WearableWield)
	addObj(3704, "dagger training", data.ItemWeapon, data.WearableTake|data.WearableWield)

	reg.Helps.Add(&data.Help{Keyword: "greeting", Text: "Welcome to the test.\n"})
	reg.Helps.Add(&data.Help{Keyword: "motd", Text: "Message of the day.\n"})

	dir := t.TempDir()
	socialPath := filepath.Join(dir, "socials.yaml")
	if err := os.WriteFile(socialPath, []byte(testSocials), 0644); err != nil {
		t.Fatal(err)
	}
	socials, err := data.LoadSocialTable(socialPath)
	if err != nil {
		t.Fatal(err)
	}

	log := zap.NewNop()
	w := world.NewWorld(reg, rand.New(rand.NewSource(3)), event.NewBus(), log)
	w.InstantiateAreas()

	engine, err := scripting.NewEngine(filepath.Join(dir, "noscripts"), log)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(engine.Close)

	cfg := &config.Config{}
	cfg.Server.Name = "Testvale"
	cfg.Game.RecallVnum = 3001
	cfg.Game.SchoolVnum = 3001
	cfg.Game.PulseLength = 250 * time.Millisecond
	cfg.Game.IdleVoid = 12
	cfg.Game.IdlePurge = 28

	deps := &Deps{
		Config:    cfg,
		Log:       log,
		World:     w,
		Reg:       reg,
		Loader:    data.NewLoader(reg, log),
		Socials:   socials,
		Progs:     &mobprog.Env{World: w, Log: log},
		Scripting: engine,
		Players:   persist.NewPlayerRepo(filepath.Join(dir, "players"), log),
		Notes:     persist.NewNoteBoards(filepath.Join(dir, "notes"), log),
		Bus:       w.Bus,
	}
	deps.Wire()
	BuildCommandTable()
	return deps
}

// testDescriptor builds a descriptor over a pipe so telnet negotiation
// has somewhere to go. Output is read back with TakeOutput.
func testDescriptor(t *testing.T, d *Deps) *world.Descriptor {
	t.Helper()
	client, server := net.Pipe()
	t.Cleanup(func() { client.Close(); server.Close() })
	sess := gonet.NewSession(server, 1, 8, 64, zap.NewNop())
	desc := &world.Descriptor{Sess: sess, State: world.ConGetName, Host: "test.host"}
	d.World.AddDescriptor(desc)
	return desc
}

// testPC builds a playing character attached to a descriptor.
func testPC(t *testing.T, d *Deps, name string) *world.Mobile {
	t.Helper()
	desc := testDescriptor(t, d)
	ch := &world.Mobile{
		ID:    d.World.NextID(),
		Name:  name,
		Pc:    persist.NewPcData(),
		Desc:  desc,
		Level: 10, Position: data.PosStanding,
		Hit: 100, MaxHit: 100, Mana: 100, MaxMana: 100,
		Move: 100, MaxMove: 100, Armor: 100,
		Sex: data.SexFemale, Race: "human", Class: "warrior",
	}
	desc.Char = ch
	desc.State = world.ConPlaying
	d.World.CharList = append(d.World.CharList, ch)
	d.World.MobToRoom(ch, d.World.RoomFor(ch, 3001))
	desc.TakeOutput()
	return ch
}
