package persist

import (
	"math/rand"
	"os"
	"testing"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

func testWorld(t *testing.T) *world.World {
	t.Helper()
	reg := data.NewRegistry()
	area := &data.AreaProto{Name: "persistland", MinVnum: 1, MaxVnum: 99}
	reg.Areas = append(reg.Areas, area)
	rp := &data.RoomProto{Vnum: 10, Area: area, Name: "Vault"}
	if err := reg.AddRoom(rp); err != nil {
		t.Fatal(err)
	}
	area.Rooms = append(area.Rooms, rp)

	sword := &data.ObjProto{Vnum: 20, Area: area, Name: "sword",
		ShortDescr: "a sword", ItemType: data.ItemWeapon,
		WearFlags: data.WearableTake | data.WearableWield}
	if err := reg.AddObj(sword); err != nil {
		t.Fatal(err)
	}
	bag := &data.ObjProto{Vnum: 21, Area: area, Name: "bag",
		ShortDescr: "a bag", ItemType: data.ItemContainer,
		WearFlags: data.WearableTake}
	if err := reg.AddObj(bag); err != nil {
		t.Fatal(err)
	}

	w := world.NewWorld(reg, rand.New(rand.NewSource(11)), event.NewBus(), zap.NewNop())
	w.InstantiateAreas()
	return w
}

func TestPlayerSaveLoadRoundTrip(t *testing.T) {
	w := testWorld(t)
	repo := NewPlayerRepo(t.TempDir(), zap.NewNop())

	ch := &world.Mobile{
		ID: w.NextID(), Name: "Varek",
		Pc:        NewPcData(),
		Level:     7,
		Race:      "dwarf",
		Class:     "warrior",
		Sex:       data.SexMale,
		Alignment: -200,
		Position:  data.PosStanding,
		Hit:       55, MaxHit: 80,
		Mana: 30, MaxMana: 60,
		Move: 70, MaxMove: 90,
		Gold: 12, Silver: 34,
		Armor: 80, Hitroll: 3, Damroll: 2,
		Wimpy: 15,
	}
	ch.Stats = [world.MaxStats]int{14, 12, 10, 11, 15}
	ch.Pc.PwdHash = "$2a$10$fakehashfakehashfakehash"
	ch.Pc.Title = " the Stalwart"
	ch.Pc.Wiznet = data.WizOn | data.WizDeaths
	ch.Pc.Learned["sword"] = 75
	ch.Pc.Quests[44] = 2
	ch.Pc.LastNote["note"] = 1700000000
	ch.Affects = append(ch.Affects, &world.Affect{
		Skill: "armor", Level: 7, Duration: 12,
		Location: data.ApplyAC, Modifier: -20,
	})
	w.CharList = append(w.CharList, ch)
	w.MobToRoom(ch, w.RoomFor(nil, 10))

	sword := w.CreateObj(w.Reg.Obj(20))
	w.ObjToMob(sword, ch)
	w.EquipMob(ch, sword, data.WearWield)
	bag := w.CreateObj(w.Reg.Obj(21))
	w.ObjToMob(bag, ch)
	inner := w.CreateObj(w.Reg.Obj(20))
	w.ObjToObj(inner, bag)

	if err := repo.Save(ch); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !repo.Exists("Varek") {
		t.Fatal("saved file not found")
	}
	if !repo.Exists("varek") {
		t.Fatal("lookup should be case-insensitive")
	}

	loaded, roomVnum, err := repo.Load(w, "Varek")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if roomVnum != 10 {
		t.Errorf("saved room = %d", roomVnum)
	}
	if loaded.Name != "Varek" || loaded.Level != 7 || loaded.Race != "dwarf" {
		t.Errorf("basic fields lost: %+v", loaded)
	}
	if loaded.Hit != 55 || loaded.MaxHit != 80 || loaded.Gold != 12 || loaded.Silver != 34 {
		t.Errorf("pools lost")
	}
	if loaded.Stats != ch.Stats {
		t.Errorf("stats lost: %v", loaded.Stats)
	}
	if loaded.Pc.PwdHash != ch.Pc.PwdHash {
		t.Error("password hash lost")
	}
	if loaded.Pc.Title != " the Stalwart" {
		t.Errorf("title lost: %q", loaded.Pc.Title)
	}
	if loaded.Pc.Wiznet != ch.Pc.Wiznet {
		t.Error("wiznet subscription lost")
	}
	if loaded.Pc.Learned["sword"] != 75 {
		t.Error("skills lost")
	}
	if loaded.Pc.Quests[44] != 2 {
		t.Error("quest state lost")
	}
	if loaded.Pc.LastNote["note"] != 1700000000 {
		t.Error("board timestamps lost")
	}
	if len(loaded.Affects) != 1 || loaded.Affects[0].Skill != "armor" ||
		loaded.Affects[0].Modifier != -20 {
		t.Errorf("affects lost: %+v", loaded.Affects)
	}

	if len(loaded.Carrying) != 2 {
		t.Fatalf("carried objects = %d, want 2", len(loaded.Carrying))
	}
	var loadedSword, loadedBag *world.Object
	for _, obj := range loaded.Carrying {
		switch obj.Proto.Vnum {
		case 20:
			loadedSword = obj
		case 21:
			loadedBag = obj
		}
	}
	if loadedSword == nil || loadedSword.WearLoc != data.WearWield {
		t.Error("equipped sword lost its slot")
	}
	if loadedBag == nil || len(loadedBag.Contains) != 1 ||
		loadedBag.Contains[0].Proto.Vnum != 20 {
		t.Error("nested container contents lost")
	}
}

func TestSaveIsAtomic(t *testing.T) {
	w := testWorld(t)
	dir := t.TempDir()
	repo := NewPlayerRepo(dir, zap.NewNop())
	ch := &world.Mobile{ID: w.NextID(), Name: "Atom", Pc: NewPcData(), Level: 1}
	w.CharList = append(w.CharList, ch)

	if err := repo.Save(ch); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(repo.path("Atom") + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestNoteBoardsAppendAndReload(t *testing.T) {
	dir := t.TempDir()
	nb := NewNoteBoards(dir, zap.NewNop())
	if err := nb.LoadAll(); err != nil {
		t.Fatal(err)
	}
	note := &Note{Sender: "Varek", To: "all", Subject: "hello", Text: "First post."}
	if err := nb.Append("note", note); err != nil {
		t.Fatalf("append: %v", err)
	}
	second := &Note{Sender: "Bera", To: "immortal", Subject: "secret", Text: "Imm only."}
	if err := nb.Append("note", second); err != nil {
		t.Fatal(err)
	}

	reload := NewNoteBoards(dir, zap.NewNop())
	if err := reload.LoadAll(); err != nil {
		t.Fatal(err)
	}
	board := reload.Board("note")
	if len(board.Notes) != 2 {
		t.Fatalf("notes after reload = %d", len(board.Notes))
	}
	got := board.Notes[0]
	if got.Sender != "Varek" || got.Subject != "hello" {
		t.Errorf("note fields lost: %+v", got)
	}
	if !got.VisibleTo("Bera", false) {
		t.Error("note to all not visible")
	}
	if board.Notes[1].VisibleTo("Varek", false) {
		t.Error("immortal note visible to mortal")
	}
	if !board.Notes[1].VisibleTo("Varek", true) {
		t.Error("immortal note hidden from immortal")
	}
}
