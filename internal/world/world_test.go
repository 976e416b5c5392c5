package world

import (
	"math/rand"
	"testing"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"go.uber.org/zap"
)

// testWorld builds a two-room singleton area plus a small per-player
// area, with one mob and a few object prototypes.
func testWorld(t *testing.T, seed int64) *World {
	t.Helper()
	reg := data.NewRegistry()

	area := &data.AreaProto{
		Name: "testland", Filename: "testland.are",
		MinVnum: 3000, MaxVnum: 3099, Reset: 15,
	}
	reg.Areas = append(reg.Areas, area)

	addRoom := func(a *data.AreaProto, vnum data.VNUM, name string) *data.RoomProto {
		rp := &data.RoomProto{Vnum: vnum, Area: a, Name: name, Sector: data.SectCity}
		if err := reg.AddRoom(rp); err != nil {
			t.Fatal(err)
		}
		a.Rooms = append(a.Rooms, rp)
		return rp
	}
	square := addRoom(area, 3001, "The Square")
	temple := addRoom(area, 3054, "The Temple")
	square.Exits[data.DirNorth] = &data.ExitProto{
		Dir: data.DirNorth, OrigDir: data.DirNorth, ToVnum: 3054,
		Flags: data.ExIsDoor, Keyword: "door",
	}
	temple.Exits[data.DirSouth] = &data.ExitProto{
		Dir: data.DirSouth, OrigDir: data.DirSouth, ToVnum: 3001,
		Flags: data.ExIsDoor, Keyword: "door",
	}

	mob := &data.MobProto{
		Vnum: 3000, Area: area, Name: "beggar", ShortDescr: "the beggar",
		LongDescr: "A beggar shuffles about here.",
		Race:      "human", Level: 3, Sex: data.SexMale,
		HitDice:  data.Dice{Number: 1, Size: 4, Bonus: 10},
		ManaDice: data.Dice{Number: 1, Size: 4, Bonus: 10},
		DamDice:  data.Dice{Number: 1, Size: 4},
		ActFlags: data.ActIsNPC, StartPos: data.PosStanding,
		DefaultPos: data.PosStanding, DamType: "punch",
	}
	if err := reg.AddMob(mob); err != nil {
		t.Fatal(err)
	}
	area.Mobs = append(area.Mobs, mob)

	addObj := func(vnum data.VNUM, name string, itemType int, wear data.Bits) *data.ObjProto {
		op := &data.ObjProto{
			Vnum: vnum, Area: area, Name: name, ShortDescr: "a " + name,
			ItemType: itemType, WearFlags: wear,
		}
		if err := reg.AddObj(op); err != nil {
			t.Fatal(err)
		}
		area.Objs = append(area.Objs, op)
		return op
	}
	addObj(VnumMoney, "coins", data.ItemMoney, 0)
	addObj(VnumCorpseNPC, "corpse", data.ItemCorpseNPC, 0)
	addObj(VnumCorpsePC, "corpse", data.ItemCorpsePC, 0)
	sword := addObj(3010, "sword", data.ItemWeapon, data.WearableTake|data.WearableWield)
	sword.Affects = []*data.AffectData{{
		Where: data.ToObject, Location: data.ApplyHitroll, Modifier: 2,
	}}
	addObj(3011, "bag", data.ItemContainer, data.WearableTake)

	// Resets for 3001: one beggar, capped at one per room and two per
	// area.
	square.Resets = []*data.Reset{
		{Cmd: 'M', Arg1: 3000, Arg2: 2, Arg3: 3001, Arg4: 1},
		{Cmd: 'G', Arg1: 3010},
		{Cmd: 'D', Arg2: 3001, Arg3: data.DirNorth, Arg4: 1},
	}

	// A per-player cellar.
	cellar := &data.AreaProto{
		Name: "cellar", Filename: "cellar.are",
		MinVnum: 3100, MaxVnum: 3110, Reset: 2,
		Instance: data.InstancePerPlayer,
	}
	reg.Areas = append(reg.Areas, cellar)
	addRoom(cellar, 3100, "The Cellar")

	w := NewWorld(reg, rand.New(rand.NewSource(seed)), event.NewBus(), zap.NewNop())
	w.InstantiateAreas()
	return w
}

func testPlayer(w *World, name string) *Mobile {
	ch := &Mobile{
		ID:   w.NextID(),
		Name: name,
		Pc: &PcData{
			Learned:  map[string]int{},
			LastNote: map[string]int64{},
		},
		Level: 10, Position: data.PosStanding,
		Hit: 100, MaxHit: 100, Mana: 100, MaxMana: 100,
		Move: 100, MaxMove: 100, Armor: 100,
	}
	w.CharList = append(w.CharList, ch)
	return ch
}

func room(t *testing.T, w *World, vnum data.VNUM) *Room {
	t.Helper()
	r := w.RoomFor(nil, vnum)
	if r == nil {
		t.Fatalf("room %d not instantiated", vnum)
	}
	return r
}

func TestObjectPlacementInvariant(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)
	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, square)

	obj := w.CreateObj(w.Reg.Obj(3010))
	w.ObjToRoom(obj, square)
	assertOnePlace := func(want string) {
		t.Helper()
		places := 0
		if obj.InRoom != nil {
			places++
		}
		if obj.CarriedBy != nil {
			places++
		}
		if obj.InObj != nil {
			places++
		}
		if places != 1 {
			t.Fatalf("%s: object in %d places", want, places)
		}
	}
	assertOnePlace("in room")
	if len(square.Contents) != 1 {
		t.Fatal("room does not list the object")
	}

	w.ObjToMob(obj, ch)
	assertOnePlace("carried")
	if len(square.Contents) != 0 {
		t.Fatal("room still lists a carried object")
	}

	bag := w.CreateObj(w.Reg.Obj(3011))
	w.ObjToMob(bag, ch)
	w.ObjToObj(obj, bag)
	assertOnePlace("contained")
	if obj.CarriedBy != nil {
		t.Fatal("contained object still lists a carrier")
	}
}

func TestEquipUnequipSymmetric(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)
	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, square)

	obj := w.CreateObj(w.Reg.Obj(3010))
	w.ObjToMob(obj, ch)

	baseHitroll := ch.Hitroll
	w.EquipMob(ch, obj, data.WearWield)
	if ch.Hitroll != baseHitroll+2 {
		t.Errorf("equip did not roll affects in: hitroll %d", ch.Hitroll)
	}
	if obj.WearLoc != data.WearWield {
		t.Errorf("wear location not set")
	}
	w.UnequipMob(ch, obj)
	if ch.Hitroll != baseHitroll {
		t.Errorf("unequip drifted effective stats: hitroll %d", ch.Hitroll)
	}
	if obj.WearLoc != data.WearNone {
		t.Errorf("wear location not cleared")
	}
}

func TestWearSlotHoldsOne(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)
	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, square)

	first := w.CreateObj(w.Reg.Obj(3010))
	second := w.CreateObj(w.Reg.Obj(3010))
	w.ObjToMob(first, ch)
	w.ObjToMob(second, ch)
	w.EquipMob(ch, first, data.WearWield)
	w.EquipMob(ch, second, data.WearWield) // refused, logged as a bug
	if second.WearLoc != data.WearNone {
		t.Error("second object equipped into a full slot")
	}
	if ch.GetEq(data.WearWield) != first {
		t.Error("slot holder changed")
	}
}

func TestExtractMobClearsReferences(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)

	victim := w.CreateMob(w.Reg.Mob(3000))
	w.MobToRoom(victim, square)
	hunter := w.CreateMob(w.Reg.Mob(3000))
	w.MobToRoom(hunter, square)
	fan := testPlayer(w, "Fan")
	w.MobToRoom(fan, square)

	hunter.Fighting = victim
	fan.Master = victim
	fan.Leader = victim
	fan.Reply = victim
	hunter.MprogTarget = victim
	fan.Pet = victim

	before := w.Reg.Mob(3000).Count
	w.ExtractMob(victim, true)

	if hunter.Fighting == victim {
		t.Error("fighting pointer dangles")
	}
	if fan.Master == victim || fan.Leader == victim {
		t.Error("follow pointers dangle")
	}
	if fan.Reply == victim {
		t.Error("reply pointer dangles")
	}
	if hunter.MprogTarget == victim {
		t.Error("mprog target dangles")
	}
	if fan.Pet == victim {
		t.Error("pet slot dangles")
	}
	for _, m := range square.People {
		if m == victim {
			t.Error("room still lists the extracted mob")
		}
	}
	if got := w.Reg.Mob(3000).Count; got != before-1 {
		t.Errorf("prototype count = %d, want %d", got, before-1)
	}

	// Free-on-free is ignored.
	w.ExtractMob(victim, true)
	if w.Reg.Mob(3000).Count != before-1 {
		t.Error("double extract decremented the count twice")
	}
}

func TestPrototypeCountTracksInstances(t *testing.T) {
	w := testWorld(t, 1)
	proto := w.Reg.Mob(3000)
	square := room(t, w, 3001)

	var mobs []*Mobile
	for i := 0; i < 3; i++ {
		m := w.CreateMob(proto)
		w.MobToRoom(m, square)
		mobs = append(mobs, m)
	}
	if proto.Count != 3 {
		t.Fatalf("count = %d after 3 creates", proto.Count)
	}
	live := 0
	for _, m := range w.CharList {
		if m.Proto == proto {
			live++
		}
	}
	if live != proto.Count {
		t.Errorf("live instances %d != count %d", live, proto.Count)
	}
	w.ExtractMob(mobs[0], true)
	if proto.Count != 2 {
		t.Errorf("count = %d after extract", proto.Count)
	}
}

func TestAffectJoinMerges(t *testing.T) {
	w := testWorld(t, 1)
	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, room(t, w, 3001))

	af := &Affect{Skill: "armor", Level: 10, Duration: 10,
		Location: data.ApplyAC, Modifier: -20}
	w.AffectJoin(ch, af)
	w.AffectJoin(ch, af)
	if len(ch.Affects) != 1 {
		t.Fatalf("affect_join duplicated: %d affects", len(ch.Affects))
	}
	got := ch.Affects[0]
	if got.Duration != 20 {
		t.Errorf("durations should sum: %d", got.Duration)
	}
	if got.Modifier != -40 {
		t.Errorf("modifiers should stack: %d", got.Modifier)
	}
	if ch.Armor != 100-40 {
		t.Errorf("armor after join = %d", ch.Armor)
	}
	w.AffectStrip(ch, "armor")
	if len(ch.Affects) != 0 || ch.Armor != 100 {
		t.Errorf("strip did not restore: %d affects, armor %d",
			len(ch.Affects), ch.Armor)
	}
}

func TestResetPopulatesAndCaps(t *testing.T) {
	w := testWorld(t, 1)
	inst := w.InstanceOf(w.Reg.Areas[0], "")
	square := room(t, w, 3001)

	w.ResetInstance(inst)
	if n := w.countMobRoom(square, w.Reg.Mob(3000)); n != 1 {
		t.Fatalf("beggars in square after reset = %d, want 1", n)
	}
	beggar := square.People[0]
	if len(beggar.Carrying) != 1 || beggar.Carrying[0].Proto.Vnum != 3010 {
		t.Error("G reset did not give the sword")
	}
	if ex := square.Exits[data.DirNorth]; !ex.IsClosed() {
		t.Error("D reset did not close the door")
	}

	// Room cap holds on repeated resets.
	w.ResetInstance(inst)
	if n := w.countMobRoom(square, w.Reg.Mob(3000)); n != 1 {
		t.Errorf("room cap violated: %d beggars", n)
	}

	// After a kill, the next reset repopulates.
	w.ExtractMob(beggar, true)
	w.ResetInstance(inst)
	if n := w.countMobRoom(square, w.Reg.Mob(3000)); n != 1 {
		t.Errorf("reset after kill left %d beggars", n)
	}
}

func TestResetDeterminism(t *testing.T) {
	graph := func(seed int64) map[data.VNUM]int {
		w := testWorld(t, seed)
		inst := w.InstanceOf(w.Reg.Areas[0], "")
		w.ResetInstance(inst)
		out := make(map[data.VNUM]int)
		for _, r := range inst.Rooms {
			for _, m := range r.People {
				out[m.Proto.Vnum]++
			}
			for _, o := range r.Contents {
				out[o.Proto.Vnum]++
			}
		}
		return out
	}
	a := graph(99)
	b := graph(99)
	if len(a) != len(b) {
		t.Fatalf("graphs differ: %v vs %v", a, b)
	}
	for vnum, n := range a {
		if b[vnum] != n {
			t.Errorf("vnum %d: %d vs %d", vnum, n, b[vnum])
		}
	}
}

func TestPerPlayerInstanceLifecycle(t *testing.T) {
	w := testWorld(t, 1)
	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, room(t, w, 3001))

	// First entry materializes an owned instance.
	cellar := w.RoomFor(ch, 3100)
	if cellar == nil {
		t.Fatal("per-player room not created")
	}
	if cellar.Area.Owner != "Arn" {
		t.Fatalf("instance owner = %q", cellar.Area.Owner)
	}
	w.TransferMob(ch, cellar)
	inst := cellar.Area

	// A second resolution reuses the same instance.
	if again := w.RoomFor(ch, 3100); again != cellar {
		t.Error("second entry created a new instance")
	}

	// With the player inside, reset ticks do not destroy it.
	for i := 0; i < 10; i++ {
		w.ResetTick(inst)
	}
	if inst.Dead {
		t.Fatal("occupied instance destroyed")
	}

	// Player leaves; at the next reset point the instance dies.
	w.TransferMob(ch, room(t, w, 3001))
	for i := 0; i < 10 && !inst.Dead; i++ {
		w.ResetTick(inst)
	}
	if !inst.Dead {
		t.Fatal("empty per-player instance survived reset")
	}
	for _, live := range w.Instances {
		if live == inst {
			t.Error("dead instance still registered")
		}
	}
}

func TestResetCadenceFasterWhenEmpty(t *testing.T) {
	w := testWorld(t, 1)
	inst := w.InstanceOf(w.Reg.Areas[0], "")
	inst.ResetTimer = 10

	w.ResetTick(inst)
	if inst.ResetTimer != 8 {
		t.Errorf("empty area should tick by 2, timer = %d", inst.ResetTimer)
	}

	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, room(t, w, 3001))
	w.ResetTick(inst)
	if inst.ResetTimer != 7 {
		t.Errorf("occupied area should tick by 1, timer = %d", inst.ResetTimer)
	}
}

func TestReloadRoomPreservesOccupants(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)
	temple := room(t, w, 3054)

	p1 := testPlayer(w, "Arn")
	p2 := testPlayer(w, "Bera")
	npc := w.CreateMob(w.Reg.Mob(3000))
	w.MobToRoom(p1, square)
	w.MobToRoom(p2, square)
	w.MobToRoom(npc, square)
	sword := w.CreateObj(w.Reg.Obj(3010))
	w.ObjToMob(sword, p1)
	loose := w.CreateObj(w.Reg.Obj(3011))
	w.ObjToRoom(loose, square)

	looked := 0
	w.Hooks.Look = func(m *Mobile) { looked++ }

	fresh := w.ReloadRoom(square)
	if fresh == square {
		t.Fatal("reload returned the old room")
	}
	if len(fresh.People) != 3 {
		t.Fatalf("occupants lost: %d", len(fresh.People))
	}
	for _, m := range []*Mobile{p1, p2, npc} {
		if m.Room != fresh {
			t.Errorf("%s not in the rebuilt room", m.Name)
		}
	}
	if len(p1.Carrying) != 1 {
		t.Error("inventory lost across reload")
	}
	if loose.InRoom != fresh {
		t.Error("floor object lost across reload")
	}
	if looked != 2 {
		t.Errorf("expected 2 auto-looks, got %d", looked)
	}

	// The inbound exit from the temple is rewired to the new room.
	back := temple.Exits[data.DirSouth]
	if back == nil || back.To != fresh {
		t.Error("inbound exit not rewired to the rebuilt room")
	}
	// And the rebuilt room's own exit reaches the temple.
	if fresh.Exits[data.DirNorth] == nil || fresh.Exits[data.DirNorth].To != temple {
		t.Error("outbound exit not rebuilt")
	}
}

func TestTransferMobPreservesFurnitureOnlyIfPresent(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)
	temple := room(t, w, 3054)
	ch := testPlayer(w, "Arn")
	w.MobToRoom(ch, square)

	chair := w.CreateObj(w.Reg.Obj(3011))
	w.ObjToRoom(chair, square)
	ch.On = chair

	w.TransferMob(ch, temple)
	if ch.On != nil {
		t.Error("furniture reference survived a move it should not have")
	}
}
