package data

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

const sampleArea = `#AREADATA
Name proving grounds~
Builders none~
VNUMs 100 199
Credits {  5 15} Anon   Proving Grounds~
Security 9
Reset 10
Instance singleton
End

#MOBILES
#100
guard city~
the city guard~
A city guard stands at attention here.~
He looks bored but alert.~
human~
BG 0 350 0
10 2 3d8+30 2d6+10 2d4+2 slash
-10 M 0 0 0
standing standing male 400
0 0 2 flesh
L GUARD_T1~
M greet 100 90~
#0

#OBJECTS
#150
sword steel~
a steel sword~
A steel sword lies here.~
steel~
weapon 0 AN
0 2 5 0 0 5
10 120 100
A 11 1
#151
chest wooden~
a wooden chest~
A wooden chest sits in the corner.~
wood~
container 0 0
50 5 0 0 100 0
20 50 100
E chest~
It is bound with iron bands.
~
#0

#ROOMS
#101
The Gate~
A tall gate bars the way north.
~
0 1
D0
You see the gate.~
gate~
1 0 102
S
#102
Inside the Keep~
Stone walls all around.
~
D 0
D2
~
~
1 0 101
S
#0

#RESETS
M 100 2 101 1
G 150 0 0 0
E 150 0 16 0
O 151 1 101 0
P 150 1 151 1
D 0 101 0 1
S

#SPECIALS
M 100 spec_guard
S

#MOBPROGS
#100
if ispc $n
  say Welcome, traveler.
endif~
#0

#LOOT
group GUARD_G1 1
item 150 1 1 weight 3
cp 5 20 weight 7
table GUARD_T1
use_group GUARD_G1 100
#ENDLOOT

#HELPS
0 greeting~
Welcome to the proving grounds.
~
1 'city guard'~
The guard watches the gate.
~
0 $~

#$
`

func loadSample(t *testing.T) (*Loader, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "proving.are")
	if err := os.WriteFile(path, []byte(sampleArea), 0644); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	l := NewLoader(NewRegistry(), zap.NewNop())
	if err := l.LoadArea(path, "proving.are"); err != nil {
		t.Fatalf("load sample: %v", err)
	}
	l.Reg.Loot.ResolveAll(nil)
	return l, dir
}

func TestLoadArea(t *testing.T) {
	l, _ := loadSample(t)
	reg := l.Reg

	if len(reg.Areas) != 1 {
		t.Fatalf("expected 1 area, got %d", len(reg.Areas))
	}
	area := reg.Areas[0]
	if area.Name != "proving grounds" || area.MinVnum != 100 || area.MaxVnum != 199 {
		t.Errorf("bad area data: %+v", area)
	}
	if area.Reset != 10 || area.Instance != InstanceSingleton {
		t.Errorf("bad reset/instance: %d %d", area.Reset, area.Instance)
	}

	mob := reg.Mob(100)
	if mob == nil {
		t.Fatal("mob 100 not loaded")
	}
	if mob.ShortDescr != "the city guard" || mob.Level != 10 {
		t.Errorf("bad mob fields: %q level %d", mob.ShortDescr, mob.Level)
	}
	if mob.ActFlags&ActIsNPC == 0 || mob.ActFlags&ActSentinel == 0 {
		t.Errorf("act flags not parsed: %s", FormatBits(mob.ActFlags))
	}
	if mob.HitDice != (Dice{3, 8, 30}) {
		t.Errorf("hit dice = %v", mob.HitDice)
	}
	if mob.LootTable != "GUARD_T1" {
		t.Errorf("loot table = %q", mob.LootTable)
	}
	if mob.SpecFun != "spec_guard" {
		t.Errorf("spec fun = %q", mob.SpecFun)
	}
	if len(mob.Progs) != 1 || mob.Progs[0].Type != TrigGreet || mob.Progs[0].Phrase != "90" {
		t.Fatalf("mobprog trigger not attached: %+v", mob.Progs)
	}
	if mob.Progs[0].Code == nil {
		t.Error("trigger code not resolved")
	}
	if !mob.HasTrigger(TrigGreet) {
		t.Error("trigger flags not set")
	}

	sword := reg.Obj(150)
	if sword == nil || sword.ItemType != ItemWeapon {
		t.Fatalf("object 150 bad: %+v", sword)
	}
	if len(sword.Affects) != 1 || sword.Affects[0].Location != ApplyHitroll {
		t.Errorf("object affect not parsed: %+v", sword.Affects)
	}
	chest := reg.Obj(151)
	if chest == nil || len(chest.Extras) != 1 {
		t.Fatalf("object 151 extras missing")
	}

	gate := reg.Room(101)
	if gate == nil || gate.Exits[DirNorth] == nil {
		t.Fatal("room 101 or its north exit missing")
	}
	ex := gate.Exits[DirNorth]
	if ex.ToVnum != 102 || ex.Flags&ExIsDoor == 0 {
		t.Errorf("exit not parsed: %+v", ex)
	}
	if len(gate.Resets) != 6 {
		t.Errorf("expected 6 resets anchored to room 101, got %d", len(gate.Resets))
	}
	keep := reg.Room(102)
	if keep == nil || keep.Flags&RoomIndoors == 0 {
		t.Errorf("room 102 flags wrong")
	}

	if reg.Helps.Greeting == "" {
		t.Error("greeting help not captured")
	}
	if h := reg.Helps.Find("guard", 1); h == nil {
		t.Error("help lookup by keyword prefix failed")
	}

	if g := reg.Loot.FindGroup("GUARD_G1"); g == nil || len(g.Entries) != 2 {
		t.Error("loot group not loaded from area section")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	l, dir := loadSample(t)
	area := l.Reg.Areas[0]

	if err := l.SaveArea(dir, area); err != nil {
		t.Fatalf("save: %v", err)
	}
	first, err := os.ReadFile(filepath.Join(dir, area.Filename))
	if err != nil {
		t.Fatalf("read saved: %v", err)
	}

	l2 := NewLoader(NewRegistry(), zap.NewNop())
	if err := l2.LoadArea(filepath.Join(dir, area.Filename), area.Filename); err != nil {
		t.Fatalf("reload saved area: %v", err)
	}
	dir2 := t.TempDir()
	if err := l2.SaveArea(dir2, l2.Reg.Areas[0]); err != nil {
		t.Fatalf("second save: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(dir2, area.Filename))
	if err != nil {
		t.Fatalf("read second save: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("save(load(save(load(f)))) not a fixed point\nfirst:\n%s\nsecond:\n%s",
			first, second)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	l, dir := loadSample(t)
	area := l.Reg.Areas[0]
	area.Filename = "proving.json"
	if err := l.SaveJSONArea(dir, area); err != nil {
		t.Fatalf("save json: %v", err)
	}

	l2 := NewLoader(NewRegistry(), zap.NewNop())
	if err := l2.LoadJSONArea(filepath.Join(dir, "proving.json"), "proving.json"); err != nil {
		t.Fatalf("load json: %v", err)
	}
	mob := l2.Reg.Mob(100)
	if mob == nil || mob.HitDice != (Dice{3, 8, 30}) || !mob.HasTrigger(TrigGreet) {
		t.Fatalf("json mob did not survive: %+v", mob)
	}
	room := l2.Reg.Room(101)
	if room == nil || room.Exits[DirNorth] == nil || len(room.Resets) != 6 {
		t.Fatalf("json room did not survive")
	}
}

func TestReadFlag(t *testing.T) {
	cases := []struct {
		in   string
		want Bits
	}{
		{"0", 0},
		{"5", 5},
		{"A", bitA},
		{"ABD", bitA | bitB | bitD},
		{"Za", bitZ | bitAA},
		{"A|2", bitA + 2},
		{"-5", -5},
	}
	for _, tc := range cases {
		r := newReader([]byte(tc.in + " "))
		if got := r.Flag(); got != tc.want {
			t.Errorf("Flag(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestFormatBitsRoundTrip(t *testing.T) {
	for _, b := range []Bits{0, bitA, bitA | bitQ, bitZ | bitAA | bitFF} {
		s := FormatBits(b)
		r := newReader([]byte(s + " "))
		if got := r.Flag(); got != b {
			t.Errorf("round trip %d via %q = %d", b, s, got)
		}
	}
}

func TestParseDice(t *testing.T) {
	d, err := ParseDice("3d8+30")
	if err != nil || d != (Dice{3, 8, 30}) {
		t.Errorf("ParseDice(3d8+30) = %v, %v", d, err)
	}
	d, err = ParseDice("2d6")
	if err != nil || d != (Dice{2, 6, 0}) {
		t.Errorf("ParseDice(2d6) = %v, %v", d, err)
	}
	if _, err := ParseDice("banana"); err == nil {
		t.Error("ParseDice(banana) should fail")
	}
}

func TestMalformedSectionIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.are")
	bad := "#AREADATA\nName broken~\nBogus key~\nEnd\n#$\n"
	if err := os.WriteFile(path, []byte(bad), 0644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader(NewRegistry(), zap.NewNop())
	if err := l.LoadArea(path, "bad.are"); err == nil {
		t.Error("malformed #AREADATA should fail the load")
	}
}

func TestDuplicateVnumIsFatal(t *testing.T) {
	reg := NewRegistry()
	if err := reg.AddRoom(&RoomProto{Vnum: 1}); err != nil {
		t.Fatal(err)
	}
	if err := reg.AddRoom(&RoomProto{Vnum: 1}); err == nil {
		t.Error("duplicate room vnum should collide")
	}
}

func TestRescanHelps(t *testing.T) {
	l, dir := loadSample(t)
	if err := os.WriteFile(filepath.Join(dir, "area.lst"),
		[]byte("proving.are\n$\n"), 0644); err != nil {
		t.Fatal(err)
	}
	scanned, err := l.RescanHelps(dir, "area.lst")
	if err != nil {
		t.Fatalf("rescan: %v", err)
	}
	if scanned != 1 {
		t.Errorf("scanned = %d, want 1", scanned)
	}
	if l.Reg.Helps.Count() != 2 {
		t.Errorf("helps after rescan = %d, want 2", l.Reg.Helps.Count())
	}
}
