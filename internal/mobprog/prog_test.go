package mobprog

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// progEnv builds a world with one room, one scripted NPC and one
// player, plus an Env that records executed command lines.
func progEnv(t *testing.T) (*Env, *world.Mobile, *world.Mobile, *[]string, *observer.ObservedLogs) {
	t.Helper()
	reg := data.NewRegistry()
	area := &data.AreaProto{Name: "proglab", MinVnum: 1, MaxVnum: 99}
	reg.Areas = append(reg.Areas, area)
	rp := &data.RoomProto{Vnum: 10, Area: area, Name: "Lab"}
	if err := reg.AddRoom(rp); err != nil {
		t.Fatal(err)
	}
	area.Rooms = append(area.Rooms, rp)

	mp := &data.MobProto{
		Vnum: 20, Area: area, Name: "sage", ShortDescr: "the sage",
		Race: "human", Level: 5, Sex: data.SexMale,
		ActFlags: data.ActIsNPC, StartPos: data.PosStanding,
		DefaultPos: data.PosStanding,
		HitDice:    data.Dice{Number: 1, Size: 1, Bonus: 50},
	}
	if err := reg.AddMob(mp); err != nil {
		t.Fatal(err)
	}
	area.Mobs = append(area.Mobs, mp)

	core, logs := observer.New(zap.WarnLevel)
	log := zap.New(core)
	w := world.NewWorld(reg, rand.New(rand.NewSource(5)), event.NewBus(), log)
	w.InstantiateAreas()
	room := w.RoomFor(nil, 10)

	mob := w.CreateMob(mp)
	w.MobToRoom(mob, room)

	pc := &world.Mobile{
		ID: w.NextID(), Name: "Arn",
		Pc:    &world.PcData{Learned: map[string]int{}, LastNote: map[string]int64{}},
		Level: 10, Sex: data.SexFemale, Position: data.PosStanding,
		Hit: 80, MaxHit: 100,
	}
	w.CharList = append(w.CharList, pc)
	w.MobToRoom(pc, room)

	var executed []string
	env := &Env{World: w, Log: log}
	env.Interpret = func(m *world.Mobile, line string) {
		executed = append(executed, line)
	}
	return env, mob, pc, &executed, logs
}

func TestFlowIfElseEndif(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	src := `
* greeting program
if ispc $n
  say hello $n
else
  say begone
endif
say done
`
	env.Flow(1, src, mob, pc, nil, nil)
	got := strings.Join(*executed, "|")
	if !strings.Contains(got, "say hello Arn") {
		t.Errorf("true branch skipped: %q", got)
	}
	if strings.Contains(got, "begone") {
		t.Errorf("false branch executed: %q", got)
	}
	if !strings.Contains(got, "say done") {
		t.Errorf("tail after endif skipped: %q", got)
	}
}

func TestFlowBreakStopsProgram(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	src := "say one\nbreak\nsay two\n"
	env.Flow(1, src, mob, pc, nil, nil)
	if len(*executed) != 1 {
		t.Errorf("break did not stop the program: %v", *executed)
	}
}

func TestFlowNestingLimit(t *testing.T) {
	env, mob, pc, executed, logs := progEnv(t)
	var sb strings.Builder
	for i := 0; i < 13; i++ {
		sb.WriteString("if ispc $n\n")
	}
	sb.WriteString("say too deep\n")
	for i := 0; i < 13; i++ {
		sb.WriteString("endif\n")
	}
	env.Flow(7, sb.String(), mob, pc, nil, nil)
	if len(*executed) != 0 {
		t.Errorf("program past the nesting limit executed: %v", *executed)
	}
	found := false
	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, "max nested level") {
			found = true
		}
	}
	if !found {
		t.Error("nesting overflow not logged")
	}
}

func TestCallDepthLimit(t *testing.T) {
	env, mob, pc, _, logs := progEnv(t)
	// A self-calling program recurses until the depth guard trips.
	if err := env.World.Reg.AddProg(&data.ProgCode{Vnum: 40, Code: "mob call 40"}); err != nil {
		t.Fatal(err)
	}
	prog := env.World.Reg.Prog(40)
	env.Flow(prog.Vnum, prog.Code, mob, pc, nil, nil)
	found := 0
	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, "max call level") {
			found++
		}
	}
	if found == 0 {
		t.Error("call depth overflow not logged")
	}
	if env.callLevel != 0 {
		t.Errorf("call level not restored: %d", env.callLevel)
	}
}

func TestExpandCodes(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	env.Flow(1, "say $n $e $m $s $I", mob, pc, nil, nil)
	if len(*executed) != 1 {
		t.Fatalf("nothing executed")
	}
	got := (*executed)[0]
	want := "say Arn she her her the sage"
	if got != want {
		t.Errorf("expansion = %q, want %q", got, want)
	}
}

func TestEvalChecks(t *testing.T) {
	env, mob, pc, _, _ := progEnv(t)
	var rch *world.Mobile
	cases := []struct {
		line string
		want bool
	}{
		{"ispc $n", true},
		{"isnpc $n", false},
		{"isnpc $i", true},
		{"level $n >= 10", true},
		{"level $n > 10", false},
		{"vnum $i == 20", true},
		{"vnum $i != 20", false},
		{"hpcnt $n >= 80", true},
		{"hpcnt $n < 50", false},
		{"room $i == 10", true},
		{"sex $n == 2", true},
		{"name $n arn", true},
		{"name $n bera", false},
		{"pos $n standing", true},
		{"people > 0", true},
		{"players > 1", false},
		{"order == 0", true},
		{"istarget $n", true}, // first eval adopts ch as the target
	}
	for _, tc := range cases {
		got, valid := env.eval(1, tc.line, mob, pc, nil, nil, &rch)
		if !valid {
			t.Errorf("eval(%q) flagged a syntax error", tc.line)
			continue
		}
		if got != tc.want {
			t.Errorf("eval(%q) = %v, want %v", tc.line, got, tc.want)
		}
	}
}

func TestEvalSyntaxErrors(t *testing.T) {
	env, mob, pc, _, _ := progEnv(t)
	var rch *world.Mobile
	for _, line := range []string{
		"level $n !! 10",
		"bogus $n",
		"level n >= 10",
	} {
		if _, valid := env.eval(1, line, mob, pc, nil, nil, &rch); valid {
			t.Errorf("eval(%q) should flag a syntax error", line)
		}
	}
}

func TestGreetTriggerFires(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	code := &data.ProgCode{Vnum: 30, Code: "say welcome to the lab"}
	if err := env.World.Reg.AddProg(code); err != nil {
		t.Fatal(err)
	}
	mob.Proto.Progs = append(mob.Proto.Progs, &data.ProgTrigger{
		Type: data.TrigGreet, Vnum: 30, Phrase: "101", Code: code,
	})
	mob.Proto.TrigFlags |= data.TrigGreet

	env.GreetTrigger(pc)
	if len(*executed) != 1 || !strings.Contains((*executed)[0], "welcome") {
		t.Errorf("greet program did not run: %v", *executed)
	}
}

func TestGiveTriggerMatchesVnumAndKeyword(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	op := &data.ObjProto{Vnum: 60, Name: "rose red", ShortDescr: "a red rose",
		ItemType: data.ItemTrash}
	if err := env.World.Reg.AddObj(op); err != nil {
		t.Fatal(err)
	}
	code := &data.ProgCode{Vnum: 31, Code: "say a rose, how kind"}
	if err := env.World.Reg.AddProg(code); err != nil {
		t.Fatal(err)
	}
	mob.Proto.Progs = append(mob.Proto.Progs, &data.ProgTrigger{
		Type: data.TrigGive, Vnum: 31, Phrase: "rose", Code: code,
	})
	mob.Proto.TrigFlags |= data.TrigGive

	obj := env.World.CreateObj(op)
	env.World.ObjToMob(obj, mob)
	env.GiveTrigger(mob, pc, obj)
	if len(*executed) != 1 {
		t.Fatalf("keyword give trigger did not run: %v", *executed)
	}

	*executed = nil
	mob.Proto.Progs[len(mob.Proto.Progs)-1].Phrase = "60"
	env.GiveTrigger(mob, pc, obj)
	if len(*executed) != 1 {
		t.Errorf("vnum give trigger did not run: %v", *executed)
	}
}

func TestBribeTriggerThreshold(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	code := &data.ProgCode{Vnum: 32, Code: "say generous indeed"}
	if err := env.World.Reg.AddProg(code); err != nil {
		t.Fatal(err)
	}
	mob.Proto.Progs = append(mob.Proto.Progs, &data.ProgTrigger{
		Type: data.TrigBribe, Vnum: 32, Phrase: "100", Code: code,
	})
	mob.Proto.TrigFlags |= data.TrigBribe

	env.BribeTrigger(mob, pc, 50)
	if len(*executed) != 0 {
		t.Error("bribe below threshold fired")
	}
	env.BribeTrigger(mob, pc, 100)
	if len(*executed) != 1 {
		t.Error("bribe at threshold did not fire")
	}
}

func TestExitTriggerDirectionAndPosition(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	code := &data.ProgCode{Vnum: 33, Code: "say halt"}
	if err := env.World.Reg.AddProg(code); err != nil {
		t.Fatal(err)
	}
	mob.Proto.Progs = append(mob.Proto.Progs, &data.ProgTrigger{
		Type: data.TrigExit, Vnum: 33, Phrase: "0", Code: code,
	})
	mob.Proto.TrigFlags |= data.TrigExit

	if !env.ExitTrigger(pc, data.DirNorth) {
		t.Error("exit trigger for the matching direction did not fire")
	}
	if env.ExitTrigger(pc, data.DirSouth) {
		t.Error("exit trigger fired for the wrong direction")
	}

	// Off its default position, EXIT stays quiet.
	*executed = nil
	mob.Position = data.PosResting
	if env.ExitTrigger(pc, data.DirNorth) {
		t.Error("exit trigger fired while off default position")
	}
}

func TestDelayAndRemember(t *testing.T) {
	env, mob, pc, executed, _ := progEnv(t)
	env.mobInterpret(mob, "remember Arn")
	if mob.MprogTarget != pc {
		t.Fatal("mob remember did not set the target")
	}
	env.mobInterpret(mob, "delay 3")
	if mob.MprogDelay != 3 {
		t.Fatalf("mob delay = %d", mob.MprogDelay)
	}
	env.mobInterpret(mob, "cancel")
	if mob.MprogDelay != 0 {
		t.Error("mob cancel did not zero the timer")
	}

	code := &data.ProgCode{Vnum: 34, Code: "say you came back $q"}
	if err := env.World.Reg.AddProg(code); err != nil {
		t.Fatal(err)
	}
	mob.Proto.Progs = append(mob.Proto.Progs, &data.ProgTrigger{
		Type: data.TrigDelay, Vnum: 34, Phrase: "101", Code: code,
	})
	mob.Proto.TrigFlags |= data.TrigDelay
	env.DelayTrigger(mob)
	if len(*executed) != 1 || !strings.Contains((*executed)[0], "Arn") {
		t.Errorf("delay trigger with remembered target: %v", *executed)
	}
}

func TestMobCommands(t *testing.T) {
	env, mob, pc, _, _ := progEnv(t)
	w := env.World

	// mload
	env.mobInterpret(mob, "mload 20")
	if w.Reg.Mob(20).Count != 2 {
		t.Errorf("mload: count = %d", w.Reg.Mob(20).Count)
	}

	// transfer the player away and back
	rp := &data.RoomProto{Vnum: 11, Area: w.Reg.Areas[0], Name: "Annex"}
	if err := w.Reg.AddRoom(rp); err != nil {
		t.Fatal(err)
	}
	w.Reg.Areas[0].Rooms = append(w.Reg.Areas[0].Rooms, rp)
	inst := w.InstanceOf(w.Reg.Areas[0], "")
	inst.Rooms[11] = &world.Room{Proto: rp, Area: inst}

	env.mobInterpret(mob, "transfer Arn 11")
	if pc.Room == nil || pc.Room.Vnum() != 11 {
		t.Fatalf("transfer failed, player in %v", pc.Room)
	}
	env.mobInterpret(mob, "goto 11")
	if mob.Room.Vnum() != 11 {
		t.Errorf("goto failed")
	}

	// purge clears the clone but not the player or the runner
	env.mobInterpret(mob, "goto 10")
	env.mobInterpret(mob, "purge")
	if w.Reg.Mob(20).Count != 1 {
		t.Errorf("purge: count = %d, want 1", w.Reg.Mob(20).Count)
	}
}

func TestForgetClearsTarget(t *testing.T) {
	env, mob, pc, _, _ := progEnv(t)
	mob.MprogTarget = pc
	env.mobInterpret(mob, "forget")
	if mob.MprogTarget != nil {
		t.Error("forget left the target")
	}
}
