package handler

import (
	"strings"
	"testing"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
)

func output(ch *world.Mobile) string {
	return ch.Desc.TakeOutput()
}

func TestDispatchPrefixMatch(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")

	d.Interpret(ch, "sco")
	if !strings.Contains(output(ch), "You are Arn") {
		t.Error("prefix 'sco' did not reach score")
	}
}

func TestDispatchUnknownFallsToHuh(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")

	d.Interpret(ch, "xyzzy")
	if !strings.Contains(output(ch), "Huh?") {
		t.Error("unknown verb did not answer Huh?")
	}
}

func TestDispatchTrustGate(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")

	// A mortal typing an immortal command falls through to Huh?,
	// not a permission error.
	d.Interpret(ch, "shutdown")
	if !strings.Contains(output(ch), "Huh?") {
		t.Error("trust-gated command leaked to a mortal")
	}

	ch.Trust = world.LevelImplementor
	d.Interpret(ch, "wizlock")
	if !strings.Contains(output(ch), "wizlocked") {
		t.Error("trusted actor could not reach wizlock")
	}
	if !d.World.Wizlock {
		t.Error("wizlock flag not set")
	}
}

func TestDispatchPositionRefusal(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	ch.Position = data.PosSleeping

	d.Interpret(ch, "north")
	if !strings.Contains(output(ch), "In your dreams") {
		t.Error("sleeping actor was not refused")
	}

	ch.Position = data.PosDead
	d.Interpret(ch, "north")
	if !strings.Contains(output(ch), "Lie still; you are DEAD.") {
		t.Error("dead actor did not get the dead refusal")
	}
}

func TestPunctuationVerb(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")

	d.Interpret(ch, "'hello there")
	if !strings.Contains(output(ch), "You say '{ghello there{x'") {
		t.Error("'hello was not treated as say hello")
	}
}

func TestDispatchStripsHide(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	ch.AffFlags |= data.AffHide

	d.Interpret(ch, "look")
	if ch.AffFlags&data.AffHide != 0 {
		t.Error("hide bit survived command dispatch")
	}
}

func TestFreezeRefusesCommands(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	ch.ActFlags |= data.PlrFreeze

	d.Interpret(ch, "look")
	if !strings.Contains(output(ch), "totally frozen") {
		t.Error("frozen player executed a command")
	}
}

func TestSocialFallback(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	other := testPC(t, d, "Bera")

	d.Interpret(ch, "smile")
	if !strings.Contains(output(ch), "You smile happily.") {
		t.Error("social without target missed the actor message")
	}
	if !strings.Contains(output(other), "smiles happily") {
		t.Error("social without target missed the room message")
	}

	d.Interpret(ch, "smile bera")
	if !strings.Contains(output(ch), "You smile at her.") {
		t.Error("targeted social actor message wrong")
	}
	if !strings.Contains(output(other), "smiles at you") {
		t.Error("targeted social victim message wrong")
	}
}

func TestMoveThroughOpenDoor(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")

	d.Interpret(ch, "north")
	if ch.Room.Vnum() != 3054 {
		t.Fatalf("actor in %d, want 3054", ch.Room.Vnum())
	}
	if !strings.Contains(output(ch), "The Temple") {
		t.Error("auto-look after movement missing")
	}
}

// Scenario: a closed door blocks movement and reports itself.
func TestMoveBlockedByClosedDoor(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	square := ch.Room
	square.Exits[data.DirNorth].Flags |= data.ExClosed

	d.Interpret(ch, "north")
	if ch.Room != square {
		t.Fatal("actor moved through a closed door")
	}
	if !strings.Contains(output(ch), "The gate is closed.") {
		t.Error("closed door message missing")
	}
}

func TestOpenCloseLockUnlock(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	ex := ch.Room.Exits[data.DirNorth]
	ex.Flags |= data.ExClosed
	ex.Proto.Key = 3701

	d.Interpret(ch, "open gate")
	if !strings.Contains(output(ch), "It's locked") && ex.IsClosed() {
		// not locked yet: open should have worked
		t.Fatal("open failed on an unlocked door")
	}
	d.Interpret(ch, "close north")
	if !ex.IsClosed() {
		t.Fatal("close failed")
	}

	d.Interpret(ch, "lock north")
	if !strings.Contains(output(ch), "You lack the key") {
		t.Error("lock without key succeeded")
	}
	key := d.World.CreateObj(d.Reg.Obj(3701))
	d.World.ObjToMob(key, ch)
	d.Interpret(ch, "lock north")
	if !ex.IsLocked() {
		t.Fatal("lock with key failed")
	}
	d.Interpret(ch, "unlock north")
	if ex.IsLocked() {
		t.Fatal("unlock failed")
	}
}

// Scenario: a greet program runs when a player walks in, within the
// same pulse.
func TestGreetTriggerOnMovement(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")

	sage := d.World.CreateMob(d.Reg.Mob(3000))
	d.World.MobToRoom(sage, d.World.RoomFor(nil, 3054))
	code := &data.ProgCode{Vnum: 90, Code: "say welcome, wanderer"}
	if err := d.Reg.AddProg(code); err != nil {
		t.Fatal(err)
	}
	sage.Proto.Progs = append(sage.Proto.Progs, &data.ProgTrigger{
		Type: data.TrigGreet, Vnum: 90, Phrase: "101", Code: code,
	})
	sage.Proto.TrigFlags |= data.TrigGreet

	d.Interpret(ch, "north")
	if !strings.Contains(output(ch), "welcome, wanderer") {
		t.Error("greet program output not seen by the mover")
	}
}

func TestGetDropInventory(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	obj := d.World.CreateObj(d.Reg.Obj(3701))
	d.World.ObjToRoom(obj, ch.Room)

	d.Interpret(ch, "get sword")
	if obj.CarriedBy != ch {
		t.Fatal("get failed")
	}
	d.Interpret(ch, "inventory")
	if !strings.Contains(output(ch), "a sword training") {
		t.Error("inventory does not list the sword")
	}
	d.Interpret(ch, "drop sword")
	if obj.InRoom != ch.Room {
		t.Fatal("drop failed")
	}
}

func TestWearRemove(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	obj := d.World.CreateObj(d.Reg.Obj(3701))
	d.World.ObjToMob(obj, ch)

	d.Interpret(ch, "wield sword")
	if obj.WearLoc != data.WearWield {
		t.Fatal("wield failed")
	}
	d.Interpret(ch, "remove sword")
	if obj.WearLoc != data.WearNone {
		t.Fatal("remove failed")
	}
}

func TestKillToCorpseAndLoot(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	ch.Hitroll = 50
	ch.Damroll = 500
	ch.DamDice = data.Dice{Number: 1, Size: 1}
	ch.DamType = "slash"

	// Give the victim a loot table that always drops coins.
	if err := d.Reg.Loot.ParseSection("group g 1\ncp 10 10 weight 1\ntable sage_t\nuse_group g 100", nil); err != nil {
		t.Fatal(err)
	}
	d.Reg.Loot.ResolveAll(nil)
	d.Reg.Mob(3000).LootTable = "sage_t"

	sage := d.World.CreateMob(d.Reg.Mob(3000))
	d.World.MobToRoom(sage, ch.Room)

	for i := 0; i < 50 && d.Reg.Mob(3000).Count > 0; i++ {
		MultiHit(d, ch, sage)
	}
	if d.Reg.Mob(3000).Count != 0 {
		t.Fatal("sage survived 50 rounds of overwhelming damage")
	}
	var corpse *world.Object
	for _, obj := range ch.Room.Contents {
		if obj.ItemType == data.ItemCorpseNPC {
			corpse = obj
		}
	}
	if corpse == nil {
		t.Fatal("no corpse in the room")
	}
	foundMoney := false
	for _, in := range corpse.Contains {
		if in.ItemType == data.ItemMoney {
			foundMoney = true
		}
	}
	if !foundMoney {
		t.Error("loot table did not populate the corpse")
	}
}

func TestSnoopLoopRejected(t *testing.T) {
	d := testDeps(t)
	imm1 := testPC(t, d, "Odin")
	imm1.Trust = world.LevelGod
	imm2 := testPC(t, d, "Loki")
	imm2.Trust = world.LevelGod - 1

	d.Interpret(imm1, "snoop loki")
	if imm2.Desc.SnoopBy != imm1.Desc {
		t.Fatal("snoop failed")
	}
	output(imm1)
	d.Interpret(imm2, "snoop odin")
	if !strings.Contains(output(imm2), "failed") &&
		imm1.Desc.SnoopBy == imm2.Desc {
		t.Error("snoop loop accepted")
	}
}

func TestReloadRoomCommand(t *testing.T) {
	d := testDeps(t)
	ch := testPC(t, d, "Arn")
	ch.Trust = world.LevelImplementor
	old := ch.Room

	d.Interpret(ch, "reload room")
	if ch.Room == old {
		t.Fatal("room instance not rebuilt")
	}
	if ch.Room.Vnum() != 3001 {
		t.Fatal("actor lost during reload")
	}
	if !strings.Contains(output(ch), "reloads around you") {
		t.Error("reload notice missing")
	}
}
