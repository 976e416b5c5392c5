package handler

import (
	"strings"
	"testing"

	"github.com/thornvale/server/internal/world"
)

func nannyAll(d *Deps, desc *world.Descriptor, lines ...string) {
	for _, line := range lines {
		d.Nanny(desc, line)
	}
}

func TestLoginNewCharacter(t *testing.T) {
	d := testDeps(t)
	desc := testDescriptor(t, d)

	nannyAll(d, desc,
		"varek",    // name
		"y",        // confirm
		"hunter22", // password
		"hunter22", // confirm password
		"human",    // race
		"m",        // sex
		"warrior",  // class
		"n",        // alignment
		"y",        // default groups
		"sword",    // weapon
		"",         // motd
	)

	if desc.State != world.ConPlaying {
		t.Fatalf("state = %d, want playing", desc.State)
	}
	ch := desc.Char
	if ch == nil || ch.Name != "Varek" {
		t.Fatalf("character not created or name not capitalized: %+v", ch)
	}
	if ch.Race != "human" || ch.Class != "warrior" || ch.Alignment != 0 {
		t.Errorf("creation answers lost: %s %s %d", ch.Race, ch.Class, ch.Alignment)
	}
	if ch.Pc.PwdHash == "" || strings.Contains(ch.Pc.PwdHash, "hunter22") {
		t.Error("password not hashed")
	}
	if ch.Room == nil || ch.Room.Vnum() != 3001 {
		t.Error("new character not placed in the school room")
	}
	if ch.GetEq(16) == nil { // wield slot
		t.Error("newbie weapon not equipped")
	}
	if ch.Pc.Learned["sword"] == 0 {
		t.Error("weapon skill not granted")
	}
}

func TestLoginInvalidNames(t *testing.T) {
	d := testDeps(t)
	desc := testDescriptor(t, d)

	for _, bad := range []string{"x", "self", "new", "a b", "1337"} {
		d.Nanny(desc, bad)
		if desc.State != world.ConGetName {
			t.Errorf("name %q advanced the state machine", bad)
		}
		desc.TakeOutput()
	}
}

func TestLoginWrongPasswordLockout(t *testing.T) {
	d := testDeps(t)

	// Create and save a character, then drop the session.
	first := testDescriptor(t, d)
	nannyAll(d, first, "varek", "y", "hunter22", "hunter22",
		"human", "m", "warrior", "n", "y", "sword", "")
	if err := d.Players.Save(first.Char); err != nil {
		t.Fatal(err)
	}
	d.World.ExtractMob(first.Char, true)
	d.World.CloseDescriptor(first)

	desc := testDescriptor(t, d)
	nannyAll(d, desc, "varek", "wrong1", "wrong2", "wrong3")
	if !desc.Closed() {
		t.Error("three bad passwords did not break the connection")
	}
	if d.World.LoginFailures["test.host"] < 3 {
		t.Errorf("login failures not recorded: %d", d.World.LoginFailures["test.host"])
	}
}

func TestLoginReturningPlayer(t *testing.T) {
	d := testDeps(t)

	first := testDescriptor(t, d)
	nannyAll(d, first, "varek", "y", "hunter22", "hunter22",
		"human", "m", "warrior", "n", "y", "sword", "")
	if err := d.Players.Save(first.Char); err != nil {
		t.Fatal(err)
	}
	d.World.ExtractMob(first.Char, true)
	d.World.CloseDescriptor(first)

	desc := testDescriptor(t, d)
	nannyAll(d, desc, "varek", "hunter22", "")
	if desc.State != world.ConPlaying {
		t.Fatalf("returning player not playing, state %d", desc.State)
	}
	if desc.Char.Class != "warrior" {
		t.Error("saved record not restored")
	}
}

func TestReconnectTakesOverSession(t *testing.T) {
	d := testDeps(t)

	first := testDescriptor(t, d)
	nannyAll(d, first, "varek", "y", "hunter22", "hunter22",
		"human", "m", "warrior", "n", "y", "sword", "")
	original := first.Char
	if err := d.Players.Save(original); err != nil {
		t.Fatal(err)
	}

	second := testDescriptor(t, d)
	nannyAll(d, second, "varek", "hunter22")

	if second.Char != original {
		t.Fatal("reconnect did not take over the in-world character")
	}
	if second.State != world.ConPlaying {
		t.Error("reconnect skipped straight-to-play")
	}
	if !first.Closed() {
		t.Error("old descriptor left open")
	}
	if original.Desc != second {
		t.Error("character descriptor not swapped")
	}
}

func TestWizlockGatesLogin(t *testing.T) {
	d := testDeps(t)

	first := testDescriptor(t, d)
	nannyAll(d, first, "varek", "y", "hunter22", "hunter22",
		"human", "m", "warrior", "n", "y", "sword", "")
	if err := d.Players.Save(first.Char); err != nil {
		t.Fatal(err)
	}
	d.World.ExtractMob(first.Char, true)
	d.World.CloseDescriptor(first)

	d.World.Wizlock = true
	desc := testDescriptor(t, d)
	nannyAll(d, desc, "varek", "hunter22")
	if !desc.Closed() {
		t.Error("wizlock let a mortal in")
	}

	// Newlock blocks creation.
	d.World.Wizlock = false
	d.World.Newlock = true
	fresh := testDescriptor(t, d)
	d.Nanny(fresh, "brandnew")
	if !fresh.Closed() {
		t.Error("newlock let a new character start")
	}
}
