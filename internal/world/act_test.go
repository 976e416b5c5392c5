package world

import (
	"strings"
	"testing"

	"github.com/thornvale/server/internal/data"
)

func attachDesc(w *World, ch *Mobile) *Descriptor {
	d := &Descriptor{State: ConPlaying, Char: ch}
	ch.Desc = d
	w.Descriptors = append(w.Descriptors, d)
	return d
}

func TestActSubstitutionAndAudience(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)

	actor := testPlayer(w, "Arn")
	actor.Sex = data.SexFemale
	victim := testPlayer(w, "Bera")
	bystander := testPlayer(w, "Cale")
	aDesc := attachDesc(w, actor)
	vDesc := attachDesc(w, victim)
	bDesc := attachDesc(w, bystander)
	w.MobToRoom(actor, square)
	w.MobToRoom(victim, square)
	w.MobToRoom(bystander, square)

	w.Act("$n pokes $N with $s finger.", actor, nil, victim, ToNotVict)
	if got := bDesc.TakeOutput(); !strings.Contains(got, "Arn pokes Bera with her finger.") {
		t.Errorf("bystander message = %q", got)
	}
	if vDesc.TakeOutput() != "" {
		t.Error("victim saw a ToNotVict message")
	}
	if aDesc.TakeOutput() != "" {
		t.Error("actor saw a ToNotVict message")
	}

	w.Act("$n pokes you.", actor, nil, victim, ToVict)
	if got := vDesc.TakeOutput(); !strings.Contains(got, "Arn pokes you.") {
		t.Errorf("victim message = %q", got)
	}

	w.Act("You say '$T'", actor, nil, "hi there", ToChar)
	if got := aDesc.TakeOutput(); !strings.Contains(got, "You say 'hi there'") {
		t.Errorf("string substitution = %q", got)
	}

	obj := w.CreateObj(w.Reg.Obj(3010))
	w.ObjToRoom(obj, square)
	w.Act("$n drops $p.", actor, obj, nil, ToRoom)
	if got := bDesc.TakeOutput(); !strings.Contains(got, "Arn drops a sword.") {
		t.Errorf("object substitution = %q", got)
	}
	vDesc.TakeOutput()
}

func TestActForwardsToNpcTrigger(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)
	actor := testPlayer(w, "Arn")
	attachDesc(w, actor)
	npc := w.CreateMob(w.Reg.Mob(3000))
	w.MobToRoom(actor, square)
	w.MobToRoom(npc, square)

	var heard []string
	w.Hooks.ActTrigger = func(message string, to, from *Mobile, arg1, arg2 any) {
		if to == npc {
			heard = append(heard, message)
		}
	}
	w.Act("$n waves farewell.", actor, nil, nil, ToRoom)
	if len(heard) != 1 || !strings.Contains(heard[0], "waves farewell") {
		t.Errorf("NPC did not hear the act: %v", heard)
	}
}

func TestWiznetFiltering(t *testing.T) {
	w := testWorld(t, 1)
	square := room(t, w, 3001)

	imm := testPlayer(w, "Odin")
	imm.Trust = LevelGod
	iDesc := attachDesc(w, imm)
	w.MobToRoom(imm, square)
	mortal := testPlayer(w, "Arn")
	mDesc := attachDesc(w, mortal)
	w.MobToRoom(mortal, square)

	// No subscription, no message.
	w.Wiznet("Something happened.", nil, nil, data.WizDeaths, 0, 0)
	if iDesc.TakeOutput() != "" {
		t.Error("unsubscribed immortal received wiznet")
	}

	imm.Pc.Wiznet = data.WizOn | data.WizDeaths
	w.Wiznet("Something happened.", nil, nil, data.WizDeaths, 0, 0)
	if !strings.Contains(iDesc.TakeOutput(), "Something happened.") {
		t.Error("subscribed immortal missed wiznet")
	}
	if mDesc.TakeOutput() != "" {
		t.Error("mortal received wiznet")
	}

	// Flag mismatch and trust gate.
	w.Wiznet("Reset news.", nil, nil, data.WizResets, 0, 0)
	if iDesc.TakeOutput() != "" {
		t.Error("flag filter failed")
	}
	w.Wiznet("High secret.", nil, nil, data.WizDeaths, 0, LevelImplementor)
	if iDesc.TakeOutput() != "" {
		t.Error("trust filter failed")
	}

	// The actor is excluded from its own report.
	w.Wiznet("Self report.", imm, nil, data.WizDeaths, 0, 0)
	if iDesc.TakeOutput() != "" {
		t.Error("actor received its own wiznet report")
	}
}
