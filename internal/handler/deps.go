package handler

import (
	"github.com/thornvale/server/internal/config"
	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/mobprog"
	"github.com/thornvale/server/internal/persist"
	"github.com/thornvale/server/internal/scripting"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all command handlers.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.World
	Reg       *data.Registry
	Loader    *data.Loader
	Socials   *data.SocialTable
	Progs     *mobprog.Env
	Scripting *scripting.Engine
	Players   *persist.PlayerRepo
	Notes     *persist.NoteBoards
	Bus       *event.Bus

	// Shutdown asks the game loop to stop after the current pulse.
	Shutdown func()

	// lastRoomVnum remembers the saved location of characters between
	// file load and world entry.
	lastRoomVnum map[string]data.VNUM
}

func scriptingCtx(ch *world.Mobile) scripting.ExecContext {
	return scripting.ExecContext{Self: ch}
}

// Wire installs the cross-layer callbacks: mobprog re-entry into the
// dispatcher, combat hooks, and the world hooks that fire triggers.
func (d *Deps) Wire() {
	d.Progs.Interpret = func(m *world.Mobile, line string) {
		d.Interpret(m, line)
	}
	d.Progs.Kill = func(attacker, victim *world.Mobile) {
		MultiHit(d, attacker, victim)
	}
	d.Progs.Damage = func(attacker, victim *world.Mobile, amount int, lethal bool) {
		if !lethal && amount >= victim.Hit {
			amount = victim.Hit - 1
			if amount < 0 {
				amount = 0
			}
		}
		Damage(d, attacker, victim, amount, "none", true)
	}
	d.World.Hooks.ActTrigger = func(message string, npc, actor *world.Mobile, arg1, arg2 any) {
		if npc.Proto != nil && npc.Proto.HasTrigger(data.TrigAct) {
			d.Progs.ActTrigger(message, npc, actor, arg1, arg2, data.TrigAct)
		}
	}
	d.World.Hooks.GreetTrigger = func(mover *world.Mobile) {
		d.Progs.GreetTrigger(mover)
	}
	d.World.Hooks.Look = func(m *world.Mobile) {
		doLook(d, m, "auto")
	}
	d.World.Hooks.MobDeath = func(victim, killer *world.Mobile) {
		if victim.IsNPC() && victim.Proto.HasTrigger(data.TrigDeath) {
			d.Progs.PercentTrigger(victim, killer, nil, nil, data.TrigDeath)
		}
	}
	d.Scripting.Command = func(self any, line string) {
		if ch, ok := self.(*world.Mobile); ok {
			d.Interpret(ch, line)
		}
	}
	d.Scripting.Echo = func(self any, text string) {
		if ch, ok := self.(*world.Mobile); ok {
			ch.Send(text)
		}
	}
}
