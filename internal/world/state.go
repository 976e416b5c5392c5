package world

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/thornvale/server/internal/core/event"
	"github.com/thornvale/server/internal/data"
	gonet "github.com/thornvale/server/internal/net"
	"go.uber.org/zap"
)

// Login state machine states, owned by the descriptor.
const (
	ConGetName = iota
	ConGetOldPassword
	ConConfirmNewName
	ConGetNewPassword
	ConConfirmNewPassword
	ConGetNewRace
	ConGetNewSex
	ConGetNewClass
	ConGetAlignment
	ConDefaultChoice
	ConGenGroups
	ConPickWeapon
	ConReadIMotd
	ConReadMotd
	ConPlaying
	ConBreakConnect
)

// Descriptor is the game-side half of a client connection: nanny state,
// command scratch buffers, lag, snoop wiring.
type Descriptor struct {
	Sess *gonet.Session
	Char *Mobile // nil until a character is attached

	State  int
	Host   string
	Ansi   bool
	Incomm string // command pending dispatch this pulse
	Inlast string // last command, for the ! shortcut
	Wait   int    // pulses of lag before the next command dispatches

	SnoopBy *Descriptor

	// Pending output accumulated during the pulse, flushed by the
	// output phase.
	outBuf []byte

	// Login scratch.
	NewName string
	BadPwd  int
	Weapon  data.VNUM // creation weapon choice

	closed bool
}

// OutputCeiling drops sessions whose pending output grows unbounded.
const OutputCeiling = 64 * 1024

// Write appends text to the descriptor's output buffer. Color escapes
// are translated at flush time. Snoopers see a copy.
func (d *Descriptor) Write(text string) {
	if d == nil || d.closed {
		return
	}
	d.outBuf = append(d.outBuf, text...)
	if d.SnoopBy != nil {
		d.SnoopBy.Write(text)
	}
}

// TakeOutput drains the buffered output without flushing to the
// socket, for tests and diagnostics.
func (d *Descriptor) TakeOutput() string {
	out := string(d.outBuf)
	d.outBuf = d.outBuf[:0]
	return out
}

// HasOutput reports pending unflushed output.
func (d *Descriptor) HasOutput() bool { return len(d.outBuf) > 0 }

// Closed reports whether the descriptor has been torn down.
func (d *Descriptor) Closed() bool { return d.closed }

// Flush pushes buffered output to the socket. Returns false when the
// session exceeded its output ceiling and must be dropped.
func (d *Descriptor) Flush() bool {
	if len(d.outBuf) == 0 {
		return true
	}
	if len(d.outBuf) > OutputCeiling {
		return false
	}
	d.Sess.SendString(gonet.ProcessColor(string(d.outBuf), d.Ansi))
	d.outBuf = d.outBuf[:0]
	return true
}

// TimeInfo is the game clock.
type TimeInfo struct {
	Hour  int
	Day   int
	Month int
	Year  int
}

// Weather states.
const (
	SkyCloudless = iota
	SkyCloudy
	SkyRaining
	SkyLightning
)

// Hooks let the entity store call up into layers it cannot import.
// They are wired once at boot.
type Hooks struct {
	// MobDeath fires mobprog death triggers before the corpse is made.
	MobDeath func(victim, killer *Mobile)
	// Look re-renders the room for a player (reload, transfer).
	Look func(m *Mobile)
	// ActTrigger forwards an act() message heard by an NPC to its
	// mobprogs.
	ActTrigger func(message string, npc, actor *Mobile, arg1, arg2 any)
	// GreetTrigger fires when a mobile enters a room.
	GreetTrigger func(mover *Mobile)
}

// World is the process-wide simulation state: every descriptor, every
// live entity, the game clock and the area instances. Single-goroutine
// access only (game loop).
type World struct {
	Reg *data.Registry
	Log *zap.Logger
	Rng *rand.Rand
	Bus *event.Bus

	Descriptors []*Descriptor
	CharList    []*Mobile
	ObjList     []*Object

	Instances []*AreaInstance

	Time     TimeInfo
	Sky      int
	Pressure int

	LogAll  bool
	Wizlock bool
	Newlock bool
	Down    bool // set by shutdown; the loop exits at the next pulse

	// Failed login attempts per host, for the lockout record.
	LoginFailures map[string]int

	Hooks Hooks

	nextID uint64
}

func NewWorld(reg *data.Registry, rng *rand.Rand, bus *event.Bus, log *zap.Logger) *World {
	return &World{
		Reg:           reg,
		Log:           log,
		Rng:           rng,
		Bus:           bus,
		Time:          TimeInfo{Hour: 12, Day: 1, Month: 1, Year: 500},
		Sky:           SkyCloudless,
		Pressure:      960,
		LoginFailures: make(map[string]int),
	}
}

// NextID hands out process-local runtime ids.
func (w *World) NextID() uint64 {
	w.nextID++
	return w.nextID
}

// Bug records a runtime assertion failure. The graph stays valid; the
// heartbeat carries on.
func (w *World) Bug(format string, args ...any) {
	w.Log.Warn("bug: " + fmt.Sprintf(format, args...))
}

// NumberPercent rolls 1..100.
func (w *World) NumberPercent() int {
	return 1 + w.Rng.Intn(100)
}

// NumberRange rolls lo..hi inclusive.
func (w *World) NumberRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + w.Rng.Intn(hi-lo+1)
}

// AddDescriptor registers a new connection in accept order.
func (w *World) AddDescriptor(d *Descriptor) {
	w.Descriptors = append(w.Descriptors, d)
}

// CloseDescriptor severs a connection: snoops are unwired, the
// character (if any) goes linkdead, and the socket is closed.
func (w *World) CloseDescriptor(d *Descriptor) {
	if d.closed {
		return
	}
	d.Flush()
	d.closed = true

	for _, other := range w.Descriptors {
		if other.SnoopBy == d {
			other.SnoopBy = nil
		}
	}
	if d.SnoopBy != nil {
		d.SnoopBy.Write("Your victim has left the game.\n\r")
		d.SnoopBy = nil
	}

	if ch := d.Char; ch != nil {
		if d.State == ConPlaying {
			// Linkdead: the mobile stays in the world for a grace
			// window and is reaped by the idle timer.
			ch.Desc = nil
			w.Log.Info("linkdead", zap.String("name", ch.Name))
		} else {
			w.removeChar(ch)
			ch.Desc = nil
		}
		d.Char = nil
	}

	for i, other := range w.Descriptors {
		if other == d {
			w.Descriptors = append(w.Descriptors[:i], w.Descriptors[i+1:]...)
			break
		}
	}
	d.Sess.Close()
}

func (w *World) removeChar(ch *Mobile) {
	for i, c := range w.CharList {
		if c == ch {
			w.CharList = append(w.CharList[:i], w.CharList[i+1:]...)
			return
		}
	}
}

// FindDescriptorByName returns the playing (or reconnecting) descriptor
// whose character has the given name.
func (w *World) FindDescriptorByName(name string) *Descriptor {
	for _, d := range w.Descriptors {
		if d.Char != nil && strings.EqualFold(d.Char.Name, name) {
			return d
		}
	}
	return nil
}

// FindPlayer returns a playing character by name, linkdead included.
func (w *World) FindPlayer(name string) *Mobile {
	for _, ch := range w.CharList {
		if !ch.IsNPC() && strings.EqualFold(ch.Name, name) {
			return ch
		}
	}
	return nil
}

// CreateMob instantiates a mobile from a prototype and bumps its count.
func (w *World) CreateMob(proto *data.MobProto) *Mobile {
	m := &Mobile{
		ID:          w.NextID(),
		Proto:       proto,
		Name:        proto.Name,
		ShortDescr:  proto.ShortDescr,
		LongDescr:   proto.LongDescr,
		Description: proto.Description,
		Race:        proto.Race,
		Sex:         proto.Sex,
		Level:       proto.Level,
		Position:    proto.StartPos,
		Alignment:   proto.Alignment,
		ActFlags:    proto.ActFlags,
		AffFlags:    proto.AffFlags,
		OffFlags:    proto.OffFlags,
		ImmFlags:    proto.ImmFlags,
		ResFlags:    proto.ResFlags,
		VulnFlags:   proto.VulnFlags,
		Armor:       proto.Armor,
		Hitroll:     proto.Hitroll,
		DamDice:     proto.DamDice,
		DamType:     proto.DamType,
		Size:        proto.Size,
	}
	m.MaxHit = proto.HitDice.Roll(w.Rng)
	m.Hit = m.MaxHit
	m.MaxMana = proto.ManaDice.Roll(w.Rng)
	m.Mana = m.MaxMana
	m.Move = 100
	m.MaxMove = 100
	for i := range m.Stats {
		m.Stats[i] = 11 + proto.Level/10
	}
	if proto.Wealth > 0 {
		wealth := w.NumberRange(proto.Wealth/2, proto.Wealth*3/2)
		m.Gold = wealth / 100
		m.Silver = wealth % 100
	}
	proto.Count++
	w.CharList = append(w.CharList, m)
	return m
}

// CreateObj instantiates an object from a prototype and bumps its
// count.
func (w *World) CreateObj(proto *data.ObjProto) *Object {
	o := &Object{
		ID:          w.NextID(),
		Proto:       proto,
		Name:        proto.Name,
		ShortDescr:  proto.ShortDescr,
		Description: proto.Description,
		ItemType:    proto.ItemType,
		ExtraFlags:  proto.ExtraFlags,
		WearFlags:   proto.WearFlags,
		Values:      proto.Values,
		Weight:      proto.Weight,
		Cost:        proto.Cost,
		Level:       proto.Level,
		Condition:   proto.Condition,
		WearLoc:     data.WearNone,
	}
	for _, ad := range proto.Affects {
		o.Affects = append(o.Affects, &Affect{
			Where:     ad.Where,
			Location:  ad.Location,
			Modifier:  ad.Modifier,
			Duration:  -1,
			Bitvector: ad.Bitvector,
		})
	}
	proto.Count++
	w.ObjList = append(w.ObjList, o)
	return o
}

// CreateMoney makes a money object holding the given coins.
func (w *World) CreateMoney(gold, silver int) *Object {
	proto := w.Reg.Obj(VnumMoney)
	if proto == nil {
		w.Bug("create_money: money prototype %d missing", VnumMoney)
		return nil
	}
	o := w.CreateObj(proto)
	if o == nil {
		return nil
	}
	total := gold*100 + silver
	switch {
	case total == 1:
		o.ShortDescr = "a silver coin"
	case gold > 0 && silver == 0:
		o.ShortDescr = fmt.Sprintf("%d gold coins", gold)
	case gold == 0:
		o.ShortDescr = fmt.Sprintf("%d silver coins", silver)
	default:
		o.ShortDescr = fmt.Sprintf("%d gold and %d silver coins", gold, silver)
	}
	o.Values[0] = silver
	o.Values[1] = gold
	return o
}

// Reserved object vnums the engine itself materializes.
const (
	VnumMoney     data.VNUM = 2
	VnumCorpseNPC data.VNUM = 10
	VnumCorpsePC  data.VNUM = 11
)

// VnumLimbo is the room idle players are voided into.
const VnumLimbo data.VNUM = 2

// PlayerCount counts connected playing characters.
func (w *World) PlayerCount() int {
	n := 0
	for _, d := range w.Descriptors {
		if d.State == ConPlaying {
			n++
		}
	}
	return n
}
