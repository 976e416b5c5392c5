package world

import (
	"github.com/thornvale/server/internal/data"
)

// Stat indices.
const (
	StatStr = iota
	StatDex
	StatInt
	StatWis
	StatCon
	MaxStats
)

// Trust levels. Mortals run 1..50; immortal commands start at Hero.
const (
	LevelHero        = 51
	LevelImmortal    = 52
	LevelDemigod     = 54
	LevelGod         = 56
	LevelImplementor = 60
)

// Mobile is a living entity. NPCs and player characters share the
// structure; a player carries a PcData and a Descriptor, an NPC carries
// a prototype reference.
type Mobile struct {
	ID    uint64
	Proto *data.MobProto // nil for player characters
	Desc  *Descriptor    // nil for NPCs and linkdead players
	Pc    *PcData        // nil for NPCs

	Name        string
	ShortDescr  string
	LongDescr   string
	Description string
	Race        string
	Class       string
	Clan        string
	Sex         int
	Level       int
	Trust       int // 0 = use Level
	Position    int

	Room     *Room
	Carrying []*Object
	On       *Object // furniture currently in use

	Gold   int
	Silver int

	Hit, MaxHit   int
	Mana, MaxMana int
	Move, MaxMove int

	Stats   [MaxStats]int
	Armor   int
	Hitroll int
	Damroll int
	Saves   int
	DamDice data.Dice
	DamType string

	Alignment int
	ActFlags  data.Bits
	AffFlags  data.Bits
	OffFlags  data.Bits
	ImmFlags  data.Bits
	ResFlags  data.Bits
	VulnFlags data.Bits

	Affects []*Affect

	Fighting *Mobile
	Master   *Mobile
	Leader   *Mobile
	Pet      *Mobile
	Reply    *Mobile

	MprogTarget *Mobile
	MprogDelay  int

	Wait  int // command lag, in pulses
	Timer int // idle ticks
	Wimpy int
	Size  int

	Zombie bool // marked dead, pending extraction this pulse

	extracted bool
}

// PcData holds the player-only record behind a Mobile.
type PcData struct {
	PwdHash   string // bcrypt
	Title     string
	Prompt    string
	Wiznet    data.Bits
	Learned   map[string]int // skill name -> percent
	Security  int
	TruePos   int // position before being voided for idling
	WasVoided bool

	// Last-read timestamps per note board.
	LastNote map[string]int64

	// Quest states keyed by quest vnum: 0 absent, 1 in progress,
	// 2 complete-but-unrewarded.
	Quests map[data.VNUM]int
}

// IsNPC reports whether m is an NPC.
func (m *Mobile) IsNPC() bool { return m.Pc == nil }

// IsImmortal reports whether m has immortal trust.
func (m *Mobile) IsImmortal() bool { return m.GetTrust() >= LevelImmortal }

// GetTrust returns the effective trust level.
func (m *Mobile) GetTrust() int {
	if m.Trust != 0 {
		return m.Trust
	}
	return m.Level
}

// IsAffected reports an affect bit.
func (m *Mobile) IsAffected(bit data.Bits) bool { return m.AffFlags&bit != 0 }

// IsAwake reports whether m is conscious.
func (m *Mobile) IsAwake() bool { return m.Position > data.PosSleeping }

// IsGood and friends classify alignment.
func (m *Mobile) IsGood() bool    { return m.Alignment >= 350 }
func (m *Mobile) IsEvil() bool    { return m.Alignment <= -350 }
func (m *Mobile) IsNeutral() bool { return !m.IsGood() && !m.IsEvil() }

// HitPercent returns current hit points as a percentage of max.
func (m *Mobile) HitPercent() int {
	max := m.MaxHit
	if max < 1 {
		max = 1
	}
	return m.Hit * 100 / max
}

// CanSee applies visibility rules: blindness, darkness, invisibility
// and hiding, with holylight and detection overrides.
func (m *Mobile) CanSee(victim *Mobile) bool {
	if victim == nil {
		return false
	}
	if m == victim {
		return true
	}
	if !m.IsNPC() && m.ActFlags&data.PlrHolylight != 0 {
		return true
	}
	if m.IsAffected(data.AffBlind) {
		return false
	}
	if victim.Room != nil && victim.Room.IsDark() && !m.IsAffected(data.AffInfrared) &&
		!m.IsAffected(data.AffDarkVision) {
		return false
	}
	if victim.IsAffected(data.AffInvisible) && !m.IsAffected(data.AffDetectInvis) {
		return false
	}
	if victim.IsAffected(data.AffHide) && !m.IsAffected(data.AffDetectHidden) &&
		victim.Fighting == nil {
		return false
	}
	return true
}

// CanSeeObj applies object visibility rules.
func (m *Mobile) CanSeeObj(obj *Object) bool {
	if obj == nil {
		return false
	}
	if !m.IsNPC() && m.ActFlags&data.PlrHolylight != 0 {
		return true
	}
	if m.IsAffected(data.AffBlind) && obj.ItemType != data.ItemPotion {
		return false
	}
	if obj.ItemType == data.ItemLight && obj.Values[2] != 0 {
		return true
	}
	if obj.ExtraFlags&data.ItemInvis != 0 && !m.IsAffected(data.AffDetectInvis) {
		return false
	}
	if obj.Room() != nil && obj.Room().IsDark() && !m.IsAffected(data.AffInfrared) &&
		!m.IsAffected(data.AffDarkVision) {
		return false
	}
	return true
}

// Send writes text to the mobile's descriptor, if any.
func (m *Mobile) Send(text string) {
	if m.Desc != nil {
		m.Desc.Write(text)
	}
}

// GetEq returns the object worn in a slot, or nil.
func (m *Mobile) GetEq(slot int) *Object {
	for _, obj := range m.Carrying {
		if obj.WearLoc == slot {
			return obj
		}
	}
	return nil
}

// CarryCount returns the number of carried (not worn) items.
func (m *Mobile) CarryCount() int {
	n := 0
	for _, obj := range m.Carrying {
		if obj.WearLoc == data.WearNone {
			n++
		}
	}
	return n
}

// CarryWeight totals carried weight, including worn gear.
func (m *Mobile) CarryWeight() int {
	w := 0
	for _, obj := range m.Carrying {
		w += obj.TotalWeight()
	}
	return w
}

// DefaultPosition returns the prototype's default position, standing
// for players.
func (m *Mobile) DefaultPosition() int {
	if m.Proto != nil {
		return m.Proto.DefaultPos
	}
	return data.PosStanding
}

// SameGroup reports whether two mobiles share a leader.
func SameGroup(a, b *Mobile) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Leader != nil {
		a = a.Leader
	}
	if b.Leader != nil {
		b = b.Leader
	}
	return a == b
}
