package world

import "github.com/thornvale/server/internal/data"

// Affect is a timed modifier owned by a mobile or object. Duration is
// in ticks; -1 is permanent.
type Affect struct {
	Where     int    // which bitvector Bitvector lands in
	Skill     string // origin skill
	Level     int
	Duration  int
	Location  int // Apply* stat being modified
	Modifier  int
	Bitvector data.Bits
}

// AffectModify is the only point that applies an affect's stat deltas
// to a mobile's effective stats. Every add must be paired with a
// symmetric remove or effective stats drift.
func (w *World) AffectModify(m *Mobile, af *Affect, add bool) {
	mod := af.Modifier
	if add {
		switch af.Where {
		case data.ToAffects:
			m.AffFlags |= af.Bitvector
		case data.ToImmune:
			m.ImmFlags |= af.Bitvector
		case data.ToResist:
			m.ResFlags |= af.Bitvector
		case data.ToVuln:
			m.VulnFlags |= af.Bitvector
		}
	} else {
		switch af.Where {
		case data.ToAffects:
			m.AffFlags &^= af.Bitvector
		case data.ToImmune:
			m.ImmFlags &^= af.Bitvector
		case data.ToResist:
			m.ResFlags &^= af.Bitvector
		case data.ToVuln:
			m.VulnFlags &^= af.Bitvector
		}
		mod = -mod
	}

	switch af.Location {
	case data.ApplyNone:
	case data.ApplyStr:
		m.Stats[StatStr] += mod
	case data.ApplyDex:
		m.Stats[StatDex] += mod
	case data.ApplyInt:
		m.Stats[StatInt] += mod
	case data.ApplyWis:
		m.Stats[StatWis] += mod
	case data.ApplyCon:
		m.Stats[StatCon] += mod
	case data.ApplySex:
		m.Sex += mod
	case data.ApplyMana:
		m.MaxMana += mod
	case data.ApplyHit:
		m.MaxHit += mod
	case data.ApplyMove:
		m.MaxMove += mod
	case data.ApplyAC:
		m.Armor += mod
	case data.ApplyHitroll:
		m.Hitroll += mod
	case data.ApplyDamroll:
		m.Damroll += mod
	case data.ApplySaves:
		m.Saves += mod
	default:
		w.Bug("affect_modify: unknown location %d", af.Location)
	}
}

// AffectTo attaches a new affect to a mobile and applies it.
func (w *World) AffectTo(m *Mobile, af *Affect) {
	cp := *af
	m.Affects = append(m.Affects, &cp)
	w.AffectModify(m, &cp, true)
}

// AffectRemove detaches one affect, reversing its deltas.
func (w *World) AffectRemove(m *Mobile, af *Affect) {
	if len(m.Affects) == 0 {
		w.Bug("affect_remove: %s has no affects", m.Name)
		return
	}
	w.AffectModify(m, af, false)
	for i, x := range m.Affects {
		if x == af {
			m.Affects = append(m.Affects[:i], m.Affects[i+1:]...)
			return
		}
	}
	w.Bug("affect_remove: affect not owned by %s", m.Name)
}

// AffectJoin merges a new affect with an existing one of the same
// skill: durations sum, levels average. Otherwise it attaches fresh.
func (w *World) AffectJoin(m *Mobile, af *Affect) {
	for _, old := range m.Affects {
		if old.Skill == af.Skill {
			merged := *af
			merged.Level = (old.Level + af.Level) / 2
			merged.Duration += old.Duration
			merged.Modifier += old.Modifier
			w.AffectRemove(m, old)
			w.AffectTo(m, &merged)
			return
		}
	}
	w.AffectTo(m, af)
}

// AffectStrip removes every affect of a given skill.
func (w *World) AffectStrip(m *Mobile, skill string) {
	for i := 0; i < len(m.Affects); {
		if m.Affects[i].Skill == skill {
			w.AffectRemove(m, m.Affects[i])
			continue // slice shifted
		}
		i++
	}
}

// IsAffectedBy reports whether a skill's affect is present.
func IsAffectedBy(m *Mobile, skill string) bool {
	for _, af := range m.Affects {
		if af.Skill == skill {
			return true
		}
	}
	return false
}
