package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SaveArea writes an area back to its file in the section-delimited
// text format. The write goes to a temp file next to the target and is
// renamed into place on success, so readers never observe a partial
// file. Saving then re-loading is a fixed point: load(save(load(f)))
// equals save(load(f)).
func (l *Loader) SaveArea(dir string, area *AreaProto) error {
	var sb strings.Builder

	sb.WriteString("#AREADATA\n")
	fmt.Fprintf(&sb, "Name %s~\n", area.Name)
	fmt.Fprintf(&sb, "Builders %s~\n", area.Builders)
	fmt.Fprintf(&sb, "VNUMs %d %d\n", area.MinVnum, area.MaxVnum)
	fmt.Fprintf(&sb, "Credits %s~\n", area.Credits)
	fmt.Fprintf(&sb, "Security %d\n", area.Security)
	fmt.Fprintf(&sb, "Reset %d\n", area.Reset)
	if area.Instance == InstancePerPlayer {
		sb.WriteString("Instance perplayer\n")
	} else {
		sb.WriteString("Instance singleton\n")
	}
	sb.WriteString("End\n\n")

	if len(area.Mobs) > 0 {
		sb.WriteString("#MOBILES\n")
		for _, m := range area.Mobs {
			saveMob(&sb, m)
		}
		sb.WriteString("#0\n\n")
	}

	if len(area.Objs) > 0 {
		sb.WriteString("#OBJECTS\n")
		for _, o := range area.Objs {
			saveObj(&sb, o)
		}
		sb.WriteString("#0\n\n")
	}

	if len(area.Rooms) > 0 {
		sb.WriteString("#ROOMS\n")
		for _, r := range area.Rooms {
			saveRoom(&sb, r)
		}
		sb.WriteString("#0\n\n")
	}

	hasResets := false
	for _, r := range area.Rooms {
		if len(r.Resets) > 0 {
			hasResets = true
			break
		}
	}
	if hasResets {
		sb.WriteString("#RESETS\n")
		for _, r := range area.Rooms {
			for _, rs := range r.Resets {
				fmt.Fprintf(&sb, "%c %d %d %d %d\n",
					rs.Cmd, rs.Arg1, rs.Arg2, rs.Arg3, rs.Arg4)
			}
		}
		sb.WriteString("S\n\n")
	}

	var shops []*Shop
	var specials []*MobProto
	for _, m := range area.Mobs {
		if m.Shop != nil {
			shops = append(shops, m.Shop)
		}
		if m.SpecFun != "" {
			specials = append(specials, m)
		}
	}
	if len(shops) > 0 {
		sb.WriteString("#SHOPS\n")
		for _, s := range shops {
			fmt.Fprintf(&sb, "%d %d %d %d %d %d %d %d %d %d\n",
				s.Keeper, s.BuyTypes[0], s.BuyTypes[1], s.BuyTypes[2],
				s.BuyTypes[3], s.BuyTypes[4],
				s.ProfitBuy, s.ProfitSell, s.OpenHour, s.CloseHour)
		}
		sb.WriteString("0\n\n")
	}
	if len(specials) > 0 {
		sb.WriteString("#SPECIALS\n")
		for _, m := range specials {
			fmt.Fprintf(&sb, "M %d %s\n", m.Vnum, m.SpecFun)
		}
		sb.WriteString("S\n\n")
	}

	if len(area.Progs) > 0 {
		sb.WriteString("#MOBPROGS\n")
		for _, p := range area.Progs {
			fmt.Fprintf(&sb, "#%d\n%s~\n", p.Vnum, p.Code)
		}
		sb.WriteString("#0\n\n")
	}

	var helps []*Help
	for _, h := range l.Reg.Helps.All() {
		if h.File == area.Filename {
			helps = append(helps, h)
		}
	}
	if len(helps) > 0 {
		sb.WriteString("#HELPS\n")
		for _, h := range helps {
			fmt.Fprintf(&sb, "%d %s~\n%s~\n", h.Level, h.Keyword, h.Text)
		}
		sb.WriteString("0 $~\n\n")
	}

	sb.WriteString("#$\n")

	return atomicWrite(filepath.Join(dir, area.Filename), []byte(sb.String()))
}

func saveMob(sb *strings.Builder, m *MobProto) {
	fmt.Fprintf(sb, "#%d\n", m.Vnum)
	fmt.Fprintf(sb, "%s~\n%s~\n%s~\n%s~\n%s~\n",
		m.Name, m.ShortDescr, m.LongDescr, m.Description, m.Race)
	fmt.Fprintf(sb, "%s %s %d %d\n",
		FormatBits(m.ActFlags), FormatBits(m.AffFlags), m.Alignment, m.Group)
	fmt.Fprintf(sb, "%d %d %s %s %s %s\n",
		m.Level, m.Hitroll, m.HitDice, m.ManaDice, m.DamDice, wordOr(m.DamType, "none"))
	fmt.Fprintf(sb, "%d %s %s %s %s\n",
		m.Armor, FormatBits(m.OffFlags), FormatBits(m.ImmFlags),
		FormatBits(m.ResFlags), FormatBits(m.VulnFlags))
	fmt.Fprintf(sb, "%s %s %s %d\n",
		PositionNames[m.StartPos], PositionNames[m.DefaultPos],
		SexNames[m.Sex], m.Wealth)
	fmt.Fprintf(sb, "%s %s %d %s\n",
		FormatBits(m.Form), FormatBits(m.Parts), m.Size, wordOr(m.Material, "unknown"))
	if m.LootTable != "" {
		fmt.Fprintf(sb, "L %s~\n", m.LootTable)
	}
	for _, t := range m.Progs {
		fmt.Fprintf(sb, "M %s %d %s~\n", trigName(t.Type), t.Vnum, t.Phrase)
	}
}

func wordOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func trigName(trig Bits) string {
	for _, e := range TrigNames {
		if e.Bit == trig {
			return e.Name
		}
	}
	return "unknown"
}

func saveObj(sb *strings.Builder, o *ObjProto) {
	fmt.Fprintf(sb, "#%d\n", o.Vnum)
	fmt.Fprintf(sb, "%s~\n%s~\n%s~\n%s~\n",
		o.Name, o.ShortDescr, o.Description, o.Material)
	fmt.Fprintf(sb, "%s %s %s\n",
		ItemTypeName(o.ItemType), FormatBits(o.ExtraFlags), FormatBits(o.WearFlags))
	fmt.Fprintf(sb, "%d %d %d %d %d %d\n",
		o.Values[0], o.Values[1], o.Values[2], o.Values[3], o.Values[4], o.Level)
	fmt.Fprintf(sb, "%d %d %d\n", o.Weight, o.Cost, o.Condition)
	for _, a := range o.Affects {
		switch a.Where {
		case ToObject:
			fmt.Fprintf(sb, "A %d %d\n", a.Location, a.Modifier)
		case ToAffects:
			fmt.Fprintf(sb, "F A %d %d %s\n", a.Location, a.Modifier, FormatBits(a.Bitvector))
		case ToImmune:
			fmt.Fprintf(sb, "F I %d %d %s\n", a.Location, a.Modifier, FormatBits(a.Bitvector))
		case ToResist:
			fmt.Fprintf(sb, "F R %d %d %s\n", a.Location, a.Modifier, FormatBits(a.Bitvector))
		case ToVuln:
			fmt.Fprintf(sb, "F V %d %d %s\n", a.Location, a.Modifier, FormatBits(a.Bitvector))
		}
	}
	for _, e := range o.Extras {
		fmt.Fprintf(sb, "E %s~\n%s~\n", e.Keyword, e.Description)
	}
}

func saveRoom(sb *strings.Builder, r *RoomProto) {
	fmt.Fprintf(sb, "#%d\n", r.Vnum)
	fmt.Fprintf(sb, "%s~\n%s~\n", r.Name, r.Description)
	fmt.Fprintf(sb, "%s %d\n", FormatBits(r.Flags), r.Sector)
	// Exits keep their original file order even if an instance-level
	// randomize has been applied to live rooms.
	for orig := 0; orig < DirMax; orig++ {
		for _, ex := range r.Exits {
			if ex == nil || ex.OrigDir != orig {
				continue
			}
			locks := 0
			switch {
			case ex.Flags&ExIsDoor == 0:
				locks = 0
			case ex.Flags&ExPickproof != 0 && ex.Flags&ExNoPass != 0:
				locks = 4
			case ex.Flags&ExNoPass != 0:
				locks = 3
			case ex.Flags&ExPickproof != 0:
				locks = 2
			default:
				locks = 1
			}
			fmt.Fprintf(sb, "D%d\n%s~\n%s~\n%d %d %d\n",
				ex.Dir, ex.Description, ex.Keyword, locks, ex.Key, ex.ToVnum)
		}
	}
	for _, e := range r.Extras {
		fmt.Fprintf(sb, "E %s~\n%s~\n", e.Keyword, e.Description)
	}
	sb.WriteString("S\n")
}

// atomicWrite writes to <path>.tmp and renames over the target.
func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
