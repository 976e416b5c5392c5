package data

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// reader tokenizes the line-oriented area format. Errors are sticky:
// the first failure is recorded and every later call returns zero
// values, so section parsers stay linear.
type reader struct {
	buf  []byte
	pos  int
	line int
	err  error
}

func newReader(buf []byte) *reader {
	return &reader{buf: buf, line: 1}
}

func (r *reader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("line %d: %s", r.line, fmt.Sprintf(format, args...))
	}
}

func (r *reader) Err() error { return r.err }

func (r *reader) eof() bool { return r.pos >= len(r.buf) }

func (r *reader) skipSpace() {
	for r.pos < len(r.buf) {
		c := r.buf[r.pos]
		if c == '\n' {
			r.line++
		} else if c != ' ' && c != '\t' && c != '\r' {
			return
		}
		r.pos++
	}
}

// Letter returns the next non-space character.
func (r *reader) Letter() byte {
	if r.err != nil {
		return 0
	}
	r.skipSpace()
	if r.eof() {
		r.fail("unexpected end of file")
		return 0
	}
	c := r.buf[r.pos]
	r.pos++
	return c
}

// Word returns the next whitespace-delimited token. Quoted words keep
// embedded spaces.
func (r *reader) Word() string {
	if r.err != nil {
		return ""
	}
	r.skipSpace()
	if r.eof() {
		r.fail("unexpected end of file")
		return ""
	}
	end := byte(0)
	if r.buf[r.pos] == '\'' || r.buf[r.pos] == '"' {
		end = r.buf[r.pos]
		r.pos++
	}
	start := r.pos
	for r.pos < len(r.buf) {
		c := r.buf[r.pos]
		if end != 0 {
			if c == end {
				word := string(r.buf[start:r.pos])
				r.pos++
				return word
			}
		} else if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			break
		}
		if c == '\n' {
			r.line++
		}
		r.pos++
	}
	return string(r.buf[start:r.pos])
}

// Number reads a signed decimal integer.
func (r *reader) Number() int {
	w := r.Word()
	if r.err != nil {
		return 0
	}
	n, err := strconv.Atoi(w)
	if err != nil {
		r.fail("expected number, got %q", w)
		return 0
	}
	return n
}

// Flag reads a bitvector: plain decimal, a letter run (A=1, B=2, ...,
// a=2^26, ...), or either followed by |<more>.
func (r *reader) Flag() Bits {
	if r.err != nil {
		return 0
	}
	r.skipSpace()
	if r.eof() {
		r.fail("unexpected end of file")
		return 0
	}
	var out Bits
	negative := false
	c := r.buf[r.pos]
	if c == '-' {
		negative = true
		r.pos++
		if r.eof() {
			r.fail("dangling '-' in flags")
			return 0
		}
		c = r.buf[r.pos]
	}
	if c >= '0' && c <= '9' {
		for r.pos < len(r.buf) && r.buf[r.pos] >= '0' && r.buf[r.pos] <= '9' {
			out = out*10 + Bits(r.buf[r.pos]-'0')
			r.pos++
		}
	} else {
		for r.pos < len(r.buf) {
			c = r.buf[r.pos]
			if c >= 'A' && c <= 'Z' {
				out |= 1 << uint(c-'A')
			} else if c >= 'a' && c <= 'z' {
				out |= 1 << uint(26+c-'a')
			} else {
				break
			}
			r.pos++
		}
	}
	if negative {
		out = -out
	}
	if r.pos < len(r.buf) && r.buf[r.pos] == '|' {
		r.pos++
		out += r.Flag()
	}
	return out
}

// String reads a tilde-terminated string, skipping leading whitespace.
func (r *reader) String() string {
	if r.err != nil {
		return ""
	}
	r.skipSpace()
	start := r.pos
	for r.pos < len(r.buf) {
		c := r.buf[r.pos]
		if c == '~' {
			s := string(r.buf[start:r.pos])
			r.pos++
			return BootInternString(strings.ReplaceAll(s, "\r", ""))
		}
		if c == '\n' {
			r.line++
		}
		r.pos++
	}
	r.fail("unterminated string")
	return ""
}

// ToEOL discards the rest of the current line.
func (r *reader) ToEOL() {
	for r.pos < len(r.buf) {
		c := r.buf[r.pos]
		r.pos++
		if c == '\n' {
			r.line++
			return
		}
	}
}

// Loader reads area and loot files into a prototype registry.
type Loader struct {
	Reg *Registry
	log *zap.Logger
}

func NewLoader(reg *Registry, log *zap.Logger) *Loader {
	return &Loader{Reg: reg, log: log}
}

// LoadAreaList reads the area list file (one filename per line,
// terminated by "$") and loads every listed file from dir. The file
// extension selects the parser. After all areas load, loot tables are
// resolved; exits keep their destination vnums until an area instance
// links them.
func (l *Loader) LoadAreaList(dir, listName string) error {
	raw, err := os.ReadFile(filepath.Join(dir, listName))
	if err != nil {
		return fmt.Errorf("read area list: %w", err)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if name == "$" {
			break
		}
		path := filepath.Join(dir, name)
		if strings.HasSuffix(name, ".json") {
			if err := l.LoadJSONArea(path, name); err != nil {
				return fmt.Errorf("area %s: %w", name, err)
			}
		} else {
			if err := l.LoadArea(path, name); err != nil {
				return fmt.Errorf("area %s: %w", name, err)
			}
		}
	}
	l.Reg.Loot.ResolveAll(l.log)
	return nil
}

// LoadArea parses one area file in the section-delimited text format.
func (l *Loader) LoadArea(path, filename string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	r := newReader(raw)
	var area *AreaProto

	for r.Err() == nil {
		if c := r.Letter(); c != '#' {
			r.fail("expected '#' section marker, got %q", string(c))
			break
		}
		word := r.Word()
		if word == "$" {
			break
		}
		switch word {
		case "AREADATA":
			area = l.loadAreaData(r, filename)
			if area != nil {
				l.Reg.Areas = append(l.Reg.Areas, area)
			}
		case "MOBILES":
			l.loadMobiles(r, area)
		case "OBJECTS":
			l.loadObjects(r, area)
		case "ROOMS":
			l.loadRooms(r, area)
		case "RESETS":
			l.loadResets(r, area)
		case "SHOPS":
			l.loadShops(r)
		case "SPECIALS":
			l.loadSpecials(r)
		case "MOBPROGS":
			l.loadMobProgs(r, area)
		case "LOOT":
			l.loadLootSection(r)
		case "HELPS":
			l.loadHelps(r, filename)
		default:
			r.fail("unknown section #%s", word)
		}
		if area == nil && r.Err() == nil {
			r.fail("#%s before #AREADATA", word)
		}
	}
	if r.Err() != nil {
		return fmt.Errorf("%s: %w", filename, r.Err())
	}
	l.resolveProgs(area)
	return nil
}

func (l *Loader) loadAreaData(r *reader, filename string) *AreaProto {
	area := &AreaProto{Filename: filename, Instance: InstanceSingleton}
	for r.Err() == nil {
		word := r.Word()
		switch word {
		case "Name":
			area.Name = r.String()
		case "Builders":
			area.Builders = r.String()
		case "Credits":
			area.Credits = r.String()
		case "VNUMs":
			area.MinVnum = VNUM(r.Number())
			area.MaxVnum = VNUM(r.Number())
		case "Security":
			area.Security = r.Number()
		case "Reset":
			area.Reset = r.Number()
		case "Instance":
			switch w := r.Word(); w {
			case "singleton":
				area.Instance = InstanceSingleton
			case "perplayer":
				area.Instance = InstancePerPlayer
			default:
				r.fail("unknown instance policy %q", w)
			}
		case "End":
			return area
		default:
			r.fail("unknown #AREADATA key %q", word)
		}
	}
	return nil
}

func (l *Loader) loadMobiles(r *reader, area *AreaProto) {
	for r.Err() == nil {
		if c := r.Letter(); c != '#' {
			r.fail("expected '#' in #MOBILES, got %q", string(c))
			return
		}
		vnum := VNUM(r.Number())
		if vnum == 0 {
			return
		}
		p := &MobProto{Vnum: vnum, Area: area}
		p.Name = r.String()
		p.ShortDescr = r.String()
		p.LongDescr = r.String()
		p.Description = r.String()
		p.Race = r.String()
		p.ActFlags = r.Flag() | ActIsNPC
		p.AffFlags = r.Flag()
		p.Alignment = r.Number()
		p.Group = r.Number()
		p.Level = r.Number()
		p.Hitroll = r.Number()
		p.HitDice = l.readDice(r)
		p.ManaDice = l.readDice(r)
		p.DamDice = l.readDice(r)
		p.DamType = r.Word()
		p.Armor = r.Number()
		p.OffFlags = r.Flag()
		p.ImmFlags = r.Flag()
		p.ResFlags = r.Flag()
		p.VulnFlags = r.Flag()
		p.StartPos = PositionLookup(r.Word())
		p.DefaultPos = PositionLookup(r.Word())
		p.Sex = SexLookup(r.Word())
		p.Wealth = r.Number()
		p.Form = r.Flag()
		p.Parts = r.Flag()
		p.Size = r.Number()
		p.Material = r.Word()
		if p.StartPos < 0 || p.DefaultPos < 0 || p.Sex < 0 {
			r.fail("mob %d: bad position or sex word", vnum)
			return
		}

		// Optional trailing records until the next '#'.
	extras:
		for r.Err() == nil {
			r.skipSpace()
			if r.eof() {
				r.fail("unexpected end of #MOBILES")
				return
			}
			switch r.buf[r.pos] {
			case '#':
				break extras
			case 'L':
				r.pos++
				p.LootTable = r.String()
			case 'M':
				r.pos++
				trigName := r.Word()
				trig := FlagLookup(trigName, TrigNames)
				progVnum := VNUM(r.Number())
				phrase := r.String()
				if trig == 0 {
					l.bug("mob %d: unknown trigger %q", vnum, trigName)
					continue
				}
				p.Progs = append(p.Progs, &ProgTrigger{
					Type:   trig,
					Vnum:   progVnum,
					Phrase: phrase,
				})
				p.TrigFlags |= trig
			default:
				r.fail("mob %d: unexpected record %q", vnum, string(r.buf[r.pos]))
				return
			}
		}
		if err := l.Reg.AddMob(p); err != nil {
			r.fail("%v", err)
			return
		}
		if area != nil {
			area.Mobs = append(area.Mobs, p)
		}
	}
}

func (l *Loader) readDice(r *reader) Dice {
	w := r.Word()
	if r.Err() != nil {
		return Dice{}
	}
	d, err := ParseDice(w)
	if err != nil {
		r.fail("%v", err)
	}
	return d
}

func (l *Loader) loadObjects(r *reader, area *AreaProto) {
	for r.Err() == nil {
		if c := r.Letter(); c != '#' {
			r.fail("expected '#' in #OBJECTS, got %q", string(c))
			return
		}
		vnum := VNUM(r.Number())
		if vnum == 0 {
			return
		}
		p := &ObjProto{Vnum: vnum, Area: area}
		p.Name = r.String()
		p.ShortDescr = r.String()
		p.Description = r.String()
		p.Material = r.String()
		p.ItemType = ItemTypeLookup(r.Word())
		p.ExtraFlags = r.Flag()
		p.WearFlags = r.Flag()
		for i := 0; i < 5; i++ {
			p.Values[i] = int(r.Flag())
		}
		p.Level = r.Number()
		p.Weight = r.Number()
		p.Cost = r.Number()
		p.Condition = r.Number()
		if p.ItemType < 0 {
			r.fail("object %d: unknown item type", vnum)
			return
		}

	extras:
		for r.Err() == nil {
			r.skipSpace()
			if r.eof() {
				r.fail("unexpected end of #OBJECTS")
				return
			}
			switch r.buf[r.pos] {
			case '#':
				break extras
			case 'A':
				r.pos++
				p.Affects = append(p.Affects, &AffectData{
					Where:    ToObject,
					Location: r.Number(),
					Modifier: r.Number(),
				})
			case 'F':
				// Flag affect: F <where letter> <location> <modifier> <bits>
				r.pos++
				whereLetter := r.Word()
				ad := &AffectData{
					Location: r.Number(),
					Modifier: r.Number(),
				}
				ad.Bitvector = r.Flag()
				switch whereLetter {
				case "A":
					ad.Where = ToAffects
				case "I":
					ad.Where = ToImmune
				case "R":
					ad.Where = ToResist
				case "V":
					ad.Where = ToVuln
				default:
					l.bug("object %d: bad affect where %q", vnum, whereLetter)
					continue
				}
				p.Affects = append(p.Affects, ad)
			case 'E':
				r.pos++
				p.Extras = append(p.Extras, &ExtraDesc{
					Keyword:     r.String(),
					Description: r.String(),
				})
			default:
				r.fail("object %d: unexpected record %q", vnum, string(r.buf[r.pos]))
				return
			}
		}
		if err := l.Reg.AddObj(p); err != nil {
			r.fail("%v", err)
			return
		}
		if area != nil {
			area.Objs = append(area.Objs, p)
		}
	}
}

func (l *Loader) loadRooms(r *reader, area *AreaProto) {
	for r.Err() == nil {
		if c := r.Letter(); c != '#' {
			r.fail("expected '#' in #ROOMS, got %q", string(c))
			return
		}
		vnum := VNUM(r.Number())
		if vnum == 0 {
			return
		}
		p := &RoomProto{Vnum: vnum, Area: area}
		p.Name = r.String()
		p.Description = r.String()
		p.Flags = r.Flag()
		p.Sector = r.Number()

	records:
		for r.Err() == nil {
			switch c := r.Letter(); c {
			case 'D':
				dir := r.Number()
				if dir < 0 || dir >= DirMax {
					r.fail("room %d: bad exit direction %d", vnum, dir)
					return
				}
				ex := &ExitProto{Dir: dir, OrigDir: dir}
				ex.Description = r.String()
				ex.Keyword = r.String()
				locks := r.Number()
				ex.Key = VNUM(r.Number())
				ex.ToVnum = VNUM(r.Number())
				switch locks {
				case 0:
				case 1:
					ex.Flags = ExIsDoor
				case 2:
					ex.Flags = ExIsDoor | ExPickproof
				case 3:
					ex.Flags = ExIsDoor | ExNoPass
				case 4:
					ex.Flags = ExIsDoor | ExPickproof | ExNoPass
				default:
					l.bug("room %d: bad lock state %d", vnum, locks)
					ex.Flags = ExIsDoor
				}
				p.Exits[dir] = ex
			case 'E':
				p.Extras = append(p.Extras, &ExtraDesc{
					Keyword:     r.String(),
					Description: r.String(),
				})
			case 'S':
				break records
			default:
				r.fail("room %d: unexpected record %q", vnum, string(c))
				return
			}
		}
		if err := l.Reg.AddRoom(p); err != nil {
			r.fail("%v", err)
			return
		}
		if area != nil {
			area.Rooms = append(area.Rooms, p)
		}
	}
}

// loadResets attaches each reset to its anchor room: M, O, D and R name
// a room directly; G, E and P follow the room of the preceding M or O.
func (l *Loader) loadResets(r *reader, area *AreaProto) {
	var lastRoom *RoomProto
	for r.Err() == nil {
		c := r.Letter()
		if c == 'S' {
			return
		}
		reset := &Reset{Cmd: c}
		reset.Arg1 = r.Number()
		reset.Arg2 = r.Number()
		reset.Arg3 = r.Number()
		reset.Arg4 = r.Number()
		if r.Err() != nil {
			return
		}

		var room *RoomProto
		switch c {
		case 'M', 'O':
			room = l.Reg.Room(VNUM(reset.Arg3))
		case 'D', 'R':
			room = l.Reg.Room(VNUM(reset.Arg2))
			if c == 'R' {
				room = l.Reg.Room(VNUM(reset.Arg1))
			}
		case 'G', 'E', 'P':
			room = lastRoom
		default:
			r.fail("bad reset command %q", string(c))
			return
		}
		if room == nil {
			l.bug("reset %c references unknown room", c)
			continue
		}
		room.Resets = append(room.Resets, reset)
		if c == 'M' || c == 'O' {
			lastRoom = room
		}
	}
}

func (l *Loader) loadShops(r *reader) {
	for r.Err() == nil {
		keeper := VNUM(r.Number())
		if keeper == 0 {
			return
		}
		shop := &Shop{Keeper: keeper}
		for i := 0; i < 5; i++ {
			shop.BuyTypes[i] = r.Number()
		}
		shop.ProfitBuy = r.Number()
		shop.ProfitSell = r.Number()
		shop.OpenHour = r.Number()
		shop.CloseHour = r.Number()
		if mob := l.Reg.Mob(keeper); mob != nil {
			mob.Shop = shop
		} else {
			l.bug("shop for unknown mob %d", keeper)
		}
	}
}

func (l *Loader) loadSpecials(r *reader) {
	for r.Err() == nil {
		switch c := r.Letter(); c {
		case 'S':
			return
		case '*':
			r.ToEOL()
		case 'M':
			vnum := VNUM(r.Number())
			spec := r.Word()
			if mob := l.Reg.Mob(vnum); mob != nil {
				mob.SpecFun = spec
			} else {
				l.bug("special for unknown mob %d", vnum)
			}
			r.ToEOL()
		default:
			r.fail("bad #SPECIALS record %q", string(c))
			return
		}
	}
}

func (l *Loader) loadMobProgs(r *reader, area *AreaProto) {
	for r.Err() == nil {
		if c := r.Letter(); c != '#' {
			r.fail("expected '#' in #MOBPROGS, got %q", string(c))
			return
		}
		vnum := VNUM(r.Number())
		if vnum == 0 {
			return
		}
		code := &ProgCode{Vnum: vnum, Code: r.String()}
		if err := l.Reg.AddProg(code); err != nil {
			r.fail("%v", err)
			return
		}
		if area != nil {
			area.Progs = append(area.Progs, code)
		}
	}
}

func (l *Loader) loadLootSection(r *reader) {
	// The loot grammar is shared with the standalone loot file; hand it
	// the section body up to #ENDLOOT.
	start := r.pos
	idx := strings.Index(string(r.buf[r.pos:]), "#ENDLOOT")
	if idx < 0 {
		r.fail("unterminated #LOOT section")
		return
	}
	body := string(r.buf[start : start+idx])
	r.line += strings.Count(body, "\n")
	r.pos = start + idx + len("#ENDLOOT")
	if err := l.Reg.Loot.ParseSection(body, l.log); err != nil {
		r.fail("%v", err)
	}
}

func (l *Loader) loadHelps(r *reader, filename string) {
	for r.Err() == nil {
		level := r.Number()
		keyword := r.String()
		if keyword == "$" {
			return
		}
		text := r.String()
		l.Reg.Helps.Add(&Help{Level: level, Keyword: keyword, Text: text, File: filename})
	}
}

// resolveProgs links each mob's trigger list to loaded program code.
func (l *Loader) resolveProgs(area *AreaProto) {
	if area == nil {
		return
	}
	for _, mob := range area.Mobs {
		for _, trig := range mob.Progs {
			trig.Code = l.Reg.Prog(trig.Vnum)
			if trig.Code == nil {
				l.bug("mob %d: trigger references unknown prog %d", mob.Vnum, trig.Vnum)
			}
		}
	}
}

// LoadLootFile loads the standalone global loot file.
func (l *Loader) LoadLootFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read loot file: %w", err)
	}
	body := string(raw)
	if idx := strings.Index(body, "#ENDLOOT"); idx >= 0 {
		body = body[:idx]
	}
	if err := l.Reg.Loot.ParseSection(body, l.log); err != nil {
		return err
	}
	l.Reg.Loot.ResolveAll(l.log)
	return nil
}

// RescanHelps drops the help tree and rebuilds it from every listed
// area file's #HELPS section, swapping the fresh table in atomically.
// JSON areas carry no helps and are skipped. Returns the number of
// files scanned.
func (l *Loader) RescanHelps(dir, listName string) (int, error) {
	raw, err := os.ReadFile(filepath.Join(dir, listName))
	if err != nil {
		return 0, fmt.Errorf("read area list: %w", err)
	}
	fresh := NewHelpTable()
	scanned := 0
	for _, line := range strings.Split(string(raw), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		if name == "$" {
			break
		}
		if strings.HasSuffix(name, ".json") {
			continue
		}
		body, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			l.bug("reload helps: cannot open %s", name)
			continue
		}
		scanned++
		r := newReader(body)
		for r.Err() == nil && !r.eof() {
			if c := r.Letter(); c != '#' {
				r.ToEOL()
				continue
			}
			word := r.Word()
			if word == "$" {
				break
			}
			if word != "HELPS" {
				continue
			}
			for r.Err() == nil {
				level := r.Number()
				keyword := r.String()
				if keyword == "$" {
					break
				}
				fresh.Add(&Help{Level: level, Keyword: keyword, Text: r.String(), File: name})
			}
		}
	}
	l.Reg.Helps = fresh
	return scanned, nil
}

func (l *Loader) bug(format string, args ...any) {
	if l.log != nil {
		l.log.Warn("bug: " + fmt.Sprintf(format, args...))
	}
}
