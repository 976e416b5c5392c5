// Package persist owns the on-disk player records and note boards,
// both line-oriented text files. Player records are written through a
// temp file and an atomic rename, so readers only ever observe
// fully-written files; note boards are append-only.
package persist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thornvale/server/internal/data"
	"github.com/thornvale/server/internal/world"
	"go.uber.org/zap"
)

// PlayerRepo stores one file per character under
// <dir>/<first letter>/<Name>.
type PlayerRepo struct {
	dir string
	log *zap.Logger
}

func NewPlayerRepo(dir string, log *zap.Logger) *PlayerRepo {
	return &PlayerRepo{dir: dir, log: log}
}

func (r *PlayerRepo) path(name string) string {
	letter := strings.ToLower(name[:1])
	return filepath.Join(r.dir, letter, world.Capitalize(strings.ToLower(name)))
}

// Exists reports whether a character file is on disk.
func (r *PlayerRepo) Exists(name string) bool {
	if name == "" {
		return false
	}
	_, err := os.Stat(r.path(name))
	return err == nil
}

// Save writes a character record. Temp-then-rename keeps the old file
// intact on failure.
func (r *PlayerRepo) Save(ch *world.Mobile) error {
	if ch.Pc == nil {
		return fmt.Errorf("save: %s is not a player", ch.Name)
	}
	var sb strings.Builder
	sb.WriteString("#PLAYER\n")
	fmt.Fprintf(&sb, "Name %s~\n", ch.Name)
	fmt.Fprintf(&sb, "Pwd %s~\n", ch.Pc.PwdHash)
	fmt.Fprintf(&sb, "Level %d\n", ch.Level)
	fmt.Fprintf(&sb, "Trust %d\n", ch.Trust)
	fmt.Fprintf(&sb, "Race %s~\n", ch.Race)
	fmt.Fprintf(&sb, "Class %s~\n", ch.Class)
	fmt.Fprintf(&sb, "Sex %d\n", ch.Sex)
	fmt.Fprintf(&sb, "Align %d\n", ch.Alignment)
	room := data.VNUM(0)
	if ch.Room != nil && ch.Room.Area.Owner == "" {
		room = ch.Room.Vnum()
	}
	fmt.Fprintf(&sb, "Room %d\n", room)
	fmt.Fprintf(&sb, "HMV %d %d %d %d %d %d\n",
		ch.Hit, ch.MaxHit, ch.Mana, ch.MaxMana, ch.Move, ch.MaxMove)
	fmt.Fprintf(&sb, "Coins %d %d\n", ch.Gold, ch.Silver)
	fmt.Fprintf(&sb, "Stats %d %d %d %d %d\n",
		ch.Stats[0], ch.Stats[1], ch.Stats[2], ch.Stats[3], ch.Stats[4])
	fmt.Fprintf(&sb, "AHD %d %d %d %d\n", ch.Armor, ch.Hitroll, ch.Damroll, ch.Saves)
	fmt.Fprintf(&sb, "Act %s\n", data.FormatBits(ch.ActFlags))
	fmt.Fprintf(&sb, "Aff %s\n", data.FormatBits(ch.AffFlags))
	fmt.Fprintf(&sb, "Wiznet %s\n", data.FormatBits(ch.Pc.Wiznet))
	fmt.Fprintf(&sb, "Wimpy %d\n", ch.Wimpy)
	fmt.Fprintf(&sb, "Title %s~\n", ch.Pc.Title)
	fmt.Fprintf(&sb, "Prompt %s~\n", ch.Pc.Prompt)
	for skill, pct := range ch.Pc.Learned {
		fmt.Fprintf(&sb, "Skill %d '%s'~\n", pct, skill)
	}
	for vnum, state := range ch.Pc.Quests {
		fmt.Fprintf(&sb, "Quest %d %d\n", vnum, state)
	}
	for board, stamp := range ch.Pc.LastNote {
		fmt.Fprintf(&sb, "Board %s %d\n", board, stamp)
	}
	for _, af := range ch.Affects {
		fmt.Fprintf(&sb, "Affect '%s' %d %d %d %d %d %s\n",
			af.Skill, af.Where, af.Level, af.Duration,
			af.Location, af.Modifier, data.FormatBits(af.Bitvector))
	}

	sb.WriteString("#OBJECTS\n")
	saveObjects(&sb, ch.Carrying, 0)
	sb.WriteString("#END\n")

	path := r.path(ch.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// saveObjects writes the carried list depth-first; nest records the
// container depth so Load can rebuild the tree.
func saveObjects(sb *strings.Builder, objs []*world.Object, nest int) {
	for _, obj := range objs {
		fmt.Fprintf(sb, "Obj %d %d %d %d\n", obj.Proto.Vnum, nest, obj.WearLoc, obj.Timer)
		if len(obj.Contains) > 0 {
			saveObjects(sb, obj.Contains, nest+1)
		}
	}
}

// Load reads a character record and rebuilds the mobile and its
// inventory. The character is added to the world's lists but not yet
// placed in a room; the returned vnum carries the saved location.
func (r *PlayerRepo) Load(w *world.World, name string) (*world.Mobile, data.VNUM, error) {
	raw, err := os.ReadFile(r.path(name))
	if err != nil {
		return nil, 0, err
	}

	ch := &world.Mobile{
		ID:       w.NextID(),
		Pc:       NewPcData(),
		Position: data.PosStanding,
		Level:    1,
		MaxHit:   20, Hit: 20,
		MaxMana: 100, Mana: 100,
		MaxMove: 100, Move: 100,
	}
	roomVnum := data.VNUM(0)
	var nestStack []*world.Object

	lines := strings.Split(string(raw), "\n")
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		key, rest := splitField(line)
		switch key {
		case "Name":
			ch.Name = tilde(rest)
		case "Pwd":
			ch.Pc.PwdHash = tilde(rest)
		case "Level":
			ch.Level = atoi(rest)
		case "Trust":
			ch.Trust = atoi(rest)
		case "Race":
			ch.Race = tilde(rest)
		case "Class":
			ch.Class = tilde(rest)
		case "Sex":
			ch.Sex = atoi(rest)
		case "Align":
			ch.Alignment = atoi(rest)
		case "Room":
			roomVnum = data.VNUM(atoi(rest))
		case "HMV":
			n := numbers(rest, 6)
			ch.Hit, ch.MaxHit = n[0], n[1]
			ch.Mana, ch.MaxMana = n[2], n[3]
			ch.Move, ch.MaxMove = n[4], n[5]
		case "Coins":
			n := numbers(rest, 2)
			ch.Gold, ch.Silver = n[0], n[1]
		case "Stats":
			n := numbers(rest, 5)
			copy(ch.Stats[:], n)
		case "AHD":
			n := numbers(rest, 4)
			ch.Armor, ch.Hitroll, ch.Damroll, ch.Saves = n[0], n[1], n[2], n[3]
		case "Act":
			ch.ActFlags = parseBits(rest)
		case "Aff":
			ch.AffFlags = parseBits(rest)
		case "Wiznet":
			ch.Pc.Wiznet = parseBits(rest)
		case "Wimpy":
			ch.Wimpy = atoi(rest)
		case "Title":
			ch.Pc.Title = tilde(rest)
		case "Prompt":
			ch.Pc.Prompt = tilde(rest)
		case "Skill":
			pctStr, skillPart := splitField(rest)
			skill := strings.Trim(tilde(skillPart), "'")
			ch.Pc.Learned[skill] = atoi(pctStr)
		case "Quest":
			n := numbers(rest, 2)
			ch.Pc.Quests[data.VNUM(n[0])] = n[1]
		case "Board":
			board, stampStr := splitField(rest)
			stamp, _ := strconv.ParseInt(strings.TrimSpace(stampStr), 10, 64)
			ch.Pc.LastNote[board] = stamp
		case "Affect":
			loadAffect(ch, rest)
		case "Obj":
			n := numbers(rest, 4)
			nestStack = loadObject(w, ch, nestStack, data.VNUM(n[0]), n[1], n[2], n[3])
		}
	}
	if ch.Name == "" {
		return nil, 0, fmt.Errorf("player file for %s has no name", name)
	}

	// Worn gear keeps its saved slot; the saved stat lines already
	// include the equipment contributions, so the equip primitive is
	// not re-run here. Duplicate slots drop back to inventory.
	seen := make(map[int]bool)
	for _, obj := range ch.Carrying {
		if obj.WearLoc == data.WearNone {
			continue
		}
		if seen[obj.WearLoc] {
			obj.WearLoc = data.WearNone
			continue
		}
		seen[obj.WearLoc] = true
	}

	w.CharList = append(w.CharList, ch)
	return ch, roomVnum, nil
}

// NewPcData builds an initialized player record.
func NewPcData() *world.PcData {
	return &world.PcData{
		Learned:  make(map[string]int),
		LastNote: make(map[string]int64),
		Quests:   make(map[data.VNUM]int),
	}
}

func loadAffect(ch *world.Mobile, rest string) {
	// 'skill' where level duration location modifier bits
	rest = strings.TrimSpace(rest)
	if len(rest) < 2 || rest[0] != '\'' {
		return
	}
	end := strings.IndexByte(rest[1:], '\'')
	if end < 0 {
		return
	}
	skill := rest[1 : 1+end]
	n := numbers(rest[end+2:], 5)
	fields := strings.Fields(rest[end+2:])
	bits := data.Bits(0)
	if len(fields) >= 6 {
		bits = parseBits(fields[5])
	}
	ch.Affects = append(ch.Affects, &world.Affect{
		Skill:     skill,
		Where:     n[0],
		Level:     n[1],
		Duration:  n[2],
		Location:  n[3],
		Modifier:  n[4],
		Bitvector: bits,
	})
}

func loadObject(w *world.World, ch *world.Mobile, stack []*world.Object,
	vnum data.VNUM, nest, wearLoc, timer int) []*world.Object {

	proto := w.Reg.Obj(vnum)
	if proto == nil {
		w.Bug("player load: unknown object %d", vnum)
		return stack
	}
	obj := w.CreateObj(proto)
	obj.Timer = timer

	if nest == 0 || len(stack) == 0 {
		w.ObjToMob(obj, ch)
		obj.WearLoc = wearLoc // saved slot kept; Load clears duplicates
		return []*world.Object{obj}
	}
	if nest > len(stack) {
		nest = len(stack)
	}
	w.ObjToObj(obj, stack[nest-1])
	return append(stack[:nest], obj)
}

func splitField(line string) (string, string) {
	line = strings.TrimSpace(line)
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

func tilde(s string) string {
	return strings.TrimSuffix(strings.TrimRight(s, " "), "~")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(strings.Fields(s + " 0")[0]))
	return n
}

func numbers(s string, count int) []int {
	out := make([]int, count)
	for i, f := range strings.Fields(s) {
		if i >= count {
			break
		}
		out[i], _ = strconv.Atoi(f)
	}
	return out
}

func parseBits(s string) data.Bits {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return data.Bits(n)
	}
	var out data.Bits
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			out |= 1 << uint(c-'A')
		case c >= 'a' && c <= 'z':
			out |= 1 << uint(26+c-'a')
		}
	}
	return out
}
