package data

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Loot entry kinds.
const (
	LootItem = 0
	LootCP   = 1
)

// Loot table operations.
const (
	LootOpUseGroup = iota
	LootOpAddItem
	LootOpAddCP
	LootOpMulCP
	LootOpMulAllChances
	LootOpRemoveItem
	LootOpRemoveGroup
)

// MaxLootDrops caps the distinct drops one kill can produce.
const MaxLootDrops = 64

// LootEntry is one weighted choice inside a group: either an item vnum
// with a quantity band, or a copper-piece band.
type LootEntry struct {
	Type     int
	ItemVnum VNUM
	MinQty   int
	MaxQty   int
	Weight   int
}

// LootGroup is a weighted-sample pool rolled a fixed number of times.
type LootGroup struct {
	Name    string
	Rolls   int
	Entries []LootEntry
}

// LootOp is one operation of a table's script.
type LootOp struct {
	Type       int
	GroupName  string
	A, B, C, D int
}

// Tri-color visit marks for cycle detection during resolution.
const (
	visitWhite = 0
	visitGray  = 1
	visitBlack = 2
)

// LootTable is an ordered operation list, optionally inheriting from a
// parent whose resolved operations are prepended.
type LootTable struct {
	Name       string
	ParentName string
	Ops        []LootOp
	Resolved   []LootOp
	visit      int
}

// LootDrop is one merged output of a generation run.
type LootDrop struct {
	Type     int
	ItemVnum VNUM
	Qty      int
}

// LootDB holds every group and table, built at boot and static after
// resolution.
type LootDB struct {
	groups []*LootGroup
	tables []*LootTable
}

func NewLootDB() *LootDB {
	return &LootDB{}
}

func (db *LootDB) FindGroup(name string) *LootGroup {
	for _, g := range db.groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (db *LootDB) FindTable(name string) *LootTable {
	for _, t := range db.tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (db *LootDB) GroupCount() int { return len(db.groups) }
func (db *LootDB) TableCount() int { return len(db.tables) }

// ParseSection parses the loot grammar: "group NAME ROLLS" blocks with
// "item VNUM MIN MAX weight W" / "cp MIN MAX weight W" lines, and
// "table NAME [parent PARENT]" blocks with operation lines.
func (db *LootDB) ParseSection(body string, log *zap.Logger) error {
	toks := strings.Fields(body)
	pos := 0
	next := func() (string, bool) {
		if pos >= len(toks) {
			return "", false
		}
		t := toks[pos]
		pos++
		return t, true
	}
	peek := func() (string, bool) {
		if pos >= len(toks) {
			return "", false
		}
		return toks[pos], true
	}
	num := func(what string) (int, error) {
		t, ok := next()
		if !ok {
			return 0, fmt.Errorf("loot: expected integer for %s", what)
		}
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, fmt.Errorf("loot: expected integer for %s, got %q", what, t)
		}
		return n, nil
	}

	for {
		tok, ok := next()
		if !ok {
			return nil
		}
		switch tok {
		case "group":
			name, ok := next()
			if !ok {
				return fmt.Errorf("loot: expected group name")
			}
			rolls, err := num("group rolls")
			if err != nil {
				return err
			}
			group := db.FindGroup(name)
			if group == nil {
				group = &LootGroup{Name: name, Rolls: rolls}
				db.groups = append(db.groups, group)
			}
		entries:
			for {
				kind, ok := peek()
				if !ok {
					break
				}
				switch kind {
				case "item":
					next()
					vnum, err1 := num("vnum")
					mn, err2 := num("min")
					mx, err3 := num("max")
					if w, _ := next(); w != "weight" {
						return fmt.Errorf("loot: expected 'weight' in group %s", name)
					}
					wt, err4 := num("weight")
					for _, err := range []error{err1, err2, err3, err4} {
						if err != nil {
							return err
						}
					}
					group.Entries = append(group.Entries, LootEntry{
						Type: LootItem, ItemVnum: VNUM(vnum),
						MinQty: mn, MaxQty: mx, Weight: wt,
					})
				case "cp":
					next()
					mn, err1 := num("cp min")
					mx, err2 := num("cp max")
					if w, _ := next(); w != "weight" {
						return fmt.Errorf("loot: expected 'weight' in group %s", name)
					}
					wt, err3 := num("weight")
					for _, err := range []error{err1, err2, err3} {
						if err != nil {
							return err
						}
					}
					group.Entries = append(group.Entries, LootEntry{
						Type: LootCP, MinQty: mn, MaxQty: mx, Weight: wt,
					})
				default:
					break entries
				}
			}
		case "table":
			name, ok := next()
			if !ok {
				return fmt.Errorf("loot: expected table name")
			}
			table := db.FindTable(name)
			if table == nil {
				table = &LootTable{Name: name}
				db.tables = append(db.tables, table)
			}
			if p, ok := peek(); ok && p == "parent" {
				next()
				parent, ok := next()
				if !ok {
					return fmt.Errorf("loot: expected parent name for table %s", name)
				}
				table.ParentName = parent
			}
		ops:
			for {
				kind, ok := peek()
				if !ok {
					break
				}
				var op LootOp
				switch kind {
				case "use_group":
					next()
					gname, ok := next()
					if !ok {
						return fmt.Errorf("loot: expected group for use_group")
					}
					chance, err := num("use_group chance")
					if err != nil {
						return err
					}
					op = LootOp{Type: LootOpUseGroup, GroupName: gname, A: chance}
				case "add_item":
					next()
					v, e1 := num("vnum")
					chance, e2 := num("chance")
					mn, e3 := num("min")
					mx, e4 := num("max")
					for _, err := range []error{e1, e2, e3, e4} {
						if err != nil {
							return err
						}
					}
					op = LootOp{Type: LootOpAddItem, A: v, B: chance, C: mn, D: mx}
				case "add_cp":
					next()
					chance, e1 := num("chance")
					mn, e2 := num("min")
					mx, e3 := num("max")
					for _, err := range []error{e1, e2, e3} {
						if err != nil {
							return err
						}
					}
					op = LootOp{Type: LootOpAddCP, A: chance, C: mn, D: mx}
				case "mul_cp":
					next()
					pct, err := num("percent")
					if err != nil {
						return err
					}
					op = LootOp{Type: LootOpMulCP, A: pct}
				case "mul_all_chances":
					next()
					pct, err := num("percent")
					if err != nil {
						return err
					}
					op = LootOp{Type: LootOpMulAllChances, A: pct}
				case "remove_item":
					next()
					v, err := num("vnum")
					if err != nil {
						return err
					}
					op = LootOp{Type: LootOpRemoveItem, A: v}
				case "remove_group":
					next()
					gname, ok := next()
					if !ok {
						return fmt.Errorf("loot: expected group for remove_group")
					}
					op = LootOp{Type: LootOpRemoveGroup, GroupName: gname}
				default:
					break ops
				}
				table.Ops = append(table.Ops, op)
			}
		default:
			return fmt.Errorf("loot: unexpected token %q", tok)
		}
	}
}

// ResolveAll computes every table's resolved operation list: the
// parent's resolved ops first, then the table's own. Inheritance cycles
// are detected by tri-color marks, logged, and broken (not fatal).
func (db *LootDB) ResolveAll(log *zap.Logger) {
	for _, t := range db.tables {
		t.visit = visitWhite
	}
	for _, t := range db.tables {
		db.resolve(t, log)
	}
}

func (db *LootDB) resolve(t *LootTable, log *zap.Logger) {
	switch t.visit {
	case visitGray:
		if log != nil {
			log.Warn("bug: cycle in loot table inheritance", zap.String("table", t.Name))
		}
		return
	case visitBlack:
		return
	}
	t.visit = visitGray

	var resolved []LootOp
	if t.ParentName != "" {
		parent := db.FindTable(t.ParentName)
		if parent == nil {
			if log != nil {
				log.Warn("bug: loot table has unknown parent",
					zap.String("table", t.Name), zap.String("parent", t.ParentName))
			}
		} else {
			db.resolve(parent, log)
			resolved = append(resolved, parent.Resolved...)
		}
	}
	resolved = append(resolved, t.Ops...)
	t.Resolved = resolved
	t.visit = visitBlack
}

func weightedPick(entries []LootEntry, rng *rand.Rand) int {
	total := 0
	for _, e := range entries {
		if e.Weight > 0 {
			total += e.Weight
		}
	}
	if total <= 0 {
		return -1
	}
	r := 1 + rng.Intn(total)
	cum := 0
	for i, e := range entries {
		if e.Weight <= 0 {
			continue
		}
		cum += e.Weight
		if r <= cum {
			return i
		}
	}
	return -1
}

func addDrop(drops []LootDrop, typ int, vnum VNUM, qty int, log *zap.Logger) []LootDrop {
	if qty <= 0 {
		return drops
	}
	for i := range drops {
		if drops[i].Type == typ && drops[i].ItemVnum == vnum {
			drops[i].Qty += qty
			return drops
		}
	}
	if len(drops) >= MaxLootDrops {
		if log != nil {
			log.Warn("bug: loot drop cap exceeded", zap.Int("cap", MaxLootDrops))
		}
		return drops
	}
	return append(drops, LootDrop{Type: typ, ItemVnum: vnum, Qty: qty})
}

func rngRange(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// Generate walks a resolved table's operations and produces merged
// drops. Roll-time modifiers compose multiplicatively; remove ops
// populate skip lists consulted by later ops.
func (db *LootDB) Generate(tableName string, rng *rand.Rand, log *zap.Logger) []LootDrop {
	table := db.FindTable(tableName)
	if table == nil {
		if log != nil {
			log.Warn("bug: unknown loot table", zap.String("table", tableName))
		}
		return nil
	}

	cpMul := 100
	chanceMul := 100
	var removedGroups []string
	var removedItems []VNUM
	var drops []LootDrop

	removedGroup := func(name string) bool {
		for _, g := range removedGroups {
			if g == name {
				return true
			}
		}
		return false
	}
	removedItem := func(v VNUM) bool {
		for _, i := range removedItems {
			if i == v {
				return true
			}
		}
		return false
	}

	for _, op := range table.Resolved {
		switch op.Type {
		case LootOpMulCP:
			if op.A > 0 {
				cpMul = cpMul * op.A / 100
			}
		case LootOpMulAllChances:
			if op.A > 0 {
				chanceMul = chanceMul * op.A / 100
			}
		case LootOpRemoveGroup:
			removedGroups = append(removedGroups, op.GroupName)
		case LootOpRemoveItem:
			removedItems = append(removedItems, VNUM(op.A))
		case LootOpUseGroup:
			if removedGroup(op.GroupName) {
				break
			}
			if rngRange(rng, 1, 100) > op.A*chanceMul/100 {
				break
			}
			group := db.FindGroup(op.GroupName)
			if group == nil {
				if log != nil {
					log.Warn("bug: unknown loot group",
						zap.String("group", op.GroupName), zap.String("table", table.Name))
				}
				break
			}
			for r := 0; r < group.Rolls; r++ {
				idx := weightedPick(group.Entries, rng)
				if idx < 0 {
					continue
				}
				e := group.Entries[idx]
				switch e.Type {
				case LootItem:
					if removedItem(e.ItemVnum) {
						continue
					}
					drops = addDrop(drops, LootItem, e.ItemVnum,
						rngRange(rng, e.MinQty, e.MaxQty), log)
				case LootCP:
					qty := rngRange(rng, e.MinQty, e.MaxQty) * cpMul / 100
					drops = addDrop(drops, LootCP, 0, qty, log)
				}
			}
		case LootOpAddItem:
			if removedItem(VNUM(op.A)) {
				break
			}
			if rngRange(rng, 1, 100) > op.B*chanceMul/100 {
				break
			}
			drops = addDrop(drops, LootItem, VNUM(op.A), rngRange(rng, op.C, op.D), log)
		case LootOpAddCP:
			if rngRange(rng, 1, 100) > op.A*chanceMul/100 {
				break
			}
			cp := rngRange(rng, op.C, op.D) * cpMul / 100
			drops = addDrop(drops, LootCP, 0, cp, log)
		}
	}
	return drops
}
