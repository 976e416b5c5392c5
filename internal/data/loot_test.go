package data

import (
	"math/rand"
	"testing"
)

func mustParseLoot(t *testing.T, body string) *LootDB {
	t.Helper()
	db := NewLootDB()
	if err := db.ParseSection(body, nil); err != nil {
		t.Fatalf("parse loot: %v", err)
	}
	db.ResolveAll(nil)
	return db
}

func TestLootResolutionPrependsParent(t *testing.T) {
	db := mustParseLoot(t, `
group base_g 1
cp 1 10 weight 1
table base
use_group base_g 100
table child parent base
add_cp 100 5 5
`)
	child := db.FindTable("child")
	if child == nil {
		t.Fatal("child table missing")
	}
	if len(child.Resolved) != 2 {
		t.Fatalf("resolved ops = %d, want 2", len(child.Resolved))
	}
	if child.Resolved[0].Type != LootOpUseGroup || child.Resolved[1].Type != LootOpAddCP {
		t.Errorf("parent ops must come first: %+v", child.Resolved)
	}
}

func TestLootCycleDetected(t *testing.T) {
	db := mustParseLoot(t, `
table a parent b
add_cp 100 1 1
table b parent a
add_cp 100 2 2
`)
	// The cycle is broken, not fatal: each table still resolves its own
	// operations.
	a := db.FindTable("a")
	if a == nil || len(a.Resolved) == 0 {
		t.Fatal("cycle broke resolution entirely")
	}
}

func TestGenerateMergeAndBalance(t *testing.T) {
	db := mustParseLoot(t, `
group g1 1
item 100 1 1 weight 1
cp 10 10 weight 1
table t1
use_group g1 100
`)
	rng := rand.New(rand.NewSource(42))
	items, cps := 0, 0
	for i := 0; i < 10000; i++ {
		drops := db.Generate("t1", rng, nil)
		if len(drops) > 2 {
			t.Fatalf("single invocation produced %d distinct drops", len(drops))
		}
		for _, drop := range drops {
			if drop.Type == LootItem {
				items++
			} else {
				cps++
			}
		}
	}
	total := items + cps
	if total != 10000 {
		t.Fatalf("expected one drop per roll, got %d", total)
	}
	// A fair coin over 10k trials stays well inside 46%..54%.
	if items < 4600 || items > 5400 {
		t.Errorf("weighted split off: %d items vs %d cp", items, cps)
	}
}

func TestGenerateDropCap(t *testing.T) {
	// 200 distinct items with 200 rolls guarantees far more candidates
	// than the cap of distinct drops.
	db := NewLootDB()
	group := &LootGroup{Name: "big", Rolls: 200}
	for v := 1; v <= 200; v++ {
		group.Entries = append(group.Entries, LootEntry{
			Type: LootItem, ItemVnum: VNUM(v), MinQty: 1, MaxQty: 1, Weight: 1,
		})
	}
	db.groups = append(db.groups, group)
	db.tables = append(db.tables, &LootTable{
		Name: "t",
		Ops:  []LootOp{{Type: LootOpUseGroup, GroupName: "big", A: 100}},
	})
	db.ResolveAll(nil)

	rng := rand.New(rand.NewSource(7))
	drops := db.Generate("t", rng, nil)
	if len(drops) > MaxLootDrops {
		t.Errorf("drop cap exceeded: %d", len(drops))
	}
}

func TestGenerateModifiersAndRemoves(t *testing.T) {
	db := mustParseLoot(t, `
group gold_g 1
cp 100 100 weight 1
table t
mul_cp 50
use_group gold_g 100
remove_item 555
add_item 555 100 1 1
`)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		drops := db.Generate("t", rng, nil)
		for _, drop := range drops {
			if drop.Type == LootItem && drop.ItemVnum == 555 {
				t.Fatal("removed item still dropped")
			}
			if drop.Type == LootCP && drop.Qty != 50 {
				t.Errorf("mul_cp not applied: got %d", drop.Qty)
			}
		}
	}
}

func TestGenerateUnknownTable(t *testing.T) {
	db := NewLootDB()
	if drops := db.Generate("nope", rand.New(rand.NewSource(1)), nil); drops != nil {
		t.Errorf("unknown table should yield nothing, got %v", drops)
	}
}
