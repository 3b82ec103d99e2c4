package store

import (
	"context"
	"testing"

	"github.com/erazemk/exotics/internal/db"
	"github.com/erazemk/exotics/internal/model"
)

func TestUpsertAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	item := &model.Item{UUID: "u-1", Name: "Wise Dragon Helmet", Color: "#1A2B3C", Rarity: "LEGENDARY", Price: 12.5}
	if err := UpsertItem(ctx, database, item, `{"owner_playerUuid":"ABC","reforge":"ancient"}`); err != nil {
		t.Fatalf("UpsertItem: %v", err)
	}

	got, err := GetByUUID(ctx, database, "u-1")
	if err != nil {
		t.Fatalf("GetByUUID: %v", err)
	}
	if got == nil {
		t.Fatal("expected item, got nil")
	}
	if got.Name != "Wise Dragon Helmet" || got.Color != "#1A2B3C" {
		t.Errorf("unexpected item: %+v", got)
	}
	if got.Extra.OwnerUUID != "ABC" {
		t.Errorf("expected owner 'ABC' from extra, got %q", got.Extra.OwnerUUID)
	}
	if got.Extra.Reforge != "ancient" {
		t.Errorf("expected reforge 'ancient', got %q", got.Extra.Reforge)
	}
}

func TestUpsertReplacesByUUID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	UpsertItem(ctx, database, &model.Item{UUID: "u-1", Name: "Old Name"}, "")
	UpsertItem(ctx, database, &model.Item{UUID: "u-1", Name: "New Name", Color: "#FF0000"}, "")

	n, _ := CountItems(ctx, database)
	if n != 1 {
		t.Fatalf("expected 1 item after re-upsert, got %d", n)
	}

	got, _ := GetByUUID(ctx, database, "u-1")
	if got.Name != "New Name" || got.Color != "#FF0000" {
		t.Errorf("upsert did not refresh columns: %+v", got)
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	UpsertItem(ctx, database, &model.Item{UUID: "a", Name: "Wise Dragon Helmet", Color: "#101010"}, "")
	UpsertItem(ctx, database, &model.Item{UUID: "b", Name: "Wise Dragon Boots", Color: "#202020"}, "")
	UpsertItem(ctx, database, &model.Item{UUID: "c", Name: "Farm Suit Leggings", Color: "#101010"}, "")

	byName, err := ListItems(ctx, database, Filter{NameSubstr: "wise dragon"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(byName) != 2 {
		t.Errorf("expected 2 wise dragon items, got %d", len(byName))
	}

	byColor, _ := ListItems(ctx, database, Filter{ExactColor: "#101010"})
	if len(byColor) != 2 {
		t.Errorf("expected 2 items with exact color, got %d", len(byColor))
	}

	both, _ := ListItems(ctx, database, Filter{NameSubstr: "wise", ExactColor: "#101010"})
	if len(both) != 1 || both[0].UUID != "a" {
		t.Errorf("conjunctive filter failed: %+v", both)
	}

	keywords, _ := ListItems(ctx, database, Filter{Keywords: []string{"boot", "shoe"}})
	if len(keywords) != 1 || keywords[0].UUID != "b" {
		t.Errorf("keyword filter failed: %+v", keywords)
	}
}

func TestListItemsEscapesWildcards(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	UpsertItem(ctx, database, &model.Item{UUID: "a", Name: "Plain Helmet"}, "")

	// "%" must not act as a wildcard in user input.
	items, err := ListItems(ctx, database, Filter{NameSubstr: "%"})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected wildcard to be escaped, got %d items", len(items))
	}
}

func TestListByOwners(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	UpsertItem(ctx, database, &model.Item{UUID: "a", Name: "Helm A"}, `{"owner_playerUuid":"P1"}`)
	UpsertItem(ctx, database, &model.Item{UUID: "b", Name: "Boots B"}, `{"owner_playerUuid":"P2"}`)
	UpsertItem(ctx, database, &model.Item{UUID: "c", Name: "Cap C"}, `{"owner_playerUuid":"P1"}`)

	// Match is case-insensitive: owners are stored lowercased.
	items, err := ListByOwners(ctx, database, []string{"p1", "P1"})
	if err != nil {
		t.Fatalf("ListByOwners: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("expected 2 items for P1, got %d", len(items))
	}
	// Ordered by name.
	if len(items) == 2 && (items[0].Name != "Cap C" || items[1].Name != "Helm A") {
		t.Errorf("unexpected order: %q, %q", items[0].Name, items[1].Name)
	}

	none, _ := ListByOwners(ctx, database, nil)
	if none != nil {
		t.Errorf("expected nil for empty owner list, got %v", none)
	}
}

func TestMalformedExtraRowStillLoads(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	UpsertItem(ctx, database, &model.Item{UUID: "a", Name: "Broken Helm"}, "{not json")

	got, err := GetByUUID(ctx, database, "a")
	if err != nil {
		t.Fatalf("GetByUUID: %v", err)
	}
	if got == nil {
		t.Fatal("row with malformed extra should still load")
	}
	if got.Extra.OwnerUUID != "" {
		t.Errorf("expected unresolved owner, got %q", got.Extra.OwnerUUID)
	}
}
