package game

import (
	"errors"
	"testing"

	"codequest_backend/internal/config"
	"codequest_backend/internal/util"
)

func testCatalog() *Catalog {
	return NewCatalog(config.ShopConfig{Items: map[string]config.ShopItemConfig{
		ItemStreakFreeze: {Cost: 50, ItemType: "consumable"},
		ItemPotionFocus:  {Cost: 30, ItemType: "consumable"},
		ItemHeartRefill:  {Cost: 40, ItemType: "consumable"},
	}})
}

func TestCatalogLookup(t *testing.T) {
	c := testCatalog()
	it, err := c.Lookup(ItemStreakFreeze)
	if err != nil || it.Cost != 50 || it.ItemType != "consumable" {
		t.Fatalf("got %+v err=%v", it, err)
	}
	if _, err := c.Lookup("sword"); !errors.Is(err, util.ErrUnknownItem) {
		t.Errorf("expected ErrUnknownItem, got %v", err)
	}
}

func TestCatalogItemsSorted(t *testing.T) {
	items := testCatalog().Items()
	if len(items) != 3 {
		t.Fatalf("len = %d", len(items))
	}
	if items[0].Key != ItemHeartRefill || items[2].Key != ItemStreakFreeze {
		t.Errorf("order = %v", items)
	}
}

func TestMilestoneBadges(t *testing.T) {
	if got := MilestoneBadges(3, 1); len(got) != 2 || got[0] != "b-streak-3" || got[1] != "a-first-task" {
		t.Errorf("got %v", got)
	}
	if got := MilestoneBadges(4, 2); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestBadgeBonus(t *testing.T) {
	if got := BadgeBonus(55); got.XP != 55 || got.Gold != 5 {
		t.Errorf("got %+v", got)
	}
	if got := BadgeBonus(0); got != (Reward{}) {
		t.Errorf("got %+v", got)
	}
	if WeekBadge(3) != "b-week-3" {
		t.Errorf("week badge = %s", WeekBadge(3))
	}
}

func TestCatalogItemType(t *testing.T) {
	c := NewCatalog(config.ShopConfig{Items: map[string]config.ShopItemConfig{
		ItemStreakFreeze: {Cost: 50, ItemType: "powerup"},
		ItemPotionFocus:  {Cost: 30},
	}})
	if got := c.ItemType(ItemStreakFreeze); got != "powerup" {
		t.Errorf("streak_freeze type = %s", got)
	}
	if got := c.ItemType(ItemPotionFocus); got != DefaultItemType {
		t.Errorf("untyped item = %s", got)
	}
	if got := c.ItemType("unknown"); got != DefaultItemType {
		t.Errorf("unknown item = %s", got)
	}
}
