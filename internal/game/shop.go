package game

import (
	"fmt"
	"sort"

	"codequest_backend/internal/config"
	"codequest_backend/internal/util"
)

const (
	ItemStreakFreeze = "streak_freeze"
	ItemPotionFocus  = "potion_focus"
	ItemHeartRefill  = "heart_refill"

	// DefaultItemType 未配置类型的道具按消耗品入库
	DefaultItemType = "consumable"
)

// ShopItem 商品目录中的一项
type ShopItem struct {
	Key         string `json:"itemId"`
	Cost        int    `json:"cost"`
	ItemType    string `json:"itemType"`
	Description string `json:"description,omitempty"`
}

// Catalog 商品目录，只读
type Catalog struct {
	items map[string]ShopItem
}

func NewCatalog(cfg config.ShopConfig) *Catalog {
	items := make(map[string]ShopItem, len(cfg.Items))
	for key, it := range cfg.Items {
		itemType := it.ItemType
		if itemType == "" {
			itemType = DefaultItemType
		}
		items[key] = ShopItem{Key: key, Cost: it.Cost, ItemType: itemType, Description: it.Description}
	}
	return &Catalog{items: items}
}

func (c *Catalog) Lookup(key string) (ShopItem, error) {
	it, ok := c.items[key]
	if !ok {
		return ShopItem{}, fmt.Errorf("%w: %q", util.ErrUnknownItem, key)
	}
	return it, nil
}

// Items 按 key 排序
func (c *Catalog) Items() []ShopItem {
	out := make([]ShopItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// ItemType 道具在背包中的类型，目录中没有时返回 DefaultItemType
func (c *Catalog) ItemType(key string) string {
	if it, ok := c.items[key]; ok {
		return it.ItemType
	}
	return DefaultItemType
}
