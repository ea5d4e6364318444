package model

// InventoryItem 用户背包，同一 (user,itemType,itemKey) 只有一行
type InventoryItem struct {
	BaseModel
	UserID   string `gorm:"size:128;not null;uniqueIndex:idx_user_item,priority:1" json:"userId"`
	ItemType string `gorm:"size:32;not null;uniqueIndex:idx_user_item,priority:2" json:"itemType"`
	ItemKey  string `gorm:"size:64;not null;uniqueIndex:idx_user_item,priority:3" json:"itemKey"`
	Quantity int    `gorm:"not null;default:1" json:"quantity"`
}

func (InventoryItem) TableName() string {
	return "user_inventory"
}
