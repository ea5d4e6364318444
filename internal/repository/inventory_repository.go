package repository

import (
	"errors"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type InventoryRepository struct {
	DB *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{DB: db}
}

func (r *InventoryRepository) WithTx(tx *gorm.DB) *InventoryRepository {
	return &InventoryRepository{DB: tx}
}

// Find 找不到时返回 nil, nil
func (r *InventoryRepository) Find(userID, itemType, itemKey string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.DB.Where("user_id = ? AND item_type = ? AND item_key = ?", userID, itemType, itemKey).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Add 已有行数量加一，否则插入数量为 1 的新行
func (r *InventoryRepository) Add(userID, itemType, itemKey string) (*model.InventoryItem, error) {
	item, err := r.Find(userID, itemType, itemKey)
	if err != nil {
		return nil, err
	}
	if item == nil {
		item = &model.InventoryItem{UserID: userID, ItemType: itemType, ItemKey: itemKey, Quantity: 1}
		return item, r.DB.Create(item).Error
	}
	item.Quantity++
	return item, r.DB.Model(item).Update("quantity", item.Quantity).Error
}

// Consume 数量减一，归零时删除该行
func (r *InventoryRepository) Consume(item *model.InventoryItem) error {
	if item.Quantity <= 1 {
		item.Quantity = 0
		return r.DB.Delete(item).Error
	}
	item.Quantity--
	return r.DB.Model(item).Update("quantity", item.Quantity).Error
}

func (r *InventoryRepository) ListByUser(userID string) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.DB.Where("user_id = ?", userID).Order("item_type ASC, item_key ASC").Find(&items).Error
	return items, err
}
