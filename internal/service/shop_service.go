package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"codequest_backend/internal/config"
	"codequest_backend/internal/game"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BuyItemResult struct {
	Success   bool   `json:"success"`
	GoldSpent int    `json:"goldSpent"`
	ItemKey   string `json:"itemKey"`
	Quantity  int    `json:"quantity"`
	Gold      int    `json:"gold"`
}

type UseItemResult struct {
	Success   bool        `json:"success"`
	ItemKey   string      `json:"itemKey"`
	Remaining int         `json:"remaining"`
	User      *model.User `json:"user"`
}

// ShopService 商店与背包；商品目录可热更新
type ShopService struct {
	DB            *gorm.DB
	UserRepo      *repository.UserRepository
	InventoryRepo *repository.InventoryRepository
	Now           func() time.Time

	mu      sync.RWMutex
	catalog *game.Catalog
}

func NewShopService(db *gorm.DB, userRepo *repository.UserRepository, inventoryRepo *repository.InventoryRepository, shop config.ShopConfig) *ShopService {
	return &ShopService{
		DB:            db,
		UserRepo:      userRepo,
		InventoryRepo: inventoryRepo,
		Now:           time.Now,
		catalog:       game.NewCatalog(shop),
	}
}

// SetCatalog 替换商品目录，配置文件变更时调用
func (s *ShopService) SetCatalog(shop config.ShopConfig) {
	catalog := game.NewCatalog(shop)
	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()
	logger.Log.Info("Shop catalog reloaded", zap.Int("items", len(shop.Items)))
}

func (s *ShopService) currentCatalog() *game.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// ItemType 供其它服务按目录查询道具的背包类型
func (s *ShopService) ItemType(key string) string {
	return s.currentCatalog().ItemType(key)
}

func (s *ShopService) ListItems() []game.ShopItem {
	return s.currentCatalog().Items()
}

// BuyItem 扣除金币并放入背包；金币不足时不产生任何写入
func (s *ShopService) BuyItem(ctx context.Context, userID, itemKey string) (result *BuyItemResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ShopService.BuyItem",
		attribute.String("user.id", userID), attribute.String("item.key", itemKey))
	defer func() { tracing.End(span, err) }()

	item, err := s.currentCatalog().Lookup(itemKey)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByExternalIDForUpdate(userID)
		if err != nil {
			return err
		}

		ledger, _, err := game.Apply(game.LedgerOf(user), game.GoldSpent{Amount: item.Cost})
		if err != nil {
			return err
		}
		ledger.WriteTo(user)
		if err := users.SaveProgress(user); err != nil {
			return err
		}

		inv, err := s.InventoryRepo.WithTx(tx).Add(userID, item.ItemType, item.Key)
		if err != nil {
			return err
		}

		result = &BuyItemResult{
			Success:   true,
			GoldSpent: item.Cost,
			ItemKey:   item.Key,
			Quantity:  inv.Quantity,
			Gold:      user.Gold,
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Log.Error("Buy item failed", zap.String("userId", userID), zap.String("itemId", itemKey), zap.Error(err))
		}
		return nil, err
	}

	monitoring.GoldSpent.WithLabelValues(item.Key).Add(float64(item.Cost))
	logger.Log.Info("Item purchased",
		zap.String("userId", userID),
		zap.String("itemId", itemKey),
		zap.Int("cost", item.Cost),
		zap.Int("quantity", result.Quantity),
	)
	return result, nil
}

// UseItem 使用背包中的消耗品。连胜保护只会在断签时自动消耗
func (s *ShopService) UseItem(ctx context.Context, userID, itemKey string) (result *UseItemResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "ShopService.UseItem",
		attribute.String("user.id", userID), attribute.String("item.key", itemKey))
	defer func() { tracing.End(span, err) }()

	item, err := s.currentCatalog().Lookup(itemKey)
	if err != nil {
		return nil, err
	}

	var event game.Event
	switch item.Key {
	case game.ItemHeartRefill:
		event = game.HeartRestored{}
	case game.ItemPotionFocus:
		event = game.FocusRefilled{At: s.Now()}
	default:
		return nil, fmt.Errorf("%w: %s cannot be used directly", util.ErrInvalidState, item.Key)
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByExternalIDForUpdate(userID)
		if err != nil {
			return err
		}

		inventory := s.InventoryRepo.WithTx(tx)
		inv, err := inventory.Find(userID, item.ItemType, item.Key)
		if err != nil {
			return err
		}
		if inv == nil {
			return fmt.Errorf("%w: no %s in inventory", util.ErrNotFound, item.Key)
		}

		ledger, _, err := game.Apply(game.LedgerOf(user), event)
		if err != nil {
			return err
		}
		if err := inventory.Consume(inv); err != nil {
			return err
		}
		ledger.WriteTo(user)
		if err := users.SaveProgress(user); err != nil {
			return err
		}

		result = &UseItemResult{Success: true, ItemKey: item.Key, Remaining: inv.Quantity, User: user}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Log.Error("Use item failed", zap.String("userId", userID), zap.String("itemId", itemKey), zap.Error(err))
		}
		return nil, err
	}

	logger.Log.Info("Item used", zap.String("userId", userID), zap.String("itemId", itemKey), zap.Int("remaining", result.Remaining))
	return result, nil
}

func (s *ShopService) GetInventory(ctx context.Context, userID string) ([]model.InventoryItem, error) {
	return s.InventoryRepo.WithTx(s.DB.WithContext(ctx)).ListByUser(userID)
}
