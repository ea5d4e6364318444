package repository

import (
	"time"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	DB *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: db}
}

func (r *BadgeRepository) WithTx(tx *gorm.DB) *BadgeRepository {
	return &BadgeRepository{DB: tx}
}

// Award 幂等发放徽章，返回本次是否新插入
func (r *BadgeRepository) Award(userID string, badgeID uint, at time.Time) (bool, error) {
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: at,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// EarnedBadge 用户已获得的徽章
type EarnedBadge struct {
	BadgeKey    string    `json:"badgeId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	EarnedAt    time.Time `json:"earnedAt"`
}

func (r *BadgeRepository) ListByUser(userID string) ([]EarnedBadge, error) {
	var out []EarnedBadge
	err := r.DB.Table("user_badges").
		Select("badges.badge_key, badges.name, badges.description, user_badges.earned_at").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at ASC, user_badges.id ASC").
		Scan(&out).Error
	return out, err
}
