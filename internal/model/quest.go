package model

import (
	"time"
)

// Quest Boss 任务定义
// swagger:model Quest
type Quest struct {
	BaseModel
	QuestKey       string `gorm:"size:64;uniqueIndex;not null" json:"questId"`
	Name           string `gorm:"size:255;not null" json:"name"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	BossHP         int    `gorm:"not null" json:"bossHp"`
	RewardXPBonus  int    `gorm:"not null;default:0" json:"rewardXpBonus"`
	RewardBadgeKey string `gorm:"size:64" json:"rewardBadgeId,omitempty"`
}

func (Quest) TableName() string {
	return "quests"
}

// QuestTask 哪些任务会对 Boss 造成伤害
type QuestTask struct {
	BaseModel
	QuestID      uint `gorm:"not null;uniqueIndex:idx_quest_task,priority:1" json:"questId"`
	TaskID       uint `gorm:"not null;uniqueIndex:idx_quest_task,priority:2;index" json:"taskId"`
	DamageAmount int  `gorm:"not null" json:"damageAmount"`
}

func (QuestTask) TableName() string {
	return "quest_tasks"
}

// UserQuest 每个用户独立的 Boss 血量
type UserQuest struct {
	BaseModel
	UserID          string     `gorm:"size:128;not null;index:idx_user_quest,priority:1;index:idx_user_active,priority:1" json:"userId"`
	QuestID         uint       `gorm:"not null;index:idx_user_quest,priority:2" json:"questId"`
	BossHPRemaining int        `gorm:"not null" json:"bossHpRemaining"`
	StartedAt       time.Time  `gorm:"not null;index:idx_user_active,priority:3" json:"startedAt"`
	CompletedAt     *time.Time `gorm:"index:idx_user_active,priority:2" json:"completedAt,omitempty"`
}

func (UserQuest) TableName() string {
	return "user_quests"
}

// Badge 徽章定义
type Badge struct {
	BaseModel
	BadgeKey    string `gorm:"size:64;uniqueIndex;not null" json:"badgeId"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	XPValue     int    `gorm:"not null;default:0" json:"xpValue"`
}

func (Badge) TableName() string {
	return "badges"
}

type UserBadge struct {
	BaseModel
	UserID   string    `gorm:"size:128;not null;uniqueIndex:idx_user_badge,priority:1" json:"userId"`
	BadgeID  uint      `gorm:"not null;uniqueIndex:idx_user_badge,priority:2;index" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}
