package model

import (
	"time"
)

const (
	MaxHearts = 5
	FocusCap  = 5
)

// User 用户的成长档案，ExternalID 来自外部身份系统
// swagger:model User
type User struct {
	BaseModel
	ExternalID       string     `gorm:"size:128;uniqueIndex;not null" json:"externalId"`
	Username         string     `gorm:"size:100;index" json:"username"`
	XP               int        `gorm:"default:0;not null" json:"xp"`
	Gold             int        `gorm:"default:0;not null" json:"gold"`
	Level            int        `gorm:"default:1;not null" json:"level"`
	Streak           int        `gorm:"default:0;not null" json:"streak"`
	BestStreak       int        `gorm:"default:0;not null" json:"bestStreak"`
	Hearts           int        `gorm:"default:5;not null" json:"hearts"`
	FocusPoints      int        `gorm:"default:5;not null" json:"focusPoints"`
	FocusRefreshedAt *time.Time `json:"focusRefreshedAt,omitempty"`
	LastCheckinAt    *time.Time `json:"lastCheckinAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// NewUser 新用户的默认档案
func NewUser(externalID, username string) *User {
	if username == "" {
		short := externalID
		if len(short) > 8 {
			short = short[:8]
		}
		username = "user_" + short
	}
	return &User{
		ExternalID:  externalID,
		Username:    username,
		Level:       1,
		Hearts:      MaxHearts,
		FocusPoints: FocusCap,
	}
}
