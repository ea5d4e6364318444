package model

import (
	"time"
)

type Difficulty string

const (
	DifficultyTrivial Difficulty = "trivial"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHard    Difficulty = "hard"
	DifficultyBoss    Difficulty = "boss"
)

// Week 课程周
// swagger:model Week
type Week struct {
	BaseModel
	WeekNumber    int    `gorm:"uniqueIndex;not null" json:"weekNumber"`
	Title         string `gorm:"size:255;not null" json:"title"`
	Focus         string `gorm:"size:255" json:"focus,omitempty"`
	Milestone     string `gorm:"size:255" json:"milestone,omitempty"`
	CheckinPrompt string `gorm:"type:text" json:"checkinPrompt,omitempty"`
}

func (Week) TableName() string {
	return "weeks"
}

// Task 课程任务，发布后不可修改；TaskKey 为业务主键（如 "w1-d1"）
// swagger:model Task
type Task struct {
	BaseModel
	TaskKey     string     `gorm:"size:64;uniqueIndex;not null" json:"taskId"`
	WeekID      uint       `gorm:"index;not null" json:"weekId"`
	Day         string     `gorm:"size:20" json:"day"`
	Description string     `gorm:"type:text" json:"description"`
	Type        string     `gorm:"size:20" json:"type,omitempty"`
	XPReward    int        `gorm:"not null;default:0" json:"xpReward"`
	Difficulty  Difficulty `gorm:"size:10;not null;default:'normal'" json:"difficulty"`
	Category    string     `gorm:"size:20" json:"category,omitempty"`
	BadgeReward string     `gorm:"size:64" json:"badgeReward,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// UserTaskStatus 用户任务完成记录；发放的 XP/金币按当时数值记录，撤销时原样扣回
type UserTaskStatus struct {
	BaseModel
	UserID      string     `gorm:"size:128;not null;uniqueIndex:idx_user_task,priority:1;index:idx_user_completed,priority:1" json:"userId"`
	TaskID      uint       `gorm:"not null;uniqueIndex:idx_user_task,priority:2;index" json:"taskId"`
	Completed   bool       `gorm:"not null;default:false;index:idx_user_completed,priority:2" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	XPGranted   int        `gorm:"not null;default:0" json:"xpGranted"`
	GoldGranted int        `gorm:"not null;default:0" json:"goldGranted"`
}

func (UserTaskStatus) TableName() string {
	return "user_task_statuses"
}
