package model

import (
	"time"
)

// QuizResult 测验成绩，只追加不修改
type QuizResult struct {
	UUIDBase
	UserID         string    `gorm:"size:128;not null;index;index:idx_user_quiz,priority:1" json:"userId"`
	QuizID         string    `gorm:"size:64;not null;index;index:idx_user_quiz,priority:2" json:"quizId"`
	Score          int       `gorm:"not null" json:"score"`
	TotalQuestions int       `gorm:"not null" json:"totalQuestions"`
	CompletedAt    time.Time `gorm:"not null;index" json:"completedAt"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
