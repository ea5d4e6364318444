package model

import (
	"time"

	"gorm.io/datatypes"
)

// Question 测验题目
// swagger:model Question
type Question struct {
	BaseModel
	QuizID       string         `gorm:"size:64;not null;index" json:"quizId"`
	QuestionType string         `gorm:"size:32;not null" json:"questionType"`
	Text         string         `gorm:"type:text;not null" json:"text"`
	Code         string         `gorm:"type:text" json:"code,omitempty"`
	Options      datatypes.JSON `json:"options,omitempty"`
	CorrectIndex *int           `json:"-"`
	StarterCode  string         `gorm:"type:text" json:"starterCode,omitempty"`
	SolutionCode string         `gorm:"type:text" json:"-"`
	Explanation  string         `gorm:"type:text" json:"explanation,omitempty"`
	Difficulty   string         `gorm:"size:16" json:"difficulty"`
	TopicTag     string         `gorm:"size:64" json:"topicTag,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// UserQuestionReview 间隔重复状态：0=1天 1=3天 2=7天 3=14天
type UserQuestionReview struct {
	BaseModel
	UserID         string     `gorm:"size:128;not null;uniqueIndex:idx_user_question,priority:1;index:idx_user_due,priority:1" json:"userId"`
	QuestionID     uint       `gorm:"not null;uniqueIndex:idx_user_question,priority:2;index" json:"questionId"`
	IntervalIndex  int        `gorm:"not null;default:0" json:"intervalIndex"`
	DueDate        time.Time  `gorm:"not null;index:idx_user_due,priority:2" json:"dueDate"`
	SuccessCount   int        `gorm:"not null;default:0" json:"successCount"`
	IsMastered     bool       `gorm:"not null;default:false" json:"isMastered"`
	LastReviewedAt *time.Time `json:"lastReviewedAt,omitempty"`
}

func (UserQuestionReview) TableName() string {
	return "user_question_reviews"
}
