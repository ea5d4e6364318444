package game

import (
	"time"

	"codequest_backend/internal/model"
)

// ReviewIntervals 复习间隔表，下标即 intervalIndex
var ReviewIntervals = [...]time.Duration{1 * day, 3 * day, 7 * day, 14 * day}

const MaxIntervalIndex = len(ReviewIntervals) - 1

// NewReview 首次遇到题目时的复习记录
func NewReview(userID string, questionID uint, now time.Time) *model.UserQuestionReview {
	return &model.UserQuestionReview{
		UserID:     userID,
		QuestionID: questionID,
		DueDate:    now.Add(ReviewIntervals[0]),
	}
}

// ApplyReview 根据作答结果推进或重置复习间隔。
// 已在最后一档时再次答对即视为掌握
func ApplyReview(r *model.UserQuestionReview, correct bool, now time.Time) {
	if correct {
		atTerminal := r.IntervalIndex >= MaxIntervalIndex
		r.IntervalIndex = min(r.IntervalIndex+1, MaxIntervalIndex)
		r.SuccessCount++
		if atTerminal {
			r.IsMastered = true
		}
	} else {
		r.IntervalIndex = 0
		r.SuccessCount = 0
		r.IsMastered = false
	}
	r.DueDate = now.Add(ReviewIntervals[r.IntervalIndex])
	r.LastReviewedAt = &now
}

// ResetReview 重新加入复习队列
func ResetReview(r *model.UserQuestionReview, now time.Time) {
	r.IntervalIndex = 0
	r.SuccessCount = 0
	r.IsMastered = false
	r.DueDate = now.Add(ReviewIntervals[0])
}
