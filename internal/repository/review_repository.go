package repository

import (
	"errors"
	"time"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository 题目与间隔复习记录
type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) WithTx(tx *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: tx}
}

func (r *ReviewRepository) FindQuestion(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.First(&q, id).Error; err != nil {
		return nil, notFound(err, "question %d", id)
	}
	return &q, nil
}

func (r *ReviewRepository) ListQuestionsByQuiz(quizID string) ([]model.Question, error) {
	var qs []model.Question
	err := r.DB.Where("quiz_id = ?", quizID).Order("id ASC").Find(&qs).Error
	return qs, err
}

// UpsertQuestion 题目以 (quiz_id, text) 去重
func (r *ReviewRepository) UpsertQuestion(q *model.Question) error {
	var existing model.Question
	err := r.DB.Where("quiz_id = ? AND text = ?", q.QuizID, q.Text).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(q).Error
	}
	if err != nil {
		return err
	}
	q.ID = existing.ID
	q.CreatedAt = existing.CreatedAt
	return r.DB.Save(q).Error
}

// FindForUpdate 找不到时返回 nil, nil
func (r *ReviewRepository) FindForUpdate(userID string, questionID uint) (*model.UserQuestionReview, error) {
	var rv model.UserQuestionReview
	err := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND question_id = ?", userID, questionID).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewRepository) Save(rv *model.UserQuestionReview) error {
	return r.DB.Save(rv).Error
}

// DueReview 到期的复习项与题目内容
type DueReview struct {
	Review   model.UserQuestionReview `json:"review"`
	Question model.Question           `json:"question"`
}

// ListDue 未掌握且 due_date <= now，按到期时间升序
func (r *ReviewRepository) ListDue(userID string, now time.Time) ([]DueReview, error) {
	var rows []model.UserQuestionReview
	err := r.DB.Where("user_id = ? AND is_mastered = ? AND due_date <= ?", userID, false, now).
		Order("due_date ASC, id ASC").Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return []DueReview{}, err
	}

	ids := make([]uint, 0, len(rows))
	for _, rv := range rows {
		ids = append(ids, rv.QuestionID)
	}
	var qs []model.Question
	if err := r.DB.Where("id IN ?", ids).Find(&qs).Error; err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Question, len(qs))
	for _, q := range qs {
		byID[q.ID] = q
	}

	out := make([]DueReview, 0, len(rows))
	for _, rv := range rows {
		q, ok := byID[rv.QuestionID]
		if !ok {
			continue
		}
		out = append(out, DueReview{Review: rv, Question: q})
	}
	return out, nil
}

// ReviewStats 复习统计
type ReviewStats struct {
	Total             int64   `json:"total"`
	Mastered          int64   `json:"mastered"`
	DueToday          int64   `json:"dueToday"`
	MasteryPercentage float64 `json:"masteryPercentage"`
}

func (r *ReviewRepository) Stats(userID string, endOfDay time.Time) (*ReviewStats, error) {
	var s ReviewStats
	base := r.DB.Model(&model.UserQuestionReview{}).Where("user_id = ?", userID)
	if err := base.Session(&gorm.Session{}).Count(&s.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).Where("is_mastered = ?", true).Count(&s.Mastered).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("is_mastered = ? AND due_date <= ?", false, endOfDay).Count(&s.DueToday).Error; err != nil {
		return nil, err
	}
	if s.Total > 0 {
		s.MasteryPercentage = float64(s.Mastered) * 100 / float64(s.Total)
	}
	return &s, nil
}
