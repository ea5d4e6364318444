package repository

import (
	"errors"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type QuizResultRepository struct {
	DB *gorm.DB
}

func NewQuizResultRepository(db *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: db}
}

func (r *QuizResultRepository) WithTx(tx *gorm.DB) *QuizResultRepository {
	return &QuizResultRepository{DB: tx}
}

func (r *QuizResultRepository) Create(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

// ListByUser 最新的在前
func (r *QuizResultRepository) ListByUser(userID string, limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).
		Order("completed_at DESC").Limit(limit).Find(&results).Error
	return results, err
}

// FindBest 得分率最高的一次，同分取最早的；没有记录时返回 nil, nil
func (r *QuizResultRepository) FindBest(userID, quizID string) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("score * 1.0 / total_questions DESC, completed_at ASC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}
