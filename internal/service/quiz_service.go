package service

import (
	"context"
	"fmt"
	"time"

	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const quizHistoryLimit = 50

type SubmitQuizInput struct {
	UserID               string
	QuizID               string
	Score                int
	TotalQuestions       int
	IncorrectQuestionIDs []uint
}

// QuizService 测验成绩只追加记录，不影响经验与金币
type QuizService struct {
	DB         *gorm.DB
	QuizRepo   *repository.QuizResultRepository
	ReviewRepo *repository.ReviewRepository
	Now        func() time.Time
}

func NewQuizService(db *gorm.DB, quizRepo *repository.QuizResultRepository, reviewRepo *repository.ReviewRepository) *QuizService {
	return &QuizService{DB: db, QuizRepo: quizRepo, ReviewRepo: reviewRepo, Now: time.Now}
}

// GetQuizQuestions 按插入顺序返回题目，答案字段不会序列化
func (s *QuizService) GetQuizQuestions(ctx context.Context, quizID string) ([]model.Question, error) {
	return s.ReviewRepo.WithTx(s.DB.WithContext(ctx)).ListQuestionsByQuiz(quizID)
}

// SubmitQuizResult 记录成绩；答错的题目在同一事务内加入复习队列
func (s *QuizService) SubmitQuizResult(ctx context.Context, in SubmitQuizInput) (*model.QuizResult, error) {
	if in.TotalQuestions <= 0 || in.Score < 0 || in.Score > in.TotalQuestions {
		return nil, fmt.Errorf("%w: score %d of %d", util.ErrInvalidState, in.Score, in.TotalQuestions)
	}

	now := s.Now()
	result := &model.QuizResult{
		UserID:         in.UserID,
		QuizID:         in.QuizID,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		CompletedAt:    now,
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.QuizRepo.WithTx(tx).Create(result); err != nil {
			return err
		}
		reviews := s.ReviewRepo.WithTx(tx)
		for _, qid := range in.IncorrectQuestionIDs {
			if _, err := enqueueReview(reviews, in.UserID, qid, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Log.Error("Submit quiz result failed", zap.String("userId", in.UserID), zap.String("quizId", in.QuizID), zap.Error(err))
		}
		return nil, err
	}

	logger.Log.Info("Quiz result recorded",
		zap.String("userId", in.UserID),
		zap.String("quizId", in.QuizID),
		zap.Int("score", in.Score),
		zap.Int("total", in.TotalQuestions),
		zap.Int("enqueued", len(in.IncorrectQuestionIDs)),
	)
	return result, nil
}

func (s *QuizService) GetHistory(ctx context.Context, userID string) ([]model.QuizResult, error) {
	return s.QuizRepo.WithTx(s.DB.WithContext(ctx)).ListByUser(userID, quizHistoryLimit)
}

// GetBestScore 没有记录时返回 nil
func (s *QuizService) GetBestScore(ctx context.Context, userID, quizID string) (*model.QuizResult, error) {
	return s.QuizRepo.WithTx(s.DB.WithContext(ctx)).FindBest(userID, quizID)
}
