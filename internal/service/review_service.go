package service

import (
	"context"
	"time"

	"codequest_backend/internal/game"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReviewService 间隔重复调度，到期判断在查询时进行
type ReviewService struct {
	DB         *gorm.DB
	ReviewRepo *repository.ReviewRepository
	Now        func() time.Time
}

func NewReviewService(db *gorm.DB, reviewRepo *repository.ReviewRepository) *ReviewService {
	return &ReviewService{DB: db, ReviewRepo: reviewRepo, Now: time.Now}
}

// GetDailyReview 返回 due_date 已到且未掌握的题目
func (s *ReviewService) GetDailyReview(ctx context.Context, userID string) ([]repository.DueReview, error) {
	return s.ReviewRepo.WithTx(s.DB.WithContext(ctx)).ListDue(userID, s.Now())
}

// SubmitReviewResult 答对推进一档，答错回到第一档
func (s *ReviewService) SubmitReviewResult(ctx context.Context, userID string, questionID uint, isCorrect bool) (review *model.UserQuestionReview, err error) {
	ctx, span := tracing.StartSpan(ctx, "ReviewService.SubmitReviewResult",
		attribute.String("user.id", userID), attribute.Int("question.id", int(questionID)))
	defer func() { tracing.End(span, err) }()

	now := s.Now()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reviews := s.ReviewRepo.WithTx(tx)
		if _, err := reviews.FindQuestion(questionID); err != nil {
			return err
		}
		rv, err := reviews.FindForUpdate(userID, questionID)
		if err != nil {
			return err
		}
		if rv == nil {
			rv = game.NewReview(userID, questionID, now)
		}
		game.ApplyReview(rv, isCorrect, now)
		if err := reviews.Save(rv); err != nil {
			return err
		}
		review = rv
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Log.Error("Submit review failed", zap.String("userId", userID), zap.Uint("questionId", questionID), zap.Error(err))
		}
		return nil, err
	}

	outcome := "incorrect"
	if isCorrect {
		outcome = "correct"
	}
	monitoring.ReviewsSubmitted.WithLabelValues(outcome).Inc()
	logger.Log.Debug("Review submitted",
		zap.String("userId", userID),
		zap.Uint("questionId", questionID),
		zap.Bool("correct", isCorrect),
		zap.Int("intervalIndex", review.IntervalIndex),
		zap.Bool("mastered", review.IsMastered),
	)
	return review, nil
}

// AddToReview 把题目加入复习队列，已存在时重置为第一档
func (s *ReviewService) AddToReview(ctx context.Context, userID string, questionID uint) (*model.UserQuestionReview, error) {
	var review *model.UserQuestionReview
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		review, err = enqueueReview(s.ReviewRepo.WithTx(tx), userID, questionID, s.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) GetStats(ctx context.Context, userID string) (*repository.ReviewStats, error) {
	now := s.Now()
	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	return s.ReviewRepo.WithTx(s.DB.WithContext(ctx)).Stats(userID, endOfDay)
}

func enqueueReview(reviews *repository.ReviewRepository, userID string, questionID uint, now time.Time) (*model.UserQuestionReview, error) {
	if _, err := reviews.FindQuestion(questionID); err != nil {
		return nil, err
	}
	rv, err := reviews.FindForUpdate(userID, questionID)
	if err != nil {
		return nil, err
	}
	if rv == nil {
		rv = game.NewReview(userID, questionID, now)
	} else {
		game.ResetReview(rv, now)
	}
	if err := reviews.Save(rv); err != nil {
		return nil, err
	}
	return rv, nil
}
