package service

import (
	"context"
	"fmt"
	"time"

	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type WeekProgress struct {
	WeekID     uint    `json:"weekId"`
	Total      int64   `json:"total"`
	Completed  int64   `json:"completed"`
	Percentage float64 `json:"percentage"`
}

// CurriculumService 课程周与任务的读取，cache 为空时直接查库
type CurriculumService struct {
	DB             *gorm.DB
	CurriculumRepo *repository.CurriculumRepository
	StatusRepo     *repository.TaskStatusRepository
	Cache          CurriculumCache
	TTL            time.Duration
}

func NewCurriculumService(
	db *gorm.DB,
	curriculumRepo *repository.CurriculumRepository,
	statusRepo *repository.TaskStatusRepository,
	cache CurriculumCache,
	ttl time.Duration,
) *CurriculumService {
	return &CurriculumService{
		DB:             db,
		CurriculumRepo: curriculumRepo,
		StatusRepo:     statusRepo,
		Cache:          cache,
		TTL:            ttl,
	}
}

func (s *CurriculumService) GetWeeks(ctx context.Context) ([]model.Week, error) {
	var weeks []model.Week
	err := s.cached(ctx, "weeks", &weeks, func() error {
		var err error
		weeks, err = s.CurriculumRepo.WithTx(s.DB.WithContext(ctx)).ListWeeks()
		return err
	})
	return weeks, err
}

// GetTasks 按插入顺序返回某周的任务
func (s *CurriculumService) GetTasks(ctx context.Context, weekID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := s.cached(ctx, fmt.Sprintf("week:%d:tasks", weekID), &tasks, func() error {
		repo := s.CurriculumRepo.WithTx(s.DB.WithContext(ctx))
		if _, err := repo.FindWeekByID(weekID); err != nil {
			return err
		}
		var err error
		tasks, err = repo.ListTasksByWeek(weekID)
		return err
	})
	return tasks, err
}

func (s *CurriculumService) GetWeekProgress(ctx context.Context, userID string, weekID uint) (*WeekProgress, error) {
	db := s.DB.WithContext(ctx)
	repo := s.CurriculumRepo.WithTx(db)
	if _, err := repo.FindWeekByID(weekID); err != nil {
		return nil, err
	}
	total, err := repo.CountTasksByWeek(weekID)
	if err != nil {
		return nil, err
	}
	completed, err := s.StatusRepo.WithTx(db).CountCompletedInWeek(userID, weekID)
	if err != nil {
		return nil, err
	}
	p := &WeekProgress{WeekID: weekID, Total: total, Completed: completed}
	if total > 0 {
		p.Percentage = float64(completed) * 100 / float64(total)
	}
	return p, nil
}

// Invalidate 导入课程后清空缓存
func (s *CurriculumService) Invalidate(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Flush(ctx); err != nil {
		logger.Log.Warn("Failed to flush curriculum cache", zap.Error(err))
	}
}

// cached 读缓存，未命中时调用 load 并回写；缓存异常只记录日志
func (s *CurriculumService) cached(ctx context.Context, key string, dest interface{}, load func() error) error {
	if s.Cache == nil {
		return load()
	}
	hit, err := s.Cache.Get(ctx, key, dest)
	if err != nil {
		logger.Log.Warn("Curriculum cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		monitoring.CacheLookups.WithLabelValues("hit").Inc()
		return nil
	}
	monitoring.CacheLookups.WithLabelValues("miss").Inc()

	if err := load(); err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, key, dest, s.TTL); err != nil {
		logger.Log.Warn("Curriculum cache write failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}
