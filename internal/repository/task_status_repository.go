package repository

import (
	"errors"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type TaskStatusRepository struct {
	DB *gorm.DB
}

func NewTaskStatusRepository(db *gorm.DB) *TaskStatusRepository {
	return &TaskStatusRepository{DB: db}
}

func (r *TaskStatusRepository) WithTx(tx *gorm.DB) *TaskStatusRepository {
	return &TaskStatusRepository{DB: tx}
}

// Find 找不到时返回 nil, nil
func (r *TaskStatusRepository) Find(userID string, taskID uint) (*model.UserTaskStatus, error) {
	var status model.UserTaskStatus
	err := r.DB.Where("user_id = ? AND task_id = ?", userID, taskID).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// Save 新行插入，已有行整体更新
func (r *TaskStatusRepository) Save(status *model.UserTaskStatus) error {
	return r.DB.Save(status).Error
}

func (r *TaskStatusRepository) CountCompleted(userID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserTaskStatus{}).
		Where("user_id = ? AND completed = ?", userID, true).Count(&count).Error
	return count, err
}

// CountCompletedInWeek 统计用户在某一周完成的任务数
func (r *TaskStatusRepository) CountCompletedInWeek(userID string, weekID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserTaskStatus{}).
		Joins("JOIN tasks ON tasks.id = user_task_statuses.task_id").
		Where("user_task_statuses.user_id = ? AND user_task_statuses.completed = ? AND tasks.week_id = ?", userID, true, weekID).
		Count(&count).Error
	return count, err
}

// CompletedTaskIDs 用户已完成的任务 ID 集合
func (r *TaskStatusRepository) CompletedTaskIDs(userID string, taskIDs []uint) (map[uint]bool, error) {
	done := make(map[uint]bool)
	if len(taskIDs) == 0 {
		return done, nil
	}
	var ids []uint
	err := r.DB.Model(&model.UserTaskStatus{}).
		Where("user_id = ? AND completed = ? AND task_id IN ?", userID, true, taskIDs).
		Pluck("task_id", &ids).Error
	for _, id := range ids {
		done[id] = true
	}
	return done, err
}
