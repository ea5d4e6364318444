package repository

import (
	"codequest_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CurriculumRepository 课程周、任务、徽章、Boss 任务的读写
type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) WithTx(tx *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: tx}
}

func (r *CurriculumRepository) ListWeeks() ([]model.Week, error) {
	var weeks []model.Week
	err := r.DB.Order("week_number ASC").Find(&weeks).Error
	return weeks, err
}

func (r *CurriculumRepository) FindWeekByID(id uint) (*model.Week, error) {
	var week model.Week
	if err := r.DB.First(&week, id).Error; err != nil {
		return nil, notFound(err, "week %d", id)
	}
	return &week, nil
}

func (r *CurriculumRepository) ListTasksByWeek(weekID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("week_id = ?", weekID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *CurriculumRepository) CountTasksByWeek(weekID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Task{}).Where("week_id = ?", weekID).Count(&count).Error
	return count, err
}

func (r *CurriculumRepository) FindTaskByKey(key string) (*model.Task, error) {
	var task model.Task
	if err := r.DB.Where("task_key = ?", key).First(&task).Error; err != nil {
		return nil, notFound(err, "task %q", key)
	}
	return &task, nil
}

func (r *CurriculumRepository) FindBadgeByKey(key string) (*model.Badge, error) {
	var badge model.Badge
	if err := r.DB.Where("badge_key = ?", key).First(&badge).Error; err != nil {
		return nil, notFound(err, "badge %q", key)
	}
	return &badge, nil
}

// UpsertWeek 以 week_number 为业务主键
func (r *CurriculumRepository) UpsertWeek(week *model.Week) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week_number"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "focus", "milestone", "checkin_prompt", "updated_at"}),
	}).Create(week).Error
}

func (r *CurriculumRepository) UpsertTask(task *model.Task) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"week_id", "day", "description", "type", "xp_reward", "difficulty", "category", "badge_reward", "updated_at",
		}),
	}).Create(task).Error
}

func (r *CurriculumRepository) UpsertBadge(badge *model.Badge) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "badge_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "xp_value", "updated_at"}),
	}).Create(badge).Error
}

func (r *CurriculumRepository) UpsertQuest(quest *model.Quest) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quest_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "description", "boss_hp", "reward_xp_bonus", "reward_badge_key", "updated_at"}),
	}).Create(quest).Error
}

func (r *CurriculumRepository) UpsertQuestTask(qt *model.QuestTask) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quest_id"}, {Name: "task_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"damage_amount", "updated_at"}),
	}).Create(qt).Error
}

// Reload 按业务主键读回 upsert 后的行，保证 ID 可用
func (r *CurriculumRepository) Reload(dest interface{}, column string, value interface{}) error {
	return r.DB.Where(column+" = ?", value).First(dest).Error
}
