package repository

import (
	"errors"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

type QuestRepository struct {
	DB *gorm.DB
}

func NewQuestRepository(db *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: db}
}

func (r *QuestRepository) WithTx(tx *gorm.DB) *QuestRepository {
	return &QuestRepository{DB: tx}
}

// QuestLink 任务所关联的 Boss 任务及伤害
type QuestLink struct {
	QuestTask model.QuestTask
	Quest     model.Quest
}

// FindLinksByTask 查找引用该任务的全部 Boss 任务
func (r *QuestRepository) FindLinksByTask(taskID uint) ([]QuestLink, error) {
	var qts []model.QuestTask
	if err := r.DB.Where("task_id = ?", taskID).Order("id ASC").Find(&qts).Error; err != nil {
		return nil, err
	}
	links := make([]QuestLink, 0, len(qts))
	for _, qt := range qts {
		var q model.Quest
		if err := r.DB.First(&q, qt.QuestID).Error; err != nil {
			return nil, notFound(err, "quest %d", qt.QuestID)
		}
		links = append(links, QuestLink{QuestTask: qt, Quest: q})
	}
	return links, nil
}

// FindUserQuest 返回用户在该 Boss 任务上最新的一行，没有时返回 nil, nil
func (r *QuestRepository) FindUserQuest(userID string, questID uint) (*model.UserQuest, error) {
	var uq model.UserQuest
	err := r.DB.Where("user_id = ? AND quest_id = ?", userID, questID).
		Order("started_at DESC, id DESC").First(&uq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &uq, nil
}

func (r *QuestRepository) SaveUserQuest(uq *model.UserQuest) error {
	return r.DB.Save(uq).Error
}

// ActiveQuest 返回最近开始且未完成的 Boss 任务
type ActiveQuest struct {
	UserQuest model.UserQuest `json:"userQuest"`
	Quest     model.Quest     `json:"quest"`
}

func (r *QuestRepository) FindActive(userID string) (*ActiveQuest, error) {
	var uq model.UserQuest
	err := r.DB.Where("user_id = ? AND completed_at IS NULL", userID).
		Order("started_at DESC, id DESC").First(&uq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var q model.Quest
	if err := r.DB.First(&q, uq.QuestID).Error; err != nil {
		return nil, notFound(err, "quest %d", uq.QuestID)
	}
	return &ActiveQuest{UserQuest: uq, Quest: q}, nil
}
