package service

import (
	"context"
	"errors"

	"codequest_backend/internal/game"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuestPropagator 把任务完成转化为 Boss 伤害；每个用户有独立的 Boss 血量
type QuestPropagator struct {
	QuestRepo      *repository.QuestRepository
	BadgeRepo      *repository.BadgeRepository
	CurriculumRepo *repository.CurriculumRepository
}

func NewQuestPropagator(
	questRepo *repository.QuestRepository,
	badgeRepo *repository.BadgeRepository,
	curriculumRepo *repository.CurriculumRepository,
) *QuestPropagator {
	return &QuestPropagator{QuestRepo: questRepo, BadgeRepo: badgeRepo, CurriculumRepo: curriculumRepo}
}

func (p *QuestPropagator) OnTaskCompleted(ctx context.Context, ev *TaskCompleted) error {
	quests := p.QuestRepo.WithTx(ev.Tx)
	links, err := quests.FindLinksByTask(ev.Task.ID)
	if err != nil {
		return err
	}

	for _, link := range links {
		uq, err := quests.FindUserQuest(ev.UserID, link.Quest.ID)
		if err != nil {
			return err
		}
		// 已击败的 Boss 不再重新开始
		if uq != nil && uq.CompletedAt != nil {
			continue
		}
		if uq == nil {
			uq = &model.UserQuest{
				UserID:          ev.UserID,
				QuestID:         link.Quest.ID,
				BossHPRemaining: link.Quest.BossHP,
				StartedAt:       ev.At,
			}
		}

		damage := link.QuestTask.DamageAmount
		uq.BossHPRemaining = max(0, uq.BossHPRemaining-damage)
		update := QuestUpdate{
			QuestID: link.Quest.QuestKey,
			Name:    link.Quest.Name,
			Damage:  damage,
		}

		if uq.BossHPRemaining == 0 && uq.CompletedAt == nil {
			at := ev.At
			uq.CompletedAt = &at
			update.Defeated = true

			if link.Quest.RewardXPBonus > 0 {
				if err := ev.Grant(game.Reward{XP: link.Quest.RewardXPBonus}, "quest"); err != nil {
					return err
				}
				update.RewardXP = link.Quest.RewardXPBonus
			}
			if link.Quest.RewardBadgeKey != "" {
				awarded, err := p.awardBadge(ev, link.Quest.RewardBadgeKey)
				if err != nil {
					return err
				}
				if awarded {
					update.BadgeAwarded = link.Quest.RewardBadgeKey
				}
			}
			logger.Log.Info("Boss defeated",
				zap.String("userId", ev.UserID),
				zap.String("questId", link.Quest.QuestKey),
				zap.Int("rewardXp", update.RewardXP),
			)
		}

		if err := quests.SaveUserQuest(uq); err != nil {
			return err
		}
		update.BossHPRemaining = uq.BossHPRemaining
		ev.Result.QuestUpdates = append(ev.Result.QuestUpdates, update)
	}
	return nil
}

// awardBadge 幂等发放；徽章未定义时跳过
func (p *QuestPropagator) awardBadge(ev *TaskCompleted, key string) (bool, error) {
	return awardBadgeByKey(ev.Tx, p.CurriculumRepo, p.BadgeRepo, ev, key)
}

// awardBadgeByKey 首次获得徽章时按面值追加经验与金币，重复获得不再发放
func awardBadgeByKey(tx *gorm.DB, curriculum *repository.CurriculumRepository, badges *repository.BadgeRepository, ev *TaskCompleted, key string) (bool, error) {
	badge, err := curriculum.WithTx(tx).FindBadgeByKey(key)
	if errors.Is(err, util.ErrNotFound) {
		logger.Log.Warn("Badge not defined, skipping award", zap.String("badgeId", key))
		return false, nil
	}
	if err != nil {
		return false, err
	}
	awarded, err := badges.WithTx(tx).Award(ev.UserID, badge.ID, ev.At)
	if err != nil || !awarded {
		return false, err
	}
	ev.Result.BadgesAwarded = append(ev.Result.BadgesAwarded, key)
	if bonus := game.BadgeBonus(badge.XPValue); bonus.XP > 0 {
		if err := ev.Grant(bonus, "badge"); err != nil {
			return false, err
		}
	}
	return true, nil
}

// GetActiveQuest 最近开始且未完成的 Boss 任务，没有时返回 nil
func (p *QuestPropagator) GetActiveQuest(ctx context.Context, userID string) (*repository.ActiveQuest, error) {
	return p.QuestRepo.WithTx(p.QuestRepo.DB.WithContext(ctx)).FindActive(userID)
}

// MilestonePropagator 发放连胜、累计完成数、整周完成以及任务自带的徽章
type MilestonePropagator struct {
	StatusRepo     *repository.TaskStatusRepository
	BadgeRepo      *repository.BadgeRepository
	CurriculumRepo *repository.CurriculumRepository
}

func NewMilestonePropagator(
	statusRepo *repository.TaskStatusRepository,
	badgeRepo *repository.BadgeRepository,
	curriculumRepo *repository.CurriculumRepository,
) *MilestonePropagator {
	return &MilestonePropagator{StatusRepo: statusRepo, BadgeRepo: badgeRepo, CurriculumRepo: curriculumRepo}
}

func (p *MilestonePropagator) OnTaskCompleted(ctx context.Context, ev *TaskCompleted) error {
	completed, err := p.StatusRepo.WithTx(ev.Tx).CountCompleted(ev.UserID)
	if err != nil {
		return err
	}

	keys := game.MilestoneBadges(ev.Ledger.Streak, completed)
	weekKey, err := p.weekCompletionBadge(ev)
	if err != nil {
		return err
	}
	if weekKey != "" {
		keys = append(keys, weekKey)
	}
	if ev.Task.BadgeReward != "" {
		keys = append(keys, ev.Task.BadgeReward)
	}
	for _, key := range keys {
		if _, err := awardBadgeByKey(ev.Tx, p.CurriculumRepo, p.BadgeRepo, ev, key); err != nil {
			return err
		}
	}
	return nil
}

// weekCompletionBadge 本周任务全部完成时返回周徽章，没有任务的周不算完成
func (p *MilestonePropagator) weekCompletionBadge(ev *TaskCompleted) (string, error) {
	curriculum := p.CurriculumRepo.WithTx(ev.Tx)
	total, err := curriculum.CountTasksByWeek(ev.Task.WeekID)
	if err != nil || total == 0 {
		return "", err
	}
	done, err := p.StatusRepo.WithTx(ev.Tx).CountCompletedInWeek(ev.UserID, ev.Task.WeekID)
	if err != nil || done < total {
		return "", err
	}
	week, err := curriculum.FindWeekByID(ev.Task.WeekID)
	if err != nil {
		return "", err
	}
	return game.WeekBadge(week.WeekNumber), nil
}
