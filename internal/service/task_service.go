package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codequest_backend/internal/game"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"
	"codequest_backend/pkg/monitoring"
	"codequest_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TaskCompleted 任务完成事件，在同一事务内分发给各 Propagator
type TaskCompleted struct {
	Tx     *gorm.DB
	UserID string
	Task   *model.Task
	At     time.Time

	// Ledger 为事务内的最新用户状态，Propagator 通过 Grant 追加奖励
	Ledger game.Ledger
	Result *CompleteTaskResult
}

// Grant 通过账本发放额外经验与金币，不会再次触发事件分发
func (e *TaskCompleted) Grant(reward game.Reward, source string) error {
	next, _, err := game.Apply(e.Ledger, game.RewardGranted{XP: reward.XP, Gold: reward.Gold})
	if err != nil {
		return err
	}
	e.Ledger = next
	e.Result.BonusXP += reward.XP
	e.Result.BonusGold += reward.Gold
	e.Result.bonus[source] = e.Result.bonus[source].Add(reward)
	return nil
}

// TaskPropagator 订阅任务完成事件
type TaskPropagator interface {
	OnTaskCompleted(ctx context.Context, ev *TaskCompleted) error
}

// QuestUpdate 本次完成对某个 Boss 造成的影响
type QuestUpdate struct {
	QuestID         string `json:"questId"`
	Name            string `json:"name"`
	Damage          int    `json:"damage"`
	BossHPRemaining int    `json:"bossHpRemaining"`
	Defeated        bool   `json:"defeated"`
	RewardXP        int    `json:"rewardXp,omitempty"`
	BadgeAwarded    string `json:"badgeAwarded,omitempty"`
}

type CompleteTaskResult struct {
	Success          bool          `json:"success"`
	XPGained         int           `json:"xpGained"`
	GoldGained       int           `json:"goldGained"`
	Streak           int           `json:"streak"`
	StreakFreezeUsed bool          `json:"streakFreezeUsed"`
	LevelUp          bool          `json:"levelUp"`
	OldLevel         int           `json:"oldLevel"`
	NewLevel         int           `json:"newLevel"`
	BonusXP          int           `json:"bonusXp"`
	BonusGold        int           `json:"bonusGold"`
	BadgesAwarded    []string      `json:"badgesAwarded"`
	QuestUpdates     []QuestUpdate `json:"questUpdates"`
	User             *model.User   `json:"user"`

	bonus map[string]game.Reward
}

type UncompleteTaskResult struct {
	Success      bool        `json:"success"`
	XPDeducted   int         `json:"xpDeducted"`
	GoldDeducted int         `json:"goldDeducted"`
	User         *model.User `json:"user"`
}

// ItemTyper 按商品目录解析道具的背包类型
type ItemTyper interface {
	ItemType(key string) string
}

// TaskService 任务完成与撤销，所有写入在一个事务内提交
type TaskService struct {
	DB             *gorm.DB
	UserRepo       *repository.UserRepository
	CurriculumRepo *repository.CurriculumRepository
	StatusRepo     *repository.TaskStatusRepository
	InventoryRepo  *repository.InventoryRepository
	Items          ItemTyper
	Now            func() time.Time

	propagators []TaskPropagator
}

func NewTaskService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	curriculumRepo *repository.CurriculumRepository,
	statusRepo *repository.TaskStatusRepository,
	inventoryRepo *repository.InventoryRepository,
	propagators ...TaskPropagator,
) *TaskService {
	return &TaskService{
		DB:             db,
		UserRepo:       userRepo,
		CurriculumRepo: curriculumRepo,
		StatusRepo:     statusRepo,
		InventoryRepo:  inventoryRepo,
		Now:            time.Now,
		propagators:    propagators,
	}
}

func (s *TaskService) itemType(key string) string {
	if s.Items == nil {
		return game.DefaultItemType
	}
	return s.Items.ItemType(key)
}

// Register 追加一个任务完成事件的订阅者
func (s *TaskService) Register(p TaskPropagator) {
	s.propagators = append(s.propagators, p)
}

// CompleteTask 完成任务：发放奖励、更新连胜、分发事件
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskKey string) (result *CompleteTaskResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "TaskService.CompleteTask",
		attribute.String("user.id", userID), attribute.String("task.key", taskKey))
	defer func() { tracing.End(span, err) }()

	now := s.Now()
	var task *model.Task

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, err = s.CurriculumRepo.WithTx(tx).FindTaskByKey(taskKey)
		if err != nil {
			return err
		}
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByExternalIDForUpdate(userID)
		if err != nil {
			return err
		}

		statuses := s.StatusRepo.WithTx(tx)
		status, err := statuses.Find(userID, task.ID)
		if err != nil {
			return err
		}
		if status != nil && status.Completed {
			return fmt.Errorf("%w: %s", util.ErrAlreadyCompleted, taskKey)
		}

		reward, err := game.TaskReward(task.XPReward, task.Difficulty)
		if err != nil {
			return err
		}

		if status == nil {
			status = &model.UserTaskStatus{UserID: userID, TaskID: task.ID}
		}
		status.Completed = true
		status.CompletedAt = &now
		status.XPGranted = reward.XP
		status.GoldGranted = reward.Gold
		if err := statuses.Save(status); err != nil {
			return err
		}

		ledger := game.LedgerOf(user)
		oldLevel := ledger.Level
		ledger, _, err = game.Apply(ledger, game.RewardGranted{XP: reward.XP, Gold: reward.Gold})
		if err != nil {
			return err
		}

		inventory := s.InventoryRepo.WithTx(tx)
		freeze, err := inventory.Find(userID, s.itemType(game.ItemStreakFreeze), game.ItemStreakFreeze)
		if err != nil {
			return err
		}
		ledger, outcome, err := game.Apply(ledger, game.CheckedIn{At: now, FreezeAvailable: freeze != nil})
		if err != nil {
			return err
		}
		if outcome.FreezeConsumed {
			if err := inventory.Consume(freeze); err != nil {
				return err
			}
		}
		ledger, _, err = game.Apply(ledger, game.FocusRefreshed{At: now})
		if err != nil {
			return err
		}

		res := &CompleteTaskResult{
			Success:          true,
			XPGained:         reward.XP,
			GoldGained:       reward.Gold,
			StreakFreezeUsed: outcome.FreezeConsumed,
			OldLevel:         oldLevel,
			BadgesAwarded:    []string{},
			QuestUpdates:     []QuestUpdate{},
			bonus:            map[string]game.Reward{},
		}
		ev := &TaskCompleted{Tx: tx, UserID: userID, Task: task, At: now, Ledger: ledger, Result: res}
		for _, p := range s.propagators {
			if err := p.OnTaskCompleted(ctx, ev); err != nil {
				return err
			}
		}

		ev.Ledger.WriteTo(user)
		if err := users.SaveProgress(user); err != nil {
			return err
		}

		res.Streak = user.Streak
		res.NewLevel = user.Level
		res.LevelUp = user.Level > oldLevel
		res.User = user
		result = res
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Log.Error("Complete task failed", zap.String("userId", userID), zap.String("taskId", taskKey), zap.Error(err))
		}
		return nil, err
	}

	monitoring.TasksCompleted.WithLabelValues(string(task.Difficulty)).Inc()
	monitoring.XPGranted.WithLabelValues("task").Add(float64(result.XPGained))
	monitoring.GoldGranted.WithLabelValues("task").Add(float64(result.GoldGained))
	for source, r := range result.bonus {
		monitoring.XPGranted.WithLabelValues(source).Add(float64(r.XP))
		monitoring.GoldGranted.WithLabelValues(source).Add(float64(r.Gold))
	}
	for _, q := range result.QuestUpdates {
		if q.Defeated {
			monitoring.BossesDefeated.Inc()
		}
	}

	logger.Log.Info("Task completed",
		zap.String("userId", userID),
		zap.String("taskId", taskKey),
		zap.Int("xpGained", result.XPGained),
		zap.Int("goldGained", result.GoldGained),
		zap.Int("bonusXp", result.BonusXP),
		zap.Int("bonusGold", result.BonusGold),
		zap.Int("streak", result.Streak),
		zap.Bool("levelUp", result.LevelUp),
	)
	return result, nil
}

// UncompleteTask 撤销完成，按记录的发放值扣回经验与金币。
// Boss 伤害、徽章与连胜不回退
func (s *TaskService) UncompleteTask(ctx context.Context, userID, taskKey string) (result *UncompleteTaskResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "TaskService.UncompleteTask",
		attribute.String("user.id", userID), attribute.String("task.key", taskKey))
	defer func() { tracing.End(span, err) }()

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := s.CurriculumRepo.WithTx(tx).FindTaskByKey(taskKey)
		if err != nil {
			return err
		}
		users := s.UserRepo.WithTx(tx)
		user, err := users.FindByExternalIDForUpdate(userID)
		if err != nil {
			return err
		}

		statuses := s.StatusRepo.WithTx(tx)
		status, err := statuses.Find(userID, task.ID)
		if err != nil {
			return err
		}
		if status == nil || !status.Completed {
			return fmt.Errorf("%w: %s", util.ErrNotCompleted, taskKey)
		}

		xp, gold := status.XPGranted, status.GoldGranted
		ledger, _, err := game.Apply(game.LedgerOf(user), game.RewardRevoked{XP: xp, Gold: gold})
		if err != nil {
			return err
		}

		status.Completed = false
		status.CompletedAt = nil
		status.XPGranted = 0
		status.GoldGranted = 0
		if err := statuses.Save(status); err != nil {
			return err
		}

		ledger.WriteTo(user)
		if err := users.SaveProgress(user); err != nil {
			return err
		}

		result = &UncompleteTaskResult{Success: true, XPDeducted: xp, GoldDeducted: gold, User: user}
		return nil
	})
	if err != nil {
		if !isDomainError(err) {
			logger.Log.Error("Uncomplete task failed", zap.String("userId", userID), zap.String("taskId", taskKey), zap.Error(err))
		}
		return nil, err
	}

	monitoring.TasksUncompleted.Inc()
	logger.Log.Info("Task uncompleted",
		zap.String("userId", userID),
		zap.String("taskId", taskKey),
		zap.Int("xpDeducted", result.XPDeducted),
		zap.Int("goldDeducted", result.GoldDeducted),
	)
	return result, nil
}

// isDomainError 业务错误不记录为系统错误
func isDomainError(err error) bool {
	for _, target := range []error{
		util.ErrNotFound,
		util.ErrAlreadyCompleted,
		util.ErrNotCompleted,
		util.ErrUnknownItem,
		util.ErrInsufficientGold,
		util.ErrInvalidState,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
