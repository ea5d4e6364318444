package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"codequest_backend/internal/config"
	"codequest_backend/internal/game"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const minioScheme = "minio://"

// Bundle 课程数据包
type Bundle struct {
	Weeks     []BundleWeek     `yaml:"weeks" json:"weeks"`
	Badges    []BundleBadge    `yaml:"badges" json:"badges"`
	Quests    []BundleQuest    `yaml:"quests" json:"quests"`
	Questions []BundleQuestion `yaml:"questions" json:"questions"`
}

type BundleWeek struct {
	WeekNumber    int          `yaml:"weekNumber" json:"weekNumber"`
	Title         string       `yaml:"title" json:"title"`
	Focus         string       `yaml:"focus" json:"focus"`
	Milestone     string       `yaml:"milestone" json:"milestone"`
	CheckinPrompt string       `yaml:"checkinPrompt" json:"checkinPrompt"`
	Tasks         []BundleTask `yaml:"tasks" json:"tasks"`
}

type BundleTask struct {
	TaskKey     string `yaml:"taskId" json:"taskId"`
	Day         string `yaml:"day" json:"day"`
	Description string `yaml:"description" json:"description"`
	Type        string `yaml:"type" json:"type"`
	XPReward    int    `yaml:"xpReward" json:"xpReward"`
	Difficulty  string `yaml:"difficulty" json:"difficulty"`
	Category    string `yaml:"category" json:"category"`
	BadgeReward string `yaml:"badgeReward" json:"badgeReward"`
}

type BundleBadge struct {
	BadgeKey    string `yaml:"badgeId" json:"badgeId"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	XPValue     int    `yaml:"xpValue" json:"xpValue"`
}

type BundleQuest struct {
	QuestKey       string            `yaml:"questId" json:"questId"`
	Name           string            `yaml:"name" json:"name"`
	Description    string            `yaml:"description" json:"description"`
	BossHP         int               `yaml:"bossHp" json:"bossHp"`
	RewardXPBonus  int               `yaml:"rewardXpBonus" json:"rewardXpBonus"`
	RewardBadgeKey string            `yaml:"rewardBadgeId" json:"rewardBadgeId"`
	Tasks          []BundleQuestTask `yaml:"tasks" json:"tasks"`
}

// BundleQuestTask Damage 为空时取任务的 xpReward
type BundleQuestTask struct {
	TaskKey string `yaml:"taskId" json:"taskId"`
	Damage  *int   `yaml:"damage" json:"damage"`
}

type BundleQuestion struct {
	QuizID       string   `yaml:"quizId" json:"quizId"`
	QuestionType string   `yaml:"questionType" json:"questionType"`
	Text         string   `yaml:"text" json:"text"`
	Code         string   `yaml:"code" json:"code"`
	Options      []string `yaml:"options" json:"options"`
	CorrectIndex *int     `yaml:"correctIndex" json:"correctIndex"`
	StarterCode  string   `yaml:"starterCode" json:"starterCode"`
	SolutionCode string   `yaml:"solutionCode" json:"solutionCode"`
	Explanation  string   `yaml:"explanation" json:"explanation"`
	Difficulty   string   `yaml:"difficulty" json:"difficulty"`
	TopicTag     string   `yaml:"topicTag" json:"topicTag"`
}

type ImportSummary struct {
	Source     string `json:"source"`
	Weeks      int    `json:"weeks"`
	Tasks      int    `json:"tasks"`
	Badges     int    `json:"badges"`
	Quests     int    `json:"quests"`
	QuestTasks int    `json:"questTasks"`
	Questions  int    `json:"questions"`
}

// ObjectFetcher 从对象存储读取数据包
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}

// MinioFetcher 基于 minio-go 的实现
type MinioFetcher struct {
	Client *minio.Client
}

func NewMinioFetcher(cfg *config.StorageConfig) (*MinioFetcher, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, err
	}
	return &MinioFetcher{Client: client}, nil
}

func (f *MinioFetcher) Fetch(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := f.Client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

// ImportService 课程数据导入，按业务主键幂等写入
type ImportService struct {
	DB             *gorm.DB
	CurriculumRepo *repository.CurriculumRepository
	ReviewRepo     *repository.ReviewRepository
	Fetcher        ObjectFetcher
	Curriculum     *CurriculumService
	DefaultBucket  string
}

func NewImportService(
	db *gorm.DB,
	curriculumRepo *repository.CurriculumRepository,
	reviewRepo *repository.ReviewRepository,
	fetcher ObjectFetcher,
	curriculum *CurriculumService,
	defaultBucket string,
) *ImportService {
	return &ImportService{
		DB:             db,
		CurriculumRepo: curriculumRepo,
		ReviewRepo:     reviewRepo,
		Fetcher:        fetcher,
		Curriculum:     curriculum,
		DefaultBucket:  defaultBucket,
	}
}

// Import 读取 source（本地路径或 minio://bucket/key）并写入数据库
func (s *ImportService) Import(ctx context.Context, source string) (*ImportSummary, error) {
	data, err := s.read(ctx, source)
	if err != nil {
		return nil, err
	}
	bundle, err := ParseBundle(data, path.Ext(source))
	if err != nil {
		return nil, err
	}
	summary, err := s.Apply(ctx, bundle)
	if err != nil {
		return nil, err
	}
	summary.Source = source

	if s.Curriculum != nil {
		s.Curriculum.Invalidate(ctx)
	}
	logger.Log.Info("Curriculum imported",
		zap.String("source", source),
		zap.Int("weeks", summary.Weeks),
		zap.Int("tasks", summary.Tasks),
		zap.Int("quests", summary.Quests),
		zap.Int("questions", summary.Questions),
	)
	return summary, nil
}

func (s *ImportService) read(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, minioScheme) {
		data, err := os.ReadFile(source)
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: bundle %s", util.ErrNotFound, source)
		}
		return data, err
	}
	if s.Fetcher == nil {
		return nil, fmt.Errorf("object storage is not configured for %s", source)
	}
	rest := strings.TrimPrefix(source, minioScheme)
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || key == "" {
		bucket, key = s.DefaultBucket, rest
	}
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("%w: invalid object source %q", util.ErrInvalidState, source)
	}
	return s.Fetcher.Fetch(ctx, bucket, key)
}

// ParseBundle 按扩展名选择 JSON 或 YAML
func ParseBundle(data []byte, ext string) (*Bundle, error) {
	var b Bundle
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse json bundle: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("parse yaml bundle: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported bundle format %q", util.ErrInvalidState, ext)
	}
	return &b, nil
}

// Apply 在一个事务内写入数据包
func (s *ImportService) Apply(ctx context.Context, b *Bundle) (*ImportSummary, error) {
	summary := &ImportSummary{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.CurriculumRepo.WithTx(tx)
		tasks := make(map[string]model.Task)

		for _, bb := range b.Badges {
			badge := &model.Badge{BadgeKey: bb.BadgeKey, Name: bb.Name, Description: bb.Description, XPValue: bb.XPValue}
			if err := repo.UpsertBadge(badge); err != nil {
				return fmt.Errorf("badge %s: %w", bb.BadgeKey, err)
			}
			summary.Badges++
		}

		for _, bw := range b.Weeks {
			week := &model.Week{
				WeekNumber:    bw.WeekNumber,
				Title:         bw.Title,
				Focus:         bw.Focus,
				Milestone:     bw.Milestone,
				CheckinPrompt: bw.CheckinPrompt,
			}
			if err := repo.UpsertWeek(week); err != nil {
				return fmt.Errorf("week %d: %w", bw.WeekNumber, err)
			}
			var stored model.Week
			if err := repo.Reload(&stored, "week_number", bw.WeekNumber); err != nil {
				return err
			}
			summary.Weeks++

			for _, bt := range bw.Tasks {
				diff := model.Difficulty(bt.Difficulty)
				if diff == "" {
					diff = model.DifficultyNormal
				}
				if _, err := game.Multiplier(diff); err != nil {
					return fmt.Errorf("task %s: %w", bt.TaskKey, err)
				}
				if bt.XPReward < 0 {
					return fmt.Errorf("%w: task %s has negative xpReward", util.ErrInvalidState, bt.TaskKey)
				}
				task := &model.Task{
					TaskKey:     bt.TaskKey,
					WeekID:      stored.ID,
					Day:         bt.Day,
					Description: bt.Description,
					Type:        bt.Type,
					XPReward:    bt.XPReward,
					Difficulty:  diff,
					Category:    bt.Category,
					BadgeReward: bt.BadgeReward,
				}
				if err := repo.UpsertTask(task); err != nil {
					return fmt.Errorf("task %s: %w", bt.TaskKey, err)
				}
				var storedTask model.Task
				if err := repo.Reload(&storedTask, "task_key", bt.TaskKey); err != nil {
					return err
				}
				tasks[bt.TaskKey] = storedTask
				summary.Tasks++
			}
		}

		for _, bq := range b.Quests {
			if bq.BossHP <= 0 {
				return fmt.Errorf("%w: quest %s must have positive bossHp", util.ErrInvalidState, bq.QuestKey)
			}
			quest := &model.Quest{
				QuestKey:       bq.QuestKey,
				Name:           bq.Name,
				Description:    bq.Description,
				BossHP:         bq.BossHP,
				RewardXPBonus:  bq.RewardXPBonus,
				RewardBadgeKey: bq.RewardBadgeKey,
			}
			if err := repo.UpsertQuest(quest); err != nil {
				return fmt.Errorf("quest %s: %w", bq.QuestKey, err)
			}
			var storedQuest model.Quest
			if err := repo.Reload(&storedQuest, "quest_key", bq.QuestKey); err != nil {
				return err
			}
			summary.Quests++

			for _, bqt := range bq.Tasks {
				task, ok := tasks[bqt.TaskKey]
				if !ok {
					found, err := repo.FindTaskByKey(bqt.TaskKey)
					if err != nil {
						return fmt.Errorf("quest %s: %w", bq.QuestKey, err)
					}
					task = *found
				}
				damage := task.XPReward
				if bqt.Damage != nil {
					damage = *bqt.Damage
				}
				qt := &model.QuestTask{QuestID: storedQuest.ID, TaskID: task.ID, DamageAmount: damage}
				if err := repo.UpsertQuestTask(qt); err != nil {
					return err
				}
				summary.QuestTasks++
			}
		}

		reviews := s.ReviewRepo.WithTx(tx)
		for _, bq := range b.Questions {
			q := &model.Question{
				QuizID:       bq.QuizID,
				QuestionType: bq.QuestionType,
				Text:         bq.Text,
				Code:         bq.Code,
				CorrectIndex: bq.CorrectIndex,
				StarterCode:  bq.StarterCode,
				SolutionCode: bq.SolutionCode,
				Explanation:  bq.Explanation,
				Difficulty:   bq.Difficulty,
				TopicTag:     bq.TopicTag,
			}
			if len(bq.Options) > 0 {
				opts, err := json.Marshal(bq.Options)
				if err != nil {
					return err
				}
				q.Options = datatypes.JSON(opts)
			}
			if err := reviews.UpsertQuestion(q); err != nil {
				return fmt.Errorf("question %q: %w", bq.Text, err)
			}
			summary.Questions++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
