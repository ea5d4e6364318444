package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"codequest_backend/internal/game"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/util"
	"codequest_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RPGState 用户成长面板
type RPGState struct {
	UserID        string     `json:"userId"`
	Username      string     `json:"username"`
	XP            int        `json:"xp"`
	Level         int        `json:"level"`
	XPIntoLevel   int        `json:"xpIntoLevel"`
	XPToNextLevel int        `json:"xpToNextLevel"`
	Gold          int        `json:"gold"`
	Streak        int        `json:"streak"`
	BestStreak    int        `json:"bestStreak"`
	Hearts        int        `json:"hearts"`
	MaxHearts     int        `json:"maxHearts"`
	FocusPoints   int        `json:"focusPoints"`
	MaxFocus      int        `json:"maxFocus"`
	LastCheckinAt *time.Time `json:"lastCheckinAt,omitempty"`
	Registered    bool       `json:"registered"`
}

type UserService struct {
	DB        *gorm.DB
	UserRepo  *repository.UserRepository
	BadgeRepo *repository.BadgeRepository
}

func NewUserService(db *gorm.DB, userRepo *repository.UserRepository, badgeRepo *repository.BadgeRepository) *UserService {
	return &UserService{DB: db, UserRepo: userRepo, BadgeRepo: badgeRepo}
}

// EnsureUser 注册时调用，已存在则直接返回
func (s *UserService) EnsureUser(ctx context.Context, externalID, username string) (*model.User, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, false, fmt.Errorf("%w: empty user id", util.ErrInvalidState)
	}

	db := s.DB.WithContext(ctx)
	user := model.NewUser(externalID, username)
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(user)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0
	if !created {
		existing, err := s.UserRepo.WithTx(db).FindByExternalID(externalID)
		if err != nil {
			return nil, false, err
		}
		user = existing
	} else {
		logger.Log.Info("User registered", zap.String("userId", externalID), zap.String("username", user.Username))
	}
	return user, created, nil
}

// GetRPGState 未注册的用户返回初始面板
func (s *UserService) GetRPGState(ctx context.Context, externalID string) (*RPGState, error) {
	user, err := s.UserRepo.WithTx(s.DB.WithContext(ctx)).FindByExternalID(externalID)
	registered := true
	if errors.Is(err, util.ErrNotFound) {
		user = model.NewUser(externalID, "")
		registered = false
	} else if err != nil {
		return nil, err
	}

	progress := game.ProgressFromXP(user.XP)
	return &RPGState{
		UserID:        user.ExternalID,
		Username:      user.Username,
		XP:            user.XP,
		Level:         progress.Level,
		XPIntoLevel:   progress.XPIntoLevel,
		XPToNextLevel: progress.XPToNextLevel,
		Gold:          user.Gold,
		Streak:        user.Streak,
		BestStreak:    user.BestStreak,
		Hearts:        user.Hearts,
		MaxHearts:     model.MaxHearts,
		FocusPoints:   user.FocusPoints,
		MaxFocus:      model.FocusCap,
		LastCheckinAt: user.LastCheckinAt,
		Registered:    registered,
	}, nil
}

func (s *UserService) GetUserBadges(ctx context.Context, externalID string) ([]repository.EarnedBadge, error) {
	badges, err := s.BadgeRepo.WithTx(s.DB.WithContext(ctx)).ListByUser(externalID)
	if err != nil {
		return nil, err
	}
	if badges == nil {
		badges = []repository.EarnedBadge{}
	}
	return badges, nil
}
