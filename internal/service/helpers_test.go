package service

import (
	"testing"

	"codequest_backend/internal/config"
	"codequest_backend/internal/model"
	"codequest_backend/internal/repository"
	"codequest_backend/internal/testutil"

	"gorm.io/gorm"
)

type engine struct {
	db         *gorm.DB
	clock      *testutil.Clock
	tasks      *TaskService
	quests     *QuestPropagator
	shop       *ShopService
	reviews    *ReviewService
	quizzes    *QuizService
	users      *UserService
	curriculum *CurriculumService
	importer   *ImportService
}

func defaultShop() config.ShopConfig {
	return config.ShopConfig{Items: map[string]config.ShopItemConfig{
		"streak_freeze": {Cost: 50, ItemType: "consumable"},
		"potion_focus":  {Cost: 30, ItemType: "consumable"},
		"heart_refill":  {Cost: 40, ItemType: "consumable"},
	}}
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	db := testutil.OpenTestDB(t)
	clock := testutil.NewClock()

	userRepo := repository.NewUserRepository(db)
	curriculumRepo := repository.NewCurriculumRepository(db)
	statusRepo := repository.NewTaskStatusRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	questRepo := repository.NewQuestRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	quizRepo := repository.NewQuizResultRepository(db)

	quests := NewQuestPropagator(questRepo, badgeRepo, curriculumRepo)
	milestones := NewMilestonePropagator(statusRepo, badgeRepo, curriculumRepo)

	e := &engine{
		db:       db,
		clock:    clock,
		tasks:    NewTaskService(db, userRepo, curriculumRepo, statusRepo, inventoryRepo, quests, milestones),
		quests:   quests,
		shop:     NewShopService(db, userRepo, inventoryRepo, defaultShop()),
		reviews:  NewReviewService(db, reviewRepo),
		quizzes:  NewQuizService(db, quizRepo, reviewRepo),
		users:    NewUserService(db, userRepo, badgeRepo),
	}
	e.curriculum = NewCurriculumService(db, curriculumRepo, statusRepo, nil, 0)
	e.importer = NewImportService(db, curriculumRepo, reviewRepo, nil, e.curriculum, "")

	e.tasks.Items = e.shop
	e.tasks.Now = clock.Now
	e.shop.Now = clock.Now
	e.reviews.Now = clock.Now
	e.quizzes.Now = clock.Now
	return e
}

func (e *engine) createQuestion(t *testing.T, quizID, text string) *model.Question {
	t.Helper()
	q := &model.Question{QuizID: quizID, QuestionType: "multiple_choice", Text: text, Difficulty: "easy"}
	if err := e.db.Create(q).Error; err != nil {
		t.Fatalf("create question: %v", err)
	}
	return q
}

func (e *engine) createBadge(t *testing.T, key string) *model.Badge {
	t.Helper()
	return e.createBadgeWorth(t, key, 0)
}

func (e *engine) createBadgeWorth(t *testing.T, key string, xpValue int) *model.Badge {
	t.Helper()
	b := &model.Badge{BadgeKey: key, Name: key, XPValue: xpValue}
	if err := e.db.Create(b).Error; err != nil {
		t.Fatalf("create badge: %v", err)
	}
	return b
}

func (e *engine) countRows(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	if err := e.db.Model(m).Where(query, args...).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
