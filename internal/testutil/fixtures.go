package testutil

import (
	"testing"
	"time"

	"codequest_backend/internal/model"

	"gorm.io/gorm"
)

// Clock 可手动推进的时钟
type Clock struct {
	T time.Time
}

func NewClock() *Clock {
	return &Clock{T: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time { return c.T }

func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

func CreateUser(t *testing.T, db *gorm.DB, externalID string, gold int) *model.User {
	t.Helper()
	u := model.NewUser(externalID, "")
	u.Gold = gold
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateTask 在第 1 周下创建任务，周不存在时自动创建
func CreateTask(t *testing.T, db *gorm.DB, key string, xpReward int, diff model.Difficulty) *model.Task {
	t.Helper()
	var week model.Week
	if err := db.Where(model.Week{WeekNumber: 1}).Attrs(model.Week{Title: "Week 1"}).FirstOrCreate(&week).Error; err != nil {
		t.Fatalf("create week: %v", err)
	}
	task := &model.Task{TaskKey: key, WeekID: week.ID, Day: "Mon", XPReward: xpReward, Difficulty: diff}
	if err := db.Create(task).Error; err != nil {
		t.Fatalf("create task: %v", err)
	}
	return task
}

func ReloadUser(t *testing.T, db *gorm.DB, externalID string) *model.User {
	t.Helper()
	var u model.User
	if err := db.Where("external_id = ?", externalID).First(&u).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	return &u
}
