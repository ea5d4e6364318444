package service

import (
	"context"
	"testing"
	"time"

	"codequest_backend/internal/model"
	"codequest_backend/internal/testutil"
)

func (e *engine) createQuest(t *testing.T, key string, hp, bonus int, badge string, links map[*model.Task]int) *model.Quest {
	t.Helper()
	q := &model.Quest{QuestKey: key, Name: key, BossHP: hp, RewardXPBonus: bonus, RewardBadgeKey: badge}
	if err := e.db.Create(q).Error; err != nil {
		t.Fatalf("create quest: %v", err)
	}
	for task, dmg := range links {
		if err := e.db.Create(&model.QuestTask{QuestID: q.ID, TaskID: task.ID, DamageAmount: dmg}).Error; err != nil {
			t.Fatalf("create quest task: %v", err)
		}
	}
	return q
}

func TestQuestDamageAndDefeat(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	testutil.CreateUser(t, e.db, "u1", 0)
	t1 := testutil.CreateTask(t, e.db, "t1", 100, model.DifficultyNormal)
	t2 := testutil.CreateTask(t, e.db, "t2", 100, model.DifficultyNormal)
	e.createBadge(t, "b-boss")
	e.createQuest(t, "q-loops", 150, 50, "b-boss", map[*model.Task]int{t1: 100, t2: 100})

	res, err := e.tasks.CompleteTask(ctx, "u1", "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.QuestUpdates) != 1 || res.QuestUpdates[0].BossHPRemaining != 50 || res.QuestUpdates[0].Defeated {
		t.Fatalf("first update = %+v", res.QuestUpdates)
	}

	active, err := e.quests.GetActiveQuest(ctx, "u1")
	if err != nil || active == nil {
		t.Fatalf("active quest = %v, %v", active, err)
	}
	if active.Quest.QuestKey != "q-loops" || active.UserQuest.BossHPRemaining != 50 {
		t.Errorf("active = %+v", active)
	}

	e.clock.Advance(time.Hour)
	res, err = e.tasks.CompleteTask(ctx, "u1", "t2")
	if err != nil {
		t.Fatal(err)
	}
	up := res.QuestUpdates[0]
	if !up.Defeated || up.BossHPRemaining != 0 || up.RewardXP != 50 || up.BadgeAwarded != "b-boss" {
		t.Errorf("defeat update = %+v", up)
	}

	u := testutil.ReloadUser(t, e.db, "u1")
	if u.XP != 250 {
		t.Errorf("xp = %d, want task xp plus quest bonus", u.XP)
	}
	if u.Gold != 20 {
		t.Errorf("quest bonus granted gold: %d", u.Gold)
	}

	var uq model.UserQuest
	e.db.Where("user_id = ?", "u1").First(&uq)
	if uq.CompletedAt == nil || !uq.CompletedAt.Equal(e.clock.Now()) {
		t.Errorf("completedAt = %v", uq.CompletedAt)
	}

	active, err = e.quests.GetActiveQuest(ctx, "u1")
	if err != nil || active != nil {
		t.Errorf("expected no active quest, got %+v %v", active, err)
	}
}

func TestDefeatedQuestIsNotRestarted(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	testutil.CreateUser(t, e.db, "u1", 0)
	t1 := testutil.CreateTask(t, e.db, "t1", 100, model.DifficultyNormal)
	e.createQuest(t, "q1", 50, 10, "", map[*model.Task]int{t1: 100})

	if _, err := e.tasks.CompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.tasks.UncompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	res, err := e.tasks.CompleteTask(ctx, "u1", "t1")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.QuestUpdates) != 0 {
		t.Errorf("defeated boss damaged again: %+v", res.QuestUpdates)
	}
	if n := e.countRows(t, &model.UserQuest{}, "user_id = ?", "u1"); n != 1 {
		t.Errorf("user quest rows = %d", n)
	}
	u := testutil.ReloadUser(t, e.db, "u1")
	if u.XP != 110 {
		t.Errorf("xp = %d, bonus must only be granted once", u.XP)
	}
}

func TestUncompleteDoesNotHealBoss(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	testutil.CreateUser(t, e.db, "u1", 0)
	t1 := testutil.CreateTask(t, e.db, "t1", 40, model.DifficultyNormal)
	e.createQuest(t, "q1", 100, 0, "", map[*model.Task]int{t1: 40})

	if _, err := e.tasks.CompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.tasks.UncompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	var uq model.UserQuest
	e.db.Where("user_id = ?", "u1").First(&uq)
	if uq.BossHPRemaining != 60 {
		t.Errorf("boss hp = %d", uq.BossHPRemaining)
	}
}

func TestQuestsArePerUser(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	testutil.CreateUser(t, e.db, "u1", 0)
	testutil.CreateUser(t, e.db, "u2", 0)
	t1 := testutil.CreateTask(t, e.db, "t1", 30, model.DifficultyNormal)
	e.createQuest(t, "q1", 100, 0, "", map[*model.Task]int{t1: 30})

	for _, uid := range []string{"u1", "u2"} {
		res, err := e.tasks.CompleteTask(ctx, uid, "t1")
		if err != nil {
			t.Fatal(err)
		}
		if res.QuestUpdates[0].BossHPRemaining != 70 {
			t.Errorf("%s: hp = %d", uid, res.QuestUpdates[0].BossHPRemaining)
		}
	}
}

func TestQuestBadgeAwardedOnce(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	testutil.CreateUser(t, e.db, "u1", 0)
	t1 := testutil.CreateTask(t, e.db, "t1", 10, model.DifficultyNormal)
	t2 := testutil.CreateTask(t, e.db, "t2", 10, model.DifficultyNormal)
	e.createBadge(t, "b-shared")
	e.createQuest(t, "qa", 10, 0, "b-shared", map[*model.Task]int{t1: 10})
	e.createQuest(t, "qb", 10, 0, "b-shared", map[*model.Task]int{t2: 10})

	if _, err := e.tasks.CompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	res, err := e.tasks.CompleteTask(ctx, "u1", "t2")
	if err != nil {
		t.Fatal(err)
	}
	if res.QuestUpdates[0].BadgeAwarded != "" {
		t.Errorf("badge awarded twice: %+v", res.QuestUpdates[0])
	}
	if n := e.countRows(t, &model.UserBadge{}, "user_id = ?", "u1"); n != 1 {
		t.Errorf("user badges = %d", n)
	}
}
