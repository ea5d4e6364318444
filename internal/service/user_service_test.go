package service

import (
	"context"
	"testing"

	"codequest_backend/internal/model"
	"codequest_backend/internal/testutil"
)

func TestEnsureUserIsIdempotent(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	u, created, err := e.users.EnsureUser(ctx, "ext-123456789", "")
	if err != nil || !created {
		t.Fatalf("created=%v err=%v", created, err)
	}
	if u.Username != "user_ext-1234" || u.Level != 1 || u.Hearts != model.MaxHearts {
		t.Errorf("user = %+v", u)
	}

	again, created, err := e.users.EnsureUser(ctx, "ext-123456789", "renamed")
	if err != nil || created || again.ID != u.ID || again.Username != u.Username {
		t.Errorf("again = %+v created=%v err=%v", again, created, err)
	}
}

func TestGetRPGState(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	st, err := e.users.GetRPGState(ctx, "nobody")
	if err != nil {
		t.Fatal(err)
	}
	if st.Registered || st.Level != 1 || st.Hearts != 5 || st.XP != 0 {
		t.Errorf("default state = %+v", st)
	}

	testutil.CreateUser(t, e.db, "u1", 0)
	testutil.CreateTask(t, e.db, "t1", 100, model.DifficultyHard)
	if _, err := e.tasks.CompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	st, err = e.users.GetRPGState(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !st.Registered || st.XP != 150 || st.Gold != 15 || st.Level != 2 || st.XPIntoLevel != 50 || st.Streak != 1 {
		t.Errorf("state = %+v", st)
	}
}

func TestGetUserBadges(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	testutil.CreateUser(t, e.db, "u1", 0)
	e.createBadge(t, "a-first-task")
	testutil.CreateTask(t, e.db, "t1", 10, model.DifficultyNormal)

	badges, err := e.users.GetUserBadges(ctx, "u1")
	if err != nil || len(badges) != 0 {
		t.Fatalf("badges = %v err = %v", badges, err)
	}
	if _, err := e.tasks.CompleteTask(ctx, "u1", "t1"); err != nil {
		t.Fatal(err)
	}
	badges, _ = e.users.GetUserBadges(ctx, "u1")
	if len(badges) != 1 || badges[0].BadgeKey != "a-first-task" {
		t.Errorf("badges = %+v", badges)
	}
}
