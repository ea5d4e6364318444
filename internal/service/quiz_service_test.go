package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"codequest_backend/internal/model"
	"codequest_backend/internal/testutil"
	"codequest_backend/internal/util"
)

func TestGetQuizQuestionsInsertionOrder(t *testing.T) {
	e := newEngine(t)
	a := e.createQuestion(t, "quiz-1", "first")
	b := e.createQuestion(t, "quiz-1", "second")
	e.createQuestion(t, "quiz-2", "other")

	qs, err := e.quizzes.GetQuizQuestions(context.Background(), "quiz-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 || qs[0].ID != a.ID || qs[1].ID != b.ID {
		t.Errorf("questions = %+v", qs)
	}
}

func TestSubmitQuizResultValidation(t *testing.T) {
	e := newEngine(t)
	bad := []SubmitQuizInput{
		{UserID: "u1", QuizID: "q", Score: 1, TotalQuestions: 0},
		{UserID: "u1", QuizID: "q", Score: -1, TotalQuestions: 5},
		{UserID: "u1", QuizID: "q", Score: 6, TotalQuestions: 5},
	}
	for _, in := range bad {
		if _, err := e.quizzes.SubmitQuizResult(context.Background(), in); !errors.Is(err, util.ErrInvalidState) {
			t.Errorf("%+v: expected ErrInvalidState, got %v", in, err)
		}
	}
	if n := e.countRows(t, &model.QuizResult{}, "1 = 1"); n != 0 {
		t.Errorf("rows written: %d", n)
	}
}

func TestSubmitQuizResultNoLedgerCoupling(t *testing.T) {
	e := newEngine(t)
	testutil.CreateUser(t, e.db, "u1", 5)

	res, err := e.quizzes.SubmitQuizResult(context.Background(), SubmitQuizInput{UserID: "u1", QuizID: "quiz-1", Score: 5, TotalQuestions: 5})
	if err != nil {
		t.Fatal(err)
	}
	if res.ID == "" || !res.CompletedAt.Equal(e.clock.Now()) {
		t.Errorf("result = %+v", res)
	}
	u := testutil.ReloadUser(t, e.db, "u1")
	if u.XP != 0 || u.Gold != 5 {
		t.Errorf("ledger changed: xp=%d gold=%d", u.XP, u.Gold)
	}
}

func TestSubmitQuizResultEnqueuesIncorrect(t *testing.T) {
	e := newEngine(t)
	q1 := e.createQuestion(t, "quiz-1", "a")
	q2 := e.createQuestion(t, "quiz-1", "b")

	_, err := e.quizzes.SubmitQuizResult(context.Background(), SubmitQuizInput{
		UserID: "u1", QuizID: "quiz-1", Score: 0, TotalQuestions: 2,
		IncorrectQuestionIDs: []uint{q1.ID, q2.ID},
	})
	if err != nil {
		t.Fatal(err)
	}
	if n := e.countRows(t, &model.UserQuestionReview{}, "user_id = ? AND interval_index = 0", "u1"); n != 2 {
		t.Errorf("reviews = %d", n)
	}
}

func TestSubmitQuizResultUnknownIncorrectRollsBack(t *testing.T) {
	e := newEngine(t)
	_, err := e.quizzes.SubmitQuizResult(context.Background(), SubmitQuizInput{
		UserID: "u1", QuizID: "quiz-1", Score: 0, TotalQuestions: 1,
		IncorrectQuestionIDs: []uint{404},
	})
	if !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n := e.countRows(t, &model.QuizResult{}, "1 = 1"); n != 0 {
		t.Errorf("result kept after rollback: %d", n)
	}
}

func TestQuizHistoryAndBest(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	scores := []int{3, 5, 4}
	for _, s := range scores {
		if _, err := e.quizzes.SubmitQuizResult(ctx, SubmitQuizInput{UserID: "u1", QuizID: "quiz-1", Score: s, TotalQuestions: 5}); err != nil {
			t.Fatal(err)
		}
		e.clock.Advance(time.Minute)
	}

	history, err := e.quizzes.GetHistory(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 3 || history[0].Score != 4 || history[2].Score != 3 {
		t.Errorf("history = %+v", history)
	}

	best, err := e.quizzes.GetBestScore(ctx, "u1", "quiz-1")
	if err != nil || best == nil || best.Score != 5 {
		t.Errorf("best = %+v err = %v", best, err)
	}
	none, err := e.quizzes.GetBestScore(ctx, "u1", "quiz-9")
	if err != nil || none != nil {
		t.Errorf("expected no best score, got %+v %v", none, err)
	}
}
