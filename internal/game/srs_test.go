package game

import (
	"testing"
	"time"

	"codequest_backend/internal/model"
)

func TestApplyReviewCorrectAdvances(t *testing.T) {
	r := NewReview("u1", 1, base)
	for i := 1; i <= 3; i++ {
		now := at(time.Duration(i) * time.Hour)
		prevIdx, prevCount := r.IntervalIndex, r.SuccessCount
		ApplyReview(r, true, now)
		if r.IntervalIndex <= prevIdx || r.SuccessCount != prevCount+1 {
			t.Fatalf("step %d: index %d->%d count %d->%d", i, prevIdx, r.IntervalIndex, prevCount, r.SuccessCount)
		}
		if !r.DueDate.Equal(now.Add(ReviewIntervals[r.IntervalIndex])) {
			t.Errorf("step %d: due = %v", i, r.DueDate)
		}
		if r.IsMastered {
			t.Errorf("step %d: mastered too early", i)
		}
	}

	ApplyReview(r, true, at(10*time.Hour))
	if r.IntervalIndex != MaxIntervalIndex {
		t.Errorf("index exceeded cap: %d", r.IntervalIndex)
	}
	if r.SuccessCount != 4 || !r.IsMastered {
		t.Errorf("count=%d mastered=%v", r.SuccessCount, r.IsMastered)
	}
}

func TestApplyReviewIncorrectResets(t *testing.T) {
	for idx := 0; idx <= MaxIntervalIndex; idx++ {
		r := &model.UserQuestionReview{IntervalIndex: idx, SuccessCount: idx + 2, IsMastered: idx == MaxIntervalIndex}
		ApplyReview(r, false, base)
		if r.IntervalIndex != 0 || r.SuccessCount != 0 || r.IsMastered {
			t.Errorf("from index %d: got %+v", idx, r)
		}
		if !r.DueDate.Equal(base.Add(24 * time.Hour)) {
			t.Errorf("due = %v", r.DueDate)
		}
		if r.LastReviewedAt == nil || !r.LastReviewedAt.Equal(base) {
			t.Errorf("lastReviewedAt = %v", r.LastReviewedAt)
		}
	}
}

func TestResetReview(t *testing.T) {
	r := &model.UserQuestionReview{IntervalIndex: 3, SuccessCount: 5, IsMastered: true}
	ResetReview(r, base)
	if r.IntervalIndex != 0 || r.SuccessCount != 0 || r.IsMastered || !r.DueDate.Equal(base.Add(24*time.Hour)) {
		t.Errorf("got %+v", r)
	}
}
