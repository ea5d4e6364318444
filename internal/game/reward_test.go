package game

import (
	"errors"
	"testing"

	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
)

func TestTaskReward(t *testing.T) {
	tests := []struct {
		name     string
		xpReward int
		diff     model.Difficulty
		wantXP   int
		wantGold int
	}{
		{"normal", 100, model.DifficultyNormal, 100, 10},
		{"hard", 100, model.DifficultyHard, 150, 15},
		{"trivial", 100, model.DifficultyTrivial, 50, 5},
		{"boss", 100, model.DifficultyBoss, 200, 20},
		{"trivial odd floors xp", 15, model.DifficultyTrivial, 7, 1},
		{"gold rounds half up", 25, model.DifficultyNormal, 25, 3},
		{"gold rounds down", 24, model.DifficultyNormal, 24, 2},
		{"zero", 0, model.DifficultyHard, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := TaskReward(tt.xpReward, tt.diff)
			if err != nil {
				t.Fatalf("TaskReward: %v", err)
			}
			if r.XP != tt.wantXP || r.Gold != tt.wantGold {
				t.Errorf("got xp=%d gold=%d, want xp=%d gold=%d", r.XP, r.Gold, tt.wantXP, tt.wantGold)
			}
			if r.Gold != GoldFor(r.XP) {
				t.Errorf("gold %d does not match GoldFor(%d)", r.Gold, r.XP)
			}
		})
	}
}

func TestTaskRewardRejectsUnknownDifficulty(t *testing.T) {
	if _, err := TaskReward(100, "legendary"); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := TaskReward(-1, model.DifficultyNormal); !errors.Is(err, util.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState for negative reward, got %v", err)
	}
}
