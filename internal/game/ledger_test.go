package game

import (
	"errors"
	"testing"
	"time"

	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func at(h time.Duration) time.Time { return base.Add(h) }

func TestApplyRewardGrantedRecomputesLevel(t *testing.T) {
	l := Ledger{Level: 1}
	got, _, err := Apply(l, RewardGranted{XP: 120, Gold: 12})
	if err != nil {
		t.Fatal(err)
	}
	if got.XP != 120 || got.Gold != 12 || got.Level != 2 {
		t.Errorf("got %+v", got)
	}
	if l.XP != 0 {
		t.Error("Apply mutated its input")
	}
}

func TestApplyRewardRevokedClampsAtZero(t *testing.T) {
	l := Ledger{XP: 50, Gold: 3, Level: 1}
	got, _, err := Apply(l, RewardRevoked{XP: 80, Gold: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got.XP != 0 || got.Gold != 0 || got.Level != 1 {
		t.Errorf("got %+v", got)
	}
}

func TestApplyGrantThenRevokeRestores(t *testing.T) {
	l := Ledger{XP: 333, Gold: 41, Level: LevelFromXP(333)}
	mid, _, _ := Apply(l, RewardGranted{XP: 150, Gold: 15})
	back, _, _ := Apply(mid, RewardRevoked{XP: 150, Gold: 15})
	if back.XP != l.XP || back.Gold != l.Gold || back.Level != l.Level {
		t.Errorf("round trip: got %+v want %+v", back, l)
	}
}

func TestApplyGoldSpent(t *testing.T) {
	l := Ledger{Gold: 10}
	got, _, err := Apply(l, GoldSpent{Amount: 50})
	if !errors.Is(err, util.ErrInsufficientGold) {
		t.Fatalf("expected ErrInsufficientGold, got %v", err)
	}
	if got.Gold != 10 {
		t.Errorf("gold changed on failure: %d", got.Gold)
	}

	got, _, err = Apply(Ledger{Gold: 200}, GoldSpent{Amount: 50})
	if err != nil || got.Gold != 150 {
		t.Errorf("got gold=%d err=%v", got.Gold, err)
	}
}

func TestApplyRejectsNegativeAmounts(t *testing.T) {
	events := []Event{
		RewardGranted{XP: -1},
		RewardRevoked{Gold: -1},
		GoldSpent{Amount: -5},
	}
	for _, e := range events {
		if _, _, err := Apply(Ledger{}, e); !errors.Is(err, util.ErrInvalidState) {
			t.Errorf("%T: expected ErrInvalidState, got %v", e, err)
		}
	}
}

func TestApplyCheckedIn(t *testing.T) {
	last := base
	tests := []struct {
		name       string
		streak     int
		last       *time.Time
		now        time.Time
		freeze     bool
		wantStreak int
		wantFreeze bool
	}{
		{"first ever", 0, nil, base, false, 1, false},
		{"same day", 4, &last, at(3 * time.Hour), false, 4, false},
		{"exactly 24h", 4, &last, at(24 * time.Hour), false, 4, false},
		{"next day", 4, &last, at(30 * time.Hour), false, 5, false},
		{"exactly 48h", 4, &last, at(48 * time.Hour), false, 5, false},
		{"gap resets", 4, &last, at(49 * time.Hour), false, 1, false},
		{"freeze saves streak", 4, &last, at(60 * time.Hour), true, 5, true},
		{"freeze unused within 48h", 4, &last, at(30 * time.Hour), true, 5, false},
		{"gap too long for freeze", 4, &last, at(80 * time.Hour), true, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := Ledger{Streak: tt.streak, BestStreak: tt.streak, LastCheckinAt: tt.last}
			got, out, err := Apply(l, CheckedIn{At: tt.now, FreezeAvailable: tt.freeze})
			if err != nil {
				t.Fatal(err)
			}
			if got.Streak != tt.wantStreak {
				t.Errorf("streak = %d, want %d", got.Streak, tt.wantStreak)
			}
			if out.FreezeConsumed != tt.wantFreeze {
				t.Errorf("freeze consumed = %v, want %v", out.FreezeConsumed, tt.wantFreeze)
			}
			if got.BestStreak < got.Streak {
				t.Errorf("bestStreak %d < streak %d", got.BestStreak, got.Streak)
			}
			if got.LastCheckinAt == nil || !got.LastCheckinAt.Equal(tt.now) {
				t.Errorf("lastCheckinAt = %v, want %v", got.LastCheckinAt, tt.now)
			}
		})
	}
}

func TestApplyCheckedInKeepsBestStreak(t *testing.T) {
	last := base
	l := Ledger{Streak: 2, BestStreak: 9, LastCheckinAt: &last}
	got, _, _ := Apply(l, CheckedIn{At: at(100 * time.Hour)})
	if got.Streak != 1 || got.BestStreak != 9 {
		t.Errorf("got streak=%d best=%d", got.Streak, got.BestStreak)
	}
}

func TestApplyFocusRefreshedOncePerDay(t *testing.T) {
	l := Ledger{FocusPoints: 1}
	got, _, _ := Apply(l, FocusRefreshed{At: base})
	if got.FocusPoints != model.FocusCap {
		t.Fatalf("focus = %d", got.FocusPoints)
	}
	got.FocusPoints = 2
	again, _, _ := Apply(got, FocusRefreshed{At: at(2 * time.Hour)})
	if again.FocusPoints != 2 {
		t.Errorf("refreshed twice in one day: %d", again.FocusPoints)
	}
	next, _, _ := Apply(again, FocusRefreshed{At: at(24 * time.Hour)})
	if next.FocusPoints != model.FocusCap {
		t.Errorf("not refreshed on next day: %d", next.FocusPoints)
	}
}

func TestApplyHeartRestored(t *testing.T) {
	got, _, err := Apply(Ledger{Hearts: 3}, HeartRestored{})
	if err != nil || got.Hearts != 4 {
		t.Fatalf("hearts=%d err=%v", got.Hearts, err)
	}
	if _, _, err := Apply(Ledger{Hearts: model.MaxHearts}, HeartRestored{}); !errors.Is(err, util.ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}

func TestLedgerUserRoundTrip(t *testing.T) {
	u := model.NewUser("ext-1", "")
	u.XP = 400
	l := LedgerOf(u)
	l, _, _ = Apply(l, RewardGranted{XP: 10, Gold: 1})
	l.WriteTo(u)
	if u.XP != 410 || u.Gold != 1 || u.Level != LevelFromXP(410) {
		t.Errorf("user = %+v", u)
	}
}
