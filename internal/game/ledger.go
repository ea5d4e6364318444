package game

import (
	"fmt"
	"time"

	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
)

// Ledger 用户成长数值的快照，只通过 Apply 变化
type Ledger struct {
	XP               int
	Gold             int
	Level            int
	Streak           int
	BestStreak       int
	Hearts           int
	FocusPoints      int
	FocusRefreshedAt *time.Time
	LastCheckinAt    *time.Time
}

// Event 作用于 Ledger 的事件
type Event interface {
	isEvent()
}

type RewardGranted struct {
	XP   int
	Gold int
}

// RewardRevoked 扣回已发放的奖励，结果不低于 0
type RewardRevoked struct {
	XP   int
	Gold int
}

type GoldSpent struct {
	Amount int
}

// CheckedIn 一次打卡；FreezeAvailable 表示可以消耗一个连胜保护
type CheckedIn struct {
	At              time.Time
	FreezeAvailable bool
}

// FocusRefreshed 每个自然日第一次活动时补满专注点
type FocusRefreshed struct {
	At time.Time
}

type HeartRestored struct{}

type FocusRefilled struct {
	At time.Time
}

func (RewardGranted) isEvent()  {}
func (RewardRevoked) isEvent()  {}
func (GoldSpent) isEvent()      {}
func (CheckedIn) isEvent()      {}
func (FocusRefreshed) isEvent() {}
func (HeartRestored) isEvent()  {}
func (FocusRefilled) isEvent()  {}

// Outcome 记录事件带来的副作用，供调用方决定后续写入
type Outcome struct {
	FreezeConsumed bool
}

func LedgerOf(u *model.User) Ledger {
	return Ledger{
		XP:               u.XP,
		Gold:             u.Gold,
		Level:            u.Level,
		Streak:           u.Streak,
		BestStreak:       u.BestStreak,
		Hearts:           u.Hearts,
		FocusPoints:      u.FocusPoints,
		FocusRefreshedAt: u.FocusRefreshedAt,
		LastCheckinAt:    u.LastCheckinAt,
	}
}

// WriteTo 把 Ledger 写回用户记录
func (l Ledger) WriteTo(u *model.User) {
	u.XP = l.XP
	u.Gold = l.Gold
	u.Level = l.Level
	u.Streak = l.Streak
	u.BestStreak = l.BestStreak
	u.Hearts = l.Hearts
	u.FocusPoints = l.FocusPoints
	u.FocusRefreshedAt = l.FocusRefreshedAt
	u.LastCheckinAt = l.LastCheckinAt
}

// Apply 纯函数：返回新状态，不修改入参。失败时返回原状态与包装后的错误
func Apply(l Ledger, e Event) (Ledger, Outcome, error) {
	var out Outcome
	switch ev := e.(type) {
	case RewardGranted:
		if ev.XP < 0 || ev.Gold < 0 {
			return l, out, fmt.Errorf("%w: negative reward", util.ErrInvalidState)
		}
		l.XP += ev.XP
		l.Gold += ev.Gold
		l.Level = LevelFromXP(l.XP)

	case RewardRevoked:
		if ev.XP < 0 || ev.Gold < 0 {
			return l, out, fmt.Errorf("%w: negative revocation", util.ErrInvalidState)
		}
		l.XP = max(0, l.XP-ev.XP)
		l.Gold = max(0, l.Gold-ev.Gold)
		l.Level = LevelFromXP(l.XP)

	case GoldSpent:
		if ev.Amount < 0 {
			return l, out, fmt.Errorf("%w: negative spend", util.ErrInvalidState)
		}
		if l.Gold < ev.Amount {
			return l, out, fmt.Errorf("%w: have %d, need %d", util.ErrInsufficientGold, l.Gold, ev.Amount)
		}
		l.Gold -= ev.Amount

	case CheckedIn:
		var consumed bool
		l.Streak, consumed = nextStreak(l.Streak, l.LastCheckinAt, ev.At, ev.FreezeAvailable)
		out.FreezeConsumed = consumed
		l.BestStreak = max(l.BestStreak, l.Streak)
		at := ev.At
		l.LastCheckinAt = &at

	case FocusRefreshed:
		if l.FocusRefreshedAt == nil || !sameDay(*l.FocusRefreshedAt, ev.At) {
			l.FocusPoints = model.FocusCap
			at := ev.At
			l.FocusRefreshedAt = &at
		}

	case HeartRestored:
		if l.Hearts >= model.MaxHearts {
			return l, out, fmt.Errorf("%w: hearts already full", util.ErrInvalidState)
		}
		l.Hearts++

	case FocusRefilled:
		l.FocusPoints = model.FocusCap
		at := ev.At
		l.FocusRefreshedAt = &at

	default:
		return l, out, fmt.Errorf("%w: unknown event %T", util.ErrInvalidState, e)
	}
	return l, out, nil
}
