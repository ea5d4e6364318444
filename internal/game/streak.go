package game

import "time"

const (
	day = 24 * time.Hour

	// freezeWindow 超过 48 小时但不超过该值的缺勤可由连胜保护补上
	freezeWindow = 3 * day
)

// nextStreak 按距上次打卡的间隔计算新的连胜天数：
// 首次打卡或 24h~48h 加一，≤24h 不变，
// >48h 重置为 1（若可用保护且未超过 72h 则加一并消耗保护）
func nextStreak(streak int, last *time.Time, now time.Time, freeze bool) (int, bool) {
	if last == nil {
		return streak + 1, false
	}
	gap := now.Sub(*last)
	switch {
	case gap <= day:
		return streak, false
	case gap <= 2*day:
		return streak + 1, false
	case freeze && gap <= freezeWindow:
		return streak + 1, true
	default:
		return 1, false
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
