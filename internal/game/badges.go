package game

import "fmt"

// 连胜与累计完成任务数对应的徽章
var (
	StreakBadges = map[int]string{
		3:  "b-streak-3",
		7:  "b-streak-7",
		14: "b-streak-14",
		30: "b-streak-30",
	}

	TaskCountBadges = map[int]string{
		1:   "a-first-task",
		10:  "a-ten-tasks",
		50:  "a-fifty-tasks",
		100: "a-hundred-tasks",
	}
)

// MilestoneBadges 返回本次达到的里程碑徽章
func MilestoneBadges(streak int, completedTasks int64) []string {
	var keys []string
	if key, ok := StreakBadges[streak]; ok {
		keys = append(keys, key)
	}
	if key, ok := TaskCountBadges[int(completedTasks)]; ok {
		keys = append(keys, key)
	}
	return keys
}

// WeekBadge 完成某一周全部任务后获得的徽章
func WeekBadge(weekNumber int) string {
	return fmt.Sprintf("b-week-%d", weekNumber)
}

// BadgeBonus 徽章附带的奖励：经验取徽章面值，金币为其十分之一向下取整
func BadgeBonus(xpValue int) Reward {
	if xpValue <= 0 {
		return Reward{}
	}
	return Reward{XP: xpValue, Gold: xpValue / 10}
}
