package game

import "math"

// XPForNextLevel 从 level 升到 level+1 需要的经验值：round(100 * level^1.2)
func XPForNextLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Round(100 * math.Pow(float64(level), 1.2)))
}

// CumulativeXPToLevel 到达 level 所需的累计经验值
func CumulativeXPToLevel(level int) int {
	total := 0
	for i := 1; i < level; i++ {
		total += XPForNextLevel(i)
	}
	return total
}

// LevelFromXP 返回累计门槛不超过 xp 的最高等级，最小为 1
func LevelFromXP(xp int) int {
	level := 1
	threshold := 0
	for {
		threshold += XPForNextLevel(level)
		if threshold > xp {
			return level
		}
		level++
	}
}

// LevelProgress 当前等级内的进度
type LevelProgress struct {
	Level         int `json:"level"`
	XPIntoLevel   int `json:"xpIntoLevel"`
	XPToNextLevel int `json:"xpToNextLevel"`
}

func ProgressFromXP(xp int) LevelProgress {
	level := LevelFromXP(xp)
	into := xp - CumulativeXPToLevel(level)
	return LevelProgress{
		Level:         level,
		XPIntoLevel:   into,
		XPToNextLevel: XPForNextLevel(level) - into,
	}
}
