package game

import (
	"fmt"
	"math"

	"codequest_backend/internal/model"
	"codequest_backend/internal/util"
)

// GoldRate 每点经验换算的金币
const GoldRate = 0.10

var multipliers = map[model.Difficulty]float64{
	model.DifficultyTrivial: 0.5,
	model.DifficultyNormal:  1.0,
	model.DifficultyHard:    1.5,
	model.DifficultyBoss:    2.0,
}

// Multiplier 难度对应的经验倍率
func Multiplier(d model.Difficulty) (float64, error) {
	m, ok := multipliers[d]
	if !ok {
		return 0, fmt.Errorf("%w: unknown difficulty %q", util.ErrInvalidState, d)
	}
	return m, nil
}

// Reward 一次发放的经验与金币
type Reward struct {
	XP   int
	Gold int
}

func (r Reward) Add(o Reward) Reward {
	return Reward{XP: r.XP + o.XP, Gold: r.Gold + o.Gold}
}

// TaskReward 计算任务奖励：xp = floor(xpReward * 倍率)，gold = round(xp * 0.10)
func TaskReward(xpReward int, d model.Difficulty) (Reward, error) {
	if xpReward < 0 {
		return Reward{}, fmt.Errorf("%w: negative xp reward %d", util.ErrInvalidState, xpReward)
	}
	m, err := Multiplier(d)
	if err != nil {
		return Reward{}, err
	}
	xp := int(math.Floor(float64(xpReward) * m))
	return Reward{XP: xp, Gold: GoldFor(xp)}, nil
}

func GoldFor(xp int) int {
	return int(math.Round(float64(xp) * GoldRate))
}
