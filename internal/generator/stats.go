package generator

import (
	"math"
	"math/big"
	"regexp"

	"github.com/pavelanni/learnpath/internal/model"
)

const (
	defaultTotalTime = "40-60 hours"
	defaultHours     = 50
)

var digits = regexp.MustCompile(`\d+`)

// DeriveStats counts the steps of path and estimates its hours as the floor
// of the mean of every integer in total_estimated_time, saturating at
// math.MaxInt. Topic and level are left for the caller.
func DeriveStats(path model.LearningPath) model.Stats {
	return model.Stats{
		TotalSteps:    len(path.Steps),
		EstimatedTime: estimateHours(path.TotalEstimatedTime),
	}
}

func estimateHours(s string) int {
	if s == "" {
		s = defaultTotalTime
	}
	matches := digits.FindAllString(s, -1)
	if len(matches) == 0 {
		return defaultHours
	}

	sum := new(big.Int)
	for _, m := range matches {
		v, _ := new(big.Int).SetString(m, 10)
		sum.Add(sum, v)
	}
	mean := sum.Quo(sum, big.NewInt(int64(len(matches))))
	if !mean.IsInt64() || mean.Int64() > math.MaxInt {
		return math.MaxInt
	}
	return int(mean.Int64())
}
