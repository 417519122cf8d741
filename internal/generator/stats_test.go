package generator

import (
	"math"
	"testing"

	"github.com/pavelanni/learnpath/internal/model"
)

func TestDeriveStats(t *testing.T) {
	tests := []struct {
		name      string
		time      string
		steps     int
		wantHours int
	}{
		{"range", "40-60 hours", 3, 50},
		{"odd range floors", "3-4 weeks", 2, 3},
		{"single number", "100 hours", 1, 100},
		{"no numbers", "a few weeks", 4, 50},
		{"empty uses default", "", 0, 50},
		{"three numbers", "10, 20 or 33 hours", 5, 21},
		{"sum beyond int", "9223372036854775807 or 9223372036854775807 hours", 1, math.MaxInt64},
		{"mean of huge and small", "9223372036854775807 and 1", 1, 4611686018427387904},
		{"single number beyond int", "99999999999999999999999 hours", 1, math.MaxInt64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := model.LearningPath{TotalEstimatedTime: tt.time, Steps: make([]model.Step, tt.steps)}
			got := DeriveStats(path)
			if got.TotalSteps != tt.steps {
				t.Errorf("TotalSteps = %d, want %d", got.TotalSteps, tt.steps)
			}
			if got.EstimatedTime != tt.wantHours {
				t.Errorf("EstimatedTime = %d, want %d", got.EstimatedTime, tt.wantHours)
			}
		})
	}
}
