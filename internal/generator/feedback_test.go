package generator

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/pavelanni/learnpath/internal/i18n"
	"github.com/pavelanni/learnpath/internal/model"
)

func intp(v int) *int { return &v }

func TestTierFor(t *testing.T) {
	tests := []struct {
		score, total int
		want         Tier
	}{
		{5, 5, TierExcellent},
		{1, 1, TierExcellent},
		{4, 5, TierGreat},
		{8, 10, TierGreat},
		{3, 5, TierGood},
		{2, 3, TierGood},
		{1, 2, TierNeedsPractice},
		{7, 10, TierGood},
		{6, 10, TierGood},
		{2, 5, TierNeedsPractice},
		{5, 10, TierNeedsPractice},
		{0, 3, TierNeedsPractice},
		{0, 0, TierNeedsPractice},
	}
	for _, tt := range tests {
		if got := TierFor(tt.score, tt.total); got != tt.want {
			t.Errorf("TierFor(%d, %d) = %q, want %q", tt.score, tt.total, got, tt.want)
		}
	}
}

func TestFeedback(t *testing.T) {
	tests := []struct {
		name        string
		req         model.FeedbackRequest
		wantPrefix  string
		improvement string
	}{
		{
			name: "all correct",
			req: model.FeedbackRequest{
				Topic:          "Go",
				Answers:        []*int{intp(1), intp(2), intp(0)},
				CorrectAnswers: []int{1, 2, 0},
			},
			wantPrefix:  "Excellent work!",
			improvement: "Continue learning advanced topics",
		},
		{
			name: "three of five",
			req: model.FeedbackRequest{
				Topic:          "Go",
				Answers:        []*int{intp(1), intp(1), intp(1), intp(0), intp(0)},
				CorrectAnswers: []int{1, 1, 1, 1, 1},
			},
			wantPrefix:  "Good progress!",
			improvement: "Review missed topics",
		},
		{
			name: "unanswered and short key",
			req: model.FeedbackRequest{
				Topic:          "Go",
				Answers:        []*int{nil, intp(2), intp(3)},
				CorrectAnswers: []int{0},
			},
			wantPrefix:  "Keep practicing!",
			improvement: "Review core concepts",
		},
		{
			name:        "empty quiz",
			req:         model.FeedbackRequest{Topic: "Go"},
			wantPrefix:  "Keep practicing!",
			improvement: "Review core concepts",
		},
	}
	g := newGen(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := g.Feedback(context.Background(), tt.req)
			if !strings.HasPrefix(fb.OverallFeedback, tt.wantPrefix) {
				t.Errorf("overall = %q, want prefix %q", fb.OverallFeedback, tt.wantPrefix)
			}
			if len(fb.ImprovementAreas) == 0 || fb.ImprovementAreas[0] != tt.improvement {
				t.Errorf("improvements = %q, want first %q", fb.ImprovementAreas, tt.improvement)
			}
			if len(fb.Strengths) == 0 || len(fb.NextSteps) == 0 || len(fb.Resources) == 0 {
				t.Errorf("feedback lists should be populated: %+v", fb)
			}
		})
	}
}

func TestFeedbackTwoOfThree(t *testing.T) {
	g := newGen(nil)
	fb := g.Feedback(context.Background(), model.FeedbackRequest{
		Topic:          "python",
		Answers:        []*int{intp(1), intp(2), intp(0)},
		CorrectAnswers: []int{1, 2, 1},
	})

	want := "Good progress! You understand the basics of python. Keep practicing to strengthen your knowledge."
	if fb.OverallFeedback != want {
		t.Errorf("overall = %q, want %q", fb.OverallFeedback, want)
	}
	if !reflect.DeepEqual(fb.ImprovementAreas, []string{"Review missed topics"}) {
		t.Errorf("improvements = %q, want [Review missed topics]", fb.ImprovementAreas)
	}
	if !reflect.DeepEqual(fb, TieredFeedback(context.Background(), "python", 2, 3)) {
		t.Error("feedback should equal the good tier for 2 of 3")
	}
}

func TestFeedbackTopicPlaceholder(t *testing.T) {
	fb := TieredFeedback(context.Background(), "  ", 1, 1)
	if !strings.Contains(fb.OverallFeedback, "this topic") {
		t.Errorf("overall = %q, want placeholder topic", fb.OverallFeedback)
	}

	multi := TieredFeedback(context.Background(), "Go\nRust", 1, 1)
	if len(multi.NextSteps) != 2 || multi.NextSteps[0] != "Practice more Go Rust exercises" {
		t.Errorf("next steps = %q, want two entries with the topic on one line", multi.NextSteps)
	}
	if len(multi.Resources) != 3 {
		t.Errorf("resources = %q, want 3 entries", multi.Resources)
	}

	ru := TieredFeedback(i18n.WithLocalizer(context.Background(), i18n.NewLocalizer("ru")), "Go", 1, 1)
	if ru.OverallFeedback == fb.OverallFeedback {
		t.Error("russian feedback should differ from english")
	}
}

func TestFeedbackFromModel(t *testing.T) {
	req := model.FeedbackRequest{
		Topic:          "Go",
		Answers:        []*int{intp(0), intp(1)},
		CorrectAnswers: []int{0, 0},
	}
	tests := []struct {
		name    string
		stub    *stubCompleter
		enabled bool
		want    string
	}{
		{
			name: "model answer used",
			stub: &stubCompleter{reply: `{"overall_feedback": "Half right.", "strengths": ["a"],
				"improvement_areas": ["b"], "next_steps": ["c"], "resources": ["d"]}`},
			enabled: true,
			want:    "Half right.",
		},
		{
			name:    "disabled ignores model",
			stub:    &stubCompleter{reply: `{"overall_feedback": "Half right."}`},
			enabled: false,
			want:    "Keep practicing!",
		},
		{
			name:    "nonconforming answer falls back",
			stub:    &stubCompleter{reply: `{"overall_feedback": "Half right."}`},
			enabled: true,
			want:    "Keep practicing!",
		},
		{
			name:    "model error falls back",
			stub:    &stubCompleter{err: errors.New("down")},
			enabled: true,
			want:    "Keep practicing!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGen(tt.stub, WithLLMFeedback(tt.enabled))
			fb := g.Feedback(context.Background(), req)
			if !strings.HasPrefix(fb.OverallFeedback, tt.want) {
				t.Errorf("overall = %q, want prefix %q", fb.OverallFeedback, tt.want)
			}
			if !tt.enabled && tt.stub.calls.Load() != 0 {
				t.Error("model should not be called when disabled")
			}
		})
	}
}
