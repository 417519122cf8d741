package generator

import (
	"context"

	"github.com/pavelanni/learnpath/internal/i18n"
	"github.com/pavelanni/learnpath/internal/model"
)

// FallbackLearningPath builds the canned learning path for req in the
// language carried by ctx. Non-beginner levels get a fourth, advanced step.
func FallbackLearningPath(ctx context.Context, req model.LearningPathRequest) model.LearningPath {
	data := map[string]any{
		"Topic":     req.Topic,
		"Level":     req.Level,
		"Timeframe": req.Timeframe,
	}

	steps := []model.Step{
		fallbackStep(ctx, "Foundation", data),
		fallbackStep(ctx, "Core", data),
		fallbackStep(ctx, "Practice", data),
	}
	if !model.IsBeginnerLevel(req.Level) {
		steps = append(steps, fallbackStep(ctx, "Advanced", data))
	}

	return model.LearningPath{
		Title:                 i18n.Td(ctx, "PathTitle", data),
		Description:           i18n.Td(ctx, "PathDescription", data),
		Steps:                 steps,
		TotalEstimatedTime:    i18n.Td(ctx, "PathTotalTime", data),
		DifficultyProgression: i18n.Td(ctx, "PathProgression", data),
		SuccessMetrics:        i18n.Tl(ctx, "PathSuccessMetrics", data),
	}
}

func fallbackStep(ctx context.Context, name string, data map[string]any) model.Step {
	id := "Step" + name
	return model.Step{
		Title:          i18n.Td(ctx, id+"Title", data),
		Description:    i18n.Td(ctx, id+"Description", data),
		Duration:       i18n.Td(ctx, id+"Duration", data),
		Resources:      i18n.Tl(ctx, id+"Resources", data),
		KeyConcepts:    i18n.Tl(ctx, id+"Concepts", data),
		PracticalTasks: i18n.Tl(ctx, id+"Tasks", data),
	}
}

// Option order in the catalogs must match these indices.
var fallbackQuestions = []struct {
	id      string
	correct int
}{
	{"QuizFirstStep", 1},
	{"QuizApproach", 2},
	{"QuizProgress", 1},
}

// FallbackQuiz builds the canned three-question quiz for req.
func FallbackQuiz(ctx context.Context, req model.QuizRequest) []model.Question {
	data := map[string]any{"Topic": req.Topic, "Level": req.Level}
	qs := make([]model.Question, 0, len(fallbackQuestions))
	for _, fq := range fallbackQuestions {
		qs = append(qs, model.Question{
			Question:      i18n.Td(ctx, fq.id+"Question", data),
			Options:       i18n.Tl(ctx, fq.id+"Options", data),
			CorrectAnswer: fq.correct,
			Explanation:   i18n.Td(ctx, fq.id+"Explanation", data),
		})
	}
	return qs
}
