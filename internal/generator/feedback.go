package generator

import (
	"context"
	"strings"

	"github.com/pavelanni/learnpath/internal/i18n"
	"github.com/pavelanni/learnpath/internal/model"
)

// Tier is a score band of quiz feedback.
type Tier string

const (
	TierExcellent     Tier = "excellent"
	TierGreat         Tier = "great"
	TierGood          Tier = "good"
	TierNeedsPractice Tier = "needs_practice"
)

var tierMessages = map[Tier]string{
	TierExcellent:     "FeedbackExcellent",
	TierGreat:         "FeedbackGreat",
	TierGood:          "FeedbackGood",
	TierNeedsPractice: "FeedbackNeedsPractice",
}

// TierFor picks the band for score out of total. Ratios are compared in
// integer arithmetic; an empty quiz needs practice.
func TierFor(score, total int) Tier {
	switch {
	case total <= 0:
		return TierNeedsPractice
	case score >= total:
		return TierExcellent
	case 5*score >= 4*total:
		return TierGreat
	case 5*score >= 3*total:
		return TierGood
	default:
		return TierNeedsPractice
	}
}

// TieredFeedback returns the deterministic feedback for score out of total.
// An empty topic is replaced by a localized placeholder.
func TieredFeedback(ctx context.Context, topic string, score, total int) model.Feedback {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = i18n.T(ctx, "TopicPlaceholder")
	}
	data := map[string]any{"Topic": topic, "Score": score, "Total": total}
	id := tierMessages[TierFor(score, total)]

	return model.Feedback{
		OverallFeedback:  i18n.Td(ctx, id, data),
		Strengths:        i18n.Tl(ctx, id+"Strengths", data),
		ImprovementAreas: i18n.Tl(ctx, id+"Improvements", data),
		NextSteps:        i18n.Tl(ctx, "FeedbackNextSteps", data),
		Resources:        i18n.Tl(ctx, "FeedbackResources", data),
	}
}
