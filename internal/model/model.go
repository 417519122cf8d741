package model

import (
	"fmt"
	"strings"
)

// Default request values.
const (
	DefaultLevel         = LevelBeginner
	DefaultTimeframe     = "1 month"
	DefaultQuestionCount = 5
	MaxQuestionCount     = 20
)

// Skill levels the fallback content distinguishes. Level is free text; any
// other value is treated like a beginner level.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
	LevelExpert       = "expert"
)

// InputError reports a missing or malformed request field. It is the only
// error the generation pipeline returns to its callers.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// LearningPathRequest asks for a learning plan on a topic.
type LearningPathRequest struct {
	Topic         string `json:"topic"`
	Level         string `json:"level"`
	Timeframe     string `json:"timeframe"`
	Goals         string `json:"goals"`
	QuestionCount int    `json:"question_count,omitempty"`
}

// Normalize trims the request, applies defaults and validates it.
func (r LearningPathRequest) Normalize() (LearningPathRequest, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return r, &InputError{Field: "topic", Reason: "Topic is required"}
	}
	r.Level = orDefault(r.Level, DefaultLevel)
	r.Timeframe = orDefault(r.Timeframe, DefaultTimeframe)
	r.Goals = strings.TrimSpace(r.Goals)
	count, err := normalizeCount(r.QuestionCount)
	if err != nil {
		return r, err
	}
	r.QuestionCount = count
	return r, nil
}

// QuizRequest returns the quiz request bundled with a learning path request.
func (r LearningPathRequest) QuizRequest() QuizRequest {
	return QuizRequest{Topic: r.Topic, Level: r.Level, QuestionCount: r.QuestionCount}
}

// LearningPath is a structured multi-step learning plan.
type LearningPath struct {
	Title                 string   `json:"title"`
	Description           string   `json:"description"`
	Steps                 []Step   `json:"steps"`
	TotalEstimatedTime    string   `json:"total_estimated_time"`
	DifficultyProgression string   `json:"difficulty_progression"`
	SuccessMetrics        []string `json:"success_metrics"`
}

// Step is a single stage of a learning path.
type Step struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Duration       string   `json:"duration"`
	Resources      []string `json:"resources"`
	KeyConcepts    []string `json:"key_concepts"`
	PracticalTasks []string `json:"practical_tasks"`
}

// FillDefaults replaces nil lists with empty ones so they encode as [].
func (p *LearningPath) FillDefaults() {
	if p.Steps == nil {
		p.Steps = []Step{}
	}
	p.SuccessMetrics = nonNil(p.SuccessMetrics)
	for i := range p.Steps {
		s := &p.Steps[i]
		s.Resources = nonNil(s.Resources)
		s.KeyConcepts = nonNil(s.KeyConcepts)
		s.PracticalTasks = nonNil(s.PracticalTasks)
	}
}

// QuizRequest asks for a multiple-choice quiz.
type QuizRequest struct {
	Topic         string `json:"topic"`
	Level         string `json:"level"`
	QuestionCount int    `json:"question_count"`
}

// Normalize trims the request, applies defaults and validates it.
func (r QuizRequest) Normalize() (QuizRequest, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return r, &InputError{Field: "topic", Reason: "Topic is required"}
	}
	r.Level = orDefault(r.Level, DefaultLevel)
	count, err := normalizeCount(r.QuestionCount)
	if err != nil {
		return r, err
	}
	r.QuestionCount = count
	return r, nil
}

// OptionCount is the number of choices every quiz question must offer.
const OptionCount = 4

// Question is a multiple-choice quiz question.
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Valid reports whether the question has text, exactly four options and a
// correct answer index that points into them.
func (q Question) Valid() bool {
	return strings.TrimSpace(q.Question) != "" &&
		len(q.Options) == OptionCount &&
		q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options)
}

// FeedbackRequest carries a user's quiz answers. A nil entry in Answers is an
// unanswered question.
type FeedbackRequest struct {
	Topic          string `json:"topic"`
	Answers        []*int `json:"answers"`
	CorrectAnswers []int  `json:"correct_answers"`
}

// Score counts positions where the user's answer matches the correct one.
// Positions missing from either list never match.
func (r FeedbackRequest) Score() (score, total int) {
	total = len(r.Answers)
	for i, a := range r.Answers {
		if i >= len(r.CorrectAnswers) {
			break
		}
		if a != nil && *a == r.CorrectAnswers[i] {
			score++
		}
	}
	return score, total
}

// Feedback is score-based advice after a quiz.
type Feedback struct {
	OverallFeedback  string   `json:"overall_feedback"`
	Strengths        []string `json:"strengths"`
	ImprovementAreas []string `json:"improvement_areas"`
	NextSteps        []string `json:"next_steps"`
	Resources        []string `json:"resources"`
}

// Stats summarizes a learning path for display.
type Stats struct {
	TotalSteps    int    `json:"total_steps"`
	EstimatedTime int    `json:"estimated_time"`
	Topic         string `json:"topic"`
	Level         string `json:"level"`
}

// IsBeginnerLevel reports whether level should get the introductory variant
// of the fallback content.
func IsBeginnerLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelIntermediate, LevelAdvanced, LevelExpert:
		return false
	default:
		return true
	}
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func normalizeCount(n int) (int, error) {
	switch {
	case n == 0:
		return DefaultQuestionCount, nil
	case n < 0 || n > MaxQuestionCount:
		return n, &InputError{
			Field:  "question_count",
			Reason: fmt.Sprintf("must be between 1 and %d", MaxQuestionCount),
		}
	default:
		return n, nil
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
