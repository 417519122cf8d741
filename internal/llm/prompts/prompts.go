package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/pavelanni/learnpath/internal/model"
)

//go:embed templates/*.txt
var templateFS embed.FS

var (
	// Tags a user could use to break out of the quoted input.
	instructionTagRegex = regexp.MustCompile(`(?i)</?\s*(system|instructions?|system-instructions|prompt)\b[^>]*>`)
	whitespaceRegex     = regexp.MustCompile(`\s+`)
)

// Limits on user-supplied text embedded in prompts, in runes.
const (
	maxTopicLen = 200
	maxFieldLen = 100
	maxGoalsLen = 2000
)

// Kind names a prompt template.
type Kind string

const (
	KindLearningPath Kind = "learning_path"
	KindQuiz         Kind = "quiz"
	KindFeedback     Kind = "feedback"
)

var (
	loadOnce  sync.Once
	loadErr   error
	templates map[Kind]*template.Template
)

// PathData holds template data for learning path prompts.
type PathData struct {
	Topic     string
	Level     string
	Timeframe string
	Goals     string
}

// QuizData holds template data for quiz prompts.
type QuizData struct {
	Topic         string
	Level         string
	QuestionCount int
}

// FeedbackData holds template data for quiz feedback prompts.
type FeedbackData struct {
	Topic string
	Score int
	Total int
}

// load parses the embedded templates once.
func load() error {
	loadOnce.Do(func() {
		templates = make(map[Kind]*template.Template)
		for _, k := range []Kind{KindLearningPath, KindQuiz, KindFeedback} {
			file := "templates/" + string(k) + ".txt"
			content, err := templateFS.ReadFile(file)
			if err != nil {
				loadErr = errors.New("failed to read prompt file " + file + ": " + err.Error())
				return
			}
			tmpl, err := template.New(string(k)).Parse(string(content))
			if err != nil {
				loadErr = errors.New("failed to parse prompt template " + file + ": " + err.Error())
				return
			}
			templates[k] = tmpl
		}
	})
	return loadErr
}

// LearningPath builds the prompt asking for a learning path.
func LearningPath(req model.LearningPathRequest) (string, error) {
	return render(KindLearningPath, PathData{
		Topic:     sanitize(req.Topic, maxTopicLen),
		Level:     sanitize(req.Level, maxFieldLen),
		Timeframe: sanitize(req.Timeframe, maxFieldLen),
		Goals:     sanitize(req.Goals, maxGoalsLen),
	})
}

// Quiz builds the prompt asking for a multiple-choice quiz.
func Quiz(req model.QuizRequest) (string, error) {
	return render(KindQuiz, QuizData{
		Topic:         sanitize(req.Topic, maxTopicLen),
		Level:         sanitize(req.Level, maxFieldLen),
		QuestionCount: req.QuestionCount,
	})
}

// Feedback builds the prompt asking for personalized quiz feedback.
func Feedback(topic string, score, total int) (string, error) {
	return render(KindFeedback, FeedbackData{
		Topic: sanitize(topic, maxTopicLen),
		Score: score,
		Total: total,
	})
}

func render(kind Kind, data any) (string, error) {
	if err := load(); err != nil {
		return "", fmt.Errorf("templates load failed: %w", err)
	}
	tmpl, ok := templates[kind]
	if !ok {
		return "", errors.New("unknown prompt kind: " + string(kind))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// sanitize strips instruction-like tags, folds whitespace so input cannot
// open new prompt lines, and truncates to limit runes.
func sanitize(s string, limit int) string {
	s = instructionTagRegex.ReplaceAllString(s, "")
	s = whitespaceRegex.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	if utf8.RuneCountInString(s) > limit {
		runes := []rune(s)
		s = strings.TrimSpace(string(runes[:limit])) + "..."
	}
	return s
}
