package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "StepFoundationTitle")
	if got != "Foundation & Setup" {
		t.Errorf("T(StepFoundationTitle) = %q, want 'Foundation & Setup'", got)
	}

	got = Td(ctx, "PathTitle", map[string]any{"Topic": "Go"})
	if got != "Go Learning Path" {
		t.Errorf("Td(PathTitle) = %q, want 'Go Learning Path'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "StepFoundationTitle")
	if got != "Основы и подготовка" {
		t.Errorf("T(StepFoundationTitle) = %q, want 'Основы и подготовка'", got)
	}
}

func TestListTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Tl(ctx, "FeedbackNextSteps", map[string]any{"Topic": "python"})
	want := []string{"Practice more python exercises", "Build a small project with python"}
	if len(got) != len(want) {
		t.Fatalf("Tl(FeedbackNextSteps) = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tl(FeedbackNextSteps)[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if opts := Tl(ctx, "QuizFirstStepOptions", map[string]any{"Topic": "x"}); len(opts) != 4 {
		t.Errorf("expected 4 options, got %d", len(opts))
	}
}

func TestListDataWithNewlines(t *testing.T) {
	ctx := initLang(t, "en")

	got := Tl(ctx, "FeedbackNextSteps", map[string]any{"Topic": "Go\nRust\t and  C", "Total": 3})
	want := []string{"Practice more Go Rust and C exercises", "Build a small project with Go Rust and C"}
	if len(got) != len(want) {
		t.Fatalf("Tl(FeedbackNextSteps) = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tl(FeedbackNextSteps)[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTemplateDataIsNotHTMLEscaped(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "PathTitle", map[string]any{"Topic": "C++ & <templates>"})
	if got != "C++ & <templates> Learning Path" {
		t.Errorf("Td(PathTitle) = %q", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestNoLocalizerUsesDefault(t *testing.T) {
	initLang(t, "ru")

	got := T(context.Background(), "StepCoreTitle")
	if got != "Ключевые концепции" {
		t.Errorf("T(StepCoreTitle) = %q, want default-language text", got)
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	initLang(t, "en")
	if langs := Languages(); len(langs) != 2 {
		t.Fatalf("expected 2 languages, got %v", langs)
	}

	en := WithLocalizer(context.Background(), NewLocalizer("en"))
	ru := WithLocalizer(context.Background(), NewLocalizer("ru"))
	for _, id := range []string{
		"TopicPlaceholder", "PathTitle", "PathDescription", "PathTotalTime",
		"StepAdvancedTitle", "QuizProgressQuestion", "FeedbackGood", "FeedbackResources",
	} {
		if T(en, id) == T(ru, id) {
			t.Errorf("message %q is not translated to Russian", id)
		}
	}
}

func TestMiddleware(t *testing.T) {
	initLang(t, "en")

	tests := []struct {
		name   string
		accept string
		want   string
	}{
		{"no header uses configured language", "", "Core Concepts"},
		{"russian header", "ru-RU,ru;q=0.9,en;q=0.8", "Ключевые концепции"},
		{"unsupported header falls back", "de-DE", "Core Concepts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			h := Middleware("en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = T(r.Context(), "StepCoreTitle")
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)
			if got != tt.want {
				t.Errorf("translated %q, want %q", got, tt.want)
			}
		})
	}
}
