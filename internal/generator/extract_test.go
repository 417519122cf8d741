package generator

import (
	"errors"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"prose around", "Here you go: {\"a\":1} hope it helps", `{"a":1}`, false},
		{"code fence", "```json\n{\"a\":{\"b\":2}}\n```", `{"a":{"b":2}}`, false},
		{"greedy across objects", `{"a":1} then {"b":2}`, `{"a":1} then {"b":2}`, false},
		{"no braces", "nothing here", "", true},
		{"no closing brace", `{"a":1`, "", true},
		{"closing before opening", `} {`, "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractJSON(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrExtraction) {
					t.Errorf("err = %v, want ErrExtraction", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConform(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"minimal", `{"steps":[{"title":"a"}]}`, false},
		{"nulls allowed", `{"title":null,"steps":[{"title":"a","resources":null}]}`, false},
		{"missing steps", `{"title":"a"}`, true},
		{"step without title", `{"steps":[{"description":"a"}]}`, true},
		{"resources wrong type", `{"steps":[{"title":"a","resources":"docs"}]}`, true},
		{"non-string metric", `{"steps":[{"title":"a"}],"success_metrics":[1]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conform(pathSchema, tt.raw)
			if tt.wantErr != (err != nil) {
				t.Fatalf("conform err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrShape) {
				t.Errorf("err = %v, want ErrShape", err)
			}
		})
	}
}
