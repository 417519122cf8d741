package generator

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const pathSchemaJSON = `{
  "type": "object",
  "required": ["steps"],
  "properties": {
    "title": {"type": ["string", "null"]},
    "description": {"type": ["string", "null"]},
    "total_estimated_time": {"type": ["string", "null"]},
    "difficulty_progression": {"type": ["string", "null"]},
    "success_metrics": {"$ref": "#/definitions/strings"},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["title"],
        "properties": {
          "title": {"type": "string"},
          "description": {"type": ["string", "null"]},
          "duration": {"type": ["string", "null"]},
          "resources": {"$ref": "#/definitions/strings"},
          "key_concepts": {"$ref": "#/definitions/strings"},
          "practical_tasks": {"$ref": "#/definitions/strings"}
        }
      }
    }
  },
  "definitions": {
    "strings": {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

const feedbackSchemaJSON = `{
  "type": "object",
  "required": ["overall_feedback", "strengths", "improvement_areas", "next_steps", "resources"],
  "properties": {
    "overall_feedback": {"type": "string", "minLength": 1},
    "strengths": {"$ref": "#/definitions/strings"},
    "improvement_areas": {"$ref": "#/definitions/strings"},
    "next_steps": {"$ref": "#/definitions/strings"},
    "resources": {"$ref": "#/definitions/strings"}
  },
  "definitions": {
    "strings": {"type": "array", "items": {"type": "string"}}
  }
}`

var (
	pathSchema     = mustSchema(pathSchemaJSON)
	feedbackSchema = mustSchema(feedbackSchemaJSON)
)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile schema: %v", err))
	}
	return schema
}

// conform validates raw JSON against schema, wrapping violations in ErrShape.
func conform(schema *gojsonschema.Schema, raw string) error {
	res, err := schema.Validate(gojsonschema.NewStringLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShape, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrShape, strings.Join(msgs, "; "))
}
