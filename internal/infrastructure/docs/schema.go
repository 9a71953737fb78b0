package docs

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// JSON schemas for the declarative document formats. YAML input is decoded to
// a generic tree and validated here before it is bound to entities, so
// structural mistakes (unknown fields, wrong shapes) are caught with a
// precise message instead of a half-populated struct.

const requirementSchemaJSON = `{
  "type": "object",
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "specification": {"type": "string", "minLength": 1},
    "rationale": {"type": "string", "minLength": 1},
    "parent": {"type": "string"},
    "obsolete": {"type": "boolean"},
    "obsolete_reason": {"type": "string"}
  },
  "required": ["id", "specification", "rationale"],
  "additionalProperties": false
}`

var requirementsSchemaJSON = fmt.Sprintf(`{
  "oneOf": [
    {"type": "array", "items": %[1]s},
    {
      "type": "object",
      "properties": {
        "title": {"type": "string", "minLength": 1},
        "number": {"type": "string"},
        "revision": {"type": "string"},
        "author": {"type": "string"},
        "body": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "title": {"type": "string", "minLength": 1},
              "items": {"type": "array", "items": %[1]s}
            },
            "required": ["title", "items"],
            "additionalProperties": false
          }
        }
      },
      "required": ["title", "body"],
      "additionalProperties": false
    }
  ]
}`, requirementSchemaJSON)

const testsSchemaJSON = `{
  "type": "object",
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "number": {"type": "string"},
    "revision": {"type": "string"},
    "author": {"type": "string"},
    "tests": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "verifies": {"type": "array", "items": {"type": "string"}},
          "steps": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "properties": {
                "given": {"type": "string"},
                "when": {"type": "string"},
                "then": {"type": "string"},
                "evidence": {"enum": ["screenshot", "log", "observation", "settings"]}
              },
              "required": ["given", "when", "then"],
              "additionalProperties": false
            }
          }
        },
        "required": ["id", "description", "verifies", "steps"],
        "additionalProperties": false
      }
    }
  },
  "required": ["title", "tests"],
  "additionalProperties": false
}`

type schemaLoader = gojsonschema.JSONLoader

var (
	requirementsSchemaLoader = gojsonschema.NewStringLoader(requirementsSchemaJSON)
	testsSchemaLoader        = gojsonschema.NewStringLoader(testsSchemaJSON)
)

// validateSchema checks a decoded YAML tree against a schema and folds all
// violations into a single error.
func validateSchema(schema gojsonschema.JSONLoader, doc any) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("document does not match expected format: %s", strings.Join(msgs, "; "))
}
