package convert

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema validates the conversion payload before it reaches the
// builder. Pictures and tables without provenance pass the schema and are
// skipped later with a warning; a missing page anchor on an element is fatal.
const resultSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["pages"],
  "properties": {
    "pages": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["page_no", "elements"],
        "properties": {
          "page_no": {"type": "integer", "minimum": 1},
          "elements": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["type", "page"],
              "properties": {
                "type": {"enum": ["text", "section_header", "table", "figure"]},
                "text": {"type": "string"},
                "label": {"type": "string"},
                "level": {"type": "integer", "minimum": 0},
                "page": {"type": "integer", "minimum": 1}
              }
            }
          }
        }
      }
    },
    "pictures": {"type": "array", "items": {"type": "object"}},
    "tables": {"type": "array", "items": {"type": "object"}},
    "bookmarks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["title", "level", "page"],
        "properties": {
          "title": {"type": "string", "minLength": 1},
          "level": {"type": "integer", "minimum": 1},
          "page": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func schema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("conversion.json", strings.NewReader(resultSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("conversion.json")
	})
	return compiledSchema, schemaErr
}

// Decode validates raw JSON against the conversion contract and unmarshals it.
func Decode(data []byte) (*Result, error) {
	s, err := schema()
	if err != nil {
		return nil, err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse conversion payload: %w", err)
	}
	if err := s.Validate(v); err != nil {
		return nil, fmt.Errorf("conversion payload does not match contract: %w", err)
	}

	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode conversion payload: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}
