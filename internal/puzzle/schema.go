// internal/puzzle/schema.go
package puzzle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// puzzleFileSchema constrains the on-disk puzzle array shape: every puzzle
// carries an id, a date, and exactly four groups of four members.
const puzzleFileSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "date", "answers"],
    "properties": {
      "id": {"type": "integer", "minimum": 0},
      "date": {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"},
      "answers": {
        "type": "array",
        "minItems": 4,
        "maxItems": 4,
        "items": {
          "type": "object",
          "required": ["level", "group", "members"],
          "properties": {
            "level": {"type": "integer", "minimum": 0, "maximum": 3},
            "group": {"type": "string", "minLength": 1},
            "members": {
              "type": "array",
              "minItems": 4,
              "maxItems": 4,
              "items": {"type": "string", "minLength": 1}
            }
          }
        }
      }
    }
  }
}`

// ValidatePuzzles checks a puzzle slice against the file schema before it
// is written or consumed.
func ValidatePuzzles(puzzles []Puzzle) error {
	doc, err := json.Marshal(puzzles)
	if err != nil {
		return fmt.Errorf("marshal puzzles for validation: %w", err)
	}
	schemaLoader := gojsonschema.NewStringLoader(puzzleFileSchema)
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return fmt.Errorf("puzzles failed validation: %s", strings.Join(details, "; "))
}
