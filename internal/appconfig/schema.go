// internal/appconfig/schema.go
package appconfig

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// configSchema constrains the shape of the configuration file before it is
// decoded, so a typo in an endpoint block fails loudly instead of silently
// producing a zero value.
const configSchema = `{
  "type": "object",
  "required": ["endpoints"],
  "properties": {
    "endpoints": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "type"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "url": {"type": "string"},
          "type": {"type": "string", "enum": ["openai", "gemini", "mock"]},
          "apiKeyEnv": {"type": "string"},
          "models": {"type": "array", "items": {"type": "string"}},
          "parameters": {
            "type": "object",
            "properties": {
              "temperature": {"type": "number"},
              "top_p": {"type": "number"},
              "max_tokens": {"type": "integer"}
            }
          }
        }
      }
    },
    "dataDir": {"type": "string"},
    "debug": {"type": "boolean"},
    "metrics": {"type": "boolean"},
    "timeout": {"type": "integer", "minimum": 0},
    "logFile": {"type": "string"},
    "generation": {
      "type": "object",
      "properties": {
        "endpoint": {"type": "string"},
        "model": {"type": "string"},
        "concurrency": {"type": "integer", "minimum": 0},
        "delayMs": {"type": "integer", "minimum": 0},
        "minReasoningRunes": {"type": "integer", "minimum": 0},
        "retries": {"type": "integer", "minimum": 0},
        "permutations": {"type": "integer", "minimum": 0}
      }
    },
    "judge": {
      "type": "object",
      "properties": {
        "endpoint": {"type": "string"},
        "model": {"type": "string"},
        "ratePerMinute": {"type": "integer", "minimum": 0},
        "retries": {"type": "integer", "minimum": 0},
        "cooldownSeconds": {"type": "integer", "minimum": 0},
        "timeout": {"type": "integer", "minimum": 0},
        "checkpointEvery": {"type": "integer", "minimum": 0},
        "cacheSize": {"type": "integer", "minimum": 0}
      }
    }
  }
}`

// validateConfigBytes checks raw config JSON against the schema.
func validateConfigBytes(raw []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(configSchema)
	documentLoader := gojsonschema.NewBytesLoader(raw)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(issues, "; "))
}
