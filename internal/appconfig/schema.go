// internal/appconfig/schema.go
package appconfig

// configSchema is the JSON Schema every config file must satisfy before it
// is decoded. Keeping it strict here means the rest of the program never has
// to re-check field shapes.
const configSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["services"],
  "properties": {
    "services": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "kind"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "url": {"type": "string"},
          "kind": {"type": "string", "enum": ["ollama", "simulated"]},
          "model": {"type": "string"},
          "simulated": {
            "type": "object",
            "properties": {
              "firstTokenMs": {"type": "number", "minimum": 0},
              "perTokenMs": {"type": "number", "minimum": 0},
              "tokens": {"type": "integer", "minimum": 0},
              "jitterMs": {"type": "number", "minimum": 0},
              "failureRate": {"type": "number", "minimum": 0, "maximum": 1},
              "seed": {"type": "integer"}
            }
          }
        }
      }
    },
    "prompt": {"type": "string"},
    "iterations": {"type": "integer", "minimum": 1},
    "warmupCount": {"type": "integer", "minimum": 0},
    "minChunks": {"type": "integer", "minimum": 1},
    "targetTTFTMs": {"type": "number", "minimum": 0},
    "runs": {"type": "integer", "minimum": 1},
    "simultaneous": {"type": "boolean"},
    "load": {
      "type": "object",
      "properties": {
        "durationSeconds": {"type": "integer", "minimum": 1},
        "concurrency": {"type": "integer", "minimum": 1},
        "users": {"type": "integer", "minimum": 1},
        "thinkTimeMinMs": {"type": "integer", "minimum": 0},
        "thinkTimeMaxMs": {"type": "integer", "minimum": 0},
        "targetP95Ms": {"type": "number", "minimum": 0}
      }
    },
    "timeout": {"type": "integer", "minimum": 1},
    "logFile": {"type": "string"},
    "debug": {"type": "boolean"}
  }
}`
