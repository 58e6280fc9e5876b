package extract

import "github.com/xeipuuv/gojsonschema"

// planSchemaJSON is the required shape of a lifestyle plan: exactly the six
// domains, each with a non-empty baseline, at most 3 goals, at most 5 KPIs,
// and optional evidence quotes. Model output that parses as JSON but fails
// this schema is a schema-kind extraction failure.
const planSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "healthy_eating",
    "physical_activity",
    "substances",
    "stress_management",
    "sleep",
    "social_connections"
  ],
  "additionalProperties": false,
  "properties": {
    "healthy_eating": {"$ref": "#/definitions/domain"},
    "physical_activity": {"$ref": "#/definitions/domain"},
    "substances": {"$ref": "#/definitions/domain"},
    "stress_management": {"$ref": "#/definitions/domain"},
    "sleep": {"$ref": "#/definitions/domain"},
    "social_connections": {"$ref": "#/definitions/domain"}
  },
  "definitions": {
    "domain": {
      "type": "object",
      "required": ["baseline", "smart_goals", "tracking_kpis"],
      "additionalProperties": false,
      "properties": {
        "baseline": {"type": "string", "minLength": 1},
        "smart_goals": {
          "type": "array",
          "items": {"type": "string"},
          "maxItems": 3
        },
        "tracking_kpis": {
          "type": "array",
          "items": {"type": "string"},
          "maxItems": 5
        },
        "evidence_quotes": {
          "type": "array",
          "items": {"type": "string"}
        }
      }
    }
  }
}`

var planSchema = gojsonschema.NewStringLoader(planSchemaJSON)
