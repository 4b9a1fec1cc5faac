package storage

import "github.com/xeipuuv/gojsonschema"

// snapshotSchemaJSON describes snapshot files. Calendars and computed fields
// are checked by their own decoders.
const snapshotSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["projects"],
  "properties": {
    "now": {"type": "string"},
    "projects": {
      "type": "array",
      "items": {"$ref": "#/definitions/project"}
    }
  },
  "definitions": {
    "project": {
      "type": "object",
      "required": ["id", "name", "start", "end"],
      "properties": {
        "id": {"type": ["string", "integer"]},
        "name": {"type": "string"},
        "start": {"type": "string"},
        "end": {"type": "string"},
        "calendar": {"type": "object"},
        "resources": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "name"],
            "properties": {
              "id": {"type": ["string", "integer"]},
              "name": {"type": "string"}
            }
          }
        },
        "tasks": {
          "type": "array",
          "items": {"$ref": "#/definitions/task"}
        },
        "bookings": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["task_id", "resource_id", "start", "end"],
            "properties": {
              "task_id": {"type": ["string", "integer"]},
              "resource_id": {"type": ["string", "integer"]}
            }
          }
        }
      }
    },
    "task": {
      "type": "object",
      "required": ["id", "name"],
      "properties": {
        "id": {"type": ["string", "integer"]},
        "name": {"type": "string"},
        "effort": {"type": ["string", "number"]},
        "resources": {"type": "array", "items": {"type": ["string", "integer"]}},
        "depends_on": {"type": "array", "items": {"type": ["string", "integer"]}},
        "children": {
          "type": "array",
          "items": {"$ref": "#/definitions/task"}
        }
      }
    }
  }
}`

var snapshotSchemaLoader = gojsonschema.NewStringLoader(snapshotSchemaJSON)
