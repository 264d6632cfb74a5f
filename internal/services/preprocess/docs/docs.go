// Package docs registers the OpenAPI document for the preprocess API with swag
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/events": {
            "post": {
                "tags": ["Preprocess"],
                "summary": "Run the pipeline for a bucket notification",
                "description": "Accepts an S3/MinIO notification (first record only) or a GCS object notification",
                "operationId": "preprocessEvent",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"type": "object"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}},
                    "404": {"description": "source object missing", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}},
                    "422": {"description": "unparseable CSV", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}},
                    "503": {"description": "storage unavailable, retry", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}}
                }
            }
        },
        "/preprocess": {
            "post": {
                "tags": ["Preprocess"],
                "summary": "Run the pipeline for one object",
                "operationId": "preprocessObject",
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Trigger"}}}
                },
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}},
                    "404": {"description": "source object missing", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Result"}}}}
                }
            }
        },
        "/runs/{id}": {
            "get": {
                "tags": ["Preprocess"],
                "summary": "Look up a recorded run",
                "operationId": "preprocessRun",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "description": "Run id", "schema": {"type": "string"}}
                ],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/domain.Run"}}}},
                    "404": {"description": "unknown run or ledger disabled", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        }
    },
    "components": {
        "schemas": {
            "domain.Trigger": {
                "type": "object",
                "required": ["bucket", "key"],
                "properties": {
                    "bucket": {"type": "string", "example": "raw-drops"},
                    "key": {"type": "string", "example": "2024/sales.csv"}
                }
            },
            "domain.Stats": {
                "type": "object",
                "properties": {
                    "rows_in": {"type": "integer"},
                    "rows_out": {"type": "integer"},
                    "duplicates": {"type": "integer"},
                    "columns": {"type": "integer"},
                    "bytes_in": {"type": "integer"},
                    "bytes_out": {"type": "integer"}
                }
            },
            "domain.Result": {
                "type": "object",
                "properties": {
                    "status_code": {"type": "integer", "example": 200},
                    "body": {"type": "string"},
                    "kind": {"type": "string", "enum": ["trigger", "parse", "read", "write"]},
                    "retryable": {"type": "boolean"},
                    "run_id": {"type": "string", "format": "uuid"},
                    "source": {"type": "string"},
                    "dest": {"type": "string"},
                    "stats": {"$ref": "#/components/schemas/domain.Stats"}
                }
            },
            "domain.Run": {
                "type": "object",
                "properties": {
                    "id": {"type": "string", "format": "uuid"},
                    "bucket": {"type": "string"},
                    "key": {"type": "string"},
                    "dest_bucket": {"type": "string"},
                    "dest_key": {"type": "string"},
                    "status": {"type": "string", "enum": ["running", "succeeded", "failed"]},
                    "kind": {"type": "string"},
                    "error": {"type": "string"},
                    "stats": {"$ref": "#/components/schemas/domain.Stats"},
                    "started_at": {"type": "string", "format": "date-time"},
                    "finished_at": {"type": "string", "format": "date-time"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "csvprep API",
	Description:      "Cleans CSV objects dropped into a bucket and stores the result under the output prefix",
	InfoInstanceName: "csvprep",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
