// Package docs is generated by swag from the handler annotations. Regenerate with `swag init -g cmd/server/main.go`.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/deals": {
            "get": {
                "produces": ["application/json"],
                "tags": ["deals"],
                "summary": "List deals",
                "parameters": [
                    {"type": "string", "description": "stage id", "name": "stage", "in": "query"},
                    {"type": "string", "description": "owner id", "name": "owner_id", "in": "query"},
                    {"type": "string", "description": "search in name and notes", "name": "q", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.Deal"}}}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["deals"],
                "summary": "Create a deal",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Deal"}}}
            }
        },
        "/deals/{id}": {
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["deals"],
                "summary": "Partially update a deal",
                "parameters": [{"type": "string", "description": "deal id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Deal"}}}
            }
        },
        "/deals/{id}/stage": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Move a deal to another stage (board drag and drop)",
                "parameters": [{"type": "string", "description": "deal id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Deal"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/pipeline/board": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Deals grouped into one column per stage",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/pipeline/live": {
            "get": {
                "tags": ["pipeline"],
                "summary": "Live pipeline board updates over websocket",
                "parameters": [{"type": "string", "description": "JWT when the Authorization header cannot be set", "name": "access_token", "in": "query"}],
                "responses": {"101": {"description": "Switching Protocols"}}
            }
        },
        "/pipeline/metrics": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Pipeline metrics",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/owners": {
            "get": {
                "produces": ["application/json"],
                "tags": ["reports"],
                "summary": "Setter and closer performance",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/pipeline.pdf": {
            "get": {
                "produces": ["application/pdf"],
                "tags": ["reports"],
                "summary": "Pipeline report as PDF",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/stages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pipeline"],
                "summary": "Registered pipeline stages in board order",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "models.Deal": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "deal_value": {"type": "number"},
                "probability": {"type": "integer"},
                "stage": {"type": "string"},
                "owner_id": {"type": "string"},
                "service_type": {"type": "string"},
                "source": {"type": "string"},
                "notes": {"type": "string"},
                "lead_id": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "won_date": {"type": "string"},
                "lost_date": {"type": "string"},
                "expected_close_date": {"type": "string"},
                "actual_close_date": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Vertical Systems CRM API",
	Description:      "Deals, pipeline board and sales reports.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
