// Package docs holds the OpenAPI description served at /swagger when
// SWAGGER_ENABLED is set. Regenerate with:
//
//	swag init -g cmd/server/main.go -o docs
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
        "/activity": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Activity"],
                "summary": "Live chat activity",
                "operationId": "activityFeed",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/activity.Entry"}}}
                }
            }
        },
        "/messages/latest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Newest message of every user",
                "operationId": "latestPerUser",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/messages/recent": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Newest stored message",
                "operationId": "mostRecentMessage",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Message"}},
                    "404": {"description": "Store is empty", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/messages/unreviewed": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Review queue",
                "operationId": "unreviewedMessages",
                "parameters": [
                    {"minimum": 0, "type": "integer", "default": 100, "description": "Maximum rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}}},
                    "400": {"description": "Bad limit", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/messages/review": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Set the reviewed flag of messages",
                "operationId": "markReviewed",
                "parameters": [
                    {"description": "Ids and flag", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.ReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.ReviewResponse"}},
                    "400": {"description": "Bad request", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Distinct message authors",
                "operationId": "listUsers",
                "parameters": [
                    {"type": "string", "description": "ETag from a previous response", "name": "If-None-Match", "in": "header"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "string"}}},
                    "304": {"description": "Not modified"},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/users/{user}/messages": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Review"],
                "summary": "Messages of one user",
                "operationId": "userMessages",
                "parameters": [
                    {"type": "string", "description": "User handle", "name": "user", "in": "path", "required": true},
                    {"type": "string", "default": "desc", "description": "asc|desc (aliases oldest|newest)", "name": "order", "in": "query"},
                    {"type": "boolean", "description": "Skip reviewed messages", "name": "hide_reviewed", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Message"}}},
                    "400": {"description": "Bad order", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "503": {"description": "Store unavailable", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "activity.Entry": {
            "type": "object",
            "properties": {
                "comment_count": {"type": "integer"},
                "display_name": {"type": "string"},
                "last_text": {"type": "string"},
                "last_timestamp": {"type": "string"},
                "user": {"type": "string"}
            }
        },
        "domain.Message": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "reviewed": {"type": "boolean"},
                "text": {"type": "string"},
                "timestamp": {"type": "string", "example": "2024-05-01T12:00:00Z"},
                "user": {"type": "string"}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "not_found"},
                "message": {"type": "string", "example": "no messages stored yet"},
                "request_id": {"type": "string", "example": "123e4567-e89b-12d3-a456-426614174000"}
            }
        },
        "handlers.ReviewRequest": {
            "type": "object",
            "required": ["reviewed"],
            "properties": {
                "ids": {"type": "array", "items": {"type": "integer"}, "example": [1, 2, 3]},
                "reviewed": {"type": "boolean", "example": true}
            }
        },
        "handlers.ReviewResponse": {
            "type": "object",
            "properties": {
                "matched": {"type": "integer", "example": 3}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "ChatMan API",
	Description:      "Live chat activity feed and message review queue.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
