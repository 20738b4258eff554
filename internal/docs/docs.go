// Package docs registers the OpenAPI description served by the Swagger UI.
// Regenerate with: swag init -g cmd/qa-server/main.go -o internal/docs
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
        "/questions": {
            "get": {
                "description": "Returns every question, or the [start, end) window when both bounds are given.",
                "produces": ["application/json"],
                "tags": ["Questions"],
                "summary": "List questions",
                "operationId": "listQuestions",
                "parameters": [
                    {"type": "integer", "description": "Window start (inclusive)", "name": "start", "in": "query"},
                    {"type": "integer", "description": "Window end (exclusive)", "name": "end", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Question"}}},
                    "422": {"description": "Invalid or missing parameter", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Stores the question under its id, replacing any existing record.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Questions"],
                "summary": "Add a question",
                "operationId": "createQuestion",
                "parameters": [
                    {"description": "Question", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.QuestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Question added", "schema": {"type": "string"}},
                    "422": {"description": "Malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/questions/{id}": {
            "put": {
                "description": "Replaces the question stored under id.",
                "consumes": ["application/json"],
                "produces": ["text/plain"],
                "tags": ["Questions"],
                "summary": "Update a question",
                "operationId": "updateQuestion",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true},
                    {"description": "Question", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.QuestionRequest"}}
                ],
                "responses": {
                    "200": {"description": "Question updated", "schema": {"type": "string"}},
                    "416": {"description": "Question not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Malformed body", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            },
            "delete": {
                "description": "Removes the question stored under id. Its answers are kept.",
                "produces": ["text/plain"],
                "tags": ["Questions"],
                "summary": "Delete a question",
                "operationId": "deleteQuestion",
                "parameters": [
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Question removed", "schema": {"type": "string"}},
                    "416": {"description": "Question not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        },
        "/questions/{id}/answers": {
            "post": {
                "description": "Creates an answer with the given content for the question. Supports the Idempotency-Key header.",
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/plain"],
                "tags": ["Answers"],
                "summary": "Attach an answer to a question",
                "operationId": "addAnswer",
                "parameters": [
                    {"type": "string", "description": "Idempotency key for safe retries", "name": "Idempotency-Key", "in": "header"},
                    {"type": "string", "description": "Question ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "description": "Answer text", "name": "content", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Answer added", "schema": {"type": "string"}},
                    "416": {"description": "Question not found", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}},
                    "422": {"description": "Missing content", "schema": {"$ref": "#/definitions/handlers.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Question": {
            "type": "object",
            "properties": {
                "id": {"type": "string", "example": "1"},
                "title": {"type": "string", "example": "First question"},
                "content": {"type": "string", "example": "Content of question"},
                "tags": {"type": "array", "items": {"type": "string"}, "example": ["faq", "go"]}
            }
        },
        "handlers.QuestionRequest": {
            "type": "object",
            "required": ["id", "title", "content"],
            "properties": {
                "id": {"type": "string", "example": "1"},
                "title": {"type": "string", "example": "First question"},
                "content": {"type": "string", "example": "Content of question"},
                "tags": {"type": "array", "items": {"type": "string"}}
            }
        },
        "handlers.ErrorResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "example": "2b0c8c1e-9a0f-4d0c-9a57-6b4d2e1c3f7a"},
                "code": {"type": "string", "example": "question_not_found"},
                "message": {"type": "string", "example": "Question not found"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Q&A Backend API",
	Description:      "In-memory questions and answers over HTTP.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
