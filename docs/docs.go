// Package docs holds the OpenAPI document served under /swagger.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "204": {"description": "No Content"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.sessionResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List roster entries",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive match on name or email", "name": "search", "in": "query"},
                    {"type": "string", "description": "admin, focal_person, viewer or all", "name": "role", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userListResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Add a roster entry",
                "parameters": [
                    {"description": "New user", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/users/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Roster tallies by role",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.RosterStats"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/users/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a roster entry",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.User"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["users"],
                "summary": "Remove a roster entry",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/feedback": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["feedback"],
                "summary": "Submit feedback",
                "parameters": [
                    {"type": "string", "description": "Idempotency key to prevent duplicate submissions", "name": "Idempotency-Key", "in": "header"},
                    {"description": "Feedback form", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.submitFeedbackRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.submitFeedbackResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "List tasks",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive match on title, description or reference", "name": "search", "in": "query"},
                    {"type": "string", "description": "pending, in_progress, resolved, closed or all", "name": "status", "in": "query"},
                    {"type": "string", "description": "low, medium, high, urgent or all", "name": "priority", "in": "query"},
                    {"type": "string", "description": "programmatic, sensitive, out_of_scope or all", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.taskListResponse"}}
                }
            }
        },
        "/v1/tasks/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Task tallies",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.TaskStats"}}
                }
            }
        },
        "/v1/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Get a task by reference",
                "parameters": [
                    {"type": "string", "description": "Task reference (e.g. FB-001)", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["tasks"],
                "summary": "Delete a task",
                "parameters": [
                    {"type": "string", "description": "Task reference", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/tasks/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Change a task's status",
                "parameters": [
                    {"type": "string", "description": "Task reference", "name": "id", "in": "path", "required": true},
                    {"description": "Target status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/tasks/{id}/assignee": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["tasks"],
                "summary": "Reassign a task",
                "parameters": [
                    {"type": "string", "description": "Task reference", "name": "id", "in": "path", "required": true},
                    {"description": "New assignee", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.assignRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/analytics": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["analytics"],
                "summary": "Task breakdown for the analytics view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Analytics"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "focal_person", "viewer"]},
                "avatar": {"type": "string"},
                "department": {"type": "string"},
                "joined_at": {"type": "string"},
                "version": {"type": "integer"}
            }
        },
        "domain.RosterStats": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "admins": {"type": "integer"},
                "focal_persons": {"type": "integer"},
                "viewers": {"type": "integer"}
            }
        },
        "domain.Task": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "in_progress", "resolved", "closed"]},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "type": {"type": "string", "enum": ["programmatic", "sensitive", "out_of_scope"]},
                "assignee": {"type": "string"},
                "reporter": {"type": "string"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"},
                "due_date": {"type": "string"},
                "project": {"type": "string"},
                "location": {"type": "string"},
                "age": {"type": "integer"},
                "gender": {"type": "string"},
                "channel": {"type": "string"},
                "contact_phone": {"type": "string"},
                "version": {"type": "integer"}
            }
        },
        "domain.TaskStats": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "pending": {"type": "integer"},
                "in_progress": {"type": "integer"},
                "resolved": {"type": "integer"},
                "urgent": {"type": "integer"},
                "overdue": {"type": "integer"}
            }
        },
        "domain.Analytics": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "by_type": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_project": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_priority": {"type": "object", "additionalProperties": {"type": "integer"}},
                "by_status": {"type": "object", "additionalProperties": {"type": "integer"}},
                "resolution_rate": {"type": "number"}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "session": {"$ref": "#/definitions/handler.sessionResponse"}
            }
        },
        "handler.sessionResponse": {
            "type": "object",
            "properties": {
                "user": {"$ref": "#/definitions/domain.User"},
                "permissions": {"type": "array", "items": {"type": "string"}},
                "navigation": {"type": "array", "items": {"type": "object"}},
                "can_edit": {"type": "boolean"},
                "can_submit_feedback": {"type": "boolean"},
                "can_view_analytics": {"type": "boolean"},
                "can_manage_users": {"type": "boolean"}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "required": ["email", "name", "role"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "focal_person", "viewer"]},
                "avatar": {"type": "string"},
                "department": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "focal_person", "viewer"]},
                "avatar": {"type": "string"},
                "department": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.userListResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/domain.User"}},
                "total": {"type": "integer"}
            }
        },
        "handler.submitFeedbackRequest": {
            "type": "object",
            "required": ["details", "age", "gender", "location", "project", "type", "channel"],
            "properties": {
                "title": {"type": "string"},
                "details": {"type": "string", "minLength": 10, "maxLength": 1000},
                "age": {"type": "integer", "minimum": 1, "maximum": 120},
                "gender": {"type": "string", "enum": ["male", "female", "other"]},
                "location": {"type": "string"},
                "project": {"type": "string"},
                "type": {"type": "string", "enum": ["programmatic", "sensitive", "out_of_scope"]},
                "channel": {"type": "string", "enum": ["email", "phone", "in_person"]},
                "phone": {"type": "string"},
                "priority": {"type": "string", "enum": ["low", "medium", "high", "urgent"]},
                "anonymous": {"type": "boolean"},
                "assignee": {"type": "string"},
                "due_date": {"type": "string", "example": "2024-03-01"}
            }
        },
        "handler.submitFeedbackResponse": {
            "type": "object",
            "properties": {
                "task": {"$ref": "#/definitions/domain.Task"},
                "_links": {"$ref": "#/definitions/handler.taskLinks"}
            }
        },
        "handler.taskLinks": {
            "type": "object",
            "properties": {
                "self": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "handler.taskListResponse": {
            "type": "object",
            "properties": {
                "tasks": {"type": "array", "items": {"$ref": "#/definitions/domain.Task"}},
                "total": {"type": "integer"}
            }
        },
        "handler.updateStatusRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["pending", "in_progress", "resolved", "closed"]}
            }
        },
        "handler.assignRequest": {
            "type": "object",
            "required": ["assignee"],
            "properties": {
                "assignee": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Feedback CRM API",
	Description:      "Roster, sessions and the feedback task lifecycle of an NGO feedback CRM.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
