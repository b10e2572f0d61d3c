package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Result Processing API",
        "description": "Score entry, approval workflow and GPA computation for university results",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": ["http", "https"],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [{"name": "Results", "description": "Score entry and the approval workflow"}, {"name": "GPA", "description": "GPA and CGPA snapshots"}, {"name": "Grading", "description": "Grading scale administration"}, {"name": "Sessions", "description": "Academic sessions and semester locks"}, {"name": "Settings", "description": "System settings"}, {"name": "Reports", "description": "Department reports"}, {"name": "Audit", "description": "Audit trail"}],
    "paths": {
        "/health": {
            "get": {"summary": "Liveness check", "responses": {"200": {"description": "OK"}}}
        },
        "/ready": {
            "get": {"summary": "Readiness check", "responses": {"200": {"description": "Ready"}, "503": {"description": "Database unreachable"}}}
        },
        "/api/v1/results": {
            "get": {"tags": ["Results"], "summary": "List results", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "studentId", "in": "query", "required": false, "type": "string"}, {"name": "courseId", "in": "query", "required": false, "type": "string"}, {"name": "session", "in": "query", "required": false, "type": "string"}, {"name": "semester", "in": "query", "required": false, "type": "string"}, {"name": "department", "in": "query", "required": false, "type": "string"}, {"name": "status", "in": "query", "required": false, "type": "string"}, {"name": "page", "in": "query", "required": false, "type": "integer"}, {"name": "pageSize", "in": "query", "required": false, "type": "integer"}]},
            "post": {"tags": ["Results"], "summary": "Enter or correct one score", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: LECTURER, ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordScoreRequest"}}]}
        },
        "/api/v1/results/bulk": {
            "post": {"tags": ["Results"], "summary": "Upload many scores of one course", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: LECTURER, ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BulkRecordRequest"}}]}
        },
        "/api/v1/results/import": {
            "post": {"tags": ["Results"], "summary": "Import a CSV score sheet", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: LECTURER, ADMIN", "parameters": [{"name": "courseId", "in": "formData", "required": true, "type": "string"}, {"name": "session", "in": "formData", "required": true, "type": "string"}, {"name": "semester", "in": "formData", "required": true, "type": "string"}, {"name": "file", "in": "formData", "required": true, "type": "file"}], "consumes": ["multipart/form-data"]}
        },
        "/api/v1/results/submit": {
            "post": {"tags": ["Results"], "summary": "Submit the caller's drafts of a course", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: LECTURER, ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CourseTermQuery"}}]}
        },
        "/api/v1/results/approve": {
            "post": {"tags": ["Results"], "summary": "Approve submitted results", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: HOD, ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResultIDsRequest"}}]}
        },
        "/api/v1/results/reject": {
            "post": {"tags": ["Results"], "summary": "Reject submitted results", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: HOD, ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RejectRequest"}}]}
        },
        "/api/v1/results/publish": {
            "post": {"tags": ["Results"], "summary": "Publish results to students", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ResultIDsRequest"}}]}
        },
        "/api/v1/results/me": {
            "get": {"tags": ["Results"], "summary": "Published results of the signed-in student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: STUDENT"}
        },
        "/api/v1/results/{id}": {
            "get": {"tags": ["Results"], "summary": "Get a result", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/results/{id}/override": {
            "put": {"tags": ["Results"], "summary": "Override a result's scores", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/OverrideRequest"}}]}
        },
        "/api/v1/courses/{id}/results": {
            "get": {"tags": ["Results"], "summary": "Results of a course offering", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "session", "in": "query", "required": true, "type": "string"}, {"name": "semester", "in": "query", "required": true, "type": "string"}]}
        },
        "/api/v1/courses/{id}/results/template": {
            "get": {"tags": ["Results"], "summary": "Download a score sheet", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: LECTURER, ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "session", "in": "query", "required": true, "type": "string"}, {"name": "semester", "in": "query", "required": true, "type": "string"}], "produces": ["text/csv"]}
        },
        "/api/v1/students/{id}/results": {
            "get": {"tags": ["Results"], "summary": "Results of a student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/students/{id}/gpa": {
            "get": {"tags": ["GPA"], "summary": "GPA of a student for one semester", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "session", "in": "query", "required": true, "type": "string"}, {"name": "semester", "in": "query", "required": true, "type": "string"}]}
        },
        "/api/v1/students/{id}/gpa/history": {
            "get": {"tags": ["GPA"], "summary": "Stored GPA snapshots of a student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/students/{id}/gpa/recompute": {
            "post": {"tags": ["GPA"], "summary": "Recompute every GPA snapshot of a student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/gpa/me": {
            "get": {"tags": ["GPA"], "summary": "GPA of the signed-in student", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: STUDENT", "parameters": [{"name": "session", "in": "query", "required": true, "type": "string"}, {"name": "semester", "in": "query", "required": true, "type": "string"}]}
        },
        "/api/v1/gpa/reconcile": {
            "post": {"tags": ["GPA"], "summary": "Recompute GPA snapshots of a whole session", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN"}
        },
        "/api/v1/grading-scales": {
            "get": {"tags": ["Grading"], "summary": "List active grading bands", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["Grading"], "summary": "Add a grading band", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradingBandRequest"}}]}
        },
        "/api/v1/grading-scales/defaults": {
            "post": {"tags": ["Grading"], "summary": "Seed the built-in grading table", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN"}
        },
        "/api/v1/grading-scales/{id}": {
            "put": {"tags": ["Grading"], "summary": "Replace a grading band", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GradingBandRequest"}}]},
            "delete": {"tags": ["Grading"], "summary": "Deactivate a grading band", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/sessions": {
            "get": {"tags": ["Sessions"], "summary": "List academic sessions", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}},
            "post": {"tags": ["Sessions"], "summary": "Open an academic session", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateSessionRequest"}}]}
        },
        "/api/v1/sessions/active": {
            "get": {"tags": ["Sessions"], "summary": "Get the active academic session", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "404": {"description": "No active session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/api/v1/sessions/{id}/activate": {
            "post": {"tags": ["Sessions"], "summary": "Make a session the active one", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/sessions/{id}/semesters/{semester}/lock": {
            "post": {"tags": ["Sessions"], "summary": "Lock a semester", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "semester", "in": "path", "required": true, "type": "string"}]},
            "delete": {"tags": ["Sessions"], "summary": "Unlock a semester", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "semester", "in": "path", "required": true, "type": "string"}]}
        },
        "/api/v1/settings": {
            "get": {"tags": ["Settings"], "summary": "List settings", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}}
        },
        "/api/v1/settings/{key}": {
            "get": {"tags": ["Settings"], "summary": "Get a setting", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}]},
            "put": {"tags": ["Settings"], "summary": "Update a setting", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "key", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSettingRequest"}}]}
        },
        "/api/v1/reports/department": {
            "get": {"tags": ["Reports"], "summary": "Department result report", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: HOD, ADMIN", "parameters": [{"name": "department", "in": "query", "required": false, "type": "string"}, {"name": "session", "in": "query", "required": true, "type": "string"}, {"name": "semester", "in": "query", "required": false, "type": "string"}]}
        },
        "/api/v1/audit-logs": {
            "get": {"tags": ["Audit"], "summary": "List audit log entries", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}, "description": "Roles: ADMIN", "parameters": [{"name": "actorId", "in": "query", "required": false, "type": "string"}, {"name": "action", "in": "query", "required": false, "type": "string"}, {"name": "resource", "in": "query", "required": false, "type": "string"}, {"name": "resourceId", "in": "query", "required": false, "type": "string"}, {"name": "from", "in": "query", "required": false, "type": "string"}, {"name": "to", "in": "query", "required": false, "type": "string"}, {"name": "page", "in": "query", "required": false, "type": "integer"}, {"name": "pageSize", "in": "query", "required": false, "type": "integer"}]}
        }
    },
    "definitions": {
        "RecordScoreRequest": {
            "type": "object",
            "properties": {"studentId": {"type": "string"}, "courseId": {"type": "string"}, "session": {"type": "string"}, "semester": {"type": "string", "enum": ["First", "Second"]}, "ca": {"type": "number"}, "exam": {"type": "number"}, "remarks": {"type": "string"}}
        },
        "ScoreEntry": {
            "type": "object",
            "required": ["studentId", "ca", "exam"],
            "properties": {"studentId": {"type": "string"}, "ca": {"type": "number"}, "exam": {"type": "number"}}
        },
        "BulkRecordRequest": {
            "type": "object",
            "properties": {"courseId": {"type": "string"}, "session": {"type": "string"}, "semester": {"type": "string", "enum": ["First", "Second"]}, "entries": {"type": "array", "items": {"$ref": "#/definitions/ScoreEntry"}}, "submit": {"type": "boolean"}}
        },
        "CourseTermQuery": {
            "type": "object",
            "properties": {"courseId": {"type": "string"}, "session": {"type": "string"}, "semester": {"type": "string", "enum": ["First", "Second"]}}
        },
        "ResultIDsRequest": {
            "type": "object",
            "properties": {"resultIds": {"type": "array", "items": {"type": "string"}}}
        },
        "RejectRequest": {
            "type": "object",
            "properties": {"resultIds": {"type": "array", "items": {"type": "string"}}, "reason": {"type": "string"}}
        },
        "OverrideRequest": {
            "type": "object",
            "properties": {"ca": {"type": "number"}, "exam": {"type": "number"}, "reason": {"type": "string"}}
        },
        "GradingBandRequest": {
            "type": "object",
            "properties": {"minScore": {"type": "number"}, "maxScore": {"type": "number"}, "grade": {"type": "string"}, "gradePoint": {"type": "number"}}
        },
        "CreateSessionRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "startDate": {"type": "string", "format": "date"}, "endDate": {"type": "string", "format": "date"}}
        },
        "UpdateSettingRequest": {
            "type": "object",
            "properties": {"value": {"type": "string"}}
        },
        "Pagination": {
            "type": "object",
            "properties": {"page": {"type": "integer"}, "page_size": {"type": "integer"}, "total_count": {"type": "integer"}}
        },
        "APIError": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "message": {"type": "string"}, "status": {"type": "integer"}}
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {"data": {"type": "object"}, "error": {"$ref": "#/definitions/APIError"}, "pagination": {"$ref": "#/definitions/Pagination"}, "meta": {"type": "object"}}
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
