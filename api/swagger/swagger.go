package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Assistant API",
        "description": "Notices, FAQs, scraping and a keyword chatbot for a college campus",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {
            "name": "Authentication"
        },
        {
            "name": "Notices"
        },
        {
            "name": "Files"
        },
        {
            "name": "FAQs"
        },
        {
            "name": "Chatbot"
        },
        {
            "name": "Dashboard"
        },
        {
            "name": "Admin"
        },
        {
            "name": "Logs"
        },
        {
            "name": "Scraper"
        }
    ],
    "paths": {
        "/auth/login": {
            "post": {"tags": ["Authentication"], "summary": "Authenticate user", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Account deactivated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/register": {
            "post": {"tags": ["Authentication"], "summary": "Register student", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Enrollment already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/auth/me": {
            "get": {"tags": ["Authentication"], "summary": "Current user profile", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/notices": {
            "get": {"tags": ["Notices"], "summary": "List notices visible to the caller", "parameters": [{"name": "category", "in": "query", "type": "string"}, {"name": "today", "in": "query", "type": "boolean"}, {"name": "q", "in": "query", "type": "string"}, {"name": "page", "in": "query", "type": "integer"}, {"name": "page_size", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["Notices"], "summary": "Create draft notice", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NoticeRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/notices/categories": {
            "get": {"tags": ["Notices"], "summary": "List notice categories", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/notices/{id}": {
            "get": {"tags": ["Notices"], "summary": "Get notice with attachments", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "put": {"tags": ["Notices"], "summary": "Update notice", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/NoticeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "delete": {"tags": ["Notices"], "summary": "Delete notice", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/notices/{id}/files": {
            "post": {"tags": ["Notices"], "summary": "Attach a file to a notice", "consumes": ["multipart/form-data"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "file", "in": "formData", "type": "file", "required": true}], "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "415": {"description": "Unsupported file type"}}}
        },
        "/notices/{id}/files/{fileId}": {
            "delete": {"tags": ["Notices"], "summary": "Remove a notice attachment", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "fileId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/notices/{id}/publish": {
            "post": {"tags": ["Notices"], "summary": "Publish notice", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/PublishNoticeRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/files/notices/{id}": {
            "get": {"tags": ["Files"], "summary": "Download notice attachment", "produces": ["application/octet-stream"], "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "File"}, "403": {"description": "Forbidden"}, "404": {"description": "Not Found"}}}
        },
        "/faqs": {
            "get": {"tags": ["FAQs"], "summary": "List answered FAQs", "parameters": [{"name": "category", "in": "query", "type": "string"}, {"name": "q", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}},
            "post": {"tags": ["FAQs"], "summary": "Create FAQ", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateFAQRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/faqs/{id}": {
            "delete": {"tags": ["FAQs"], "summary": "Delete FAQ", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/faqs/{id}/answer": {
            "post": {"tags": ["FAQs"], "summary": "Answer FAQ", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}, {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnswerFAQRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "FAQ already answered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/student/faqs": {
            "get": {"tags": ["FAQs"], "summary": "List the caller's questions", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["FAQs"], "summary": "Ask a question", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitFAQRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/moderation/faqs": {
            "get": {"tags": ["FAQs"], "summary": "FAQ moderation queue", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/student/dashboard": {
            "get": {"tags": ["Dashboard"], "summary": "Student dashboard", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/dashboard": {
            "get": {"tags": ["Dashboard"], "summary": "Admin dashboard summary", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/metrics": {
            "get": {"tags": ["Dashboard"], "summary": "Process counters", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/chatbot/query": {
            "post": {"tags": ["Chatbot"], "summary": "Ask the campus assistant", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChatbotQueryRequest"}}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Empty question or no matching answer", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/chatbot/health": {
            "get": {"tags": ["Chatbot"], "summary": "Chatbot readiness", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}}
        },
        "/admin/users": {
            "get": {"tags": ["Admin"], "summary": "List users", "parameters": [{"name": "role", "in": "query", "type": "string"}, {"name": "q", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/moderators": {
            "post": {"tags": ["Admin"], "summary": "Create moderator", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateModeratorRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Login ID already exists", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/users/{id}/activate": {
            "post": {"tags": ["Admin"], "summary": "Activate user", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/users/{id}/deactivate": {
            "post": {"tags": ["Admin"], "summary": "Deactivate user", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/users/{id}": {
            "delete": {"tags": ["Admin"], "summary": "Delete user", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/users/purge-non-admins": {
            "post": {"tags": ["Admin"], "summary": "Delete every non-admin account", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/logs/system": {
            "get": {"tags": ["Logs"], "summary": "Recent system logs", "parameters": [{"name": "module", "in": "query", "type": "string"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/logs/email": {
            "get": {"tags": ["Logs"], "summary": "Recent email logs", "parameters": [{"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/logs/export": {
            "post": {"tags": ["Logs"], "summary": "Export logs as CSV or PDF", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ExportRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/exports/{token}": {
            "get": {"tags": ["Logs"], "summary": "Download a generated export", "produces": ["application/octet-stream"], "parameters": [{"name": "token", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "File"}, "403": {"description": "Invalid or expired link"}}}
        },
        "/admin/documents": {
            "get": {"tags": ["Logs"], "summary": "Chatbot document corpus", "parameters": [{"name": "source_type", "in": "query", "type": "string"}, {"name": "visibility", "in": "query", "type": "string"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/websites": {
            "get": {"tags": ["Scraper"], "summary": "List scrape targets", "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]},
            "post": {"tags": ["Scraper"], "summary": "Add scrape target", "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AddWebsiteRequest"}}], "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "URL already added", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/websites/{id}": {
            "delete": {"tags": ["Scraper"], "summary": "Delete scrape target and its logs", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/websites/{id}/enable": {
            "post": {"tags": ["Scraper"], "summary": "Enable scrape target", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/websites/{id}/disable": {
            "post": {"tags": ["Scraper"], "summary": "Disable scrape target", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/websites/{id}/run": {
            "post": {"tags": ["Scraper"], "summary": "Scrape one website now", "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/run-all": {
            "post": {"tags": ["Scraper"], "summary": "Scrape every enabled website", "parameters": [{"name": "async", "in": "query", "type": "boolean"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "202": {"description": "Queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        },
        "/admin/scraper/logs": {
            "get": {"tags": ["Scraper"], "summary": "Recent scrape logs", "parameters": [{"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}, "security": [{"BearerAuth": []}]}
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {"login_id": {"type": "string"}, "password": {"type": "string"}},
            "required": ["login_id", "password"]
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {"sign_name": {"type": "string"}, "enrollment_no": {"type": "string"}, "department": {"type": "string"}, "year": {"type": "integer"}, "email": {"type": "string"}, "password": {"type": "string"}},
            "required": ["sign_name", "enrollment_no", "department", "year", "password"]
        },
        "CreateModeratorRequest": {
            "type": "object",
            "properties": {"login_id": {"type": "string"}, "sign_name": {"type": "string"}, "department": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "NoticeRequest": {
            "type": "object",
            "properties": {"title": {"type": "string"}, "summary": {"type": "string"}, "content": {"type": "string"}, "category": {"type": "string"}, "visibility": {"type": "string", "enum": ["public", "student", "restricted"]}, "target_department": {"type": "string"}, "target_year": {"type": "integer"}},
            "required": ["title", "visibility"]
        },
        "PublishNoticeRequest": {
            "type": "object",
            "properties": {"send_email": {"type": "boolean"}}
        },
        "SubmitFAQRequest": {
            "type": "object",
            "properties": {"question": {"type": "string"}, "category": {"type": "string"}, "target_department": {"type": "string"}},
            "required": ["question"]
        },
        "CreateFAQRequest": {
            "type": "object",
            "properties": {"question": {"type": "string"}, "answer": {"type": "string"}, "category": {"type": "string"}, "target_department": {"type": "string"}},
            "required": ["question"]
        },
        "AnswerFAQRequest": {
            "type": "object",
            "properties": {"answer": {"type": "string"}},
            "required": ["answer"]
        },
        "ChatbotQueryRequest": {
            "type": "object",
            "properties": {"query": {"type": "string"}}
        },
        "AddWebsiteRequest": {
            "type": "object",
            "properties": {"url": {"type": "string"}, "name": {"type": "string"}},
            "required": ["url"]
        },
        "ExportRequest": {
            "type": "object",
            "properties": {"dataset": {"type": "string", "enum": ["system", "email", "scrape"]}, "format": {"type": "string", "enum": ["csv", "pdf"]}, "module": {"type": "string"}, "limit": {"type": "integer"}},
            "required": ["dataset", "format"]
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
