package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Centro Portal API",
        "description": "Admin events dashboard and accomplishment report engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Events", "description": "Grouped event listing and CSV export"},
        {"name": "Reports", "description": "Asynchronous accomplishment report generation"},
        {"name": "Metrics", "description": "Observability endpoints"}
    ],
    "paths": {
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Grouped events listing",
                "description": "Buckets the organization's events into ongoing, upcoming and completed.",
                "parameters": [
                    {"name": "search", "in": "query", "type": "string", "description": "Filter by title or event ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Single event detail",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string", "description": "Event ID"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Event not found"}
                }
            }
        },
        "/events/export": {
            "get": {
                "tags": ["Events"],
                "summary": "Export events as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV attachment"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue an accomplishment report",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "A generation is already in flight for this organization"}
                }
            },
            "get": {
                "tags": ["Reports"],
                "summary": "List recent report jobs",
                "parameters": [
                    {"name": "limit", "in": "query", "type": "integer", "default": 20}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Report job status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Job belongs to another organization"},
                    "404": {"description": "Unknown job"}
                }
            }
        },
        "/export/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report via signed token",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF attachment"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        },
        "/metrics/summary": {
            "get": {
                "tags": ["Metrics"],
                "summary": "Aggregated system metrics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ReportRequest": {
            "type": "object",
            "properties": {
                "period": {"type": "string", "description": "\"all\" for annual or \"1\"..\"12\" for monthly"},
                "year": {"type": "integer"},
                "format": {"type": "string", "enum": ["pdf", "csv"]}
            },
            "required": ["period", "year"]
        },
        "ReportJobResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string"},
                "progress": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
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
