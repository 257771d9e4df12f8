// Package docs holds the generated swagger spec for the booking API.
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
        "/api/book": {
            "post": {
                "description": "Reserves a 30 minute slot in the shop calendar",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Book an appointment",
                "parameters": [
                    {
                        "description": "Booking",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.ReserveRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ReserveResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Error"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/response.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Error"}}
                }
            }
        },
        "/api/book/{id}": {
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "description": "Deletes a booked calendar event",
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Cancel a booking",
                "parameters": [
                    {"type": "string", "description": "Event ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Message"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/response.Error"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/response.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Error"}}
                }
            }
        },
        "/api/slots": {
            "get": {
                "description": "Lists the free slots of a day",
                "produces": ["application/json"],
                "tags": ["Booking"],
                "summary": "Available slots",
                "parameters": [
                    {"type": "string", "example": "2024-06-10", "description": "Day", "name": "date", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SlotsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.Error"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/response.Error"}}
                }
            }
        }
    },
    "definitions": {
        "dto.BookingResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string", "example": "2024-06-10"},
                "firstName": {"type": "string", "example": "Ali"},
                "id": {"type": "string"},
                "lastName": {"type": "string", "example": "Veli"},
                "phone": {"type": "string", "example": "05551234567"},
                "time": {"type": "string", "example": "10:30"}
            }
        },
        "dto.ReserveRequest": {
            "type": "object",
            "required": ["date", "firstName", "lastName", "phone", "time"],
            "properties": {
                "date": {"type": "string", "example": "2024-06-10"},
                "firstName": {"type": "string", "maxLength": 100, "example": "Ali"},
                "lastName": {"type": "string", "maxLength": 100, "example": "Veli"},
                "phone": {"type": "string", "maxLength": 20, "example": "05551234567"},
                "time": {"type": "string", "example": "10:30"}
            }
        },
        "dto.ReserveResponse": {
            "type": "object",
            "properties": {
                "booking": {"$ref": "#/definitions/dto.BookingResponse"},
                "eventId": {"type": "string"},
                "message": {"type": "string"},
                "mock": {"type": "boolean"},
                "success": {"type": "boolean"}
            }
        },
        "dto.SlotsResponse": {
            "type": "object",
            "properties": {
                "closed": {"type": "boolean"},
                "date": {"type": "string"},
                "mock": {"type": "boolean"},
                "slots": {"type": "array", "items": {"type": "string"}}
            }
        },
        "response.Error": {
            "type": "object",
            "properties": {
                "availableSlots": {"type": "string"},
                "code": {},
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "response.Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Barber Booking API",
	Description:      "Appointment booking backed by Google Calendar.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
