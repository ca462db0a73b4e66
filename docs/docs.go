// Package docs registers the OpenAPI document served under /swagger.
// Maintained by hand; keep it in step with the handler annotations.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register a new account",
                "description": "Creates an unverified user and sends a verification code (SMS preferred when a phone is given)",
                "parameters": [
                    {
                        "name": "register",
                        "in": "body",
                        "required": true,
                        "description": "Registration data",
                        "schema": {"$ref": "#/definitions/models.RegisterRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/auth/verify-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Verify a registration code",
                "parameters": [
                    {
                        "name": "verify",
                        "in": "body",
                        "required": true,
                        "description": "user_id and code",
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/auth/resend-otp": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Resend a verification code",
                "parameters": [
                    {
                        "name": "resend",
                        "in": "body",
                        "required": true,
                        "description": "user_id and optional purpose",
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"},
                    "502": {"description": "Bad Gateway"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {
                        "name": "login",
                        "in": "body",
                        "required": true,
                        "description": "Credentials",
                        "schema": {"$ref": "#/definitions/models.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/auth/forgot-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Request a password reset code",
                "parameters": [
                    {
                        "name": "forgot",
                        "in": "body",
                        "required": true,
                        "description": "email",
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/auth/reset-password": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Reset the password with a code",
                "parameters": [
                    {
                        "name": "reset",
                        "in": "body",
                        "required": true,
                        "description": "user_id, code, new_password",
                        "schema": {"type": "object"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Transactions"],
                "summary": "List my transactions",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Transactions"],
                "summary": "Add a transaction",
                "parameters": [
                    {
                        "name": "transaction",
                        "in": "body",
                        "required": true,
                        "description": "Transaction data",
                        "schema": {"$ref": "#/definitions/models.TransactionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request"}
                }
            }
        },
        "/transactions/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Transactions"],
                "summary": "Get one transaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Transaction ID"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Transactions"],
                "summary": "Update a transaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Transaction ID"},
                    {
                        "name": "transaction",
                        "in": "body",
                        "required": true,
                        "description": "Transaction data",
                        "schema": {"$ref": "#/definitions/models.TransactionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Transactions"],
                "summary": "Delete a transaction",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer", "description": "Transaction ID"}
                ],
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/reports/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Reports"],
                "summary": "Income/expense summary for a period",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "description": "Period start (YYYY-MM-DD), defaults to month start"},
                    {"name": "to", "in": "query", "type": "string", "description": "Period end (YYYY-MM-DD), defaults to month end"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/reports/statement": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/pdf"],
                "tags": ["Reports"],
                "summary": "Download a PDF statement for a period",
                "parameters": [
                    {"name": "from", "in": "query", "type": "string", "description": "Period start (YYYY-MM-DD)"},
                    {"name": "to", "in": "query", "type": "string", "description": "Period end (YYYY-MM-DD)"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "models.RegisterRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "phone": {"type": "string"},
                "password": {"type": "string"},
                "first_name": {"type": "string"},
                "last_name": {"type": "string"}
            }
        },
        "models.LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "models.TransactionRequest": {
            "type": "object",
            "required": ["amount", "type", "category"],
            "properties": {
                "amount": {"type": "string"},
                "type": {"type": "string", "enum": ["INCOME", "EXPENSE"]},
                "category": {"type": "string"},
                "subcategory": {"type": "string"},
                "comments": {"type": "string"},
                "date": {"type": "string", "format": "date-time"}
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
	Title:            "FinQuest Backend API",
	Description:      "Personal finance tracking backend: OTP-verified accounts and transaction CRUD.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
