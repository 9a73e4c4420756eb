// Package swagger holds the generated OpenAPI document for the image API.
package swagger

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
        "/api/v1/images": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "List images",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {"$ref": "#/definitions/responses.ImageResponse"}
                        }
                    }
                }
            },
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Upload an image",
                "description": "Accepts a JPEG or PNG multipart upload. The embedding is computed in the background after the response is sent.",
                "parameters": [
                    {
                        "type": "file",
                        "name": "file",
                        "in": "formData",
                        "description": "Image file (JPEG or PNG)",
                        "required": true
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {"$ref": "#/definitions/responses.ImageResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    }
                }
            }
        },
        "/api/v1/images/{id}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Get image metadata",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "description": "Image ID", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/responses.ImageResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    }
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["images"],
                "summary": "Delete an image",
                "description": "Removes the metadata record, then best-effort removes the stored object and cached vector.",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "description": "Image ID", "required": true}
                ],
                "responses": {
                    "204": {"description": "no content"},
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    }
                }
            }
        },
        "/api/v1/images/{id}/download": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/octet-stream"],
                "tags": ["images"],
                "summary": "Download image bytes",
                "description": "Streams the stored payload. Returns 424 when the metadata exists but the object store no longer has the bytes.",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "description": "Image ID", "required": true}
                ],
                "responses": {
                    "200": {"description": "binary data"},
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    },
                    "424": {
                        "description": "Failed Dependency",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    }
                }
            }
        },
        "/api/v1/images/{id}/similar": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["images"],
                "summary": "Find similar images",
                "description": "Ranks every other stored image by cosine similarity to the query image. A threshold of 0 disables filtering.",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "description": "Image ID", "required": true},
                    {"type": "integer", "name": "limit", "in": "query", "description": "Maximum matches to return", "default": 10},
                    {"type": "number", "name": "threshold", "in": "query", "description": "Minimum similarity score", "default": 0.8}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/responses.ImageWithSimilarResponse"}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    },
                    "422": {
                        "description": "Unprocessable Entity",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    },
                    "424": {
                        "description": "Failed Dependency",
                        "schema": {"$ref": "#/definitions/responses.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "responses.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"},
                "message": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "responses.ImageResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "file_name": {"type": "string"},
                "content_type": {"type": "string"},
                "created_at": {"type": "string"},
                "modified_at": {"type": "string"}
            }
        },
        "responses.SimilarImageResponse": {
            "type": "object",
            "properties": {
                "image_id": {"type": "integer"},
                "similarity": {"type": "number"}
            }
        },
        "responses.ImageWithSimilarResponse": {
            "type": "object",
            "properties": {
                "image": {"$ref": "#/definitions/responses.ImageResponse"},
                "similar": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/responses.SimilarImageResponse"}
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
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
	Title:            "Image API",
	Description:      "Image upload and similarity search service",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
