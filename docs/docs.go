// Package docs carries the hand-maintained Swagger spec for the API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/blog/posts": {
            "get": {
                "tags": ["blog"],
                "summary": "List blog posts, newest first",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["blog"],
                "summary": "Publish a blog post (admin only)",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "responses": {
                    "201": {"description": "Created"},
                    "401": {"description": "Unauthenticated"},
                    "403": {"description": "Forbidden"},
                    "422": {"description": "Content rejected by moderation"}
                }
            }
        },
        "/blog/posts/{id}": {
            "get": {
                "tags": ["blog"],
                "summary": "Get a blog post",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["blog"],
                "summary": "Delete a blog post and its comments",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Conflict, retryable"}
                }
            }
        },
        "/forum/posts": {
            "get": {
                "tags": ["forum"],
                "summary": "List forum posts, pinned first then newest",
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["forum"],
                "summary": "Create a forum post",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "401": {"description": "Unauthenticated"},
                    "422": {"description": "Content rejected by moderation"}
                }
            }
        },
        "/forum/posts/{id}": {
            "get": {
                "tags": ["forum"],
                "summary": "Get a forum post with its comments",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["forum"],
                "summary": "Delete a forum post and its comments",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Conflict, retryable"}
                }
            }
        },
        "/comments": {
            "get": {
                "tags": ["comments"],
                "summary": "List comments for a post, newest first",
                "parameters": [
                    {"name": "postId", "in": "query", "required": true, "type": "string"},
                    {"name": "postType", "in": "query", "type": "string", "enum": ["forum", "blog"]}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Parent post not found"}}
            },
            "post": {
                "tags": ["comments"],
                "summary": "Comment on a post",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "404": {"description": "Parent post not found"},
                    "422": {"description": "Content rejected by moderation"}
                }
            }
        },
        "/comments/{id}": {
            "delete": {
                "tags": ["comments"],
                "summary": "Delete a comment",
                "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Forbidden"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["events"],
                "summary": "List events, date ascending; upcoming only without a status filter",
                "parameters": [{"name": "status", "in": "query", "type": "string", "enum": ["UPCOMING", "ONGOING", "COMPLETED"]}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["events"],
                "summary": "Create an event (admin only)",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "403": {"description": "Forbidden"}
                }
            }
        },
        "/user": {
            "get": {
                "tags": ["users"],
                "summary": "Current user, created lazily on first sight",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthenticated"}}
            }
        },
        "/features": {
            "get": {
                "tags": ["features"],
                "summary": "Evaluated feature flags, including seasonal date windows",
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header",
            "description": "Type \"Bearer\" followed by a space and the session token."
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8375",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "ronotbroyt.xyz API",
	Description:      "Backend for a personal site: blog, forum with comments, events and seasonal features",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
