// Package docs registers the OpenAPI document served under /swagger.
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
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "security": [{"BearerAuth": []}],
    "paths": {
        "/media/initialize": {
            "post": {"tags": ["media"], "summary": "Start a chunked upload", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "503": {"description": "Storage unavailable"}}}
        },
        "/media/chunk": {
            "post": {"tags": ["media"], "summary": "Upload one chunk (multipart field chunk)", "consumes": ["multipart/form-data"], "responses": {"200": {"description": "OK"}}}
        },
        "/media/finalize": {
            "post": {"tags": ["media"], "summary": "Complete an upload", "responses": {"200": {"description": "OK"}, "400": {"description": "Incomplete upload"}, "409": {"description": "Already finalized"}}}
        },
        "/media/status/{mediaId}": {
            "get": {"tags": ["media"], "summary": "Upload progress", "parameters": [{"name": "mediaId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/media/user/{userId}": {
            "get": {"tags": ["media"], "summary": "Completed media of a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/media/{mediaId}": {
            "delete": {"tags": ["media"], "summary": "Delete owned media", "parameters": [{"name": "mediaId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/posts": {
            "post": {"tags": ["posts"], "summary": "Create a post", "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}}}
        },
        "/posts/feed": {
            "get": {"tags": ["posts"], "summary": "Home feed", "parameters": [{"name": "page", "in": "query", "type": "integer"}, {"name": "limit", "in": "query", "type": "integer"}], "responses": {"200": {"description": "OK"}}}
        },
        "/posts/reels": {
            "get": {"tags": ["posts"], "summary": "Reels by tab", "parameters": [{"name": "tab", "in": "query", "type": "string", "enum": ["following", "trending", "recommended"]}], "responses": {"200": {"description": "OK"}}}
        },
        "/posts/watch": {
            "get": {"tags": ["posts"], "summary": "Long videos by category", "parameters": [{"name": "category", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Unknown category"}}}
        },
        "/posts/user/{userId}": {
            "get": {"tags": ["posts"], "summary": "Posts of a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/posts/{postId}": {
            "get": {"tags": ["posts"], "summary": "Get a post", "parameters": [{"name": "postId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}},
            "delete": {"tags": ["posts"], "summary": "Delete an owned post", "parameters": [{"name": "postId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/posts/{postId}/like": {
            "post": {"tags": ["posts"], "summary": "Toggle like", "parameters": [{"name": "postId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/posts/{postId}/comment": {
            "post": {"tags": ["posts"], "summary": "Comment on a post", "parameters": [{"name": "postId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/follows/{userId}": {
            "post": {"tags": ["follows"], "summary": "Follow a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Already following"}}},
            "delete": {"tags": ["follows"], "summary": "Unfollow a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/follows/{userId}/followers": {
            "get": {"tags": ["follows"], "summary": "Followers page", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/follows/{userId}/following": {
            "get": {"tags": ["follows"], "summary": "Following page", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/follows/{userId}/status": {
            "get": {"tags": ["follows"], "summary": "Whether the caller follows a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/notifications": {
            "get": {"tags": ["notifications"], "summary": "Notifications page", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/unread-count": {
            "get": {"tags": ["notifications"], "summary": "Unread count", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/read-all": {
            "put": {"tags": ["notifications"], "summary": "Mark all read", "responses": {"200": {"description": "OK"}}}
        },
        "/notifications/{notificationId}/read": {
            "put": {"tags": ["notifications"], "summary": "Mark one read", "parameters": [{"name": "notificationId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        },
        "/notifications/push/subscribe": {
            "post": {"tags": ["notifications"], "summary": "Register a web push subscription", "responses": {"201": {"description": "Created"}}}
        },
        "/messages": {
            "post": {"tags": ["messages"], "summary": "Send a direct message", "responses": {"201": {"description": "Created"}, "404": {"description": "Receiver not found"}}}
        },
        "/messages/conversations": {
            "get": {"tags": ["messages"], "summary": "Conversation list", "responses": {"200": {"description": "OK"}}}
        },
        "/messages/{userId}": {
            "get": {"tags": ["messages"], "summary": "History with a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/messages/{messageId}": {
            "delete": {"tags": ["messages"], "summary": "Delete a message", "parameters": [{"name": "messageId", "in": "path", "required": true, "type": "string"}, {"name": "scope", "in": "query", "type": "string", "enum": ["me", "everyone"]}], "responses": {"200": {"description": "OK"}, "403": {"description": "Not the sender"}}}
        },
        "/stories": {
            "get": {"tags": ["stories"], "summary": "Active stories", "responses": {"200": {"description": "OK"}}},
            "post": {"tags": ["stories"], "summary": "Upload a story (multipart field media)", "consumes": ["multipart/form-data"], "responses": {"201": {"description": "Created"}, "503": {"description": "Storage unavailable"}}}
        },
        "/stories/user/{userId}": {
            "get": {"tags": ["stories"], "summary": "Active stories of a user", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/stories/{storyId}/view": {
            "post": {"tags": ["stories"], "summary": "Record a view", "parameters": [{"name": "storyId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/stories/{storyId}/viewers": {
            "get": {"tags": ["stories"], "summary": "Viewers of an owned story", "parameters": [{"name": "storyId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/stories/{storyId}": {
            "delete": {"tags": ["stories"], "summary": "Delete an owned story", "parameters": [{"name": "storyId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/bookmarks": {
            "get": {"tags": ["bookmarks"], "summary": "Saved posts", "responses": {"200": {"description": "OK"}}}
        },
        "/bookmarks/status": {
            "get": {"tags": ["bookmarks"], "summary": "Bookmark state for post ids", "parameters": [{"name": "postIds", "in": "query", "type": "string"}], "responses": {"200": {"description": "OK"}}}
        },
        "/bookmarks/{postId}/toggle": {
            "post": {"tags": ["bookmarks"], "summary": "Toggle a bookmark", "parameters": [{"name": "postId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Post not found"}}}
        },
        "/profile": {
            "put": {"tags": ["profile"], "summary": "Update own profile", "responses": {"200": {"description": "OK"}}}
        },
        "/profile/{userId}": {
            "get": {"tags": ["profile"], "summary": "Get a profile", "parameters": [{"name": "userId", "in": "path", "required": true, "type": "string"}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not found"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "Friendflix API",
	Description:      "Social media backend: chunked media uploads, posts, follows, notifications, messages, stories and bookmarks.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
